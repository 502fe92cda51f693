package plugins

//multibind:into set
func ProvideAudit() string { return "audit" }

//multibind:into set
//multibind:qualifier extra
func ProvideMetrics() string { return "metrics" }
