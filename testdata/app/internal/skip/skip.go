package skip

//multibind:provides
func ProvideSkipped() float64 { return 0 }
