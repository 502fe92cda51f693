package keys

// PathEnum names a route.
type PathEnum int

const (
	Admin PathEnum = iota
	Login
)

// PathKey keys handlers by route.
//
//multibind:mapkey unwrap
type PathKey struct {
	Value PathEnum
}

// RouteKey keys handlers by method and path.
//
//multibind:mapkey
type RouteKey struct {
	Method string `default:"\"GET\""`
	Path   string
}
