package main

// AggregateKind distinguishes map and set multibindings.
type AggregateKind uint8

const (
	AggregateMap AggregateKind = iota
	AggregateSet
)

// AggregateRequest is a requested map or set shape: map[K]V, map[K]Provider[V],
// []V or []Provider[V].
type AggregateRequest struct {
	Type      *Type
	Kind      AggregateKind
	Key       *Type // maps only
	Value     *Type // V, with any Provider wrapper removed
	Providers bool  // entries are Provider[V]
	Qualifier string
}

// ParseAggregate reports whether t has an aggregate shape.
func ParseAggregate(t *Type, qualifier string, rt RuntimeSurface) (*AggregateRequest, bool) {
	var req AggregateRequest
	switch t.Kind {
	case KindMap:
		req.Kind = AggregateMap
		req.Key = t.Key
	case KindSlice:
		req.Kind = AggregateSet
	default:
		return nil, false
	}
	req.Type = t
	req.Qualifier = qualifier
	req.Value = t.Elem
	if v, ok := rt.ProvidedType(t.Elem); ok {
		req.Value = v
		req.Providers = true
	}
	return &req, true
}

// Contribution is one binding's participation in an aggregate. Key and MapKey
// are set for map contributions only.
type Contribution struct {
	Binding  *Binding
	Key      *Annotation
	MapKey   MultibindingKey
	Provider bool // the binding produces Provider[V] rather than V
}

// Collection holds every binding visible to a request: unique bindings of the
// exact type and, for aggregate shapes, the contributions in traversal order.
type Collection struct {
	Type          *Type
	Qualifier     string
	Request       *AggregateRequest // nil for non-aggregate shapes
	Unique        []*Binding
	Contributions []*Contribution
}

// VisibleModules returns the modules a component installs plus everything
// they include, breadth-first in declaration order, each module once.
func VisibleModules(d *Declarations, roots []string, requestedBy string) ([]*Module, []error) {
	var (
		out   []*Module
		errs  []error
		seen  = make(map[string]bool)
		queue = append([]string(nil), roots...)
		from  = make(map[string]string)
	)
	for _, r := range roots {
		from[r] = requestedBy
	}
	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]
		if seen[path] {
			continue
		}
		seen[path] = true
		m, ok := d.Modules[path]
		if !ok {
			errs = append(errs, &UnknownModuleError{Module: path, RequestedBy: from[path]})
			continue
		}
		out = append(out, m)
		for _, inc := range m.Includes {
			if _, ok := from[inc]; !ok {
				from[inc] = m.Path
			}
			queue = append(queue, inc)
		}
	}
	return out, errs
}

// Collect gathers the bindings for t within modules.
func Collect(modules []*Module, t *Type, qualifier string, rt RuntimeSurface) (*Collection, []error) {
	c := &Collection{Type: t, Qualifier: qualifier}
	c.Request, _ = ParseAggregate(t, qualifier, rt)

	var errs []error
	for _, m := range modules {
		for _, b := range m.Bindings {
			if b.Qualifier != qualifier {
				continue
			}
			switch b.Type {
			case BindingUnique:
				if b.Output.Identical(t) {
					c.Unique = append(c.Unique, b)
				}
			case BindingIntoMap:
				if c.Request == nil || c.Request.Kind != AggregateMap {
					continue
				}
				contrib, err := mapContribution(b, c.Request, rt)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				if contrib != nil {
					c.Contributions = append(c.Contributions, contrib)
				}
			case BindingIntoSet:
				if c.Request == nil || c.Request.Kind != AggregateSet {
					continue
				}
				if provider, ok := contributionShape(b, c.Request, rt); ok {
					c.Contributions = append(c.Contributions, &Contribution{Binding: b, Provider: provider})
				}
			}
		}
	}
	return c, errs
}

// contributionShape reports whether b produces the request's V or Provider[V].
func contributionShape(b *Binding, req *AggregateRequest, rt RuntimeSurface) (provider, ok bool) {
	if b.Output.Identical(req.Value) {
		return false, true
	}
	if v, isProvider := rt.ProvidedType(b.Output); isProvider && v.Identical(req.Value) {
		return true, true
	}
	return false, false
}

// mapContribution returns b's contribution to req, or nil when b's value or
// key type belongs to a different map.
func mapContribution(b *Binding, req *AggregateRequest, rt RuntimeSurface) (*Contribution, error) {
	provider, ok := contributionShape(b, req, rt)
	if !ok {
		return nil, nil
	}
	a, err := MapKey(b)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, &MissingMapKeyError{Binding: b}
	}
	keyType, err := KeyType(a.Def)
	if err != nil {
		return nil, err
	}
	if !keyType.Identical(req.Key) {
		return nil, nil
	}
	key, err := KeyOf(a)
	if err != nil {
		return nil, err
	}
	return &Contribution{Binding: b, Key: a, MapKey: key, Provider: provider}, nil
}
