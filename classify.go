package main

// Classification is the resolved shape of a request.
type Classification uint8

const (
	NotMultibinding Classification = iota
	MapOfValue
	MapOfProvider
	SetOfValue
	SetOfProvider
	EmptyMap
	EmptySet
)

func (c Classification) String() string {
	switch c {
	case MapOfValue:
		return "map-of-value"
	case MapOfProvider:
		return "map-of-provider"
	case SetOfValue:
		return "set-of-value"
	case SetOfProvider:
		return "set-of-provider"
	case EmptyMap:
		return "empty-map"
	case EmptySet:
		return "empty-set"
	default:
		return "not-a-multibinding"
	}
}

// IsEmpty reports whether c is an aggregate without contributions.
func (c Classification) IsEmpty() bool {
	return c == EmptyMap || c == EmptySet
}

// Classify decides what c resolves to. An aggregate shape with nothing bound
// is an empty aggregate, not an error.
func Classify(c *Collection) (Classification, []error) {
	req := c.Request
	if req == nil {
		return NotMultibinding, nil
	}
	if len(c.Contributions) == 0 {
		if len(c.Unique) > 0 {
			return NotMultibinding, nil
		}
		if req.Kind == AggregateMap {
			return EmptyMap, nil
		}
		return EmptySet, nil
	}
	if len(c.Unique) > 0 {
		contribs := make([]*Binding, 0, len(c.Contributions))
		for _, contrib := range c.Contributions {
			contribs = append(contribs, contrib.Binding)
		}
		return NotMultibinding, []error{&ConflictingBindingKindsError{Type: c.Type, Unique: c.Unique, Contributions: contribs}}
	}

	var errs []error
	if !req.Providers {
		first := c.Contributions[0]
		expected := first.Binding.Output
		for _, contrib := range c.Contributions[1:] {
			if contrib.Provider != first.Provider {
				errs = append(errs, &InconsistentMultibindingShapeError{
					Aggregate: c.Type,
					Binding:   contrib.Binding,
					Expected:  expected,
				})
			}
		}
	}

	switch {
	case req.Kind == AggregateMap && req.Providers:
		return MapOfProvider, errs
	case req.Kind == AggregateMap:
		return MapOfValue, errs
	case req.Providers:
		return SetOfProvider, errs
	default:
		return SetOfValue, errs
	}
}
