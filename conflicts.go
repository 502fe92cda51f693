package main

// ValidateConflicts checks the contributions of a map for duplicate keys and
// for mixed key annotation types. Each check reports at most one error.
func ValidateConflicts(c *Collection) []error {
	if c.Request == nil || c.Request.Kind != AggregateMap || len(c.Contributions) < 2 {
		return nil
	}
	var errs []error
	if err := duplicateKeys(c); err != nil {
		errs = append(errs, err)
	}
	if err := inconsistentKeyTypes(c); err != nil {
		errs = append(errs, err)
	}
	return errs
}

func duplicateKeys(c *Collection) error {
	var order []MultibindingKey
	byKey := make(map[MultibindingKey][]*Binding)
	for _, contrib := range c.Contributions {
		if _, ok := byKey[contrib.MapKey]; !ok {
			order = append(order, contrib.MapKey)
		}
		byKey[contrib.MapKey] = append(byKey[contrib.MapKey], contrib.Binding)
	}
	var groups [][]*Binding
	for _, k := range order {
		if len(byKey[k]) > 1 {
			groups = append(groups, byKey[k])
		}
	}
	if len(groups) == 0 {
		return nil
	}
	return &DuplicateMapKeyError{Map: c.Type, Groups: groups}
}

func inconsistentKeyTypes(c *Collection) error {
	var groups []KeyTypeGroup
	index := make(map[string]int)
	for _, contrib := range c.Contributions {
		t := contrib.Key.Def.Type
		i, ok := index[t.String()]
		if !ok {
			i = len(groups)
			index[t.String()] = i
			groups = append(groups, KeyTypeGroup{Type: t})
		}
		groups[i].Bindings = append(groups[i].Bindings, contrib.Binding)
	}
	if len(groups) < 2 {
		return nil
	}
	return &InconsistentMapKeyAnnotationTypeError{Map: c.Type, Groups: groups}
}
