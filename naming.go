package main

import (
	"strconv"
	"unicode"
)

// FieldNamer hands out component field names. A key always maps to the same
// name and distinct keys never share one.
type FieldNamer struct {
	rt    RuntimeSurface
	byKey map[string]string
	taken map[string]bool
}

// NewFieldNamer returns a namer for one generated component.
func NewFieldNamer(rt RuntimeSurface, reserved ...string) *FieldNamer {
	n := &FieldNamer{rt: rt, byKey: make(map[string]string), taken: make(map[string]bool)}
	for _, r := range reserved {
		n.taken[r] = true
	}
	return n
}

// Field returns the name recorded for key, assigning base (suffixed on
// collision) the first time key is seen.
func (n *FieldNamer) Field(key, base string) string {
	if name, ok := n.byKey[key]; ok {
		return name
	}
	name := base
	for i := 2; n.taken[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	n.taken[name] = true
	n.byKey[key] = name
	return name
}

// Binding names the field holding b's provider: "<member>Provider".
func (n *FieldNamer) Binding(b *Binding) string {
	return n.Field("binding:"+b.Module+"."+b.Member, lowerFirst(b.Member)+"Provider")
}

// Aggregate names the field holding the provider of the requested aggregate.
func (n *FieldNamer) Aggregate(req *AggregateRequest) string {
	return n.Field("aggregate:"+req.Qualifier+"|"+req.Type.String(), AggregateFieldName(req.Type, n.rt))
}

// ProviderMap names the field holding the map of providers backing a
// map-of-value request.
func (n *FieldNamer) ProviderMap(req *AggregateRequest) string {
	t := MapOf(req.Key, n.rt.ProviderOf(req.Value))
	return n.Field("aggregate:"+req.Qualifier+"|"+t.String(), AggregateFieldName(t, n.rt))
}

// AggregateFieldName returns "mapOf<K>And<V>Provider" for maps and
// "setOf<V>Provider" for slices.
func AggregateFieldName(t *Type, rt RuntimeSurface) string {
	switch t.Kind {
	case KindMap:
		return "mapOf" + typeWord(t.Key, rt) + "And" + typeWord(t.Elem, rt) + "Provider"
	case KindSlice:
		return "setOf" + typeWord(t.Elem, rt) + "Provider"
	default:
		return lowerFirst(typeWord(t, rt)) + "Provider"
	}
}

// typeWord renders t as an identifier fragment, e.g. Provider[Handler] →
// "ProviderOfHandler".
func typeWord(t *Type, rt RuntimeSurface) string {
	if t == nil {
		return ""
	}
	switch t.Kind {
	case KindBasic:
		return upperFirst(t.Name)
	case KindNamed:
		if v, ok := rt.ProvidedType(t); ok {
			return "ProviderOf" + typeWord(v, rt)
		}
		w := upperFirst(t.Name)
		for i, a := range t.Args {
			if i == 0 {
				w += "Of"
			} else {
				w += "And"
			}
			w += typeWord(a, rt)
		}
		return w
	case KindPointer:
		return typeWord(t.Elem, rt)
	case KindSlice, KindArray:
		return "SliceOf" + typeWord(t.Elem, rt)
	case KindMap:
		return "MapOf" + typeWord(t.Key, rt) + "And" + typeWord(t.Elem, rt)
	}
	return ""
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	// "URLHandler" → "urlHandler"
	i := 0
	for i < len(r) && unicode.IsUpper(r[i]) {
		if i > 0 && i+1 < len(r) && unicode.IsLower(r[i+1]) {
			break
		}
		r[i] = unicode.ToLower(r[i])
		i++
	}
	return string(r)
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
