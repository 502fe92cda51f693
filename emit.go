package main

import (
	"fmt"
	"strconv"
	"strings"
)

// Assignment initializes one component field.
type Assignment struct {
	Field    string
	TypeExpr string // field type
	Expr     string
}

// AggregateEmission is the code building one requested aggregate. Field holds
// the aggregate's provider once every assignment has run.
type AggregateEmission struct {
	Class       Classification
	Field       string
	Assignments []Assignment
}

// Emitter renders aggregate construction for one generated component. It is
// not safe for concurrent use.
type Emitter struct {
	Runtime RuntimeSurface
	Imports *ImportSet
	Recv    string
	Names   *FieldNamer

	keys keyExpression
	done map[string]bool
}

// NewEmitter returns an emitter writing into the package of imports.
func NewEmitter(rt RuntimeSurface, imports *ImportSet, names *FieldNamer) *Emitter {
	return &Emitter{
		Runtime: rt,
		Imports: imports,
		Recv:    "c",
		Names:   names,
		keys:    keyExpression{imports: imports},
		done:    make(map[string]bool),
	}
}

// Creators returns the key definitions whose creator functions the emitted
// code calls, in first-use order.
func (e *Emitter) Creators() []*KeyDefinition {
	return e.keys.Creators
}

// Emit renders the aggregate c was classified as. Fields of the contributing
// bindings must be initialized before the returned assignments run.
func (e *Emitter) Emit(c *Collection, class Classification) (*AggregateEmission, error) {
	req := c.Request
	if req == nil || class == NotMultibinding {
		return nil, fmt.Errorf("%s is not a multibinding", c.Type)
	}
	out := &AggregateEmission{Class: class, Field: e.Names.Aggregate(req)}

	switch class {
	case MapOfProvider:
		expr, err := e.providerMap(c)
		if err != nil {
			return nil, err
		}
		e.assign(out, out.Field, req.Type, expr)
	case MapOfValue:
		expr, err := e.providerMap(c)
		if err != nil {
			return nil, err
		}
		backing := e.Names.ProviderMap(req)
		e.assign(out, backing, MapOf(req.Key, e.Runtime.ProviderOf(req.Value)), expr)
		e.assign(out, out.Field, req.Type, e.rt(e.Runtime.MapFactory)+"("+LocalField(e.Recv, backing).ExpressionFor(e.Imports)+")")
	case SetOfValue:
		e.assign(out, out.Field, req.Type, e.rt(e.Runtime.SetFactory)+"("+strings.Join(e.accessors(c), ", ")+")")
	case SetOfProvider:
		e.assign(out, out.Field, req.Type, e.rt(e.Runtime.SetOfProvider)+"("+strings.Join(e.accessors(c), ", ")+")")
	case EmptyMap:
		sel := EmptyMapFactory(e.Runtime, req.Key, req.Value)
		if req.Providers {
			sel = EmptyMapProviderFactory(e.Runtime, req.Key, req.Value)
		}
		e.assign(out, out.Field, req.Type, sel.ExpressionFor(e.Imports))
	case EmptySet:
		sel := EmptySetFactory(e.Runtime, req.Value)
		if req.Providers {
			sel = EmptySetOfProviderFactory(e.Runtime, req.Value)
		}
		e.assign(out, out.Field, req.Type, sel.ExpressionFor(e.Imports))
	}
	return out, nil
}

// providerMap renders the sized builder for map[K]Provider[V], one Put per
// contribution in contribution order.
func (e *Emitter) providerMap(c *Collection) (string, error) {
	req := c.Request
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%s, %s](%s)", e.rt(e.Runtime.MapBuilder),
		e.Imports.TypeString(req.Key), e.Imports.TypeString(req.Value), strconv.Itoa(len(c.Contributions)))
	for _, contrib := range c.Contributions {
		key, err := e.keys.mapKey(contrib.Binding)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, ".\n\t%s(%s, %s)", e.Runtime.Put, key, e.accessor(contrib))
	}
	fmt.Fprintf(&b, ".\n\t%s()", e.Runtime.Build)
	return b.String(), nil
}

func (e *Emitter) accessors(c *Collection) []string {
	out := make([]string, 0, len(c.Contributions))
	for _, contrib := range c.Contributions {
		out = append(out, e.accessor(contrib))
	}
	return out
}

// accessor returns the Provider[V] of a contribution. Bindings producing
// Provider[V] sit in a Provider[Provider[V]] field and are flattened.
func (e *Emitter) accessor(contrib *Contribution) string {
	expr := LocalField(e.Recv, e.Names.Binding(contrib.Binding)).ExpressionFor(e.Imports)
	if contrib.Provider {
		return e.rt(e.Runtime.Flatten) + "(" + expr + ")"
	}
	return expr
}

// assign records a field initialization unless an earlier emission already
// produced the same field.
func (e *Emitter) assign(out *AggregateEmission, field string, t *Type, expr string) {
	if e.done[field] {
		return
	}
	e.done[field] = true
	out.Assignments = append(out.Assignments, Assignment{Field: field, TypeExpr: e.ProviderType(t), Expr: expr})
}

// ProviderType renders Provider[t], or the raw provider type when t cannot be
// named from the emitting package.
func (e *Emitter) ProviderType(t *Type) string {
	if !IsAccessibleFrom(t, e.Imports.PkgPath()) {
		return e.rt(e.Runtime.RawProvider)
	}
	return e.Imports.TypeString(e.Runtime.ProviderOf(t))
}

func (e *Emitter) rt(name string) string {
	if prefix := e.Imports.QualifyNamed(e.Runtime.PkgPath, e.Runtime.PkgName); prefix != "" {
		return prefix + "." + name
	}
	return name
}
