package main

import "strings"

// MemberSelect is a reference to a field or function that generated code can
// use to obtain a framework value.
type MemberSelect interface {
	// ExpressionFor returns the expression valid inside the package of imports.
	ExpressionFor(imports *ImportSet) string
	// Static reports whether the member needs no component instance.
	Static() bool
}

// LocalField selects a field of the component being generated through its
// receiver.
func LocalField(recv, field string) MemberSelect {
	return localField{recv: recv, field: field}
}

type localField struct {
	recv  string
	field string
}

func (f localField) ExpressionFor(*ImportSet) string { return f.recv + "." + f.field }
func (f localField) Static() bool                    { return false }

// StaticFunc selects a call of a package-level function.
func StaticFunc(pkgPath, call string) MemberSelect {
	return staticFunc{pkgPath: pkgPath, call: call}
}

type staticFunc struct {
	pkgPath string
	call    string
}

func (f staticFunc) ExpressionFor(imports *ImportSet) string {
	if prefix := imports.Qualify(f.pkgPath); prefix != "" {
		return prefix + "." + f.call
	}
	return f.call
}

func (f staticFunc) Static() bool { return true }

// parameterizedStaticFunc calls a generic runtime function. When any type
// argument cannot be named from the emitting package it falls back to the
// untyped twin converted to the raw return type.
type parameterizedStaticFunc struct {
	rt       RuntimeSurface
	fn       string
	typeArgs []*Type
	rawType  string
}

func (f parameterizedStaticFunc) ExpressionFor(imports *ImportSet) string {
	prefix := imports.QualifyNamed(f.rt.PkgPath, f.rt.PkgName)
	qualify := func(name string) string {
		if prefix == "" {
			return name
		}
		return prefix + "." + name
	}
	accessible := true
	for _, t := range f.typeArgs {
		accessible = accessible && IsAccessibleFrom(t, imports.PkgPath())
	}
	if !accessible {
		return qualify(f.rawType) + "(" + qualify(f.fn+f.rt.RawSuffix) + "())"
	}
	args := make([]string, 0, len(f.typeArgs))
	for _, t := range f.typeArgs {
		args = append(args, imports.TypeString(t))
	}
	return qualify(f.fn) + "[" + strings.Join(args, ", ") + "]()"
}

func (f parameterizedStaticFunc) Static() bool { return true }

// EmptyMapProviderFactory selects the empty map[K]Provider[V] factory.
func EmptyMapProviderFactory(rt RuntimeSurface, key, value *Type) MemberSelect {
	return parameterizedStaticFunc{rt: rt, fn: rt.EmptyMapOfProv, typeArgs: []*Type{key, value}, rawType: rt.RawProvider}
}

// EmptyMapFactory selects the empty map[K]V factory.
func EmptyMapFactory(rt RuntimeSurface, key, value *Type) MemberSelect {
	return parameterizedStaticFunc{rt: rt, fn: rt.EmptyMap, typeArgs: []*Type{key, value}, rawType: rt.RawProvider}
}

// EmptySetFactory selects the empty []V factory.
func EmptySetFactory(rt RuntimeSurface, elem *Type) MemberSelect {
	return parameterizedStaticFunc{rt: rt, fn: rt.EmptySet, typeArgs: []*Type{elem}, rawType: rt.RawProvider}
}

// EmptySetOfProviderFactory selects the empty []Provider[V] factory.
func EmptySetOfProviderFactory(rt RuntimeSurface, elem *Type) MemberSelect {
	return parameterizedStaticFunc{rt: rt, fn: rt.EmptySetOfProv, typeArgs: []*Type{elem}, rawType: rt.RawProvider}
}

// NoOpMembersInjector selects the injector for a type without injectable members.
func NoOpMembersInjector(rt RuntimeSurface, t *Type) MemberSelect {
	return parameterizedStaticFunc{rt: rt, fn: rt.NoOpInjector, typeArgs: []*Type{t}, rawType: rt.RawInjector}
}
