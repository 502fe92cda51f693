package main

import "go/token"

const (
	appPkg      = "example.com/app"
	keysPkg     = "example.com/app/keys"
	handlersPkg = "example.com/app/handlers"
	rtPkg       = "example.com/app/rt"
)

var testRT = DefaultRuntime(rtPkg)

// Key definitions shared by the engine tests.
var (
	pathEnum = Named(keysPkg, "PathEnum")
	handler  = Named(handlersPkg, "Handler")

	pathKeyDef = &KeyDefinition{
		Type:    Named(keysPkg, "PathKey"),
		MapKey:  true,
		Unwrap:  true,
		Members: []Member{{Name: "Value", Type: pathEnum}},
	}
	stringKeyDef = &KeyDefinition{
		Type:    Named(keysPkg, "StringKey"),
		MapKey:  true,
		Unwrap:  true,
		Members: []Member{{Name: "Value", Type: Basic("string")}},
	}
	nameKeyDef = &KeyDefinition{
		Type:    Named(keysPkg, "NameKey"),
		MapKey:  true,
		Unwrap:  true,
		Members: []Member{{Name: "Name", Type: Basic("string")}},
	}
	routeKeyDef = &KeyDefinition{
		Type:   Named(keysPkg, "RouteKey"),
		MapKey: true,
		Members: []Member{
			{Name: "Method", Type: Basic("string"), Default: StringValue("GET")},
			{Name: "Path", Type: Basic("string")},
		},
	}
)

func pathKey(name string) *Annotation {
	return &Annotation{Def: pathKeyDef, Values: []MemberValue{{Name: "Value", Value: EnumValue{Type: pathEnum, Name: name}}}}
}

func stringKey(s string) *Annotation {
	return &Annotation{Def: stringKeyDef, Values: []MemberValue{{Name: "Value", Value: StringValue(s)}}}
}

func nameKey(s string) *Annotation {
	return &Annotation{Def: nameKeyDef, Values: []MemberValue{{Name: "Name", Value: StringValue(s)}}}
}

func routeKey(path string) *Annotation {
	return &Annotation{Def: routeKeyDef, Values: []MemberValue{{Name: "Path", Value: StringValue(path)}}}
}

// intoMap declares a map contribution from handlersPkg.
func intoMap(member string, out *Type, keys ...*Annotation) *Binding {
	return &Binding{
		Module:      handlersPkg,
		PkgName:     "handlers",
		Member:      member,
		Output:      out,
		Type:        BindingIntoMap,
		Annotations: keys,
		Position:    token.Position{Filename: "handlers.go", Line: 1},
	}
}

func intoSet(member string, out *Type) *Binding {
	return &Binding{Module: handlersPkg, PkgName: "handlers", Member: member, Output: out, Type: BindingIntoSet}
}

func provides(member string, out *Type, params ...*Type) *Binding {
	return &Binding{Module: handlersPkg, PkgName: "handlers", Member: member, Output: out, Type: BindingUnique, Params: params}
}

// declarations builds one module holding bindings and one component
// installing it.
func declarations(bindings []*Binding, requests ...Request) *Declarations {
	d := NewDeclarations(testRT)
	d.AddModule(&Module{Path: handlersPkg, Name: "handlers", Bindings: bindings})
	d.Components = append(d.Components, &Component{
		Name:     "AppComponent",
		PkgPath:  appPkg,
		PkgName:  "app",
		Modules:  []string{handlersPkg},
		Requests: requests,
	})
	return d
}
