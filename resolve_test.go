package main

import (
	"context"
	"go/constant"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolve(t *testing.T, d *Declarations) *Resolution {
	t.Helper()
	res, errs := NewResolver(d, nil).Resolve(d.Components[0])
	require.Empty(t, errs)
	require.NotNil(t, res)
	return res
}

func resolveErrs(t *testing.T, d *Declarations) []error {
	t.Helper()
	res, errs := NewResolver(d, nil).Resolve(d.Components[0])
	assert.Nil(t, res)
	return errs
}

func TestResolveEnumKeyedMap(t *testing.T) {
	d := declarations([]*Binding{
		intoMap("ProvideAdminHandler", handler, pathKey("Admin")),
		intoMap("ProvideLoginHandler", handler, pathKey("Login")),
	}, Request{Method: "Handlers", Type: MapOf(pathEnum, handler)})
	res := resolve(t, d)

	want := []Assignment{
		{
			Field:    "provideAdminHandlerProvider",
			TypeExpr: "rt.Provider[handlers.Handler]",
			Expr:     "rt.Provide(func() handlers.Handler {\n\treturn handlers.ProvideAdminHandler()\n})",
		},
		{
			Field:    "provideLoginHandlerProvider",
			TypeExpr: "rt.Provider[handlers.Handler]",
			Expr:     "rt.Provide(func() handlers.Handler {\n\treturn handlers.ProvideLoginHandler()\n})",
		},
		{
			Field:    "mapOfPathEnumAndProviderOfHandlerProvider",
			TypeExpr: "rt.Provider[map[keys.PathEnum]rt.Provider[handlers.Handler]]",
			Expr: "rt.NewMapProviderFactoryBuilder[keys.PathEnum, handlers.Handler](2).\n" +
				"\tPut(keys.Admin, c.provideAdminHandlerProvider).\n" +
				"\tPut(keys.Login, c.provideLoginHandlerProvider).\n" +
				"\tBuild()",
		},
		{
			Field:    "mapOfPathEnumAndHandlerProvider",
			TypeExpr: "rt.Provider[map[keys.PathEnum]handlers.Handler]",
			Expr:     "rt.NewMapFactory(c.mapOfPathEnumAndProviderOfHandlerProvider)",
		},
	}
	if diff := cmp.Diff(want, res.Fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []Method{{
		Name:       "Handlers",
		ResultType: "map[keys.PathEnum]handlers.Handler",
		Return:     "c.mapOfPathEnumAndHandlerProvider.Get()",
	}}, res.Methods)
	assert.Empty(t, res.Creators)
}

func TestResolvePlainMapPassthrough(t *testing.T) {
	d := declarations([]*Binding{
		provides("ProvideRoutes", MapOf(Basic("string"), handler)),
	}, Request{Method: "Routes", Type: MapOf(Basic("string"), handler)})
	res := resolve(t, d)

	require.Len(t, res.Fields, 1)
	assert.Equal(t, "provideRoutesProvider", res.Fields[0].Field)
	assert.Equal(t, "rt.Provide(func() map[string]handlers.Handler {\n\treturn handlers.ProvideRoutes()\n})", res.Fields[0].Expr)
	assert.Equal(t, "c.provideRoutesProvider.Get()", res.Methods[0].Return)
}

func TestResolveDependenciesFirst(t *testing.T) {
	d := declarations([]*Binding{
		intoMap("ProvideIndex", handler, routeKey("/")),
		provides("ProvidePrefix", Basic("string")),
	}, Request{Method: "Routes", Type: MapOf(routeKeyDef.Type, testRT.ProviderOf(handler))})
	d.Modules[handlersPkg].Bindings[0].Params = []*Type{Basic("string")}
	res := resolve(t, d)

	var fields []string
	for _, f := range res.Fields {
		fields = append(fields, f.Field)
	}
	assert.Equal(t, []string{"providePrefixProvider", "provideIndexProvider", "mapOfRouteKeyAndProviderOfHandlerProvider"}, fields)
	assert.Equal(t, "rt.Provide(func() handlers.Handler {\n\treturn handlers.ProvideIndex(c.providePrefixProvider.Get())\n})", res.Fields[1].Expr)
	assert.Equal(t, []*KeyDefinition{routeKeyDef}, res.Creators)
	assert.Equal(t, "c.mapOfRouteKeyAndProviderOfHandlerProvider.Get()", res.Methods[0].Return)
}

func TestResolveProviderRequests(t *testing.T) {
	d := declarations([]*Binding{
		provides("ProvideHandler", handler),
		provides("ProvideName", Basic("string"), testRT.ProviderOf(handler)),
	},
		Request{Method: "Handler", Type: testRT.ProviderOf(handler)},
		Request{Method: "Name", Type: Basic("string")},
	)
	res := resolve(t, d)

	assert.Equal(t, "c.provideHandlerProvider", res.Methods[0].Return)
	assert.Equal(t, "rt.Provider[handlers.Handler]", res.Methods[0].ResultType)
	assert.Equal(t, "c.provideNameProvider.Get()", res.Methods[1].Return)
	assert.Contains(t, res.Fields[1].Expr, "handlers.ProvideName(c.provideHandlerProvider)")
}

func TestResolveMembersInjector(t *testing.T) {
	injector := Named(testRT.PkgPath, testRT.MembersInjector, handler)
	d := declarations(nil, Request{Method: "Inject", Type: injector})
	res := resolve(t, d)

	assert.Equal(t, []Assignment{{
		Field:    "handlerMembersInjector",
		TypeExpr: "rt.MembersInjector[handlers.Handler]",
		Expr:     "rt.NoOpMembersInjector[handlers.Handler]()",
	}}, res.Fields)
	assert.Equal(t, "c.handlerMembersInjector", res.Methods[0].Return)
}

func TestResolveEmptyAggregates(t *testing.T) {
	d := declarations(nil,
		Request{Method: "Handlers", Type: MapOf(pathEnum, handler)},
		Request{Method: "Plugins", Type: SliceOf(Basic("string"))},
	)
	res := resolve(t, d)
	require.Len(t, res.Fields, 2)
	assert.Equal(t, "rt.EmptyMapFactory[keys.PathEnum, handlers.Handler]()", res.Fields[0].Expr)
	assert.Equal(t, "rt.EmptySetFactory[string]()", res.Fields[1].Expr)
}

func TestResolveSharedBindings(t *testing.T) {
	admin := intoMap("ProvideAdminHandler", handler, pathKey("Admin"))
	d := declarations([]*Binding{admin},
		Request{Method: "Handlers", Type: MapOf(pathEnum, handler)},
		Request{Method: "HandlerProviders", Type: MapOf(pathEnum, testRT.ProviderOf(handler))},
	)
	res := resolve(t, d)

	var fields []string
	for _, f := range res.Fields {
		fields = append(fields, f.Field)
	}
	assert.Equal(t, []string{
		"provideAdminHandlerProvider",
		"mapOfPathEnumAndProviderOfHandlerProvider",
		"mapOfPathEnumAndHandlerProvider",
	}, fields)
	assert.Equal(t, "c.mapOfPathEnumAndProviderOfHandlerProvider.Get()", res.Methods[1].Return)
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name     string
		bindings []*Binding
		requests []Request
		kinds    []string
	}{
		{
			name: "duplicate map key",
			bindings: []*Binding{
				intoMap("ProvideA", handler, pathKey("Admin")),
				intoMap("ProvideB", handler, pathKey("Admin")),
			},
			requests: []Request{{Method: "Handlers", Type: MapOf(pathEnum, handler)}},
			kinds:    []string{"DuplicateMapKey"},
		},
		{
			name: "aliased constant and literal map keys",
			bindings: []*Binding{
				intoMap("ProvideA", handler, unwrappedKey(pathEnum, EnumValue{Type: pathEnum, Name: "Admin", Const: constant.MakeInt64(0)})),
				intoMap("ProvideB", handler, unwrappedKey(pathEnum, EnumValue{Type: pathEnum, Name: "Root", Const: constant.MakeInt64(0)})),
				intoMap("ProvideC", handler, unwrappedKey(pathEnum, IntValue{V: 0})),
			},
			requests: []Request{{Method: "Handlers", Type: MapOf(pathEnum, handler)}},
			kinds:    []string{"DuplicateMapKey"},
		},
		{
			name: "mixed key types",
			bindings: []*Binding{
				intoMap("ProvideA", handler, stringKey("a")),
				intoMap("ProvideB", handler, nameKey("b")),
			},
			requests: []Request{{Method: "Handlers", Type: MapOf(Basic("string"), handler)}},
			kinds:    []string{"InconsistentMapKeyAnnotationType"},
		},
		{
			name: "array unwrap",
			bindings: []*Binding{
				intoMap("ProvideA", handler, unwrappedKey(SliceOf(Basic("string")), ArrayValue{Elem: Basic("string")})),
			},
			requests: []Request{{Method: "Handlers", Type: MapOf(SliceOf(Basic("string")), handler)}},
			kinds:    []string{"ArrayKeyType"},
		},
		{
			name:     "missing binding",
			bindings: []*Binding{provides("ProvideName", Basic("string"), handler)},
			requests: []Request{{Method: "Name", Type: Basic("string")}},
			kinds:    []string{"MissingBinding"},
		},
		{
			name:     "duplicate binding",
			bindings: []*Binding{provides("ProvideA", handler), provides("ProvideB", handler)},
			requests: []Request{{Method: "Handler", Type: handler}},
			kinds:    []string{"DuplicateBinding"},
		},
		{
			name: "cycle",
			bindings: []*Binding{
				provides("ProvideHandler", handler, Basic("string")),
				provides("ProvideName", Basic("string"), handler),
			},
			requests: []Request{{Method: "Handler", Type: handler}},
			kinds:    []string{"DependencyCycle"},
		},
		{
			name: "unique and contributions",
			bindings: []*Binding{
				provides("ProvideNames", SliceOf(Basic("string"))),
				intoSet("ProvideName", Basic("string")),
			},
			requests: []Request{{Method: "Names", Type: SliceOf(Basic("string"))}},
			kinds:    []string{"ConflictingBindingKinds"},
		},
		{
			name: "inconsistent shape",
			bindings: []*Binding{
				intoSet("ProvideA", handler),
				intoSet("ProvideB", testRT.ProviderOf(handler)),
			},
			requests: []Request{{Method: "Handlers", Type: SliceOf(handler)}},
			kinds:    []string{"InconsistentMultibindingShape"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := resolveErrs(t, declarations(tt.bindings, tt.requests...))
			require.Len(t, errs, len(tt.kinds))
			assert.Equal(t, tt.kinds, sortedKinds(errs))
		})
	}
}

func TestResolveUnknownModule(t *testing.T) {
	d := declarations(nil, Request{Method: "Plugins", Type: SliceOf(Basic("string"))})
	d.Components[0].Modules = append(d.Components[0].Modules, "example.com/app/missing")
	errs := resolveErrs(t, d)
	require.Len(t, errs, 1)
	var target *UnknownModuleError
	assert.ErrorAs(t, errs[0], &target)
}

func TestResolveAll(t *testing.T) {
	d := declarations([]*Binding{
		intoMap("ProvideA", handler, pathKey("Admin")),
		intoMap("ProvideB", handler, pathKey("Admin")),
		intoSet("ProvidePlugin", Basic("string")),
	}, Request{Method: "Handlers", Type: MapOf(pathEnum, handler)})
	d.Components = append(d.Components, &Component{
		Name:     "PluginComponent",
		PkgPath:  appPkg,
		PkgName:  "app",
		Modules:  []string{handlersPkg},
		Requests: []Request{{Method: "Plugins", Type: SliceOf(Basic("string"))}},
	})

	for _, jobs := range []int{0, 1, 4} {
		results, errs := NewResolver(d, nil).ResolveAll(context.Background(), jobs)
		require.Len(t, results, 1)
		assert.Equal(t, "PluginComponent", results[0].Component.Name)
		require.Len(t, errs, 1)
		var target *DuplicateMapKeyError
		assert.ErrorAs(t, errs[0], &target)
	}
}

func TestResolveAllCanceled(t *testing.T) {
	d := declarations(nil, Request{Method: "Plugins", Type: SliceOf(Basic("string"))})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, errs := NewResolver(d, nil).ResolveAll(ctx, 1)
	assert.Empty(t, results)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], context.Canceled)
}
