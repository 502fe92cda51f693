package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emit(t *testing.T, bindings []*Binding, requested *Type) (*Emitter, *AggregateEmission) {
	t.Helper()
	c := collect(t, bindings, requested, "")
	class, errs := Classify(c)
	require.Empty(t, errs)
	em := NewEmitter(testRT, NewImportSet(appPkg), NewFieldNamer(testRT))
	out, err := em.Emit(c, class)
	require.NoError(t, err)
	return em, out
}

func TestEmitEnumKeyedMapOfProvider(t *testing.T) {
	bindings := []*Binding{
		intoMap("ProvideAdminHandler", handler, pathKey("Admin")),
		intoMap("ProvideLoginHandler", handler, pathKey("Login")),
	}
	_, out := emit(t, bindings, MapOf(pathEnum, testRT.ProviderOf(handler)))

	want := []Assignment{{
		Field:    "mapOfPathEnumAndProviderOfHandlerProvider",
		TypeExpr: "rt.Provider[map[keys.PathEnum]rt.Provider[handlers.Handler]]",
		Expr: "rt.NewMapProviderFactoryBuilder[keys.PathEnum, handlers.Handler](2).\n" +
			"\tPut(keys.Admin, c.provideAdminHandlerProvider).\n" +
			"\tPut(keys.Login, c.provideLoginHandlerProvider).\n" +
			"\tBuild()",
	}}
	assert.Equal(t, MapOfProvider, out.Class)
	assert.Equal(t, "mapOfPathEnumAndProviderOfHandlerProvider", out.Field)
	if diff := cmp.Diff(want, out.Assignments); diff != "" {
		t.Errorf("assignments mismatch (-want +got):\n%s", diff)
	}
}

func TestEmitMapOfValueWrapsProviderMap(t *testing.T) {
	bindings := []*Binding{
		intoMap("ProvideAdminHandler", handler, pathKey("Admin")),
		intoMap("ProvideLoginHandler", handler, pathKey("Login")),
	}
	_, out := emit(t, bindings, MapOf(pathEnum, handler))

	want := []Assignment{
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
	assert.Equal(t, "mapOfPathEnumAndHandlerProvider", out.Field)
	if diff := cmp.Diff(want, out.Assignments); diff != "" {
		t.Errorf("assignments mismatch (-want +got):\n%s", diff)
	}
}

func TestEmitFlattensProviderContributions(t *testing.T) {
	bindings := []*Binding{
		intoMap("ProvideAdminHandler", handler, pathKey("Admin")),
		intoMap("ProvideLazyLogin", testRT.ProviderOf(handler), pathKey("Login")),
	}
	_, out := emit(t, bindings, MapOf(pathEnum, testRT.ProviderOf(handler)))
	require.Len(t, out.Assignments, 1)
	assert.Contains(t, out.Assignments[0].Expr, "Put(keys.Login, rt.Flatten(c.provideLazyLoginProvider))")
}

func TestEmitCreatorKeys(t *testing.T) {
	em, out := emit(t, []*Binding{intoMap("ProvideIndex", handler, routeKey("/"))}, MapOf(routeKeyDef.Type, testRT.ProviderOf(handler)))
	require.Len(t, out.Assignments, 1)
	assert.Contains(t, out.Assignments[0].Expr, `Put(keys.CreateRouteKey("GET", "/"), c.provideIndexProvider)`)
	assert.Equal(t, []*KeyDefinition{routeKeyDef}, em.Creators())
}

func TestEmitSets(t *testing.T) {
	bindings := []*Binding{intoSet("ProvideA", handler), intoSet("ProvideB", testRT.ProviderOf(handler))}

	_, out := emit(t, bindings, SliceOf(testRT.ProviderOf(handler)))
	want := []Assignment{{
		Field:    "setOfProviderOfHandlerProvider",
		TypeExpr: "rt.Provider[[]rt.Provider[handlers.Handler]]",
		Expr:     "rt.NewSetOfProviderFactory(c.provideAProvider, rt.Flatten(c.provideBProvider))",
	}}
	if diff := cmp.Diff(want, out.Assignments); diff != "" {
		t.Errorf("assignments mismatch (-want +got):\n%s", diff)
	}

	_, out = emit(t, bindings[:1], SliceOf(handler))
	want = []Assignment{{
		Field:    "setOfHandlerProvider",
		TypeExpr: "rt.Provider[[]handlers.Handler]",
		Expr:     "rt.NewSetFactory(c.provideAProvider)",
	}}
	if diff := cmp.Diff(want, out.Assignments); diff != "" {
		t.Errorf("assignments mismatch (-want +got):\n%s", diff)
	}
}

func TestEmitEmpty(t *testing.T) {
	hidden := Named(handlersPkg, "handler")
	tests := []struct {
		name      string
		requested *Type
		want      Assignment
	}{
		{"map", MapOf(Basic("string"), handler), Assignment{
			Field:    "mapOfStringAndHandlerProvider",
			TypeExpr: "rt.Provider[map[string]handlers.Handler]",
			Expr:     "rt.EmptyMapFactory[string, handlers.Handler]()",
		}},
		{"map of provider", MapOf(Basic("string"), testRT.ProviderOf(handler)), Assignment{
			Field:    "mapOfStringAndProviderOfHandlerProvider",
			TypeExpr: "rt.Provider[map[string]rt.Provider[handlers.Handler]]",
			Expr:     "rt.EmptyMapProviderFactory[string, handlers.Handler]()",
		}},
		{"set", SliceOf(handler), Assignment{
			Field:    "setOfHandlerProvider",
			TypeExpr: "rt.Provider[[]handlers.Handler]",
			Expr:     "rt.EmptySetFactory[handlers.Handler]()",
		}},
		{"set of provider", SliceOf(testRT.ProviderOf(handler)), Assignment{
			Field:    "setOfProviderOfHandlerProvider",
			TypeExpr: "rt.Provider[[]rt.Provider[handlers.Handler]]",
			Expr:     "rt.EmptySetOfProviderFactory[handlers.Handler]()",
		}},
		{"inaccessible map falls back to raw", MapOf(Basic("string"), hidden), Assignment{
			Field:    "mapOfStringAndHandlerProvider",
			TypeExpr: "rt.AnyProvider",
			Expr:     "rt.AnyProvider(rt.EmptyMapFactoryRaw())",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out := emit(t, nil, tt.requested)
			if diff := cmp.Diff([]Assignment{tt.want}, out.Assignments); diff != "" {
				t.Errorf("assignments mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEmitIsDeterministic(t *testing.T) {
	bindings := []*Binding{
		intoMap("ProvideAdminHandler", handler, pathKey("Admin")),
		intoMap("ProvideIndex", handler, routeKey("/")),
		intoMap("ProvideLoginHandler", handler, pathKey("Login")),
	}
	_, first := emit(t, bindings, MapOf(pathEnum, handler))
	for i := 0; i < 5; i++ {
		_, again := emit(t, bindings, MapOf(pathEnum, handler))
		assert.Equal(t, first, again)
	}
}

func TestEmitSharedFieldsOnce(t *testing.T) {
	bindings := []*Binding{intoMap("ProvideAdminHandler", handler, pathKey("Admin"))}
	em := NewEmitter(testRT, NewImportSet(appPkg), NewFieldNamer(testRT))

	providers := collect(t, bindings, MapOf(pathEnum, testRT.ProviderOf(handler)), "")
	out, err := em.Emit(providers, MapOfProvider)
	require.NoError(t, err)
	require.Len(t, out.Assignments, 1)

	values := collect(t, bindings, MapOf(pathEnum, handler), "")
	out, err = em.Emit(values, MapOfValue)
	require.NoError(t, err)
	require.Len(t, out.Assignments, 1)
	assert.Equal(t, "rt.NewMapFactory(c.mapOfPathEnumAndProviderOfHandlerProvider)", out.Assignments[0].Expr)
}

func TestEmitRejectsNonAggregate(t *testing.T) {
	em := NewEmitter(testRT, NewImportSet(appPkg), NewFieldNamer(testRT))
	_, err := em.Emit(collect(t, nil, handler, ""), NotMultibinding)
	assert.Error(t, err)
}
