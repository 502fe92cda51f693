package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindingNodeOf(member string, deps ...string) *Node {
	n := &Node{Key: member, Type: Named(handlersPkg, member), Binding: provides(member, Named(handlersPkg, member))}
	for _, d := range deps {
		n.Deps = append(n.Deps, Dep{Key: d})
	}
	return n
}

func TestGraphOrder(t *testing.T) {
	g := NewGraph()
	require.True(t, g.Add(bindingNodeOf("App", "Server", "Config")))
	require.True(t, g.Add(bindingNodeOf("Server", "Config")))
	require.True(t, g.Add(bindingNodeOf("Logger")))
	require.True(t, g.Add(bindingNodeOf("Config")))
	assert.False(t, g.Add(bindingNodeOf("Config")))
	require.Empty(t, g.Connect())

	nodes, err := g.Order()
	require.NoError(t, err)
	var keys []string
	for _, n := range nodes {
		keys = append(keys, n.Key)
	}
	assert.Equal(t, []string{"Logger", "Config", "Server", "App"}, keys)
}

func TestGraphCycle(t *testing.T) {
	g := NewGraph()
	g.Add(bindingNodeOf("A", "B"))
	g.Add(bindingNodeOf("B", "C"))
	g.Add(bindingNodeOf("C", "A"))

	errs := g.Connect()
	require.Len(t, errs, 1)
	var target *DependencyCycleError
	require.ErrorAs(t, errs[0], &target)
	assert.Equal(t, []string{"handlers.C()", "handlers.A()", "handlers.B()", "handlers.C()"}, target.Cycle)
	assert.Equal(t, "dependency cycle: handlers.C() → handlers.A() → handlers.B() → handlers.C()", target.Error())
}

func TestGraphSelfCycle(t *testing.T) {
	g := NewGraph()
	g.Add(bindingNodeOf("A", "A"))
	errs := g.Connect()
	require.Len(t, errs, 1)
	var target *DependencyCycleError
	assert.ErrorAs(t, errs[0], &target)
}

func TestGraphIgnoresUnknownDeps(t *testing.T) {
	g := NewGraph()
	g.Add(bindingNodeOf("A", "Missing"))
	assert.Empty(t, g.Connect())
}

func TestNodeLabel(t *testing.T) {
	assert.Equal(t, "handlers.A()", bindingNodeOf("A").Label())
	n := &Node{Type: SliceOf(Basic("string")), Qualifier: "extra"}
	assert.Equal(t, "extra []string", n.Label())
	assert.Equal(t, "extra|[]string", NodeKey(n.Type, n.Qualifier))
}
