package main

import (
	"errors"
	"fmt"

	graphlib "github.com/dominikbraun/graph"
)

// Node is one field of a generated component: a unique binding, an
// aggregate or a no-op members injector.
type Node struct {
	Key        string
	Type       *Type
	Qualifier  string
	Binding    *Binding    // unique binding; nil otherwise
	Collection *Collection // aggregates only
	Class      Classification
	Deps       []Dep
	Injector   bool // members injector without bound members

	seq int
}

// Dep is an edge from a binding to one of its parameters. Direct parameters
// take the provider itself rather than its value.
type Dep struct {
	Key    string
	Type   *Type
	Direct bool
}

// Label names the node in diagnostics.
func (n *Node) Label() string {
	if n.Binding != nil {
		return n.Binding.Identity()
	}
	if n.Qualifier != "" {
		return n.Qualifier + " " + n.Type.String()
	}
	return n.Type.String()
}

// NodeKey identifies the node providing t under qualifier.
func NodeKey(t *Type, qualifier string) string {
	return qualifier + "|" + t.String()
}

// Graph holds the nodes reachable from one component's requests and the
// dependency edges between them. Edges point from a dependency to its
// consumer.
type Graph struct {
	Nodes map[string]*Node

	g     graphlib.Graph[string, *Node]
	order []string
}

// NewGraph returns an empty acyclic dependency graph.
func NewGraph() *Graph {
	return &Graph{
		Nodes: make(map[string]*Node),
		g:     graphlib.New(func(n *Node) string { return n.Key }, graphlib.Directed(), graphlib.PreventCycles()),
	}
}

// Add registers n. It reports false when a node with the same key exists.
func (g *Graph) Add(n *Node) bool {
	if _, ok := g.Nodes[n.Key]; ok {
		return false
	}
	n.seq = len(g.order)
	g.Nodes[n.Key] = n
	g.order = append(g.order, n.Key)
	_ = g.g.AddVertex(n)
	return true
}

// Connect adds an edge for every dependency of every node. An edge that
// would close a cycle is reported and left out.
func (g *Graph) Connect() []error {
	var errs []error
	for _, key := range g.order {
		n := g.Nodes[key]
		for _, d := range n.Deps {
			dep := d.Key
			if _, ok := g.Nodes[dep]; !ok {
				continue
			}
			err := g.g.AddEdge(dep, key)
			switch {
			case err == nil, errors.Is(err, graphlib.ErrEdgeAlreadyExists):
			case errors.Is(err, graphlib.ErrEdgeCreatesCycle):
				errs = append(errs, g.cycle(dep, key))
			default:
				errs = append(errs, fmt.Errorf("add edge %s → %s: %w", dep, key, err))
			}
		}
	}
	return errs
}

// cycle describes the cycle the edge dep → consumer would close, in
// depends-on order starting and ending at consumer.
func (g *Graph) cycle(dep, consumer string) error {
	path, err := graphlib.ShortestPath(g.g, consumer, dep)
	if err != nil {
		return &DependencyCycleError{Cycle: []string{g.Nodes[consumer].Label(), g.Nodes[dep].Label(), g.Nodes[consumer].Label()}}
	}
	cycle := []string{g.Nodes[consumer].Label()}
	for i := len(path) - 1; i >= 0; i-- {
		cycle = append(cycle, g.Nodes[path[i]].Label())
	}
	return &DependencyCycleError{Cycle: cycle}
}

// Order returns every node with dependencies before consumers. Ties keep
// discovery order, so the result is deterministic.
func (g *Graph) Order() ([]*Node, error) {
	keys, err := graphlib.StableTopologicalSort(g.g, func(a, b string) bool {
		return g.Nodes[a].seq < g.Nodes[b].seq
	})
	if err != nil {
		return nil, fmt.Errorf("order bindings: %w", err)
	}
	out := make([]*Node, 0, len(keys))
	for _, k := range keys {
		out = append(out, g.Nodes[k])
	}
	return out, nil
}
