package main

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Resolution is a component whose every request resolved without error.
type Resolution struct {
	Component *Component
	Imports   *ImportSet
	Fields    []Assignment // initialization order
	Methods   []Method
	Creators  []*KeyDefinition
}

// Method is one generated request method.
type Method struct {
	Name       string
	ResultType string
	Return     string
}

// Resolver resolves components against a shared declaration set. The
// declarations are only read, so one resolver serves many goroutines.
type Resolver struct {
	Decls  *Declarations
	Logger *slog.Logger
}

// NewResolver returns a resolver over d.
func NewResolver(d *Declarations, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{Decls: d, Logger: logger}
}

// ResolveAll resolves every component, at most jobs at a time (no limit when
// jobs <= 0). Errors are returned in component order; components that failed
// have no resolution.
func (r *Resolver) ResolveAll(ctx context.Context, jobs int) ([]*Resolution, []error) {
	comps := r.Decls.Components
	results := make([]*Resolution, len(comps))
	failures := make([][]error, len(comps))

	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, comp := range comps {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i], failures[i] = r.Resolve(comp)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, []error{err}
	}

	var (
		out  []*Resolution
		errs []error
	)
	for i := range comps {
		errs = append(errs, failures[i]...)
		if results[i] != nil {
			out = append(out, results[i])
		}
	}
	return out, errs
}

// ref is a resolved use of a node: either its value or, when direct, the
// provider field itself.
type ref struct {
	key    string
	direct bool
}

// componentResolver carries the state of one Resolve call.
type componentResolver struct {
	*Resolver
	comp    *Component
	modules []*Module
	graph   *Graph
	errs    []error
}

// Resolve resolves every request of comp. No resolution is returned when any
// error was found.
func (r *Resolver) Resolve(comp *Component) (*Resolution, []error) {
	modules, errs := VisibleModules(r.Decls, comp.Modules, comp.Name)
	cr := &componentResolver{Resolver: r, comp: comp, modules: modules, graph: NewGraph(), errs: errs}

	refs := make([]ref, len(comp.Requests))
	for i, req := range comp.Requests {
		refs[i], _ = cr.ref(req.Type, req.Qualifier, comp.Name+"."+req.Method+"()")
	}
	cr.errs = append(cr.errs, cr.graph.Connect()...)
	if len(cr.errs) > 0 {
		r.Logger.Debug("Component failed", "component", comp.Name, "errors", len(cr.errs), "kinds", strings.Join(sortedKinds(cr.errs), ","))
		return nil, cr.errs
	}

	res, err := cr.emit(refs)
	if err != nil {
		return nil, []error{err}
	}
	r.Logger.Debug("Component resolved", "component", comp.Name, "fields", len(res.Fields), "methods", len(res.Methods))
	return res, nil
}

// ref resolves a use of t. A use of Provider[X] with no binding of its own is
// served directly by the node providing X.
func (cr *componentResolver) ref(t *Type, qualifier, requestedBy string) (ref, bool) {
	if key, ok := cr.discover(t, qualifier); ok {
		return ref{key: key}, true
	}
	if inner, ok := cr.Decls.Runtime.ProvidedType(t); ok {
		if key, ok := cr.discover(inner, qualifier); ok {
			return ref{key: key, direct: true}, true
		}
	}
	if _, ok := cr.membersInjected(t); ok {
		key := NodeKey(t, qualifier)
		cr.graph.Add(&Node{Key: key, Type: t, Qualifier: qualifier, Injector: true})
		return ref{key: key}, true
	}
	cr.errs = append(cr.errs, &MissingBindingError{Type: t, RequestedBy: requestedBy})
	return ref{}, false
}

// discover adds the node for t and everything it depends on. It reports false
// when nothing binds t.
func (cr *componentResolver) discover(t *Type, qualifier string) (string, bool) {
	key := NodeKey(t, qualifier)
	if _, ok := cr.graph.Nodes[key]; ok {
		return key, true
	}
	rt := cr.Decls.Runtime

	c, errs := Collect(cr.modules, t, qualifier, rt)
	class, classErrs := Classify(c)
	errs = append(errs, classErrs...)
	if class != NotMultibinding {
		errs = append(errs, ValidateConflicts(c)...)
		cr.errs = append(cr.errs, errs...)
		n := &Node{Key: key, Type: t, Qualifier: qualifier, Collection: c, Class: class}
		cr.graph.Add(n)
		for _, contrib := range c.Contributions {
			n.Deps = append(n.Deps, Dep{Key: cr.bindingNode(contrib.Binding, "binding:"+contrib.Binding.Module+"."+contrib.Binding.Member), Type: contrib.Binding.Output})
		}
		return key, true
	}
	cr.errs = append(cr.errs, errs...)
	if len(classErrs) > 0 {
		// the type is bound, but not consistently
		return "", true
	}

	switch len(c.Unique) {
	case 0:
		return "", false
	case 1:
		return cr.bindingNode(c.Unique[0], key), true
	default:
		cr.errs = append(cr.errs, &DuplicateBindingError{Type: t, Bindings: c.Unique})
		return "", true
	}
}

// bindingNode adds the node for b under key and discovers its parameters.
func (cr *componentResolver) bindingNode(b *Binding, key string) string {
	n := &Node{Key: key, Type: b.Output, Qualifier: b.Qualifier, Binding: b}
	if !cr.graph.Add(n) {
		return key
	}
	for _, p := range b.Params {
		r, ok := cr.ref(p, "", b.Identity())
		if !ok {
			continue
		}
		n.Deps = append(n.Deps, Dep{Key: r.key, Type: p, Direct: r.direct})
	}
	return key
}

// membersInjected returns T when t is the runtime's MembersInjector[T].
func (cr *componentResolver) membersInjected(t *Type) (*Type, bool) {
	rt := cr.Decls.Runtime
	if t.Kind != KindNamed || t.PkgPath != rt.PkgPath || t.Name != rt.MembersInjector || len(t.Args) != 1 {
		return nil, false
	}
	return t.Args[0], true
}

// emit renders fields and methods in dependency order.
func (cr *componentResolver) emit(refs []ref) (*Resolution, error) {
	rt := cr.Decls.Runtime
	nodes, err := cr.graph.Order()
	if err != nil {
		return nil, err
	}
	imports := NewImportSet(cr.comp.PkgPath)
	names := NewFieldNamer(rt)
	em := NewEmitter(rt, imports, names)
	res := &Resolution{Component: cr.comp, Imports: imports}

	fields := make(map[string]string, len(nodes))
	injectors := make(map[string]bool)
	for _, n := range nodes {
		switch {
		case n.Binding != nil:
			field := names.Binding(n.Binding)
			fields[n.Key] = field
			res.Fields = append(res.Fields, Assignment{
				Field:    field,
				TypeExpr: imports.TypeString(rt.ProviderOf(n.Binding.Output)),
				Expr:     cr.provide(em, n, fields, injectors),
			})
		case n.Injector:
			elem, _ := cr.membersInjected(n.Type)
			field := names.Field("injector:"+n.Key, lowerFirst(typeWord(elem, rt))+"MembersInjector")
			fields[n.Key] = field
			injectors[n.Key] = true
			typeExpr := em.rt(rt.RawInjector)
			if IsAccessibleFrom(elem, imports.PkgPath()) {
				typeExpr = imports.TypeString(n.Type)
			}
			res.Fields = append(res.Fields, Assignment{
				Field:    field,
				TypeExpr: typeExpr,
				Expr:     NoOpMembersInjector(rt, elem).ExpressionFor(imports),
			})
		default:
			emission, err := em.Emit(n.Collection, n.Class)
			if err != nil {
				return nil, err
			}
			fields[n.Key] = emission.Field
			res.Fields = append(res.Fields, emission.Assignments...)
		}
	}

	for i, req := range cr.comp.Requests {
		r := refs[i]
		ret := em.Recv + "." + fields[r.key]
		if !r.direct && !injectors[r.key] {
			ret += ".Get()"
		}
		res.Methods = append(res.Methods, Method{Name: req.Method, ResultType: imports.TypeString(req.Type), Return: ret})
	}
	res.Creators = em.Creators()
	return res, nil
}

// provide renders the provider of a unique binding: a memoizing wrapper
// around a call of the producing function.
func (cr *componentResolver) provide(em *Emitter, n *Node, fields map[string]string, injectors map[string]bool) string {
	b := n.Binding
	args := make([]string, 0, len(n.Deps))
	for _, d := range n.Deps {
		arg := em.Recv + "." + fields[d.Key]
		if !d.Direct && !injectors[d.Key] {
			arg += ".Get()"
		}
		args = append(args, arg)
	}
	call := b.Member
	if prefix := em.Imports.QualifyNamed(b.Module, b.PkgName); prefix != "" {
		call = prefix + "." + call
	}
	return em.rt(em.Runtime.Provide) + "(func() " + em.Imports.TypeString(b.Output) + " {\n\treturn " + call + "(" + strings.Join(args, ", ") + ")\n})"
}
