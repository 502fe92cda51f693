package main

import (
	"go/token"
)

// KeyDefinition is a struct type usable as a map key annotation. It is marked
// with //multibind:mapkey; Unwrap is fixed here for every use of the type.
type KeyDefinition struct {
	Type    *Type
	MapKey  bool
	Unwrap  bool
	Members []Member // declaration order
}

// Member is one field of a key definition. Default is nil when the field has
// no default value.
type Member struct {
	Name    string
	Type    *Type
	Default Value
}

// Member returns the member called name.
func (d *KeyDefinition) Member(name string) (Member, bool) {
	for _, m := range d.Members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

// Annotation is one use of a key definition on a binding, or a nested
// annotation value inside another one.
type Annotation struct {
	Def    *KeyDefinition
	Values []MemberValue // as supplied at the use site
}

// MemberValue pairs a member name with its value.
type MemberValue struct {
	Name  string
	Value Value
}

// Lookup returns the value supplied for the named member.
func (a *Annotation) Lookup(name string) (Value, bool) {
	for _, mv := range a.Values {
		if mv.Name == name {
			return mv.Value, true
		}
	}
	return nil, false
}

// BindingType distinguishes unique bindings from multibinding contributions.
type BindingType uint8

const (
	BindingUnique BindingType = iota
	BindingIntoMap
	BindingIntoSet
)

func (t BindingType) String() string {
	switch t {
	case BindingIntoMap:
		return "map"
	case BindingIntoSet:
		return "set"
	default:
		return "unique"
	}
}

// Binding is one declared producer of a value: a package-level function
// carrying a //multibind: directive.
type Binding struct {
	Module      string // declaring module (package path)
	PkgName     string // package name, used to call the producer
	Member      string // producing function name
	Output      *Type
	Type        BindingType
	Annotations []*Annotation
	Params      []*Type
	Qualifier   string // opaque
	Scope       string // opaque
	Position    token.Position
}

// Identity names the producing member in diagnostics, e.g. "mapmodule.ProvideAdminHandler()".
func (b *Binding) Identity() string {
	name := b.PkgName
	if name == "" {
		name = pkgNameOf(b.Module)
	}
	if name == "" {
		return b.Member + "()"
	}
	return name + "." + b.Member + "()"
}

// Module is a package of bindings. Includes name further modules made visible
// to any component that installs this one.
type Module struct {
	Path     string
	Name     string
	Includes []string
	Bindings []*Binding
}

// Component is an interface whose methods request typed values from the graph.
type Component struct {
	Name     string
	PkgPath  string
	PkgName  string
	Modules  []string
	Requests []Request
	Position token.Position
}

// Request is one component method and the type it returns.
type Request struct {
	Method    string
	Type      *Type
	Qualifier string
}

// Declarations is the read-only result of a declaration source. It is built
// once and shared by every resolution.
type Declarations struct {
	Modules     map[string]*Module
	ModuleOrder []string
	Components  []*Component
	Keys        map[string]*KeyDefinition // by type string
	Dirs        map[string]string         // package path → directory
	Runtime     RuntimeSurface
}

// NewDeclarations returns an empty declaration set bound to rt.
func NewDeclarations(rt RuntimeSurface) *Declarations {
	return &Declarations{
		Modules: make(map[string]*Module),
		Keys:    make(map[string]*KeyDefinition),
		Dirs:    make(map[string]string),
		Runtime: rt,
	}
}

// AddModule registers m, keeping first-registration order.
func (d *Declarations) AddModule(m *Module) {
	if _, ok := d.Modules[m.Path]; !ok {
		d.ModuleOrder = append(d.ModuleOrder, m.Path)
	}
	d.Modules[m.Path] = m
}

// AddKey registers a key definition.
func (d *Declarations) AddKey(def *KeyDefinition) {
	d.Keys[def.Type.String()] = def
}

// RuntimeSurface names the runtime factory operations generated code calls.
// Every parameterized static factory has an untyped twin named with RawSuffix
// returning RawProvider, used when type arguments cannot be named.
type RuntimeSurface struct {
	PkgPath string
	PkgName string

	Provider        string // generic Provider[T] type
	Provide         string // func() T → Provider[T]
	Flatten         string // Provider[Provider[T]] → Provider[T]
	MapBuilder      string // sized map provider factory builder
	Put             string
	Build           string
	MapFactory      string // provider map → value map
	EmptyMapOfProv  string
	EmptyMap        string
	SetFactory      string
	SetOfProvider   string
	EmptySet        string
	EmptySetOfProv  string
	NoOpInjector    string
	MembersInjector string
	RawProvider     string
	RawInjector     string
	RawSuffix       string
}

// DefaultRuntime returns the runtime surface with the standard factory names,
// declared in the package at pkgPath. The runtime package belongs to the
// project using multibind; there is no built-in one.
func DefaultRuntime(pkgPath string) RuntimeSurface {
	return RuntimeSurface{
		PkgPath:         pkgPath,
		PkgName:         pkgNameOf(pkgPath),
		Provider:        "Provider",
		Provide:         "Provide",
		Flatten:         "Flatten",
		MapBuilder:      "NewMapProviderFactoryBuilder",
		Put:             "Put",
		Build:           "Build",
		MapFactory:      "NewMapFactory",
		EmptyMapOfProv:  "EmptyMapProviderFactory",
		EmptyMap:        "EmptyMapFactory",
		SetFactory:      "NewSetFactory",
		SetOfProvider:   "NewSetOfProviderFactory",
		EmptySet:        "EmptySetFactory",
		EmptySetOfProv:  "EmptySetOfProviderFactory",
		NoOpInjector:    "NoOpMembersInjector",
		MembersInjector: "MembersInjector",
		RawProvider:     "AnyProvider",
		RawInjector:     "AnyMembersInjector",
		RawSuffix:       "Raw",
	}
}

// ProviderOf returns the runtime Provider[t] type.
func (rt RuntimeSurface) ProviderOf(t *Type) *Type {
	p := Named(rt.PkgPath, rt.Provider, t)
	p.PkgName = rt.PkgName
	return p
}

// ProvidedType returns T when t is Provider[T].
func (rt RuntimeSurface) ProvidedType(t *Type) (*Type, bool) {
	if t == nil || t.Kind != KindNamed || t.PkgPath != rt.PkgPath || t.Name != rt.Provider || len(t.Args) != 1 {
		return nil, false
	}
	return t.Args[0], true
}
