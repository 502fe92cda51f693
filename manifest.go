package main

import (
	"bytes"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Manifest is a YAML declaration source. Types are written with full import
// paths (see ParseType); values are single-key mappings naming their kind,
// or plain scalars for strings, bools and ints:
//
//	keys:
//	  - type: github.com/acme/app/keys.PathKey
//	    unwrap: true
//	    members:
//	      - name: Value
//	        type: github.com/acme/app/keys.PathEnum
//	modules:
//	  - path: github.com/acme/app/handlers
//	    bindings:
//	      - member: ProvideAdminHandler
//	        output: github.com/acme/app/handlers.Handler
//	        into: map
//	        keys:
//	          - type: github.com/acme/app/keys.PathKey
//	            values:
//	              Value: {enum: github.com/acme/app/keys.PathEnum.Admin}
type Manifest struct {
	Runtime    string            `yaml:"runtime"`
	Dirs       map[string]string `yaml:"dirs"`
	Keys       []KeySpec         `yaml:"keys"`
	Modules    []ModuleSpec      `yaml:"modules"`
	Components []ComponentSpec   `yaml:"components"`

	path string
}

// KeySpec declares a key definition. MapKey defaults to true; set it to false
// for struct types only used nested inside other keys.
type KeySpec struct {
	Type    string       `yaml:"type"`
	MapKey  *bool        `yaml:"mapkey"`
	Unwrap  bool         `yaml:"unwrap"`
	Members []MemberSpec `yaml:"members"`
}

// MemberSpec declares one key member.
type MemberSpec struct {
	Name    string    `yaml:"name"`
	Type    string    `yaml:"type"`
	Default yaml.Node `yaml:"default"`
}

// ModuleSpec declares a module and its bindings.
type ModuleSpec struct {
	Path     string        `yaml:"path"`
	Name     string        `yaml:"name"`
	Includes []string      `yaml:"includes"`
	Bindings []BindingSpec `yaml:"bindings"`
}

// BindingSpec declares one binding. Into is "map", "set" or empty for a
// unique binding.
type BindingSpec struct {
	Member    string           `yaml:"member"`
	Output    string           `yaml:"output"`
	Into      string           `yaml:"into"`
	Params    []string         `yaml:"params"`
	Qualifier string           `yaml:"qualifier"`
	Scope     string           `yaml:"scope"`
	Keys      []AnnotationSpec `yaml:"keys"`
}

// AnnotationSpec is one key instance: its type and the member values given.
type AnnotationSpec struct {
	Type   string    `yaml:"type"`
	Values yaml.Node `yaml:"values"`
}

// ComponentSpec declares a component.
type ComponentSpec struct {
	Name     string        `yaml:"name"`
	Package  string        `yaml:"package"`
	Modules  []string      `yaml:"modules"`
	Requests []RequestSpec `yaml:"requests"`
}

// RequestSpec declares one component method.
type RequestSpec struct {
	Method    string `yaml:"method"`
	Type      string `yaml:"type"`
	Qualifier string `yaml:"qualifier"`
}

// LoadManifest reads a manifest file. Relative dirs resolve against the
// manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.path = path
	base := filepath.Dir(path)
	for pkg, dir := range m.Dirs {
		if !filepath.IsAbs(dir) {
			m.Dirs[pkg] = filepath.Join(base, filepath.FromSlash(dir))
		}
	}
	return m, nil
}

// ParseManifest decodes a manifest, rejecting unknown fields.
func ParseManifest(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}

// Declarations converts the manifest. Every problem found is returned.
func (m *Manifest) Declarations() (*Declarations, []error) {
	if m.Runtime == "" {
		return nil, []error{&DeclarationError{
			Element:  "runtime",
			Position: token.Position{Filename: m.path},
			Message:  "no runtime package; set runtime or add //multibind:runtime to generate.go",
		}}
	}
	md := &manifestDecoder{m: m, decls: NewDeclarations(DefaultRuntime(m.Runtime))}
	md.decode()
	if len(md.errs) > 0 {
		return nil, md.errs
	}
	return md.decls, nil
}

type manifestDecoder struct {
	m     *Manifest
	decls *Declarations
	defs  map[string]*KeyDefinition
	errs  []error
}

func (md *manifestDecoder) decode() {
	rt := md.decls.Runtime
	md.defs = make(map[string]*KeyDefinition)
	for pkg, dir := range md.m.Dirs {
		md.decls.Dirs[pkg] = dir
	}

	// Register every key type first so members may refer to each other.
	for _, ks := range md.m.Keys {
		t, err := ParseType(ks.Type, rt)
		if err != nil {
			md.fail(ks.Type, nil, "%v", err)
			continue
		}
		def := &KeyDefinition{Type: t, MapKey: ks.MapKey == nil || *ks.MapKey, Unwrap: ks.Unwrap}
		md.defs[t.String()] = def
		if def.MapKey {
			md.decls.AddKey(def)
		}
	}
	for _, ks := range md.m.Keys {
		t, err := ParseType(ks.Type, rt)
		if err != nil {
			continue
		}
		def := md.defs[t.String()]
		for _, ms := range ks.Members {
			mt, err := ParseType(ms.Type, rt)
			if err != nil {
				md.fail(ks.Type+"."+ms.Name, nil, "%v", err)
				continue
			}
			member := Member{Name: ms.Name, Type: mt}
			if !ms.Default.IsZero() {
				if member.Default, err = md.value(&ms.Default, mt); err != nil {
					md.errs = append(md.errs, err)
					continue
				}
			}
			def.Members = append(def.Members, member)
		}
	}

	for _, ms := range md.m.Modules {
		md.module(ms)
	}
	for _, cs := range md.m.Components {
		md.component(cs)
	}
}

func (md *manifestDecoder) module(ms ModuleSpec) {
	rt := md.decls.Runtime
	mod := &Module{Path: ms.Path, Name: ms.Name, Includes: ms.Includes}
	if mod.Name == "" {
		mod.Name = pkgNameOf(ms.Path)
	}
	for _, bs := range ms.Bindings {
		element := mod.Name + "." + bs.Member
		if !token.IsExported(bs.Member) {
			md.fail(element, nil, "bindings must be exported functions")
			continue
		}
		out, err := ParseType(bs.Output, rt)
		if err != nil {
			md.fail(element, nil, "%v", err)
			continue
		}
		b := &Binding{
			Module:    ms.Path,
			PkgName:   mod.Name,
			Member:    bs.Member,
			Output:    out,
			Qualifier: bs.Qualifier,
			Scope:     bs.Scope,
			Position:  token.Position{Filename: md.m.path},
		}
		switch bs.Into {
		case "":
			b.Type = BindingUnique
		case "map":
			b.Type = BindingIntoMap
		case "set":
			b.Type = BindingIntoSet
		default:
			md.fail(element, nil, "unknown multibinding %q, want map or set", bs.Into)
			continue
		}
		ok := true
		for _, p := range bs.Params {
			pt, err := ParseType(p, rt)
			if err != nil {
				md.fail(element, nil, "%v", err)
				ok = false
				continue
			}
			b.Params = append(b.Params, pt)
		}
		for i := range bs.Keys {
			a, err := md.annotation(bs.Keys[i].Type, &bs.Keys[i].Values)
			if err != nil {
				md.errs = append(md.errs, err)
				ok = false
				continue
			}
			b.Annotations = append(b.Annotations, a)
		}
		if ok {
			mod.Bindings = append(mod.Bindings, b)
		}
	}
	md.decls.AddModule(mod)
}

func (md *manifestDecoder) component(cs ComponentSpec) {
	rt := md.decls.Runtime
	comp := &Component{
		Name:     cs.Name,
		PkgPath:  cs.Package,
		PkgName:  pkgNameOf(cs.Package),
		Modules:  cs.Modules,
		Position: token.Position{Filename: md.m.path},
	}
	for _, rs := range cs.Requests {
		t, err := ParseType(rs.Type, rt)
		if err != nil {
			md.fail(cs.Name+"."+rs.Method, nil, "%v", err)
			continue
		}
		comp.Requests = append(comp.Requests, Request{Method: rs.Method, Type: t, Qualifier: rs.Qualifier})
	}
	md.decls.Components = append(md.decls.Components, comp)
}

// annotation builds a key instance of the named type from a values mapping.
func (md *manifestDecoder) annotation(typeStr string, values *yaml.Node) (*Annotation, error) {
	t, err := ParseType(typeStr, md.decls.Runtime)
	if err != nil {
		return nil, md.errorf(typeStr, values, "%v", err)
	}
	def, ok := md.defs[t.String()]
	if !ok {
		return nil, md.errorf(typeStr, values, "key type is not declared under keys")
	}
	a := &Annotation{Def: def}
	if values.IsZero() {
		return a, nil
	}
	if values.Kind != yaml.MappingNode {
		return nil, md.errorf(typeStr, values, "values must be a mapping of member names")
	}
	for i := 0; i+1 < len(values.Content); i += 2 {
		name := values.Content[i].Value
		member, ok := def.Member(name)
		if !ok {
			return nil, md.errorf(typeStr, values.Content[i], "%s has no member %s", def.Type.Name, name)
		}
		v, err := md.value(values.Content[i+1], member.Type)
		if err != nil {
			return nil, err
		}
		a.Values = append(a.Values, MemberValue{Name: name, Value: v})
	}
	return a, nil
}

// value decodes one annotation value assigned to a member of type want.
func (md *manifestDecoder) value(n *yaml.Node, want *Type) (Value, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return md.scalar(n, want)
	case yaml.SequenceNode:
		if !want.IsArrayLike() {
			return nil, md.errorf(want.String(), n, "a sequence needs an array member")
		}
		return md.array(n.Content, want.Elem)
	case yaml.MappingNode:
		if len(n.Content) != 2 {
			return nil, md.errorf(want.String(), n, "a value mapping has exactly one kind")
		}
	default:
		return nil, md.errorf(want.String(), n, "unsupported value")
	}

	kind, body := n.Content[0].Value, n.Content[1]
	switch kind {
	case "string":
		return StringValue(body.Value), nil
	case "bool":
		var b bool
		if err := body.Decode(&b); err != nil {
			return nil, md.errorf(kind, body, "%v", err)
		}
		return BoolValue(b), nil
	case "int", "int8", "int16", "int32", "int64":
		i, err := strconv.ParseInt(body.Value, 0, 64)
		if err != nil {
			return nil, md.errorf(kind, body, "%v", err)
		}
		return IntValue{Kind: kind, V: i}, nil
	case "uint", "uint8", "uint16", "uint32", "uint64", "uintptr", "byte":
		u, err := strconv.ParseUint(body.Value, 0, 64)
		if err != nil {
			return nil, md.errorf(kind, body, "%v", err)
		}
		return UintValue{Kind: kind, V: u}, nil
	case "float32", "float64":
		f, err := strconv.ParseFloat(body.Value, 64)
		if err != nil {
			return nil, md.errorf(kind, body, "%v", err)
		}
		return FloatValue{Kind: kind, V: f}, nil
	case "rune":
		r, size := utf8.DecodeRuneInString(body.Value)
		if r == utf8.RuneError || size != len(body.Value) {
			return nil, md.errorf(kind, body, "%q is not a single rune", body.Value)
		}
		return RuneValue(r), nil
	case "type":
		t, err := ParseType(body.Value, md.decls.Runtime)
		if err != nil {
			return nil, md.errorf(kind, body, "%v", err)
		}
		return TypeValue{Type: t}, nil
	case "enum":
		dot := strings.LastIndexByte(body.Value, '.')
		if dot < 0 {
			return nil, md.errorf(kind, body, "want <type>.<constant>, got %q", body.Value)
		}
		t, err := ParseType(body.Value[:dot], md.decls.Runtime)
		if err != nil {
			return nil, md.errorf(kind, body, "%v", err)
		}
		return EnumValue{Type: t, Name: body.Value[dot+1:]}, nil
	case "annotation":
		var spec AnnotationSpec
		if err := body.Decode(&spec); err != nil {
			return nil, md.errorf(kind, body, "%v", err)
		}
		return md.annotation(spec.Type, &spec.Values)
	case "array":
		var spec struct {
			Elem   string      `yaml:"elem"`
			Values []yaml.Node `yaml:"values"`
		}
		if err := body.Decode(&spec); err != nil {
			return nil, md.errorf(kind, body, "%v", err)
		}
		elem, err := ParseType(spec.Elem, md.decls.Runtime)
		if err != nil {
			return nil, md.errorf(kind, body, "%v", err)
		}
		nodes := make([]*yaml.Node, len(spec.Values))
		for i := range spec.Values {
			nodes[i] = &spec.Values[i]
		}
		return md.array(nodes, elem)
	}
	return nil, md.errorf(kind, n, "unknown value kind %q", kind)
}

// scalar decodes a plain scalar using the member type to pick the kind.
func (md *manifestDecoder) scalar(n *yaml.Node, want *Type) (Value, error) {
	kind := ""
	if want.Kind == KindBasic {
		kind = want.Name
	}
	switch n.Tag {
	case "!!str":
		return StringValue(n.Value), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, md.errorf(want.String(), n, "%v", err)
		}
		return BoolValue(b), nil
	case "!!int":
		if strings.HasPrefix(kind, "uint") {
			u, err := strconv.ParseUint(n.Value, 0, 64)
			if err != nil {
				return nil, md.errorf(want.String(), n, "%v", err)
			}
			return UintValue{Kind: kind, V: u}, nil
		}
		i, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return nil, md.errorf(want.String(), n, "%v", err)
		}
		return IntValue{Kind: kind, V: i}, nil
	case "!!float":
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, md.errorf(want.String(), n, "%v", err)
		}
		return FloatValue{Kind: kind, V: f}, nil
	}
	return nil, md.errorf(want.String(), n, "unsupported scalar %s", n.Tag)
}

func (md *manifestDecoder) array(nodes []*yaml.Node, elem *Type) (Value, error) {
	arr := ArrayValue{Elem: elem}
	for _, n := range nodes {
		v, err := md.value(n, elem)
		if err != nil {
			return nil, err
		}
		arr.Values = append(arr.Values, v)
	}
	return arr, nil
}

func (md *manifestDecoder) errorf(element string, n *yaml.Node, format string, args ...any) error {
	pos := token.Position{Filename: md.m.path}
	if n != nil {
		pos.Line, pos.Column = n.Line, n.Column
	}
	return &DeclarationError{Element: element, Position: pos, Message: fmt.Sprintf(format, args...)}
}

func (md *manifestDecoder) fail(element string, n *yaml.Node, format string, args ...any) {
	md.errs = append(md.errs, md.errorf(element, n, format, args...))
}
