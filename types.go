package main

import (
	"go/token"
	"sort"
	"strconv"
	"strings"
)

// TypeKind classifies a Type.
type TypeKind uint8

const (
	KindBasic TypeKind = iota
	KindNamed
	KindPointer
	KindSlice
	KindArray
	KindMap
)

// Type is a Go type as seen by the resolution engine. Declaration sources build
// types once; nothing mutates them afterwards.
type Type struct {
	Kind    TypeKind
	PkgPath string  // named types; empty for predeclared names such as error
	PkgName string  // package name used when the type is qualified
	Name    string  // basic or named type name
	Args    []*Type // type arguments of an instantiated named type
	Key     *Type   // map key
	Elem    *Type   // pointer, slice and array element; map value
	Len     int64   // array length
}

// Basic returns a predeclared type such as string or int32.
func Basic(name string) *Type {
	return &Type{Kind: KindBasic, Name: name}
}

// Named returns a named type declared in pkgPath, instantiated with args.
func Named(pkgPath, name string, args ...*Type) *Type {
	return &Type{Kind: KindNamed, PkgPath: pkgPath, PkgName: pkgNameOf(pkgPath), Name: name, Args: args}
}

func PointerTo(elem *Type) *Type { return &Type{Kind: KindPointer, Elem: elem} }

func SliceOf(elem *Type) *Type { return &Type{Kind: KindSlice, Elem: elem} }

func ArrayOf(n int64, elem *Type) *Type { return &Type{Kind: KindArray, Len: n, Elem: elem} }

func MapOf(key, value *Type) *Type { return &Type{Kind: KindMap, Key: key, Elem: value} }

// String returns the fully qualified form of t, using import paths as
// qualifiers. Two types are identical exactly when their strings match.
func (t *Type) String() string {
	return TypeString(t, func(pkgPath string) string { return pkgPath })
}

// Identical reports whether t and o denote the same type.
func (t *Type) Identical(o *Type) bool {
	if t == nil || o == nil {
		return t == o
	}
	return t.String() == o.String()
}

// IsArrayLike reports whether t is a slice or an array. Neither is a valid
// unwrapped map key because their identity is not structural.
func (t *Type) IsArrayLike() bool {
	return t != nil && (t.Kind == KindSlice || t.Kind == KindArray)
}

// Exported reports whether the type's own name is exported. Predeclared
// types count as exported.
func (t *Type) Exported() bool {
	if t.Kind != KindNamed || t.PkgPath == "" {
		return true
	}
	return token.IsExported(t.Name)
}

// Qualifier maps an import path to the name that prefixes identifiers from
// that package, or "" when no prefix is needed.
type Qualifier func(pkgPath string) string

// TypeString renders t as Go source using q to qualify package members.
func TypeString(t *Type, q Qualifier) string {
	var b strings.Builder
	writeType(&b, t, q)
	return b.String()
}

func writeType(b *strings.Builder, t *Type, q Qualifier) {
	if t == nil {
		b.WriteString("<nil>")
		return
	}
	switch t.Kind {
	case KindBasic:
		b.WriteString(t.Name)
	case KindNamed:
		if t.PkgPath != "" {
			if prefix := q(t.PkgPath); prefix != "" {
				b.WriteString(prefix)
				b.WriteByte('.')
			}
		}
		b.WriteString(t.Name)
		if len(t.Args) > 0 {
			b.WriteByte('[')
			for i, a := range t.Args {
				if i > 0 {
					b.WriteString(", ")
				}
				writeType(b, a, q)
			}
			b.WriteByte(']')
		}
	case KindPointer:
		b.WriteByte('*')
		writeType(b, t.Elem, q)
	case KindSlice:
		b.WriteString("[]")
		writeType(b, t.Elem, q)
	case KindArray:
		b.WriteByte('[')
		b.WriteString(strconv.FormatInt(t.Len, 10))
		b.WriteByte(']')
		writeType(b, t.Elem, q)
	case KindMap:
		b.WriteString("map[")
		writeType(b, t.Key, q)
		b.WriteByte(']')
		writeType(b, t.Elem, q)
	}
}

// pkgNameOf guesses the package name of an import path.
// "github.com/redis/go-redis/v9" → "redis", "gopkg.in/yaml.v3" → "yaml".
func pkgNameOf(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}
	parts := strings.Split(pkgPath, "/")
	name := parts[len(parts)-1]
	if isMajorVersion(name) && len(parts) >= 2 {
		name = parts[len(parts)-2]
	}
	if idx := strings.LastIndex(name, "-"); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.Index(name, "."); idx > 0 {
		name = name[:idx]
	}
	return name
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	_, err := strconv.Atoi(s[1:])
	return err == nil
}

// GoImport is one import spec of a generated file.
type GoImport struct {
	Name string // alias, empty when the default package name is used
	Path string
}

// ImportSet hands out package qualifiers for one generated file and records
// the imports they require.
type ImportSet struct {
	pkgPath string
	names   map[string]string // import path → name used in code
	used    map[string]string // name → import path
	aliased map[string]bool
}

// NewImportSet creates an import set for code emitted into pkgPath.
func NewImportSet(pkgPath string) *ImportSet {
	return &ImportSet{
		pkgPath: pkgPath,
		names:   make(map[string]string),
		used:    make(map[string]string),
		aliased: make(map[string]bool),
	}
}

// PkgPath returns the package the code is emitted into.
func (s *ImportSet) PkgPath() string {
	return s.pkgPath
}

// Qualify returns the name to prefix members of pkgPath with, registering the
// import on first use. Members of the emitting package need no prefix.
func (s *ImportSet) Qualify(pkgPath string) string {
	return s.QualifyNamed(pkgPath, pkgNameOf(pkgPath))
}

// QualifyNamed is like Qualify but uses the package's declared name.
func (s *ImportSet) QualifyNamed(pkgPath, pkgName string) string {
	if pkgPath == "" || pkgPath == s.pkgPath {
		return ""
	}
	if name, ok := s.names[pkgPath]; ok {
		return name
	}
	if pkgName == "" {
		pkgName = pkgNameOf(pkgPath)
	}
	name := pkgName
	if alias := ImportAlias(pkgPath, pkgName, s.used); alias != "" {
		name = alias
		s.aliased[pkgPath] = true
	}
	s.names[pkgPath] = name
	s.used[name] = pkgPath
	return name
}

// Qualifier returns a Qualifier bound to the set.
func (s *ImportSet) Qualifier() Qualifier {
	return s.Qualify
}

// TypeString renders t with qualifiers from the set, honouring declared
// package names carried by named types.
func (s *ImportSet) TypeString(t *Type) string {
	var b strings.Builder
	s.writeType(&b, t)
	return b.String()
}

func (s *ImportSet) writeType(b *strings.Builder, t *Type) {
	writeType(b, t, func(pkgPath string) string {
		return s.QualifyNamed(pkgPath, declaredPkgName(t, pkgPath))
	})
}

// declaredPkgName finds the package name recorded on the named type in t
// that lives in pkgPath.
func declaredPkgName(t *Type, pkgPath string) string {
	if t == nil {
		return ""
	}
	if t.Kind == KindNamed && t.PkgPath == pkgPath && t.PkgName != "" {
		return t.PkgName
	}
	for _, a := range t.Args {
		if n := declaredPkgName(a, pkgPath); n != "" {
			return n
		}
	}
	if n := declaredPkgName(t.Key, pkgPath); n != "" {
		return n
	}
	return declaredPkgName(t.Elem, pkgPath)
}

// Imports returns the recorded imports sorted by path.
func (s *ImportSet) Imports() []GoImport {
	out := make([]GoImport, 0, len(s.names))
	for path, name := range s.names {
		gi := GoImport{Path: path}
		if s.aliased[path] || name != pkgNameOf(path) {
			gi.Name = name
		}
		out = append(out, gi)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// ImportAlias returns the import alias needed for a package, or empty if the
// default name is free.
func ImportAlias(pkgPath, pkgName string, used map[string]string) string {
	existingPath, ok := used[pkgName]
	if !ok || existingPath == pkgPath {
		return ""
	}
	// Need alias: use parent dir + pkg name
	parts := strings.Split(pkgPath, "/")
	if len(parts) >= 2 {
		parent := strings.NewReplacer("-", "", ".", "").Replace(parts[len(parts)-2])
		alias := parent + pkgName
		if _, exists := used[alias]; !exists {
			return alias
		}
		if len(parts) >= 3 {
			return strings.NewReplacer("-", "", ".", "").Replace(parts[len(parts)-3]) + alias
		}
	}
	for i := 2; ; i++ {
		alias := pkgName + strconv.Itoa(i)
		if _, exists := used[alias]; !exists {
			return alias
		}
	}
}
