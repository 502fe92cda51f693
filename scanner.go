package main

import (
	"fmt"
	"go/ast"
	"go/constant"
	"go/parser"
	"go/token"
	"go/types"
	"log/slog"
	"path/filepath"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"
)

// Scanner builds declarations by loading and analyzing Go packages.
type Scanner struct {
	cfg        *Config
	moduleRoot string
	gitignore  []GitignorePattern
	logger     *slog.Logger
	fset       *token.FileSet

	decls   *Declarations
	marks   map[string]string // key definition type string → mapkey argument
	keyDefs map[string]*KeyDefinition
	errs    []error
}

// NewScanner creates a scanner.
func NewScanner(cfg *Config, moduleRoot string, gitignore []GitignorePattern, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scanner{
		cfg:        cfg,
		moduleRoot: moduleRoot,
		gitignore:  gitignore,
		logger:     logger,
	}
}

// Scan loads packages and extracts key definitions, modules and components.
// Malformed declarations are collected; a load failure is returned alone.
func (s *Scanner) Scan() (*Declarations, []error) {
	if s.cfg.Runtime == "" {
		return nil, []error{ErrNoRuntime}
	}
	cfg := &packages.Config{
		Mode: packages.NeedTypes | packages.NeedTypesInfo |
			packages.NeedSyntax | packages.NeedName |
			packages.NeedFiles | packages.NeedImports,
		Dir: s.moduleRoot,
	}

	pkgs, err := packages.Load(cfg, s.buildPatterns()...)
	if err != nil {
		return nil, []error{fmt.Errorf("load packages: %w", err)}
	}

	var loadErrs []string
	for _, pkg := range pkgs {
		used := directiveImports(pkg)
		for _, e := range pkg.Errors {
			if unusedImportOnly(e.Msg, used) {
				s.logger.Debug("Import used by directives only", "package", pkg.PkgPath, "error", e.Msg)
				continue
			}
			loadErrs = append(loadErrs, e.Error())
		}
	}
	if len(loadErrs) > 0 {
		return nil, []error{fmt.Errorf("package errors:\n  %s", strings.Join(loadErrs, "\n  "))}
	}
	if len(pkgs) == 0 {
		return nil, []error{fmt.Errorf("no packages matched %s", strings.Join(s.cfg.Scan, " "))}
	}

	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].PkgPath < pkgs[j].PkgPath })
	s.fset = pkgs[0].Fset
	s.decls = NewDeclarations(DefaultRuntime(s.cfg.Runtime))
	s.marks = make(map[string]string)
	s.keyDefs = make(map[string]*KeyDefinition)

	var kept []*packages.Package
	for _, pkg := range pkgs {
		if s.shouldExclude(pkg.PkgPath) {
			s.logger.Debug("Package excluded", "package", pkg.PkgPath)
			continue
		}
		kept = append(kept, pkg)
		if len(pkg.GoFiles) > 0 {
			s.decls.Dirs[pkg.PkgPath] = filepath.Dir(pkg.GoFiles[0])
		}
	}

	// Map key marks must be known before any key literal is converted.
	for _, pkg := range kept {
		s.collectMarks(pkg)
	}
	for _, pkg := range kept {
		s.extractKeys(pkg)
		s.extractComponents(pkg)
		s.extractModule(pkg)
	}

	s.logger.Debug("Scan finished",
		"packages", len(kept),
		"modules", len(s.decls.ModuleOrder),
		"components", len(s.decls.Components),
		"keys", len(s.decls.Keys))
	if len(s.errs) > 0 {
		return nil, s.errs
	}
	return s.decls, nil
}

// buildPatterns converts scan config paths to Go package patterns.
func (s *Scanner) buildPatterns() []string {
	var patterns []string
	for _, scan := range s.cfg.Scan {
		p := strings.TrimPrefix(scan, "./")
		if p == "" || p == "." {
			patterns = append(patterns, s.cfg.Module)
			continue
		}
		patterns = append(patterns, s.cfg.Module+"/"+p)
	}
	return patterns
}

// shouldExclude checks if a package path should be excluded.
func (s *Scanner) shouldExclude(pkgPath string) bool {
	rel, ok := strings.CutPrefix(pkgPath, s.cfg.Module+"/")
	if !ok {
		return false
	}
	return IsExcluded(rel, s.cfg.Exclude) || IsGitignored(rel, s.gitignore)
}

var unusedImportRe = regexp.MustCompile(`"([^"]+)" imported (?:and|but) not used`)

// directiveImports returns the import paths of pkg that a //multibind:
// directive of the importing file refers to, such as keys in
// //multibind:key keys.PathKey{Value: keys.Admin}.
func directiveImports(pkg *packages.Package) map[string]bool {
	used := make(map[string]bool)
	for _, f := range pkg.Syntax {
		var text strings.Builder
		for _, cg := range f.Comments {
			for _, c := range cg.List {
				if strings.HasPrefix(c.Text, "//"+directivePrefix) {
					text.WriteString(c.Text)
					text.WriteByte('\n')
				}
			}
		}
		if text.Len() == 0 {
			continue
		}
		for _, spec := range f.Imports {
			path, err := strconv.Unquote(spec.Path.Value)
			if err != nil {
				continue
			}
			name := pkgNameOf(path)
			if imp, ok := pkg.Imports[path]; ok && imp.Name != "" {
				name = imp.Name
			}
			if spec.Name != nil {
				name = spec.Name.Name
			}
			if referencesPackage(text.String(), name) {
				used[path] = true
			}
		}
	}
	return used
}

// referencesPackage reports whether src contains the qualifier name. as a
// whole identifier.
func referencesPackage(src, name string) bool {
	for i := 0; ; {
		j := strings.Index(src[i:], name+".")
		if j < 0 {
			return false
		}
		j += i
		if j == 0 || !isIdentByte(src[j-1]) {
			return true
		}
		i = j + len(name) + 1
	}
}

func isIdentByte(c byte) bool {
	return c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

// unusedImportOnly reports whether msg lists nothing but unused imports of
// packages in used. A compiler report may carry several lines and a
// "# package" header.
func unusedImportOnly(msg string, used map[string]bool) bool {
	found := false
	for _, line := range strings.Split(msg, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "# ") {
			continue
		}
		m := unusedImportRe.FindStringSubmatch(line)
		if m == nil || !used[m[1]] {
			return false
		}
		found = true
	}
	return found
}

// typeSpecs calls fn for every type declaration of pkg with its directives.
func typeSpecs(pkg *packages.Package, fn func(spec *ast.TypeSpec, directives []Directive)) {
	for _, f := range pkg.Syntax {
		for _, decl := range f.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, spec := range gen.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && len(gen.Specs) == 1 {
					doc = gen.Doc
				}
				fn(ts, ParseDirectives(doc))
			}
		}
	}
}

// collectMarks records every struct type marked //multibind:mapkey.
func (s *Scanner) collectMarks(pkg *packages.Package) {
	typeSpecs(pkg, func(spec *ast.TypeSpec, directives []Directive) {
		marks := DirectivesOf(directives, DirMapKey)
		if len(marks) == 0 {
			return
		}
		obj := pkg.TypesInfo.Defs[spec.Name]
		if obj == nil {
			return
		}
		if marks[0].Value != "" && marks[0].Value != "unwrap" {
			s.fail(pkg.PkgPath+"."+spec.Name.Name, spec.Pos(), "unknown mapkey option %q", marks[0].Value)
			return
		}
		s.marks[types.TypeString(obj.Type(), nil)] = marks[0].Value
	})
}

// extractKeys registers the key definitions declared in pkg.
func (s *Scanner) extractKeys(pkg *packages.Package) {
	typeSpecs(pkg, func(spec *ast.TypeSpec, directives []Directive) {
		if !HasDirective(directives, DirMapKey) {
			return
		}
		obj := pkg.TypesInfo.Defs[spec.Name]
		if obj == nil {
			return
		}
		named, ok := obj.Type().(*types.Named)
		if !ok {
			return
		}
		if def, err := s.keyDefinition(named); err != nil {
			s.errs = append(s.errs, err)
		} else {
			s.decls.AddKey(def)
		}
	})
}

// keyDefinition describes a struct type used in key literals. Only types
// carrying //multibind:mapkey are map keys; others may still appear nested.
func (s *Scanner) keyDefinition(named *types.Named) (*KeyDefinition, error) {
	id := types.TypeString(named, nil)
	if def, ok := s.keyDefs[id]; ok {
		return def, nil
	}
	obj := named.Obj()
	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return nil, s.errorf(id, obj.Pos(), "key types must be structs")
	}
	t, err := s.convertType(named)
	if err != nil {
		return nil, err
	}
	mark, marked := s.marks[id]
	def := &KeyDefinition{Type: t, MapKey: marked, Unwrap: mark == "unwrap"}
	s.keyDefs[id] = def

	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if f.Embedded() {
			return nil, s.errorf(id, f.Pos(), "embedded field %s is not a key member", f.Name())
		}
		mt, err := s.convertType(f.Type())
		if err != nil {
			return nil, err
		}
		m := Member{Name: f.Name(), Type: mt}
		if tag := reflect.StructTag(st.Tag(i)).Get("default"); tag != "" {
			e, err := parser.ParseExpr(tag)
			if err != nil {
				return nil, s.errorf(id+"."+f.Name(), f.Pos(), "default %q: %v", tag, err)
			}
			if m.Default, err = s.convertValue(obj.Pkg(), obj.Pos(), e, f.Type()); err != nil {
				return nil, err
			}
		}
		def.Members = append(def.Members, m)
	}
	return def, nil
}

// extractComponents finds interfaces marked //multibind:component.
func (s *Scanner) extractComponents(pkg *packages.Package) {
	typeSpecs(pkg, func(spec *ast.TypeSpec, directives []Directive) {
		if !HasDirective(directives, DirComponent) {
			return
		}
		name := pkg.PkgPath + "." + spec.Name.Name
		iface, ok := spec.Type.(*ast.InterfaceType)
		if !ok {
			s.fail(name, spec.Pos(), "components must be interfaces")
			return
		}
		comp := &Component{
			Name:     spec.Name.Name,
			PkgPath:  pkg.PkgPath,
			PkgName:  pkg.Name,
			Position: s.fset.Position(spec.Pos()),
		}
		for _, v := range DirectiveValues(directives, DirComponent) {
			comp.Modules = append(comp.Modules, strings.Fields(v)...)
		}
		for _, field := range iface.Methods.List {
			if len(field.Names) == 0 {
				s.fail(name, field.Pos(), "embedded interfaces are not supported")
				continue
			}
			method := field.Names[0]
			fn, ok := pkg.TypesInfo.Defs[method].(*types.Func)
			if !ok {
				continue
			}
			sig := fn.Type().(*types.Signature)
			if sig.Params().Len() != 0 || sig.Results().Len() != 1 {
				s.fail(name+"."+method.Name, method.Pos(), "request methods take no arguments and return one value")
				continue
			}
			t, err := s.convertType(sig.Results().At(0).Type())
			if err != nil {
				s.errs = append(s.errs, err)
				continue
			}
			req := Request{Method: method.Name, Type: t}
			if q := DirectiveValues(ParseDirectives(field.Doc), DirQualifier); len(q) > 0 {
				req.Qualifier = q[0]
			}
			comp.Requests = append(comp.Requests, req)
		}
		s.decls.Components = append(s.decls.Components, comp)
	})
}

// extractModule registers pkg as a module when it declares bindings or
// includes other modules.
func (s *Scanner) extractModule(pkg *packages.Package) {
	m := &Module{Path: pkg.PkgPath, Name: pkg.Name}
	for _, f := range pkg.Syntax {
		for _, v := range DirectiveValues(ParseDirectives(f.Doc), DirInclude) {
			m.Includes = append(m.Includes, strings.Fields(v)...)
		}
		for _, decl := range f.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv != nil {
				continue
			}
			directives := ParseDirectives(fn.Doc)
			if HasDirective(directives, DirIgnore) {
				continue
			}
			if b := s.buildBinding(pkg, fn, directives); b != nil {
				m.Bindings = append(m.Bindings, b)
			}
		}
	}
	if len(m.Bindings) > 0 || len(m.Includes) > 0 {
		s.decls.AddModule(m)
	}
}

// buildBinding creates a Binding from a function declaration, or nil when the
// function declares nothing.
func (s *Scanner) buildBinding(pkg *packages.Package, fn *ast.FuncDecl, directives []Directive) *Binding {
	provides := HasDirective(directives, DirProvides)
	into := DirectiveValues(directives, DirInto)
	if !provides && len(into) == 0 {
		return nil
	}
	name := pkg.Name + "." + fn.Name.Name
	if !fn.Name.IsExported() {
		s.fail(name, fn.Pos(), "bindings must be exported functions")
		return nil
	}
	if provides && len(into) > 0 {
		s.fail(name, fn.Pos(), "a binding is either provided or contributed, not both")
		return nil
	}

	funcObj, ok := pkg.TypesInfo.Defs[fn.Name].(*types.Func)
	if !ok {
		return nil
	}
	sig := funcObj.Type().(*types.Signature)
	if sig.Results().Len() != 1 {
		s.fail(name, fn.Pos(), "bindings return exactly one value")
		return nil
	}
	if sig.TypeParams().Len() > 0 {
		s.fail(name, fn.Pos(), "generic functions cannot be bindings")
		return nil
	}
	out, err := s.convertType(sig.Results().At(0).Type())
	if err != nil {
		s.errs = append(s.errs, err)
		return nil
	}

	b := &Binding{
		Module:   pkg.PkgPath,
		PkgName:  pkg.Name,
		Member:   fn.Name.Name,
		Output:   out,
		Position: s.fset.Position(fn.Pos()),
	}
	switch {
	case provides:
		b.Type = BindingUnique
	case into[0] == "map":
		b.Type = BindingIntoMap
	case into[0] == "set":
		b.Type = BindingIntoSet
	default:
		s.fail(name, fn.Pos(), "unknown multibinding %q, want map or set", into[0])
		return nil
	}
	if q := DirectiveValues(directives, DirQualifier); len(q) > 0 {
		b.Qualifier = q[0]
	}
	if sc := DirectiveValues(directives, DirScope); len(sc) > 0 {
		b.Scope = sc[0]
	}
	for i := 0; i < sig.Params().Len(); i++ {
		pt, err := s.convertType(sig.Params().At(i).Type())
		if err != nil {
			s.errs = append(s.errs, err)
			return nil
		}
		b.Params = append(b.Params, pt)
	}
	for _, d := range DirectivesOf(directives, DirKey) {
		a, err := s.keyLiteral(pkg.Types, d)
		if err != nil {
			s.errs = append(s.errs, err)
			return nil
		}
		b.Annotations = append(b.Annotations, a)
	}
	return b
}

// keyLiteral converts the composite literal of a //multibind:key directive.
// Identifiers resolve in the scope of the file holding the directive.
func (s *Scanner) keyLiteral(pkg *types.Package, d Directive) (*Annotation, error) {
	e, err := parser.ParseExpr(d.Value)
	if err != nil {
		return nil, s.errorf(d.Value, d.Pos, "parse key: %v", err)
	}
	lit, ok := e.(*ast.CompositeLit)
	if !ok || lit.Type == nil {
		return nil, s.errorf(d.Value, d.Pos, "a key is a composite literal such as PathKey{Value: Admin}")
	}
	v, err := s.convertValue(pkg, d.Pos, lit, nil)
	if err != nil {
		return nil, err
	}
	a, ok := v.(*Annotation)
	if !ok {
		return nil, s.errorf(d.Value, d.Pos, "a key must be a struct literal")
	}
	return a, nil
}

// convertValue turns a constant expression into a Value. want is the type the
// expression is assigned to, nil when the expression carries its own type.
func (s *Scanner) convertValue(pkg *types.Package, pos token.Pos, e ast.Expr, want types.Type) (Value, error) {
	src := types.ExprString(e)
	switch x := e.(type) {
	case *ast.ParenExpr:
		return s.convertValue(pkg, pos, x.X, want)
	case *ast.CompositeLit:
		t := want
		if x.Type != nil {
			tv, err := types.Eval(s.fset, pkg, pos, types.ExprString(x.Type))
			if err != nil || !tv.IsType() {
				return nil, s.errorf(src, pos, "%s is not a type", types.ExprString(x.Type))
			}
			t = tv.Type
		}
		if t == nil {
			return nil, s.errorf(src, pos, "untyped composite literal")
		}
		return s.compositeValue(pkg, pos, x, t)
	case *ast.CallExpr:
		if arg, ok := typeForArg(x); ok {
			tv, err := types.Eval(s.fset, pkg, pos, types.ExprString(arg))
			if err != nil || !tv.IsType() {
				return nil, s.errorf(src, pos, "%s is not a type", types.ExprString(arg))
			}
			t, err := s.convertType(tv.Type)
			if err != nil {
				return nil, err
			}
			return TypeValue{Type: t}, nil
		}
	}

	tv, err := types.Eval(s.fset, pkg, pos, src)
	if err != nil {
		return nil, s.errorf(src, pos, "%v", err)
	}
	if tv.Value == nil {
		return nil, s.errorf(src, pos, "key values must be constants, type literals, composite literals or arrays")
	}
	if named, ok := types.Unalias(tv.Type).(*types.Named); ok {
		if name, ok := constName(e); ok {
			t, err := s.convertType(named)
			if err != nil {
				return nil, err
			}
			return EnumValue{Type: t, Name: name, Const: tv.Value}, nil
		}
	}
	if want == nil {
		want = types.Default(tv.Type)
	}
	lit, _ := e.(*ast.BasicLit)
	return constValue(tv.Value, want, lit != nil && lit.Kind == token.CHAR)
}

// compositeValue converts a struct literal into an annotation and a slice or
// array literal into an array value.
func (s *Scanner) compositeValue(pkg *types.Package, pos token.Pos, lit *ast.CompositeLit, t types.Type) (Value, error) {
	src := types.ExprString(lit)
	t = types.Unalias(t)
	switch u := t.Underlying().(type) {
	case *types.Struct:
		named, ok := t.(*types.Named)
		if !ok {
			return nil, s.errorf(src, pos, "anonymous structs cannot be key values")
		}
		def, err := s.keyDefinition(named)
		if err != nil {
			return nil, err
		}
		a := &Annotation{Def: def}
		for i, elt := range lit.Elts {
			var (
				field int
				value = elt
			)
			if kv, ok := elt.(*ast.KeyValueExpr); ok {
				id, ok := kv.Key.(*ast.Ident)
				if !ok {
					return nil, s.errorf(src, pos, "invalid field name %s", types.ExprString(kv.Key))
				}
				field = fieldIndex(u, id.Name)
				if field < 0 {
					return nil, s.errorf(src, pos, "%s has no member %s", named.Obj().Name(), id.Name)
				}
				value = kv.Value
			} else {
				field = i
				if field >= u.NumFields() {
					return nil, s.errorf(src, pos, "too many values for %s", named.Obj().Name())
				}
			}
			v, err := s.convertValue(pkg, pos, value, u.Field(field).Type())
			if err != nil {
				return nil, err
			}
			a.Values = append(a.Values, MemberValue{Name: u.Field(field).Name(), Value: v})
		}
		return a, nil
	case *types.Slice:
		return s.arrayValue(pkg, pos, lit, u.Elem())
	case *types.Array:
		return s.arrayValue(pkg, pos, lit, u.Elem())
	}
	return nil, s.errorf(src, pos, "unsupported composite literal of type %s", t)
}

func (s *Scanner) arrayValue(pkg *types.Package, pos token.Pos, lit *ast.CompositeLit, elem types.Type) (Value, error) {
	et, err := s.convertType(elem)
	if err != nil {
		return nil, err
	}
	arr := ArrayValue{Elem: et}
	for _, elt := range lit.Elts {
		if _, ok := elt.(*ast.KeyValueExpr); ok {
			return nil, s.errorf(types.ExprString(lit), pos, "indexed array elements are not supported")
		}
		v, err := s.convertValue(pkg, pos, elt, elem)
		if err != nil {
			return nil, err
		}
		arr.Values = append(arr.Values, v)
	}
	return arr, nil
}

// typeForArg returns T for a reflect.TypeFor[T]() call.
func typeForArg(call *ast.CallExpr) (ast.Expr, bool) {
	if len(call.Args) != 0 {
		return nil, false
	}
	idx, ok := call.Fun.(*ast.IndexExpr)
	if !ok {
		return nil, false
	}
	sel, ok := idx.X.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != "TypeFor" {
		return nil, false
	}
	if pkg, ok := sel.X.(*ast.Ident); !ok || pkg.Name != "reflect" {
		return nil, false
	}
	return idx.Index, true
}

// constName returns the constant an identifier or selector names.
func constName(e ast.Expr) (string, bool) {
	switch x := e.(type) {
	case *ast.Ident:
		return x.Name, true
	case *ast.SelectorExpr:
		return x.Sel.Name, true
	}
	return "", false
}

func fieldIndex(st *types.Struct, name string) int {
	for i := 0; i < st.NumFields(); i++ {
		if st.Field(i).Name() == name {
			return i
		}
	}
	return -1
}

// constValue converts a constant assigned to a value of type t.
// Members of named types get no kind, so their literals render untyped.
func constValue(v constant.Value, t types.Type, char bool) (Value, error) {
	basic, ok := t.Underlying().(*types.Basic)
	if !ok {
		return nil, fmt.Errorf("constant %s cannot be assigned to %s", v, t)
	}
	info := basic.Info()
	kind := basic.Name()
	if _, named := t.(*types.Named); named {
		kind = ""
	}
	switch {
	case info&types.IsBoolean != 0:
		return BoolValue(constant.BoolVal(v)), nil
	case info&types.IsString != 0:
		return StringValue(constant.StringVal(v)), nil
	case char && info&types.IsInteger != 0:
		r, _ := constant.Int64Val(constant.ToInt(v))
		return RuneValue(r), nil
	case info&types.IsUnsigned != 0:
		u, exact := constant.Uint64Val(constant.ToInt(v))
		if !exact {
			return nil, fmt.Errorf("constant %s overflows %s", v, basic.Name())
		}
		return UintValue{Kind: kind, V: u}, nil
	case info&types.IsInteger != 0:
		i, exact := constant.Int64Val(constant.ToInt(v))
		if !exact {
			return nil, fmt.Errorf("constant %s overflows %s", v, basic.Name())
		}
		return IntValue{Kind: kind, V: i}, nil
	case info&types.IsFloat != 0:
		f, _ := constant.Float64Val(constant.ToFloat(v))
		return FloatValue{Kind: kind, V: f}, nil
	}
	return nil, fmt.Errorf("unsupported constant type %s", basic.Name())
}

// convertType maps a go/types type onto the engine's type model.
func (s *Scanner) convertType(t types.Type) (*Type, error) {
	switch t := types.Unalias(t).(type) {
	case *types.Basic:
		if t.Info()&types.IsUntyped != 0 {
			return nil, fmt.Errorf("untyped %s has no type", t.Name())
		}
		return Basic(t.Name()), nil
	case *types.Named:
		obj := t.Obj()
		out := &Type{Kind: KindNamed, Name: obj.Name()}
		if obj.Pkg() != nil {
			out.PkgPath = obj.Pkg().Path()
			out.PkgName = obj.Pkg().Name()
		}
		args := t.TypeArgs()
		for i := 0; i < args.Len(); i++ {
			a, err := s.convertType(args.At(i))
			if err != nil {
				return nil, err
			}
			out.Args = append(out.Args, a)
		}
		return out, nil
	case *types.Pointer:
		elem, err := s.convertType(t.Elem())
		if err != nil {
			return nil, err
		}
		return PointerTo(elem), nil
	case *types.Slice:
		elem, err := s.convertType(t.Elem())
		if err != nil {
			return nil, err
		}
		return SliceOf(elem), nil
	case *types.Array:
		elem, err := s.convertType(t.Elem())
		if err != nil {
			return nil, err
		}
		return ArrayOf(t.Len(), elem), nil
	case *types.Map:
		key, err := s.convertType(t.Key())
		if err != nil {
			return nil, err
		}
		elem, err := s.convertType(t.Elem())
		if err != nil {
			return nil, err
		}
		return MapOf(key, elem), nil
	case *types.Interface:
		if t.Empty() {
			return Basic("any"), nil
		}
	}
	return nil, fmt.Errorf("unsupported type %s", t)
}

func (s *Scanner) errorf(element string, pos token.Pos, format string, args ...any) error {
	return &DeclarationError{Element: element, Position: s.fset.Position(pos), Message: fmt.Sprintf(format, args...)}
}

func (s *Scanner) fail(element string, pos token.Pos, format string, args ...any) {
	s.errs = append(s.errs, s.errorf(element, pos, format, args...))
}
