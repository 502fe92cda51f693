package main

import (
	"bytes"
	"fmt"
	"go/format"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"unicode"
)

// GeneratedFile is one output file. Name is an absolute path.
type GeneratedFile struct {
	Name    string
	Content []byte
}

// CodeGen renders resolved components and the key creator helpers they call.
type CodeGen struct {
	cfg        *Config
	decls      *Declarations
	moduleRoot string
}

// NewCodeGen creates a generator writing below moduleRoot.
func NewCodeGen(cfg *Config, decls *Declarations, moduleRoot string) *CodeGen {
	return &CodeGen{cfg: cfg, decls: decls, moduleRoot: moduleRoot}
}

// Generate renders one file per component plus one creators file per package
// declaring a key type used in a non-unwrapped key.
func (g *CodeGen) Generate(results []*Resolution) ([]GeneratedFile, error) {
	var files []GeneratedFile
	creators := make(map[string][]*KeyDefinition)
	seen := make(map[*KeyDefinition]bool)

	for _, res := range results {
		src, err := RenderComponent(res)
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", res.Component.Name, err)
		}
		dir, err := g.dir(res.Component.PkgPath)
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", res.Component.Name, err)
		}
		files = append(files, GeneratedFile{Name: filepath.Join(dir, snakeCase(res.Component.Name)+g.suffix()), Content: src})

		for _, def := range res.Creators {
			if seen[def] {
				continue
			}
			seen[def] = true
			creators[def.Type.PkgPath] = append(creators[def.Type.PkgPath], def)
		}
	}

	pkgs := make([]string, 0, len(creators))
	for p := range creators {
		pkgs = append(pkgs, p)
	}
	sort.Strings(pkgs)
	for _, pkgPath := range pkgs {
		defs := creators[pkgPath]
		sort.Slice(defs, func(i, j int) bool { return defs[i].Type.Name < defs[j].Type.Name })
		src, err := RenderCreators(pkgPath, defs)
		if err != nil {
			return nil, fmt.Errorf("creators for %s: %w", pkgPath, err)
		}
		dir, err := g.dir(pkgPath)
		if err != nil {
			return nil, fmt.Errorf("creators for %s: %w", pkgPath, err)
		}
		files = append(files, GeneratedFile{Name: filepath.Join(dir, "creators"+g.suffix()), Content: src})
	}
	return files, nil
}

func (g *CodeGen) suffix() string {
	if g.cfg != nil && g.cfg.Output != "" {
		return g.cfg.Output
	}
	return DefaultOutputSuffix
}

// dir finds the directory of a package, falling back to its path below the
// module root.
func (g *CodeGen) dir(pkgPath string) (string, error) {
	if d, ok := g.decls.Dirs[pkgPath]; ok {
		if !filepath.IsAbs(d) {
			d = filepath.Join(g.moduleRoot, d)
		}
		return d, nil
	}
	if g.cfg != nil && g.cfg.Module != "" {
		if pkgPath == g.cfg.Module {
			return g.moduleRoot, nil
		}
		if rel, ok := strings.CutPrefix(pkgPath, g.cfg.Module+"/"); ok {
			return filepath.Join(g.moduleRoot, filepath.FromSlash(rel)), nil
		}
	}
	return "", fmt.Errorf("no directory known for package %s", pkgPath)
}

// RenderComponent renders the formatted source of one component.
func RenderComponent(res *Resolution) ([]byte, error) {
	comp := res.Component
	pkgName := comp.PkgName
	if pkgName == "" {
		pkgName = pkgNameOf(comp.PkgPath)
	}
	data := struct {
		Package   string
		Component string
		Impl      string
		Imports   []GoImport
		Fields    []Assignment
		Methods   []Method
	}{
		Package:   pkgName,
		Component: comp.Name,
		Impl:      comp.Name + "Impl",
		Imports:   res.Imports.Imports(),
		Fields:    res.Fields,
		Methods:   res.Methods,
	}
	return execFormatted(componentTpl, data)
}

// RenderCreators renders the creator helpers of defs, all declared in pkgPath.
func RenderCreators(pkgPath string, defs []*KeyDefinition) ([]byte, error) {
	imports := NewImportSet(pkgPath)
	var funcs []string
	for _, def := range defs {
		funcs = append(funcs, CreatorSource(def, imports))
	}
	pkgName := pkgNameOf(pkgPath)
	if len(defs) > 0 && defs[0].Type.PkgName != "" {
		pkgName = defs[0].Type.PkgName
	}
	data := struct {
		Package string
		Imports []GoImport
		Funcs   []string
	}{
		Package: pkgName,
		Imports: imports.Imports(),
		Funcs:   funcs,
	}
	return execFormatted(creatorsTpl, data)
}

func execFormatted(tpl *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return buf.Bytes(), fmt.Errorf("format generated code: %w", err)
	}
	return src, nil
}

// snakeCase converts "AppComponent" to "app_component".
func snakeCase(s string) string {
	var b strings.Builder
	r := []rune(s)
	for i, c := range r {
		if unicode.IsUpper(c) {
			if i > 0 && (unicode.IsLower(r[i-1]) || (i+1 < len(r) && unicode.IsLower(r[i+1]))) {
				b.WriteByte('_')
			}
			c = unicode.ToLower(c)
		}
		b.WriteRune(c)
	}
	return b.String()
}

const generatedHeader = "// Code generated by multibind. DO NOT EDIT.\n"

var componentTpl = template.Must(template.New("component").Parse(generatedHeader + `
package {{.Package}}
{{if .Imports}}
import (
{{- range .Imports}}
	{{- if .Name}}
	{{.Name}} "{{.Path}}"
	{{- else}}
	"{{.Path}}"
	{{- end}}
{{- end}}
)
{{end}}
// {{.Impl}} implements {{.Component}}.
type {{.Impl}} struct {
{{- range .Fields}}
	{{.Field}} {{.TypeExpr}}
{{- end}}
}

var _ {{.Component}} = (*{{.Impl}})(nil)

// New{{.Component}} returns a {{.Component}} with every binding wired.
func New{{.Component}}() *{{.Impl}} {
	c := &{{.Impl}}{}
	c.initialize()
	return c
}

func (c *{{.Impl}}) initialize() {
{{- range .Fields}}
	c.{{.Field}} = {{.Expr}}
{{- end}}
}
{{range .Methods}}
func (c *{{$.Impl}}) {{.Name}}() {{.ResultType}} {
	return {{.Return}}
}
{{end}}`))

var creatorsTpl = template.Must(template.New("creators").Parse(generatedHeader + `
package {{.Package}}
{{if .Imports}}
import (
{{- range .Imports}}
	{{- if .Name}}
	{{.Name}} "{{.Path}}"
	{{- else}}
	"{{.Path}}"
	{{- end}}
{{- end}}
)
{{end}}
{{range .Funcs}}
{{.}}
{{end}}`))
