package main

import "errors"

// DefaultOutputSuffix names generated component files: AppComponent →
// app_component_multibind.go.
const DefaultOutputSuffix = "_multibind.go"

// ErrNoRuntime is returned when no runtime package is configured.
var ErrNoRuntime = errors.New("no runtime package: add //multibind:runtime <import path> to generate.go")

// Config holds multibind configuration, populated from conventions and
// generate.go directives.
type Config struct {
	Module  string   // module path from go.mod
	Runtime string   // import path of the runtime factories, required
	Scan    []string // package patterns, relative to the module root
	Exclude []string // doublestar globs over module-relative directories
	Output  string   // generated file suffix
}
