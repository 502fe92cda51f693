package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
)

// BuildConfig builds a Config from go.mod + generate.go conventions. A
// missing generate.go leaves every setting at its default.
func BuildConfig(moduleRoot string) (*Config, error) {
	module, err := parseModulePath(moduleRoot)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Module: module,
		Scan:    []string{"./..."},
		Output: DefaultOutputSuffix,
	}
	if err := parseGenerateFile(moduleRoot, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseModulePath(root string) (string, error) {
	path := filepath.Join(root, "go.mod")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read go.mod: %w", err)
	}
	module := modfile.ModulePath(data)
	if module == "" {
		return "", fmt.Errorf("module directive not found in %s", path)
	}
	return module, nil
}

// parseGenerateFile applies //multibind: directives found in generate.go:
//
//	//multibind:runtime github.com/acme/app/internal/rt
//	//multibind:scan internal/... pkg/...
//	//multibind:exclude **/testdata/**
//	//multibind:output _wire.go
func parseGenerateFile(root string, cfg *Config) error {
	data, err := os.ReadFile(filepath.Join(root, "generate.go"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read generate.go: %w", err)
	}

	var scan []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		directive, ok := strings.CutPrefix(line, "//"+directivePrefix)
		if !ok {
			continue
		}
		parts := strings.Fields(directive)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "runtime":
			if len(parts) != 2 {
				return fmt.Errorf("generate.go: %q: want one import path", line)
			}
			cfg.Runtime = parts[1]
		case "scan":
			scan = append(scan, parts[1:]...)
		case "exclude":
			cfg.Exclude = append(cfg.Exclude, parts[1:]...)
		case "output":
			if len(parts) != 2 || !strings.HasSuffix(parts[1], ".go") {
				return fmt.Errorf("generate.go: %q: want a suffix ending in .go", line)
			}
			cfg.Output = parts[1]
		}
	}
	if len(scan) > 0 {
		cfg.Scan = scan
	}
	return nil
}
