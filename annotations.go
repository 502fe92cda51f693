package main

import (
	"go/ast"
	"go/token"
	"strings"
)

const directivePrefix = "multibind:"

// Directive kinds
const (
	DirProvides  = "provides"  // //multibind:provides
	DirInto      = "into"      // //multibind:into map|set
	DirKey       = "key"       // //multibind:key PathKey{Value: Admin}
	DirQualifier = "qualifier" // //multibind:qualifier primary
	DirScope     = "scope"     // //multibind:scope singleton
	DirIgnore    = "ignore"    // //multibind:ignore
	DirMapKey    = "mapkey"    // //multibind:mapkey [unwrap]
	DirComponent = "component" // //multibind:component <module>...
	DirInclude   = "include"   // //multibind:include <module>...
)

// Directive represents a parsed //multibind: comment.
type Directive struct {
	Kind  string
	Value string    // argument text, trimmed
	Pos   token.Pos // start of the argument text
}

// ParseDirectives extracts //multibind: directives from a doc comment.
func ParseDirectives(doc *ast.CommentGroup) []Directive {
	if doc == nil {
		return nil
	}

	var directives []Directive
	for _, comment := range doc.List {
		text, ok := strings.CutPrefix(comment.Text, "//"+directivePrefix)
		if !ok {
			continue
		}
		kind, value, _ := strings.Cut(text, " ")
		kind = strings.TrimSpace(kind)
		offset := len("//"+directivePrefix) + len(kind) + 1
		lead := len(value) - len(strings.TrimLeft(value, " \t"))
		value = strings.TrimSpace(value)

		switch kind {
		case DirProvides, DirInto, DirKey, DirQualifier, DirScope, DirIgnore, DirMapKey, DirComponent, DirInclude:
			directives = append(directives, Directive{Kind: kind, Value: value, Pos: comment.Slash + token.Pos(offset+lead)})
		}
	}
	return directives
}

// HasDirective checks if directives contain a specific kind.
func HasDirective(directives []Directive, kind string) bool {
	for _, d := range directives {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

// DirectiveValues returns all non-empty values of a directive kind.
func DirectiveValues(directives []Directive, kind string) []string {
	var values []string
	for _, d := range directives {
		if d.Kind == kind && d.Value != "" {
			values = append(values, d.Value)
		}
	}
	return values
}

// DirectivesOf returns every directive of a kind.
func DirectivesOf(directives []Directive, kind string) []Directive {
	var out []Directive
	for _, d := range directives {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}
