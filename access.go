package main

import "strings"

// IsAccessibleFrom reports whether t can be named by code in package from.
// A named type must be declared in from, or be exported from a package from
// may import; composite types need every component to be accessible.
func IsAccessibleFrom(t *Type, from string) bool {
	if t == nil {
		return true
	}
	switch t.Kind {
	case KindBasic:
		return true
	case KindNamed:
		if t.PkgPath != "" && t.PkgPath != from {
			if !t.Exported() || !packageVisible(t.PkgPath, from) {
				return false
			}
		}
		for _, a := range t.Args {
			if !IsAccessibleFrom(a, from) {
				return false
			}
		}
		return true
	case KindMap:
		return IsAccessibleFrom(t.Key, from) && IsAccessibleFrom(t.Elem, from)
	default:
		return IsAccessibleFrom(t.Elem, from)
	}
}

// packageVisible applies the internal directory rule: a package below an
// "internal" element is importable only from the tree rooted at its parent.
func packageVisible(target, from string) bool {
	parts := strings.Split(target, "/")
	for i, p := range parts {
		if p != "internal" {
			continue
		}
		root := strings.Join(parts[:i], "/")
		if root == "" {
			continue
		}
		if from != root && !strings.HasPrefix(from, root+"/") {
			return false
		}
	}
	return true
}
