package main

import (
	"bufio"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar"
)

// GitignorePattern represents a single gitignore pattern.
type GitignorePattern struct {
	Pattern  string
	Negation bool
	DirOnly  bool
}

// LoadGitignore parses .gitignore from the module root.
func LoadGitignore(root string) []GitignorePattern {
	f, err := os.Open(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	defer f.Close()

	var patterns []GitignorePattern
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		p := GitignorePattern{}
		if strings.HasPrefix(line, "!") {
			p.Negation = true
			line = line[1:]
		}
		if strings.HasSuffix(line, "/") {
			p.DirOnly = true
			line = strings.TrimSuffix(line, "/")
		}
		p.Pattern = line
		patterns = append(patterns, p)
	}
	return patterns
}

// IsGitignored checks if a module-relative directory matches the patterns.
// Later patterns win, so a negation re-includes what an earlier one ignored.
func IsGitignored(relDir string, patterns []GitignorePattern) bool {
	relDir = filepath.ToSlash(relDir)

	ignored := false
	for _, p := range patterns {
		if matchGitignore(relDir, p.Pattern) {
			ignored = !p.Negation
		}
	}
	return ignored
}

// matchGitignore matches a directory or anything below it. Patterns with a
// slash are anchored at the root; others match any path element.
func matchGitignore(relDir, pattern string) bool {
	if strings.Contains(pattern, "/") {
		return matchTree(strings.TrimPrefix(pattern, "/"), relDir)
	}
	for _, elem := range strings.Split(relDir, "/") {
		if ok, _ := doublestar.Match(pattern, elem); ok {
			return true
		}
	}
	return false
}

// IsExcluded reports whether a module-relative directory matches one of the
// configured exclude globs.
func IsExcluded(relDir string, globs []string) bool {
	relDir = filepath.ToSlash(relDir)
	for _, g := range globs {
		if matchTree(strings.TrimPrefix(g, "./"), relDir) {
			return true
		}
	}
	return false
}

// matchTree matches name, or any of its parents, against a doublestar glob.
func matchTree(pattern, name string) bool {
	for dir := name; dir != "." && dir != "" && dir != "/"; dir = path.Dir(dir) {
		if ok, _ := doublestar.Match(pattern, dir); ok {
			return true
		}
	}
	return false
}
