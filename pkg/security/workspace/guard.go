// Package workspace enforces workspace boundaries on file system
// operations. Every path a tool touches must resolve inside the notes
// workspace; traversal outside it is rejected before any I/O happens.
package workspace

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// defaultIgnorePatterns are path segments hidden from listing and search.
var defaultIgnorePatterns = []string{
	".git/**",
	".git",
	".obsidian/**",
	".trash/**",
	"node_modules/**",
	".DS_Store",
}

// Guard validates that file operations stay within a workspace root and
// filters out ignored paths.
type Guard struct {
	root    string
	ignores []glob.Glob
}

// NewGuard creates a guard rooted at workspaceDir. Extra ignore patterns
// (gitignore-style globs, relative to the root) extend the defaults.
func NewGuard(workspaceDir string, extraIgnores ...string) (*Guard, error) {
	if workspaceDir == "" {
		return nil, fmt.Errorf("workspace directory cannot be empty")
	}

	absPath, err := filepath.Abs(workspaceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace directory: %w", err)
	}

	patterns := append(append([]string{}, defaultIgnorePatterns...), extraIgnores...)
	ignores := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		ignores = append(ignores, g)
	}

	return &Guard{root: absPath, ignores: ignores}, nil
}

// Root returns the absolute workspace root.
func (g *Guard) Root() string {
	return g.root
}

// Resolve converts a workspace-relative (or absolute) path to an absolute
// path and verifies it stays inside the workspace.
func (g *Guard) Resolve(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(g.root, abs)
	}
	abs = filepath.Clean(abs)

	if abs != g.root && !strings.HasPrefix(abs, g.root+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q is outside workspace boundaries", path)
	}

	return abs, nil
}

// Rel returns the workspace-relative form of an absolute path.
func (g *Guard) Rel(abs string) string {
	rel, err := filepath.Rel(g.root, abs)
	if err != nil {
		return abs
	}
	return filepath.ToSlash(rel)
}

// IsIgnored reports whether a workspace-relative path matches an ignore
// pattern.
func (g *Guard) IsIgnored(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, ig := range g.ignores {
		if ig.Match(rel) {
			return true
		}
	}
	return false
}
