package workspace

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGuard_EmptyDir(t *testing.T) {
	_, err := NewGuard("")
	require.Error(t, err)
}

func TestResolve_InsideWorkspace(t *testing.T) {
	dir := t.TempDir()
	guard, err := NewGuard(dir)
	require.NoError(t, err)

	abs, err := guard.Resolve("notes/a.md")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "notes", "a.md"), abs)
}

func TestResolve_Root(t *testing.T) {
	dir := t.TempDir()
	guard, err := NewGuard(dir)
	require.NoError(t, err)

	abs, err := guard.Resolve(".")
	require.NoError(t, err)
	assert.Equal(t, guard.Root(), abs)
}

func TestResolve_TraversalRejected(t *testing.T) {
	dir := t.TempDir()
	guard, err := NewGuard(dir)
	require.NoError(t, err)

	cases := []string{
		"../outside.md",
		"notes/../../etc/passwd",
		"/etc/passwd",
	}
	for _, path := range cases {
		_, err := guard.Resolve(path)
		assert.Error(t, err, "path %q should be rejected", path)
	}
}

func TestIsIgnored(t *testing.T) {
	guard, err := NewGuard(t.TempDir(), "drafts/**")
	require.NoError(t, err)

	assert.True(t, guard.IsIgnored(".git/config"))
	assert.True(t, guard.IsIgnored(".obsidian/workspace.json"))
	assert.True(t, guard.IsIgnored("drafts/wip.md"))
	assert.False(t, guard.IsIgnored("notes/a.md"))
}

func TestRel(t *testing.T) {
	dir := t.TempDir()
	guard, err := NewGuard(dir)
	require.NoError(t, err)

	abs, err := guard.Resolve("notes/a.md")
	require.NoError(t, err)
	assert.Equal(t, "notes/a.md", guard.Rel(abs))
}
