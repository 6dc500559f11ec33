package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcherSimplePatterns(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		path     string
		isDir    bool
		expected bool
	}{
		{name: "exact filename match", pattern: "foo.txt", path: "foo.txt", expected: true},
		{name: "exact filename no match", pattern: "foo.txt", path: "bar.txt", expected: false},
		{name: "filename in subdir", pattern: "foo.txt", path: "src/foo.txt", expected: true},
		{name: "extension wildcard", pattern: "*.log", path: "logs/error.log", expected: true},
		{name: "extension wildcard no match", pattern: "*.log", path: "error.txt", expected: false},
		{name: "anchored pattern only matches root", pattern: "/build", path: "src/build", expected: false},
		{name: "directory-only matches nested file", pattern: "temp/", path: "temp/file.go", isDir: false, expected: true},
		{name: "double-star matches any depth", pattern: "**/node_modules", path: "a/b/node_modules", isDir: true, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			m.AddPattern(tt.pattern)
			assert.Equal(t, tt.expected, m.Match(tt.path, tt.isDir))
		})
	}
}

func TestMatcherNegation(t *testing.T) {
	m := New()
	m.AddPattern("*.log")
	m.AddPattern("!important.log")

	assert.True(t, m.Match("debug.log", false))
	assert.False(t, m.Match("important.log", false))
}

func TestMatcherAddFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".gitignore")
	require.NoError(t, os.WriteFile(path, []byte("*.tmp\n# comment\nbuild/\n"), 0o644))

	m := New()
	require.NoError(t, m.AddFromFile(path, ""))

	assert.True(t, m.Match("cache.tmp", false))
	assert.True(t, m.Match("build/out.bin", false))
	assert.False(t, m.Match("main.go", false))
}

func TestMatcherBaseScoping(t *testing.T) {
	m := New()
	m.AddPatternWithBase("local.txt", "sub")

	assert.False(t, m.Match("local.txt", false), "pattern scoped to sub/ should not match the root")
	assert.True(t, m.Match("sub/local.txt", false))
}

func TestDiffPatterns(t *testing.T) {
	added, removed := DiffPatterns("*.log\nbuild/\n", "*.log\ndist/\n")
	assert.ElementsMatch(t, []string{"dist/"}, added)
	assert.ElementsMatch(t, []string{"build/"}, removed)
}
