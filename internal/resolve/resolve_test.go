package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeTree creates:
//
//	root/
//	  a.txt
//	  b.md
//	  sub/
//	    a.txt
//	    deep/
//	      c.txt
//	  link.txt -> a.txt
func makeTree(t *testing.T) string {
	t.Helper()

	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub", "deep"), 0o755))
	for _, f := range []string{"a.txt", "b.md", "sub/a.txt", "sub/deep/c.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, f), []byte("x"), 0o644))
	}
	require.NoError(t, os.Symlink(filepath.Join(root, "a.txt"), filepath.Join(root, "link.txt")))
	return root
}

func rel(root string, objects []Object) []string {
	out := make([]string, len(objects))
	for i, o := range objects {
		r, err := filepath.Rel(root, o.Path)
		if err != nil {
			r = o.Path
		}
		out[i] = r
	}
	return out
}

func TestResolve_SingleLevelGlob(t *testing.T) {
	root := makeTree(t)

	got, err := Resolve([]string{"*.txt"}, Options{Dir: root})
	require.NoError(t, err)

	// link.txt resolves to a.txt and is deduplicated
	assert.Equal(t, []string{"a.txt"}, rel(root, got))
	assert.False(t, got[0].IsDir)
}

func TestResolve_NoMatchIsEmpty(t *testing.T) {
	root := makeTree(t)

	got, err := Resolve([]string{"*.nothing", "missing.txt"}, Options{Dir: root})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestResolve_AbsolutePattern(t *testing.T) {
	root := makeTree(t)

	got, err := Resolve([]string{filepath.Join(root, "sub", "*.txt")}, Options{Dir: "/"})
	require.NoError(t, err)
	assert.Equal(t, []string{"sub/a.txt"}, rel(root, got))
}

func TestResolve_RecursiveRelative(t *testing.T) {
	root := makeTree(t)

	got, err := Resolve([]string{"a.txt"}, Options{Dir: root, Recursive: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "sub/a.txt"}, rel(root, got))
}

func TestResolve_RecursiveAbsoluteDir(t *testing.T) {
	root := makeTree(t)
	sub := filepath.Join(root, "sub")

	got, err := Resolve([]string{sub}, Options{Dir: "/", Recursive: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"sub", "sub/a.txt", "sub/deep", "sub/deep/c.txt"}, rel(root, got))
}

func TestResolve_RecursiveAbsoluteFile(t *testing.T) {
	root := makeTree(t)

	got, err := Resolve([]string{filepath.Join(root, "b.md")}, Options{Dir: "/", Recursive: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"b.md"}, rel(root, got))
}

func TestResolve_TypeFilters(t *testing.T) {
	root := makeTree(t)

	tests := []struct {
		name  string
		types TypeFilter
		want  []string
	}{
		{"any", AnyType, []string{"a.txt", "b.md", "sub"}},
		{"files only", FilesOnly, []string{"a.txt", "b.md"}},
		{"dirs only", DirsOnly, []string{"sub"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve([]string{"*"}, Options{Dir: root, Types: tt.types})
			require.NoError(t, err)
			assert.Equal(t, tt.want, rel(root, got))
			for _, o := range got {
				if tt.types == DirsOnly {
					assert.True(t, o.IsDir, o.Path)
				}
				if tt.types == FilesOnly {
					assert.False(t, o.IsDir, o.Path)
				}
			}
		})
	}
}

func TestResolve_Deduplicates(t *testing.T) {
	root := makeTree(t)

	patterns := []string{"a.txt", "./a.txt", "link.txt", filepath.Join(root, "a.txt"), "*.txt"}
	got, err := Resolve(patterns, Options{Dir: root})
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, o := range got {
		assert.False(t, seen[o.Path], "duplicate %s", o.Path)
		seen[o.Path] = true
	}
	assert.Len(t, got, 1)
}

func TestResolve_DirWithMetacharacters(t *testing.T) {
	root := makeTree(t)
	odd := filepath.Join(root, "we[i]rd")
	require.NoError(t, os.Mkdir(odd, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(odd, "f.txt"), nil, 0o644))

	got, err := Resolve([]string{"*.txt"}, Options{Dir: odd})
	require.NoError(t, err)
	assert.Equal(t, []string{"we[i]rd/f.txt"}, rel(root, got))
}

func TestResolve_UnbalancedBracket(t *testing.T) {
	root := makeTree(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "a[b.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "c{d.txt"), nil, 0o644))

	tests := []struct {
		pattern string
		want    []string
	}{
		{"a[b.txt", []string{"a[b.txt"}},
		{"a[b*", []string{"a[b.txt"}},
		{"c{d.txt", []string{"c{d.txt"}},
		{"[", []string{}},
		{"{", []string{}},
		{"a[[b]*", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got, err := Resolve([]string{tt.pattern}, Options{Dir: root})
			require.NoError(t, err)
			assert.Equal(t, tt.want, rel(root, got))
		})
	}
}

func TestResolve_HiddenEntries(t *testing.T) {
	root := makeTree(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, ".hidden"), nil, 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".cache", "inner"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".cache", "inner", "c.txt"), nil, 0o644))

	tests := []struct {
		name      string
		pattern   string
		recursive bool
		want      []string
	}{
		{"star skips dotfiles", "*", false, []string{"a.txt", "b.md", "sub"}},
		{"dot prefix", ".h*", false, []string{".hidden"}},
		{"literal", ".hidden", false, []string{".hidden"}},
		{"dot star", ".*", false, []string{".cache", ".hidden"}},
		{"hidden dir segment", ".cache/*/*.txt", false, []string{".cache/inner/c.txt"}},
		{"wildcard over hidden dir", "*/*/*.txt", false, []string{"sub/deep/c.txt"}},
		{"recursive skips hidden dirs", "c.txt", true, []string{"sub/deep/c.txt"}},
		{"recursive dotfile", ".hidden", true, []string{".hidden"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve([]string{tt.pattern}, Options{Dir: root, Recursive: tt.recursive})
			require.NoError(t, err)
			assert.Equal(t, tt.want, rel(root, got))
		})
	}
}

func TestResolve_DanglingSymlink(t *testing.T) {
	root := makeTree(t)
	require.NoError(t, os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "dangle")))

	for _, pattern := range []string{"dangle", "dang*", "*"} {
		got, err := Resolve([]string{pattern}, Options{Dir: root})
		require.NoError(t, err)
		assert.Contains(t, rel(root, got), "dangle", pattern)

		got, err = Resolve([]string{pattern}, Options{Dir: root, Types: FilesOnly})
		require.NoError(t, err)
		assert.NotContains(t, rel(root, got), "dangle", pattern)
	}
}

func TestTypeFilterFrom(t *testing.T) {
	f, err := TypeFilterFrom(false, false)
	require.NoError(t, err)
	assert.Equal(t, AnyType, f)
	assert.Nil(t, f.IsDir())

	f, err = TypeFilterFrom(true, false)
	require.NoError(t, err)
	assert.Equal(t, FilesOnly, f)
	require.NotNil(t, f.IsDir())
	assert.False(t, *f.IsDir())

	f, err = TypeFilterFrom(false, true)
	require.NoError(t, err)
	assert.True(t, *f.IsDir())

	_, err = TypeFilterFrom(true, true)
	assert.ErrorIs(t, err, ErrConflictingTypes)
}
