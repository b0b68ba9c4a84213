package specstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheDir_SaveAndLoad(t *testing.T) {
	c := NewCacheDir(filepath.Join(t.TempDir(), "cache"))
	spec := sampleSpec()

	require.NoError(t, c.Save("petstore", spec))

	loaded, err := c.Load("petstore")
	require.NoError(t, err)
	assert.Equal(t, "petstore", loaded.Owner)
	assert.True(t, loaded.FetchedAt.Equal(spec.FetchedAt), "FetchedAt = %v, want %v", loaded.FetchedAt, spec.FetchedAt)
	if diff := cmp.Diff(spec.Paths, loaded.Paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestCacheDir_SaveIsByteStable(t *testing.T) {
	c := NewCacheDir(t.TempDir())

	first := sampleSpec()
	require.NoError(t, c.Save("petstore", first))
	a, err := os.ReadFile(c.Path("petstore"))
	require.NoError(t, err)

	second := sampleSpec()
	second.FetchedAt = first.FetchedAt.Add(time.Hour)
	require.NoError(t, c.Save("petstore", second))
	b, err := os.ReadFile(c.Path("petstore"))
	require.NoError(t, err)

	assert.Equal(t, string(a), string(b), "fetch time must not leak into cache content")
}

func TestCacheDir_LoadTreatsCorruptionAsMissing(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"garbage", "{not json"},
		{"wrong owner", `{"owner":"other","paths":[]}`},
		{"bad template", `{"owner":"petstore","paths":[{"template":"pet","methods":["GET"]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			c := NewCacheDir(dir)
			require.NoError(t, os.WriteFile(c.Path("petstore"), []byte(tt.content), 0o644))

			_, err := c.Load("petstore")
			assert.ErrorIs(t, err, ErrCacheMissing)
		})
	}
}

func TestCacheDir_LoadMissing(t *testing.T) {
	_, err := NewCacheDir(t.TempDir()).Load("nothing")
	assert.ErrorIs(t, err, ErrCacheMissing)
}

func TestCacheDir_SaveNilPathsWritesEmptyList(t *testing.T) {
	c := NewCacheDir(t.TempDir())
	require.NoError(t, c.Save("empty", &CachedSpec{}))

	loaded, err := c.Load("empty")
	require.NoError(t, err)
	if diff := cmp.Diff([]PathEntry{}, loaded.Paths, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
}
