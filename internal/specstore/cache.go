package specstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/openbindings/httpie-oapi/internal/fileutil"
)

// CacheDir stores one CachedSpec per API as <dir>/<name>.json.
type CacheDir struct {
	dir string
}

// NewCacheDir returns a cache rooted at dir.
func NewCacheDir(dir string) *CacheDir {
	return &CacheDir{dir: dir}
}

// Path returns the cache file location for name.
func (c *CacheDir) Path(name string) string {
	return filepath.Join(c.dir, name+".json")
}

// Load reads the cache for name. Any problem with the file is reported as ErrCacheMissing.
func (c *CacheDir) Load(name string) (*CachedSpec, error) {
	path := c.Path(name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, cacheMissing(name, nil)
		}
		return nil, cacheMissing(name, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, cacheMissing(name, err)
	}

	var spec CachedSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, cacheMissing(name, err)
	}
	if spec.Owner != name {
		return nil, cacheMissing(name, fmt.Errorf("owner is %q", spec.Owner))
	}
	for _, p := range spec.Paths {
		if !strings.HasPrefix(p.Template, "/") {
			return nil, cacheMissing(name, fmt.Errorf("invalid path template %q", p.Template))
		}
	}
	spec.FetchedAt = info.ModTime()
	return &spec, nil
}

// Save writes spec as the cache for name. The owner is forced to name and the
// file's modification time is set to spec.FetchedAt when it is known.
func (c *CacheDir) Save(name string, spec *CachedSpec) error {
	path := c.Path(name)
	stored := *spec
	stored.Owner = name
	if stored.Paths == nil {
		stored.Paths = []PathEntry{}
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return &StorageError{Op: "encode cache", Path: path, Err: err}
	}
	data = append(data, '\n')

	if err := fileutil.EnsureDir(c.dir); err != nil {
		return &StorageError{Op: "write cache", Path: path, Err: err}
	}
	if err := fileutil.AtomicWriteFile(path, data, fileutil.FilePerm); err != nil {
		return &StorageError{Op: "write cache", Path: path, Err: err}
	}
	if !spec.FetchedAt.IsZero() {
		if err := os.Chtimes(path, spec.FetchedAt, spec.FetchedAt); err != nil {
			return &StorageError{Op: "touch cache", Path: path, Err: err}
		}
	}
	return nil
}

// Clear deletes the cache for name. A missing cache is not an error.
func (c *CacheDir) Clear(name string) error {
	path := c.Path(name)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &StorageError{Op: "remove cache", Path: path, Err: err}
	}
	return nil
}
