package specstore

import (
	"path/filepath"
	"slices"
)

// RegistryFileName is the registry file name inside the config directory.
const RegistryFileName = "registry.yaml"

// Store joins the registry and the cache directory by API name.
// Every mutating call persists before returning.
type Store struct {
	registry *Registry
	cache    *CacheDir
}

// New returns a store keeping the registry in configDir and caches in cacheDir.
func New(configDir, cacheDir string) *Store {
	return &Store{
		registry: NewRegistry(filepath.Join(configDir, RegistryFileName)),
		cache:    NewCacheDir(cacheDir),
	}
}

// RegistryPath returns the registry file location.
func (s *Store) RegistryPath() string { return s.registry.Path() }

// CachePath returns the cache file location for name.
func (s *Store) CachePath(name string) string { return s.cache.Path(name) }

// List returns all entries in registry (insertion) order.
func (s *Store) List() ([]APIEntry, error) {
	return s.registry.Load()
}

// Get returns the entry for name or ErrNotFound.
func (s *Store) Get(name string) (APIEntry, error) {
	entries, err := s.registry.Load()
	if err != nil {
		return APIEntry{}, err
	}
	i := indexOf(entries, name)
	if i < 0 {
		return APIEntry{}, notFound(name)
	}
	return entries[i], nil
}

// Upsert adds entry at the end of the registry, or overwrites the existing entry
// with the same name in place. The existing cache survives only if the spec URL
// is unchanged.
func (s *Store) Upsert(entry APIEntry) error {
	if err := ValidateName(entry.Name); err != nil {
		return err
	}
	entries, err := s.registry.Load()
	if err != nil {
		return err
	}

	i := indexOf(entries, entry.Name)
	if i < 0 {
		return s.registry.Save(append(entries, entry))
	}

	if entries[i].SpecURL != entry.SpecURL {
		if err := s.cache.Clear(entry.Name); err != nil {
			return err
		}
	}
	entries[i] = entry
	return s.registry.Save(entries)
}

// Remove deletes the entry for name and its cache, or returns ErrNotFound.
// The cache goes first so a failure in between never leaves an orphaned cache.
func (s *Store) Remove(name string) error {
	entries, err := s.registry.Load()
	if err != nil {
		return err
	}
	i := indexOf(entries, name)
	if i < 0 {
		return notFound(name)
	}
	if err := s.cache.Clear(name); err != nil {
		return err
	}
	return s.registry.Save(slices.Delete(entries, i, i+1))
}

// LoadCache returns the cached spec for name or ErrCacheMissing.
func (s *Store) LoadCache(name string) (*CachedSpec, error) {
	return s.cache.Load(name)
}

// SaveCache stores spec as the cache for name. name must be registered.
func (s *Store) SaveCache(name string, spec *CachedSpec) error {
	if _, err := s.Get(name); err != nil {
		return err
	}
	return s.cache.Save(name, spec)
}

// ClearCache drops the cache for name, if any.
func (s *Store) ClearCache(name string) error {
	return s.cache.Clear(name)
}

func indexOf(entries []APIEntry, name string) int {
	return slices.IndexFunc(entries, func(e APIEntry) bool { return e.Name == name })
}
