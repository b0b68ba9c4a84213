package app

import (
	"fmt"
	"time"
)

// Paths locates persisted state. Tests point both at t.TempDir().
type Paths struct {
	ConfigDir string `json:"configDir" yaml:"configDir"`
	CacheDir  string `json:"cacheDir" yaml:"cacheDir"`
}

// Settings is the resolved global configuration for one invocation.
type Settings struct {
	Paths        Paths
	FetchTimeout time.Duration
	LogFile      string
	Debug        bool
}

// DefaultPaths returns the per-user config and cache directories.
func DefaultPaths() (Paths, error) {
	configDir, err := GlobalConfigPath()
	if err != nil {
		return Paths{}, err
	}
	cacheDir, err := GlobalCachePath()
	if err != nil {
		return Paths{}, err
	}
	return Paths{ConfigDir: configDir, CacheDir: cacheDir}, nil
}

// Validate fills defaults and rejects unusable values.
func (s *Settings) Validate() error {
	if s.Paths.ConfigDir == "" || s.Paths.CacheDir == "" {
		defaults, err := DefaultPaths()
		if err != nil {
			return err
		}
		if s.Paths.ConfigDir == "" {
			s.Paths.ConfigDir = defaults.ConfigDir
		}
		if s.Paths.CacheDir == "" {
			s.Paths.CacheDir = defaults.CacheDir
		}
	}
	if s.FetchTimeout == 0 {
		s.FetchTimeout = DefaultFetchTimeout
	}
	if s.FetchTimeout < 0 {
		return fmt.Errorf("invalid timeout %s: must be positive", s.FetchTimeout)
	}
	return nil
}
