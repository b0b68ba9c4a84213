// Package app - constants.go centralizes magic strings and configuration values.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/openbindings/httpie-oapi/internal/fileutil"
)

const (
	// AppName is the binary name and the subdirectory used in the OS config and cache directories.
	AppName = "httpie-oapi"

	// EnvPrefix prefixes environment variables that override global flags
	// (HTTPIE_OAPI_CONFIG_DIR, HTTPIE_OAPI_TIMEOUT, ...).
	EnvPrefix = "HTTPIE_OAPI"

	// DefaultFetchTimeout bounds a single spec download.
	DefaultFetchTimeout = 10 * time.Second
)

// FilePerm is the permission mode for written files.
const FilePerm = fileutil.FilePerm

// GlobalConfigPath returns the platform-appropriate config directory for the registry
// (e.g. ~/.config/httpie-oapi on Linux,
// ~/Library/Application Support/httpie-oapi on macOS).
func GlobalConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return filepath.Join(configDir, AppName), nil
}

// GlobalCachePath returns the platform-appropriate cache directory for parsed specs.
func GlobalCachePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine cache directory: %w", err)
	}
	return filepath.Join(cacheDir, AppName), nil
}
