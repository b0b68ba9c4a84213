// Package specstore persists the registry of named APIs and the cached path index
// derived from each API's OpenAPI document.
//
// The registry is authoritative and lives in a single YAML file. Caches are
// disposable, one JSON file per API, and are joined to registry entries by name
// only; clearing a cache never touches the registry.
package specstore

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Location is where a parameter is carried in a request.
type Location string

const (
	LocationPath   Location = "path"
	LocationQuery  Location = "query"
	LocationHeader Location = "header"
	LocationCookie Location = "cookie"
	LocationBody   Location = "body"
)

// APIEntry is a user-registered API.
type APIEntry struct {
	Name    string `yaml:"name" json:"name"`
	SpecURL string `yaml:"specUrl" json:"specUrl"`
	BaseURL string `yaml:"baseUrl,omitempty" json:"baseUrl,omitempty"`
}

// CachedSpec is the parsed, locally stored form of an API's document.
// FetchedAt is not serialized; it is the modification time of the cache file.
type CachedSpec struct {
	Owner     string      `json:"owner"`
	FetchedAt time.Time   `json:"-"`
	Paths     []PathEntry `json:"paths"`
}

// PathEntry is one path template of a document with its merged parameters.
type PathEntry struct {
	Template   string       `json:"template"`
	Methods    []string     `json:"methods"`
	Summary    string       `json:"summary,omitempty"`
	Parameters []ParamEntry `json:"parameters,omitempty"`
}

// ParamEntry describes a single parameter; used for completion text only.
type ParamEntry struct {
	Name        string   `json:"name"`
	In          Location `json:"in"`
	Required    bool     `json:"required,omitempty"`
	Description string   `json:"description,omitempty"`
}

var validName = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidateName reports whether name can be used as a registry key.
// Names become cache file names, so path separators are rejected.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("api name must not be empty")
	}
	if !validName.MatchString(name) || name == "." || name == ".." {
		return fmt.Errorf("invalid api name %q (allowed: letters, digits, '.', '_', '-')", name)
	}
	return nil
}

// NewAPIEntry validates its inputs and builds an entry. An empty baseURL
// defaults to the origin of specURL. A trailing slash on the base URL is dropped.
func NewAPIEntry(name, specURL, baseURL string) (APIEntry, error) {
	if err := ValidateName(name); err != nil {
		return APIEntry{}, err
	}
	spec, err := parseHTTPURL(specURL)
	if err != nil {
		return APIEntry{}, fmt.Errorf("invalid spec URL: %w", err)
	}
	if baseURL == "" {
		baseURL = spec.Scheme + "://" + spec.Host
	} else if _, err := parseHTTPURL(baseURL); err != nil {
		return APIEntry{}, fmt.Errorf("invalid base URL: %w", err)
	}
	return APIEntry{
		Name:    name,
		SpecURL: specURL,
		BaseURL: NormalizeBaseURL(baseURL),
	}, nil
}

// NormalizeBaseURL trims trailing slashes so "https://x/api/" and "https://x/api" compare equal.
func NormalizeBaseURL(base string) string {
	return strings.TrimRight(base, "/")
}

func parseHTTPURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%q: missing host", raw)
	}
	return u, nil
}
