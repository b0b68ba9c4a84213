package specstore

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/openbindings/httpie-oapi/internal/fileutil"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// RegistryFormatVersion is the current version of the registry file format.
const RegistryFormatVersion = 1

//go:embed registry.schema.json
var registrySchemaJSON []byte

var (
	registrySchema     *jsonschema.Schema
	registrySchemaOnce sync.Once
	registrySchemaErr  error
)

// registrySchemaCompiled returns the compiled JSON Schema for registry validation.
func registrySchemaCompiled() (*jsonschema.Schema, error) {
	registrySchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("registry.schema.json", bytes.NewReader(registrySchemaJSON)); err != nil {
			registrySchemaErr = fmt.Errorf("failed to add registry schema resource: %w", err)
			return
		}
		registrySchema, registrySchemaErr = compiler.Compile("registry.schema.json")
	})
	return registrySchema, registrySchemaErr
}

type registryFile struct {
	Version int        `yaml:"version"`
	APIs    []APIEntry `yaml:"apis"`
}

// Registry is the ordered list of API entries stored in one YAML file.
type Registry struct {
	path string
}

// NewRegistry returns a registry backed by the file at path.
func NewRegistry(path string) *Registry {
	return &Registry{path: path}
}

// Path returns the registry file location.
func (r *Registry) Path() string { return r.path }

// Load reads all entries in insertion order. A missing or empty file is an empty registry.
func (r *Registry) Load() ([]APIEntry, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, &StorageError{Op: "read registry", Path: r.path, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	if err := validateRegistry(data); err != nil {
		return nil, &StorageError{Op: "validate registry", Path: r.path, Err: err}
	}

	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, &StorageError{Op: "parse registry", Path: r.path, Err: err}
	}

	seen := make(map[string]bool, len(f.APIs))
	for _, e := range f.APIs {
		if seen[e.Name] {
			return nil, &StorageError{Op: "validate registry", Path: r.path, Err: fmt.Errorf("duplicate api name %q", e.Name)}
		}
		seen[e.Name] = true
	}
	return f.APIs, nil
}

// Save replaces the registry with entries. Saving an empty registry removes the file,
// since a missing file already means "no entries".
func (r *Registry) Save(entries []APIEntry) error {
	if len(entries) == 0 {
		if err := os.Remove(r.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return &StorageError{Op: "remove registry", Path: r.path, Err: err}
		}
		return nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(registryFile{Version: RegistryFormatVersion, APIs: entries}); err != nil {
		return &StorageError{Op: "encode registry", Path: r.path, Err: err}
	}
	if err := enc.Close(); err != nil {
		return &StorageError{Op: "encode registry", Path: r.path, Err: err}
	}

	if err := fileutil.EnsureDir(filepath.Dir(r.path)); err != nil {
		return &StorageError{Op: "write registry", Path: r.path, Err: err}
	}
	if err := fileutil.AtomicWriteFile(r.path, buf.Bytes(), fileutil.FilePerm); err != nil {
		return &StorageError{Op: "write registry", Path: r.path, Err: err}
	}
	return nil
}

// validateRegistry checks raw YAML against the embedded schema. The YAML tree is
// round-tripped through JSON so the validator sees plain JSON values.
func validateRegistry(data []byte) error {
	schema, err := registrySchemaCompiled()
	if err != nil {
		return err
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("normalize: %w", err)
	}
	var normalized any
	if err := json.Unmarshal(b, &normalized); err != nil {
		return fmt.Errorf("normalize: %w", err)
	}
	return schema.Validate(normalized)
}
