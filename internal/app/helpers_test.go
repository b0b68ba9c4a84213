package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/openbindings/httpie-oapi/internal/specstore"
	"github.com/stretchr/testify/require"
)

const petstoreBase = "https://petstore3.swagger.io/api/v3"

// fakeFetcher serves canned specs by API name and records every call.
type fakeFetcher struct {
	specs map[string]*specstore.CachedSpec
	err   error
	calls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, entry specstore.APIEntry) (*specstore.CachedSpec, error) {
	f.calls = append(f.calls, entry.Name)
	if f.err != nil {
		return nil, f.err
	}
	spec, ok := f.specs[entry.Name]
	if !ok {
		return nil, errors.New("no canned spec for " + entry.Name)
	}
	clone := *spec
	clone.Owner = entry.Name
	clone.FetchedAt = time.Now()
	return &clone, nil
}

func petstoreSpec() *specstore.CachedSpec {
	return &specstore.CachedSpec{
		Paths: []specstore.PathEntry{
			{
				Template: "/pet",
				Methods:  []string{"PUT", "POST"},
				Summary:  "Update an existing pet",
			},
			{
				Template: "/pet/{petId}",
				Methods:  []string{"GET", "DELETE"},
				Summary:  "Find pet by ID",
				Parameters: []specstore.ParamEntry{
					{Name: "petId", In: specstore.LocationPath, Required: true},
					{Name: "api_key", In: specstore.LocationHeader},
					{Name: "status", In: specstore.LocationQuery, Required: true, Description: "pet status"},
					{Name: "session", In: specstore.LocationCookie},
				},
			},
		},
	}
}

func newTestRuntime(t *testing.T) (*Runtime, *fakeFetcher) {
	t.Helper()
	root := t.TempDir()
	s := Settings{
		Paths: Paths{
			ConfigDir: filepath.Join(root, "config"),
			CacheDir:  filepath.Join(root, "cache"),
		},
		FetchTimeout: time.Second,
	}
	rt := NewRuntime(s, nil)
	fetcher := &fakeFetcher{specs: map[string]*specstore.CachedSpec{"petstore": petstoreSpec()}}
	rt.Fetcher = fetcher
	return rt, fetcher
}

func addPetstore(t *testing.T, rt *Runtime) {
	t.Helper()
	err := SpecAdd(context.Background(), rt, SpecAddParams{
		Name:    "petstore",
		SpecURL: petstoreBase + "/openapi.json",
		BaseURL: petstoreBase,
	})
	requireExit(t, err, 0)
}

// requireExit asserts err is an ExitResult with code and returns it.
func requireExit(t *testing.T, err error, code int) ExitResult {
	t.Helper()
	var exit ExitResult
	require.ErrorAs(t, err, &exit, "expected ExitResult, got %v", err)
	require.Equal(t, code, exit.Code, "message: %s", exit.Message)
	return exit
}
