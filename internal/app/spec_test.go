package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/openbindings/httpie-oapi/internal/openapi"
	"github.com/openbindings/httpie-oapi/internal/specstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecAdd_RegistersAndCaches(t *testing.T) {
	rt, fetcher := newTestRuntime(t)

	err := SpecAdd(context.Background(), rt, SpecAddParams{
		Name:    "petstore",
		SpecURL: petstoreBase + "/openapi.json",
		BaseURL: petstoreBase + "/",
	})
	exit := requireExit(t, err, 0)
	assert.Contains(t, exit.Message, "Added")
	assert.Contains(t, exit.Message, "petstore")
	assert.Equal(t, []string{"petstore"}, fetcher.calls)

	entry, err := rt.Store.Get("petstore")
	require.NoError(t, err)
	assert.Equal(t, petstoreBase, entry.BaseURL, "trailing slash is trimmed")

	spec, err := rt.Store.LoadCache("petstore")
	require.NoError(t, err)
	assert.Len(t, spec.Paths, 2)
}

func TestSpecAdd_FetchFailureLeavesRegistryUnchanged(t *testing.T) {
	rt, fetcher := newTestRuntime(t)
	fetcher.err = &openapi.FetchError{Kind: openapi.KindUnreachable, URL: "http://127.0.0.1:1/openapi.json", Err: assert.AnError}

	err := SpecAdd(context.Background(), rt, SpecAddParams{Name: "down", SpecURL: "http://127.0.0.1:1/openapi.json"})
	exit := requireExit(t, err, 1)
	assert.True(t, exit.ToStderr)
	assert.Contains(t, exit.Message, "--timeout")

	_, statErr := os.Stat(rt.Store.RegistryPath())
	assert.True(t, os.IsNotExist(statErr), "registry must not be written")
	_, statErr = os.Stat(rt.Settings.Paths.CacheDir)
	assert.True(t, os.IsNotExist(statErr), "no cache must be written")
}

func TestSpecAdd_DuplicateName(t *testing.T) {
	rt, fetcher := newTestRuntime(t)
	addPetstore(t, rt)
	fetcher.calls = nil

	err := SpecAdd(context.Background(), rt, SpecAddParams{Name: "petstore", SpecURL: "https://other.example.com/openapi.json"})
	exit := requireExit(t, err, 1)
	assert.Contains(t, exit.Message, "already exists")
	assert.Empty(t, fetcher.calls, "no fetch before the overwrite is allowed")

	entry, err := rt.Store.Get("petstore")
	require.NoError(t, err)
	assert.Equal(t, petstoreBase+"/openapi.json", entry.SpecURL)
}

func TestSpecAdd_DuplicateConfirmed(t *testing.T) {
	rt, _ := newTestRuntime(t)
	addPetstore(t, rt)

	var asked string
	rt.Confirm = func(title, _ string) (bool, error) {
		asked = title
		return true, nil
	}
	err := SpecAdd(context.Background(), rt, SpecAddParams{Name: "petstore", SpecURL: "https://petstore.example.com/openapi.json"})
	exit := requireExit(t, err, 0)
	assert.Contains(t, exit.Message, "Updated")
	assert.Equal(t, "Overwrite petstore?", asked)

	entry, err := rt.Store.Get("petstore")
	require.NoError(t, err)
	assert.Equal(t, "https://petstore.example.com", entry.BaseURL)
}

func TestSpecAdd_DuplicateDeclined(t *testing.T) {
	rt, _ := newTestRuntime(t)
	addPetstore(t, rt)
	rt.Confirm = func(string, string) (bool, error) { return false, nil }

	err := SpecAdd(context.Background(), rt, SpecAddParams{Name: "petstore", SpecURL: "https://petstore.example.com/openapi.json"})
	requireExit(t, err, 1)
}

func TestSpecAdd_Force(t *testing.T) {
	rt, _ := newTestRuntime(t)
	addPetstore(t, rt)

	err := SpecAdd(context.Background(), rt, SpecAddParams{
		Name:         "petstore",
		SpecURL:      petstoreBase + "/openapi.json",
		BaseURL:      "https://mirror.example.com/v3",
		Force:        true,
		OutputFormat: "json",
	})
	exit := requireExit(t, err, 0)
	assert.Contains(t, exit.Message, `"replaced": true`)

	entries, err := rt.Store.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "https://mirror.example.com/v3", entries[0].BaseURL)
}

func TestSpecAdd_InvalidInput(t *testing.T) {
	rt, fetcher := newTestRuntime(t)

	requireExit(t, SpecAdd(context.Background(), rt, SpecAddParams{Name: "a/b", SpecURL: petstoreBase}), 2)
	requireExit(t, SpecAdd(context.Background(), rt, SpecAddParams{Name: "ok", SpecURL: "not a url"}), 2)
	assert.Empty(t, fetcher.calls)
}

func TestSpecAddRemove_RoundTrip(t *testing.T) {
	rt, _ := newTestRuntime(t)
	fetcherSpecs := rt.Fetcher.(*fakeFetcher).specs
	fetcherSpecs["local"] = &specstore.CachedSpec{Paths: []specstore.PathEntry{{Template: "/health", Methods: []string{"GET"}}}}
	requireExit(t, SpecAdd(context.Background(), rt, SpecAddParams{Name: "local", SpecURL: "http://localhost:8080/openapi.json"}), 0)

	registryBefore, err := os.ReadFile(rt.Store.RegistryPath())
	require.NoError(t, err)
	cacheBefore := listDir(t, rt.Settings.Paths.CacheDir)

	addPetstore(t, rt)
	requireExit(t, SpecRemove(rt, SpecRemoveParams{Name: "petstore"}), 0)

	registryAfter, err := os.ReadFile(rt.Store.RegistryPath())
	require.NoError(t, err)
	assert.Equal(t, string(registryBefore), string(registryAfter))
	assert.Equal(t, cacheBefore, listDir(t, rt.Settings.Paths.CacheDir))
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestSpecRemove_NotFound(t *testing.T) {
	rt, _ := newTestRuntime(t)

	exit := requireExit(t, SpecRemove(rt, SpecRemoveParams{Name: "ghost"}), 1)
	assert.Contains(t, exit.Message, "not found")

	requireExit(t, SpecRemove(rt, SpecRemoveParams{Name: " "}), 2)
}

func TestSpecList(t *testing.T) {
	rt, fetcher := newTestRuntime(t)
	exit := requireExit(t, SpecList(rt, SpecListParams{}), 0)
	assert.Empty(t, exit.Message)

	fetcher.specs["zeta"] = &specstore.CachedSpec{}
	fetcher.specs["alpha"] = &specstore.CachedSpec{}
	for _, name := range []string{"zeta", "petstore", "alpha"} {
		requireExit(t, SpecAdd(context.Background(), rt, SpecAddParams{Name: name, SpecURL: "https://" + name + ".example.com/openapi.json"}), 0)
	}

	exit = requireExit(t, SpecList(rt, SpecListParams{}), 0)
	assert.Equal(t, "zeta\npetstore\nalpha", exit.Message)

	require.NoError(t, rt.Store.ClearCache("alpha"))
	exit = requireExit(t, SpecList(rt, SpecListParams{Detailed: true}), 0)
	assert.Contains(t, exit.Message, "https://petstore.example.com")
	assert.Contains(t, exit.Message, "2 paths")
	assert.Contains(t, exit.Message, "missing")

	exit = requireExit(t, SpecList(rt, SpecListParams{OutputFormat: "yaml"}), 0)
	assert.Contains(t, exit.Message, "name: zeta")
	assert.Contains(t, exit.Message, "cached: false")
}

func TestSpecList_CorruptRegistryFails(t *testing.T) {
	rt, _ := newTestRuntime(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(rt.Store.RegistryPath()), 0o755))
	require.NoError(t, os.WriteFile(rt.Store.RegistryPath(), []byte("apis: [[[\n"), 0o644))

	exit := requireExit(t, SpecList(rt, SpecListParams{}), 1)
	assert.True(t, exit.ToStderr)
	assert.Contains(t, exit.Message, rt.Store.RegistryPath())
}

func TestSpecRefresh_UnknownNameMakesNoRequest(t *testing.T) {
	rt, fetcher := newTestRuntime(t)
	addPetstore(t, rt)
	fetcher.calls = nil

	exit := requireExit(t, SpecRefresh(context.Background(), rt, SpecRefreshParams{Names: []string{"ghost"}}), 1)
	assert.True(t, exit.ToStderr)
	assert.Contains(t, exit.Message, "not found")
	assert.Empty(t, fetcher.calls)
}

func TestSpecRefresh_FailureKeepsPreviousCache(t *testing.T) {
	rt, fetcher := newTestRuntime(t)
	addPetstore(t, rt)
	fetcher.err = &openapi.FetchError{Kind: openapi.KindHTTPStatus, URL: petstoreBase, Status: http.StatusBadGateway}

	requireExit(t, SpecRefresh(context.Background(), rt, SpecRefreshParams{Names: []string{"petstore"}}), 1)

	spec, err := rt.Store.LoadCache("petstore")
	require.NoError(t, err)
	assert.Len(t, spec.Paths, 2)
	_, err = rt.Store.Get("petstore")
	assert.NoError(t, err)
}

func TestSpecRefresh_AllReportsEachAPI(t *testing.T) {
	rt, fetcher := newTestRuntime(t)
	addPetstore(t, rt)
	fetcher.specs["broken"] = &specstore.CachedSpec{}
	requireExit(t, SpecAdd(context.Background(), rt, SpecAddParams{Name: "broken", SpecURL: "https://broken.example.com/openapi.json"}), 0)
	delete(fetcher.specs, "broken")
	fetcher.calls = nil

	exit := requireExit(t, SpecRefresh(context.Background(), rt, SpecRefreshParams{OutputFormat: "json"}), 1)
	assert.Equal(t, []string{"petstore", "broken"}, fetcher.calls)
	assert.Contains(t, exit.Message, `"name": "petstore"`)
	assert.Contains(t, exit.Message, `"ok": false`)

	fetcher.calls = nil
	requireExit(t, SpecRefresh(context.Background(), rt, SpecRefreshParams{Names: []string{"petstore"}}), 0)
	assert.Equal(t, []string{"petstore"}, fetcher.calls)
}

const refreshDocument = `{
  "openapi": "3.0.3",
  "info": {"title": "demo", "version": "1"},
  "paths": {
    "/items/{id}": {
      "get": {
        "summary": "Get item",
        "parameters": [
          {"name": "id", "in": "path", "required": true, "schema": {"type": "string"}},
          {"name": "expand", "in": "query", "schema": {"type": "string"}}
        ],
        "responses": {"200": {"description": "ok"}}
      }
    },
    "/items": {
      "get": {"responses": {"200": {"description": "ok"}}}
    }
  }
}`

func TestSpecRefresh_TwiceIsByteIdentical(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(refreshDocument))
	}))
	t.Cleanup(srv.Close)

	root := t.TempDir()
	rt := NewRuntime(Settings{
		Paths:        Paths{ConfigDir: filepath.Join(root, "config"), CacheDir: filepath.Join(root, "cache")},
		FetchTimeout: DefaultFetchTimeout,
	}, nil)

	requireExit(t, SpecAdd(context.Background(), rt, SpecAddParams{Name: "demo", SpecURL: srv.URL + "/openapi.json"}), 0)

	requireExit(t, SpecRefresh(context.Background(), rt, SpecRefreshParams{Names: []string{"demo"}}), 0)
	first, err := os.ReadFile(rt.Store.CachePath("demo"))
	require.NoError(t, err)

	requireExit(t, SpecRefresh(context.Background(), rt, SpecRefreshParams{Names: []string{"demo"}}), 0)
	second, err := os.ReadFile(rt.Store.CachePath("demo"))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.Equal(t, int32(3), hits.Load())

	entry, err := rt.Store.Get("demo")
	require.NoError(t, err)
	assert.Equal(t, srv.URL, entry.BaseURL, "base URL defaults to the spec origin")
}
