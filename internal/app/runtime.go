package app

import (
	"context"
	"errors"

	"github.com/openbindings/httpie-oapi/internal/openapi"
	"github.com/openbindings/httpie-oapi/internal/specstore"
	"github.com/sirupsen/logrus"
)

// Fetcher downloads and converts an API's document.
type Fetcher interface {
	Fetch(ctx context.Context, entry specstore.APIEntry) (*specstore.CachedSpec, error)
}

// ConfirmFunc asks the user a yes/no question.
type ConfirmFunc func(title, description string) (bool, error)

// Runtime carries everything a command needs. Commands get it from the cobra context.
type Runtime struct {
	Settings Settings

	// Store is nil only for completion when no config directory can be resolved.
	Store   *specstore.Store
	Fetcher Fetcher
	Log     logrus.FieldLogger

	// Confirm is nil when the session is not interactive.
	Confirm ConfirmFunc
}

// NewRuntime wires the store and fetcher for settings. A nil log discards.
func NewRuntime(s Settings, log logrus.FieldLogger) *Runtime {
	if log == nil {
		log = discardLogger()
	}
	return &Runtime{
		Settings: s,
		Store:    specstore.New(s.Paths.ConfigDir, s.Paths.CacheDir),
		Fetcher: openapi.NewFetcher(openapi.FetcherOptions{
			Timeout:   s.FetchTimeout,
			UserAgent: UserAgent(),
			Log:       log,
		}),
		Log: log,
	}
}

// EnsureCache returns the cached spec for entry, fetching and storing it first
// when the cache is missing or unusable.
func (rt *Runtime) EnsureCache(ctx context.Context, entry specstore.APIEntry) (*specstore.CachedSpec, error) {
	spec, err := rt.Store.LoadCache(entry.Name)
	if err == nil {
		return spec, nil
	}
	if !errors.Is(err, specstore.ErrCacheMissing) {
		return nil, err
	}

	rt.Log.WithField("api", entry.Name).WithError(err).Info("rebuilding cache")
	spec, err = rt.Fetcher.Fetch(ctx, entry)
	if err != nil {
		return nil, err
	}
	if err := rt.Store.SaveCache(entry.Name, spec); err != nil {
		return nil, err
	}
	return spec, nil
}
