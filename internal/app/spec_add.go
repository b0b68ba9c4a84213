package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openbindings/httpie-oapi/internal/specstore"
)

// SpecAddParams configures spec add and spec save.
type SpecAddParams struct {
	Name    string
	SpecURL string
	BaseURL string

	// Force overwrites an existing entry without asking.
	Force bool

	OutputFormat string
	OutputPath   string
}

// SpecAddOutput reports a registered API.
type SpecAddOutput struct {
	Name      string `json:"name"`
	SpecURL   string `json:"specUrl"`
	BaseURL   string `json:"baseUrl"`
	PathCount int    `json:"pathCount"`
	Replaced  bool   `json:"replaced"`
}

// Render returns a human-friendly representation.
func (o SpecAddOutput) Render() string {
	s := Styles
	verb := "Added"
	if o.Replaced {
		verb = "Updated"
	}
	return fmt.Sprintf("%s %s %s %s",
		s.Success.Render(verb),
		s.Key.Render(o.Name),
		s.Dim.Render(o.BaseURL),
		s.Dim.Render(fmt.Sprintf("(%d paths)", o.PathCount)))
}

// SpecAdd fetches the API's document and registers it. Nothing is persisted when
// the fetch fails. An existing name is overwritten only with Force or after
// interactive confirmation.
func SpecAdd(ctx context.Context, rt *Runtime, params SpecAddParams) error {
	entry, err := specstore.NewAPIEntry(strings.TrimSpace(params.Name), strings.TrimSpace(params.SpecURL), strings.TrimSpace(params.BaseURL))
	if err != nil {
		return usageExit(err.Error())
	}
	log := rt.Log.WithField("api", entry.Name)

	existing, err := rt.Store.Get(entry.Name)
	exists := err == nil
	if err != nil && !errors.Is(err, specstore.ErrNotFound) {
		return failExit(err)
	}
	if exists && !params.Force {
		if err := confirmOverwrite(rt, existing, entry); err != nil {
			return err
		}
	}

	spec, err := rt.Fetcher.Fetch(ctx, entry)
	if err != nil {
		return failExit(err)
	}

	if err := rt.Store.Upsert(entry); err != nil {
		return failExit(err)
	}
	if err := rt.Store.SaveCache(entry.Name, spec); err != nil {
		if !exists {
			if rmErr := rt.Store.Remove(entry.Name); rmErr != nil {
				log.WithError(rmErr).Warn("rollback failed")
			}
		}
		return failExit(err)
	}
	log.WithField("paths", len(spec.Paths)).Info("registered")

	out := SpecAddOutput{
		Name:      entry.Name,
		SpecURL:   entry.SpecURL,
		BaseURL:   entry.BaseURL,
		PathCount: len(spec.Paths),
		Replaced:  exists,
	}
	return OutputResult(out, params.OutputFormat, params.OutputPath)
}

func confirmOverwrite(rt *Runtime, existing, entry specstore.APIEntry) error {
	duplicate := fmt.Errorf("api %q %w", entry.Name, specstore.ErrDuplicateName)
	if rt.Confirm == nil {
		return failExit(duplicate)
	}
	ok, err := rt.Confirm(
		fmt.Sprintf("Overwrite %s?", entry.Name),
		fmt.Sprintf("%s is registered with %s", entry.Name, existing.SpecURL),
	)
	if err != nil {
		return failExit(err)
	}
	if !ok {
		return failExit(duplicate)
	}
	return nil
}
