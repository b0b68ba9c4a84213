package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openbindings/httpie-oapi/internal/openapi"
	"github.com/openbindings/httpie-oapi/internal/specstore"
)

// SpecRefreshParams configures spec refresh. No names means every registered API.
type SpecRefreshParams struct {
	Names        []string
	OutputFormat string
	OutputPath   string
}

// RefreshResult is the outcome for one API.
type RefreshResult struct {
	Name      string `json:"name"`
	OK        bool   `json:"ok"`
	PathCount int    `json:"pathCount,omitempty"`
	Error     string `json:"error,omitempty"`
	Status    int    `json:"status,omitempty"`
}

// SpecRefreshOutput is the output of spec refresh.
type SpecRefreshOutput struct {
	Results []RefreshResult `json:"results"`
}

// Failed reports whether any API could not be refreshed.
func (o SpecRefreshOutput) Failed() bool {
	for _, r := range o.Results {
		if !r.OK {
			return true
		}
	}
	return false
}

// Render returns a human-friendly representation.
func (o SpecRefreshOutput) Render() string {
	s := Styles
	if len(o.Results) == 0 {
		return s.Dim.Render("No APIs registered")
	}
	lines := make([]string, 0, len(o.Results))
	for _, r := range o.Results {
		if r.OK {
			lines = append(lines, fmt.Sprintf("%s %s %s", s.Success.Render("✓"), s.Key.Render(r.Name), s.Dim.Render(fmt.Sprintf("(%d paths)", r.PathCount))))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s %s %s", s.Error.Render("✗"), s.Key.Render(r.Name), r.Error))
	}
	return strings.Join(lines, "\n")
}

// SpecRefresh re-fetches each named API sequentially and replaces its cache.
// A failed fetch leaves the previous cache in place. Unknown names fail without
// any network call. Exits 1 when anything failed.
func SpecRefresh(ctx context.Context, rt *Runtime, params SpecRefreshParams) error {
	targets, err := refreshTargets(rt, params.Names)
	if err != nil {
		return failExit(err)
	}

	var out SpecRefreshOutput
	for _, t := range targets {
		out.Results = append(out.Results, refreshOne(ctx, rt, t))
	}

	code := 0
	if out.Failed() {
		code = 1
		if len(out.Results) == 1 {
			return exitText(code, out.Results[0].Error, true)
		}
	}
	return OutputResultWithCode(out, params.OutputFormat, params.OutputPath, code)
}

type refreshTarget struct {
	name  string
	entry specstore.APIEntry
	err   error
}

func refreshTargets(rt *Runtime, names []string) ([]refreshTarget, error) {
	if len(names) == 0 {
		entries, err := rt.Store.List()
		if err != nil {
			return nil, err
		}
		targets := make([]refreshTarget, 0, len(entries))
		for _, e := range entries {
			targets = append(targets, refreshTarget{name: e.Name, entry: e})
		}
		return targets, nil
	}

	targets := make([]refreshTarget, 0, len(names))
	for _, name := range names {
		e, err := rt.Store.Get(name)
		if err != nil && !errors.Is(err, specstore.ErrNotFound) {
			return nil, err
		}
		targets = append(targets, refreshTarget{name: name, entry: e, err: err})
	}
	return targets, nil
}

func refreshOne(ctx context.Context, rt *Runtime, t refreshTarget) RefreshResult {
	log := rt.Log.WithField("api", t.name)
	if t.err != nil {
		return RefreshResult{Name: t.name, Error: t.err.Error()}
	}

	spec, err := rt.Fetcher.Fetch(ctx, t.entry)
	if err != nil {
		log.WithError(err).Warn("refresh failed, keeping previous cache")
		res := RefreshResult{Name: t.name, Error: err.Error()}
		var fe *openapi.FetchError
		if errors.As(err, &fe) {
			res.Status = fe.Status
		}
		return res
	}
	if err := rt.Store.SaveCache(t.name, spec); err != nil {
		return RefreshResult{Name: t.name, Error: err.Error()}
	}
	log.WithField("paths", len(spec.Paths)).Info("refreshed")
	return RefreshResult{Name: t.name, OK: true, PathCount: len(spec.Paths)}
}
