package app

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/openbindings/httpie-oapi/internal/completion"
	"github.com/openbindings/httpie-oapi/internal/pathindex"
	"github.com/openbindings/httpie-oapi/internal/specstore"
)

// PathListParams configures the path command. An empty Name lists every API.
type PathListParams struct {
	Name    string
	Pattern string

	// Fish prints "url<TAB>summary" once per template instead of "METHOD url" per method.
	Fish bool

	OutputFormat string
	OutputPath   string
}

// PathLine is one method of one path template.
type PathLine struct {
	API      string `json:"api"`
	Method   string `json:"method"`
	URL      string `json:"url"`
	Template string `json:"template"`
	Summary  string `json:"summary,omitempty"`
}

// PathListOutput is the output of the path command.
type PathListOutput struct {
	Paths []PathLine `json:"paths"`

	fish bool
}

// Render prints one line per entry, suitable for fzf or fish.
func (o PathListOutput) Render() string {
	lines := make([]string, 0, len(o.Paths))
	seen := map[string]bool{}
	for _, p := range o.Paths {
		if !o.fish {
			lines = append(lines, p.Method+" "+p.URL)
			continue
		}
		if seen[p.URL] {
			continue
		}
		seen[p.URL] = true
		desc := p.Summary
		if desc == "" {
			desc = p.Template
		}
		lines = append(lines, completion.Candidate{Value: p.URL, Description: desc}.Format(true))
	}
	return strings.Join(lines, "\n")
}

// ListPaths lists the templates of one or all APIs, rebuilding missing caches.
// Pattern keeps templates containing it.
func ListPaths(ctx context.Context, rt *Runtime, params PathListParams) error {
	entries, err := selectEntries(rt, params.Name)
	if err != nil {
		return failExit(err)
	}

	out := PathListOutput{Paths: []PathLine{}, fish: params.Fish}
	for _, e := range entries {
		spec, err := rt.EnsureCache(ctx, e)
		if err != nil {
			if params.Name != "" {
				return failExit(err)
			}
			rt.Log.WithField("api", e.Name).WithError(err).Warn("skipping api without spec")
			continue
		}
		for _, p := range pathindex.New(e.BaseURL, spec).PathsUnder("") {
			if !strings.Contains(p.Template, params.Pattern) {
				continue
			}
			for _, m := range p.Methods {
				out.Paths = append(out.Paths, PathLine{
					API:      e.Name,
					Method:   m,
					URL:      e.BaseURL + p.Template,
					Template: p.Template,
					Summary:  p.Summary,
				})
			}
		}
	}
	return OutputResult(out, params.OutputFormat, params.OutputPath)
}

func selectEntries(rt *Runtime, name string) ([]specstore.APIEntry, error) {
	if name == "" {
		return rt.Store.List()
	}
	e, err := rt.Store.Get(name)
	if err != nil {
		return nil, err
	}
	return []specstore.APIEntry{e}, nil
}

// ParamListParams configures the param command.
type ParamListParams struct {
	Name    string
	Path    string
	Pattern string

	OutputFormat string
	OutputPath   string
}

// ParamLine is one parameter of a path template.
type ParamLine struct {
	Name        string `json:"name"`
	In          string `json:"in"`
	Required    bool   `json:"required"`
	Item        string `json:"item"`
	Description string `json:"description,omitempty"`
}

// ParamListOutput is the output of the param command.
type ParamListOutput struct {
	API      string      `json:"api"`
	Template string      `json:"template"`
	Params   []ParamLine `json:"params"`
}

// Render prints "item<TAB>description" per parameter.
func (o ParamListOutput) Render() string {
	lines := make([]string, 0, len(o.Params))
	for _, p := range o.Params {
		lines = append(lines, completion.Candidate{Value: p.Item, Description: p.Description}.Format(true))
	}
	return strings.Join(lines, "\n")
}

// ListParams lists the parameters of one template, required first. Cookie
// parameters are left out since HTTPie has no request item for them.
func ListParams(ctx context.Context, rt *Runtime, params ParamListParams) error {
	if params.Name == "" || params.Path == "" {
		return usageExit("param --name <api> --path <template>")
	}
	e, err := rt.Store.Get(params.Name)
	if err != nil {
		return failExit(err)
	}
	spec, err := rt.EnsureCache(ctx, e)
	if err != nil {
		return failExit(err)
	}

	path, ok := pathindex.New(e.BaseURL, spec).Lookup(params.Path)
	if !ok {
		return failExit(fmt.Errorf("no path %q in %s: %w", params.Path, e.Name, specstore.ErrNotFound))
	}

	list := slices.Clone(path.Parameters)
	slices.SortStableFunc(list, func(a, b specstore.ParamEntry) int {
		switch {
		case a.Required == b.Required:
			return 0
		case a.Required:
			return -1
		default:
			return 1
		}
	})

	out := ParamListOutput{API: e.Name, Template: path.Template, Params: []ParamLine{}}
	for _, p := range list {
		if p.In == specstore.LocationCookie || !strings.Contains(p.Name, params.Pattern) {
			continue
		}
		out.Params = append(out.Params, ParamLine{
			Name:        p.Name,
			In:          string(p.In),
			Required:    p.Required,
			Item:        completion.RequestItem(p),
			Description: completion.ParamDescription(p),
		})
	}
	return OutputResult(out, params.OutputFormat, params.OutputPath)
}
