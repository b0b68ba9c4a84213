package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// SpecListParams configures the spec list command.
type SpecListParams struct {
	Detailed     bool
	OutputFormat string
	OutputPath   string
}

// SpecSummary describes one registered API.
type SpecSummary struct {
	Name      string     `json:"name"`
	SpecURL   string     `json:"specUrl"`
	BaseURL   string     `json:"baseUrl"`
	CachePath string     `json:"cachePath"`
	Cached    bool       `json:"cached"`
	FetchedAt *time.Time `json:"fetchedAt,omitempty"`
	PathCount int        `json:"pathCount"`
}

// SpecListOutput is the output of spec list.
type SpecListOutput struct {
	APIs []SpecSummary `json:"apis"`

	detailed bool
}

// Render lists names one per line, or a block per API when detailed.
func (o SpecListOutput) Render() string {
	if !o.detailed {
		names := make([]string, 0, len(o.APIs))
		for _, api := range o.APIs {
			names = append(names, api.Name)
		}
		return strings.Join(names, "\n")
	}

	s := Styles
	if len(o.APIs) == 0 {
		return s.Dim.Render("No APIs registered")
	}

	var sb strings.Builder
	for i, api := range o.APIs {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(s.Header.Render(api.Name))
		sb.WriteString("\n  spec   ")
		sb.WriteString(api.SpecURL)
		sb.WriteString("\n  base   ")
		sb.WriteString(api.BaseURL)
		sb.WriteString("\n  cache  ")
		if !api.Cached {
			sb.WriteString(s.Warning.Render("missing"))
			sb.WriteString(s.Dim.Render(" (run spec refresh " + api.Name + ")"))
			continue
		}
		sb.WriteString(s.Dim.Render(api.CachePath))
		sb.WriteString(s.Dim.Render(fmt.Sprintf(" (%d paths, fetched %s)", api.PathCount, humanize.Time(*api.FetchedAt))))
	}
	return sb.String()
}

// SpecList lists registered APIs in registry order. It never touches the network.
func SpecList(rt *Runtime, params SpecListParams) error {
	entries, err := rt.Store.List()
	if err != nil {
		return failExit(err)
	}

	out := SpecListOutput{APIs: make([]SpecSummary, 0, len(entries)), detailed: params.Detailed}
	for _, e := range entries {
		summary := SpecSummary{
			Name:      e.Name,
			SpecURL:   e.SpecURL,
			BaseURL:   e.BaseURL,
			CachePath: rt.Store.CachePath(e.Name),
		}
		if spec, err := rt.Store.LoadCache(e.Name); err == nil {
			fetchedAt := spec.FetchedAt
			summary.Cached = true
			summary.FetchedAt = &fetchedAt
			summary.PathCount = len(spec.Paths)
		}
		out.APIs = append(out.APIs, summary)
	}
	return OutputResult(out, params.OutputFormat, params.OutputPath)
}
