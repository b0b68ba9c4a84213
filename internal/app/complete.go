package app

import (
	"strings"

	"github.com/openbindings/httpie-oapi/internal/completion"
	"github.com/openbindings/httpie-oapi/internal/pathindex"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// CompleteParams configures the complete command.
type CompleteParams struct {
	Line string

	// CursorPos is the cursor offset in characters; negative means end of line.
	CursorPos int

	// Describe appends a tab and the candidate description to each line.
	Describe bool

	OutputFormat string
}

// Complete prints candidates for the token under the cursor, one per line.
// It reads caches only and always exits 0.
func Complete(rt *Runtime, params CompleteParams) error {
	line := truncateAtCursor(params.Line, params.CursorPos)
	result := completion.NewEngine(completionSources(rt)).Complete(line)

	rt.Log.WithFields(logrus.Fields{
		"line":       line,
		"state":      result.State.String(),
		"candidates": len(result.Candidates),
	}).Debug("complete")

	if format, err := ParseOutputFormat(params.OutputFormat); err == nil && format != OutputFormatText {
		if b, err := FormatOutput(result, format); err == nil {
			return okText(string(b))
		}
	}

	lines := lo.Map(result.Candidates, func(c completion.Candidate, _ int) string {
		return c.Format(params.Describe)
	})
	return okText(strings.Join(lines, "\n"))
}

// completionSources builds one source per registered API. APIs without a usable
// cache get a nil index and contribute only their base URL. A nil store has no APIs.
func completionSources(rt *Runtime) []completion.Source {
	if rt.Store == nil {
		return nil
	}
	entries, err := rt.Store.List()
	if err != nil {
		rt.Log.WithError(err).Debug("registry unavailable")
		return nil
	}
	sources := make([]completion.Source, 0, len(entries))
	for _, e := range entries {
		src := completion.Source{Entry: e}
		if spec, err := rt.Store.LoadCache(e.Name); err == nil {
			src.Index = pathindex.New(e.BaseURL, spec)
		} else {
			rt.Log.WithField("api", e.Name).WithError(err).Debug("no cache")
		}
		sources = append(sources, src)
	}
	return sources
}

func truncateAtCursor(line string, pos int) string {
	if pos < 0 {
		return line
	}
	runes := []rune(line)
	if pos >= len(runes) {
		return line
	}
	return string(runes[:pos])
}
