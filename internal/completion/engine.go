// Package completion proposes the next token of a partially typed HTTPie command line
// from the registered APIs and their cached path indexes.
package completion

import (
	"slices"
	"strings"

	"github.com/openbindings/httpie-oapi/internal/pathindex"
	"github.com/openbindings/httpie-oapi/internal/specstore"
	"github.com/samber/lo"
)

// State is how much of the line was recognized.
type State int

const (
	// NoBaseMatched means no token starts with a registered base URL.
	NoBaseMatched State = iota
	// BaseMatched means a token starts with a base URL but names no known path.
	BaseMatched
	// PathMatched means a token is a base URL followed by a known path template.
	PathMatched
)

func (s State) String() string {
	switch s {
	case NoBaseMatched:
		return "no-base-matched"
	case BaseMatched:
		return "base-matched"
	case PathMatched:
		return "path-matched"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name in json and yaml output.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Source is one registered API with its index. Index may be nil when the API has no cache.
type Source struct {
	Entry specstore.APIEntry
	Index *pathindex.Index
}

// Candidate is one proposed continuation.
type Candidate struct {
	Value       string `json:"value" yaml:"value"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Format renders the candidate for a shell. With describe, the description follows a tab.
func (c Candidate) Format(describe bool) string {
	if !describe || c.Description == "" {
		return c.Value
	}
	return c.Value + "\t" + oneLine(c.Description)
}

// Result is the outcome of a completion request.
type Result struct {
	State      State       `json:"state" yaml:"state"`
	Candidates []Candidate `json:"candidates" yaml:"candidates"`
}

// Engine completes command lines against a fixed, ordered set of sources.
type Engine struct {
	sources []Source
}

// NewEngine returns an engine over sources, which must be in registry order.
func NewEngine(sources []Source) *Engine {
	return &Engine{sources: sources}
}

// urlMatch is a token that starts with the base URL of one or more sources.
type urlMatch struct {
	position int
	token    string
	sources  []Source
}

// Complete returns the candidates for the last token of line. It never fails;
// anything it cannot resolve yields no candidates.
func (e *Engine) Complete(line string) Result {
	l := SplitLine(line)

	m, ok := e.findURLToken(l)
	if !ok {
		return Result{State: NoBaseMatched, Candidates: e.baseCandidates()}
	}

	onCurrent := m.position == len(l.Tokens)-1
	if entry, found := lookupPath(m, onCurrent); found {
		prefix := ""
		if !onCurrent {
			prefix = l.Current()
		}
		return Result{State: PathMatched, Candidates: paramCandidates(entry, prefix, l.Previous())}
	}

	if !onCurrent {
		return Result{State: BaseMatched}
	}
	return Result{State: BaseMatched, Candidates: pathCandidates(m)}
}

// lookupPath finds the template the URL token names exactly, in source order.
// While the URL is still being typed, a trailing slash that longer templates
// continue from is treated as unfinished.
func lookupPath(m urlMatch, onCurrent bool) (specstore.PathEntry, bool) {
	for _, src := range m.sources {
		if src.Index == nil {
			continue
		}
		remainder := pathOnly(strings.TrimPrefix(m.token, src.Entry.BaseURL))
		if remainder == "" {
			continue
		}
		if onCurrent && strings.HasSuffix(remainder, "/") && len(src.Index.Find("", remainder)) > 0 {
			continue
		}
		if entry, ok := src.Index.Lookup(remainder); ok {
			return entry, true
		}
	}
	return specstore.PathEntry{}, false
}

// findURLToken picks the last token that starts with any registered base URL.
func (e *Engine) findURLToken(l Line) (urlMatch, bool) {
	for i := len(l.Tokens) - 1; i >= 0; i-- {
		tok := l.Tokens[i]
		matched := lo.Filter(e.sources, func(src Source, _ int) bool {
			return hasBase(tok, src.Entry.BaseURL)
		})
		if len(matched) > 0 {
			return urlMatch{position: i, token: tok, sources: matched}, true
		}
	}
	return urlMatch{}, false
}

func (e *Engine) baseCandidates() []Candidate {
	cands := lo.Map(e.sources, func(src Source, _ int) Candidate {
		return Candidate{Value: src.Entry.BaseURL, Description: src.Entry.Name}
	})
	return uniqueCandidates(cands)
}

func pathCandidates(m urlMatch) []Candidate {
	var cands []Candidate
	for _, src := range m.sources {
		if src.Index == nil {
			continue
		}
		remainder := strings.TrimPrefix(m.token, src.Entry.BaseURL)
		for _, p := range src.Index.Find("", remainder) {
			desc := p.Summary
			if desc == "" {
				desc = p.Template
			}
			cands = append(cands, Candidate{Value: src.Entry.BaseURL + p.Template, Description: desc})
		}
	}
	return uniqueCandidates(cands)
}

// paramCandidates lists the parameters an HTTPie request item can carry, required
// first. Parameters already on the line and values not starting with prefix are skipped.
func paramCandidates(entry specstore.PathEntry, prefix string, typed []string) []Candidate {
	params := lo.Filter(entry.Parameters, func(p specstore.ParamEntry, _ int) bool {
		return p.In != specstore.LocationPath && p.In != specstore.LocationCookie
	})
	slices.SortStableFunc(params, func(a, b specstore.ParamEntry) int {
		switch {
		case a.Required == b.Required:
			return 0
		case a.Required:
			return -1
		default:
			return 1
		}
	})

	var cands []Candidate
	for _, p := range params {
		value := RequestItem(p)
		if !strings.HasPrefix(value, prefix) {
			continue
		}
		if slices.ContainsFunc(typed, func(tok string) bool { return strings.HasPrefix(tok, value) }) {
			continue
		}
		cands = append(cands, Candidate{Value: value, Description: ParamDescription(p)})
	}
	return uniqueCandidates(cands)
}

// RequestItem renders a parameter as the start of an HTTPie request item:
// name== for query, Name: for header, :name= for path variables, name= otherwise.
func RequestItem(p specstore.ParamEntry) string {
	switch p.In {
	case specstore.LocationPath:
		return ":" + p.Name + "="
	case specstore.LocationQuery:
		return p.Name + "=="
	case specstore.LocationHeader:
		return p.Name + ":"
	default:
		return p.Name + "="
	}
}

// ParamDescription is the parameter description, or its name. Optional parameters
// are bracketed and required ones are marked.
func ParamDescription(p specstore.ParamEntry) string {
	desc := p.Description
	if desc == "" {
		desc = p.Name
	}
	desc = oneLine(desc)
	if p.Required {
		return desc + " (required)"
	}
	return "[" + desc + "]"
}

func uniqueCandidates(cands []Candidate) []Candidate {
	return lo.UniqBy(cands, func(c Candidate) string { return c.Value })
}

// hasBase reports whether tok is base, or base followed by a path, query or fragment.
func hasBase(tok, base string) bool {
	if base == "" || !strings.HasPrefix(tok, base) {
		return false
	}
	if len(tok) == len(base) {
		return true
	}
	switch tok[len(base)] {
	case '/', '?', '#':
		return true
	}
	return false
}

// pathOnly drops a query string or fragment.
func pathOnly(remainder string) string {
	if i := strings.IndexAny(remainder, "?#"); i >= 0 {
		return remainder[:i]
	}
	return remainder
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
