// Package pathindex answers path-template queries over one API's cached document.
package pathindex

import (
	"slices"
	"strings"

	"github.com/openbindings/httpie-oapi/internal/specstore"
)

// Index is an immutable, ordered view of an API's path templates.
type Index struct {
	baseURL string
	paths   []specstore.PathEntry
}

// New builds an index for the API reachable at baseURL. A nil spec gives an empty index.
func New(baseURL string, spec *specstore.CachedSpec) *Index {
	idx := &Index{baseURL: specstore.NormalizeBaseURL(baseURL)}
	if spec != nil {
		idx.paths = slices.Clone(spec.Paths)
	}
	return idx
}

// BaseURL returns the base URL the index was built for.
func (idx *Index) BaseURL() string { return idx.baseURL }

// Len returns the number of templates.
func (idx *Index) Len() int { return len(idx.paths) }

// PathsUnder returns every template in declaration order when baseURL is empty or
// names this index's API, and nothing otherwise.
func (idx *Index) PathsUnder(baseURL string) []specstore.PathEntry {
	if !idx.covers(baseURL) {
		return nil
	}
	return slices.Clone(idx.paths)
}

// Find returns templates starting with prefix. Templates sharing more leading
// static segments with prefix come first; ties keep declaration order.
func (idx *Index) Find(baseURL, prefix string) []specstore.PathEntry {
	if !idx.covers(baseURL) {
		return nil
	}

	var out []specstore.PathEntry
	for _, p := range idx.paths {
		if strings.HasPrefix(p.Template, prefix) {
			out = append(out, p)
		}
	}
	want := splitSegments(prefix)
	slices.SortStableFunc(out, func(a, b specstore.PathEntry) int {
		return sharedStaticSegments(b.Template, want) - sharedStaticSegments(a.Template, want)
	})
	return out
}

// Lookup finds the template equal to template, ignoring a trailing slash on either side.
func (idx *Index) Lookup(template string) (specstore.PathEntry, bool) {
	want := trimSlash(template)
	for _, p := range idx.paths {
		if trimSlash(p.Template) == want {
			return p, true
		}
	}
	return specstore.PathEntry{}, false
}

func (idx *Index) covers(baseURL string) bool {
	return baseURL == "" || specstore.NormalizeBaseURL(baseURL) == idx.baseURL
}

func trimSlash(s string) string {
	if len(s) > 1 {
		return strings.TrimSuffix(s, "/")
	}
	return s
}

func splitSegments(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// IsVariable reports whether a template segment is a {placeholder}.
func IsVariable(segment string) bool {
	return strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}")
}

func sharedStaticSegments(template string, want []string) int {
	n := 0
	for i, seg := range splitSegments(template) {
		if i >= len(want) || IsVariable(seg) || seg != want[i] {
			break
		}
		n++
	}
	return n
}
