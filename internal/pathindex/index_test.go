package pathindex

import (
	"testing"

	"github.com/openbindings/httpie-oapi/internal/specstore"
	"github.com/stretchr/testify/assert"
)

const petstoreBase = "https://petstore3.swagger.io/api/v3"

func templates(entries []specstore.PathEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Template)
	}
	return out
}

func newPetstoreIndex() *Index {
	return New(petstoreBase+"/", &specstore.CachedSpec{
		Paths: []specstore.PathEntry{
			{Template: "/pets"},
			{Template: "/pet/{petId}"},
			{Template: "/pet"},
			{Template: "/pet/findByStatus"},
			{Template: "/store/order/{orderId}"},
			{Template: "/"},
		},
	})
}

func TestPathsUnder(t *testing.T) {
	idx := newPetstoreIndex()

	assert.Equal(t, petstoreBase, idx.BaseURL())
	assert.Len(t, idx.PathsUnder(""), 6)
	assert.Len(t, idx.PathsUnder(petstoreBase), 6)
	assert.Len(t, idx.PathsUnder(petstoreBase+"/"), 6)
	assert.Empty(t, idx.PathsUnder("https://other.example.com"))
}

func TestFind(t *testing.T) {
	idx := newPetstoreIndex()

	tests := []struct {
		name   string
		base   string
		prefix string
		want   []string
	}{
		{
			name:   "empty prefix keeps declaration order",
			prefix: "",
			want:   []string{"/pets", "/pet/{petId}", "/pet", "/pet/findByStatus", "/store/order/{orderId}", "/"},
		},
		{
			name:   "more shared static segments first",
			prefix: "/pet/",
			want:   []string{"/pet/{petId}", "/pet/findByStatus"},
		},
		{
			name:   "exact segment outranks longer word",
			prefix: "/pet",
			want:   []string{"/pet/{petId}", "/pet", "/pet/findByStatus", "/pets"},
		},
		{
			name:   "deep prefix",
			base:   petstoreBase,
			prefix: "/store/o",
			want:   []string{"/store/order/{orderId}"},
		},
		{
			name:   "case sensitive",
			prefix: "/Pet",
			want:   nil,
		},
		{
			name:   "other base",
			base:   "https://other.example.com",
			prefix: "/pet",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := templates(idx.Find(tt.base, tt.prefix))
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookup(t *testing.T) {
	idx := newPetstoreIndex()

	p, ok := idx.Lookup("/pet/{petId}")
	assert.True(t, ok)
	assert.Equal(t, "/pet/{petId}", p.Template)

	p, ok = idx.Lookup("/pet/{petId}/")
	assert.True(t, ok)
	assert.Equal(t, "/pet/{petId}", p.Template)

	_, ok = idx.Lookup("/pet/{id}")
	assert.False(t, ok)

	p, ok = idx.Lookup("/")
	assert.True(t, ok)
	assert.Equal(t, "/", p.Template)
}

func TestNewNilSpec(t *testing.T) {
	idx := New(petstoreBase, nil)
	assert.Zero(t, idx.Len())
	assert.Empty(t, idx.Find("", ""))
}
