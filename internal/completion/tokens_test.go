package completion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{name: "empty", line: "", want: []string{""}},
		{name: "command only", line: "http", want: []string{"http"}},
		{name: "trailing space starts a token", line: "http ", want: []string{"http", ""}},
		{name: "url", line: "http https://api.example.com/users", want: []string{"http", "https://api.example.com/users"}},
		{name: "quoted", line: `http 'X-Api-Key:abc def' `, want: []string{"http", "X-Api-Key:abc def", ""}},
		{name: "unterminated single quote", line: "http 'abc de", want: []string{"http", "abc de"}},
		{name: "unterminated double quote with trailing space", line: `http "abc `, want: []string{"http", "abc "}},
		{name: "escaped trailing space", line: `http abc\ `, want: []string{"http", "abc "}},
		{name: "tabs", line: "http\tGET\t", want: []string{"http", "GET", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitLine(tt.line)
			assert.Equal(t, tt.want, got.Tokens)
		})
	}
}

func TestLineCurrentAndPrevious(t *testing.T) {
	l := SplitLine("http https://x.example.com/a sta")
	assert.Equal(t, "sta", l.Current())
	assert.Equal(t, []string{"http", "https://x.example.com/a"}, l.Previous())

	var empty Line
	assert.Equal(t, "", empty.Current())
	assert.Nil(t, empty.Previous())
}
