package completion

import (
	"strings"

	"github.com/google/shlex"
)

// Line is a tokenized command line. The last token is the one being completed
// and may be empty.
type Line struct {
	Tokens []string
}

// Current returns the token under the cursor.
func (l Line) Current() string {
	if len(l.Tokens) == 0 {
		return ""
	}
	return l.Tokens[len(l.Tokens)-1]
}

// Previous returns every token before the current one.
func (l Line) Previous() []string {
	if len(l.Tokens) == 0 {
		return nil
	}
	return l.Tokens[:len(l.Tokens)-1]
}

// SplitLine tokenizes a partially typed shell command line with the cursor at its end.
// Trailing unquoted whitespace starts a new empty token. An unterminated quote keeps
// the partial text as the current token.
func SplitLine(line string) Line {
	tokens, closed, err := splitWords(line)
	if err != nil {
		return Line{Tokens: fieldsWithCurrent(line)}
	}
	if len(tokens) == 0 || (!closed && endsWithSeparator(line)) {
		tokens = append(tokens, "")
	}
	return Line{Tokens: tokens}
}

// splitWords runs shlex over line. When line ends inside a quote it is retried with
// the quote closed; closed reports whether that happened.
func splitWords(line string) ([]string, bool, error) {
	tokens, err := shlex.Split(line)
	if err == nil {
		return tokens, false, nil
	}
	for _, quote := range []string{`"`, `'`} {
		if tokens, retryErr := shlex.Split(line + quote); retryErr == nil {
			return tokens, true, nil
		}
	}
	return nil, false, err
}

func fieldsWithCurrent(line string) []string {
	tokens := strings.Fields(line)
	if len(tokens) == 0 || endsWithSeparator(line) {
		tokens = append(tokens, "")
	}
	return tokens
}

func endsWithSeparator(line string) bool {
	if line == "" {
		return false
	}
	last := line[len(line)-1]
	if last != ' ' && last != '\t' && last != '\n' {
		return false
	}
	return len(line) < 2 || line[len(line)-2] != '\\'
}
