package app

import (
	"strings"

	"al.essio.dev/pkg/shellescape"
	"github.com/openbindings/httpie-oapi/internal/pathindex"
)

// PathVarParams configures the path-var command.
type PathVarParams struct {
	Args []string
}

// PathVar prints the HTTPie arguments with path variables filled in, quoted for
// the shell that will evaluate them.
func PathVar(rt *Runtime, params PathVarParams) error {
	rewritten := RewritePathVars(params.Args)
	rt.Log.WithField("args", rewritten).Debug("path-var")
	return okText(shellescape.QuoteCommand(rewritten))
}

// RewritePathVars fills ":name" segments and "{name}" placeholders in the first
// URL-like argument from later ":name=value" arguments, which are dropped.
// Assignments for names the URL does not use are kept as they are.
func RewritePathVars(args []string) []string {
	urlIndex := -1
	for i, arg := range args {
		if isURLLike(arg) {
			urlIndex = i
			break
		}
	}
	if urlIndex < 0 {
		return args
	}

	prefix, path, query := splitURL(args[urlIndex])
	vars := pathVariables(path)
	if len(vars) == 0 {
		return args
	}

	values := map[string]string{}
	out := make([]string, 0, len(args))
	out = append(out, args[:urlIndex+1]...)
	for _, arg := range args[urlIndex+1:] {
		key, value, ok := strings.Cut(arg, "=")
		if ok && strings.HasPrefix(key, ":") && vars[key[1:]] {
			values[key[1:]] = value
			continue
		}
		out = append(out, arg)
	}

	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if name, ok := variableName(seg); ok {
			if v, found := values[name]; found {
				segments[i] = v
			}
		}
	}
	out[urlIndex] = prefix + strings.Join(segments, "/") + query
	return out
}

// isURLLike recognizes http(s) URLs and HTTPie shorthands such as
// ":8080/users", "localhost:8080" and "example.com/api".
func isURLLike(s string) bool {
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return true
	}
	host, _, hasPath := strings.Cut(s, "/")
	if !hasPath && !strings.Contains(host, ":") {
		return false
	}
	for _, r := range host {
		if !(r == '.' || r == '-' || r == ':' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}

// splitURL separates scheme+host, the path (without its leading slash), and a
// query or fragment suffix.
func splitURL(raw string) (prefix, path, suffix string) {
	rest := raw
	for _, scheme := range []string{"http://", "https://"} {
		if strings.HasPrefix(raw, scheme) {
			prefix = scheme
			rest = raw[len(scheme):]
			break
		}
	}
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest, suffix = rest[:i], rest[i:]
	}
	host, path, ok := strings.Cut(rest, "/")
	if !ok {
		return raw, "", ""
	}
	return prefix + host + "/", path, suffix
}

func pathVariables(path string) map[string]bool {
	vars := map[string]bool{}
	for _, seg := range strings.Split(path, "/") {
		if name, ok := variableName(seg); ok {
			vars[name] = true
		}
	}
	return vars
}

func variableName(seg string) (string, bool) {
	switch {
	case len(seg) > 1 && seg[0] == ':':
		return seg[1:], true
	case len(seg) > 2 && pathindex.IsVariable(seg):
		return seg[1 : len(seg)-1], true
	}
	return "", false
}
