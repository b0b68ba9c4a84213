// Package openapi turns OpenAPI 3.x JSON documents into the path entries used
// for completion, and fetches them over HTTP.
package openapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/openbindings/httpie-oapi/internal/specstore"
)

// SupportedVersions is the range of "openapi" field values accepted.
const SupportedVersions = ">= 3.0.0, < 4.0.0"

// canonicalMethods is the order methods are reported in, and the order operations
// are visited when merging parameters.
var canonicalMethods = []string{
	http.MethodGet,
	http.MethodPut,
	http.MethodPost,
	http.MethodDelete,
	http.MethodOptions,
	http.MethodHead,
	http.MethodPatch,
	http.MethodTrace,
}

// Document is the part of an OpenAPI document kept for completion.
type Document struct {
	Version string
	Title   string
	Paths   []specstore.PathEntry
}

// DocumentError reports a document that could not be parsed. Location is
// "line L, column C" when the failure points at a position in the input.
type DocumentError struct {
	Location string
	Err      error
}

func (e *DocumentError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("%s: %v", e.Location, e.Err)
	}
	return e.Err.Error()
}

func (e *DocumentError) Unwrap() error { return e.Err }

// Parse reads an OpenAPI 3.x JSON document. Paths keep their declaration order.
func Parse(data []byte) (*Document, error) {
	version, err := probeVersion(data)
	if err != nil {
		return nil, err
	}

	order, err := declaredPathOrder(data)
	if err != nil {
		return nil, &DocumentError{Err: fmt.Errorf("read paths: %w", err)}
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, &DocumentError{Err: fmt.Errorf("load OpenAPI document: %w", err)}
	}

	out := &Document{Version: version}
	if doc.Info != nil {
		out.Title = doc.Info.Title
	}
	if doc.Paths == nil {
		return out, nil
	}

	for _, template := range orderedTemplates(order, doc.Paths) {
		item := doc.Paths.Value(template)
		if item == nil || !strings.HasPrefix(template, "/") {
			continue
		}
		out.Paths = append(out.Paths, convertPath(template, item))
	}
	return out, nil
}

// probeVersion checks the document is JSON and declares a supported OpenAPI version.
func probeVersion(data []byte) (string, error) {
	var head struct {
		OpenAPI *string `json:"openapi"`
		Swagger *string `json:"swagger"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return "", jsonError(data, err)
	}
	if head.OpenAPI == nil {
		if head.Swagger != nil {
			return "", &DocumentError{Err: fmt.Errorf("swagger %s documents are not supported, need openapi 3.x", *head.Swagger)}
		}
		return "", &DocumentError{Err: errors.New(`missing "openapi" version field`)}
	}

	v, err := semver.NewVersion(*head.OpenAPI)
	if err != nil {
		return "", &DocumentError{Err: fmt.Errorf("invalid openapi version %q: %w", *head.OpenAPI, err)}
	}
	c, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return "", err
	}
	if !c.Check(v) {
		return "", &DocumentError{Err: fmt.Errorf("unsupported openapi version %q (want %s)", *head.OpenAPI, SupportedVersions)}
	}
	return *head.OpenAPI, nil
}

func jsonError(data []byte, err error) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &DocumentError{Location: offsetLocation(data, syntaxErr.Offset), Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &DocumentError{Location: offsetLocation(data, typeErr.Offset), Err: fmt.Errorf("invalid document: %w", err)}
	}
	return &DocumentError{Err: fmt.Errorf("invalid JSON: %w", err)}
}

// offsetLocation converts a byte offset into a 1-based line and column.
func offsetLocation(data []byte, offset int64) string {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	if offset < 0 {
		offset = 0
	}
	before := data[:offset]
	line := bytes.Count(before, []byte{'\n'}) + 1
	col := int(offset) - (bytes.LastIndexByte(before, '\n') + 1)
	if col < 1 {
		col = 1
	}
	return fmt.Sprintf("line %d, column %d", line, col)
}

// declaredPathOrder returns the keys of the top-level "paths" object in the order
// they appear in the input.
func declaredPathOrder(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if tok, err := dec.Token(); err != nil {
		return nil, err
	} else if tok != json.Delim('{') {
		return nil, errors.New("document is not an object")
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		if key != "paths" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, err
			}
			continue
		}

		tok, err = dec.Token()
		if err != nil {
			return nil, err
		}
		if tok != json.Delim('{') {
			return nil, nil
		}
		var order []string
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			template, _ := tok.(string)
			order = append(order, template)
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, err
			}
		}
		return order, nil
	}
	return nil, nil
}

// orderedTemplates lists every template of paths: first in declared order, then any
// the scan did not see, sorted.
func orderedTemplates(order []string, paths *openapi3.Paths) []string {
	seen := make(map[string]bool, paths.Len())
	out := make([]string, 0, paths.Len())
	for _, template := range order {
		if seen[template] || paths.Value(template) == nil {
			continue
		}
		seen[template] = true
		out = append(out, template)
	}

	var rest []string
	for template := range paths.Map() {
		if !seen[template] {
			rest = append(rest, template)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func convertPath(template string, item *openapi3.PathItem) specstore.PathEntry {
	entry := specstore.PathEntry{Template: template, Methods: []string{}}

	var ops []*openapi3.Operation
	for _, method := range canonicalMethods {
		op := item.GetOperation(method)
		if op == nil {
			continue
		}
		entry.Methods = append(entry.Methods, method)
		ops = append(ops, op)
		if entry.Summary == "" {
			entry.Summary = strings.TrimSpace(op.Summary)
		}
	}

	entry.Parameters = mergeParameters(item.Parameters, ops)
	return entry
}

func paramKey(in, name string) string {
	return in + ":" + name
}

// mergeParameters merges path-level and operation-level parameters.
// Operation-level parameters replace path-level parameters with the same name+in,
// keeping the path-level position. Across operations the first declaration wins.
// Request body fields follow the declared parameters.
func mergeParameters(pathParams openapi3.Parameters, ops []*openapi3.Operation) []specstore.ParamEntry {
	var merged []specstore.ParamEntry
	index := map[string]int{}
	overridable := map[string]bool{}

	for _, p := range pathParams {
		if p == nil || p.Value == nil {
			continue
		}
		key := paramKey(p.Value.In, p.Value.Name)
		if _, ok := index[key]; ok {
			continue
		}
		index[key] = len(merged)
		overridable[key] = true
		merged = append(merged, toParamEntry(p.Value))
	}

	for _, op := range ops {
		for _, p := range op.Parameters {
			if p == nil || p.Value == nil {
				continue
			}
			key := paramKey(p.Value.In, p.Value.Name)
			i, ok := index[key]
			switch {
			case !ok:
				index[key] = len(merged)
				merged = append(merged, toParamEntry(p.Value))
			case overridable[key]:
				merged[i] = toParamEntry(p.Value)
				overridable[key] = false
			}
		}
	}

	for _, op := range ops {
		for _, field := range bodyFields(op) {
			key := paramKey(string(field.In), field.Name)
			if _, ok := index[key]; ok {
				continue
			}
			index[key] = len(merged)
			merged = append(merged, field)
		}
	}
	return merged
}

func toParamEntry(p *openapi3.Parameter) specstore.ParamEntry {
	desc := strings.TrimSpace(p.Description)
	if desc == "" && p.Schema != nil && p.Schema.Value != nil {
		desc = strings.TrimSpace(p.Schema.Value.Description)
	}
	return specstore.ParamEntry{
		Name:        p.Name,
		In:          specstore.Location(p.In),
		Required:    p.Required,
		Description: desc,
	}
}

// bodyFields returns the top-level properties of an inline application/json
// object schema, sorted by name.
func bodyFields(op *openapi3.Operation) []specstore.ParamEntry {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	mt := op.RequestBody.Value.Content.Get("application/json")
	if mt == nil || mt.Schema == nil || mt.Schema.Value == nil {
		return nil
	}
	schema := mt.Schema.Value
	if len(schema.Properties) == 0 {
		return nil
	}
	if schema.Type != nil && !schema.Type.Is(openapi3.TypeObject) {
		return nil
	}

	required := map[string]bool{}
	for _, name := range schema.Required {
		required[name] = true
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]specstore.ParamEntry, 0, len(names))
	for _, name := range names {
		field := specstore.ParamEntry{
			Name:     name,
			In:       specstore.LocationBody,
			Required: required[name],
		}
		if prop := schema.Properties[name]; prop != nil && prop.Value != nil {
			field.Description = strings.TrimSpace(prop.Value.Description)
		}
		fields = append(fields, field)
	}
	return fields
}
