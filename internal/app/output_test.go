package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type renderStub struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func (r renderStub) Render() string { return "rendered " + r.Name }

func TestFormatOutput_YAMLFollowsJSONTags(t *testing.T) {
	b, err := FormatOutput(SpecSummary{Name: "petstore", SpecURL: "https://x/openapi.json"}, OutputFormatYAML)
	if err != nil {
		t.Fatalf("FormatOutput: %v", err)
	}
	got := string(b)
	if !strings.Contains(got, "specUrl: https://x/openapi.json") {
		t.Errorf("YAML should use json tag names, got:\n%s", got)
	}
	if strings.Contains(got, "fetchedAt") {
		t.Errorf("omitempty fields should be dropped, got:\n%s", got)
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := map[string]OutputFormat{"": OutputFormatText, "text": OutputFormatText, "json": OutputFormatJSON, "yml": OutputFormatYAML}
	for in, want := range tests {
		got, err := ParseOutputFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseOutputFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseOutputFormat("xml"); err == nil {
		t.Error("expected error for xml")
	}
}

func TestOutputResult_Formats(t *testing.T) {
	v := renderStub{Name: "a", Count: 2}

	exit := OutputResult(v, "", "").(ExitResult)
	if exit.Message != "rendered a" || exit.Code != 0 {
		t.Errorf("text: got %+v", exit)
	}

	exit = OutputResult(v, "json", "").(ExitResult)
	if !strings.Contains(exit.Message, `"count": 2`) {
		t.Errorf("json: got %q", exit.Message)
	}

	exit = OutputResult(v, "quiet", "").(ExitResult)
	if exit.Message != "" {
		t.Errorf("quiet: got %q", exit.Message)
	}

	exit = OutputResult(v, "xml", "").(ExitResult)
	if exit.Code != 2 || !exit.ToStderr {
		t.Errorf("bad format: got %+v", exit)
	}
}

func TestOutputResultWithCode(t *testing.T) {
	exit := OutputResultWithCode(renderStub{Name: "a"}, "", "", 1).(ExitResult)
	if exit.Code != 1 || exit.Message != "rendered a" {
		t.Errorf("got %+v", exit)
	}
}

func TestOutputResult_WritesFileByExtension(t *testing.T) {
	dir := t.TempDir()
	v := renderStub{Name: "a", Count: 2}

	yamlPath := filepath.Join(dir, "out.yaml")
	exit := OutputResult(v, "", yamlPath).(ExitResult)
	if exit.Message != "Wrote "+yamlPath {
		t.Fatalf("got %+v", exit)
	}
	b, err := os.ReadFile(yamlPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "count: 2\nname: a\n" {
		t.Errorf("yaml file = %q", b)
	}

	jsonPath := filepath.Join(dir, "out.txt")
	OutputResult(v, "text", jsonPath)
	b, err = os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(b), "{") || !strings.HasSuffix(string(b), "}\n") {
		t.Errorf("json file = %q", b)
	}
}

func TestOutputResultText_UsesTextFn(t *testing.T) {
	exit := OutputResultText(renderStub{}, "", "", func() string { return "custom\n" }).(ExitResult)
	if exit.Message != "custom" {
		t.Errorf("got %q", exit.Message)
	}
}
