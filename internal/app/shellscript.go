package app

import (
	"bytes"
	"embed"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	"github.com/openbindings/httpie-oapi/internal/fileutil"
)

//go:embed scripts/*.tmpl
var scriptFS embed.FS

// Shells lists the shells completion scripts can be generated for.
var Shells = []string{"fish", "bash", "zsh"}

var scriptTemplates = template.Must(template.ParseFS(scriptFS, "scripts/*.tmpl"))

// CompletionsParams configures the completions command.
type CompletionsParams struct {
	Shell      string
	OutputPath string
}

type scriptData struct {
	Binary   string
	FuncName string
	Version  string
}

// RenderCompletionScript returns the static completion script for shell.
// The script calls back into "complete" at completion time.
func RenderCompletionScript(shell string) ([]byte, error) {
	shell = strings.ToLower(strings.TrimSpace(shell))
	if !slices.Contains(Shells, shell) {
		return nil, fmt.Errorf("unsupported shell %q (valid: %s)", shell, strings.Join(Shells, ", "))
	}
	data := scriptData{
		Binary:   AppName,
		FuncName: strings.ReplaceAll(AppName, "-", "_"),
		Version:  version,
	}
	var buf bytes.Buffer
	if err := scriptTemplates.ExecuteTemplate(&buf, shell+".tmpl", data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Completions prints the script, or writes it atomically to OutputPath.
func Completions(params CompletionsParams) error {
	script, err := RenderCompletionScript(params.Shell)
	if err != nil {
		return usageExit(err.Error())
	}
	if params.OutputPath == "" {
		return okText(strings.TrimRight(string(script), "\n"))
	}
	if err := fileutil.EnsureDir(filepath.Dir(params.OutputPath)); err != nil {
		return failExit(err)
	}
	if err := fileutil.AtomicWriteFile(params.OutputPath, script, FilePerm); err != nil {
		return failExit(err)
	}
	return exitText(0, "Wrote "+params.OutputPath, true)
}
