package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/openbindings/httpie-oapi/internal/app"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// session holds per-invocation resources that outlive RunE.
type session struct {
	closer io.Closer
}

func (s *session) close() {
	if s.closer != nil {
		_ = s.closer.Close()
		s.closer = nil
	}
}

// NewRoot builds the top-level httpie-oapi command.
func NewRoot() *cobra.Command {
	return newRoot(&session{})
}

// Execute runs the command tree with args and returns the process exit code.
// ExitResult messages are printed to the stream they ask for; any other error
// is a usage error.
func Execute(args []string, stdout, stderr io.Writer) int {
	s := &session{}
	defer s.close()

	root := newRoot(s)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return report(root.Execute(), stdout, stderr)
}

func report(err error, stdout, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	var exit app.ExitResult
	if !errors.As(err, &exit) {
		fmt.Fprintln(stderr, err.Error())
		return 2
	}
	if exit.Message != "" {
		w := stdout
		if exit.ToStderr {
			w = stderr
		}
		fmt.Fprintln(w, exit.Message)
	}
	return exit.Code
}

// We keep errors/usage silent and let Execute decide how to print ExitResult vs generic errors.
func newRoot(s *session) *cobra.Command {
	root := &cobra.Command{
		Use:   app.AppName,
		Short: "OpenAPI-aware completion for HTTPie",
		Long: `Register OpenAPI documents and complete HTTPie command lines from them.

Examples:
  httpie-oapi spec add petstore https://petstore3.swagger.io/api/v3/openapi.json
  httpie-oapi completions fish --output ~/.config/fish/conf.d/httpie-oapi.fish
  httpie-oapi complete "http https://petstore3.swagger.io/api/v3/pet/"`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			rt, closer, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			s.closer = closer
			cmd.SetContext(context.WithValue(cmd.Context(), runtimeKey{}, rt))
			return nil
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	pf := root.PersistentFlags()
	pf.String("config-dir", "", "directory holding the registry (default: user config dir)")
	pf.String("cache-dir", "", "directory holding parsed specs (default: user cache dir)")
	pf.Duration("timeout", app.DefaultFetchTimeout, "timeout for a single spec download")
	pf.String("log-file", "", "append logs to this file")
	pf.Bool("debug", false, "log debug output to stderr")
	pf.StringP("output", "o", "", "write output to file (default: stdout)")
	pf.StringP("format", "F", "", "output format: json|yaml|text|quiet")

	root.AddGroup(
		&cobra.Group{ID: "registry", Title: "spec registry"},
		&cobra.Group{ID: "shell", Title: "shell integration"},
	)

	specCmd := newSpecCmd()
	specCmd.GroupID = "registry"

	pathCmd := newPathCmd()
	pathCmd.GroupID = "registry"

	paramCmd := newParamCmd()
	paramCmd.GroupID = "registry"

	completeCmd := newCompleteCmd()
	completeCmd.GroupID = "shell"

	completionsCmd := newCompletionsCmd()
	completionsCmd.GroupID = "shell"

	pathVarCmd := newPathVarCmd()
	pathVarCmd.GroupID = "shell"

	root.AddCommand(
		specCmd,
		pathCmd,
		paramCmd,
		completeCmd,
		completionsCmd,
		pathVarCmd,
		newVersionCmd(),
	)

	return root
}

// newRuntime resolves settings from flags and HTTPIE_OAPI_* environment variables.
func newRuntime(cmd *cobra.Command) (*app.Runtime, io.Closer, error) {
	v := viper.New()
	v.SetEnvPrefix(app.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Root().PersistentFlags()); err != nil {
		return nil, nil, err
	}

	settings := app.Settings{
		Paths: app.Paths{
			ConfigDir: v.GetString("config-dir"),
			CacheDir:  v.GetString("cache-dir"),
		},
		FetchTimeout: v.GetDuration("timeout"),
		LogFile:      v.GetString("log-file"),
		Debug:        v.GetBool("debug"),
	}
	if cmd.Name() == "complete" {
		rt, closer := newCompletionRuntime(settings)
		return rt, closer, nil
	}
	if err := settings.Validate(); err != nil {
		return nil, nil, app.ExitResult{Code: 2, Message: err.Error(), ToStderr: true}
	}

	log, closer, err := app.NewLogger(settings, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, app.ExitResult{Code: 1, Message: err.Error(), ToStderr: true}
	}

	rt := app.NewRuntime(settings, log)
	if isInteractive() {
		rt.Confirm = confirm
	}
	log.WithField("config", settings.Paths.ConfigDir).Debug("settings resolved")
	return rt, closer, nil
}

// newCompletionRuntime never fails: completion output is parsed by the shell on
// every keystroke, so bad settings degrade to fewer candidates instead of errors.
// Logs only ever go to --log-file.
func newCompletionRuntime(settings app.Settings) (*app.Runtime, io.Closer) {
	storeOK := true
	if err := settings.Validate(); err != nil {
		settings.FetchTimeout = app.DefaultFetchTimeout
		storeOK = settings.Validate() == nil
	}

	log, closer, err := app.NewLogger(settings, nil)
	if err != nil {
		rt := app.NewRuntime(settings, nil)
		if !storeOK {
			rt.Store = nil
		}
		return rt, nil
	}

	rt := app.NewRuntime(settings, log)
	if !storeOK {
		log.Debug("no usable config or cache directory")
		rt.Store = nil
	}
	return rt, closer
}

type runtimeKey struct{}

func runtimeFrom(cmd *cobra.Command) (*app.Runtime, error) {
	v := cmd.Context().Value(runtimeKey{})
	if v == nil {
		return nil, errors.New("internal error: runtime missing from command context")
	}
	rt, ok := v.(*app.Runtime)
	if !ok {
		return nil, errors.New("internal error: runtime has wrong type")
	}
	return rt, nil
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
