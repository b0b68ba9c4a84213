package cmd

import (
	"github.com/openbindings/httpie-oapi/internal/app"
	"github.com/spf13/cobra"
)

func newCompletionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completions <fish|bash|zsh>",
		Short: "Print the shell script that wires completion into http and https",
		Long: `Print the shell script that wires completion into http and https.

The fish script also wraps http/https to fill path variables and defines h,
an fzf endpoint picker.

Examples:
  httpie-oapi completions fish --output ~/.config/fish/conf.d/httpie-oapi.fish
  source <(httpie-oapi completions bash)`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: app.Shells,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, outputPath := getOutputFlags(cmd)
			return app.Completions(app.CompletionsParams{
				Shell:      args[0],
				OutputPath: outputPath,
			})
		},
	}
	return cmd
}
