package cmd

import (
	"github.com/openbindings/httpie-oapi/internal/app"
	"github.com/spf13/cobra"
)

func newCompleteCmd() *cobra.Command {
	var line string
	var cursorPos int
	var describe bool

	cmd := &cobra.Command{
		Use:   "complete [line]",
		Short: "Print completion candidates for a partial HTTPie command line",
		Long: `Print completion candidates for the token under the cursor, one per line.

Only cached documents are consulted; nothing is fetched. Always exits 0.

Examples:
  httpie-oapi complete "http https://petstore3.swagger.io/api/v3/pet/"
  httpie-oapi complete --describe --line "http GET https://petstore3.swagger.io/api/v3/pet/{petId} "`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}
			if line == "" && len(args) == 1 {
				line = args[0]
			}
			format, _ := getOutputFlags(cmd)
			return app.Complete(rt, app.CompleteParams{
				Line:         line,
				CursorPos:    cursorPos,
				Describe:     describe,
				OutputFormat: format,
			})
		},
	}

	cmd.Flags().StringVar(&line, "line", "", "command line to complete")
	cmd.Flags().IntVar(&cursorPos, "cursor-pos", -1, "cursor position in characters (default: end of line)")
	cmd.Flags().BoolVar(&describe, "describe", false, "append a tab and a description to each candidate")

	return cmd
}
