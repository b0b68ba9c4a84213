package cmd

import (
	"github.com/charmbracelet/huh"
	"github.com/openbindings/httpie-oapi/internal/app"
	"github.com/spf13/cobra"
)

// getOutputFlags returns the global --format and -o/--output (path) from the root command.
// -o/--output = output path (file to write). --format/-F = output format (json|yaml|text|quiet).
func getOutputFlags(c *cobra.Command) (format string, outputPath string) {
	format, _ = c.Root().PersistentFlags().GetString("format")
	outputPath, _ = c.Root().PersistentFlags().GetString("output")
	return format, outputPath
}

// confirm asks a yes/no question on the terminal.
func confirm(title, description string) (bool, error) {
	s := app.Styles

	var accept bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(s.Warning.Render(title)).
				Description(description).
				Affirmative("Overwrite").
				Negative("Keep").
				Value(&accept),
		),
	)
	if err := form.Run(); err != nil {
		return false, err
	}
	return accept, nil
}
