package cmd

import (
	"github.com/openbindings/httpie-oapi/internal/app"
	"github.com/spf13/cobra"
)

func newPathCmd() *cobra.Command {
	var name, pattern string
	var fish bool

	cmd := &cobra.Command{
		Use:     "path",
		Aliases: []string{"paths"},
		Short:   "List the endpoints of registered APIs",
		Long: `List "METHOD url" for every endpoint, suitable for fzf.

Without --name every registered API is listed. A missing cache is rebuilt
from the API's document first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}
			format, outputPath := getOutputFlags(cmd)
			return app.ListPaths(cmd.Context(), rt, app.PathListParams{
				Name:         name,
				Pattern:      pattern,
				Fish:         fish,
				OutputFormat: format,
				OutputPath:   outputPath,
			})
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "API name (default: all)")
	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "only templates containing this text")
	cmd.Flags().BoolVar(&fish, "fish", false, "print url<TAB>summary once per template")

	return cmd
}

func newParamCmd() *cobra.Command {
	var name, path, pattern string

	cmd := &cobra.Command{
		Use:     "param",
		Aliases: []string{"params"},
		Short:   "List the parameters of an endpoint as HTTPie request items",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}
			format, outputPath := getOutputFlags(cmd)
			return app.ListParams(cmd.Context(), rt, app.ParamListParams{
				Name:         name,
				Path:         path,
				Pattern:      pattern,
				OutputFormat: format,
				OutputPath:   outputPath,
			})
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "API name")
	cmd.Flags().StringVar(&path, "path", "", "path template, e.g. /pet/{petId}")
	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "only parameters containing this text")

	return cmd
}
