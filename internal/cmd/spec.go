package cmd

import (
	"github.com/openbindings/httpie-oapi/internal/app"
	"github.com/spf13/cobra"
)

func newSpecCmd() *cobra.Command {
	c := &cobra.Command{
		Use:     "spec",
		Aliases: []string{"specs"},
		Short:   "Manage registered OpenAPI documents",
	}

	c.AddCommand(
		newSpecListCmd(),
		newSpecAddCmd(),
		newSpecSaveCmd(),
		newSpecRemoveCmd(),
		newSpecRefreshCmd(),
	)

	return c
}

func newSpecListCmd() *cobra.Command {
	var detailed bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List registered APIs in registration order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}
			format, outputPath := getOutputFlags(cmd)
			return app.SpecList(rt, app.SpecListParams{
				Detailed:     detailed,
				OutputFormat: format,
				OutputPath:   outputPath,
			})
		},
	}

	cmd.Flags().BoolVarP(&detailed, "detailed", "d", false, "show URLs, cache state and path counts")

	return cmd
}

func newSpecAddCmd() *cobra.Command {
	var baseURL string
	var force bool

	cmd := &cobra.Command{
		Use:   "add <name> <spec-url>",
		Short: "Fetch an OpenAPI document and register it under a name",
		Long: `Fetch an OpenAPI 3.x document and register it under a name.

The base URL defaults to the origin of the document URL. Nothing is saved
when the document cannot be fetched or parsed.

Examples:
  httpie-oapi spec add petstore https://petstore3.swagger.io/api/v3/openapi.json \
    --base-url https://petstore3.swagger.io/api/v3
  httpie-oapi spec add local http://localhost:8080/openapi.json --force`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}
			format, outputPath := getOutputFlags(cmd)
			return app.SpecAdd(cmd.Context(), rt, app.SpecAddParams{
				Name:         args[0],
				SpecURL:      args[1],
				BaseURL:      baseURL,
				Force:        force,
				OutputFormat: format,
				OutputPath:   outputPath,
			})
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "URL requests are sent to (default: origin of the spec URL)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing entry without asking")

	return cmd
}

func newSpecSaveCmd() *cobra.Command {
	var name, specURL, baseURL string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Register or replace an API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}
			format, outputPath := getOutputFlags(cmd)
			return app.SpecAdd(cmd.Context(), rt, app.SpecAddParams{
				Name:         name,
				SpecURL:      specURL,
				BaseURL:      baseURL,
				Force:        true,
				OutputFormat: format,
				OutputPath:   outputPath,
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "API name")
	cmd.Flags().StringVar(&specURL, "url", "", "OpenAPI document URL")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "URL requests are sent to (default: origin of --url)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}

func newSpecRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Unregister an API and delete its cache",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}
			format, outputPath := getOutputFlags(cmd)
			return app.SpecRemove(rt, app.SpecRemoveParams{
				Name:         args[0],
				OutputFormat: format,
				OutputPath:   outputPath,
			})
		},
	}
	return cmd
}

func newSpecRefreshCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "refresh [name...]",
		Aliases: []string{"sync"},
		Short:   "Re-fetch documents and rebuild their caches",
		Long: `Re-fetch the named APIs, or every registered API when none are named.

A failed fetch keeps the previous cache. Exits 1 when any API failed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}
			format, outputPath := getOutputFlags(cmd)
			return app.SpecRefresh(cmd.Context(), rt, app.SpecRefreshParams{
				Names:        args,
				OutputFormat: format,
				OutputPath:   outputPath,
			})
		},
	}
	return cmd
}
