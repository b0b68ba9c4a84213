package cmd

import (
	"github.com/openbindings/httpie-oapi/internal/app"
	"github.com/spf13/cobra"
)

func newPathVarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path-var -- <http args...>",
		Short: "Fill :name and {name} path variables from :name=value arguments",
		Long: `Rewrite an HTTPie argument list, filling path variables in the URL
from :name=value arguments, and print it quoted for the shell.

Examples:
  httpie-oapi path-var -- GET https://petstore3.swagger.io/api/v3/pet/{petId} :petId=1
  httpie-oapi path-var -- :8080/users/:id :id=7`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}
			return app.PathVar(rt, app.PathVarParams{Args: args})
		},
	}
	return cmd
}
