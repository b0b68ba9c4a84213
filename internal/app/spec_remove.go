package app

import (
	"fmt"
	"strings"
)

// SpecRemoveParams configures the spec remove command.
type SpecRemoveParams struct {
	Name         string
	OutputFormat string
	OutputPath   string
}

// SpecRemove deletes an API's cache and then its registry entry.
func SpecRemove(rt *Runtime, params SpecRemoveParams) error {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return usageExit("spec remove <name>")
	}
	if err := rt.Store.Remove(name); err != nil {
		return failExit(err)
	}
	rt.Log.WithField("api", name).Info("removed")

	result := struct {
		Removed string `json:"removed"`
	}{Removed: name}
	return OutputResultText(result, params.OutputFormat, params.OutputPath, func() string {
		return fmt.Sprintf("%s %s", Styles.Success.Render("Removed"), Styles.Key.Render(name))
	})
}
