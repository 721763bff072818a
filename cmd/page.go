package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPageCmd() *cobra.Command {
	return newBaseCmd(
		"pagetitle <URL>",
		"Print the title of a web page",
		`pagetitle opens URL in a headless browser and prints the page title.
If the page cannot be loaded, the error message is printed instead.`,
		runPage,
	)
}

func runPage(cmd *cobra.Command, a App, url string) error {
	if _, err := a.PageRunner().Run(cmd.Context(), url, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

// ExecutePage is the entry point for the pagetitle executable.
func ExecutePage() {
	execute(newPageCmd())
}
