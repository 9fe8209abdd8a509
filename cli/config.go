package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sagescm/sage/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}

		snap, err := app.store.Snapshot()
		if err != nil {
			return err
		}

		apiKey := "(not set)"
		if app.cfg.AI.Enabled() {
			apiKey = "********"
		}
		fmt.Printf("ai.model            %s\n", app.cfg.AI.Model)
		fmt.Printf("ai.api_key          %s\n", apiKey)
		if app.cfg.AI.BaseURL != "" {
			fmt.Printf("ai.base_url         %s\n", app.cfg.AI.BaseURL)
		}
		fmt.Printf("push.default_remote %s\n", app.cfg.Push.DefaultRemote)
		fmt.Printf("journal.ceiling     %d\n", app.cfg.Journal.Ceiling)
		fmt.Printf("journal.path        %s %s\n", snap.Path, ui.Dim(fmt.Sprintf("(%d events)", snap.Count)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
