package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/sagescm/sage/ui"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the event journal for this repository",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}

		if !clearYes {
			confirm := false
			if err := huh.NewConfirm().
				Title("Delete the entire journal? Undo history will be lost.").
				Value(&confirm).
				Run(); err != nil || !confirm {
				fmt.Println(ui.Dim("Journal left untouched."))
				return nil
			}
		}

		if err := app.store.Clear(); err != nil {
			return err
		}
		fmt.Printf("%s Journal cleared\n", ui.Success("✓"))
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "clear without asking")
	rootCmd.AddCommand(clearCmd)
}
