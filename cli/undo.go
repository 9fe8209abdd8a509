package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sagescm/sage/git"
	"github.com/sagescm/sage/journal"
	"github.com/sagescm/sage/logging"
	"github.com/sagescm/sage/ui"
	"github.com/sagescm/sage/undo"
)

var undoYes bool

var undoCmd = &cobra.Command{
	Use:   "undo [event-id]",
	Short: "Undo the most recent undoable action, or one named by id",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}

		var ev *journal.Event
		if len(args) == 1 {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid event id %q: %w", args[0], err)
			}
			ev, err = app.store.FindByID(id)
			if err != nil {
				return err
			}
			if ev == nil {
				return fmt.Errorf("%w: %s", journal.ErrEventNotFound, id)
			}
		} else {
			ev, err = lastUndoable(app.store)
			if err != nil {
				return err
			}
			if ev == nil {
				fmt.Println(ui.Dim("Nothing to undo."))
				return nil
			}
		}

		plan, err := undo.PlanFor(*ev)
		if err != nil {
			return err
		}

		fmt.Println(undo.Explain(*ev))
		fmt.Println(ui.Dim("Plan: " + plan.String()))

		if !undoYes {
			confirm := true
			if err := huh.NewConfirm().
				Title("Apply this undo?").
				Value(&confirm).
				Run(); err != nil || !confirm {
				fmt.Println(ui.Dim("Undo cancelled."))
				return nil
			}
		}

		if err := git.NewAdapter(app.repoPath).Apply(plan); err != nil {
			return err
		}
		logging.Info("undo applied", "event", ev.ID, "kind", ev.Payload.Kind(), "plan", plan.String())
		fmt.Printf("%s Undone: %s\n", ui.Success("✓"), undo.Explain(*ev))
		return nil
	},
}

// lastUndoable returns the newest reversible event, or nil if none exists.
func lastUndoable(store *journal.Store) (*journal.Event, error) {
	events, err := store.ReadAll()
	if err != nil {
		return nil, err
	}
	for i := len(events) - 1; i >= 0; i-- {
		if undo.CanUndo(events[i]) {
			return &events[i], nil
		}
	}
	return nil, nil
}

func init() {
	undoCmd.Flags().BoolVarP(&undoYes, "yes", "y", false, "apply without asking")
	rootCmd.AddCommand(undoCmd)
}
