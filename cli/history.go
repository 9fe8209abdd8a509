package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sagescm/sage/journal"
	"github.com/sagescm/sage/ui"
	"github.com/sagescm/sage/undo"
)

var (
	historyLimit  int
	historyBranch string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the recorded timeline of actions",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}

		var entries []undo.HistoryEntry
		if historyBranch != "" {
			events, err := app.store.HistoryForBranch(historyBranch)
			if err != nil {
				return err
			}
			if len(events) > historyLimit {
				events = events[len(events)-historyLimit:]
			}
			for _, ev := range events {
				entries = append(entries, undo.HistoryEntry{Event: ev, CanUndo: undo.CanUndo(ev)})
			}
		} else {
			entries, err = undo.NewEngine(app.store).UndoHistory(historyLimit)
			if err != nil {
				return err
			}
		}

		if len(entries) == 0 {
			fmt.Println(ui.Dim("No recorded actions yet."))
			return nil
		}

		// Newest first, like git log.
		for i := len(entries) - 1; i >= 0; i-- {
			fmt.Println(formatEntry(entries[i]))
		}
		return nil
	},
}

func formatEntry(entry undo.HistoryEntry) string {
	ev := entry.Event
	marker := ui.Dim("·")
	if entry.CanUndo {
		marker = ui.Success("↺")
	}
	return fmt.Sprintf("%s %s %s %s %s",
		marker,
		ui.Dim(shortID(ev.ID.String())),
		ui.TimestampStyle.Render(ev.Timestamp.Format("2006-01-02 15:04:05")),
		ui.EventKindStyle.Render(string(ev.Payload.Kind())),
		summarize(ev))
}

// summarize renders one event as a short timeline line.
func summarize(ev journal.Event) string {
	switch p := ev.Payload.(type) {
	case journal.CommitCreated:
		return fmt.Sprintf("%s on %s: %s", ui.Commit(shortID(p.CommitID)), ui.Branch(p.Branch), p.Message)
	case journal.CommitAmended:
		return fmt.Sprintf("%s -> %s on %s", ui.Commit(shortID(p.OldCommit)), ui.Commit(shortID(p.NewCommit)), ui.Branch(p.Branch))
	case journal.BranchCreated:
		return fmt.Sprintf("%s from %s", ui.Branch(p.Name), ui.Branch(p.FromBranch))
	case journal.BranchDeleted:
		return fmt.Sprintf("%s (was at %s)", ui.Branch(p.Name), ui.Commit(shortID(p.LastCommit)))
	case journal.BranchSwitched:
		return fmt.Sprintf("%s -> %s", ui.Branch(p.From), ui.Branch(p.To))
	case journal.BranchRenamed:
		return fmt.Sprintf("%s -> %s", ui.Branch(p.OldName), ui.Branch(p.NewName))
	case journal.Rebase:
		return fmt.Sprintf("%s onto %s (%d commits)", ui.Branch(p.Branch), p.Onto, len(p.CommitsAfter))
	case journal.CherryPick:
		return fmt.Sprintf("%s from %s to %s", ui.Commit(shortID(p.Commit)), ui.Branch(p.FromBranch), ui.Branch(p.ToBranch))
	case journal.Merge:
		kind := "merge"
		if p.FastForward {
			kind = "fast-forward"
		}
		return fmt.Sprintf("%s into %s (%s)", ui.Branch(p.Source), ui.Branch(p.Target), kind)
	case journal.Reset:
		return fmt.Sprintf("%s: %s -> %s (%s)", ui.Branch(p.Branch), shortID(p.FromCommit), shortID(p.ToCommit), strings.ToLower(string(p.Mode)))
	case journal.StashCreated:
		if p.Message != "" {
			return fmt.Sprintf("%s on %s: %s", p.StashID, ui.Branch(p.Branch), p.Message)
		}
		return fmt.Sprintf("%s on %s", p.StashID, ui.Branch(p.Branch))
	case journal.StashApplied:
		return fmt.Sprintf("%s on %s", p.StashID, ui.Branch(p.Branch))
	case journal.StashDropped:
		return p.StashID
	case journal.Push:
		suffix := ""
		if p.Force {
			suffix = " (forced)"
		}
		return fmt.Sprintf("%d commit(s) to %s/%s%s", len(p.Commits), p.Remote, ui.Branch(p.Branch), suffix)
	case journal.Pull:
		return fmt.Sprintf("%d commit(s) from %s/%s", len(p.CommitsAdded), p.Remote, ui.Branch(p.Branch))
	case journal.PullRequestCreated:
		return fmt.Sprintf("#%d %s (%s)", p.PRNumber, p.Title, ui.Branch(p.Branch))
	case journal.PullRequestUpdated:
		return fmt.Sprintf("#%d (%s)", p.PRNumber, ui.Branch(p.Branch))
	case journal.WorkspaceChanged:
		return fmt.Sprintf("+%d ~%d -%d files", len(p.Added), len(p.Modified), len(p.Deleted))
	case journal.ConfigChanged:
		return p.Key
	}
	return ""
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of events to show")
	historyCmd.Flags().StringVar(&historyBranch, "branch", "", "only events touching this branch")
	rootCmd.AddCommand(historyCmd)
}
