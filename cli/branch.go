package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sagescm/sage/git"
	"github.com/sagescm/sage/journal"
	"github.com/sagescm/sage/logging"
	"github.com/sagescm/sage/ui"
)

var branchFrom string

var branchCmd = &cobra.Command{
	Use:   "branch <name>",
	Short: "Create a branch and switch to it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		app, err := newAppContext()
		if err != nil {
			return err
		}

		from := branchFrom
		if from == "" {
			from, err = git.CurrentBranch(app.repoPath)
			if err != nil {
				return err
			}
		}
		commitID, err := git.ResolveCommit(app.repoPath, from)
		if err != nil {
			return err
		}

		if err := git.CreateBranch(app.repoPath, name, branchFrom); err != nil {
			return err
		}
		rec := app.recorder("branch")
		if _, err := rec.Record(journal.BranchCreated{
			Name:       name,
			FromBranch: from,
			CommitID:   commitID,
		}); err != nil {
			return err
		}

		if err := git.Switch(app.repoPath, name); err != nil {
			return err
		}
		if _, err := rec.Record(journal.BranchSwitched{From: from, To: name}); err != nil {
			return err
		}

		logging.Info("branch created", "name", name, "from", from)
		fmt.Printf("%s Created and switched to %s (from %s)\n",
			ui.Success("✓"), ui.Branch(name), ui.Branch(from))
		return nil
	},
}

func init() {
	branchCmd.Flags().StringVar(&branchFrom, "from", "", "base branch or commit (default: current HEAD)")
	rootCmd.AddCommand(branchCmd)
}
