package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sagescm/sage/git"
	"github.com/sagescm/sage/journal"
	"github.com/sagescm/sage/logging"
	"github.com/sagescm/sage/ui"
)

var pushForce bool

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Push the current branch to its remote",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		return pushCurrent(app, pushForce)
	},
}

// pushCurrent pushes the checked-out branch, recording which commits went up.
// The commit list is captured before pushing; after a successful push the
// local and remote tips agree and the list would be empty.
func pushCurrent(app *appContext, force bool) error {
	branch, err := git.CurrentBranch(app.repoPath)
	if err != nil {
		return err
	}
	remote := app.cfg.Push.DefaultRemote

	commits, err := git.AheadOf(app.repoPath, remote, branch)
	if err != nil {
		return err
	}

	err = ui.WithSpinner(fmt.Sprintf("Pushing %s to %s...", branch, remote), func() error {
		return git.Push(app.repoPath, remote, branch, force)
	})
	if err != nil {
		return err
	}
	logging.Info("pushed", "branch", branch, "remote", remote, "commits", len(commits), "force", force)

	if _, err := app.recorder("push").Record(journal.Push{
		Branch:  branch,
		Remote:  remote,
		Commits: commits,
		Force:   force,
	}); err != nil {
		return err
	}

	if force {
		fmt.Printf("%s Force-pushed %s to %s\n", ui.Warn("!"), ui.Branch(branch), remote)
	} else {
		fmt.Printf("%s Pushed %d commit(s) to %s/%s\n",
			ui.Success("✓"), len(commits), remote, ui.Branch(branch))
	}
	return nil
}

func init() {
	pushCmd.Flags().BoolVarP(&pushForce, "force", "f", false, "force push (not undoable)")
	rootCmd.AddCommand(pushCmd)
}
