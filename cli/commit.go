package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/sagescm/sage/ai"
	"github.com/sagescm/sage/git"
	"github.com/sagescm/sage/journal"
	"github.com/sagescm/sage/logging"
	"github.com/sagescm/sage/ui"
)

var (
	commitMessage string
	commitAll     bool
	commitAI      bool
	commitAmend   bool
	commitPush    bool
	commitYes     bool
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Stage changes and commit them, optionally with an AI-written message",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}

		if commitAll {
			if err := git.StageAll(app.repoPath); err != nil {
				return err
			}
		}
		files, err := git.StagedFiles(app.repoPath)
		if err != nil {
			return err
		}
		if len(files) == 0 && !commitAmend {
			fmt.Println(ui.Dim("Nothing to commit. Stage changes first or pass --all."))
			return nil
		}
		branch, err := git.CurrentBranch(app.repoPath)
		if err != nil {
			return err
		}

		if commitAmend {
			return amendCommit(app, branch)
		}

		message := commitMessage
		if message == "" {
			message, err = generateMessage(cmd, app, files)
			if err != nil {
				return err
			}
		}

		commitID, err := git.Commit(app.repoPath, message)
		if err != nil {
			return err
		}
		logging.Info("committed", "commit", commitID, "branch", branch, "files", len(files))

		if _, err := app.recorder("commit").Record(journal.CommitCreated{
			CommitID:     commitID,
			Message:      message,
			FilesChanged: files,
			Branch:       branch,
		}); err != nil {
			return err
		}

		fmt.Printf("%s Committed %s on %s\n",
			ui.Success("✓"), ui.Commit(shortID(commitID)), ui.Branch(branch))

		if commitPush {
			return pushCurrent(app, false)
		}
		return nil
	},
}

func amendCommit(app *appContext, branch string) error {
	oldCommit, err := git.Head(app.repoPath)
	if err != nil {
		return err
	}
	newCommit, err := git.Amend(app.repoPath, commitMessage)
	if err != nil {
		return err
	}
	logging.Info("amended", "old", oldCommit, "new", newCommit, "branch", branch)

	if _, err := app.recorder("commit").Record(journal.CommitAmended{
		OldCommit: oldCommit,
		NewCommit: newCommit,
		Branch:    branch,
	}); err != nil {
		return err
	}
	fmt.Printf("%s Amended %s on %s\n",
		ui.Success("✓"), ui.Commit(shortID(newCommit)), ui.Branch(branch))
	return nil
}

func generateMessage(cmd *cobra.Command, app *appContext, files []string) (string, error) {
	if !app.cfg.AI.Enabled() {
		if commitAI {
			return "", errors.New("AI is not configured; set SAGE_AI_API_KEY or OPENAI_API_KEY")
		}
		return "", errors.New("no commit message; pass -m or enable AI with --ai")
	}
	diff, err := git.StagedDiff(app.repoPath)
	if err != nil {
		return "", err
	}

	gen := ai.NewGenerator(app.cfg.AI)
	var message string
	err = ui.WithSpinner("Writing commit message...", func() error {
		var genErr error
		message, genErr = gen.CommitMessage(cmd.Context(), diff, files)
		return genErr
	})
	if err != nil {
		return "", err
	}

	fmt.Printf("Suggested message: %s\n", ui.Commit(message))
	if !commitYes {
		accept := true
		if err := huh.NewConfirm().
			Title("Commit with this message?").
			Value(&accept).
			Run(); err != nil || !accept {
			return "", errors.New("commit cancelled")
		}
	}
	return message, nil
}

func init() {
	commitCmd.Flags().StringVarP(&commitMessage, "message", "m", "", "commit message")
	commitCmd.Flags().BoolVarP(&commitAll, "all", "a", false, "stage all changes before committing")
	commitCmd.Flags().BoolVar(&commitAI, "ai", false, "generate the commit message with AI")
	commitCmd.Flags().BoolVar(&commitAmend, "amend", false, "amend the previous commit")
	commitCmd.Flags().BoolVarP(&commitPush, "push", "p", false, "push after committing")
	commitCmd.Flags().BoolVarP(&commitYes, "yes", "y", false, "accept the generated message without asking")
	rootCmd.AddCommand(commitCmd)
}
