// Package cli implements sage's command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sagescm/sage/config"
	"github.com/sagescm/sage/git"
	"github.com/sagescm/sage/journal"
)

var rootCmd = &cobra.Command{
	Use:   "sage",
	Short: "A git wrapper that remembers what you did and can undo it",
	Long: `sage wraps everyday git workflows (commit, branch, push) and records
each one in a per-repository journal. Any recent action can then be
undone by name or by picking it from the timeline.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// appContext carries everything a command needs: the working copy path, the
// resolved config and an open journal.
type appContext struct {
	repoPath string
	cfg      *config.Config
	store    *journal.Store
}

func newAppContext() (*appContext, error) {
	repoPath, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	metaDir, err := git.MetaDir(repoPath)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(repoPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	store, err := journal.OpenWithCeiling(metaDir, cfg.Journal.Ceiling)
	if err != nil {
		return nil, err
	}
	return &appContext{repoPath: repoPath, cfg: cfg, store: store}, nil
}

// recorder returns a Recorder stamped with the invoking command and user.
func (a *appContext) recorder(command string) *journal.Recorder {
	rec := journal.NewRecorder(a.store).WithCommand(command)
	if user := os.Getenv("USER"); user != "" {
		rec = rec.WithUser(user)
	}
	return rec
}

// shortID renders the first eight characters of a commit or event id.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
