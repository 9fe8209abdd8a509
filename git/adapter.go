package git

import (
	"fmt"

	"github.com/sagescm/sage/journal"
	"github.com/sagescm/sage/undo"
)

// Adapter executes undo plans against one working copy. It is the sole
// bridge between the declarative plans the undo engine emits and actual git
// commands.
type Adapter struct {
	repoPath string
}

// NewAdapter returns an Adapter for the working copy at repoPath.
func NewAdapter(repoPath string) *Adapter {
	return &Adapter{repoPath: repoPath}
}

// Apply executes one plan.
func (a *Adapter) Apply(plan undo.Plan) error {
	switch p := plan.(type) {
	case undo.ResetBranch:
		return a.ResetBranch(p.Branch, p.ToCommit, p.Mode)
	case undo.CreateBranch:
		return a.CreateBranch(p.Name, p.AtCommit)
	case undo.DeleteBranch:
		return a.DeleteBranch(p.Name)
	case undo.SwitchBranch:
		return a.SwitchBranch(p.ToBranch)
	case undo.RenameBranch:
		return a.RenameBranch(p.From, p.To)
	case undo.DropStash:
		return a.DropStash(p.StashID)
	case undo.CherryPick:
		return a.CherryPick(p.Commit, p.OntoBranch)
	case undo.RevertCommit:
		return a.Revert(p.Commit)
	}
	return fmt.Errorf("no executor for plan %T", plan)
}

// ResetBranch moves a branch tip to target, switching the working copy to
// the branch first when it is not the one checked out. Relative targets like
// "HEAD~2" are resolved by git itself.
func (a *Adapter) ResetBranch(branch, target string, mode journal.ResetMode) error {
	current, err := CurrentBranch(a.repoPath)
	if err != nil {
		return err
	}
	if current != branch {
		if err := Switch(a.repoPath, branch); err != nil {
			return err
		}
	}
	_, err = run(a.repoPath, "reset", resetFlag(mode), target)
	return err
}

func resetFlag(mode journal.ResetMode) string {
	switch mode {
	case journal.ResetSoft:
		return "--soft"
	case journal.ResetHard:
		return "--hard"
	default:
		return "--mixed"
	}
}

// CreateBranch re-creates a branch at the given commit.
func (a *Adapter) CreateBranch(name, at string) error {
	return CreateBranch(a.repoPath, name, at)
}

// DeleteBranch removes a branch pointer. The working copy moves off the
// branch first if it is checked out, since git refuses to delete the current
// branch.
func (a *Adapter) DeleteBranch(name string) error {
	current, err := CurrentBranch(a.repoPath)
	if err == nil && current == name {
		if _, err := run(a.repoPath, "switch", "--detach", "HEAD"); err != nil {
			return err
		}
	}
	_, err = run(a.repoPath, "branch", "-D", name)
	return err
}

// SwitchBranch checks out the given branch.
func (a *Adapter) SwitchBranch(branch string) error {
	return Switch(a.repoPath, branch)
}

// RenameBranch renames a branch pointer.
func (a *Adapter) RenameBranch(from, to string) error {
	_, err := run(a.repoPath, "branch", "-m", from, to)
	return err
}

// DropStash discards one stash entry.
func (a *Adapter) DropStash(id string) error {
	_, err := run(a.repoPath, "stash", "drop", id)
	return err
}

// CherryPick re-applies a commit onto a branch.
func (a *Adapter) CherryPick(commit, onto string) error {
	if err := Switch(a.repoPath, onto); err != nil {
		return err
	}
	_, err := run(a.repoPath, "cherry-pick", commit)
	return err
}

// Revert applies the inverse of a commit without opening an editor.
func (a *Adapter) Revert(commit string) error {
	_, err := run(a.repoPath, "revert", "--no-edit", commit)
	return err
}
