// Package undo derives inverse operations from the event journal. It
// classifies events as reversible or terminal, translates reversible events
// into declarative plans, and explains them. Plans are pure values; executing
// one against the working copy is the git adapter's job.
package undo

import (
	"fmt"

	"github.com/sagescm/sage/journal"
)

// Plan describes one abstract VCS mutation that reverses a journal event.
// The target commit of a ResetBranch may be a relative revision such as
// "abc123~1" or "HEAD~3".
type Plan interface {
	fmt.Stringer

	plan()
}

// ResetBranch moves a branch tip.
type ResetBranch struct {
	Branch   string
	ToCommit string
	Mode     journal.ResetMode
}

// CreateBranch re-creates a deleted branch.
type CreateBranch struct {
	Name     string
	AtCommit string
}

// DeleteBranch removes a created branch.
type DeleteBranch struct {
	Name string
}

// SwitchBranch moves the working copy to another branch.
type SwitchBranch struct {
	ToBranch string
}

// RenameBranch reverses a branch rename.
type RenameBranch struct {
	From string
	To   string
}

// DropStash discards a stash entry.
type DropStash struct {
	StashID string
}

// CherryPick re-applies a commit onto a branch.
type CherryPick struct {
	Commit     string
	OntoBranch string
}

// RevertCommit applies the inverse of a commit.
type RevertCommit struct {
	Commit string
}

func (ResetBranch) plan()  {}
func (CreateBranch) plan() {}
func (DeleteBranch) plan() {}
func (SwitchBranch) plan() {}
func (RenameBranch) plan() {}
func (DropStash) plan()    {}
func (CherryPick) plan()   {}
func (RevertCommit) plan() {}

func (p ResetBranch) String() string {
	return fmt.Sprintf("reset %s to %s (%s)", p.Branch, p.ToCommit, p.Mode)
}

func (p CreateBranch) String() string {
	return fmt.Sprintf("create branch %s at %s", p.Name, p.AtCommit)
}

func (p DeleteBranch) String() string {
	return fmt.Sprintf("delete branch %s", p.Name)
}

func (p SwitchBranch) String() string {
	return fmt.Sprintf("switch to %s", p.ToBranch)
}

func (p RenameBranch) String() string {
	return fmt.Sprintf("rename branch %s to %s", p.From, p.To)
}

func (p DropStash) String() string {
	return fmt.Sprintf("drop stash %s", p.StashID)
}

func (p CherryPick) String() string {
	return fmt.Sprintf("cherry-pick %s onto %s", p.Commit, p.OntoBranch)
}

func (p RevertCommit) String() string {
	return fmt.Sprintf("revert %s", p.Commit)
}
