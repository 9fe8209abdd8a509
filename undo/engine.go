package undo

import (
	"errors"
	"fmt"

	"github.com/sagescm/sage/journal"
)

var (
	// ErrNoEventsToUndo means the journal holds no reversible event.
	ErrNoEventsToUndo = errors.New("no events to undo")

	// ErrUnsupportedEventType means the payload variant has no undo mapping.
	ErrUnsupportedEventType = errors.New("unsupported event type")
)

// CannotUndoError means the event exists but a reversibility rule blocks it.
type CannotUndoError struct {
	Reason string
}

func (e *CannotUndoError) Error() string {
	return "cannot undo: " + e.Reason
}

// Engine reads the journal and produces undo plans. It performs no I/O of
// its own beyond store reads and never executes a plan.
type Engine struct {
	store *journal.Store
}

// NewEngine returns an Engine over the given journal.
func NewEngine(store *journal.Store) *Engine {
	return &Engine{store: store}
}

// CanUndo reports whether an event is reversible. It is a pure function of
// the payload: always true for local pointer movements (commits, branch
// operations, resets, stash create/apply), conditional for pushes (only
// unforced) and merges (only fast-forward), and false for everything whose
// inverse would require rewriting shared or discarded state.
func CanUndo(ev journal.Event) bool {
	switch p := ev.Payload.(type) {
	case journal.CommitCreated, journal.CommitAmended, journal.BranchCreated,
		journal.BranchDeleted, journal.BranchSwitched, journal.BranchRenamed,
		journal.Reset, journal.StashCreated, journal.StashApplied:
		return true
	case journal.Push:
		return !p.Force
	case journal.Merge:
		return p.FastForward
	}
	return false
}

// PlanFor translates one event into its inverse plan. Conditionally
// reversible events that fail their condition return CannotUndoError;
// variants with no mapping rule return ErrUnsupportedEventType.
func PlanFor(ev journal.Event) (Plan, error) {
	switch p := ev.Payload.(type) {
	case journal.CommitCreated:
		return ResetBranch{Branch: p.Branch, ToCommit: p.CommitID + "~1", Mode: journal.ResetMixed}, nil
	case journal.CommitAmended:
		return ResetBranch{Branch: p.Branch, ToCommit: p.OldCommit, Mode: journal.ResetMixed}, nil
	case journal.BranchCreated:
		return DeleteBranch{Name: p.Name}, nil
	case journal.BranchDeleted:
		return CreateBranch{Name: p.Name, AtCommit: p.LastCommit}, nil
	case journal.BranchSwitched:
		return SwitchBranch{ToBranch: p.From}, nil
	case journal.BranchRenamed:
		return RenameBranch{From: p.NewName, To: p.OldName}, nil
	case journal.Reset:
		return ResetBranch{Branch: p.Branch, ToCommit: p.FromCommit, Mode: p.Mode}, nil
	case journal.StashCreated:
		return DropStash{StashID: p.StashID}, nil
	case journal.StashApplied:
		return ResetBranch{Branch: p.Branch, ToCommit: "HEAD~1", Mode: journal.ResetHard}, nil
	case journal.Push:
		if p.Force {
			return nil, &CannotUndoError{Reason: "forced pushes cannot be undone locally"}
		}
		if len(p.Commits) == 0 {
			return nil, &CannotUndoError{Reason: "push recorded no commits"}
		}
		return ResetBranch{Branch: p.Branch, ToCommit: fmt.Sprintf("HEAD~%d", len(p.Commits)), Mode: journal.ResetMixed}, nil
	case journal.Merge:
		if !p.FastForward {
			return nil, &CannotUndoError{Reason: "only fast-forward merges can be undone"}
		}
		return ResetBranch{Branch: p.Target, ToCommit: p.MergeCommit + "~1", Mode: journal.ResetHard}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedEventType, ev.Payload.Kind())
}

// UndoLast scans the journal newest to oldest, picks the first reversible
// event and returns its plan. Terminal events are skipped, never an error.
func (e *Engine) UndoLast() (Plan, error) {
	events, err := e.store.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("undo: %w", err)
	}
	for i := len(events) - 1; i >= 0; i-- {
		if CanUndo(events[i]) {
			return PlanFor(events[i])
		}
	}
	return nil, ErrNoEventsToUndo
}

// UndoEvent returns the plan for one event looked up by id.
func (e *Engine) UndoEvent(id journal.EventID) (Plan, error) {
	ev, err := e.store.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("undo: %w", err)
	}
	if ev == nil {
		return nil, fmt.Errorf("%w: %s", journal.ErrEventNotFound, id)
	}
	return PlanFor(*ev)
}

// HistoryEntry pairs an event with its reversibility for display.
type HistoryEntry struct {
	Event   journal.Event
	CanUndo bool
}

// UndoHistory returns the last limit events with reversibility flags, in
// append order.
func (e *Engine) UndoHistory(limit int) ([]HistoryEntry, error) {
	events, err := e.store.Latest(limit)
	if err != nil {
		return nil, fmt.Errorf("undo: %w", err)
	}
	entries := make([]HistoryEntry, len(events))
	for i, ev := range events {
		entries[i] = HistoryEntry{Event: ev, CanUndo: CanUndo(ev)}
	}
	return entries, nil
}

// Explain returns a short human phrase for what undoing the event will do.
// Explanations are advisory; they never drive plan construction.
func Explain(ev journal.Event) string {
	switch p := ev.Payload.(type) {
	case journal.CommitCreated:
		return "Undo commit: " + p.Message
	case journal.CommitAmended:
		return fmt.Sprintf("Restore '%s' to the commit before the amend", p.Branch)
	case journal.BranchCreated:
		return fmt.Sprintf("Delete branch '%s'", p.Name)
	case journal.BranchDeleted:
		return fmt.Sprintf("Re-create branch '%s' at %s", p.Name, p.LastCommit)
	case journal.BranchSwitched:
		return fmt.Sprintf("Switch back to branch '%s'", p.From)
	case journal.BranchRenamed:
		return fmt.Sprintf("Rename branch '%s' back to '%s'", p.NewName, p.OldName)
	case journal.Reset:
		return fmt.Sprintf("Reset '%s' back to %s", p.Branch, p.FromCommit)
	case journal.StashCreated:
		return fmt.Sprintf("Drop stash %s", p.StashID)
	case journal.StashApplied:
		return fmt.Sprintf("Discard the stash changes applied on '%s'", p.Branch)
	case journal.Push:
		if p.Force {
			return "Forced pushes cannot be undone"
		}
		return fmt.Sprintf("Remove %d pushed commits locally", len(p.Commits))
	case journal.Merge:
		if !p.FastForward {
			return "Only fast-forward merges can be undone"
		}
		return fmt.Sprintf("Reset '%s' to before the merge of '%s'", p.Target, p.Source)
	}
	return fmt.Sprintf("%s events cannot be undone", ev.Payload.Kind())
}
