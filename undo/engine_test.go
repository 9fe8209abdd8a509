package undo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagescm/sage/journal"
)

func evt(p journal.Payload) journal.Event {
	return journal.Event{
		ID:        journal.NewEventID(),
		Timestamp: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
		Payload:   p,
	}
}

func newTestStore(t *testing.T) *journal.Store {
	t.Helper()
	store, err := journal.Open(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestCanUndoTable(t *testing.T) {
	cases := []struct {
		payload journal.Payload
		want    bool
	}{
		{journal.CommitCreated{CommitID: "c1", Branch: "main"}, true},
		{journal.CommitAmended{OldCommit: "c1", NewCommit: "c2", Branch: "main"}, true},
		{journal.BranchCreated{Name: "x"}, true},
		{journal.BranchDeleted{Name: "x", LastCommit: "c1"}, true},
		{journal.BranchSwitched{From: "a", To: "b"}, true},
		{journal.BranchRenamed{OldName: "a", NewName: "b"}, true},
		{journal.Reset{Branch: "main", FromCommit: "c2", ToCommit: "c1", Mode: journal.ResetSoft}, true},
		{journal.StashCreated{StashID: "stash@{0}", Branch: "main"}, true},
		{journal.StashApplied{StashID: "stash@{0}", Branch: "main"}, true},
		{journal.Push{Branch: "main", Remote: "origin", Commits: []string{"c1"}, Force: false}, true},
		{journal.Push{Branch: "main", Remote: "origin", Commits: []string{"c1"}, Force: true}, false},
		{journal.Merge{Source: "a", Target: "b", MergeCommit: "m1", FastForward: true}, true},
		{journal.Merge{Source: "a", Target: "b", MergeCommit: "m1", FastForward: false}, false},
		{journal.Rebase{Branch: "main", Onto: "dev"}, false},
		{journal.CherryPick{Commit: "c1", FromBranch: "a", ToBranch: "b"}, false},
		{journal.StashDropped{StashID: "stash@{0}"}, false},
		{journal.Pull{Branch: "main", Remote: "origin"}, false},
		{journal.PullRequestCreated{Branch: "main", PRNumber: 1}, false},
		{journal.PullRequestUpdated{Branch: "main", PRNumber: 1}, false},
		{journal.WorkspaceChanged{Added: []string{"a"}}, false},
		{journal.ConfigChanged{Key: "k"}, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanUndo(evt(tc.payload)), "kind %s", tc.payload.Kind())
	}
}

func TestPlanMappings(t *testing.T) {
	cases := []struct {
		payload journal.Payload
		want    Plan
	}{
		{
			journal.CommitCreated{CommitID: "abc123", Message: "hello", Branch: "main"},
			ResetBranch{Branch: "main", ToCommit: "abc123~1", Mode: journal.ResetMixed},
		},
		{
			journal.CommitAmended{OldCommit: "old1", NewCommit: "new1", Branch: "main"},
			ResetBranch{Branch: "main", ToCommit: "old1", Mode: journal.ResetMixed},
		},
		{
			journal.BranchCreated{Name: "feat/x", FromBranch: "main", CommitID: "c1"},
			DeleteBranch{Name: "feat/x"},
		},
		{
			journal.BranchDeleted{Name: "feat/x", LastCommit: "c9"},
			CreateBranch{Name: "feat/x", AtCommit: "c9"},
		},
		{
			journal.BranchSwitched{From: "main", To: "feat/x"},
			SwitchBranch{ToBranch: "main"},
		},
		{
			journal.BranchRenamed{OldName: "old", NewName: "new"},
			RenameBranch{From: "new", To: "old"},
		},
		{
			journal.Reset{Branch: "main", FromCommit: "c5", ToCommit: "c2", Mode: journal.ResetSoft},
			ResetBranch{Branch: "main", ToCommit: "c5", Mode: journal.ResetSoft},
		},
		{
			journal.Reset{Branch: "main", FromCommit: "c5", ToCommit: "c2", Mode: journal.ResetHard},
			ResetBranch{Branch: "main", ToCommit: "c5", Mode: journal.ResetHard},
		},
		{
			journal.StashCreated{StashID: "stash@{0}", Branch: "main"},
			DropStash{StashID: "stash@{0}"},
		},
		{
			journal.StashApplied{StashID: "stash@{0}", Branch: "main"},
			ResetBranch{Branch: "main", ToCommit: "HEAD~1", Mode: journal.ResetHard},
		},
		{
			journal.Push{Branch: "feat", Remote: "origin", Commits: []string{"c1", "c2", "c3"}},
			ResetBranch{Branch: "feat", ToCommit: "HEAD~3", Mode: journal.ResetMixed},
		},
		{
			journal.Merge{Source: "feat", Target: "main", MergeCommit: "m1", FastForward: true},
			ResetBranch{Branch: "main", ToCommit: "m1~1", Mode: journal.ResetHard},
		},
	}
	for _, tc := range cases {
		plan, err := PlanFor(evt(tc.payload))
		require.NoError(t, err, "kind %s", tc.payload.Kind())
		assert.Equal(t, tc.want, plan, "kind %s", tc.payload.Kind())
	}
}

func TestPlanForForcedPush(t *testing.T) {
	_, err := PlanFor(evt(journal.Push{Branch: "feat", Remote: "origin", Commits: []string{"c1"}, Force: true}))
	var cannot *CannotUndoError
	require.ErrorAs(t, err, &cannot)
}

func TestPlanForEmptyPush(t *testing.T) {
	_, err := PlanFor(evt(journal.Push{Branch: "feat", Remote: "origin"}))
	var cannot *CannotUndoError
	require.ErrorAs(t, err, &cannot)
}

func TestPlanForTrueMerge(t *testing.T) {
	_, err := PlanFor(evt(journal.Merge{Source: "feat", Target: "main", MergeCommit: "m1", FastForward: false}))
	var cannot *CannotUndoError
	require.ErrorAs(t, err, &cannot)
}

func TestPlanForUnsupportedKinds(t *testing.T) {
	terminal := []journal.Payload{
		journal.Rebase{Branch: "main", Onto: "dev"},
		journal.CherryPick{Commit: "c1", FromBranch: "a", ToBranch: "b"},
		journal.StashDropped{StashID: "stash@{0}"},
		journal.Pull{Branch: "main", Remote: "origin"},
		journal.PullRequestCreated{PRNumber: 7, Branch: "main"},
		journal.PullRequestUpdated{PRNumber: 7, Branch: "main"},
		journal.WorkspaceChanged{},
		journal.ConfigChanged{Key: "k"},
	}
	for _, p := range terminal {
		_, err := PlanFor(evt(p))
		assert.ErrorIs(t, err, ErrUnsupportedEventType, "kind %s", p.Kind())
	}
}

func TestUndoLastPicksNewestReversible(t *testing.T) {
	store := newTestStore(t)
	engine := NewEngine(store)

	// Only the first event is reversible; the scan must walk past the
	// newer terminal ones.
	reversible := evt(journal.CommitCreated{CommitID: "abc123", Message: "hello", Branch: "main"})
	require.NoError(t, store.Append(reversible))
	require.NoError(t, store.Append(evt(journal.Rebase{Branch: "main", Onto: "dev"})))
	require.NoError(t, store.Append(evt(journal.Pull{Branch: "main", Remote: "origin"})))

	plan, err := engine.UndoLast()
	require.NoError(t, err)
	require.Equal(t, ResetBranch{Branch: "main", ToCommit: "abc123~1", Mode: journal.ResetMixed}, plan)
}

func TestUndoLastNoReversibleEvents(t *testing.T) {
	store := newTestStore(t)
	engine := NewEngine(store)

	require.NoError(t, store.Append(evt(journal.Rebase{Branch: "main", Onto: "dev"})))
	require.NoError(t, store.Append(evt(journal.ConfigChanged{Key: "k"})))

	_, err := engine.UndoLast()
	require.ErrorIs(t, err, ErrNoEventsToUndo)
}

func TestUndoLastEmptyJournal(t *testing.T) {
	engine := NewEngine(newTestStore(t))
	_, err := engine.UndoLast()
	require.ErrorIs(t, err, ErrNoEventsToUndo)
}

func TestUndoEvent(t *testing.T) {
	store := newTestStore(t)
	engine := NewEngine(store)

	ev := evt(journal.BranchCreated{Name: "feat/x", FromBranch: "main", CommitID: "c1"})
	require.NoError(t, store.Append(ev))

	plan, err := engine.UndoEvent(ev.ID)
	require.NoError(t, err)
	require.Equal(t, DeleteBranch{Name: "feat/x"}, plan)
}

func TestUndoEventNotFound(t *testing.T) {
	engine := NewEngine(newTestStore(t))
	_, err := engine.UndoEvent(journal.NewEventID())
	require.ErrorIs(t, err, journal.ErrEventNotFound)
}

func TestUndoEventForcedPushCannotUndo(t *testing.T) {
	store := newTestStore(t)
	engine := NewEngine(store)

	ev := evt(journal.Push{Branch: "feat", Remote: "origin", Commits: []string{"c1", "c2"}, Force: true})
	require.NoError(t, store.Append(ev))
	require.False(t, CanUndo(ev))

	_, err := engine.UndoEvent(ev.ID)
	var cannot *CannotUndoError
	require.ErrorAs(t, err, &cannot)
}

func TestUndoEventRebaseUnsupported(t *testing.T) {
	store := newTestStore(t)
	engine := NewEngine(store)

	ev := evt(journal.Rebase{Branch: "main", Onto: "dev", CommitsBefore: []string{"c1"}, CommitsAfter: []string{"c2"}})
	require.NoError(t, store.Append(ev))

	_, err := engine.UndoEvent(ev.ID)
	require.ErrorIs(t, err, ErrUnsupportedEventType)
}

func TestUndoHistory(t *testing.T) {
	store := newTestStore(t)
	engine := NewEngine(store)

	require.NoError(t, store.Append(evt(journal.CommitCreated{CommitID: "c1", Branch: "main"})))
	require.NoError(t, store.Append(evt(journal.Rebase{Branch: "main", Onto: "dev"})))
	require.NoError(t, store.Append(evt(journal.Push{Branch: "main", Remote: "origin", Commits: []string{"c1"}})))

	entries, err := engine.UndoHistory(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, journal.KindRebase, entries[0].Event.Payload.Kind())
	require.False(t, entries[0].CanUndo)
	require.Equal(t, journal.KindPush, entries[1].Event.Payload.Kind())
	require.True(t, entries[1].CanUndo)
}

func TestExplain(t *testing.T) {
	cases := []struct {
		payload journal.Payload
		want    string
	}{
		{journal.CommitCreated{CommitID: "abc123", Message: "hello", Branch: "main"}, "Undo commit: hello"},
		{journal.Push{Branch: "feat", Remote: "origin", Commits: []string{"c1", "c2", "c3"}}, "Remove 3 pushed commits locally"},
		{journal.BranchCreated{Name: "feat/x"}, "Delete branch 'feat/x'"},
		{journal.BranchSwitched{From: "main", To: "feat/x"}, "Switch back to branch 'main'"},
		{journal.StashCreated{StashID: "stash@{0}", Branch: "main"}, "Drop stash stash@{0}"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Explain(evt(tc.payload)), "kind %s", tc.payload.Kind())
	}
}

func TestSeedUndoCommit(t *testing.T) {
	store := newTestStore(t)
	engine := NewEngine(store)

	ev := evt(journal.CommitCreated{CommitID: "abc123", Message: "hello", FilesChanged: []string{}, Branch: "main"})
	require.NoError(t, store.Append(ev))

	plan, err := engine.UndoLast()
	require.NoError(t, err)
	require.Equal(t, ResetBranch{Branch: "main", ToCommit: "abc123~1", Mode: journal.ResetMixed}, plan)
	require.Equal(t, "Undo commit: hello", Explain(ev))
}

func TestSeedUndoFastForwardMerge(t *testing.T) {
	store := newTestStore(t)
	engine := NewEngine(store)

	require.NoError(t, store.Append(evt(journal.Merge{Source: "feat", Target: "main", MergeCommit: "m1", FastForward: true})))

	plan, err := engine.UndoLast()
	require.NoError(t, err)
	require.Equal(t, ResetBranch{Branch: "main", ToCommit: "m1~1", Mode: journal.ResetHard}, plan)
}
