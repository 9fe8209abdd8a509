package journal

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func ts(sec int) time.Time {
	return time.Date(2024, 3, 10, 12, 0, sec, 0, time.UTC)
}

func TestEventWireShape(t *testing.T) {
	parent := NewEventID()
	ev := Event{
		ID:        NewEventID(),
		Timestamp: ts(0),
		ParentID:  &parent,
		Payload: CommitCreated{
			CommitID:     "abc123",
			Message:      "hello",
			FilesChanged: []string{"a.go"},
			Branch:       "main",
		},
		Metadata: Metadata{User: "dev", Command: "commit"},
	}

	data, err := json.Marshal(ev)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"id", "timestamp", "parent_id", "data", "metadata"} {
		require.Contains(t, raw, key)
	}

	var envelope struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw["data"], &envelope))
	require.Equal(t, "CommitCreated", envelope.Type)

	var tsStr string
	require.NoError(t, json.Unmarshal(raw["timestamp"], &tsStr))
	parsed, err := time.Parse(time.RFC3339, tsStr)
	require.NoError(t, err)
	require.True(t, parsed.Equal(ev.Timestamp))
}

func TestEventRoundTrip(t *testing.T) {
	parent := NewEventID()
	payloads := []Payload{
		CommitCreated{CommitID: "abc123", Message: "hello", FilesChanged: []string{"a.go", "b.go"}, Branch: "main"},
		BranchSwitched{From: "main", To: "feat/x"},
		Merge{Source: "feat/x", Target: "main", MergeCommit: "m1", FastForward: true},
		Reset{Branch: "main", FromCommit: "c1", ToCommit: "c0", Mode: ResetHard},
		Push{Branch: "feat/x", Remote: "origin", Commits: []string{"c1", "c2"}, Force: true},
		StashCreated{StashID: "stash@{0}", Branch: "main"},
		PullRequestCreated{Branch: "feat/x", PRNumber: 42, Title: "Add X", Draft: true},
		ConfigChanged{Key: "push.default_remote", OldValue: "origin", NewValue: "upstream"},
	}

	for _, payload := range payloads {
		ev := Event{
			ID:        NewEventID(),
			Timestamp: ts(1),
			ParentID:  &parent,
			Payload:   payload,
			Metadata:  Metadata{SessionID: "s1"},
		}
		data, err := json.Marshal(ev)
		require.NoError(t, err)

		var decoded Event
		require.NoError(t, json.Unmarshal(data, &decoded))
		require.Equal(t, ev, decoded, "round trip of %s", payload.Kind())
	}
}

func TestEventRoundTripNoParent(t *testing.T) {
	ev := Event{
		ID:        NewEventID(),
		Timestamp: ts(2),
		Payload:   BranchDeleted{Name: "old", LastCommit: "c9"},
	}
	data, err := json.Marshal(ev)
	require.NoError(t, err)

	var decoded Event
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Nil(t, decoded.ParentID)
	require.Equal(t, ev, decoded)
}

func TestDecodeUnknownTagFails(t *testing.T) {
	line := `{"id":"6f2a8b9c-0d1e-4f2a-8b9c-0d1e2f3a4b5c","timestamp":"2024-03-10T12:00:00Z","parent_id":null,"data":{"type":"TimeTravel","data":{}},"metadata":{}}`

	var ev Event
	err := json.Unmarshal([]byte(line), &ev)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown event type")
}

func TestPayloadKinds(t *testing.T) {
	cases := map[Kind]Payload{
		KindCommitCreated:      CommitCreated{},
		KindCommitAmended:      CommitAmended{},
		KindBranchCreated:      BranchCreated{},
		KindBranchDeleted:      BranchDeleted{},
		KindBranchSwitched:     BranchSwitched{},
		KindBranchRenamed:      BranchRenamed{},
		KindRebase:             Rebase{},
		KindCherryPick:         CherryPick{},
		KindMerge:              Merge{},
		KindReset:              Reset{},
		KindStashCreated:       StashCreated{},
		KindStashApplied:       StashApplied{},
		KindStashDropped:       StashDropped{},
		KindPush:               Push{},
		KindPull:               Pull{},
		KindPullRequestCreated: PullRequestCreated{},
		KindPullRequestUpdated: PullRequestUpdated{},
		KindWorkspaceChanged:   WorkspaceChanged{},
		KindConfigChanged:      ConfigChanged{},
	}
	for kind, payload := range cases {
		require.Equal(t, kind, payload.Kind())
	}
	require.Len(t, payloadTypes, len(cases), "every kind must be decodable")
}
