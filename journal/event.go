// Package journal maintains sage's per-repository event journal: a durable,
// append-only log of high-level user intents ("committed", "created a branch",
// "pushed") stored inside the git metadata directory. The undo engine reads
// this journal to derive inverse operations.
package journal

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventID uniquely identifies one journal event. IDs are assigned at event
// construction and never reused.
type EventID = uuid.UUID

// NewEventID returns a fresh random event id.
func NewEventID() EventID {
	return uuid.New()
}

// Metadata carries optional context about who and what produced an event.
// It is informational only and never drives undo decisions.
type Metadata struct {
	User      string `json:"user,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Command   string `json:"command,omitempty"`
}

// Event is one immutable journal record. ParentID links to the previously
// appended event as a causality hint; readers must derive ordering from file
// position, not from the parent chain (compaction can orphan the oldest
// survivor's parent).
type Event struct {
	ID        EventID
	Timestamp time.Time
	ParentID  *EventID
	Payload   Payload
	Metadata  Metadata
}

// Kind discriminates payload variants on the wire.
type Kind string

const (
	KindCommitCreated      Kind = "CommitCreated"
	KindCommitAmended      Kind = "CommitAmended"
	KindBranchCreated      Kind = "BranchCreated"
	KindBranchDeleted      Kind = "BranchDeleted"
	KindBranchSwitched     Kind = "BranchSwitched"
	KindBranchRenamed      Kind = "BranchRenamed"
	KindRebase             Kind = "Rebase"
	KindCherryPick         Kind = "CherryPick"
	KindMerge              Kind = "Merge"
	KindReset              Kind = "Reset"
	KindStashCreated       Kind = "StashCreated"
	KindStashApplied       Kind = "StashApplied"
	KindStashDropped       Kind = "StashDropped"
	KindPush               Kind = "Push"
	KindPull               Kind = "Pull"
	KindPullRequestCreated Kind = "PullRequestCreated"
	KindPullRequestUpdated Kind = "PullRequestUpdated"
	KindWorkspaceChanged   Kind = "WorkspaceChanged"
	KindConfigChanged      Kind = "ConfigChanged"
)

// Payload is the tagged body of an event. Each variant is a plain struct;
// reversibility rules and undo mappings live in the undo package, not here.
type Payload interface {
	Kind() Kind
}

// ResetMode mirrors git's reset modes.
type ResetMode string

const (
	ResetSoft  ResetMode = "Soft"
	ResetMixed ResetMode = "Mixed"
	ResetHard  ResetMode = "Hard"
)

// CommitCreated records a new commit reaching a branch tip.
type CommitCreated struct {
	CommitID     string   `json:"commit_id"`
	Message      string   `json:"message"`
	FilesChanged []string `json:"files_changed"`
	Branch       string   `json:"branch"`
}

// CommitAmended records HEAD being rewritten in place.
type CommitAmended struct {
	OldCommit string `json:"old_commit"`
	NewCommit string `json:"new_commit"`
	Branch    string `json:"branch"`
}

// BranchCreated records a new branch pointer.
type BranchCreated struct {
	Name       string `json:"name"`
	FromBranch string `json:"from_branch"`
	CommitID   string `json:"commit_id"`
}

// BranchDeleted records a branch pointer being removed.
type BranchDeleted struct {
	Name       string `json:"name"`
	LastCommit string `json:"last_commit"`
}

// BranchSwitched records the working copy moving between branch tips.
type BranchSwitched struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// BranchRenamed records a branch pointer rename.
type BranchRenamed struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

// Rebase records history being rewritten.
type Rebase struct {
	Branch        string   `json:"branch"`
	Onto          string   `json:"onto"`
	CommitsBefore []string `json:"commits_before"`
	CommitsAfter  []string `json:"commits_after"`
}

// CherryPick records a commit re-applied onto another branch.
type CherryPick struct {
	Commit     string `json:"commit"`
	FromBranch string `json:"from_branch"`
	ToBranch   string `json:"to_branch"`
	NewCommit  string `json:"new_commit"`
}

// Merge records two histories being joined.
type Merge struct {
	Source      string `json:"source"`
	Target      string `json:"target"`
	MergeCommit string `json:"merge_commit"`
	FastForward bool   `json:"fast_forward"`
}

// Reset records a branch tip being moved.
type Reset struct {
	Branch     string    `json:"branch"`
	FromCommit string    `json:"from_commit"`
	ToCommit   string    `json:"to_commit"`
	Mode       ResetMode `json:"mode"`
}

// StashCreated records a working-copy snapshot being saved.
type StashCreated struct {
	StashID string `json:"stash_id"`
	Message string `json:"message,omitempty"`
	Branch  string `json:"branch"`
}

// StashApplied records a stash being restored onto a branch.
type StashApplied struct {
	StashID string `json:"stash_id"`
	Branch  string `json:"branch"`
}

// StashDropped records a stash being discarded.
type StashDropped struct {
	StashID string `json:"stash_id"`
}

// Push records commits being uploaded to a remote.
type Push struct {
	Branch  string   `json:"branch"`
	Remote  string   `json:"remote"`
	Commits []string `json:"commits"`
	Force   bool     `json:"force"`
}

// Pull records a remote being integrated.
type Pull struct {
	Branch        string   `json:"branch"`
	Remote        string   `json:"remote"`
	CommitsAdded  []string `json:"commits_added"`
	MergeRequired bool     `json:"merge_required"`
}

// PullRequestCreated records a review request being opened.
type PullRequestCreated struct {
	Branch   string `json:"branch"`
	PRNumber int    `json:"pr_number"`
	Title    string `json:"title"`
	Draft    bool   `json:"draft"`
}

// PullRequestUpdated records a review request being modified.
type PullRequestUpdated struct {
	PRNumber int    `json:"pr_number"`
	Branch   string `json:"branch"`
}

// WorkspaceChanged records file mutations outside VCS control.
type WorkspaceChanged struct {
	Added    []string `json:"added"`
	Modified []string `json:"modified"`
	Deleted  []string `json:"deleted"`
}

// ConfigChanged records a configuration mutation.
type ConfigChanged struct {
	Key      string `json:"key"`
	OldValue string `json:"old_value,omitempty"`
	NewValue string `json:"new_value,omitempty"`
}

func (CommitCreated) Kind() Kind      { return KindCommitCreated }
func (CommitAmended) Kind() Kind      { return KindCommitAmended }
func (BranchCreated) Kind() Kind      { return KindBranchCreated }
func (BranchDeleted) Kind() Kind      { return KindBranchDeleted }
func (BranchSwitched) Kind() Kind     { return KindBranchSwitched }
func (BranchRenamed) Kind() Kind      { return KindBranchRenamed }
func (Rebase) Kind() Kind             { return KindRebase }
func (CherryPick) Kind() Kind         { return KindCherryPick }
func (Merge) Kind() Kind              { return KindMerge }
func (Reset) Kind() Kind              { return KindReset }
func (StashCreated) Kind() Kind       { return KindStashCreated }
func (StashApplied) Kind() Kind       { return KindStashApplied }
func (StashDropped) Kind() Kind       { return KindStashDropped }
func (Push) Kind() Kind               { return KindPush }
func (Pull) Kind() Kind               { return KindPull }
func (PullRequestCreated) Kind() Kind { return KindPullRequestCreated }
func (PullRequestUpdated) Kind() Kind { return KindPullRequestUpdated }
func (WorkspaceChanged) Kind() Kind   { return KindWorkspaceChanged }
func (ConfigChanged) Kind() Kind      { return KindConfigChanged }

// payloadTypes maps wire tags to prototype constructors for decoding.
// An unknown tag is a decode error, never skipped.
var payloadTypes = map[Kind]func() Payload{
	KindCommitCreated:      func() Payload { return &CommitCreated{} },
	KindCommitAmended:      func() Payload { return &CommitAmended{} },
	KindBranchCreated:      func() Payload { return &BranchCreated{} },
	KindBranchDeleted:      func() Payload { return &BranchDeleted{} },
	KindBranchSwitched:     func() Payload { return &BranchSwitched{} },
	KindBranchRenamed:      func() Payload { return &BranchRenamed{} },
	KindRebase:             func() Payload { return &Rebase{} },
	KindCherryPick:         func() Payload { return &CherryPick{} },
	KindMerge:              func() Payload { return &Merge{} },
	KindReset:              func() Payload { return &Reset{} },
	KindStashCreated:       func() Payload { return &StashCreated{} },
	KindStashApplied:       func() Payload { return &StashApplied{} },
	KindStashDropped:       func() Payload { return &StashDropped{} },
	KindPush:               func() Payload { return &Push{} },
	KindPull:               func() Payload { return &Pull{} },
	KindPullRequestCreated: func() Payload { return &PullRequestCreated{} },
	KindPullRequestUpdated: func() Payload { return &PullRequestUpdated{} },
	KindWorkspaceChanged:   func() Payload { return &WorkspaceChanged{} },
	KindConfigChanged:      func() Payload { return &ConfigChanged{} },
}

// eventJSON is the wire shape: the payload travels as a {type, data} envelope.
type eventJSON struct {
	ID        EventID         `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	ParentID  *EventID        `json:"parent_id"`
	Data      payloadEnvelope `json:"data"`
	Metadata  Metadata        `json:"metadata"`
}

type payloadEnvelope struct {
	Type Kind            `json:"type"`
	Data json.RawMessage `json:"data"`
}

// MarshalJSON encodes the event with its payload wrapped in a tagged envelope.
func (e Event) MarshalJSON() ([]byte, error) {
	if e.Payload == nil {
		return nil, fmt.Errorf("encode event %s: nil payload", e.ID)
	}
	body, err := json.Marshal(e.Payload)
	if err != nil {
		return nil, fmt.Errorf("encode event %s: %w", e.ID, err)
	}
	return json.Marshal(eventJSON{
		ID:        e.ID,
		Timestamp: e.Timestamp.UTC(),
		ParentID:  e.ParentID,
		Data:      payloadEnvelope{Type: e.Payload.Kind(), Data: body},
		Metadata:  e.Metadata,
	})
}

// UnmarshalJSON decodes an event, rejecting unknown payload tags.
func (e *Event) UnmarshalJSON(data []byte) error {
	var raw eventJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	mk, ok := payloadTypes[raw.Data.Type]
	if !ok {
		return fmt.Errorf("unknown event type %q", raw.Data.Type)
	}
	payload := mk()
	if err := json.Unmarshal(raw.Data.Data, payload); err != nil {
		return fmt.Errorf("decode %s payload: %w", raw.Data.Type, err)
	}
	e.ID = raw.ID
	e.Timestamp = raw.Timestamp.UTC()
	e.ParentID = raw.ParentID
	e.Metadata = raw.Metadata
	e.Payload = derefPayload(payload)
	return nil
}

// derefPayload unwraps the pointer created for decoding so payloads compare
// by value regardless of which side of a round trip they came from.
func derefPayload(p Payload) Payload {
	switch v := p.(type) {
	case *CommitCreated:
		return *v
	case *CommitAmended:
		return *v
	case *BranchCreated:
		return *v
	case *BranchDeleted:
		return *v
	case *BranchSwitched:
		return *v
	case *BranchRenamed:
		return *v
	case *Rebase:
		return *v
	case *CherryPick:
		return *v
	case *Merge:
		return *v
	case *Reset:
		return *v
	case *StashCreated:
		return *v
	case *StashApplied:
		return *v
	case *StashDropped:
		return *v
	case *Push:
		return *v
	case *Pull:
		return *v
	case *PullRequestCreated:
		return *v
	case *PullRequestUpdated:
		return *v
	case *WorkspaceChanged:
		return *v
	case *ConfigChanged:
		return *v
	}
	return p
}
