package journal

import "time"

// Recorder builds events and appends them, maintaining the parent chain and
// the non-decreasing timestamp invariant. Metadata set on a Recorder is
// stamped onto every event it records.
type Recorder struct {
	store *Store
	meta  Metadata
}

// NewRecorder returns a Recorder appending to the given store.
func NewRecorder(store *Store) *Recorder {
	return &Recorder{store: store}
}

// WithUser sets the recorded user for subsequent events.
func (r *Recorder) WithUser(user string) *Recorder {
	r.meta.User = user
	return r
}

// WithSession sets the recorded session id for subsequent events.
func (r *Recorder) WithSession(session string) *Recorder {
	r.meta.SessionID = session
	return r
}

// WithCommand sets the recorded command name for subsequent events.
func (r *Recorder) WithCommand(command string) *Recorder {
	r.meta.Command = command
	return r
}

// Record appends a new event carrying the payload, linked to the journal's
// latest event, and returns its id.
func (r *Recorder) Record(payload Payload) (EventID, error) {
	snap, err := r.store.Snapshot()
	if err != nil {
		return EventID{}, err
	}
	return r.append(payload, snap.LatestID)
}

// RecordWithParent is Record with a caller-asserted parent link.
func (r *Recorder) RecordWithParent(payload Payload, parent EventID) (EventID, error) {
	return r.append(payload, &parent)
}

func (r *Recorder) append(payload Payload, parent *EventID) (EventID, error) {
	ev := Event{
		ID:        NewEventID(),
		Timestamp: r.stamp(parent),
		ParentID:  parent,
		Payload:   payload,
		Metadata:  r.meta,
	}
	if err := r.store.Append(ev); err != nil {
		return EventID{}, err
	}
	return ev.ID, nil
}

// stamp returns the current UTC time, clamped so it never precedes the
// parent event's timestamp even if the wall clock regressed.
func (r *Recorder) stamp(parent *EventID) time.Time {
	now := time.Now().UTC()
	if parent == nil {
		return now
	}
	prev, err := r.store.FindByID(*parent)
	if err != nil || prev == nil {
		// A parent that compaction already dropped has a timestamp the
		// clock passed long ago; the current time stands.
		return now
	}
	if now.Before(prev.Timestamp) {
		return prev.Timestamp
	}
	return now
}
