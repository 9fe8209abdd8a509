package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultCeiling is the event count above which compaction runs.
	DefaultCeiling = 10000

	journalDir  = "sage"
	journalFile = "events.jsonl"
)

// Store is the durable append-only journal for one working copy. It keeps no
// in-memory state beyond its path and ceiling; every read goes back to disk.
type Store struct {
	path    string
	ceiling int
}

// Open sites the journal under the git metadata directory of a working copy.
// The metadata directory must already exist; that is the only check the
// journal makes against the host VCS.
func Open(metaDir string) (*Store, error) {
	return OpenWithCeiling(metaDir, DefaultCeiling)
}

// OpenWithCeiling is Open with a non-default compaction ceiling.
func OpenWithCeiling(metaDir string, ceiling int) (*Store, error) {
	info, err := os.Stat(metaDir)
	if err != nil {
		return nil, fmt.Errorf("journal: metadata directory %s: %w", metaDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("journal: metadata path %s is not a directory", metaDir)
	}
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}
	return &Store{
		path:    filepath.Join(metaDir, journalDir, journalFile),
		ceiling: ceiling,
	}, nil
}

// Path returns the journal file location.
func (s *Store) Path() string {
	return s.path
}

// Append durably writes one event. The encoded record plus its line feed go
// out in a single write on an O_APPEND handle and are synced before return,
// so a crash of this process never leaves a partial record. Appending may
// trigger compaction when the event count exceeds the ceiling.
func (s *Store) Append(ev Event) error {
	line, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("journal: create directory: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("journal: open: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		f.Close()
		return fmt.Errorf("journal: append: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("journal: sync: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("journal: close: %w", err)
	}
	return s.maybeCompact()
}

// ReadAll returns every event in append order. A missing file is an empty
// journal. Any blank or undecodable interior line fails the whole read with
// ErrInvalidEventLog.
func (s *Store) ReadAll() ([]Event, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("journal: read: %w", err)
	}
	lines := strings.Split(string(data), "\n")
	// A trailing line feed produces one empty final element; that is the
	// normal well-formed shape, not corruption.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	events := make([]Event, 0, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			return nil, fmt.Errorf("%w: blank line %d", ErrInvalidEventLog, i+1)
		}
		var ev Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidEventLog, i+1, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

// FindByID returns the event with the given id, or nil if the journal does
// not contain it.
func (s *Store) FindByID(id EventID) (*Event, error) {
	events, err := s.ReadAll()
	if err != nil {
		return nil, err
	}
	for i := range events {
		if events[i].ID == id {
			return &events[i], nil
		}
	}
	return nil, nil
}

// FindByKind returns all events with the given payload tag, in append order.
func (s *Store) FindByKind(kind Kind) ([]Event, error) {
	events, err := s.ReadAll()
	if err != nil {
		return nil, err
	}
	var out []Event
	for _, ev := range events {
		if ev.Payload.Kind() == kind {
			out = append(out, ev)
		}
	}
	return out, nil
}

// Latest returns the last n events in append order.
func (s *Store) Latest(n int) ([]Event, error) {
	events, err := s.ReadAll()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		n = 0
	}
	if n > len(events) {
		n = len(events)
	}
	return events[len(events)-n:], nil
}

// Since returns events strictly after the referent.
func (s *Store) Since(id EventID) ([]Event, error) {
	events, err := s.ReadAll()
	if err != nil {
		return nil, err
	}
	for i, ev := range events {
		if ev.ID == id {
			return events[i+1:], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrEventNotFound, id)
}

// Until returns events up to and including the referent.
func (s *Store) Until(id EventID) ([]Event, error) {
	events, err := s.ReadAll()
	if err != nil {
		return nil, err
	}
	for i, ev := range events {
		if ev.ID == id {
			return events[:i+1], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrEventNotFound, id)
}

// HistoryForBranch returns events whose payload names the branch in a
// role that ties the event to that branch's history: the branch field for
// commit, rebase, reset, push and pull events, either side of a switch, and
// the target of a merge. Other payload kinds never match.
func (s *Store) HistoryForBranch(name string) ([]Event, error) {
	events, err := s.ReadAll()
	if err != nil {
		return nil, err
	}
	var out []Event
	for _, ev := range events {
		if eventMentionsBranch(ev.Payload, name) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func eventMentionsBranch(p Payload, name string) bool {
	switch v := p.(type) {
	case CommitCreated:
		return v.Branch == name
	case CommitAmended:
		return v.Branch == name
	case Rebase:
		return v.Branch == name
	case Reset:
		return v.Branch == name
	case Push:
		return v.Branch == name
	case Pull:
		return v.Branch == name
	case BranchSwitched:
		return v.From == name || v.To == name
	case Merge:
		return v.Target == name
	}
	return false
}

// Snapshot summarizes the journal without exposing its contents.
type Snapshot struct {
	Count    int
	LatestID *EventID
	Path     string
}

// Snapshot reports the current event count and latest id.
func (s *Store) Snapshot() (Snapshot, error) {
	events, err := s.ReadAll()
	if err != nil {
		return Snapshot{}, err
	}
	snap := Snapshot{Count: len(events), Path: s.path}
	if len(events) > 0 {
		id := events[len(events)-1].ID
		snap.LatestID = &id
	}
	return snap, nil
}

// Clear removes the journal file. A missing file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("journal: clear: %w", err)
	}
	return nil
}

// maybeCompact rewrites the journal down to the newest three quarters of the
// ceiling once the count exceeds it. The rewrite goes to a sibling temp file
// that is synced and atomically renamed over the live file, so a crash at any
// point leaves either the old journal or the new one, never a mix.
func (s *Store) maybeCompact() error {
	events, err := s.ReadAll()
	if err != nil {
		return err
	}
	if len(events) <= s.ceiling {
		return nil
	}
	keep := s.ceiling * 3 / 4
	return s.rewrite(events[len(events)-keep:])
}

func (s *Store) rewrite(events []Event) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, journalFile+".tmp-*")
	if err != nil {
		return fmt.Errorf("journal: compact: %w", err)
	}
	tmpName := tmp.Name()
	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	for _, ev := range events {
		line, err := json.Marshal(ev)
		if err != nil {
			return fail(err)
		}
		if _, err := tmp.Write(append(line, '\n')); err != nil {
			return fail(fmt.Errorf("journal: compact write: %w", err))
		}
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("journal: compact sync: %w", err))
	}
	if err := tmp.Close(); err != nil {
		return fail(fmt.Errorf("journal: compact close: %w", err))
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("journal: compact rename: %w", err)
	}
	return nil
}
