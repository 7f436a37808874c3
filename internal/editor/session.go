package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/specialistvlad/climeta/internal/config"
	"github.com/specialistvlad/climeta/internal/ctxlog"
	"github.com/specialistvlad/climeta/internal/model"
)

var (
	ErrRowNotFound     = errors.New("row not found")
	ErrEmptyChoice     = errors.New("choice is empty")
	ErrDuplicateChoice = errors.New("this choice already exists")
)

// Row is an argument together with its stable identifier.
type Row struct {
	ID string `json:"id"`
	model.ArgumentSpec
}

// Snapshot is a point-in-time copy of the session.
type Snapshot struct {
	Program   model.ProgramMetadata `json:"program"`
	Arguments []Row                 `json:"arguments"`
}

// Document drops the row identifiers.
func (s Snapshot) Document() model.Document {
	doc := model.Document{Program: s.Program, Arguments: make([]model.ArgumentSpec, len(s.Arguments))}
	for i, r := range s.Arguments {
		doc.Arguments[i] = r.ArgumentSpec.Clone()
	}
	return doc
}

// EventKind names a change to the session.
type EventKind string

const (
	EventProgram  EventKind = "program"
	EventAdded    EventKind = "added"
	EventUpdated  EventKind = "updated"
	EventRemoved  EventKind = "removed"
	EventImported EventKind = "imported"
	// EventSync is never produced by a Session. Transports use it to send
	// the current state to a new listener.
	EventSync EventKind = "sync"
)

// Event describes a change and carries the resulting state. Seq numbers the
// changes of a session; subscribers observe them in increasing order.
type Event struct {
	Seq      uint64    `json:"seq"`
	Kind     EventKind `json:"kind"`
	RowID    string    `json:"row_id,omitempty"`
	Document Snapshot  `json:"document"`
}

// RowError is a validation error attributed to a row.
type RowError struct {
	// RowID is empty for program metadata fields.
	RowID   string `json:"row_id,omitempty"`
	Field   string `json:"field"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// GenerateError reports every field that prevented generation.
type GenerateError struct {
	Fields []RowError
	err    model.ValidationErrors
}

func (e *GenerateError) Error() string {
	return fmt.Sprintf("please fix the highlighted errors: %v", e.err)
}

func (e *GenerateError) Unwrap() error {
	return e.err
}

// Session is the editor state. It is safe for concurrent use.
type Session struct {
	mu      sync.RWMutex
	program model.ProgramMetadata
	rows    []Row
	nextID  int
	seq     uint64

	// deliverMu is taken before mu is released so events reach subscribers
	// in the order the changes were made.
	deliverMu sync.Mutex
	subsMu    sync.Mutex
	subs      map[int]func(Event)
	nextSub   int
}

// New creates an empty session.
func New() *Session {
	return &Session{subs: make(map[int]func(Event))}
}

// Subscribe registers fn to be called after every change. Calls are
// serialized and follow the order of the changes. fn must not modify the
// session. The returned function removes the subscription.
func (s *Session) Subscribe(fn func(Event)) (cancel func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		delete(s.subs, id)
	}
}

// publishLocked numbers ev, releases mu and delivers ev. The caller must
// hold mu.
func (s *Session) publishLocked(ev Event) {
	s.seq++
	ev.Seq = s.seq
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	s.mu.Unlock()
	s.notify(ev)
}

func (s *Session) notify(ev Event) {
	s.subsMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subsMu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{Program: s.program, Arguments: make([]Row, len(s.rows))}
	for i, r := range s.rows {
		snap.Arguments[i] = Row{ID: r.ID, ArgumentSpec: r.ArgumentSpec.Clone()}
	}
	return snap
}

// Rows returns a copy of the rows in order.
func (s *Session) Rows() []Row {
	return s.Snapshot().Arguments
}

// Document returns the current state as a document.
func (s *Session) Document() model.Document {
	return s.Snapshot().Document()
}

// SetProgram replaces the program metadata.
func (s *Session) SetProgram(p model.ProgramMetadata) {
	s.mu.Lock()
	s.program = p
	s.publishLocked(Event{Kind: EventProgram, Document: s.snapshotLocked()})
}

// Add appends a new row and returns it with its assigned identifier.
func (s *Session) Add(spec model.ArgumentSpec) Row {
	s.mu.Lock()
	row := Row{ID: s.allocateID(), ArgumentSpec: ApplyFormRules(nil, spec)}
	s.rows = append(s.rows, row)
	s.publishLocked(Event{Kind: EventAdded, RowID: row.ID, Document: s.snapshotLocked()})
	return row
}

// Row returns the row with the given identifier.
func (s *Session) Row(id string) (Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(id)
	if i < 0 {
		return Row{}, fmt.Errorf("%w: %s", ErrRowNotFound, id)
	}
	r := s.rows[i]
	return Row{ID: r.ID, ArgumentSpec: r.ArgumentSpec.Clone()}, nil
}

// Update replaces the row's argument, applying the form rules relative to
// its previous value.
func (s *Session) Update(id string, spec model.ArgumentSpec) (Row, error) {
	return s.modify(id, func(prev model.ArgumentSpec) (model.ArgumentSpec, error) {
		return ApplyFormRules(&prev, spec), nil
	})
}

// AddChoice appends a choice to the row's allowed values.
func (s *Session) AddChoice(id, choice string) (Row, error) {
	choice = strings.TrimSpace(choice)
	if choice == "" {
		return Row{}, ErrEmptyChoice
	}
	return s.modify(id, func(prev model.ArgumentSpec) (model.ArgumentSpec, error) {
		for _, c := range prev.Choices {
			if c == choice {
				return prev, fmt.Errorf("%w: %q", ErrDuplicateChoice, choice)
			}
		}
		next := prev.Clone()
		next.Choices = append(next.Choices, choice)
		return next, nil
	})
}

// RemoveChoice removes a choice from the row. Removing a choice that is not
// present is not an error.
func (s *Session) RemoveChoice(id, choice string) (Row, error) {
	return s.modify(id, func(prev model.ArgumentSpec) (model.ArgumentSpec, error) {
		next := prev.Clone()
		next.Choices = next.Choices[:0]
		for _, c := range prev.Choices {
			if c != choice {
				next.Choices = append(next.Choices, c)
			}
		}
		return next, nil
	})
}

func (s *Session) modify(id string, fn func(model.ArgumentSpec) (model.ArgumentSpec, error)) (Row, error) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return Row{}, fmt.Errorf("%w: %s", ErrRowNotFound, id)
	}
	next, err := fn(s.rows[i].ArgumentSpec.Clone())
	if err != nil {
		s.mu.Unlock()
		return Row{}, err
	}
	s.rows[i].ArgumentSpec = next
	row := Row{ID: id, ArgumentSpec: next.Clone()}
	s.publishLocked(Event{Kind: EventUpdated, RowID: id, Document: s.snapshotLocked()})
	return row, nil
}

// Remove deletes the row with the given identifier.
func (s *Session) Remove(id string) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrRowNotFound, id)
	}
	s.rows = append(s.rows[:i], s.rows[i+1:]...)
	s.publishLocked(Event{Kind: EventRemoved, RowID: id, Document: s.snapshotLocked()})
	return nil
}

// Generate validates the session and encodes it with codec. On validation
// failure it returns a *GenerateError naming every offending row and field.
func (s *Session) Generate(ctx context.Context, codec config.Codec) ([]byte, error) {
	logger := ctxlog.FromContext(ctx)
	snap := s.Snapshot()

	out, err := codec.Encode(ctx, snap.Document())
	var verrs model.ValidationErrors
	if errors.As(err, &verrs) {
		gerr := &GenerateError{err: verrs}
		for _, fe := range verrs {
			re := RowError{Field: fe.Field, Kind: fe.Kind.String(), Message: fe.Message}
			if fe.Index >= 0 && fe.Index < len(snap.Arguments) {
				re.RowID = snap.Arguments[fe.Index].ID
			}
			gerr.Fields = append(gerr.Fields, re)
		}
		logger.Debug("Generation rejected.", "errors", len(gerr.Fields))
		return nil, gerr
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("Document generated.", "format", codec.Format(), "bytes", len(out))
	return out, nil
}

// Import decodes data with codec and replaces the whole session with it.
// Rows receive fresh identifiers. The session is untouched if decoding
// fails.
func (s *Session) Import(ctx context.Context, codec config.Codec, data []byte) (Snapshot, error) {
	doc, err := codec.Decode(ctx, data)
	if err != nil {
		return Snapshot{}, fmt.Errorf("import failed: %w", err)
	}
	snap := s.Replace(*doc)
	ctxlog.FromContext(ctx).Debug("Document imported.", "format", codec.Format(), "arguments", len(snap.Arguments))
	return snap, nil
}

// Replace swaps the session content for doc. Imported rows are taken as they
// are; form rules only apply to subsequent edits.
func (s *Session) Replace(doc model.Document) Snapshot {
	s.mu.Lock()
	s.program = doc.Program
	s.rows = make([]Row, 0, len(doc.Arguments))
	for _, a := range doc.Arguments {
		s.rows = append(s.rows, Row{ID: s.allocateID(), ArgumentSpec: a.Clone()})
	}
	snap := s.snapshotLocked()
	s.publishLocked(Event{Kind: EventImported, Document: snap})
	return snap
}

func (s *Session) allocateID() string {
	s.nextID++
	return fmt.Sprintf("arg-%d", s.nextID)
}

func (s *Session) indexLocked(id string) int {
	for i, r := range s.rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}
