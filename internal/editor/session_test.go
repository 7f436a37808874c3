package editor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/specialistvlad/climeta/internal/ctxlog"
	"github.com/specialistvlad/climeta/internal/docfmt"
	"github.com/specialistvlad/climeta/internal/hcl"
	"github.com/specialistvlad/climeta/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_RowsKeepStableIDs(t *testing.T) {
	t.Parallel()

	s := New()
	a := s.Add(model.ArgumentSpec{Name: "input", Help: "input"})
	b := s.Add(model.ArgumentSpec{Name: "--output", Help: "output"})
	c := s.Add(model.ArgumentSpec{Name: "--verbose", Type: model.TypeFlag, Help: "verbose"})
	assert.Equal(t, []string{"arg-1", "arg-2", "arg-3"}, []string{a.ID, b.ID, c.ID})

	require.NoError(t, s.Remove(b.ID))
	d := s.Add(model.ArgumentSpec{Name: "--extra", Help: "extra"})
	assert.Equal(t, "arg-4", d.ID, "identifiers are never reused")

	var ids []string
	for _, r := range s.Rows() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"arg-1", "arg-3", "arg-4"}, ids)

	err := s.Remove(b.ID)
	assert.ErrorIs(t, err, ErrRowNotFound)
	_, err = s.Update("arg-99", model.ArgumentSpec{})
	assert.ErrorIs(t, err, ErrRowNotFound)
}

func TestSession_UpdateAppliesRules(t *testing.T) {
	t.Parallel()

	s := New()
	row := s.Add(model.ArgumentSpec{Name: "--mode", Type: model.TypeString, Default: "fast", Help: "mode"})

	updated, err := s.Update(row.ID, model.ArgumentSpec{Name: "mode", Type: model.TypeString, Default: "fast", Help: "mode"})
	require.NoError(t, err)
	assert.True(t, updated.Required)
	assert.Empty(t, updated.Default)

	got, err := s.Row(row.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestSession_Choices(t *testing.T) {
	t.Parallel()

	s := New()
	row := s.Add(model.ArgumentSpec{Name: "--lang", Help: "lang"})

	_, err := s.AddChoice(row.ID, "python")
	require.NoError(t, err)
	_, err = s.AddChoice(row.ID, " bash ")
	require.NoError(t, err)

	_, err = s.AddChoice(row.ID, "python")
	assert.ErrorIs(t, err, ErrDuplicateChoice)
	_, err = s.AddChoice(row.ID, "   ")
	assert.ErrorIs(t, err, ErrEmptyChoice)

	r, err := s.RemoveChoice(row.ID, "python")
	require.NoError(t, err)
	assert.Equal(t, []string{"bash"}, r.Choices)
}

func TestSession_Generate(t *testing.T) {
	t.Parallel()

	ctx := ctxlog.Discard(context.Background())
	s := New()
	s.SetProgram(model.ProgramMetadata{Name: "demo", Description: "demo program"})
	s.Add(model.ArgumentSpec{Name: "input", Help: "input file"})
	bad := s.Add(model.ArgumentSpec{Name: "--count", Type: model.TypeInt, Default: "many", Help: "count"})
	noHelp := s.Add(model.ArgumentSpec{Name: "--out"})

	before := s.Snapshot()
	out, err := s.Generate(ctx, docfmt.NewCodec())
	require.Error(t, err)
	assert.Nil(t, out)

	var gerr *GenerateError
	require.True(t, errors.As(err, &gerr))
	require.Len(t, gerr.Fields, 2)
	assert.Equal(t, RowError{RowID: bad.ID, Field: "default", Kind: "TypeMismatch", Message: `"many" is not an integer`}, gerr.Fields[0])
	assert.Equal(t, noHelp.ID, gerr.Fields[1].RowID)
	assert.Equal(t, "MissingField", gerr.Fields[1].Kind)
	assert.ErrorIs(t, err, model.ErrMissingField)
	assert.Equal(t, before, s.Snapshot(), "a failed generate leaves the session untouched")

	_, err = s.Update(bad.ID, model.ArgumentSpec{Name: "--count", Type: model.TypeInt, Default: "3", Help: "count"})
	require.NoError(t, err)
	require.NoError(t, s.Remove(noHelp.ID))

	out, err = s.Generate(ctx, docfmt.NewCodec())
	require.NoError(t, err)
	assert.Contains(t, string(out), "name = \"--count\"\ntype = \"int\"\ndefault = \"3\"\n")
}

func TestSession_ImportReplacesRows(t *testing.T) {
	t.Parallel()

	ctx := ctxlog.Discard(context.Background())
	s := New()
	s.Add(model.ArgumentSpec{Name: "--old", Help: "old"})

	text := "[program]\nname = \"p\"\ndescription = \"d\"\n\n[[arguments]]\nname = \"input\"\ntype = \"string\"\nhelp = \"in\"\n"
	snap, err := s.Import(ctx, docfmt.NewCodec(), []byte(text))
	require.NoError(t, err)
	assert.Equal(t, "p", snap.Program.Name)
	require.Len(t, snap.Arguments, 1)
	assert.Equal(t, "arg-2", snap.Arguments[0].ID)
	assert.Equal(t, "input", snap.Arguments[0].Name)
	assert.False(t, snap.Arguments[0].Required, "imported rows are taken verbatim")

	_, err = s.Import(ctx, hcl.NewCodec(), []byte("argument {"))
	require.Error(t, err)
	assert.Equal(t, snap, s.Snapshot())
}

func TestSession_Subscribe(t *testing.T) {
	t.Parallel()

	s := New()
	var (
		mu     sync.Mutex
		events []Event
	)
	cancel := s.Subscribe(func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev)
	})

	row := s.Add(model.ArgumentSpec{Name: "--a", Help: "a"})
	_, err := s.AddChoice(row.ID, "x")
	require.NoError(t, err)
	require.NoError(t, s.Remove(row.ID))
	cancel()
	s.SetProgram(model.ProgramMetadata{Name: "ignored"})

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 3)
	assert.Equal(t, EventAdded, events[0].Kind)
	assert.Equal(t, row.ID, events[0].RowID)
	assert.Len(t, events[0].Document.Arguments, 1)
	assert.Equal(t, EventUpdated, events[1].Kind)
	assert.Equal(t, []string{"x"}, events[1].Document.Arguments[0].Choices)
	assert.Equal(t, EventRemoved, events[2].Kind)
	assert.Empty(t, events[2].Document.Arguments)
}

func TestSession_ConcurrentEdits(t *testing.T) {
	t.Parallel()

	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			row := s.Add(model.ArgumentSpec{Name: "--x", Help: "x"})
			_, _ = s.AddChoice(row.ID, "a")
			_ = s.Snapshot()
		}()
	}
	wg.Wait()
	assert.Len(t, s.Snapshot().Arguments, 20)
}

func TestSession_EventsFollowChangeOrder(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	s := New()
	var (
		mu     sync.Mutex
		events []Event
	)
	s.Subscribe(func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev)
	})

	// --- Act ---
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				row := s.Add(model.ArgumentSpec{Name: "--x", Help: "x"})
				if j%5 == 0 {
					_ = s.Remove(row.ID)
				}
			}
		}()
	}
	wg.Wait()

	// --- Assert ---
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 8*25+8*5)
	for i, ev := range events {
		assert.Equal(t, uint64(i+1), ev.Seq, "event %d delivered out of order", i)
	}
	last := events[len(events)-1]
	assert.Equal(t, s.Rows(), last.Document.Arguments, "the last event carries the final state")
}

func TestSession_GenerateReportsProgramFields(t *testing.T) {
	t.Parallel()

	s := New()
	s.SetProgram(model.ProgramMetadata{Name: "demo", Description: "first\nsecond"})
	s.Add(model.ArgumentSpec{Name: "input", Help: "input file"})

	_, err := s.Generate(ctxlog.Discard(context.Background()), docfmt.NewCodec())

	var gerr *GenerateError
	require.ErrorAs(t, err, &gerr)
	require.Len(t, gerr.Fields, 1)
	assert.Equal(t, RowError{Field: "description", Kind: "TypeMismatch", Message: "description cannot contain line breaks"}, gerr.Fields[0])
}
