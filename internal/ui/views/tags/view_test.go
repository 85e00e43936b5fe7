package tags

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	storedto "studysprint/internal/modules/store/dto"
)

type fakeTags struct {
	tags     []storedto.TagOutput
	deleted  []string
	defaults []string
}

func (f *fakeTags) ListTags(context.Context) ([]storedto.TagOutput, error) { return f.tags, nil }
func (f *fakeTags) SetDefaultTag(_ context.Context, id string) (storedto.TagOutput, error) {
	f.defaults = append(f.defaults, id)
	return storedto.TagOutput{ID: id, Name: "Math", IsDefault: true}, nil
}
func (f *fakeTags) DeleteTag(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func loaded(t *testing.T, port *fakeTags) Model {
	t.Helper()
	m := New(port)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	m, _ = m.Update(m.Load()())
	return m
}

func TestSelectionAndActions(t *testing.T) {
	t.Parallel()
	focus := 600
	port := &fakeTags{tags: []storedto.TagOutput{
		{ID: "a", Name: "Math", IsDefault: true, PreferredFocusSec: &focus, SessionCount: 2},
		{ID: "b", Name: "Language"},
	}}
	m := loaded(t, port)

	if id, ok := m.SelectedTagID(); !ok || id != "a" {
		t.Fatalf("expected first tag selected, got %q", id)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if id, _ := m.SelectedTagID(); id != "b" {
		t.Fatalf("expected b after moving down, got %q", id)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	if msg, ok := cmd().(ChangedMsg); !ok || msg.Err != nil {
		t.Fatalf("expected ChangedMsg, got %+v", msg)
	}
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	cmd()
	if len(port.defaults) != 1 || port.defaults[0] != "b" || len(port.deleted) != 1 || port.deleted[0] != "b" {
		t.Fatalf("unexpected port calls defaults=%v deleted=%v", port.defaults, port.deleted)
	}
}

func TestItemDescription(t *testing.T) {
	t.Parallel()
	brk := 120
	item := tagItem{tag: storedto.TagOutput{Name: "Art", SessionCount: 4, PreferredBreakSec: &brk}}
	if got := item.Description(); got != "4 sessions  focus default  break 2m" {
		t.Fatalf("unexpected description %q", got)
	}
	if (tagItem{tag: storedto.TagOutput{Name: "Art", IsDefault: true}}).Title() != "★ Art" {
		t.Fatalf("default tag should be starred")
	}
}
