// Package session tracks ephemeral panel state: whether the panel is active,
// whether edit mode is on, and which task title is being edited.
package session

import (
	"context"
	"strings"
)

// TitleEditor commits an edited title. Blank titles are discarded by the
// implementation and reported with changed=false.
type TitleEditor interface {
	EditTitle(ctx context.Context, id, title string) (bool, error)
}

type State struct {
	editor   TitleEditor
	active   bool
	editMode bool
	editing  string
	draft    string
}

// New returns an active session with edit mode off and nothing being edited.
func New(editor TitleEditor) *State {
	return &State{editor: editor, active: true}
}

func (s *State) Active() bool { return s.active }

func (s *State) Activate() {
	s.active = true
}

// Deactivate marks the panel inactive and turns edit mode off.
func (s *State) Deactivate() {
	s.active = false
	s.editMode = false
}

func (s *State) EditMode() bool { return s.editMode }

func (s *State) ToggleEditMode() bool {
	s.editMode = !s.editMode
	return s.editMode
}

// Editing returns the id being edited, or "" when none.
func (s *State) Editing() string { return s.editing }

func (s *State) IsEditing(id string) bool {
	return id != "" && s.editing == id
}

func (s *State) Draft() string { return s.draft }

// BeginEdit starts editing id with title as the initial draft. An edit in
// progress on another task is committed first; its error is returned but
// the switch still happens.
func (s *State) BeginEdit(ctx context.Context, id, title string) error {
	if id == "" || s.editing == id {
		return nil
	}
	var err error
	if s.editing != "" {
		_, err = s.CommitEdit(ctx)
	}
	s.editing = id
	s.draft = title
	return err
}

func (s *State) SetDraft(text string) {
	if s.editing == "" {
		return
	}
	s.draft = text
}

// CommitEdit saves the draft through the editor and ends editing. A blank
// draft is discarded.
func (s *State) CommitEdit(ctx context.Context) (bool, error) {
	id, draft := s.editing, s.draft
	s.editing, s.draft = "", ""
	if id == "" || strings.TrimSpace(draft) == "" || s.editor == nil {
		return false, nil
	}
	return s.editor.EditTitle(ctx, id, draft)
}

func (s *State) CancelEdit() {
	s.editing, s.draft = "", ""
}
