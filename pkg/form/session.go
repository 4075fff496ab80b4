// Package form models the single add/edit form an operator works with.
//
// A Session is either Creating a new record or Editing an existing one. The
// draft it holds is always a private copy; nothing reaches the record store
// until Submit succeeds.
package form

import (
	"errors"
	"fmt"

	"user-directory-be/internal/entity"
)

type Mode string

const (
	ModeCreating Mode = "CREATING"
	ModeEditing  Mode = "EDITING"
)

// Draft field names accepted by FieldChanged.
const (
	FieldID         = "id"
	FieldFirstName  = "firstName"
	FieldLastName   = "lastName"
	FieldEmail      = "email"
	FieldDepartment = "department"
)

var (
	ErrUnknownField   = errors.New("unknown form field")
	ErrImmutableField = errors.New("field cannot be changed while editing")
)

// Store is the part of the record store a session needs.
type Store interface {
	Get(id string) (entity.User, error)
	Add(draft entity.UserDraft) (entity.User, error)
	Update(id string, patch entity.UserPatch) (entity.User, error)
}

// Transition describes what an event did to the session.
type Transition struct {
	From    Mode `json:"from"`
	To      Mode `json:"to"`
	Changed bool `json:"changed"`
	// DiscardedTarget is set when StartEdit abandoned an unsaved edit of
	// another record.
	DiscardedTarget string `json:"discardedTarget,omitempty"`
}

// State is a read-only snapshot of a session.
type State struct {
	Id       string           `json:"id"`
	Mode     Mode             `json:"mode"`
	TargetId string           `json:"targetId,omitempty"`
	Draft    entity.UserDraft `json:"draft"`
}

type Session struct {
	id     string
	mode   Mode
	target string
	draft  entity.UserDraft
}

func NewSession(id string) *Session {
	return &Session{id: id, mode: ModeCreating}
}

func (s *Session) Id() string { return s.id }

func (s *Session) Mode() Mode { return s.mode }

// Target is the id of the record being edited, empty while creating.
func (s *Session) Target() string { return s.target }

func (s *Session) Draft() entity.UserDraft { return s.draft }

func (s *Session) State() State {
	return State{Id: s.id, Mode: s.mode, TargetId: s.target, Draft: s.draft}
}

// StartEdit loads the record with the given id into the draft. Any unsaved
// draft, including an edit of another record, is dropped.
func (s *Session) StartEdit(store Store, id string) (Transition, error) {
	user, err := store.Get(id)
	if err != nil {
		return Transition{From: s.mode, To: s.mode}, err
	}

	t := Transition{From: s.mode, To: ModeEditing, Changed: true}
	if s.mode == ModeEditing && s.target != id {
		t.DiscardedTarget = s.target
	}

	s.mode = ModeEditing
	s.target = user.Id
	s.draft = user.Draft()
	return t, nil
}

// FieldChanged sets one draft field. The id of a record under edit is fixed.
func (s *Session) FieldChanged(name, value string) error {
	switch name {
	case FieldID:
		if s.mode == ModeEditing {
			return fmt.Errorf("%w: %s", ErrImmutableField, name)
		}
		s.draft.Id = value
	case FieldFirstName:
		s.draft.FirstName = value
	case FieldLastName:
		s.draft.LastName = value
	case FieldEmail:
		s.draft.Email = value
	case FieldDepartment:
		s.draft.Department = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

// Submit commits the draft to the store. On success the session returns to
// an empty Creating form; on failure nothing changes.
func (s *Session) Submit(store Store) (entity.User, Transition, error) {
	var (
		user entity.User
		err  error
	)
	if s.mode == ModeEditing {
		user, err = store.Update(s.target, s.draft.Patch())
	} else {
		user, err = store.Add(s.draft)
	}
	if err != nil {
		return entity.User{}, Transition{From: s.mode, To: s.mode}, err
	}

	t := Transition{From: s.mode, To: ModeCreating, Changed: true}
	s.reset()
	return user, t, nil
}

// Cancel abandons an edit. Cancelling an empty Creating form is a no-op.
func (s *Session) Cancel() Transition {
	if s.mode == ModeCreating {
		return Transition{From: ModeCreating, To: ModeCreating}
	}
	s.reset()
	return Transition{From: ModeEditing, To: ModeCreating, Changed: true}
}

func (s *Session) reset() {
	s.mode = ModeCreating
	s.target = ""
	s.draft = entity.UserDraft{}
}
