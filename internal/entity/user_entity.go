// FILE: internal/entity/user_entity.go
package entity

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrValidation is returned when a draft is missing a required field.
	ErrValidation = errors.New("validation failed")

	// ErrFieldTooLong is returned when a draft field exceeds its length limit.
	// It also matches ErrValidation.
	ErrFieldTooLong = fmt.Errorf("%w: field too long", ErrValidation)

	// ErrDuplicateID is returned when a client-supplied id is already taken.
	// It also matches ErrValidation.
	ErrDuplicateID = fmt.Errorf("%w: user id already exists", ErrValidation)

	// ErrNotFound is returned when an operation references an unknown id.
	ErrNotFound = errors.New("user not found")
)

// User is one managed person. Id is assigned once and never changes.
type User struct {
	Id         string
	FirstName  string
	LastName   string
	Email      string
	Department string
}

// UserDraft holds the fields an operator is typing. Id is optional and only
// honoured when a new record is created.
type UserDraft struct {
	Id         string `json:"id" validate:"omitempty,max=64"`
	FirstName  string `json:"firstName" validate:"required,max=100"`
	LastName   string `json:"lastName" validate:"required,max=100"`
	Email      string `json:"email" validate:"required,max=254"`
	Department string `json:"department" validate:"required,max=100"`
}

// UserPatch carries the fields to merge over an existing record. Nil fields are
// left untouched. Id is accepted so callers can pass a whole draft, but it is
// never applied.
type UserPatch struct {
	Id         *string
	FirstName  *string
	LastName   *string
	Email      *string
	Department *string
}

var draftValidator = newDraftValidator()

func newDraftValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (d UserDraft) Trimmed() UserDraft {
	return UserDraft{
		Id:         strings.TrimSpace(d.Id),
		FirstName:  strings.TrimSpace(d.FirstName),
		LastName:   strings.TrimSpace(d.LastName),
		Email:      strings.TrimSpace(d.Email),
		Department: strings.TrimSpace(d.Department),
	}
}

// Validate reports ErrValidation naming every empty required field, or
// ErrFieldTooLong naming every field over its limit. Whitespace-only values
// count as empty.
func (d UserDraft) Validate() error {
	err := draftValidator.Struct(d.Trimmed())
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var missing, tooLong []string
	for _, fe := range fieldErrs {
		if fe.Tag() == "max" {
			tooLong = append(tooLong, fe.Field())
		} else {
			missing = append(missing, fe.Field())
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}
	return fmt.Errorf("%w: %s", ErrFieldTooLong, strings.Join(tooLong, ", "))
}

// EmailLooksValid is advisory only; records with odd emails are still stored.
func (d UserDraft) EmailLooksValid() bool {
	return draftValidator.Var(strings.TrimSpace(d.Email), "email") == nil
}

// Draft copies the record into a draft, including its id.
func (u User) Draft() UserDraft {
	return UserDraft{
		Id:         u.Id,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Department: u.Department,
	}
}

// Patch turns a full draft into a patch that overwrites every editable field.
func (d UserDraft) Patch() UserPatch {
	id, first, last, email, dept := d.Id, d.FirstName, d.LastName, d.Email, d.Department
	return UserPatch{
		Id:         &id,
		FirstName:  &first,
		LastName:   &last,
		Email:      &email,
		Department: &dept,
	}
}

// Apply merges the patch over u and returns the result. The id is kept.
func (p UserPatch) Apply(u User) User {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Department != nil {
		u.Department = *p.Department
	}
	return u
}
