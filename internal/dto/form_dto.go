package dto

import (
	"user-directory-be/pkg/form"
)

type FieldChangeRequest struct {
	Field string `json:"field" validate:"required,oneof=id firstName lastName email department"`
	Value string `json:"value"`
}

type FormResponse struct {
	Session    form.State       `json:"session"`
	Transition *form.Transition `json:"transition,omitempty"`
	// User is the stored record after a successful submit.
	User *UserResponse `json:"user,omitempty"`
}
