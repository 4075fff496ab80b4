// FILE: internal/dto/user_dto.go
package dto

type UserResponse struct {
	Id         string `json:"id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// CreateUserRequest may carry an operator-chosen id. Field rules live on
// entity.UserDraft so the form session path enforces the same ones.
type CreateUserRequest struct {
	Id         string `json:"id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// UpdateUserRequest is a partial update. An id in the body is ignored.
type UpdateUserRequest struct {
	Id         *string `json:"id"`
	FirstName  *string `json:"firstName"`
	LastName   *string `json:"lastName"`
	Email      *string `json:"email"`
	Department *string `json:"department"`
}
