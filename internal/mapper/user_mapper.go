package mapper

import (
	"user-directory-be/internal/dto"
	"user-directory-be/internal/entity"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToResponse(u entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		Id:         u.Id,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Department: u.Department,
	}
}

func (m *UserMapper) ToResponses(users []entity.User) []*dto.UserResponse {
	out := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, m.ToResponse(u))
	}
	return out
}

func (m *UserMapper) ToDraft(req dto.CreateUserRequest) entity.UserDraft {
	return entity.UserDraft{
		Id:         req.Id,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Department: req.Department,
	}
}

func (m *UserMapper) ToPatch(req dto.UpdateUserRequest) entity.UserPatch {
	return entity.UserPatch{
		Id:         req.Id,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Department: req.Department,
	}
}
