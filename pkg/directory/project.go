package directory

import (
	"strings"
	"unicode"

	"user-directory-be/internal/entity"
)

const DefaultDepartment = "Default Department"

// Project maps a directory entry onto a record draft. The directory's own
// numeric id is dropped; the store assigns a fresh one on import.
func Project(u ImportedUser, defaultDepartment string) entity.UserDraft {
	first, last := splitName(u.Name)

	department := defaultDepartment
	if u.Company != nil && strings.TrimSpace(u.Company.Name) != "" {
		department = strings.TrimSpace(u.Company.Name)
	}

	return entity.UserDraft{
		FirstName:  first,
		LastName:   last,
		Email:      strings.TrimSpace(u.Email),
		Department: department,
	}
}

func ProjectAll(users []ImportedUser, defaultDepartment string) []entity.UserDraft {
	drafts := make([]entity.UserDraft, 0, len(users))
	for _, u := range users {
		drafts = append(drafts, Project(u, defaultDepartment))
	}
	return drafts
}

// splitName cuts at the first run of whitespace. A single token yields an
// empty last name.
func splitName(name string) (string, string) {
	name = strings.TrimSpace(name)
	idx := strings.IndexFunc(name, unicode.IsSpace)
	if idx < 0 {
		return name, ""
	}
	return name[:idx], strings.TrimSpace(name[idx:])
}
