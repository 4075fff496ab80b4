package contract

import (
	"context"

	"user-directory-be/internal/entity"
)

// UserRepository is the authoritative, ordered collection of records for the
// running session. Every method is synchronous and returns copies, so callers
// never hold a live record.
type UserRepository interface {
	// Add validates the draft and appends it. A caller-supplied id must be unused.
	Add(draft entity.UserDraft) (entity.User, error)

	// Update merges patch over the record with the given id, in place.
	// The id itself is never changed.
	Update(id string, patch entity.UserPatch) (entity.User, error)

	Remove(id string) error
	Get(id string) (entity.User, error)

	// List returns every record in insertion order.
	List() []entity.User

	// Import appends projected directory records as one step, giving each a
	// freshly generated id regardless of any id on the draft. Drafts are
	// trimmed but not checked for empty fields. Nothing is appended once ctx
	// is done.
	Import(ctx context.Context, drafts []entity.UserDraft) ([]entity.User, error)

	Count() int
}
