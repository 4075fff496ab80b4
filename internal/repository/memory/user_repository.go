package memory

import (
	"context"
	"fmt"
	"sync"

	"user-directory-be/internal/entity"
	"user-directory-be/internal/repository/contract"
	"user-directory-be/pkg/identifier"
)

var _ contract.UserRepository = (*UserRepository)(nil)

// UserRepository keeps records in memory. order holds ids in insertion order
// and users indexes them; both always contain exactly the same ids.
type UserRepository struct {
	mu    sync.RWMutex
	ids   identifier.Generator
	order []string
	users map[string]entity.User
}

func NewUserRepository(ids identifier.Generator) *UserRepository {
	return &UserRepository{
		ids:   ids,
		users: make(map[string]entity.User),
	}
}

func (r *UserRepository) Add(draft entity.UserDraft) (entity.User, error) {
	if err := draft.Validate(); err != nil {
		return entity.User{}, err
	}
	draft = draft.Trimmed()

	r.mu.Lock()
	defer r.mu.Unlock()

	id := draft.Id
	if id != "" {
		if _, taken := r.users[id]; taken {
			return entity.User{}, fmt.Errorf("%w: %s", entity.ErrDuplicateID, id)
		}
	} else {
		id = r.nextFreeIDLocked()
	}

	user := userFromDraft(id, draft)
	r.appendLocked(user)
	return user, nil
}

func (r *UserRepository) Update(id string, patch entity.UserPatch) (entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.users[id]
	if !ok {
		return entity.User{}, fmt.Errorf("%w: %s", entity.ErrNotFound, id)
	}

	merged := patch.Apply(current).Draft()
	if err := merged.Validate(); err != nil {
		return entity.User{}, err
	}

	updated := userFromDraft(current.Id, merged.Trimmed())
	r.users[id] = updated
	return updated, nil
}

func (r *UserRepository) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return fmt.Errorf("%w: %s", entity.ErrNotFound, id)
	}
	delete(r.users, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *UserRepository) Get(id string) (entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return entity.User{}, fmt.Errorf("%w: %s", entity.ErrNotFound, id)
	}
	return user, nil
}

func (r *UserRepository) List() []entity.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]entity.User, 0, len(r.order))
	for _, id := range r.order {
		users = append(users, r.users[id])
	}
	return users
}

// Import checks ctx only once the lock is held, so a cancelled import
// leaves the store exactly as it was.
func (r *UserRepository) Import(ctx context.Context, drafts []entity.UserDraft) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	imported := make([]entity.User, 0, len(drafts))
	for _, d := range drafts {
		user := userFromDraft(r.nextFreeIDLocked(), d.Trimmed())
		r.appendLocked(user)
		imported = append(imported, user)
	}
	return imported, nil
}

func (r *UserRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// nextFreeIDLocked skips generated ids an operator already typed in by hand.
func (r *UserRepository) nextFreeIDLocked() string {
	for {
		id := r.ids.Next()
		if _, taken := r.users[id]; !taken {
			return id
		}
	}
}

func (r *UserRepository) appendLocked(user entity.User) {
	r.users[user.Id] = user
	r.order = append(r.order, user.Id)
}

func userFromDraft(id string, d entity.UserDraft) entity.User {
	return entity.User{
		Id:         id,
		FirstName:  d.FirstName,
		LastName:   d.LastName,
		Email:      d.Email,
		Department: d.Department,
	}
}
