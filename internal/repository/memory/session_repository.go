package memory

import (
	"time"

	"user-directory-be/pkg/form"

	"github.com/patrickmn/go-cache"
)

// SessionRepository holds open form sessions. Sessions idle longer than ttl
// are evicted.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	c := cache.New(ttl, ttl/6)
	return &SessionRepository{
		cache: c,
	}
}

// OnEvicted registers fn to run after a session leaves the repository,
// whether it expired or was deleted. fn runs outside the cache lock.
func (r *SessionRepository) OnEvicted(fn func(sessionID string)) {
	r.cache.OnEvicted(func(key string, _ interface{}) {
		fn(key)
	})
}

func (r *SessionRepository) Save(session *form.Session) {
	r.cache.Set(session.Id(), session, cache.DefaultExpiration)
}

// Get returns the session and pushes its expiry forward.
func (r *SessionRepository) Get(sessionID string) (*form.Session, bool) {
	x, found := r.cache.Get(sessionID)
	if !found {
		return nil, false
	}
	session := x.(*form.Session)
	r.cache.Set(sessionID, session, cache.DefaultExpiration)
	return session, true
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
