package memory

import (
	"testing"
	"time"

	"user-directory-be/pkg/form"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository_SaveGetDelete(t *testing.T) {
	repo := NewSessionRepository(time.Minute)
	s := form.NewSession("abc")

	repo.Save(s)
	got, ok := repo.Get("abc")
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, 1, repo.Count())

	repo.Delete("abc")
	_, ok = repo.Get("abc")
	assert.False(t, ok)
}

func TestSessionRepository_Expires(t *testing.T) {
	repo := NewSessionRepository(20 * time.Millisecond)
	repo.Save(form.NewSession("short"))

	time.Sleep(40 * time.Millisecond)

	_, ok := repo.Get("short")
	assert.False(t, ok)
}

func TestSessionRepository_OnEvictedSeesExpiryAndDelete(t *testing.T) {
	repo := NewSessionRepository(30 * time.Millisecond)
	evicted := make(chan string, 2)
	repo.OnEvicted(func(sessionID string) { evicted <- sessionID })

	repo.Save(form.NewSession("idle"))
	select {
	case id := <-evicted:
		assert.Equal(t, "idle", id)
	case <-time.After(time.Second):
		t.Fatal("expired session was never evicted")
	}
	assert.Equal(t, 0, repo.Count())

	repo.Save(form.NewSession("closed"))
	repo.Delete("closed")
	assert.Equal(t, "closed", <-evicted)
}
