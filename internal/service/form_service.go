package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"user-directory-be/internal/dto"
	"user-directory-be/internal/entity"
	"user-directory-be/internal/mapper"
	"user-directory-be/internal/pkg/logger"
	"user-directory-be/internal/pkg/metrics"
	"user-directory-be/internal/repository/memory"
	"user-directory-be/pkg/form"

	"github.com/google/uuid"
)

type IFormService interface {
	Open(ctx context.Context) *dto.FormResponse
	Get(ctx context.Context, sessionID string) (*dto.FormResponse, error)
	ChangeField(ctx context.Context, sessionID, field, value string) (*dto.FormResponse, error)
	StartEdit(ctx context.Context, sessionID, userID string) (*dto.FormResponse, error)
	Submit(ctx context.Context, sessionID string) (*dto.FormResponse, error)
	Cancel(ctx context.Context, sessionID string) (*dto.FormResponse, error)
	Close(ctx context.Context, sessionID string) error
}

// formService drives one form.Session per operator. Every operation holds
// mu, so events for all sessions are applied one at a time.
type formService struct {
	mu       sync.Mutex
	sessions *memory.SessionRepository
	users    IUserService
	notifier INotifier
	mapper   *mapper.UserMapper
	metrics  *metrics.Metrics
	logger   logger.ILogger
}

func NewFormService(sessions *memory.SessionRepository, users IUserService, notifier INotifier, m *metrics.Metrics, log logger.ILogger) IFormService {
	// Idle sessions expire on their own, so the gauge follows evictions.
	sessions.OnEvicted(func(string) {
		m.FormSessions.Set(float64(sessions.Count()))
	})

	return &formService{
		sessions: sessions,
		users:    users,
		notifier: notifier,
		mapper:   mapper.NewUserMapper(),
		metrics:  m,
		logger:   log,
	}
}

// userStore lets a session reach the store through the user service, so
// submits raise the same toasts and events as direct calls.
type userStore struct {
	ctx   context.Context
	users IUserService
}

func (s userStore) Get(id string) (entity.User, error) {
	return s.users.Get(s.ctx, id)
}

func (s userStore) Add(draft entity.UserDraft) (entity.User, error) {
	return s.users.Add(s.ctx, draft)
}

func (s userStore) Update(id string, patch entity.UserPatch) (entity.User, error) {
	return s.users.Update(s.ctx, id, patch)
}

func (s *formService) Open(ctx context.Context) *dto.FormResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := form.NewSession(uuid.NewString())
	s.sessions.Save(session)
	s.metrics.FormSessions.Set(float64(s.sessions.Count()))

	s.logger.Info("FormService", "Form session opened", map[string]interface{}{"session_id": session.Id()})
	return &dto.FormResponse{Session: session.State()}
}

func (s *formService) Get(ctx context.Context, sessionID string) (*dto.FormResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.load(sessionID)
	if err != nil {
		return nil, err
	}
	return &dto.FormResponse{Session: session.State()}, nil
}

func (s *formService) ChangeField(ctx context.Context, sessionID, field, value string) (*dto.FormResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.load(sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.FieldChanged(field, value); err != nil {
		return nil, err
	}
	return &dto.FormResponse{Session: session.State()}, nil
}

func (s *formService) StartEdit(ctx context.Context, sessionID, userID string) (*dto.FormResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.load(sessionID)
	if err != nil {
		return nil, err
	}

	ctx = form.WithSessionID(ctx, sessionID)
	transition, err := session.StartEdit(userStore{ctx: ctx, users: s.users}, userID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			s.notifier.Error(ctx, MsgUserNotFound)
		}
		return nil, err
	}

	if transition.DiscardedTarget != "" {
		s.logger.Info("FormService", "Unsaved edit discarded", map[string]interface{}{
			"session_id": sessionID,
			"discarded":  transition.DiscardedTarget,
			"target":     userID,
		})
	}
	return &dto.FormResponse{Session: session.State(), Transition: &transition}, nil
}

// Submit toasts come from the user service.
func (s *formService) Submit(ctx context.Context, sessionID string) (*dto.FormResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.load(sessionID)
	if err != nil {
		return nil, err
	}

	ctx = form.WithSessionID(ctx, sessionID)
	user, transition, err := session.Submit(userStore{ctx: ctx, users: s.users})
	if err != nil {
		return nil, err
	}

	return &dto.FormResponse{
		Session:    session.State(),
		Transition: &transition,
		User:       s.mapper.ToResponse(user),
	}, nil
}

func (s *formService) Cancel(ctx context.Context, sessionID string) (*dto.FormResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.load(sessionID)
	if err != nil {
		return nil, err
	}
	transition := session.Cancel()
	return &dto.FormResponse{Session: session.State(), Transition: &transition}, nil
}

func (s *formService) Close(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.load(sessionID); err != nil {
		return err
	}
	s.sessions.Delete(sessionID)
	return nil
}

func (s *formService) load(sessionID string) (*form.Session, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", form.ErrSessionNotFound, sessionID)
	}
	return session, nil
}
