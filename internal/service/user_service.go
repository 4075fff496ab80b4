// FILE: internal/service/user_service.go
package service

import (
	"context"
	"errors"
	"time"

	"user-directory-be/internal/entity"
	"user-directory-be/internal/pkg/logger"
	"user-directory-be/internal/pkg/metrics"
	"user-directory-be/internal/repository/contract"
	"user-directory-be/pkg/events"
)

const (
	MsgUserAdded      = "User added successfully!"
	MsgUserUpdated    = "User updated successfully!"
	MsgUserDeleted    = "User deleted successfully!"
	MsgFieldsRequired = "All fields are required."
	MsgFieldTooLong   = "One or more fields are too long."
	MsgDuplicateID    = "A user with this ID already exists."
	MsgUserNotFound   = "User not found."
	MsgUnexpected     = "Something went wrong."
)

type IUserService interface {
	List(ctx context.Context) []entity.User
	Get(ctx context.Context, id string) (entity.User, error)
	Add(ctx context.Context, draft entity.UserDraft) (entity.User, error)
	Update(ctx context.Context, id string, patch entity.UserPatch) (entity.User, error)
	Remove(ctx context.Context, id string) error
	Import(ctx context.Context, drafts []entity.UserDraft) ([]entity.User, error)
}

// userService wraps the record store with the side effects of a change:
// a toast for the operator, a domain event and metrics.
type userService struct {
	repo      contract.UserRepository
	publisher IPublisherService
	notifier  INotifier
	metrics   *metrics.Metrics
	logger    logger.ILogger
}

func NewUserService(repo contract.UserRepository, publisher IPublisherService, notifier INotifier, m *metrics.Metrics, log logger.ILogger) IUserService {
	return &userService{
		repo:      repo,
		publisher: publisher,
		notifier:  notifier,
		metrics:   m,
		logger:    log,
	}
}

func (s *userService) List(ctx context.Context) []entity.User {
	return s.repo.List()
}

func (s *userService) Get(ctx context.Context, id string) (entity.User, error) {
	return s.repo.Get(id)
}

func (s *userService) Add(ctx context.Context, draft entity.UserDraft) (entity.User, error) {
	user, err := s.repo.Add(draft)
	s.record("add", err)
	if err != nil {
		s.notifier.Error(ctx, failureMessage(err))
		return entity.User{}, err
	}

	s.warnOnOddEmail(user)
	s.publish(ctx, events.UserAdded, userPayload(user))
	s.notifier.Success(ctx, MsgUserAdded)
	return user, nil
}

func (s *userService) Update(ctx context.Context, id string, patch entity.UserPatch) (entity.User, error) {
	user, err := s.repo.Update(id, patch)
	s.record("update", err)
	if err != nil {
		s.notifier.Error(ctx, failureMessage(err))
		return entity.User{}, err
	}

	s.warnOnOddEmail(user)
	s.publish(ctx, events.UserUpdated, userPayload(user))
	s.notifier.Success(ctx, MsgUserUpdated)
	return user, nil
}

func (s *userService) Remove(ctx context.Context, id string) error {
	err := s.repo.Remove(id)
	s.record("remove", err)
	if err != nil {
		s.notifier.Error(ctx, failureMessage(err))
		return err
	}

	s.publish(ctx, events.UserDeleted, map[string]interface{}{"id": id})
	s.notifier.Success(ctx, MsgUserDeleted)
	return nil
}

// Import is silent towards the operator; the directory loader reports on it.
// It only fails when ctx is done, in which case nothing was stored.
func (s *userService) Import(ctx context.Context, drafts []entity.UserDraft) ([]entity.User, error) {
	users, err := s.repo.Import(ctx, drafts)
	if err != nil {
		return nil, err
	}
	s.record("import", nil)

	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.Id)
	}
	s.publish(ctx, events.DirectoryImported, map[string]interface{}{
		"count": len(users),
		"ids":   ids,
	})
	return users, nil
}

func (s *userService) record(op string, err error) {
	s.metrics.StoreOps.WithLabelValues(op, outcome(err)).Inc()
	s.metrics.Records.Set(float64(s.repo.Count()))
}

func (s *userService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.New(eventType, data, time.Now())); err != nil {
		s.logger.Warn("UserService", "Failed to publish event", map[string]interface{}{
			"type":  eventType,
			"error": err.Error(),
		})
	}
}

func (s *userService) warnOnOddEmail(user entity.User) {
	if user.Draft().EmailLooksValid() {
		return
	}
	s.logger.Warn("UserService", "Stored record with an unusual email address", map[string]interface{}{
		"id":    user.Id,
		"email": user.Email,
	})
}

func userPayload(u entity.User) map[string]interface{} {
	return map[string]interface{}{
		"id":         u.Id,
		"firstName":  u.FirstName,
		"lastName":   u.LastName,
		"email":      u.Email,
		"department": u.Department,
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, entity.ErrDuplicateID):
		return metrics.OutcomeDuplicate
	case errors.Is(err, entity.ErrValidation):
		return metrics.OutcomeValidation
	case errors.Is(err, entity.ErrNotFound):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, entity.ErrDuplicateID):
		return MsgDuplicateID
	case errors.Is(err, entity.ErrFieldTooLong):
		return MsgFieldTooLong
	case errors.Is(err, entity.ErrValidation):
		return MsgFieldsRequired
	case errors.Is(err, entity.ErrNotFound):
		return MsgUserNotFound
	default:
		return MsgUnexpected
	}
}
