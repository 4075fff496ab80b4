package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"user-directory-be/internal/dto"
	"user-directory-be/internal/pkg/logger"
	"user-directory-be/internal/pkg/metrics"
	"user-directory-be/pkg/directory"
)

const MsgDirectoryFailed = "Failed to load users from directory."

type DirectoryState string

const (
	DirectoryPending  DirectoryState = "pending"
	DirectoryLoading  DirectoryState = "loading"
	DirectoryLoaded   DirectoryState = "loaded"
	DirectoryFailed   DirectoryState = "failed"
	DirectoryDisabled DirectoryState = "disabled"
)

var (
	ErrLoadAlreadyStarted = errors.New("directory load already started")
	ErrLoadCancelled      = errors.New("directory load cancelled")
	ErrLoadDisabled       = errors.New("directory load disabled")
)

// DirectoryFetcher is implemented by directory.Client.
type DirectoryFetcher interface {
	Fetch(ctx context.Context) ([]directory.ImportedUser, error)
	Endpoint() string
}

type IDirectoryService interface {
	Load(ctx context.Context) error
	Disable()
	Status() *dto.DirectoryStatusResponse
}

// directoryService seeds the store from the public directory, once per
// process and never retried.
type directoryService struct {
	fetcher           DirectoryFetcher
	users             IUserService
	notifier          INotifier
	timeout           time.Duration
	defaultDepartment string
	metrics           *metrics.Metrics
	logger            logger.ILogger

	started  atomic.Bool
	disabled atomic.Bool

	mu         sync.RWMutex
	state      DirectoryState
	imported   int
	lastErr    error
	startedAt  *time.Time
	finishedAt *time.Time
}

func NewDirectoryService(
	fetcher DirectoryFetcher,
	users IUserService,
	notifier INotifier,
	timeout time.Duration,
	defaultDepartment string,
	m *metrics.Metrics,
	log logger.ILogger,
) IDirectoryService {
	return &directoryService{
		fetcher:           fetcher,
		users:             users,
		notifier:          notifier,
		timeout:           timeout,
		defaultDepartment: defaultDepartment,
		metrics:           m,
		logger:            log,
		state:             DirectoryPending,
	}
}

// Load fetches, projects and imports the directory in one step. A failure
// leaves the store untouched. If ctx is cancelled before the import is
// applied, the fetched records are dropped.
func (s *directoryService) Load(ctx context.Context) error {
	if s.disabled.Load() {
		return ErrLoadDisabled
	}
	if !s.started.CompareAndSwap(false, true) {
		return ErrLoadAlreadyStarted
	}

	now := time.Now()
	s.setState(func() {
		s.state = DirectoryLoading
		s.startedAt = &now
	})

	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	imported, err := s.fetcher.Fetch(fetchCtx)
	if ctx.Err() != nil {
		return s.abandon(ctx.Err())
	}
	if err != nil {
		s.finish(DirectoryFailed, 0, err)
		s.metrics.DirectoryLoads.WithLabelValues(failureLabel(err)).Inc()
		s.logger.Error("DirectoryService", "Directory load failed", map[string]interface{}{
			"endpoint": s.fetcher.Endpoint(),
			"error":    err.Error(),
		})
		s.notifier.Error(ctx, MsgDirectoryFailed)
		return err
	}

	drafts := directory.ProjectAll(imported, s.defaultDepartment)
	users, err := s.users.Import(ctx, drafts)
	if err != nil {
		return s.abandon(err)
	}

	s.finish(DirectoryLoaded, len(users), nil)
	s.metrics.DirectoryLoads.WithLabelValues("ok").Inc()
	s.logger.Info("DirectoryService", "Directory imported", map[string]interface{}{
		"endpoint": s.fetcher.Endpoint(),
		"count":    len(users),
	})
	return nil
}

// abandon records a load dropped because ctx ended. Nothing is applied and
// nobody is notified.
func (s *directoryService) abandon(cause error) error {
	err := fmt.Errorf("%w: %v", ErrLoadCancelled, cause)
	s.finish(DirectoryFailed, 0, err)
	s.metrics.DirectoryLoads.WithLabelValues("cancelled").Inc()
	s.logger.Info("DirectoryService", "Directory load abandoned", map[string]interface{}{"error": err.Error()})
	return err
}

// Disable marks the loader as switched off by configuration. Load then
// returns ErrLoadDisabled.
func (s *directoryService) Disable() {
	s.disabled.Store(true)
	s.setState(func() { s.state = DirectoryDisabled })
}

func (s *directoryService) Status() *dto.DirectoryStatusResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := &dto.DirectoryStatusResponse{
		State:      string(s.state),
		Endpoint:   s.fetcher.Endpoint(),
		Imported:   s.imported,
		StartedAt:  s.startedAt,
		FinishedAt: s.finishedAt,
	}
	if s.lastErr != nil {
		res.Error = s.lastErr.Error()
	}
	return res
}

func (s *directoryService) finish(state DirectoryState, imported int, err error) {
	now := time.Now()
	s.setState(func() {
		s.state = state
		s.imported = imported
		s.lastErr = err
		s.finishedAt = &now
	})
}

func (s *directoryService) setState(apply func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	apply()
}

func failureLabel(err error) string {
	switch {
	case errors.Is(err, directory.ErrNetwork):
		return "network"
	case errors.Is(err, directory.ErrMalformedResponse):
		return "malformed"
	default:
		return "error"
	}
}
