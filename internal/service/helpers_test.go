package service

import (
	"context"
	"sync"
	"time"

	"user-directory-be/internal/pkg/logger"
	"user-directory-be/internal/pkg/metrics"
	"user-directory-be/internal/repository/memory"
	"user-directory-be/pkg/events"
	"user-directory-be/pkg/identifier"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

type logLine struct {
	Level   string
	Module  string
	Message string
	Details map[string]interface{}
}

// recordingLogger keeps every line so tests can assert on what was logged.
type recordingLogger struct {
	mu    sync.Mutex
	lines []logLine
}

func (l *recordingLogger) add(level, module, message string, details map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, logLine{Level: level, Module: module, Message: message, Details: details})
}

func (l *recordingLogger) Debug(module, message string, details map[string]interface{}) {
	l.add("DEBUG", module, message, details)
}

func (l *recordingLogger) Info(module, message string, details map[string]interface{}) {
	l.add("INFO", module, message, details)
}

func (l *recordingLogger) Warn(module, message string, details map[string]interface{}) {
	l.add("WARN", module, message, details)
}

func (l *recordingLogger) Error(module, message string, details map[string]interface{}) {
	l.add("ERROR", module, message, details)
}

func (l *recordingLogger) Sync() error { return nil }

func (l *recordingLogger) snapshot() []logLine {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]logLine(nil), l.lines...)
}

var _ logger.ILogger = (*recordingLogger)(nil)

type testStack struct {
	repo      *memory.UserRepository
	delivery  *recordingDelivery
	notifier  *NotificationService
	publisher *recordingPublisher
	metrics   *metrics.Metrics
	log       *recordingLogger
	users     IUserService
}

func newTestStack() *testStack {
	st := &testStack{
		repo:      memory.NewUserRepository(identifier.NewSequenceGenerator(time.UnixMilli(100))),
		delivery:  newRecordingDelivery(),
		publisher: &recordingPublisher{},
		metrics:   metrics.New(),
		log:       &recordingLogger{},
	}
	st.notifier = NewNotificationService(time.Minute, st.delivery, st.metrics, st.log)
	st.users = NewUserService(st.repo, st.publisher, st.notifier, st.metrics, st.log)
	return st
}
