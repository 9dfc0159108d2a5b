package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/rocketscienceinc/flashcards-backend/internal/pkg"
)

// SessionFactory builds a fresh session for userID.
type SessionFactory func(ctx context.Context, userID string) *StudySession

// SessionManager keeps one StudySession per user and evicts the idle ones.
type SessionManager struct {
	logger  *slog.Logger
	ctx     context.Context
	factory SessionFactory
	ttl     time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*StudySession

	scheduler *gocron.Scheduler
}

func NewSessionManager(ctx context.Context, logger *slog.Logger, factory SessionFactory, ttl time.Duration) *SessionManager {
	return &SessionManager{
		logger:    logger.With("component", "sessions"),
		ctx:       ctx,
		factory:   factory,
		ttl:       ttl,
		now:       time.Now,
		sessions:  make(map[string]*StudySession),
		scheduler: gocron.NewScheduler(time.UTC),
	}
}

// Start runs the idle sweep every interval until Stop.
func (that *SessionManager) Start(interval time.Duration) error {
	if _, err := that.scheduler.Every(interval).WaitForSchedule().Do(that.Sweep); err != nil {
		return fmt.Errorf("failed to schedule session sweep: %w", err)
	}

	that.scheduler.StartAsync()

	return nil
}

// Stop halts the sweep and logs every session out.
func (that *SessionManager) Stop() {
	that.scheduler.Stop()

	that.mu.Lock()
	sessions := that.sessions
	that.sessions = make(map[string]*StudySession)
	that.mu.Unlock()

	for _, session := range sessions {
		session.Logout()
	}
}

// GetOrCreate returns the session of userID, creating it on first use.
// An empty userID gets a newly generated one.
func (that *SessionManager) GetOrCreate(userID string) *StudySession {
	if userID == "" {
		userID = pkg.GenerateNewSessionID()
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if session, ok := that.sessions[userID]; ok {
		return session
	}

	session := that.factory(that.ctx, userID)
	that.sessions[userID] = session

	that.logger.Info("session created", "user", userID)

	return session
}

// Logout clears and forgets the session of userID.
func (that *SessionManager) Logout(userID string) {
	that.mu.Lock()
	session, ok := that.sessions[userID]
	delete(that.sessions, userID)
	that.mu.Unlock()

	if ok {
		session.Logout()
	}
}

// Sweep logs out every session idle for longer than the ttl and reports how many were evicted.
func (that *SessionManager) Sweep() int {
	deadline := that.now().Add(-that.ttl)

	that.mu.Lock()
	idle := make([]*StudySession, 0)
	for userID, session := range that.sessions {
		if session.LastActive().Before(deadline) {
			idle = append(idle, session)
			delete(that.sessions, userID)
		}
	}
	that.mu.Unlock()

	for _, session := range idle {
		session.Logout()
	}

	if len(idle) > 0 {
		that.logger.Info("idle sessions evicted", "count", len(idle))
	}

	return len(idle)
}
