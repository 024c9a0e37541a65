package search

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type session struct {
	orch *Orchestrator
	seen time.Time
}

// Sessions maps client session ids to their orchestrators and forgets
// sessions idle for longer than the configured duration.
type Sessions struct {
	mu      sync.Mutex
	byID    map[string]*session
	factory func() *Orchestrator
	idle    time.Duration
	now     func() time.Time
	log     *zap.Logger
}

func NewSessions(factory func() *Orchestrator, idle time.Duration, log *zap.Logger) *Sessions {
	return &Sessions{
		byID:    make(map[string]*session),
		factory: factory,
		idle:    idle,
		now:     time.Now,
		log:     log,
	}
}

// Get returns the orchestrator for id, creating it on first use.
func (s *Sessions) Get(id string) *Orchestrator {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byID[id]
	if !ok {
		sess = &session{orch: s.factory()}
		s.byID[id] = sess
		s.log.Debug("session created", zap.String("session", id))
	}
	sess.seen = s.now()
	return sess.orch
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// Sweep drops idle sessions that are not mid-search and reports how many
// were removed.
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.idle)
	removed := 0
	for id, sess := range s.byID {
		if sess.seen.After(cutoff) || sess.orch.State().Status == Loading {
			continue
		}
		delete(s.byID, id)
		removed++
	}
	if removed > 0 {
		s.log.Debug("idle sessions swept", zap.Int("removed", removed), zap.Int("remaining", len(s.byID)))
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (s *Sessions) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
