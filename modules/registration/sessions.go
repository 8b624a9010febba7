package registration

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/idadental/registration/pkg/identity"
	"github.com/idadental/registration/pkg/logger"
	regform "github.com/idadental/registration/pkg/registration"
)

// formBuilder constructs the form of one session from its first ready profile.
type formBuilder func(token string, p identity.Profile) (*regform.Form, error)

// session is the server-side state of one browser session: the identity
// adapter it observes snapshots through and the form mounted for it.
type session struct {
	token       string
	adapter     *identity.Adapter
	unsubscribe func()

	mu       sync.Mutex
	form     *regform.Form
	lastSeen time.Time
}

func (s *session) currentForm() *regform.Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// sessions keeps one session per cookie token.
type sessions struct {
	mu      sync.Mutex
	byToken map[string]*session
	build   formBuilder
	logger  *slog.Logger
	now     func() time.Time

	// mounted is called with +1 and -1 as forms come and go.
	mounted func(delta int)
	// released is called with the token of every dropped or pruned session.
	released func(token string)
}

func newSessions(build formBuilder, log *slog.Logger) *sessions {
	return &sessions{
		byToken:  make(map[string]*session),
		build:    build,
		logger:   log,
		now:      time.Now,
		mounted:  func(int) {},
		released: func(string) {},
	}
}

// get returns the session for token, creating it on first use.
func (r *sessions) get(token string) *session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.byToken[token]; ok {
		s.mu.Lock()
		s.lastSeen = r.now()
		s.mu.Unlock()
		return s
	}

	s := &session{
		token:    token,
		adapter:  identity.NewAdapter(),
		lastSeen: r.now(),
	}
	s.unsubscribe = s.adapter.Subscribe(func(p identity.Profile, st identity.Status) {
		r.onProfile(s, p, st)
	})
	r.byToken[token] = s
	return s
}

// lookup returns the session for token without creating one.
func (r *sessions) lookup(token string) (*session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byToken[token]
	return s, ok
}

// onProfile mounts a form on the first ready profile and unmounts it when the
// session signs out. A mounted form is never re-seeded; only a different
// subject replaces it.
func (r *sessions) onProfile(s *session, p identity.Profile, st identity.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch st {
	case identity.StatusReady:
		if s.form != nil && s.form.Profile().SubjectID == p.SubjectID {
			return
		}
		f, err := r.build(s.token, p)
		if err != nil {
			r.logger.Error("failed to mount registration form",
				logger.Component("registration_web"),
				logger.SubjectID(p.SubjectID),
				logger.Error(err),
			)
			return
		}
		if s.form == nil {
			r.mounted(1)
		}
		s.form = f
	case identity.StatusUnauthenticated:
		if s.form != nil {
			s.form = nil
			r.mounted(-1)
		}
	}
}

// drop unmounts the form of token and forgets the session.
func (r *sessions) drop(token string) {
	r.mu.Lock()
	s, ok := r.byToken[token]
	delete(r.byToken, token)
	r.mu.Unlock()

	if ok {
		r.release(s)
	}
}

func (r *sessions) release(s *session) {
	s.unsubscribe()
	s.mu.Lock()
	if s.form != nil {
		s.form = nil
		r.mounted(-1)
	}
	s.mu.Unlock()
	r.released(s.token)
}

// prune forgets sessions idle for longer than maxIdle and returns how many it removed.
func (r *sessions) prune(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	var idle []*session
	for token, s := range r.byToken {
		s.mu.Lock()
		stale := s.lastSeen.Before(cutoff)
		s.mu.Unlock()
		if stale {
			idle = append(idle, s)
			delete(r.byToken, token)
		}
	}
	r.mu.Unlock()

	for _, s := range idle {
		r.release(s)
	}
	return len(idle)
}

// runPruner prunes every interval until ctx is done.
func (r *sessions) runPruner(ctx context.Context, interval, maxIdle time.Duration) {
	if interval <= 0 || maxIdle <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.prune(maxIdle); n > 0 {
				r.logger.Debug("pruned idle sessions",
					logger.Component("registration_web"),
					slog.Int("count", n),
				)
			}
		}
	}
}

func (r *sessions) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byToken)
}
