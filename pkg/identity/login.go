package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/idadental/registration/pkg/logger"
)

// Login runs the provider round-trip for one browser session and keeps the
// session's snapshot in a Store.
type Login struct {
	store      Store
	provider   Provider
	logger     *slog.Logger
	stateTTL   time.Duration
	sessionTTL time.Duration
}

// LoginOption configures a Login.
type LoginOption func(*Login)

// WithLoginLogger sets the logger.
func WithLoginLogger(l *slog.Logger) LoginOption {
	return func(s *Login) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStateTTL bounds how long a login round-trip may take.
// Typical wiring: WithStateTTL(auth0Cfg.StateTTL).
func WithStateTTL(ttl time.Duration) LoginOption {
	return func(s *Login) {
		if ttl > 0 {
			s.stateTTL = ttl
		}
	}
}

// WithSessionTTL sets how long an authenticated snapshot is kept.
func WithSessionTTL(ttl time.Duration) LoginOption {
	return func(s *Login) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// NewLogin creates a Login. Defaults: state TTL 10 minutes, session TTL 24 hours,
// logger discards.
func NewLogin(store Store, provider Provider, opts ...LoginOption) *Login {
	s := &Login{
		store:      store,
		provider:   provider,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		stateTTL:   10 * time.Minute,
		sessionTTL: 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Begin starts a login for the session identified by token and returns the
// provider URL to redirect to. The session reports StatusPending until the
// round-trip completes or the state expires.
func (s *Login) Begin(ctx context.Context, token string, conn Connection, returnTo string) (string, error) {
	state, err := generateState()
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}

	if err := s.store.SaveState(ctx, bindState(token, state), SafeReturnPath(returnTo), s.stateTTL); err != nil {
		return "", fmt.Errorf("failed to store state: %w", err)
	}
	if err := s.store.SaveSnapshot(ctx, token, LoadingSnapshot(), s.stateTTL); err != nil {
		return "", fmt.Errorf("failed to store pending snapshot: %w", err)
	}

	url, err := s.provider.AuthURL(state, conn)
	if err != nil {
		return "", fmt.Errorf("failed to build auth url: %w", err)
	}

	s.logger.InfoContext(ctx, "login started",
		logger.Component("identity"),
		slog.String("connection", conn.String()),
	)
	return url, nil
}

// Complete finishes the round-trip started by Begin and returns the path the
// user asked to come back to. Any failure signs the session out so it does
// not stay pending.
func (s *Login) Complete(ctx context.Context, token, code, state string) (string, error) {
	returnTo, err := s.store.ConsumeState(ctx, bindState(token, state))
	if err != nil {
		s.signOut(ctx, token)
		if errors.Is(err, ErrInvalidState) {
			return "", ErrInvalidState
		}
		return "", fmt.Errorf("failed to validate state: %w", err)
	}

	snap, err := s.provider.ResolveSnapshot(ctx, code)
	if err != nil {
		s.signOut(ctx, token)
		return "", fmt.Errorf("failed to resolve identity: %w", err)
	}
	if err := s.store.SaveSnapshot(ctx, token, snap, s.sessionTTL); err != nil {
		return "", fmt.Errorf("failed to store snapshot: %w", err)
	}

	s.logger.InfoContext(ctx, "login completed",
		logger.Component("identity"),
		logger.SubjectID(snap.SubjectID),
		logger.AuthMethod(ClassifySubject(snap.SubjectID).String()),
	)
	return returnTo, nil
}

// Cancel drops a login the provider refused.
func (s *Login) Cancel(ctx context.Context, token string) error {
	return s.Logout(ctx, token)
}

// Logout forgets the session's snapshot.
func (s *Login) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.store.DeleteSnapshot(ctx, token); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// Snapshot returns the session's current snapshot. Sessions without one are
// reported as signed out rather than pending.
func (s *Login) Snapshot(ctx context.Context, token string) (*Snapshot, error) {
	if token == "" {
		return &Snapshot{}, nil
	}
	snap, err := s.store.LoadSnapshot(ctx, token)
	if errors.Is(err, ErrSnapshotNotFound) {
		return &Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return snap, nil
}

func (s *Login) signOut(ctx context.Context, token string) {
	if err := s.store.DeleteSnapshot(ctx, token); err != nil {
		s.logger.WarnContext(ctx, "failed to drop pending snapshot",
			logger.Component("identity"),
			logger.Error(err),
		)
	}
}

// SafeReturnPath keeps only same-origin absolute paths and falls back to "/".
func SafeReturnPath(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return "/"
	}
	return p
}

// bindState ties a state to the session that started the login, so a callback
// replayed in another browser finds nothing.
func bindState(token, state string) string {
	return token + ":" + state
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
