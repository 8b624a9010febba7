package registration

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/idadental/registration/handler"
	"github.com/idadental/registration/pkg/binder"
	"github.com/idadental/registration/pkg/identity"
	"github.com/idadental/registration/pkg/logger"
	"github.com/idadental/registration/pkg/metrics"
	"github.com/idadental/registration/pkg/notifications"
	regform "github.com/idadental/registration/pkg/registration"
)

// Service serves the registration page: sign-in choices while signed out,
// a loading state while a login is in flight and the adaptive form once the
// identity is ready.
type Service struct {
	cfg           Config
	login         *identity.Login
	saver         regform.Saver
	notifications *notifications.Manager
	metrics       *metrics.Metrics
	views         Views
	sessions      *sessions
	logger        *slog.Logger
	errorHandler  handler.ErrorHandler[handler.Context]
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. Defaults to discarding.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records submissions, logins and mounted forms.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithViews replaces the default templates.
func WithViews(v Views) Option {
	return func(s *Service) {
		s.views = v
	}
}

// WithErrorHandler overrides the error handler built from the views.
func WithErrorHandler(h handler.ErrorHandler[handler.Context]) Option {
	return func(s *Service) {
		s.errorHandler = h
	}
}

// NewService wires the module. saver persists submitted registrations and
// manager carries the outcome toasts to the browser session.
func NewService(cfg Config, login *identity.Login, saver regform.Saver, manager *notifications.Manager, opts ...Option) *Service {
	s := &Service{
		cfg:           cfg,
		login:         login,
		saver:         saver,
		notifications: manager,
		views:         DefaultViews(),
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.errorHandler == nil {
		s.errorHandler = handler.NewErrorHandler(s.logger, handler.ErrorHandlerConfig{
			ErrorPage:  s.views.ErrorPage,
			ErrorToast: s.views.ErrorToast,
		})
	}

	s.sessions = newSessions(s.buildForm, s.logger)
	s.sessions.released = s.forgetToasts
	if s.metrics != nil {
		s.sessions.mounted = func(delta int) { s.metrics.FormsActive.Add(float64(delta)) }
	}
	return s
}

// forgetToasts discards the toasts of a session that is gone.
func (s *Service) forgetToasts(token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.notifications.Forget(ctx, token); err != nil {
		s.logger.WarnContext(ctx, "failed to forget notifications",
			logger.Component("registration_web"),
			logger.Error(err),
		)
	}
}

// Handle returns the module's routes.
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()
	r.Use(s.profileContext)

	r.Get("/", handler.Wrap(s.index,
		handler.WithErrorHandler[handler.Context, struct{}](s.errorHandler),
	))
	r.Get("/login", handler.Wrap(s.startLogin,
		handler.WithBinders[handler.Context, loginRequest](binder.Query()),
		handler.WithErrorHandler[handler.Context, loginRequest](s.errorHandler),
	))
	r.Get("/callback", handler.Wrap(s.callback,
		handler.WithBinders[handler.Context, callbackRequest](binder.Query()),
		handler.WithErrorHandler[handler.Context, callbackRequest](s.errorHandler),
	))
	r.Post("/logout", handler.Wrap(s.logout,
		handler.WithErrorHandler[handler.Context, struct{}](s.errorHandler),
	))

	r.Post("/register", handler.Wrap(s.submit,
		handler.WithBinders[handler.Context, draftRequest](binder.Form()),
		handler.WithErrorHandler[handler.Context, draftRequest](s.errorHandler),
	))
	r.Post("/register/field", handler.Wrap(s.setField,
		handler.WithBinders[handler.Context, fieldRequest](binder.Query(), binder.Form()),
		handler.WithErrorHandler[handler.Context, fieldRequest](s.errorHandler),
	))
	r.Post("/register/clinic", handler.Wrap(s.toggleClinic,
		handler.WithBinders[handler.Context, draftRequest](binder.Form()),
		handler.WithErrorHandler[handler.Context, draftRequest](s.errorHandler),
	))

	return r
}

// Run prunes idle sessions until ctx is done.
func (s *Service) Run(ctx context.Context) {
	s.sessions.runPruner(ctx, s.cfg.PruneInterval, s.cfg.SessionIdleTTL)
}

func (s *Service) buildForm(token string, p identity.Profile) (*regform.Form, error) {
	opts := []regform.Option{
		regform.WithLogger(s.logger),
		regform.WithNotifier(toastNotifier{manager: s.notifications, recipient: token}),
	}
	if s.metrics != nil {
		opts = append(opts, regform.WithObserver(s.metrics.FormObserver(p.AuthMethod.String())))
	}
	return regform.New(p, regform.Submitter(s.saver, p), opts...)
}

// profileContext stores the session's ready profile in the request context.
func (s *Service) profileContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := s.sessionToken(r); token != "" {
			if sess, ok := s.sessions.lookup(token); ok {
				if p, st := sess.adapter.Current(); st == identity.StatusReady {
					r = r.WithContext(identity.WithProfile(r.Context(), p))
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

// sessionToken returns the session cookie value or "".
func (s *Service) sessionToken(r *http.Request) string {
	c, err := r.Cookie(s.cfg.CookieName)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return ""
	}
	return c.Value
}

// ensureSession returns the session token, issuing a new cookie when missing.
func (s *Service) ensureSession(w http.ResponseWriter, r *http.Request) string {
	if token := s.sessionToken(r); token != "" {
		return token
	}
	token := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.cfg.CookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}

func (s *Service) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
