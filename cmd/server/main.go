package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/idadental/registration/modules/registration"
	"github.com/idadental/registration/pkg/config"
	"github.com/idadental/registration/pkg/httpserver"
	"github.com/idadental/registration/pkg/identity"
	"github.com/idadental/registration/pkg/logger"
	"github.com/idadental/registration/pkg/metrics"
	"github.com/idadental/registration/pkg/notifications"
	"github.com/idadental/registration/pkg/pg"
	"github.com/idadental/registration/pkg/redis"
	regform "github.com/idadental/registration/pkg/registration"
)

func main() {
	var logCfg logger.Config
	config.MustLoad(&logCfg)

	log := logger.New(append(logger.FromConfig(logCfg),
		logger.WithContextExtractors(logger.RequestIDExtractor, identity.SubjectExtractor),
	)...)
	slog.SetDefault(log)

	if err := run(log); err != nil {
		log.Error("server stopped with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	var (
		httpCfg  httpserver.Config
		pgCfg    pg.Config
		redisCfg redis.Config
		auth0Cfg identity.Auth0Config
		webCfg   registration.Config
	)
	for _, load := range []func() error{
		func() error { return config.Load(&httpCfg) },
		func() error { return config.Load(&pgCfg) },
		func() error { return config.Load(&redisCfg) },
		func() error { return config.Load(&auth0Cfg) },
		func() error { return config.Load(&webCfg) },
	} {
		if err := load(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, regform.Migrations, pgCfg, log); err != nil {
		return err
	}

	rdb, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()

	login := identity.NewLogin(
		identity.NewRedisStore(rdb),
		identity.NewAuth0Provider(auth0Cfg),
		identity.WithStateTTL(auth0Cfg.StateTTL),
		identity.WithSessionTTL(auth0Cfg.SessionTTL),
		identity.WithLoginLogger(log),
	)

	reg := metrics.NewRegistry()
	m := metrics.New(reg)

	manager := notifications.NewManager(notifications.NewMemoryStorage(),
		notifications.WithManagerLogger(log),
		notifications.WithDeliverer(notifications.NewMultiDeliverer(log,
			notifications.DelivererFunc(func(ctx context.Context, n notifications.Notification) error {
				log.DebugContext(ctx, "toast queued",
					logger.Component("notifications"),
					slog.String("type", string(n.Type)),
					slog.String("title", n.Title),
				)
				return nil
			}),
			m.ToastDeliverer(),
		)),
	)

	web := registration.NewService(webCfg, login, regform.NewRepository(pool), manager,
		registration.WithLogger(log),
		registration.WithMetrics(m),
	)
	go web.Run(ctx)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(log, map[string]httpserver.Check{
		"postgres": pg.Healthcheck(pool),
		"redis":    redis.Healthcheck(rdb),
	}))
	r.Method(http.MethodGet, "/metrics", metrics.Handler(reg))
	r.Mount("/", web.Handle())

	return httpserver.New(httpCfg, log).Run(ctx, r)
}
