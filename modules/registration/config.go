package registration

import "time"

// Config holds the web module settings.
type Config struct {
	CookieName        string        `env:"SESSION_COOKIE_NAME" envDefault:"ida_session"`
	CookieSecure      bool          `env:"SESSION_COOKIE_SECURE" envDefault:"true"`
	CookieMaxAge      time.Duration `env:"SESSION_COOKIE_MAX_AGE" envDefault:"24h"`
	SessionIdleTTL    time.Duration `env:"SESSION_IDLE_TTL" envDefault:"2h"`
	PruneInterval     time.Duration `env:"SESSION_PRUNE_INTERVAL" envDefault:"5m"`
	PendingRefresh    time.Duration `env:"PENDING_REFRESH_INTERVAL" envDefault:"2s"`
	DataStarScriptURL string        `env:"DATASTAR_SCRIPT_URL" envDefault:"https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.5/bundles/datastar.js"`
}

// DefaultConfig returns the values the env tags default to.
func DefaultConfig() Config {
	return Config{
		CookieName:        "ida_session",
		CookieSecure:      true,
		CookieMaxAge:      24 * time.Hour,
		SessionIdleTTL:    2 * time.Hour,
		PruneInterval:     5 * time.Minute,
		PendingRefresh:    2 * time.Second,
		DataStarScriptURL: "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.5/bundles/datastar.js",
	}
}
