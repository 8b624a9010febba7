package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idadental/registration/pkg/config"
)

type defaultsConfig struct {
	Name    string        `env:"CFG_TEST_NAME" envDefault:"ida"`
	Port    int           `env:"CFG_TEST_PORT" envDefault:"8080"`
	Timeout time.Duration `env:"CFG_TEST_TIMEOUT" envDefault:"5s"`
	Scopes  []string      `env:"CFG_TEST_SCOPES" envSeparator:"," envDefault:"openid,email"`
}

type overrideConfig struct {
	Name string `env:"CFG_TEST_OVERRIDE" envDefault:"default"`
}

type requiredConfig struct {
	Secret string `env:"CFG_TEST_REQUIRED_SECRET,required"`
}

func TestLoad_Defaults(t *testing.T) {
	config.Reset()

	var cfg defaultsConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "ida", cfg.Name)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"openid", "email"}, cfg.Scopes)
}

func TestLoad_CachesPerType(t *testing.T) {
	config.Reset()
	t.Setenv("CFG_TEST_OVERRIDE", "first")

	var first overrideConfig
	require.NoError(t, config.Load(&first))
	assert.Equal(t, "first", first.Name)

	t.Setenv("CFG_TEST_OVERRIDE", "second")
	var second overrideConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "first", second.Name, "cached value wins")

	config.Reset()
	var third overrideConfig
	require.NoError(t, config.Load(&third))
	assert.Equal(t, "second", third.Name)
}

func TestLoad_Errors(t *testing.T) {
	config.Reset()

	var missing requiredConfig
	assert.ErrorIs(t, config.Load(&missing), config.ErrParsingConfig)
	assert.ErrorIs(t, config.Load[requiredConfig](nil), config.ErrNilPointer)
	assert.Panics(t, func() { config.MustLoad(&missing) })
}
