package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willvault/registry/pkg/config"
)

type serverConfig struct {
	Addr  string `env:"TEST_HTTP_ADDR" envDefault:":8080"`
	Debug bool   `env:"TEST_DEBUG" envDefault:"false"`
}

type requiredConfig struct {
	Secret string `env:"TEST_REQUIRED_SECRET,required"`
}

func TestLoadDefaults(t *testing.T) {
	var cfg serverConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, ":8080", cfg.Addr)
	assert.False(t, cfg.Debug)
}

func TestLoadCachesPerType(t *testing.T) {
	var first serverConfig
	require.NoError(t, config.Load(&first))

	// Env changes after the first load are not observed for the same type.
	t.Setenv("TEST_HTTP_ADDR", ":9999")
	var second serverConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, first.Addr, second.Addr)
}

func TestLoadRequiredMissing(t *testing.T) {
	var cfg requiredConfig
	err := config.Load(&cfg)
	require.ErrorIs(t, err, config.ErrParsingError)
}

func TestLoadNilPointer(t *testing.T) {
	assert.ErrorIs(t, config.Load[serverConfig](nil), config.ErrNilPointer)
}
