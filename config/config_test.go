package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()
	cfg := Default()
	assert.Equal(t, "wss://ws.kraken.com/v2", cfg.WSPublicURL)
	assert.Equal(t, "KRAKEN", cfg.CredentialPrefix)
}

func TestLoadWithNoFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().WSPrivateURL, cfg.WSPrivateURL)
}

func TestLoadHonorsEnvironmentOverride(t *testing.T) {
	os.Setenv("KRAKEN_LOG_LEVEL", "debug")
	defer os.Unsetenv("KRAKEN_LOG_LEVEL")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}
