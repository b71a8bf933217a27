// Package config loads runtime configuration for the Kraken client over
// spf13/viper, the pack's established config library.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/hitakshiA/Havklo-sdk-sub000/event"
	"github.com/hitakshiA/Havklo-sdk-sub000/ratelimit"
	"github.com/hitakshiA/Havklo-sdk-sub000/reconnect"
	"github.com/hitakshiA/Havklo-sdk-sub000/types"
)

// Config is the client's full runtime configuration (spec §6).
type Config struct {
	WSPublicURL  string
	WSPrivateURL string
	RESTBaseURL  string

	Symbols      []string
	DefaultDepth types.Depth

	ConnectTimeout time.Duration
	Reconnect      reconnect.Config

	RateLimits ratelimit.Config

	EventChannelMode     event.Mode
	EventChannelCapacity int

	LogLevel string

	CredentialPrefix string
}

// Default returns the client's baseline configuration before any
// environment or file overrides are applied.
func Default() Config {
	return Config{
		WSPublicURL:          "wss://ws.kraken.com/v2",
		WSPrivateURL:         "wss://ws-auth.kraken.com/v2",
		RESTBaseURL:          "https://api.kraken.com",
		DefaultDepth:         types.DefaultDepth,
		ConnectTimeout:       10 * time.Second,
		Reconnect:            reconnect.DefaultConfig(),
		RateLimits:           ratelimit.KrakenDefaults(),
		EventChannelMode:     event.Unbounded,
		EventChannelCapacity: 1024,
		LogLevel:             "info",
		CredentialPrefix:     "KRAKEN",
	}
}

// Load reads configuration from the given file path (if non-empty),
// overlaying environment variables under the KRAKEN_ prefix, and falling
// back to Default for anything unset.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("KRAKEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("ws_public_url", def.WSPublicURL)
	v.SetDefault("ws_private_url", def.WSPrivateURL)
	v.SetDefault("rest_base_url", def.RESTBaseURL)
	v.SetDefault("connect_timeout", def.ConnectTimeout)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("credential_prefix", def.CredentialPrefix)
	v.SetDefault("event_channel_capacity", def.EventChannelCapacity)
	v.SetDefault("symbols", []string{})

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	cfg := def
	cfg.WSPublicURL = v.GetString("ws_public_url")
	cfg.WSPrivateURL = v.GetString("ws_private_url")
	cfg.RESTBaseURL = v.GetString("rest_base_url")
	cfg.ConnectTimeout = v.GetDuration("connect_timeout")
	cfg.LogLevel = v.GetString("log_level")
	cfg.CredentialPrefix = v.GetString("credential_prefix")
	cfg.EventChannelCapacity = v.GetInt("event_channel_capacity")
	if symbols := v.GetStringSlice("symbols"); len(symbols) > 0 {
		cfg.Symbols = symbols
	}

	return cfg, nil
}
