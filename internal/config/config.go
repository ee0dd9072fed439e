// Package config loads service settings from the environment, an optional .env file
// and an optional config.yaml. Missing provider credentials are not an error: the
// service degrades to fallback data instead.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Addr           string        `mapstructure:"addr"`
		AllowedOrigins []string      `mapstructure:"allowed_origins"`
		ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	} `mapstructure:"server"`
	Spotify struct {
		ClientID      string        `mapstructure:"client_id"`
		ClientSecret  string        `mapstructure:"client_secret"`
		BaseURL       string        `mapstructure:"base_url"`
		TokenURL      string        `mapstructure:"token_url"`
		Market        string        `mapstructure:"market"`
		Timeout       time.Duration `mapstructure:"timeout"`
		MaxRetries    int           `mapstructure:"max_retries"`
		RetryBackoff  time.Duration `mapstructure:"retry_backoff"`
		RateLimit     float64       `mapstructure:"rate_limit"`
		RateBurst     int           `mapstructure:"rate_burst"`
		RefreshMargin time.Duration `mapstructure:"token_refresh_margin"`
	} `mapstructure:"spotify"`
	YouTube struct {
		APIKey  string        `mapstructure:"api_key"`
		BaseURL string        `mapstructure:"base_url"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"youtube"`
	Cache struct {
		VideoCapacity int           `mapstructure:"video_capacity"`
		VideoTTL      time.Duration `mapstructure:"video_ttl"`
	} `mapstructure:"cache"`
	Catalog struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"catalog"`
	Worker struct {
		PrefetchWorkers int `mapstructure:"prefetch_workers"`
		QueueSize       int `mapstructure:"queue_size"`
	} `mapstructure:"worker"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
}

// SpotifyConfigured reports whether both client credentials are present.
func (c *Config) SpotifyConfigured() bool {
	return c.Spotify.ClientID != "" && c.Spotify.ClientSecret != ""
}

// YouTubeConfigured reports whether a video API key is present.
func (c *Config) YouTubeConfigured() bool {
	return c.YouTube.APIKey != ""
}

// Load reads configuration. envFiles are passed to godotenv; a missing file is ignored.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		slog.Debug("config: no .env loaded", "error", err)
	}

	v := viper.New()
	v.SetEnvPrefix("MASHUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read config.yaml: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	if !cfg.SpotifyConfigured() {
		slog.Warn("config: spotify credentials missing, search will use the sample catalog")
	}
	if !cfg.YouTubeConfigured() {
		slog.Warn("config: youtube api key missing, video lookups will return placeholders")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.read_timeout", 15*time.Second)

	v.SetDefault("spotify.base_url", "https://api.spotify.com/v1")
	v.SetDefault("spotify.token_url", "https://accounts.spotify.com/api/token")
	v.SetDefault("spotify.market", "US")
	v.SetDefault("spotify.timeout", 8*time.Second)
	v.SetDefault("spotify.max_retries", 2)
	v.SetDefault("spotify.retry_backoff", 300*time.Millisecond)
	v.SetDefault("spotify.rate_limit", 10.0)
	v.SetDefault("spotify.rate_burst", 5)
	v.SetDefault("spotify.token_refresh_margin", 120*time.Second)

	v.SetDefault("youtube.base_url", "https://www.googleapis.com/youtube/v3")
	v.SetDefault("youtube.timeout", 8*time.Second)

	v.SetDefault("cache.video_capacity", 512)
	v.SetDefault("cache.video_ttl", 6*time.Hour)

	v.SetDefault("catalog.path", ":memory:")

	v.SetDefault("worker.prefetch_workers", 2)
	v.SetDefault("worker.queue_size", 64)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// bindEnv registers keys that have no default so AutomaticEnv can see them,
// plus the unprefixed names used by earlier deployments.
func bindEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"spotify.client_id":     {"MASHUP_SPOTIFY_CLIENT_ID", "SPOTIFY_CLIENT_ID"},
		"spotify.client_secret": {"MASHUP_SPOTIFY_CLIENT_SECRET", "SPOTIFY_CLIENT_SECRET"},
		"youtube.api_key":       {"MASHUP_YOUTUBE_API_KEY", "YOUTUBE_API_KEY"},
		"log.level":             {"MASHUP_LOG_LEVEL", "LOG_LEVEL"},
	}
	for key, envs := range bindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("config: bind %s: %w", key, err)
		}
	}
	return nil
}
