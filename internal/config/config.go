package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Reader
		Navigation
		Database
		Session
		Log
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Reader struct {
		APIURL       string
		CacheEnabled bool
		Offline      bool // keep last-read and preferences in the local settings file
	}
	Navigation struct {
		Language        string
		PersistDelay    time.Duration
		DefaultVersions map[string]string // language -> version name
	}
	Database struct {
		Path string
	}
	Session struct {
		Lifetime time.Duration
	}
	Log struct {
		File  string // reader log; empty: reader.log under the user cache dir
		Level string
	}
	Global struct {
		ShutdownTimeout time.Duration
	}
)

func NewConfig() *Config {
	return FromViper(viper.New())
}

// FromViper reads the configuration from v, falling back to the defaults
// for every unset key. Bound flags win over environment variables.
func FromViper(v *viper.Viper) *Config {
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout", "5s")
	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("cache_enabled", true)
	v.SetDefault("offline", false)
	v.SetDefault("reader_language", "en")
	v.SetDefault("persist_delay", "1s")
	v.SetDefault("default_version_nl", "Statenvertaling")
	v.SetDefault("default_version_en", "ASV")
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("session_lifetime", "720h") // 30 days
	v.SetDefault("log_file", "")
	v.SetDefault("log_level", "info")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Reader: Reader{
			APIURL:       v.GetString("API_URL"),
			CacheEnabled: v.GetBool("CACHE_ENABLED"),
			Offline:      v.GetBool("OFFLINE"),
		},
		Navigation: Navigation{
			Language:     strings.ToLower(v.GetString("READER_LANGUAGE")),
			PersistDelay: v.GetDuration("PERSIST_DELAY"),
			DefaultVersions: map[string]string{
				"nl": v.GetString("DEFAULT_VERSION_NL"),
				"en": v.GetString("DEFAULT_VERSION_EN"),
			},
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Session: Session{
			Lifetime: v.GetDuration("SESSION_LIFETIME"),
		},
		Log: Log{
			File:  v.GetString("LOG_FILE"),
			Level: v.GetString("LOG_LEVEL"),
		},
		Global: Global{
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
	}
}

// DefaultVersion returns the version configured for the navigation language.
func (c *Config) DefaultVersion() string {
	return c.Navigation.DefaultVersions[c.Navigation.Language]
}

// SlogLevel maps the configured level name onto a slog.Level. Unknown names
// mean info.
func (l Log) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
