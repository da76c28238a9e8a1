package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Storage backend selectors accepted in [StorageConfig.Backend].
const (
	BackendFilesystem = "filesystem"
	BackendS3         = "s3"
	BackendSQLite     = "sqlite"
)

// DefaultCheckInterval is the poll interval (seconds) used when none is configured.
const DefaultCheckInterval = 60

// Config represents the application configuration loaded from a TOML file,
// with environment variables taking precedence over file values.
type Config struct {
	Spotify  SpotifyConfig  `toml:"spotify"`
	Telegram TelegramConfig `toml:"telegram"`
	Storage  StorageConfig  `toml:"storage"`
	Watch    WatchConfig    `toml:"watch"`
}

// SpotifyConfig contains Spotify API credentials and the watched playlist.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	PlaylistID   string `toml:"playlist_id"`
}

// TelegramConfig contains the bot token and destination chat.
type TelegramConfig struct {
	BotToken string `toml:"bot_token"`
	ChatID   string `toml:"chat_id"`
}

// StorageConfig selects the snapshot store backend and its location parameters.
type StorageConfig struct {
	Backend    string           `toml:"backend"`
	Filesystem FilesystemConfig `toml:"filesystem"`
	S3         S3Config         `toml:"s3"`
	SQLite     SQLiteConfig     `toml:"sqlite"`
}

// FilesystemConfig contains settings for the filesystem store.
type FilesystemConfig struct {
	Path string `toml:"path"`
}

// S3Config contains settings for the S3 store. AccessKeyID and SecretAccessKey
// are optional; when empty the SDK's default credential chain applies.
type S3Config struct {
	Region          string `toml:"region"`
	Bucket          string `toml:"bucket"`
	AccessKeyID     string `toml:"access_key_id"`
	SecretAccessKey string `toml:"secret_access_key"`
}

// SQLiteConfig contains settings for the SQLite store.
type SQLiteConfig struct {
	Path string `toml:"path"`
}

// WatchConfig contains watch loop settings.
type WatchConfig struct {
	IntervalSeconds int `toml:"interval_seconds"`
	// NotifyOnFirstRun sends a message for every track already on the playlist
	// when no baseline exists yet. Off by default to avoid a notification storm.
	NotifyOnFirstRun bool `toml:"notify_on_first_run"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path,
// then applies environment variable overrides. A `.env` file in the working
// directory is loaded first when present.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	config.applyEnv()
	return &config, nil
}

// DefaultConfig returns a Config built from the embedded example config with
// environment variable overrides applied.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnv overrides file values with environment variables, matching the
// variable names the original deployment used.
func (c *Config) applyEnv() {
	_ = godotenv.Load()

	setString(&c.Spotify.ClientID, "SPOTIFY_CLIENT_ID")
	setString(&c.Spotify.ClientSecret, "SPOTIFY_CLIENT_SECRET")
	setString(&c.Spotify.PlaylistID, "SPOTIFY_PLAYLIST_ID")
	setString(&c.Telegram.BotToken, "BOT_TOKEN")
	setString(&c.Telegram.ChatID, "TARGET_CHAT_ID")
	setString(&c.Storage.Backend, "STORAGE_BACKEND")
	setString(&c.Storage.Filesystem.Path, "FILESYSTEM_STORAGE_PATH")
	setString(&c.Storage.S3.Region, "S3_REGION")
	setString(&c.Storage.S3.Bucket, "S3_BUCKET")
	setString(&c.Storage.S3.AccessKeyID, "S3_ACCESS_KEY_ID")
	setString(&c.Storage.S3.SecretAccessKey, "S3_SECRET_ACCESS_KEY")
	setString(&c.Storage.SQLite.Path, "SQLITE_PATH")

	if v := os.Getenv("CHECK_INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Watch.IntervalSeconds = n
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks that every value required for the configured backend is
// present and fills defaults. Returns [ErrMissingConfig] or [ErrInvalidConfig].
func (c *Config) Validate() error {
	if c.Spotify.ClientID == "" {
		return fmt.Errorf("%w: spotify.client_id", ErrMissingConfig)
	}
	if c.Spotify.ClientSecret == "" {
		return fmt.Errorf("%w: spotify.client_secret", ErrMissingConfig)
	}
	if c.Spotify.PlaylistID == "" {
		return fmt.Errorf("%w: spotify.playlist_id", ErrMissingConfig)
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("%w: telegram.bot_token", ErrMissingConfig)
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("%w: telegram.chat_id", ErrMissingConfig)
	}

	if c.Watch.IntervalSeconds == 0 {
		c.Watch.IntervalSeconds = DefaultCheckInterval
	}
	if c.Watch.IntervalSeconds < 0 {
		return fmt.Errorf("%w: watch.interval_seconds must be positive", ErrInvalidConfig)
	}

	switch c.Storage.Backend {
	case "":
		c.Storage.Backend = BackendFilesystem
		fallthrough
	case BackendFilesystem:
		if c.Storage.Filesystem.Path == "" {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("%w: storage.filesystem.path", ErrMissingConfig)
			}
			c.Storage.Filesystem.Path = wd
		}
	case BackendS3:
		if c.Storage.S3.Region == "" {
			return fmt.Errorf("%w: storage.s3.region", ErrMissingConfig)
		}
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("%w: storage.s3.bucket", ErrMissingConfig)
		}
	case BackendSQLite:
		if c.Storage.SQLite.Path == "" {
			return fmt.Errorf("%w: storage.sqlite.path", ErrMissingConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalidConfig, c.Storage.Backend)
	}

	return nil
}
