package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"storyhub/internal/auth"
)

// Config holds all configuration for the application.
type Config struct {
	Port             string        `mapstructure:"PORT"`
	GinMode          string        `mapstructure:"GIN_MODE"`
	DBPath           string        `mapstructure:"DB_PATH"`
	KeyPrefix        string        `mapstructure:"KEY_PREFIX"`
	SeedPath         string        `mapstructure:"SEED_PATH"`
	JWTSecret        string        `mapstructure:"JWT_SECRET"`
	SessionTTL       time.Duration `mapstructure:"SESSION_TTL"`
	WriterUsername   string        `mapstructure:"WRITER_USERNAME"`
	WriterPassword   string        `mapstructure:"WRITER_PASSWORD"`
	WriterName       string        `mapstructure:"WRITER_NAME"`
	WriterEmail      string        `mapstructure:"WRITER_EMAIL"`
	AutosaveInterval time.Duration `mapstructure:"AUTOSAVE_INTERVAL"`
	MaxUploadBytes   int64         `mapstructure:"MAX_UPLOAD_BYTES"`
	ClientURL        string        `mapstructure:"CLIENT_URL"`
	LogLevel         string        `mapstructure:"LOG_LEVEL"`
}

var defaults = map[string]any{
	"PORT":              "8080",
	"GIN_MODE":          "debug",
	"DB_PATH":           "./data/storyhub.db",
	"KEY_PREFIX":        "storyhub_",
	"SEED_PATH":         "./data/stories.json",
	"JWT_SECRET":        "dev-secret-change-me",
	"SESSION_TTL":       "24h",
	"WRITER_USERNAME":   "hannie",
	"WRITER_PASSWORD":   "hannie123",
	"WRITER_NAME":       "Hannie",
	"WRITER_EMAIL":      "hannie@bookstories.com",
	"AUTOSAVE_INTERVAL": "30s",
	"MAX_UPLOAD_BYTES":  2 * 1024 * 1024,
	"CLIENT_URL":        "http://localhost:3000",
	"LOG_LEVEL":         "info",
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	// a missing .env is normal outside development
	_ = godotenv.Load()
	return FromViper(viper.New())
}

// FromViper resolves the configuration from v with defaults applied.
func FromViper(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for k, def := range defaults {
		v.SetDefault(k, def)
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.AutosaveInterval <= 0 {
		return errors.New("AUTOSAVE_INTERVAL must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	if c.WriterUsername == "" || c.WriterPassword == "" {
		return errors.New("WRITER_USERNAME and WRITER_PASSWORD are required")
	}
	return nil
}

// Writer returns the reserved author account.
func (c *Config) Writer() auth.Writer {
	return auth.Writer{
		Username:      c.WriterUsername,
		Password:      c.WriterPassword,
		Name:          c.WriterName,
		Email:         c.WriterEmail,
		Bio:           "Author and storyteller",
		FavoriteGenre: "Romance",
	}
}
