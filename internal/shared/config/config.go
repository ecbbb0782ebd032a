package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

type TelegramConfig struct {
	APIID       int    `koanf:"api_id" validate:"required"`
	APIHash     string `koanf:"api_hash" validate:"required"`
	Phone       string `koanf:"phone" validate:"required"`
	SessionFile string `koanf:"session_file"`
	PageSize    int    `koanf:"page_size" validate:"gt=0"`
}

type S3Config struct {
	Region string `koanf:"region" validate:"required"`
	Bucket string `koanf:"bucket" validate:"required"`
}

type ScheduleConfig struct {
	Enabled       bool   `koanf:"enabled"`
	UsernamesFile string `koanf:"usernames_file" validate:"required_if=Enabled true"`
}

type Config struct {
	Telegram TelegramConfig `koanf:"telegram"`
	S3       S3Config       `koanf:"s3"`
	Schedule ScheduleConfig `koanf:"schedule"`
	HTTPPort string         `koanf:"http_port"`
}

// nested sections addressable from flat environment variable names
var envSections = []string{"telegram", "s3", "schedule"}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try to load config file from various formats
	configFiles := []string{
		"config.yaml",
		"config.yml",
		"config.json",
		"config.toml",
	}

	configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Environment variables override config file values. TELEGRAM_API_ID
	// maps to telegram.api_id, S3_BUCKET to s3.bucket, and so on.
	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	// Set defaults
	if !k.Exists("telegram.session_file") {
		k.Set("telegram.session_file", "tgarchive.session")
	}
	if !k.Exists("telegram.page_size") {
		k.Set("telegram.page_size", 100)
	}
	if !k.Exists("http_port") {
		k.Set("http_port", "8080")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(&cfg); err != nil {
		return nil, oops.With("context", "validating config").Wrap(err)
	}

	return &cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(s)
	for _, section := range envSections {
		if strings.HasPrefix(s, section+"_") {
			return section + "." + strings.TrimPrefix(s, section+"_")
		}
	}
	return s
}
