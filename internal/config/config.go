package config

import (
	"destinystats/internal/archive"
	"destinystats/internal/bungie"
	"destinystats/lib/telemetry"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"
)

const (
	FileName  = "destinystats.json5"
	ApiKeyEnv = "BUNGIE_API_KEY"
)

type Config struct {
	ApiKey    string `json:"api_key"`
	BaseUrl   string `json:"base_url"`
	UserAgent string `json:"user_agent"`
	// go duration string, ex. "30s"
	Timeout         string `json:"timeout"`
	DefaultPlatform string `json:"default_platform"`
	// directory full http messages are dumped to in verbose mode
	DebugOutput string `json:"debug_output"`

	Archive   archive.Config   `json:"archive"`
	Telemetry telemetry.Config `json:"telemetry"`
}

// Load reads the config at path, or when path is empty, the closest
// destinystats.json5 up from the working directory. A missing file is only
// an error when path was given. ApiKeyEnv overrides the file's api key.
func Load(path string) (Config, error) {
	var (
		config Config
		err    error
	)
	if path != "" {
		config, err = readFile[Config](path)
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config %s not found", path)
		}
	} else {
		config, path, err = readRecursively[Config](FileName)
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("no config file found, using defaults", "name", FileName)
			err = nil
		}
	}
	if err != nil {
		return Config{}, err
	}
	if path != "" {
		slog.Debug("loaded config", "path", path)
	}

	if key := os.Getenv(ApiKeyEnv); key != "" {
		config.ApiKey = key
	}
	return config, nil
}

// RequestTimeout is zero when unset, letting the client pick its default.
func (c Config) RequestTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	return d, nil
}

// Platform is the platform used when a command is not given one.
func (c Config) Platform() (bungie.MembershipType, error) {
	if c.DefaultPlatform == "" {
		return bungie.MembershipNone, errors.New("no platform given and no default_platform configured")
	}
	return bungie.ParseMembershipType(c.DefaultPlatform)
}

// RequireApiKey fails with a message pointing at both ways of setting a key.
func (c Config) RequireApiKey() error {
	if c.ApiKey == "" {
		return fmt.Errorf("no api key, set api_key in %s or %s", FileName, ApiKeyEnv)
	}
	return nil
}
