package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

type Config struct {
	BackendURL string
	SessionKey string
	WebPort    string
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := Config{
		BackendURL: req("BACKEND_URL"),
		SessionKey: req("SESSION_KEY"),
		WebPort:    req("WEB_PORT"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}
