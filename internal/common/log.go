package common

import (
	"os"

	"github.com/rs/zerolog"
)

func NewLogger(service string) *zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", service).Logger()
	return &logger
}
