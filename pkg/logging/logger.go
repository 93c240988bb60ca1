// Package logging provides structured logging for deskbridge using zerolog.
// Console output is used on a terminal and JSON everywhere else, so the same
// binary reads well interactively and in a scheduler's log collector.
//
// Example usage:
//
//	ctx := logging.WithLogger(context.Background(), logging.Default())
//	ctx = logging.WithLogin(ctx, "octocat")
//	logging.FromContext(ctx).Debug().Msg("Looking up contact")
package logging

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// defaultLogger is the global logger instance.
var defaultLogger zerolog.Logger

func init() {
	defaultLogger = NewLoggerFromConfig(&Config{
		Level:   os.Getenv("LOG_LEVEL"),
		Format:  os.Getenv("LOG_FORMAT"),
		NoColor: os.Getenv("NO_COLOR") != "",
	})
}

// Default returns the default global logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault sets the default global logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// isTerminal checks if stderr is a terminal.
func isTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
