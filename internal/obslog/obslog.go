// Package obslog wires the module's structured logging. Every package
// logs through Logger() rather than holding its own *zerolog.Logger, so
// a single call to SetLogger or SetVerbose retargets the whole process.
package obslog

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu  sync.RWMutex
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger().
		Level(defaultLevel())
)

func defaultLevel() zerolog.Level {
	return parseLevel(os.Getenv("NEURONOS_LOG_LEVEL"))
}

func parseLevel(s string) zerolog.Level {
	switch s {
	case "debug":
		return zerolog.DebugLevel
	case "error":
		return zerolog.ErrorLevel
	case "off":
		return zerolog.Disabled
	case "info", "":
		return zerolog.InfoLevel
	default:
		return zerolog.InfoLevel
	}
}

// SetLogger installs a module-wide logger, replacing the default
// console writer. cmd/neuronos does not call it; it keeps the default
// logger and adjusts only its level, through SetVerbose.
func SetLogger(l zerolog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
}

// SetVerbose raises or lowers the default logger's level. --verbose maps
// to debug; its absence leaves NEURONOS_LOG_LEVEL (or info) in effect.
func SetVerbose(verbose bool) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		log = log.Level(zerolog.DebugLevel)
	}
}

// Logger returns the module-wide logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}
