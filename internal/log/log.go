// Package log provides category-tagged logging for kiln.
//
// Logging is disabled by default so stdout and stderr stay clean for
// scripting; pacman hooks and users opt in by pointing KILN_LOG at a
// file. All events carry a category field so one log can be filtered by
// subsystem.
package log

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Category identifies the subsystem emitting a log event.
type Category string

const (
	// CatCLI covers command dispatch and argument handling.
	CatCLI Category = "cli"
	// CatDB covers the rebuild queue database.
	CatDB Category = "db"
	// CatTrigger covers the trigger decision pipeline.
	CatTrigger Category = "trigger"
	// CatPacman covers the pactree/pacman collaborators.
	CatPacman Category = "pacman"
	// CatConfig covers configuration loading.
	CatConfig Category = "config"
)

// logger is a no-op until Init succeeds.
var logger = zerolog.Nop()

// Init routes log output to the given file, creating parent directories
// as needed. Passing an empty path leaves logging disabled.
func Init(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	logger = zerolog.New(f).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	return nil
}

// InitFromEnv enables logging when KILN_LOG is set to a file path.
func InitFromEnv() error {
	return Init(os.Getenv("KILN_LOG"))
}

// Debug logs a debug event with alternating key/value pairs.
func Debug(cat Category, msg string, kv ...any) {
	emit(logger.Debug(), cat, msg, kv)
}

// Info logs an info event.
func Info(cat Category, msg string, kv ...any) {
	emit(logger.Info(), cat, msg, kv)
}

// Warn logs a warning event.
func Warn(cat Category, msg string, kv ...any) {
	emit(logger.Warn(), cat, msg, kv)
}

// ErrorErr logs an error event with the error attached.
func ErrorErr(cat Category, msg string, err error, kv ...any) {
	emit(logger.Error().Err(err), cat, msg, kv)
}

func emit(e *zerolog.Event, cat Category, msg string, kv []any) {
	e = e.Str("cat", string(cat))
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		e = e.Interface(key, kv[i+1])
	}
	e.Msg(msg)
}
