package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// New builds the application logger. The terminal belongs to the UI, so
// logs go to taskflow.log inside the data directory. If the file cannot be
// opened the logger discards output rather than fighting the renderer for
// stdout.
func New(dataDir, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var w io.Writer
	f, err := os.OpenFile(filepath.Join(dataDir, "taskflow.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		w = io.Discard
	} else {
		w = f
	}

	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Int("pid", os.Getpid()).
		Logger()
}
