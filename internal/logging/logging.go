// Package logging builds the tint-backed slog logger used by the command
// line tools.
package logging

import (
	"io"
	"log/slog"

	"github.com/lmittmann/tint"
)

// New returns a logger writing coloured, human-readable records to w.
func New(w io.Writer, level slog.Level, noColor bool) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
	}))
}
