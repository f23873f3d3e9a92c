package log

import (
	"io"
	"log/slog"
	"os"

	gethlog "github.com/ethereum/go-ethereum/log"
	"golang.org/x/term"
)

// NewTerminalHandlerWithLevel returns a human readable handler that drops
// records below lvl.
func NewTerminalHandlerWithLevel(wr io.Writer, lvl slog.Level, useColor bool) slog.Handler {
	return gethlog.NewTerminalHandlerWithLevel(wr, lvl, useColor)
}

// JSONHandlerWithLevel returns a handler emitting one JSON object per record.
func JSONHandlerWithLevel(wr io.Writer, lvl slog.Level) slog.Handler {
	return gethlog.JSONHandlerWithLevel(wr, lvl)
}

// DiscardHandler returns a handler that drops every record.
func DiscardHandler() slog.Handler {
	return gethlog.DiscardHandler()
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
