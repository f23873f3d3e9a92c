package log

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	gethlog "github.com/ethereum/go-ethereum/log"
)

// Trace and Crit use geth's numbering so its handlers print them by name.
const (
	LevelTrace = gethlog.LevelTrace
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
	LevelCrit  = gethlog.LevelCrit
)

// Logger writes records tagged with the module that produced them.
type Logger interface {
	// With returns a Logger that adds ctx to every record.
	With(ctx ...any) Logger

	Trace(module string, msg string, ctx ...any)
	Debug(module string, msg string, ctx ...any)
	Info(module string, msg string, ctx ...any)
	Warn(module string, msg string, ctx ...any)
	Error(module string, msg string, ctx ...any)

	// Enabled reports whether records at level reach the handler.
	Enabled(level slog.Level) bool

	Handler() slog.Handler
}

type logger struct {
	inner *slog.Logger
}

// NewLogger returns a logger writing to h.
func NewLogger(h slog.Handler) Logger {
	return &logger{inner: slog.New(h)}
}

func (l *logger) Handler() slog.Handler {
	return l.inner.Handler()
}

func (l *logger) With(ctx ...any) Logger {
	return &logger{inner: l.inner.With(ctx...)}
}

func (l *logger) Enabled(level slog.Level) bool {
	return l.inner.Enabled(context.Background(), level)
}

// write records the caller two frames above it: the Logger method or the
// package-level function that was called.
func (l *logger) write(level slog.Level, module string, msg string, ctx []any) {
	if !l.Enabled(level) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.Add("module", module)
	r.Add(ctx...)
	_ = l.inner.Handler().Handle(context.Background(), r)
}

func (l *logger) Trace(module string, msg string, ctx ...any) {
	l.write(LevelTrace, module, msg, ctx)
}

func (l *logger) Debug(module string, msg string, ctx ...any) {
	l.write(LevelDebug, module, msg, ctx)
}

func (l *logger) Info(module string, msg string, ctx ...any) {
	l.write(LevelInfo, module, msg, ctx)
}

func (l *logger) Warn(module string, msg string, ctx ...any) {
	l.write(LevelWarn, module, msg, ctx)
}

func (l *logger) Error(module string, msg string, ctx ...any) {
	l.write(LevelError, module, msg, ctx)
}
