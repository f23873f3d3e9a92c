package log

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

const (
	DecoderMonitoring   = "dec_mod" // decode tree walk and rollback
	RewriterMonitoring  = "rw_mod"  // instruction lowering
	TableMonitoring     = "tbl_mod" // decode/rewrite table construction and validation
	DirectiveMonitoring = "dir_mod" // data directive decoding
)

var root atomic.Value

func init() {
	root.Store(NewLogger(DiscardHandler()))
}

// ParseLevel maps a level name (trace, debug, info, warn, error, crit) to
// its slog level. Case is ignored.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "crit", "critical":
		return LevelCrit, nil
	}
	return 0, fmt.Errorf("invalid level: %s", name)
}

func install(level string, handler func(slog.Level) slog.Handler) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	SetDefault(NewLogger(handler(lvl)))
	return nil
}

// InitLogger installs a terminal logger on stderr, coloured when stderr is
// a terminal.
func InitLogger(level string) error {
	return install(level, func(lvl slog.Level) slog.Handler {
		return NewTerminalHandlerWithLevel(os.Stderr, lvl, isTerminal(os.Stderr))
	})
}

// InitJSONLogger installs a JSON logger on stderr.
func InitJSONLogger(level string) error {
	return install(level, func(lvl slog.Level) slog.Handler {
		return JSONHandlerWithLevel(os.Stderr, lvl)
	})
}

// SetDefault replaces the root logger.
func SetDefault(l Logger) {
	root.Store(l)
}

func Root() Logger {
	return root.Load().(Logger)
}

// Trace and Debug records are dropped unless their module is enabled.
var (
	moduleMu      sync.RWMutex
	moduleEnabled = map[string]bool{
		DecoderMonitoring:   false,
		RewriterMonitoring:  false,
		TableMonitoring:     false,
		DirectiveMonitoring: false,
	}
)

func EnableModule(module string) {
	moduleMu.Lock()
	moduleEnabled[module] = true
	moduleMu.Unlock()
}

// EnableModules enables each listed module.
func EnableModules(modules ...string) {
	for _, m := range modules {
		if m = strings.TrimSpace(m); m != "" {
			EnableModule(m)
		}
	}
}

func DisableModule(module string) {
	moduleMu.Lock()
	moduleEnabled[module] = false
	moduleMu.Unlock()
}

// Modules lists the known modules and whether each is enabled.
func Modules() []string {
	moduleMu.RLock()
	defer moduleMu.RUnlock()
	out := make([]string, 0, len(moduleEnabled))
	for m, on := range moduleEnabled {
		state := "off"
		if on {
			state = "on"
		}
		out = append(out, m+"="+state)
	}
	sort.Strings(out)
	return out
}

func isModuleEnabled(module string) bool {
	moduleMu.RLock()
	defer moduleMu.RUnlock()
	return moduleEnabled[module]
}

func Trace(module string, msg string, ctx ...any) {
	if isModuleEnabled(module) {
		Root().Trace(module, msg, ctx...)
	}
}

func Debug(module string, msg string, ctx ...any) {
	if isModuleEnabled(module) {
		Root().Debug(module, msg, ctx...)
	}
}

func Info(module string, msg string, ctx ...any) {
	Root().Info(module, msg, ctx...)
}

func Warn(module string, msg string, ctx ...any) {
	Root().Warn(module, msg, ctx...)
}

func Error(module string, msg string, ctx ...any) {
	Root().Error(module, msg, ctx...)
}
