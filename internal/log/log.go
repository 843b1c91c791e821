// Package log provides the module-scoped structured logger shared by every
// long-lived component of the node (p2p, sumeragi, wsv, isi, trigger and
// cmd/irohad; queue logs nothing). It is a thin
// wrapper over zap.SugaredLogger: components never construct a zap logger
// directly, they ask for a named child via NewModuleLogger so log lines can
// be filtered per subsystem the way klaytn's log.NewModuleLogger allows.
package log

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Module names. Kept as plain strings rather than an enum: new components
// add their own constant here rather than threading a registry through the
// package.
const (
	ModuleP2P       = "p2p"
	ModuleWire      = "wire"
	ModuleWSV       = "wsv"
	ModuleISI       = "isi"
	ModuleTrigger   = "trigger"
	ModuleBlock     = "block"
	ModuleSumeragi  = "sumeragi"
	ModuleQueue     = "queue"
	ModuleCrypto    = "crypto"
)

var (
	baseOnce sync.Once
	base     *zap.Logger
	level    = zap.NewAtomicLevelAt(zap.InfoLevel)
)

func root() *zap.Logger {
	baseOnce.Do(func() {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		core := zapcore.NewCore(
			zapcore.NewConsoleEncoder(cfg),
			zapcore.Lock(os.Stderr),
			level,
		)
		base = zap.New(core)
	})
	return base
}

// Logger is the interface every component logs through. It mirrors the
// subset of zap.SugaredLogger actually used in this codebase so callers
// never need to import zap themselves.
type Logger struct {
	s *zap.SugaredLogger
}

// NewModuleLogger returns a Logger tagged with the given module name.
func NewModuleLogger(module string) *Logger {
	return &Logger{s: root().Sugar().With("module", module)}
}

// With attaches additional structured fields (key, value, key, value, ...)
// and returns a derived logger; the parent is left untouched.
func (l *Logger) With(kv ...interface{}) *Logger {
	return &Logger{s: l.s.With(kv...)}
}

func (l *Logger) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l *Logger) Info(msg string, kv ...interface{})  { l.s.Infow(msg, kv...) }
func (l *Logger) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }
func (l *Logger) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }

// SetLevel reconfigures the process-wide minimum log level. Used by
// config.Logger.Apply; logger.format (the other recognised key) is an
// external sink concern and is not modeled here.
func SetLevel(lvl string) {
	var zl zapcore.Level
	if err := zl.UnmarshalText([]byte(lvl)); err != nil {
		return
	}
	root() // ensure the atomic level is wired into a core
	level.SetLevel(zl)
}
