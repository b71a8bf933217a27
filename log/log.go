// Package log provides a subsystem-tagged logger over zap, in the style
// of the teacher's log.Warnf(log.WebsocketMgr, "...", args...) calls
// (other_examples/921a4ef7_thrasher--gocryptotrader__exchange-websocket-buffer-buffer.go.go).
package log

import (
	"sync"

	"go.uber.org/zap"
)

// Subsystem tags which component emitted a log line.
type Subsystem string

const (
	WebsocketMgr Subsystem = "websocket"
	OrderbookMgr Subsystem = "orderbook"
	AuthMgr      Subsystem = "auth"
	RateLimitMgr Subsystem = "ratelimit"
	SessionMgr   Subsystem = "session"
	TrackerMgr   Subsystem = "tracker"
)

var (
	mu     sync.RWMutex
	logger *zap.SugaredLogger
)

func init() {
	l, err := zap.NewProduction()
	if err != nil {
		l = zap.NewNop()
	}
	logger = l.Sugar()
}

// Configure replaces the package logger, e.g. with a development logger
// for verbose local runs.
func Configure(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l.Sugar()
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debugf logs a debug-level line tagged with subsystem.
func Debugf(subsystem Subsystem, format string, args ...any) {
	current().Debugf("["+string(subsystem)+"] "+format, args...)
}

// Infof logs an info-level line tagged with subsystem.
func Infof(subsystem Subsystem, format string, args ...any) {
	current().Infof("["+string(subsystem)+"] "+format, args...)
}

// Warnf logs a warn-level line tagged with subsystem.
func Warnf(subsystem Subsystem, format string, args ...any) {
	current().Warnf("["+string(subsystem)+"] "+format, args...)
}

// Errorf logs an error-level line tagged with subsystem.
func Errorf(subsystem Subsystem, format string, args ...any) {
	current().Errorf("["+string(subsystem)+"] "+format, args...)
}

// Sync flushes any buffered log entries. Callers should defer this at
// process shutdown.
func Sync() error {
	return current().Sync()
}
