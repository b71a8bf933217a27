// Package krakenerr defines the error taxonomy of spec §7: error kinds,
// recovery strategies, and the server API error-code table.
//
// Grounded on original_source/crates/kraken-types/src/error.rs and
// error_codes.rs.
package krakenerr

import (
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"
)

// Kind classifies an error into the spec's error taxonomy table (§7).
type Kind int

const (
	KindConnection Kind = iota
	KindProtocol
	KindIntegrity
	KindSubscription
	KindAuth
	KindRateLimit
	KindInvalidState
	KindShutdown
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindProtocol:
		return "protocol"
	case KindIntegrity:
		return "integrity"
	case KindSubscription:
		return "subscription"
	case KindAuth:
		return "auth"
	case KindRateLimit:
		return "rate_limit"
	case KindInvalidState:
		return "invalid_state"
	case KindShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// StrategyKind enumerates the recovery strategy variants of spec §7.
type StrategyKind int

const (
	StrategyBackoff StrategyKind = iota
	StrategyRetry
	StrategyRequestSnapshot
	StrategyReauthenticate
	StrategySkip
	StrategyUserAction
	StrategyFatal
	StrategyManual
)

// RecoveryStrategy describes how a caller should react to an error.
type RecoveryStrategy struct {
	Kind         StrategyKind
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Delay        time.Duration
	MaxAttempts  int
	Message      string
}

// Manual is the catch-all default recovery strategy.
func Manual() RecoveryStrategy { return RecoveryStrategy{Kind: StrategyManual} }

// Fatal signals the error cannot be recovered from.
func Fatal() RecoveryStrategy { return RecoveryStrategy{Kind: StrategyFatal} }

// Backoff builds an exponential-backoff recovery strategy.
func Backoff(initial, max time.Duration, multiplier float64) RecoveryStrategy {
	return RecoveryStrategy{Kind: StrategyBackoff, InitialDelay: initial, MaxDelay: max, Multiplier: multiplier}
}

// RateLimitBackoff is the preset strategy for locally or server-detected
// rate-limit exhaustion.
func RateLimitBackoff() RecoveryStrategy {
	return Backoff(500*time.Millisecond, 30*time.Second, 2.0)
}

// ServiceRetry is the preset strategy for transient service unavailability.
func ServiceRetry() RecoveryStrategy {
	return RecoveryStrategy{Kind: StrategyRetry, Delay: time.Second, MaxAttempts: 5}
}

// Sentinel errors for the taxonomy's fixed members (distinguished by Kind
// via errors.As on *Error for anything carrying detail).
var (
	ErrConnectionFailed  = New(KindConnection, "connection failed", Backoff(100*time.Millisecond, 30*time.Second, 2.0))
	ErrInvalidJSON       = New(KindProtocol, "invalid json", RecoveryStrategy{Kind: StrategySkip})
	ErrSubscriptionTimeout = New(KindSubscription, "subscription timed out", RecoveryStrategy{Kind: StrategySkip})
	ErrAuthenticationFailed = New(KindAuth, "authentication failed", RecoveryStrategy{Kind: StrategyReauthenticate})
	ErrTokenExpired      = New(KindAuth, "token expired", RecoveryStrategy{Kind: StrategyReauthenticate})
	ErrShuttingDown      = New(KindShutdown, "shutting down", RecoveryStrategy{Kind: StrategySkip})
	ErrEnvVarNotSet      = New(KindInvalidState, "environment variable not set", Fatal())
)

// Error is the concrete error type carrying a Kind, message, wrapped cause,
// and recovery strategy.
type Error struct {
	Kind     Kind
	Message  string
	Err      error
	Recovery RecoveryStrategy
}

// New constructs an *Error with no wrapped cause.
func New(kind Kind, message string, recovery RecoveryStrategy) *Error {
	return &Error{Kind: kind, Message: message, Recovery: recovery}
}

// Wrap constructs an *Error wrapping err. The cause is annotated with a
// stack trace via pkg/errors so a logged Error retains the call site that
// first observed the failure, not just the one that reported it.
func Wrap(kind Kind, message string, err error, recovery RecoveryStrategy) *Error {
	if err != nil {
		if _, hasStack := err.(interface{ StackTrace() pkgerrors.StackTrace }); !hasStack {
			err = pkgerrors.WithStack(err)
		}
	}
	return &Error{Kind: kind, Message: message, Err: err, Recovery: recovery}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is supports errors.Is matching on Kind+Message for sentinel-style
// comparisons between two *Error values.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind && e.Message == other.Message
}

// IsRetryable reports whether the recovery strategy implies the caller
// should retry (as opposed to Fatal/UserAction/Manual).
func (e *Error) IsRetryable() bool {
	switch e.Recovery.Kind {
	case StrategyBackoff, StrategyRetry, StrategyRequestSnapshot, StrategyReauthenticate:
		return true
	default:
		return false
	}
}

// ConnectionTimeout reports a connect attempt exceeding its deadline.
type ConnectionTimeout struct {
	URL     string
	Timeout time.Duration
}

func (e *ConnectionTimeout) Error() string {
	return fmt.Sprintf("connection to %s timed out after %s", e.URL, e.Timeout)
}

// InvalidState reports a builder-misuse or programming error (fatal).
type InvalidState struct {
	Expected string
}

func (e *InvalidState) Error() string {
	return fmt.Sprintf("invalid state: expected %s", e.Expected)
}

// WebSocketError wraps a transport-level failure message.
type WebSocketError struct {
	Message string
}

func (e *WebSocketError) Error() string { return "websocket: " + e.Message }

// EnvVarNotSet reports a missing required environment variable.
type EnvVarNotSet struct {
	Name string
}

func (e *EnvVarNotSet) Error() string { return fmt.Sprintf("environment variable %s not set", e.Name) }

func (e *EnvVarNotSet) Is(target error) bool {
	_, ok := target.(*EnvVarNotSet)
	return ok
}
