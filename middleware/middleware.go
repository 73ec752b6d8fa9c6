// Package middleware wraps command executors with cross-cutting behavior
// such as invocation logging, panic recovery and execution deadlines.
//
// The package defines its own small Source and Context interfaces instead of
// importing the command package; the command package's concrete types satisfy
// them, and command.Wrap adapts a concrete executor into a chain.
package middleware

import (
	"io"
	"os"
	"time"
)

// Source is the originator of a command invocation, as middleware sees it.
type Source interface {
	Name() string
	HasPermission(permission string) bool
}

// Context is the parsed-argument view middleware can inspect.
type Context interface {
	IsCompletion() bool
	HasAny(key string) bool
	GetAll(key string) []any
}

// Executor is the unit a middleware wraps.
type Executor func(src Source, ctx Context) error

// Middleware decorates an Executor.
type Middleware func(next Executor) Executor

// Chain is an ordered list of middleware. The first element ends up
// outermost.
type Chain []Middleware

// NewChain creates a chain from the given middleware, preserving order.
func NewChain(middleware ...Middleware) Chain {
	return Chain(middleware)
}

// Use returns a new chain with the provided middleware appended.
func (c Chain) Use(middleware ...Middleware) Chain {
	return append(c, middleware...)
}

// Apply wraps exec in every middleware of the chain.
func (c Chain) Apply(exec Executor) Executor {
	for i := len(c) - 1; i >= 0; i-- {
		exec = c[i](exec)
	}
	return exec
}

// TimeoutError reports an executor exceeding its deadline.
type TimeoutError struct {
	Source   string
	Duration time.Duration
}

func (e *TimeoutError) Error() string {
	return "command for '" + e.Source + "' timed out after " + e.Duration.String()
}

// RecoveryError reports a panic converted to an error.
type RecoveryError struct {
	Panic  any
	Source string
	Stack  []byte
}

func (e *RecoveryError) Error() string {
	return "command for '" + e.Source + "' panicked: " + panicString(e.Panic)
}

// Config carries shared middleware settings.
type Config struct {
	LogOutput  io.Writer
	LogJSON    bool
	PrintStack bool
	StackSize  int
}

// Option mutates a Config.
type Option func(config *Config)

// DefaultConfig returns the settings used when no options are given.
func DefaultConfig() *Config {
	return &Config{
		LogOutput:  os.Stderr,
		PrintStack: true,
		StackSize:  4096,
	}
}

// WithLogOutput redirects middleware log lines.
func WithLogOutput(w io.Writer) Option {
	return func(config *Config) {
		config.LogOutput = w
	}
}

// WithJSONLogs switches the logger to one JSON object per invocation.
func WithJSONLogs() Option {
	return func(config *Config) {
		config.LogJSON = true
	}
}

// WithStackTrace toggles stack capture and printing on panic recovery.
func WithStackTrace(enabled bool) Option {
	return func(config *Config) {
		config.PrintStack = enabled
	}
}

func panicString(v any) string {
	switch p := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return p
	case error:
		return p.Error()
	default:
		return "<unknown>"
	}
}
