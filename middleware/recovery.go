package middleware

import (
	"fmt"
	"runtime"
)

// Recovery creates a middleware that converts executor panics into a
// *RecoveryError, optionally printing the captured stack.
func Recovery(options ...Option) Middleware {
	config := DefaultConfig()
	for _, option := range options {
		option(config)
	}

	return func(next Executor) Executor {
		return func(src Source, ctx Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					var stack []byte
					if config.PrintStack {
						stack = make([]byte, config.StackSize)
						stack = stack[:runtime.Stack(stack, false)]
					}

					recoveryErr := &RecoveryError{
						Panic:  r,
						Source: src.Name(),
						Stack:  stack,
					}
					if config.PrintStack && len(stack) > 0 {
						fmt.Fprintf(config.LogOutput, "PANIC in command for '%s': %v\n%s\n",
							src.Name(), r, stack)
					}
					err = recoveryErr
				}
			}()

			return next(src, ctx)
		}
	}
}

// RecoveryWithHandler creates a recovery middleware that hands the panic to a
// custom handler instead of building the default error.
func RecoveryWithHandler(
	handler func(panicVal any, source string, stack []byte) error,
	options ...Option,
) Middleware {
	config := DefaultConfig()
	for _, option := range options {
		option(config)
	}

	return func(next Executor) Executor {
		return func(src Source, ctx Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					var stack []byte
					if config.PrintStack {
						stack = make([]byte, config.StackSize)
						stack = stack[:runtime.Stack(stack, false)]
					}
					err = handler(r, src.Name(), stack)
				}
			}()

			return next(src, ctx)
		}
	}
}
