package middleware

import (
	"encoding/json"
	"fmt"
	"time"
)

// Logger creates a middleware that logs each invocation: who ran it, how long
// it took and whether it failed. Completion queries are not logged.
func Logger(options ...Option) Middleware {
	config := DefaultConfig()
	for _, option := range options {
		option(config)
	}

	return func(next Executor) Executor {
		return func(src Source, ctx Context) error {
			if ctx.IsCompletion() {
				return next(src, ctx)
			}

			start := time.Now()
			err := next(src, ctx)
			elapsed := time.Since(start)

			if config.LogJSON {
				logJSON(config, src, elapsed, err)
			} else {
				logText(config, src, elapsed, err)
			}
			return err
		}
	}
}

func logText(config *Config, src Source, elapsed time.Duration, err error) {
	if err != nil {
		fmt.Fprintf(config.LogOutput, "command source=%s duration=%s error=%q\n",
			src.Name(), elapsed, err.Error())
		return
	}
	fmt.Fprintf(config.LogOutput, "command source=%s duration=%s ok\n", src.Name(), elapsed)
}

func logJSON(config *Config, src Source, elapsed time.Duration, err error) {
	entry := map[string]any{
		"source":      src.Name(),
		"duration_ms": elapsed.Milliseconds(),
		"success":     err == nil,
	}
	if err != nil {
		entry["error"] = err.Error()
	}
	data, marshalErr := json.Marshal(entry)
	if marshalErr != nil {
		logText(config, src, elapsed, err)
		return
	}
	fmt.Fprintln(config.LogOutput, string(data))
}
