package command

import "github.com/wysohn/SpongeAPI/middleware"

// Wrap applies a middleware chain around an executor. The first middleware
// given ends up outermost. Context and Source satisfy the middleware
// package's interfaces directly.
func Wrap(exec Executor, chain ...middleware.Middleware) Executor {
	wrapped := middleware.NewChain(chain...).Apply(func(src middleware.Source, ctx middleware.Context) error {
		return exec(src.(Source), ctx.(*Context))
	})
	return func(src Source, ctx *Context) error {
		return wrapped(src, ctx)
	}
}
