package provider

import (
	"context"
	"slices"
)

// RequestResponse is a backend call with one input and one output.
type RequestResponse[I, O any] interface {
	Provider
	Execute(ctx context.Context, input I) (O, error)
}

// Middleware wraps a call with behavior the backend does not know about.
type Middleware[I, O any] func(RequestResponse[I, O]) RequestResponse[I, O]

// Chain stacks middlewares so the first listed sees the call first:
// Chain(a, b)(rr) == a(b(rr)).
func Chain[I, O any](middlewares ...Middleware[I, O]) Middleware[I, O] {
	return func(rr RequestResponse[I, O]) RequestResponse[I, O] {
		for _, mw := range slices.Backward(middlewares) {
			rr = mw(rr)
		}
		return rr
	}
}

// Func turns a backend method into a RequestResponse. A nil available
// func means always available.
func Func[I, O any](name string, available func(context.Context) bool, fn func(context.Context, I) (O, error)) RequestResponse[I, O] {
	return &call[I, O]{name: name, available: available, fn: fn}
}

type call[I, O any] struct {
	name      string
	available func(context.Context) bool
	fn        func(context.Context, I) (O, error)
}

func (c *call[I, O]) Name() string { return c.name }

func (c *call[I, O]) IsAvailable(ctx context.Context) bool {
	return c.available == nil || c.available(ctx)
}

func (c *call[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return c.fn(ctx, input)
}
