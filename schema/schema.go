package schema

import (
	"context"
	"fmt"
)

// Issue describes one validation failure.
type Issue struct {
	// Message is a human-readable description of the failure.
	Message string `json:"message"`
	// Path locates the failing value inside the input (keys and indexes).
	Path []any `json:"path,omitempty"`
}

// String renders the issue as "path: message".
func (i Issue) String() string {
	if len(i.Path) == 0 {
		return i.Message
	}
	path := ""
	for n, seg := range i.Path {
		if n > 0 {
			path += "."
		}
		path += fmt.Sprint(seg)
	}
	return path + ": " + i.Message
}

// Result is the outcome of a validation: a value when Issues is empty,
// a failure otherwise.
type Result[T any] struct {
	Value  T
	Issues []Issue
}

// Failed reports whether the result carries issues.
func (r Result[T]) Failed() bool {
	return len(r.Issues) > 0
}

// Ok returns a passing result.
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Fail returns a failing result.
func Fail[T any](issues ...Issue) Result[T] {
	return Result[T]{Issues: issues}
}

// Schema validates an input and produces a refined value of type T.
// A non-nil error means validation could not run (e.g. the context ended);
// it is not a validation failure.
type Schema[T any] interface {
	Validate(ctx context.Context, input any) (Result[T], error)
}

// Func adapts a synchronous function to Schema.
type Func[T any] func(input any) Result[T]

// Validate calls f.
func (f Func[T]) Validate(_ context.Context, input any) (Result[T], error) {
	return f(input), nil
}

// Async adapts a function whose result is delivered later on a channel.
type Async[T any] func(ctx context.Context, input any) <-chan Result[T]

// Validate waits for the pending result or for ctx to end.
func (f Async[T]) Validate(ctx context.Context, input any) (Result[T], error) {
	select {
	case res, ok := <-f(ctx, input):
		if !ok {
			return Result[T]{}, ErrNoResult
		}
		return res, nil
	case <-ctx.Done():
		return Result[T]{}, ctx.Err()
	}
}

// Apply runs s against input. Issues become a *ValidationError; otherwise the
// schema's output value is returned in place of the input.
func Apply[T any](ctx context.Context, s Schema[T], input any) (T, error) {
	var zero T
	res, err := s.Validate(ctx, input)
	if err != nil {
		return zero, fmt.Errorf("schema: validate: %w", err)
	}
	if res.Failed() {
		return zero, &ValidationError{Issues: res.Issues}
	}
	return res.Value, nil
}
