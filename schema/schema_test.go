package schema

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestApply_ReturnsTransformedValue(t *testing.T) {
	toInt := Func[int](func(input any) Result[int] {
		s, ok := input.(string)
		if !ok {
			return Fail[int](Issue{Message: "expected string"})
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return Fail[int](Issue{Message: "not a number"})
		}
		return Ok(n)
	})

	got, err := Apply[int](context.Background(), toInt, "42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
}

func TestApply_IssuesBecomeValidationError(t *testing.T) {
	issues := []Issue{
		{Message: "first", Path: []any{"a"}},
		{Message: "second", Path: []any{"items", 0}},
	}
	s := Func[string](func(any) Result[string] { return Fail[string](issues...) })

	_, err := Apply[string](context.Background(), s, "whatever")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
	}
	if len(verr.Issues) != 2 || verr.Issues[0].Message != "first" || verr.Issues[1].Message != "second" {
		t.Errorf("issues not preserved in order: %+v", verr.Issues)
	}
	if !IsValidationError(err) {
		t.Error("expected IsValidationError=true")
	}
	if got := Issues(err); len(got) != 2 {
		t.Errorf("expected 2 issues, got %d", len(got))
	}
	if verr.Error() != "schema validation error: a: first; items.0: second" {
		t.Errorf("unexpected message %q", verr.Error())
	}
}

func TestAsync_AwaitsResult(t *testing.T) {
	s := Async[string](func(_ context.Context, input any) <-chan Result[string] {
		ch := make(chan Result[string], 1)
		go func() {
			time.Sleep(10 * time.Millisecond)
			ch <- Ok(input.(string) + "!")
		}()
		return ch
	})

	got, err := Apply[string](context.Background(), s, "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hi!" {
		t.Errorf("expected %q, got %q", "hi!", got)
	}
}

func TestAsync_ContextCanceled(t *testing.T) {
	s := Async[string](func(context.Context, any) <-chan Result[string] {
		return make(chan Result[string])
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Apply[string](ctx, s, "x")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if IsValidationError(err) {
		t.Error("cancellation must not be reported as a validation error")
	}
}

func TestAsync_ClosedChannel(t *testing.T) {
	s := Async[int](func(context.Context, any) <-chan Result[int] {
		ch := make(chan Result[int])
		close(ch)
		return ch
	})
	_, err := Apply[int](context.Background(), s, nil)
	if !errors.Is(err, ErrNoResult) {
		t.Errorf("expected ErrNoResult, got %v", err)
	}
}

type address struct {
	City string `json:"city" validate:"required"`
}

type user struct {
	ID      int     `json:"id" validate:"required,gt=0"`
	Email   string  `json:"email" validate:"required,email"`
	Age     int     `json:"age"`
	Address address `json:"address"`
}

func TestStruct_DecodesAndCoerces(t *testing.T) {
	input := map[string]any{
		"id":      float64(7),
		"email":   "a@example.com",
		"age":     "31",
		"address": map[string]any{"city": "Izmir"},
	}
	got, err := Apply[user](context.Background(), Struct[user](), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 7 || got.Age != 31 || got.Address.City != "Izmir" {
		t.Errorf("unexpected value %+v", got)
	}
}

func TestStruct_ReportsFieldIssues(t *testing.T) {
	input := map[string]any{
		"id":      float64(0),
		"email":   "nope",
		"address": map[string]any{},
	}
	_, err := Apply[user](context.Background(), Struct[user](), input)
	issues := Issues(err)
	if len(issues) != 3 {
		t.Fatalf("expected 3 issues, got %d: %v", len(issues), err)
	}

	byPath := map[string]string{}
	for _, i := range issues {
		byPath[strings.TrimSuffix(Issue{Path: i.Path}.String(), ": ")] = i.Message
	}
	if byPath["id"] != "is required" {
		t.Errorf("id: unexpected message %q", byPath["id"])
	}
	if byPath["email"] != "must be a valid email address" {
		t.Errorf("email: unexpected message %q", byPath["email"])
	}
	if byPath["address.city"] != "is required" {
		t.Errorf("address.city: unexpected message %q", byPath["address.city"])
	}
}

func TestStruct_WrongShape(t *testing.T) {
	_, err := Apply[user](context.Background(), Struct[user](), "plain text")
	if !IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStruct_Scalar(t *testing.T) {
	got, err := Apply[float64](context.Background(), Struct[float64](), "2.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 2.5 {
		t.Errorf("expected 2.5, got %v", got)
	}
}
