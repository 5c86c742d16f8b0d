package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/fetchkit/httpclient"
	"github.com/kbukum/fetchkit/schema"
	"github.com/kbukum/fetchkit/testutil"
)

type fake struct {
	Fake string `json:"fake" validate:"required"`
}

func setup(t *testing.T) (*testutil.Server, *httpclient.Client) {
	t.Helper()
	srv := testutil.NewServer()
	testutil.T(t).Setup(srv)
	c, err := httpclient.New(httpclient.Config{BaseURL: srv.URL()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return srv, c
}

// updating echoes the posted "fake" field with "Updated" appended.
func updating(status int) testutil.Reply {
	return testutil.Reply{Func: func(c *gin.Context, rec testutil.Recorded) {
		var in fake
		if err := json.Unmarshal(rec.Body, &in); err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		c.JSON(status, fake{Fake: in.Fake + "Updated"})
	}}
}

func TestPost_JSONRoundTrip(t *testing.T) {
	srv, c := setup(t)
	srv.Handle(http.MethodPost, "/testpost", updating(http.StatusOK))

	got, err := Post[fake](context.Background(), c, "/testpost", fake{Fake: "Data"},
		httpclient.WithToken("fakeToken"),
		httpclient.WithHeader("custom-header", "OK"),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Fake != "DataUpdated" {
		t.Errorf("expected DataUpdated, got %q", got.Fake)
	}

	last := srv.Last()
	checks := map[string]string{
		"Authorization": "Bearer fakeToken",
		"Content-Type":  "application/json",
		"Accept":        "application/json",
		"Custom-Header": "OK",
	}
	for k, want := range checks {
		if got := last.Headers.Get(k); got != want {
			t.Errorf("%s: expected %q, got %q", k, want, got)
		}
	}
	if last.ContentLength != 15 {
		t.Errorf("expected content length 15, got %d", last.ContentLength)
	}
}

func TestPut_NoToken(t *testing.T) {
	srv, c := setup(t)
	srv.Handle(http.MethodPut, "/testput", updating(http.StatusOK))

	got, err := Put[fake](context.Background(), c, "/testput", map[string]string{"fake": "Data"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Fake != "DataUpdated" {
		t.Errorf("expected DataUpdated, got %q", got.Fake)
	}
	if _, ok := srv.Last().Headers["Authorization"]; ok {
		t.Error("expected no Authorization header")
	}
}

func TestGetDelete_NoBodyHeaders(t *testing.T) {
	srv, c := setup(t)
	srv.Handle(http.MethodGet, "/testget", testutil.JSON(200, `{"fake":"DataUpdated"}`))
	srv.Handle(http.MethodDelete, "/testdelete", testutil.JSON(200, `{"fake":"DataUpdated"}`))

	ctx := context.Background()
	if got, err := Get[fake](ctx, c, "/testget", httpclient.WithToken("fakeToken")); err != nil || got.Fake != "DataUpdated" {
		t.Fatalf("unexpected result %+v (%v)", got, err)
	}
	last := srv.Last()
	if last.Headers.Get("Accept") != "application/json" {
		t.Errorf("expected json Accept, got %q", last.Headers.Get("Accept"))
	}
	if last.Headers.Get("Content-Type") != "" {
		t.Errorf("expected no Content-Type, got %q", last.Headers.Get("Content-Type"))
	}

	if got, err := Delete[fake](ctx, c, "/testdelete"); err != nil || got.Fake != "DataUpdated" {
		t.Fatalf("unexpected result %+v (%v)", got, err)
	}
	if srv.Last().Method != http.MethodDelete {
		t.Errorf("expected DELETE, got %s", srv.Last().Method)
	}
}

func TestDo_TextFallback(t *testing.T) {
	srv, c := setup(t)
	srv.Handle(http.MethodGet, "/text", testutil.Text(200, "plain words"))
	ctx := context.Background()

	s, err := Get[string](ctx, c, "/text")
	if err != nil || s != "plain words" {
		t.Errorf("expected text, got %q (%v)", s, err)
	}
	b, err := Get[[]byte](ctx, c, "/text")
	if err != nil || string(b) != "plain words" {
		t.Errorf("expected bytes, got %q (%v)", b, err)
	}
	v, err := Get[any](ctx, c, "/text")
	if err != nil || v != "plain words" {
		t.Errorf("expected text in interface, got %v (%v)", v, err)
	}
	_, err = Get[fake](ctx, c, "/text")
	if !errors.Is(err, ErrNotJSON) {
		t.Errorf("expected ErrNotJSON, got %v", err)
	}
}

func TestDo_EmptyResponse(t *testing.T) {
	srv, c := setup(t)
	srv.Handle(http.MethodDelete, "/x", testutil.Reply{Status: http.StatusNoContent})

	got, err := Do[string](context.Background(), c, http.MethodDelete, "/x")
	if err != nil || got != "" {
		t.Errorf("expected empty text, got %q (%v)", got, err)
	}
}

func TestDelete_NoContentStruct(t *testing.T) {
	srv, c := setup(t)
	srv.Handle(http.MethodDelete, "/items/1", testutil.Reply{Status: http.StatusNoContent})

	got, err := Delete[fake](context.Background(), c, "/items/1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (fake{}) {
		t.Errorf("expected zero value, got %+v", got)
	}
}

func TestDo_EmptyJSONBody(t *testing.T) {
	srv, c := setup(t)
	srv.Handle(http.MethodGet, "/empty", testutil.Reply{
		Status:  http.StatusOK,
		Headers: map[string]string{"Content-Type": "application/json"},
	})

	got, err := Do[fake](context.Background(), c, http.MethodGet, "/empty")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (fake{}) {
		t.Errorf("expected zero value, got %+v", got)
	}
}

func TestDo_ContentTypeWithCharset(t *testing.T) {
	srv, c := setup(t)
	srv.Handle(http.MethodPatch, "/p", testutil.Reply{
		Headers: map[string]string{"Content-Type": "application/json; charset=utf-8"},
		Body:    []byte(`{"fake":"x"}`),
	})

	got, err := Do[fake](context.Background(), c, http.MethodPatch, "/p", httpclient.WithBody(`{"fake":"x"}`))
	if err != nil || got.Fake != "x" {
		t.Errorf("unexpected result %+v (%v)", got, err)
	}
	if ct := srv.Last().Headers.Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected json content type for pre-encoded body, got %q", ct)
	}
}

func TestDo_BadStatus(t *testing.T) {
	srv, c := setup(t)
	srv.Handle(http.MethodGet, "/missing", testutil.JSON(404, `{"error":"not found"}`))

	_, err := Get[fake](context.Background(), c, "/missing")
	if !IsRequestError(err) || !IsNotFound(err) {
		t.Errorf("expected not-found RequestError, got %v", err)
	}
	if IsSchemaValidation(err) {
		t.Error("bad status must not be a schema error")
	}
}

func TestDo_MalformedJSON(t *testing.T) {
	srv, c := setup(t)
	srv.Handle(http.MethodGet, "/bad", testutil.JSON(200, `{"fake":`))

	_, err := Get[fake](context.Background(), c, "/bad")
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Errorf("expected decode error, got %v", err)
	}
}

func TestValidated_Transforms(t *testing.T) {
	srv, c := setup(t)
	srv.Handle(http.MethodPost, "/testpost", updating(http.StatusOK))

	upper := schema.Func[string](func(input any) schema.Result[string] {
		m, ok := input.(map[string]any)
		if !ok {
			return schema.Fail[string](schema.Issue{Message: "expected object"})
		}
		s, _ := m["fake"].(string)
		return schema.Ok(strings.ToUpper(s))
	})

	got, err := PostValidated(context.Background(), c, "/testpost", fake{Fake: "Data"}, upper)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "DATAUPDATED" {
		t.Errorf("expected transformed value, got %q", got)
	}
}

func TestValidated_Issues(t *testing.T) {
	srv, c := setup(t)
	srv.Handle(http.MethodGet, "/empty", testutil.JSON(200, `{"other":1}`))

	_, err := GetValidated(context.Background(), c, "/empty", schema.Struct[fake]())
	if !IsSchemaValidation(err) {
		t.Fatalf("expected schema validation error, got %v", err)
	}
	issues := schema.Issues(err)
	if len(issues) != 1 || len(issues[0].Path) != 1 || issues[0].Path[0] != "fake" {
		t.Errorf("unexpected issues %+v", issues)
	}
	if IsRequestError(err) {
		t.Error("schema failures must not be RequestError")
	}
}

func TestValidated_TextGoesThroughSchema(t *testing.T) {
	srv, c := setup(t)
	srv.Handle(http.MethodDelete, "/t", testutil.Text(200, "42"))
	srv.Handle(http.MethodPut, "/t", testutil.Text(200, "42"))

	seen := ""
	s := schema.Func[int](func(input any) schema.Result[int] {
		seen, _ = input.(string)
		return schema.Ok(len(seen))
	})

	ctx := context.Background()
	n, err := DeleteValidated(ctx, c, "/t", s)
	if err != nil || n != 2 || seen != "42" {
		t.Errorf("expected schema to see text, got n=%d seen=%q (%v)", n, seen, err)
	}
	if _, err := PutValidated(ctx, c, "/t", "body", s); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := DoValidated(ctx, c, http.MethodPut, "/t", s); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
