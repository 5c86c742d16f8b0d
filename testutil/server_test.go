package testutil

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/kbukum/fetchkit/component"
)

func TestServer_RecordsAndReplies(t *testing.T) {
	srv := NewServer().Handle(http.MethodPost, "/echo", Text(201, "created"))
	T(t).Setup(srv)

	resp, err := http.Post(srv.URL()+"/echo?a=1", "text/plain", strings.NewReader("payload"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != 201 {
		t.Errorf("expected 201, got %d", resp.StatusCode)
	}
	if string(body) != "created" {
		t.Errorf("expected body 'created', got %q", body)
	}

	last := srv.Last()
	if last == nil {
		t.Fatal("expected a recorded request")
	}
	if last.Method != http.MethodPost || last.Path != "/echo" || last.Query != "a=1" {
		t.Errorf("unexpected request %s %s?%s", last.Method, last.Path, last.Query)
	}
	if string(last.Body) != "payload" {
		t.Errorf("expected body 'payload', got %q", last.Body)
	}
	if last.ContentLength != 7 {
		t.Errorf("expected content length 7, got %d", last.ContentLength)
	}
}

func TestServer_UnknownRoute(t *testing.T) {
	srv := NewServer()
	T(t).Setup(srv)

	resp, err := http.Get(srv.URL() + "/missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
	if len(srv.Requests()) != 1 {
		t.Errorf("expected unknown routes to be recorded")
	}
}

func TestServer_Chunks(t *testing.T) {
	srv := NewServer().Handle(http.MethodGet, "/stream", Reply{
		Chunks: [][]byte{[]byte("a"), []byte("b"), []byte("c")},
	})
	T(t).Setup(srv)

	resp, err := http.Get(srv.URL() + "/stream")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "abc" {
		t.Errorf("expected 'abc', got %q", body)
	}
}

func TestServer_Lifecycle(t *testing.T) {
	ctx := context.Background()
	srv := NewServer().Handle(http.MethodGet, "/", Text(200, "ok"))

	if h := srv.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}
	T(t).Setup(srv)
	if h := srv.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy after start, got %s", h.Status)
	}

	resp, err := http.Get(srv.URL() + "/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	snap, err := srv.Snapshot(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	T(t).Reset(srv)
	if srv.Last() != nil {
		t.Error("expected no requests after reset")
	}
	if err := srv.Restore(ctx, snap); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(srv.Requests()) != 1 {
		t.Errorf("expected 1 restored request, got %d", len(srv.Requests()))
	}
	if err := srv.Restore(ctx, "bad"); err == nil {
		t.Error("expected error for bad snapshot")
	}
}
