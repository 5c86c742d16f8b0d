package sse

import (
	"io"
	"strings"
	"testing"
	"time"
)

func newBody(s string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(s))
}

func readAll(t *testing.T, s string) []*Event {
	t.Helper()
	r := NewReader(newBody(s))
	defer r.Close()

	var events []*Event
	for {
		ev, err := r.Next()
		if err == io.EOF {
			return events
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		events = append(events, ev)
	}
}

func TestReader_Events(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Event
	}{
		{"single", "data: hello world\n\n", []Event{{Data: "hello world"}}},
		{"multiple", "data: first\n\ndata: second\n\n", []Event{{Data: "first"}, {Data: "second"}}},
		{"typed", "event: message\ndata: hello\n\n", []Event{{Event: "message", Data: "hello"}}},
		{"id", "id: 42\ndata: hello\n\n", []Event{{ID: "42", Data: "hello"}}},
		{"multi-line data", "data: line1\ndata: line2\ndata: line3\n\n", []Event{{Data: "line1\nline2\nline3"}}},
		{"comment", ": keepalive\ndata: hello\n\n", []Event{{Data: "hello"}}},
		{"no space", "data:no-space\n\n", []Event{{Data: "no-space"}}},
		{"no trailing newline", "data: trailing", []Event{{Data: "trailing"}}},
		{"crlf", "event: a\r\ndata: x\r\n\r\ndata: y\r\n\r\n", []Event{{Event: "a", Data: "x"}, {Data: "y"}}},
		{"bare cr", "data: x\r\rdata: y\r\r", []Event{{Data: "x"}, {Data: "y"}}},
		{"retry", "retry: 3000\ndata: r\n\n", []Event{{Data: "r", Retry: 3 * time.Second}}},
		{"bad retry ignored", "retry: soon\ndata: r\n\n", []Event{{Data: "r"}}},
		{"event without data skipped", "event: ping\n\ndata: d\n\n", []Event{{Data: "d"}}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := readAll(t, tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d events, got %d", len(tt.want), len(got))
			}
			for i := range tt.want {
				if *got[i] != tt.want[i] {
					t.Errorf("event %d: expected %+v, got %+v", i, tt.want[i], *got[i])
				}
			}
		})
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		line  string
		field string
		value string
	}{
		{"data: hello", "data", "hello"},
		{"data:hello", "data", "hello"},
		{"data:  two", "data", " two"},
		{"event: msg", "event", "msg"},
		{"retry: 3000", "retry", "3000"},
		{"fieldonly", "fieldonly", ""},
	}
	for _, tt := range tests {
		f, v := parseLine(tt.line)
		if f != tt.field || v != tt.value {
			t.Errorf("parseLine(%q): expected (%q, %q), got (%q, %q)", tt.line, tt.field, tt.value, f, v)
		}
	}
}
