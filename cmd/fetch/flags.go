package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/pflag"

	"github.com/kbukum/fetchkit/search"
)

// usageError marks command-line mistakes.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

type options struct {
	configFile     string
	token          string
	headers        []string
	query          []string
	data           string
	jsonMode       bool
	stream         bool
	jwtSecret      string
	jwtSubject     string
	logLevel       string
	otlpEndpoint   string
	schemaRequired []string

	method string
	url    string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	o := &options{}
	fs := pflag.NewFlagSet("fetch", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: fetch [flags] [METHOD] URL")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}

	fs.StringVar(&o.configFile, "config", "", "path to config.yml")
	fs.StringVar(&o.token, "token", "", "bearer token")
	fs.StringArrayVarP(&o.headers, "header", "H", nil, `request header "Key: Value" (repeatable)`)
	fs.StringArrayVarP(&o.query, "query", "q", nil, "query parameter key=value (repeatable, ordered)")
	fs.StringVarP(&o.data, "data", "d", "", "request body, @file to read a file, @- for stdin")
	fs.BoolVar(&o.jsonMode, "json", false, "send and decode JSON, pretty-print the result")
	fs.BoolVar(&o.stream, "stream", false, "stream the response body; POST and PUT upload stdin")
	fs.StringVar(&o.jwtSecret, "jwt-secret", "", "HMAC secret for minting bearer JWTs")
	fs.StringVar(&o.jwtSubject, "jwt-subject", "", "subject claim for minted JWTs")
	fs.StringVar(&o.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	fs.StringVar(&o.otlpEndpoint, "otlp-endpoint", "", "OTLP HTTP endpoint host:port for traces and metrics")
	fs.StringSliceVar(&o.schemaRequired, "schema-required", nil, "with --json, keys the response object must contain")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, err
		}
		return nil, &usageError{msg: err.Error()}
	}

	switch rest := fs.Args(); len(rest) {
	case 1:
		o.method, o.url = http.MethodGet, rest[0]
	case 2:
		o.method, o.url = strings.ToUpper(rest[0]), rest[1]
	default:
		return nil, usagef("expected [METHOD] URL, got %d arguments", len(rest))
	}

	if o.jsonMode && o.stream {
		return nil, usagef("--json and --stream are mutually exclusive")
	}
	if len(o.schemaRequired) > 0 && !o.jsonMode {
		return nil, usagef("--schema-required needs --json")
	}
	if o.stream {
		switch o.method {
		case http.MethodGet, http.MethodPost, http.MethodPut:
		default:
			return nil, usagef("--stream supports GET, POST and PUT, got %s", o.method)
		}
	}
	if _, err := o.headerMap(); err != nil {
		return nil, err
	}
	if _, err := o.searchPairs(); err != nil {
		return nil, err
	}
	return o, nil
}

// headerMap parses -H values. Later values for the same name win.
func (o *options) headerMap() (map[string]string, error) {
	if len(o.headers) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(o.headers))
	for _, h := range o.headers {
		k, v, ok := strings.Cut(h, ":")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, usagef("invalid header %q, want \"Key: Value\"", h)
		}
		out[k] = strings.TrimSpace(v)
	}
	return out, nil
}

func (o *options) searchPairs() (search.Pairs, error) {
	if len(o.query) == 0 {
		return nil, nil
	}
	pairs := make(search.Pairs, 0, len(o.query))
	for _, q := range o.query {
		k, v, ok := strings.Cut(q, "=")
		if !ok || k == "" {
			return nil, usagef("invalid query %q, want key=value", q)
		}
		pairs = append(pairs, [2]string{k, v})
	}
	return pairs, nil
}
