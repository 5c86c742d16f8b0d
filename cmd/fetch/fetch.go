package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/kbukum/fetchkit/httpclient"
	"github.com/kbukum/fetchkit/httpclient/rest"
	"github.com/kbukum/fetchkit/schema"
)

// execute sends the request described by opts and writes the result to stdout.
func execute(ctx context.Context, client *httpclient.Client, cfg *Config, opts *options, stdin io.Reader, stdout io.Writer) error {
	reqOpts, err := requestOptions(cfg, opts)
	if err != nil {
		return err
	}

	switch {
	case opts.stream:
		return fetchStream(ctx, client, opts, reqOpts, stdin, stdout)
	case opts.jsonMode:
		body, err := readBody(opts.data, stdin)
		if err != nil {
			return err
		}
		if body != nil {
			reqOpts = append(reqOpts, httpclient.WithBody(jsonBody(body)))
		}
		return fetchJSON(ctx, client, opts, reqOpts, stdout)
	default:
		body, err := readBody(opts.data, stdin)
		if err != nil {
			return err
		}
		if body != nil {
			reqOpts = append(reqOpts, httpclient.WithBody(body))
		}
		resp, err := client.Request(ctx, opts.method, opts.url, reqOpts...)
		if err != nil {
			return err
		}
		_, err = stdout.Write(resp.Body)
		return err
	}
}

func requestOptions(cfg *Config, opts *options) ([]httpclient.RequestOption, error) {
	var out []httpclient.RequestOption

	src, err := cfg.tokenSource()
	if err != nil {
		return nil, err
	}
	if src != nil {
		out = append(out, httpclient.WithTokenSource(src))
	}

	headers, err := opts.headerMap()
	if err != nil {
		return nil, err
	}
	if len(headers) > 0 {
		out = append(out, httpclient.WithHeaders(headers))
	}

	pairs, err := opts.searchPairs()
	if err != nil {
		return nil, err
	}
	if len(pairs) > 0 {
		out = append(out, httpclient.WithSearch(pairs))
	}
	return out, nil
}

// readBody resolves --data. "@path" reads a file and "@-" reads stdin.
// It returns nil when no body was given.
func readBody(data string, stdin io.Reader) ([]byte, error) {
	switch {
	case data == "":
		return nil, nil
	case data == "@-":
		return io.ReadAll(stdin)
	case strings.HasPrefix(data, "@"):
		b, err := os.ReadFile(data[1:])
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		return b, nil
	default:
		return []byte(data), nil
	}
}

// jsonBody sends valid JSON verbatim as a serialized body and anything else
// as text.
func jsonBody(b []byte) any {
	if json.Valid(b) {
		return json.RawMessage(b)
	}
	return string(b)
}

func fetchJSON(ctx context.Context, client *httpclient.Client, opts *options, reqOpts []httpclient.RequestOption, stdout io.Writer) error {
	var (
		v   any
		err error
	)
	if len(opts.schemaRequired) > 0 {
		v, err = rest.DoValidated(ctx, client, opts.method, opts.url, requireKeys(opts.schemaRequired), reqOpts...)
	} else {
		v, err = rest.Do[any](ctx, client, opts.method, opts.url, reqOpts...)
	}
	if err != nil {
		return err
	}
	if s, ok := v.(string); ok {
		_, err = io.WriteString(stdout, s)
		return err
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// requireKeys accepts a JSON object containing every key.
func requireKeys(keys []string) schema.Schema[map[string]any] {
	return schema.Func[map[string]any](func(input any) schema.Result[map[string]any] {
		obj, ok := input.(map[string]any)
		if !ok {
			return schema.Fail[map[string]any](schema.Issue{Message: fmt.Sprintf("expected a JSON object, got %T", input)})
		}
		var issues []schema.Issue
		for _, k := range keys {
			if _, ok := obj[k]; !ok {
				issues = append(issues, schema.Issue{Message: "is required", Path: []any{k}})
			}
		}
		if len(issues) > 0 {
			return schema.Fail[map[string]any](issues...)
		}
		return schema.Ok(obj)
	})
}

func fetchStream(ctx context.Context, client *httpclient.Client, opts *options, reqOpts []httpclient.RequestOption, stdin io.Reader, stdout io.Writer) error {
	var (
		resp *httpclient.StreamResponse
		err  error
	)
	switch opts.method {
	case http.MethodGet:
		resp, err = client.GetStream(ctx, opts.url, reqOpts...)
	default:
		src, done, serr := uploadSource(opts.data, stdin)
		if serr != nil {
			return serr
		}
		defer done()
		if opts.method == http.MethodPost {
			resp, err = client.PostStream(ctx, opts.url, src, reqOpts...)
		} else {
			resp, err = client.PutStream(ctx, opts.url, src, reqOpts...)
		}
	}
	if err != nil {
		return err
	}
	defer resp.Close()

	if resp.SSE == nil {
		_, err = io.Copy(stdout, resp.Body)
		return err
	}
	for {
		ev, err := resp.SSE.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if ev.Event != "" {
			fmt.Fprintf(stdout, "event: %s\n", ev.Event)
		}
		for _, line := range strings.Split(ev.Data, "\n") {
			fmt.Fprintf(stdout, "data: %s\n", line)
		}
		fmt.Fprintln(stdout)
	}
}

// uploadSource picks the streaming upload body: a file for "@path", the
// literal --data text, or stdin. done releases the source.
func uploadSource(data string, stdin io.Reader) (src io.Reader, done func(), err error) {
	switch {
	case data == "" || data == "@-":
		return stdin, func() {}, nil
	case strings.HasPrefix(data, "@"):
		f, err := os.Open(data[1:])
		if err != nil {
			return nil, nil, fmt.Errorf("read body: %w", err)
		}
		return f, func() { _ = f.Close() }, nil
	default:
		return strings.NewReader(data), func() {}, nil
	}
}
