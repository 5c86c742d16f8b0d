// Command fetch sends one HTTP request through fetchkit and writes the
// response to stdout.
//
//	fetch -H 'Accept: text/plain' https://example.com/health
//	fetch --json -q page=2 --token "$TOKEN" GET https://api.example.com/items
//	fetch --stream PUT https://uploads.example.com/blob < big.bin
//
// Exit status is 0 on success, 1 for request failures, 2 for usage errors
// and 3 when the response fails --schema-required.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/kbukum/fetchkit/bootstrap"
	"github.com/kbukum/fetchkit/config"
	"github.com/kbukum/fetchkit/httpclient"
	"github.com/kbukum/fetchkit/logger"
	"github.com/kbukum/fetchkit/observability"
	"github.com/kbukum/fetchkit/schema"
)

const (
	exitOK     = 0
	exitError  = 1
	exitUsage  = 2
	exitSchema = 3
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintln(stderr, "fetch:", err)
		return exitUsage
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintln(stderr, "fetch:", err)
		return exitError
	}

	log := logger.NewWithWriter(&cfg.Logging, cfg.Name, stderr)
	logger.SetGlobalLogger(log)

	app, err := bootstrap.NewApp(cfg, bootstrap.WithLogger(log))
	if err != nil {
		fmt.Fprintln(stderr, "fetch:", err)
		return exitError
	}

	client := httpclient.NewComponent(cfg.HTTP, httpclient.WithLogger(log))
	if err := app.RegisterComponent(observability.NewComponent(cfg.Telemetry)); err != nil {
		fmt.Fprintln(stderr, "fetch:", err)
		return exitError
	}
	if err := app.RegisterComponent(client); err != nil {
		fmt.Fprintln(stderr, "fetch:", err)
		return exitError
	}

	err = app.RunTask(ctx, func(ctx context.Context) error {
		return execute(ctx, client.Client(), cfg, opts, stdin, stdout)
	})
	return exitCode(err, stderr)
}

// loadConfig reads configuration and applies command-line overrides.
func loadConfig(opts *options) (*Config, error) {
	var loaderOpts []config.LoaderOption
	if opts.configFile != "" {
		loaderOpts = append(loaderOpts, config.WithConfigFile(opts.configFile))
	}

	cfg := &Config{}
	if err := config.LoadConfig("fetch", cfg, loaderOpts...); err != nil {
		return nil, err
	}

	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.token != "" {
		cfg.Auth.Token = opts.token
	}
	if opts.jwtSecret != "" {
		cfg.Auth.JWT.Secret = opts.jwtSecret
	}
	if opts.jwtSubject != "" {
		cfg.Auth.JWT.Subject = opts.jwtSubject
	}
	if opts.otlpEndpoint != "" {
		cfg.Telemetry.Tracing.Endpoint = opts.otlpEndpoint
		cfg.Telemetry.Metrics.Endpoint = opts.otlpEndpoint
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return exitOK
	}
	fmt.Fprintln(stderr, "fetch:", err)
	var uerr *usageError
	switch {
	case errors.As(err, &uerr):
		return exitUsage
	case schema.IsValidationError(err):
		for _, issue := range schema.Issues(err) {
			fmt.Fprintln(stderr, "  -", issue.String())
		}
		return exitSchema
	default:
		return exitError
	}
}
