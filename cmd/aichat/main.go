// Command aichat streams assistant chat completions to stdout.
//
// Usage:
//
//	aichat [-config path] chat <prompt...>
//	aichat [-config path] docs
//
// Settings come from the YAML config file and AICHAT_* environment
// variables (see package config). When metrics.addr is set, Prometheus
// metrics are served on metrics.path for the lifetime of the command.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rhuss/aichat/pkg/api"
	"github.com/rhuss/aichat/pkg/assistant"
	"github.com/rhuss/aichat/pkg/config"
	"github.com/rhuss/aichat/pkg/debug"
	"github.com/rhuss/aichat/pkg/docs"
)

const usage = `usage: aichat [-config path] <command> [args]

commands:
  chat <prompt...>  stream a completion for prompt
  docs              print the documentation endpoint
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		ancli.PrintErr(fmt.Sprintf("aichat: %v\n", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("aichat", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to config file")
	fs.Usage = func() { fmt.Fprint(fs.Output(), usage) }
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	debug.Init(cfg.Log.Debug, cfg.Log.Level, cfg.Log.Format, nil)

	store := config.NewStore(cfg)

	switch cmd := fs.Arg(0); cmd {
	case "docs":
		fmt.Fprintln(stdout, docs.Endpoint(store))
		return nil
	case "chat":
		prompt := strings.TrimSpace(strings.Join(fs.Args()[1:], " "))
		if prompt == "" {
			return errors.New("chat: prompt is required")
		}
		if cfg.Metrics.Addr != "" {
			shutdown := serveMetrics(cfg.Metrics)
			defer shutdown()
		}
		return chat(ctx, cfg, store, prompt, stdout)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func chat(ctx context.Context, cfg *config.Config, store *config.Store, prompt string, stdout io.Writer) error {
	provider := store.Provider()
	a := assistant.New(store, assistant.WithRetry(cfg.Stream.MaxRetries, cfg.Stream.RetryInterval))

	_, err := a.ChatStream(ctx, assistant.Args{
		Messages: []api.ChatMessage{{Role: api.RoleUser, Content: prompt}},
		Provider: &provider,
		OnStream: func(_, delta string) {
			fmt.Fprint(stdout, delta)
		},
		OnEnd: func() {
			fmt.Fprintln(stdout)
		},
	})
	return err
}

// serveMetrics starts the Prometheus listener in the background and
// returns a func that stops it.
func serveMetrics(mc config.MetricsConfig) func() {
	mux := http.NewServeMux()
	mux.Handle("GET "+mc.Path, promhttp.Handler())
	srv := &http.Server{Addr: mc.Addr, Handler: mux}

	go func() {
		slog.Info("metrics listener starting", "addr", mc.Addr, "path", mc.Path)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics listener failed", "error", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}
}
