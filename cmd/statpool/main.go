package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/udisondev/statpool/internal/config"
	"github.com/udisondev/statpool/internal/stat"
)

const ConfigPath = "config/statpool.yaml"

func main() {
	reset := flag.Bool("reset", false, "delete stored pools and seed them from config again")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, os.Stdout, *reset); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, out io.Writer, reset bool) error {
	cfgPath := ConfigPath
	if p := os.Getenv("STATPOOL_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: config.ParseLogLevel(cfg.LogLevel),
	})))

	slog.Info("statpool starting",
		"config", cfgPath,
		"store", cfg.Store.Driver,
		"pools", len(cfg.Pools))

	store, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer closeStore()

	if reset {
		for _, entry := range cfg.Pools {
			if err := store.Delete(ctx, entry.Owner, entry.Name); err != nil {
				return fmt.Errorf("resetting pool %s: %w", entry.Key(), err)
			}
		}
		slog.Info("stored pools reset")
	}

	restorer := newRestorer(store)
	for _, entry := range cfg.Pools {
		if ctx.Err() != nil {
			slog.Info("interrupted, remaining pools skipped")
			return nil
		}

		p, restored, err := restorer.restore(ctx, entry)
		if err != nil {
			return err
		}
		slog.Info("pool ready", "pool", entry.Key(), "state", p.String(), "from_store", restored)

		stopLogging := logSignals(entry.Key(), p)
		runDemo(out, entry.Key(), p)
		stopLogging()

		if err := store.Save(ctx, entry.Owner, entry.Name, p.Snapshot()); err != nil {
			return fmt.Errorf("saving pool %s: %w", entry.Key(), err)
		}
	}

	slog.Info("statpool finished")
	return nil
}

// logSignals logs every notification of p until the returned func is called.
func logSignals(key string, p *stat.Pool) func() {
	return p.Subscribe(func(e stat.Event) {
		switch e.Signal {
		case stat.SignalDepleted, stat.SignalRestored, stat.SignalRestoredFully:
			slog.Info("pool "+e.Signal.String(), "pool", key, "value", e.New)
		default:
			slog.Debug(e.Signal.String(),
				"pool", key,
				"old", e.Old,
				"new", e.New,
				"increased", e.Increased)
		}
	})
}
