package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"nuclight.org/buttonpoll/internal/bot"
	"nuclight.org/buttonpoll/internal/config"
	"nuclight.org/buttonpoll/internal/logger"
	"nuclight.org/buttonpoll/internal/metrics"
	"nuclight.org/buttonpoll/internal/poll"
	"nuclight.org/buttonpoll/internal/storage"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot",
		RunE:  serveRun,
	}
}

func serveRun(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if globalFlags.debug {
		cfg.Debug = true
	}

	log, flush, err := logger.Setup(cfg.SentryDSN, cfg.Debug)
	if err != nil {
		return err
	}
	defer flush()
	slog.SetDefault(log)

	// Respect container CPU quotas; the undo func is not needed.
	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		log.Info(fmt.Sprintf(format, args...), "component", programName)
	})); err != nil {
		return fmt.Errorf("set GOMAXPROCS: %w", err)
	}

	log.Info("config loaded",
		"store", cfg.StoreBackend,
		"slot_length", cfg.SlotLength,
		"metrics_addr", cfg.MetricsAddr,
		"sentry", cfg.SentryDSN != "",
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	polls, err := poll.NewService(store,
		poll.WithSlotLen(cfg.SlotLength),
		poll.WithRecorder(metrics.NewPollMetrics(reg)),
	)
	if err != nil {
		return fmt.Errorf("create poll service: %w", err)
	}

	b, err := bot.New(cfg.TelegramToken, polls, cfg.NameCacheSize, log)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}
	b.RegisterCommands()
	b.RegisterHandlers()

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr, metrics.Router(reg, b.Ping), log); err != nil {
				log.Error("metrics server failed", "error", err)
			}
		}()
	}

	// The store is closed on return; Stop waits for in-flight votes first.
	stopped := make(chan struct{})
	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		b.Stop()
		close(stopped)
	}()

	b.Start()
	<-stopped
	return nil
}
