package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nvbf/event-seed/pkg/config"
	"github.com/nvbf/event-seed/pkg/logging"
	"github.com/nvbf/event-seed/pkg/rpc"
	runid "github.com/nvbf/event-seed/pkg/runID"

	eventapi "github.com/nvbf/event-seed/repos/eventapi"
	images "github.com/nvbf/event-seed/repos/images"
	resend "github.com/nvbf/event-seed/repos/resend"

	seed "github.com/nvbf/event-seed/services/seed"
)

func main() {
	cfg, err := config.LoadSeedConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := run(ctx, cfg, logger); err != nil {
		logger.Error("seed failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.SeedConfig, logger *slog.Logger) (*seed.Report, error) {
	runID := runid.New()
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	transport, err := rpc.NewTransport(cfg, httpClient, runID)
	if err != nil {
		return nil, err
	}
	defer transport.Close()

	eventService := eventapi.NewService(transport, logger)
	imageService := images.NewService(httpClient, cfg.APIURL, cfg.APIToken, runID, logger)

	seedService := seed.NewSeedService(eventService, imageService, seed.Options{
		Dataset:      seed.DefaultDataset(),
		ImageBaseURL: cfg.ImageBaseURL,
		RunID:        runID,
		UniqueNames:  cfg.UniqueNames,
		Logger:       logger,
	})

	report, err := seedService.Run(ctx)
	if err != nil {
		return report, err
	}

	if cfg.ReportEnabled() {
		mailer := resend.NewService(cfg.ResendKey, cfg.ReportFromEmail, cfg.ReportEmail, logger)
		if err := mailer.SendSeedReport(ctx, resend.Report{RunID: report.RunID, Summary: report.Summary()}); err != nil {
			return report, err
		}
	}
	return report, nil
}
