package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nextsystem/dropgate/internal/bot"
	"github.com/nextsystem/dropgate/internal/config"
	"github.com/nextsystem/dropgate/internal/gate"
	"github.com/nextsystem/dropgate/internal/jobs"
	"github.com/nextsystem/dropgate/internal/logger"
	"github.com/nextsystem/dropgate/internal/notify"
	"github.com/nextsystem/dropgate/internal/repository/sheets"
	"github.com/nextsystem/dropgate/internal/scheduler"
	"github.com/nextsystem/dropgate/internal/sequence"
	"github.com/nextsystem/dropgate/internal/service"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (optional, env vars override)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting dropgate bot...",
		"mode", cfg.Telegram.Mode, "log_level", cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Record store
	credentials, err := cfg.Credentials()
	if err != nil {
		logger.Error("Failed to load Google credentials", "error", err)
		log.Fatalf("Failed to load Google credentials: %v", err)
	}
	store, err := sheets.NewClient(ctx, cfg.Sheets.SpreadsheetID, credentials,
		time.Duration(cfg.Sheets.TimeoutSeconds)*time.Second)
	if err != nil {
		logger.Error("Failed to create sheets client", "error", err)
		log.Fatalf("Failed to create sheets client: %v", err)
	}
	if err := store.EnsureCollections(ctx); err != nil {
		logger.Error("Failed to bootstrap collections", "error", err)
		log.Fatalf("Failed to bootstrap collections: %v", err)
	}
	logger.Info("Spreadsheet collections ready", "spreadsheet_id", cfg.Sheets.SpreadsheetID)

	offerRepo := sheets.NewOfferRepository(store)
	participantRepo := sheets.NewParticipantRepository(store)
	queueRepo := sheets.NewQueueRepository(store)
	proofRepo := sheets.NewProofRepository(store)

	// Identifier allocation is in-process; seed it from the store's
	// current maxima so a restart can never reissue an ID.
	seq := sequence.NewAllocator()
	queueMax, err := queueRepo.MaxID(ctx)
	if err != nil {
		logger.Error("Failed to read queue max ID", "error", err)
		log.Fatalf("Failed to read queue max ID: %v", err)
	}
	proofMax, err := proofRepo.MaxID(ctx)
	if err != nil {
		logger.Error("Failed to read proof max ID", "error", err)
		log.Fatalf("Failed to read proof max ID: %v", err)
	}
	seq.Seed(service.QueueCollection, queueMax)
	seq.Seed(service.ProofCollection, proofMax)
	logger.Info("ID allocator seeded", "queue_max", queueMax, "proof_max", proofMax)

	// Services
	admissionSvc := service.NewAdmissionService(offerRepo, participantRepo, queueRepo, seq)
	moderationSvc := service.NewModerationService(proofRepo, queueRepo, seq)
	accessGate := gate.New(cfg.Access.AdminIDs, cfg.Access.PinCode)

	// Transport
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		logger.Error("Failed to connect to Telegram", "error", err)
		log.Fatalf("Failed to connect to Telegram: %v", err)
	}
	logger.Info("Authorized on Telegram", "bot", api.Self.UserName)

	fanout := notify.New(api)
	b := bot.New(api, admissionSvc, moderationSvc, accessGate, fanout)

	// Scheduled reviewer digest
	runner := jobs.NewRunner(admissionSvc, moderationSvc, accessGate, fanout)
	sched := scheduler.New(runner, cfg.Scheduler.DailyDigest)
	sched.Start()
	defer sched.Stop()

	switch cfg.Telegram.Mode {
	case "webhook":
		runWebhook(ctx, cfg, api, b)
	default:
		b.RunPolling(ctx)
	}

	logger.Info("Shutdown complete")
}

func runWebhook(ctx context.Context, cfg *config.Config, api *tgbotapi.BotAPI, b *bot.Bot) {
	wh, err := tgbotapi.NewWebhook(cfg.Telegram.WebhookURL)
	if err != nil {
		logger.Error("Invalid webhook URL", "error", err)
		log.Fatalf("Invalid webhook URL: %v", err)
	}
	wh.SecretToken = cfg.Telegram.WebhookSecret
	if _, err := api.Request(wh); err != nil {
		logger.Error("Failed to register webhook", "error", err)
		log.Fatalf("Failed to register webhook: %v", err)
	}
	logger.Info("Webhook registered", "url", cfg.Telegram.WebhookURL)

	srv := bot.NewWebhookServer(b, cfg.Telegram.ListenAddr, cfg.Telegram.WebhookSecret)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			logger.Error("Webhook server failed", "error", err)
		}
	}

	if _, err := api.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true}); err != nil {
		logger.Warn("Failed to delete webhook", "error", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Webhook server shutdown failed", "error", err)
	}
}
