package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"buyee_bot/internal/bot"
	"buyee_bot/internal/config"
	"buyee_bot/internal/currency"
	"buyee_bot/internal/dedup"
	"buyee_bot/internal/poller"
	"buyee_bot/internal/proxy"
	"buyee_bot/internal/scraper"
	"buyee_bot/internal/storage"
	"buyee_bot/internal/translate"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			log.Error("create data directory", "path", dir, "error", err)
			os.Exit(1)
		}
	}

	store, err := storage.NewSQLite(cfg.DatabasePath)
	if err != nil {
		log.Error("open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	b, err := bot.New(cfg.TelegramBotToken, store, log)
	if err != nil {
		log.Error("create bot", "error", err)
		os.Exit(1)
	}

	// Rate, translate, and proxy-list requests go out directly; only
	// marketplace fetches are routed through the rotator.
	apiClient := &http.Client{Timeout: 10 * time.Second}

	rotator := proxy.New(apiClient, cfg.ProxyListURL, cfg.ProxyEnabled, log)
	marketClient := scraper.NewHTTPClient(rotator)

	converter := currency.New(apiClient, "", log)
	translator := translate.NewGoogle(apiClient, "ja", "en")
	seen := dedup.New()

	scanners := []poller.Scanner{
		scraper.NewAuction(marketClient, seen, converter, translator, log),
		scraper.NewFleaMarket(marketClient, seen, converter, translator, log),
	}

	p := poller.New(store, scanners, seen, b,
		time.Duration(cfg.CheckInterval)*time.Second, log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("starting bot")

	if cfg.CheckEnabled {
		go p.Run(ctx)
	} else {
		log.Info("auction checking disabled via ENABLE_CHECK")
	}

	b.Run(ctx)

	log.Info("bot stopped")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
