package main

// Run the Telegram bot with long polling:
//   BOT_TOKEN=... go run ./cmd/bot

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"jobs-backend/internal/bootstrap"
	"jobs-backend/internal/bot"
	"jobs-backend/internal/shared/config"
	"jobs-backend/internal/shared/storage/db"
	"jobs-backend/internal/shared/telemetry"
	"jobs-backend/internal/telegram"
)

const pollTimeoutSeconds = 60

func main() {
	cfg := config.Load()
	if cfg.BotToken == "" {
		log.Fatalf("BOT_TOKEN is required")
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api, err := telegram.NewAPI(cfg.BotToken)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := bootstrap.Build(ctx, cfg, bootstrap.Options{
		DB:     db.DefaultBotOptions(cfg.BotWorkers),
		BotAPI: api,
	})
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeoutSeconds
	updates := api.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		api.StopReceivingUpdates()
	}()

	telemetry.Info("bot.polling", map[string]any{"username": api.Self.UserName, "workers": cfg.BotWorkers})
	bot.NewDispatcher(cfg.BotWorkers, app.Bot.HandleUpdate).Run(ctx, updates)
	telemetry.Info("bot.stopped", nil)
}
