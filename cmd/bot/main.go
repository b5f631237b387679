package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"hh-vacancy-bot/internal/adapters/bot"
	"hh-vacancy-bot/internal/adapters/hh"
	"hh-vacancy-bot/internal/adapters/state"
	"hh-vacancy-bot/internal/adapters/telegram"
	"hh-vacancy-bot/internal/domain"
	"hh-vacancy-bot/internal/infra/config"
	infrahttp "hh-vacancy-bot/internal/infra/http"
	"hh-vacancy-bot/internal/infra/log"
	"hh-vacancy-bot/internal/infra/metrics"
	"hh-vacancy-bot/internal/usecase/notify"
	"hh-vacancy-bot/internal/usecase/schedule"
	"hh-vacancy-bot/internal/usecase/summary"
)

func main() {
	cfg := config.Load()
	logger := log.NewLogger(cfg.AppEnv)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	loc, err := time.LoadLocation(cfg.TZ)
	if err != nil {
		logger.Fatal().Err(err).Str("tz", cfg.TZ).Msg("неизвестный часовой пояс")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var store domain.StateStore = state.NewMemory()
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis недоступен")
		}
		defer client.Close()
		store = state.NewRedis(client)
		logger.Info().Str("addr", cfg.RedisAddr).Msg("состояние чатов хранится в Redis")
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		logger.Fatal().Err(err).Msg("не удалось создать бота")
	}

	provider := hh.NewClient(hh.Options{
		BaseURL:  cfg.HH.BaseURL,
		Query:    cfg.HH.Query,
		Area:     cfg.HH.Area,
		PageSize: cfg.HH.PageSize,
		MaxItems: cfg.HH.MaxItems,
		RPS:      cfg.HH.RPS,
		Timeout:  cfg.HH.Timeout,
	}, loc, logger)

	sender := telegram.NewSender(botAPI, logger)
	notifier := notify.NewService(provider, store, sender, logger, cfg.Delivery.BatchSize, cfg.Delivery.BatchDelay)
	summarizer := summary.NewService(store, sender, logger)
	scheduler := schedule.NewService(notifier, logger, cfg.Delivery.FirstDelay, cfg.Delivery.Interval)
	handler := bot.NewHandler(botAPI, logger, scheduler, summarizer)

	var srv *infrahttp.Server
	if cfg.Telegram.WebhookURL != "" {
		wh, err := tgbotapi.NewWebhook(cfg.Telegram.WebhookURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("некорректный URL вебхука")
		}
		if _, err := botAPI.Request(wh); err != nil {
			logger.Fatal().Err(err).Msg("не удалось установить вебхук")
		}
		logger.Info().Str("url", cfg.Telegram.WebhookURL).Msg("вебхук установлен")

		srv = infrahttp.NewServer(logger)
		srv.Router.Post("/bot/webhook", func(w http.ResponseWriter, r *http.Request) {
			var update tgbotapi.Update
			if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			handler.HandleUpdate(r.Context(), update)
			w.WriteHeader(http.StatusOK)
		})
		go func() {
			if err := srv.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil {
				logger.Error().Err(err).Msg("HTTP сервер остановлен")
			}
		}()
	} else {
		metrics.StartServer(ctx, logger, cfg.MetricsAddr)

		u := tgbotapi.NewUpdate(0)
		u.Timeout = 30
		updates := botAPI.GetUpdatesChan(u)
		go func() {
			logger.Info().Msg("бот запущен в режиме long polling")
			for update := range updates {
				handler.HandleUpdate(ctx, update)
			}
		}()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	<-stop
	logger.Info().Msg("остановка бота")
	cancel()
	scheduler.Stop()

	if cfg.Telegram.WebhookURL != "" {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
		if _, err := botAPI.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
			logger.Error().Err(err).Msg("не удалось снять вебхук")
		}
	} else {
		botAPI.StopReceivingUpdates()
	}
}
