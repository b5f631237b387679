package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	FetchPagesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hh_fetch_pages_total",
		Help: "Количество загруженных страниц поисковой выдачи",
	})
	FetchErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hh_fetch_errors_total",
		Help: "Ошибки запросов к HH API",
	})
	VacanciesFetched = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hh_vacancies_fetched_total",
		Help: "Количество полученных вакансий",
	})
	VacanciesDelivered = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_vacancies_delivered_total",
		Help: "Количество вакансий, отправленных в чаты",
	}, []string{"chat_id"})
	BotSendErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bot_send_errors_total",
		Help: "Ошибки отправки сообщений ботом",
	})
	FloodWaitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bot_flood_waits_total",
		Help: "Количество пауз по флуд-контролю Telegram",
	})
	DeliveryCycleSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "delivery_cycle_seconds",
		Help:    "Длительность одного цикла доставки по чату",
		Buckets: prometheus.DefBuckets,
	})

	NetworkRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_request_duration_seconds",
		Help:    "Длительность сетевых запросов",
		Buckets: prometheus.DefBuckets,
	}, []string{"component", "operation", "target", "status"})

	NetworkRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "network_request_total",
		Help: "Количество сетевых запросов",
	}, []string{"component", "operation", "target", "status"})
)

// MustRegister регистрирует метрики.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		FetchPagesTotal,
		FetchErrorsTotal,
		VacanciesFetched,
		VacanciesDelivered,
		BotSendErrors,
		FloodWaitsTotal,
		DeliveryCycleSeconds,
		NetworkRequestDuration,
		NetworkRequestTotal,
	)
}

// StartServer запускает HTTP сервер с эндпоинтом /metrics.
func StartServer(ctx context.Context, logger zerolog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownTimeout); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: graceful shutdown failed")
		}
	}()

	go func() {
		logger.Info().Str("addr", addr).Msg("metrics: server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: server stopped")
		}
	}()
}

// ObserveNetworkRequest записывает длительность и статус сетевого запроса.
func ObserveNetworkRequest(component, operation, target string, start time.Time, err error) {
	if component == "" {
		component = "unknown"
	}
	if operation == "" {
		operation = "unknown"
	}
	if target == "" {
		target = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	duration := time.Since(start).Seconds()
	NetworkRequestDuration.WithLabelValues(component, operation, target, status).Observe(duration)
	NetworkRequestTotal.WithLabelValues(component, operation, target, status).Inc()
}

// IncDelivered увеличивает счётчик отправленных вакансий для чата.
func IncDelivered(chatID int64, n int) {
	if n <= 0 {
		return
	}
	VacanciesDelivered.WithLabelValues(strconv.FormatInt(chatID, 10)).Add(float64(n))
}
