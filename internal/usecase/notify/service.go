package notify

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hh-vacancy-bot/internal/domain"
	"hh-vacancy-bot/internal/infra/metrics"
)

// Service реализует цикл доставки: выгрузка, дедупликация, батчи, отправка.
type Service struct {
	provider   domain.VacancyProvider
	state      domain.StateStore
	sender     domain.MessageSender
	log        zerolog.Logger
	batchSize  int
	batchDelay time.Duration
}

// NewService создаёт сервис доставки.
func NewService(provider domain.VacancyProvider, state domain.StateStore, sender domain.MessageSender, logger zerolog.Logger, batchSize int, batchDelay time.Duration) *Service {
	return &Service{
		provider:   provider,
		state:      state,
		sender:     sender,
		log:        logger,
		batchSize:  batchSize,
		batchDelay: batchDelay,
	}
}

// Deliver выполняет один цикл доставки для чата. Запись в состояние и отправка —
// независимые стадии: зарегистрированная вакансия остаётся зарегистрированной,
// даже если её сообщение не удалось доставить. Ошибки абсорбируются, следующий
// цикл по расписанию идёт как обычно.
func (s *Service) Deliver(ctx context.Context, chatID int64) {
	start := time.Now()
	defer func() { metrics.DeliveryCycleSeconds.Observe(time.Since(start).Seconds()) }()

	log := s.log.With().Str("cycle", uuid.NewString()).Int64("chat", chatID).Logger()

	if err := s.state.EnsureChat(ctx, chatID); err != nil {
		log.Error().Err(err).Msg("не удалось инициализировать состояние чата")
		return
	}

	vacancies, err := s.provider.FetchToday(ctx)
	if err != nil {
		// частичная выдача пригодна для доставки
		log.Error().Err(err).Int("got", len(vacancies)).Msg("выгрузка вакансий прервана")
	}

	fresh := make([]domain.Vacancy, 0, len(vacancies))
	for _, v := range vacancies {
		isNew, err := s.state.RecordIfNew(ctx, chatID, v)
		if err != nil {
			log.Error().Err(err).Str("vacancy", v.ID).Msg("ошибка записи состояния")
			return
		}
		if isNew {
			fresh = append(fresh, v)
		}
	}
	if len(fresh) == 0 {
		log.Debug().Int("fetched", len(vacancies)).Msg("новых вакансий нет")
		return
	}
	log.Info().Int("fetched", len(vacancies)).Int("fresh", len(fresh)).Msg("отправка новых вакансий")

	for begin := 0; begin < len(fresh); begin += s.batchSize {
		end := begin + s.batchSize
		if end > len(fresh) {
			end = len(fresh)
		}
		if err := s.sender.Send(ctx, chatID, joinBatch(fresh[begin:end])); err == nil {
			metrics.IncDelivered(chatID, end-begin)
		}
		// пауза после каждого батча, чтобы не упереться в флуд-контроль
		if err := sleepCtx(ctx, s.batchDelay); err != nil {
			return
		}
	}
}

func joinBatch(batch []domain.Vacancy) string {
	blocks := make([]string, 0, len(batch))
	for _, v := range batch {
		blocks = append(blocks, FormatVacancy(v))
	}
	return strings.Join(blocks, "\n\n")
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
