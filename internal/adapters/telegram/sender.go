package telegram

import (
	"context"
	"errors"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"hh-vacancy-bot/internal/domain"
	"hh-vacancy-bot/internal/infra/metrics"
)

// api — минимальная поверхность tgbotapi, нужная отправителю.
type api interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Sender отправляет сообщения с повтором при флуд-контроле.
// Сигнал флуд-контроля распознаётся структурно по *tgbotapi.Error с заполненным
// RetryAfter, а не разбором текста ошибки. Повтор после флуд-паузы не ограничен
// по числу попыток; любая другая ошибка логируется, и сообщение бросается.
type Sender struct {
	bot   api
	log   zerolog.Logger
	sleep func(ctx context.Context, d time.Duration) error
}

var _ domain.MessageSender = (*Sender)(nil)

// NewSender создаёт отправитель поверх tgbotapi.
func NewSender(bot api, logger zerolog.Logger) *Sender {
	return &Sender{bot: bot, log: logger, sleep: sleepCtx}
}

// Send доставляет текст в чат в режиме Markdown. Повторяет отправку после
// каждой флуд-паузы, пока платформа не примет сообщение или не вернёт ошибку
// другого рода.
func (s *Sender) Send(ctx context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	for {
		start := time.Now()
		_, err := s.bot.Send(msg)
		metrics.ObserveNetworkRequest("telegram_bot", "send_message", strconv.FormatInt(chatID, 10), start, err)
		if err == nil {
			return nil
		}

		wait, ok := floodWait(err)
		if !ok {
			metrics.BotSendErrors.Inc()
			s.log.Error().Err(err).Int64("chat", chatID).Msg("не удалось отправить сообщение")
			return err
		}

		metrics.FloodWaitsTotal.Inc()
		s.log.Warn().Dur("wait", wait).Int64("chat", chatID).Msg("флуд-контроль, ждём перед повтором")
		if err := s.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// floodWait возвращает длительность паузы, если ошибка — сигнал флуд-контроля.
// Сервер сообщает кулдаун в секундах; к нему добавляется секунда запаса.
func floodWait(err error) (time.Duration, bool) {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
		return time.Duration(apiErr.RetryAfter+1) * time.Second, true
	}
	return 0, false
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
