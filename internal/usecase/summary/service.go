package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"hh-vacancy-bot/internal/adapters/telegram"
	"hh-vacancy-bot/internal/domain"
)

const (
	header    = "📊 *Ежедневная сводка по компаниям:*\n\n"
	emptyLine = "Сегодня вакансий не было."
)

// Service отвечает на запрос сводки: рендерит агрегат по работодателям и
// отправляет его частями, уложенными в лимит сообщения.
type Service struct {
	state  domain.StateStore
	sender domain.MessageSender
	log    zerolog.Logger
}

// NewService создаёт сервис сводки.
func NewService(state domain.StateStore, sender domain.MessageSender, logger zerolog.Logger) *Service {
	return &Service{state: state, sender: sender, log: logger}
}

// Send рендерит и доставляет сводку для чата. Ошибка доставки одной части
// логируется и не блокирует остальные.
func (s *Service) Send(ctx context.Context, chatID int64) {
	if err := s.state.EnsureChat(ctx, chatID); err != nil {
		s.log.Error().Err(err).Int64("chat", chatID).Msg("не удалось инициализировать состояние чата")
		return
	}
	counts, err := s.state.Snapshot(ctx, chatID)
	if err != nil {
		s.log.Error().Err(err).Int64("chat", chatID).Msg("не удалось получить агрегат")
		return
	}

	for _, chunk := range telegram.SplitMessage(Render(counts)) {
		if err := s.sender.Send(ctx, chatID, chunk); err != nil {
			s.log.Error().Err(err).Int64("chat", chatID).Msg("не удалось отправить часть сводки")
		}
	}
}

// Render строит текст сводки: заголовок и строки "работодатель: count" по
// убыванию счётчика.
func Render(counts []domain.EmployerCount) string {
	var b strings.Builder
	b.WriteString(header)
	if len(counts) == 0 {
		b.WriteString(emptyLine)
		return b.String()
	}
	for _, c := range counts {
		b.WriteString(fmt.Sprintf("🏢 %s: %d вакансий\n", c.Employer, c.Count))
	}
	return b.String()
}
