package bot

import (
	"context"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"hh-vacancy-bot/internal/infra/metrics"
)

// SummaryButton — подпись кнопки, по которой пользователь запрашивает сводку.
const SummaryButton = "📊 Ежедневная сводка"

const welcomeText = "👋 Бот запущен. Вакансии будут отправляться в режиме онлайн.\n" +
	"Нажмите на кнопку ниже, чтобы получить ежедневную сводку."

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type registrar interface {
	Register(ctx context.Context, chatID int64) bool
}

type summarizer interface {
	Send(ctx context.Context, chatID int64)
}

// Handler обрабатывает входящие апдейты: /start регистрирует чат в расписании,
// текст кнопки запускает сводку. Всё остальное молча игнорируется — ошибки
// пользователю не показываются.
type Handler struct {
	bot       telegramAPI
	log       zerolog.Logger
	scheduler registrar
	summary   summarizer
}

// NewHandler создаёт обработчик.
func NewHandler(bot telegramAPI, logger zerolog.Logger, scheduler registrar, summary summarizer) *Handler {
	return &Handler{bot: bot, log: logger, scheduler: scheduler, summary: summary}
}

// HandleUpdate обрабатывает входящий апдейт.
func (h *Handler) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}
	chatID := upd.Message.Chat.ID
	text := strings.TrimSpace(upd.Message.Text)
	switch {
	case strings.HasPrefix(text, "/start"):
		h.handleStart(ctx, chatID)
	case text == SummaryButton:
		h.summary.Send(ctx, chatID)
	}
}

func (h *Handler) handleStart(ctx context.Context, chatID int64) {
	msg := tgbotapi.NewMessage(chatID, welcomeText)
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(SummaryButton)),
	)
	keyboard.ResizeKeyboard = true
	msg.ReplyMarkup = keyboard

	start := time.Now()
	_, err := h.bot.Send(msg)
	metrics.ObserveNetworkRequest("telegram_bot", "send_message", strconv.FormatInt(chatID, 10), start, err)
	if err != nil {
		h.log.Error().Err(err).Int64("chat", chatID).Msg("не удалось отправить приветствие")
	}

	if !h.scheduler.Register(ctx, chatID) {
		h.log.Debug().Int64("chat", chatID).Msg("чат уже в расписании")
	}
}
