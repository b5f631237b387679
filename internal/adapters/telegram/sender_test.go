package telegram

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

type fakeBot struct {
	errs  []error
	calls int
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.calls++
	if len(f.errs) == 0 {
		return tgbotapi.Message{}, nil
	}
	err := f.errs[0]
	f.errs = f.errs[1:]
	return tgbotapi.Message{}, err
}

func floodErr(retryAfter int) error {
	return &tgbotapi.Error{
		Code:               429,
		Message:            "Too Many Requests",
		ResponseParameters: tgbotapi.ResponseParameters{RetryAfter: retryAfter},
	}
}

func TestSendRetriesOnFloodControl(t *testing.T) {
	bot := &fakeBot{errs: []error{floodErr(3)}}
	sender := NewSender(bot, zerolog.Nop())
	var slept []time.Duration
	sender.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	if err := sender.Send(context.Background(), 1, "текст"); err != nil {
		t.Fatalf("после паузы отправка должна пройти: %v", err)
	}
	if bot.calls != 2 {
		t.Fatalf("ожидали 2 попытки, было %d", bot.calls)
	}
	if len(slept) != 1 || slept[0] != 4*time.Second {
		t.Fatalf("ожидали паузу retry_after+1 = 4s, получили %v", slept)
	}
}

func TestSendRetriesUntilSuccess(t *testing.T) {
	bot := &fakeBot{errs: []error{floodErr(1), floodErr(2)}}
	sender := NewSender(bot, zerolog.Nop())
	sender.sleep = func(context.Context, time.Duration) error { return nil }

	if err := sender.Send(context.Background(), 1, "текст"); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if bot.calls != 3 {
		t.Fatalf("ожидали 3 попытки, было %d", bot.calls)
	}
}

func TestSendDropsOnOtherError(t *testing.T) {
	bot := &fakeBot{errs: []error{errors.New("Bad Request: chat not found")}}
	sender := NewSender(bot, zerolog.Nop())
	sender.sleep = func(context.Context, time.Duration) error {
		t.Fatalf("обычная ошибка не должна приводить к паузе")
		return nil
	}

	if err := sender.Send(context.Background(), 1, "текст"); err == nil {
		t.Fatalf("ожидали ошибку")
	}
	if bot.calls != 1 {
		t.Fatalf("обычная ошибка не повторяется, попыток: %d", bot.calls)
	}
}

func TestSendStopsOnCanceledBackoff(t *testing.T) {
	bot := &fakeBot{errs: []error{floodErr(30), floodErr(30)}}
	sender := NewSender(bot, zerolog.Nop())
	sender.sleep = func(ctx context.Context, _ time.Duration) error { return context.Canceled }

	if err := sender.Send(context.Background(), 1, "текст"); !errors.Is(err, context.Canceled) {
		t.Fatalf("отмена контекста прерывает ожидание: %v", err)
	}
	if bot.calls != 1 {
		t.Fatalf("после отмены повторов нет, попыток: %d", bot.calls)
	}
}

func TestFloodWaitIgnoresOtherAPIErrors(t *testing.T) {
	err := &tgbotapi.Error{Code: 400, Message: "Bad Request: message is too long"}
	if _, ok := floodWait(err); ok {
		t.Fatalf("ошибка без retry_after не считается флуд-контролем")
	}
}
