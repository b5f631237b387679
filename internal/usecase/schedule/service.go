package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Deliverer выполняет один цикл доставки для чата.
type Deliverer interface {
	Deliver(ctx context.Context, chatID int64)
}

// Service ведёт по одному повторяющемуся таймеру на чат. Повторная регистрация
// уже запланированного чата игнорируется — второй таймер не создаётся.
// Медленный цикл одного чата задерживает только его собственный таймер.
type Service struct {
	deliverer Deliverer
	log       zerolog.Logger
	first     time.Duration
	interval  time.Duration

	mu    sync.Mutex
	chats map[int64]context.CancelFunc
	wg    sync.WaitGroup
}

// NewService создаёт планировщик.
func NewService(deliverer Deliverer, logger zerolog.Logger, first, interval time.Duration) *Service {
	return &Service{
		deliverer: deliverer,
		log:       logger,
		first:     first,
		interval:  interval,
		chats:     make(map[int64]context.CancelFunc),
	}
}

// Register запускает таймер доставки для чата: первый цикл через first, далее
// каждые interval. Возвращает false, если чат уже запланирован.
func (s *Service) Register(ctx context.Context, chatID int64) bool {
	s.mu.Lock()
	if _, ok := s.chats[chatID]; ok {
		s.mu.Unlock()
		return false
	}
	chatCtx, cancel := context.WithCancel(ctx)
	s.chats[chatID] = cancel
	s.mu.Unlock()

	s.log.Info().Int64("chat", chatID).Msg("чат добавлен в расписание")
	s.wg.Add(1)
	go s.run(chatCtx, chatID)
	return true
}

// Registered сообщает, запланирован ли чат.
func (s *Service) Registered(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.chats[chatID]
	return ok
}

func (s *Service) run(ctx context.Context, chatID int64) {
	defer s.wg.Done()

	first := time.NewTimer(s.first)
	defer first.Stop()
	select {
	case <-ctx.Done():
		return
	case <-first.C:
	}
	s.deliverer.Deliver(ctx, chatID)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.deliverer.Deliver(ctx, chatID)
		}
	}
}

// Stop снимает все таймеры и дожидается завершения циклов.
func (s *Service) Stop() {
	s.mu.Lock()
	for chatID, cancel := range s.chats {
		cancel()
		delete(s.chats, chatID)
	}
	s.mu.Unlock()
	s.wg.Wait()
}
