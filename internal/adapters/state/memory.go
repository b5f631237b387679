package state

import (
	"context"
	"sort"
	"sync"

	"hh-vacancy-bot/internal/domain"
)

// chatState — состояние одного чата: множество отправленных ID и счётчики
// работодателей. Порядок первого появления работодателя фиксируется отдельно,
// чтобы сортировка среза оставалась стабильной при равных счётчиках.
type chatState struct {
	mu     sync.Mutex
	sent   map[string]struct{}
	counts map[string]int
	order  []string
}

// Memory хранит состояние всех чатов в памяти процесса.
// Состояние живёт до перезапуска; у каждого чата свой мьютекс, таймеры разных
// чатов не блокируют друг друга.
type Memory struct {
	mu    sync.RWMutex
	chats map[int64]*chatState
}

var _ domain.StateStore = (*Memory)(nil)

// NewMemory создаёт пустой реестр чатов.
func NewMemory() *Memory {
	return &Memory{chats: make(map[int64]*chatState)}
}

// EnsureChat идемпотентно создаёт состояние чата.
func (m *Memory) EnsureChat(ctx context.Context, chatID int64) error {
	m.chat(chatID)
	return nil
}

func (m *Memory) chat(chatID int64) *chatState {
	m.mu.RLock()
	st, ok := m.chats[chatID]
	m.mu.RUnlock()
	if ok {
		return st
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok = m.chats[chatID]; ok {
		return st
	}
	st = &chatState{
		sent:   make(map[string]struct{}),
		counts: make(map[string]int),
	}
	m.chats[chatID] = st
	return st
}

// RecordIfNew регистрирует вакансию, если её ID ещё не встречался в этом чате.
// Новая вакансия увеличивает ровно один счётчик работодателя, поэтому сумма
// счётчиков всегда равна числу отправленных ID.
func (m *Memory) RecordIfNew(ctx context.Context, chatID int64, v domain.Vacancy) (bool, error) {
	st := m.chat(chatID)
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sent[v.ID]; ok {
		return false, nil
	}
	st.sent[v.ID] = struct{}{}

	employer := v.Employer
	if employer == "" {
		employer = domain.UnknownEmployer
	}
	if _, ok := st.counts[employer]; !ok {
		st.order = append(st.order, employer)
	}
	st.counts[employer]++
	return true, nil
}

// Snapshot возвращает счётчики по убыванию; равные счётчики идут в порядке
// первого появления работодателя.
func (m *Memory) Snapshot(ctx context.Context, chatID int64) ([]domain.EmployerCount, error) {
	st := m.chat(chatID)
	st.mu.Lock()
	defer st.mu.Unlock()

	counts := make([]domain.EmployerCount, 0, len(st.order))
	for _, employer := range st.order {
		counts = append(counts, domain.EmployerCount{Employer: employer, Count: st.counts[employer]})
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	return counts, nil
}
