package state

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"hh-vacancy-bot/internal/domain"
)

// Redis реализует domain.StateStore поверх Redis: множество отправленных ID,
// хеш счётчиков и список порядка первого появления работодателей. Даёт тот же
// контракт, что и Memory, плюс переживает перезапуск процесса.
type Redis struct {
	client *redis.Client
}

var _ domain.StateStore = (*Redis)(nil)

// NewRedis создаёт хранилище состояния.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func sentKey(chatID int64) string   { return fmt.Sprintf("chat:%d:sent", chatID) }
func countsKey(chatID int64) string { return fmt.Sprintf("chat:%d:counts", chatID) }
func orderKey(chatID int64) string  { return fmt.Sprintf("chat:%d:order", chatID) }

// EnsureChat ничего не создаёт заранее: ключи появляются при первой записи.
func (r *Redis) EnsureChat(ctx context.Context, chatID int64) error {
	return nil
}

// RecordIfNew атомарно регистрирует ID через SADD; счётчик работодателя
// увеличивается только для новых ID, порядок появления хранится списком.
func (r *Redis) RecordIfNew(ctx context.Context, chatID int64, v domain.Vacancy) (bool, error) {
	added, err := r.client.SAdd(ctx, sentKey(chatID), v.ID).Result()
	if err != nil {
		return false, fmt.Errorf("регистрация ID: %w", err)
	}
	if added == 0 {
		return false, nil
	}

	employer := v.Employer
	if employer == "" {
		employer = domain.UnknownEmployer
	}
	count, err := r.client.HIncrBy(ctx, countsKey(chatID), employer, 1).Result()
	if err != nil {
		return false, fmt.Errorf("счётчик работодателя: %w", err)
	}
	if count == 1 {
		if err := r.client.RPush(ctx, orderKey(chatID), employer).Err(); err != nil {
			return false, fmt.Errorf("порядок работодателей: %w", err)
		}
	}
	return true, nil
}

// Snapshot собирает счётчики в порядке первого появления и сортирует по убыванию.
func (r *Redis) Snapshot(ctx context.Context, chatID int64) ([]domain.EmployerCount, error) {
	order, err := r.client.LRange(ctx, orderKey(chatID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("порядок работодателей: %w", err)
	}
	raw, err := r.client.HGetAll(ctx, countsKey(chatID)).Result()
	if err != nil {
		return nil, fmt.Errorf("счётчики: %w", err)
	}

	counts := make([]domain.EmployerCount, 0, len(order))
	for _, employer := range order {
		value, ok := raw[employer]
		if !ok {
			continue
		}
		count, err := strconv.Atoi(value)
		if err != nil {
			continue
		}
		counts = append(counts, domain.EmployerCount{Employer: employer, Count: count})
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	return counts, nil
}
