package domain

import "context"

// VacancyProvider выгружает вакансии за текущий день.
// При ошибке транспорта возвращает уже накопленные страницы вместе с ошибкой:
// частичная выдача пригодна для доставки и не считается фатальной.
type VacancyProvider interface {
	FetchToday(ctx context.Context) ([]Vacancy, error)
}

// MessageSender доставляет один текст в чат.
// Реализация сама разбирается с флуд-контролем платформы.
type MessageSender interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// StateStore хранит состояние дедупликации и агрегации по чатам.
type StateStore interface {
	// EnsureChat идемпотентно создаёт пустое состояние для нового чата.
	EnsureChat(ctx context.Context, chatID int64) error
	// RecordIfNew регистрирует вакансию и возвращает true, только если её ID
	// ещё не отправлялся в этот чат. Повторный вызов с тем же ID ничего не меняет.
	RecordIfNew(ctx context.Context, chatID int64, v Vacancy) (bool, error)
	// Snapshot возвращает счётчики работодателей по убыванию; при равенстве
	// счётчиков сохраняется порядок первого появления.
	Snapshot(ctx context.Context, chatID int64) ([]EmployerCount, error)
}
