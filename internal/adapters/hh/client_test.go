package hh

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestClient(baseURL string, pageSize, maxItems int) *Client {
	return NewClient(Options{
		BaseURL:  baseURL,
		Query:    "оператор",
		Area:     113,
		PageSize: pageSize,
		MaxItems: maxItems,
		Timeout:  5 * time.Second,
	}, time.UTC, zerolog.Nop())
}

func pageJSON(page, count int) []byte {
	items := make([]map[string]any, 0, count)
	for i := 0; i < count; i++ {
		items = append(items, map[string]any{
			"id":            fmt.Sprintf("%d-%d", page, i),
			"name":          "Оператор",
			"employer":      map[string]any{"name": "Ромашка"},
			"area":          map[string]any{"name": "Москва"},
			"schedule":      map[string]any{"name": "Удалённая работа"},
			"snippet":       map[string]any{"responsibility": "Приём звонков"},
			"alternate_url": "https://hh.ru/vacancy/1",
		})
	}
	raw, _ := json.Marshal(map[string]any{"items": items})
	return raw
}

func TestFetchTodayStopsOnShortPage(t *testing.T) {
	var pages []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		pages = append(pages, page)
		count := 3
		if page == 0 {
			count = 5
		}
		w.Write(pageJSON(page, count))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 5, 100)
	vacancies, err := client.FetchToday(context.Background())
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(vacancies) != 8 {
		t.Fatalf("ожидали 8 вакансий, получили %d", len(vacancies))
	}
	if len(pages) != 2 {
		t.Fatalf("ожидали 2 запроса, было %d", len(pages))
	}
}

func TestFetchTodayHonorsCeiling(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		w.Write(pageJSON(page, 2))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 2, 3)
	vacancies, err := client.FetchToday(context.Background())
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(vacancies) != 3 {
		t.Fatalf("ожидали усечение до 3, получили %d", len(vacancies))
	}
}

func TestFetchTodayReturnsPartialOnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page > 0 {
			http.Error(w, "internal", http.StatusInternalServerError)
			return
		}
		w.Write(pageJSON(page, 5))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 5, 100)
	vacancies, err := client.FetchToday(context.Background())
	if err == nil {
		t.Fatalf("ожидали ошибку транспорта")
	}
	if len(vacancies) != 5 {
		t.Fatalf("ожидали накопленные 5 вакансий, получили %d", len(vacancies))
	}
}

func TestFetchTodaySearchParams(t *testing.T) {
	var query map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{}
		for key := range r.URL.Query() {
			query[key] = r.URL.Query().Get(key)
		}
		w.Write(pageJSON(0, 1))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 5, 100)
	if _, err := client.FetchToday(context.Background()); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}

	if query["schedule"] != "remote" {
		t.Fatalf("ожидали schedule=remote, получили %q", query["schedule"])
	}
	if query["experience"] != "noExperience" {
		t.Fatalf("ожидали experience=noExperience, получили %q", query["experience"])
	}
	if query["area"] != "113" {
		t.Fatalf("ожидали area=113, получили %q", query["area"])
	}
	from, err := time.Parse(time.RFC3339, query["date_from"])
	if err != nil {
		t.Fatalf("date_from не RFC3339: %v", err)
	}
	to, err := time.Parse(time.RFC3339, query["date_to"])
	if err != nil {
		t.Fatalf("date_to не RFC3339: %v", err)
	}
	if from.Hour() != 0 || from.Minute() != 0 || from.Second() != 0 {
		t.Fatalf("ожидали начало дня, получили %v", from)
	}
	if to.Hour() != 23 || to.Minute() != 59 || to.Second() != 59 {
		t.Fatalf("ожидали конец дня, получили %v", to)
	}
	if from.Year() != to.Year() || from.YearDay() != to.YearDay() {
		t.Fatalf("границы окна в разных днях: %v / %v", from, to)
	}
}

func TestFetchTodayMapsFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[{"id":"42","name":"Оператор","salary":{"from":30000,"to":null,"currency":"RUR"},"alternate_url":"https://hh.ru/vacancy/42"}]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 5, 100)
	vacancies, err := client.FetchToday(context.Background())
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(vacancies) != 1 {
		t.Fatalf("ожидали 1 вакансию")
	}
	v := vacancies[0]
	if v.ID != "42" || v.Title != "Оператор" || v.URL != "https://hh.ru/vacancy/42" {
		t.Fatalf("неверный маппинг: %+v", v)
	}
	if v.Salary.From == nil || *v.Salary.From != 30000 {
		t.Fatalf("ожидали salary.from=30000")
	}
	if v.Salary.To != nil {
		t.Fatalf("ожидали пустую верхнюю границу")
	}
	if v.Employer != "" || v.Area != "" {
		t.Fatalf("пустые вложенные объекты должны давать пустые поля")
	}
}
