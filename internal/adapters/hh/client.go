package hh

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"hh-vacancy-bot/internal/domain"
	"hh-vacancy-bot/internal/infra/metrics"
)

// Options задаёт параметры поиска и ограничения выгрузки.
type Options struct {
	BaseURL  string
	Query    string
	Area     int
	PageSize int
	MaxItems int
	RPS      int
	Timeout  time.Duration
}

// Client выгружает вакансии из поискового API HH постранично.
// Окно дат пересчитывается на каждый вызов FetchToday в заданном часовом поясе.
type Client struct {
	opts    Options
	http    *http.Client
	limiter *rate.Limiter
	loc     *time.Location
	log     zerolog.Logger
}

var _ domain.VacancyProvider = (*Client)(nil)

// NewClient создаёт клиент с общим HTTP-транспортом и лимитером запросов.
func NewClient(opts Options, loc *time.Location, logger zerolog.Logger) *Client {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RPS), 1)
	}
	return &Client{
		opts:    opts,
		http:    &http.Client{Timeout: opts.Timeout},
		limiter: limiter,
		loc:     loc,
		log:     logger,
	}
}

type searchResponse struct {
	Items []vacancyItem `json:"items"`
}

type vacancyItem struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Salary *struct {
		From     *int   `json:"from"`
		To       *int   `json:"to"`
		Currency string `json:"currency"`
	} `json:"salary"`
	Area *struct {
		Name string `json:"name"`
	} `json:"area"`
	Employer *struct {
		Name string `json:"name"`
	} `json:"employer"`
	Schedule *struct {
		Name string `json:"name"`
	} `json:"schedule"`
	Snippet *struct {
		Responsibility string `json:"responsibility"`
	} `json:"snippet"`
	AlternateURL string `json:"alternate_url"`
}

// FetchToday собирает вакансии за текущий день, листая страницы до короткой
// страницы или до потолка выгрузки. При ошибке транспорта возвращает уже
// накопленное вместе с ошибкой: вызывающая сторона логирует и работает с тем,
// что есть.
func (c *Client) FetchToday(ctx context.Context) ([]domain.Vacancy, error) {
	now := time.Now().In(c.loc)
	dateFrom := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, c.loc)
	dateTo := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, c.loc)

	var vacancies []domain.Vacancy
	for page := 0; ; page++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return vacancies, err
		}
		c.log.Info().Int("page", page).Msg("загрузка страницы вакансий")
		batch, err := c.fetchPage(ctx, page, dateFrom, dateTo)
		if err != nil {
			metrics.FetchErrorsTotal.Inc()
			return c.truncate(vacancies), fmt.Errorf("страница %d: %w", page, err)
		}
		metrics.FetchPagesTotal.Inc()
		vacancies = append(vacancies, batch...)
		if len(batch) < c.opts.PageSize || len(vacancies) >= c.opts.MaxItems {
			break
		}
	}

	vacancies = c.truncate(vacancies)
	metrics.VacanciesFetched.Add(float64(len(vacancies)))
	return vacancies, nil
}

func (c *Client) truncate(vacancies []domain.Vacancy) []domain.Vacancy {
	if c.opts.MaxItems > 0 && len(vacancies) > c.opts.MaxItems {
		return vacancies[:c.opts.MaxItems]
	}
	return vacancies
}

func (c *Client) fetchPage(ctx context.Context, page int, dateFrom, dateTo time.Time) ([]domain.Vacancy, error) {
	params := url.Values{}
	params.Set("text", c.opts.Query)
	params.Set("area", strconv.Itoa(c.opts.Area))
	params.Set("per_page", strconv.Itoa(c.opts.PageSize))
	params.Set("schedule", "remote")
	params.Set("experience", "noExperience")
	params.Set("page", strconv.Itoa(page))
	params.Set("date_from", dateFrom.Format(time.RFC3339))
	params.Set("date_to", dateTo.Format(time.RFC3339))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.ObserveNetworkRequest("hh", "search", strconv.Itoa(page), start, err)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("чтение ответа: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HH вернул %d: %s", resp.StatusCode, string(body))
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("разбор JSON: %w", err)
	}

	vacancies := make([]domain.Vacancy, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		vacancies = append(vacancies, toVacancy(item))
	}
	return vacancies, nil
}

func toVacancy(item vacancyItem) domain.Vacancy {
	v := domain.Vacancy{
		ID:    item.ID,
		Title: item.Name,
		URL:   item.AlternateURL,
	}
	if item.Salary != nil {
		v.Salary = domain.Salary{From: item.Salary.From, To: item.Salary.To, Currency: item.Salary.Currency}
	}
	if item.Area != nil {
		v.Area = item.Area.Name
	}
	if item.Employer != nil {
		v.Employer = item.Employer.Name
	}
	if item.Schedule != nil {
		v.Schedule = item.Schedule.Name
	}
	if item.Snippet != nil {
		v.Snippet = item.Snippet.Responsibility
	}
	return v
}
