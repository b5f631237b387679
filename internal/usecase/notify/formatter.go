package notify

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"hh-vacancy-bot/internal/domain"
)

const (
	placeholderTitle    = "Не указано"
	placeholderSalary   = "Не указана"
	placeholderArea     = "Не указан"
	placeholderEmployer = "Не указана"
	placeholderSchedule = "Не указано"
	placeholderSnippet  = "Описание отсутствует."
	placeholderURL      = "#"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// stripTags удаляет разметку вида <...> и обрезает пробелы по краям.
func stripTags(text string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(text, ""))
}

// FormatVacancy строит текстовый блок одной вакансии. Отсутствующие поля
// заменяются заглушками, разметка в описании вырезается. Функция чистая.
func FormatVacancy(v domain.Vacancy) string {
	title := v.Title
	if title == "" {
		title = placeholderTitle
	}
	employer := v.Employer
	if employer == "" {
		employer = placeholderEmployer
	}
	area := v.Area
	if area == "" {
		area = placeholderArea
	}
	schedule := v.Schedule
	if schedule == "" {
		schedule = placeholderSchedule
	}
	snippet := stripTags(v.Snippet)
	if snippet == "" {
		snippet = placeholderSnippet
	}
	link := v.URL
	if link == "" {
		link = placeholderURL
	}

	return fmt.Sprintf(
		"🔹 *%s*\n"+
			"💼 Компания: %s\n"+
			"💰 Зарплата: от %s до %s руб.\n"+
			"📍 Город: %s\n"+
			"🕒 Формат работы: %s\n"+
			"✍️ Описание:\n%s\n"+
			"🔗 [Подробнее](%s)",
		title, employer, salaryBound(v.Salary.From), salaryBound(v.Salary.To), area, schedule, snippet, link,
	)
}

func salaryBound(bound *int) string {
	if bound == nil {
		return placeholderSalary
	}
	return strconv.Itoa(*bound)
}
