package domain

// Vacancy описывает одну вакансию из поисковой выдачи HH.
// Идентичность записи определяется полем ID; после загрузки запись неизменна.
type Vacancy struct {
	ID       string
	Title    string
	Employer string
	Salary   Salary
	Area     string
	Schedule string
	Snippet  string
	URL      string
}

// Salary хранит вилку зарплаты; обе границы опциональны.
type Salary struct {
	From     *int
	To       *int
	Currency string
}

// EmployerCount — количество отправленных вакансий одного работодателя.
type EmployerCount struct {
	Employer string
	Count    int
}

// UnknownEmployer используется как ключ агрегата для вакансий без работодателя.
const UnknownEmployer = "Не указано"
