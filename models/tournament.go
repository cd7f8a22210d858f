package models

import "time"

// Tournament — один игровой вечер в рамках серии.
type Tournament struct {
	ID       int       `json:"id" db:"id"`
	SeriesID int       `json:"series_id" db:"series_id"`
	Name     string    `json:"name" db:"name"`
	Date     time.Time `json:"date" db:"date"`
	CityID   int       `json:"city_id" db:"city_id"`

	// Опциональные связанные сущности (не мапятся напрямую)
	Series *TournamentSeries `json:"series,omitempty" db:"-"`
	City   *City             `json:"city,omitempty" db:"-"`
	Topics []Topic           `json:"topics,omitempty" db:"-"`

	// Заполняется листингом: число результатов и команды-победители.
	ResultsCount int    `json:"results_count,omitempty" db:"-"`
	Winners      []Team `json:"winners,omitempty" db:"-"`
}

// TournamentTopic связывает турнир с темой и задаёт порядок темы
// в таблице результатов. Уникальна пара (tournament, topic).
type TournamentTopic struct {
	TournamentID int `json:"tournament_id" db:"tournament_id"`
	TopicID      int `json:"topic_id" db:"topic_id"`
	Order        int `json:"order" db:"topic_order"`
}
