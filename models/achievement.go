package models

// Achievement — призовое место (1–3) команды в турнире. Полностью
// производная запись: при любом изменении результатов турнира весь
// набор удаляется и создаётся заново, идентификаторы строк при этом
// не стабильны.
type Achievement struct {
	ID           int `json:"id" db:"id"`
	TeamID       int `json:"team_id" db:"team_id"`
	TournamentID int `json:"tournament_id" db:"tournament_id"`
	Place        int `json:"place" db:"place"`

	Team       *Team       `json:"team,omitempty" db:"-"`
	Tournament *Tournament `json:"tournament,omitempty" db:"-"`
}
