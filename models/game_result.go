package models

import "github.com/shopspring/decimal"

// GameResult — участие одной команды в одном турнире.
// Уникальна пара (tournament, team).
//
// TotalPoints и Place — производные поля: их пишет только цепочка
// пересчёта через точечные UPDATE, админ их не редактирует.
// Очки по темам и чёрному ящику хранятся как NUMERIC с одним знаком
// после запятой, суммирование идёт в decimal, во float64 значение
// конвертируется только при записи итога.
type GameResult struct {
	ID             int             `json:"id" db:"id"`
	TournamentID   int             `json:"tournament_id" db:"tournament_id"`
	TeamID         int             `json:"team_id" db:"team_id"`
	BlackBoxAnswer *string         `json:"black_box_answer,omitempty" db:"black_box_answer"`
	BlackBoxPoints decimal.Decimal `json:"black_box_points" db:"black_box_points"`
	TotalPoints    float64         `json:"total_points" db:"total_points"`
	Place          int             `json:"place" db:"place"`

	Team         *Team         `json:"team,omitempty" db:"-"`
	Tournament   *Tournament   `json:"tournament,omitempty" db:"-"`
	TopicResults []TopicResult `json:"topic_results,omitempty" db:"-"`
}
