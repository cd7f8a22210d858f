package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Представления для витрины статистики. Ничего из этого не хранится:
// все значения пересчитываются запросом на каждое обращение.

// TeamWithStats — строка таблицы команд.
type TeamWithStats struct {
	Team
	GamesPlayed  int        `json:"games_played"`
	Wins         int        `json:"wins"`
	TotalPoints  float64    `json:"total_points"`
	AvgPoints    float64    `json:"avg_points"` // 0 при отсутствии игр
	LastGameDate *time.Time `json:"last_game_date,omitempty"`
}

// TeamTopicStats — средний балл команды по одной теме.
type TeamTopicStats struct {
	TopicID    int     `json:"topic_id"`
	ShortName  string  `json:"short_name"`
	FullName   string  `json:"full_name"`
	AvgPoints  float64 `json:"avg_points"`
	GamesCount int     `json:"games_count"`
}

// TeamSeriesStats — участие и призовые места команды в одной серии.
type TeamSeriesStats struct {
	SeriesID       int            `json:"series_id"`
	SeriesName     string         `json:"series_name"`
	TournamentType TournamentType `json:"tournament_type"`
	DisplayOrder   int            `json:"-"`
	Participations int            `json:"participations"`
	Gold           int            `json:"gold"`
	Silver         int            `json:"silver"`
	Bronze         int            `json:"bronze"`
}

// RecentGame — запись в списке последних игр команды.
type RecentGame struct {
	GameResultID   int       `json:"game_result_id"`
	TournamentID   int       `json:"tournament_id"`
	TournamentName string    `json:"tournament_name"`
	Date           time.Time `json:"date"`
	SeriesName     string    `json:"series_name"`
	CityName       string    `json:"city_name"`
	TotalPoints    float64   `json:"total_points"`
	Place          int       `json:"place"`
}

// TeamDetail — полный бандл для карточки команды.
type TeamDetail struct {
	Team        TeamWithStats     `json:"team"`
	Belt        BeltInfo          `json:"belt"`
	BestTopic   *TeamTopicStats   `json:"best_topic,omitempty"`
	TopicStats  []TeamTopicStats  `json:"topic_stats"`
	SeriesStats []TeamSeriesStats `json:"series_stats"`
	RecentGames []RecentGame      `json:"recent_games"`
}

// TournamentResultRow — строка таблицы результатов турнира.
// TopicPoints выровнен по порядку тем турнира; nil означает
// "нет результата по теме" и не равен нулю очков.
type TournamentResultRow struct {
	GameResultID         int                `json:"game_result_id"`
	Team                 Team               `json:"team"`
	Place                int                `json:"place"`
	TotalPoints          float64            `json:"total_points"`
	BlackBoxAnswer       *string            `json:"black_box_answer,omitempty"`
	BlackBoxPoints       decimal.Decimal    `json:"black_box_points"`
	PointsBeforeBlackBox decimal.Decimal    `json:"points_before_black_box"`
	// Сумма по первым трём темам турнира в их порядке; пропущенная
	// тема считается нулём только здесь, в промежуточном итоге.
	FirstThreeTopicsPoints decimal.Decimal    `json:"first_three_topics_points"`
	TopicPoints            []*decimal.Decimal `json:"topic_points"`
}

// TournamentDetail — полный бандл для карточки турнира.
type TournamentDetail struct {
	Tournament Tournament            `json:"tournament"`
	Topics     []Topic               `json:"topics"`
	Rows       []TournamentResultRow `json:"rows"`
}
