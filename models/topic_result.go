package models

import "github.com/shopspring/decimal"

// TopicResult — очки одной команды по одной теме в рамках игры.
// Уникальна пара (game_result, topic). Тема обязана входить в список
// тем турнира, это проверяет сервис, а не БД.
type TopicResult struct {
	ID           int             `json:"id" db:"id"`
	GameResultID int             `json:"game_result_id" db:"game_result_id"`
	TopicID      int             `json:"topic_id" db:"topic_id"`
	Points       decimal.Decimal `json:"points" db:"points"`

	Topic *Topic `json:"topic,omitempty" db:"-"`
}
