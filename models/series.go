package models

// TournamentType соответствует ENUM в БД.
type TournamentType string

const (
	TypeCup     TournamentType = "cup"
	TypeRegular TournamentType = "regular"
)

// TournamentSeries — серия турниров (повторяющийся бренд соревнования).
// DisplayOrder управляет порядком секций в статистике команды.
type TournamentSeries struct {
	ID             int            `json:"id" db:"id"`
	Name           string         `json:"name" db:"name"`
	DisplayOrder   int            `json:"display_order" db:"display_order"`
	TournamentType TournamentType `json:"tournament_type" db:"tournament_type"`
}
