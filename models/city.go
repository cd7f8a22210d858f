package models

// City — город проведения турниров и приписки команд.
type City struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
