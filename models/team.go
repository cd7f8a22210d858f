package models

// Team — команда. Имя уникально в пределах всей системы.
type Team struct {
	ID     int    `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	CityID int    `json:"city_id" db:"city_id"`

	City *City `json:"city,omitempty" db:"-"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`
}
