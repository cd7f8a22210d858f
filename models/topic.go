package models

// Topic — тема викторины.
type Topic struct {
	ID        int    `json:"id" db:"id"`
	FullName  string `json:"full_name" db:"full_name"`
	ShortName string `json:"short_name" db:"short_name"`
}
