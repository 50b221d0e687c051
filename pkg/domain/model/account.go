package model

import "time"

// Account represents a registered user of the application
type Account struct {
	ID         int64
	Email      string
	Name       string
	Occupation string
	Region     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
