package models

import "time"

// User is a Google-authenticated account.
type User struct {
	ID          string    `json:"id"`
	GoogleID    string    `json:"google_id"`
	DisplayName string    `json:"display_name"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"created_at"`
}
