package models

import "time"

// Story visibility values.
const (
	StatusPublic  = "public"
	StatusPrivate = "private"
)

// Story is a user-authored text record. UserID is fixed at creation.
type Story struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Status    string    `json:"status"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// User is the joined owner profile; nil when the read did not join it.
	User *User `json:"user,omitempty"`
}

func (s Story) IsPublic() bool {
	return s.Status == StatusPublic
}

// ValidStatus reports whether status is one of the known visibility values.
func ValidStatus(status string) bool {
	return status == StatusPublic || status == StatusPrivate
}
