package domain

import "time"

type Room struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name" validate:"required"`
	Capacity    int       `json:"capacity" validate:"gte=0"`
	Type        string    `json:"type"`
	Location    string    `json:"location"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
