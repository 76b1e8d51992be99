package domain

import "time"

type Equipment struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name" validate:"required"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EquipmentAssignment links a piece of equipment to a reservation. It
// carries a copy of the parent reservation's interval so equipment
// availability can be checked without joining reservations.
type EquipmentAssignment struct {
	ReservationID int64        `json:"reservation_id"`
	EquipmentID   int64        `json:"equipment_id"`
	Interval      TimeInterval `json:"interval"`
}
