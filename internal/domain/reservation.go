package domain

import "time"

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationApproved  ReservationStatus = "approved"
	ReservationRejected  ReservationStatus = "rejected"
	ReservationCancelled ReservationStatus = "cancelled"
)

// Terminal reports whether no further transition is permitted from s.
func (s ReservationStatus) Terminal() bool {
	return s == ReservationRejected || s == ReservationCancelled
}

// CanTransition encodes the reservation lifecycle:
// pending may be approved, rejected or cancelled; approved may only be
// cancelled; rejected and cancelled accept nothing.
func (s ReservationStatus) CanTransition(to ReservationStatus) bool {
	switch s {
	case ReservationPending:
		return to == ReservationApproved || to == ReservationRejected || to == ReservationCancelled
	case ReservationApproved:
		return to == ReservationCancelled
	default:
		return false
	}
}

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationPending, ReservationApproved, ReservationRejected, ReservationCancelled:
		return true
	}
	return false
}

type Reservation struct {
	ID            int64             `json:"id"`
	RoomID        int64             `json:"room_id" validate:"required"`
	UserID        int64             `json:"user_id" validate:"required"`
	Interval      TimeInterval      `json:"interval"`
	Subject       string            `json:"subject" validate:"required"`
	Status        ReservationStatus `json:"status"`
	AdminComments string            `json:"admin_comments,omitempty"`
	EquipmentIDs  []int64           `json:"equipment_ids,omitempty"`
	Participants  []Participant     `json:"participants,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`

	// Joined display fields, populated by list queries.
	UserName string `json:"user_name,omitempty"`
	RoomName string `json:"room_name,omitempty"`
}

// Occupies reports whether the reservation counts against room and
// equipment availability. Rejected reservations free their interval.
func (r *Reservation) Occupies() bool {
	return r.Status == ReservationPending || r.Status == ReservationApproved
}
