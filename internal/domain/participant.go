package domain

type Participant struct {
	ID            int64  `json:"id"`
	ReservationID int64  `json:"reservation_id"`
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
}
