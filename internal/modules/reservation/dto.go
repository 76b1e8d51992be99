package reservation

import (
	"time"

	"roombooking/internal/domain"
)

type ParticipantInput struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

type CreateRequest struct {
	RoomID       int64              `json:"room_id" binding:"required"`
	UserID       int64              `json:"-"`
	StartTime    time.Time          `json:"start_time" binding:"required"`
	EndTime      time.Time          `json:"end_time" binding:"required"`
	Subject      string             `json:"subject" binding:"required"`
	EquipmentIDs []int64            `json:"equipment_ids"`
	Participants []ParticipantInput `json:"participants"`
}

type RecurrenceInput struct {
	Type     string    `json:"type" binding:"required"`
	Interval int       `json:"interval"`
	Weekdays []int     `json:"weekdays"`
	Until    time.Time `json:"until" binding:"required"`
}

type CreateRecurringRequest struct {
	CreateRequest
	Recurrence RecurrenceInput `json:"recurrence" binding:"required"`
}

type TransitionRequest struct {
	Comment string `json:"comment"`
}

// Actor identifies who is asking for an operation; filled from the JWT by
// the handler, enforced by the service.
type Actor struct {
	UserID int64
	Role   domain.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == domain.RoleAdmin
}
