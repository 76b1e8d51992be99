package domain

import "time"

type NotificationType string

const (
	NotifReservationCreated   NotificationType = "reservation_created"
	NotifReservationApproved  NotificationType = "reservation_approved"
	NotifReservationRejected  NotificationType = "reservation_rejected"
	NotifReservationCancelled NotificationType = "reservation_cancelled"
)

type Notification struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message,omitempty"`
	IsRead    bool             `json:"is_read"`
	Data      any              `json:"data,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
