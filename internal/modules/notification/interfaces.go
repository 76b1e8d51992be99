package notification

import (
	"context"

	"roombooking/internal/domain"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification, data map[string]any) error
	GetByUserID(ctx context.Context, userID int64, limit int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkAsRead(ctx context.Context, id, userID int64) error
	MarkAllAsRead(ctx context.Context, userID int64) error
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// ParticipantReader loads the invitee list so emails reach everyone on the
// meeting, not just the organizer.
type ParticipantReader interface {
	Participants(ctx context.Context, reservationID int64) ([]domain.Participant, error)
}

// Mailer sends a plain-text email. Implementations must be safe for
// concurrent use.
type Mailer interface {
	Send(ctx context.Context, to []string, subject, body string) error
}
