package reservation

import (
	"context"

	"roombooking/internal/domain"
)

// ReservationRepository is the persistence contract consumed by the engine.
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation, participants []domain.Participant) error
	CreateBatch(ctx context.Context, batch []*domain.Reservation) error
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	ActiveForRoom(ctx context.Context, roomID, excludeID int64) ([]domain.Reservation, error)
	ActiveAssignmentsForEquipment(ctx context.Context, equipmentID, excludeReservationID int64) ([]domain.EquipmentAssignment, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.ReservationStatus, comments string) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Reservation, error)
	ListByStatus(ctx context.Context, status domain.ReservationStatus) ([]domain.Reservation, error)
	Participants(ctx context.Context, reservationID int64) ([]domain.Participant, error)
}

type RoomRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
}

type EquipmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Equipment, error)
}

// NotificationSender delivers best-effort notifications after a successful
// transition. Failures never affect the transition itself.
type NotificationSender interface {
	NotifyReservationCreated(ctx context.Context, res *domain.Reservation) error
	NotifyReservationApproved(ctx context.Context, res *domain.Reservation) error
	NotifyReservationRejected(ctx context.Context, res *domain.Reservation) error
	NotifyReservationCancelled(ctx context.Context, res *domain.Reservation) error
}

// EventPublisher pushes reservation updates to connected clients.
type EventPublisher interface {
	PublishReservationUpdate(res *domain.Reservation)
}
