package catalog

import (
	"context"

	"roombooking/internal/domain"
)

type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	GetAll(ctx context.Context) ([]domain.Room, error)
	GetActive(ctx context.Context) ([]domain.Room, error)
	Update(ctx context.Context, room *domain.Room) error
	Delete(ctx context.Context, id int64) error
}

type EquipmentRepository interface {
	Create(ctx context.Context, eq *domain.Equipment) error
	GetByID(ctx context.Context, id int64) (*domain.Equipment, error)
	GetAll(ctx context.Context) ([]domain.Equipment, error)
	GetAvailable(ctx context.Context) ([]domain.Equipment, error)
	Update(ctx context.Context, eq *domain.Equipment) error
	Delete(ctx context.Context, id int64) error
}

// ReservationReader exposes the bookings needed to compute busy slots.
type ReservationReader interface {
	ActiveForRoom(ctx context.Context, roomID, excludeID int64) ([]domain.Reservation, error)
}
