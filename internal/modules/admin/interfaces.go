package admin

import (
	"context"
	"time"

	"roombooking/internal/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetAll(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Count(ctx context.Context) (int64, error)
}

type RoomRepository interface {
	Count(ctx context.Context) (int64, error)
}

type ReservationRepository interface {
	ListByStatus(ctx context.Context, status domain.ReservationStatus) ([]domain.Reservation, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status domain.ReservationStatus) (int64, error)
	CountCreatedBetween(ctx context.Context, start, end time.Time) (int64, error)
}
