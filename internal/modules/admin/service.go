package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roombooking/internal/domain"
	"roombooking/internal/repository"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrSelfDemote = errors.New("admins cannot revoke their own role")
)

type Service struct {
	users        UserRepository
	rooms        RoomRepository
	reservations ReservationRepository
	now          func() time.Time
}

func NewService(users UserRepository, rooms RoomRepository, reservations ReservationRepository) *Service {
	return &Service{
		users:        users,
		rooms:        rooms,
		reservations: reservations,
		now:          time.Now,
	}
}

// PendingReservations lists every reservation waiting for a decision.
func (s *Service) PendingReservations(ctx context.Context) ([]domain.Reservation, error) {
	return s.reservations.ListByStatus(ctx, domain.ReservationPending)
}

func (s *Service) GetStatistics(ctx context.Context) (*Statistics, error) {
	stats := &Statistics{}

	var err error
	if stats.Users, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Rooms, err = s.rooms.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Reservations, err = s.reservations.Count(ctx); err != nil {
		return nil, err
	}
	if stats.PendingReservations, err = s.reservations.CountByStatus(ctx, domain.ReservationPending); err != nil {
		return nil, err
	}

	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if stats.CreatedToday, err = s.reservations.CountCreatedBetween(ctx, dayStart, dayStart.AddDate(0, 0, 1)); err != nil {
		return nil, err
	}

	return stats, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.GetAll(ctx)
}

// SetUserActive enables or disables an account. Deactivated users cannot
// log in; their existing reservations are untouched.
func (s *Service) SetUserActive(ctx context.Context, userID int64, active bool) (*domain.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Active = active
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// SetUserRole grants or revokes the admin role. An admin cannot demote
// themselves so the install always keeps at least one admin.
func (s *Service) SetUserRole(ctx context.Context, userID, actorID int64, role domain.Role) (*domain.User, error) {
	if role != domain.RoleAdmin && role != domain.RoleUser {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	if userID == actorID && role != domain.RoleAdmin {
		return nil, ErrSelfDemote
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Role = role
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *Service) getUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
