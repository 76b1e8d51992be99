package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"roombooking/internal/domain"
	"roombooking/internal/pkg/validator"
	"roombooking/internal/repository"
)

type Service struct {
	rooms        RoomRepository
	equipment    EquipmentRepository
	reservations ReservationReader
}

func NewService(rooms RoomRepository, equipment EquipmentRepository, reservations ReservationReader) *Service {
	return &Service{rooms: rooms, equipment: equipment, reservations: reservations}
}

// ListRooms returns active rooms only unless includeInactive is set; the
// admin view passes true.
func (s *Service) ListRooms(ctx context.Context, includeInactive bool) ([]domain.Room, error) {
	if includeInactive {
		return s.rooms.GetAll(ctx)
	}
	return s.rooms.GetActive(ctx)
}

func (s *Service) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return room, nil
}

func (s *Service) CreateRoom(ctx context.Context, req RoomRequest) (*domain.Room, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	room := &domain.Room{
		Name:        strings.TrimSpace(req.Name),
		Capacity:    req.Capacity,
		Type:        req.Type,
		Location:    req.Location,
		Description: req.Description,
		Active:      true,
	}
	if req.Active != nil {
		room.Active = *req.Active
	}
	if errs := validator.Validate(room); errs != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, errs)
	}

	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *Service) UpdateRoom(ctx context.Context, id int64, req RoomRequest) (*domain.Room, error) {
	room, err := s.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	room.Name = strings.TrimSpace(req.Name)
	room.Capacity = req.Capacity
	room.Type = req.Type
	room.Location = req.Location
	room.Description = req.Description
	if req.Active != nil {
		room.Active = *req.Active
	}

	if err := s.rooms.Update(ctx, room); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return room, nil
}

func (s *Service) DeleteRoom(ctx context.Context, id int64) error {
	if err := s.rooms.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *Service) ListEquipment(ctx context.Context, includeUnavailable bool) ([]domain.Equipment, error) {
	if includeUnavailable {
		return s.equipment.GetAll(ctx)
	}
	return s.equipment.GetAvailable(ctx)
}

func (s *Service) CreateEquipment(ctx context.Context, req EquipmentRequest) (*domain.Equipment, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	eq := &domain.Equipment{
		Name:        strings.TrimSpace(req.Name),
		Type:        req.Type,
		Description: req.Description,
		Available:   true,
	}
	if req.Available != nil {
		eq.Available = *req.Available
	}
	if errs := validator.Validate(eq); errs != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, errs)
	}

	if err := s.equipment.Create(ctx, eq); err != nil {
		return nil, err
	}
	return eq, nil
}

func (s *Service) UpdateEquipment(ctx context.Context, id int64, req EquipmentRequest) (*domain.Equipment, error) {
	eq, err := s.equipment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	eq.Name = strings.TrimSpace(req.Name)
	eq.Type = req.Type
	eq.Description = req.Description
	if req.Available != nil {
		eq.Available = *req.Available
	}

	if err := s.equipment.Update(ctx, eq); err != nil {
		return nil, err
	}
	return eq, nil
}

func (s *Service) DeleteEquipment(ctx context.Context, id int64) error {
	if err := s.equipment.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// DaySchedule lists the occupied slots of a room for the day containing
// date, sorted by start time. Pending and approved bookings both occupy.
func (s *Service) DaySchedule(ctx context.Context, roomID int64, date time.Time) ([]BusySlot, error) {
	if _, err := s.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	day := domain.TimeInterval{Start: dayStart, End: dayStart.AddDate(0, 0, 1)}

	active, err := s.reservations.ActiveForRoom(ctx, roomID, 0)
	if err != nil {
		return nil, err
	}

	slots := make([]BusySlot, 0)
	for _, res := range active {
		if !res.Interval.Overlaps(day) {
			continue
		}
		slots = append(slots, BusySlot{
			Start:   res.Interval.Start,
			End:     res.Interval.End,
			Subject: res.Subject,
			Status:  string(res.Status),
		})
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Start.Before(slots[j].Start) })
	return slots, nil
}
