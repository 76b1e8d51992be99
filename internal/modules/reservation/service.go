package reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"roombooking/internal/domain"
	"roombooking/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// Event names a lifecycle transition requested by a caller.
type Event string

const (
	EventApprove Event = "approve"
	EventReject  Event = "reject"
	EventCancel  Event = "cancel"
)

func (e Event) targetStatus() (domain.ReservationStatus, bool) {
	switch e {
	case EventApprove:
		return domain.ReservationApproved, true
	case EventReject:
		return domain.ReservationRejected, true
	case EventCancel:
		return domain.ReservationCancelled, true
	}
	return "", false
}

type Service struct {
	reservations ReservationRepository
	rooms        RoomRepository
	equipment    EquipmentRepository
	notifs       NotificationSender
	events       EventPublisher
	log          *zap.Logger
	now          func() time.Time
}

func NewService(
	reservations ReservationRepository,
	rooms RoomRepository,
	equipment EquipmentRepository,
	notifs NotificationSender,
	events EventPublisher,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		reservations: reservations,
		rooms:        rooms,
		equipment:    equipment,
		notifs:       notifs,
		events:       events,
		log:          log,
		now:          time.Now,
	}
}

// isFree is the availability decision itself: the requested interval is free
// iff it overlaps none of the existing ones. Pure over its inputs.
func isFree(requested domain.TimeInterval, existing []domain.TimeInterval) bool {
	for _, e := range existing {
		if requested.Overlaps(e) {
			return false
		}
	}
	return true
}

// CheckAvailability reports whether a room is free for the interval.
// excludeID skips one reservation, for edit-in-place checks; pass 0 otherwise.
//
// Check-then-write is not atomic: two concurrent Create calls can both see
// the room as free. The reservations table carries an exclusion constraint
// on (room_id, interval) so the second insert fails with ErrConflict instead
// of double-booking.
func (s *Service) CheckAvailability(ctx context.Context, roomID int64, interval domain.TimeInterval, excludeID int64) (bool, error) {
	if err := interval.Validate(); err != nil {
		return false, err
	}

	existing, err := s.reservations.ActiveForRoom(ctx, roomID, excludeID)
	if err != nil {
		return false, err
	}

	intervals := make([]domain.TimeInterval, 0, len(existing))
	for _, r := range existing {
		intervals = append(intervals, r.Interval)
	}
	return isFree(interval, intervals), nil
}

// checkEquipment verifies that every requested equipment item exists, is
// available, and is free for the interval.
func (s *Service) checkEquipment(ctx context.Context, equipmentIDs []int64, interval domain.TimeInterval) error {
	seen := make(map[int64]bool, len(equipmentIDs))
	for _, id := range equipmentIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		eq, err := s.equipment.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: equipment %d not found", ErrValidation, id)
			}
			return err
		}
		if !eq.Available {
			return fmt.Errorf("%w: equipment %q is not available", ErrValidation, eq.Name)
		}

		assignments, err := s.reservations.ActiveAssignmentsForEquipment(ctx, id, 0)
		if err != nil {
			return err
		}
		for _, a := range assignments {
			if interval.Overlaps(a.Interval) {
				return fmt.Errorf("%w: equipment %q is booked for an overlapping interval", ErrConflict, eq.Name)
			}
		}
	}
	return nil
}

func (s *Service) validateCreate(ctx context.Context, req CreateRequest) (domain.TimeInterval, error) {
	if strings.TrimSpace(req.Subject) == "" {
		return domain.TimeInterval{}, fmt.Errorf("%w: subject is required", ErrValidation)
	}
	if req.RoomID <= 0 {
		return domain.TimeInterval{}, fmt.Errorf("%w: room is required", ErrValidation)
	}
	if req.UserID <= 0 {
		return domain.TimeInterval{}, fmt.Errorf("%w: user is required", ErrValidation)
	}

	interval, err := domain.NewInterval(req.StartTime, req.EndTime)
	if err != nil {
		return domain.TimeInterval{}, err
	}
	if interval.EndedBefore(s.now()) {
		return domain.TimeInterval{}, fmt.Errorf("%w: interval lies fully in the past", ErrValidation)
	}

	room, err := s.rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.TimeInterval{}, fmt.Errorf("%w: room not found", ErrValidation)
		}
		return domain.TimeInterval{}, err
	}
	if !room.Active {
		return domain.TimeInterval{}, fmt.Errorf("%w: room %q is not active", ErrValidation, room.Name)
	}

	return interval, nil
}

// Create validates the request, checks room and equipment availability, and
// persists the reservation in pending state. Nothing is written when any
// check fails.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.Reservation, error) {
	interval, err := s.validateCreate(ctx, req)
	if err != nil {
		return nil, err
	}

	free, err := s.CheckAvailability(ctx, req.RoomID, interval, 0)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, fmt.Errorf("%w: room is booked for an overlapping interval", ErrConflict)
	}

	if err := s.checkEquipment(ctx, req.EquipmentIDs, interval); err != nil {
		return nil, err
	}

	res := &domain.Reservation{
		RoomID:       req.RoomID,
		UserID:       req.UserID,
		Interval:     interval,
		Subject:      strings.TrimSpace(req.Subject),
		Status:       domain.ReservationPending,
		EquipmentIDs: req.EquipmentIDs,
	}

	participants := make([]domain.Participant, 0, len(req.Participants))
	for _, p := range req.Participants {
		participants = append(participants, domain.Participant{Name: p.Name, Email: p.Email})
	}

	if err := s.reservations.Create(ctx, res, participants); err != nil {
		return nil, s.mapWriteError(err)
	}

	if s.notifs != nil {
		if err := s.notifs.NotifyReservationCreated(ctx, res); err != nil {
			s.log.Warn("reservation notification failed",
				zap.Int64("reservation_id", res.ID),
				zap.String("event", "created"),
				zap.Error(err))
		}
	}
	if s.events != nil {
		s.events.PublishReservationUpdate(res)
	}

	return res, nil
}

// CreateRecurring expands the pattern and creates every occurrence, or none.
func (s *Service) CreateRecurring(ctx context.Context, req CreateRequest, pattern domain.RecurrencePattern) ([]*domain.Reservation, error) {
	interval, err := s.validateCreate(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := pattern.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	occurrences := pattern.Occurrences(interval)
	if len(occurrences) == 0 {
		return nil, fmt.Errorf("%w: recurrence produces no occurrences", ErrValidation)
	}

	for _, occ := range occurrences {
		free, err := s.CheckAvailability(ctx, req.RoomID, occ, 0)
		if err != nil {
			return nil, err
		}
		if !free {
			return nil, fmt.Errorf("%w: room is booked for %s", ErrConflict, occ)
		}
		if err := s.checkEquipment(ctx, req.EquipmentIDs, occ); err != nil {
			return nil, err
		}
	}

	batch := make([]*domain.Reservation, 0, len(occurrences))
	for _, occ := range occurrences {
		batch = append(batch, &domain.Reservation{
			RoomID:       req.RoomID,
			UserID:       req.UserID,
			Interval:     occ,
			Subject:      strings.TrimSpace(req.Subject),
			Status:       domain.ReservationPending,
			EquipmentIDs: req.EquipmentIDs,
		})
	}

	if err := s.reservations.CreateBatch(ctx, batch); err != nil {
		return nil, s.mapWriteError(err)
	}

	for _, res := range batch {
		if s.notifs != nil {
			if err := s.notifs.NotifyReservationCreated(ctx, res); err != nil {
				s.log.Warn("reservation notification failed",
					zap.Int64("reservation_id", res.ID),
					zap.String("event", "created"),
					zap.Error(err))
			}
		}
		if s.events != nil {
			s.events.PublishReservationUpdate(res)
		}
	}
	return batch, nil
}

// Transition applies a lifecycle event to an existing reservation.
// Approve and Reject are admin-only; Cancel is allowed to the owning user or
// an admin. Terminal states accept nothing.
func (s *Service) Transition(ctx context.Context, id int64, event Event, actor Actor, comment string) (*domain.Reservation, error) {
	target, ok := event.targetStatus()
	if !ok {
		return nil, fmt.Errorf("%w: unknown event %q", ErrValidation, event)
	}

	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	switch event {
	case EventApprove, EventReject:
		if !actor.IsAdmin() {
			return nil, fmt.Errorf("%w: only an administrator may %s", ErrForbidden, event)
		}
	case EventCancel:
		if !actor.IsAdmin() && actor.UserID != res.UserID {
			return nil, fmt.Errorf("%w: only the owner or an administrator may cancel", ErrForbidden)
		}
	}

	if event == EventReject && strings.TrimSpace(comment) == "" {
		return nil, fmt.Errorf("%w: rejection requires a comment", ErrValidation)
	}

	if !res.Status.CanTransition(target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, res.Status, target)
	}

	if err := s.reservations.UpdateStatus(ctx, id, res.Status, target, comment); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, fmt.Errorf("%w: reservation changed concurrently", ErrInvalidTransition)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	res.Status = target
	if comment != "" {
		res.AdminComments = comment
	}

	s.notifyTransition(ctx, event, res)
	if s.events != nil {
		s.events.PublishReservationUpdate(res)
	}

	return res, nil
}

func (s *Service) notifyTransition(ctx context.Context, event Event, res *domain.Reservation) {
	if s.notifs == nil {
		return
	}

	var err error
	switch event {
	case EventApprove:
		err = s.notifs.NotifyReservationApproved(ctx, res)
	case EventReject:
		err = s.notifs.NotifyReservationRejected(ctx, res)
	case EventCancel:
		err = s.notifs.NotifyReservationCancelled(ctx, res)
	}
	if err != nil {
		s.log.Warn("reservation notification failed",
			zap.Int64("reservation_id", res.ID),
			zap.String("event", string(event)),
			zap.Error(err))
	}
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	participants, err := s.reservations.Participants(ctx, id)
	if err != nil {
		return nil, err
	}
	res.Participants = participants
	return res, nil
}

func (s *Service) ListMine(ctx context.Context, userID int64) ([]domain.Reservation, error) {
	return s.reservations.ListByUser(ctx, userID)
}

func (s *Service) ListPending(ctx context.Context) ([]domain.Reservation, error) {
	return s.reservations.ListByStatus(ctx, domain.ReservationPending)
}

// mapWriteError turns a Postgres exclusion violation into ErrConflict. The
// constraint fires when a concurrent insert won the race after our
// availability check passed.
func (s *Service) mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23P01 exclusion_violation, 23505 unique_violation
		if pgErr.Code == "23P01" || pgErr.Code == "23505" {
			return fmt.Errorf("%w: interval was taken concurrently", ErrConflict)
		}
	}
	return err
}
