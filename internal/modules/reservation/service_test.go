package reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"roombooking/internal/domain"
	"roombooking/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock repositories

type MockReservationRepo struct {
	mock.Mock
}

func (m *MockReservationRepo) Create(ctx context.Context, res *domain.Reservation, participants []domain.Participant) error {
	args := m.Called(ctx, res, participants)
	if args.Error(0) == nil && res != nil {
		res.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockReservationRepo) CreateBatch(ctx context.Context, batch []*domain.Reservation) error {
	args := m.Called(ctx, batch)
	if args.Error(0) == nil {
		for i, res := range batch {
			res.ID = int64(1000 + i)
		}
	}
	return args.Error(0)
}

func (m *MockReservationRepo) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepo) ActiveForRoom(ctx context.Context, roomID, excludeID int64) ([]domain.Reservation, error) {
	args := m.Called(ctx, roomID, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationRepo) ActiveAssignmentsForEquipment(ctx context.Context, equipmentID, excludeReservationID int64) ([]domain.EquipmentAssignment, error) {
	args := m.Called(ctx, equipmentID, excludeReservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EquipmentAssignment), args.Error(1)
}

func (m *MockReservationRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.ReservationStatus, comments string) error {
	args := m.Called(ctx, id, from, to, comments)
	return args.Error(0)
}

func (m *MockReservationRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Reservation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationRepo) ListByStatus(ctx context.Context, status domain.ReservationStatus) ([]domain.Reservation, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationRepo) Participants(ctx context.Context, reservationID int64) ([]domain.Participant, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Participant), args.Error(1)
}

type MockRoomRepo struct {
	mock.Mock
}

func (m *MockRoomRepo) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}

type MockEquipmentRepo struct {
	mock.Mock
}

func (m *MockEquipmentRepo) GetByID(ctx context.Context, id int64) (*domain.Equipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyReservationCreated(ctx context.Context, res *domain.Reservation) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}

func (m *MockNotifier) NotifyReservationApproved(ctx context.Context, res *domain.Reservation) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}

func (m *MockNotifier) NotifyReservationRejected(ctx context.Context, res *domain.Reservation) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}

func (m *MockNotifier) NotifyReservationCancelled(ctx context.Context, res *domain.Reservation) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}

type fakePublisher struct {
	published []*domain.Reservation
}

func (f *fakePublisher) PublishReservationUpdate(res *domain.Reservation) {
	f.published = append(f.published, res)
}

// Fixtures

var (
	testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	// Room R has an approved reservation [09:00, 10:00) on 2024-06-01.
	existingStart = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	existingEnd   = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
)

func newTestService(res *MockReservationRepo, rooms *MockRoomRepo, eq *MockEquipmentRepo, notifs *MockNotifier, events *fakePublisher) *Service {
	var sender NotificationSender
	if notifs != nil {
		sender = notifs
	}
	var pub EventPublisher
	if events != nil {
		pub = events
	}
	s := NewService(res, rooms, eq, sender, pub, nil)
	s.now = func() time.Time { return testNow }
	return s
}

func activeRoom() *domain.Room {
	return &domain.Room{ID: 1, Name: "Boardroom", Capacity: 12, Active: true}
}

func existingApproved() []domain.Reservation {
	return []domain.Reservation{{
		ID:       7,
		RoomID:   1,
		UserID:   2,
		Interval: domain.TimeInterval{Start: existingStart, End: existingEnd},
		Status:   domain.ReservationApproved,
	}}
}

func TestCreate_BackToBackSucceeds(t *testing.T) {
	resRepo := new(MockReservationRepo)
	roomRepo := new(MockRoomRepo)
	notifs := new(MockNotifier)
	events := &fakePublisher{}

	roomRepo.On("GetByID", mock.Anything, int64(1)).Return(activeRoom(), nil)
	resRepo.On("ActiveForRoom", mock.Anything, int64(1), int64(0)).Return(existingApproved(), nil)
	resRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	notifs.On("NotifyReservationCreated", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(resRepo, roomRepo, nil, notifs, events)

	created, err := svc.Create(context.Background(), CreateRequest{
		RoomID:    1,
		UserID:    5,
		StartTime: existingEnd,
		EndTime:   existingEnd.Add(time.Hour),
		Subject:   "Weekly sync",
	})

	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.Equal(t, domain.ReservationPending, created.Status)
	assert.Equal(t, int64(999), created.ID)
	assert.Len(t, events.published, 1)
	notifs.AssertNumberOfCalls(t, "NotifyReservationCreated", 1)
}

func TestCreate_OverlapFailsWithConflict(t *testing.T) {
	resRepo := new(MockReservationRepo)
	roomRepo := new(MockRoomRepo)

	roomRepo.On("GetByID", mock.Anything, int64(1)).Return(activeRoom(), nil)
	resRepo.On("ActiveForRoom", mock.Anything, int64(1), int64(0)).Return(existingApproved(), nil)

	svc := newTestService(resRepo, roomRepo, nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateRequest{
		RoomID:    1,
		UserID:    5,
		StartTime: existingStart.Add(30 * time.Minute), // 09:30
		EndTime:   existingEnd.Add(30 * time.Minute),   // 10:30
		Subject:   "Overlapping",
	})

	assert.ErrorIs(t, err, ErrConflict)
	resRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_ZeroDurationRejectedBeforePersistence(t *testing.T) {
	resRepo := new(MockReservationRepo)
	roomRepo := new(MockRoomRepo)

	svc := newTestService(resRepo, roomRepo, nil, nil, nil)

	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	_, err := svc.Create(context.Background(), CreateRequest{
		RoomID:    1,
		UserID:    5,
		StartTime: start,
		EndTime:   start,
		Subject:   "Instant meeting",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInterval)
	roomRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	resRepo.AssertNotCalled(t, "ActiveForRoom", mock.Anything, mock.Anything, mock.Anything)
	resRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_MissingSubject(t *testing.T) {
	svc := newTestService(new(MockReservationRepo), new(MockRoomRepo), nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateRequest{
		RoomID:    1,
		UserID:    5,
		StartTime: existingStart,
		EndTime:   existingEnd,
		Subject:   "   ",
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreate_PastIntervalRejected(t *testing.T) {
	svc := newTestService(new(MockReservationRepo), new(MockRoomRepo), nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateRequest{
		RoomID:    1,
		UserID:    5,
		StartTime: testNow.Add(-2 * time.Hour),
		EndTime:   testNow.Add(-time.Hour),
		Subject:   "Retro-booking",
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreate_InactiveRoom(t *testing.T) {
	resRepo := new(MockReservationRepo)
	roomRepo := new(MockRoomRepo)

	roomRepo.On("GetByID", mock.Anything, int64(1)).Return(&domain.Room{ID: 1, Name: "Old wing", Active: false}, nil)

	svc := newTestService(resRepo, roomRepo, nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateRequest{
		RoomID:    1,
		UserID:    5,
		StartTime: existingStart,
		EndTime:   existingEnd,
		Subject:   "Meeting",
	})

	assert.ErrorIs(t, err, ErrValidation)
	resRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_EquipmentConflict(t *testing.T) {
	resRepo := new(MockReservationRepo)
	roomRepo := new(MockRoomRepo)
	eqRepo := new(MockEquipmentRepo)

	roomRepo.On("GetByID", mock.Anything, int64(1)).Return(activeRoom(), nil)
	resRepo.On("ActiveForRoom", mock.Anything, int64(1), int64(0)).Return([]domain.Reservation{}, nil)
	eqRepo.On("GetByID", mock.Anything, int64(3)).Return(&domain.Equipment{ID: 3, Name: "Projector", Available: true}, nil)
	resRepo.On("ActiveAssignmentsForEquipment", mock.Anything, int64(3), int64(0)).Return([]domain.EquipmentAssignment{{
		ReservationID: 42,
		EquipmentID:   3,
		Interval:      domain.TimeInterval{Start: existingStart, End: existingEnd},
	}}, nil)

	svc := newTestService(resRepo, roomRepo, eqRepo, nil, nil)

	_, err := svc.Create(context.Background(), CreateRequest{
		RoomID:       1,
		UserID:       5,
		StartTime:    existingStart.Add(15 * time.Minute),
		EndTime:      existingEnd.Add(15 * time.Minute),
		Subject:      "Demo",
		EquipmentIDs: []int64{3},
	})

	assert.ErrorIs(t, err, ErrConflict)
	resRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_UnavailableEquipment(t *testing.T) {
	resRepo := new(MockReservationRepo)
	roomRepo := new(MockRoomRepo)
	eqRepo := new(MockEquipmentRepo)

	roomRepo.On("GetByID", mock.Anything, int64(1)).Return(activeRoom(), nil)
	resRepo.On("ActiveForRoom", mock.Anything, int64(1), int64(0)).Return([]domain.Reservation{}, nil)
	eqRepo.On("GetByID", mock.Anything, int64(3)).Return(&domain.Equipment{ID: 3, Name: "Broken TV", Available: false}, nil)

	svc := newTestService(resRepo, roomRepo, eqRepo, nil, nil)

	_, err := svc.Create(context.Background(), CreateRequest{
		RoomID:       1,
		UserID:       5,
		StartTime:    existingStart,
		EndTime:      existingEnd,
		Subject:      "Demo",
		EquipmentIDs: []int64{3},
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreate_ConcurrentInsertMapsToConflict(t *testing.T) {
	resRepo := new(MockReservationRepo)
	roomRepo := new(MockRoomRepo)

	roomRepo.On("GetByID", mock.Anything, int64(1)).Return(activeRoom(), nil)
	resRepo.On("ActiveForRoom", mock.Anything, int64(1), int64(0)).Return([]domain.Reservation{}, nil)
	// The exclusion constraint fires on insert: a concurrent writer won.
	resRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Return(&pgconn.PgError{Code: "23P01", ConstraintName: "reservations_no_overlap"})

	svc := newTestService(resRepo, roomRepo, nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateRequest{
		RoomID:    1,
		UserID:    5,
		StartTime: existingStart,
		EndTime:   existingEnd,
		Subject:   "Race loser",
	})

	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreate_NotificationFailureSwallowed(t *testing.T) {
	resRepo := new(MockReservationRepo)
	roomRepo := new(MockRoomRepo)
	notifs := new(MockNotifier)

	roomRepo.On("GetByID", mock.Anything, int64(1)).Return(activeRoom(), nil)
	resRepo.On("ActiveForRoom", mock.Anything, int64(1), int64(0)).Return([]domain.Reservation{}, nil)
	resRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	notifs.On("NotifyReservationCreated", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	svc := newTestService(resRepo, roomRepo, nil, notifs, nil)

	created, err := svc.Create(context.Background(), CreateRequest{
		RoomID:    1,
		UserID:    5,
		StartTime: existingStart,
		EndTime:   existingEnd,
		Subject:   "Meeting",
	})

	assert.NoError(t, err)
	assert.NotNil(t, created)
}

func TestCheckAvailability_Idempotent(t *testing.T) {
	resRepo := new(MockReservationRepo)

	resRepo.On("ActiveForRoom", mock.Anything, int64(1), int64(0)).Return(existingApproved(), nil)

	svc := newTestService(resRepo, new(MockRoomRepo), nil, nil, nil)

	interval := domain.TimeInterval{Start: existingEnd, End: existingEnd.Add(time.Hour)}

	first, err := svc.CheckAvailability(context.Background(), 1, interval, 0)
	assert.NoError(t, err)
	second, err := svc.CheckAvailability(context.Background(), 1, interval, 0)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
	assert.True(t, first)
}

func TestCheckAvailability_InvalidInterval(t *testing.T) {
	svc := newTestService(new(MockReservationRepo), new(MockRoomRepo), nil, nil, nil)

	_, err := svc.CheckAvailability(context.Background(), 1, domain.TimeInterval{Start: existingStart, End: existingStart}, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInterval)
}

func pendingReservation() *domain.Reservation {
	return &domain.Reservation{
		ID:       10,
		RoomID:   1,
		UserID:   5,
		Interval: domain.TimeInterval{Start: existingStart, End: existingEnd},
		Status:   domain.ReservationPending,
	}
}

func TestTransition_ApproveWithComment(t *testing.T) {
	resRepo := new(MockReservationRepo)
	notifs := new(MockNotifier)

	resRepo.On("GetByID", mock.Anything, int64(10)).Return(pendingReservation(), nil)
	resRepo.On("UpdateStatus", mock.Anything, int64(10), domain.ReservationPending, domain.ReservationApproved, "ok").Return(nil)
	notifs.On("NotifyReservationApproved", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(resRepo, new(MockRoomRepo), nil, notifs, nil)

	res, err := svc.Transition(context.Background(), 10, EventApprove, Actor{UserID: 1, Role: domain.RoleAdmin}, "ok")

	assert.NoError(t, err)
	assert.Equal(t, domain.ReservationApproved, res.Status)
	notifs.AssertNumberOfCalls(t, "NotifyReservationApproved", 1)
}

func TestTransition_ApproveRequiresAdmin(t *testing.T) {
	resRepo := new(MockReservationRepo)
	resRepo.On("GetByID", mock.Anything, int64(10)).Return(pendingReservation(), nil)

	svc := newTestService(resRepo, new(MockRoomRepo), nil, nil, nil)

	_, err := svc.Transition(context.Background(), 10, EventApprove, Actor{UserID: 5, Role: domain.RoleUser}, "")

	assert.ErrorIs(t, err, ErrForbidden)
	resRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTransition_RejectRequiresComment(t *testing.T) {
	resRepo := new(MockReservationRepo)
	resRepo.On("GetByID", mock.Anything, int64(10)).Return(pendingReservation(), nil)

	svc := newTestService(resRepo, new(MockRoomRepo), nil, nil, nil)

	_, err := svc.Transition(context.Background(), 10, EventReject, Actor{UserID: 1, Role: domain.RoleAdmin}, "  ")

	assert.ErrorIs(t, err, ErrValidation)
}

func TestTransition_CancelFromRejectedFails(t *testing.T) {
	resRepo := new(MockReservationRepo)

	rejected := pendingReservation()
	rejected.Status = domain.ReservationRejected
	resRepo.On("GetByID", mock.Anything, int64(10)).Return(rejected, nil)

	svc := newTestService(resRepo, new(MockRoomRepo), nil, nil, nil)

	_, err := svc.Transition(context.Background(), 10, EventCancel, Actor{UserID: 1, Role: domain.RoleAdmin}, "")

	assert.ErrorIs(t, err, ErrInvalidTransition)
	resRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTransition_CancelByOwner(t *testing.T) {
	resRepo := new(MockReservationRepo)
	notifs := new(MockNotifier)

	approved := pendingReservation()
	approved.Status = domain.ReservationApproved
	resRepo.On("GetByID", mock.Anything, int64(10)).Return(approved, nil)
	resRepo.On("UpdateStatus", mock.Anything, int64(10), domain.ReservationApproved, domain.ReservationCancelled, "plans changed").Return(nil)
	notifs.On("NotifyReservationCancelled", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(resRepo, new(MockRoomRepo), nil, notifs, nil)

	res, err := svc.Transition(context.Background(), 10, EventCancel, Actor{UserID: 5, Role: domain.RoleUser}, "plans changed")

	assert.NoError(t, err)
	assert.Equal(t, domain.ReservationCancelled, res.Status)
}

func TestTransition_CancelByStrangerForbidden(t *testing.T) {
	resRepo := new(MockReservationRepo)
	resRepo.On("GetByID", mock.Anything, int64(10)).Return(pendingReservation(), nil)

	svc := newTestService(resRepo, new(MockRoomRepo), nil, nil, nil)

	_, err := svc.Transition(context.Background(), 10, EventCancel, Actor{UserID: 77, Role: domain.RoleUser}, "")

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestTransition_ApproveFromApprovedFails(t *testing.T) {
	resRepo := new(MockReservationRepo)

	approved := pendingReservation()
	approved.Status = domain.ReservationApproved
	resRepo.On("GetByID", mock.Anything, int64(10)).Return(approved, nil)

	svc := newTestService(resRepo, new(MockRoomRepo), nil, nil, nil)

	_, err := svc.Transition(context.Background(), 10, EventApprove, Actor{UserID: 1, Role: domain.RoleAdmin}, "")

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransition_ConcurrentStatusChange(t *testing.T) {
	resRepo := new(MockReservationRepo)

	// snapshot reads pending, but another transition lands first and the
	// conditional write misses
	resRepo.On("GetByID", mock.Anything, int64(10)).Return(pendingReservation(), nil)
	resRepo.On("UpdateStatus", mock.Anything, int64(10), domain.ReservationPending, domain.ReservationApproved, "").
		Return(repository.ErrStaleStatus)

	svc := newTestService(resRepo, new(MockRoomRepo), nil, nil, nil)

	_, err := svc.Transition(context.Background(), 10, EventApprove, Actor{UserID: 1, Role: domain.RoleAdmin}, "")

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransition_NotFound(t *testing.T) {
	resRepo := new(MockReservationRepo)
	resRepo.On("GetByID", mock.Anything, int64(404)).Return(nil, repository.ErrNotFound)

	svc := newTestService(resRepo, new(MockRoomRepo), nil, nil, nil)

	_, err := svc.Transition(context.Background(), 404, EventCancel, Actor{UserID: 1, Role: domain.RoleAdmin}, "")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateRecurring_AllOrNothing(t *testing.T) {
	resRepo := new(MockReservationRepo)
	roomRepo := new(MockRoomRepo)

	roomRepo.On("GetByID", mock.Anything, int64(1)).Return(activeRoom(), nil)
	// Second occurrence collides with the existing approved booking.
	resRepo.On("ActiveForRoom", mock.Anything, int64(1), int64(0)).Return(existingApproved(), nil)

	svc := newTestService(resRepo, roomRepo, nil, nil, nil)

	_, err := svc.CreateRecurring(context.Background(), CreateRequest{
		RoomID:    1,
		UserID:    5,
		StartTime: existingStart.AddDate(0, 0, -1), // May 31, free
		EndTime:   existingEnd.AddDate(0, 0, -1),
		Subject:   "Daily standup",
	}, domain.RecurrencePattern{
		Type:  domain.RecurDaily,
		Until: existingStart.AddDate(0, 0, 1),
	})

	assert.ErrorIs(t, err, ErrConflict)
	resRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestCreateRecurring_Success(t *testing.T) {
	resRepo := new(MockReservationRepo)
	roomRepo := new(MockRoomRepo)
	notifs := new(MockNotifier)

	roomRepo.On("GetByID", mock.Anything, int64(1)).Return(activeRoom(), nil)
	resRepo.On("ActiveForRoom", mock.Anything, int64(1), int64(0)).Return([]domain.Reservation{}, nil)
	resRepo.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)
	notifs.On("NotifyReservationCreated", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(resRepo, roomRepo, nil, notifs, nil)

	start := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	created, err := svc.CreateRecurring(context.Background(), CreateRequest{
		RoomID:    1,
		UserID:    5,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Subject:   "Daily standup",
	}, domain.RecurrencePattern{
		Type:  domain.RecurDaily,
		Until: start.AddDate(0, 0, 2),
	})

	assert.NoError(t, err)
	assert.Len(t, created, 3)
	for _, res := range created {
		assert.Equal(t, domain.ReservationPending, res.Status)
	}
	notifs.AssertNumberOfCalls(t, "NotifyReservationCreated", 3)
}
