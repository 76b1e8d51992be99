package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"roombooking/internal/domain"

	"github.com/stretchr/testify/assert"
)

type memRepo struct {
	created []domain.Notification
	err     error
}

func (m *memRepo) Create(ctx context.Context, n *domain.Notification, data map[string]any) error {
	if m.err != nil {
		return m.err
	}
	n.ID = int64(len(m.created) + 1)
	m.created = append(m.created, *n)
	return nil
}

func (m *memRepo) GetByUserID(ctx context.Context, userID int64, limit int) ([]domain.Notification, error) {
	out := make([]domain.Notification, 0)
	for _, n := range m.created {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memRepo) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	for _, n := range m.created {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *memRepo) MarkAsRead(ctx context.Context, id, userID int64) error { return nil }

func (m *memRepo) MarkAllAsRead(ctx context.Context, userID int64) error { return nil }

type stubUsers struct {
	user *domain.User
}

func (s *stubUsers) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if s.user == nil {
		return nil, errors.New("not found")
	}
	return s.user, nil
}

type stubParticipants struct {
	list []domain.Participant
}

func (s *stubParticipants) Participants(ctx context.Context, reservationID int64) ([]domain.Participant, error) {
	return s.list, nil
}

type recordingMailer struct {
	to      [][]string
	subject []string
	err     error
}

func (m *recordingMailer) Send(ctx context.Context, to []string, subject, body string) error {
	m.to = append(m.to, to)
	m.subject = append(m.subject, subject)
	return m.err
}

func sampleReservation() *domain.Reservation {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	return &domain.Reservation{
		ID:       10,
		RoomID:   1,
		RoomName: "Boardroom",
		UserID:   5,
		Subject:  "Quarterly review",
		Interval: domain.TimeInterval{Start: start, End: start.Add(time.Hour)},
		Status:   domain.ReservationApproved,
	}
}

func TestNotifyReservationApproved(t *testing.T) {
	repo := &memRepo{}
	mailer := &recordingMailer{}
	users := &stubUsers{user: &domain.User{ID: 5, Email: "alice@example.com"}}
	parts := &stubParticipants{list: []domain.Participant{
		{Name: "Bob", Email: "bob@example.com"},
		{Name: "NoMail"},
	}}

	svc := NewService(repo, users, parts, mailer, nil)

	err := svc.NotifyReservationApproved(context.Background(), sampleReservation())

	assert.NoError(t, err)
	assert.Len(t, repo.created, 1)
	assert.Equal(t, domain.NotifReservationApproved, repo.created[0].Type)
	assert.Equal(t, int64(5), repo.created[0].UserID)

	assert.Len(t, mailer.to, 1)
	assert.Equal(t, []string{"alice@example.com", "bob@example.com"}, mailer.to[0])
}

func TestNotify_MailFailureDoesNotFail(t *testing.T) {
	repo := &memRepo{}
	mailer := &recordingMailer{err: errors.New("smtp down")}

	svc := NewService(repo, &stubUsers{}, &stubParticipants{}, mailer, nil)

	err := svc.NotifyReservationCancelled(context.Background(), sampleReservation())

	assert.NoError(t, err)
	assert.Len(t, repo.created, 1)
}

func TestNotify_RepoFailurePropagates(t *testing.T) {
	repo := &memRepo{err: errors.New("db down")}

	svc := NewService(repo, &stubUsers{}, &stubParticipants{}, &recordingMailer{}, nil)

	err := svc.NotifyReservationCreated(context.Background(), sampleReservation())

	assert.Error(t, err)
}

func TestNotifyReservationRejected_IncludesReason(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo, &stubUsers{}, &stubParticipants{}, nil, nil)

	res := sampleReservation()
	res.AdminComments = "room reserved for maintenance"

	err := svc.NotifyReservationRejected(context.Background(), res)

	assert.NoError(t, err)
	assert.Contains(t, repo.created[0].Message, "room reserved for maintenance")
}

func TestGetUserNotifications(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo, &stubUsers{}, &stubParticipants{}, nil, nil)

	_ = svc.NotifyReservationCreated(context.Background(), sampleReservation())

	list, unread, err := svc.GetUserNotifications(context.Background(), 5, 10)

	assert.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, int64(1), unread)
}
