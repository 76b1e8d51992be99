package notification

import (
	"context"
	"fmt"

	"roombooking/internal/domain"

	"go.uber.org/zap"
)

// Service stores in-app notifications and mirrors them to email. It backs
// the reservation module's NotificationSender.
type Service struct {
	repo         NotificationRepository
	users        UserReader
	participants ParticipantReader
	mailer       Mailer
	log          *zap.Logger
}

func NewService(repo NotificationRepository, users UserReader, participants ParticipantReader, mailer Mailer, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:         repo,
		users:        users,
		participants: participants,
		mailer:       mailer,
		log:          log,
	}
}

func (s *Service) GetUserNotifications(ctx context.Context, userID int64, limit int) ([]domain.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	list, err := s.repo.GetByUserID(ctx, userID, limit)
	if err != nil {
		return nil, 0, err
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		unread = 0
	}

	return list, unread, nil
}

func (s *Service) MarkAsRead(ctx context.Context, id, userID int64) error {
	return s.repo.MarkAsRead(ctx, id, userID)
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *Service) NotifyReservationCreated(ctx context.Context, res *domain.Reservation) error {
	return s.notify(ctx, res, domain.NotifReservationCreated,
		"Reservation requested",
		fmt.Sprintf("Your reservation %q for %s is waiting for approval.", res.Subject, s.slot(res)))
}

func (s *Service) NotifyReservationApproved(ctx context.Context, res *domain.Reservation) error {
	return s.notify(ctx, res, domain.NotifReservationApproved,
		"Reservation approved",
		fmt.Sprintf("Your reservation %q for %s was approved.", res.Subject, s.slot(res)))
}

func (s *Service) NotifyReservationRejected(ctx context.Context, res *domain.Reservation) error {
	msg := fmt.Sprintf("Your reservation %q for %s was rejected.", res.Subject, s.slot(res))
	if res.AdminComments != "" {
		msg += " Reason: " + res.AdminComments
	}
	return s.notify(ctx, res, domain.NotifReservationRejected, "Reservation rejected", msg)
}

func (s *Service) NotifyReservationCancelled(ctx context.Context, res *domain.Reservation) error {
	return s.notify(ctx, res, domain.NotifReservationCancelled,
		"Reservation cancelled",
		fmt.Sprintf("The reservation %q for %s was cancelled.", res.Subject, s.slot(res)))
}

func (s *Service) slot(res *domain.Reservation) string {
	name := res.RoomName
	if name == "" {
		name = fmt.Sprintf("room %d", res.RoomID)
	}
	return fmt.Sprintf("%s on %s", name, res.Interval)
}

func (s *Service) notify(ctx context.Context, res *domain.Reservation, t domain.NotificationType, title, message string) error {
	n := &domain.Notification{
		UserID:  res.UserID,
		Type:    t,
		Title:   title,
		Message: message,
	}
	if err := s.repo.Create(ctx, n, map[string]any{"reservation_id": res.ID}); err != nil {
		return err
	}

	// Mail is best effort once the in-app row exists.
	if s.mailer != nil {
		if err := s.mailer.Send(ctx, s.recipients(ctx, res), title, message); err != nil {
			s.log.Warn("notification email failed",
				zap.Int64("reservation_id", res.ID),
				zap.Error(err))
		}
	}
	return nil
}

// recipients collects the organizer's address and every participant with an
// email. Lookup failures just shrink the list.
func (s *Service) recipients(ctx context.Context, res *domain.Reservation) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, 1+len(res.Participants))

	add := func(email string) {
		if email != "" && !seen[email] {
			seen[email] = true
			out = append(out, email)
		}
	}

	if s.users != nil {
		if user, err := s.users.GetByID(ctx, res.UserID); err == nil {
			add(user.Email)
		}
	}

	participants := res.Participants
	if len(participants) == 0 && s.participants != nil && res.ID != 0 {
		if loaded, err := s.participants.Participants(ctx, res.ID); err == nil {
			participants = loaded
		}
	}
	for _, p := range participants {
		add(p.Email)
	}

	return out
}
