package report

import (
	"context"
	"errors"
	"sort"
	"time"

	"roombooking/internal/domain"
)

var ErrInvalidRange = errors.New("invalid report range")

// ReservationReader supplies the bookings a report is computed from.
type ReservationReader interface {
	ListInRange(ctx context.Context, start, end time.Time) ([]domain.Reservation, error)
}

type RoomReader interface {
	GetAll(ctx context.Context) ([]domain.Room, error)
}

// RoomUsage aggregates one room's share of a report.
type RoomUsage struct {
	RoomID       int64   `json:"room_id"`
	RoomName     string  `json:"room_name"`
	Reservations int     `json:"reservations"`
	Hours        float64 `json:"hours"`
}

// UtilizationReport covers approved reservations whose interval overlaps
// the requested range. Hours are clipped to the range boundaries.
type UtilizationReport struct {
	From            time.Time   `json:"from"`
	To              time.Time   `json:"to"`
	Reservations    int         `json:"reservations"`
	TotalHours      float64     `json:"total_hours"`
	AverageDuration float64     `json:"average_duration_hours"`
	Rooms           []RoomUsage `json:"rooms"`
	MostUsedRoom    *RoomUsage  `json:"most_used_room,omitempty"`
	HourOfDayShare  [24]int     `json:"hour_of_day_share"`
}

type Service struct {
	reservations ReservationReader
	rooms        RoomReader
}

func NewService(reservations ReservationReader, rooms RoomReader) *Service {
	return &Service{reservations: reservations, rooms: rooms}
}

func clip(iv domain.TimeInterval, from, to time.Time) domain.TimeInterval {
	out := iv
	if out.Start.Before(from) {
		out.Start = from
	}
	if out.End.After(to) {
		out.End = to
	}
	return out
}

func (s *Service) Utilization(ctx context.Context, from, to time.Time) (*UtilizationReport, error) {
	if !from.Before(to) {
		return nil, ErrInvalidRange
	}

	rooms, err := s.rooms.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	roomNames := make(map[int64]string, len(rooms))
	for _, r := range rooms {
		roomNames[r.ID] = r.Name
	}

	reservations, err := s.reservations.ListInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	report := &UtilizationReport{From: from, To: to}
	usage := make(map[int64]*RoomUsage)

	for _, res := range reservations {
		if res.Status != domain.ReservationApproved {
			continue
		}

		clipped := clip(res.Interval, from, to)
		hours := clipped.Hours()
		if hours <= 0 {
			continue
		}

		report.Reservations++
		report.TotalHours += hours
		report.HourOfDayShare[res.Interval.Start.Hour()]++

		u, ok := usage[res.RoomID]
		if !ok {
			name := res.RoomName
			if name == "" {
				name = roomNames[res.RoomID]
			}
			u = &RoomUsage{RoomID: res.RoomID, RoomName: name}
			usage[res.RoomID] = u
		}
		u.Reservations++
		u.Hours += hours
	}

	if report.Reservations > 0 {
		report.AverageDuration = report.TotalHours / float64(report.Reservations)
	}

	report.Rooms = make([]RoomUsage, 0, len(usage))
	for _, u := range usage {
		report.Rooms = append(report.Rooms, *u)
	}
	sort.Slice(report.Rooms, func(i, j int) bool {
		a, b := report.Rooms[i], report.Rooms[j]
		if a.Hours != b.Hours {
			return a.Hours > b.Hours
		}
		return a.RoomID < b.RoomID
	})
	if len(report.Rooms) > 0 {
		top := report.Rooms[0]
		report.MostUsedRoom = &top
	}

	return report, nil
}
