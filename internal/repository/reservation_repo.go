package repository

import (
	"context"
	"errors"
	"time"

	"roombooking/internal/domain"

	"gorm.io/gorm"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrStaleStatus = errors.New("reservation status changed concurrently")
)

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) DB() *gorm.DB {
	return r.db
}

type reservationModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	RoomID        int64     `gorm:"column:room_id"`
	UserID        int64     `gorm:"column:user_id"`
	StartTime     time.Time `gorm:"column:start_time"`
	EndTime       time.Time `gorm:"column:end_time"`
	Subject       string    `gorm:"column:subject"`
	Status        string    `gorm:"column:status"`
	AdminComments *string   `gorm:"column:admin_comments"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (reservationModel) TableName() string { return "reservations" }

type assignmentModel struct {
	ReservationID int64     `gorm:"column:reservation_id"`
	EquipmentID   int64     `gorm:"column:equipment_id"`
	StartTime     time.Time `gorm:"column:start_time"`
	EndTime       time.Time `gorm:"column:end_time"`
}

func (assignmentModel) TableName() string { return "reservation_equipment" }

type participantModel struct {
	ID            int64  `gorm:"column:id;primaryKey"`
	ReservationID int64  `gorm:"column:reservation_id"`
	Name          string `gorm:"column:name"`
	Email         string `gorm:"column:email"`
}

func (participantModel) TableName() string { return "participants" }

func toDomainReservation(m reservationModel) *domain.Reservation {
	var comments string
	if m.AdminComments != nil {
		comments = *m.AdminComments
	}
	return &domain.Reservation{
		ID:     m.ID,
		RoomID: m.RoomID,
		UserID: m.UserID,
		Interval: domain.TimeInterval{
			Start: m.StartTime,
			End:   m.EndTime,
		},
		Subject:       m.Subject,
		Status:        domain.ReservationStatus(m.Status),
		AdminComments: comments,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toReservationModel(res *domain.Reservation) reservationModel {
	var comments *string
	if res.AdminComments != "" {
		v := res.AdminComments
		comments = &v
	}
	return reservationModel{
		ID:            res.ID,
		RoomID:        res.RoomID,
		UserID:        res.UserID,
		StartTime:     res.Interval.Start,
		EndTime:       res.Interval.End,
		Subject:       res.Subject,
		Status:        string(res.Status),
		AdminComments: comments,
		CreatedAt:     res.CreatedAt,
		UpdatedAt:     res.UpdatedAt,
	}
}

// Create inserts the reservation together with its equipment assignments and
// participants in one transaction. Assignments copy the reservation interval
// so the per-equipment exclusion constraint can see it. Any constraint
// violation rolls the whole write back.
func (r *ReservationRepository) Create(ctx context.Context, res *domain.Reservation, participants []domain.Participant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := toReservationModel(res)
		if err := tx.Create(&m).Error; err != nil {
			return err
		}

		for _, eqID := range res.EquipmentIDs {
			a := assignmentModel{
				ReservationID: m.ID,
				EquipmentID:   eqID,
				StartTime:     m.StartTime,
				EndTime:       m.EndTime,
			}
			if err := tx.Create(&a).Error; err != nil {
				return err
			}
		}

		for _, p := range participants {
			pm := participantModel{
				ReservationID: m.ID,
				Name:          p.Name,
				Email:         p.Email,
			}
			if err := tx.Create(&pm).Error; err != nil {
				return err
			}
		}

		saved := *toDomainReservation(m)
		saved.EquipmentIDs = res.EquipmentIDs
		*res = saved
		return nil
	})
}

// CreateBatch inserts a set of reservations in one transaction. Used for
// recurring bookings: if any occurrence hits a constraint, none survive.
func (r *ReservationRepository) CreateBatch(ctx context.Context, batch []*domain.Reservation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, res := range batch {
			m := toReservationModel(res)
			if err := tx.Create(&m).Error; err != nil {
				return err
			}
			for _, eqID := range res.EquipmentIDs {
				a := assignmentModel{
					ReservationID: m.ID,
					EquipmentID:   eqID,
					StartTime:     m.StartTime,
					EndTime:       m.EndTime,
				}
				if err := tx.Create(&a).Error; err != nil {
					return err
				}
			}
			eqIDs := res.EquipmentIDs
			*res = *toDomainReservation(m)
			res.EquipmentIDs = eqIDs
		}
		return nil
	})
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	var m reservationModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}

	res := toDomainReservation(m)

	var eqIDs []int64
	if err := r.db.WithContext(ctx).
		Table("reservation_equipment").
		Select("equipment_id").
		Where("reservation_id = ?", id).
		Scan(&eqIDs).Error; err != nil {
		return nil, err
	}
	res.EquipmentIDs = eqIDs

	return res, nil
}

// ActiveForRoom returns the conflict set for a room: reservations whose
// status still occupies the interval (pending or approved). excludeID skips
// the reservation being edited, 0 skips nothing.
func (r *ReservationRepository) ActiveForRoom(ctx context.Context, roomID, excludeID int64) ([]domain.Reservation, error) {
	var rows []reservationModel
	q := r.db.WithContext(ctx).
		Where("room_id = ? AND status IN ?", roomID, []string{
			string(domain.ReservationPending),
			string(domain.ReservationApproved),
		})
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Order("start_time ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Reservation, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainReservation(m))
	}
	return out, nil
}

// ActiveAssignmentsForEquipment returns the intervals currently holding a
// piece of equipment, excluding assignments whose parent reservation no
// longer occupies its slot.
func (r *ReservationRepository) ActiveAssignmentsForEquipment(ctx context.Context, equipmentID, excludeReservationID int64) ([]domain.EquipmentAssignment, error) {
	q := `
SELECT re.reservation_id, re.equipment_id, re.start_time, re.end_time
FROM reservation_equipment re
JOIN reservations r ON r.id = re.reservation_id
WHERE re.equipment_id = ?
  AND r.status IN ('pending', 'approved')
  AND re.reservation_id <> ?
ORDER BY re.start_time ASC
`
	var rows []assignmentModel
	if err := r.db.WithContext(ctx).Raw(q, equipmentID, excludeReservationID).Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.EquipmentAssignment, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.EquipmentAssignment{
			ReservationID: m.ReservationID,
			EquipmentID:   m.EquipmentID,
			Interval:      domain.TimeInterval{Start: m.StartTime, End: m.EndTime},
		})
	}
	return out, nil
}

// UpdateStatus writes the new status and admin comments, but only while the
// row still holds the status the caller read. A concurrent transition makes
// the predicate miss and the write fails with ErrStaleStatus, so a terminal
// reservation can never be rewritten from a stale snapshot. Moving out of an
// occupying status also drops the equipment assignments so the per-equipment
// exclusion constraint stops blocking the freed slots.
func (r *ReservationRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.ReservationStatus, comments string) error {
	updates := map[string]any{
		"status":     string(to),
		"updated_at": time.Now(),
	}
	if comments != "" {
		updates["admin_comments"] = comments
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&reservationModel{}).
			Where("id = ? AND status = ?", id, string(from)).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleStatus
		}

		if to == domain.ReservationRejected || to == domain.ReservationCancelled {
			if err := tx.Where("reservation_id = ?", id).Delete(&assignmentModel{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

type reservationRow struct {
	reservationModel
	UserName string `gorm:"column:user_name"`
	RoomName string `gorm:"column:room_name"`
}

const reservationListSelect = `
SELECT r.*, u.username AS user_name, rm.name AS room_name
FROM reservations r
JOIN users u ON u.id = r.user_id
JOIN rooms rm ON rm.id = r.room_id
`

func (r *ReservationRepository) listRows(ctx context.Context, q string, args ...any) ([]domain.Reservation, error) {
	var rows []reservationRow
	if err := r.db.WithContext(ctx).Raw(q, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Reservation, 0, len(rows))
	for _, row := range rows {
		res := toDomainReservation(row.reservationModel)
		res.UserName = row.UserName
		res.RoomName = row.RoomName
		out = append(out, *res)
	}
	return out, nil
}

func (r *ReservationRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Reservation, error) {
	return r.listRows(ctx, reservationListSelect+`WHERE r.user_id = ? ORDER BY r.start_time DESC`, userID)
}

func (r *ReservationRepository) ListByStatus(ctx context.Context, status domain.ReservationStatus) ([]domain.Reservation, error) {
	return r.listRows(ctx, reservationListSelect+`WHERE r.status = ? ORDER BY r.start_time ASC`, string(status))
}

// ListInRange returns reservations whose interval overlaps [start, end),
// including ones crossing the range boundaries.
func (r *ReservationRepository) ListInRange(ctx context.Context, start, end time.Time) ([]domain.Reservation, error) {
	return r.listRows(ctx,
		reservationListSelect+`WHERE r.start_time < ? AND r.end_time > ? ORDER BY r.start_time ASC`,
		end, start)
}

func (r *ReservationRepository) CountCreatedBetween(ctx context.Context, start, end time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&reservationModel{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&n).Error
	return n, err
}

func (r *ReservationRepository) CountByStatus(ctx context.Context, status domain.ReservationStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&reservationModel{}).
		Where("status = ?", string(status)).
		Count(&n).Error
	return n, err
}

func (r *ReservationRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&reservationModel{}).Count(&n).Error
	return n, err
}

func (r *ReservationRepository) Participants(ctx context.Context, reservationID int64) ([]domain.Participant, error) {
	var rows []participantModel
	if err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Participant, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.Participant{
			ID:            m.ID,
			ReservationID: m.ReservationID,
			Name:          m.Name,
			Email:         m.Email,
		})
	}
	return out, nil
}
