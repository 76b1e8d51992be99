package repository

import (
	"context"
	"errors"
	"time"

	"roombooking/internal/domain"

	"gorm.io/gorm"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) DB() *gorm.DB {
	return r.db
}

type roomModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	Name        string    `gorm:"column:name"`
	Capacity    int       `gorm:"column:capacity"`
	Type        string    `gorm:"column:type"`
	Location    string    `gorm:"column:location"`
	Description *string   `gorm:"column:description"`
	Active      bool      `gorm:"column:active"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (roomModel) TableName() string { return "rooms" }

func toDomainRoom(m roomModel) *domain.Room {
	var desc string
	if m.Description != nil {
		desc = *m.Description
	}
	return &domain.Room{
		ID:          m.ID,
		Name:        m.Name,
		Capacity:    m.Capacity,
		Type:        m.Type,
		Location:    m.Location,
		Description: desc,
		Active:      m.Active,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toRoomModel(room *domain.Room) roomModel {
	var desc *string
	if room.Description != "" {
		v := room.Description
		desc = &v
	}
	return roomModel{
		ID:          room.ID,
		Name:        room.Name,
		Capacity:    room.Capacity,
		Type:        room.Type,
		Location:    room.Location,
		Description: desc,
		Active:      room.Active,
		CreatedAt:   room.CreatedAt,
		UpdatedAt:   room.UpdatedAt,
	}
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	m := toRoomModel(room)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*room = *toDomainRoom(m)
	return nil
}

func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	var m roomModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainRoom(m), nil
}

func (r *RoomRepository) GetAll(ctx context.Context) ([]domain.Room, error) {
	return r.list(ctx, r.db.WithContext(ctx))
}

func (r *RoomRepository) GetActive(ctx context.Context) ([]domain.Room, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("active = ?", true))
}

func (r *RoomRepository) list(ctx context.Context, q *gorm.DB) ([]domain.Room, error) {
	var rows []roomModel
	if err := q.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Room, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainRoom(m))
	}
	return out, nil
}

func (r *RoomRepository) Update(ctx context.Context, room *domain.Room) error {
	m := toRoomModel(room)
	m.UpdatedAt = time.Now()
	tx := r.db.WithContext(ctx).Model(&roomModel{}).Where("id = ?", m.ID).Updates(map[string]any{
		"name":        m.Name,
		"capacity":    m.Capacity,
		"type":        m.Type,
		"location":    m.Location,
		"description": m.Description,
		"active":      m.Active,
		"updated_at":  m.UpdatedAt,
	})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RoomRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&roomModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RoomRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&roomModel{}).Count(&n).Error
	return n, err
}
