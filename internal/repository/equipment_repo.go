package repository

import (
	"context"
	"errors"
	"time"

	"roombooking/internal/domain"

	"gorm.io/gorm"
)

type EquipmentRepository struct {
	db *gorm.DB
}

func NewEquipmentRepository(db *gorm.DB) *EquipmentRepository {
	return &EquipmentRepository{db: db}
}

func (r *EquipmentRepository) DB() *gorm.DB {
	return r.db
}

type equipmentModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	Name        string    `gorm:"column:name"`
	Type        string    `gorm:"column:type"`
	Description *string   `gorm:"column:description"`
	Available   bool      `gorm:"column:available"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (equipmentModel) TableName() string { return "equipment" }

func toDomainEquipment(m equipmentModel) *domain.Equipment {
	var desc string
	if m.Description != nil {
		desc = *m.Description
	}
	return &domain.Equipment{
		ID:          m.ID,
		Name:        m.Name,
		Type:        m.Type,
		Description: desc,
		Available:   m.Available,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (r *EquipmentRepository) Create(ctx context.Context, eq *domain.Equipment) error {
	var desc *string
	if eq.Description != "" {
		v := eq.Description
		desc = &v
	}
	m := equipmentModel{
		Name:        eq.Name,
		Type:        eq.Type,
		Description: desc,
		Available:   eq.Available,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*eq = *toDomainEquipment(m)
	return nil
}

func (r *EquipmentRepository) GetByID(ctx context.Context, id int64) (*domain.Equipment, error) {
	var m equipmentModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainEquipment(m), nil
}

func (r *EquipmentRepository) GetAll(ctx context.Context) ([]domain.Equipment, error) {
	return r.list(ctx, r.db.WithContext(ctx))
}

func (r *EquipmentRepository) GetAvailable(ctx context.Context) ([]domain.Equipment, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("available = ?", true))
}

func (r *EquipmentRepository) list(ctx context.Context, q *gorm.DB) ([]domain.Equipment, error) {
	var rows []equipmentModel
	if err := q.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Equipment, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainEquipment(m))
	}
	return out, nil
}

func (r *EquipmentRepository) Update(ctx context.Context, eq *domain.Equipment) error {
	var desc *string
	if eq.Description != "" {
		v := eq.Description
		desc = &v
	}
	tx := r.db.WithContext(ctx).Model(&equipmentModel{}).Where("id = ?", eq.ID).Updates(map[string]any{
		"name":        eq.Name,
		"type":        eq.Type,
		"description": desc,
		"available":   eq.Available,
		"updated_at":  time.Now(),
	})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *EquipmentRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&equipmentModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
