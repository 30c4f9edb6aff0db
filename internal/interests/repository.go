package interests

import (
	"context"

	"gorm.io/gorm"

	"github.com/havenfurnitures/storefront-api/pkg/db/models"
)

// Repository is the relational Store backed by GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, interest *models.Interest) error {
	return r.db.WithContext(ctx).Create(interest).Error
}

func (r *Repository) List(ctx context.Context, q ListQuery) ([]models.Interest, int64, error) {
	base := func() *gorm.DB {
		tx := r.db.WithContext(ctx).Model(&models.Interest{})
		if q.Status != "" {
			tx = tx.Where("status = ?", q.Status)
		}
		return tx
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := []models.Interest{}
	if total == 0 {
		return rows, 0, nil
	}
	err := base().
		Order("created_at DESC").
		Order("id DESC").
		Offset(q.Page.Offset()).
		Limit(q.Page.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
