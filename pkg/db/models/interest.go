package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/havenfurnitures/storefront-api/pkg/enums"
)

// Interest is a customer lead captured from the storefront. ProductID is a
// plain reference: deleting a product leaves its interests in place.
type Interest struct {
	ID          uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	Name        string               `gorm:"column:name;size:50;not null"`
	Email       string               `gorm:"column:email;not null;index:idx_interests_email"`
	Phone       string               `gorm:"column:phone;size:17;not null"`
	Message     string               `gorm:"column:message;size:500;not null"`
	ProductName string               `gorm:"column:product_name;not null"`
	ProductID   uuid.UUID            `gorm:"column:product_id;type:uuid;not null;index:idx_interests_product_id"`
	Status      enums.InterestStatus `gorm:"column:status;size:16;not null;index:idx_interests_status"`
	CreatedAt   time.Time            `gorm:"column:created_at;not null;autoCreateTime:false;index:idx_interests_created_at,sort:desc"`
	UpdatedAt   time.Time            `gorm:"column:updated_at;not null;autoUpdateTime:false"`
}

func (Interest) TableName() string {
	return "interests"
}
