package models

import (
	"time"

	"github.com/storefront/backend/internal/domain/complaint"
	"github.com/storefront/backend/internal/domain/shared"
)

// ComplaintModel is the persistence model for the Complaint entity.
type ComplaintModel struct {
	Number        string                  `gorm:"type:varchar(16);primaryKey"`
	Name          string                  `gorm:"type:varchar(200)"`
	Email         string                  `gorm:"type:varchar(200);not null"`
	Message       string                  `gorm:"type:text;not null"`
	SubmitterKind complaint.SubmitterKind `gorm:"type:varchar(20);not null;default:'guest'"`
	Status        string                  `gorm:"type:varchar(50);not null;default:'Pending'"`
	CreatedAt     time.Time               `gorm:"not null;index"`
	UpdatedAt     time.Time               `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ComplaintModel) TableName() string {
	return "complaints"
}

// ToDomain converts the model to a domain Complaint
func (m *ComplaintModel) ToDomain() *complaint.Complaint {
	return &complaint.Complaint{
		BaseEntity: shared.BaseEntity{
			ID:        m.Number,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		Name:          m.Name,
		Email:         m.Email,
		Message:       m.Message,
		SubmitterKind: m.SubmitterKind,
		Status:        m.Status,
	}
}

// ComplaintModelFromDomain creates a model from a domain Complaint
func ComplaintModelFromDomain(c *complaint.Complaint) *ComplaintModel {
	return &ComplaintModel{
		Number:        c.Number(),
		Name:          c.Name,
		Email:         c.Email,
		Message:       c.Message,
		SubmitterKind: c.SubmitterKind,
		Status:        c.Status,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
