package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/complaint"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
)

// GormComplaintRepository implements complaint.ComplaintRepository using GORM
type GormComplaintRepository struct {
	db *gorm.DB
}

// NewGormComplaintRepository creates a new GormComplaintRepository
func NewGormComplaintRepository(db *gorm.DB) *GormComplaintRepository {
	return &GormComplaintRepository{db: db}
}

// Create inserts a complaint
func (r *GormComplaintRepository) Create(ctx context.Context, c *complaint.Complaint) error {
	if err := r.db.WithContext(ctx).Create(models.ComplaintModelFromDomain(c)).Error; err != nil {
		if isDuplicateKey(err) {
			return shared.ErrConcurrencyConflict
		}
		return fmt.Errorf("create complaint: %w", err)
	}
	return nil
}

// UpdateStatus overwrites the status and returns the updated complaint
func (r *GormComplaintRepository) UpdateStatus(ctx context.Context, number, status string) (*complaint.Complaint, error) {
	var updated *complaint.Complaint

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m models.ComplaintModel
		if err := tx.Where("number = ?", number).First(&m).Error; err != nil {
			if isNotFound(err) {
				return complaint.ErrComplaintNotFound
			}
			return fmt.Errorf("find complaint: %w", err)
		}

		c := m.ToDomain()
		if err := c.SetStatus(status); err != nil {
			return err
		}
		if err := tx.Model(&models.ComplaintModel{}).
			Where("number = ?", number).
			Updates(map[string]any{"status": c.Status, "updated_at": c.UpdatedAt}).Error; err != nil {
			return fmt.Errorf("update complaint: %w", err)
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// FindAll lists complaints, newest first
func (r *GormComplaintRepository) FindAll(ctx context.Context) ([]*complaint.Complaint, error) {
	var ms []models.ComplaintModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("number DESC").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	complaints := make([]*complaint.Complaint, len(ms))
	for i := range ms {
		complaints[i] = ms[i].ToDomain()
	}
	return complaints, nil
}

// ExistsByNumber checks if a complaint number is taken
func (r *GormComplaintRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	return exists(ctx, r.db, &models.ComplaintModel{}, "number = ?", number)
}

var _ complaint.ComplaintRepository = (*GormComplaintRepository)(nil)
