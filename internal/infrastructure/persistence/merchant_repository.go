package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
)

// GormMerchantRepository implements identity.MerchantRepository using GORM
type GormMerchantRepository struct {
	db *gorm.DB
}

// NewGormMerchantRepository creates a new GormMerchantRepository
func NewGormMerchantRepository(db *gorm.DB) *GormMerchantRepository {
	return &GormMerchantRepository{db: db}
}

// Create inserts a new merchant. A unique violation is reported as a
// duplicate email; the service checks email and phone separately first.
func (r *GormMerchantRepository) Create(ctx context.Context, m *identity.Merchant) error {
	if err := r.db.WithContext(ctx).Create(models.MerchantModelFromDomain(m)).Error; err != nil {
		if isDuplicateKey(err) {
			return identity.ErrDuplicateEmail
		}
		return fmt.Errorf("create merchant: %w", err)
	}
	return nil
}

// Update saves business details, verification flags and the session flag
func (r *GormMerchantRepository) Update(ctx context.Context, m *identity.Merchant) error {
	updates := map[string]any{
		"name":             m.Name,
		"business_name":    m.BusinessName,
		"business_address": m.BusinessAddress,
		"business_type":    m.BusinessType,
		"email_verified":   m.EmailVerified,
		"phone_verified":   m.PhoneVerified,
		"session_state":    m.SessionState,
		"updated_at":       m.UpdatedAt,
	}
	if m.Credential.Changed() {
		updates["password_hash"] = m.Credential.Hash()
	}

	result := r.db.WithContext(ctx).
		Model(&models.MerchantModel{}).
		Where("id = ?", m.ID).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("update merchant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return identity.ErrMerchantNotFound
	}
	return nil
}

// FindByID finds a merchant by seller id
func (r *GormMerchantRepository) FindByID(ctx context.Context, id string) (*identity.Merchant, error) {
	var m models.MerchantModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if isNotFound(err) {
			return nil, identity.ErrMerchantNotFound
		}
		return nil, fmt.Errorf("find merchant: %w", err)
	}
	return m.ToDomain(), nil
}

// ExistsByID checks if a seller id is taken
func (r *GormMerchantRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	return exists(ctx, r.db, &models.MerchantModel{}, "id = ?", id)
}

// ExistsByEmail checks if an email is registered
func (r *GormMerchantRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return exists(ctx, r.db, &models.MerchantModel{}, "email = ?", normalizeLookupEmail(email))
}

// ExistsByPhone checks if a phone number is registered
func (r *GormMerchantRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	return exists(ctx, r.db, &models.MerchantModel{}, "phone = ?", phone)
}

var _ identity.MerchantRepository = (*GormMerchantRepository)(nil)
