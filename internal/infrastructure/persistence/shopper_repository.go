package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
)

// GormShopperRepository implements identity.ShopperRepository using GORM
type GormShopperRepository struct {
	db *gorm.DB
}

// NewGormShopperRepository creates a new GormShopperRepository
func NewGormShopperRepository(db *gorm.DB) *GormShopperRepository {
	return &GormShopperRepository{db: db}
}

// Create inserts a new shopper
func (r *GormShopperRepository) Create(ctx context.Context, s *identity.Shopper) error {
	if err := r.db.WithContext(ctx).Create(models.ShopperModelFromDomain(s)).Error; err != nil {
		if isDuplicateKey(err) {
			return identity.ErrDuplicateEmail
		}
		return fmt.Errorf("create shopper: %w", err)
	}
	return nil
}

// Update saves the profile and status. The password hash column is written
// only when the credential changed since the shopper was loaded.
func (r *GormShopperRepository) Update(ctx context.Context, s *identity.Shopper) error {
	updates := map[string]any{
		"name":           s.Name,
		"phone":          s.Phone,
		"account_status": s.Status,
		"updated_at":     s.UpdatedAt,
	}
	if s.Credential.Changed() {
		updates["password_hash"] = s.Credential.Hash()
	}

	result := r.db.WithContext(ctx).
		Model(&models.ShopperModel{}).
		Where("id = ?", s.ID).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("update shopper: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return identity.ErrUserNotFound
	}
	return nil
}

// FindByID finds a shopper by id
func (r *GormShopperRepository) FindByID(ctx context.Context, id string) (*identity.Shopper, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByEmail finds a shopper by email (stored lower-case)
func (r *GormShopperRepository) FindByEmail(ctx context.Context, email string) (*identity.Shopper, error) {
	return r.findOne(ctx, "email = ?", normalizeLookupEmail(email))
}

func (r *GormShopperRepository) findOne(ctx context.Context, query string, arg any) (*identity.Shopper, error) {
	var m models.ShopperModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&m).Error; err != nil {
		if isNotFound(err) {
			return nil, identity.ErrUserNotFound
		}
		return nil, fmt.Errorf("find shopper: %w", err)
	}
	return m.ToDomain(), nil
}

// ExistsByID checks if a shopper id is taken
func (r *GormShopperRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	return exists(ctx, r.db, &models.ShopperModel{}, "id = ?", id)
}

// ExistsByEmail checks if an email is registered
func (r *GormShopperRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return exists(ctx, r.db, &models.ShopperModel{}, "email = ?", normalizeLookupEmail(email))
}

// FindAllContacts returns the name and email of every shopper, oldest first
func (r *GormShopperRepository) FindAllContacts(ctx context.Context) ([]identity.Contact, error) {
	var contacts []identity.Contact
	err := r.db.WithContext(ctx).
		Model(&models.ShopperModel{}).
		Select("name", "email").
		Order("created_at ASC").
		Scan(&contacts).Error
	if err != nil {
		return nil, fmt.Errorf("list shopper contacts: %w", err)
	}
	return contacts, nil
}

// Ensure GormShopperRepository implements identity.ShopperRepository
var _ identity.ShopperRepository = (*GormShopperRepository)(nil)
