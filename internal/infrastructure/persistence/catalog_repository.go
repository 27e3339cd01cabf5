package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
)

// GormItemRepository implements catalog.ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// Create inserts a catalog item
func (r *GormItemRepository) Create(ctx context.Context, item *catalog.Item) error {
	if err := r.db.WithContext(ctx).Create(models.CatalogItemModelFromDomain(item)).Error; err != nil {
		if isDuplicateKey(err) {
			return catalog.ErrDuplicateItem
		}
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

// Update overwrites every mutable column of an item
func (r *GormItemRepository) Update(ctx context.Context, item *catalog.Item) error {
	m := models.CatalogItemModelFromDomain(item)
	result := r.db.WithContext(ctx).
		Model(&models.CatalogItemModel{}).
		Where("id = ?", item.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(m)
	if result.Error != nil {
		return fmt.Errorf("update item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return catalog.ErrItemNotFound
	}
	return nil
}

// FindByID finds an item regardless of visibility
func (r *GormItemRepository) FindByID(ctx context.Context, id string) (*catalog.Item, error) {
	var m models.CatalogItemModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if isNotFound(err) {
			return nil, catalog.ErrItemNotFound
		}
		return nil, fmt.Errorf("find item: %w", err)
	}
	return m.ToDomain(), nil
}

// FindByIDs resolves a batch of ids in one query. Unknown ids are skipped.
func (r *GormItemRepository) FindByIDs(ctx context.Context, ids []string) ([]*catalog.Item, error) {
	if len(ids) == 0 {
		return []*catalog.Item{}, nil
	}
	var ms []models.CatalogItemModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("find items: %w", err)
	}
	return toItems(ms), nil
}

// FindAll lists items matching the filter ordered by name
func (r *GormItemRepository) FindAll(ctx context.Context, filter catalog.ItemFilter) ([]*catalog.Item, error) {
	query := r.db.WithContext(ctx).Model(&models.CatalogItemModel{})
	if filter.VisibleOnly {
		query = query.Where("visibility = ?", catalog.VisibilityOn)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Featured != nil {
		query = query.Where("featured = ?", *filter.Featured)
	}

	var ms []models.CatalogItemModel
	if err := query.Order("name ASC").Order("id ASC").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return toItems(ms), nil
}

// ExistsByID checks if an item id is taken
func (r *GormItemRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	return exists(ctx, r.db, &models.CatalogItemModel{}, "id = ?", id)
}

func toItems(ms []models.CatalogItemModel) []*catalog.Item {
	items := make([]*catalog.Item, len(ms))
	for i := range ms {
		items[i] = ms[i].ToDomain()
	}
	return items
}

var _ catalog.ItemRepository = (*GormItemRepository)(nil)
