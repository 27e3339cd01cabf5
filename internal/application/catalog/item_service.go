package catalog

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
)

// ErrInvalidImage is returned for uploads that are not a supported image type
var ErrInvalidImage = shared.NewDomainError("INVALID_IMAGE", "Image must be a JPEG, PNG, GIF or WebP file")

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ItemService handles catalog browsing and merchant item management
type ItemService struct {
	items   catalog.ItemRepository
	storage ObjectStorage
	logger  *zap.Logger
}

// NewItemService creates a new ItemService. storage may be nil, in which
// case image uploads are rejected and stored keys are returned unresolved.
func NewItemService(items catalog.ItemRepository, storage ObjectStorage, l *zap.Logger) *ItemService {
	return &ItemService{items: items, storage: storage, logger: l}
}

// List returns visible items ordered by name
func (s *ItemService) List(ctx context.Context, q ListItemsQuery) ([]ItemResponse, error) {
	items, err := s.items.FindAll(ctx, catalog.ItemFilter{
		Category:    strings.TrimSpace(q.Category),
		Featured:    q.Featured,
		VisibleOnly: true,
	})
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, items), nil
}

// ListFeatured returns visible featured items
func (s *ItemService) ListFeatured(ctx context.Context) ([]ItemResponse, error) {
	featured := true
	return s.List(ctx, ListItemsQuery{Featured: &featured})
}

// Get returns a visible item. Hidden items are reported as not found.
func (s *ItemService) Get(ctx context.Context, id string) (*ItemResponse, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !item.IsVisible() {
		return nil, catalog.ErrItemNotFound
	}
	resp := ToItemResponse(item, s.imageURL(ctx, item))
	return &resp, nil
}

// Create lists a new item owned by merchantID
func (s *ItemService) Create(ctx context.Context, merchantID string, req CreateItemRequest) (*ItemResponse, error) {
	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = uuid.New().String()
	}
	exists, err := s.items.ExistsByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, catalog.ErrDuplicateItem
	}
	if req.Price == nil {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price is required")
	}

	item, err := catalog.NewItem(id, req.Name, *req.Price, req.Category)
	if err != nil {
		return nil, err
	}
	item.MerchantID = merchantID
	item.Featured = req.Featured
	if req.InStock != nil {
		if err := item.Apply(catalog.ItemPatch{InStock: req.InStock}); err != nil {
			return nil, err
		}
	}
	if req.Image != "" {
		item.SetImage(req.Image)
	}

	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}
	resp := ToItemResponse(item, s.imageURL(ctx, item))
	return &resp, nil
}

// Update applies a patch to an item owned by merchantID
func (s *ItemService) Update(ctx context.Context, merchantID, id string, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.ownedItem(ctx, merchantID, id)
	if err != nil {
		return nil, err
	}
	if err := item.Apply(req.patch()); err != nil {
		return nil, err
	}
	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	resp := ToItemResponse(item, s.imageURL(ctx, item))
	return &resp, nil
}

// UploadImage stores a new image for the item and points the item at it.
// The previously stored image, if any, is deleted afterwards.
func (s *ItemService) UploadImage(ctx context.Context, merchantID, id string, img ImageUpload) (*ItemResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_DISABLED", "Image uploads are not enabled")
	}
	ext, ok := imageExtensions[img.ContentType]
	if !ok || img.Size <= 0 {
		return nil, ErrInvalidImage
	}

	item, err := s.ownedItem(ctx, merchantID, id)
	if err != nil {
		return nil, err
	}

	key := path.Join("items", item.ID, uuid.New().String()+ext)
	if err := s.storage.PutObject(ctx, key, img.Body, img.Size, img.ContentType); err != nil {
		return nil, fmt.Errorf("store item image: %w", err)
	}

	previous := ""
	if item.HasStoredImage() {
		previous = item.Image
	}
	item.SetImage(key)
	if err := s.items.Update(ctx, item); err != nil {
		s.discard(ctx, key)
		return nil, err
	}
	if previous != "" {
		s.discard(ctx, previous)
	}

	resp := ToItemResponse(item, s.imageURL(ctx, item))
	return &resp, nil
}

func (s *ItemService) ownedItem(ctx context.Context, merchantID, id string) (*catalog.Item, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !item.OwnedBy(merchantID) {
		return nil, catalog.ErrNotItemOwner
	}
	return item, nil
}

func (s *ItemService) discard(ctx context.Context, key string) {
	if err := s.storage.DeleteObject(ctx, key); err != nil {
		logger.Enrich(ctx, s.logger).Warn("failed to delete item image",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// imageURL resolves stored object keys to presigned URLs. Absolute URLs
// pass through unchanged.
func (s *ItemService) imageURL(ctx context.Context, item *catalog.Item) string {
	if !item.HasStoredImage() || s.storage == nil {
		return item.Image
	}
	url, err := s.storage.PresignGet(ctx, item.Image)
	if err != nil {
		logger.Enrich(ctx, s.logger).Warn("failed to presign item image",
			zap.String("item_id", item.ID),
			zap.Error(err),
		)
		return ""
	}
	return url
}

func (s *ItemService) toResponses(ctx context.Context, items []*catalog.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i, item := range items {
		out[i] = ToItemResponse(item, s.imageURL(ctx, item))
	}
	return out
}
