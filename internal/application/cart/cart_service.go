package cart

import (
	"context"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/infrastructure/logger"
)

// CartService manages the caller's cart. Every mutation runs through
// CartRepository.Mutate so it is applied under a row lock.
type CartService struct {
	carts  cart.CartRepository
	items  catalog.ItemRepository
	logger *zap.Logger
}

// NewCartService creates a new CartService
func NewCartService(carts cart.CartRepository, items catalog.ItemRepository, l *zap.Logger) *CartService {
	return &CartService{carts: carts, items: items, logger: l}
}

// AddItem appends a line, creating the cart on first use. Re-adding an item
// already in the cart adds another line.
func (s *CartService) AddItem(ctx context.Context, shopperID string, req AddItemRequest) (*CartResponse, error) {
	exists, err := s.items.ExistsByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, catalog.ErrItemNotFound
	}

	var added cart.Line
	c, err := s.carts.Mutate(ctx, shopperID, true, func(c *cart.Cart) error {
		line, err := c.AddLine(req.ItemID, req.Quantity)
		added = line
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Enrich(ctx, s.logger).Debug("cart line added",
		zap.String("shopper_id", shopperID),
		zap.String("item_id", added.ItemID),
		zap.Int("quantity", added.Quantity),
		zap.Int("lines", len(c.Lines)),
	)
	return ToCartResponse(c), nil
}

// UpdateQuantity overwrites the quantity of the first line holding itemID
func (s *CartService) UpdateQuantity(ctx context.Context, shopperID, itemID string, req UpdateQuantityRequest) (*CartResponse, error) {
	c, err := s.carts.Mutate(ctx, shopperID, false, func(c *cart.Cart) error {
		return c.UpdateQuantity(itemID, req.Quantity)
	})
	if err != nil {
		return nil, err
	}
	return ToCartResponse(c), nil
}

// RemoveItem drops every line holding itemID
func (s *CartService) RemoveItem(ctx context.Context, shopperID, itemID string) (*CartResponse, error) {
	c, err := s.carts.Mutate(ctx, shopperID, false, func(c *cart.Cart) error {
		return c.RemoveItem(itemID)
	})
	if err != nil {
		return nil, err
	}
	return ToCartResponse(c), nil
}

// GetCart returns the caller's cart or cart.ErrCartNotFound
func (s *CartService) GetCart(ctx context.Context, shopperID string) (*CartResponse, error) {
	c, err := s.carts.FindByShopperID(ctx, shopperID)
	if err != nil {
		return nil, err
	}
	return ToCartResponse(c), nil
}
