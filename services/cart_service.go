package services

import (
	"context"
	"errors"
	"fmt"

	"checkout-service/models"
	"checkout-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartService handles cart mutations ahead of checkout.
type CartService struct {
	carts  repository.CartRepository
	items  repository.ItemRepository
	logger *zap.Logger
}

func NewCartService(carts repository.CartRepository, items repository.ItemRepository, logger *zap.Logger) *CartService {
	return &CartService{carts: carts, items: items, logger: logger}
}

// AddItem puts an item in the user's cart. A repeat add bumps the quantity on
// the existing row; there is never more than one row per (user, item) pair.
func (s *CartService) AddItem(ctx context.Context, userID, itemID uuid.UUID) (*models.CartItem, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: sign in to add items to a cart", ErrUnauthenticated)
	}

	if _, err := s.items.FindByID(ctx, itemID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: item %s", ErrNotFound, itemID)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	existing, err := s.carts.FindByUserAndItem(ctx, userID, itemID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if existing != nil {
		if err := s.carts.UpdateQuantity(ctx, existing.ID, existing.Quantity+1); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		existing.Quantity++
		s.logger.Info("cart quantity bumped",
			zap.String("user_id", userID.String()),
			zap.String("item_id", itemID.String()),
			zap.Int("quantity", existing.Quantity),
		)
		return existing, nil
	}

	cartItem := &models.CartItem{
		UserID:   userID,
		ItemID:   itemID,
		Quantity: 1,
	}
	if err := s.carts.Create(ctx, cartItem); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.logger.Info("cart item added",
		zap.String("user_id", userID.String()),
		zap.String("item_id", itemID.String()),
	)
	return cartItem, nil
}

// RemoveItem deletes a cart row. Only the owner or an ADMIN capability holder
// may remove it.
func (s *CartService) RemoveItem(ctx context.Context, userID uuid.UUID, perms models.Permissions, cartItemID uuid.UUID) error {
	if userID == uuid.Nil {
		return fmt.Errorf("%w: sign in to modify a cart", ErrUnauthenticated)
	}

	cartItem, err := s.carts.FindByID(ctx, cartItemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: no cart item found to remove", ErrNotFound)
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if cartItem.UserID != userID && !perms.HasAny(models.PermissionAdmin) {
		return fmt.Errorf("%w: this is not your cart", ErrForbidden)
	}

	if err := s.carts.Delete(ctx, cartItemID); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// GetCart lists the user's cart with current item snapshots.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: sign in to view your cart", ErrUnauthenticated)
	}
	cart, err := s.carts.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return cart, nil
}
