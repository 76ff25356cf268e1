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

// OrderService serves the read side of the order ledger.
type OrderService struct {
	orders repository.OrderRepository
	logger *zap.Logger
}

func NewOrderService(orders repository.OrderRepository, logger *zap.Logger) *OrderService {
	return &OrderService{orders: orders, logger: logger}
}

type OrderListResponse struct {
	Orders []models.Order `json:"orders"`
	Meta   MetaData       `json:"meta"`
}

type MetaData struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalOrders int64 `json:"total_orders"`
	TotalPages  int64 `json:"total_pages"`
	HasMore     bool  `json:"has_more"`
}

// GetUserOrders retrieves paginated orders for the authenticated user.
func (s *OrderService) GetUserOrders(ctx context.Context, userID uuid.UUID, page, limit int) (*OrderListResponse, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: sign in to view your orders", ErrUnauthenticated)
	}

	orders, total, err := s.orders.FindByUserID(ctx, userID, page, limit)
	if err != nil {
		s.logger.Error("failed to fetch orders", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return &OrderListResponse{
		Orders: orders,
		Meta: MetaData{
			Page:        page,
			Limit:       limit,
			TotalOrders: total,
			TotalPages:  calculateTotalPages(total, limit),
			HasMore:     total > int64(page*limit),
		},
	}, nil
}

// GetOrderByID retrieves one order. A missing order and an order the caller
// may not see report the same NotFound, so order ids cannot be probed.
func (s *OrderService) GetOrderByID(ctx context.Context, userID uuid.UUID, perms models.Permissions, orderID uuid.UUID) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: sign in to view your orders", ErrUnauthenticated)
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, orderNotVisibleError(orderID)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if order.UserID != userID && !perms.HasAny(models.PermissionAdmin) {
		return nil, orderNotVisibleError(orderID)
	}
	return order, nil
}

func orderNotVisibleError(orderID uuid.UUID) error {
	return fmt.Errorf("%w: order %s cannot be found or you do not have permission to view it", ErrNotFound, orderID)
}

func calculateTotalPages(total int64, limit int) int64 {
	if limit == 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
