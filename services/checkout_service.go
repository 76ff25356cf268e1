package services

import (
	"context"
	"fmt"
	"time"

	"checkout-service/models"
	"checkout-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReconcilePolicy selects how inventory is adjusted after a paid order.
type ReconcilePolicy string

const (
	// ReconcileDecrement subtracts the purchased quantity per item.
	ReconcileDecrement ReconcilePolicy = "decrement"
	// ReconcileMarkSold zeroes inventory for every purchased item. This is the
	// legacy storefront behavior, kept selectable for parity testing.
	ReconcileMarkSold ReconcilePolicy = "mark_sold"
)

// AlertPublisher emits reconciliation events for on-call tooling. Publishing
// is best-effort; the durable record is the ChargeReconciliation row.
type AlertPublisher interface {
	SendReconciliationAlert(evt models.ReconciliationEvent) error
}

// CheckoutService turns a cart into a charged, persisted order. Side effects
// are strictly ordered: nothing is mutated before the charge succeeds, and the
// order is written before inventory and cart cleanup.
type CheckoutService struct {
	carts   repository.CartRepository
	items   repository.ItemRepository
	orders  repository.OrderRepository
	recons  repository.ReconciliationRepository
	gateway PaymentGateway
	alerts  AlertPublisher
	policy  ReconcilePolicy
	logger  *zap.Logger
}

func NewCheckoutService(
	carts repository.CartRepository,
	items repository.ItemRepository,
	orders repository.OrderRepository,
	recons repository.ReconciliationRepository,
	gateway PaymentGateway,
	alerts AlertPublisher,
	policy ReconcilePolicy,
	logger *zap.Logger,
) *CheckoutService {
	if policy != ReconcileMarkSold {
		policy = ReconcileDecrement
	}
	return &CheckoutService{
		carts:   carts,
		items:   items,
		orders:  orders,
		recons:  recons,
		gateway: gateway,
		alerts:  alerts,
		policy:  policy,
		logger:  logger,
	}
}

// CreateOrder runs the checkout workflow for the given user and returns the
// persisted order.
func (s *CheckoutService) CreateOrder(ctx context.Context, userID uuid.UUID, req *models.CheckoutRequest) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: sign in to complete an order", ErrUnauthenticated)
	}

	cart, err := s.carts.LoadForCheckout(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: load cart: %v", ErrPersistence, err)
	}
	if len(cart) == 0 {
		return nil, fmt.Errorf("%w: nothing to checkout", ErrEmptyCart)
	}

	if err := s.checkInventory(ctx, cart); err != nil {
		return nil, err
	}

	// The charge amount is always recomputed here; a client-supplied total is
	// never trusted.
	amount := 0
	for _, line := range cart {
		amount += line.Item.Price * line.Quantity
	}

	charge, err := s.gateway.Charge(ctx, &ChargeRequest{
		Amount:      amount,
		Currency:    "USD",
		SourceToken: req.Token,
		Metadata:    req.Metadata(),
	})
	if err != nil {
		s.logger.Warn("charge failed",
			zap.String("user_id", userID.String()),
			zap.Int("amount", amount),
			zap.Error(err),
		)
		return nil, err
	}

	order := s.buildOrder(userID, cart, charge, req)
	if err := s.orders.Create(ctx, order); err != nil {
		// The critical failure: funds captured, no order row. Leave a durable
		// trail for manual refund/repair before surfacing the error.
		s.recordReconciliation(ctx, charge, userID, fmt.Sprintf("order persist failed: %v", err))
		return nil, fmt.Errorf("%w: order not persisted for charge %s", ErrPersistence, charge.ChargeID)
	}

	s.reconcileInventory(ctx, charge, userID, cart)
	s.clearCart(ctx, charge, userID, cart)

	s.logger.Info("checkout completed",
		zap.String("user_id", userID.String()),
		zap.String("order_id", order.ID.String()),
		zap.String("charge_id", charge.ChargeID),
		zap.Int("total", order.Total),
		zap.Int("line_items", len(order.OrderItems)),
	)
	return order, nil
}

// checkInventory validates availability for every distinct item in the cart
// with a single batched read. The first unavailable item in cart order decides
// the reported error.
func (s *CheckoutService) checkInventory(ctx context.Context, cart []models.CartItem) error {
	ids := make([]uuid.UUID, 0, len(cart))
	seen := make(map[uuid.UUID]struct{}, len(cart))
	for _, line := range cart {
		if _, ok := seen[line.ItemID]; ok {
			continue
		}
		seen[line.ItemID] = struct{}{}
		ids = append(ids, line.ItemID)
	}

	levels, err := s.items.LevelsByID(ctx, ids)
	if err != nil {
		return fmt.Errorf("%w: check inventory: %v", ErrPersistence, err)
	}

	for _, line := range cart {
		if levels[line.ItemID] < 1 {
			title := line.ItemID.String()
			if line.Item != nil {
				title = line.Item.Title
			}
			return fmt.Errorf("%w: %q is no longer available, please refresh and try again", ErrItemUnavailable, title)
		}
	}
	return nil
}

// buildOrder snapshots the cart into an order. Line items get fresh identity
// and carry no reference back to the live catalog rows.
func (s *CheckoutService) buildOrder(userID uuid.UUID, cart []models.CartItem, charge *models.ChargeResult, req *models.CheckoutRequest) *models.Order {
	lineItems := make([]models.OrderItem, 0, len(cart))
	for _, line := range cart {
		lineItems = append(lineItems, models.OrderItem{
			ID:          uuid.New(),
			Title:       line.Item.Title,
			Description: line.Item.Description,
			Image:       line.Item.Image,
			Price:       line.Item.Price,
			Quantity:    line.Quantity,
		})
	}

	return &models.Order{
		UserID: userID,
		Total:  charge.AmountCharged,
		Charge: charge.ChargeID,

		BillingAddressCity:        req.BillingAddressCity,
		BillingAddressCountry:     req.BillingAddressCountry,
		BillingAddressCountryCode: req.BillingAddressCountryCode,
		BillingAddressLine1:       req.BillingAddressLine1,
		BillingAddressState:       req.BillingAddressState,
		BillingAddressZip:         req.BillingAddressZip,
		BillingName:               req.BillingName,

		ShippingAddressCity:        req.ShippingAddressCity,
		ShippingAddressCountry:     req.ShippingAddressCountry,
		ShippingAddressCountryCode: req.ShippingAddressCountryCode,
		ShippingAddressLine1:       req.ShippingAddressLine1,
		ShippingAddressState:       req.ShippingAddressState,
		ShippingAddressZip:         req.ShippingAddressZip,
		ShippingName:               req.ShippingName,

		OrderItems: lineItems,
	}
}

// reconcileInventory applies the configured policy to every purchased item.
// The order is already durable, so a failure here is not returned to the
// caller; it is recorded for manual review instead.
func (s *CheckoutService) reconcileInventory(ctx context.Context, charge *models.ChargeResult, userID uuid.UUID, cart []models.CartItem) {
	var err error
	switch s.policy {
	case ReconcileMarkSold:
		ids := make([]uuid.UUID, 0, len(cart))
		for _, line := range cart {
			ids = append(ids, line.ItemID)
		}
		err = s.items.MarkSoldOut(ctx, ids)
	default:
		quantities := make(map[uuid.UUID]int, len(cart))
		for _, line := range cart {
			quantities[line.ItemID] += line.Quantity
		}
		err = s.items.DecrementLevels(ctx, quantities)
	}
	if err != nil {
		s.recordReconciliation(ctx, charge, userID, fmt.Sprintf("inventory reconcile failed: %v", err))
	}
}

// clearCart bulk-deletes the cart rows loaded at the start of checkout.
// Deleting an already-absent row is a no-op.
func (s *CheckoutService) clearCart(ctx context.Context, charge *models.ChargeResult, userID uuid.UUID, cart []models.CartItem) {
	ids := make([]uuid.UUID, 0, len(cart))
	for _, line := range cart {
		ids = append(ids, line.ID)
	}
	if err := s.carts.DeleteByIDs(ctx, ids); err != nil {
		s.recordReconciliation(ctx, charge, userID, fmt.Sprintf("cart clear failed: %v", err))
	}
}

// recordReconciliation leaves a durable manual-review record for a charge
// whose follow-up work failed, and emits a best-effort alert event.
func (s *CheckoutService) recordReconciliation(ctx context.Context, charge *models.ChargeResult, userID uuid.UUID, reason string) {
	s.logger.Error("charge needs manual reconciliation",
		zap.String("charge_id", charge.ChargeID),
		zap.String("user_id", userID.String()),
		zap.Int("amount", charge.AmountCharged),
		zap.String("reason", reason),
	)

	rec := &models.ChargeReconciliation{
		ChargeID: charge.ChargeID,
		UserID:   userID,
		Amount:   charge.AmountCharged,
		Reason:   reason,
		Status:   models.ReconciliationOpen,
	}
	if err := s.recons.Create(ctx, rec); err != nil {
		s.logger.Error("failed to write reconciliation record",
			zap.String("charge_id", charge.ChargeID),
			zap.Error(err),
		)
	}

	if s.alerts != nil {
		evt := models.ReconciliationEvent{
			Event:     "checkout.reconcile",
			ChargeID:  charge.ChargeID,
			UserID:    userID.String(),
			Amount:    charge.AmountCharged,
			Reason:    reason,
			Timestamp: time.Now().UTC(),
		}
		if err := s.alerts.SendReconciliationAlert(evt); err != nil {
			s.logger.Warn("failed to publish reconciliation alert",
				zap.String("charge_id", charge.ChargeID),
				zap.Error(err),
			)
		}
	}
}
