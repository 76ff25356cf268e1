package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"checkout-service/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type checkoutFixture struct {
	userID uuid.UUID
	itemA  *models.Item
	itemB  *models.Item
	carts  *mockCartRepo
	items  *mockItemRepo
	orders *mockOrderRepo
	recons *mockReconRepo
	gw     *mockGateway
	alerts *mockAlerts
}

// newCheckoutFixture builds the two-item cart from the end-to-end scenario:
// item A (1200) and item B (800), one of each, both with stock 3.
func newCheckoutFixture() *checkoutFixture {
	userID := uuid.New()
	itemA := &models.Item{ID: uuid.New(), Title: "Walnut bowl", Price: 1200, InventoryLevel: 3}
	itemB := &models.Item{ID: uuid.New(), Title: "Oak spoon", Price: 800, InventoryLevel: 3}

	carts := &mockCartRepo{
		cart: []models.CartItem{
			{ID: uuid.New(), UserID: userID, ItemID: itemA.ID, Quantity: 1, Item: itemA},
			{ID: uuid.New(), UserID: userID, ItemID: itemB.ID, Quantity: 1, Item: itemB},
		},
	}
	items := &mockItemRepo{items: map[uuid.UUID]*models.Item{itemA.ID: itemA, itemB.ID: itemB}}

	return &checkoutFixture{
		userID: userID,
		itemA:  itemA,
		itemB:  itemB,
		carts:  carts,
		items:  items,
		orders: &mockOrderRepo{},
		recons: &mockReconRepo{},
		gw:     &mockGateway{result: &models.ChargeResult{ChargeID: "ch_test_1", AmountCharged: 2000, Currency: "usd", Status: "succeeded"}},
		alerts: &mockAlerts{},
	}
}

func (f *checkoutFixture) service(policy ReconcilePolicy) *CheckoutService {
	return NewCheckoutService(f.carts, f.items, f.orders, f.recons, f.gw, f.alerts, policy, zap.NewNop())
}

func checkoutRequest() *models.CheckoutRequest {
	return &models.CheckoutRequest{
		Token:              "tok_visa",
		BillingName:        "Ada Craft",
		BillingAddressCity: "Portland",
		ShippingName:       "Ada Craft",
	}
}

func TestCreateOrder_Success(t *testing.T) {
	f := newCheckoutFixture()
	svc := f.service(ReconcileDecrement)

	order, err := svc.CreateOrder(context.Background(), f.userID, checkoutRequest())
	require.NoError(t, err)
	require.NotNil(t, order)

	// charged exactly the cart total, computed server-side
	require.Len(t, f.gw.requests, 1)
	assert.Equal(t, 2000, f.gw.requests[0].Amount)
	assert.Equal(t, "USD", f.gw.requests[0].Currency)
	assert.Equal(t, "tok_visa", f.gw.requests[0].SourceToken)
	assert.Equal(t, "Portland", f.gw.requests[0].Metadata["billing_address_city"])

	// order mirrors the charge, not the request
	assert.Equal(t, 2000, order.Total)
	assert.Equal(t, "ch_test_1", order.Charge)
	assert.Equal(t, f.userID, order.UserID)
	require.Len(t, order.OrderItems, 2)

	// line items are snapshots with fresh identity
	assert.Equal(t, "Walnut bowl", order.OrderItems[0].Title)
	assert.Equal(t, 1200, order.OrderItems[0].Price)
	assert.NotEqual(t, f.itemA.ID, order.OrderItems[0].ID)
	assert.NotEqual(t, uuid.Nil, order.OrderItems[0].ID)

	// inventory decremented by purchased quantity
	assert.Equal(t, 1, f.items.decremented[f.itemA.ID])
	assert.Equal(t, 1, f.items.decremented[f.itemB.ID])
	assert.Equal(t, 2, f.itemA.InventoryLevel)
	assert.Empty(t, f.items.markedSoldOut)

	// cart cleared
	require.Len(t, f.carts.deletedSets, 1)
	assert.Len(t, f.carts.deletedSets[0], 2)
	remaining, _ := f.carts.FindByUserID(context.Background(), f.userID)
	assert.Empty(t, remaining)

	// clean checkout leaves no reconciliation trail
	assert.Empty(t, f.recons.records)
	assert.Empty(t, f.alerts.events)
}

func TestCreateOrder_MarkSoldPolicy(t *testing.T) {
	f := newCheckoutFixture()
	svc := f.service(ReconcileMarkSold)

	_, err := svc.CreateOrder(context.Background(), f.userID, checkoutRequest())
	require.NoError(t, err)

	assert.ElementsMatch(t, []uuid.UUID{f.itemA.ID, f.itemB.ID}, f.items.markedSoldOut)
	assert.Equal(t, 0, f.itemA.InventoryLevel)
	assert.Equal(t, 0, f.itemB.InventoryLevel)
	assert.Empty(t, f.items.decremented)
}

func TestCreateOrder_Unauthenticated(t *testing.T) {
	f := newCheckoutFixture()
	svc := f.service(ReconcileDecrement)

	_, err := svc.CreateOrder(context.Background(), uuid.Nil, checkoutRequest())
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Zero(t, f.gw.callCount)
}

func TestCreateOrder_EmptyCart(t *testing.T) {
	f := newCheckoutFixture()
	f.carts.cart = nil
	svc := f.service(ReconcileDecrement)

	_, err := svc.CreateOrder(context.Background(), f.userID, checkoutRequest())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, f.gw.callCount)
}

func TestCreateOrder_ItemUnavailable(t *testing.T) {
	f := newCheckoutFixture()
	f.itemB.InventoryLevel = 0
	svc := f.service(ReconcileDecrement)

	_, err := svc.CreateOrder(context.Background(), f.userID, checkoutRequest())
	require.ErrorIs(t, err, ErrItemUnavailable)
	assert.Contains(t, err.Error(), "Oak spoon")

	// no charge attempted, nothing mutated
	assert.Zero(t, f.gw.callCount)
	assert.Empty(t, f.orders.created)
	assert.Empty(t, f.items.decremented)
	assert.Empty(t, f.carts.deletedSets)
}

func TestCreateOrder_FailFastReportsFirstUnavailableItem(t *testing.T) {
	f := newCheckoutFixture()
	f.itemA.InventoryLevel = 0
	f.itemB.InventoryLevel = 0
	svc := f.service(ReconcileDecrement)

	_, err := svc.CreateOrder(context.Background(), f.userID, checkoutRequest())
	require.ErrorIs(t, err, ErrItemUnavailable)
	// item A comes first in cart order, so it decides the error
	assert.Contains(t, err.Error(), "Walnut bowl")
	assert.NotContains(t, err.Error(), "Oak spoon")
}

func TestCreateOrder_PaymentDeclinedLeavesLedgersUntouched(t *testing.T) {
	f := newCheckoutFixture()
	// decline scenario from the 5000-cent cart variant
	f.itemA.Price = 5000
	f.carts.cart = f.carts.cart[:1]
	f.gw.result = nil
	f.gw.err = fmt.Errorf("%w: your card was declined", ErrPaymentDeclined)
	svc := f.service(ReconcileDecrement)

	_, err := svc.CreateOrder(context.Background(), f.userID, checkoutRequest())
	require.ErrorIs(t, err, ErrPaymentDeclined)

	assert.Equal(t, 1, f.gw.callCount)
	assert.Equal(t, 5000, f.gw.requests[0].Amount)
	assert.Empty(t, f.orders.created)
	assert.Empty(t, f.items.decremented)
	assert.Equal(t, 3, f.itemA.InventoryLevel)
	assert.Empty(t, f.carts.deletedSets)
	assert.Len(t, f.carts.cart, 1)
}

func TestCreateOrder_AmbiguousPaymentNotRetried(t *testing.T) {
	f := newCheckoutFixture()
	f.gw.err = fmt.Errorf("%w: context deadline exceeded", ErrPaymentAmbiguous)
	svc := f.service(ReconcileDecrement)

	_, err := svc.CreateOrder(context.Background(), f.userID, checkoutRequest())
	require.ErrorIs(t, err, ErrPaymentAmbiguous)
	assert.NotErrorIs(t, err, ErrPaymentGateway)

	// exactly one attempt; retrying an unknown outcome risks double billing
	assert.Equal(t, 1, f.gw.callCount)
	assert.Empty(t, f.orders.created)
	assert.Empty(t, f.carts.deletedSets)
}

func TestCreateOrder_PersistFailureRecordsReconciliation(t *testing.T) {
	f := newCheckoutFixture()
	f.orders.createErr = errors.New("connection reset")
	svc := f.service(ReconcileDecrement)

	_, err := svc.CreateOrder(context.Background(), f.userID, checkoutRequest())
	require.ErrorIs(t, err, ErrPersistence)
	assert.Contains(t, err.Error(), "ch_test_1")

	// charged but unpersisted: durable review record plus alert event
	require.Len(t, f.recons.records, 1)
	assert.Equal(t, "ch_test_1", f.recons.records[0].ChargeID)
	assert.Equal(t, 2000, f.recons.records[0].Amount)
	assert.Equal(t, models.ReconciliationOpen, f.recons.records[0].Status)
	require.Len(t, f.alerts.events, 1)
	assert.Equal(t, "checkout.reconcile", f.alerts.events[0].Event)

	// cleanup never ran: inventory and cart are untouched
	assert.Empty(t, f.items.decremented)
	assert.Empty(t, f.carts.deletedSets)
}

func TestCreateOrder_ReconcileFailureStillReturnsOrder(t *testing.T) {
	f := newCheckoutFixture()
	f.items.decrementErr = errors.New("deadlock detected")
	svc := f.service(ReconcileDecrement)

	order, err := svc.CreateOrder(context.Background(), f.userID, checkoutRequest())
	require.NoError(t, err)
	require.NotNil(t, order)

	// order is durable; the failed cleanup becomes a review record
	require.Len(t, f.recons.records, 1)
	assert.Contains(t, f.recons.records[0].Reason, "inventory reconcile failed")
	// cart clearing still proceeded
	assert.Len(t, f.carts.deletedSets, 1)
}

func TestCreateOrder_CartClearFailureStillReturnsOrder(t *testing.T) {
	f := newCheckoutFixture()
	f.carts.bulkErr = errors.New("connection reset")
	svc := f.service(ReconcileDecrement)

	order, err := svc.CreateOrder(context.Background(), f.userID, checkoutRequest())
	require.NoError(t, err)
	require.NotNil(t, order)

	require.Len(t, f.recons.records, 1)
	assert.Contains(t, f.recons.records[0].Reason, "cart clear failed")
}

func TestCreateOrder_AlertPublishFailureIsBestEffort(t *testing.T) {
	f := newCheckoutFixture()
	f.orders.createErr = errors.New("connection reset")
	f.alerts.publishErr = errors.New("broker unreachable")
	svc := f.service(ReconcileDecrement)

	_, err := svc.CreateOrder(context.Background(), f.userID, checkoutRequest())
	require.ErrorIs(t, err, ErrPersistence)
	// the durable record is still written even when the alert cannot be sent
	assert.Len(t, f.recons.records, 1)
}

func TestCreateOrder_CartClearIsIdempotent(t *testing.T) {
	f := newCheckoutFixture()
	svc := f.service(ReconcileDecrement)

	_, err := svc.CreateOrder(context.Background(), f.userID, checkoutRequest())
	require.NoError(t, err)
	require.Len(t, f.carts.deletedSets, 1)

	// replaying the delete with the same id set is a no-op: no error, and the
	// cart stays empty
	require.NoError(t, f.carts.DeleteByIDs(context.Background(), f.carts.deletedSets[0]))
	remaining, err := f.carts.FindByUserID(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestCreateOrder_MultiUnitQuantitiesSumIntoTotal(t *testing.T) {
	f := newCheckoutFixture()
	f.carts.cart[0].Quantity = 2
	f.gw.result = &models.ChargeResult{ChargeID: "ch_test_2", AmountCharged: 3200, Currency: "usd", Status: "succeeded"}
	svc := f.service(ReconcileDecrement)

	order, err := svc.CreateOrder(context.Background(), f.userID, checkoutRequest())
	require.NoError(t, err)

	assert.Equal(t, 3200, f.gw.requests[0].Amount) // 2×1200 + 1×800
	assert.Equal(t, 3200, order.Total)
	assert.Equal(t, 2, order.OrderItems[0].Quantity)
	assert.Equal(t, 2, f.items.decremented[f.itemA.ID])
	assert.Equal(t, 1, f.items.decremented[f.itemB.ID])
}
