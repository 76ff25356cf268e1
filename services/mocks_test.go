package services

import (
	"context"

	"checkout-service/models"
	"checkout-service/repository"

	"github.com/google/uuid"
)

// ---- mock cart repository ----

type mockCartRepo struct {
	cart    []models.CartItem
	loadErr error

	created     []*models.CartItem
	createErr   error
	updatedID   uuid.UUID
	updatedQty  int
	updateErr   error
	deletedID   uuid.UUID
	deleteErr   error
	deletedSets [][]uuid.UUID
	bulkErr     error
}

func (m *mockCartRepo) FindByID(_ context.Context, id uuid.UUID) (*models.CartItem, error) {
	for i := range m.cart {
		if m.cart[i].ID == id {
			return &m.cart[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockCartRepo) FindByUserAndItem(_ context.Context, userID, itemID uuid.UUID) (*models.CartItem, error) {
	for i := range m.cart {
		if m.cart[i].UserID == userID && m.cart[i].ItemID == itemID {
			return &m.cart[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockCartRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	var out []models.CartItem
	for _, line := range m.cart {
		if line.UserID == userID {
			out = append(out, line)
		}
	}
	return out, nil
}

func (m *mockCartRepo) Create(_ context.Context, item *models.CartItem) error {
	if m.createErr != nil {
		return m.createErr
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	m.created = append(m.created, item)
	m.cart = append(m.cart, *item)
	return nil
}

func (m *mockCartRepo) UpdateQuantity(_ context.Context, id uuid.UUID, quantity int) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updatedID = id
	m.updatedQty = quantity
	for i := range m.cart {
		if m.cart[i].ID == id {
			m.cart[i].Quantity = quantity
		}
	}
	return nil
}

func (m *mockCartRepo) Delete(_ context.Context, id uuid.UUID) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedID = id
	return nil
}

func (m *mockCartRepo) LoadForCheckout(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	return m.FindByUserID(ctx, userID)
}

func (m *mockCartRepo) DeleteByIDs(_ context.Context, ids []uuid.UUID) error {
	if m.bulkErr != nil {
		return m.bulkErr
	}
	m.deletedSets = append(m.deletedSets, ids)
	remaining := m.cart[:0]
	for _, line := range m.cart {
		keep := true
		for _, id := range ids {
			if line.ID == id {
				keep = false
				break
			}
		}
		if keep {
			remaining = append(remaining, line)
		}
	}
	m.cart = remaining
	return nil
}

// ---- mock item repository / inventory ledger ----

type mockItemRepo struct {
	items     map[uuid.UUID]*models.Item
	levelsErr error

	markedSoldOut []uuid.UUID
	markErr       error
	decremented   map[uuid.UUID]int
	decrementErr  error
}

func (m *mockItemRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Item, error) {
	if item, ok := m.items[id]; ok {
		return item, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockItemRepo) LevelsByID(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	if m.levelsErr != nil {
		return nil, m.levelsErr
	}
	levels := make(map[uuid.UUID]int, len(ids))
	for _, id := range ids {
		if item, ok := m.items[id]; ok {
			levels[id] = item.InventoryLevel
		}
	}
	return levels, nil
}

func (m *mockItemRepo) MarkSoldOut(_ context.Context, ids []uuid.UUID) error {
	if m.markErr != nil {
		return m.markErr
	}
	m.markedSoldOut = append(m.markedSoldOut, ids...)
	for _, id := range ids {
		if item, ok := m.items[id]; ok {
			item.InventoryLevel = 0
		}
	}
	return nil
}

func (m *mockItemRepo) DecrementLevels(_ context.Context, quantities map[uuid.UUID]int) error {
	if m.decrementErr != nil {
		return m.decrementErr
	}
	if m.decremented == nil {
		m.decremented = make(map[uuid.UUID]int)
	}
	for id, qty := range quantities {
		m.decremented[id] += qty
		if item, ok := m.items[id]; ok {
			item.InventoryLevel -= qty
			if item.InventoryLevel < 0 {
				item.InventoryLevel = 0
			}
		}
	}
	return nil
}

// ---- mock order repository ----

type mockOrderRepo struct {
	created   []*models.Order
	createErr error

	orders      []models.Order
	findByIDErr error
}

func (m *mockOrderRepo) Create(_ context.Context, order *models.Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	m.created = append(m.created, order)
	m.orders = append(m.orders, *order)
	return nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	if m.findByIDErr != nil {
		return nil, m.findByIDErr
	}
	for i := range m.orders {
		if m.orders[i].ID == id {
			return &m.orders[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockOrderRepo) FindByUserID(_ context.Context, userID uuid.UUID, _, _ int) ([]models.Order, int64, error) {
	var out []models.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, int64(len(out)), nil
}

// ---- mock reconciliation repository ----

type mockReconRepo struct {
	records   []*models.ChargeReconciliation
	createErr error
}

func (m *mockReconRepo) Create(_ context.Context, rec *models.ChargeReconciliation) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *mockReconRepo) ListOpen(_ context.Context) ([]models.ChargeReconciliation, error) {
	var out []models.ChargeReconciliation
	for _, r := range m.records {
		out = append(out, *r)
	}
	return out, nil
}

// ---- mock payment gateway ----

type mockGateway struct {
	result    *models.ChargeResult
	err       error
	requests  []*ChargeRequest
	callCount int
}

func (m *mockGateway) Charge(_ context.Context, req *ChargeRequest) (*models.ChargeResult, error) {
	m.callCount++
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// ---- mock alert publisher ----

type mockAlerts struct {
	events     []models.ReconciliationEvent
	publishErr error
}

func (m *mockAlerts) SendReconciliationAlert(evt models.ReconciliationEvent) error {
	m.events = append(m.events, evt)
	return m.publishErr
}
