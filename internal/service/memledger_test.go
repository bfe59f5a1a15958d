package service

import (
	"context"
	"sync"
	"time"

	"inventory-service/internal/inventory"
	"inventory-service/internal/models"
)

// memLedger is an in-memory inventory.Ledger with real transaction
// semantics: WithTx runs fn against a deep copy of the state and swaps the
// copy in only when fn succeeds, so a returned error discards every staged
// mutation exactly like a database rollback.
type memLedger struct {
	mu    sync.Mutex
	state *memState
}

type memState struct {
	customers map[string]*models.Customer
	products  map[string]*models.Product
	orders    map[string]*models.Order
	items     map[string][]models.OrderItem
	movements []models.InventoryMovement
}

func newMemLedger() *memLedger {
	return &memLedger{state: &memState{
		customers: make(map[string]*models.Customer),
		products:  make(map[string]*models.Product),
		orders:    make(map[string]*models.Order),
		items:     make(map[string][]models.OrderItem),
	}}
}

func (s *memState) clone() *memState {
	c := &memState{
		customers: make(map[string]*models.Customer, len(s.customers)),
		products:  make(map[string]*models.Product, len(s.products)),
		orders:    make(map[string]*models.Order, len(s.orders)),
		items:     make(map[string][]models.OrderItem, len(s.items)),
		movements: append([]models.InventoryMovement(nil), s.movements...),
	}
	for id, v := range s.customers {
		cp := *v
		c.customers[id] = &cp
	}
	for id, v := range s.products {
		cp := *v
		c.products[id] = &cp
	}
	for id, v := range s.orders {
		cp := *v
		c.orders[id] = &cp
	}
	for id, v := range s.items {
		c.items[id] = append([]models.OrderItem(nil), v...)
	}
	return c
}

func (l *memLedger) WithTx(ctx context.Context, fn func(tx inventory.Tx) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	work := l.state.clone()
	if err := fn(&memTx{state: work}); err != nil {
		return err
	}
	l.state = work
	return nil
}

// seeding and assertion helpers

func (l *memLedger) addCustomer(c models.Customer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.customers[c.ID] = &c
}

func (l *memLedger) addProduct(p models.Product) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.products[p.ID] = &p
}

func (l *memLedger) addOrder(o models.Order, items []models.OrderItem) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.orders[o.ID] = &o
	l.state.items[o.ID] = append([]models.OrderItem(nil), items...)
}

func (l *memLedger) product(id string) models.Product {
	l.mu.Lock()
	defer l.mu.Unlock()
	return *l.state.products[id]
}

func (l *memLedger) movementsFor(productID string) []models.InventoryMovement {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []models.InventoryMovement
	for _, m := range l.state.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out
}

func (l *memLedger) movementSum(productID string) int {
	var sum int
	for _, m := range l.movementsFor(productID) {
		sum += m.Quantity
	}
	return sum
}

func (l *memLedger) orderCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.state.orders)
}

// inventory.Ledger reads

func (l *memLedger) GetOrder(ctx context.Context, orgID, orderID string) (*models.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	o, ok := l.state.orders[orderID]
	if !ok || o.OrgID != orgID {
		return nil, &models.NotFoundError{Entity: "order", ID: orderID}
	}
	cp := *o
	return &cp, nil
}

func (l *memLedger) GetOrderItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.OrderItem(nil), l.state.items[orderID]...), nil
}

func (l *memLedger) ListOrders(ctx context.Context, orgID string) ([]models.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []models.Order
	for _, o := range l.state.orders {
		if o.OrgID == orgID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (l *memLedger) GetProduct(ctx context.Context, orgID, productID string) (*models.Product, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.state.products[productID]
	if !ok || p.OrgID != orgID {
		return nil, &models.NotFoundError{Entity: "product", ID: productID}
	}
	cp := *p
	return &cp, nil
}

func (l *memLedger) GetCustomer(ctx context.Context, orgID, customerID string) (*models.Customer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.state.customers[customerID]
	if !ok || c.OrgID != orgID {
		return nil, &models.NotFoundError{Entity: "customer", ID: customerID}
	}
	cp := *c
	return &cp, nil
}

func (l *memLedger) ListMovementsByProduct(ctx context.Context, orgID, productID string) ([]models.InventoryMovement, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []models.InventoryMovement
	for _, m := range l.state.movements {
		if m.ProductID == productID && m.OrgID == orgID {
			out = append(out, m)
		}
	}
	return out, nil
}

// memTx implements inventory.Tx over a staged state copy.
type memTx struct {
	state *memState
}

func (t *memTx) GetCustomer(ctx context.Context, orgID, customerID string) (*models.Customer, error) {
	c, ok := t.state.customers[customerID]
	if !ok || c.OrgID != orgID {
		return nil, &models.NotFoundError{Entity: "customer", ID: customerID}
	}
	cp := *c
	return &cp, nil
}

func (t *memTx) ProductsForUpdate(ctx context.Context, orgID string, productIDs []string) (map[string]*models.Product, error) {
	out := make(map[string]*models.Product, len(productIDs))
	for _, id := range productIDs {
		if p, ok := t.state.products[id]; ok && p.OrgID == orgID {
			cp := *p
			out[id] = &cp
		}
	}
	return out, nil
}

func (t *memTx) AddProductQuantity(ctx context.Context, productID string, delta int) error {
	p, ok := t.state.products[productID]
	if !ok {
		return &models.NotFoundError{Entity: "product", ID: productID}
	}
	p.Quantity += delta
	p.UpdatedAt = time.Now()
	return nil
}

func (t *memTx) GetOrderForUpdate(ctx context.Context, orgID, orderID string) (*models.Order, error) {
	o, ok := t.state.orders[orderID]
	if !ok || o.OrgID != orgID {
		return nil, &models.NotFoundError{Entity: "order", ID: orderID}
	}
	cp := *o
	return &cp, nil
}

func (t *memTx) InsertOrder(ctx context.Context, order *models.Order) error {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	cp := *order
	t.state.orders[order.ID] = &cp
	return nil
}

func (t *memTx) UpdateOrder(ctx context.Context, order *models.Order) error {
	if _, ok := t.state.orders[order.ID]; !ok {
		return &models.NotFoundError{Entity: "order", ID: order.ID}
	}
	order.UpdatedAt = time.Now()
	cp := *order
	t.state.orders[order.ID] = &cp
	return nil
}

func (t *memTx) DeleteOrder(ctx context.Context, orderID string) error {
	delete(t.state.orders, orderID)
	return nil
}

func (t *memTx) GetOrderItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	return append([]models.OrderItem(nil), t.state.items[orderID]...), nil
}

func (t *memTx) InsertOrderItem(ctx context.Context, item *models.OrderItem) error {
	t.state.items[item.OrderID] = append(t.state.items[item.OrderID], *item)
	return nil
}

func (t *memTx) DeleteOrderItems(ctx context.Context, orderID string) error {
	delete(t.state.items, orderID)
	return nil
}

func (t *memTx) InsertMovement(ctx context.Context, movement *models.InventoryMovement) error {
	t.state.movements = append(t.state.movements, *movement)
	return nil
}

func (t *memTx) DeleteOrderMovements(ctx context.Context, orderID string) error {
	kept := t.state.movements[:0]
	for _, m := range t.state.movements {
		if m.OrderID == nil || *m.OrderID != orderID {
			kept = append(kept, m)
		}
	}
	t.state.movements = kept
	return nil
}
