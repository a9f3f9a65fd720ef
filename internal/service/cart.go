package service

import (
	"sync"

	"pos-terminal/internal/domain"
)

// CartStore holds the single in-progress order. It is injected into the
// checkout service and the HTTP layer rather than living as package state.
// Items are unique per (product id, note) pair; the same product with a
// different note is a separate line.
type CartStore struct {
	mu           sync.Mutex
	items        []domain.LineItem
	orderType    domain.OrderType
	tableNumber  string
	customerName string
	note         string
}

func NewCartStore() *CartStore {
	return &CartStore{orderType: domain.OrderDineIn}
}

// AddItem merges into an existing line when the (id, note) pair matches,
// otherwise appends a new line with qty 1. Name and price are snapshotted
// from the product as it is now; later catalog changes do not touch the cart.
func (c *CartStore) AddItem(product domain.Product, note string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID == product.ID && c.items[i].Note == note {
			c.items[i].Qty++
			return
		}
	}

	c.items = append(c.items, domain.LineItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Qty:       1,
		Note:      note,
	})
}

// RemoveItem deletes the matching line. Absent items are a no-op.
func (c *CartStore) RemoveItem(productID int, note string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(productID, note)
}

func (c *CartStore) remove(productID int, note string) {
	kept := c.items[:0]
	for _, item := range c.items {
		if !(item.ProductID == productID && item.Note == note) {
			kept = append(kept, item)
		}
	}
	c.items = kept
}

// UpdateQty sets the quantity of the matching line to an absolute value.
// Zero or negative removes the line. Absent items are a no-op.
func (c *CartStore) UpdateQty(productID int, note string, qty int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if qty <= 0 {
		c.remove(productID, note)
		return
	}
	for i := range c.items {
		if c.items[i].ProductID == productID && c.items[i].Note == note {
			c.items[i].Qty = qty
			return
		}
	}
}

func (c *CartStore) SetOrderType(t domain.OrderType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orderType = t
}

func (c *CartStore) SetTableNumber(n string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tableNumber = n
}

func (c *CartStore) SetCustomerName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.customerName = name
}

func (c *CartStore) SetNote(note string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.note = note
}

// Total is always recomputed from the current items, never cached.
func (c *CartStore) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, item := range c.items {
		total += item.Price * float64(item.Qty)
	}
	return total
}

func (c *CartStore) Items() []domain.LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]domain.LineItem, len(c.items))
	copy(items, c.items)
	return items
}

// State returns the full cart as a snapshot value.
func (c *CartStore) State() domain.CartState {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]domain.LineItem, len(c.items))
	copy(items, c.items)
	return domain.CartState{
		Items:        items,
		OrderType:    c.orderType,
		TableNumber:  c.tableNumber,
		CustomerName: c.customerName,
		Note:         c.note,
	}
}

// Restore replaces the cart with a previously saved snapshot.
func (c *CartStore) Restore(state domain.CartState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make([]domain.LineItem, len(state.Items))
	copy(c.items, state.Items)
	c.orderType = state.OrderType
	if c.orderType == "" {
		c.orderType = domain.OrderDineIn
	}
	c.tableNumber = state.TableNumber
	c.customerName = state.CustomerName
	c.note = state.Note
}

// Clear resets every field to its session-start default.
func (c *CartStore) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	c.orderType = domain.OrderDineIn
	c.tableNumber = ""
	c.customerName = ""
	c.note = ""
}
