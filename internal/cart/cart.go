package cart

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"foodcourt/internal/backend"
	"foodcourt/internal/menu"
	"foodcourt/internal/redisdb"
	"foodcourt/internal/types"
)

// EventSenderInterface publishes order placements to interested parties.
type EventSenderInterface interface {
	SendOrderPlaced(update types.OrderPlacedUpdate) error
}

// OrderRecorder persists order placements for the history views.
type OrderRecorder interface {
	RecordOrderPlaced(update types.OrderPlacedUpdate) error
}

// Manager owns customer carts. Carts live in redis when it is configured,
// otherwise in process memory for sandbox runs.
type Manager struct {
	mu     sync.Mutex
	memory map[string]*types.Cart

	events  EventSenderInterface
	history OrderRecorder
}

func NewManager(events EventSenderInterface, history OrderRecorder) *Manager {
	return &Manager{
		memory:  make(map[string]*types.Cart),
		events:  events,
		history: history,
	}
}

// Create opens an empty cart for a vendor's menu page.
func (m *Manager) Create(vendorID, tableID string) (*types.Cart, error) {
	if vendorID == "" {
		return nil, fmt.Errorf("vendor id is empty")
	}
	cart := &types.Cart{
		ID:        uuid.NewString(),
		VendorID:  vendorID,
		TableID:   tableID,
		Lines:     []types.CartLine{},
		UpdatedAt: time.Now(),
	}
	if err := m.save(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (m *Manager) Get(cartID string) (*types.Cart, error) {
	return m.load(cartID)
}

// UpsertLine sets the quantity for one item. A quantity of zero or less
// removes the line.
func (m *Manager) UpsertLine(cartID string, line types.CartLine) (*types.Cart, error) {
	if line.ItemID == "" {
		return nil, fmt.Errorf("item id is empty")
	}
	cart, err := m.load(cartID)
	if err != nil {
		return nil, err
	}

	if line.Quantity <= 0 {
		kept := cart.Lines[:0]
		for _, l := range cart.Lines {
			if l.ItemID != line.ItemID {
				kept = append(kept, l)
			}
		}
		cart.Lines = kept
	} else {
		replaced := false
		for i := range cart.Lines {
			if cart.Lines[i].ItemID == line.ItemID {
				cart.Lines[i] = line
				replaced = true
				break
			}
		}
		if !replaced {
			cart.Lines = append(cart.Lines, line)
		}
	}

	cart.UpdatedAt = time.Now()
	if err := m.save(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear empties the cart but keeps it around so the page can add again.
func (m *Manager) Clear(cartID string) (*types.Cart, error) {
	cart, err := m.load(cartID)
	if err != nil {
		return nil, err
	}
	cart.Lines = []types.CartLine{}
	cart.UpdatedAt = time.Now()
	if err := m.save(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Totals aggregates the cart for display. A failed settings lookup degrades
// to charge-free totals rather than blocking the page.
func (m *Manager) Totals(cartID, token string) (*CartTotals, error) {
	cart, err := m.load(cartID)
	if err != nil {
		return nil, err
	}
	var settings *backend.VendorSettings
	if str, err := backend.GetSettings(cart.VendorID, token); err != nil {
		log.Printf("cart %s: settings lookup failed, totals without charges: %s", cartID, err.Error())
	} else if parsed, err := backend.ParseSettings(str); err == nil {
		settings = parsed
	}
	return ComputeTotals(cart, settings)
}

// Revalidate reconciles cart lines with the vendor's current menu. Unknown
// items and sold-out items fail, drifted prices and names are taken from the
// menu. The returned cart is a corrected copy.
func Revalidate(cart *types.Cart, payload *backend.MenuPayload) (*types.Cart, bool, error) {
	items := make(map[string]backend.MenuItem)
	for _, section := range payload.Sections {
		for _, item := range section.Items {
			items[item.ID] = item
		}
	}

	corrected := cloneCart(cart)
	changed := false
	for i := range corrected.Lines {
		line := &corrected.Lines[i]
		item, ok := items[line.ItemID]
		if !ok {
			return nil, false, fmt.Errorf("item '%s' is no longer on the menu", line.Name)
		}
		if item.SoldOut {
			return nil, false, fmt.Errorf("'%s' is sold out", item.Name)
		}
		if line.UnitPrice != item.Price || line.Name != item.Name {
			line.UnitPrice = item.Price
			line.Name = item.Name
			changed = true
		}
	}
	return corrected, changed, nil
}

// Checkout submits the cart as an order to the core API and returns the
// receipt carrying the payment gateway URL. Prices are revalidated against
// the live menu first; the cart is dropped once the order is accepted.
func (m *Manager) Checkout(cartID, token string) (*backend.OrderReceipt, error) {
	cart, err := m.load(cartID)
	if err != nil {
		return nil, err
	}
	if len(cart.Lines) == 0 {
		return nil, fmt.Errorf("cart '%s' is empty", cartID)
	}

	payload, err := menu.FetchVendorMenu(cart.VendorID, token)
	if err != nil {
		return nil, fmt.Errorf("menu lookup before checkout: %w", err)
	}
	corrected, changed, err := Revalidate(cart, payload)
	if err != nil {
		return nil, err
	}
	if changed {
		log.Printf("cart %s: prices refreshed from menu before checkout", cartID)
		cart = corrected
		if err := m.save(cart); err != nil {
			return nil, err
		}
	}

	str, err := backend.GetSettings(cart.VendorID, token)
	if err != nil {
		return nil, fmt.Errorf("vendor settings before checkout: %w", err)
	}
	settings, err := backend.ParseSettings(str)
	if err != nil {
		return nil, err
	}
	if !settings.AcceptingOrders {
		return nil, fmt.Errorf("vendor '%s' is not accepting orders", cart.VendorID)
	}
	totals, err := ComputeTotals(cart, settings)
	if err != nil {
		return nil, err
	}

	submission := &backend.OrderSubmission{
		VendorID:        cart.VendorID,
		TableID:         cart.TableID,
		ClientTxnID:     uuid.NewString(),
		Lines:           make([]backend.OrderLine, 0, len(cart.Lines)),
		Subtotal:        totals.Subtotal,
		PackagingCharge: totals.PackagingCharge,
		ServiceCharge:   totals.ServiceCharge,
		GrandTotal:      totals.GrandTotal,
	}
	for _, line := range cart.Lines {
		submission.Lines = append(submission.Lines, backend.OrderLine{
			ItemID:    line.ItemID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			Note:      line.Note,
		})
	}

	resp, err := backend.SubmitOrder(submission, token)
	if err != nil {
		return nil, fmt.Errorf("order submission: %w", err)
	}
	receipt, err := backend.ParseOrderReceipt(resp)
	if err != nil {
		return nil, err
	}

	if err := m.remove(cartID); err != nil {
		log.Printf("cart %s: cleanup after checkout: %s", cartID, err.Error())
	}

	update := types.OrderPlacedUpdate{
		OrderID:       receipt.OrderID,
		VendorID:      cart.VendorID,
		TransactionID: submission.ClientTxnID,
		Table:         cart.TableID,
		ItemCount:     totals.ItemCount,
		GrandTotal:    totals.GrandTotal,
		Timestamp:     time.Now().Unix(),
	}
	if m.events != nil {
		if err := m.events.SendOrderPlaced(update); err != nil {
			log.Printf("send order placed event, err=%v", err)
		}
	}
	if m.history != nil {
		if err := m.history.RecordOrderPlaced(update); err != nil {
			log.Printf("record order placement, err=%v", err)
		}
	}
	return receipt, nil
}

func (m *Manager) load(cartID string) (*types.Cart, error) {
	if cartID == "" {
		return nil, fmt.Errorf("cart id is empty")
	}
	if redisdb.Initialized() {
		return redisdb.GetCart(cartID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cart, ok := m.memory[cartID]
	if !ok {
		return nil, fmt.Errorf("cart '%s' not exist", cartID)
	}
	return cloneCart(cart), nil
}

func (m *Manager) save(cart *types.Cart) error {
	if redisdb.Initialized() {
		return redisdb.UpsertCart(cart)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.memory[cart.ID] = cloneCart(cart)
	return nil
}

func (m *Manager) remove(cartID string) error {
	if redisdb.Initialized() {
		return redisdb.DelCart(cartID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.memory, cartID)
	return nil
}

func cloneCart(cart *types.Cart) *types.Cart {
	clone := *cart
	clone.Lines = make([]types.CartLine, len(cart.Lines))
	copy(clone.Lines, cart.Lines)
	return &clone
}
