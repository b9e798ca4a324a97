// Package memory provides map-backed stores for tests and the demo
// run mode. Collections are deep-copied on the way in and out, so
// callers can never alias the stored state.
package memory

import (
	"context"
	"sync"

	"pickstock/internal/core/apperror"
	"pickstock/internal/domain/customer"
	"pickstock/internal/domain/inventory"
	"pickstock/internal/domain/shipment"
)

// LedgerStore implements inventory.Store.
type LedgerStore struct {
	mu      sync.RWMutex
	ledgers map[string]inventory.Ledger
}

// NewLedgerStore creates an empty LedgerStore.
func NewLedgerStore() *LedgerStore {
	return &LedgerStore{ledgers: make(map[string]inventory.Ledger)}
}

// Load implements inventory.Store.
func (s *LedgerStore) Load(_ context.Context, companyID string) (inventory.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledgers[companyID].Clone(), nil
}

// Save implements inventory.Store.
func (s *LedgerStore) Save(_ context.Context, companyID string, ledger inventory.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledgers[companyID] = ledger.Clone()
	return nil
}

// ShipmentStore implements shipment.Store.
type ShipmentStore struct {
	mu     sync.RWMutex
	orders map[string][]shipment.Order
}

// NewShipmentStore creates an empty ShipmentStore.
func NewShipmentStore() *ShipmentStore {
	return &ShipmentStore{orders: make(map[string][]shipment.Order)}
}

// Load implements shipment.Store.
func (s *ShipmentStore) Load(_ context.Context, companyID string) ([]shipment.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneOrders(s.orders[companyID]), nil
}

// Save implements shipment.Store.
func (s *ShipmentStore) Save(_ context.Context, companyID string, orders []shipment.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[companyID] = cloneOrders(orders)
	return nil
}

// PickOrderNumbers implements shipment.Store and sequence.OrderSource.
func (s *ShipmentStore) PickOrderNumbers(_ context.Context, companyID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	orders := s.orders[companyID]
	numbers := make([]string, 0, len(orders))
	for _, o := range orders {
		numbers = append(numbers, o.PickOrderNo)
	}
	return numbers, nil
}

func cloneOrders(orders []shipment.Order) []shipment.Order {
	out := make([]shipment.Order, len(orders))
	for i, o := range orders {
		out[i] = o.Clone()
	}
	return out
}

// SequenceStore implements sequence.Store with compare-and-set saves.
type SequenceStore struct {
	mu    sync.Mutex
	marks map[string]int64
}

// NewSequenceStore creates an empty SequenceStore.
func NewSequenceStore() *SequenceStore {
	return &SequenceStore{marks: make(map[string]int64)}
}

// LoadHighWaterMark implements sequence.Store.
func (s *SequenceStore) LoadHighWaterMark(_ context.Context, companyID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.marks[companyID], nil
}

// SaveHighWaterMark implements sequence.Store. It fails with a
// SequenceCollision when the stored mark no longer equals prev.
func (s *SequenceStore) SaveHighWaterMark(_ context.Context, companyID string, prev, next int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.marks[companyID] != prev {
		return apperror.NewSequenceCollision(companyID, next)
	}
	s.marks[companyID] = next
	return nil
}

// CustomerStore implements customer.Store.
type CustomerStore struct {
	mu        sync.RWMutex
	customers map[string][]customer.Customer
}

// NewCustomerStore creates an empty CustomerStore.
func NewCustomerStore() *CustomerStore {
	return &CustomerStore{customers: make(map[string][]customer.Customer)}
}

// Load implements customer.Store.
func (s *CustomerStore) Load(_ context.Context, companyID string) ([]customer.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]customer.Customer(nil), s.customers[companyID]...), nil
}

// Save implements customer.Store.
func (s *CustomerStore) Save(_ context.Context, companyID string, customers []customer.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[companyID] = append([]customer.Customer(nil), customers...)
	return nil
}
