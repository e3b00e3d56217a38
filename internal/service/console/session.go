package console

import (
	"sync"

	"virtual-vr-console/internal/domain"
)

// Kind names one mirrored collection.
type Kind string

// Mirrored collections.
const (
	KindCouriers  Kind = "couriers"
	KindCustomers Kind = "customers"
)

// LoadErrorMessage is shown when a live subscription stops with an error.
const LoadErrorMessage = "Error al cargar los datos"

// CourierView is a filtered courier list with collection statistics.
type CourierView struct {
	Items []domain.Courier `json:"items"`
	Stats CourierStats     `json:"stats"`
}

// CustomerView is a filtered customer list with collection statistics.
type CustomerView struct {
	Items []domain.Customer `json:"items"`
	Stats CustomerStats     `json:"stats"`
}

// SubscriptionError reports a subscription that stopped.
type SubscriptionError struct {
	Kind Kind
	Err  error
}

// Session is the mirrored state of one admin dashboard. Each emission replaces
// the local collection; change notifications are coalesced so a slow reader
// always renders the latest state.
type Session struct {
	mu        sync.RWMutex
	couriers  []domain.Courier
	customers []domain.Customer
	filters   Filters

	couriersChanged  chan struct{}
	customersChanged chan struct{}
	errs             chan SubscriptionError
	done             chan struct{}
}

func newSession() *Session {
	return &Session{
		couriers:         []domain.Courier{},
		customers:        []domain.Customer{},
		couriersChanged:  make(chan struct{}, 1),
		customersChanged: make(chan struct{}, 1),
		errs:             make(chan SubscriptionError, 2),
		done:             make(chan struct{}),
	}
}

// CouriersChanged fires after a courier emission or a filter change.
func (s *Session) CouriersChanged() <-chan struct{} { return s.couriersChanged }

// CustomersChanged fires after a customer emission or a filter change.
func (s *Session) CustomersChanged() <-chan struct{} { return s.customersChanged }

// Errors delivers at most one error per subscription.
func (s *Session) Errors() <-chan SubscriptionError { return s.errs }

// Done is closed when both subscriptions have stopped.
func (s *Session) Done() <-chan struct{} { return s.done }

// SetFilters replaces the filter state and marks both views changed.
func (s *Session) SetFilters(f Filters) error {
	if err := f.Couriers.Validate(); err != nil {
		return err
	}
	if err := f.Customers.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.filters = f
	s.mu.Unlock()

	notify(s.couriersChanged)
	notify(s.customersChanged)
	return nil
}

// Filters returns the current filter state.
func (s *Session) Filters() Filters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

// Couriers returns the filtered courier view of the latest emission.
func (s *Session) Couriers() CourierView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return CourierView{
		Items: FilterCouriers(s.couriers, s.filters.Couriers),
		Stats: StatsOfCouriers(s.couriers),
	}
}

// Customers returns the filtered customer view of the latest emission.
func (s *Session) Customers() CustomerView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return CustomerView{
		Items: FilterCustomers(s.customers, s.filters.Customers),
		Stats: StatsOfCustomers(s.customers),
	}
}

func (s *Session) replaceCouriers(items []domain.Courier) {
	cp := append([]domain.Courier(nil), items...)
	s.mu.Lock()
	s.couriers = cp
	s.mu.Unlock()
	notify(s.couriersChanged)
}

func (s *Session) replaceCustomers(items []domain.Customer) {
	cp := append([]domain.Customer(nil), items...)
	s.mu.Lock()
	s.customers = cp
	s.mu.Unlock()
	notify(s.customersChanged)
}

func (s *Session) fail(kind Kind, err error) {
	select {
	case s.errs <- SubscriptionError{Kind: kind, Err: err}:
	default:
	}
}

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
