package console

import (
	"strings"

	"virtual-vr-console/internal/domain"
)

// Filter values shared by both collections.
const (
	FilterAll = "all"

	StatusActive   = "active"
	StatusInactive = "inactive"

	PreferentialYes = "yes"
	PreferentialNo  = "no"
)

// CourierFilter narrows the courier list. Empty fields mean "all".
type CourierFilter struct {
	Search      string `json:"search"`
	Status      string `json:"status"`
	VehicleType string `json:"vehicleType"`
}

// CustomerFilter narrows the customer list. Empty fields mean "all".
type CustomerFilter struct {
	Search       string `json:"search"`
	Status       string `json:"status"`
	Preferential string `json:"preferential"`
}

// Filters is the filter state of one console session.
type Filters struct {
	Couriers  CourierFilter  `json:"couriers"`
	Customers CustomerFilter `json:"customers"`
}

// CourierStats summarises the unfiltered courier collection.
type CourierStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
}

// CustomerStats summarises the unfiltered customer collection.
type CustomerStats struct {
	Total        int `json:"total"`
	Active       int `json:"active"`
	Preferential int `json:"preferential"`
}

// FilterCouriers keeps couriers matching the text query, the review state and the vehicle type.
// Order is preserved.
func FilterCouriers(items []domain.Courier, f CourierFilter) []domain.Courier {
	q := strings.ToLower(f.Search)
	out := make([]domain.Courier, 0, len(items))
	for _, c := range items {
		if !matchesText(q, c.FirstName, c.LastName, c.IDCard, c.Email, c.Phone) {
			continue
		}
		if !isAll(f.Status) && string(c.ReviewState()) != f.Status {
			continue
		}
		if !isAll(f.VehicleType) && string(c.VehicleType) != f.VehicleType {
			continue
		}
		out = append(out, c)
	}
	return out
}

// FilterCustomers keeps customers matching the text query, the active flag and the preferential flag.
func FilterCustomers(items []domain.Customer, f CustomerFilter) []domain.Customer {
	q := strings.ToLower(f.Search)
	out := make([]domain.Customer, 0, len(items))
	for _, c := range items {
		if !matchesText(q, c.FirstName, c.LastName, c.IDCard, c.Email, c.Phone) {
			continue
		}
		switch f.Status {
		case StatusActive:
			if !c.IsActive {
				continue
			}
		case StatusInactive:
			if c.IsActive {
				continue
			}
		}
		switch f.Preferential {
		case PreferentialYes:
			if !c.IsPreferential {
				continue
			}
		case PreferentialNo:
			if c.IsPreferential {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

// StatsOfCouriers counts total, pending and approved couriers.
func StatsOfCouriers(items []domain.Courier) CourierStats {
	st := CourierStats{Total: len(items)}
	for _, c := range items {
		switch c.ReviewState() {
		case domain.ReviewPending:
			st.Pending++
		case domain.ReviewApproved:
			st.Approved++
		}
	}
	return st
}

// StatsOfCustomers counts total, active and preferential customers.
func StatsOfCustomers(items []domain.Customer) CustomerStats {
	st := CustomerStats{Total: len(items)}
	for _, c := range items {
		if c.IsActive {
			st.Active++
		}
		if c.IsPreferential {
			st.Preferential++
		}
	}
	return st
}

// matchesText reports whether q (already lower-cased) is a substring of any field.
func matchesText(q string, fields ...string) bool {
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func isAll(v string) bool { return v == "" || v == FilterAll }
