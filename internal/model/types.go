package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"vpnshop/internal/apperr"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusSimulated OrderStatus = "simulated"
)

// ParseOrderStatus converts raw input into an OrderStatus, rejecting unknown values.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch st := OrderStatus(s); st {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled, OrderStatusSimulated:
		return st, nil
	}
	return "", apperr.E(apperr.ErrInvalidArgument, fmt.Sprintf("unknown order status %q", s))
}

func (s OrderStatus) Value() (driver.Value, error) {
	if _, err := ParseOrderStatus(string(s)); err != nil {
		return nil, err
	}
	return string(s), nil
}

func (s *OrderStatus) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("scan order status: unsupported type %T", src)
	}
	st, err := ParseOrderStatus(raw)
	if err != nil {
		return fmt.Errorf("scan order status: %w", err)
	}
	*s = st
	return nil
}

// ProductIDs is an ordered, duplicate-free list of catalog ids stored as a JSON array.
type ProductIDs []string

// NewProductIDs copies ids, dropping duplicates and keeping first occurrences.
func NewProductIDs(ids ...string) ProductIDs {
	out := make(ProductIDs, 0, len(ids))
	for _, id := range ids {
		if !out.Contains(id) {
			out = append(out, id)
		}
	}
	return out
}

func (p ProductIDs) Contains(id string) bool {
	for _, existing := range p {
		if existing == id {
			return true
		}
	}
	return false
}

// Without returns a copy of p without id.
func (p ProductIDs) Without(id string) ProductIDs {
	out := make(ProductIDs, 0, len(p))
	for _, existing := range p {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

func (p ProductIDs) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(p))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *ProductIDs) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*p = ProductIDs{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("scan product ids: unsupported type %T", src)
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return fmt.Errorf("scan product ids: %w", err)
	}
	*p = NewProductIDs(ids...)
	return nil
}
