package model

import "github.com/shopspring/decimal"

// Product is a catalog entry. Products are static and never persisted.
type Product struct {
	ID             string          `json:"id" yaml:"id"`
	Name           string          `json:"name" yaml:"name"`
	Description    string          `json:"description" yaml:"description"`
	Price          decimal.Decimal `json:"price" yaml:"price"`
	Link           string          `json:"link" yaml:"link"`
	Location       string          `json:"location" yaml:"location"`
	DurationMonths int             `json:"duration" yaml:"duration"`
}
