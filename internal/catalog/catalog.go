// Package catalog holds the static list of purchasable products.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"vpnshop/internal/model"
)

//go:embed products.yaml
var defaultProducts []byte

type file struct {
	Products []model.Product `yaml:"products"`
}

// Catalog is read-only after construction and safe for concurrent use.
type Catalog struct {
	products []model.Product
	byID     map[string]model.Product
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(defaultProducts)
}

// Load reads a catalog from path, or the built-in catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(f.Products)
}

func New(products []model.Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]model.Product, 0, len(products)),
		byID:     make(map[string]model.Product, len(products)),
	}
	for _, p := range products {
		if p.ID == "" {
			return nil, fmt.Errorf("catalog product without id")
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate catalog product %q", p.ID)
		}
		if p.Price.IsNegative() {
			return nil, fmt.Errorf("catalog product %q has negative price", p.ID)
		}
		c.products = append(c.products, p)
		c.byID[p.ID] = p
	}
	return c, nil
}

func (c *Catalog) Get(id string) (model.Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

func (c *Catalog) List() []model.Product {
	out := make([]model.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Total sums current prices of ids. Ids no longer in the catalog count as zero and
// are returned as unavailable.
func (c *Catalog) Total(ids []string) (total decimal.Decimal, unavailable []string) {
	total = decimal.Zero
	for _, id := range ids {
		p, ok := c.byID[id]
		if !ok {
			unavailable = append(unavailable, id)
			continue
		}
		total = total.Add(p.Price)
	}
	return total, unavailable
}
