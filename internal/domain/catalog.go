package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CatalogEntry is a sellable FMEG product. ListPrice is the unit price
// quoted when the caller does not supply one.
type CatalogEntry struct {
	SKU       string            `json:"sku" yaml:"sku"`
	Name      string            `json:"name" yaml:"name"`
	Category  string            `json:"category" yaml:"category"`
	ListPrice float64           `json:"listPrice" yaml:"listPrice"`
	Specs     map[string]string `json:"specs" yaml:"specs"`
}

// Catalog is an immutable product list. It is built once and shared
// read-only across requests; accessors return copies.
type Catalog struct {
	entries []CatalogEntry
	index   map[string]int
}

// NewCatalog validates entries and returns an immutable catalog
func NewCatalog(entries []CatalogEntry) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no entries", ErrInvalidCatalog)
	}

	c := &Catalog{
		entries: make([]CatalogEntry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}

	for i, entry := range entries {
		sku := strings.TrimSpace(entry.SKU)
		if sku == "" {
			return nil, fmt.Errorf("%w: entry %d has no sku", ErrInvalidCatalog, i)
		}
		if strings.TrimSpace(entry.Name) == "" {
			return nil, fmt.Errorf("%w: entry %s has no name", ErrInvalidCatalog, sku)
		}
		if entry.ListPrice < 0 {
			return nil, fmt.Errorf("%w: entry %s has a negative list price", ErrInvalidCatalog, sku)
		}
		if _, dup := c.index[sku]; dup {
			return nil, fmt.Errorf("%w: duplicate sku %s", ErrInvalidCatalog, sku)
		}

		entry.SKU = sku
		c.index[sku] = len(c.entries)
		c.entries = append(c.entries, entry.clone())
	}

	return c, nil
}

// Entries returns a copy of all entries in catalog order
func (c *Catalog) Entries() []CatalogEntry {
	out := make([]CatalogEntry, len(c.entries))
	for i, entry := range c.entries {
		out[i] = entry.clone()
	}
	return out
}

// Lookup finds an entry by SKU
func (c *Catalog) Lookup(sku string) (CatalogEntry, bool) {
	i, ok := c.index[strings.TrimSpace(sku)]
	if !ok {
		return CatalogEntry{}, false
	}
	return c.entries[i].clone(), true
}

// Contains reports whether the SKU is part of the catalog
func (c *Catalog) Contains(sku string) bool {
	_, ok := c.index[strings.TrimSpace(sku)]
	return ok
}

// Len returns the number of entries
func (c *Catalog) Len() int {
	return len(c.entries)
}

// MarshalJSON encodes the catalog as its entry list
func (c *Catalog) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.entries)
}

func (e CatalogEntry) clone() CatalogEntry {
	specs := make(map[string]string, len(e.Specs))
	for k, v := range e.Specs {
		specs[k] = v
	}
	e.Specs = specs
	return e
}
