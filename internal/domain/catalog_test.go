package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntries() []CatalogEntry {
	return []CatalogEntry{
		{SKU: "TV-4K-55", Name: "4K Smart LED TV 55 inch", Category: "Televisions", ListPrice: 750, Specs: map[string]string{"resolution": "4K"}},
		{SKU: " MW-SOLO-20 ", Name: "Solo Microwave Oven 20L", Category: "Microwaves", Specs: map[string]string{"capacity": "20L"}},
	}
}

func TestNewCatalog(t *testing.T) {
	c, err := NewCatalog(sampleEntries())

	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	assert.True(t, c.Contains("TV-4K-55"))
	assert.True(t, c.Contains("MW-SOLO-20"), "skus are trimmed")
	assert.False(t, c.Contains("REF-5STAR-450"))

	entry, ok := c.Lookup("MW-SOLO-20")
	require.True(t, ok)
	assert.Equal(t, "Solo Microwave Oven 20L", entry.Name)
	assert.Zero(t, entry.ListPrice)

	tv, ok := c.Lookup("TV-4K-55")
	require.True(t, ok)
	assert.Equal(t, 750.0, tv.ListPrice)

	_, ok = c.Lookup("missing")
	assert.False(t, ok)
}

func TestNewCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		entries []CatalogEntry
	}{
		{"empty", nil},
		{"missing sku", []CatalogEntry{{Name: "x"}}},
		{"missing name", []CatalogEntry{{SKU: "A"}}},
		{"negative list price", []CatalogEntry{{SKU: "A", Name: "x", ListPrice: -1}}},
		{"duplicate sku", []CatalogEntry{{SKU: "A", Name: "x"}, {SKU: "A ", Name: "y"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCatalog(tt.entries)
			assert.Nil(t, c)
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestCatalog_IsImmutable(t *testing.T) {
	source := sampleEntries()
	c, err := NewCatalog(source)
	require.NoError(t, err)

	// Mutating the input after construction has no effect
	source[0].Name = "changed"
	source[0].Specs["resolution"] = "8K"

	// Nor does mutating returned copies
	entries := c.Entries()
	entries[0].Specs["resolution"] = "720p"
	entries[1].Name = "changed"

	looked, _ := c.Lookup("TV-4K-55")
	looked.Specs["resolution"] = "1080p"

	fresh := c.Entries()
	assert.Equal(t, "4K Smart LED TV 55 inch", fresh[0].Name)
	assert.Equal(t, "4K", fresh[0].Specs["resolution"])
	assert.Equal(t, "Solo Microwave Oven 20L", fresh[1].Name)
}

func TestCatalog_MarshalJSON(t *testing.T) {
	c, err := NewCatalog(sampleEntries())
	require.NoError(t, err)

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var decoded []CatalogEntry
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, c.Entries(), decoded)
}
