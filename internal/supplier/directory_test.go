package supplier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	d := DefaultDirectory()

	tests := []struct {
		name        string
		url         string
		brand       string
		wantName    string
		wantContact string
		marketplace string
	}{
		{"amazon with brand", "https://www.amazon.com/dp/B01", "Bosch", "Bosch", "Available on Amazon (www.amazon.com)", "Amazon"},
		{"amazon without brand", "https://www.amazon.com/dp/B01", "", "Amazon", "Amazon.com", ""},
		{"regional amazon", "https://www.amazon.ca/dp/B01", "", "Amazon Canada", "Amazon.ca", ""},
		{"known supplier ignores brand", "https://www.mcmaster.com/91251A540", "Acme", "McMaster-Carr", "McMaster-Carr", ""},
		{"regional site", "https://www.digikey.ca/en/products/1", "", "Digi-Key", "Digi-Key Electronics", ""},
		{"unknown host", "https://shop.metalsdepot.example/items/7", "", "shop.metalsdepot.example", "Auto-detected from shop.metalsdepot.example", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Resolve(tt.url, tt.brand)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, got.Name)
			assert.Equal(t, tt.wantContact, got.ContactInfo)
			assert.Equal(t, tt.marketplace, got.Marketplace)
		})
	}
}

func TestResolveUnknownWebsiteIsOrigin(t *testing.T) {
	got, err := DefaultDirectory().Resolve("https://www.onlinemetals.example/en/buy/aluminum", "")
	require.NoError(t, err)
	assert.Equal(t, "onlinemetals.example", got.Name)
	assert.Equal(t, "https://www.onlinemetals.example", got.Website)
}

func TestResolveInvalidURL(t *testing.T) {
	_, err := DefaultDirectory().Resolve("not a url", "")
	assert.ErrorIs(t, err, ErrInvalidURL)
}
