package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogsync/internal/model"
)

func TestSuggestMaterialOnly(t *testing.T) {
	r := &model.ProductRecord{
		URL:           "https://example.com/sheet",
		Name:          "Aluminum Sheet 12 x 24 inches",
		Price:         model.Float(119.22),
		Dimensions:    model.Dimensions{Length: model.Float(12), Width: model.Float(24), Unit: "in"},
		SuggestedType: model.TypeMaterial,
	}

	s := Suggest(r)
	assert.Nil(t, s.Parts)
	require.NotNil(t, s.Materials)

	m := s.Materials
	assert.Equal(t, 119.22, m.PricePerUnit)
	assert.Equal(t, "piece", m.UnitType)
	assert.Equal(t, 0, m.InStock)
	require.NotNil(t, m.XMM)
	assert.Equal(t, "304.8", *m.XMM)
	assert.Equal(t, "12", *m.XInches)
	assert.Equal(t, "609.6", *m.YMM)
	assert.Nil(t, m.ZMM)
	assert.Nil(t, m.ZInches)
	assert.Equal(t, m.XMM, m.SizeMM)
}

func TestSuggestUnknownFillsBoth(t *testing.T) {
	r := &model.ProductRecord{URL: "https://example.com/x", Name: "Widget", Brand: "Acme", SuggestedType: model.TypeUnknown}

	s := Suggest(r)
	require.NotNil(t, s.Parts)
	require.NotNil(t, s.Materials)
	assert.Equal(t, "Acme", s.Parts.Supplier)
	assert.Equal(t, 0.0, s.Parts.Cost)
	assert.Equal(t, "https://example.com/x", s.Materials.Link)
	assert.Nil(t, s.Materials.SizeMM)
}

func TestSuggestPartOnly(t *testing.T) {
	s := Suggest(&model.ProductRecord{Name: "Bolt", SKU: "B-1", Price: model.Float(0.35), SuggestedType: model.TypePart})
	require.NotNil(t, s.Parts)
	assert.Nil(t, s.Materials)
	assert.Equal(t, "B-1", s.Parts.SKU)
	assert.Equal(t, 0.35, s.Parts.Cost)
}

func TestDimensions(t *testing.T) {
	tests := []struct {
		name string
		dims model.Dimensions
		xMM  string
		xIn  string
	}{
		{"millimeters", model.Dimensions{Length: model.Float(25.4), Unit: "mm"}, "25.4", "1.000"},
		{"centimeters", model.Dimensions{Length: model.Float(2.54), Unit: "cm"}, "25.4", "1.000"},
		{"feet", model.Dimensions{Length: model.Float(2), Unit: "ft"}, "609.6", "24"},
		{"diameter is x", model.Dimensions{Diameter: model.Float(10), Unit: "mm"}, "10", "0.394"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Dimensions(tt.dims)
			require.NotNil(t, got.XMM)
			assert.Equal(t, tt.xMM, *got.XMM)
			assert.Equal(t, tt.xIn, *got.XInches)
			assert.Nil(t, got.YMM)
			assert.Nil(t, got.ZMM)
		})
	}

	assert.Equal(t, DimensionStrings{}, Dimensions(model.Dimensions{Length: model.Float(3), Unit: "furlong"}))
}
