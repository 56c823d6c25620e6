// Package suggest maps a ProductRecord onto the field shapes of the parts
// and materials catalogs.
package suggest

import (
	"catalogsync/internal/model"
	"catalogsync/internal/normalize"
)

type PartFields struct {
	Name        string  `json:"name"`
	Cost        float64 `json:"cost"`
	Description string  `json:"description"`
	Supplier    string  `json:"supplier"`
	SKU         string  `json:"sku"`
	Link        string  `json:"link"`
	Category    string  `json:"category"`
	InStock     int     `json:"in_stock"`
}

type MaterialFields struct {
	Name         string  `json:"name"`
	SizeMM       *string `json:"size_mm"`
	SizeInches   *string `json:"size_inches"`
	Supplier     string  `json:"supplier"`
	Link         string  `json:"link"`
	PricePerUnit float64 `json:"price_per_unit"`
	UnitType     string  `json:"unit_type"`
	Description  string  `json:"description"`
	DimensionStrings
	InStock int `json:"in_stock"`
}

// DimensionStrings holds each populated axis in millimeters and inches.
// X is the length (or diameter), Y the width, Z the height.
type DimensionStrings struct {
	XMM     *string `json:"size_x_mm"`
	YMM     *string `json:"size_y_mm"`
	ZMM     *string `json:"size_z_mm"`
	XInches *string `json:"size_x_inches"`
	YInches *string `json:"size_y_inches"`
	ZInches *string `json:"size_z_inches"`
}

type Suggestions struct {
	Parts     *PartFields     `json:"parts,omitempty"`
	Materials *MaterialFields `json:"materials,omitempty"`
}

const DefaultUnitType = "piece"

// Suggest fills the shape for the record's type, or both when unknown.
func Suggest(r *model.ProductRecord) Suggestions {
	var s Suggestions
	if r.SuggestedType != model.TypeMaterial {
		s.Parts = &PartFields{
			Name:        r.Name,
			Cost:        r.PriceOrZero(),
			Description: r.Description,
			Supplier:    r.Brand,
			SKU:         r.SKU,
			Link:        r.URL,
		}
	}
	if r.SuggestedType != model.TypePart {
		dims := Dimensions(r.Dimensions)
		s.Materials = &MaterialFields{
			Name:             r.Name,
			SizeMM:           dims.XMM,
			SizeInches:       dims.XInches,
			Supplier:         r.Brand,
			Link:             r.URL,
			PricePerUnit:     r.PriceOrZero(),
			UnitType:         DefaultUnitType,
			Description:      r.Description,
			DimensionStrings: dims,
		}
	}
	return s
}

// Dimensions converts every populated axis to both unit systems. Axes in
// an unknown unit stay nil.
func Dimensions(d model.Dimensions) DimensionStrings {
	var out DimensionStrings
	x := d.Length
	if x == nil {
		x = d.Diameter
	}
	out.XMM, out.XInches = axisStrings(x, d.Unit)
	out.YMM, out.YInches = axisStrings(d.Width, d.Unit)
	out.ZMM, out.ZInches = axisStrings(d.Height, d.Unit)
	return out
}

func axisStrings(v *float64, unit string) (mm, in *string) {
	if v == nil || *v <= 0 {
		return nil, nil
	}
	switch unit {
	case normalize.UnitMM:
		return model.String(normalize.Plain(*v)), model.String(normalize.Fixed(*v/normalize.MillimetersPerInch, 3))
	case normalize.UnitCM:
		return model.String(normalize.Fixed(*v*10, 1)), model.String(normalize.Fixed(*v/2.54, 3))
	case normalize.UnitIn:
		return model.String(normalize.Fixed(*v*normalize.MillimetersPerInch, 1)), model.String(normalize.Plain(*v))
	case normalize.UnitFt:
		return model.String(normalize.Fixed(*v*normalize.MillimetersPerFoot, 1)), model.String(normalize.Plain(*v * 12))
	}
	return nil, nil
}
