package model

import "time"

type ProductType string

const (
	TypePart     ProductType = "part"
	TypeMaterial ProductType = "material"
	TypeUnknown  ProductType = "unknown"
)

// ParseProductType accepts "part", "material" or an empty string.
func ParseProductType(s string) (ProductType, bool) {
	switch ProductType(s) {
	case TypePart, TypeMaterial:
		return ProductType(s), true
	case "":
		return "", true
	}
	return "", false
}

// Dimensions keeps every axis optional; Unit is one of mm, cm, in, ft.
type Dimensions struct {
	Length   *float64 `json:"length,omitempty"`
	Width    *float64 `json:"width,omitempty"`
	Height   *float64 `json:"height,omitempty"`
	Diameter *float64 `json:"diameter,omitempty"`
	Unit     string   `json:"unit,omitempty"`
}

// Axes returns how many axis fields are populated.
func (d Dimensions) Axes() int {
	n := 0
	for _, v := range []*float64{d.Length, d.Width, d.Height, d.Diameter} {
		if v != nil {
			n++
		}
	}
	return n
}

// Primary is the length, or the diameter for round stock.
func (d Dimensions) Primary() (float64, bool) {
	if d.Length != nil {
		return *d.Length, true
	}
	if d.Diameter != nil {
		return *d.Diameter, true
	}
	return 0, false
}

// ProductRecord is the normalized result of one extraction call.
type ProductRecord struct {
	URL           string      `json:"url"`
	Name          string      `json:"name,omitempty"`
	Description   string      `json:"description,omitempty"`
	Price         *float64    `json:"price,omitempty"`
	OriginalPrice *float64    `json:"original_price,omitempty"`
	Currency      string      `json:"currency,omitempty"`
	Brand         string      `json:"brand,omitempty"`
	SKU           string      `json:"sku,omitempty"`
	Availability  string      `json:"availability,omitempty"`
	MaterialType  string      `json:"material_type,omitempty"`
	Dimensions    Dimensions  `json:"dimensions"`
	LeadTimeDays  *int        `json:"lead_time_days,omitempty"`
	Images        []string    `json:"images"`
	SuggestedType ProductType `json:"suggested_type"`
	Confidence    int         `json:"confidence"`
	Reasons       []string    `json:"classification_reasons"`
	ExtractedAt   time.Time   `json:"extracted_at"`
}

// PriceOrZero returns the extracted price, or 0 when none was found.
func (r *ProductRecord) PriceOrZero() float64 {
	if r.Price == nil {
		return 0
	}
	return *r.Price
}

func Float(v float64) *float64 { return &v }

func Int(v int) *int { return &v }

func String(v string) *string { return &v }
