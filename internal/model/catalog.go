package model

import "time"

// SupplierInfo is derived from a product URL; it is not an entity yet.
type SupplierInfo struct {
	Name        string `json:"name"`
	Website     string `json:"website"`
	ContactInfo string `json:"contact_info"`
	Marketplace string `json:"marketplace,omitempty"`
}

type Supplier struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Website   string    `json:"website"`
	Contact   string    `json:"contact_info"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

type CatalogKind string

const (
	KindPart     CatalogKind = "part"
	KindMaterial CatalogKind = "material"
)

// CatalogEntry is a part or a material row. Price holds the cost of a
// part or the price per unit of a material.
type CatalogEntry struct {
	ID          string      `json:"id"`
	Kind        CatalogKind `json:"kind"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       float64     `json:"price"`
	SKU         string      `json:"sku,omitempty"`
	Link        string      `json:"link"`
	Category    string      `json:"category,omitempty"`
	Supplier    string      `json:"supplier,omitempty"`
	UnitType    string      `json:"unit_type,omitempty"`
	InStock     int         `json:"in_stock"`
	SizeMM      *string     `json:"size_mm,omitempty"`
	SizeInches  *string     `json:"size_inches,omitempty"`
	SizeXMM     *string     `json:"size_x_mm,omitempty"`
	SizeYMM     *string     `json:"size_y_mm,omitempty"`
	SizeZMM     *string     `json:"size_z_mm,omitempty"`
	SizeXInches *string     `json:"size_x_inches,omitempty"`
	SizeYInches *string     `json:"size_y_inches,omitempty"`
	SizeZInches *string     `json:"size_z_inches,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

type SupplierRelationship struct {
	ID               string      `json:"id"`
	EntryID          string      `json:"entry_id"`
	EntryKind        CatalogKind `json:"entry_kind"`
	SupplierID       string      `json:"supplier_id"`
	Link             string      `json:"link"`
	SKU              string      `json:"sku,omitempty"`
	Price            float64     `json:"price"`
	MinOrderQuantity int         `json:"min_order_quantity"`
	LeadTimeDays     *int        `json:"lead_time_days,omitempty"`
	Notes            string      `json:"notes"`
	CreatedAt        time.Time   `json:"created_at"`
}

type HistoryKind string

const (
	HistoryPrice HistoryKind = "price"
	HistoryStock HistoryKind = "stock"
)

// HistoryRecord is an append-only observation of a price or a stock level.
type HistoryRecord struct {
	ID                 string      `json:"id"`
	Kind               HistoryKind `json:"kind"`
	EntryKind          CatalogKind `json:"entry_kind"`
	EntryID            string      `json:"entry_id"`
	SupplierID         string      `json:"supplier_id"`
	Price              float64     `json:"price"`
	StockLevel         int         `json:"stock_level"`
	RecordedAt         time.Time   `json:"recorded_at"`
	Note               string      `json:"notes"`
	IsOnSale           bool        `json:"is_on_sale"`
	OriginalPrice      *float64    `json:"original_price,omitempty"`
	DiscountPercentage *float64    `json:"discount_percentage,omitempty"`
	LeadTimeDays       *int        `json:"lead_time_days,omitempty"`
}
