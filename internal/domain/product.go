package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// prices travel as JSON numbers, the frontend does arithmetic on them
	decimal.MarshalJSONWithoutQuotes = true
}

// Placeholder glyphs stored in image_url when no picture was supplied
const (
	ProductFormIcon  = "📦"
	ProductVoiceIcon = "🎤"
	StoreIcon        = "🏪"
)

const DefaultCategory = "General"

// Product is a merchant catalog item.
// Rows are never hard deleted, IsActive hides them from the marketplace.
type Product struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	UserID      string          `gorm:"index;size:36" json:"user_id"`
	StoreID     *string         `gorm:"index;size:36" json:"store_id"`
	SerialNo    string          `gorm:"size:64" json:"serial_no"`
	Name        string          `gorm:"index;size:200" json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2)" json:"price"`
	Stock       int             `gorm:"default:0" json:"stock"`
	Sold        int             `gorm:"default:0" json:"sold"`
	ImageURL    string          `json:"image_url"` // URL, data URI or a single emoji
	Category    string          `gorm:"size:64" json:"category"`
	IsActive    bool            `gorm:"index" json:"is_active"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "products"
}
