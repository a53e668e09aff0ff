package domain

import "time"

const DefaultOpeningHours = "9:00 AM - 9:00 PM"

// Store is a merchant's public storefront, one per user account.
type Store struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	UserID        string    `gorm:"uniqueIndex;size:36" json:"user_id"`
	StoreName     string    `gorm:"size:200" json:"store_name"`
	Description   string    `json:"description"`
	Category      string    `gorm:"size:64" json:"category"`
	Address       string    `json:"address"`
	Latitude      *float64  `json:"latitude"`
	Longitude     *float64  `json:"longitude"`
	Landmark      string    `json:"landmark"`
	Phone         string    `gorm:"size:32" json:"phone"`
	Email         string    `gorm:"size:128" json:"email"`
	StoreImageURL string    `json:"store_image_url"`
	OpeningHours  string    `gorm:"size:64" json:"opening_hours"`
	IsOpen        bool      `json:"is_open"`
	IsActive      bool      `gorm:"index" json:"is_active"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Store) TableName() string {
	return "stores"
}
