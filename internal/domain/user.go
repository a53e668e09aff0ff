package domain

import "time"

const (
	RoleVisitor  = "visitor"
	RoleMerchant = "merchant"
	RoleAdmin    = "admin"
)

// User authenticated account, distinct from the Store it may own
type User struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	Email        string     `gorm:"uniqueIndex;size:128" json:"email"`
	Password     string     `gorm:"size:128" json:"-"`
	FullName     string     `gorm:"size:200" json:"full_name"`
	Role         string     `gorm:"size:16" json:"role"`
	ResetToken   string     `gorm:"index;size:64" json:"-"`
	ResetExpires *time.Time `json:"-"`
	LastLogin    *time.Time `json:"last_login"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName Specify table name
func (User) TableName() string {
	return "users"
}
