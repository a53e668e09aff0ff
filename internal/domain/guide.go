package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// StudentGuide local student offering guided tours to visitors
type StudentGuide struct {
	ID              string                      `gorm:"primaryKey;size:36" json:"id"`
	FullName        string                      `gorm:"size:200" json:"full_name"`
	Email           string                      `gorm:"size:128" json:"email"`
	Phone           string                      `gorm:"size:32" json:"phone"`
	CollegeName     string                      `json:"college_name"`
	Age             int                         `json:"age"`
	StudentID       string                      `gorm:"size:64" json:"student_id"`
	DailyRate       decimal.Decimal             `gorm:"type:decimal(10,2)" json:"daily_rate"`
	LanguagesSpoken datatypes.JSONSlice[string] `json:"languages_spoken"`
	Specialization  datatypes.JSONSlice[string] `json:"specialization"`
	Description     string                      `json:"description"`
	IsVerified      bool                        `json:"is_verified"`
	IsAvailable     bool                        `gorm:"index" json:"is_available"`
	CreatedAt       time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}

// TableName Specify table name
func (StudentGuide) TableName() string {
	return "student_guides"
}
