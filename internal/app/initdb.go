package app

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/nashikconnect/vyapaar/internal/domain"
	"github.com/nashikconnect/vyapaar/pkg/common"
)

const (
	adminEmail           = "admin@nashikconnect.com"
	adminDefaultPassword = "vyapaar"
)

func (a *Application) checkSettings() {
	schemas, err := loadSchemas()
	if err != nil {
		zap.L().Error("failed to load config schemas from JSON", zap.Error(err))
		return
	}

	// Iterate over all configuration definitions, checking and initializing missing entries
	for sortid, schema := range schemas {
		category, name, ok := splitSettingKey(schema.Key)
		if !ok {
			zap.L().Warn("invalid config key format", zap.String("key", schema.Key))
			continue
		}

		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", category, name).
			Count(&count)
		if count > 0 {
			continue
		}
		err := a.gormDB.Create(&domain.SysConfig{
			ID:     common.UUIDint64(),
			Sort:   sortid,
			Type:   category,
			Name:   name,
			Value:  schema.Default,
			Remark: schema.Description,
		}).Error
		if err != nil {
			zap.L().Error("failed to initialize config", zap.String("key", schema.Key), zap.Error(err))
			continue
		}
		zap.L().Info("initialized config",
			zap.String("key", schema.Key),
			zap.String("default", schema.Default))
	}
}

// checkAdmin creates the administrator account, or repairs its role.
func (a *Application) checkAdmin() {
	var admin domain.User
	err := a.gormDB.Where("email = ?", adminEmail).First(&admin).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		hash, err := bcrypt.GenerateFromPassword([]byte(adminDefaultPassword), bcrypt.DefaultCost)
		if err != nil {
			zap.L().Error("failed to hash admin password", zap.Error(err))
			return
		}
		if err := a.gormDB.Create(&domain.User{
			ID:       common.UUID(),
			Email:    adminEmail,
			Password: string(hash),
			FullName: "administrator",
			Role:     domain.RoleAdmin,
		}).Error; err != nil {
			zap.L().Error("failed to create default admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default admin account", zap.String("email", adminEmail))
		}
		return
	case err != nil:
		zap.L().Error("failed to query admin", zap.Error(err))
		return
	}

	if strings.EqualFold(admin.Role, domain.RoleAdmin) {
		return
	}
	if err := a.gormDB.Model(&domain.User{}).Where("id = ?", admin.ID).Updates(map[string]interface{}{
		"role":       domain.RoleAdmin,
		"updated_at": time.Now(),
	}).Error; err != nil {
		zap.L().Error("failed to repair admin account", zap.Error(err))
		return
	}
	zap.L().Warn("repaired default admin account role", zap.String("email", adminEmail))
}

// checkDemoData seeds one merchant with a store, a few products and a guide.
func (a *Application) checkDemoData() {
	const merchantEmail = "demo.merchant@nashikconnect.com"

	var count int64
	a.gormDB.Model(&domain.User{}).Where("email = ?", merchantEmail).Count(&count)
	if count > 0 {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
	if err != nil {
		zap.L().Error("failed to hash demo password", zap.Error(err))
		return
	}

	merchant := domain.User{
		ID:       common.UUID(),
		Email:    merchantEmail,
		Password: string(hash),
		FullName: "Ramesh Kulkarni",
		Role:     domain.RoleMerchant,
	}
	store := domain.Store{
		ID:            common.UUID(),
		UserID:        merchant.ID,
		StoreName:     "Godavari Prasad Bhandar",
		Description:   "Prasad, puja samagri and local sweets near Ramkund",
		Category:      "Food",
		Address:       "Ramkund Road, Panchavati, Nashik 422003",
		Landmark:      "Opposite Ramkund",
		Phone:         "9876543210",
		StoreImageURL: domain.StoreIcon,
		OpeningHours:  domain.DefaultOpeningHours,
		IsOpen:        true,
		IsActive:      true,
	}
	products := []domain.Product{
		{Name: "Kandi Peda", Description: "Milk sweet, 250 g box", Price: decimal.NewFromInt(120), Stock: 40, Category: "Food"},
		{Name: "Rudraksha Mala", Description: "108 beads", Price: decimal.NewFromInt(350), Stock: 15, Category: "Handicrafts"},
		{Name: "Puja Thali Set", Description: "Brass thali with diya", Price: decimal.NewFromInt(850), Stock: 8, Category: "Religious Items"},
	}
	guide := domain.StudentGuide{
		ID:              common.UUID(),
		FullName:        "Aarti Deshmukh",
		Email:           "aarti.guide@nashikconnect.com",
		Phone:           "9822012345",
		CollegeName:     "KTHM College",
		Age:             21,
		StudentID:       "N-2024-017",
		DailyRate:       decimal.NewFromInt(800),
		LanguagesSpoken: datatypes.JSONSlice[string]{"Marathi", "Hindi", "English"},
		Specialization:  datatypes.JSONSlice[string]{"Temples", "Ghats"},
		Description:     "History student who grew up in Panchavati",
		IsVerified:      true,
		IsAvailable:     true,
	}

	err = a.gormDB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&merchant).Error; err != nil {
			return err
		}
		if err := tx.Create(&store).Error; err != nil {
			return err
		}
		for i := range products {
			products[i].ID = common.UUID()
			products[i].UserID = merchant.ID
			products[i].StoreID = &store.ID
			products[i].ImageURL = domain.ProductFormIcon
			products[i].IsActive = true
			if err := tx.Create(&products[i]).Error; err != nil {
				return err
			}
		}
		return tx.Create(&guide).Error
	})
	if err != nil {
		zap.L().Error("failed to seed demo data", zap.Error(err))
		return
	}
	zap.L().Info("initialized demo marketplace data", zap.String("merchant", merchantEmail))
}
