package app

import (
	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/nashikconnect/vyapaar/config"
	"github.com/nashikconnect/vyapaar/internal/auth"
	"github.com/nashikconnect/vyapaar/internal/catalog"
	"github.com/nashikconnect/vyapaar/internal/checkout"
	"github.com/nashikconnect/vyapaar/internal/guides"
	"github.com/nashikconnect/vyapaar/internal/repository"
	"github.com/nashikconnect/vyapaar/internal/storage"
	"github.com/nashikconnect/vyapaar/internal/translate"
	"github.com/nashikconnect/vyapaar/internal/visitor"
	"github.com/nashikconnect/vyapaar/internal/voice"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SettingsProvider provides system settings access
type SettingsProvider interface {
	GetSettingsStringValue(category, key string) string
	GetSettingsInt64Value(category, key string) int64
	GetSettingsBoolValue(category, key string) bool
	SaveSettings(settings map[string]interface{}) error
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// ConfigManagerProvider provides configuration manager access
type ConfigManagerProvider interface {
	ConfigMgr() *ConfigManager
}

// ServiceProvider exposes the marketplace services to the HTTP layer
type ServiceProvider interface {
	Events() EventBus.Bus
	Repos() *repository.Repositories
	Translator() *translate.Service
	Uploader() *storage.Uploader
	Auth() *auth.Service
	Catalog() *catalog.Service
	Guides() *guides.Service
	Checkout() *checkout.Service
	Voice() *voice.Orchestrator
	Visitor() *visitor.Guide
}

// AppContext combines all provider interfaces for full application context
// Services should depend on specific providers or this combined interface
type AppContext interface {
	DBProvider
	ConfigProvider
	SettingsProvider
	SchedulerProvider
	ConfigManagerProvider
	ServiceProvider

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb()
	DropAll()
}
