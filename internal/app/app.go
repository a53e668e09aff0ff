package app

import (
	"fmt"
	"os"
	"path"
	"runtime/debug"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nashikconnect/vyapaar/config"
	"github.com/nashikconnect/vyapaar/internal/auth"
	"github.com/nashikconnect/vyapaar/internal/catalog"
	"github.com/nashikconnect/vyapaar/internal/checkout"
	"github.com/nashikconnect/vyapaar/internal/domain"
	"github.com/nashikconnect/vyapaar/internal/events"
	"github.com/nashikconnect/vyapaar/internal/guides"
	"github.com/nashikconnect/vyapaar/internal/repository"
	"github.com/nashikconnect/vyapaar/internal/storage"
	"github.com/nashikconnect/vyapaar/internal/translate"
	"github.com/nashikconnect/vyapaar/internal/visitor"
	"github.com/nashikconnect/vyapaar/internal/voice"
	"github.com/nashikconnect/vyapaar/pkg/metrics"
)

type Application struct {
	appConfig     *config.AppConfig
	gormDB        *gorm.DB
	sched         *cron.Cron
	configManager *ConfigManager
	bus           EventBus.Bus
	auditor       *events.Auditor
	repos         *repository.Repositories
	translator    *translate.Service
	buckets       *storage.Buckets
	uploader      *storage.Uploader
	auth          *auth.Service
	catalog       *catalog.Service
	guides        *guides.Service
	checkout      *checkout.Service
	voice         *voice.Orchestrator
	visitor       *visitor.Guide
}

// Ensure Application implements all interfaces
var (
	_ DBProvider            = (*Application)(nil)
	_ ConfigProvider        = (*Application)(nil)
	_ SettingsProvider      = (*Application)(nil)
	_ SchedulerProvider     = (*Application)(nil)
	_ ConfigManagerProvider = (*Application)(nil)
	_ ServiceProvider       = (*Application)(nil)
	_ AppContext            = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) DB() *gorm.DB {
	return a.gormDB
}

// OverrideDB replaces the application's database handle (used in tests).
func (a *Application) OverrideDB(db *gorm.DB) {
	a.gormDB = db
}

func (a *Application) Init(cfg *config.AppConfig) {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	initLogger(cfg.Logger)

	// Initialize metrics with workdir convention
	if err := metrics.InitMetrics(cfg.System.Workdir); err != nil {
		zap.S().Warn("Failed to initialize metrics:", err)
	}

	if cfg.Database.Type == "" {
		cfg.Database.Type = "postgres"
	}
	a.gormDB = getDatabase(cfg.Database, cfg.GetDataDir())
	zap.S().Infof("Database connection successful, type: %s", cfg.Database.Type)

	// Ensure database schema is migrated before loading configs
	if err := a.MigrateDB(false); err != nil {
		zap.S().Errorf("database migration failed: %v", err)
	}

	a.checkSettings()
	a.checkAdmin()
	if cfg.System.DemoSeed {
		a.checkDemoData()
	}

	if err := a.InitServices(); err != nil {
		zap.S().Fatalf("service initialization failed: %v", err)
	}
	a.initJob()
}

func initLogger(cfg config.LogConfig) {
	var zapConfig zap.Config
	if cfg.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	// Build logger with file rotation if enabled
	var log *zap.Logger
	if cfg.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}
		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		log = zap.New(core, zap.AddCaller())
	} else {
		var err error
		log, err = zapConfig.Build(zap.AddCaller())
		if err != nil {
			panic(err)
		}
	}
	zap.ReplaceGlobals(log)
}

func getDatabase(cfg config.DBConfig, dataDir string) *gorm.DB {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if cfg.Debug {
		gcfg.Logger = logger.Default.LogMode(logger.Info)
	}

	var dialector gorm.Dialector
	switch cfg.Type {
	case "sqlite":
		dialector = sqlite.Open(path.Join(dataDir, cfg.Name+".db") + "?_busy_timeout=5000&_foreign_keys=on")
	default:
		dialector = postgres.Open(fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Passwd, cfg.Name, time.Local.String()))
	}
	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		zap.S().Fatalf("open %s database: %v", cfg.Type, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		zap.S().Fatalf("database handle: %v", err)
	}
	if cfg.Type == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxConn)
		sqlDB.SetMaxIdleConns(cfg.IdleConn)
	}
	return db
}

// InitServices wires the marketplace services over the current database.
func (a *Application) InitServices() error {
	cfg := a.appConfig
	a.configManager = NewConfigManager(a.gormDB)

	a.bus = EventBus.New()
	a.auditor = events.NewAuditor(a.gormDB, a.bus)
	if err := a.auditor.Subscribe(); err != nil {
		return err
	}
	a.repos = repository.New(a.gormDB)

	var cachePath string
	if cfg.Translate.Persist {
		cachePath = path.Join(cfg.GetDataDir(), "translations.db")
	}
	cache, err := translate.NewCache(cfg.Translate.CacheSize, time.Duration(cfg.Translate.CacheTTL)*time.Minute, cachePath)
	if err != nil {
		return err
	}
	a.translator = translate.NewService(translate.NewMicrosoftClient(cfg.Translate), cache)

	a.buckets, err = storage.Open(cfg.Storage, cfg.GetStorageDir())
	if err != nil {
		// uploads degrade to inline data URIs
		zap.L().Warn("storage unavailable", zap.Error(err), zap.String("namespace", "storage"))
	}
	a.uploader = storage.NewUploader(a.buckets, cfg.Storage.MaxSize)

	a.auth = auth.NewService(a.repos.Users, cfg.Web.Secret,
		time.Duration(cfg.Web.JwtExpire)*time.Hour, auth.NewMailer(cfg.Mail))
	a.catalog = catalog.NewService(a.repos.Stores, a.repos.Products, a.bus)
	a.guides = guides.NewService(a.repos.Guides, a.bus, time.Local)
	a.checkout = checkout.NewService(a.repos.Products, a.repos.Guides, a.configManager.CheckoutOptions)
	a.voice = voice.NewOrchestrator(a.repos.Products, a.repos.Stores,
		voice.WithOptions(a.configManager.VoiceOptions),
		voice.WithPublisher(a.bus))

	a.visitor, err = visitor.NewGuide(a.translator)
	if err != nil {
		return errors.Wrap(err, "load visitor catalog")
	}
	return nil
}

func (a *Application) MigrateDB(track bool) (err error) {
	defer func() {
		if err1 := recover(); err1 != nil {
			if os.Getenv("GO_DEGUB_TRACE") != "" {
				debug.PrintStack()
			}
			err2, ok := err1.(error)
			if ok {
				err = err2
				zap.S().Error(err2.Error())
			}
		}
	}()
	db := a.gormDB
	if track {
		db = db.Debug()
	}
	return db.Migrator().AutoMigrate(domain.Tables...)
}

func (a *Application) DropAll() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
}

// InitDb recreates every table and seeds settings and the admin account.
func (a *Application) InitDb() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
	err := a.gormDB.Migrator().AutoMigrate(domain.Tables...)
	if err != nil {
		zap.S().Error(err)
		return
	}
	a.checkSettings()
	a.checkAdmin()
	if a.configManager != nil {
		_ = a.configManager.Reload()
	}
}

// ConfigMgr returns the configuration manager
func (a *Application) ConfigMgr() *ConfigManager {
	return a.configManager
}

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

// GetSettingsStringValue retrieves a string configuration value
func (a *Application) GetSettingsStringValue(category, key string) string {
	return a.configManager.GetString(category, key)
}

// GetSettingsInt64Value retrieves an int64 configuration value
func (a *Application) GetSettingsInt64Value(category, key string) int64 {
	return a.configManager.GetInt64(category, key)
}

// GetSettingsBoolValue retrieves a boolean configuration value
func (a *Application) GetSettingsBoolValue(category, key string) bool {
	return a.configManager.GetBool(category, key)
}

// SaveSettings stores "category.name" keyed values, stopping at the first invalid one.
func (a *Application) SaveSettings(settings map[string]interface{}) error {
	for key, value := range settings {
		category, name, ok := splitSettingKey(key)
		if !ok {
			return errors.Wrap(ErrUnknownSetting, key)
		}
		if err := a.configManager.Set(category, name, fmt.Sprint(value)); err != nil {
			return err
		}
	}
	return nil
}

func (a *Application) Events() EventBus.Bus { return a.bus }
func (a *Application) Repos() *repository.Repositories { return a.repos }
func (a *Application) Translator() *translate.Service { return a.translator }
func (a *Application) Uploader() *storage.Uploader { return a.uploader }
func (a *Application) Auth() *auth.Service { return a.auth }
func (a *Application) Catalog() *catalog.Service { return a.catalog }
func (a *Application) Guides() *guides.Service { return a.guides }
func (a *Application) Checkout() *checkout.Service { return a.checkout }
func (a *Application) Voice() *voice.Orchestrator { return a.voice }
func (a *Application) Visitor() *visitor.Guide { return a.visitor }

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		<-a.sched.Stop().Done()
	}
	if a.voice != nil {
		a.voice.Shutdown()
	}
	if a.auditor != nil {
		a.auditor.Unsubscribe()
	}
	if a.translator != nil {
		_ = a.translator.Cache().Close()
	}
	_ = a.buckets.Close()
	_ = metrics.Close()
	_ = zap.L().Sync()
}
