package app

import (
	_ "embed"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nashikconnect/vyapaar/internal/checkout"
	"github.com/nashikconnect/vyapaar/internal/domain"
	"github.com/nashikconnect/vyapaar/internal/voice"
	"github.com/nashikconnect/vyapaar/pkg/common"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

//go:embed settings_schemas.json
var configSchemasData []byte

var (
	ErrUnknownSetting = errors.New("unknown setting")
	ErrInvalidSetting = errors.New("invalid setting value")
)

// ConfigSchema describes one runtime setting stored in sys_config
type ConfigSchema struct {
	Key         string `json:"key"`
	Type        string `json:"type"`
	Default     string `json:"default"`
	Description string `json:"description"`
}

type ConfigSchemasJSON struct {
	Schemas []ConfigSchema `json:"schemas"`
}

func loadSchemas() ([]ConfigSchema, error) {
	var data ConfigSchemasJSON
	if err := json.Unmarshal(configSchemasData, &data); err != nil {
		return nil, errors.Wrap(err, "decode config schemas")
	}
	return data.Schemas, nil
}

// ConfigManager caches sys_config rows and falls back to schema defaults.
type ConfigManager struct {
	db      *gorm.DB
	mu      sync.RWMutex
	values  map[string]string
	schemas map[string]ConfigSchema
}

func NewConfigManager(db *gorm.DB) *ConfigManager {
	m := &ConfigManager{db: db, values: map[string]string{}, schemas: map[string]ConfigSchema{}}
	schemas, err := loadSchemas()
	if err != nil {
		zap.L().Error("failed to load config schemas", zap.Error(err))
	}
	for _, s := range schemas {
		m.schemas[s.Key] = s
	}
	if err := m.Reload(); err != nil {
		zap.L().Error("failed to load settings", zap.Error(err))
	}
	return m
}

// Reload re-reads every row of sys_config.
func (m *ConfigManager) Reload() error {
	var rows []domain.SysConfig
	if err := m.db.Find(&rows).Error; err != nil {
		return err
	}
	values := make(map[string]string, len(rows))
	for _, r := range rows {
		values[r.Type+"."+r.Name] = r.Value
	}
	m.mu.Lock()
	m.values = values
	m.mu.Unlock()
	return nil
}

func (m *ConfigManager) Get(category, name string) string {
	key := category + "." + name
	m.mu.RLock()
	v, ok := m.values[key]
	m.mu.RUnlock()
	if ok {
		return v
	}
	return m.schemas[key].Default
}

func (m *ConfigManager) GetString(category, name string) string {
	return m.Get(category, name)
}

func (m *ConfigManager) GetInt(category, name string) int {
	return cast.ToInt(m.Get(category, name))
}

func (m *ConfigManager) GetInt64(category, name string) int64 {
	return cast.ToInt64(m.Get(category, name))
}

func (m *ConfigManager) GetBool(category, name string) bool {
	return cast.ToBool(m.Get(category, name))
}

// Set validates value against the schema type and stores it.
func (m *ConfigManager) Set(category, name, value string) error {
	key := category + "." + name
	schema, ok := m.schemas[key]
	if !ok {
		return errors.Wrap(ErrUnknownSetting, key)
	}
	if err := checkType(schema.Type, value); err != nil {
		return errors.Wrapf(ErrInvalidSetting, "%s: %v", key, err)
	}

	var row domain.SysConfig
	err := m.db.Where("type = ? and name = ?", category, name).First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		err = m.db.Create(&domain.SysConfig{
			ID:     common.UUIDint64(),
			Type:   category,
			Name:   name,
			Value:  value,
			Remark: schema.Description,
		}).Error
	case err == nil:
		err = m.db.Model(&domain.SysConfig{}).Where("id = ?", row.ID).
			Updates(map[string]interface{}{"value": value, "updated_at": time.Now()}).Error
	}
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
	return nil
}

func checkType(typ, value string) error {
	var err error
	switch typ {
	case "int":
		_, err = cast.ToInt64E(value)
	case "bool":
		_, err = cast.ToBoolE(value)
	case "decimal":
		_, err = decimal.NewFromString(value)
	}
	return err
}

// Category returns every setting of a category, defaults included.
func (m *ConfigManager) Category(category string) map[string]string {
	out := map[string]string{}
	prefix := category + "."
	for key := range m.schemas {
		if strings.HasPrefix(key, prefix) {
			name := strings.TrimPrefix(key, prefix)
			out[name] = m.Get(category, name)
		}
	}
	return out
}

// All returns every known setting keyed by "category.name".
func (m *ConfigManager) All() map[string]string {
	out := make(map[string]string, len(m.schemas))
	for key := range m.schemas {
		category, name, _ := splitSettingKey(key)
		out[key] = m.Get(category, name)
	}
	return out
}

// Schemas lists the known settings sorted by key.
func (m *ConfigManager) Schemas() []ConfigSchema {
	out := make([]ConfigSchema, 0, len(m.schemas))
	for _, s := range m.schemas {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// splitSettingKey parses "category.name"
func splitSettingKey(key string) (string, string, bool) {
	parts := strings.SplitN(key, ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// Decode fills out from a category with weakly typed mapstructure decoding.
func (m *ConfigManager) Decode(category string, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook:       decimalHook,
	})
	if err != nil {
		return err
	}
	return dec.Decode(m.Category(category))
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

func decimalHook(_ reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != decimalType {
		return data, nil
	}
	return decimal.NewFromString(cast.ToString(data))
}

type voiceSettings struct {
	PlaybackDelay int
	AttachStore   bool
	MarkActive    bool
}

// VoiceOptions current settings of the voice product flow
func (m *ConfigManager) VoiceOptions() voice.Options {
	var s voiceSettings
	if err := m.Decode("voice", &s); err != nil {
		zap.L().Warn("invalid voice settings, using defaults", zap.Error(err))
		return voice.Options{Delay: voice.DefaultDelay}
	}
	return voice.Options{
		Delay:       time.Duration(s.PlaybackDelay) * time.Millisecond,
		AttachStore: s.AttachStore,
		MarkActive:  s.MarkActive,
	}
}

type checkoutSettings struct {
	DeliveryFee       decimal.Decimal
	FreeDeliveryAbove decimal.Decimal
	ProcessingDelay   int
}

// CheckoutOptions current pricing of the simulated checkout
func (m *ConfigManager) CheckoutOptions() checkout.Options {
	var s checkoutSettings
	if err := m.Decode("checkout", &s); err != nil {
		zap.L().Warn("invalid checkout settings, using defaults", zap.Error(err))
		return checkout.DefaultOptions()
	}
	return checkout.Options{
		DeliveryFee:       s.DeliveryFee,
		FreeDeliveryAbove: s.FreeDeliveryAbove,
		Delay:             time.Duration(s.ProcessingDelay) * time.Millisecond,
	}
}

// WarmTexts interface strings pre-translated by the warm-up job
func (m *ConfigManager) WarmTexts() []string {
	return common.SplitList(m.GetString("translate", "WarmTexts"))
}
