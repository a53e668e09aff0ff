package config

import (
	"os"
	"path"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// DBConfig Database config
type DBConfig struct {
	Type     string `yaml:"type"` // postgres or sqlite
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Passwd   string `yaml:"passwd"`
	MaxConn  int    `yaml:"max_conn"`
	IdleConn int    `yaml:"idle_conn"`
	Debug    bool   `yaml:"debug"`
}

// SysConfig System Configuration
type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
	DemoSeed bool   `yaml:"demo_seed"`
}

// WebConfig Web server configuration
type WebConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Secret    string `yaml:"secret"`
	JwtExpire int    `yaml:"jwt_expire"` // hours
}

// LogConfig logging configuration
type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

// TranslateConfig Microsoft Translator settings and cache policy
type TranslateConfig struct {
	Endpoint      string   `yaml:"endpoint"`
	Key           string   `yaml:"key"`
	Region        string   `yaml:"region"`
	Timeout       int      `yaml:"timeout"` // seconds
	CacheSize     int      `yaml:"cache_size"`
	CacheTTL      int      `yaml:"cache_ttl"` // minutes
	Persist       bool     `yaml:"persist"`
	WarmLanguages []string `yaml:"warm_languages"`
}

// StorageConfig object storage for uploaded images
type StorageConfig struct {
	Driver     string   `yaml:"driver"` // local or sftp
	PublicURL  string   `yaml:"public_url"`
	Buckets    []string `yaml:"buckets"`
	MaxSize    int64    `yaml:"max_size"` // bytes
	SftpHost   string   `yaml:"sftp_host"`
	SftpPort   int      `yaml:"sftp_port"`
	SftpUser   string   `yaml:"sftp_user"`
	SftpPasswd string   `yaml:"sftp_passwd"`
	SftpRoot   string   `yaml:"sftp_root"`
}

// MailConfig SMTP settings used for password reset mails
type MailConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	User   string `yaml:"user"`
	Passwd string `yaml:"passwd"`
	From   string `yaml:"from"`
}

// AppConfig application configuration
type AppConfig struct {
	System    SysConfig       `yaml:"system"`
	Web       WebConfig       `yaml:"web"`
	Database  DBConfig        `yaml:"database"`
	Logger    LogConfig       `yaml:"logger"`
	Translate TranslateConfig `yaml:"translate"`
	Storage   StorageConfig   `yaml:"storage"`
	Mail      MailConfig      `yaml:"mail"`
}

func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	return path.Join(c.System.Workdir, "data")
}

func (c *AppConfig) GetStorageDir() string {
	return path.Join(c.System.Workdir, "storage")
}

func (c *AppConfig) initDirs() {
	_ = os.MkdirAll(c.GetLogDir(), 0o750)
	_ = os.MkdirAll(c.GetDataDir(), 0o750)
	_ = os.MkdirAll(c.GetStorageDir(), 0o750)
}

func setEnvValue(name string, val *string) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		*val = evalue
	}
}

func setEnvBoolValue(name string, val *bool) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		*val = cast.ToBool(evalue)
	}
}

func setEnvIntValue(name string, val *int) {
	var evalue = os.Getenv(name)
	if evalue == "" {
		return
	}
	if p, err := cast.ToIntE(evalue); err == nil {
		*val = p
	}
}

func setEnvListValue(name string, val *[]string) {
	var evalue = os.Getenv(name)
	if evalue == "" {
		return
	}
	var items []string
	for _, s := range strings.Split(evalue, ",") {
		if s = strings.TrimSpace(s); s != "" {
			items = append(items, s)
		}
	}
	*val = items
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "Vyapaar",
		Location: "Asia/Kolkata",
		Workdir:  "/var/vyapaar",
		Debug:    true,
	},
	Web: WebConfig{
		Host:      "0.0.0.0",
		Port:      8080,
		Secret:    "9b6de5cc-0731-4e2f-8f6a-3c1d8b7a1f52",
		JwtExpire: 72,
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "vyapaar",
		User:     "postgres",
		Passwd:   "myroot",
		MaxConn:  100,
		IdleConn: 10,
		Debug:    false,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/vyapaar/logs/vyapaar.log",
	},
	Translate: TranslateConfig{
		Endpoint:  "https://api.cognitive.microsofttranslator.com",
		Region:    "global",
		Timeout:   10,
		CacheSize: 20000,
		CacheTTL:  24 * 60,
		Persist:   false,
	},
	Storage: StorageConfig{
		Driver:    "local",
		PublicURL: "/storage",
		Buckets:   []string{"product-images", "store-images"},
		MaxSize:   5 * 1024 * 1024,
		SftpPort:  22,
		SftpRoot:  "/srv/vyapaar",
	},
	Mail: MailConfig{
		Port: 587,
		From: "no-reply@nashikconnect.com",
	},
}

// LoadConfig reads the YAML file when present, then applies VYAPAAR_* overrides.
func LoadConfig(cfile string) *AppConfig {
	// Use the default configuration when no file is given
	if cfile == "" {
		cfile = "vyapaar.yml"
	}
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if _, err := os.Stat(cfile); err == nil {
		data, err := os.ReadFile(cfile) //nolint:gosec // G304: path is operator supplied
		if err != nil {
			panic(err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			panic(err)
		}
	}

	setEnvValue("VYAPAAR_SYSTEM_WORKER_DIR", &cfg.System.Workdir)
	setEnvValue("VYAPAAR_SYSTEM_LOCATION", &cfg.System.Location)
	setEnvBoolValue("VYAPAAR_SYSTEM_DEBUG", &cfg.System.Debug)
	setEnvBoolValue("VYAPAAR_SYSTEM_DEMO_SEED", &cfg.System.DemoSeed)

	setEnvValue("VYAPAAR_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("VYAPAAR_WEB_PORT", &cfg.Web.Port)
	setEnvValue("VYAPAAR_WEB_SECRET", &cfg.Web.Secret)
	setEnvIntValue("VYAPAAR_WEB_JWT_EXPIRE", &cfg.Web.JwtExpire)

	setEnvValue("VYAPAAR_DB_TYPE", &cfg.Database.Type)
	setEnvValue("VYAPAAR_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("VYAPAAR_DB_PORT", &cfg.Database.Port)
	setEnvValue("VYAPAAR_DB_NAME", &cfg.Database.Name)
	setEnvValue("VYAPAAR_DB_USER", &cfg.Database.User)
	setEnvValue("VYAPAAR_DB_PWD", &cfg.Database.Passwd)
	setEnvBoolValue("VYAPAAR_DB_DEBUG", &cfg.Database.Debug)

	setEnvValue("VYAPAAR_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("VYAPAAR_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)

	setEnvValue("VYAPAAR_TRANSLATOR_ENDPOINT", &cfg.Translate.Endpoint)
	setEnvValue("VYAPAAR_TRANSLATOR_KEY", &cfg.Translate.Key)
	setEnvValue("VYAPAAR_TRANSLATOR_REGION", &cfg.Translate.Region)
	setEnvIntValue("VYAPAAR_TRANSLATOR_CACHE_SIZE", &cfg.Translate.CacheSize)
	setEnvIntValue("VYAPAAR_TRANSLATOR_CACHE_TTL", &cfg.Translate.CacheTTL)
	setEnvBoolValue("VYAPAAR_TRANSLATOR_PERSIST", &cfg.Translate.Persist)
	setEnvListValue("VYAPAAR_TRANSLATOR_WARM_LANGUAGES", &cfg.Translate.WarmLanguages)

	setEnvValue("VYAPAAR_STORAGE_DRIVER", &cfg.Storage.Driver)
	setEnvValue("VYAPAAR_STORAGE_PUBLIC_URL", &cfg.Storage.PublicURL)
	setEnvValue("VYAPAAR_STORAGE_SFTP_HOST", &cfg.Storage.SftpHost)
	setEnvValue("VYAPAAR_STORAGE_SFTP_USER", &cfg.Storage.SftpUser)
	setEnvValue("VYAPAAR_STORAGE_SFTP_PWD", &cfg.Storage.SftpPasswd)

	setEnvValue("VYAPAAR_MAIL_HOST", &cfg.Mail.Host)
	setEnvIntValue("VYAPAAR_MAIL_PORT", &cfg.Mail.Port)
	setEnvValue("VYAPAAR_MAIL_USER", &cfg.Mail.User)
	setEnvValue("VYAPAAR_MAIL_PWD", &cfg.Mail.Passwd)
	setEnvValue("VYAPAAR_MAIL_FROM", &cfg.Mail.From)

	cfg.initDirs()
	return cfg
}
