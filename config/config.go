package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// AppConfig holds environment driven configuration values.
// Sensitive data should never have defaults inside code and must be provided via env files or the environment.
type AppConfig struct {
	AppPort            string
	JWTSecret          string
	RateLimitPerMinute int
	AllowedOrigins     []string
	// Accounts
	AllowAdminRegistration bool
	AdminEmails            []string
	// Gin framework configuration
	GinMode string
	GinPath string
	// Database: driver is "mysql" or "sqlite"
	DBDriver    string
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBPath      string
	// Redis for caching, token revocation and registration guard
	RedisEnabled  bool
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
	// Uploads and charts
	MaxUploadSizeMB     int
	MaxChartDataKB      int
	UploadRetentionDays int
	// Registration security
	RegisterMaxPerIPPerDay        int
	RegisterAttemptCooldownSec    int
	RegisterFailedMaxPerIPPerHour int
	RegisterTempBanMinutes        int
}

var (
	cfg    AppConfig
	loaded bool
	mu     sync.RWMutex
)

// Load loads the application configuration. It should be called once during boot.
func Load() AppConfig {
	mu.Lock()
	defer mu.Unlock()
	if loaded {
		return cfg
	}

	// Precedence: .env -> config/config.json -> defaults -> environment variable overrides
	_ = godotenv.Load()

	var c AppConfig
	if err := loadJSONConfig(filepath.Join("config", "config.json"), &c); err != nil {
		log.Printf("ignoring invalid config/config.json: %v", err)
	}
	applyDefaults(&c)
	applyEnvOverrides(&c)

	if c.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in environment variables")
	}

	cfg = c
	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	mu.RLock()
	if loaded {
		c := cfg
		mu.RUnlock()
		return c
	}
	mu.RUnlock()
	return Load()
}

// Override replaces the cached configuration. Missing values are filled with defaults.
func Override(c AppConfig) AppConfig {
	applyDefaults(&c)
	mu.Lock()
	cfg = c
	loaded = true
	mu.Unlock()
	return c
}

// IsAdminEmail reports whether the address is configured as an administrator (case-insensitive).
func (c AppConfig) IsAdminEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	for _, e := range c.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(e), email) {
			return true
		}
	}
	return false
}

// fileConfig mirrors the grouped layout of config/config.json.
type fileConfig struct {
	App struct {
		AppPort                string
		JWTSecret              string
		RateLimitPerMinute     int
		AllowedOrigins         []string
		AllowAdminRegistration bool
		AdminEmails            []string
	} `json:"app"`
	Gin struct {
		Mode    string
		LogPath string
	} `json:"gin"`
	Database struct {
		Driver      string
		DatabaseURI string
		DBHost      string
		DBPort      string
		DBUser      string
		DBPassword  string
		DBName      string
		DBPath      string
	} `json:"database"`
	Redis struct {
		Enabled       bool
		RedisHost     string
		RedisPort     int
		RedisDB       int
		RedisPassword string
	} `json:"redis"`
	Log struct {
		Level      string
		Path       string
		MaxSizeMB  int
		MaxBackups int
		MaxAgeDays int
		Compress   bool
	} `json:"log"`
	Upload struct {
		MaxSizeMB      int
		MaxChartDataKB int
		RetentionDays  int
	} `json:"upload"`
	Register struct {
		MaxPerIPPerDay        int
		AttemptCooldownSec    int
		FailedMaxPerIPPerHour int
		TempBanMinutes        int
	} `json:"register"`
}

// loadJSONConfig reads the JSON file into out if present. A missing file is not an error.
func loadJSONConfig(path string, out *AppConfig) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var fc fileConfig
	if err := json.Unmarshal(b, &fc); err != nil {
		return err
	}

	out.AppPort = fc.App.AppPort
	out.JWTSecret = fc.App.JWTSecret
	out.RateLimitPerMinute = fc.App.RateLimitPerMinute
	out.AllowedOrigins = fc.App.AllowedOrigins
	out.AllowAdminRegistration = fc.App.AllowAdminRegistration
	out.AdminEmails = fc.App.AdminEmails

	out.GinMode = fc.Gin.Mode
	out.GinPath = fc.Gin.LogPath

	out.DBDriver = fc.Database.Driver
	out.DatabaseURI = fc.Database.DatabaseURI
	out.DBHost = fc.Database.DBHost
	out.DBPort = fc.Database.DBPort
	out.DBUser = fc.Database.DBUser
	out.DBPassword = fc.Database.DBPassword
	out.DBName = fc.Database.DBName
	out.DBPath = fc.Database.DBPath

	out.RedisEnabled = fc.Redis.Enabled
	out.RedisHost = fc.Redis.RedisHost
	out.RedisPort = fc.Redis.RedisPort
	out.RedisDB = fc.Redis.RedisDB
	out.RedisPassword = fc.Redis.RedisPassword

	out.LogLevel = fc.Log.Level
	out.LogPath = fc.Log.Path
	out.LogMaxSizeMB = fc.Log.MaxSizeMB
	out.LogMaxBackups = fc.Log.MaxBackups
	out.LogMaxAgeDays = fc.Log.MaxAgeDays
	out.LogCompress = fc.Log.Compress

	out.MaxUploadSizeMB = fc.Upload.MaxSizeMB
	out.MaxChartDataKB = fc.Upload.MaxChartDataKB
	out.UploadRetentionDays = fc.Upload.RetentionDays

	out.RegisterMaxPerIPPerDay = fc.Register.MaxPerIPPerDay
	out.RegisterAttemptCooldownSec = fc.Register.AttemptCooldownSec
	out.RegisterFailedMaxPerIPPerHour = fc.Register.FailedMaxPerIPPerHour
	out.RegisterTempBanMinutes = fc.Register.TempBanMinutes
	return nil
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "5000"
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 120
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.DBDriver == "" {
		c.DBDriver = "mysql"
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		c.DBPort = "3306"
	}
	if c.DBUser == "" {
		c.DBUser = "root"
	}
	if c.DBName == "" {
		c.DBName = "excel_analytics"
	}
	if c.DBPath == "" {
		c.DBPath = "data/excel_analytics.db"
	}
	if c.RedisHost == "" {
		c.RedisHost = "127.0.0.1"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
	if c.MaxUploadSizeMB == 0 {
		c.MaxUploadSizeMB = 10
	}
	if c.MaxChartDataKB == 0 {
		c.MaxChartDataKB = 1024
	}
	if c.RegisterMaxPerIPPerDay == 0 {
		c.RegisterMaxPerIPPerDay = 5
	}
	if c.RegisterAttemptCooldownSec == 0 {
		c.RegisterAttemptCooldownSec = 10
	}
	if c.RegisterFailedMaxPerIPPerHour == 0 {
		c.RegisterFailedMaxPerIPPerHour = 20
	}
	if c.RegisterTempBanMinutes == 0 {
		c.RegisterTempBanMinutes = 60
	}
}

type envBinding struct {
	key   string
	apply func(c *AppConfig, v string)
}

func setString(field func(*AppConfig) *string) func(*AppConfig, string) {
	return func(c *AppConfig, v string) { *field(c) = v }
}

func setInt(field func(*AppConfig) *int) func(*AppConfig, string) {
	return func(c *AppConfig, v string) { *field(c) = mustParseInt(v) }
}

func setBool(field func(*AppConfig) *bool) func(*AppConfig, string) {
	return func(c *AppConfig, v string) { *field(c) = v == "true" }
}

func setList(field func(*AppConfig) *[]string) func(*AppConfig, string) {
	return func(c *AppConfig, v string) { *field(c) = splitAndTrim(v) }
}

// envBindings are applied in order, so a later key wins over an earlier one for the same field.
var envBindings = []envBinding{
	{"PORT", setString(func(c *AppConfig) *string { return &c.AppPort })},
	{"APP_PORT", setString(func(c *AppConfig) *string { return &c.AppPort })},
	{"JWT_SECRET", setString(func(c *AppConfig) *string { return &c.JWTSecret })},
	{"GIN_MODE", setString(func(c *AppConfig) *string { return &c.GinMode })},
	{"GIN_PATH", setString(func(c *AppConfig) *string { return &c.GinPath })},
	{"RATE_LIMIT_PER_MINUTE", setInt(func(c *AppConfig) *int { return &c.RateLimitPerMinute })},
	{"CORS_ALLOWED_ORIGINS", setList(func(c *AppConfig) *[]string { return &c.AllowedOrigins })},
	{"ALLOW_ADMIN_REGISTRATION", setBool(func(c *AppConfig) *bool { return &c.AllowAdminRegistration })},
	{"ADMIN_EMAILS", setList(func(c *AppConfig) *[]string { return &c.AdminEmails })},
	{"DB_DRIVER", setString(func(c *AppConfig) *string { return &c.DBDriver })},
	// MONGO_URI is still set by older deployments
	{"MONGO_URI", setString(func(c *AppConfig) *string { return &c.DatabaseURI })},
	{"DATABASE_URI", setString(func(c *AppConfig) *string { return &c.DatabaseURI })},
	{"DB_HOST", setString(func(c *AppConfig) *string { return &c.DBHost })},
	{"DB_PORT", setString(func(c *AppConfig) *string { return &c.DBPort })},
	{"DB_USER", setString(func(c *AppConfig) *string { return &c.DBUser })},
	{"DB_PASSWORD", setString(func(c *AppConfig) *string { return &c.DBPassword })},
	{"DB_NAME", setString(func(c *AppConfig) *string { return &c.DBName })},
	{"DB_PATH", setString(func(c *AppConfig) *string { return &c.DBPath })},
	{"REDIS_ENABLED", setBool(func(c *AppConfig) *bool { return &c.RedisEnabled })},
	{"REDIS_HOST", setString(func(c *AppConfig) *string { return &c.RedisHost })},
	{"REDIS_PORT", setInt(func(c *AppConfig) *int { return &c.RedisPort })},
	{"REDIS_DB", setInt(func(c *AppConfig) *int { return &c.RedisDB })},
	{"REDIS_PASSWORD", setString(func(c *AppConfig) *string { return &c.RedisPassword })},
	{"LOG_LEVEL", setString(func(c *AppConfig) *string { return &c.LogLevel })},
	{"LOG_PATH", setString(func(c *AppConfig) *string { return &c.LogPath })},
	{"LOG_MAX_SIZE_MB", setInt(func(c *AppConfig) *int { return &c.LogMaxSizeMB })},
	{"LOG_MAX_BACKUPS", setInt(func(c *AppConfig) *int { return &c.LogMaxBackups })},
	{"LOG_MAX_AGE_DAYS", setInt(func(c *AppConfig) *int { return &c.LogMaxAgeDays })},
	{"LOG_COMPRESS", setBool(func(c *AppConfig) *bool { return &c.LogCompress })},
	{"MAX_UPLOAD_SIZE_MB", setInt(func(c *AppConfig) *int { return &c.MaxUploadSizeMB })},
	{"MAX_CHART_DATA_KB", setInt(func(c *AppConfig) *int { return &c.MaxChartDataKB })},
	{"UPLOAD_RETENTION_DAYS", setInt(func(c *AppConfig) *int { return &c.UploadRetentionDays })},
	{"REGISTER_MAX_PER_IP_PER_DAY", setInt(func(c *AppConfig) *int { return &c.RegisterMaxPerIPPerDay })},
	{"REGISTER_ATTEMPT_COOLDOWN_SEC", setInt(func(c *AppConfig) *int { return &c.RegisterAttemptCooldownSec })},
	{"REGISTER_FAILED_MAX_PER_IP_PER_HOUR", setInt(func(c *AppConfig) *int { return &c.RegisterFailedMaxPerIPPerHour })},
	{"REGISTER_TEMP_BAN_MINUTES", setInt(func(c *AppConfig) *int { return &c.RegisterTempBanMinutes })},
}

// applyEnvOverrides maps known environment variables onto config values when present.
func applyEnvOverrides(c *AppConfig) {
	for _, b := range envBindings {
		if v := os.Getenv(b.key); v != "" {
			b.apply(c, v)
		}
	}
}

func mustParseInt(val string) int {
	i, err := strconv.Atoi(val)
	if err != nil {
		log.Fatalf("invalid integer value %s: %v", val, err)
	}
	return i
}

func splitAndTrim(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
