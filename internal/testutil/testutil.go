package testutil

import (
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/cppla/excelanalytics/config"
	"github.com/cppla/excelanalytics/models"
	"github.com/cppla/excelanalytics/utils"
)

// TestSecret signs tokens in tests.
const TestSecret = "test-secret"

// OpenTestDB opens a private in-memory SQLite database with every model migrated.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Shared cache keeps every pooled connection on the same database; the uuid keeps tests isolated.
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := config.OpenDatabase("sqlite", dsn, "silent")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&models.User{}, &models.Upload{}, &models.Chart{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// UseTestConfig installs a config suitable for tests, applying overrides on top.
func UseTestConfig(t *testing.T, mutate func(*config.AppConfig)) config.AppConfig {
	t.Helper()
	c := config.AppConfig{
		JWTSecret:          TestSecret,
		GinMode:            "test",
		DBDriver:           "sqlite",
		RateLimitPerMinute: 10000,
		AllowedOrigins:     []string{"*"},
		LogLevel:           "silent",
	}
	if mutate != nil {
		mutate(&c)
	}
	return config.Override(c)
}

// StartRedis runs a miniredis server and points the shared client at it for the test's lifetime.
func StartRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	utils.UseRedis(client)
	t.Cleanup(func() {
		utils.UseRedis(nil)
		_ = client.Close()
	})
	return mr
}

// Token issues a signed token for the given user and role using the test secret.
func Token(t *testing.T, userID string, role models.Role) string {
	t.Helper()
	tok, err := utils.GenerateToken(userID, role)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

// Bearer sets the Authorization header on req.
func Bearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}
