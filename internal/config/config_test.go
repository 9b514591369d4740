package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"DB_DRIVER", "DB_PORT", "OVERDUE_SWEEP_SCHEDULE", "REQUIRE_PHOTO_ON_CREATE", "IDEMPOTENCY_TTL_SECONDS"} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.DBDriver != "mysql" || c.DBPort != "3306" {
		t.Fatalf("driver/port = %s/%s", c.DBDriver, c.DBPort)
	}
	if c.OverdueSweepSchedule != "@daily" || c.RequirePhotoOnCreate || c.IdempTTLSecs != 300 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}

func TestLoad_Postgres(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_HOST", "pg")
	t.Setenv("DB_USER", "ledger")
	t.Setenv("DB_PASS", "s3cr#t")
	t.Setenv("DB_NAME", "mifi")
	t.Setenv("REQUIRE_PHOTO_ON_CREATE", "true")

	c := Load()
	if c.DBPort != "5432" {
		t.Fatalf("postgres default port = %s", c.DBPort)
	}
	if !c.RequirePhotoOnCreate {
		t.Fatal("REQUIRE_PHOTO_ON_CREATE not parsed")
	}
	dsn := c.DSN()
	if !strings.HasPrefix(dsn, "postgres://ledger:s3cr%23t@pg:5432/mifi?") || !strings.Contains(dsn, "sslmode=disable") {
		t.Fatalf("dsn = %s", dsn)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			AppPort: "8080", DBDriver: "mysql", DBHost: "h", DBPort: "3306", DBName: "d", DBUser: "u",
			JWTSecret: "x", IdempTTLSecs: 60, OverdueSweepSchedule: "@daily",
		}
	}
	if err := base().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"driver", func(c *Config) { c.DBDriver = "oracle" }},
		{"port", func(c *Config) { c.DBPort = "not-a-port" }},
		{"jwt", func(c *Config) { c.JWTSecret = "" }},
		{"ttl", func(c *Config) { c.IdempTTLSecs = 0 }},
		{"schedule", func(c *Config) { c.OverdueSweepSchedule = "every tuesday" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			if err := c.Validate(); err == nil {
				t.Fatal("want error")
			}
		})
	}
}

func TestValidateDB_IgnoresServerSettings(t *testing.T) {
	c := &Config{DBDriver: "postgres", DBHost: "h", DBPort: "5432", DBName: "d", DBUser: "u"}
	if err := c.ValidateDB(); err != nil {
		t.Fatalf("db-only config rejected: %v", err)
	}
	if err := c.Validate(); err == nil {
		t.Fatal("full validation should still require JWT_SECRET")
	}
}

func TestMySQLDSN(t *testing.T) {
	c := &Config{DBUser: "u", DBPass: "p", DBHost: "db", DBPort: "3306", DBName: "mifi", DBDriver: "mysql"}
	want := "u:p@tcp(db:3306)/mifi?multiStatements=true&parseTime=true&loc=UTC&charset=utf8mb4,utf8"
	if got := c.DSN(); got != want {
		t.Fatalf("dsn = %s", got)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "test.env")
	if err := os.WriteFile(f, []byte("MIFI_TEST_FROM_FILE=yes\nAPP_PORT=9999\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("APP_PORT", "8081")
	t.Setenv("MIFI_TEST_FROM_FILE", "")
	os.Unsetenv("MIFI_TEST_FROM_FILE")

	LoadDotEnv(f, filepath.Join(dir, "missing.env"))

	if got := os.Getenv("MIFI_TEST_FROM_FILE"); got != "yes" {
		t.Fatalf("value from file = %q", got)
	}
	if got := os.Getenv("APP_PORT"); got != "8081" {
		t.Fatalf("existing env overridden: %q", got)
	}
}
