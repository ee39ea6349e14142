package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadJSONConfigGroupedSections(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{
		"app": {"AppPort": "9000", "JWTSecret": "filesecret", "RateLimitPerMinute": 30},
		"checkin": {"Timezone": "Asia/Makassar", "SettlementTime": "22:00"},
		"region": {"APIBase": "https://example.test/wilayah"},
		"database": {"DBHost": "db.internal", "DBName": "modentca_test"},
		"redis": {"RedisHost": "cache.internal", "RedisPort": 6380},
		"log": {"Level": "debug", "Path": "logs/test.log"}
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	var out AppConfig
	if err := loadJSONConfig(path, &out); err != nil {
		t.Fatalf("loadJSONConfig: %v", err)
	}

	if out.AppPort != "9000" || out.JWTSecret != "filesecret" || out.RateLimitPerMinute != 30 {
		t.Errorf("app section not applied: %+v", out)
	}
	if out.Timezone != "Asia/Makassar" || out.SettlementTime != "22:00" {
		t.Errorf("checkin section not applied: %+v", out)
	}
	if out.RegionAPIBase != "https://example.test/wilayah" {
		t.Errorf("region section not applied: %q", out.RegionAPIBase)
	}
	if out.DBHost != "db.internal" || out.DBName != "modentca_test" {
		t.Errorf("database section not applied: %+v", out)
	}
	if out.RedisHost != "cache.internal" || out.RedisPort != 6380 {
		t.Errorf("redis section not applied: %+v", out)
	}
	if out.LogLevel != "debug" || out.LogPath != "logs/test.log" {
		t.Errorf("log section not applied: %+v", out)
	}
}

func TestLoadJSONConfigFlatKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{"AppPort": "8090", "Timezone": "Asia/Jayapura", "SettlementTime": "21:15", "DBUser": "svc"}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	var out AppConfig
	if err := loadJSONConfig(path, &out); err != nil {
		t.Fatalf("loadJSONConfig: %v", err)
	}

	if out.AppPort != "8090" || out.Timezone != "Asia/Jayapura" || out.SettlementTime != "21:15" || out.DBUser != "svc" {
		t.Errorf("flat keys not applied: %+v", out)
	}
}

func TestLoadJSONConfigMissingFileIsIgnored(t *testing.T) {
	var out AppConfig
	if err := loadJSONConfig(filepath.Join(t.TempDir(), "absent.json"), &out); err != nil {
		t.Fatalf("missing file should be ignored, got %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	var c AppConfig
	applyDefaults(&c)

	if c.AppPort != "8080" {
		t.Errorf("AppPort default = %q", c.AppPort)
	}
	if c.Timezone != "Asia/Jakarta" {
		t.Errorf("Timezone default = %q", c.Timezone)
	}
	if c.SettlementTime != "23:30" {
		t.Errorf("SettlementTime default = %q", c.SettlementTime)
	}
	if c.RegionAPIBase != "https://sig.bps.go.id/rest-bridging/getwilayah" {
		t.Errorf("RegionAPIBase default = %q", c.RegionAPIBase)
	}
	if c.RateLimitPerMinute != 60 {
		t.Errorf("RateLimitPerMinute default = %d", c.RateLimitPerMinute)
	}
	if len(c.AllowedOrigins) != 1 || c.AllowedOrigins[0] != "*" {
		t.Errorf("AllowedOrigins default = %v", c.AllowedOrigins)
	}
}

func TestApplyDefaultsKeepsSetValues(t *testing.T) {
	c := AppConfig{Timezone: "Asia/Makassar", SettlementTime: "20:00"}
	applyDefaults(&c)

	if c.Timezone != "Asia/Makassar" || c.SettlementTime != "20:00" {
		t.Errorf("defaults overwrote set values: %+v", c)
	}
}

func TestApplyEnvOverridesWinOverFileValues(t *testing.T) {
	t.Setenv("APP_PORT", "7070")
	t.Setenv("CHECKIN_TIMEZONE", "Asia/Pontianak")
	t.Setenv("CHECKIN_SETTLEMENT_TIME", "23:45")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.modentca.id, https://admin.modentca.id")

	c := AppConfig{AppPort: "9000", Timezone: "Asia/Jakarta", SettlementTime: "23:30"}
	applyEnvOverrides(&c)

	if c.AppPort != "7070" {
		t.Errorf("APP_PORT override not applied: %q", c.AppPort)
	}
	if c.Timezone != "Asia/Pontianak" {
		t.Errorf("CHECKIN_TIMEZONE override not applied: %q", c.Timezone)
	}
	if c.SettlementTime != "23:45" {
		t.Errorf("CHECKIN_SETTLEMENT_TIME override not applied: %q", c.SettlementTime)
	}
	want := []string{"https://app.modentca.id", "https://admin.modentca.id"}
	if len(c.AllowedOrigins) != 2 || c.AllowedOrigins[0] != want[0] || c.AllowedOrigins[1] != want[1] {
		t.Errorf("CORS_ALLOWED_ORIGINS override not applied: %v", c.AllowedOrigins)
	}
}
