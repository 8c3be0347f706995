package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with defaults failed: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("default env = %q, want development", cfg.Env)
	}
	if !cfg.IsDev() {
		t.Error("IsDev() = false for development env")
	}
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("APP_PORT", "notaport")
	if _, err := Load(); err == nil {
		t.Error("expected error for non-numeric APP_PORT")
	}

	t.Setenv("APP_PORT", "99999")
	if _, err := Load(); err == nil {
		t.Error("expected error for out-of-range APP_PORT")
	}
}

func TestProductionRequiresPassword(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	if _, err := Load(); err == nil {
		t.Error("expected error for default password in production")
	}

	t.Setenv("POSTGRES_PASSWORD", "s3cret")
	if _, err := Load(); err != nil {
		t.Errorf("Load() failed with password set: %v", err)
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d",
	}
	want := "postgres://u:p@h:5432/d?sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
