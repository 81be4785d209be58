package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ADMIN_EMAIL", "ADMIN_PASSWORD", "SESSION_SECRET", "DB_PATH", "PORT", "ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()

	if cfg.DBPath != defaultDBPath {
		t.Fatalf("DBPath=%q, want %q", cfg.DBPath, defaultDBPath)
	}
	if cfg.Port != defaultPort {
		t.Fatalf("Port=%q, want %q", cfg.Port, defaultPort)
	}
	if len(cfg.AllowedOrigins) != len(defaultOrigins) {
		t.Fatalf("AllowedOrigins=%v, want defaults", cfg.AllowedOrigins)
	}
}

func TestLoad_ParsesAllowedOrigins(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://roi.example.com, https://admin.example.com ,")

	cfg := Load()

	want := []string{"https://roi.example.com", "https://admin.example.com"}
	if len(cfg.AllowedOrigins) != len(want) {
		t.Fatalf("AllowedOrigins=%v, want %v", cfg.AllowedOrigins, want)
	}
	for i, origin := range want {
		if cfg.AllowedOrigins[i] != origin {
			t.Fatalf("AllowedOrigins[%d]=%q, want %q", i, cfg.AllowedOrigins[i], origin)
		}
	}
}
