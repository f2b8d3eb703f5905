package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadConfig_WithoutEnvFile(t *testing.T) {
	viper.Reset()
	t.Chdir(t.TempDir())
	t.Setenv("APP_PORT", "")
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("APP_TIMEZONE", "America/New_York")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig without .env: %v", err)
	}
	if cfg.DB.Driver != DBDriverMemory {
		t.Errorf("driver = %q, want memory", cfg.DB.Driver)
	}
	if cfg.App.Location.String() != "America/New_York" {
		t.Errorf("location = %s", cfg.App.Location)
	}
	if cfg.Lock.WaitTimeout != 5*time.Second {
		t.Errorf("lock wait = %v, want 5s", cfg.Lock.WaitTimeout)
	}
}

func TestLoadConfig_ReadsEnvFile(t *testing.T) {
	viper.Reset()
	t.Chdir(t.TempDir())
	// Empty variables count as unset, so the file values apply
	for _, key := range []string{"APP_PORT", "DB_DRIVER", "LOCK_TTL"} {
		t.Setenv(key, "")
	}
	if err := os.WriteFile(".env", []byte("APP_PORT=9090\nDB_DRIVER=memory\nLOCK_TTL=30s\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.App.Port != "9090" {
		t.Errorf("port = %q, want 9090", cfg.App.Port)
	}
	if cfg.Lock.TTL != 30*time.Second {
		t.Errorf("lock ttl = %v, want 30s", cfg.Lock.TTL)
	}
}

func TestLoadConfig_RejectsUnknownDriver(t *testing.T) {
	viper.Reset()
	t.Chdir(t.TempDir())
	t.Setenv("DB_DRIVER", "sqlite")

	if _, err := LoadConfig(); err == nil {
		t.Error("expected error for unsupported driver")
	}
}
