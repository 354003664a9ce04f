package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate runs the test from an empty directory with the given variables
// set, so no stray config file or .env leaks in.
func isolate(t *testing.T, env map[string]string) {
	t.Helper()
	t.Chdir(t.TempDir())
	for key := range defaults {
		t.Setenv(strings.ToUpper(key), "")
		os.Unsetenv(strings.ToUpper(key))
	}
	for k, v := range env {
		t.Setenv(k, v)
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t, map[string]string{"STORAGE_DRIVER": "memory"})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HttpListenAddr != ":8080" || cfg.SMTPPort != 587 || cfg.SMTPHost != "smtp.gmail.com" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.ReminderSchedule != "" || cfg.ReminderSendInterval != 0 {
		t.Errorf("unexpected reminder defaults: %+v", cfg)
	}
	if cfg.EtcdTimeout != 5*time.Second {
		t.Errorf("EtcdTimeout = %v", cfg.EtcdTimeout)
	}
	if cfg.MailEnabled() {
		t.Error("mail should be disabled without credentials")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	isolate(t, map[string]string{
		"STORAGE_DRIVER":         "mongo",
		"MONGODB_URI":            "mongodb://localhost:27017/tracker",
		"EMAIL_USER":             "me@example.com",
		"EMAIL_PASSWORD":         "app-password",
		"REMINDER_SEND_INTERVAL": "2s",
		"REMINDER_DEDUPE":        "true",
		"ETCD_ENDPOINTS":         "a:2379,b:2379",
		"LOG_LEVEL":              "debug",
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.EmailTo != "me@example.com" {
		t.Errorf("EmailTo = %q, want EMAIL_USER", cfg.EmailTo)
	}
	if !cfg.MailEnabled() || !cfg.ReminderDedupe || cfg.ReminderSendInterval != 2*time.Second {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if len(cfg.EtcdEndpoints) != 2 {
		t.Errorf("EtcdEndpoints = %v", cfg.EtcdEndpoints)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel = %v", cfg.SlogLevel())
	}
}

func TestLoadDotEnv(t *testing.T) {
	isolate(t, nil)
	files := map[string]string{
		".env.local": "CRON_SECRET=from-local\n",
		".env":       "CRON_SECRET=from-env\nSTORAGE_DRIVER=memory\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(".", name), []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CronSecret != "from-local" {
		t.Errorf("CronSecret = %q, want .env.local to win", cfg.CronSecret)
	}
	if cfg.StorageDriver != DriverMemory {
		t.Errorf("StorageDriver = %q", cfg.StorageDriver)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"mongo without uri", Config{StorageDriver: DriverMongo}, ErrMissingMongoURI},
		{"unknown driver", Config{StorageDriver: "sqlite"}, ErrUnknownDriver},
		{"memory", Config{StorageDriver: DriverMemory}, nil},
		{"etcd", Config{StorageDriver: DriverEtcd, EtcdEndpoints: []string{"localhost:2379"}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}

	bad := Config{StorageDriver: DriverMemory, Timezone: "Mars/Olympus"}
	if err := bad.Validate(); err == nil {
		t.Error("expected an error for an unknown time zone")
	}
}
