package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/storage"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if cfg.StoragePath() != filepath.Join(".formbuilder", "forms") {
		t.Fatalf("unexpected default path %q", cfg.StoragePath())
	}
}

func TestLoad_OverlaysYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "formbuilder.yaml")
	content := `storage:
  driver: sqlite
  key: draft
  busy_timeout: 2s
  file_mode: "0600"
log:
  level: debug
  development: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Driver() != storage.DriverSQLite || cfg.Storage.Key != "draft" {
		t.Fatalf("unexpected storage config %+v", cfg.Storage)
	}
	if cfg.Storage.Table != "kv" {
		t.Fatalf("unset fields should keep defaults, got table %q", cfg.Storage.Table)
	}
	if cfg.StoragePath() != filepath.Join(".formbuilder", "forms.db") {
		t.Fatalf("unexpected sqlite default path %q", cfg.StoragePath())
	}

	opts := storage.NewOptions(cfg.StorageOptions()...)
	if opts.BusyTimeout != 2*time.Second || opts.Table != "kv" || opts.FileMode != 0o600 {
		t.Fatalf("unexpected storage options %+v", opts)
	}
	if !cfg.Log.Development || cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log config %+v", cfg.Log)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FORMBUILDER_STORAGE_DRIVER", "memory")
	t.Setenv("FORMBUILDER_STORAGE_KEY", "other")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Driver() != storage.DriverMemory || cfg.Storage.Key != "other" {
		t.Fatalf("env overrides not applied: %+v", cfg.Storage)
	}
}

func TestLoad_RejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"unknown driver": "storage:\n  driver: redis\n",
		"empty key":      "storage:\n  key: \"\"\n",
		"bad timeout":    "storage:\n  busy_timeout: soon\n",
		"bad file mode":  "storage:\n  file_mode: rw\n",
		"wide file mode": "storage:\n  file_mode: \"07777\"\n",
		"bad level":      "log:\n  level: loud\n",
		"bad yaml":       "storage: [",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "formbuilder.yaml")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Driver = "sqlite"
	cfg.Storage.Path = "forms.db"
	path := filepath.Join(t.TempDir(), "nested", "formbuilder.yaml")

	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLogger(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Development = true
	logger, err := cfg.Logger()
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	if logger.Core().Enabled(-1) {
		t.Fatalf("debug should be disabled at warn level")
	}
}
