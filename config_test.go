package threadpool_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tp "github.com/azargarov/threadpool"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFileYAML(t *testing.T) {
	path := writeConfig(t, "pool.yaml", `
pool:
  workers: 4
  name_prefix: crunch
  pin_workers: false
  retry_initial: 2ms
  retry_max: 50ms
`)

	cfg, err := tp.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	opts, err := cfg.ToOptions()
	if err != nil {
		t.Fatalf("ToOptions failed: %v", err)
	}
	if opts.Workers != 4 {
		t.Fatalf("workers = %d; want 4", opts.Workers)
	}
	if opts.NamePrefix != "crunch" {
		t.Fatalf("name prefix = %q; want crunch", opts.NamePrefix)
	}
	if opts.Retry.Initial != 2*time.Millisecond {
		t.Fatalf("retry initial = %v; want 2ms", opts.Retry.Initial)
	}
	if opts.Retry.Max != 50*time.Millisecond {
		t.Fatalf("retry max = %v; want 50ms", opts.Retry.Max)
	}
}

func TestLoadFileJSON(t *testing.T) {
	path := writeConfig(t, "pool.json",
		`{"pool": {"workers": 2, "name_prefix": "jp", "retry_initial": "1ms"}}`)

	cfg, err := tp.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	opts, err := cfg.ToOptions()
	if err != nil {
		t.Fatalf("ToOptions failed: %v", err)
	}
	if opts.Workers != 2 || opts.NamePrefix != "jp" {
		t.Fatalf("unexpected options: %+v", opts)
	}
	// Unset fields fall back to defaults.
	if opts.Retry.Max <= 0 {
		t.Fatal("retry max default not applied")
	}
}

func TestLoadFileDefaults(t *testing.T) {
	path := writeConfig(t, "pool.yml", "pool: {}\n")

	cfg, err := tp.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	opts, err := cfg.ToOptions()
	if err != nil {
		t.Fatalf("ToOptions failed: %v", err)
	}
	if opts.Workers <= 0 {
		t.Fatal("workers default not applied")
	}
	if opts.NamePrefix != tp.DefaultNamePrefix {
		t.Fatalf("name prefix = %q; want %q", opts.NamePrefix, tp.DefaultNamePrefix)
	}
}

func TestLoadFileUnsupportedFormat(t *testing.T) {
	path := writeConfig(t, "pool.toml", "workers = 4\n")
	if _, err := tp.LoadFile(path); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := tp.LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestConfigInvalidDuration(t *testing.T) {
	path := writeConfig(t, "pool.yaml", `
pool:
  retry_initial: soon
`)

	cfg, err := tp.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate accepted an invalid duration")
	}
	if _, err := cfg.ToOptions(); err == nil {
		t.Fatal("ToOptions accepted an invalid duration")
	}
}

func TestConfigNegativeWorkers(t *testing.T) {
	path := writeConfig(t, "pool.yaml", `
pool:
  workers: -1
`)

	cfg, err := tp.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate accepted negative workers")
	}
}
