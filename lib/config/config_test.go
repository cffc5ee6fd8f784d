package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("tolerance: \"0.01\"\ncolor: false\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)

	if err != nil {
		t.Fatalf("Load() returned error %v, want nil", err)
	}
	if want := decimal.RequireFromString("0.01"); !cfg.Tolerance.Equal(want) {
		t.Errorf("cfg.Tolerance = %s, want %s", cfg.Tolerance, want)
	}
	if cfg.Color {
		t.Errorf("cfg.Color = true, want false")
	}
}

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("color: true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)

	if err != nil {
		t.Fatalf("Load() returned error %v, want nil", err)
	}
	if want := Default().Tolerance; !cfg.Tolerance.Equal(want) {
		t.Errorf("cfg.Tolerance = %s, want the default %s", cfg.Tolerance, want)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatalf("Load() returned nil, want an error")
	}

	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("tolerance: \"abc\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("Load() returned nil, want an error")
	}
}
