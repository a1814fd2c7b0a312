package config

import (
	"path/filepath"
	"testing"
)

func TestInitConfigCreatesDefaultOnFirstRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ahokeep.toml")

	cfg, err := InitConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Instance.DefaultName != "ahokeep" {
		t.Fatalf("DefaultName = %q, want ahokeep", cfg.Instance.DefaultName)
	}

	reloaded, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Store.Port != cfg.Store.Port {
		t.Fatalf("reloaded Store.Port = %d, want %d", reloaded.Store.Port, cfg.Store.Port)
	}
}

func TestUpdatePersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ahokeep.toml")
	cfg, err := InitConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	limit := 10
	if err := cfg.Update(path, &limit, nil); err != nil {
		t.Fatal(err)
	}

	reloaded, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.CLI.SuggestLimit != 10 {
		t.Fatalf("SuggestLimit after update = %d, want 10", reloaded.CLI.SuggestLimit)
	}
}
