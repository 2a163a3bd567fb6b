package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StorageDriver != "file" {
		t.Errorf("storage driver = %q, want file", cfg.StorageDriver)
	}
	if cfg.TicketCategory != "Tickets" {
		t.Errorf("ticket category = %q, want Tickets", cfg.TicketCategory)
	}
	if cfg.StatusChannelName != "order-status" {
		t.Errorf("status channel = %q, want order-status", cfg.StatusChannelName)
	}
	if cfg.CloseDelay != 10*time.Second {
		t.Errorf("close delay = %v, want 10s", cfg.CloseDelay)
	}
}

func TestLoadAdminIDs(t *testing.T) {
	t.Setenv("ADMIN_IDS", " 111, 222 ,,333")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"111", "222", "333"}
	if len(cfg.AdminIDs) != len(want) {
		t.Fatalf("admin ids = %v, want %v", cfg.AdminIDs, want)
	}
	for i, id := range want {
		if cfg.AdminIDs[i] != id {
			t.Fatalf("admin ids = %v, want %v", cfg.AdminIDs, want)
		}
	}
	if !cfg.IsAdmin("222") {
		t.Error("IsAdmin(222) = false")
	}
	if cfg.IsAdmin("999") {
		t.Error("IsAdmin(999) = true")
	}
}

func TestLoadCloseDelay(t *testing.T) {
	t.Setenv("CLOSE_DELAY_SECONDS", "3")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CloseDelay != 3*time.Second {
		t.Errorf("close delay = %v, want 3s", cfg.CloseDelay)
	}
}
