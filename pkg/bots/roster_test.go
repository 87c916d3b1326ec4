package bots

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultRoster(t *testing.T) {
	roster, err := Load("")
	if err != nil {
		t.Fatalf("Expected default roster, got %v", err)
	}
	if len(roster.Bots) == 0 {
		t.Fatal("Default roster must not be empty")
	}
	if _, ok := roster.Get("clara"); !ok {
		t.Error("Default roster should include clara")
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bots.json")
	content := `{"bots": [{"id": "ana", "name": "Ana", "primary_color": "#000000"}]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	roster, err := Load(path)
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	bot, ok := roster.Get("ana")
	if !ok {
		t.Fatal("Expected bot ana in roster")
	}
	if bot.Name != "Ana" || bot.PrimaryColor != "#000000" {
		t.Errorf("Unexpected bot %+v", bot)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "no-existe.json")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bots.json")
	if err := os.WriteFile(path, []byte("{no es json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected an error for malformed JSON")
	}
}

func TestLoad_EmptyRoster(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bots.json")
	if err := os.WriteFile(path, []byte(`{"bots": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected an error for a roster with no bots")
	}
}

func TestRoster_GetUnknown(t *testing.T) {
	roster, _ := Load("")
	if _, ok := roster.Get("desconocido"); ok {
		t.Error("Get must report absence for an unknown id")
	}
}
