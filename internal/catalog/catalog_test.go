package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleCatalog = `
messages:
  welcome: "Welcome to the group!"
  bot_usage: "Send /help to list commands."
broadcast:
  prefix: "Partner spotlight"
  suffix: "Support our partners"
  separator: "————"
  entries:
    e1: "First entry body"
    le1_site: "https://example.com | Visit the site"
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "messages.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeCatalog(t, sampleCatalog)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if text, ok := c.Message("welcome"); !ok || text != "Welcome to the group!" {
		t.Errorf("Message(welcome) = %q, %v", text, ok)
	}
	if _, ok := c.Message("missing"); ok {
		t.Error("Message(missing) ok = true, want false")
	}
	if c.Broadcast.Prefix != "Partner spotlight" {
		t.Errorf("Broadcast.Prefix = %q", c.Broadcast.Prefix)
	}
	if c.Broadcast.Entries["e1"] != "First entry body" {
		t.Errorf("Broadcast.Entries[e1] = %q", c.Broadcast.Entries["e1"])
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/messages.yaml"); err == nil {
		t.Error("Load() should error on missing file")
	}
}

func TestLoadEmptyMessages(t *testing.T) {
	path := writeCatalog(t, "messages: {}\n")
	if _, err := Load(path); err == nil {
		t.Error("Load() should error on an empty messages section")
	}
}

func TestStoreReloadSwapsWholeSnapshot(t *testing.T) {
	path := writeCatalog(t, sampleCatalog)

	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	before := store.Current()

	updated := `
messages:
  welcome: "New welcome"
`
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		t.Fatal(err)
	}
	if err := store.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	// A handler holding the old snapshot keeps seeing a consistent old
	// catalog; new lookups see the new one.
	if text, _ := before.Message("welcome"); text != "Welcome to the group!" {
		t.Errorf("old snapshot mutated: welcome = %q", text)
	}
	if _, ok := before.Message("bot_usage"); !ok {
		t.Error("old snapshot lost a key after reload")
	}
	if text, _ := store.Message("welcome"); text != "New welcome" {
		t.Errorf("store.Message(welcome) = %q after reload", text)
	}
	if _, ok := store.Message("bot_usage"); ok {
		t.Error("store served a mix of old and new catalogs")
	}
}

func TestStoreReloadKeepsPreviousOnError(t *testing.T) {
	path := writeCatalog(t, sampleCatalog)

	store, err := NewStore(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte(":::not yaml"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := store.Reload(); err == nil {
		t.Fatal("Reload() should error on a broken file")
	}

	if text, _ := store.Message("welcome"); text != "Welcome to the group!" {
		t.Errorf("previous snapshot lost after failed reload: %q", text)
	}
}
