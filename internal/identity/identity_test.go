package identity

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := Save("  Foo@Bar.COM "); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != "foo@bar.com" {
		t.Errorf("loaded %q, want normalized foo@bar.com", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	got, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != "" {
		t.Errorf("loaded %q from empty home, want empty", got)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "commentboard")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "identity.yaml"), []byte("{not yaml"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed identity file")
	}
}

func TestSaveOverwrites(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := Save("first@example.com"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := Save("second@example.com"); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != "second@example.com" {
		t.Errorf("loaded %q, want second@example.com", got)
	}
}

func TestForget(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := Save("someone@example.com"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := Forget(); err != nil {
		t.Fatalf("forget: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != "" {
		t.Errorf("loaded %q after forget, want empty", got)
	}

	// Forgetting again is not an error.
	if err := Forget(); err != nil {
		t.Errorf("second forget: %v", err)
	}
}
