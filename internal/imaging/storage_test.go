package imaging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStorageSave(t *testing.T) {
	root := t.TempDir()
	s := Storage{Root: root}

	rel, err := s.Save("images/items", []byte("jpeg bytes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(rel, "images/items/") || !strings.HasSuffix(rel, ".jpg") {
		t.Errorf("unexpected path %q", rel)
	}

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	if string(data) != "jpeg bytes" {
		t.Errorf("unexpected contents %q", data)
	}

	other, _ := s.Save("images/items", []byte("x"))
	if other == rel {
		t.Error("expected unique file names")
	}
}

func TestStorageRemove(t *testing.T) {
	root := t.TempDir()
	s := Storage{Root: root}

	rel, _ := s.Save("images/categories", []byte("x"))
	if err := s.Remove(rel); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, rel)); !os.IsNotExist(err) {
		t.Error("expected file to be removed")
	}

	// Missing files and paths outside images/ are ignored.
	if err := s.Remove(rel); err != nil {
		t.Errorf("Remove missing: %v", err)
	}
	secret := filepath.Join(root, "keep.txt")
	os.WriteFile(secret, []byte("x"), 0o644)
	if err := s.Remove("../keep.txt"); err != nil {
		t.Errorf("Remove outside: %v", err)
	}
	if _, err := os.Stat(secret); err != nil {
		t.Error("file outside images/ must not be removed")
	}
}
