package imaging

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Storage writes processed images below a root directory.
type Storage struct {
	Root string
}

// Save writes data to <Root>/<dir>/<uuid>.jpg and returns the path relative
// to Root, using forward slashes.
func (s Storage) Save(dir string, data []byte) (string, error) {
	rel := path.Join(dir, uuid.NewString()+".jpg")
	full := filepath.Join(s.Root, filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("creating image directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("writing image: %w", err)
	}
	return rel, nil
}

// Remove deletes a previously saved image. Missing files and paths outside
// the images tree are ignored.
func (s Storage) Remove(rel string) error {
	clean := path.Clean("/" + rel)[1:]
	if !strings.HasPrefix(clean, "images/") {
		return nil
	}
	err := os.Remove(filepath.Join(s.Root, filepath.FromSlash(clean)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing image: %w", err)
	}
	return nil
}
