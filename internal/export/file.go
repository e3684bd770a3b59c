package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteFile creates path with the output of write. The data goes to a temporary file next
// to path that only replaces it once write and the close succeed, so a failed export leaves
// no partial file and keeps any previous one.
func WriteFile(path string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()

	if err := write(f); err != nil {
		return errors.Join(err, f.Close())
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}

	if err := os.Chmod(f.Name(), 0o644); err != nil {
		return fmt.Errorf("setting mode of %s: %w", path, err)
	}

	if err := os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("moving export to %s: %w", path, err)
	}

	return nil
}
