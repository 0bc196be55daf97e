package browser

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// writeFileAtomic replaces path with data. The content goes to a uniquely
// named temporary file in the same directory that is then renamed over
// path, so concurrent writers never share a temporary file.
func writeFileAtomic(fs afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	name := tmp.Name()

	_, err = tmp.Write(data)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = fs.Remove(name)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := fs.Rename(name, path); err != nil {
		_ = fs.Remove(name)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
