package build

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/opmodel/extpack/internal/output"
)

// clean removes a previous build directory and archive of the same target.
func clean(target Target, logger *log.Logger) error {
	for _, p := range []string{target.Dir, target.Archive} {
		if _, err := os.Lstat(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
		logger.Info("deleting", "path", p)
		if err := os.RemoveAll(p); err != nil {
			return fmt.Errorf("removing %s: %w", p, err)
		}
	}
	return nil
}

// copyFiles copies each listed file from src to dst, recreating its
// subdirectories. Copies run in list order.
func copyFiles(src, dst string, files []string, logger *log.Logger) error {
	for _, f := range files {
		if err := copyFile(filepath.Join(src, filepath.FromSlash(f)), filepath.Join(dst, filepath.FromSlash(f))); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return &MissingSourceFileError{Path: f, Cause: err}
			}
			return err
		}
		logger.Info(output.FormatFileLine(f, output.StatusCopied))
	}
	return nil
}

func copyFile(from, to string) error {
	in, err := os.Open(from)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", from)
	}

	if err := os.MkdirAll(filepath.Dir(to), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(to, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// writeFile writes data below dir, creating parent directories.
func writeFile(dir, rel string, data []byte) error {
	p := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}

// checkSources fails on the first path missing from the source tree.
func checkSources(src string, paths []string) error {
	for _, p := range paths {
		info, err := os.Stat(filepath.Join(src, filepath.FromSlash(p)))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return &MissingSourceFileError{Path: p, Cause: err}
			}
			return err
		}
		if info.IsDir() {
			return &MissingSourceFileError{Path: p, Cause: fmt.Errorf("%s is a directory", p)}
		}
	}
	return nil
}
