package sources

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// SnapshotDir copies the directory tree at src into a fresh temp directory
// and returns its path plus a cleanup function. Used by lock-holding
// directory stores (LevelDB) so the reader never opens the live path.
func SnapshotDir(src string) (snapshotPath string, cleanup func(), err error) {
	tmp, err := os.MkdirTemp("", "aicf-snapshot-*")
	if err != nil {
		return "", nil, fmt.Errorf("creating snapshot dir: %w", err)
	}
	cleanup = func() { os.RemoveAll(tmp) }

	if err := copyTree(src, tmp); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("copying %s to snapshot: %w", src, err)
	}

	return tmp, cleanup, nil
}

// SnapshotFile copies the single file at src into a fresh temp file with
// the same base name and returns its path plus a cleanup function. Used by
// lock-holding single-file stores (SQLite).
func SnapshotFile(src string) (snapshotPath string, cleanup func(), err error) {
	tmpDir, err := os.MkdirTemp("", "aicf-snapshot-*")
	if err != nil {
		return "", nil, fmt.Errorf("creating snapshot dir: %w", err)
	}
	cleanup = func() { os.RemoveAll(tmpDir) }

	dst := filepath.Join(tmpDir, filepath.Base(src))
	if err := copyFile(src, dst); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("copying %s to snapshot: %w", src, err)
	}

	return dst, cleanup, nil
}

func copyTree(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if info.IsDir() {
			return os.MkdirAll(target, info.Mode())
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
