package site

import (
	"io"
	"os"
	"path/filepath"
)

// CopyStatic recursively copies every file under src into dst, preserving
// the relative layout. A missing src is not an error. onCopy, when non-nil,
// is called after each file is written.
func CopyStatic(src, dst string, onCopy func(src, dst string)) (int, error) {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return 0, nil
	}

	copied := 0
	err := filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if info.IsDir() {
			return os.MkdirAll(target, 0755)
		}

		if err := copyFile(path, target, info.Mode().Perm()); err != nil {
			return err
		}
		copied++
		if onCopy != nil {
			onCopy(path, target)
		}
		return nil
	})

	return copied, err
}

func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
