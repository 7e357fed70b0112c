package deploy

import (
	"fmt"
	"io/fs"
	"path/filepath"
)

// StagedFiles walks the staging directory and returns every regular file,
// keyed by its slash-separated path below the staging root, with a short size
// description. The result feeds output.RenderFileTree.
func StagedFiles(dir string) (map[string]string, error) {
	files := make(map[string]string)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return ioErr("walk", path, err)
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return ioErr("stat", path, err)
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = humanSize(info.Size())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
