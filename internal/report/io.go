package report

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteTable writes the table into dir as <report id>.<format ext> and
// returns the written file name. dir is created if needed.
func WriteTable(t *Table, dir string, format Format) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	name := t.ID + "." + format.Ext()
	path := filepath.Join(dir, name)
	switch format {
	case FormatCSV:
		if err := writeCSV(t, path); err != nil {
			return "", err
		}
	case FormatArrow:
		if err := writeArrow(t, path); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("unknown report format %q", format)
	}
	return name, nil
}

// ReadTable reads a report file previously written by WriteTable. The id
// argument names the report for formats that do not store it themselves.
func ReadTable(id, path string, format Format) (*Table, error) {
	switch format {
	case FormatCSV:
		return readCSV(id, path)
	case FormatArrow:
		return readArrow(path)
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// Bundle zips the given files (paths relative to root) into zipPath. The
// archive preserves the relative paths, so the bundle mirrors the output
// directory layout.
func Bundle(root string, relPaths []string, zipPath string) error {
	f, err := os.Create(zipPath)
	if err != nil {
		return err
	}
	zw := zip.NewWriter(f)

	for _, rel := range relPaths {
		src, err := os.Open(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			f.Close()
			return fmt.Errorf("bundle %s: %w", rel, err)
		}
		w, err := zw.Create(rel)
		if err == nil {
			_, err = io.Copy(w, src)
		}
		src.Close()
		if err != nil {
			f.Close()
			return fmt.Errorf("bundle %s: %w", rel, err)
		}
	}

	if err := zw.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
