package combine

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const manifestName = "manifest.xml"

// Read unpacks the COMBINE archive at archivePath into destDir and returns
// its parsed manifest. destDir is created if needed. Every manifest entry
// must exist in the zip; files present in the zip but absent from the
// manifest are extracted anyway (some tools omit auxiliary files from
// manifests) but do not appear in the returned Archive.
func Read(archivePath, destDir string) (*Archive, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", archivePath, err)
	}
	defer zr.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, err
	}

	var manifest []byte
	for _, f := range zr.File {
		name := normalizeLocation(f.Name)
		if name == manifestName {
			manifest, err = readZipFile(f)
			if err != nil {
				return nil, fmt.Errorf("read manifest.xml: %w", err)
			}
			continue
		}
		if f.FileInfo().IsDir() {
			continue
		}
		if err := extractZipFile(f, destDir); err != nil {
			return nil, err
		}
	}
	if manifest == nil {
		return nil, fmt.Errorf("archive %s has no manifest.xml", archivePath)
	}

	a, err := parseManifest(manifest)
	if err != nil {
		return nil, err
	}
	for _, c := range a.Contents {
		if _, err := os.Stat(filepath.Join(destDir, filepath.FromSlash(c.Location))); err != nil {
			return nil, fmt.Errorf("manifest entry %s missing from archive: %w", c.Location, err)
		}
	}
	return a, nil
}

// Write builds a COMBINE archive at archivePath from the files listed in
// a.Contents, resolved relative to srcDir. Used to assemble test fixtures
// and to repackage edited archives.
func Write(a *Archive, srcDir, archivePath string) error {
	for _, c := range a.Contents {
		if err := checkLocation(c.Location); err != nil {
			return err
		}
	}

	f, err := os.Create(archivePath)
	if err != nil {
		return err
	}
	zw := zip.NewWriter(f)

	manifest, err := encodeManifest(a)
	if err != nil {
		f.Close()
		return err
	}
	w, err := zw.Create(manifestName)
	if err != nil {
		f.Close()
		return err
	}
	if _, err := w.Write(manifest); err != nil {
		f.Close()
		return err
	}

	for _, c := range a.Contents {
		src, err := os.Open(filepath.Join(srcDir, filepath.FromSlash(c.Location)))
		if err != nil {
			f.Close()
			return fmt.Errorf("archive content %s: %w", c.Location, err)
		}
		w, err := zw.Create(c.Location)
		if err == nil {
			_, err = io.Copy(w, src)
		}
		src.Close()
		if err != nil {
			f.Close()
			return fmt.Errorf("write archive content %s: %w", c.Location, err)
		}
	}

	if err := zw.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func extractZipFile(f *zip.File, destDir string) error {
	name := normalizeLocation(f.Name)
	if err := checkLocation(name); err != nil {
		return err
	}
	// The joined path must stay inside destDir.
	dest := filepath.Join(destDir, filepath.FromSlash(name))
	if rel, err := filepath.Rel(destDir, dest); err != nil || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("unsafe archive member %q", f.Name)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
