package core

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
)

func cachedHTMLPath(config Config, routeKey string) string {
	return filepath.Join(config.OutputDir, routeKey, "index.html")
}

func GetCachedHTML(config Config, routeKey string) ([]byte, bool) {
	content, err := os.ReadFile(cachedHTMLPath(config, routeKey))
	if err != nil {
		return nil, false
	}
	return content, true
}

// GetCachedGzipPath returns the precompressed copy of a cached page, if any.
func GetCachedGzipPath(config Config, routeKey string) (string, bool) {
	gzPath := cachedHTMLPath(config, routeKey) + ".gz"
	if _, err := os.Stat(gzPath); err != nil {
		return "", false
	}
	return gzPath, true
}

// SaveCachedHTML writes index.html and index.html.gz for routeKey. Both
// files are replaced atomically so concurrent readers never see a partial
// page.
func SaveCachedHTML(config Config, routeKey string, html []byte) error {
	htmlPath := cachedHTMLPath(config, routeKey)
	if err := os.MkdirAll(filepath.Dir(htmlPath), os.ModePerm); err != nil {
		return err
	}

	if err := writeFileAtomic(htmlPath, html); err != nil {
		return err
	}

	return writeGzip(htmlPath+".gz", html)
}

func writeGzip(path string, data []byte) error {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		gz.Close()
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}
	return writeFileAtomic(path, buf.Bytes())
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
