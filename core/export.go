package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/encoding/json"
)

const ManifestFile = "manifest.json"

type ExportOptions struct {
	OutputDir      string
	DefaultVariant Variant
	Templates      fs.FS
	Static         fs.FS
}

type ExportedPage struct {
	Variant Variant `json:"variant"`
	Path    string  `json:"path"`
	SHA256  string  `json:"sha256"`
	Bytes   int     `json:"bytes"`
}

type Manifest struct {
	BuildID        string         `json:"buildId"`
	GeneratedAt    time.Time      `json:"generatedAt"`
	DefaultVariant Variant        `json:"defaultVariant"`
	Pages          []ExportedPage `json:"pages"`
	Assets         []string       `json:"assets"`
}

// Export renders every variant with production settings into a directory
// tree a plain static file server can host: index.html for the default
// variant, <variant>/index.html for each variant, gzip siblings, the static
// assets and a manifest.
func Export(opts ExportOptions) (Manifest, error) {
	if opts.DefaultVariant == "" {
		opts.DefaultVariant = DefaultVariant
	}

	renderer, err := NewRenderer(RendererOptions{
		Env:       "prod",
		CacheDir:  opts.OutputDir,
		Templates: opts.Templates,
		Static:    opts.Static,
	})
	if err != nil {
		return Manifest{}, err
	}

	manifest := Manifest{
		BuildID:        uuid.NewString(),
		GeneratedAt:    time.Now().UTC(),
		DefaultVariant: opts.DefaultVariant,
	}

	target := Config{OutputDir: opts.OutputDir}
	for _, v := range Variants() {
		html, err := renderer.RenderBytes(v)
		if err != nil {
			return Manifest{}, err
		}

		keys := []string{string(v)}
		if v == opts.DefaultVariant {
			keys = append(keys, "")
		}
		sum := hex.EncodeToString(sha256Sum(html))
		for _, key := range keys {
			if err := SaveCachedHTML(target, key, html); err != nil {
				return Manifest{}, fmt.Errorf("write %s: %w", v, err)
			}

			p := "/"
			if key != "" {
				p = "/" + key + "/"
			}
			manifest.Pages = append(manifest.Pages, ExportedPage{
				Variant: v,
				Path:    p,
				SHA256:  sum,
				Bytes:   len(html),
			})
		}
	}

	staticDir := filepath.Join(opts.OutputDir, "static")
	if err := copyStatic(opts.Static, staticDir); err != nil {
		return Manifest{}, err
	}
	assets, err := listAssets(staticDir)
	if err != nil {
		return Manifest{}, err
	}
	manifest.Assets = assets

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return Manifest{}, err
	}
	if err := os.WriteFile(filepath.Join(opts.OutputDir, ManifestFile), data, 0644); err != nil {
		return Manifest{}, fmt.Errorf("write manifest: %w", err)
	}

	return manifest, nil
}

func sha256Sum(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

func copyStatic(static fs.FS, targetDir string) error {
	err := fs.WalkDir(static, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		data, err := fs.ReadFile(static, p)
		if err != nil {
			return err
		}

		target := filepath.Join(targetDir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(target), os.ModePerm); err != nil {
			return err
		}
		return os.WriteFile(target, data, 0644)
	})
	if err != nil {
		return fmt.Errorf("copy static assets: %w", err)
	}
	return nil
}

// listAssets returns every file under dir as a /static/ URL, including the
// minified copies written while rendering.
func listAssets(dir string) ([]string, error) {
	var assets []string

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		assets = append(assets, "/static/"+filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list static assets: %w", err)
	}

	return assets, nil
}
