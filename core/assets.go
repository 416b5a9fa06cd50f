package core

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Masterminds/sprig/v3"
	"github.com/tdewolff/minify/v2"
	mincss "github.com/tdewolff/minify/v2/css"
	minjs "github.com/tdewolff/minify/v2/js"
	minsvg "github.com/tdewolff/minify/v2/svg"
)

var assetMediaTypes = map[string]string{
	".css": "text/css",
	".js":  "application/javascript",
	".svg": "image/svg+xml",
}

// minified remembers the output of each (cacheDir, asset) pair. An entry is
// only trusted while its file is still on disk.
var minified sync.Map

type minifiedAsset struct {
	url  string
	file string
}

func newAssetMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", mincss.Minify)
	m.AddFunc("application/javascript", minjs.Minify)
	m.AddFunc("image/svg+xml", minsvg.Minify)
	return m
}

func shortHash(content []byte) string {
	sum := md5.Sum(content)
	return hex.EncodeToString(sum[:])[:6]
}

// MinifyAsset minifies a /static/ asset into cacheDir/static in prod and
// returns the versioned URL of the minified copy. Outside prod, or on any
// failure, the original path is returned.
func MinifyAsset(env, assetPath, cacheDir string, static fs.FS) string {
	if env != "prod" {
		return assetPath
	}

	ext := path.Ext(assetPath)
	name := strings.TrimSuffix(path.Base(assetPath), ext)

	mediaType, ok := assetMediaTypes[ext]
	if !ok || strings.Contains(name, ".min") {
		return assetPath
	}

	key := cacheDir + "\x00" + assetPath
	if cached, ok := minified.Load(key); ok {
		entry := cached.(minifiedAsset)
		if _, err := os.Stat(entry.file); err == nil {
			return entry.url
		}
		minified.Delete(key)
	}

	original, err := fs.ReadFile(static, strings.TrimPrefix(assetPath, "/static/"))
	if err != nil {
		return assetPath
	}

	var buf bytes.Buffer
	if err := newAssetMinifier().Minify(mediaType, &buf, bytes.NewReader(original)); err != nil {
		return assetPath
	}
	out := buf.Bytes()

	minPath := filepath.Join(cacheDir, "static", fmt.Sprintf("%s.min%s", name, ext))
	if err := os.MkdirAll(filepath.Dir(minPath), os.ModePerm); err != nil {
		return assetPath
	}
	if err := writeFileAtomic(minPath, out); err != nil {
		return assetPath
	}
	if err := writeGzip(minPath+".gz", out); err != nil {
		return assetPath
	}

	result := fmt.Sprintf("/static/%s.min%s?v=%s", name, ext, shortHash(out))
	minified.Store(key, minifiedAsset{url: result, file: minPath})
	return result
}

// VersionedAsset appends a content hash to a /static/ path, looking in the
// embedded assets first and the cache directory second.
func VersionedAsset(assetPath, cacheDir string, static fs.FS) string {
	if !strings.HasPrefix(assetPath, "/static/") {
		return assetPath
	}

	rel := strings.TrimPrefix(assetPath, "/static/")
	if content, err := fs.ReadFile(static, rel); err == nil {
		return fmt.Sprintf("/static/%s?v=%s", rel, shortHash(content))
	}
	if content, err := os.ReadFile(filepath.Join(cacheDir, "static", filepath.FromSlash(rel))); err == nil {
		return fmt.Sprintf("/static/%s?v=%s", rel, shortHash(content))
	}

	return assetPath
}

// TemplateFuncs is sprig's HTML function map plus the asset helpers.
func TemplateFuncs(env, cacheDir string, static fs.FS) template.FuncMap {
	funcs := sprig.HtmlFuncMap()

	funcs["minify"] = func(p string) string {
		return MinifyAsset(env, p, cacheDir, static)
	}
	funcs["versioned"] = func(p string) string {
		return VersionedAsset(p, cacheDir, static)
	}
	return funcs
}
