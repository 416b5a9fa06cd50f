package core

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/tdewolff/minify/v2"
	mincss "github.com/tdewolff/minify/v2/css"
	minhtml "github.com/tdewolff/minify/v2/html"
	minjs "github.com/tdewolff/minify/v2/js"
)

const layoutTemplate = "layout"

type RendererOptions struct {
	Env       string
	CacheDir  string
	Templates fs.FS
	Static    fs.FS
	// Reparse re-reads Templates on every render.
	Reparse    bool
	LiveReload bool
	ReloadPath string
}

type Renderer struct {
	opts RendererOptions

	mu   sync.RWMutex
	tmpl *template.Template
	min  *minify.M
}

type pageData struct {
	Page       Page
	LiveReload bool
	ReloadPath string
}

func NewRenderer(opts RendererOptions) (*Renderer, error) {
	if opts.Templates == nil {
		return nil, fmt.Errorf("renderer: no templates")
	}

	r := &Renderer{opts: opts, min: newPageMinifier()}

	tmpl, err := r.parse()
	if err != nil {
		return nil, err
	}
	r.tmpl = tmpl

	return r, nil
}

func newPageMinifier() *minify.M {
	m := minify.New()
	m.Add("text/html", &minhtml.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})
	m.AddFunc("text/css", mincss.Minify)
	m.AddFunc("application/javascript", minjs.Minify)
	return m
}

func (r *Renderer) funcs() template.FuncMap {
	funcs := TemplateFuncs(r.opts.Env, r.opts.CacheDir, r.opts.Static)
	// html/template escapes '+' in text; page copy is fixed and only needs
	// the markup-significant characters escaped.
	funcs["plain"] = func(s string) template.HTML {
		return template.HTML(html.EscapeString(s))
	}
	return funcs
}

func (r *Renderer) parse() (*template.Template, error) {
	tmpl, err := template.New("pipelinepage").Funcs(r.funcs()).ParseFS(r.opts.Templates, "*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if tmpl.Lookup(layoutTemplate) == nil {
		return nil, fmt.Errorf("parse templates: missing %q template", layoutTemplate)
	}
	return tmpl, nil
}

func (r *Renderer) template() (*template.Template, error) {
	if r.opts.Reparse {
		tmpl, err := r.parse()
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.tmpl = tmpl
		r.mu.Unlock()
		return tmpl, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tmpl, nil
}

// Render writes the full document for v. Nothing is written to w when
// rendering fails.
func (r *Renderer) Render(w io.Writer, v Variant) error {
	page, err := PageFor(v)
	if err != nil {
		return err
	}

	tmpl, err := r.template()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	data := pageData{
		Page:       page,
		LiveReload: r.opts.LiveReload,
		ReloadPath: r.opts.ReloadPath,
	}
	if err := tmpl.ExecuteTemplate(&buf, layoutTemplate, data); err != nil {
		return fmt.Errorf("render %s: %w", v, err)
	}

	if r.opts.Env != "prod" {
		_, err = w.Write(buf.Bytes())
		return err
	}

	var out bytes.Buffer
	if err := r.min.Minify("text/html", &out, &buf); err != nil {
		return fmt.Errorf("minify %s: %w", v, err)
	}
	_, err = w.Write(out.Bytes())
	return err
}

func (r *Renderer) RenderBytes(v Variant) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// VerifyPage reports the first piece of the variant's fixed content that is
// missing from a rendered document. List items must appear in order.
func VerifyPage(doc []byte, page Page) error {
	s := string(doc)

	for _, want := range []string{
		"<h1>" + html.EscapeString(page.Title) + "</h1>",
		"<h3>" + html.EscapeString(page.Author) + "</h3>",
		"<h4>" + html.EscapeString(page.ListHeading) + "</h4>",
	} {
		if !strings.Contains(s, want) {
			return fmt.Errorf("%s: missing %q", page.Variant, want)
		}
	}

	for _, logo := range page.Logos {
		if !strings.Contains(s, `href="`+logo.Href+`"`) || !strings.Contains(s, `alt="`+html.EscapeString(logo.Alt)+`"`) {
			return fmt.Errorf("%s: missing logo link %q", page.Variant, logo.Href)
		}
	}

	if got := strings.Count(s, "<li ") + strings.Count(s, "<li>"); got != len(page.Items) {
		return fmt.Errorf("%s: expected %d list items, found %d", page.Variant, len(page.Items), got)
	}
	offset := 0
	for _, item := range page.Items {
		want := ">" + html.EscapeString(item) + "</li>"
		i := strings.Index(s[offset:], want)
		if i < 0 {
			return fmt.Errorf("%s: missing or out of order list item %q", page.Variant, item)
		}
		offset += i + len(want)
	}

	hasDiagram := strings.Contains(s, "jenkins-pipeline.svg")
	if page.Diagram == nil {
		if hasDiagram {
			return fmt.Errorf("%s: unexpected diagram image", page.Variant)
		}
		return nil
	}
	if !hasDiagram || !strings.Contains(s, `alt="`+html.EscapeString(page.Diagram.Alt)+`"`) {
		return fmt.Errorf("%s: missing diagram image %q", page.Variant, page.Diagram.Alt)
	}

	return nil
}
