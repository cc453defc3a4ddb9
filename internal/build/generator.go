// Package build writes the static preview site: one HTML page per fixture,
// an index, the token stylesheet and the tailwind theme export.
package build

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"html"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/conneroisu/showcase/internal/errors"
	"github.com/conneroisu/showcase/internal/fixtures"
	"github.com/conneroisu/showcase/internal/logging"
	"github.com/conneroisu/showcase/internal/renderer"
	"github.com/conneroisu/showcase/internal/tokens"
)

// Options configures a static build
type Options struct {
	OutputDir string
	// Clean removes the output directory before writing.
	Clean bool
	// BaseURL is used for sitemap entries. The sitemap is only written when
	// it is an absolute http(s) URL.
	BaseURL string
	// Workers bounds concurrent page renders. Zero uses runtime.NumCPU.
	Workers int
}

// Page describes one generated fixture page
type Page struct {
	Fixture     string    `json:"fixture"`
	Path        string    `json:"path"`
	Title       string    `json:"title"`
	Size        int64     `json:"size"`
	Hash        string    `json:"hash"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Result reports what a build produced
type Result struct {
	Files   []string
	Pages   []Page
	Metrics Snapshot
	// Errors holds fixtures that failed to load or render. The rest of the
	// site is still written.
	Errors *errors.ErrorCollector
}

// Generator renders fixtures into a directory
type Generator struct {
	renderer *renderer.Renderer
	tokens   tokens.Tokens
	logger   logging.Logger
	options  Options
	crcTable *crc32.Table
}

// NewGenerator creates a generator. r should be created with Static set so
// pages link to each other as files.
func NewGenerator(r *renderer.Renderer, tok tokens.Tokens, logger logging.Logger, opts Options) *Generator {
	if logger == nil {
		logger = logging.Discard()
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Generator{
		renderer: r,
		tokens:   tok,
		logger:   logger.WithComponent("build"),
		options:  opts,
		crcTable: crc32.MakeTable(crc32.Castagnoli),
	}
}

// Generate writes the site for every fixture in store. Load failures
// recorded by the store are carried into the result.
func (g *Generator) Generate(ctx context.Context, store *fixtures.Store) (*Result, error) {
	out := g.options.OutputDir
	if out == "" {
		return nil, fmt.Errorf("no output directory")
	}
	if g.options.Clean {
		if err := os.RemoveAll(out); err != nil {
			return nil, fmt.Errorf("failed to clean output directory: %w", err)
		}
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &Result{Errors: errors.NewErrorCollector()}
	for _, e := range store.Failures().Entries() {
		result.Errors.Add(e.Fixture, e.Err)
	}

	metrics := NewMetrics()
	list := store.List()
	pages := g.renderPages(ctx, list, result.Errors, metrics)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, p := range pages {
		result.Pages = append(result.Pages, p)
		result.Files = append(result.Files, filepath.Join(out, p.Path))
	}

	files, err := g.writeSupportFiles(ctx, list, result)
	if err != nil {
		return nil, err
	}
	result.Files = append(result.Files, files...)
	slices.Sort(result.Files)

	result.Metrics = metrics.Snapshot()
	return result, nil
}

// renderPages renders fixtures on a bounded pool of workers. Pages come
// back in fixture order; failed pages are left out.
func (g *Generator) renderPages(ctx context.Context, list []*fixtures.Fixture, failures *errors.ErrorCollector, metrics *Metrics) []Page {
	jobs := make(chan int)
	pages := make([]*Page, len(list))

	var wg sync.WaitGroup
	for range min(g.options.Workers, max(len(list), 1)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				start := time.Now()
				page, err := g.renderPage(ctx, list[i])
				metrics.Record(time.Since(start), err)
				if err != nil {
					g.logger.Error(ctx, err, "Page failed", "fixture", list[i].Name)
					failures.Add(filepath.Base(list[i].Path), err)
					continue
				}
				pages[i] = page
			}
		}()
	}

feed:
	for i := range list {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	out := make([]Page, 0, len(list))
	for _, p := range pages {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}

func (g *Generator) renderPage(ctx context.Context, f *fixtures.Fixture) (*Page, error) {
	var buf bytes.Buffer
	if err := g.renderer.Page(f, renderer.State{}).Render(ctx, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	title, err := PageTitle(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("parse rendered page: %w", err)
	}

	rel := f.Name + ".html"
	if err := os.WriteFile(filepath.Join(g.options.OutputDir, rel), buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write page: %w", err)
	}

	return &Page{
		Fixture:     f.Name,
		Path:        rel,
		Title:       title,
		Size:        int64(buf.Len()),
		Hash:        strconv.FormatUint(uint64(crc32.Checksum(buf.Bytes(), g.crcTable)), 16),
		GeneratedAt: time.Now(),
	}, nil
}

func (g *Generator) writeSupportFiles(ctx context.Context, list []*fixtures.Fixture, result *Result) ([]string, error) {
	var written []string
	write := func(name string, data []byte) error {
		path := filepath.Join(g.options.OutputDir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		written = append(written, path)
		return nil
	}

	// the index lists only pages that were written
	ok := make([]*fixtures.Fixture, 0, len(result.Pages))
	for _, f := range list {
		if slices.ContainsFunc(result.Pages, func(p Page) bool { return p.Fixture == f.Name }) {
			ok = append(ok, f)
		}
	}
	var index bytes.Buffer
	if err := g.renderer.Index(ok, "").Render(ctx, &index); err != nil {
		return nil, fmt.Errorf("failed to render index: %w", err)
	}
	if err := write("index.html", index.Bytes()); err != nil {
		return nil, err
	}

	if err := write("tokens.css", []byte(g.tokens.Stylesheet())); err != nil {
		return nil, err
	}
	tailwind, err := g.tokens.TailwindConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to build tailwind config: %w", err)
	}
	if err := write("tailwind.config.json", tailwind); err != nil {
		return nil, err
	}

	manifest, err := json.MarshalIndent(result.Pages, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := write("manifest.json", manifest); err != nil {
		return nil, err
	}

	if base := g.options.BaseURL; strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		if err := write("sitemap.xml", []byte(sitemap(base, result.Pages))); err != nil {
			return nil, err
		}
	}
	return written, nil
}

func sitemap(baseURL string, pages []Page) string {
	base := strings.TrimSuffix(baseURL, "/")
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	for _, p := range pages {
		b.WriteString("  <url>\n")
		fmt.Fprintf(&b, "    <loc>%s</loc>\n", html.EscapeString(base+"/"+p.Path))
		fmt.Fprintf(&b, "    <lastmod>%s</lastmod>\n", p.GeneratedAt.Format("2006-01-02"))
		b.WriteString("  </url>\n")
	}
	b.WriteString("</urlset>\n")
	return b.String()
}
