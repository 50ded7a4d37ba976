package build_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go-sitemapgen/internal/build"
	"go-sitemapgen/internal/config"
	"go-sitemapgen/internal/model"
	"go-sitemapgen/internal/sitemap"
	"go-sitemapgen/internal/store"
)

func newConfig(t *testing.T, mutate func(c *config.Config)) *config.Config {
	t.Helper()
	c := &config.Config{BaseURL: "https://example.com/", OutputDir: t.TempDir()}
	if mutate != nil {
		mutate(c)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	return c
}

func inline(urls ...string) []config.Source {
	return []config.Source{{Type: "inline", Name: "cfg", URLs: urls}}
}

func read(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}

func TestRun_WebDedupAndDomainFilter(t *testing.T) {
	cfg := newConfig(t, func(c *config.Config) {
		c.Sources = inline("https://example.com/a", "https://example.com/b", "https://example.com/a", "https://other.org/x")
	})
	rep, err := build.New(cfg, nil, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	st := rep.Stats
	if st.Sources != 1 || st.Collected != 4 || st.Unique != 3 || st.Written != 2 || st.Skipped != 1 || st.Documents != 1 {
		t.Fatalf("stats=%+v", st)
	}
	if rep.Skipped[0].Loc != "https://other.org/x" || rep.Skipped[0].Reason != "domain mismatch" {
		t.Fatalf("skipped=%+v", rep.Skipped)
	}
	if len(rep.Files) != 1 || rep.Files[0].Name != filepath.Join(cfg.OutputDir, "sitemap.xml") {
		t.Fatalf("files=%+v", rep.Files)
	}
	if rep.Files[0].Loc != "https://example.com/sitemap.xml" || rep.Files[0].RunID != rep.Run.ID {
		t.Fatalf("file record=%+v", rep.Files[0])
	}
	if rep.Run.IndexFile != "" {
		t.Fatalf("single document should not get an index in auto mode")
	}
	doc := read(t, rep.Files[0].Name)
	if strings.Index(doc, "https://example.com/a") > strings.Index(doc, "https://example.com/b") {
		t.Fatalf("order not preserved:\n%s", doc)
	}
}

func TestRun_SplitWritesIndex(t *testing.T) {
	cfg := newConfig(t, func(c *config.Config) {
		c.MaxURLs = 2
		c.Sources = inline("https://example.com/1", "https://example.com/2", "https://example.com/3", "https://example.com/4", "https://example.com/5")
	})
	rep, err := build.New(cfg, nil, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(rep.Files) != 3 || rep.Stats.Documents != 3 {
		t.Fatalf("files=%+v", rep.Files)
	}
	for i, f := range rep.Files {
		want := "https://example.com/sitemap" + string(rune('1'+i)) + ".xml"
		if f.Loc != want {
			t.Fatalf("file %d loc=%s want=%s", i, f.Loc, want)
		}
	}
	if rep.Run.IndexFile != filepath.Join(cfg.OutputDir, sitemap.IndexFileName) {
		t.Fatalf("index=%q", rep.Run.IndexFile)
	}
	idx := read(t, rep.Run.IndexFile)
	if strings.Count(idx, "<sitemap>") != 3 || !strings.Contains(idx, "<loc>https://example.com/sitemap3.xml</loc>") {
		t.Fatalf("index:\n%s", idx)
	}
}

func TestRun_IndexModes(t *testing.T) {
	always := newConfig(t, func(c *config.Config) {
		c.Index.Mode = "always"
		c.Index.File = filepath.Join(c.OutputDir, "idx.xml")
		c.Sources = inline("https://example.com/a")
	})
	rep, err := build.New(always, nil, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rep.Run.IndexFile != always.Index.File {
		t.Fatalf("index=%q", rep.Run.IndexFile)
	}
	if !strings.Contains(read(t, always.Index.File), "<loc>https://example.com/sitemap.xml</loc>") {
		t.Fatalf("index should reference the single document")
	}

	never := newConfig(t, func(c *config.Config) {
		c.Index.Mode = "never"
		c.MaxURLs = 1
		c.Sources = inline("https://example.com/a", "https://example.com/b")
	})
	rep, err = build.New(never, nil, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rep.Run.IndexFile != "" || len(rep.Files) != 2 {
		t.Fatalf("run=%+v files=%d", rep.Run, len(rep.Files))
	}
	if _, err := os.Stat(filepath.Join(never.OutputDir, sitemap.IndexFileName)); !os.IsNotExist(err) {
		t.Fatalf("index should not exist: %v", err)
	}
}

func TestRun_DefaultsApplied(t *testing.T) {
	prio := 0.5
	cfg := newConfig(t, func(c *config.Config) {
		c.Defaults = config.Defaults{ChangeFreq: "weekly", Priority: &prio}
		c.Sources = inline("https://example.com/a")
	})
	rep, err := build.New(cfg, nil, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	doc := read(t, rep.Files[0].Name)
	if !strings.Contains(doc, "<changefreq>weekly</changefreq>") || !strings.Contains(doc, "<priority>0.5</priority>") {
		t.Fatalf("defaults missing:\n%s", doc)
	}
}

func TestRun_DryRun(t *testing.T) {
	cfg := newConfig(t, func(c *config.Config) {
		c.MaxURLs = 1
		c.Sources = inline("https://example.com/a", "https://example.com/b")
	})
	var out bytes.Buffer
	r := build.New(cfg, nil, nil)
	r.DryRun = &out
	rep, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rep.Stats.Documents != 2 || len(rep.Files) != 0 {
		t.Fatalf("stats=%+v files=%+v", rep.Stats, rep.Files)
	}
	if strings.Count(out.String(), "<urlset") != 2 {
		t.Fatalf("dry-run output:\n%s", out.String())
	}
	entries, _ := os.ReadDir(cfg.OutputDir)
	if len(entries) != 0 {
		t.Fatalf("dry run wrote %d files", len(entries))
	}
}

func TestRun_SourceFailureIsSkipped(t *testing.T) {
	cfg := newConfig(t, func(c *config.Config) {
		c.Sources = append(inline("https://example.com/a"),
			config.Source{Type: "text", Name: "broken", Path: filepath.Join(c.OutputDir, "missing.txt")})
	})
	rep, err := build.New(cfg, nil, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rep.Stats.Written != 1 || len(rep.Skipped) != 1 || rep.Skipped[0].Source != "broken" {
		t.Fatalf("report=%+v", rep)
	}
}

func TestRun_EmptyNotAllowed(t *testing.T) {
	cfg := newConfig(t, func(c *config.Config) {
		c.Sources = inline("https://other.org/a")
	})
	_, err := build.New(cfg, nil, nil).Run(context.Background())
	if !errors.Is(err, sitemap.ErrEmptyNotAllowed) {
		t.Fatalf("expect ErrEmptyNotAllowed, got %v", err)
	}
}

func TestRun_NewsFromFeed(t *testing.T) {
	dir := t.TempDir()
	feed := filepath.Join(dir, "feed.xml")
	_ = os.WriteFile(feed, []byte(`<?xml version="1.0"?><rss version="2.0"><channel><title>t</title>
<item><title>Dated</title><link>https://example.com/n1</link><pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate><category>go</category></item>
<item><title>Undated</title><link>https://example.com/n2</link></item>
</channel></rss>`), 0o644)
	cfg := newConfig(t, func(c *config.Config) {
		c.Flavor = sitemap.FlavorNews
		c.News = config.News{Name: "Example Times", Language: "en"}
		c.Sources = []config.Source{{Type: "feed", Name: "rss", Path: feed}}
	})
	rep, err := build.New(cfg, nil, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rep.Stats.Written != 1 || len(rep.Skipped) != 1 || rep.Skipped[0].Loc != "https://example.com/n2" {
		t.Fatalf("report=%+v", rep)
	}
	doc := read(t, rep.Files[0].Name)
	for _, want := range []string{
		"<news:name>Example Times</news:name>",
		"<news:language>en</news:language>",
		"<news:publication_date>2006-01-02T15:04:05Z</news:publication_date>",
		"<news:title>Dated</news:title>",
		"<news:keywords>go</news:keywords>",
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("missing %s in:\n%s", want, doc)
		}
	}
}

func TestRun_ImageAndLinkFromHTML(t *testing.T) {
	dir := t.TempDir()
	html := filepath.Join(dir, "index.html")
	_ = os.WriteFile(html, []byte(`<html><head><title>Home</title>
<link rel="alternate" hreflang="de" href="https://example.com/de/"></head>
<body><img src="/a.png" alt="A"><img src="/a.png"><a href="/about">About</a></body></html>`), 0o644)
	src := []config.Source{{Type: "html", Name: "home", Path: html, URL: "https://example.com/"}}

	img := newConfig(t, func(c *config.Config) {
		c.Flavor = sitemap.FlavorImage
		c.Sources = src
	})
	rep, err := build.New(img, nil, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("image run: %v", err)
	}
	doc := read(t, rep.Files[0].Name)
	if strings.Count(doc, "<image:image>") != 1 || !strings.Contains(doc, "<image:caption>A</image:caption>") {
		t.Fatalf("image doc:\n%s", doc)
	}

	link := newConfig(t, func(c *config.Config) {
		c.Flavor = sitemap.FlavorLink
		c.Sources = src
	})
	rep, err = build.New(link, nil, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("link run: %v", err)
	}
	doc = read(t, rep.Files[0].Name)
	if !strings.Contains(doc, `hreflang="de"`) || !strings.Contains(doc, `href="https://example.com/de/"`) {
		t.Fatalf("link doc:\n%s", doc)
	}
	if rep.Stats.Written != 2 {
		t.Fatalf("written=%d want=2", rep.Stats.Written)
	}
}

func TestRun_RecordsManifest(t *testing.T) {
	st, err := store.OpenSQLite(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer st.Close()
	ctx := context.Background()
	if err := st.UpsertPage(ctx, model.Page{Loc: "https://example.com/db"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	cfg := newConfig(t, func(c *config.Config) {
		c.MaxURLs = 1
		c.Sources = append(inline("https://example.com/a"), config.Source{Type: "sqlite", Name: "db"})
	})
	rep, err := build.New(cfg, st, nil).Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	got, err := st.LatestRun(ctx)
	if err != nil {
		t.Fatalf("latest run: %v", err)
	}
	if got.ID != rep.Run.ID || got.URLs != 2 || got.IndexFile == "" || got.FinishedAt.IsZero() {
		t.Fatalf("run=%+v", got)
	}
	files, err := st.ListFiles(ctx, got.ID)
	if err != nil {
		t.Fatalf("list files: %v", err)
	}
	if len(files) != 2 || files[1].Loc != "https://example.com/sitemap2.xml" {
		t.Fatalf("files=%+v", files)
	}
}

func TestRun_SyncsPageTable(t *testing.T) {
	st, err := store.OpenSQLite(filepath.Join(t.TempDir(), "pages.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer st.Close()
	ctx := context.Background()
	for _, loc := range []string{"https://example.com/db", "https://other.org/x"} {
		if err := st.UpsertPage(ctx, model.Page{Loc: loc}); err != nil {
			t.Fatalf("upsert %s: %v", loc, err)
		}
	}
	cfg := newConfig(t, func(c *config.Config) {
		c.Sources = append(inline("https://example.com/a"), config.Source{Type: "sqlite", Name: "db"})
	})

	// 预演不改动页面表
	r := build.New(cfg, st, nil)
	r.DryRun = &bytes.Buffer{}
	if _, err := r.Run(ctx); err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if pages, _ := st.ListPages(ctx); len(pages) != 2 {
		t.Fatalf("dry run touched pages: %+v", pages)
	}

	if _, err := build.New(cfg, st, nil).Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	pages, err := st.ListPages(ctx)
	if err != nil {
		t.Fatalf("list pages: %v", err)
	}
	got := make([]string, 0, len(pages))
	for _, p := range pages {
		got = append(got, p.Loc)
	}
	want := "https://example.com/db,https://example.com/a"
	if strings.Join(got, ",") != want {
		t.Fatalf("pages=%v want %s", got, want)
	}
}
