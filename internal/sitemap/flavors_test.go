package sitemap_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"go-sitemapgen/internal/sitemap"
	"go-sitemapgen/internal/w3cdate"
)

const header = "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"

func renderOne[U sitemap.Entry](t *testing.T, r sitemap.Renderer[U], opts sitemap.Options, u U) string {
	t.Helper()
	if opts.BaseURL == "" {
		opts.BaseURL = base
	}
	g, err := sitemap.New(opts, r)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	if err := g.Add(u); err != nil {
		t.Fatalf("add: %v", err)
	}
	out := g.WriteAsStrings()
	if len(out) != 1 {
		t.Fatalf("docs=%d want 1", len(out))
	}
	return out[0]
}

// must 用于测试内构造条目，构造失败直接 panic 使测试失败。
func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func TestImage_Render(t *testing.T) {
	u := must(sitemap.NewImageURL(base+"/index.html",
		sitemap.Image{Loc: base + "/a.png", Caption: "A & B", Title: "t", GeoLocation: "Seattle", License: base + "/lic"},
		sitemap.Image{Loc: base + "/b.png"},
	))
	want := header +
		"<urlset xmlns=\"http://www.sitemaps.org/schemas/sitemap/0.9\" xmlns:image=\"http://www.google.com/schemas/sitemap-image/1.1\" >\n" +
		"  <url>\n" +
		"    <loc>https://www.example.com/index.html</loc>\n" +
		"    <image:image>\n" +
		"      <image:loc>https://www.example.com/a.png</image:loc>\n" +
		"      <image:caption>A &amp; B</image:caption>\n" +
		"      <image:title>t</image:title>\n" +
		"      <image:geo_location>Seattle</image:geo_location>\n" +
		"      <image:license>https://www.example.com/lic</image:license>\n" +
		"    </image:image>\n" +
		"    <image:image>\n" +
		"      <image:loc>https://www.example.com/b.png</image:loc>\n" +
		"    </image:image>\n" +
		"  </url>\n" +
		"</urlset>"
	if got := renderOne(t, sitemap.ImageRenderer, sitemap.Options{}, u); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestImage_TooManyImages(t *testing.T) {
	imgs := make([]sitemap.Image, sitemap.MaxImagesPerURL+1)
	for i := range imgs {
		imgs[i] = sitemap.Image{Loc: base + "/i.png"}
	}
	if _, err := sitemap.NewImageURL(base+"/x", imgs...); !errors.Is(err, sitemap.ErrConfiguration) {
		t.Fatalf("err=%v want ErrConfiguration", err)
	}
	if _, err := sitemap.NewImageURL(base+"/x", imgs[:sitemap.MaxImagesPerURL]...); err != nil {
		t.Fatalf("1000 images rejected: %v", err)
	}
}

func TestVideo_Render(t *testing.T) {
	rating := 5.0
	views := 1000
	ff := true
	dur := 60
	u := must(sitemap.NewVideoURLWith(base+"/index.html", sitemap.VideoURLOptions{
		ContentURL:      base + "/index.flv",
		PlayerURL:       base + "/index.swf",
		AllowEmbed:      true,
		ThumbnailURL:    base + "/thumb.jpg",
		Title:           "This is a video!",
		Description:     "A great video about dinosaurs",
		Rating:          &rating,
		ViewCount:       &views,
		PublicationDate: time.Unix(0, 0),
		Tags:            []string{"dinosaurs", "example", "demo"},
		Category:        "example",
		FamilyFriendly:  &ff,
		Duration:        &dur,
	}))
	want := header +
		"<urlset xmlns=\"http://www.sitemaps.org/schemas/sitemap/0.9\" xmlns:video=\"http://www.google.com/schemas/sitemap-video/1.1\" >\n" +
		"  <url>\n" +
		"    <loc>https://www.example.com/index.html</loc>\n" +
		"    <video:video>\n" +
		"      <video:content_loc>https://www.example.com/index.flv</video:content_loc>\n" +
		"      <video:player_loc allow_embed=\"Yes\">https://www.example.com/index.swf</video:player_loc>\n" +
		"      <video:thumbnail_loc>https://www.example.com/thumb.jpg</video:thumbnail_loc>\n" +
		"      <video:title>This is a video!</video:title>\n" +
		"      <video:description>A great video about dinosaurs</video:description>\n" +
		"      <video:rating>5.0</video:rating>\n" +
		"      <video:view_count>1000</video:view_count>\n" +
		"      <video:publication_date>1970-01-01</video:publication_date>\n" +
		"      <video:tag>dinosaurs</video:tag>\n" +
		"      <video:tag>example</video:tag>\n" +
		"      <video:tag>demo</video:tag>\n" +
		"      <video:category>example</video:category>\n" +
		"      <video:family_friendly>Yes</video:family_friendly>\n" +
		"      <video:duration>60</video:duration>\n" +
		"    </video:video>\n" +
		"  </url>\n" +
		"</urlset>"
	if got := renderOne(t, sitemap.VideoRenderer, sitemap.Options{}, u); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestVideo_Limits(t *testing.T) {
	bad := func(name string, o sitemap.VideoURLOptions) {
		t.Helper()
		if o.ContentURL == "" && o.PlayerURL == "" && name != "no media" {
			o.ContentURL = base + "/v.flv"
		}
		if _, err := sitemap.NewVideoURLWith(base+"/v", o); !errors.Is(err, sitemap.ErrConfiguration) {
			t.Fatalf("%s: err=%v want ErrConfiguration", name, err)
		}
	}
	neg := -1.0
	high := 5.1
	long := 28801
	bad("no media", sitemap.VideoURLOptions{})
	bad("title", sitemap.VideoURLOptions{Title: strings.Repeat("x", 101)})
	bad("description", sitemap.VideoURLOptions{Description: strings.Repeat("x", 2049)})
	bad("category", sitemap.VideoURLOptions{Category: strings.Repeat("x", 257)})
	bad("tags", sitemap.VideoURLOptions{Tags: make([]string, 33)})
	bad("rating low", sitemap.VideoURLOptions{Rating: &neg})
	bad("rating high", sitemap.VideoURLOptions{Rating: &high})
	bad("duration", sitemap.VideoURLOptions{Duration: &long})

	if _, err := sitemap.NewVideoURLWith(base+"/v", sitemap.VideoURLOptions{PlayerURL: base + "/p.swf"}); err != nil {
		t.Fatalf("player-only video rejected: %v", err)
	}
	g, _ := sitemap.NewVideoGenerator(sitemap.Options{BaseURL: base})
	if err := g.AddString(base + "/v"); !errors.Is(err, sitemap.ErrConfiguration) {
		t.Fatalf("bare string video err=%v", err)
	}
}

func TestNews_Render(t *testing.T) {
	u := must(sitemap.NewNewsURLWith(base+"/index.html", sitemap.NewsURLOptions{
		PublicationDate: time.Unix(0, 0),
		Title:           "Example Title",
		Name:            "The Example Times",
		Language:        "en",
		Keywords:        []string{"Klaatu", "Barrata", "Nicto"},
		Genres:          []string{"PressRelease", "Blog"},
	}))
	want := header +
		"<urlset xmlns=\"http://www.sitemaps.org/schemas/sitemap/0.9\" xmlns:news=\"http://www.google.com/schemas/sitemap-news/0.9\" >\n" +
		"  <url>\n" +
		"    <loc>https://www.example.com/index.html</loc>\n" +
		"    <news:news>\n" +
		"      <news:publication>\n" +
		"        <news:name>The Example Times</news:name>\n" +
		"        <news:language>en</news:language>\n" +
		"      </news:publication>\n" +
		"      <news:genres>PressRelease, Blog</news:genres>\n" +
		"      <news:publication_date>1970-01-01T00:00:00Z</news:publication_date>\n" +
		"      <news:title>Example Title</news:title>\n" +
		"      <news:keywords>Klaatu, Barrata, Nicto</news:keywords>\n" +
		"    </news:news>\n" +
		"  </url>\n" +
		"</urlset>"
	opts := sitemap.Options{DateFormat: w3cdate.New(w3cdate.Second)}
	if got := renderOne(t, sitemap.NewsRenderer, opts, u); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestNews_RequiredFields(t *testing.T) {
	epoch := time.Unix(0, 0)
	cases := map[string][3]string{
		"title":    {"", "n", "en"},
		"name":     {"t", "", "en"},
		"language": {"t", "n", ""},
	}
	for name, c := range cases {
		if _, err := sitemap.NewNewsURL(base+"/x", epoch, c[0], c[1], c[2]); !errors.Is(err, sitemap.ErrConfiguration) {
			t.Fatalf("%s: err=%v", name, err)
		}
	}
	if _, err := sitemap.NewNewsURL(base+"/x", time.Time{}, "t", "n", "en"); !errors.Is(err, sitemap.ErrConfiguration) {
		t.Fatalf("zero date err=%v", err)
	}
}

func TestNews_DefaultMaxURLs(t *testing.T) {
	g, err := sitemap.NewNewsGenerator(sitemap.Options{BaseURL: base, DisallowMultiple: true})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for i := 0; i < sitemap.MaxURLsPerNewsSitemap; i++ {
		u := must(sitemap.NewNewsURL(base+"/n", time.Unix(0, 0), "t", "n", "en"))
		if err := g.Add(u); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}
	u := must(sitemap.NewNewsURL(base+"/n", time.Unix(0, 0), "t", "n", "en"))
	if err := g.Add(u); !errors.Is(err, sitemap.ErrCapacityExceeded) {
		t.Fatalf("err=%v want ErrCapacityExceeded", err)
	}
}

func TestMobile_Render(t *testing.T) {
	u := must(sitemap.NewMobileURL(base+"/index.html"))
	want := header +
		"<urlset xmlns=\"http://www.sitemaps.org/schemas/sitemap/0.9\" xmlns:mobile=\"http://www.google.com/schemas/sitemap-mobile/1.0\" >\n" +
		"  <url>\n" +
		"    <loc>https://www.example.com/index.html</loc>\n" +
		"    <mobile:mobile/>\n" +
		"  </url>\n" +
		"</urlset>"
	if got := renderOne(t, sitemap.MobileRenderer, sitemap.Options{}, u); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestLink_Render(t *testing.T) {
	u := must(sitemap.NewLinkURL(base+"/index.html",
		sitemap.Alternate{Href: "https://www.example/en/index.html", Attrs: []sitemap.Attr{{Name: "hreflang", Value: "en-GB"}}},
		sitemap.Alternate{Href: "https://www.example/fr/index.html", Attrs: []sitemap.Attr{{Name: "media", Value: "only screen and (max-width: 640px)"}}},
	))
	want := header +
		"<urlset xmlns=\"http://www.sitemaps.org/schemas/sitemap/0.9\" xmlns:xhtml=\"http://www.w3.org/1999/xhtml\" >\n" +
		"  <url>\n" +
		"    <loc>https://www.example.com/index.html</loc>\n" +
		"    <xhtml:link\n" +
		"      rel=\"alternate\"\n" +
		"      hreflang=\"en-GB\"\n" +
		"      href=\"https://www.example/en/index.html\"\n" +
		"    />\n" +
		"    <xhtml:link\n" +
		"      rel=\"alternate\"\n" +
		"      media=\"only screen and (max-width: 640px)\"\n" +
		"      href=\"https://www.example/fr/index.html\"\n" +
		"    />\n" +
		"  </url>\n" +
		"</urlset>"
	if got := renderOne(t, sitemap.LinkRenderer, sitemap.Options{}, u); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestLink_RejectsBadAttributeNames(t *testing.T) {
	for _, name := range []string{"", "rel", "href", `x="1" onload`, "a b", "1lang", "-x", "a>b"} {
		_, err := sitemap.NewLinkURL(base+"/index.html",
			sitemap.Alternate{Href: base + "/en/", Attrs: []sitemap.Attr{{Name: name, Value: "v"}}})
		if !errors.Is(err, sitemap.ErrConfiguration) {
			t.Fatalf("name %q: err=%v want ErrConfiguration", name, err)
		}
	}
	for _, name := range []string{"hreflang", "media", "xml:lang", "data-x_1.2"} {
		if _, err := sitemap.NewLinkURL(base+"/index.html",
			sitemap.Alternate{Href: base + "/en/", Attrs: []sitemap.Attr{{Name: name, Value: "v"}}}); err != nil {
			t.Fatalf("name %q rejected: %v", name, err)
		}
	}
}

func TestGeo_Render(t *testing.T) {
	u := must(sitemap.NewGeoURL(base+"/index.html", sitemap.KML))
	want := header +
		"<urlset xmlns=\"http://www.sitemaps.org/schemas/sitemap/0.9\" xmlns:geo=\"http://www.google.com/geo/schemas/sitemap/1.0\" >\n" +
		"  <url>\n" +
		"    <loc>https://www.example.com/index.html</loc>\n" +
		"    <geo:geo>\n" +
		"      <geo:format>kml</geo:format>\n" +
		"    </geo:geo>\n" +
		"  </url>\n" +
		"</urlset>"
	if got := renderOne(t, sitemap.GeoRenderer, sitemap.Options{}, u); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
	if _, err := sitemap.NewGeoURL(base+"/x", "gpx"); !errors.Is(err, sitemap.ErrConfiguration) {
		t.Fatalf("unknown format err=%v", err)
	}
}

func TestCode_Render(t *testing.T) {
	u := must(sitemap.NewCodeURLWith(base+"/foo/Foo.java", sitemap.CodeURLOptions{
		URLOptions: sitemap.URLOptions{ChangeFreq: sitemap.Hourly, LastMod: time.Unix(0, 0), Priority: sitemap.Priority(0.5)},
		FileType:   sitemap.FileTypeJava,
		License:    sitemap.LicenseGPL,
		FileName:   "Foo.java",
		PackageURL: base + "/foo/",
	}))
	want := header +
		"<urlset xmlns=\"http://www.sitemaps.org/schemas/sitemap/0.9\" xmlns:codesearch=\"http://www.google.com/codesearch/schemas/sitemap/1.0\" >\n" +
		"  <url>\n" +
		"    <loc>https://www.example.com/foo/Foo.java</loc>\n" +
		"    <lastmod>1970-01-01</lastmod>\n" +
		"    <changefreq>hourly</changefreq>\n" +
		"    <priority>0.5</priority>\n" +
		"    <codesearch:codesearch>\n" +
		"      <codesearch:filetype>java</codesearch:filetype>\n" +
		"      <codesearch:license>gpl</codesearch:license>\n" +
		"      <codesearch:filename>Foo.java</codesearch:filename>\n" +
		"      <codesearch:packageurl>https://www.example.com/foo/</codesearch:packageurl>\n" +
		"    </codesearch:codesearch>\n" +
		"  </url>\n" +
		"</urlset>"
	if got := renderOne(t, sitemap.CodeRenderer, sitemap.Options{}, u); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestCode_PackageMapOnlyForArchive(t *testing.T) {
	_, err := sitemap.NewCodeURLWith(base+"/Foo.java", sitemap.CodeURLOptions{FileType: sitemap.FileTypeJava, PackageMap: "packagemap.xml"})
	if !errors.Is(err, sitemap.ErrConfiguration) {
		t.Fatalf("err=%v want ErrConfiguration", err)
	}
	u := must(sitemap.NewCodeURLWith(base+"/Foo.zip", sitemap.CodeURLOptions{FileType: sitemap.FileTypeArchive, PackageMap: "packagemap.xml"}))
	got := renderOne(t, sitemap.CodeRenderer, sitemap.Options{}, u)
	if !strings.Contains(got, "      <codesearch:packagemap>packagemap.xml</codesearch:packagemap>\n") {
		t.Fatalf("packagemap missing:\n%s", got)
	}
}
