package sitemap

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"go-sitemapgen/internal/logx"
	"go-sitemapgen/internal/w3cdate"
)

// SitemapRef 为索引中的一项：站点地图地址与可选的 lastmod（零值表示缺省）。
type SitemapRef struct {
	raw     string
	loc     *url.URL
	lastMod time.Time
}

func NewSitemapRef(loc string, lastMod time.Time) (SitemapRef, error) {
	u, err := parseAbsURL(loc)
	if err != nil {
		return SitemapRef{}, err
	}
	return SitemapRef{raw: strings.TrimSpace(loc), loc: u, lastMod: lastMod}, nil
}

func (r SitemapRef) Loc() string { return r.raw }

func (r SitemapRef) LastMod() (time.Time, bool) { return r.lastMod, !r.lastMod.IsZero() }

// IndexOptions 为索引生成器配置：
// - OutFile 为空时只能 WriteAsString
// - MaxURLs 为 0 时取 50000，超过 50000 视为配置错误
// - DefaultLastMod 为条目缺省 lastmod 时的回退值，零值表示不输出
type IndexOptions struct {
	BaseURL        string
	OutFile        string
	DateFormat     DateFormatter
	AllowEmpty     bool
	MaxURLs        int
	DefaultLastMod time.Time
	AutoValidate   bool
	Validator      Validator
}

// IndexGenerator 生成站点地图索引；不拆分，超过上限直接报错。
type IndexGenerator struct {
	base           *url.URL
	outFile        string
	df             DateFormatter
	allowEmpty     bool
	maxURLs        int
	defaultLastMod time.Time
	validator      Validator

	refs []SitemapRef
}

func NewIndexGenerator(opts IndexOptions) (*IndexGenerator, error) {
	base, err := parseAbsURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	max := opts.MaxURLs
	switch {
	case max == 0:
		max = MaxSitemapsPerIndex
	case max < 0:
		return nil, configErrorf("max sitemaps must be positive, got %d", max)
	case max > MaxSitemapsPerIndex:
		return nil, configErrorf("you can't have more than %d sitemaps per index, got %d", MaxSitemapsPerIndex, max)
	}
	df := opts.DateFormat
	if df == nil {
		df = w3cdate.New(w3cdate.Auto)
	}
	var v Validator
	if opts.AutoValidate {
		v = opts.Validator
		if v == nil {
			v = XMLValidator{}
		}
	}
	return &IndexGenerator{
		base:           base,
		outFile:        opts.OutFile,
		df:             df,
		allowEmpty:     opts.AllowEmpty,
		maxURLs:        max,
		defaultLastMod: opts.DefaultLastMod,
		validator:      v,
	}, nil
}

// Len 返回已添加的引用数。
func (g *IndexGenerator) Len() int { return len(g.refs) }

func (g *IndexGenerator) Add(ref SitemapRef) error {
	if ref.loc == nil {
		return configErrorf("sitemap reference has no location")
	}
	if err := CheckDomain(ref.loc, g.base); err != nil {
		return err
	}
	if len(g.refs) >= g.maxURLs {
		return errorf(ErrCapacityExceeded, "more than %d sitemaps in one index", g.maxURLs)
	}
	g.refs = append(g.refs, ref)
	return nil
}

// AddURL 以字符串地址添加，lastMod 可为零值。
func (g *IndexGenerator) AddURL(loc string, lastMod time.Time) error {
	ref, err := NewSitemapRef(loc, lastMod)
	if err != nil {
		return err
	}
	return g.Add(ref)
}

// AddNumbered 按生成器的命名规则批量添加：count 为 0 时只添加 prefix+suffix，
// 否则添加 prefix1..prefixN + suffix，均相对 BaseURL 解析。
func (g *IndexGenerator) AddNumbered(prefix, suffix string, count int) error {
	if count < 0 {
		return configErrorf("sitemap count must not be negative, got %d", count)
	}
	if count == 0 {
		return g.addRelative(prefix + suffix)
	}
	for i := 1; i <= count; i++ {
		if err := g.addRelative(prefix + strconv.Itoa(i) + suffix); err != nil {
			return err
		}
	}
	return nil
}

func (g *IndexGenerator) addRelative(name string) error {
	loc := g.base.ResolveReference(&url.URL{Path: name})
	return g.Add(SitemapRef{raw: loc.String(), loc: loc})
}

// Write 把索引写到 OutFile。
func (g *IndexGenerator) Write() error {
	if g.outFile == "" {
		return configErrorf("to write a sitemap index, an output file is required")
	}
	if !g.allowEmpty && len(g.refs) == 0 {
		return errorf(ErrEmptyNotAllowed, "no sitemaps added, sitemap index would be empty")
	}
	if err := writeFileAtomic(g.outFile, g.WriteAsString(), false); err != nil {
		return err
	}
	logx.Debugf("写出站点地图索引 %s（%d 项）", g.outFile, len(g.refs))
	if g.validator != nil {
		return validationFailure(g.outFile, g.validator.ValidateIndex(g.outFile))
	}
	return nil
}

// WriteAsString 渲染索引文本，不检查空。
func (g *IndexGenerator) WriteAsString() string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<sitemapindex xmlns="`)
	sb.WriteString(NamespaceURI)
	sb.WriteString("\">\n")
	for _, ref := range g.refs {
		sb.WriteString("  <sitemap>\n")
		sb.WriteString("    <loc>")
		sb.WriteString(Escape(ref.raw))
		sb.WriteString("</loc>\n")
		lastMod := ref.lastMod
		if lastMod.IsZero() {
			lastMod = g.defaultLastMod
		}
		if !lastMod.IsZero() {
			sb.WriteString("    <lastmod>")
			sb.WriteString(g.df.Format(lastMod))
			sb.WriteString("</lastmod>\n")
		}
		sb.WriteString("  </sitemap>\n")
	}
	sb.WriteString("</sitemapindex>")
	return sb.String()
}
