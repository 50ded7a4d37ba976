package sitemap

import (
	"net/url"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"go-sitemapgen/internal/logx"
	"go-sitemapgen/internal/w3cdate"
)

// Options 为生成器配置；零值字段使用默认值：
// - FileNamePrefix："sitemap"
// - MaxURLs：类型上限（普通 50000，新闻 1000），超过上限视为配置错误
// - DateFormat：W3C AUTO + UTC
// - Validator：AutoValidate 为真且未提供时使用 XMLValidator
// - Now：生成索引时作为默认 lastmod，默认 time.Now
type Options struct {
	BaseURL string
	// BaseDir 为空时只能使用 WriteAsStrings。
	BaseDir          string
	FileNamePrefix   string
	SuffixPattern    string
	Gzip             bool
	AllowEmpty       bool
	DisallowMultiple bool
	MaxURLs          int
	DateFormat       DateFormatter
	AutoValidate     bool
	Validator        Validator
	Now              func() time.Time
}

// Generator 累积条目并输出一个或多个站点地图文档。
// 满载时在目录模式下立即落盘当前批次（flush-then-continue），字符串模式下延迟到 WriteAsStrings 再分块。
// 非并发安全；一个实例对应一次生成，Write 之后即封存。
type Generator[U Entry] struct {
	r Renderer[U]

	base          *url.URL
	dir           string
	prefix        string
	suffix        string
	gzip          bool
	allowEmpty    bool
	allowMultiple bool
	maxURLs       int
	df            DateFormatter
	validator     Validator
	now           func() time.Time

	urls     []U
	mapCount int
	finished bool
	outFiles []string
}

// New 校验配置并创建生成器。
func New[U Entry](opts Options, r Renderer[U]) (*Generator[U], error) {
	if r.Render == nil || r.Parse == nil {
		return nil, configErrorf("renderer for flavor %q is incomplete", r.Flavor)
	}
	base, err := parseAbsURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	limit := r.maxURLs()
	max := opts.MaxURLs
	switch {
	case max == 0:
		max = limit
	case max < 0:
		return nil, configErrorf("max URLs must be positive, got %d", max)
	case max > limit:
		return nil, configErrorf("you can't have more than %d URLs per %s sitemap, got %d", limit, r.Flavor, max)
	}
	prefix := opts.FileNamePrefix
	if prefix == "" {
		prefix = "sitemap"
	}
	if strings.ContainsAny(prefix, `/\`) {
		return nil, configErrorf("file name prefix %q must not contain a path separator", prefix)
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
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Generator[U]{
		r:             r,
		base:          base,
		dir:           opts.BaseDir,
		prefix:        prefix,
		suffix:        fileNameSuffix(opts.SuffixPattern, opts.Gzip),
		gzip:          opts.Gzip,
		allowEmpty:    opts.AllowEmpty,
		allowMultiple: !opts.DisallowMultiple,
		maxURLs:       max,
		df:            df,
		validator:     v,
		now:           now,
	}, nil
}

func fileNameSuffix(pattern string, gz bool) string {
	ext := ".xml"
	if gz {
		ext = ".xml.gz"
	}
	return pattern + ext
}

func NewWebGenerator(opts Options) (*Generator[*WebURL], error) { return New(opts, WebRenderer) }
func NewImageGenerator(opts Options) (*Generator[*ImageURL], error) {
	return New(opts, ImageRenderer)
}
func NewVideoGenerator(opts Options) (*Generator[*VideoURL], error) {
	return New(opts, VideoRenderer)
}
func NewNewsGenerator(opts Options) (*Generator[*NewsURL], error) { return New(opts, NewsRenderer) }
func NewMobileGenerator(opts Options) (*Generator[*MobileURL], error) {
	return New(opts, MobileRenderer)
}
func NewLinkGenerator(opts Options) (*Generator[*LinkURL], error) { return New(opts, LinkRenderer) }
func NewGeoGenerator(opts Options) (*Generator[*GeoURL], error)   { return New(opts, GeoRenderer) }
func NewCodeGenerator(opts Options) (*Generator[*CodeURL], error) { return New(opts, CodeRenderer) }

// Flavor 返回生成器的站点地图类型。
func (g *Generator[U]) Flavor() Flavor { return g.r.Flavor }

// Suffix 返回文件后缀（含自定义模式与 .xml/.xml.gz）。
func (g *Generator[U]) Suffix() string { return g.suffix }

// Buffered 返回尚未落盘的条目数。
func (g *Generator[U]) Buffered() int { return len(g.urls) }

// Add 追加一个条目；满载且允许多文件时先把当前批次写成一个文件。
func (g *Generator[U]) Add(u U) error {
	if g.finished {
		return errorf(ErrAlreadyFinalized, "sitemap already written; create a new generator to make more sitemaps")
	}
	if isNilEntry(u) {
		return configErrorf("nil %s entry", g.r.Flavor)
	}
	if err := CheckDomain(u.Loc(), g.base); err != nil {
		return err
	}
	if len(g.urls) >= g.maxURLs {
		if !g.allowMultiple {
			return errorf(ErrCapacityExceeded, "more than %d URLs, but multiple sitemaps are disallowed", g.maxURLs)
		}
		if g.dir != "" {
			if g.mapCount == 0 {
				g.mapCount++
			}
			if err := g.writeSiteMap(); err != nil {
				return err
			}
			g.mapCount++
			g.urls = nil
		}
	}
	g.urls = append(g.urls, u)
	return nil
}

// AddAll 依次追加，遇到第一个错误即停止，已追加的条目保留。
func (g *Generator[U]) AddAll(urls ...U) error {
	for _, u := range urls {
		if err := g.Add(u); err != nil {
			return err
		}
	}
	return nil
}

// AddString 通过渲染器的 Parse 从裸地址构造条目后追加。
func (g *Generator[U]) AddString(raw string) error {
	u, err := g.r.Parse(raw)
	if err != nil {
		return err
	}
	return g.Add(u)
}

func (g *Generator[U]) AddStrings(raws ...string) error {
	for _, raw := range raws {
		if err := g.AddString(raw); err != nil {
			return err
		}
	}
	return nil
}

// Write 写出剩余条目并封存生成器，返回本生成器写过的全部文件路径（按写出顺序）。
func (g *Generator[U]) Write() ([]string, error) {
	if g.finished {
		return nil, errorf(ErrAlreadyFinalized, "sitemap already written; create a new generator to make more sitemaps")
	}
	if !g.allowEmpty && len(g.urls) == 0 && g.mapCount == 0 {
		return nil, errorf(ErrEmptyNotAllowed, "no URLs added, sitemap would be empty")
	}
	if err := g.writeSiteMap(); err != nil {
		return nil, err
	}
	g.finished = true
	return append([]string(nil), g.outFiles...), nil
}

// WriteAsStrings 把当前缓冲按上限分块渲染，不写盘、不封存、不检查空。
func (g *Generator[U]) WriteAsStrings() []string {
	chunks := lo.Chunk(g.urls, g.maxURLs)
	return lo.Map(chunks, func(chunk []U, _ int) string {
		return g.render(chunk)
	})
}

func (g *Generator[U]) render(urls []U) string {
	var sb strings.Builder
	writeURLSet(&sb, g.r, urls, g.df)
	return sb.String()
}

func (g *Generator[U]) writeSiteMap() error {
	if g.dir == "" {
		return configErrorf("to write to files, a base directory is required")
	}
	if len(g.urls) == 0 && (g.mapCount > 0 || !g.allowEmpty) {
		return nil
	}
	name := g.prefix
	if g.mapCount > 0 {
		name += strconv.Itoa(g.mapCount)
	}
	path := filepath.Join(g.dir, name+g.suffix)
	if err := writeFileAtomic(path, g.render(g.urls), g.gzip); err != nil {
		return err
	}
	logx.Debugf("写出站点地图 %s（%d 条）", path, len(g.urls))
	if g.validator != nil {
		if err := validationFailure(path, g.validator.ValidateSitemap(path)); err != nil {
			return err
		}
	}
	// 校验通过后才记录，失败重试不会重复登记同一文件
	g.outFiles = append(g.outFiles, path)
	return nil
}

// isNilEntry 识别 nil 接口与 nil 指针条目。
func isNilEntry[U Entry](u U) bool {
	v := reflect.ValueOf(u)
	return !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil())
}

// WriteIndex 在 Write 之后生成引用全部已写文件的索引；dest 为空时写到 BaseDir/sitemap_index.xml。
func (g *Generator[U]) WriteIndex(dest string) (string, error) {
	if dest == "" {
		if g.dir == "" {
			return "", configErrorf("index destination is required when no base directory is set")
		}
		dest = filepath.Join(g.dir, IndexFileName)
	}
	ig, err := g.indexGenerator(dest)
	if err != nil {
		return "", err
	}
	if err := ig.Write(); err != nil {
		return "", err
	}
	return dest, nil
}

// WriteIndexAsString 与 WriteIndex 相同但只返回索引文本。
func (g *Generator[U]) WriteIndexAsString() (string, error) {
	ig, err := g.indexGenerator("")
	if err != nil {
		return "", err
	}
	return ig.WriteAsString(), nil
}

func (g *Generator[U]) indexGenerator(dest string) (*IndexGenerator, error) {
	if !g.finished {
		return nil, errorf(ErrConfiguration, "sitemaps not generated yet; call Write first")
	}
	ig, err := NewIndexGenerator(IndexOptions{
		BaseURL:        g.base.String(),
		OutFile:        dest,
		DateFormat:     g.df,
		DefaultLastMod: g.now(),
		AutoValidate:   g.validator != nil,
		Validator:      g.validator,
	})
	if err != nil {
		return nil, err
	}
	if err := ig.AddNumbered(g.prefix, g.suffix, g.mapCount); err != nil {
		return nil, err
	}
	return ig, nil
}
