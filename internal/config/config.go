// 包 config 负责加载与校验站点地图生成配置（sitemap.yaml），
// 对外提供结构体 Config 及默认值/合法性校验。
package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"

	"go-sitemapgen/internal/sitemap"
	"go-sitemapgen/internal/w3cdate"
)

// 命令行只支持可由页面数据推导的类型；video/geo/code 需要额外元数据，请直接使用 sitemap 包。
var cliFlavors = map[sitemap.Flavor]bool{
	sitemap.FlavorWeb:    true,
	sitemap.FlavorImage:  true,
	sitemap.FlavorNews:   true,
	sitemap.FlavorMobile: true,
	sitemap.FlavorLink:   true,
}

type Config struct {
	BaseURL       string         `yaml:"BASE_URL"`
	OutputDir     string         `yaml:"OUTPUT_DIR"`
	Flavor        sitemap.Flavor `yaml:"FLAVOR"` // web|image|news|mobile|link
	FilePrefix    string         `yaml:"FILE_PREFIX"`
	SuffixPattern string         `yaml:"SUFFIX_PATTERN"`
	MaxURLs       int            `yaml:"MAX_URLS"`
	Gzip          bool           `yaml:"GZIP"`
	AllowEmpty    bool           `yaml:"ALLOW_EMPTY"`
	SingleFile    bool           `yaml:"SINGLE_FILE"` // 超过上限时报错而不是拆分
	AutoValidate  bool           `yaml:"AUTO_VALIDATE"`
	DatePattern   string         `yaml:"DATE_PATTERN"` // auto|millisecond|second|minute|day|month|year
	TimeZone      string         `yaml:"TIME_ZONE"`
	Index         Index          `yaml:"INDEX"`
	Defaults      Defaults       `yaml:"DEFAULTS"`
	Sources       []Source       `yaml:"SOURCES"`
	News          News           `yaml:"NEWS"`
	Concurrency   int            `yaml:"CONCURRENCY"`
	Database      Database       `yaml:"DATABASE"`
	ResetOnStart  bool           `yaml:"RESET_ON_START"`
	OutdateClean  int            `yaml:"OUTDATE_CLEAN"` // 运行记录保留天数，0 不清理
	LogLevel      string         `yaml:"LOG_LEVEL"`
	LogFormat     string         `yaml:"LOG_FORMAT"` // text|json|pretty
	LogLocale     string         `yaml:"LOG_LOCALE"` // zh-CN|en
	LogColor      string         `yaml:"LOG_COLOR"`  // auto|always|never
}

type Index struct {
	// Mode：auto（写出多个文件时生成）、always、never
	Mode string `yaml:"mode"`
	File string `yaml:"file"` // 默认 OUTPUT_DIR/sitemap_index.xml
}

// Defaults 为来源未提供时使用的 changefreq/priority。
type Defaults struct {
	ChangeFreq string   `yaml:"changefreq"`
	Priority   *float64 `yaml:"priority"`
}

type Source struct {
	// Type：inline|text|html|feed|sqlite
	Type  string   `yaml:"type"`
	Name  string   `yaml:"name"`
	Path  string   `yaml:"path"`  // text/html/feed 的本地文件
	URL   string   `yaml:"url"`   // html：页面自身地址，用于解析相对链接
	URLs  []string `yaml:"urls"`  // inline
	Theme string   `yaml:"theme"` // html：rules.yaml 中的预设名
	Max   int      `yaml:"max"`   // feed：最多取多少条，0 不限
}

// News 为新闻站点地图的刊物信息。
type News struct {
	Name     string   `yaml:"name"`
	Language string   `yaml:"language"`
	Genres   []string `yaml:"genres"`
}

type Database struct {
	Type string `yaml:"type"` // sqlite (default)
	DSN  string `yaml:"dsn"`  // 为空时不记录运行清单
}

var sourceTypes = map[string]bool{"inline": true, "text": true, "html": true, "feed": true, "sqlite": true}

// Load 从文件读取 YAML 并反序列化为 Config，同时进行基础校验与默认值填充。
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("unmarshal config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// Validate 负责合法性检查与默认值设置。
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return errors.New("BASE_URL is required")
	}
	if u, err := url.Parse(c.BaseURL); err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("BASE_URL must be an absolute URL: %q", c.BaseURL)
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.Flavor == "" {
		c.Flavor = sitemap.FlavorWeb
	}
	c.Flavor = sitemap.Flavor(strings.ToLower(string(c.Flavor)))
	if !cliFlavors[c.Flavor] {
		return fmt.Errorf("unsupported FLAVOR: %s", c.Flavor)
	}
	if c.FilePrefix == "" {
		c.FilePrefix = "sitemap"
	}
	limit := sitemap.MaxURLsPerSitemap
	if c.Flavor == sitemap.FlavorNews {
		limit = sitemap.MaxURLsPerNewsSitemap
	}
	if c.MaxURLs < 0 || c.MaxURLs > limit {
		return fmt.Errorf("MAX_URLS must be between 0 and %d", limit)
	}
	if c.MaxURLs == 0 {
		c.MaxURLs = limit
	}
	if _, err := w3cdate.ParsePattern(c.DatePattern); err != nil {
		return fmt.Errorf("DATE_PATTERN: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	switch c.Index.Mode {
	case "":
		c.Index.Mode = "auto"
	case "auto", "always", "never":
	default:
		return fmt.Errorf("unsupported INDEX.mode: %s", c.Index.Mode)
	}
	if _, err := sitemap.ParseChangeFreq(c.Defaults.ChangeFreq); err != nil {
		return fmt.Errorf("DEFAULTS.changefreq: %w", err)
	}
	if p := c.Defaults.Priority; p != nil && (*p < 0 || *p > 1) {
		return errors.New("DEFAULTS.priority must be between 0 and 1")
	}
	for i := range c.Sources {
		s := &c.Sources[i]
		s.Type = strings.ToLower(strings.TrimSpace(s.Type))
		if !sourceTypes[s.Type] {
			return fmt.Errorf("SOURCES[%d]: unsupported type %q", i, s.Type)
		}
		if s.Name == "" {
			s.Name = fmt.Sprintf("%s#%d", s.Type, i)
		}
		switch s.Type {
		case "text", "html", "feed":
			if s.Path == "" {
				return fmt.Errorf("SOURCES[%d]: path is required for %s", i, s.Type)
			}
		}
		if s.Max < 0 {
			return fmt.Errorf("SOURCES[%d]: max must be >= 0", i)
		}
	}
	if c.Flavor == sitemap.FlavorNews && (c.News.Name == "" || c.News.Language == "") {
		return errors.New("NEWS.name and NEWS.language are required for news sitemaps")
	}
	if c.OutdateClean < 0 {
		return errors.New("OUTDATE_CLEAN must be >= 0")
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
	if c.Database.Type == "" {
		c.Database.Type = "sqlite"
	}
	if c.Database.Type != "sqlite" {
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}
	if c.LogFormat == "" {
		c.LogFormat = "pretty"
	}
	if c.LogLocale == "" {
		c.LogLocale = "zh-CN"
	}
	if c.LogColor == "" {
		c.LogColor = "auto"
	}
	return nil
}

// Location 解析 TIME_ZONE，空值为 UTC。
func (c *Config) Location() (*time.Location, error) {
	if c.TimeZone == "" || strings.EqualFold(c.TimeZone, "utc") {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("TIME_ZONE %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// DateFormat 按 DATE_PATTERN 与 TIME_ZONE 构造日期格式器。
func (c *Config) DateFormat() (w3cdate.Formatter, error) {
	p, err := w3cdate.ParsePattern(c.DatePattern)
	if err != nil {
		return w3cdate.Formatter{}, err
	}
	loc, err := c.Location()
	if err != nil {
		return w3cdate.Formatter{}, err
	}
	return w3cdate.New(p).WithZone(loc), nil
}

// SitemapOptions 转换为生成器配置。
func (c *Config) SitemapOptions() (sitemap.Options, error) {
	df, err := c.DateFormat()
	if err != nil {
		return sitemap.Options{}, err
	}
	return sitemap.Options{
		BaseURL:          c.BaseURL,
		BaseDir:          c.OutputDir,
		FileNamePrefix:   c.FilePrefix,
		SuffixPattern:    c.SuffixPattern,
		Gzip:             c.Gzip,
		AllowEmpty:       c.AllowEmpty,
		DisallowMultiple: c.SingleFile,
		MaxURLs:          c.MaxURLs,
		DateFormat:       df,
		AutoValidate:     c.AutoValidate,
	}, nil
}
