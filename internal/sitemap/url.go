package sitemap

import (
	"math"
	"net/url"
	"strings"
	"time"
)

// ChangeFreq 为 <changefreq> 的取值。
type ChangeFreq string

const (
	Always  ChangeFreq = "always"
	Hourly  ChangeFreq = "hourly"
	Daily   ChangeFreq = "daily"
	Weekly  ChangeFreq = "weekly"
	Monthly ChangeFreq = "monthly"
	Yearly  ChangeFreq = "yearly"
	Never   ChangeFreq = "never"
)

func (c ChangeFreq) Valid() bool {
	switch c {
	case Always, Hourly, Daily, Weekly, Monthly, Yearly, Never:
		return true
	}
	return false
}

// ParseChangeFreq 解析配置中的字符串，空串表示未设置。
func ParseChangeFreq(s string) (ChangeFreq, error) {
	c := ChangeFreq(s)
	if s == "" || c.Valid() {
		return c, nil
	}
	return "", configErrorf("unknown change frequency %q", s)
}

// Entry 是所有站点地图条目共有的只读视图；集合封闭，仅本包内的类型可实现。
type Entry interface {
	Loc() *url.URL
	web() *WebURL
}

// WebURL 为普通网页条目，构造后不可变。
type WebURL struct {
	raw        string
	loc        *url.URL
	lastMod    time.Time
	changeFreq ChangeFreq
	priority   float64
	hasPrio    bool
}

// URLOptions 为各类条目共用的可选字段；LastMod 零值、ChangeFreq 空串、Priority 为 nil 均表示不输出。
type URLOptions struct {
	LastMod    time.Time
	ChangeFreq ChangeFreq
	Priority   *float64
}

// Priority 返回指向 p 的指针，便于填写 URLOptions。
func Priority(p float64) *float64 { return &p }

// NewWebURL 仅含 <loc> 的条目。
func NewWebURL(loc string) (*WebURL, error) {
	return NewWebURLWith(loc, URLOptions{})
}

// NewWebURLWith 校验并构造条目：地址需为绝对 URL，priority 位于 [0,1]，changefreq 合法。
func NewWebURLWith(loc string, opts URLOptions) (*WebURL, error) {
	u := &WebURL{}
	if err := u.init(loc, opts); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *WebURL) init(loc string, opts URLOptions) error {
	parsed, err := parseAbsURL(loc)
	if err != nil {
		return err
	}
	if opts.ChangeFreq != "" && !opts.ChangeFreq.Valid() {
		return configErrorf("unknown change frequency %q", opts.ChangeFreq)
	}
	if opts.Priority != nil {
		p := *opts.Priority
		if math.IsNaN(p) || p < 0 || p > 1 {
			return configErrorf("priority must be between 0 and 1, got %v", p)
		}
		u.priority, u.hasPrio = p, true
	}
	u.raw = strings.TrimSpace(loc)
	u.loc = parsed
	u.lastMod = opts.LastMod
	u.changeFreq = opts.ChangeFreq
	return nil
}

func (u *WebURL) Loc() *url.URL {
	cp := *u.loc
	return &cp
}

// String 返回构造时传入的原始地址（渲染时使用，避免 net/url 重新编码）。
func (u *WebURL) String() string { return u.raw }

func (u *WebURL) LastMod() (time.Time, bool) { return u.lastMod, !u.lastMod.IsZero() }

func (u *WebURL) ChangeFreq() ChangeFreq { return u.changeFreq }

func (u *WebURL) Priority() (float64, bool) { return u.priority, u.hasPrio }

func (u *WebURL) web() *WebURL { return u }
