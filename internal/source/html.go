package source

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"go-sitemapgen/internal/model"
	"go-sitemapgen/internal/rules"
	"go-sitemapgen/internal/w3cdate"
)

const maxHTMLSize = 4 << 20

// HTML 解析本地 HTML 文件：
// - URL 非空时先输出页面自身（标题、图片、多语言版本）
// - 再按 Links 规则输出页面内链接，相对链接以 URL 为基准绝对化
// 规则语法：
// - 文本：".name" 或 "."（取当前项文本）
// - 属性："a@href"/"img@src"/"@href"（当前项属性）
// - 回退：使用 "||" 连接多个候选，按先后尝试
type HTML struct {
	SourceName string
	Path       string
	URL        string
	Preset     rules.Preset
}

func (s HTML) Name() string { return s.SourceName }

func (s HTML) Pages(ctx context.Context) ([]model.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()
	doc, err := goquery.NewDocumentFromReader(io.LimitReader(f, maxHTMLSize))
	if err != nil {
		return nil, fmt.Errorf("parse html %s: %w", s.Path, err)
	}
	var out []model.Page
	if s.URL != "" {
		out = append(out, s.self(doc))
	}
	lr := s.Preset.Links
	if lr == nil {
		return out, nil
	}
	df := w3cdate.New(w3cdate.Auto)
	doc.Find(lr.Item).Each(func(_ int, sel *goquery.Selection) {
		raw := getVal(sel, lr.Link)
		if skipRef(raw) {
			return
		}
		link := abs(s.URL, raw)
		if !crawlable(link) {
			return
		}
		p := model.Page{
			Loc:    link,
			Title:  getVal(sel, lr.Title),
			Source: s.SourceName,
		}
		if raw := getVal(sel, lr.LastMod); raw != "" {
			if t, err := df.Parse(raw); err == nil {
				p.LastMod = t
			}
		}
		out = append(out, p)
	})
	return out, nil
}

// self 构造页面自身条目。
func (s HTML) self(doc *goquery.Document) model.Page {
	p := model.Page{
		Loc:    s.URL,
		Title:  strings.TrimSpace(doc.Find("title").First().Text()),
		Source: s.SourceName,
	}
	if ir := s.Preset.Images; ir != nil {
		doc.Find(ir.Item).Each(func(_ int, sel *goquery.Selection) {
			src := abs(s.URL, getVal(sel, ir.Src))
			if src == "" || strings.HasPrefix(src, "data:") {
				return
			}
			p.Images = append(p.Images, model.Image{
				Loc:     src,
				Title:   getVal(sel, ir.Title),
				Caption: getVal(sel, ir.Caption),
			})
		})
	}
	if ar := s.Preset.Alternates; ar != nil {
		doc.Find(ar.Item).Each(func(_ int, sel *goquery.Selection) {
			href := abs(s.URL, getVal(sel, ar.Href))
			lang := getVal(sel, ar.HrefLang)
			if href == "" || lang == "" {
				return
			}
			p.Alternates = append(p.Alternates, model.Alternate{Href: href, HrefLang: lang})
		})
	}
	return p
}

// skipRef 过滤页内锚点与脚本/邮件等伪链接。
func skipRef(ref string) bool {
	if ref == "" || strings.HasPrefix(ref, "#") {
		return true
	}
	lower := strings.ToLower(ref)
	for _, p := range []string{"mailto:", "javascript:", "tel:", "data:"} {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

// crawlable 仅保留 http(s) 绝对地址。
func crawlable(link string) bool {
	if link == "" {
		return false
	}
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// getVal 解析表达式并支持使用 "||" 作为回退分隔，例如："a@href||@href" 或 ".name||."。
func getVal(scope *goquery.Selection, expr string) string {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return ""
	}
	for _, p := range strings.Split(expr, "||") {
		if v := getValSingle(scope, strings.TrimSpace(p)); v != "" {
			return v
		}
	}
	return ""
}

// getValSingle 解析单个表达式：文本或属性读取。
func getValSingle(scope *goquery.Selection, expr string) string {
	if expr == "" {
		return ""
	}
	if expr == "." {
		return strings.TrimSpace(scope.Text())
	}
	if at := strings.Index(expr, "@"); at != -1 {
		sel := strings.TrimSpace(expr[:at])
		attr := strings.TrimSpace(expr[at+1:])
		if sel == "" {
			val, _ := scope.Attr(attr)
			return strings.TrimSpace(val)
		}
		val, _ := scope.Find(sel).First().Attr(attr)
		return strings.TrimSpace(val)
	}
	return strings.TrimSpace(scope.Find(expr).First().Text())
}

// abs 将相对链接转换为绝对 URL，并去掉片段。
func abs(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	ru, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if !ru.IsAbs() {
		bu, err := url.Parse(base)
		if err != nil || base == "" {
			return ""
		}
		ru = bu.ResolveReference(ru)
	}
	ru.Fragment = ""
	return ru.String()
}
