package sitemap

import (
	"strings"
	"time"
)

// DateFormatter 把时间格式化为 W3C 日期字符串；w3cdate.Formatter 实现了它。
type DateFormatter interface {
	Format(t time.Time) string
}

// Flavor 标识站点地图扩展类型。
type Flavor string

const (
	FlavorWeb    Flavor = "web"
	FlavorImage  Flavor = "image"
	FlavorVideo  Flavor = "video"
	FlavorNews   Flavor = "news"
	FlavorMobile Flavor = "mobile"
	FlavorLink   Flavor = "link"
	FlavorGeo    Flavor = "geo"
	FlavorCode   Flavor = "code"
)

// Renderer 把某一类条目渲染成 <url> 片段：
// - Namespaces：根元素需额外声明的命名空间属性，普通站点地图为空
// - Parse：由裸地址构造条目（AddString 使用），必填扩展字段的类型应返回 ErrConfiguration
// - Render：向 sb 追加一个完整的 <url> 元素，不做任何校验
// - MaxURLs：该类型单文件条目上限，0 表示协议上限 50000
type Renderer[U Entry] struct {
	Flavor     Flavor
	Namespaces string
	MaxURLs    int
	Parse      func(raw string) (U, error)
	Render     func(sb *strings.Builder, u U, df DateFormatter)
}

// writeURLSet 组装完整文档：声明、根元素（含扩展命名空间）、按插入顺序的条目。
func writeURLSet[U Entry](sb *strings.Builder, r Renderer[U], urls []U, df DateFormatter) {
	sb.WriteString(xmlHeader)
	sb.WriteString(`<urlset xmlns="`)
	sb.WriteString(NamespaceURI)
	sb.WriteString(`" `)
	if r.Namespaces != "" {
		sb.WriteString(r.Namespaces)
		sb.WriteByte(' ')
	}
	sb.WriteString(">\n")
	for _, u := range urls {
		r.Render(sb, u, df)
	}
	sb.WriteString("</urlset>")
}

func (r Renderer[U]) maxURLs() int {
	if r.MaxURLs > 0 {
		return r.MaxURLs
	}
	return MaxURLsPerSitemap
}

// renderURL 输出公共部分 loc/lastmod/changefreq/priority，随后追加扩展片段 ext。
func renderURL(sb *strings.Builder, u *WebURL, df DateFormatter, ext string) {
	sb.WriteString("  <url>\n")
	sb.WriteString("    <loc>")
	sb.WriteString(Escape(u.raw))
	sb.WriteString("</loc>\n")
	if t, ok := u.LastMod(); ok {
		sb.WriteString("    <lastmod>")
		sb.WriteString(df.Format(t))
		sb.WriteString("</lastmod>\n")
	}
	if u.changeFreq != "" {
		sb.WriteString("    <changefreq>")
		sb.WriteString(string(u.changeFreq))
		sb.WriteString("</changefreq>\n")
	}
	if p, ok := u.Priority(); ok {
		sb.WriteString("    <priority>")
		sb.WriteString(formatDecimal(p))
		sb.WriteString("</priority>\n")
	}
	sb.WriteString(ext)
	sb.WriteString("  </url>\n")
}

// renderTag 输出扩展块内的一行子元素（6 空格缩进），空值跳过。
func renderTag(sb *strings.Builder, ns, tag, value string) {
	renderIndented(sb, "      ", ns, tag, value)
}

// renderSubTag 与 renderTag 相同，但用于更深一层（8 空格缩进）。
func renderSubTag(sb *strings.Builder, ns, tag, value string) {
	renderIndented(sb, "        ", ns, tag, value)
}

func renderIndented(sb *strings.Builder, indent, ns, tag, value string) {
	if value == "" {
		return
	}
	sb.WriteString(indent)
	sb.WriteString("<" + ns + ":" + tag + ">")
	sb.WriteString(Escape(value))
	sb.WriteString("</" + ns + ":" + tag + ">\n")
}

func openBlock(sb *strings.Builder, ns, tag string) {
	sb.WriteString("    <" + ns + ":" + tag + ">\n")
}

func closeBlock(sb *strings.Builder, ns, tag string) {
	sb.WriteString("    </" + ns + ":" + tag + ">\n")
}

func namespaceAttr(prefix, uri string) string {
	return `xmlns:` + prefix + `="` + uri + `"`
}

// WebRenderer 为普通网页站点地图，无扩展命名空间。
var WebRenderer = Renderer[*WebURL]{
	Flavor: FlavorWeb,
	Parse:  NewWebURL,
	Render: func(sb *strings.Builder, u *WebURL, df DateFormatter) {
		renderURL(sb, u, df, "")
	},
}
