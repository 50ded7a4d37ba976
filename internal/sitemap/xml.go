package sitemap

import (
	"net/url"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	NamespaceURI = "http://www.sitemaps.org/schemas/sitemap/0.9"

	// 协议上限：单个站点地图最多 50000 条，单个索引最多 50000 个站点地图。
	MaxURLsPerSitemap   = 50000
	MaxSitemapsPerIndex = 50000

	IndexFileName = "sitemap_index.xml"

	xmlHeader = "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"
)

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"'", "&apos;",
	"\"", "&quot;",
	">", "&gt;",
	"<", "&lt;",
)

// Escape 替换 & ' " > < 为命名实体，其它字符原样保留。
// 已转义的输入会被再次转义。
func Escape(s string) string {
	return xmlEscaper.Replace(s)
}

// CheckDomain 要求 u 与 base 主机名一致（不区分大小写），不比较协议与路径。
func CheckDomain(u, base *url.URL) error {
	if base == nil || base.Hostname() == "" {
		return configErrorf("base URL has no host")
	}
	if u == nil || !strings.EqualFold(base.Hostname(), u.Hostname()) {
		loc := "<nil>"
		if u != nil {
			loc = u.String()
		}
		return errorf(ErrDomainMismatch, "domain of URL %s doesn't match base URL %s", loc, base)
	}
	return nil
}

// parseAbsURL 解析并要求为带主机的绝对地址。
func parseAbsURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, &Error{Kind: ErrConfiguration, Msg: "malformed URL " + strconv.Quote(raw), Err: err}
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, configErrorf("URL %q must be absolute", raw)
	}
	return u, nil
}

// formatDecimal 输出至少带一位小数的数字（1 -> "1.0"，0.5 -> "0.5"）。
func formatDecimal(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// validXMLName 按 XML Name 产生式检查属性名：首字符为字母、"_" 或 ":"，
// 其后允许字母、数字、组合符号以及 "." "-" "_" ":"。
func validXMLName(name string) bool {
	if name == "" || !utf8.ValidString(name) {
		return false
	}
	for i, r := range name {
		switch {
		case unicode.IsLetter(r) || r == '_' || r == ':':
		case i > 0 && (unicode.IsDigit(r) || r == '.' || r == '-' || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r)):
		default:
			return false
		}
	}
	return true
}
