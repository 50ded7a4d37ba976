package sitemap

import "strings"

const (
	LinkNS    = "xhtml"
	LinkNSURI = "http://www.w3.org/1999/xhtml"
)

// Attr 为 <xhtml:link> 上的一个附加属性（如 hreflang、media）。
type Attr struct {
	Name  string
	Value string
}

// Alternate 为一个替代版本地址及其属性，属性按给定顺序输出在 rel 与 href 之间。
type Alternate struct {
	Href  string
	Attrs []Attr
}

// LinkURL 为带 <xhtml:link rel="alternate"> 列表的页面条目。
type LinkURL struct {
	WebURL
	alternates []Alternate
}

type LinkURLOptions struct {
	URLOptions
	Alternates []Alternate
}

func NewLinkURL(loc string, alternates ...Alternate) (*LinkURL, error) {
	return NewLinkURLWith(loc, LinkURLOptions{Alternates: alternates})
}

func NewLinkURLWith(loc string, o LinkURLOptions) (*LinkURL, error) {
	alts := make([]Alternate, 0, len(o.Alternates))
	for i, a := range o.Alternates {
		if _, err := parseAbsURL(a.Href); err != nil {
			return nil, configErrorf("alternate %d: invalid href %q", i, a.Href)
		}
		for _, attr := range a.Attrs {
			if !validXMLName(attr.Name) || attr.Name == "rel" || attr.Name == "href" {
				return nil, configErrorf("alternate %d: attribute name %q is not allowed", i, attr.Name)
			}
		}
		alts = append(alts, Alternate{Href: a.Href, Attrs: append([]Attr(nil), a.Attrs...)})
	}
	u := &LinkURL{alternates: alts}
	if err := u.init(loc, o.URLOptions); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *LinkURL) Alternates() []Alternate {
	out := make([]Alternate, len(u.alternates))
	for i, a := range u.alternates {
		out[i] = Alternate{Href: a.Href, Attrs: append([]Attr(nil), a.Attrs...)}
	}
	return out
}

var LinkRenderer = Renderer[*LinkURL]{
	Flavor:     FlavorLink,
	Namespaces: namespaceAttr(LinkNS, LinkNSURI),
	Parse:      func(raw string) (*LinkURL, error) { return NewLinkURL(raw) },
	Render: func(sb *strings.Builder, u *LinkURL, df DateFormatter) {
		var ext strings.Builder
		for _, a := range u.alternates {
			ext.WriteString("    <xhtml:link\n")
			ext.WriteString("      rel=\"alternate\"\n")
			for _, attr := range a.Attrs {
				ext.WriteString("      " + attr.Name + "=\"" + Escape(attr.Value) + "\"\n")
			}
			ext.WriteString("      href=\"" + Escape(a.Href) + "\"\n")
			ext.WriteString("    />\n")
		}
		renderURL(sb, &u.WebURL, df, ext.String())
	},
}
