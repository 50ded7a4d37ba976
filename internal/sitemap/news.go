package sitemap

import (
	"strings"
	"time"
)

const (
	NewsNS    = "news"
	NewsNSURI = "http://www.google.com/schemas/sitemap-news/0.9"

	// MaxURLsPerNewsSitemap 为新闻站点地图单文件上限，同时是其默认值。
	MaxURLsPerNewsSitemap = 1000
)

// NewsURL 为带 <news:news> 的页面条目，发布日期、标题、刊物名与语言必填。
type NewsURL struct {
	WebURL
	publicationDate time.Time
	title           string
	name            string
	language        string
	keywords        []string
	genres          []string
}

type NewsURLOptions struct {
	URLOptions
	PublicationDate time.Time
	Title           string
	Name            string // 刊物名称
	Language        string
	Keywords        []string
	Genres          []string
}

func NewNewsURL(loc string, published time.Time, title, name, language string) (*NewsURL, error) {
	return NewNewsURLWith(loc, NewsURLOptions{
		PublicationDate: published,
		Title:           title,
		Name:            name,
		Language:        language,
	})
}

func NewNewsURLWith(loc string, o NewsURLOptions) (*NewsURL, error) {
	switch {
	case o.PublicationDate.IsZero():
		return nil, configErrorf("news publication date is required")
	case strings.TrimSpace(o.Title) == "":
		return nil, configErrorf("news title is required")
	case strings.TrimSpace(o.Name) == "":
		return nil, configErrorf("news publication name is required")
	case strings.TrimSpace(o.Language) == "":
		return nil, configErrorf("news publication language is required")
	}
	u := &NewsURL{
		publicationDate: o.PublicationDate,
		title:           o.Title,
		name:            o.Name,
		language:        o.Language,
		keywords:        append([]string(nil), o.Keywords...),
		genres:          append([]string(nil), o.Genres...),
	}
	if err := u.init(loc, o.URLOptions); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *NewsURL) PublicationDate() time.Time { return u.publicationDate }
func (u *NewsURL) Title() string              { return u.title }
func (u *NewsURL) Name() string               { return u.name }
func (u *NewsURL) Language() string           { return u.language }

var NewsRenderer = Renderer[*NewsURL]{
	Flavor:     FlavorNews,
	Namespaces: namespaceAttr(NewsNS, NewsNSURI),
	MaxURLs:    MaxURLsPerNewsSitemap,
	Parse: func(raw string) (*NewsURL, error) {
		return nil, configErrorf("news URL %q needs publication metadata; use NewNewsURLWith", raw)
	},
	Render: func(sb *strings.Builder, u *NewsURL, df DateFormatter) {
		var ext strings.Builder
		openBlock(&ext, NewsNS, "news")
		ext.WriteString("      <news:publication>\n")
		renderSubTag(&ext, NewsNS, "name", u.name)
		renderSubTag(&ext, NewsNS, "language", u.language)
		ext.WriteString("      </news:publication>\n")
		renderTag(&ext, NewsNS, "genres", strings.Join(u.genres, ", "))
		renderTag(&ext, NewsNS, "publication_date", df.Format(u.publicationDate))
		renderTag(&ext, NewsNS, "title", u.title)
		renderTag(&ext, NewsNS, "keywords", strings.Join(u.keywords, ", "))
		closeBlock(&ext, NewsNS, "news")
		renderURL(sb, &u.WebURL, df, ext.String())
	},
}
