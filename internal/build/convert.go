package build

import (
	"github.com/samber/lo"

	"go-sitemapgen/internal/config"
	"go-sitemapgen/internal/model"
	"go-sitemapgen/internal/sitemap"
)

// 页面到各类型条目的转换；转换失败的页面被跳过并记录原因。

func urlOptions(p model.Page) (sitemap.URLOptions, error) {
	cf, err := sitemap.ParseChangeFreq(p.ChangeFreq)
	if err != nil {
		return sitemap.URLOptions{}, err
	}
	return sitemap.URLOptions{LastMod: p.LastMod, ChangeFreq: cf, Priority: p.Priority}, nil
}

func toWeb(p model.Page) (*sitemap.WebURL, error) {
	o, err := urlOptions(p)
	if err != nil {
		return nil, err
	}
	return sitemap.NewWebURLWith(p.Loc, o)
}

func toMobile(p model.Page) (*sitemap.MobileURL, error) {
	o, err := urlOptions(p)
	if err != nil {
		return nil, err
	}
	return sitemap.NewMobileURLWith(p.Loc, o)
}

// toImage 按图片地址去重，超过单页上限的部分丢弃。
func toImage(p model.Page) (*sitemap.ImageURL, error) {
	o, err := urlOptions(p)
	if err != nil {
		return nil, err
	}
	imgs := lo.UniqBy(p.Images, func(img model.Image) string { return img.Loc })
	if len(imgs) > sitemap.MaxImagesPerURL {
		imgs = imgs[:sitemap.MaxImagesPerURL]
	}
	return sitemap.NewImageURLWith(p.Loc, sitemap.ImageURLOptions{
		URLOptions: o,
		Images: lo.Map(imgs, func(img model.Image, _ int) sitemap.Image {
			return sitemap.Image{Loc: img.Loc, Title: img.Title, Caption: img.Caption}
		}),
	})
}

func toLink(p model.Page) (*sitemap.LinkURL, error) {
	o, err := urlOptions(p)
	if err != nil {
		return nil, err
	}
	return sitemap.NewLinkURLWith(p.Loc, sitemap.LinkURLOptions{
		URLOptions: o,
		Alternates: lo.Map(p.Alternates, func(a model.Alternate, _ int) sitemap.Alternate {
			return sitemap.Alternate{Href: a.Href, Attrs: []sitemap.Attr{{Name: "hreflang", Value: a.HrefLang}}}
		}),
	})
}

// newsConverter 使用 NEWS 配置的刊物信息；缺少发布时间时回退到 lastmod。
func newsConverter(n config.News) func(model.Page) (*sitemap.NewsURL, error) {
	return func(p model.Page) (*sitemap.NewsURL, error) {
		o, err := urlOptions(p)
		if err != nil {
			return nil, err
		}
		published := p.Published
		if published.IsZero() {
			published = p.LastMod
		}
		return sitemap.NewNewsURLWith(p.Loc, sitemap.NewsURLOptions{
			URLOptions:      o,
			PublicationDate: published,
			Title:           p.Title,
			Name:            n.Name,
			Language:        n.Language,
			Keywords:        p.Keywords,
			Genres:          n.Genres,
		})
	}
}
