package source

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"go-sitemapgen/internal/model"
)

// Feed 使用 gofeed 解析本地 RSS/Atom/JSON Feed 文件，每个条目对应一个页面：
// - lastmod 取更新时间（缺省用发布时间），published 取发布时间（缺省用更新时间）
// - 分类作为新闻关键词，条目图片作为页面图片
type Feed struct {
	SourceName string
	Path       string
	Max        int
}

func (s Feed) Name() string { return s.SourceName }

func (s Feed) Pages(ctx context.Context) ([]model.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open feed %s: %w", s.Path, err)
	}
	defer f.Close()
	feed, err := gofeed.NewParser().Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", s.Path, err)
	}
	out := make([]model.Page, 0, len(feed.Items))
	for _, it := range feed.Items {
		link := strings.TrimSpace(it.Link)
		if link == "" {
			continue
		}
		p := model.Page{
			Loc:       link,
			Title:     strings.TrimSpace(it.Title),
			LastMod:   pickTime(it.UpdatedParsed, it.PublishedParsed),
			Published: pickTime(it.PublishedParsed, it.UpdatedParsed),
			Keywords:  it.Categories,
			Source:    s.SourceName,
		}
		if it.Image != nil && it.Image.URL != "" {
			p.Images = []model.Image{{Loc: it.Image.URL, Title: it.Image.Title}}
		}
		out = append(out, p)
		if s.Max > 0 && len(out) >= s.Max {
			break
		}
	}
	return out, nil
}

func pickTime(a, b *time.Time) time.Time {
	if a != nil {
		return *a
	}
	if b != nil {
		return *b
	}
	return time.Time{}
}
