// 包 source 提供页面来源：
// - inline：配置中直接列出的地址
// - text：每行一个地址的文本文件
// - html：本地 HTML 文件，按 rules.yaml 预设抽取链接/图片/多语言版本
// - feed：本地 RSS/Atom/JSON Feed 文件
// - sqlite：store 中的 pages 表
// 来源只读本地数据，不发起网络请求。
package source

import (
	"context"
	"fmt"

	"go-sitemapgen/internal/config"
	"go-sitemapgen/internal/model"
	"go-sitemapgen/internal/rules"
	"go-sitemapgen/internal/store"
)

// Source 返回按出现顺序排列的页面。
type Source interface {
	Name() string
	Pages(ctx context.Context) ([]model.Page, error)
}

// FromConfig 根据配置构造来源；sqlite 来源需要已打开的 store。
func FromConfig(sc config.Source, rl *rules.Rules, st *store.SQLite) (Source, error) {
	switch sc.Type {
	case "inline":
		return Inline{SourceName: sc.Name, URLs: sc.URLs}, nil
	case "text":
		return Text{SourceName: sc.Name, Path: sc.Path}, nil
	case "html":
		return HTML{SourceName: sc.Name, Path: sc.Path, URL: sc.URL, Preset: rl.GetPreset(sc.Theme)}, nil
	case "feed":
		return Feed{SourceName: sc.Name, Path: sc.Path, Max: sc.Max}, nil
	case "sqlite":
		if st == nil {
			return nil, fmt.Errorf("source %s: sqlite source requires DATABASE.dsn", sc.Name)
		}
		return DB{SourceName: sc.Name, Store: st}, nil
	}
	return nil, fmt.Errorf("source %s: unsupported type %q", sc.Name, sc.Type)
}

// Inline 为配置内联的地址列表。
type Inline struct {
	SourceName string
	URLs       []string
}

func (s Inline) Name() string { return s.SourceName }

func (s Inline) Pages(ctx context.Context) ([]model.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]model.Page, 0, len(s.URLs))
	for _, u := range s.URLs {
		if u == "" {
			continue
		}
		out = append(out, model.Page{Loc: u, Source: s.SourceName})
	}
	return out, nil
}

// DB 读取 store 中的 pages 表。
type DB struct {
	SourceName string
	Store      *store.SQLite
}

func (s DB) Name() string { return s.SourceName }

func (s DB) Pages(ctx context.Context) ([]model.Page, error) {
	pages, err := s.Store.ListPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", s.SourceName, err)
	}
	for i := range pages {
		pages[i].Source = s.SourceName
	}
	return pages, nil
}
