package source

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go-sitemapgen/internal/model"
	"go-sitemapgen/internal/sitemap"
	"go-sitemapgen/internal/w3cdate"
)

// Text 读取文本文件，每行：地址 [lastmod] [changefreq] [priority]，以空白分隔；
// 空行与 # 开头的行忽略，"-" 表示该列缺省。
type Text struct {
	SourceName string
	Path       string
}

func (s Text) Name() string { return s.SourceName }

func (s Text) Pages(ctx context.Context) ([]model.Page, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()
	df := w3cdate.New(w3cdate.Auto)
	var out []model.Page
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	line := 0
	for sc.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		p := model.Page{Loc: fields[0], Source: s.SourceName}
		if len(fields) > 1 && fields[1] != "-" {
			t, err := df.Parse(fields[1])
			if err != nil {
				return nil, fmt.Errorf("%s:%d: lastmod: %w", s.Path, line, err)
			}
			p.LastMod = t
		}
		if len(fields) > 2 && fields[2] != "-" {
			cf, err := sitemap.ParseChangeFreq(fields[2])
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", s.Path, line, err)
			}
			p.ChangeFreq = string(cf)
		}
		if len(fields) > 3 && fields[3] != "-" {
			v, err := strconv.ParseFloat(fields[3], 64)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: priority %q: %w", s.Path, line, fields[3], err)
			}
			p.Priority = &v
		}
		out = append(out, p)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	return out, nil
}
