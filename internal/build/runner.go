// 包 build 负责主流程编排：
// - 并发读取各来源页面并按出现顺序去重
// - 过滤域名不符的页面，补齐默认 changefreq/priority
// - 按配置类型生成站点地图，必要时生成索引
// - 记录运行清单并清理过期记录
package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-sitemapgen/internal/config"
	"go-sitemapgen/internal/logx"
	"go-sitemapgen/internal/model"
	"go-sitemapgen/internal/rules"
	"go-sitemapgen/internal/sitemap"
	"go-sitemapgen/internal/source"
	"go-sitemapgen/internal/store"
)

// Runner 生成执行器，持有配置/存储/规则。
type Runner struct {
	cfg   *config.Config
	rules *rules.Rules
	store *store.SQLite
	// DryRun 非空时不写文件，把渲染出的文档依次写到该 Writer。
	DryRun io.Writer
}

// New 创建 Runner；store 可为 nil（不记录运行清单，也不能使用 sqlite 来源）。
func New(cfg *config.Config, s *store.SQLite, rl *rules.Rules) *Runner {
	return &Runner{cfg: cfg, store: s, rules: rl}
}

// output 为一次生成的产物。
type output struct {
	files     []string
	index     string
	written   int
	documents int
	skipped   []model.Skipped
}

// Run 执行一次生成：收集→过滤→生成→记录。
func (r *Runner) Run(ctx context.Context) (model.Report, error) {
	var rep model.Report
	base, err := url.Parse(r.cfg.BaseURL)
	if err != nil {
		return rep, fmt.Errorf("parse BASE_URL: %w", err)
	}
	srcs := make([]source.Source, 0, len(r.cfg.Sources))
	for _, sc := range r.cfg.Sources {
		src, err := source.FromConfig(sc, r.rules, r.store)
		if err != nil {
			return rep, err
		}
		srcs = append(srcs, src)
	}
	logx.Infof("开始生成：类型=%s 来源=%d 输出目录=%s", r.cfg.Flavor, len(srcs), r.cfg.OutputDir)

	names := make([]string, len(srcs))
	for i, s := range srcs {
		names[i] = s.Name()
	}
	buf := newCollector(names)
	sem := make(chan struct{}, max(1, r.cfg.Concurrency))
	var wg sync.WaitGroup
	for i, src := range srcs {
		i, src := i, src
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			pages, err := src.Pages(ctx)
			if err != nil {
				logx.Warnf("[%s] 读取来源失败：%v", src.Name(), err)
				buf.fail(i, err)
				return
			}
			logx.Infof("[%s] 收集到 %d 个页面", src.Name(), len(pages))
			buf.add(i, pages)
		}()
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return rep, err
	}

	collected, pages, skipped := buf.snapshot()
	rep.Stats.Sources = len(srcs)
	rep.Stats.Collected = collected
	rep.Stats.Unique = len(pages)
	pages = r.filter(base, pages, &skipped)

	run, err := r.beginRun(ctx)
	if err != nil {
		return rep, err
	}
	out, err := r.generate(pages)
	skipped = append(skipped, out.skipped...)
	if err != nil {
		return rep, fmt.Errorf("generate %s sitemap: %w", r.cfg.Flavor, err)
	}
	run.URLs = out.written
	run.IndexFile = out.index
	run.FinishedAt = time.Now().UTC()
	records := make([]model.FileRecord, 0, len(out.files))
	for _, f := range out.files {
		name := filepath.Base(f)
		records = append(records, model.FileRecord{
			RunID:     run.ID,
			Name:      f,
			Loc:       base.ResolveReference(&url.URL{Path: name}).String(),
			WrittenAt: run.FinishedAt,
		})
	}
	if r.store != nil && r.DryRun == nil {
		if err := r.syncPages(ctx, pages, skipped); err != nil {
			return rep, err
		}
		if err := r.store.FinishRun(ctx, run, records); err != nil {
			return rep, err
		}
		if err := r.store.CleanOldRuns(ctx, r.cfg.OutdateClean); err != nil {
			logx.Warnf("清理过期运行记录失败：%v", err)
		}
	}

	rep.Run = run
	rep.Files = records
	rep.Skipped = skipped
	rep.Stats.Written = out.written
	rep.Stats.Skipped = len(skipped)
	rep.Stats.Documents = out.documents
	logx.Infof("生成完成：写入 %d 条，跳过 %d 条，文档 %d 个", out.written, len(skipped), out.documents)
	return rep, nil
}

// filter 去掉非法地址与域名不符的页面，并补齐默认值。
func (r *Runner) filter(base *url.URL, pages []model.Page, skipped *[]model.Skipped) []model.Page {
	out := pages[:0:0]
	for _, p := range pages {
		u, err := url.Parse(p.Loc)
		if err != nil || !u.IsAbs() {
			*skipped = append(*skipped, model.Skipped{Loc: p.Loc, Source: p.Source, Reason: "invalid URL"})
			continue
		}
		if err := sitemap.CheckDomain(u, base); err != nil {
			logx.Debugf("[%s] 跳过外部地址：%s", p.Source, p.Loc)
			*skipped = append(*skipped, model.Skipped{Loc: p.Loc, Source: p.Source, Reason: "domain mismatch"})
			continue
		}
		if p.ChangeFreq == "" {
			p.ChangeFreq = r.cfg.Defaults.ChangeFreq
		}
		if p.Priority == nil && r.cfg.Defaults.Priority != nil {
			v := *r.cfg.Defaults.Priority
			p.Priority = &v
		}
		out = append(out, p)
	}
	return out
}

// syncPages 让 pages 表与本次写入的页面一致：写入的页面插入或更新，被跳过的页面删除。
func (r *Runner) syncPages(ctx context.Context, pages []model.Page, skipped []model.Skipped) error {
	drop := make(map[string]bool, len(skipped))
	for _, s := range skipped {
		if s.Loc == "" {
			continue
		}
		drop[s.Loc] = true
		if err := r.store.DeletePage(ctx, s.Loc); err != nil {
			return err
		}
	}
	kept := 0
	for _, p := range pages {
		if drop[p.Loc] {
			continue
		}
		if err := r.store.UpsertPage(ctx, p); err != nil {
			return err
		}
		kept++
	}
	logx.Debugf("页面表已同步：保留 %d，删除 %d", kept, len(drop))
	return nil
}

func (r *Runner) beginRun(ctx context.Context) (model.Run, error) {
	if r.store == nil || r.DryRun != nil {
		return model.Run{
			ID:        uuid.NewString(),
			BaseURL:   r.cfg.BaseURL,
			Flavor:    string(r.cfg.Flavor),
			StartedAt: time.Now().UTC(),
		}, nil
	}
	return r.store.BeginRun(ctx, r.cfg.BaseURL, string(r.cfg.Flavor))
}

// generate 按配置类型选择生成器与转换函数。
func (r *Runner) generate(pages []model.Page) (output, error) {
	switch r.cfg.Flavor {
	case sitemap.FlavorWeb:
		return emit(r, sitemap.NewWebGenerator, toWeb, pages)
	case sitemap.FlavorImage:
		return emit(r, sitemap.NewImageGenerator, toImage, pages)
	case sitemap.FlavorNews:
		return emit(r, sitemap.NewNewsGenerator, newsConverter(r.cfg.News), pages)
	case sitemap.FlavorMobile:
		return emit(r, sitemap.NewMobileGenerator, toMobile, pages)
	case sitemap.FlavorLink:
		return emit(r, sitemap.NewLinkGenerator, toLink, pages)
	}
	return output{}, fmt.Errorf("unsupported flavor %q", r.cfg.Flavor)
}

func emit[U sitemap.Entry](r *Runner, newGen func(sitemap.Options) (*sitemap.Generator[U], error), conv func(model.Page) (U, error), pages []model.Page) (output, error) {
	var out output
	opts, err := r.cfg.SitemapOptions()
	if err != nil {
		return out, err
	}
	if r.DryRun != nil {
		opts.BaseDir = ""
		opts.AutoValidate = false
	}
	g, err := newGen(opts)
	if err != nil {
		return out, err
	}
	for _, p := range pages {
		u, err := conv(p)
		if err == nil {
			err = g.Add(u)
		}
		switch {
		case err == nil:
			out.written++
		case errors.Is(err, sitemap.ErrConfiguration), errors.Is(err, sitemap.ErrDomainMismatch):
			logx.Warnf("[%s] 跳过 %s：%v", p.Source, p.Loc, err)
			out.skipped = append(out.skipped, model.Skipped{Loc: p.Loc, Source: p.Source, Reason: err.Error()})
		default:
			return out, err
		}
	}

	if r.DryRun != nil {
		docs := g.WriteAsStrings()
		for _, d := range docs {
			if _, err := fmt.Fprintln(r.DryRun, d); err != nil {
				return out, fmt.Errorf("write dry-run output: %w", err)
			}
		}
		out.documents = len(docs)
		return out, nil
	}

	files, err := g.Write()
	if err != nil {
		return out, err
	}
	out.files = files
	out.documents = len(files)
	if r.wantIndex(len(files)) {
		idx, err := g.WriteIndex(r.cfg.Index.File)
		if err != nil {
			return out, err
		}
		logx.Infof("已写出索引 %s（%d 个站点地图）", idx, len(files))
		out.index = idx
	}
	return out, nil
}

func (r *Runner) wantIndex(files int) bool {
	switch r.cfg.Index.Mode {
	case "always":
		return true
	case "never":
		return false
	}
	return files > 1
}
