package build

import (
	"strings"
	"sync"

	"github.com/samber/lo"

	"go-sitemapgen/internal/model"
)

// collector 在并发收集期间按来源下标保存结果，快照时恢复配置顺序。
type collector struct {
	mu    sync.Mutex
	names []string
	pages [][]model.Page
	errs  []error
}

func newCollector(names []string) *collector {
	return &collector{
		names: names,
		pages: make([][]model.Page, len(names)),
		errs:  make([]error, len(names)),
	}
}

func (c *collector) add(i int, pages []model.Page) {
	c.mu.Lock()
	c.pages[i] = pages
	c.mu.Unlock()
}

func (c *collector) fail(i int, err error) {
	c.mu.Lock()
	c.errs[i] = err
	c.mu.Unlock()
}

// snapshot 返回：
// - collected：去重前的页面数（不含空地址）
// - unique：按来源顺序展平并按 loc 去重，保留首次出现
// - failed：收集失败的来源
func (c *collector) snapshot() (collected int, unique []model.Page, failed []model.Skipped) {
	c.mu.Lock()
	defer c.mu.Unlock()
	all := lo.Filter(lo.Flatten(c.pages), func(p model.Page, _ int) bool {
		return strings.TrimSpace(p.Loc) != ""
	})
	all = lo.Map(all, func(p model.Page, _ int) model.Page {
		p.Loc = strings.TrimSpace(p.Loc)
		return p
	})
	for i, err := range c.errs {
		if err != nil {
			failed = append(failed, model.Skipped{Source: c.names[i], Reason: err.Error()})
		}
	}
	return len(all), lo.UniqBy(all, func(p model.Page) string { return p.Loc }), failed
}
