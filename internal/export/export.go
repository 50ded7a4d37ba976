// 包 export 负责导出运行报告：将一次生成的统计、输出文件与跳过记录写为 report.json。
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go-sitemapgen/internal/model"
	"go-sitemapgen/internal/store"
)

// FromStore 从运行清单读取某次运行（runID 为空取最近一次）及其文件并写入 JSON 文件。
// 清单不保存跳过记录，导出的 skipped 为空。
func FromStore(ctx context.Context, s *store.SQLite, runID, path string) error {
	var (
		run model.Run
		err error
	)
	if runID == "" {
		run, err = s.LatestRun(ctx)
	} else {
		run, err = s.GetRun(ctx, runID)
	}
	if err != nil {
		return fmt.Errorf("load run: %w", err)
	}
	files, err := s.ListFiles(ctx, run.ID)
	if err != nil {
		return fmt.Errorf("list files: %w", err)
	}
	rep := model.Report{
		Run: run,
		Stats: model.Stats{
			Written:   run.URLs,
			Documents: len(files),
		},
		Files: files,
	}
	return writeJSON(rep, path)
}

func writeJSON(v any, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json to %s: %w", path, err)
	}
	return nil
}
