// 命令行入口：
// - 解析 flags 与 sitemap.yaml/rules.yaml
// - 初始化日志与可选的运行清单数据库
// - 生成站点地图（可 -dry-run 输出到 stdout）并导出运行报告
// - -report-run 只从运行清单导出历史运行，不生成
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"

	"go-sitemapgen/internal/build"
	"go-sitemapgen/internal/config"
	"go-sitemapgen/internal/export"
	"go-sitemapgen/internal/logx"
	"go-sitemapgen/internal/rules"
	"go-sitemapgen/internal/store"
)

func main() {
	var (
		configPath = flag.String("config", "sitemap.yaml", "path to sitemap.yaml")
		rulesPath  = flag.String("rules", "rules.yaml", "path to rules.yaml (optional)")
		reportPath = flag.String("report", "", "write a JSON run report to this path")
		dryRun     = flag.Bool("dry-run", false, "print sitemap documents to stdout instead of writing files")
		reportRun  = flag.String("report-run", "", "export a recorded run (id or \"latest\") from DATABASE.dsn and exit")
	)
	flag.Parse()

	// 1) 加载配置与规则；rules.yaml 缺失时使用内置预设
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	var rl *rules.Rules
	if *rulesPath != "" {
		if r, err := rules.Load(*rulesPath); err == nil {
			rl = r
		} else if !errors.Is(err, os.ErrNotExist) {
			log.Printf("load rules failed: %v", err)
		}
	}
	// 2) 初始化日志：级别/格式/语言/颜色
	logx.Init(cfg.LogLevel, cfg.LogFormat, cfg.LogLocale, cfg.LogColor)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// 3) 运行清单：仅在配置了 DATABASE.dsn 时打开
	var st *store.SQLite
	if cfg.Database.DSN != "" {
		st, err = store.OpenSQLite(cfg.Database.DSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		defer st.Close()
		if cfg.ResetOnStart {
			if err := st.Reset(ctx); err != nil {
				logx.Warnf("启动清理数据库失败：%v", err)
			} else {
				logx.Infof("已清理数据库表（pages/runs/files）")
			}
		}
	}

	if *reportRun != "" {
		path := *reportPath
		if path == "" {
			path = "report.json"
		}
		if err := exportStoredRun(ctx, st, *reportRun, path); err != nil {
			logx.Errorf("导出历史运行失败：%v", err)
			os.Exit(1)
		}
		logx.Infof("已导出 %s", path)
		return
	}

	// 4) 生成
	run := build.New(cfg, st, rl)
	if *dryRun {
		run.DryRun = os.Stdout
	}
	rep, err := run.Run(ctx)
	if err != nil {
		logx.Errorf("运行失败：%v", err)
		os.Exit(1)
	}

	// 5) 导出报告
	if *reportPath != "" {
		if err := export.ToJSON(rep, *reportPath); err != nil {
			log.Fatalf("export report: %v", err)
		}
		logx.Infof("已导出 %s", *reportPath)
	}
}

// exportStoredRun 从运行清单导出一次运行；id 为 "latest" 时取最近一次。
func exportStoredRun(ctx context.Context, st *store.SQLite, id, path string) error {
	if st == nil {
		return errors.New("-report-run requires DATABASE.dsn")
	}
	if id == "latest" {
		id = ""
	}
	return export.FromStore(ctx, st, id, path)
}
