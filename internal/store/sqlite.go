// 包 store 提供存储实现（SQLite）：
// - pages：可作为站点地图来源的页面表
// - runs/files：每次生成的运行清单
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"go-sitemapgen/internal/model"
)

// SQLite 封装 *sql.DB，基于 modernc.org/sqlite（纯 Go 实现）。
type SQLite struct {
	db *sql.DB
}

// OpenSQLite 打开 SQLite 数据库并执行自动迁移。
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

// Reset 清空全部表（不删除数据库文件）。
func (s *SQLite) Reset(ctx context.Context) error {
	for _, table := range []string{"files", "runs", "pages"} {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	return nil
}

// migrate 执行建表语句，保持幂等。
func (s *SQLite) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS pages (
            loc TEXT UNIQUE,
            title TEXT,
            lastmod TIMESTAMP,
            changefreq TEXT,
            priority REAL,
            images TEXT,
            created_at TIMESTAMP
        );`,
		`CREATE TABLE IF NOT EXISTS runs (
            id TEXT PRIMARY KEY,
            base_url TEXT,
            flavor TEXT,
            urls INTEGER,
            index_file TEXT,
            started_at TIMESTAMP,
            finished_at TIMESTAMP
        );`,
		`CREATE TABLE IF NOT EXISTS files (
            run_id TEXT,
            name TEXT,
            loc TEXT,
            written_at TIMESTAMP
        );`,
	}
	for _, q := range stmts {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("exec migrate: %w", err)
		}
	}
	return nil
}

// UpsertPage 插入或更新页面（loc 唯一约束）。
func (s *SQLite) UpsertPage(ctx context.Context, p model.Page) error {
	if p.Loc == "" {
		return errors.New("page.loc required")
	}
	images, err := json.Marshal(p.Images)
	if err != nil {
		return fmt.Errorf("encode images of %s: %w", p.Loc, err)
	}
	var lastMod any
	if !p.LastMod.IsZero() {
		lastMod = p.LastMod.UTC()
	}
	var prio any
	if p.Priority != nil {
		prio = *p.Priority
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO pages(loc, title, lastmod, changefreq, priority, images, created_at)
        VALUES(?,?,?,?,?,?,?)
        ON CONFLICT(loc) DO UPDATE SET title=excluded.title, lastmod=excluded.lastmod, changefreq=excluded.changefreq, priority=excluded.priority, images=excluded.images`,
		p.Loc, p.Title, lastMod, p.ChangeFreq, prio, string(images), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert page %s: %w", p.Loc, err)
	}
	return nil
}

// DeletePage 删除页面，不存在时不报错。
func (s *SQLite) DeletePage(ctx context.Context, loc string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE loc = ?`, loc); err != nil {
		return fmt.Errorf("delete page %s: %w", loc, err)
	}
	return nil
}

// ListPages 按写入顺序返回全部页面。
func (s *SQLite) ListPages(ctx context.Context) ([]model.Page, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT loc, COALESCE(title,''), lastmod, COALESCE(changefreq,''), priority, COALESCE(images,'') FROM pages ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query pages: %w", err)
	}
	defer rows.Close()
	var out []model.Page
	for rows.Next() {
		var p model.Page
		var lastMod sql.NullTime
		var prio sql.NullFloat64
		var images string
		if err := rows.Scan(&p.Loc, &p.Title, &lastMod, &p.ChangeFreq, &prio, &images); err != nil {
			return nil, fmt.Errorf("scan pages: %w", err)
		}
		if lastMod.Valid {
			p.LastMod = lastMod.Time
		}
		if prio.Valid {
			v := prio.Float64
			p.Priority = &v
		}
		if images != "" && images != "null" {
			if err := json.Unmarshal([]byte(images), &p.Images); err != nil {
				return nil, fmt.Errorf("decode images of %s: %w", p.Loc, err)
			}
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pages: %w", err)
	}
	return out, nil
}

// BeginRun 分配运行 ID 并写入开始时间。
func (s *SQLite) BeginRun(ctx context.Context, baseURL, flavor string) (model.Run, error) {
	run := model.Run{ID: uuid.NewString(), BaseURL: baseURL, Flavor: flavor, StartedAt: time.Now().UTC()}
	_, err := s.db.ExecContext(ctx, `INSERT INTO runs(id, base_url, flavor, urls, index_file, started_at) VALUES(?,?,?,?,?,?)`,
		run.ID, run.BaseURL, run.Flavor, 0, "", run.StartedAt)
	if err != nil {
		return model.Run{}, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// FinishRun 写入结束时间、条目数、索引文件与输出文件列表。
func (s *SQLite) FinishRun(ctx context.Context, run model.Run, files []model.FileRecord) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	res, err := tx.ExecContext(ctx, `UPDATE runs SET urls=?, index_file=?, finished_at=? WHERE id=?`,
		run.URLs, run.IndexFile, nowOr(run.FinishedAt), run.ID)
	if err != nil {
		return fmt.Errorf("update run %s: %w", run.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %s not found", run.ID)
	}
	for _, f := range files {
		if _, err = tx.ExecContext(ctx, `INSERT INTO files(run_id, name, loc, written_at) VALUES(?,?,?,?)`,
			run.ID, f.Name, f.Loc, nowOr(f.WrittenAt)); err != nil {
			return fmt.Errorf("insert file %s: %w", f.Name, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", run.ID, err)
	}
	return nil
}

// GetRun 按 ID 查询运行记录。
func (s *SQLite) GetRun(ctx context.Context, id string) (model.Run, error) {
	var r model.Run
	var finished sql.NullTime
	err := s.db.QueryRowContext(ctx, `SELECT id, base_url, flavor, urls, COALESCE(index_file,''), started_at, finished_at FROM runs WHERE id = ?`, id).
		Scan(&r.ID, &r.BaseURL, &r.Flavor, &r.URLs, &r.IndexFile, &r.StartedAt, &finished)
	if err != nil {
		return model.Run{}, fmt.Errorf("query run %s: %w", id, err)
	}
	if finished.Valid {
		r.FinishedAt = finished.Time
	}
	return r, nil
}

// LatestRun 返回最近开始的一次运行。
func (s *SQLite) LatestRun(ctx context.Context) (model.Run, error) {
	var id string
	if err := s.db.QueryRowContext(ctx, `SELECT id FROM runs ORDER BY started_at DESC, rowid DESC LIMIT 1`).Scan(&id); err != nil {
		return model.Run{}, fmt.Errorf("query latest run: %w", err)
	}
	return s.GetRun(ctx, id)
}

// ListFiles 返回某次运行写出的文件（按写入顺序）。
func (s *SQLite) ListFiles(ctx context.Context, runID string) ([]model.FileRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT run_id, name, loc, written_at FROM files WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("query files: %w", err)
	}
	defer rows.Close()
	var out []model.FileRecord
	for rows.Next() {
		var f model.FileRecord
		if err := rows.Scan(&f.RunID, &f.Name, &f.Loc, &f.WrittenAt); err != nil {
			return nil, fmt.Errorf("scan files: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}
	return out, nil
}

// CleanOldRuns 按天数阈值清理过期运行记录及其文件清单。
func (s *SQLite) CleanOldRuns(ctx context.Context, days int) error {
	if days <= 0 {
		return nil
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	if _, err := s.db.ExecContext(ctx, `DELETE FROM files WHERE run_id IN (SELECT id FROM runs WHERE started_at < ?)`, cutoff); err != nil {
		return fmt.Errorf("clean old files: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, cutoff); err != nil {
		return fmt.Errorf("clean old runs: %w", err)
	}
	return nil
}

func nowOr(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}
