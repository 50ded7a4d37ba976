// 包 model 定义各层共享的数据模型（页面/运行记录/输出文件/报告）。
package model

import "time"

// Page 为来源收集到的一个待收录页面，字段按需填写，由 build 转换为对应类型的站点地图条目。
type Page struct {
	Loc        string      `json:"loc"`
	Title      string      `json:"title,omitempty"`
	LastMod    time.Time   `json:"lastmod,omitempty"`
	ChangeFreq string      `json:"changefreq,omitempty"`
	Priority   *float64    `json:"priority,omitempty"`
	Images     []Image     `json:"images,omitempty"`
	Alternates []Alternate `json:"alternates,omitempty"`
	// 新闻类型使用：发布时间与关键词
	Published time.Time `json:"published,omitempty"`
	Keywords  []string  `json:"keywords,omitempty"`
	Source    string    `json:"source"`
}

// Image 为页面内图片。
type Image struct {
	Loc     string `json:"loc"`
	Title   string `json:"title,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// Alternate 为页面的其它语言版本。
type Alternate struct {
	Href     string `json:"href"`
	HrefLang string `json:"hreflang"`
}

// Run 为一次生成的记录。
type Run struct {
	ID         string    `json:"id"`
	BaseURL    string    `json:"base_url"`
	Flavor     string    `json:"flavor"`
	URLs       int       `json:"urls"`
	IndexFile  string    `json:"index_file,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// FileRecord 为一次生成写出的文件。
type FileRecord struct {
	RunID     string    `json:"run_id"`
	Name      string    `json:"name"`
	Loc       string    `json:"loc"`
	WrittenAt time.Time `json:"written_at"`
}

// Skipped 记录被跳过的页面及原因。
type Skipped struct {
	Loc    string `json:"loc"`
	Source string `json:"source"`
	Reason string `json:"reason"`
}

// Stats 为一次生成的统计。
type Stats struct {
	Sources   int `json:"sources"`
	Collected int `json:"collected"`
	Unique    int `json:"unique"`
	Written   int `json:"written"`
	Skipped   int `json:"skipped"`
	Documents int `json:"documents"`
}

// Report 为导出的 report.json 顶层结构。
type Report struct {
	Run     Run          `json:"run"`
	Stats   Stats        `json:"stats"`
	Files   []FileRecord `json:"files"`
	Skipped []Skipped    `json:"skipped,omitempty"`
}
