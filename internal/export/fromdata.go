package export

import "go-sitemapgen/internal/model"

// ToJSON 直接将内存中的报告写成 JSON；files 为 nil 时写为空数组。
func ToJSON(rep model.Report, path string) error {
	if rep.Files == nil {
		rep.Files = []model.FileRecord{}
	}
	return writeJSON(rep, path)
}
