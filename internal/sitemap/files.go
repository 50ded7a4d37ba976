package sitemap

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
)

// writeFileAtomic 先写同目录临时文件再 rename，失败时不会留下半个文档。
func writeFileAtomic(path, content string, compress bool) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return ioError("create temp file", path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	var w io.Writer = tmp
	var gz *gzip.Writer
	if compress {
		gz = gzip.NewWriter(tmp)
		w = gz
	}
	if _, err = io.WriteString(w, content); err != nil {
		return ioError("write sitemap", path, err)
	}
	if gz != nil {
		if err = gz.Close(); err != nil {
			return ioError("flush gzip stream", path, err)
		}
	}
	if err = tmp.Chmod(0o644); err != nil {
		return ioError("chmod", path, err)
	}
	if err = tmp.Close(); err != nil {
		return ioError("close", path, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return ioError("rename into place", path, err)
	}
	return nil
}

// readDocument 读取文档内容，.gz 后缀自动解压。
func readDocument(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ioError("open", path, err)
	}
	defer f.Close()
	var r io.Reader = f
	if filepath.Ext(path) == ".gz" {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, ioError("open gzip stream", path, err)
		}
		defer gz.Close()
		r = gz
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, ioError("read", path, err)
	}
	return b, nil
}
