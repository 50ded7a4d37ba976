package sitemap

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"go-sitemapgen/internal/w3cdate"
)

// Validator 在文件写入后校验；返回 *ValidationError 表示内容不合规，
// 其它错误（如读取失败）按 ErrIO 处理。
type Validator interface {
	ValidateSitemap(path string) error
	ValidateIndex(path string) error
}

const maxLocLength = 2048

// XMLValidator 做结构校验：根元素与命名空间、必需的 <loc>、绝对地址与长度、
// lastmod 的 W3C 格式、changefreq 取值、priority 范围以及条目数上限。
type XMLValidator struct {
	// MaxProblems 限制收集的诊断条数，0 表示 20。
	MaxProblems int
}

type xmlURLSet struct {
	XMLName xml.Name `xml:"urlset"`
	URLs    []struct {
		Loc        string `xml:"loc"`
		LastMod    string `xml:"lastmod"`
		ChangeFreq string `xml:"changefreq"`
		Priority   string `xml:"priority"`
	} `xml:"url"`
}

type xmlSitemapIndex struct {
	XMLName  xml.Name `xml:"sitemapindex"`
	Sitemaps []struct {
		Loc     string `xml:"loc"`
		LastMod string `xml:"lastmod"`
	} `xml:"sitemap"`
}

type problems struct {
	list []string
	max  int
}

func (p *problems) addf(format string, args ...any) {
	if len(p.list) < p.max {
		p.list = append(p.list, fmt.Sprintf(format, args...))
	}
}

func (v XMLValidator) newProblems() *problems {
	max := v.MaxProblems
	if max <= 0 {
		max = 20
	}
	return &problems{max: max}
}

func (v XMLValidator) ValidateSitemap(path string) error {
	b, err := readDocument(path)
	if err != nil {
		return err
	}
	var doc xmlURLSet
	if err := decodeStrict(b, &doc); err != nil {
		return &ValidationError{Path: path, Problems: []string{err.Error()}}
	}
	p := v.newProblems()
	if doc.XMLName.Space != NamespaceURI {
		p.addf("root namespace %q, want %q", doc.XMLName.Space, NamespaceURI)
	}
	if len(doc.URLs) > MaxURLsPerSitemap {
		p.addf("%d url elements, limit is %d", len(doc.URLs), MaxURLsPerSitemap)
	}
	for i, u := range doc.URLs {
		checkLoc(p, "url", i, u.Loc)
		checkLastMod(p, "url", i, u.LastMod)
		if u.ChangeFreq != "" && !ChangeFreq(u.ChangeFreq).Valid() {
			p.addf("url %d: invalid changefreq %q", i, u.ChangeFreq)
		}
		if u.Priority != "" {
			f, err := strconv.ParseFloat(u.Priority, 64)
			if err != nil || f < 0 || f > 1 {
				p.addf("url %d: invalid priority %q", i, u.Priority)
			}
		}
	}
	if len(p.list) > 0 {
		return &ValidationError{Path: path, Problems: p.list}
	}
	return nil
}

func (v XMLValidator) ValidateIndex(path string) error {
	b, err := readDocument(path)
	if err != nil {
		return err
	}
	var doc xmlSitemapIndex
	if err := decodeStrict(b, &doc); err != nil {
		return &ValidationError{Path: path, Problems: []string{err.Error()}}
	}
	p := v.newProblems()
	if doc.XMLName.Space != NamespaceURI {
		p.addf("root namespace %q, want %q", doc.XMLName.Space, NamespaceURI)
	}
	if len(doc.Sitemaps) > MaxSitemapsPerIndex {
		p.addf("%d sitemap elements, limit is %d", len(doc.Sitemaps), MaxSitemapsPerIndex)
	}
	for i, s := range doc.Sitemaps {
		checkLoc(p, "sitemap", i, s.Loc)
		checkLastMod(p, "sitemap", i, s.LastMod)
	}
	if len(p.list) > 0 {
		return &ValidationError{Path: path, Problems: p.list}
	}
	return nil
}

// decodeStrict 解码并拒绝根元素之后的多余内容。
func decodeStrict(b []byte, v any) error {
	dec := xml.NewDecoder(bytes.NewReader(b))
	dec.Strict = true
	if err := dec.Decode(v); err != nil {
		return err
	}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return errors.New("trailing character data after root element")
			}
		case xml.StartElement:
			return fmt.Errorf("unexpected element <%s> after root element", t.Name.Local)
		}
	}
}

func checkLoc(p *problems, kind string, i int, loc string) {
	if strings.TrimSpace(loc) == "" {
		p.addf("%s %d: missing loc", kind, i)
		return
	}
	if len(loc) > maxLocLength {
		p.addf("%s %d: loc is %d characters long, limit is %d", kind, i, len(loc), maxLocLength)
	}
	u, err := url.Parse(loc)
	if err != nil || !u.IsAbs() || u.Host == "" {
		p.addf("%s %d: loc %q is not an absolute URL", kind, i, loc)
	}
}

func checkLastMod(p *problems, kind string, i int, lastMod string) {
	if lastMod == "" {
		return
	}
	if _, err := w3cdate.New(w3cdate.Auto).Parse(lastMod); err != nil {
		p.addf("%s %d: lastmod %q is not a W3C datetime", kind, i, lastMod)
	}
}

// validationFailure 把校验器返回值归一：*ValidationError 与已分类错误原样返回，其余按 I/O 失败包装。
func validationFailure(path string, err error) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	var se *Error
	if errors.As(err, &ve) || errors.As(err, &se) {
		return err
	}
	return ioError("validate", path, err)
}
