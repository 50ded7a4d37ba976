// 包 rules 负责加载并提供 HTML 解析规则（rules.yaml），
// 以预设名（如 default/hugo）组织 CSS 选择器，用于从页面中抽取链接、图片与多语言版本。
package rules

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rules 表示全部规则集合：键为预设名，值为具体规则。
type Rules struct {
	Presets map[string]Preset `yaml:",inline"`
}

// Preset 为单个预设；各部分均可省略，省略时使用 Builtin 中的同名部分。
type Preset struct {
	Links      *Links      `yaml:"links"`
	Images     *Images     `yaml:"images"`
	Alternates *Alternates `yaml:"alternates"`
}

// Links 描述页面内链接：
// - item：每个链接条目容器
// - link/title/lastmod：取文本或属性（支持 a@href / time@datetime），可用 "||" 回退
type Links struct {
	Item    string `yaml:"item"`
	Link    string `yaml:"link"`
	Title   string `yaml:"title"`
	LastMod string `yaml:"lastmod"`
}

// Images 描述页面自身的图片。
type Images struct {
	Item    string `yaml:"item"`
	Src     string `yaml:"src"`
	Title   string `yaml:"title"`
	Caption string `yaml:"caption"`
}

// Alternates 描述页面自身的多语言版本。
type Alternates struct {
	Item     string `yaml:"item"`
	Href     string `yaml:"href"`
	HrefLang string `yaml:"hreflang"`
}

// Builtin 为未加载 rules.yaml 时的默认预设。
var Builtin = Preset{
	Links:      &Links{Item: "a[href]", Link: "@href", Title: "@title||."},
	Images:     &Images{Item: "img[src]", Src: "@src", Title: "@title", Caption: "@alt"},
	Alternates: &Alternates{Item: `link[rel="alternate"][hreflang]`, Href: "@href", HrefLang: "@hreflang"},
}

func Load(path string) (*Rules, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rules %s: %w", path, err)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}
	var r Rules
	if err := yaml.Unmarshal(b, &r.Presets); err != nil {
		return nil, fmt.Errorf("unmarshal rules %s: %w", path, err)
	}
	for name, p := range r.Presets {
		if p.Links != nil && p.Links.Item == "" {
			return nil, fmt.Errorf("rules %s: preset %q: links.item is required", path, name)
		}
	}
	return &r, nil
}

// GetPreset 按名称获取预设（不区分大小写），若为空或不存在则回退到 "default"，再回退到 Builtin。
// 返回的预设已用 Builtin 补齐缺省部分。
func (r *Rules) GetPreset(name string) Preset {
	p, ok := r.lookup(name)
	if !ok {
		return Builtin
	}
	if p.Links == nil {
		p.Links = Builtin.Links
	}
	if p.Images == nil {
		p.Images = Builtin.Images
	}
	if p.Alternates == nil {
		p.Alternates = Builtin.Alternates
	}
	return p
}

func (r *Rules) lookup(name string) (Preset, bool) {
	if r == nil || len(r.Presets) == 0 {
		return Preset{}, false
	}
	if name == "" {
		name = "default"
	}
	if p, ok := r.Presets[name]; ok {
		return p, true
	}
	for k, v := range r.Presets {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	if !strings.EqualFold(name, "default") {
		return r.lookup("default")
	}
	return Preset{}, false
}
