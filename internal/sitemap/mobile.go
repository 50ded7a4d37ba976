package sitemap

import "strings"

const (
	MobileNS    = "mobile"
	MobileNSURI = "http://www.google.com/schemas/sitemap-mobile/1.0"
)

// MobileURL 标记面向移动设备的页面，只多出一个空的 <mobile:mobile/>。
type MobileURL struct {
	WebURL
}

func NewMobileURL(loc string) (*MobileURL, error) {
	return NewMobileURLWith(loc, URLOptions{})
}

func NewMobileURLWith(loc string, opts URLOptions) (*MobileURL, error) {
	u := &MobileURL{}
	if err := u.init(loc, opts); err != nil {
		return nil, err
	}
	return u, nil
}

var MobileRenderer = Renderer[*MobileURL]{
	Flavor:     FlavorMobile,
	Namespaces: namespaceAttr(MobileNS, MobileNSURI),
	Parse:      NewMobileURL,
	Render: func(sb *strings.Builder, u *MobileURL, df DateFormatter) {
		renderURL(sb, &u.WebURL, df, "    <mobile:mobile/>\n")
	},
}
