package sitemap

import "strings"

const (
	GeoNS    = "geo"
	GeoNSURI = "http://www.google.com/geo/schemas/sitemap/1.0"
)

// GeoFormat 为地理内容文件格式。
type GeoFormat string

const (
	KML    GeoFormat = "kml"
	KMZ    GeoFormat = "kmz"
	GeoRSS GeoFormat = "georss"
)

func (f GeoFormat) Valid() bool {
	switch f {
	case KML, KMZ, GeoRSS:
		return true
	}
	return false
}

type GeoURL struct {
	WebURL
	format GeoFormat
}

func NewGeoURL(loc string, format GeoFormat) (*GeoURL, error) {
	return NewGeoURLWith(loc, format, URLOptions{})
}

func NewGeoURLWith(loc string, format GeoFormat, opts URLOptions) (*GeoURL, error) {
	if !format.Valid() {
		return nil, configErrorf("unknown geo format %q", format)
	}
	u := &GeoURL{format: format}
	if err := u.init(loc, opts); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *GeoURL) Format() GeoFormat { return u.format }

var GeoRenderer = Renderer[*GeoURL]{
	Flavor:     FlavorGeo,
	Namespaces: namespaceAttr(GeoNS, GeoNSURI),
	Parse: func(raw string) (*GeoURL, error) {
		return nil, configErrorf("geo URL %q needs a format; use NewGeoURL", raw)
	},
	Render: func(sb *strings.Builder, u *GeoURL, df DateFormatter) {
		var ext strings.Builder
		openBlock(&ext, GeoNS, "geo")
		renderTag(&ext, GeoNS, "format", string(u.format))
		closeBlock(&ext, GeoNS, "geo")
		renderURL(sb, &u.WebURL, df, ext.String())
	},
}
