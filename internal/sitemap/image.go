package sitemap

import "strings"

const (
	ImageNS    = "image"
	ImageNSURI = "http://www.google.com/schemas/sitemap-image/1.1"

	MaxImagesPerURL = 1000
)

// Image 描述页面内的一张图片；除 Loc 外均可为空。
type Image struct {
	Loc         string
	Title       string
	Caption     string
	GeoLocation string
	License     string
}

// ImageURL 为带 <image:image> 列表的页面条目。
type ImageURL struct {
	WebURL
	images []Image
}

// ImageURLOptions 构造 ImageURL；Images 最多 1000 张。
type ImageURLOptions struct {
	URLOptions
	Images []Image
}

func NewImageURL(loc string, images ...Image) (*ImageURL, error) {
	return NewImageURLWith(loc, ImageURLOptions{Images: images})
}

func NewImageURLWith(loc string, opts ImageURLOptions) (*ImageURL, error) {
	if len(opts.Images) > MaxImagesPerURL {
		return nil, configErrorf("a URL cannot have more than %d image tags", MaxImagesPerURL)
	}
	for i, img := range opts.Images {
		if _, err := parseAbsURL(img.Loc); err != nil {
			return nil, configErrorf("image %d: invalid loc %q", i, img.Loc)
		}
		if img.License != "" {
			if _, err := parseAbsURL(img.License); err != nil {
				return nil, configErrorf("image %d: invalid license %q", i, img.License)
			}
		}
	}
	u := &ImageURL{images: append([]Image(nil), opts.Images...)}
	if err := u.init(loc, opts.URLOptions); err != nil {
		return nil, err
	}
	return u, nil
}

// Images 返回副本。
func (u *ImageURL) Images() []Image { return append([]Image(nil), u.images...) }

// ImageRenderer 对每张图片输出 loc/caption/title/geo_location/license，空字段省略。
var ImageRenderer = Renderer[*ImageURL]{
	Flavor:     FlavorImage,
	Namespaces: namespaceAttr(ImageNS, ImageNSURI),
	Parse:      func(raw string) (*ImageURL, error) { return NewImageURL(raw) },
	Render: func(sb *strings.Builder, u *ImageURL, df DateFormatter) {
		var ext strings.Builder
		for _, img := range u.images {
			openBlock(&ext, ImageNS, "image")
			renderTag(&ext, ImageNS, "loc", img.Loc)
			renderTag(&ext, ImageNS, "caption", img.Caption)
			renderTag(&ext, ImageNS, "title", img.Title)
			renderTag(&ext, ImageNS, "geo_location", img.GeoLocation)
			renderTag(&ext, ImageNS, "license", img.License)
			closeBlock(&ext, ImageNS, "image")
		}
		renderURL(sb, &u.WebURL, df, ext.String())
	},
}
