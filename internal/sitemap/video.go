package sitemap

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	VideoNS    = "video"
	VideoNSURI = "http://www.google.com/schemas/sitemap-video/1.1"

	maxVideoTitle       = 100
	maxVideoDescription = 2048
	maxVideoCategory    = 256
	maxVideoTags        = 32
	maxVideoDuration    = 8 * 60 * 60
	maxVideoRating      = 5.0
)

// VideoURL 为带 <video:video> 的页面条目。
type VideoURL struct {
	WebURL
	contentURL      string
	playerURL       string
	allowEmbed      bool
	thumbnailURL    string
	title           string
	description     string
	rating          *float64
	viewCount       *int
	publicationDate time.Time
	tags            []string
	category        string
	familyFriendly  *bool
	duration        *int
}

// VideoURLOptions 构造 VideoURL；ContentURL 与 PlayerURL 至少提供一个。
// 指针字段为 nil 表示不输出对应元素。
type VideoURLOptions struct {
	URLOptions
	ContentURL      string
	PlayerURL       string
	AllowEmbed      bool
	ThumbnailURL    string
	Title           string
	Description     string
	Rating          *float64
	ViewCount       *int
	PublicationDate time.Time
	Tags            []string
	Category        string
	FamilyFriendly  *bool
	Duration        *int // 秒
}

func NewVideoURL(loc, contentURL string) (*VideoURL, error) {
	return NewVideoURLWith(loc, VideoURLOptions{ContentURL: contentURL})
}

func NewVideoURLWith(loc string, o VideoURLOptions) (*VideoURL, error) {
	if o.ContentURL == "" && o.PlayerURL == "" {
		return nil, configErrorf("video requires a content URL or a player URL")
	}
	for name, v := range map[string]string{"content": o.ContentURL, "player": o.PlayerURL, "thumbnail": o.ThumbnailURL} {
		if v == "" {
			continue
		}
		if _, err := parseAbsURL(v); err != nil {
			return nil, configErrorf("video %s URL %q is not absolute", name, v)
		}
	}
	if n := utf8.RuneCountInString(o.Title); n > maxVideoTitle {
		return nil, configErrorf("video title is limited to %d characters, got %d", maxVideoTitle, n)
	}
	if n := utf8.RuneCountInString(o.Description); n > maxVideoDescription {
		return nil, configErrorf("video description is limited to %d characters, got %d", maxVideoDescription, n)
	}
	if n := utf8.RuneCountInString(o.Category); n > maxVideoCategory {
		return nil, configErrorf("video category is limited to %d characters, got %d", maxVideoCategory, n)
	}
	if len(o.Tags) > maxVideoTags {
		return nil, configErrorf("a video can have at most %d tags, got %d", maxVideoTags, len(o.Tags))
	}
	if o.Rating != nil && (*o.Rating < 0 || *o.Rating > maxVideoRating) {
		return nil, configErrorf("video rating must be between 0 and %v, got %v", maxVideoRating, *o.Rating)
	}
	if o.ViewCount != nil && *o.ViewCount < 0 {
		return nil, configErrorf("video view count must not be negative")
	}
	if o.Duration != nil && (*o.Duration < 0 || *o.Duration > maxVideoDuration) {
		return nil, configErrorf("video duration must be between 0 and %d seconds, got %d", maxVideoDuration, *o.Duration)
	}
	u := &VideoURL{
		contentURL:      o.ContentURL,
		playerURL:       o.PlayerURL,
		allowEmbed:      o.AllowEmbed,
		thumbnailURL:    o.ThumbnailURL,
		title:           o.Title,
		description:     o.Description,
		rating:          copyPtr(o.Rating),
		viewCount:       copyPtr(o.ViewCount),
		publicationDate: o.PublicationDate,
		tags:            append([]string(nil), o.Tags...),
		category:        o.Category,
		familyFriendly:  copyPtr(o.FamilyFriendly),
		duration:        copyPtr(o.Duration),
	}
	if err := u.init(loc, o.URLOptions); err != nil {
		return nil, err
	}
	return u, nil
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func (u *VideoURL) ContentURL() string { return u.contentURL }
func (u *VideoURL) PlayerURL() string  { return u.playerURL }
func (u *VideoURL) Title() string      { return u.title }
func (u *VideoURL) Tags() []string     { return append([]string(nil), u.tags...) }

// VideoRenderer 按固定顺序输出 content_loc、player_loc、thumbnail_loc、title、description、
// rating、view_count、publication_date、tag*、category、family_friendly、duration。
var VideoRenderer = Renderer[*VideoURL]{
	Flavor:     FlavorVideo,
	Namespaces: namespaceAttr(VideoNS, VideoNSURI),
	Parse: func(raw string) (*VideoURL, error) {
		return nil, configErrorf("video URL %q needs a content or player URL; use NewVideoURLWith", raw)
	},
	Render: func(sb *strings.Builder, u *VideoURL, df DateFormatter) {
		var ext strings.Builder
		openBlock(&ext, VideoNS, "video")
		renderTag(&ext, VideoNS, "content_loc", u.contentURL)
		if u.playerURL != "" {
			ext.WriteString(`      <video:player_loc allow_embed="` + yesNo(u.allowEmbed) + `">`)
			ext.WriteString(Escape(u.playerURL))
			ext.WriteString("</video:player_loc>\n")
		}
		renderTag(&ext, VideoNS, "thumbnail_loc", u.thumbnailURL)
		renderTag(&ext, VideoNS, "title", u.title)
		renderTag(&ext, VideoNS, "description", u.description)
		if u.rating != nil {
			renderTag(&ext, VideoNS, "rating", formatDecimal(*u.rating))
		}
		if u.viewCount != nil {
			renderTag(&ext, VideoNS, "view_count", strconv.Itoa(*u.viewCount))
		}
		if !u.publicationDate.IsZero() {
			renderTag(&ext, VideoNS, "publication_date", df.Format(u.publicationDate))
		}
		for _, tag := range u.tags {
			renderTag(&ext, VideoNS, "tag", tag)
		}
		renderTag(&ext, VideoNS, "category", u.category)
		if u.familyFriendly != nil {
			renderTag(&ext, VideoNS, "family_friendly", yesNo(*u.familyFriendly))
		}
		if u.duration != nil {
			renderTag(&ext, VideoNS, "duration", strconv.Itoa(*u.duration))
		}
		closeBlock(&ext, VideoNS, "video")
		renderURL(sb, &u.WebURL, df, ext.String())
	},
}
