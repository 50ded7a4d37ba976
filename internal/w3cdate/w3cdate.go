// 包 w3cdate 实现 W3C 日期格式（https://www.w3.org/TR/NOTE-datetime）的格式化与解析，
// 支持按精度选择模式，AUTO 模式会选出能无损表示时间的最短形式。
package w3cdate

import (
	"fmt"
	"strings"
	"time"
)

// Pattern 为输出精度。
type Pattern int

const (
	Auto Pattern = iota
	Millisecond
	Second
	Minute
	Day
	Month
	Year
)

var layouts = map[Pattern]string{
	Millisecond: "2006-01-02T15:04:05.000Z07:00",
	Second:      "2006-01-02T15:04:05Z07:00",
	Minute:      "2006-01-02T15:04Z07:00",
	Day:         "2006-01-02",
	Month:       "2006-01",
	Year:        "2006",
}

// Auto 解析时按从长到短的顺序尝试。
var parseOrder = []Pattern{Millisecond, Second, Minute, Day, Month, Year}

func (p Pattern) String() string {
	switch p {
	case Auto:
		return "auto"
	case Millisecond:
		return "millisecond"
	case Second:
		return "second"
	case Minute:
		return "minute"
	case Day:
		return "day"
	case Month:
		return "month"
	case Year:
		return "year"
	}
	return fmt.Sprintf("Pattern(%d)", int(p))
}

// ParsePattern 将配置中的名称（不区分大小写）转换为 Pattern。
func ParsePattern(s string) (Pattern, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "":
		return Auto, nil
	case "millisecond", "ms":
		return Millisecond, nil
	case "second":
		return Second, nil
	case "minute":
		return Minute, nil
	case "day":
		return Day, nil
	case "month":
		return Month, nil
	case "year":
		return Year, nil
	}
	return Auto, fmt.Errorf("unknown w3c date pattern %q", s)
}

// Formatter 是不可变的日期格式器，零值等价于 AUTO + UTC。
type Formatter struct {
	pattern Pattern
	loc     *time.Location
}

// New 使用 UTC 创建格式器。
func New(p Pattern) Formatter {
	return Formatter{pattern: p, loc: time.UTC}
}

// WithZone 返回使用指定时区的副本。
func (f Formatter) WithZone(loc *time.Location) Formatter {
	f.loc = loc
	return f
}

func (f Formatter) Pattern() Pattern { return f.pattern }

func (f Formatter) location() *time.Location {
	if f.loc == nil {
		return time.UTC
	}
	return f.loc
}

// Format 按模式输出；AUTO 下午夜只输出日期，其余取最短的精确形式。
func (f Formatter) Format(t time.Time) string {
	t = t.In(f.location())
	p := f.pattern
	if p == Auto {
		p = autoPattern(t)
	}
	layout, ok := layouts[p]
	if !ok {
		layout = layouts[Millisecond]
	}
	return t.Format(layout)
}

func autoPattern(t time.Time) Pattern {
	switch {
	case t.Nanosecond()/int(time.Millisecond) != 0:
		return Millisecond
	case t.Second() != 0:
		return Second
	case t.Hour() != 0 || t.Minute() != 0:
		return Minute
	default:
		return Day
	}
}

// Parse 解析字符串；AUTO 依次尝试全部模式。
// 不含时区的模式（日/月/年）按格式器时区解释。
func (f Formatter) Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if f.pattern != Auto {
		return parseWith(f.pattern, s, f.location())
	}
	for _, p := range parseOrder {
		if t, err := parseWith(p, s, f.location()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse w3c date %q: no pattern matched", s)
}

func parseWith(p Pattern, s string, loc *time.Location) (time.Time, error) {
	layout, ok := layouts[p]
	if !ok {
		return time.Time{}, fmt.Errorf("unknown w3c date pattern %d", int(p))
	}
	t, err := time.ParseInLocation(layout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse w3c date %q as %s: %w", s, p, err)
	}
	return t, nil
}
