package logx_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"go-sitemapgen/internal/logx"
)

func capture(o logx.Options, fn func()) string {
	var buf bytes.Buffer
	o.Writer = &buf
	logx.Setup(o)
	fn()
	return buf.String()
}

func TestLogx_PrettyZH_Info(t *testing.T) {
	out := capture(logx.Options{Level: "debug", Format: "pretty", Locale: "zh-CN", Color: "never"}, func() {
		logx.Infof("hello %s", "world")
	})
	if !strings.Contains(out, "[信息] hello world") {
		t.Fatalf("expect zh label [信息], got: %q", out)
	}
}

func TestLogx_LevelFiltering(t *testing.T) {
	out := capture(logx.Options{Level: "warn", Color: "never"}, func() {
		logx.Infof("should not print")
		logx.Warnf("warn on")
	})
	if strings.Contains(out, "should not print") {
		t.Fatalf("info should be filtered when level=warn")
	}
	if !strings.Contains(out, "[警告]") {
		t.Fatalf("expect warn label present: %q", out)
	}
}

func TestLogx_Silent(t *testing.T) {
	out := capture(logx.Options{Level: "none"}, func() {
		logx.Errorf("boom")
	})
	if out != "" {
		t.Fatalf("expect no output, got %q", out)
	}
}

func TestLogx_EnglishLabels(t *testing.T) {
	out := capture(logx.Options{Level: "info", Locale: "en", Color: "never"}, func() {
		logx.Infof("ok")
		logx.Errorf("bad")
	})
	if !strings.Contains(out, "[INFO] ok") || !strings.Contains(out, "[ERROR] bad") {
		t.Fatalf("expect en labels, got: %q", out)
	}
}

func TestLogx_JSONFormat(t *testing.T) {
	out := capture(logx.Options{Level: "info", Format: "json"}, func() {
		logx.Infof("written %d", 3)
	})
	var rec map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &rec); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if rec["msg"] != "written 3" || rec["level"] != "INFO" {
		t.Fatalf("record=%v", rec)
	}
}

func TestPrettyHandler_AttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	h := logx.NewPrettyHandler(&buf, slog.LevelInfo, "en", "never")
	lg := slog.New(h).With("run", "r1").WithGroup("file")
	lg.Info("flush", "name", "sitemap 1.xml", slog.Group("stats", "urls", 2))
	out := buf.String()
	for _, want := range []string{"[INFO] flush", " run=r1", ` file.name="sitemap 1.xml"`, " file.stats.urls=2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}

func TestPrettyHandler_Color(t *testing.T) {
	var buf bytes.Buffer
	t.Setenv("NO_COLOR", "")
	slog.New(logx.NewPrettyHandler(&buf, slog.LevelInfo, "en", "always")).Warn("x")
	if !strings.Contains(buf.String(), "\x1b[33m[WARN]\x1b[0m") {
		t.Fatalf("expect colored label: %q", buf.String())
	}
}
