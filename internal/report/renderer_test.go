package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/docvault-console/internal/config"
	"github.com/docvault-console/internal/models"
	"github.com/rs/zerolog"
)

func newTestRenderer() *Renderer {
	r := NewRenderer(&config.ReportConfig{}, zerolog.Nop())
	r.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return r
}

func pageCount(pdf string) int {
	return strings.Count(pdf, "/Type /Page") - strings.Count(pdf, "/Type /Pages")
}

func TestRender(t *testing.T) {
	r := newTestRenderer()

	tests := []struct {
		name      string
		content   string
		wantPages int // 0 means more than one
	}{
		{name: "short text", content: "Access to the server room is restricted.", wantPages: 1},
		{name: "cyrillic text", content: "Приказ о доступе", wantPages: 1},
		{name: "data uri", content: "data:text/plain;base64,SGVsbG8sIHdvcmxkIQ==", wantPages: 1},
		{name: "empty content", content: "", wantPages: 1},
		{name: "long text spans pages", content: strings.Repeat("lorem ipsum dolor sit amet ", 2000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &models.Document{ID: 7, Title: "Policy", Author: "alice", Content: tt.content}

			var buf bytes.Buffer
			if err := r.Render(doc, &buf); err != nil {
				t.Fatalf("Render failed: %v", err)
			}

			out := buf.String()
			if !strings.HasPrefix(out, "%PDF-") {
				t.Fatalf("Expected PDF header, got %q", out[:min(len(out), 8)])
			}

			pages := pageCount(out)
			if tt.wantPages == 0 && pages < 2 {
				t.Errorf("Expected several pages, got %d", pages)
			}
			if tt.wantPages > 0 && pages != tt.wantPages {
				t.Errorf("Expected %d pages, got %d", tt.wantPages, pages)
			}
		})
	}
}

func TestRender_NilDocument(t *testing.T) {
	err := newTestRenderer().Render(nil, &bytes.Buffer{})
	if !errors.Is(err, models.ErrValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestRender_MissingFont(t *testing.T) {
	r := NewRenderer(&config.ReportConfig{FontPath: filepath.Join(t.TempDir(), "missing.ttf")}, zerolog.Nop())

	err := r.Render(&models.Document{ID: 1, Title: "T", Content: "c"}, &bytes.Buffer{})
	if err == nil {
		t.Error("Expected an error for a missing font file")
	}
}

func TestWriteFile(t *testing.T) {
	r := newTestRenderer()
	dir := filepath.Join(t.TempDir(), "reports")

	path, err := r.WriteFile(&models.Document{ID: 3, Title: "Q1 / Отчет", Author: "bob", Content: "numbers"}, dir)
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if filepath.Base(path) != "report_3_Q1___Отчет.pdf" {
		t.Errorf("Unexpected file name %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("Expected a PDF file")
	}
}

func TestRender_WarnsOnUnmappableText(t *testing.T) {
	tests := []struct {
		name     string
		fontPath string
		doc      *models.Document
		wantWarn bool
	}{
		{
			name:     "cyrillic without font",
			doc:      &models.Document{ID: 1, Title: "Приказ", Author: "alice", Content: "Текст..."},
			wantWarn: true,
		},
		{
			name: "cp1252 text",
			doc:  &models.Document{ID: 2, Title: "Café", Author: "bob", Content: "Dots... stay dots."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			r := NewRenderer(&config.ReportConfig{}, zerolog.New(&logs))

			if err := r.Render(tt.doc, &bytes.Buffer{}); err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			warned := strings.Contains(logs.String(), "REPORT_FONT")
			if warned != tt.wantWarn {
				t.Errorf("Expected warning %v, logs: %s", tt.wantWarn, logs.String())
			}
			if tt.wantWarn && !strings.Contains(logs.String(), `"replaced_chars":11`) {
				t.Errorf("Expected 11 replaced characters, logs: %s", logs.String())
			}
		})
	}
}

func TestOpen(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "cache")
	r := NewRenderer(&config.ReportConfig{CacheDir: cacheDir}, zerolog.Nop())
	doc := &models.Document{ID: 9, Title: "Plan", Content: "x"}

	var opened string
	path, err := r.Open(doc, func(p string) error {
		opened = p
		return nil
	})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if filepath.Dir(path) != cacheDir {
		t.Errorf("Expected report in %s, got %s", cacheDir, path)
	}

	if opened != path {
		t.Errorf("Expected opener to receive %s, got %s", path, opened)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected report on disk: %v", err)
	}

	again, err := r.Open(doc, func(string) error { return errors.New("no viewer") })
	if err == nil || !strings.Contains(err.Error(), "no viewer") {
		t.Errorf("Expected opener error, got %v", err)
	}
	if again != path {
		t.Errorf("Expected reopening to reuse %s, got %s", path, again)
	}

	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected one cached report, got %d", len(entries))
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name string
		doc  *models.Document
		want string
	}{
		{name: "plain", doc: &models.Document{ID: 1, Title: "Plan"}, want: "report_1_Plan.pdf"},
		{name: "extension kept", doc: &models.Document{ID: 2, Title: "notes.txt"}, want: "report_2_notes.txt.pdf"},
		{name: "separators", doc: &models.Document{ID: 3, Title: "a/b\\c d"}, want: "report_3_a_b_c_d.pdf"},
		{name: "empty", doc: &models.Document{ID: 4, Title: "  "}, want: "report_4_document.pdf"},
		{name: "long", doc: &models.Document{ID: 5, Title: strings.Repeat("я", 80)}, want: "report_5_" + strings.Repeat("я", 50) + ".pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FileName(tt.doc); got != tt.want {
				t.Errorf("FileName() = %s, want %s", got, tt.want)
			}
		})
	}
}
