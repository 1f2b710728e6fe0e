// Package report renders a document as a paginated PDF security report.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/docvault-console/internal/config"
	"github.com/docvault-console/internal/models"
	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"
)

const (
	reportTitle   = "Security Report"
	coreFamily    = "Helvetica"
	utf8Family    = "ReportSans"
	lineHeight    = 6.0
	maxNameRunes  = 50
	timestampForm = "2006-01-02 15:04:05"
)

// Opener displays a rendered report, e.g. by launching a PDF viewer
type Opener func(path string) error

// Renderer turns documents into PDF reports
type Renderer struct {
	fontPath string
	cacheDir string
	now      func() time.Time
	log      zerolog.Logger
}

// NewRenderer creates a renderer. Without a font path the core Helvetica
// font is used and characters outside cp1252 print as dots.
func NewRenderer(cfg *config.ReportConfig, log zerolog.Logger) *Renderer {
	cacheDir := cfg.CacheDir
	if cacheDir == "" {
		cacheDir = filepath.Join(os.TempDir(), "docvault-reports")
	}
	return &Renderer{
		fontPath: cfg.FontPath,
		cacheDir: cacheDir,
		now:      time.Now,
		log:      log.With().Str("component", "report").Logger(),
	}
}

// Render writes the report of doc to w
func (r *Renderer) Render(doc *models.Document, w io.Writer) error {
	if doc == nil {
		return fmt.Errorf("no document to render: %w", models.ErrValidation)
	}

	fontDir := ""
	if r.fontPath != "" {
		fontDir = filepath.Dir(r.fontPath)
	}

	pdf := fpdf.New("P", "mm", "A4", fontDir)
	pdf.SetTitle(reportTitle+": "+doc.Title, true)
	pdf.SetAuthor(doc.Author, true)
	pdf.SetCreator("docctl", false)
	pdf.SetCreationDate(r.now())
	pdf.SetAutoPageBreak(true, 20)
	pdf.AliasNbPages("")

	family, tr := coreFamily, pdf.UnicodeTranslatorFromDescriptor("")
	if r.fontPath != "" {
		fontFile := filepath.Base(r.fontPath)
		pdf.AddUTF8Font(utf8Family, "", fontFile)
		pdf.AddUTF8Font(utf8Family, "B", fontFile)
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("failed to load report font %s: %w", r.fontPath, err)
		}
		family, tr = utf8Family, func(s string) string { return s }
	} else {
		lost := 0
		for _, s := range []string{doc.Title, doc.Author, string(doc.CategoryOrEmpty()), bodyText(doc)} {
			lost += unmappable(tr, s)
		}
		if lost > 0 {
			r.log.Warn().
				Int("doc_id", doc.ID).
				Int("replaced_chars", lost).
				Msg("Report text has characters outside cp1252, set REPORT_FONT to a UTF-8 TTF font to keep them")
		}
	}

	generated := r.now().Format(timestampForm)

	pdf.SetHeaderFunc(func() {
		pdf.SetFont(family, "B", 16)
		pdf.CellFormat(0, 10, reportTitle, "", 1, "L", false, 0, "")
		pdf.SetFont(family, "", 10)
		pdf.CellFormat(0, 5, tr(fmt.Sprintf("Document ID: %d", doc.ID)), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 5, tr("Author: "+doc.Author), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 5, "Generated: "+generated, "B", 1, "L", false, 0, "")
		pdf.Ln(4)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(family, "", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "T", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetFont(family, "B", 12)
	pdf.CellFormat(0, 8, tr("Title: "+doc.Title), "", 1, "L", false, 0, "")
	if c := doc.CategoryOrEmpty(); c != "" {
		pdf.SetFont(family, "", 10)
		pdf.CellFormat(0, 6, tr("Category: "+string(c)), "", 1, "L", false, 0, "")
	}
	if ts := doc.CreatedAtOrEmpty(); ts != "" {
		pdf.SetFont(family, "", 10)
		pdf.CellFormat(0, 6, "Created: "+ts, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	pdf.SetFont(family, "B", 12)
	pdf.CellFormat(0, 8, "Content", "", 1, "L", false, 0, "")
	pdf.SetFont(family, "", 11)
	pdf.MultiCell(0, lineHeight, tr(bodyText(doc)), "", "L", false)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render report for document %d: %w", doc.ID, err)
	}
	return nil
}

// WriteFile renders the report into dir and returns its path
func (r *Renderer) WriteFile(doc *models.Document, dir string) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("no document to render: %w", models.ErrValidation)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	path := filepath.Join(dir, FileName(doc))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}

	if err := r.Render(doc, f); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}

	r.log.Info().Int("doc_id", doc.ID).Str("path", path).Msg("Report written")
	return path, nil
}

// Open renders the report into the cache directory and hands it to opener.
// The file stays for the viewer; reopening a document overwrites it.
func (r *Renderer) Open(doc *models.Document, opener Opener) (string, error) {
	path, err := r.WriteFile(doc, r.cacheDir)
	if err != nil {
		return "", err
	}
	if err := opener(path); err != nil {
		return path, fmt.Errorf("failed to open report: %w", err)
	}
	return path, nil
}

// unmappable counts the runes the core font translator replaces with dots
func unmappable(tr func(string) string, s string) int {
	return strings.Count(tr(s), ".") - strings.Count(s, ".")
}

// FileName returns report_<id>_<title>.pdf with the title made filesystem safe
func FileName(doc *models.Document) string {
	title := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, strings.TrimSpace(doc.Title))

	if utf8.RuneCountInString(title) > maxNameRunes {
		title = string([]rune(title)[:maxNameRunes])
	}
	title = strings.Trim(title, "._")
	if title == "" {
		title = "document"
	}
	return fmt.Sprintf("report_%d_%s.pdf", doc.ID, title)
}

// bodyText is the printable content of doc
func bodyText(doc *models.Document) string {
	raw, err := doc.DecodedContent()
	if err != nil {
		return doc.Content
	}
	if !utf8.Valid(raw) {
		return fmt.Sprintf("[binary content, %d bytes]", len(raw))
	}
	if len(raw) == 0 {
		return "(empty)"
	}
	return string(raw)
}
