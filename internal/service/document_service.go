package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/docvault-console/internal/apiclient"
	"github.com/docvault-console/internal/comments"
	"github.com/docvault-console/internal/docquery"
	"github.com/docvault-console/internal/models"
	"github.com/docvault-console/internal/report"
	"github.com/docvault-console/internal/session"
	"github.com/rs/zerolog"
)

// DocumentList is the filtered document table
type DocumentList struct {
	Query     docquery.Query
	Documents []*models.Document
	Years     []string // choices for the year filter
	Total     int      // documents before filtering
}

// DocumentView is one opened document with its thread and permitted actions
type DocumentView struct {
	Document    *models.Document
	Comments    []models.Comment
	CanDelete   bool
	CanDownload bool
	CanComment  bool
}

// documentService is the concrete implementation of DocumentService
type documentService struct {
	api      apiclient.API
	gate     session.Gate
	thread   *comments.Thread
	renderer *report.Renderer
	log      zerolog.Logger
}

func newDocumentService(api apiclient.API, gate session.Gate, thread *comments.Thread, renderer *report.Renderer, log zerolog.Logger) *documentService {
	return &documentService{
		api:      api,
		gate:     gate,
		thread:   thread,
		renderer: renderer,
		log:      log.With().Str("service", "documents").Logger(),
	}
}

// List loads every document and applies q
func (s *documentService) List(ctx context.Context, q docquery.Query) (*DocumentList, error) {
	if err := requireSession(s.gate.Session()); err != nil {
		return nil, err
	}

	docs, err := s.api.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}

	q = q.Normalized()
	return &DocumentList{
		Query:     q,
		Documents: docquery.Apply(docs, q),
		Years:     docquery.Years(docs),
		Total:     len(docs),
	}, nil
}

// Find returns the document with the given id
func (s *documentService) Find(ctx context.Context, id int) (*models.Document, error) {
	if err := requireSession(s.gate.Session()); err != nil {
		return nil, err
	}

	docs, err := s.api.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}
	for _, d := range docs {
		if d != nil && d.ID == id {
			return d, nil
		}
	}
	return nil, fmt.Errorf("document %d: %w", id, models.ErrNotFound)
}

// Open returns a document together with its comment thread
func (s *documentService) Open(ctx context.Context, id int) (*DocumentView, error) {
	doc, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	thread, err := s.thread.List(ctx, id)
	if err != nil {
		return nil, err
	}

	return &DocumentView{
		Document:    doc,
		Comments:    thread,
		CanDelete:   s.gate.CanDeleteDocument(doc),
		CanDownload: s.gate.CanDownloadDocument(doc),
		CanComment:  s.gate.CanComment(),
	}, nil
}

// Delete removes doc when the session is its author or an admin
func (s *documentService) Delete(ctx context.Context, doc *models.Document) error {
	if err := requireSession(s.gate.Session()); err != nil {
		return err
	}
	if !s.gate.CanDeleteDocument(doc) {
		return denied("only the author or an admin may delete this document")
	}

	if err := s.api.DeleteDocument(ctx, doc.ID); err != nil {
		return fmt.Errorf("failed to delete document %d: %w", doc.ID, err)
	}

	s.log.Info().Int("doc_id", doc.ID).Msg("Document deleted")
	return nil
}

// Download saves the decoded content of doc into dir
func (s *documentService) Download(doc *models.Document, dir string) (string, error) {
	if err := requireSession(s.gate.Session()); err != nil {
		return "", err
	}
	if !s.gate.CanDownloadDocument(doc) {
		return "", denied("only the author or an admin may download this document")
	}

	data, err := doc.DecodedContent()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	path := filepath.Join(dir, doc.DownloadName())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	s.log.Info().Int("doc_id", doc.ID).Str("path", path).Int("bytes", len(data)).Msg("Document downloaded")
	return path, nil
}

// Report renders the security report of doc into dir
func (s *documentService) Report(doc *models.Document, dir string) (string, error) {
	if err := requireSession(s.gate.Session()); err != nil {
		return "", err
	}
	return s.renderer.WriteFile(doc, dir)
}

// OpenReport renders the report into the report cache and opens it
func (s *documentService) OpenReport(doc *models.Document, opener report.Opener) (string, error) {
	if err := requireSession(s.gate.Session()); err != nil {
		return "", err
	}
	return s.renderer.Open(doc, opener)
}

// Comment posts text to the thread of a document
func (s *documentService) Comment(ctx context.Context, docID int, text string) ([]models.Comment, error) {
	if err := requireSession(s.gate.Session()); err != nil {
		return nil, err
	}
	return s.thread.Post(ctx, s.gate, docID, text)
}
