package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/docvault-console/internal/apiclient"
	"github.com/docvault-console/internal/models"
	"github.com/docvault-console/internal/validation"
	"github.com/rs/zerolog"
)

// DocumentForm is the input of the upload screen
type DocumentForm struct {
	Title    string
	Content  string
	Category string
}

// createService is the concrete implementation of CreateService
type createService struct {
	api   apiclient.API
	sess  *models.Session
	clock func() time.Time
	log   zerolog.Logger
}

func newCreateService(api apiclient.API, sess *models.Session, clock func() time.Time, log zerolog.Logger) *createService {
	return &createService{
		api:   api,
		sess:  sess,
		clock: clock,
		log:   log.With().Str("service", "create").Logger(),
	}
}

// Create validates the form and uploads it as a document of the session user
func (s *createService) Create(ctx context.Context, form DocumentForm) (*models.CreateDocumentRequest, error) {
	if err := requireSession(s.sess); err != nil {
		return nil, err
	}

	req := &models.CreateDocumentRequest{
		Title:     strings.TrimSpace(form.Title),
		Content:   form.Content,
		CreatedAt: models.StringPtr(s.clock().Format(models.CreatedAtLayout)),
		Username:  s.sess.Username,
	}
	if category := strings.TrimSpace(form.Category); category != "" {
		req.Category = models.CategoryPtr(models.Category(category))
	}

	errs := validation.ValidateDocument(req)
	if req.Category == nil {
		errs = append(errs, validation.ValidationError{Field: "category", Message: "category is required"})
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if err := s.api.CreateDocument(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to upload document: %w", err)
	}

	s.log.Info().Str("title", req.Title).Str("category", string(*req.Category)).Msg("Document uploaded")
	return req, nil
}

// CreateFromFile uploads the file at path. The form title defaults to the
// file name; content that is not UTF-8 text is sent as a base64 data URI.
func (s *createService) CreateFromFile(ctx context.Context, path string, form DocumentForm) (*models.CreateDocumentRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if strings.TrimSpace(form.Title) == "" {
		form.Title = filepath.Base(path)
	}
	form.Content = encodeContent(data)

	return s.Create(ctx, form)
}

func encodeContent(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	mediaType, _, _ := strings.Cut(http.DetectContentType(data), ";")
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
