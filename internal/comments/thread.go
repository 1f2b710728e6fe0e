// Package comments drives the administrator comment thread of a document.
package comments

import (
	"context"
	"fmt"
	"strings"

	"github.com/docvault-console/internal/apiclient"
	"github.com/docvault-console/internal/models"
	"github.com/docvault-console/internal/session"
	"github.com/docvault-console/internal/validation"
	"github.com/rs/zerolog"
)

// Thread lists and appends comments through the API
type Thread struct {
	api apiclient.API
	log zerolog.Logger
}

// NewThread creates a thread controller
func NewThread(api apiclient.API, log zerolog.Logger) *Thread {
	return &Thread{
		api: api,
		log: log.With().Str("component", "comments").Logger(),
	}
}

// List returns the comments of a document in server order
func (t *Thread) List(ctx context.Context, docID int) ([]models.Comment, error) {
	comments, err := t.api.ListComments(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments of document %d: %w", docID, err)
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}

// Post appends text to the thread and returns the re-fetched thread.
// Blank text is ignored: no request is sent and (nil, nil) is returned.
func (t *Thread) Post(ctx context.Context, gate session.Gate, docID int, text string) ([]models.Comment, error) {
	if !gate.CanComment() {
		return nil, fmt.Errorf("only administrators may comment: %w", models.ErrAuthorization)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	req := &models.CreateCommentRequest{
		DocID:    docID,
		Text:     text,
		Username: gate.Session().Username,
	}
	if err := validation.ValidateComment(req).Err(); err != nil {
		return nil, err
	}

	if err := t.api.CreateComment(ctx, req); err != nil {
		t.log.Warn().Err(err).Int("doc_id", docID).Msg("Failed to post comment")
		return nil, fmt.Errorf("failed to post comment: %w", err)
	}
	t.log.Debug().Int("doc_id", docID).Msg("Comment posted")

	// The re-fetch starts only after the post has completed
	return t.List(ctx, docID)
}
