package service

import (
	"context"
	"fmt"

	"github.com/docvault-console/internal/apiclient"
	"github.com/docvault-console/internal/docquery"
	"github.com/docvault-console/internal/models"
	"github.com/rs/zerolog"
)

// Profile is the identity of the session and the documents it authored
type Profile struct {
	Session   *models.Session
	Documents []*models.Document // newest first
}

// profileService is the concrete implementation of ProfileService
type profileService struct {
	api  apiclient.API
	sess *models.Session
	log  zerolog.Logger
}

func newProfileService(api apiclient.API, sess *models.Session, log zerolog.Logger) *profileService {
	return &profileService{
		api:  api,
		sess: sess,
		log:  log.With().Str("service", "profile").Logger(),
	}
}

// Load returns the session identity and its own documents
func (s *profileService) Load(ctx context.Context) (*Profile, error) {
	if err := requireSession(s.sess); err != nil {
		return nil, err
	}

	docs, err := s.api.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}

	own := make([]*models.Document, 0)
	for _, d := range docs {
		if d != nil && d.Author == s.sess.Username {
			own = append(own, d)
		}
	}

	return &Profile{
		Session:   s.sess,
		Documents: docquery.Apply(own, docquery.Query{SortBy: docquery.SortByDate, SortDir: docquery.Desc}),
	}, nil
}
