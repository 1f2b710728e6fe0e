package service

import (
	"context"
	"fmt"

	"github.com/docvault-console/internal/apiclient"
	"github.com/docvault-console/internal/models"
	"github.com/rs/zerolog"
)

// recentLimit is how many documents the dashboard shows
const recentLimit = 5

// Dashboard is the content of the landing screen
type Dashboard struct {
	Session *models.Session
	Stats   models.Stats
	Recent  []*models.Document // newest first
}

// dashboardService is the concrete implementation of DashboardService
type dashboardService struct {
	api  apiclient.API
	sess *models.Session
	log  zerolog.Logger
}

func newDashboardService(api apiclient.API, sess *models.Session, log zerolog.Logger) *dashboardService {
	return &dashboardService{
		api:  api,
		sess: sess,
		log:  log.With().Str("service", "dashboard").Logger(),
	}
}

// Load fetches the counters and the most recently created documents
func (s *dashboardService) Load(ctx context.Context) (*Dashboard, error) {
	if err := requireSession(s.sess); err != nil {
		return nil, err
	}

	stats, err := s.api.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load statistics: %w", err)
	}

	docs, err := s.api.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}

	return &Dashboard{
		Session: s.sess,
		Stats:   *stats,
		Recent:  recent(docs, recentLimit),
	}, nil
}

// recent returns the last n documents of server order, newest first
func recent(docs []*models.Document, n int) []*models.Document {
	start := len(docs) - n
	if start < 0 {
		start = 0
	}
	out := make([]*models.Document, 0, len(docs)-start)
	for i := len(docs) - 1; i >= start; i-- {
		out = append(out, docs[i])
	}
	return out
}
