package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/docvault-console/internal/config"
	"github.com/docvault-console/internal/models"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// API is the set of round trips the screens depend on
type API interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	Register(ctx context.Context, req *models.RegisterRequest) error
	ListDocuments(ctx context.Context) ([]*models.Document, error)
	CreateDocument(ctx context.Context, req *models.CreateDocumentRequest) error
	DeleteDocument(ctx context.Context, id int) error
	ListComments(ctx context.Context, docID int) ([]models.Comment, error)
	CreateComment(ctx context.Context, req *models.CreateCommentRequest) error
	ListAudit(ctx context.Context) ([]models.AuditEntry, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id int, req *models.UpdateUserRequest) error
	DeleteUser(ctx context.Context, id int) error
	Stats(ctx context.Context) (*models.Stats, error)
}

// maxErrorBody bounds how much of a failed response is kept as message
const maxErrorBody = 1024

// Client is the HTTP implementation of API. It performs exactly one
// request per call and never retries.
type Client struct {
	baseURL   string
	userAgent string
	token     string
	http      *http.Client
	log       zerolog.Logger
}

// Verify interface compliance
var _ API = (*Client)(nil)

// New creates a client for the configured API
func New(cfg *config.APIConfig, log zerolog.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		http:      &http.Client{Timeout: cfg.Timeout},
		log:       log.With().Str("component", "apiclient").Logger(),
	}
}

// WithToken returns a copy of the client that authenticates with token
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// Login exchanges credentials for the account record
func (c *Client) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account
func (c *Client) Register(ctx context.Context, req *models.RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/register", req, nil)
}

// ListDocuments returns every document in server order
func (c *Client) ListDocuments(ctx context.Context) ([]*models.Document, error) {
	var docs []*models.Document
	if err := c.do(ctx, http.MethodGet, "/documents", nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// CreateDocument uploads a new document
func (c *Client) CreateDocument(ctx context.Context, req *models.CreateDocumentRequest) error {
	return c.do(ctx, http.MethodPost, "/documents", req, nil)
}

// DeleteDocument removes a document
func (c *Client) DeleteDocument(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/documents/"+strconv.Itoa(id), nil, nil)
}

// ListComments returns the thread of one document
func (c *Client) ListComments(ctx context.Context, docID int) ([]models.Comment, error) {
	var comments []models.Comment
	if err := c.do(ctx, http.MethodGet, "/comments/"+strconv.Itoa(docID), nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CreateComment appends a comment to a document thread
func (c *Client) CreateComment(ctx context.Context, req *models.CreateCommentRequest) error {
	return c.do(ctx, http.MethodPost, "/comments", req, nil)
}

// ListAudit returns the most recent audit entries
func (c *Client) ListAudit(ctx context.Context) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	if err := c.do(ctx, http.MethodGet, "/audit", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListUsers returns every account
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser changes name, login and role of an account
func (c *Client) UpdateUser(ctx context.Context, id int, req *models.UpdateUserRequest) error {
	return c.do(ctx, http.MethodPut, "/users/"+strconv.Itoa(id), req, nil)
}

// DeleteUser removes an account
func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/users/"+strconv.Itoa(id), nil, nil)
}

// Stats returns the dashboard counters
func (c *Client) Stats(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats
	if err := c.do(ctx, http.MethodGet, "/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// do performs one round trip. in is encoded as the JSON body when non-nil;
// out receives the decoded 2xx body when non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	op := method + " " + path

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &Error{Op: op, Kind: KindValidation, Err: fmt.Errorf("failed to encode request: %w", err)}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &Error{Op: op, Kind: KindTransport, Err: err}
	}
	requestID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("op", op).Str("request_id", requestID).Msg("Request failed")
		return &Error{Op: op, Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	event := c.log.Debug()
	if resp.StatusCode >= 400 {
		event = c.log.Warn()
	}
	event.
		Str("op", op).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Str("request_id", requestID).
		Msg("Request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &Error{
			Op:      op,
			Kind:    KindForStatus(resp.StatusCode),
			Status:  resp.StatusCode,
			Message: errorMessage(raw),
		}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Op: op, Kind: KindTransport, Status: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// errorMessage extracts readable text from a failed response body, which
// may be plain text, a JSON string or an {"error": "..."} object
func errorMessage(raw []byte) string {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Error != "" {
		return obj.Error
	}
	return text
}
