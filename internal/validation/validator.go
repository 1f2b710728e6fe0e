package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/docvault-console/internal/models"
)

var (
	usernameRegex = regexp.MustCompile(`^\S+$`)
	yearPrefix    = regexp.MustCompile(`^\d{4}`)
)

const (
	maxUsernameLength = 64
	maxTitleLength    = 255
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Errors is the set of problems found in one form. It matches
// models.ErrValidation through errors.Is.
type Errors []ValidationError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, ve := range e {
		parts[i] = fmt.Sprintf("%s: %s", ve.Field, ve.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e Errors) Unwrap() error {
	return models.ErrValidation
}

// Err returns nil when there are no errors
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Fields lists the offending field names in order
func (e Errors) Fields() []string {
	fields := make([]string, len(e))
	for i, ve := range e {
		fields[i] = ve.Field
	}
	return fields
}

// ValidateLogin checks the login form
func ValidateLogin(req *models.LoginRequest) Errors {
	var errors Errors

	if strings.TrimSpace(req.Username) == "" {
		errors = append(errors, ValidationError{Field: "username", Message: "username is required"})
	}
	if req.Password == "" {
		errors = append(errors, ValidationError{Field: "password", Message: "password is required"})
	}

	return errors
}

// ValidateRegister checks the registration form
func ValidateRegister(req *models.RegisterRequest) Errors {
	var errors Errors

	errors = append(errors, validateUsername(req.Username)...)

	if req.Password == "" {
		errors = append(errors, ValidationError{Field: "password", Message: "password is required"})
	}

	if strings.TrimSpace(req.FullName) == "" {
		errors = append(errors, ValidationError{Field: "full_name", Message: "full name is required"})
	}

	return errors
}

// ValidateDocument checks a document before upload
func ValidateDocument(req *models.CreateDocumentRequest) Errors {
	var errors Errors

	// Validate title
	title := strings.TrimSpace(req.Title)
	if title == "" {
		errors = append(errors, ValidationError{Field: "title", Message: "title is required"})
	} else if utf8.RuneCountInString(title) > maxTitleLength {
		errors = append(errors, ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("title exceeds maximum of %d characters", maxTitleLength),
		})
	}

	// Validate content
	if req.Content == "" {
		errors = append(errors, ValidationError{Field: "content", Message: "content is required"})
	}

	// Validate category
	if req.Category != nil && !models.ValidCategories[*req.Category] {
		errors = append(errors, ValidationError{
			Field:   "category",
			Message: "unknown category",
			Value:   string(*req.Category),
		})
	}

	// Validate created_at; the year filter reads its first four characters
	if req.CreatedAt != nil && !validTimestamp(*req.CreatedAt) {
		errors = append(errors, ValidationError{
			Field:   "created_at",
			Message: fmt.Sprintf("created_at must look like %s", models.CreatedAtLayout),
			Value:   *req.CreatedAt,
		})
	}

	// Validate author
	if strings.TrimSpace(req.Username) == "" {
		errors = append(errors, ValidationError{Field: "username", Message: "author is required"})
	}

	return errors
}

// ValidateUserUpdate checks the admin edit form
func ValidateUserUpdate(req *models.UpdateUserRequest) Errors {
	var errors Errors

	errors = append(errors, validateUsername(req.Username)...)

	if strings.TrimSpace(req.FullName) == "" {
		errors = append(errors, ValidationError{Field: "full_name", Message: "full name is required"})
	}

	if req.Role == "" {
		errors = append(errors, ValidationError{Field: "role", Message: "role is required"})
	} else if !models.ValidRoles[req.Role] {
		errors = append(errors, ValidationError{
			Field:   "role",
			Message: "invalid role, must be one of: user, admin",
			Value:   string(req.Role),
		})
	}

	return errors
}

// ValidateComment checks a comment before posting
func ValidateComment(req *models.CreateCommentRequest) Errors {
	var errors Errors

	if req.DocID <= 0 {
		errors = append(errors, ValidationError{Field: "doc_id", Message: "doc_id must be positive", Value: req.DocID})
	}

	if strings.TrimSpace(req.Text) == "" {
		errors = append(errors, ValidationError{Field: "text", Message: "text is required"})
	} else if n := utf8.RuneCountInString(req.Text); n > models.MaxCommentLength {
		errors = append(errors, ValidationError{
			Field:   "text",
			Message: fmt.Sprintf("text exceeds maximum of %d characters (has %d)", models.MaxCommentLength, n),
		})
	}

	if strings.TrimSpace(req.Username) == "" {
		errors = append(errors, ValidationError{Field: "username", Message: "username is required"})
	}

	return errors
}

func validateUsername(username string) Errors {
	switch {
	case username == "":
		return Errors{{Field: "username", Message: "username is required"}}
	case !usernameRegex.MatchString(username):
		return Errors{{Field: "username", Message: "username must not contain spaces", Value: username}}
	case utf8.RuneCountInString(username) > maxUsernameLength:
		return Errors{{Field: "username", Message: fmt.Sprintf("username exceeds maximum of %d characters", maxUsernameLength)}}
	}
	return nil
}

func validTimestamp(s string) bool {
	if _, err := time.Parse(models.CreatedAtLayout, s); err == nil {
		return true
	}
	if _, err := time.Parse(time.RFC3339, s); err == nil {
		return true
	}
	return yearPrefix.MatchString(s) && len(s) >= len("2006-01-02") && isDate(s[:10])
}

func isDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
