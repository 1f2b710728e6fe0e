package models

// LoginRequest is the body of POST /login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the body returned by POST /login
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// RegisterRequest is the body of POST /register
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// CreateDocumentRequest is the body of POST /documents
type CreateDocumentRequest struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  *Category `json:"category,omitempty"`
	CreatedAt *string   `json:"created_at,omitempty"`
	Username  string    `json:"username"`
}

// CreateCommentRequest is the body of POST /comments
type CreateCommentRequest struct {
	DocID    int    `json:"doc_id"`
	Text     string `json:"text"`
	Username string `json:"username"`
}

// UpdateUserRequest is the body of PUT /users/{id}
type UpdateUserRequest struct {
	FullName string `json:"full_name"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}
