package models

// Comment is an administrator remark attached to one document
type Comment struct {
	ID        int    `json:"id"`
	DocID     int    `json:"doc_id"`
	AdminName string `json:"admin_name"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

// MaxCommentLength is the maximum accepted comment length in characters
const MaxCommentLength = 2000
