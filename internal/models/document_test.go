package models

import (
	"testing"
)

func TestDecodedContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{name: "plain text", content: "hello world", want: "hello world"},
		{name: "base64 data uri", content: "data:text/plain;base64,aGVsbG8=", want: "hello"},
		{name: "percent encoded data uri", content: "data:text/plain,a%20b", want: "a b"},
		{name: "missing comma", content: "data:text/plain;base64", wantErr: true},
		{name: "bad base64", content: "data:;base64,!!!", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &Document{ID: 1, Content: tt.content}
			got, err := doc.DecodedContent()
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodedContent() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && string(got) != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, string(got))
			}
		})
	}
}

func TestDownloadName(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"report.pdf", "report.pdf"},
		{"Приказ 12", "Приказ 12.txt"},
		{"a/b", "a_b.txt"},
		{"  ", "document_7.txt"},
	}

	for _, tt := range tests {
		doc := &Document{ID: 7, Title: tt.title}
		if got := doc.DownloadName(); got != tt.want {
			t.Errorf("DownloadName(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestSessionValid(t *testing.T) {
	var nilSession *Session
	if nilSession.Valid() {
		t.Error("nil session must not be valid")
	}
	if (&Session{Username: "bob", Role: "root"}).Valid() {
		t.Error("unknown role must not be valid")
	}
	if (&Session{Role: RoleUser}).Valid() {
		t.Error("empty username must not be valid")
	}
	if !(&Session{Username: "bob", Role: RoleUser}).Valid() {
		t.Error("expected valid session")
	}
}
