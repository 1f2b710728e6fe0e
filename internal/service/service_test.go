package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/docvault-console/internal/apiclient"
	"github.com/docvault-console/internal/config"
	"github.com/docvault-console/internal/docquery"
	"github.com/docvault-console/internal/mocks"
	"github.com/docvault-console/internal/models"
	"github.com/docvault-console/internal/report"
	"github.com/docvault-console/internal/service"
	"github.com/docvault-console/internal/session"
	"github.com/rs/zerolog"
)

var (
	admin = &models.Session{ID: 1, Username: "admin", FullName: "Root", Role: models.RoleAdmin, Token: "t1"}
	alice = &models.Session{ID: 2, Username: "alice", FullName: "Alice", Role: models.RoleUser, Token: "t2"}
)

func fixedClock() time.Time {
	return time.Date(2024, 7, 1, 12, 30, 0, 0, time.UTC)
}

func newServices(api *mocks.MockAPI, sess *models.Session) (*service.Services, *mocks.MockSessionStore) {
	store := mocks.NewMockSessionStore()
	store.Current = sess
	svcs := service.NewServices(service.Dependencies{
		API:      api,
		Session:  sess,
		Store:    store,
		Renderer: report.NewRenderer(&config.ReportConfig{}, zerolog.Nop()),
		Clock:    fixedClock,
	}, zerolog.Nop())
	return svcs, store
}

func seedDocuments(api *mocks.MockAPI) {
	api.Documents = []*models.Document{
		{ID: 1, Title: "Alpha", Author: "alice", Content: "a", Category: models.CategoryPtr(models.CategoryOrder), CreatedAt: models.StringPtr("2023-01-10 09:00:00")},
		{ID: 2, Title: "beta", Author: "bob", Content: "b", Category: models.CategoryPtr(models.CategoryReport), CreatedAt: models.StringPtr("2024-02-01 10:00:00")},
		{ID: 3, Title: "Gamma", Author: "alice", Content: "data:text/plain;base64,SGk=", CreatedAt: models.StringPtr("2024-05-05 08:00:00")},
		{ID: 4, Title: "delta.md", Author: "bob", Content: "d"},
		{ID: 5, Title: "Epsilon", Author: "alice", Content: "e", CreatedAt: models.StringPtr("2022-12-31 23:59:59")},
		{ID: 6, Title: "Zeta", Author: "bob", Content: "z", CreatedAt: models.StringPtr("2024-06-01 00:00:00")},
	}
}

func assertKind(t *testing.T, err error, want apiclient.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected %s error, got nil", want)
	}
	if got := apiclient.KindOf(err); got != want {
		t.Errorf("Expected %s error, got %s (%v)", want, got, err)
	}
}

func TestAuthService_Login(t *testing.T) {
	t.Run("success saves session", func(t *testing.T) {
		api := mocks.NewMockAPI()
		api.LoginResponse = &models.LoginResponse{
			Token: "tok",
			User:  models.User{ID: 9, Username: "admin", FullName: "Root", Role: models.RoleAdmin, CreatedAt: "2024-01-01"},
		}
		svcs, store := newServices(api, nil)

		sess, err := svcs.Auth.Login(context.Background(), &models.LoginRequest{Username: "admin", Password: "pw"})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if sess.Token != "tok" || sess.ID != 9 || !sess.IsAdmin() {
			t.Errorf("Unexpected session %+v", sess)
		}
		if store.Current != sess {
			t.Error("Expected session to be persisted")
		}
	})

	t.Run("empty credentials fail before network", func(t *testing.T) {
		api := mocks.NewMockAPI()
		svcs, store := newServices(api, nil)

		_, err := svcs.Auth.Login(context.Background(), &models.LoginRequest{Username: "admin"})
		assertKind(t, err, apiclient.KindValidation)
		if api.CallCount("Login") != 0 || store.SaveCalls != 0 {
			t.Error("Expected no login round trip and no save")
		}
	})

	t.Run("rejected credentials", func(t *testing.T) {
		api := mocks.NewMockAPI()
		api.Errors["Login"] = &apiclient.Error{Op: "POST /login", Kind: apiclient.KindAuthentication, Status: 401}
		svcs, store := newServices(api, nil)

		_, err := svcs.Auth.Login(context.Background(), &models.LoginRequest{Username: "admin", Password: "bad"})
		assertKind(t, err, apiclient.KindAuthentication)
		if store.Current != nil {
			t.Error("Expected no session after failed login")
		}
	})
}

func TestAuthService_UsesTokenlessClient(t *testing.T) {
	expired := &apiclient.Error{Op: "POST /login", Kind: apiclient.KindAuthentication, Status: 401, Message: "session expired"}

	authed := mocks.NewMockAPI()
	authed.Errors["Login"] = expired
	authed.Errors["Register"] = expired
	public := mocks.NewMockAPI()

	store := mocks.NewMockSessionStore()
	store.Current = alice
	svcs := service.NewServices(service.Dependencies{
		API:     authed,
		Public:  public,
		Session: alice,
		Store:   store,
		Clock:   fixedClock,
	}, zerolog.Nop())

	sess, err := svcs.Auth.Login(context.Background(), &models.LoginRequest{Username: "alice", Password: "pw"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if sess.Token != "test-token" || store.Current != sess {
		t.Errorf("Expected the new session to replace the stored one, got %+v", store.Current)
	}

	next, err := svcs.Auth.Register(context.Background(), &models.RegisterRequest{Username: "dave", Password: "pw", FullName: "Dave"})
	if err != nil || next != session.ViewLogin {
		t.Errorf("Register = %s, %v", next, err)
	}

	if authed.CallCount("Login") != 0 || authed.CallCount("Register") != 0 {
		t.Error("Expected login and register to bypass the token-bearing client")
	}
	if public.CallCount("Login") != 1 || public.CallCount("Register") != 1 {
		t.Errorf("Expected one public login and register, got %v", public.Calls)
	}
}

func TestAuthService_RegisterAndLogout(t *testing.T) {
	api := mocks.NewMockAPI()
	svcs, store := newServices(api, alice)

	view, err := svcs.Auth.Register(context.Background(), &models.RegisterRequest{Username: "carol", Password: "pw", FullName: "Carol"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if view != session.ViewLogin {
		t.Errorf("Expected login view after registration, got %s", view)
	}
	if len(api.Registered) != 1 || api.CallCount("Login") != 0 {
		t.Error("Expected one registration and no automatic login")
	}

	view, err = svcs.Auth.Register(context.Background(), &models.RegisterRequest{Username: "carol"})
	assertKind(t, err, apiclient.KindValidation)
	if view != session.ViewRegister {
		t.Errorf("Expected to stay on register view, got %s", view)
	}

	if v := svcs.Auth.Logout(); v != session.ViewLogin {
		t.Errorf("Expected login view, got %s", v)
	}
	if _, ok := store.Get(); ok {
		t.Error("Expected session cleared")
	}
	// Logout twice is harmless
	svcs.Auth.Logout()
	if store.ClearCalls != 2 {
		t.Errorf("Expected 2 clear calls, got %d", store.ClearCalls)
	}
}

func TestDashboardService_Load(t *testing.T) {
	api := mocks.NewMockAPI()
	seedDocuments(api)
	api.StatsResult = models.Stats{Users: 3, Docs: 6, Audits: 20}
	svcs, _ := newServices(api, alice)

	dash, err := svcs.Dashboard.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if dash.Stats.Audits != 20 {
		t.Errorf("Unexpected stats %+v", dash.Stats)
	}

	var ids []int
	for _, d := range dash.Recent {
		ids = append(ids, d.ID)
	}
	want := []int{6, 5, 4, 3, 2}
	if len(ids) != len(want) {
		t.Fatalf("Expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, ids)
			break
		}
	}

	noSession, _ := newServices(api, nil)
	_, err = noSession.Dashboard.Load(context.Background())
	if !errors.Is(err, models.ErrNoSession) {
		t.Errorf("Expected ErrNoSession, got %v", err)
	}
}

func TestDocumentService_List(t *testing.T) {
	api := mocks.NewMockAPI()
	seedDocuments(api)
	svcs, _ := newServices(api, alice)

	list, err := svcs.Documents.List(context.Background(), docquery.Query{Year: "2024", SortBy: docquery.SortByDate, SortDir: docquery.Desc})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if list.Total != 6 {
		t.Errorf("Expected total 6, got %d", list.Total)
	}
	var ids []int
	for _, d := range list.Documents {
		ids = append(ids, d.ID)
	}
	if len(ids) != 3 || ids[0] != 6 || ids[1] != 3 || ids[2] != 2 {
		t.Errorf("Expected [6 3 2], got %v", ids)
	}
	if len(list.Years) != 3 || list.Years[0] != "2024" {
		t.Errorf("Unexpected years %v", list.Years)
	}
	if list.Query.Category != docquery.All {
		t.Errorf("Expected normalized query, got %+v", list.Query)
	}
}

func TestDocumentService_OpenAndFind(t *testing.T) {
	api := mocks.NewMockAPI()
	seedDocuments(api)
	api.Comments[2] = []models.Comment{{ID: 1, DocID: 2, AdminName: "admin", Text: "check"}}
	svcs, _ := newServices(api, alice)

	view, err := svcs.Documents.Open(context.Background(), 2)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if len(view.Comments) != 1 {
		t.Errorf("Expected 1 comment, got %d", len(view.Comments))
	}
	if view.CanDelete || view.CanDownload || view.CanComment {
		t.Errorf("Expected alice to have no actions on bob's document, got %+v", view)
	}

	_, err = svcs.Documents.Find(context.Background(), 99)
	assertKind(t, err, apiclient.KindNotFound)
}

func TestDocumentService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		sess      *models.Session
		docID     int
		wantKind  apiclient.Kind
		wantErr   bool
		wantCalls int
	}{
		{name: "author deletes", sess: alice, docID: 1, wantCalls: 1},
		{name: "admin deletes any", sess: admin, docID: 2, wantCalls: 1},
		{name: "other user denied", sess: alice, docID: 2, wantErr: true, wantKind: apiclient.KindAuthorization},
		{name: "no session", sess: nil, docID: 1, wantErr: true, wantKind: apiclient.KindAuthentication},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := mocks.NewMockAPI()
			seedDocuments(api)
			svcs, _ := newServices(api, tt.sess)

			doc := api.Documents[tt.docID-1]
			err := svcs.Documents.Delete(context.Background(), doc)
			if tt.wantErr {
				assertKind(t, err, tt.wantKind)
			} else if err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			if n := api.CallCount("DeleteDocument"); n != tt.wantCalls {
				t.Errorf("Expected %d delete calls, got %d", tt.wantCalls, n)
			}
		})
	}
}

func TestDocumentService_DeleteServerRejection(t *testing.T) {
	api := mocks.NewMockAPI()
	seedDocuments(api)
	api.Errors["DeleteDocument"] = &apiclient.Error{Op: "DELETE /documents/1", Kind: apiclient.KindAuthorization, Status: 403}
	svcs, _ := newServices(api, alice)

	err := svcs.Documents.Delete(context.Background(), api.Documents[0])
	assertKind(t, err, apiclient.KindAuthorization)
}

func TestDocumentService_Download(t *testing.T) {
	api := mocks.NewMockAPI()
	seedDocuments(api)
	svcs, _ := newServices(api, alice)
	dir := t.TempDir()

	path, err := svcs.Documents.Download(api.Documents[2], dir)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if filepath.Base(path) != "Gamma.txt" {
		t.Errorf("Expected Gamma.txt, got %s", filepath.Base(path))
	}
	data, _ := os.ReadFile(path)
	if string(data) != "Hi" {
		t.Errorf("Expected decoded content, got %q", data)
	}

	_, err = svcs.Documents.Download(api.Documents[3], dir)
	assertKind(t, err, apiclient.KindAuthorization)
}

func TestDocumentService_Report(t *testing.T) {
	api := mocks.NewMockAPI()
	seedDocuments(api)
	svcs, _ := newServices(api, alice)

	path, err := svcs.Documents.Report(api.Documents[1], t.TempDir())
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if filepath.Base(path) != "report_2_beta.pdf" {
		t.Errorf("Unexpected report name %s", filepath.Base(path))
	}

	var opened string
	path, err = svcs.Documents.OpenReport(api.Documents[1], func(p string) error {
		opened = p
		return nil
	})
	if err != nil {
		t.Fatalf("OpenReport failed: %v", err)
	}
	defer os.Remove(path)
	if opened != path {
		t.Errorf("Expected opener to receive %s, got %s", path, opened)
	}
}

func TestDocumentService_Comment(t *testing.T) {
	api := mocks.NewMockAPI()
	seedDocuments(api)

	adminSvcs, _ := newServices(api, admin)
	thread, err := adminSvcs.Documents.Comment(context.Background(), 2, " approved ")
	if err != nil {
		t.Fatalf("Comment failed: %v", err)
	}
	if len(thread) != 1 || thread[0].Text != "approved" || thread[0].AdminName != "admin" {
		t.Errorf("Unexpected thread %+v", thread)
	}

	userSvcs, _ := newServices(api, alice)
	_, err = userSvcs.Documents.Comment(context.Background(), 2, "me too")
	assertKind(t, err, apiclient.KindAuthorization)
	if api.CallCount("CreateComment") != 1 {
		t.Error("Expected the denied comment to send nothing")
	}
}

func TestCreateService_Create(t *testing.T) {
	tests := []struct {
		name       string
		form       service.DocumentForm
		wantErr    bool
		wantFields []string
	}{
		{
			name: "valid form",
			form: service.DocumentForm{Title: " Plan ", Content: "text", Category: "Регламент"},
		},
		{
			name:    "missing category",
			form:    service.DocumentForm{Title: "Plan", Content: "text"},
			wantErr: true,
		},
		{
			name:    "unknown category",
			form:    service.DocumentForm{Title: "Plan", Content: "text", Category: "Memo"},
			wantErr: true,
		},
		{
			name:    "missing title and content",
			form:    service.DocumentForm{Category: "Другое"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := mocks.NewMockAPI()
			svcs, _ := newServices(api, alice)

			req, err := svcs.Create.Create(context.Background(), tt.form)
			if tt.wantErr {
				assertKind(t, err, apiclient.KindValidation)
				if api.CallCount("CreateDocument") != 0 {
					t.Error("Expected no upload for an invalid form")
				}
				return
			}
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			if req.Title != "Plan" || req.Username != "alice" {
				t.Errorf("Unexpected request %+v", req)
			}
			if req.CreatedAt == nil || *req.CreatedAt != "2024-07-01 12:30:00" {
				t.Errorf("Expected client timestamp, got %v", req.CreatedAt)
			}
			if req.Category == nil || *req.Category != models.CategoryRegulation {
				t.Errorf("Unexpected category %v", req.Category)
			}
		})
	}
}

func TestCreateService_CreateFromFile(t *testing.T) {
	dir := t.TempDir()
	textPath := filepath.Join(dir, "notes.txt")
	binPath := filepath.Join(dir, "logo.png")
	os.WriteFile(textPath, []byte("Привет"), 0o644)
	os.WriteFile(binPath, []byte("\x89PNG\r\n\x1a\n\x00\xff\xfe"), 0o644)

	api := mocks.NewMockAPI()
	svcs, _ := newServices(api, alice)

	req, err := svcs.Create.CreateFromFile(context.Background(), textPath, service.DocumentForm{Category: "Отчет"})
	if err != nil {
		t.Fatalf("CreateFromFile failed: %v", err)
	}
	if req.Title != "notes.txt" || req.Content != "Привет" {
		t.Errorf("Unexpected request %+v", req)
	}

	req, err = svcs.Create.CreateFromFile(context.Background(), binPath, service.DocumentForm{Title: "Logo", Category: "Другое"})
	if err != nil {
		t.Fatalf("CreateFromFile failed: %v", err)
	}
	if !strings.HasPrefix(req.Content, "data:image/png;base64,") {
		t.Errorf("Expected a data URI, got %q", req.Content)
	}
	doc := &models.Document{Content: req.Content}
	raw, err := doc.DecodedContent()
	if err != nil || len(raw) != 11 {
		t.Errorf("Expected the file bytes back, got %d bytes (%v)", len(raw), err)
	}

	_, err = svcs.Create.CreateFromFile(context.Background(), filepath.Join(dir, "missing"), service.DocumentForm{})
	if err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestProfileService_Load(t *testing.T) {
	api := mocks.NewMockAPI()
	seedDocuments(api)
	svcs, _ := newServices(api, alice)

	profile, err := svcs.Profile.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if profile.Session.Username != "alice" {
		t.Errorf("Unexpected session %+v", profile.Session)
	}

	var ids []int
	for _, d := range profile.Documents {
		ids = append(ids, d.ID)
	}
	if len(ids) != 3 || ids[0] != 3 || ids[1] != 1 || ids[2] != 5 {
		t.Errorf("Expected own documents newest first [3 1 5], got %v", ids)
	}
}

func TestAuditService_List(t *testing.T) {
	api := mocks.NewMockAPI()
	api.Audit = []models.AuditEntry{
		{ID: 2, Action: models.ActionLogin, Username: "admin"},
		{ID: 1, Action: models.ActionRegister, Username: "admin"},
	}

	adminSvcs, _ := newServices(api, admin)
	entries, err := adminSvcs.Audit.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 || entries[0].ID != 2 {
		t.Errorf("Expected server order, got %+v", entries)
	}

	userSvcs, _ := newServices(api, alice)
	_, err = userSvcs.Audit.List(context.Background())
	assertKind(t, err, apiclient.KindAuthorization)
	if api.CallCount("ListAudit") != 1 {
		t.Error("Expected the denied call to skip the network")
	}
}

func TestUserService(t *testing.T) {
	users := []models.User{
		{ID: 1, Username: "admin", Role: models.RoleAdmin},
		{ID: 2, Username: "alice", Role: models.RoleUser},
	}
	update := &models.UpdateUserRequest{Username: "alice2", FullName: "Alice", Role: models.RoleAdmin}

	t.Run("admin edits another account", func(t *testing.T) {
		api := mocks.NewMockAPI()
		api.Users = users
		svcs, _ := newServices(api, admin)

		target, err := svcs.Users.Find(context.Background(), 2)
		if err != nil {
			t.Fatalf("Find failed: %v", err)
		}
		if err := svcs.Users.Update(context.Background(), target, update); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if api.UpdatedUsers[2] != update {
			t.Error("Expected update to be sent for user 2")
		}
		if err := svcs.Users.Delete(context.Background(), target); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if len(api.DeletedUsers) != 1 || api.DeletedUsers[0] != 2 {
			t.Errorf("Unexpected deletions %v", api.DeletedUsers)
		}
	})

	t.Run("admin cannot edit self", func(t *testing.T) {
		api := mocks.NewMockAPI()
		svcs, _ := newServices(api, admin)

		assertKind(t, svcs.Users.Update(context.Background(), &users[0], update), apiclient.KindAuthorization)
		assertKind(t, svcs.Users.Delete(context.Background(), &users[0]), apiclient.KindAuthorization)
		if len(api.Calls) != 0 {
			t.Errorf("Expected no network calls, got %v", api.Calls)
		}
	})

	t.Run("invalid update", func(t *testing.T) {
		api := mocks.NewMockAPI()
		svcs, _ := newServices(api, admin)

		err := svcs.Users.Update(context.Background(), &users[1], &models.UpdateUserRequest{Username: "x", FullName: "X", Role: "root"})
		assertKind(t, err, apiclient.KindValidation)
	})

	t.Run("user denied", func(t *testing.T) {
		api := mocks.NewMockAPI()
		svcs, _ := newServices(api, alice)

		_, err := svcs.Users.List(context.Background())
		assertKind(t, err, apiclient.KindAuthorization)
		if len(api.Calls) != 0 {
			t.Errorf("Expected no network calls, got %v", api.Calls)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		api := mocks.NewMockAPI()
		api.Users = users
		svcs, _ := newServices(api, admin)

		_, err := svcs.Users.Find(context.Background(), 42)
		assertKind(t, err, apiclient.KindNotFound)
	})
}
