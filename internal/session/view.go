package session

import (
	"github.com/docvault-console/internal/models"
)

// View identifies a screen
type View string

const (
	ViewLogin     View = "login"
	ViewRegister  View = "register"
	ViewDashboard View = "dashboard"
	ViewDocuments View = "docs"
	ViewCreate    View = "create"
	ViewProfile   View = "profile"
	ViewUsers     View = "users"
	ViewAudit     View = "audit"
)

// Public reports whether v is reachable without a session
func (v View) Public() bool {
	return v == ViewLogin || v == ViewRegister
}

// RequireSession returns v when a session is present, the login view otherwise
func RequireSession(v View, sess *models.Session) View {
	if v.Public() || sess.Valid() {
		return v
	}
	return ViewLogin
}

// NavItem is one entry of the navigation menu
type NavItem struct {
	View  View
	Label string
}

// Navigation returns the menu entries visible to sess
func Navigation(sess *models.Session) []NavItem {
	if !sess.Valid() {
		return nil
	}

	items := []NavItem{
		{View: ViewDashboard, Label: "Главная"},
		{View: ViewDocuments, Label: "Документы"},
		{View: ViewCreate, Label: "Загрузить"},
		{View: ViewProfile, Label: "Профиль"},
	}

	g := NewGate(sess)
	if g.CanManageUsers() {
		items = append(items, NavItem{View: ViewUsers, Label: "Пользователи"})
	}
	if g.CanAudit() {
		items = append(items, NavItem{View: ViewAudit, Label: "Аудит"})
	}
	return items
}
