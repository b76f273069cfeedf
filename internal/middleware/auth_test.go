package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eco-abhi/hearth/internal/auth"
	"github.com/eco-abhi/hearth/internal/database"
	"github.com/eco-abhi/hearth/internal/store"
)

func setupAuthTest(t *testing.T) (*store.SessionStore, *store.MemberStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return store.NewSessionStore(db), store.NewMemberStore(db)
}

func captureAuth(t *testing.T) (http.Handler, *auth.AuthContext) {
	t.Helper()
	var captured auth.AuthContext
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ac, ok := auth.FromContext(r.Context())
		if !ok {
			t.Error("expected auth context inside protected handler")
		}
		captured = ac
		w.WriteHeader(http.StatusOK)
	})
	return h, &captured
}

func TestRequireAuthKioskMode(t *testing.T) {
	sessions, members := setupAuthTest(t)
	if _, err := members.Create("Asha", "", "#ff8800", ""); err != nil {
		t.Fatalf("create member: %v", err)
	}

	inner, captured := captureAuth(t)
	handler := RequireAuth(sessions, members)(inner)

	req := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200 without any PINs set", rr.Code)
	}
	if !captured.Kiosk {
		t.Error("expected kiosk context")
	}
}

func TestRequireAuthRejectsWhenPINsExist(t *testing.T) {
	sessions, members := setupAuthTest(t)
	m, err := members.Create("Asha", "", "#ff8800", "")
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	if err := members.SetPIN(m.ID, "$2a$10$hash"); err != nil {
		t.Fatalf("set pin: %v", err)
	}

	inner, _ := captureAuth(t)
	handler := RequireAuth(sessions, members)(inner)

	req := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("got status %d, want 401 without a session", rr.Code)
	}
}

func TestRequireAuthValidSession(t *testing.T) {
	sessions, members := setupAuthTest(t)
	m, err := members.Create("Asha", "", "#ff8800", "")
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	if err := members.SetPIN(m.ID, "$2a$10$hash"); err != nil {
		t.Fatalf("set pin: %v", err)
	}
	sess, err := sessions.Create(m.ID, time.Hour)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	inner, captured := captureAuth(t)
	handler := RequireAuth(sessions, members)(inner)

	req := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sess.Token})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200 with valid session", rr.Code)
	}
	if captured.MemberID != m.ID {
		t.Errorf("got member id %d, want %d", captured.MemberID, m.ID)
	}
	if captured.Kiosk {
		t.Error("authenticated request should not be kiosk")
	}
}

func TestRequireAuthExpiredSession(t *testing.T) {
	sessions, members := setupAuthTest(t)
	m, err := members.Create("Asha", "", "#ff8800", "")
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	if err := members.SetPIN(m.ID, "$2a$10$hash"); err != nil {
		t.Fatalf("set pin: %v", err)
	}
	sess, err := sessions.Create(m.ID, -time.Minute)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	inner, _ := captureAuth(t)
	handler := RequireAuth(sessions, members)(inner)

	req := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sess.Token})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("got status %d, want 401 with expired session", rr.Code)
	}
}
