package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"mmweb/internal/backend"
	"mmweb/internal/common"
	"mmweb/internal/models"
)

type fakeBackend struct {
	backend.Client

	token    string
	user     *models.User
	loginErr error
	meErr    error

	meCalls int
}

func (f *fakeBackend) Login(ctx context.Context, email, password string) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return f.token, nil
}

func (f *fakeBackend) Me(ctx context.Context, token string) (*models.User, error) {
	f.meCalls++
	if f.meErr != nil {
		return nil, f.meErr
	}
	return f.user, nil
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": exp.Unix(),
	}).SignedString([]byte("backend-secret"))
	if err != nil {
		t.Fatal(err)
	}

	return token
}

func newContext(e *echo.Echo, cookies []*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func testManager(be backend.Client) *Manager {
	return NewManager([]byte("0123456789abcdef"), be, common.NewLogger("test"))
}

func TestLoginEstablishesSession(t *testing.T) {
	e := echo.New()
	user := &models.User{ID: 1, Email: "a@b.c", Role: models.RoleMentee, Name: "민수"}
	be := &fakeBackend{token: signedToken(t, time.Now().Add(time.Hour)), user: user}
	m := testManager(be)

	c, rec := newContext(e, nil)
	got, err := m.Login(c, "a@b.c", "pw")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("unexpected user %+v", got)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("login must set a session cookie")
	}

	// Second request with the cookie hits the cache, not the backend.
	c2, _ := newContext(e, cookies)
	resolved, token, err := m.Current(c2)
	if err != nil {
		t.Fatal(err)
	}
	if resolved == nil || resolved.ID != user.ID {
		t.Fatalf("expected cached user, got %v", resolved)
	}
	if token != be.token {
		t.Fatalf("unexpected token %q", token)
	}
	if be.meCalls != 1 {
		t.Fatalf("expected one /me call (during login), got %d", be.meCalls)
	}
}

func TestSilentResumeAfterRestart(t *testing.T) {
	e := echo.New()
	user := &models.User{ID: 2, Role: models.RoleMentor}
	be := &fakeBackend{token: signedToken(t, time.Now().Add(time.Hour)), user: user}

	m := testManager(be)
	c, rec := newContext(e, nil)
	if _, err := m.Login(c, "a@b.c", "pw"); err != nil {
		t.Fatal(err)
	}
	cookies := rec.Result().Cookies()

	// Fresh manager, same cookie key: the cookie survives, the cache does
	// not, so Current resolves through the backend once.
	m2 := testManager(be)
	c2, _ := newContext(e, cookies)

	resolved, _, err := m2.Current(c2)
	if err != nil {
		t.Fatal(err)
	}
	if resolved == nil || resolved.ID != user.ID {
		t.Fatalf("expected resumed user, got %v", resolved)
	}
	if be.meCalls != 2 {
		t.Fatalf("expected a resume /me call, got %d total", be.meCalls)
	}
}

func TestExpiredTokenTreatedAsNoSession(t *testing.T) {
	e := echo.New()
	be := &fakeBackend{token: signedToken(t, time.Now().Add(-time.Minute)), user: &models.User{ID: 3}}
	m := testManager(be)

	c, rec := newContext(e, nil)
	if _, err := m.Login(c, "a@b.c", "pw"); err != nil {
		t.Fatal(err)
	}
	meCallsAfterLogin := be.meCalls

	c2, _ := newContext(e, rec.Result().Cookies())
	resolved, _, err := m.Current(c2)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != nil {
		t.Fatalf("expired token must not resolve, got %v", resolved)
	}
	if be.meCalls != meCallsAfterLogin {
		t.Fatal("expired token must be rejected without a backend call")
	}
}

func TestUnauthorizedResumeClearsSession(t *testing.T) {
	e := echo.New()
	be := &fakeBackend{token: signedToken(t, time.Now().Add(time.Hour)), user: &models.User{ID: 4}}

	m := testManager(be)
	c, rec := newContext(e, nil)
	if _, err := m.Login(c, "a@b.c", "pw"); err != nil {
		t.Fatal(err)
	}

	// Token revoked server-side: a fresh manager resumes, gets 401, and
	// reports no session rather than an error.
	be.meErr = backend.ErrUnauthorized
	m2 := testManager(be)
	c2, _ := newContext(e, rec.Result().Cookies())

	resolved, _, err := m2.Current(c2)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != nil {
		t.Fatalf("revoked token must not resolve, got %v", resolved)
	}
}

func TestCurrentWithoutCookie(t *testing.T) {
	e := echo.New()
	m := testManager(&fakeBackend{})

	c, _ := newContext(e, nil)
	resolved, token, err := m.Current(c)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != nil || token != "" {
		t.Fatalf("expected no session, got %v %q", resolved, token)
	}
}

func TestTokenExpired(t *testing.T) {
	if tokenExpired(signedToken(t, time.Now().Add(time.Hour))) {
		t.Fatal("future exp must not read as expired")
	}
	if !tokenExpired(signedToken(t, time.Now().Add(-time.Hour))) {
		t.Fatal("past exp must read as expired")
	}
	if tokenExpired("not-a-jwt") {
		t.Fatal("unparseable tokens are left to the backend")
	}
}
