package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"mmweb/internal/backend"
	"mmweb/internal/common"
	"mmweb/internal/models"
	"mmweb/internal/services/web/handlers"
	"mmweb/internal/session"
)

// stubBackend covers the full client surface with overridable auth calls;
// the rest of the methods return whatever error is plugged in.
type stubBackend struct {
	loginErr error
	meErr    error
	listErr  error

	user *models.User
}

func (s *stubBackend) Signup(context.Context, backend.SignupParams) error { return nil }

func (s *stubBackend) Login(context.Context, string, string) (string, error) {
	if s.loginErr != nil {
		return "", s.loginErr
	}
	return "opaque-session-token", nil
}

func (s *stubBackend) Me(context.Context, string) (*models.User, error) {
	if s.meErr != nil {
		return nil, s.meErr
	}
	return s.user, nil
}

func (s *stubBackend) UpdateProfile(context.Context, string, backend.ProfileUpdate) (*models.User, error) {
	return s.user, nil
}

func (s *stubBackend) ProfileImage(context.Context, string, models.Role, int) ([]byte, string, error) {
	return nil, "", s.listErr
}

func (s *stubBackend) Mentors(context.Context, string, models.SortKey, string) ([]models.User, error) {
	return nil, s.listErr
}

func (s *stubBackend) CreateMatchRequest(context.Context, string, int, string) (*models.MatchRequest, error) {
	return nil, s.listErr
}

func (s *stubBackend) IncomingRequests(context.Context, string) ([]models.MatchRequest, error) {
	return nil, s.listErr
}

func (s *stubBackend) OutgoingRequests(context.Context, string) ([]models.MatchRequest, error) {
	return nil, s.listErr
}

func (s *stubBackend) AcceptRequest(context.Context, string, int) (*models.MatchRequest, error) {
	return nil, s.listErr
}

func (s *stubBackend) RejectRequest(context.Context, string, int) (*models.MatchRequest, error) {
	return nil, s.listErr
}

func (s *stubBackend) CancelRequest(context.Context, string, int) (*models.MatchRequest, error) {
	return nil, s.listErr
}

var _ backend.Client = (*stubBackend)(nil)

func newTestServer(t *testing.T, be backend.Client) *echo.Echo {
	t.Helper()

	e := echo.New()

	renderer, err := common.NewTemplate("../../../web/*.html")
	if err != nil {
		t.Fatalf("unable to load templates: %v", err)
	}
	e.Renderer = renderer

	logger := common.NewLogger("test")
	sessions := session.NewManager([]byte("0123456789abcdef"), be, logger)

	h := &handlers.ServerHandle{Backend: be, Sessions: sessions, Logger: logger}
	NewServer(":0", e, h, sessions).Register()

	return e
}

func loginForm() *http.Request {
	form := url.Values{"email": {"user@example.com"}, "password": {"secret"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func TestLoginEstablishesBrowserSession(t *testing.T) {
	be := &stubBackend{user: &models.User{ID: 1, Role: models.RoleMentee, Name: "민수"}}
	e := newTestServer(t, be)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, loginForm())

	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/profile" {
		t.Fatalf("expected redirect to /profile, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	// The cookie alone must be enough to render authenticated pages.
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec2 := httptest.NewRecorder()
	e.ServeHTTP(rec2, req)

	if rec2.Code != http.StatusOK {
		t.Fatalf("expected 200 on /profile, got %d", rec2.Code)
	}
	if !strings.Contains(rec2.Body.String(), "민수") {
		t.Fatal("profile page missing the session user")
	}

	// Signed-in users are kept away from the login page.
	req3 := httptest.NewRequest(http.MethodGet, "/login", nil)
	for _, ck := range cookies {
		req3.AddCookie(ck)
	}
	rec3 := httptest.NewRecorder()
	e.ServeHTTP(rec3, req3)

	if rec3.Code != http.StatusFound || rec3.Header().Get("Location") != "/profile" {
		t.Fatalf("expected the login page to bounce to /profile, got %d %q", rec3.Code, rec3.Header().Get("Location"))
	}
}

func TestLoginRejectedStaysOnPage(t *testing.T) {
	be := &stubBackend{loginErr: backend.ErrUnauthorized}
	e := newTestServer(t, be)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, loginForm())

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 on bad credentials, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "이메일 또는 비밀번호") {
		t.Fatal("expected the credentials notice on the page")
	}
}

func TestAnonymousVisitorRedirectedToLogin(t *testing.T) {
	be := &stubBackend{}
	e := newTestServer(t, be)

	for _, path := range []string{"/profile", "/mentors", "/requests"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
			t.Fatalf("%s: expected redirect to /login, got %d %q", path, rec.Code, rec.Header().Get("Location"))
		}
	}
}

func TestBackendUnauthorizedClearsSession(t *testing.T) {
	be := &stubBackend{user: &models.User{ID: 2, Role: models.RoleMentor, Name: "영희"}}
	e := newTestServer(t, be)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, loginForm())
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	// The backend starts rejecting the token mid-session.
	be.listErr = backend.ErrUnauthorized
	be.meErr = backend.ErrUnauthorized

	req := httptest.NewRequest(http.MethodGet, "/requests", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec2 := httptest.NewRecorder()
	e.ServeHTTP(rec2, req)

	if rec2.Code != http.StatusFound || rec2.Header().Get("Location") != "/login" {
		t.Fatalf("expected a 401 to land on /login, got %d %q", rec2.Code, rec2.Header().Get("Location"))
	}
	if expiry := rec2.Header().Get("Set-Cookie"); !strings.Contains(expiry, "Max-Age=0") {
		t.Fatalf("expected the session cookie to be expired, got %q", expiry)
	}

	// The stale cookie no longer opens authenticated pages.
	req2 := httptest.NewRequest(http.MethodGet, "/profile", nil)
	for _, ck := range cookies {
		req2.AddCookie(ck)
	}
	rec3 := httptest.NewRecorder()
	e.ServeHTTP(rec3, req2)

	if rec3.Code != http.StatusFound || rec3.Header().Get("Location") != "/login" {
		t.Fatalf("expected the stale session to be rejected, got %d %q", rec3.Code, rec3.Header().Get("Location"))
	}
}

func TestHealth(t *testing.T) {
	e := newTestServer(t, &stubBackend{})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
