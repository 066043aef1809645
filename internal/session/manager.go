package session

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"mmweb/internal/backend"
	"mmweb/internal/models"
)

const sessionName = "mentor-match-session"

const (
	ContextUserKey  = "user"
	ContextTokenKey = "token"
)

// Manager owns the browser session: the bearer token lives in the cookie
// (the only state persisted client-side), the resolved user is cached in
// memory keyed by token. The cache is repopulated from GET /me after a
// process restart, so a surviving cookie silently resumes the session.
type Manager struct {
	cookies *sessions.CookieStore
	backend backend.Client
	logger  *zerolog.Logger

	mu    sync.RWMutex
	users map[string]*models.User
}

func NewManager(key []byte, be backend.Client, logger *zerolog.Logger) *Manager {
	return &Manager{
		cookies: sessions.NewCookieStore(key),
		backend: be,
		logger:  logger,
		users:   make(map[string]*models.User),
	}
}

func (m *Manager) Login(c echo.Context, email, password string) (*models.User, error) {
	ctx := c.Request().Context()

	token, err := m.backend.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	user, err := m.backend.Me(ctx, token)
	if err != nil {
		return nil, err
	}

	session, err := m.cookies.New(c.Request(), sessionName)
	if err != nil {
		return nil, err
	}

	sid := uuid.New().String()
	session.Values["token"] = token
	session.Values["sid"] = sid

	if err := session.Save(c.Request(), c.Response()); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.users[token] = user
	m.mu.Unlock()

	m.logger.Info().Str("sid", sid).Str("role", string(user.Role)).Msg("session established")

	return user, nil
}

// Current resolves the session user, or (nil, "", nil) when there is none.
// Dependents only render after this returns, so there is no window where a
// resuming session looks unauthenticated.
func (m *Manager) Current(c echo.Context) (*models.User, string, error) {
	session, err := m.cookies.Get(c.Request(), sessionName)
	if err != nil {
		// Undecodable cookie, e.g. after a key rotation. Start over.
		m.Clear(c)
		return nil, "", nil
	}

	token, ok := session.Values["token"].(string)
	if !ok || token == "" {
		return nil, "", nil
	}

	if tokenExpired(token) {
		m.Clear(c)
		return nil, "", nil
	}

	m.mu.RLock()
	user, hit := m.users[token]
	m.mu.RUnlock()
	if hit {
		return user, token, nil
	}

	user, err = m.backend.Me(c.Request().Context(), token)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			m.Clear(c)
			return nil, "", nil
		}
		return nil, "", err
	}

	m.mu.Lock()
	m.users[token] = user
	m.mu.Unlock()

	return user, token, nil
}

// Update replaces the cached user after a successful profile save. The
// server response is authoritative.
func (m *Manager) Update(c echo.Context, user *models.User) {
	session, err := m.cookies.Get(c.Request(), sessionName)
	if err != nil {
		return
	}

	token, ok := session.Values["token"].(string)
	if !ok || token == "" {
		return
	}

	m.mu.Lock()
	m.users[token] = user
	m.mu.Unlock()
}

func (m *Manager) Logout(c echo.Context) {
	m.Clear(c)
}

// Clear drops the cached user and expires the cookie.
func (m *Manager) Clear(c echo.Context) {
	session, err := m.cookies.Get(c.Request(), sessionName)
	if err == nil {
		if token, ok := session.Values["token"].(string); ok && token != "" {
			m.mu.Lock()
			delete(m.users, token)
			m.mu.Unlock()
		}
	}

	session = sessions.NewSession(m.cookies, sessionName)
	session.Options = &sessions.Options{MaxAge: -1, Path: "/"}
	if err := session.Save(c.Request(), c.Response()); err != nil {
		m.logger.Err(err).Msg("unable to expire session cookie")
	}
}

// RequireUser gates authenticated routes, redirecting anonymous visitors
// to the login page.
func (m *Manager) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, token, err := m.Current(c)
		if err != nil {
			return err
		}
		if user == nil {
			return c.Redirect(http.StatusFound, "/login")
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextTokenKey, token)

		return next(c)
	}
}

// RedirectAuthed keeps signed-in users away from the login and signup pages.
func (m *Manager) RedirectAuthed(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, _, err := m.Current(c)
		if err != nil {
			return err
		}
		if user != nil {
			return c.Redirect(http.StatusFound, "/profile")
		}

		return next(c)
	}
}

// tokenExpired inspects the token's exp claim without verifying the
// signature; the client holds no signing key, and an expired token is not
// worth a round trip. Anything unparseable is left for the backend to judge.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return exp.Before(time.Now())
}
