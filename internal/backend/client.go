package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mmweb/internal/models"
)

// ErrUnauthorized is returned for any backend response with status 401.
// The web layer handles it in one place: clear the session, redirect to
// the login page.
var ErrUnauthorized = errors.New("backend: unauthorized")

// StatusError is any other non-2xx backend response.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend: status %d", e.Code)
	}
	return fmt.Sprintf("backend: status %d: %s", e.Code, e.Detail)
}

type SignupParams struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type ProfileUpdate struct {
	ID     int      `json:"id"`
	Name   string   `json:"name"`
	Role   string   `json:"role"`
	Bio    string   `json:"bio"`
	Image  string   `json:"image"`
	Skills []string `json:"skills,omitempty"`
}

type Client interface {
	Signup(ctx context.Context, params SignupParams) error
	Login(ctx context.Context, email, password string) (string, error)
	Me(ctx context.Context, token string) (*models.User, error)
	UpdateProfile(ctx context.Context, token string, update ProfileUpdate) (*models.User, error)
	ProfileImage(ctx context.Context, token string, role models.Role, id int) ([]byte, string, error)
	Mentors(ctx context.Context, token string, sort models.SortKey, skill string) ([]models.User, error)
	CreateMatchRequest(ctx context.Context, token string, mentorID int, message string) (*models.MatchRequest, error)
	IncomingRequests(ctx context.Context, token string) ([]models.MatchRequest, error)
	OutgoingRequests(ctx context.Context, token string) ([]models.MatchRequest, error)
	AcceptRequest(ctx context.Context, token string, id int) (*models.MatchRequest, error)
	RejectRequest(ctx context.Context, token string, id int) (*models.MatchRequest, error)
	CancelRequest(ctx context.Context, token string, id int) (*models.MatchRequest, error)
}

type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPClient) Signup(ctx context.Context, params SignupParams) error {
	return c.call(ctx, "signup", http.MethodPost, "/signup", "", nil, params, nil)
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}

	var out struct {
		Token string `json:"token"`
	}
	if err := c.call(ctx, "login", http.MethodPost, "/login", "", nil, body, &out); err != nil {
		return "", err
	}

	return out.Token, nil
}

func (c *HTTPClient) Me(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	if err := c.call(ctx, "me", http.MethodGet, "/me", token, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, token string, update ProfileUpdate) (*models.User, error) {
	var user models.User
	if err := c.call(ctx, "update_profile", http.MethodPut, "/profile", token, nil, update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ProfileImage fetches the raw profile image. The backend redirects missing
// images to a placeholder host, which the HTTP client follows.
func (c *HTTPClient) ProfileImage(ctx context.Context, token string, role models.Role, id int) ([]byte, string, error) {
	path := fmt.Sprintf("/images/%s/%d", role, id)

	req, err := c.newRequest(ctx, http.MethodGet, path, token, nil, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		observe("profile_image", "error")
		return nil, "", err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		observe("profile_image", outcome(resp.StatusCode))
		return nil, "", err
	}
	observe("profile_image", "ok")

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, "", err
	}

	return data, resp.Header.Get("Content-Type"), nil
}

func (c *HTTPClient) Mentors(ctx context.Context, token string, sort models.SortKey, skill string) ([]models.User, error) {
	query := url.Values{}
	query.Set("orderBy", string(sort))
	if skill != "" {
		query.Set("skill", skill)
	}

	var mentors []models.User
	if err := c.call(ctx, "mentors", http.MethodGet, "/mentors", token, query, nil, &mentors); err != nil {
		return nil, err
	}
	return mentors, nil
}

func (c *HTTPClient) CreateMatchRequest(ctx context.Context, token string, mentorID int, message string) (*models.MatchRequest, error) {
	body := map[string]interface{}{
		"mentor_id": mentorID,
		"message":   message,
	}

	var req models.MatchRequest
	if err := c.call(ctx, "create_request", http.MethodPost, "/match-requests", token, nil, body, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (c *HTTPClient) IncomingRequests(ctx context.Context, token string) ([]models.MatchRequest, error) {
	var reqs []models.MatchRequest
	if err := c.call(ctx, "incoming_requests", http.MethodGet, "/match-requests/incoming", token, nil, nil, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

func (c *HTTPClient) OutgoingRequests(ctx context.Context, token string) ([]models.MatchRequest, error) {
	var reqs []models.MatchRequest
	if err := c.call(ctx, "outgoing_requests", http.MethodGet, "/match-requests/outgoing", token, nil, nil, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

func (c *HTTPClient) AcceptRequest(ctx context.Context, token string, id int) (*models.MatchRequest, error) {
	return c.transition(ctx, "accept_request", http.MethodPut, fmt.Sprintf("/match-requests/%d/accept", id), token)
}

func (c *HTTPClient) RejectRequest(ctx context.Context, token string, id int) (*models.MatchRequest, error) {
	return c.transition(ctx, "reject_request", http.MethodPut, fmt.Sprintf("/match-requests/%d/reject", id), token)
}

func (c *HTTPClient) CancelRequest(ctx context.Context, token string, id int) (*models.MatchRequest, error) {
	return c.transition(ctx, "cancel_request", http.MethodDelete, fmt.Sprintf("/match-requests/%d", id), token)
}

func (c *HTTPClient) transition(ctx context.Context, name, method, path, token string) (*models.MatchRequest, error) {
	var req models.MatchRequest
	if err := c.call(ctx, name, method, path, token, nil, nil, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path, token string, query url.Values, body interface{}) (*http.Request, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

func (c *HTTPClient) call(ctx context.Context, name, method, path, token string, query url.Values, body, out interface{}) error {
	req, err := c.newRequest(ctx, method, path, token, query, body)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		observe(name, "error")
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		observe(name, outcome(resp.StatusCode))
		return err
	}
	observe(name, "ok")

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	var detail struct {
		Detail string `json:"detail"`
	}
	rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(rb, &detail)

	return &StatusError{Code: resp.StatusCode, Detail: detail.Detail}
}

func outcome(status int) string {
	if status == http.StatusUnauthorized {
		return "unauthorized"
	}
	return "failed"
}
