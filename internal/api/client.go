package api

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

	"github.com/SstealzZ/LinkStart/internal/domain"
	"github.com/SstealzZ/LinkStart/internal/logger"
	"github.com/SstealzZ/LinkStart/internal/utils"
)

// servicesPath is fixed by the remote API; only the auth/ping paths are
// configurable.
const servicesPath = "/services"

// Endpoints holds the configurable paths of the remote API.
type Endpoints struct {
	Login    string
	Register string
	Refresh  string
	Me       string
	Ping     string
}

// TokenResponse is the payload of the login/register/refresh endpoints.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
}

// Client is a typed HTTP client for the remote LinkStart API.
//
// The bearer token is threaded explicitly through every call that needs
// one; the client holds no ambient auth state.
type Client struct {
	baseURL   string
	endpoints Endpoints
	http      *http.Client
	logger    logger.Logger
}

// New creates a client with sensible timeouts.
func New(baseURL string, endpoints Endpoints, timeout time.Duration, log logger.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		endpoints: endpoints,
		http:      &http.Client{Timeout: timeout},
		logger:    log,
	}
}

// Login submits credentials form-encoded and returns the issued tokens.
func (c *Client) Login(ctx context.Context, username, password string) (TokenResponse, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(c.endpoints.Login),
		strings.NewReader(form.Encode()))
	if err != nil {
		return TokenResponse{}, fmt.Errorf("failed to build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var tokens TokenResponse
	if err := c.do(req, &tokens); err != nil {
		return TokenResponse{}, err
	}
	return tokens, nil
}

// Register submits a JSON registration body and returns the issued tokens.
func (c *Client) Register(ctx context.Context, username, email, password string) (TokenResponse, error) {
	body := struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}{username, email, password}

	req, err := c.jsonRequest(ctx, http.MethodPost, c.url(c.endpoints.Register), body)
	if err != nil {
		return TokenResponse{}, err
	}

	var tokens TokenResponse
	if err := c.do(req, &tokens); err != nil {
		return TokenResponse{}, err
	}
	return tokens, nil
}

// Refresh exchanges a refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (TokenResponse, error) {
	body := struct {
		RefreshToken string `json:"refresh_token"`
	}{refreshToken}

	req, err := c.jsonRequest(ctx, http.MethodPost, c.url(c.endpoints.Refresh), body)
	if err != nil {
		return TokenResponse{}, err
	}

	var tokens TokenResponse
	if err := c.do(req, &tokens); err != nil {
		return TokenResponse{}, err
	}
	return tokens, nil
}

// Me fetches the profile of the token's owner.
func (c *Client) Me(ctx context.Context, token string) (domain.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(c.endpoints.Me), http.NoBody)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to build me request: %w", err)
	}
	setBearer(req, token)

	var user domain.User
	if err := c.do(req, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Ping probes an IP through the remote API's ping endpoint.
// Transport and decode failures are returned as errors here; the
// never-fails contract lives in the session manager.
func (c *Client) Ping(ctx context.Context, ip string) (domain.PingResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.url(c.endpoints.Ping)+"/"+url.PathEscape(ip), http.NoBody)
	if err != nil {
		return domain.PingResult{}, fmt.Errorf("failed to build ping request: %w", err)
	}

	var result domain.PingResult
	if err := c.do(req, &result); err != nil {
		return domain.PingResult{}, err
	}
	return result, nil
}

// ListServices fetches the full service collection.
func (c *Client) ListServices(ctx context.Context, token string) ([]domain.Service, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(servicesPath), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build list request: %w", err)
	}
	setBearer(req, token)

	var services []domain.Service
	if err := c.do(req, &services); err != nil {
		return nil, err
	}
	return services, nil
}

// CreateService submits a draft and returns the persisted record
// carrying its server-assigned id.
func (c *Client) CreateService(ctx context.Context, token string, draft domain.Service) (domain.Service, error) {
	req, err := c.jsonRequest(ctx, http.MethodPost, c.url(servicesPath), draft)
	if err != nil {
		return domain.Service{}, err
	}
	setBearer(req, token)

	var created domain.Service
	if err := c.do(req, &created); err != nil {
		return domain.Service{}, err
	}
	return created, nil
}

// DeleteService removes a persisted service by id.
func (c *Client) DeleteService(ctx context.Context, token, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.url(servicesPath)+"/"+url.PathEscape(id), http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}
	setBearer(req, token)

	return c.do(req, nil)
}

// Internals ---------------------------------------------------------------

func (c *Client) url(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

func (c *Client) jsonRequest(ctx context.Context, method, url string, body any) (*http.Request, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func setBearer(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
}

// do executes the request, maps non-2xx responses to *APIError and
// decodes a 2xx body into out when out is non-nil.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", req.Method, req.URL.Path, err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var body struct {
			Detail string `json:"detail"`
		}
		if data, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<16)); readErr == nil {
			if json.Unmarshal(data, &body) == nil {
				apiErr.Detail = body.Detail
			}
		}
		c.logger.Debug("api error response",
			logger.String("method", req.Method),
			logger.String("path", req.URL.Path),
			logger.Int("status", apiErr.Status),
			logger.String("detail", apiErr.Detail))
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("malformed response from %s: %w", req.URL.Path, err)
	}
	return nil
}

// AsAPIError unwraps err into an *APIError when possible.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
