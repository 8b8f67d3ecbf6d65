package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/client/models"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Endpoint paths, relative to the configured base URL.
const (
	pathRegister       = "/auth/register/"
	pathLogin          = "/auth/login/"
	pathLogout         = "/auth/logout/"
	pathRefresh        = "/auth/refresh/"
	pathProfile        = "/auth/profile/"
	pathChangePassword = "/auth/change-password/"
	pathForgotPassword = "/auth/forgot-password/"
	pathResetPassword  = "/auth/reset-password/"
	pathHealth         = "/auth/health/"
)

// DefaultTimeout bounds every outgoing request.
const DefaultTimeout = 10 * time.Second

// TokenStore is the part of the credential store the transport needs: the
// current credentials for attaching and renewing tokens, and an atomic clear
// for the terminal refresh-failure path.
type TokenStore interface {
	Get(ctx context.Context) (models.Credentials, error)
	SetTokens(ctx context.Context, access, refresh string) error
	Clear(ctx context.Context) error
}

// HTTPClient talks JSON over HTTP to the auth backend. Every request is
// decorated with the current access token; a 401 triggers a single token
// renewal and a single replay of the original request. Concurrent renewals
// are coalesced into one in-flight refresh call.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	creds   TokenStore
	log     logging.Logger
	timeout time.Duration

	// onSessionExpired fires once per terminal refresh failure, after the
	// credential store has been cleared. The host application decides what
	// to do (typically publish a logout transition).
	onSessionExpired func()

	refreshGroup singleflight.Group
}

type Option func(*HTTPClient)

// WithLogger enables request/response diagnostics. Logging never alters
// request or response data; leave it unset in production builds.
func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

// WithTimeout overrides the fixed per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.timeout = d }
}

// WithSessionExpiredHandler registers the session-terminated callback.
func WithSessionExpiredHandler(fn func()) Option {
	return func(c *HTTPClient) { c.onSessionExpired = fn }
}

func NewHTTPClient(baseURL string, creds TokenStore, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		log:     logging.NewNopLogger(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http = &http.Client{Timeout: c.timeout}
	return c
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// do issues one request through the authenticated pipeline. On a 401 it
// attempts exactly one token renewal and one replay; a 401 on the replay is
// returned to the caller as-is.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	creds, err := c.creds.Get(ctx)
	if err != nil {
		return err
	}
	token := creds.AccessToken

	requestID := uuid.NewString()
	retried := false

	for {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		c.log.Debug(ctx, "api request", "id", requestID, "method", method, "path", path, "retry", retried)

		resp, err := c.http.Do(req)
		if err != nil {
			return classifyTransportError(err)
		}

		respBody, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return classifyTransportError(err)
		}

		c.log.Debug(ctx, "api response", "id", requestID, "status", resp.StatusCode)

		if resp.StatusCode == http.StatusUnauthorized && !retried && creds.RefreshToken != "" {
			// A concurrent request may have renewed the token already;
			// pick up the newer one before paying for a renewal.
			if latest, lerr := c.creds.Get(ctx); lerr == nil &&
				latest.AccessToken != "" && latest.AccessToken != token {
				token = latest.AccessToken
				retried = true
				continue
			}

			newToken, err := c.refreshAccessToken(ctx)
			if err != nil {
				return err
			}
			token = newToken
			retried = true
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return parseErrorBody(resp.StatusCode, respBody)
		}

		if out != nil && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, out); err != nil {
				return fmt.Errorf("failed to decode response body: %w", err)
			}
		}
		return nil
	}
}

// refreshAccessToken performs a single token renewal shared by all callers
// currently blocked on a 401. On success the new tokens are persisted and
// the new access token returned. On failure the session is terminated: the
// credential store is cleared and the session-expired callback fires.
func (c *HTTPClient) refreshAccessToken(ctx context.Context) (string, error) {
	v, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		// The renewal must outlive the caller that happened to trigger it,
		// since other requests may be waiting on the result.
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		creds, err := c.creds.Get(rctx)
		if err != nil {
			return "", err
		}
		if creds.RefreshToken == "" {
			c.terminateSession(rctx)
			return "", fmt.Errorf("no refresh token: %w", ErrSessionExpired)
		}

		resp, err := c.postRefresh(rctx, creds.RefreshToken)
		if err != nil {
			c.log.Warn(rctx, "token refresh failed", "error", err)
			c.terminateSession(rctx)
			return "", fmt.Errorf("token refresh failed: %w: %w", ErrSessionExpired, err)
		}

		refresh := resp.Refresh
		if refresh == "" {
			refresh = creds.RefreshToken
		}
		if err := c.creds.SetTokens(rctx, resp.Access, refresh); err != nil {
			return "", err
		}

		c.log.Debug(rctx, "access token refreshed")
		return resp.Access, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// postRefresh calls the renewal endpoint directly, bypassing do(), so a
// failing renewal can never trigger another renewal.
func (c *HTTPClient) postRefresh(ctx context.Context, refreshToken string) (*refreshResponse, error) {
	payload, err := json.Marshal(refreshRequest{Refresh: refreshToken})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pathRefresh, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, parseErrorBody(resp.StatusCode, respBody)
	}

	var out refreshResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("failed to decode refresh response: %w", err)
	}
	return &out, nil
}

func (c *HTTPClient) terminateSession(ctx context.Context) {
	if err := c.creds.Clear(ctx); err != nil {
		c.log.Error(ctx, "failed to clear credentials", "error", err)
	}
	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, pathRegister, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, pathLogin, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Logout(ctx context.Context, refreshToken string) error {
	return c.do(ctx, http.MethodPost, pathLogout, logoutRequest{RefreshToken: refreshToken}, nil)
}

func (c *HTTPClient) Profile(ctx context.Context) (models.UserProfile, error) {
	var out models.UserProfile
	if err := c.do(ctx, http.MethodGet, pathProfile, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, patch models.UserProfile) (models.UserProfile, error) {
	var out models.UserProfile
	if err := c.do(ctx, http.MethodPatch, pathProfile, patch, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	return c.do(ctx, http.MethodPost, pathChangePassword, req, nil)
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, pathForgotPassword, forgotPasswordRequest{Email: email}, nil)
}

func (c *HTTPClient) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	return c.do(ctx, http.MethodPost, pathResetPassword, req, nil)
}

func (c *HTTPClient) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, pathHealth, nil, nil)
}
