package portalapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/portal-live/internal/domain/portal"
)

// Portal endpoints, relative to the API base URL.
const (
	EndpointDashboardStats   = "dashboard-stats/"
	EndpointRecentAttendance = "recent-attendance/"
	EndpointUpdateProfile    = "update-profile/"
)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 1 << 20

// Client talks to the employee-portal API the way the portal's own pages do.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cookies    []*http.Cookie
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client, for example one carrying a bearer token.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithCookies adds cookies, such as the portal session, to every request. Nil cookies are skipped.
func WithCookies(cookies ...*http.Cookie) Option {
	return func(c *Client) {
		for _, cookie := range cookies {
			if cookie != nil {
				c.cookies = append(c.cookies, cookie)
			}
		}
	}
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, portal.ErrEmptyBaseURL
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/",
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

var _ portal.API = (*Client)(nil)

// APIError is returned when the portal answers a poll with a non-success status.
type APIError struct {
	Endpoint   string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("portal API error [%d] %s", e.StatusCode, e.Endpoint)
}

// DashboardStats fetches the dashboard snapshot.
func (c *Client) DashboardStats(ctx context.Context) (*portal.DashboardSnapshot, error) {
	var snapshot portal.DashboardSnapshot
	if err := c.getJSON(ctx, EndpointDashboardStats, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// RecentAttendance fetches the recent attendance records in the order the portal sends them.
func (c *Client) RecentAttendance(ctx context.Context) ([]portal.AttendanceRecord, error) {
	var resp portal.RecentAttendanceResponse
	if err := c.getJSON(ctx, EndpointRecentAttendance, &resp); err != nil {
		return nil, err
	}
	return resp.AttendanceRecords, nil
}

// UpdateProfile posts the form payload. The portal checks the X-CSRFToken header against
// the csrftoken cookie, so the token doubles as that cookie unless one was configured.
// The JSON answer is decoded whatever the status code, since the portal reports
// failures in the body.
func (c *Client) UpdateProfile(ctx context.Context, payload portal.ProfilePayload, csrfToken string) (*portal.ProfileUpdateResponse, error) {
	req, err := c.newRequest(ctx, http.MethodPost, EndpointUpdateProfile, bytes.NewReader(payload.Body))
	if err != nil {
		return nil, err
	}
	if payload.ContentType != "" {
		req.Header.Set("Content-Type", payload.ContentType)
	}
	req.Header.Set("X-CSRFToken", csrfToken)
	if !c.hasCookie(CSRFCookieName) {
		if cookie := CSRFCookie(csrfToken); cookie != nil {
			req.AddCookie(cookie)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", EndpointUpdateProfile, err)
	}
	defer resp.Body.Close()

	var out portal.ProfileUpdateResponse
	if err := decode(resp.Body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}
	return decode(resp.Body, out)
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", endpoint, err)
	}
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Accept", "application/json")
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}
	return req, nil
}

func (c *Client) hasCookie(name string) bool {
	for _, cookie := range c.cookies {
		if cookie.Name == name {
			return true
		}
	}
	return false
}

func decode(body io.Reader, out interface{}) error {
	if err := json.NewDecoder(io.LimitReader(body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", portal.ErrDecodeResponse, err)
	}
	return nil
}
