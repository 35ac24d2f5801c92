package fleetapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/five82/fleetdash/internal/fleet"
	"github.com/five82/fleetdash/internal/table"
)

// Backend is the dashboard's data source. *Client implements it; tests
// substitute fakes.
type Backend interface {
	FetchVehicles(ctx context.Context) ([]table.Row, error)
	FetchDashboardCards(ctx context.Context) ([]fleet.DashboardCard, error)
	UpdateVehicle(ctx context.Context, item table.Row) error
	CreateUser(ctx context.Context, req fleet.CreateUserRequest) (fleet.User, error)
}

var _ Backend = (*Client)(nil)

// Client talks to the fleet REST backend.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultAPIBind   = "127.0.0.1:3000"
	defaultUserAgent = "fleetdash/0.1"
	requestTimeout   = 5 * time.Second
)

// NewClient builds a Client using the provided apiBind host:port value.
func NewClient(apiBind string) (*Client, error) {
	base, err := parseBaseURL(apiBind)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the resolved backend address.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// FetchVehicles retrieves the vehicle collection as opaque rows.
func (c *Client) FetchVehicles(ctx context.Context) ([]table.Row, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []table.Row
	if err := c.do(ctx, http.MethodGet, "/vehicles", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchDashboardCards retrieves the summary cards.
func (c *Client) FetchDashboardCards(ctx context.Context) ([]fleet.DashboardCard, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []fleet.DashboardCard
	if err := c.do(ctx, http.MethodGet, "/dashboardCards", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// UpdateVehicle replaces the vehicle record identified by the row's id.
func (c *Client) UpdateVehicle(ctx context.Context, item table.Row) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	id := table.Plain(item.Lookup("id"))
	if id == "" {
		return fmt.Errorf("vehicle id required")
	}
	return c.do(ctx, http.MethodPut, "/vehicles/"+url.PathEscape(id), item, nil)
}

// CreateUser posts a new user and returns the stored record.
func (c *Client) CreateUser(ctx context.Context, req fleet.CreateUserRequest) (fleet.User, error) {
	if c == nil {
		return fleet.User{}, fmt.Errorf("client is nil")
	}
	var payload fleet.User
	if err := c.do(ctx, http.MethodPost, "/users", req, &payload); err != nil {
		return fleet.User{}, err
	}
	return payload, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, rel, body, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return &StatusError{Path: rel.String(), Code: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// StatusError reports a 4xx/5xx response.
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Code)
}

func parseBaseURL(apiBind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBind)
	if trimmed == "" {
		trimmed = defaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_bind %q: %w", apiBind, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
