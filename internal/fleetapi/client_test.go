package fleetapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/five82/fleetdash/internal/fleet"
	"github.com/five82/fleetdash/internal/table"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != defaultAPIBind {
		t.Fatalf("host = %q, want %q", u.Host, defaultAPIBind)
	}

	u, err = parseBaseURL("http://example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestClient_FetchesAndMutates(t *testing.T) {
	t.Parallel()

	var gotPut map[string]any
	var gotPutPath string
	var gotUser fleet.CreateUserRequest
	var gotUserAgent, gotContentType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/vehicles":
			_, _ = io.WriteString(w, `[{"id":1,"vehicle":"V1","status":"Active","extra":{"x":1}}]`)
		case r.Method == http.MethodGet && r.URL.Path == "/dashboardCards":
			_, _ = io.WriteString(w, `[{"id":1,"title":"Active","value":4,"total":5,"percentage":80,"type":"percentage","color":"success"}]`)
		case r.Method == http.MethodPut && r.URL.Path == "/vehicles/1":
			gotPutPath = r.URL.Path
			gotContentType = r.Header.Get("Content-Type")
			_ = json.NewDecoder(r.Body).Decode(&gotPut)
			_, _ = io.WriteString(w, `{}`)
		case r.Method == http.MethodPost && r.URL.Path == "/users":
			_ = json.NewDecoder(r.Body).Decode(&gotUser)
			_ = json.NewEncoder(w).Encode(fleet.User{ID: "u-1", CreateUserRequest: gotUser})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	rows, err := c.FetchVehicles(ctx)
	if err != nil {
		t.Fatalf("FetchVehicles returned error: %v", err)
	}
	if len(rows) != 1 || rows[0].Lookup("extra.x").Int() != 1 {
		t.Fatalf("FetchVehicles rows = %v, want one row keeping unknown fields", rows)
	}

	cards, err := c.FetchDashboardCards(ctx)
	if err != nil {
		t.Fatalf("FetchDashboardCards returned error: %v", err)
	}
	if len(cards) != 1 || cards[0].Type != fleet.CardPercentage || *cards[0].Total != 5 {
		t.Fatalf("FetchDashboardCards = %#v", cards)
	}

	updated, err := fleet.WithStatus(rows[0], fleet.StatusInactive)
	if err != nil {
		t.Fatalf("WithStatus: %v", err)
	}
	if err := c.UpdateVehicle(ctx, updated); err != nil {
		t.Fatalf("UpdateVehicle returned error: %v", err)
	}
	if gotPutPath != "/vehicles/1" || gotPut["status"] != fleet.StatusInactive {
		t.Fatalf("PUT %s body %v", gotPutPath, gotPut)
	}
	if gotContentType != "application/json" {
		t.Fatalf("content type = %q", gotContentType)
	}

	user, err := c.CreateUser(ctx, fleet.CreateUserRequest{FirstName: "Ana", LastName: "Lima"})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if user.ID != "u-1" || user.FirstName != "Ana" || gotUser.LastName != "Lima" {
		t.Fatalf("CreateUser = %#v", user)
	}
	if gotUserAgent != defaultUserAgent {
		t.Fatalf("user agent = %q", gotUserAgent)
	}
}

func TestClient_StatusError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	err = c.UpdateVehicle(context.Background(), table.MustRow(map[string]int{"id": 3}))
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusInternalServerError {
		t.Fatalf("expected status error, got %v", err)
	}
	if err.Error() != "api /vehicles/3 returned status 500" {
		t.Fatalf("error = %q", err.Error())
	}
}

func TestClient_UpdateRequiresID(t *testing.T) {
	c, err := NewClient("")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if err := c.UpdateVehicle(context.Background(), table.MustRow(map[string]string{"vehicle": "V1"})); err == nil {
		t.Fatalf("expected error for row without id")
	}
}

func TestClient_DecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"broken":`)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.FetchDashboardCards(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestClient_NilReceiver(t *testing.T) {
	var c *Client
	if _, err := c.FetchVehicles(context.Background()); err == nil {
		t.Fatalf("expected error from nil client")
	}
}
