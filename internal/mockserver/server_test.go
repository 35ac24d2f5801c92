package mockserver

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/five82/fleetdash/internal/logging"
)

func newTestServer(t *testing.T, logs io.Writer) *httptest.Server {
	t.Helper()
	store := openTestStore(t)
	require.NoError(t, store.Seed(context.Background(), nil))

	logger, err := logging.NewWriter(logs, logging.Config{Format: logging.FormatJSON})
	require.NoError(t, err)
	srv := New(store, logger)
	srv.now = func() time.Time { return time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC) }

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestServerCollections(t *testing.T) {
	ts := newTestServer(t, io.Discard)

	resp, body := do(t, http.MethodGet, ts.URL+"/vehicles", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.Equal(t, int64(5), gjson.GetBytes(body, "#").Int())

	resp, body = do(t, http.MethodGet, ts.URL+"/vehicles/3", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Truck-103", gjson.GetBytes(body, "vehicle").String())

	resp, body = do(t, http.MethodPut, ts.URL+"/vehicles/3", `{"id":3,"vehicle":"Truck-103","status":"Inactive"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Inactive", gjson.GetBytes(body, "status").String())

	resp, body = do(t, http.MethodPatch, ts.URL+"/vehicles/3", `{"fleet":"East"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "East", gjson.GetBytes(body, "fleet").String())
	require.Equal(t, "Inactive", gjson.GetBytes(body, "status").String())

	resp, body = do(t, http.MethodPost, ts.URL+"/users", `{"firstName":"Ana","lastName":"Lima"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, gjson.GetBytes(body, "id").String())

	resp, _ = do(t, http.MethodDelete, ts.URL+"/vehicles/3", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, ts.URL+"/vehicles/3", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, http.MethodPut, ts.URL+"/vehicles/1", `not json`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = do(t, http.MethodGet, ts.URL+"/unknown", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `[]`, string(body))
}

func TestServerCORSAndPreflight(t *testing.T) {
	ts := newTestServer(t, io.Discard)

	resp, body := do(t, http.MethodOptions, ts.URL+"/vehicles/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, body)
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	require.Equal(t, allowMethods, resp.Header.Get("Access-Control-Allow-Methods"))
	require.Equal(t, allowHeaders, resp.Header.Get("Access-Control-Allow-Headers"))

	resp, _ = do(t, http.MethodGet, ts.URL+"/dashboardCards", "")
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestServerLogsRequests(t *testing.T) {
	var logs bytes.Buffer
	ts := newTestServer(t, &logs)

	do(t, http.MethodGet, ts.URL+"/vehicles?fleet=North", "")
	require.Contains(t, logs.String(), "2024-03-05T10:30:00.000Z - GET /vehicles?fleet=North")
}
