package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signgate/signgate/lib"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	c, err := New(&Config{
		BaseURL:        ts.URL + "/2.0/",
		DeveloperToken: "token",
	}, WithHTTPClient(ts.Client()))
	require.NoError(t, err)
	return c
}

func testRequest() *lib.CreateSignRequest {
	return &lib.CreateSignRequest{
		SourceFiles:  []lib.FileRef{lib.File("100")},
		Signers:      []lib.SignRequestSigner{{Email: "signer@example.com"}},
		ParentFolder: lib.Folder("200"),
		Options: lib.NewSignRequestOptions().
			SetName("Contract A").
			SetDaysValid(14).
			SetAreRemindersEnabled(false),
	}
}

func TestCreateSignRequest(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/2.0/sign_requests", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "signgate/"+lib.Version, r.Header.Get("User-Agent"))
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{
			"source_files": [{"type": "file", "id": "100"}],
			"signers": [{"email": "signer@example.com"}],
			"parent_folder": {"type": "folder", "id": "200"},
			"name": "Contract A",
			"days_valid": 14,
			"are_reminders_enabled": false
		}`, string(body))
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"type": "sign-request", "id": "sr-1", "status": "converting", "name": "Contract A", "days_valid": 14}`)
	})
	sr, err := c.CreateSignRequest(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "sr-1", sr.ID)
	assert.Equal(t, lib.StatusConverting, sr.Status)
	if assert.NotNil(t, sr.DaysValid) {
		assert.Equal(t, 14, *sr.DaysValid)
	}
}

func TestCreateSignRequestInvalid(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request")
	})
	_, err := c.CreateSignRequest(context.Background(), &lib.CreateSignRequest{})
	assert.Error(t, err)
}

func TestAPIError(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"type": "error", "status": 404, "code": "not_found", "message": "Not Found", "request_id": "abc"}`)
	})
	_, err := c.GetSignRequest(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "not_found", apiErr.Code)
	assert.Equal(t, "abc", apiErr.RequestID)
	assert.Equal(t, "api error 404 (not_found): Not Found", apiErr.Error())
}

func TestAPIErrorWithoutBody(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Box-Request-Id", "req-9")
		w.WriteHeader(http.StatusBadGateway)
	})
	err := c.ResendSignRequest(context.Background(), "sr-1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Message)
	assert.Equal(t, "req-9", apiErr.RequestID)
	assert.False(t, IsNotFound(err))
}

func TestResendUnexpectedStatus(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	err := c.ResendSignRequest(context.Background(), "sr-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 200")
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestGetCancelResend(t *testing.T) {
	t.Parallel()
	var (
		mu    sync.Mutex
		paths []string
	)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.Method+" "+r.URL.Path)
		mu.Unlock()
		switch r.URL.Path {
		case "/2.0/sign_requests/sr-1/resend":
			w.WriteHeader(http.StatusAccepted)
		case "/2.0/sign_requests/sr-1/cancel":
			json.NewEncoder(w).Encode(&lib.SignRequest{ID: "sr-1", Status: lib.StatusCancelled})
		default:
			json.NewEncoder(w).Encode(&lib.SignRequest{ID: "sr-1", Status: lib.StatusSent})
		}
	})
	ctx := context.Background()
	sr, err := c.GetSignRequest(ctx, "sr-1")
	require.NoError(t, err)
	assert.Equal(t, lib.StatusSent, sr.Status)

	require.NoError(t, c.ResendSignRequest(ctx, "sr-1"))

	sr, err = c.CancelSignRequest(ctx, "sr-1")
	require.NoError(t, err)
	assert.Equal(t, lib.StatusCancelled, sr.Status)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{
		"GET /2.0/sign_requests/sr-1",
		"POST /2.0/sign_requests/sr-1/resend",
		"POST /2.0/sign_requests/sr-1/cancel",
	}, paths)
}

func TestListSignRequests(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "m1", r.URL.Query().Get("marker"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		fmt.Fprint(w, `{"limit": 5, "next_marker": "m2", "entries": [{"id": "a"}, {"id": "b"}]}`)
	})
	list, err := c.ListSignRequests(context.Background(), "m1", 5)
	require.NoError(t, err)
	assert.Equal(t, "m2", list.NextMarker)
	if assert.Len(t, list.Entries, 2) {
		assert.Equal(t, "b", list.Entries[1].ID)
	}
}

func TestNewUnknownAuth(t *testing.T) {
	t.Parallel()
	_, err := New(&Config{AuthType: "kerberos"})
	assert.Error(t, err)
	_, err = New(&Config{AuthType: AuthDeveloperToken})
	assert.Error(t, err)
}
