package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", srv.Client())
}

func reply(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

func TestStart(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
		wantOK  bool
	}{
		{"started", http.StatusOK, `{"message":"Tracking started"}`, StartedMessage, true},
		{"already running", http.StatusBadRequest, `{"message":"Tracking is already running"}`, "Tracking is already running", false},
		{"camera failure", http.StatusInternalServerError, `{"message":"Failed to start tracking: camera"}`, "Failed to start tracking: camera", false},
		{"unexpected message", http.StatusOK, `{"message":"ok"}`, "ok", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotMethod, gotPath string
			c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				gotMethod, gotPath = r.Method, r.URL.Path
				reply(tt.status, tt.body)(w, r)
			})

			msg, ok, err := c.Start(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantMsg, msg)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, http.MethodPost, gotMethod)
			assert.Equal(t, "/start", gotPath)
		})
	}
}

func TestStop(t *testing.T) {
	var gotPath string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		reply(http.StatusOK, `{"message":"Tracking stopped"}`)(w, r)
	})

	msg, ok, err := c.Stop(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, StoppedMessage, msg)
	assert.Equal(t, "/stop", gotPath)
}

func TestStopNotRunning(t *testing.T) {
	c := newTestServer(t, reply(http.StatusBadRequest, `{"message":"Tracking is not running"}`))

	msg, ok, err := c.Stop(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "Tracking is not running", msg)
}

func TestStatus(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		body := `{"tracking_enabled":false}`
		if enabled {
			body = `{"tracking_enabled":true}`
		}
		c := newTestServer(t, reply(http.StatusOK, body))

		got, err := c.Status(context.Background())
		require.NoError(t, err)
		assert.Equal(t, enabled, got)
	}
}

func TestUnavailable(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"not json", reply(http.StatusOK, `<html>`)},
		{"missing field", reply(http.StatusOK, `{}`)},
		{"server error", reply(http.StatusInternalServerError, `{"tracking_enabled":true}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestServer(t, tt.handler)
			_, err := c.Status(context.Background())
			assert.True(t, errors.Is(err, ErrUnavailable), "got %v", err)
		})
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, nil)

	_, _, err := c.Start(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
	_, _, err = c.Stop(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = c.Status(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestBaseURLTrimmed(t *testing.T) {
	c := New("http://127.0.0.1:5000/", nil)
	assert.Equal(t, "http://127.0.0.1:5000", c.BaseURL())
}
