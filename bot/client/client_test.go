package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firedev/api"
)

func testReport() *api.Report {
	return &api.Report{
		Category:  "fire",
		Lat:       1.0,
		Lon:       2.0,
		User:      "bob",
		Timestamp: "2025-08-09T10:00:00Z",
		Action:    "active",
	}
}

func TestCreateReport(t *testing.T) {
	var gotPath, gotMethod string
	var gotReport api.Report
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReport))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := New(srv.URL + "/") // trailing slash must not double up
	require.NoError(t, c.CreateReport(context.Background(), testReport()))

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/report", gotPath)
	assert.Equal(t, "fire", gotReport.Category)
	assert.Equal(t, 1.0, gotReport.Lat)
}

func TestUpsertReport(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
	}))
	defer srv.Close()

	c := New(srv.URL)
	require.NoError(t, c.UpsertReport(context.Background(), "live-abc", testReport()))

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/report/live-abc", gotPath)
}

func TestUnexpectedStatusIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"missing fields: lat"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.CreateReport(context.Background(), testReport())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "missing fields: lat")
}

func TestUnreachableBackend(t *testing.T) {
	c := New("http://127.0.0.1:1")
	err := c.CreateReport(context.Background(), testReport())
	require.Error(t, err)
}
