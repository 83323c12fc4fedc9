// Package client is the bot's HTTP client for the report store service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"firedev/api"
)

type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the report store service at baseURL.
// Timeouts are the caller's business, via context.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// CreateReport submits a one-shot report; the store picks the key.
func (c *Client) CreateReport(ctx context.Context, r *api.Report) error {
	return c.send(ctx, http.MethodPost, api.ReportEndpoint, r, http.StatusCreated)
}

// UpsertReport writes the report under the given stable id, used for
// live location tracking.
func (c *Client) UpsertReport(ctx context.Context, id string, r *api.Report) error {
	return c.send(ctx, http.MethodPut, api.ReportEndpoint+"/"+id, r, http.StatusOK)
}

func (c *Client) send(ctx context.Context, method, path string, r *api.Report, wantStatus int) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("backend returned %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}
	return nil
}
