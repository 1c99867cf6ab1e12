// Package remote forwards backend calls to another node over HTTP.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tuplekv/pkg/backend"
	"tuplekv/pkg/dberrors"
	"tuplekv/pkg/keys"
)

const (
	RangePath = "/api/internal/backend/range"
	WritePath = "/api/internal/backend/write"
	ClearPath = "/api/internal/backend/clear"

	defaultTimeout = 5 * time.Second
)

type RangeRequest struct {
	Start keys.Key `json:"start"`
	End   keys.Key `json:"end"`
}

type WriteRequest struct {
	Key   keys.Key `json:"key"`
	Value []byte   `json:"value"`
}

// Reply is the body every internal backend endpoint answers with.
type Reply struct {
	Status  string          `json:"status,omitempty"`
	Entries []backend.Entry `json:"entries,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type Client struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

var _ backend.Backend = (*Client)(nil)

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
		timeout: defaultTimeout,
	}
}

// WithHTTPClient replaces the underlying client (tests, custom transports).
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.client = hc
	return c
}

func (c *Client) RangeScan(start, end keys.Key) ([]backend.Entry, error) {
	reply, err := c.post(RangePath, RangeRequest{Start: start, End: end})
	if err != nil {
		return nil, dberrors.Backend("remote scan", err)
	}
	return reply.Entries, nil
}

func (c *Client) Write(key keys.Key, value []byte) error {
	if _, err := c.post(WritePath, WriteRequest{Key: key, Value: value}); err != nil {
		return dberrors.Backend("remote write", err)
	}
	return nil
}

func (c *Client) Clear() error {
	if _, err := c.post(ClearPath, struct{}{}); err != nil {
		return dberrors.Backend("remote clear", err)
	}
	return nil
}

func (c *Client) Close() error { return nil }

func (c *Client) post(path string, body any) (Reply, error) {
	var reply Reply
	data, err := json.Marshal(body)
	if err != nil {
		return reply, fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return reply, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return reply, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(b, &reply) == nil && reply.Error != "" {
			return reply, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, reply.Error)
		}
		return reply, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(b))
	}
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return reply, fmt.Errorf("decode response: %w", err)
	}
	return reply, nil
}
