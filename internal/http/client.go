package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Client talks to a node's public API. Keys are given in display form.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  http.DefaultClient,
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body io.Reader) (*http.Response, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", method, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

// decode reads the envelope; found is false on 404.
func decode(method string, resp *http.Response) (Response, bool, error) {
	defer resp.Body.Close()

	var r Response
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return r, false, fmt.Errorf("read %s body: %w", method, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return r, false, nil
	}
	if err := json.Unmarshal(b, &r); err != nil {
		return r, false, fmt.Errorf("%s failed: %d: %s", method, resp.StatusCode, string(b))
	}
	if resp.StatusCode != http.StatusOK {
		return r, false, fmt.Errorf("%s failed: %d: %s", method, resp.StatusCode, r.Error)
	}
	return r, true, nil
}

func (c *Client) Health(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/health", nil, nil)
	if err != nil {
		return err
	}
	_, _, err = decode("HEALTH", resp)
	return err
}

// Get returns the JSON form of the value under key.
func (c *Client) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/kv", url.Values{"key": {key}}, nil)
	if err != nil {
		return nil, false, err
	}
	r, found, err := decode("GET", resp)
	return r.Value, found, err
}

// Put stores the value given as JSON.
func (c *Client) Put(ctx context.Context, key string, value json.RawMessage) error {
	resp, err := c.do(ctx, http.MethodPut, "/api/kv", url.Values{"key": {key}}, bytes.NewReader(value))
	if err != nil {
		return err
	}
	_, found, err := decode("PUT", resp)
	if err == nil && !found {
		return fmt.Errorf("PUT failed: not found")
	}
	return err
}

// Delete removes key and returns the JSON form of the old value.
func (c *Client) Delete(ctx context.Context, key string) (json.RawMessage, bool, error) {
	resp, err := c.do(ctx, http.MethodDelete, "/api/kv", url.Values{"key": {key}}, nil)
	if err != nil {
		return nil, false, err
	}
	r, found, err := decode("DELETE", resp)
	return r.Value, found, err
}

// List runs a range query; empty selectors are omitted.
func (c *Client) List(ctx context.Context, prefix, start, end string) ([]Item, error) {
	q := url.Values{}
	for name, v := range map[string]string{"prefix": prefix, "start": start, "end": end} {
		if v != "" {
			q.Set(name, v)
		}
	}
	resp, err := c.do(ctx, http.MethodGet, "/api/list", q, nil)
	if err != nil {
		return nil, err
	}
	r, _, err := decode("LIST", resp)
	if err != nil {
		return nil, err
	}
	var items []Item
	if err := json.Unmarshal(r.Value, &items); err != nil {
		return nil, fmt.Errorf("decode LIST body: %w", err)
	}
	return items, nil
}

// Dump streams the node's dump into w.
func (c *Client) Dump(ctx context.Context, compress string, w io.Writer) (int64, error) {
	q := url.Values{}
	if compress != "" {
		q.Set("compress", compress)
	}
	resp, err := c.do(ctx, http.MethodGet, "/api/dump", q, nil)
	if err != nil {
		return 0, err
	}
	if resp.StatusCode != http.StatusOK {
		_, _, err := decode("DUMP", resp)
		return 0, err
	}
	defer resp.Body.Close()
	return io.Copy(w, resp.Body)
}

// Restore uploads a dump. With replace the node is cleared first.
func (c *Client) Restore(ctx context.Context, dump []byte, replace bool) (int, error) {
	q := url.Values{"replace": {strconv.FormatBool(replace)}}
	resp, err := c.do(ctx, http.MethodPost, "/api/restore", q, bytes.NewReader(dump))
	if err != nil {
		return 0, err
	}
	r, _, err := decode("RESTORE", resp)
	if err != nil {
		return 0, err
	}
	var out struct {
		Restored int `json:"restored"`
	}
	if err := json.Unmarshal(r.Value, &out); err != nil {
		return 0, fmt.Errorf("decode RESTORE body: %w", err)
	}
	return out.Restored, nil
}
