package driver

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ElasticsearchDriver is a thin HTTP client for the search backend. It
// performs one synchronous round trip per call and never retries; any
// retry or backoff policy belongs to the caller's infrastructure.
type ElasticsearchDriver struct {
	baseURL string
	http    *http.Client
}

// NewElasticsearchDriver creates a driver for the given base URL.
// skipTLSVerify disables certificate verification (dev only); a non-empty
// username enables HTTP basic auth.
func NewElasticsearchDriver(baseURL string, timeout time.Duration, skipTLSVerify bool, username, password string) *ElasticsearchDriver {
	var transport http.RoundTripper = http.DefaultTransport
	if skipTLSVerify {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		transport = t
	}
	if username != "" {
		transport = &basicAuthTransport{base: transport, username: username, password: password}
	}
	return &ElasticsearchDriver{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Transport: transport, Timeout: timeout},
	}
}

type basicAuthTransport struct {
	base     http.RoundTripper
	username string
	password string
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	auth := t.username + ":" + t.password
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(auth)))
	return t.base.RoundTrip(req)
}

// Search executes the query document against the given index.
func (d *ElasticsearchDriver) Search(ctx context.Context, index string, body []byte) (*SearchResponse, error) {
	url := fmt.Sprintf("%s/%s/_search", d.baseURL, index)
	respBody, err := d.do(ctx, http.MethodPost, url, "application/json", body)
	if err != nil {
		return nil, &DriverError{Op: "Search", Err: err.Error()}
	}
	var resp SearchResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, &DriverError{Op: "Search", Err: "decode response: " + err.Error()}
	}
	return &resp, nil
}

// Bulk sends a newline-delimited batch to the bulk endpoint. A response
// with the errors flag set is reported as an error carrying the first
// failed item.
func (d *ElasticsearchDriver) Bulk(ctx context.Context, payload []byte) error {
	url := d.baseURL + "/_bulk"
	respBody, err := d.do(ctx, http.MethodPost, url, "application/x-ndjson", payload)
	if err != nil {
		return &DriverError{Op: "Bulk", Err: err.Error()}
	}
	var resp BulkResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return &DriverError{Op: "Bulk", Err: "decode response: " + err.Error()}
	}
	if resp.Errors {
		return &DriverError{Op: "Bulk", Err: firstBulkFailure(resp)}
	}
	return nil
}

func firstBulkFailure(resp BulkResponse) string {
	for _, item := range resp.Items {
		for action, info := range item {
			if len(info.Error) > 0 {
				return fmt.Sprintf("%s %s: %s", action, info.ID, string(info.Error))
			}
		}
	}
	return "bulk request reported item failures"
}

// IndexExists checks whether the index exists.
func (d *ElasticsearchDriver) IndexExists(ctx context.Context, index string) (bool, error) {
	url := fmt.Sprintf("%s/%s", d.baseURL, index)
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false, &DriverError{Op: "IndexExists", Err: err.Error()}
	}
	resp, err := d.http.Do(req)
	if err != nil {
		return false, &DriverError{Op: "IndexExists", Err: err.Error()}
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusOK:
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	default:
		return false, &DriverError{Op: "IndexExists", Err: resp.Status}
	}
}

// CreateIndex creates the index with an empty body, leaving settings to the
// backend defaults.
func (d *ElasticsearchDriver) CreateIndex(ctx context.Context, index string) error {
	url := fmt.Sprintf("%s/%s", d.baseURL, index)
	if _, err := d.do(ctx, http.MethodPut, url, "application/json", nil); err != nil {
		return &DriverError{Op: "CreateIndex", Err: err.Error()}
	}
	return nil
}

// DeleteIndex removes the index.
func (d *ElasticsearchDriver) DeleteIndex(ctx context.Context, index string) error {
	url := fmt.Sprintf("%s/%s", d.baseURL, index)
	if _, err := d.do(ctx, http.MethodDelete, url, "application/json", nil); err != nil {
		return &DriverError{Op: "DeleteIndex", Err: err.Error()}
	}
	return nil
}

// PutMapping replaces the field-type schema for the index and document type.
func (d *ElasticsearchDriver) PutMapping(ctx context.Context, index, docType string, mapping map[string]any) error {
	url := fmt.Sprintf("%s/%s/_mapping/%s", d.baseURL, index, docType)
	body, err := json.Marshal(map[string]any{
		docType: map[string]any{"properties": mapping},
	})
	if err != nil {
		return &DriverError{Op: "PutMapping", Err: "marshal mapping: " + err.Error()}
	}
	if _, err := d.do(ctx, http.MethodPut, url, "application/json", body); err != nil {
		return &DriverError{Op: "PutMapping", Err: err.Error()}
	}
	return nil
}

// Ping checks backend reachability.
func (d *ElasticsearchDriver) Ping(ctx context.Context) error {
	if _, err := d.do(ctx, http.MethodGet, d.baseURL+"/", "application/json", nil); err != nil {
		return &DriverError{Op: "Ping", Err: err.Error()}
	}
	return nil
}

func (d *ElasticsearchDriver) do(ctx context.Context, method, url, contentType string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := d.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("backend error: %s - %s", resp.Status, string(respBody))
	}
	return respBody, nil
}
