package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// ErrConflict is returned when the remote service rejects a create because
// the resource already exists.
var ErrConflict = errors.New("resource already exists")

// errNotFound signals a 404 from a remote service. It stays internal: the
// exported lookups translate it into a nil result.
var errNotFound = errors.New("resource not found")

// restClient is the shared HTTP plumbing for all three service clients:
// JSON bodies, service-to-service basic auth, status code mapping.
type restClient struct {
	baseURL    string
	httpClient *http.Client
	username   string
	password   string
}

// newRESTClient validates the base URL and strips any trailing slash;
// request URLs are built by concatenation.
func newRESTClient(baseURL string, httpClient *http.Client, username, password string) (*restClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("clients: base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("clients: invalid base URL %q: %w", baseURL, err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &restClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		username:   username,
		password:   password,
	}, nil
}

// do performs a JSON request against the remote service. A non-nil body is
// encoded as JSON; a non-nil out receives the decoded response body.
// 404 maps to errNotFound, 409 to ErrConflict, any other non-2xx status to
// a generic error carrying the method and path.
func (c *restClient) do(ctx context.Context, method, path string, headers map[string]string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errNotFound
	case resp.StatusCode == http.StatusConflict:
		return ErrConflict
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", method, path, err)
		}
	}
	return nil
}
