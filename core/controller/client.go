package controller

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Object is a remote object's property mapping as returned by the controller.
type Object map[string]any

// ID returns the object's opaque identifier ("id", falling back to "uuid").
func (o Object) ID() string {
	for _, k := range []string{"id", "uuid"} {
		if v, ok := o[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// Name returns the object's display name, or an empty string.
func (o Object) Name() string {
	if s, ok := o["name"].(string); ok {
		return s
	}
	return ""
}

// maxPages bounds paged listing so a misbehaving controller cannot loop forever.
const maxPages = 1000

// Client defines the interface for controller object operations.
type Client interface {
	// List returns one page of objects of the given kind, filtered by
	// equality predicates the controller evaluates server-side.
	List(ctx context.Context, kind Kind, filters map[string]string, pageIndex, pageSize int) ([]Object, error)
	// ListAll returns all objects of the given kind, following pagination.
	ListAll(ctx context.Context, kind Kind, filters map[string]string) ([]Object, error)
	// Create creates a new object and returns it, including the assigned ID
	// when the controller reports it.
	Create(ctx context.Context, kind Kind, obj Object) (Object, error)
	// Update applies a partial property body to the object with the given ID.
	Update(ctx context.Context, kind Kind, id string, fields Object) (Object, error)
	// Delete removes the object with the given ID.
	Delete(ctx context.Context, kind Kind, id string) error
}

// NewClient creates a controller client from the configuration.
// The token must already be obtained (see ObtainToken); the client attaches it
// to every call but never manages its lifecycle.
func NewClient(cfg Config) (Client, error) {
	base := strings.TrimRight(cfg.BaseURI, "/")
	if base == "" {
		return nil, fmt.Errorf("controller base_uri is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid controller base_uri %q: %w", cfg.BaseURI, err)
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}

	return &httpClient{
		base:     base,
		token:    cfg.Token,
		pageSize: pageSize,
		http: &http.Client{
			Timeout:   requestTimeout(cfg),
			Transport: newTransport(cfg),
		},
	}, nil
}

// newTransport builds an HTTP transport with strict timeouts so a stalled
// controller cannot hang a reconcile run.
func newTransport(cfg Config) *http.Transport {
	timeout := requestTimeout(cfg)
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeout,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: !cfg.ValidateCerts,
		},
	}
}

func requestTimeout(cfg Config) time.Duration {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	return time.Duration(timeout) * time.Second
}

type httpClient struct {
	base     string
	token    string
	pageSize int
	http     *http.Client
}

func (c *httpClient) List(ctx context.Context, kind Kind, filters map[string]string, pageIndex, pageSize int) ([]Object, error) {
	params := url.Values{}
	params.Set("pageIndex", strconv.Itoa(pageIndex))
	params.Set("pageSize", strconv.Itoa(pageSize))
	for k, v := range filters {
		params.Set(k, v)
	}

	resp, err := c.do(ctx, http.MethodGet, kind.CollectionPath(), params, nil)
	if err != nil {
		return nil, err
	}
	return extractItems(resp), nil
}

func (c *httpClient) ListAll(ctx context.Context, kind Kind, filters map[string]string) ([]Object, error) {
	var all []Object
	for page := 0; page < maxPages; page++ {
		items, err := c.List(ctx, kind, filters, page, c.pageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if len(items) < c.pageSize {
			break
		}
	}
	return all, nil
}

func (c *httpClient) Create(ctx context.Context, kind Kind, obj Object) (Object, error) {
	payload := map[string]any{kind.envelopeKey(): []Object{obj}}
	resp, err := c.do(ctx, http.MethodPost, kind.CollectionPath(), nil, payload)
	if err != nil {
		return nil, err
	}

	// The controller echoes created objects (with assigned IDs) in the
	// response list when it cooperates; fall back to the request body.
	if items := extractItems(resp); len(items) > 0 {
		return items[0], nil
	}
	return obj, nil
}

func (c *httpClient) Update(ctx context.Context, kind Kind, id string, fields Object) (Object, error) {
	path := kind.CollectionPath() + "/" + url.PathEscape(id)
	resp, err := c.do(ctx, http.MethodPut, path, nil, fields)
	if err != nil {
		return nil, err
	}

	if items := extractItems(resp); len(items) > 0 {
		return items[0], nil
	}
	updated := Object{"id": id}
	for k, v := range fields {
		updated[k] = v
	}
	return updated, nil
}

func (c *httpClient) Delete(ctx context.Context, kind Kind, id string) error {
	payload := map[string]any{"ids": []string{id}}
	_, err := c.do(ctx, http.MethodDelete, kind.CollectionPath(), nil, payload)
	return err
}

// do issues one request and decodes the JSON response.
// Non-2xx responses are returned as *APIError.
func (c *httpClient) do(ctx context.Context, method, path string, params url.Values, body any) (map[string]any, error) {
	reqURL := c.base + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("X-ACCESS-TOKEN", c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, reqURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: failed to read response: %w", method, reqURL, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp.StatusCode, method, reqURL, data)
	}

	if len(data) == 0 {
		return nil, nil
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		// Some endpoints answer with non-object bodies on success.
		return nil, nil
	}
	return decoded, nil
}

// extractKeys are the envelope keys under which the controller nests
// result lists, in probe order.
var extractKeys = []string{"data", "list", "sites", "devices", "items"}

// extractItems normalizes the controller's varying response shapes into a
// flat object list. Lists may appear directly under an envelope key, or one
// level deeper (e.g. data.list, data.devices).
func extractItems(resp map[string]any) []Object {
	if resp == nil {
		return nil
	}
	for _, key := range extractKeys {
		switch v := resp[key].(type) {
		case []any:
			return toObjects(v)
		case map[string]any:
			if nested := extractItems(v); nested != nil {
				return nested
			}
		}
	}
	return nil
}

func toObjects(list []any) []Object {
	objects := make([]Object, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			objects = append(objects, Object(m))
		}
	}
	return objects
}
