package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"studiodesk/pkg/middleware"
	"studiodesk/pkg/model"
)

// Client wraps http.Client with test-friendly methods
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new test HTTP client
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// As returns a view of the client that sends the actor headers on every call.
func (c *Client) As(actor model.Actor) *ActorClient {
	return &ActorClient{client: c, actor: actor}
}

// Response wraps HTTP response with helper methods
type Response struct {
	*http.Response
	Body []byte
}

// DecodeJSON decodes response body into target
func (r *Response) DecodeJSON(target any) error {
	return json.Unmarshal(r.Body, target)
}

// Data decodes the "data" envelope of a success response.
func (r *Response) Data(t *testing.T, target any) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := r.DecodeJSON(&env); err != nil {
		t.Fatalf("failed to unmarshal response: %v. Body: %s", err, string(r.Body))
	}
	if err := json.Unmarshal(env.Data, target); err != nil {
		t.Fatalf("failed to unmarshal data: %v. Body: %s", err, string(r.Body))
	}
}

type ActorClient struct {
	client *Client
	actor  model.Actor
}

func (a *ActorClient) headers(extra map[string]string) map[string]string {
	h := map[string]string{
		middleware.ActorIDHeader:   a.actor.ID,
		middleware.ActorRoleHeader: string(a.actor.Role),
	}
	for k, v := range extra {
		h[k] = v
	}
	return h
}

func (a *ActorClient) GET(t *testing.T, path string) *Response {
	t.Helper()
	return a.client.request(t, http.MethodGet, path, nil, a.headers(nil))
}

func (a *ActorClient) POST(t *testing.T, path string, body any) *Response {
	t.Helper()
	return a.client.request(t, http.MethodPost, path, body, a.headers(nil))
}

func (a *ActorClient) PATCH(t *testing.T, path string, body any) *Response {
	t.Helper()
	return a.client.request(t, http.MethodPatch, path, body, a.headers(nil))
}

func (a *ActorClient) DELETE(t *testing.T, path string, headers map[string]string) *Response {
	t.Helper()
	return a.client.request(t, http.MethodDelete, path, nil, a.headers(headers))
}

func (c *Client) request(t *testing.T, method, path string, body any, headers map[string]string) *Response {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, c.BaseURL+path, reqBody)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}

	return &Response{
		Response: resp,
		Body:     respBody,
	}
}

// WaitForReady polls the readiness endpoint until the service and its
// database answer.
func (c *Client) WaitForReady(t *testing.T, maxWait time.Duration) {
	t.Helper()

	deadline := time.Now().Add(maxWait)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for time.Now().Before(deadline) {
		resp, err := c.HTTPClient.Get(c.BaseURL + "/ready")
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			t.Log("Service is ready")
			return
		}
		if resp != nil {
			resp.Body.Close()
		}
		<-ticker.C
	}

	t.Fatalf("service did not become ready within %v", maxWait)
}

// AssertStatusCode fails the test if status code doesn't match
func AssertStatusCode(t *testing.T, resp *Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Fatalf("expected status %d, got %d. Body: %s", expected, resp.StatusCode, string(resp.Body))
	}
}

// AssertErrorCode fails unless the error envelope carries code.
func AssertErrorCode(t *testing.T, resp *Response, code string) {
	t.Helper()
	var errResp struct {
		Code string `json:"code"`
	}
	if err := resp.DecodeJSON(&errResp); err != nil || errResp.Code != code {
		t.Fatalf("expected error code %q. Body: %s", code, string(resp.Body))
	}
}

// AssertContains fails if response body doesn't contain substring
func AssertContains(t *testing.T, resp *Response, substr string) {
	t.Helper()
	if !strings.Contains(string(resp.Body), substr) {
		t.Fatalf("response body does not contain %q. Body: %s", substr, string(resp.Body))
	}
}
