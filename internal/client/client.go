// Package client is the Go client for the Locus REST API. It implements
// port.RecognitionAPI so the delivery workflow can run against a remote
// server exactly as it runs in-process.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KoTeHok22/Locus-sub001/internal/domain"
	"github.com/KoTeHok22/Locus-sub001/internal/port"
)

// Client talks to the Locus backend over HTTP with bearer authentication.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a Client for the given base URL and access token.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// NewWithHTTPClient creates a Client with a custom http.Client (for testing).
func NewWithHTTPClient(baseURL, token string, hc *http.Client) *Client {
	c := New(baseURL, token)
	c.http = hc
	return c
}

// envelope is the standard API response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *apiError       `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// RecognizeDocument uploads a scan and starts its recognition job.
func (c *Client) RecognizeDocument(ctx context.Context, input port.SubmitScanInput) (uuid.UUID, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("project_id", input.ProjectID.String()); err != nil {
		return uuid.Nil, fmt.Errorf("writing project_id field: %w", err)
	}
	part, err := mw.CreateFormFile("file", input.FileName)
	if err != nil {
		return uuid.Nil, fmt.Errorf("creating file part: %w", err)
	}
	if _, err := io.Copy(part, input.Body); err != nil {
		return uuid.Nil, fmt.Errorf("copying scan bytes: %w", err)
	}
	if err := mw.Close(); err != nil {
		return uuid.Nil, fmt.Errorf("finalizing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/documents/recognize", &body)
	if err != nil {
		return uuid.Nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out struct {
		DocumentID uuid.UUID `json:"document_id"`
	}
	if err := c.do(req, &out); err != nil {
		return uuid.Nil, err
	}
	return out.DocumentID, nil
}

// GetRecognitionStatus queries the state of one recognition job.
func (c *Client) GetRecognitionStatus(ctx context.Context, documentID uuid.UUID) (*domain.RecognitionResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/api/v1/documents/%s/status", c.baseURL, documentID), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	var out domain.RecognitionResult
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateDelivery registers a confirmed delivery for a project.
func (c *Client) CreateDelivery(ctx context.Context, input port.CreateDeliveryInput) (*domain.MaterialDelivery, error) {
	payload := map[string]interface{}{
		"document_id": input.DocumentID,
		"items":       input.Items,
	}
	if input.DeliveryDate != nil {
		payload["delivery_date"] = input.DeliveryDate.Format("2006-01-02")
	}
	if input.Latitude != nil && input.Longitude != nil {
		payload["latitude"] = *input.Latitude
		payload["longitude"] = *input.Longitude
	}

	req, err := c.jsonRequest(ctx, http.MethodPost,
		fmt.Sprintf("%s/api/v1/projects/%s/deliveries", c.baseURL, input.ProjectID), payload)
	if err != nil {
		return nil, err
	}

	var out domain.MaterialDelivery
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateDocument replaces the recognized data of a document after the fact.
func (c *Client) UpdateDocument(ctx context.Context, documentID uuid.UUID, data domain.RecognizedData) error {
	payload := map[string]interface{}{"recognized_data": data}
	req, err := c.jsonRequest(ctx, http.MethodPut,
		fmt.Sprintf("%s/api/v1/documents/%s", c.baseURL, documentID), payload)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// ListProjects returns projects available as delivery targets.
func (c *Client) ListProjects(ctx context.Context) ([]domain.Project, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/projects", nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	var out []domain.Project
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) jsonRequest(ctx context.Context, method, url string, payload interface{}) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// do executes the request, unwraps the response envelope, and decodes data
// into out when out is non-nil.
func (c *Client) do(req *http.Request, out interface{}) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return fmt.Errorf("unexpected response (status %d): %s", resp.StatusCode, truncate(respBody, 200))
	}
	if !env.Success {
		if env.Error != nil {
			return env.Error
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decoding response data: %w", err)
	}
	return nil
}

func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
