// Package n8n is the HTTP client for the external review workflow engine.
// The engine reviews a submission asynchronously and reports its verdict
// through the webhook endpoint; this client only covers the outbound
// dispatch leg.
package n8n

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Dispatcher sends submission content to the external reviewer.
type Dispatcher interface {
	Dispatch(ctx context.Context, req *DispatchRequest) (*DispatchAck, error)
}

// Client represents an n8n workflow API client
type Client struct {
	WorkflowURL string
	APIKey      string
	Mock        bool
	client      *http.Client
}

// Compile-time check to ensure Client implements Dispatcher
var _ Dispatcher = (*Client)(nil)

// DispatchRequest is the payload sent to the review workflow.
type DispatchRequest struct {
	SubmissionID    string `json:"submissionId"`
	ArtifactURL     string `json:"artifactUrl"`
	Question        string `json:"question"`
	Answer          string `json:"answer"`
	EnglishQuestion string `json:"englishQuestion,omitempty"`
	EnglishAnswer   string `json:"englishAnswer,omitempty"`
	UserID          string `json:"userId"`
	Expertise       string `json:"expertise,omitempty"`
}

// DispatchAck is the optional acknowledgement returned by the workflow
// engine; both ids are correlation handles for the eventual verdict.
type DispatchAck struct {
	WorkflowID string `json:"workflowId"`
	RunID      string `json:"runId"`
}

// NewClient creates a new n8n workflow client. The timeout bounds the whole
// dispatch call; a slow engine is treated as unreachable, never waited on.
func NewClient(workflowURL, apiKey string, timeout time.Duration, mock bool) *Client {
	return &Client{
		WorkflowURL: workflowURL,
		APIKey:      apiKey,
		Mock:        mock,
		client:      &http.Client{Timeout: timeout},
	}
}

// Dispatch sends the submission content to the review workflow and returns
// the engine's acknowledgement, if any.
func (c *Client) Dispatch(ctx context.Context, req *DispatchRequest) (*DispatchAck, error) {
	if c.Mock {
		return c.mockDispatch(req)
	}
	if c.WorkflowURL == "" {
		return nil, fmt.Errorf("n8n workflow URL is not configured")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode dispatch payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.WorkflowURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.APIKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("dispatch to review workflow failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("review workflow returned status %d: %s", resp.StatusCode, string(raw))
	}

	// The ack body is optional; an empty or unparseable body is not an error.
	var ack DispatchAck
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return &DispatchAck{}, nil
	}
	return &ack, nil
}

// mockDispatch fakes an engine acknowledgement for local development
func (c *Client) mockDispatch(req *DispatchRequest) (*DispatchAck, error) {
	return &DispatchAck{
		WorkflowID: "mock-workflow",
		RunID:      fmt.Sprintf("mock-run-%s", uuid.NewString()[:8]),
	}, nil
}
