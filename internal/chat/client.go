// Package chat holds the assistant panel's session state and its HTTP
// client for the LLM backend.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the chat backend over its HTTP contract.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient builds a backend client. The timeout bounds the full
// response read; generation can be slow.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

type streamRequest struct {
	Input  streamInput  `json:"input"`
	Config streamConfig `json:"config"`
	Kwargs struct{}     `json:"kwargs"`
}

type streamInput struct {
	Messages []string `json:"messages"`
}

type streamConfig struct {
	Configurable map[string]string `json:"configurable"`
}

// Stream runs one request cycle against the backend and returns the
// assistant reply text. taskType is empty for plain user submissions.
func (c *Client) Stream(ctx context.Context, threadID, taskType string, messages []string) (string, error) {
	configurable := map[string]string{"thread_id": threadID}
	if taskType != "" {
		configurable["task_type"] = taskType
	}
	body, err := json.Marshal(streamRequest{
		Input:  streamInput{Messages: messages},
		Config: streamConfig{Configurable: configurable},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/stream", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat stream returned %s", resp.Status)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return decodeFramedReply(raw)
}

// decodeFramedReply unwraps the backend's response encoding: an
// optional "<digits>:" frame prefix, then a JSON string whose content
// is itself JSON carrying {"responses": [...]}. The last element of
// responses is the reply. All framing knowledge lives here.
func decodeFramedReply(raw []byte) (string, error) {
	text := strings.TrimSpace(string(raw))

	if i := strings.IndexByte(text, ':'); i > 0 {
		digits := true
		for _, r := range text[:i] {
			if r < '0' || r > '9' {
				digits = false
				break
			}
		}
		if digits {
			text = strings.TrimSpace(text[i+1:])
		}
	}

	var inner string
	if err := json.Unmarshal([]byte(text), &inner); err != nil {
		return "", fmt.Errorf("chat reply frame: %w", err)
	}
	var payload struct {
		Responses []string `json:"responses"`
	}
	if err := json.Unmarshal([]byte(inner), &payload); err != nil {
		return "", fmt.Errorf("chat reply payload: %w", err)
	}
	if len(payload.Responses) == 0 {
		return "", ErrEmptyReply
	}
	return payload.Responses[len(payload.Responses)-1], nil
}

// ThreadIDs lists the thread ids the backend has memory for.
func (c *Client) ThreadIDs(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/chat/get_thread_ids", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("thread id listing returned %s", resp.Status)
	}
	var payload struct {
		ThreadIDs []string `json:"thread_ids"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return payload.ThreadIDs, nil
}

// DeleteThread drops the backend's memory for one thread.
func (c *Client) DeleteThread(ctx context.Context, threadID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/chat/delete/"+threadID, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("thread delete returned %s", resp.Status)
	}
	return nil
}
