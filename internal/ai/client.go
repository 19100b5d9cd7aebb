// Package ai holds the client for the external text-completion service used
// when a question cannot be answered from stored records.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// UpstreamError reports a failed exchange with the completion service. Status
// holds the upstream HTTP status when one was received; it is zero for
// transport failures and malformed payloads, which callers map to 502. The
// HTTP layer relays the status to the caller instead of masking it as a 500.
type UpstreamError struct {
	Status int
	Reason string
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("completion service returned status %d", e.Status)
	}
	return "completion service failure: " + e.Reason
}

// Completer produces a free-text reply for a prompt. Satisfied by Client and
// by test fakes.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Client struct {
	endpointURL string
	model       string
	temperature float64
	topP        float64
	httpClient  *http.Client
}

func NewClient(endpointURL, model string, temperature, topP float64, timeout time.Duration) *Client {
	return &Client{
		endpointURL: endpointURL,
		model:       model,
		temperature: temperature,
		topP:        topP,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

type completionRequest struct {
	Model       string  `json:"model"`
	Input       string  `json:"input"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

// completionResponse mirrors the service's reply shape. Content is either a
// single string or an array of strings depending on the model.
type completionResponse struct {
	Output []struct {
		Content json.RawMessage `json:"content"`
	} `json:"output"`
}

// Complete sends the prompt to the completion service and returns the reply
// text. Non-2xx statuses surface as *UpstreamError.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(completionRequest{
		Model:       c.model,
		Input:       prompt,
		Temperature: c.temperature,
		TopP:        c.topP,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &UpstreamError{Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		slog.WarnContext(ctx, "Completion service returned error status",
			"status", resp.StatusCode,
			"duration", time.Since(start))
		return "", &UpstreamError{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read completion response: %w", err)
	}

	text, err := extractText(body)
	if err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "Completion received",
		"duration", time.Since(start),
		"reply_length", len(text))
	return text, nil
}

// extractText pulls the reply out of the response document. Content is valid
// as a single string or as an array of fragments joined with single spaces;
// any other shape is an upstream contract violation, never a crash.
func extractText(body []byte) (string, error) {
	var doc completionResponse
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", &UpstreamError{Reason: "response is not valid JSON"}
	}
	if len(doc.Output) == 0 || len(doc.Output[0].Content) == 0 {
		return "", &UpstreamError{Reason: "response has no output"}
	}

	raw := doc.Output[0].Content

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return strings.TrimSpace(single), nil
	}

	var parts []string
	if err := json.Unmarshal(raw, &parts); err == nil {
		return strings.TrimSpace(strings.Join(parts, " ")), nil
	}

	return "", &UpstreamError{Reason: "response content has unexpected shape"}
}
