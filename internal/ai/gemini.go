// Package ai wraps the external text-generation collaborator. The
// client is intentionally thin: one prompt in, one text out, and the
// caller decides what a failure means.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

var ErrMissingAPIKey = errors.New("gemini api key is not configured")

type GeminiClient struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
}

func NewGeminiClient(apiKey string, model string, timeout time.Duration) *GeminiClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &GeminiClient{
		httpClient: &http.Client{Timeout: timeout},
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultBaseURL,
	}
}

// WithBaseURL points the client at a different endpoint. Used by tests.
func (client *GeminiClient) WithBaseURL(baseURL string) *GeminiClient {
	client.baseURL = strings.TrimRight(baseURL, "/")
	return client
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (client *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(client.apiKey) == "" {
		return "", ErrMissingAPIKey
	}

	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", client.baseURL, client.model, client.apiKey)
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := client.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("call text generator: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("text generator returned status %d", response.StatusCode)
	}

	var decoded generateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range decoded.Candidates {
		for _, candidatePart := range candidate.Content.Parts {
			builder.WriteString(candidatePart.Text)
		}
		break
	}

	return strings.TrimSpace(builder.String()), nil
}
