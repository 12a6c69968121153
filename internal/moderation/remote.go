package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var ErrBackendUnavailable = errors.New("moderation backend unavailable")

// RemoteClient - клиент внешнего сервиса модерации.
// Протокол: POST {text, options} -> {success, data: Result}
type RemoteClient struct {
	endpoint   string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

func NewRemoteClient(endpoint, apiKey string, timeout time.Duration) *RemoteClient {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &RemoteClient{
		endpoint:   endpoint,
		apiKey:     apiKey,
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

type remoteRequest struct {
	Text    string  `json:"text"`
	Options Options `json:"options"`
}

type remoteResponse struct {
	Success bool    `json:"success"`
	Data    *Result `json:"data"`
	Message string  `json:"message"`
}

func (c *RemoteClient) Moderate(ctx context.Context, text string, opts Options) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(remoteRequest{Text: text, Options: opts})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status %d", ErrBackendUnavailable, resp.StatusCode)
	}

	var out remoteResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrBackendUnavailable, err)
	}
	if !out.Success || out.Data == nil {
		return nil, fmt.Errorf("%w: %s", ErrBackendUnavailable, out.Message)
	}

	res := out.Data
	// Вердикт пересчитываем по нашим порогам, балл берем у сервиса
	if res.Score < 0 {
		res.Score = 0
	}
	if res.Score > MaxScore {
		res.Score = MaxScore
	}
	res.Verdict = VerdictFor(res.Score, opts.Strict)
	res.Label = res.Verdict.Label()
	res.IsClean = res.Verdict == VerdictClean
	res.Backend = "remote"
	if res.Categories == nil {
		res.Categories = []string{}
	}
	if res.Violations == nil {
		res.Violations = []Violation{}
	}
	if opts.Mask && res.SanitizedText == nil && res.IsClean {
		res.SanitizedText = &text
	}
	return res, nil
}
