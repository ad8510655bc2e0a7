// README: DashScope (qwen-turbo) text-generation client; single attempt, typed failures.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"roam/internal/keys"
)

const dashScopeModel = "qwen-turbo"

// CredentialSource provides the current credential bundle. Satisfied by
// *keys.Service; kept as an interface so tests can inject fixed bundles.
type CredentialSource interface {
	Snapshot() keys.ApiKeys
}

// DashScopeClient calls the Aliyun DashScope text-generation endpoint.
// Credentials are read from the bundle per call so a key saved at runtime takes
// effect without a restart.
type DashScopeClient struct {
	creds CredentialSource
	http  *http.Client

	// endpoint overrides the bundle endpoint when non-empty (tests).
	endpoint string
}

// NewDashScopeClient creates a client with the given per-request timeout.
// The timeout guards against stalled connections; context cancellation is still
// honoured via NewRequestWithContext.
func NewDashScopeClient(creds CredentialSource, timeout time.Duration) *DashScopeClient {
	return &DashScopeClient{
		creds: creds,
		http:  &http.Client{Timeout: timeout},
	}
}

type dsMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type dsRequest struct {
	Model string `json:"model"`
	Input struct {
		Messages []dsMessage `json:"messages"`
	} `json:"input"`
	Parameters struct {
		Temperature float64 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens"`
	} `json:"parameters"`
}

type dsResponse struct {
	Output struct {
		Choices []struct {
			Message dsMessage `json:"message"`
		} `json:"choices"`
		Text string `json:"text"`
	} `json:"output"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Generate sends prompt to DashScope and returns the raw model text. It makes
// exactly one attempt; callers decide whether a failure is worth resubmitting.
func (c *DashScopeClient) Generate(ctx context.Context, prompt string) (string, error) {
	bundle := c.creds.Snapshot()
	if !bundle.AliyunConfigured() {
		return "", ErrCredentialsMissing
	}

	endpoint := c.endpoint
	if endpoint == "" {
		endpoint = bundle.Aliyun.Endpoint
	}
	if endpoint == "" {
		endpoint = keys.DefaultEndpoint
	}

	var dr dsRequest
	dr.Model = dashScopeModel
	dr.Input.Messages = []dsMessage{{Role: "user", Content: prompt}}
	dr.Parameters.Temperature = 0.7
	dr.Parameters.MaxTokens = 2000

	reqBody, err := json.Marshal(dr)
	if err != nil {
		return "", fmt.Errorf("dashscope: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("dashscope: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bundle.Aliyun.APIKey)
	req.Header.Set("X-DashScope-SSE", "disable")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrVendorUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrVendorUnreachable, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", fmt.Errorf("%w: status %d", ErrVendorAuthFailed, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return "", fmt.Errorf("%w: status %d: %s", ErrVendorRejected, resp.StatusCode, truncate(body, 256))
	}

	var out dsResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%w: malformed envelope: %v", ErrVendorRejected, err)
	}
	if out.Code != "" {
		return "", fmt.Errorf("%w: %s: %s", ErrVendorRejected, out.Code, out.Message)
	}
	if len(out.Output.Choices) > 0 {
		return out.Output.Choices[0].Message.Content, nil
	}
	return out.Output.Text, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
