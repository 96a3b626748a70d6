package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"sydneybot/pkg/throttle"
)

type OpenRouterOptions struct {
	BaseURL       string
	APIKey        string
	APIKeyExpense string
	Model         string
	ModelExpense  string
	Timeout       time.Duration
	RateLimit     float64
	HTTPClient    *http.Client
}

// OpenRouter talks to an OpenAI-compatible /chat/completions endpoint. The
// expensive tier uses its own key and model.
type OpenRouter struct {
	client   *http.Client
	endpoint string
	keys     map[Tier]string
	models   map[Tier]string
	timeout  time.Duration
	limiter  *throttle.Limiter
}

func NewOpenRouter(opts OpenRouterOptions) *OpenRouter {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rps := opts.RateLimit
	if rps <= 0 {
		rps = 2
	}

	return &OpenRouter{
		client:   client,
		endpoint: strings.TrimRight(opts.BaseURL, "/") + "/chat/completions",
		keys: map[Tier]string{
			TierDefault:   opts.APIKey,
			TierExpensive: opts.APIKeyExpense,
		},
		models: map[Tier]string{
			TierDefault:   opts.Model,
			TierExpensive: opts.ModelExpense,
		},
		timeout: timeout,
		limiter: throttle.New(rps, rps/8, rps*2),
	}
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.code, e.body)
}

func (e *statusError) StatusCode() int { return e.code }

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	User        string    `json:"user,omitempty"`
	Metadata    Metadata  `json:"metadata"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends one completion request. It does not retry; every failure is
// returned wrapped in ErrCompletion.
func (o *OpenRouter) Complete(ctx context.Context, req Request) (string, error) {
	tier := req.Tier
	if tier == "" {
		tier = TierDefault
	}
	if req.Metadata.RequestID == "" {
		req.Metadata.RequestID = uuid.NewString()
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	if err := o.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCompletion, err)
	}

	start := time.Now()
	reply, err := o.do(ctx, tier, req)
	o.limiter.Observe(err)
	if err != nil {
		log.Printf("[AI] %s request %s failed after %s: %v", req.Metadata.Interaction, req.Metadata.RequestID, time.Since(start).Round(time.Millisecond), err)
		return "", fmt.Errorf("%w: %v", ErrCompletion, err)
	}
	log.Printf("[DEBUG] [AI] %s request %s (%s) took %s", req.Metadata.Interaction, req.Metadata.RequestID, tier, time.Since(start).Round(time.Millisecond))
	return reply, nil
}

func (o *OpenRouter) do(ctx context.Context, tier Tier, req Request) (string, error) {
	payload := completionRequest{
		Model:       o.models[tier],
		Messages:    req.Messages,
		Temperature: req.Temperature,
		User:        req.Metadata.UserID,
		Metadata:    req.Metadata,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.keys[tier])

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &statusError{code: resp.StatusCode, body: truncate(body)}
	}

	var parsed completionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("remote error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty choices")
	}

	reply := cleanReply(parsed.Choices[0].Message.Content)
	if reply == "" {
		return "", fmt.Errorf("empty reply")
	}
	return reply, nil
}
