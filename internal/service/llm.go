package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

// maxResponseBytes caps how much of a provider response is read
const maxResponseBytes = 4 << 20

// Retry schedule shape. Waits grow by backoffMultiplier up to
// maxBackoffInterval and are jittered by up to backoffJitter either way.
const (
	backoffMultiplier  = 1.5
	backoffJitter      = 0.5
	maxBackoffInterval = 10 * time.Second
)

// CompletionPolicy bounds a single completion call
type CompletionPolicy struct {
	// Timeout applies to each attempt separately
	Timeout time.Duration
	// MaxRetries is the number of attempts after the first; 0 disables retries
	MaxRetries int
	// Backoff is the initial wait between attempts, growing exponentially
	Backoff time.Duration
}

// MaxDuration is the longest one call can take when every attempt runs into
// its timeout and every wait lands on its upper jitter bound
func (p CompletionPolicy) MaxDuration() time.Duration {
	retries := max(p.MaxRetries, 0)
	total := time.Duration(retries+1) * p.Timeout

	interval := float64(p.Backoff)
	for i := 0; i < retries; i++ {
		wait := math.Min(interval, float64(maxBackoffInterval))
		total += time.Duration(wait * (1 + backoffJitter))
		interval *= backoffMultiplier
	}
	return total
}

// LLMConfig holds what the LLMService needs to reach the completion API
type LLMConfig struct {
	APIKey     string
	APIURL     string
	Model      string
	Policy     CompletionPolicy
	HTTPClient *http.Client
}

// CompletionOptions tunes one completion call
type CompletionOptions struct {
	// System is sent as the system message when set
	System string
	// Temperature is omitted from the request when nil so the provider default applies
	Temperature *float64
	// Step labels logs and metrics, e.g. "suggest" or "detail"
	Step string
}

// LLMService talks to an OpenAI-compatible chat completions API
type LLMService struct {
	apiKey string
	apiURL string
	model  string
	policy CompletionPolicy
	client *http.Client
	logger logrus.FieldLogger
}

// NewLLMService creates a new LLMService instance
func NewLLMService(cfg LLMConfig, logger logrus.FieldLogger) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("completion API key must be set")
	}
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("completion API URL must be set")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("completion model must be set")
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	return &LLMService{
		apiKey: cfg.APIKey,
		apiURL: cfg.APIURL,
		model:  cfg.Model,
		policy: cfg.Policy,
		client: client,
		logger: logger.WithField("component", "llm"),
	}, nil
}

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents a request to the chat completions API
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends prompt to the model and returns the raw text it produced.
// Every failure wraps ErrCompletionFailed.
func (s *LLMService) Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error) {
	messages := make([]Message, 0, 2)
	if opts.System != "" {
		messages = append(messages, Message{Role: "system", Content: opts.System})
	}
	messages = append(messages, Message{Role: "user", Content: prompt})

	body, err := json.Marshal(Request{
		Model:       s.model,
		Messages:    messages,
		Temperature: opts.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to marshal request: %w", ErrCompletionFailed, err)
	}

	log := s.logger.WithFields(logrus.Fields{"step": opts.Step, "model": s.model})
	start := time.Now()
	attempt := 0

	var content string
	operation := func() error {
		attempt++
		var err error
		content, err = s.send(ctx, body)
		return err
	}
	notify := func(err error, wait time.Duration) {
		completionRetries.WithLabelValues(opts.Step).Inc()
		log.WithError(err).WithFields(logrus.Fields{
			"attempt": attempt,
			"wait":    wait.String(),
		}).Warn("completion attempt failed, retrying")
	}

	err = backoff.RetryNotify(operation, s.retryPolicy(ctx), notify)
	completionDuration.WithLabelValues(opts.Step).Observe(time.Since(start).Seconds())
	if err != nil {
		completionRequests.WithLabelValues(opts.Step, "error").Inc()
		log.WithError(err).WithField("attempts", attempt).Error("completion request failed")
		return "", fmt.Errorf("%w: %w", ErrCompletionFailed, err)
	}

	completionRequests.WithLabelValues(opts.Step, "ok").Inc()
	log.WithFields(logrus.Fields{
		"attempts":     attempt,
		"raw_response": content,
	}).Debug("completion received")

	return content, nil
}

func (s *LLMService) retryPolicy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.policy.Backoff
	b.Multiplier = backoffMultiplier
	b.RandomizationFactor = backoffJitter
	b.MaxInterval = maxBackoffInterval
	b.MaxElapsedTime = 0

	retries := s.policy.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)
}

// send performs one attempt. Errors worth retrying are returned as is,
// everything else is marked permanent.
func (s *LLMService) send(ctx context.Context, body []byte) (string, error) {
	attemptCtx := ctx
	if s.policy.Timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, s.policy.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", backoff.Permanent(fmt.Errorf("failed to send request: %w", err))
		}
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		statusErr := fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return "", statusErr
		}
		return "", backoff.Permanent(statusErr)
	}

	var result completionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
	}
	if len(result.Choices) == 0 {
		return "", backoff.Permanent(errors.New("no response from API"))
	}

	return result.Choices[0].Message.Content, nil
}
