package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	defaultPrimaryModel  = "gemini-2.5-pro"
	defaultFallbackModel = "gemini-2.5-flash"

	// probePrompt is a trivial round-trip used to prove the primary tier is
	// live before spending the real request on it.
	probePrompt = "Reply with the single word OK."
)

// Tier is one backend model configuration with its own capability and quota
// profile. Tiers are attempted in order; only quota exhaustion moves the
// selection to the next one.
type Tier struct {
	Name  string
	Model string
	// MayFence marks tiers whose raw replies can arrive wrapped in a
	// markdown code fence and need stripping before JSON parsing.
	MayFence bool
}

// modelCaller is the minimal surface of the GenAI client the analyzer needs.
// Kept as an interface so tests can substitute a fake backend.
type modelCaller interface {
	GenerateContent(ctx context.Context, model, prompt string) (string, error)
}

// Client evaluates resumes through the Gemini API with a two-tier model
// fallback. It implements ai.Analyzer.
type Client struct {
	caller    modelCaller
	tiers     []Tier
	logger    *zap.Logger
	maxLogLen int
}

// New creates a Client configured for the Gemini API backend.
func New(ctx context.Context, apiKey, primaryModel, fallbackModel string, maxLogLength int, logger *zap.Logger) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if primaryModel = strings.TrimSpace(primaryModel); primaryModel == "" {
		primaryModel = defaultPrimaryModel
	}
	if fallbackModel = strings.TrimSpace(fallbackModel); fallbackModel == "" {
		fallbackModel = defaultFallbackModel
	}

	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		caller: &googleCaller{client: client},
		tiers: []Tier{
			{Name: "primary", Model: primaryModel},
			{Name: "fallback", Model: fallbackModel, MayFence: true},
		},
		logger:    logger,
		maxLogLen: maxLogLength,
	}, nil
}

// selectTier probes the first tier with a trivial call and decides which tier
// serves the actual request. The decision is made fresh on every call: quota
// windows are time-based and may have recovered since the last attempt.
func (c *Client) selectTier(ctx context.Context) (Tier, error) {
	primary := c.tiers[0]

	_, err := c.caller.GenerateContent(ctx, primary.Model, probePrompt)
	if err == nil {
		return primary, nil
	}

	classified := classifyError(err)
	if !errors.Is(classified, errQuota) || len(c.tiers) < 2 {
		return Tier{}, classified
	}

	fallback := c.tiers[1]
	c.logger.Warn("primary model quota exhausted, switching to fallback tier",
		zap.String("primary_model", primary.Model),
		zap.String("fallback_model", fallback.Model),
	)

	return fallback, nil
}

// googleCaller adapts the real GenAI client to the modelCaller interface and
// flattens candidate parts into a single text reply.
type googleCaller struct {
	client *genai.Client
}

func (g *googleCaller) GenerateContent(ctx context.Context, model, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

// Internal markers used between probe and classification. They are translated
// into the exported ai error kinds before leaving the package.
var (
	errQuota = errors.New("quota exhausted")
	errAuth  = errors.New("invalid credentials")
)

// classifyError maps a raw backend error onto the auth/quota/unknown buckets.
// Structured API codes are preferred; substring matching on the message is a
// documented stopgap for errors that carry no code.
func classifyError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %s", errAuth, apiErr.Message)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %s", errQuota, apiErr.Message)
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "api key", "api_key", "unauthorized", "unauthenticated", "permission denied"):
		return fmt.Errorf("%w: %s", errAuth, err)
	case containsAny(msg, "429", "quota", "rate limit", "resource_exhausted", "resource exhausted"):
		return fmt.Errorf("%w: %s", errQuota, err)
	}

	return err
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
