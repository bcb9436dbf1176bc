package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/resumatch/resumatch/internal/ai"
	"github.com/resumatch/resumatch/internal/logger"
	"go.uber.org/zap"
)

const defaultMaxLogLength = 200

// Analyze sends the resume (and optional job description) to the selected
// model tier and returns the normalized analysis. Every failure wraps exactly
// one of the ai error kinds.
func (c *Client) Analyze(ctx context.Context, resumeText, jobDescription string) (*ai.Analysis, error) {
	resumeText = strings.TrimSpace(resumeText)
	if resumeText == "" {
		return nil, fmt.Errorf("%w: resume text is empty", ai.ErrBackendUnknown)
	}

	tier, err := c.selectTier(ctx)
	if err != nil {
		return nil, exportError(err)
	}

	prompt := buildPrompt(resumeText, jobDescription)

	c.logger.Debug("analysis request",
		zap.String("tier", tier.Name),
		zap.String("model", tier.Model),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, c.maxLogLen)),
	)

	raw, err := c.caller.GenerateContent(ctx, tier.Model, prompt)
	if err != nil {
		return nil, exportError(classifyError(err))
	}

	c.logger.Debug("analysis response",
		zap.String("tier", tier.Name),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, c.maxLogLen)),
	)

	// The constrained fallback model tends to wrap its reply in a markdown
	// code fence. The primary path never needs this.
	if tier.MayFence {
		raw = CleanJSON(raw)
	}

	analysis, err := decodeAnalysis(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s (reply excerpt: %q)",
			ai.ErrMalformedResponse, err, logger.TruncateForLog(raw, c.maxLogLen))
	}

	return analysis, nil
}

// exportError translates internal probe/classification markers into the
// exported ai error kinds, preserving the original detail.
func exportError(err error) error {
	switch {
	case errors.Is(err, errAuth):
		return fmt.Errorf("%w: %s", ai.ErrAuthFailure, err)
	case errors.Is(err, errQuota):
		return fmt.Errorf("%w: %s", ai.ErrQuotaExceeded, err)
	default:
		return fmt.Errorf("%w: %s", ai.ErrBackendUnknown, err)
	}
}

// CleanJSON strips a surrounding markdown code fence, with or without a json
// language tag, from the raw model reply.
func CleanJSON(raw string) string {
	cleaned := strings.TrimSpace(raw)

	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
		if idx := strings.LastIndex(cleaned, "```"); idx != -1 {
			cleaned = cleaned[:idx]
		}
	}

	return strings.TrimSpace(cleaned)
}

// decodeAnalysis parses the reply treating the declared schema as advisory:
// every missing field gets an explicit default and enum fields fall back to a
// safe value instead of aborting the decode.
func decodeAnalysis(raw string) (*ai.Analysis, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("parse analysis reply: %w", err)
	}

	return &ai.Analysis{
		MatchScore:      clampScore(coerceInt(data["matchScore"])),
		FoundKeywords:   coerceBuckets(data["foundKeywords"]),
		MissingKeywords: coerceBuckets(data["missingKeywords"]),
		ActionableTips:  coerceTips(data["actionableTips"]),
		Summary:         coerceString(data["summary"]),
	}, nil
}

func coerceBuckets(v any) ai.KeywordBuckets {
	buckets := ai.KeywordBuckets{
		HardSkills:     []string{},
		SoftSkills:     []string{},
		Certifications: []string{},
	}

	m, ok := v.(map[string]any)
	if !ok {
		return buckets
	}

	buckets.HardSkills = coerceStringSlice(m["hardSkills"])
	buckets.SoftSkills = coerceStringSlice(m["softSkills"])
	buckets.Certifications = coerceStringSlice(m["certifications"])

	return buckets
}

func coerceTips(v any) []ai.Tip {
	tips := []ai.Tip{}

	items, ok := v.([]any)
	if !ok {
		return tips
	}

	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}

		tip := ai.Tip{
			Category:   strings.ToLower(coerceString(m["category"])),
			Suggestion: coerceString(m["suggestion"]),
			Priority:   strings.ToLower(coerceString(m["priority"])),
		}

		// A malformed tip must not fail the whole analysis.
		if !ai.ValidCategory(tip.Category) {
			tip.Category = ai.CategoryContent
		}
		if !ai.ValidPriority(tip.Priority) {
			tip.Priority = ai.PriorityMedium
		}

		tips = append(tips, tip)
	}

	return tips
}

func coerceStringSlice(v any) []string {
	result := []string{}

	items, ok := v.([]any)
	if !ok {
		return result
	}

	for _, item := range items {
		s := coerceString(item)
		if s == "" {
			continue
		}
		result = append(result, s)
	}

	return result
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		return ""
	}
}

func coerceInt(v any) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case int:
		return val
	case string:
		var n float64
		if _, err := fmt.Sscanf(strings.TrimSpace(val), "%g", &n); err == nil {
			return int(n)
		}
		return 0
	default:
		return 0
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
