package ai

import (
	"context"
	"errors"
)

// Tip categories the backend is instructed to use. Anything else is coerced
// to CategoryContent during decoding.
const (
	CategoryFormatting = "formatting"
	CategoryContent    = "content"
	CategoryKeywords   = "keywords"
	CategoryImpact     = "impact"
	CategoryStructure  = "structure"
)

// Tip priorities. Unknown values are coerced to PriorityMedium.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Classified failure kinds for the analysis stage. Every error returned by an
// Analyzer wraps exactly one of these.
var (
	ErrAuthFailure       = errors.New("ai backend rejected credentials")
	ErrQuotaExceeded     = errors.New("ai backend quota exceeded")
	ErrMalformedResponse = errors.New("ai backend returned malformed response")
	ErrBackendUnknown    = errors.New("ai backend error")
)

// KeywordBuckets groups keywords the backend reports, split by kind. Order and
// duplicates are preserved as received.
type KeywordBuckets struct {
	HardSkills     []string `json:"hardSkills"`
	SoftSkills     []string `json:"softSkills"`
	Certifications []string `json:"certifications"`
}

// Tip is a single actionable improvement suggestion.
type Tip struct {
	Category   string `json:"category"`
	Suggestion string `json:"suggestion"`
	Priority   string `json:"priority"`
}

// Analysis is the normalized result of one resume evaluation. All slice
// fields are non-nil after decoding, possibly empty.
type Analysis struct {
	MatchScore      int            `json:"matchScore"`
	FoundKeywords   KeywordBuckets `json:"foundKeywords"`
	MissingKeywords KeywordBuckets `json:"missingKeywords"`
	ActionableTips  []Tip          `json:"actionableTips"`
	Summary         string         `json:"summary"`
}

// Analyzer evaluates resume text, optionally against a job description.
type Analyzer interface {
	Analyze(ctx context.Context, resumeText, jobDescription string) (*Analysis, error)
}

// ValidCategory reports whether the provided tip category is one of the five
// values the prompt allows.
func ValidCategory(category string) bool {
	switch category {
	case CategoryFormatting, CategoryContent, CategoryKeywords, CategoryImpact, CategoryStructure:
		return true
	}
	return false
}

// ValidPriority reports whether the provided tip priority is allowed.
func ValidPriority(priority string) bool {
	switch priority {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}
