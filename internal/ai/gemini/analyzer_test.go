package gemini

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/resumatch/resumatch/internal/ai"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeCall struct {
	model  string
	prompt string
}

type fakeResponse struct {
	text string
	err  error
}

type fakeCaller struct {
	queue map[string][]fakeResponse
	calls []fakeCall
}

func newFakeCaller() *fakeCaller {
	return &fakeCaller{queue: make(map[string][]fakeResponse)}
}

func (f *fakeCaller) enqueue(model, text string, err error) {
	f.queue[model] = append(f.queue[model], fakeResponse{text: text, err: err})
}

func (f *fakeCaller) GenerateContent(_ context.Context, model, prompt string) (string, error) {
	f.calls = append(f.calls, fakeCall{model: model, prompt: prompt})

	responses := f.queue[model]
	if len(responses) == 0 {
		return "", errors.New("unexpected call")
	}
	res := responses[0]
	f.queue[model] = responses[1:]

	return res.text, res.err
}

func newTestClient(caller modelCaller) *Client {
	return &Client{
		caller: caller,
		tiers: []Tier{
			{Name: "primary", Model: "gemini-2.5-pro"},
			{Name: "fallback", Model: "gemini-2.5-flash", MayFence: true},
		},
		logger:    zap.NewNop(),
		maxLogLen: defaultMaxLogLength,
	}
}

const validReply = `{
	"matchScore": 78,
	"foundKeywords": {"hardSkills": ["Go", "Docker"], "softSkills": ["communication"], "certifications": []},
	"missingKeywords": {"hardSkills": ["Kubernetes"], "softSkills": [], "certifications": ["CKA"]},
	"actionableTips": [{"category": "keywords", "suggestion": "Mention Kubernetes", "priority": "high"}],
	"summary": "Solid backend resume."
}`

func TestAnalyzeUsesPrimaryTier(t *testing.T) {
	caller := newFakeCaller()
	caller.enqueue("gemini-2.5-pro", "OK", nil)
	caller.enqueue("gemini-2.5-pro", validReply, nil)

	client := newTestClient(caller)

	analysis, err := client.Analyze(context.Background(), "Go developer with Docker experience", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if analysis.MatchScore != 78 {
		t.Fatalf("expected score 78, got %d", analysis.MatchScore)
	}

	if len(caller.calls) != 2 {
		t.Fatalf("expected 2 calls (probe + request), got %d", len(caller.calls))
	}

	for _, call := range caller.calls {
		if call.model != "gemini-2.5-pro" {
			t.Fatalf("expected primary model on every call, got %s", call.model)
		}
	}

	if !strings.Contains(caller.calls[1].prompt, "Go developer with Docker experience") {
		t.Fatalf("expected resume text in prompt")
	}
}

func TestAnalyzeFallsBackOnQuotaError(t *testing.T) {
	caller := newFakeCaller()
	// The probe fails with a message containing 429; the substring stopgap
	// must classify it as quota exhaustion.
	caller.enqueue("gemini-2.5-pro", "", errors.New("googleapi: Error 429: rate limit exceeded"))
	caller.enqueue("gemini-2.5-flash", "```json\n"+validReply+"\n```", nil)

	client := newTestClient(caller)

	analysis, err := client.Analyze(context.Background(), "Go developer", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if analysis.MatchScore != 78 {
		t.Fatalf("expected score 78 after fenced fallback reply, got %d", analysis.MatchScore)
	}

	if len(caller.calls) != 2 {
		t.Fatalf("expected probe + fallback request, got %d calls", len(caller.calls))
	}
	if caller.calls[1].model != "gemini-2.5-flash" {
		t.Fatalf("expected fallback model for the real request, got %s", caller.calls[1].model)
	}
}

func TestAnalyzeFallbackSelectionIsNotCached(t *testing.T) {
	caller := newFakeCaller()
	caller.enqueue("gemini-2.5-pro", "", genai.APIError{Code: http.StatusTooManyRequests, Status: "RESOURCE_EXHAUSTED"})
	caller.enqueue("gemini-2.5-flash", validReply, nil)
	// Second Analyze call: quota window recovered, primary serves again.
	caller.enqueue("gemini-2.5-pro", "OK", nil)
	caller.enqueue("gemini-2.5-pro", validReply, nil)

	client := newTestClient(caller)

	if _, err := client.Analyze(context.Background(), "resume text", ""); err != nil {
		t.Fatalf("first analyze: %v", err)
	}
	if _, err := client.Analyze(context.Background(), "resume text", ""); err != nil {
		t.Fatalf("second analyze: %v", err)
	}

	last := caller.calls[len(caller.calls)-1]
	if last.model != "gemini-2.5-pro" {
		t.Fatalf("expected primary model after quota recovery, got %s", last.model)
	}
}

func TestAnalyzePropagatesNonQuotaProbeError(t *testing.T) {
	caller := newFakeCaller()
	caller.enqueue("gemini-2.5-pro", "", genai.APIError{Code: http.StatusUnauthorized, Message: "API key not valid"})

	client := newTestClient(caller)

	_, err := client.Analyze(context.Background(), "resume text", "")
	if !errors.Is(err, ai.ErrAuthFailure) {
		t.Fatalf("expected ErrAuthFailure, got %v", err)
	}

	if len(caller.calls) != 1 {
		t.Fatalf("expected only the probe call, got %d", len(caller.calls))
	}
}

func TestAnalyzeClassifiesRequestErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"auth by code", genai.APIError{Code: http.StatusForbidden, Message: "permission denied"}, ai.ErrAuthFailure},
		{"auth by substring", errors.New("the API key is invalid"), ai.ErrAuthFailure},
		{"quota by code", genai.APIError{Code: http.StatusTooManyRequests, Message: "quota"}, ai.ErrQuotaExceeded},
		{"quota by substring", errors.New("RESOURCE_EXHAUSTED: try later"), ai.ErrQuotaExceeded},
		{"unknown", errors.New("connection reset by peer"), ai.ErrBackendUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			caller := newFakeCaller()
			caller.enqueue("gemini-2.5-pro", "OK", nil)
			caller.enqueue("gemini-2.5-pro", "", tc.err)

			client := newTestClient(caller)

			_, err := client.Analyze(context.Background(), "resume text", "")
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAnalyzeMalformedResponseExcerptIsBounded(t *testing.T) {
	hugeReply := "this is not json " + strings.Repeat("x", 5000)

	caller := newFakeCaller()
	caller.enqueue("gemini-2.5-pro", "OK", nil)
	caller.enqueue("gemini-2.5-pro", hugeReply, nil)

	client := newTestClient(caller)

	_, err := client.Analyze(context.Background(), "resume text", "")
	if !errors.Is(err, ai.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}

	if len(err.Error()) >= len(hugeReply) {
		t.Fatalf("error payload must not contain the full raw reply: %d bytes", len(err.Error()))
	}
	if !strings.Contains(err.Error(), "...") {
		t.Fatalf("expected a truncated excerpt marker in %q", err.Error())
	}
}

func TestAnalyzePrimaryReplyIsNotUnfenced(t *testing.T) {
	caller := newFakeCaller()
	caller.enqueue("gemini-2.5-pro", "OK", nil)
	caller.enqueue("gemini-2.5-pro", "```json\n"+validReply+"\n```", nil)

	client := newTestClient(caller)

	// Fencing is stripped only in fallback mode; a fenced primary reply is
	// malformed.
	_, err := client.Analyze(context.Background(), "resume text", "")
	if !errors.Is(err, ai.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse for fenced primary reply, got %v", err)
	}
}

func TestCleanJSON(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
		{"```json\n{\"fenced\": \"no trailing fence\"}", `{"fenced": "no trailing fence"}`},
	}

	for _, tc := range cases {
		if got := CleanJSON(tc.in); got != tc.want {
			t.Fatalf("CleanJSON(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDecodeAnalysisDefaults(t *testing.T) {
	analysis, err := decodeAnalysis(`{}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if analysis.MatchScore != 0 {
		t.Fatalf("expected default score 0, got %d", analysis.MatchScore)
	}
	if analysis.Summary != "" {
		t.Fatalf("expected empty summary, got %q", analysis.Summary)
	}
	if analysis.FoundKeywords.HardSkills == nil || len(analysis.FoundKeywords.HardSkills) != 0 {
		t.Fatalf("expected empty non-nil hard skills, got %#v", analysis.FoundKeywords.HardSkills)
	}
	if analysis.ActionableTips == nil || len(analysis.ActionableTips) != 0 {
		t.Fatalf("expected empty non-nil tips, got %#v", analysis.ActionableTips)
	}
}

func TestDecodeAnalysisCoercesTips(t *testing.T) {
	raw := `{"actionableTips": [
		{"category": "keywords", "suggestion": "ok", "priority": "low"},
		{"category": "grammar", "suggestion": "bad category", "priority": "urgent"},
		{"suggestion": "missing fields"},
		"not even an object"
	]}`

	analysis, err := decodeAnalysis(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(analysis.ActionableTips) != 3 {
		t.Fatalf("expected 3 tips, got %d", len(analysis.ActionableTips))
	}

	if analysis.ActionableTips[0].Category != "keywords" || analysis.ActionableTips[0].Priority != "low" {
		t.Fatalf("valid tip must pass through unchanged: %+v", analysis.ActionableTips[0])
	}

	if analysis.ActionableTips[1].Category != "content" {
		t.Fatalf("invalid category must coerce to content, got %q", analysis.ActionableTips[1].Category)
	}
	if analysis.ActionableTips[1].Priority != "medium" {
		t.Fatalf("invalid priority must coerce to medium, got %q", analysis.ActionableTips[1].Priority)
	}

	if analysis.ActionableTips[2].Category != "content" || analysis.ActionableTips[2].Priority != "medium" {
		t.Fatalf("missing enum fields must coerce to defaults: %+v", analysis.ActionableTips[2])
	}
}

func TestDecodeAnalysisScoreHandling(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{`{"matchScore": 150}`, 100},
		{`{"matchScore": -5}`, 0},
		{`{"matchScore": "87"}`, 87},
		{`{"matchScore": "not a number"}`, 0},
		{`{"matchScore": null}`, 0},
	}

	for _, tc := range cases {
		analysis, err := decodeAnalysis(tc.raw)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", tc.raw, err)
		}
		if analysis.MatchScore != tc.want {
			t.Fatalf("%s: expected score %d, got %d", tc.raw, tc.want, analysis.MatchScore)
		}
	}
}
