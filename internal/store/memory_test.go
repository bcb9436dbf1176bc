package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/resumatch/resumatch/internal/ai"
	"github.com/resumatch/resumatch/internal/resume"
)

func TestMemoryCreateAndFind(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	record, err := m.Create(ctx, "owner-1", "resume.pdf", "text", "jd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Status != resume.StatusProcessing {
		t.Fatalf("new records start processing, got %s", record.Status)
	}

	found, err := m.FindByID(ctx, record.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Filename != "resume.pdf" || found.OwnerID != "owner-1" {
		t.Fatalf("unexpected record: %+v", found)
	}

	if _, err := m.FindByID(ctx, uuid.New()); !errors.Is(err, resume.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestMemoryUpdatePersistsTransition(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	record, _ := m.Create(ctx, "owner-1", "resume.pdf", "text", "")
	if err := record.Complete(&ai.Analysis{MatchScore: 91}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Update(ctx, record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, _ := m.FindByID(ctx, record.ID)
	if found.Status != resume.StatusCompleted || found.Analysis.MatchScore != 91 {
		t.Fatalf("transition not persisted: %+v", found)
	}

	if err := m.Update(ctx, &resume.Record{ID: uuid.New()}); !errors.Is(err, resume.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestMemoryFindReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	record, _ := m.Create(ctx, "owner-1", "resume.pdf", "text", "")

	found, _ := m.FindByID(ctx, record.ID)
	found.Filename = "mutated.pdf"

	again, _ := m.FindByID(ctx, record.ID)
	if again.Filename != "resume.pdf" {
		t.Fatalf("caller mutation leaked into the store: %q", again.Filename)
	}
}

func TestMemoryFindCopiesTheAnalysis(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	record, _ := m.Create(ctx, "owner-1", "resume.pdf", "text", "")
	record.Complete(&ai.Analysis{
		MatchScore: 80,
		FoundKeywords: ai.KeywordBuckets{
			HardSkills: []string{"Go"},
		},
		ActionableTips: []ai.Tip{{Category: ai.CategoryKeywords, Suggestion: "ok", Priority: ai.PriorityLow}},
	})
	if err := m.Update(ctx, record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, _ := m.FindByID(ctx, record.ID)
	found.Analysis.MatchScore = 1
	found.Analysis.FoundKeywords.HardSkills[0] = "Cobol"
	found.Analysis.ActionableTips[0].Suggestion = "mutated"

	again, _ := m.FindByID(ctx, record.ID)
	if again.Analysis.MatchScore != 80 {
		t.Fatalf("analysis mutation leaked into the store: %d", again.Analysis.MatchScore)
	}
	if again.Analysis.FoundKeywords.HardSkills[0] != "Go" {
		t.Fatalf("keyword mutation leaked into the store: %v", again.Analysis.FoundKeywords.HardSkills)
	}
	if again.Analysis.ActionableTips[0].Suggestion != "ok" {
		t.Fatalf("tip mutation leaked into the store: %v", again.Analysis.ActionableTips)
	}
}

func TestMemoryFindLatestByOwner(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	first, _ := m.Create(ctx, "owner-1", "old.pdf", "text", "")
	second, _ := m.Create(ctx, "owner-1", "new.pdf", "text", "")
	m.Create(ctx, "owner-2", "other.pdf", "text", "")

	// Force a strict ordering so the test does not depend on clock precision.
	second.CreatedAt = first.CreatedAt.Add(time.Hour)
	if err := m.Update(ctx, second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	latest, err := m.FindLatestByOwner(ctx, "owner-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest.Filename != "new.pdf" {
		t.Fatalf("expected the newest record, got %q", latest.Filename)
	}

	if _, err := m.FindLatestByOwner(ctx, "owner-3"); !errors.Is(err, resume.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	record, _ := m.Create(ctx, "owner-1", "resume.pdf", "text", "")

	if err := m.Delete(ctx, record.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := m.FindByID(ctx, record.ID); !errors.Is(err, resume.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound after delete, got %v", err)
	}
	if err := m.Delete(ctx, record.ID); !errors.Is(err, resume.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound for double delete, got %v", err)
	}
}
