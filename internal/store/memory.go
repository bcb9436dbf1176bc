package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/resumatch/resumatch/internal/ai"
	"github.com/resumatch/resumatch/internal/resume"
)

// Memory is an in-process record store. Each record is only ever written by
// the request that created it, but independent pipeline invocations share the
// process, so the map itself is guarded.
type Memory struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*resume.Record
}

func NewMemory() *Memory {
	return &Memory{records: make(map[uuid.UUID]*resume.Record)}
}

func (m *Memory) Create(_ context.Context, ownerID, filename, text, jobDescription string) (*resume.Record, error) {
	record := &resume.Record{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		Filename:       filename,
		ExtractedText:  text,
		JobDescription: jobDescription,
		Status:         resume.StatusProcessing,
		CreatedAt:      time.Now().UTC(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.ID] = clone(record)

	return record, nil
}

func (m *Memory) Update(_ context.Context, record *resume.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[record.ID]; !ok {
		return resume.ErrRecordNotFound
	}
	m.records[record.ID] = clone(record)

	return nil
}

func (m *Memory) FindByID(_ context.Context, id uuid.UUID) (*resume.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[id]
	if !ok {
		return nil, resume.ErrRecordNotFound
	}

	return clone(record), nil
}

func (m *Memory) FindLatestByOwner(_ context.Context, ownerID string) (*resume.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest *resume.Record
	for _, record := range m.records {
		if record.OwnerID != ownerID {
			continue
		}
		if latest == nil || record.CreatedAt.After(latest.CreatedAt) {
			latest = record
		}
	}

	if latest == nil {
		return nil, resume.ErrRecordNotFound
	}

	return clone(latest), nil
}

func (m *Memory) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return resume.ErrRecordNotFound
	}
	delete(m.records, id)

	return nil
}

// clone copies the record and everything it owns, so stored state and caller
// state never share the analysis or its slices.
func clone(record *resume.Record) *resume.Record {
	copied := *record
	copied.Analysis = cloneAnalysis(record.Analysis)
	return &copied
}

func cloneAnalysis(analysis *ai.Analysis) *ai.Analysis {
	if analysis == nil {
		return nil
	}

	copied := *analysis
	copied.FoundKeywords = cloneBuckets(analysis.FoundKeywords)
	copied.MissingKeywords = cloneBuckets(analysis.MissingKeywords)
	if analysis.ActionableTips != nil {
		copied.ActionableTips = make([]ai.Tip, len(analysis.ActionableTips))
		copy(copied.ActionableTips, analysis.ActionableTips)
	}

	return &copied
}

func cloneBuckets(buckets ai.KeywordBuckets) ai.KeywordBuckets {
	buckets.HardSkills = cloneStrings(buckets.HardSkills)
	buckets.SoftSkills = cloneStrings(buckets.SoftSkills)
	buckets.Certifications = cloneStrings(buckets.Certifications)
	return buckets
}

func cloneStrings(items []string) []string {
	if items == nil {
		return nil
	}
	copied := make([]string, len(items))
	copy(copied, items)
	return copied
}
