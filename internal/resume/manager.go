package resume

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/resumatch/resumatch/internal/ai"
	"github.com/resumatch/resumatch/internal/extract"
	"go.uber.org/zap"
)

// Extractor converts an uploaded document into cleaned plain text.
type Extractor func(path, originalName string) (string, error)

// Manager owns the record lifecycle around one analysis attempt. It is the
// only writer of any record it creates.
type Manager struct {
	store     Store
	analyzer  ai.Analyzer
	extractor Extractor
	logger    *zap.Logger
}

func NewManager(store Store, analyzer ai.Analyzer, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Manager{
		store:     store,
		analyzer:  analyzer,
		extractor: extract.ExtractFile,
		logger:    logger,
	}
}

// Process runs the full pipeline for one uploaded resume: extraction, record
// creation, AI analysis, terminal transition. The temp upload at uploadPath
// is deleted on every exit path so sensitive documents do not accumulate on
// disk.
//
// Extraction failures abort before any record exists. Analysis failures move
// the already-created record to failed and return it alongside the original
// error so the caller can surface both.
func (m *Manager) Process(ctx context.Context, ownerID, uploadPath, originalName, jobDescription string) (*Record, error) {
	defer func() {
		if err := os.Remove(uploadPath); err != nil && !os.IsNotExist(err) {
			m.logger.Warn("removing temp upload", zap.String("path", uploadPath), zap.Error(err))
		}
	}()

	text, err := m.extractor(uploadPath, originalName)
	if err != nil {
		return nil, err
	}

	// The record exists before the AI call is issued, so an auditable trace
	// survives even if the backend never answers.
	record, err := m.store.Create(ctx, ownerID, originalName, text, jobDescription)
	if err != nil {
		return nil, fmt.Errorf("create record: %w", err)
	}

	m.logger.Info("record created",
		zap.String("record_id", record.ID.String()),
		zap.String("filename", originalName),
		zap.Int("text_length", len(text)),
	)

	analysis, err := m.analyzer.Analyze(ctx, text, jobDescription)
	if err != nil {
		if ferr := record.Fail(); ferr != nil {
			m.logger.Error("marking record failed", zap.Error(ferr))
		}
		if uerr := m.store.Update(ctx, record); uerr != nil {
			m.logger.Error("persisting failed record", zap.Error(uerr))
		}

		m.logger.Warn("analysis failed",
			zap.String("record_id", record.ID.String()),
			zap.Error(err),
		)

		return record, err
	}

	if err := record.Complete(analysis); err != nil {
		return record, err
	}
	if err := m.store.Update(ctx, record); err != nil {
		return record, fmt.Errorf("persist analysis: %w", err)
	}

	m.logger.Info("analysis completed",
		zap.String("record_id", record.ID.String()),
		zap.Int("match_score", analysis.MatchScore),
	)

	return record, nil
}

// Find resolves a record either by explicit ID or, when recordID is empty,
// by the owner's most recent attempt.
func (m *Manager) Find(ctx context.Context, ownerID, recordID string) (*Record, error) {
	if recordID == "" {
		return m.store.FindLatestByOwner(ctx, ownerID)
	}

	id, err := uuid.Parse(recordID)
	if err != nil {
		return nil, fmt.Errorf("invalid record id %q: %w", recordID, err)
	}

	return m.store.FindByID(ctx, id)
}

// Delete removes a record. Terminal records stay queryable as evidence of the
// attempt until explicitly deleted; this is the only mutation allowed after a
// terminal transition.
func (m *Manager) Delete(ctx context.Context, recordID string) error {
	id, err := uuid.Parse(recordID)
	if err != nil {
		return fmt.Errorf("invalid record id %q: %w", recordID, err)
	}

	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}

	m.logger.Info("record deleted", zap.String("record_id", id.String()))
	return nil
}
