package resume

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/resumatch/resumatch/internal/ai"
)

// Status of one analysis attempt. A record is created in processing and makes
// exactly one transition to completed or failed.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// ErrRecordNotFound is returned by stores when no record matches the query.
var ErrRecordNotFound = errors.New("resume record not found")

var errTerminalState = errors.New("record already in terminal state")

// Record tracks one resume analysis attempt: its owner, the extracted text
// and, once the analysis completes, the AI-derived result.
type Record struct {
	ID             uuid.UUID
	OwnerID        string
	Filename       string
	ExtractedText  string
	JobDescription string
	Analysis       *ai.Analysis
	Status         Status
	CreatedAt      time.Time
}

// Complete transitions the record from processing to completed, attaching the
// analysis. Both are written together so a completed record always carries a
// structurally valid analysis.
func (r *Record) Complete(analysis *ai.Analysis) error {
	if r.Status != StatusProcessing {
		return fmt.Errorf("%w: %s", errTerminalState, r.Status)
	}
	if analysis == nil {
		return errors.New("completed record requires an analysis")
	}

	r.Analysis = analysis
	r.Status = StatusCompleted
	return nil
}

// Fail transitions the record from processing to failed. Any analysis from a
// prior attempt is left untouched; failed records stay queryable as evidence
// of the attempt.
func (r *Record) Fail() error {
	if r.Status != StatusProcessing {
		return fmt.Errorf("%w: %s", errTerminalState, r.Status)
	}

	r.Status = StatusFailed
	return nil
}

// Store is the opaque record store consumed by the lifecycle manager.
// Implementations live in internal/store.
type Store interface {
	Create(ctx context.Context, ownerID, filename, text, jobDescription string) (*Record, error)
	Update(ctx context.Context, record *Record) error
	FindByID(ctx context.Context, id uuid.UUID) (*Record, error)
	FindLatestByOwner(ctx context.Context, ownerID string) (*Record, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
