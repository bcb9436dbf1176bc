package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/resumatch/resumatch/internal/ai"
	"github.com/resumatch/resumatch/internal/resume"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Postgres persists records through GORM. The analysis is stored as a JSON
// column; single-document atomicity is all the pipeline needs.
type Postgres struct {
	db *gorm.DB
}

type recordModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID        string    `gorm:"index"`
	Filename       string
	ExtractedText  string `gorm:"type:text"`
	JobDescription string `gorm:"type:text"`
	Analysis       []byte `gorm:"type:jsonb"`
	Status         string
	CreatedAt      time.Time
}

func (recordModel) TableName() string { return "resume_records" }

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := db.AutoMigrate(&recordModel{}); err != nil {
		return nil, fmt.Errorf("migrate resume_records: %w", err)
	}

	return &Postgres{db: db}, nil
}

func (p *Postgres) Create(ctx context.Context, ownerID, filename, text, jobDescription string) (*resume.Record, error) {
	record := &resume.Record{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		Filename:       filename,
		ExtractedText:  text,
		JobDescription: jobDescription,
		Status:         resume.StatusProcessing,
		CreatedAt:      time.Now().UTC(),
	}

	model, err := toModel(record)
	if err != nil {
		return nil, err
	}

	if err := p.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, fmt.Errorf("insert record: %w", err)
	}

	return record, nil
}

func (p *Postgres) Update(ctx context.Context, record *resume.Record) error {
	model, err := toModel(record)
	if err != nil {
		return err
	}

	result := p.db.WithContext(ctx).Model(&recordModel{}).Where("id = ?", record.ID).Updates(map[string]any{
		"status":   model.Status,
		"analysis": model.Analysis,
	})
	if result.Error != nil {
		return fmt.Errorf("update record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return resume.ErrRecordNotFound
	}

	return nil
}

func (p *Postgres) FindByID(ctx context.Context, id uuid.UUID) (*resume.Record, error) {
	var model recordModel
	err := p.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, resume.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find record: %w", err)
	}

	return fromModel(&model)
}

func (p *Postgres) FindLatestByOwner(ctx context.Context, ownerID string) (*resume.Record, error) {
	var model recordModel
	err := p.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, resume.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find latest record: %w", err)
	}

	return fromModel(&model)
}

func (p *Postgres) Delete(ctx context.Context, id uuid.UUID) error {
	result := p.db.WithContext(ctx).Delete(&recordModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return resume.ErrRecordNotFound
	}

	return nil
}

func toModel(record *resume.Record) (*recordModel, error) {
	model := &recordModel{
		ID:             record.ID,
		OwnerID:        record.OwnerID,
		Filename:       record.Filename,
		ExtractedText:  record.ExtractedText,
		JobDescription: record.JobDescription,
		Status:         string(record.Status),
		CreatedAt:      record.CreatedAt,
	}

	if record.Analysis != nil {
		data, err := json.Marshal(record.Analysis)
		if err != nil {
			return nil, fmt.Errorf("marshal analysis: %w", err)
		}
		model.Analysis = data
	}

	return model, nil
}

func fromModel(model *recordModel) (*resume.Record, error) {
	record := &resume.Record{
		ID:             model.ID,
		OwnerID:        model.OwnerID,
		Filename:       model.Filename,
		ExtractedText:  model.ExtractedText,
		JobDescription: model.JobDescription,
		Status:         resume.Status(model.Status),
		CreatedAt:      model.CreatedAt,
	}

	if len(model.Analysis) > 0 {
		var analysis ai.Analysis
		if err := json.Unmarshal(model.Analysis, &analysis); err != nil {
			return nil, fmt.Errorf("unmarshal analysis: %w", err)
		}
		record.Analysis = &analysis
	}

	return record, nil
}
