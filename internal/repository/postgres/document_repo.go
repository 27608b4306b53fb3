package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/KoTeHok22/Locus-sub001/internal/domain"
	"github.com/KoTeHok22/Locus-sub001/internal/port"
)

type documentRepo struct {
	db *sqlx.DB
}

// NewDocumentRepo creates a new PostgreSQL-backed DocumentRepository.
func NewDocumentRepo(db *sqlx.DB) port.DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, doc *domain.Document) error {
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	query := `INSERT INTO documents (
		id, project_id, uploader_id, file_name, content_type, file_size,
		s3_bucket, s3_key, recognition_status, recognition_error,
		recognized_data, recognize_attempts, recognized_at,
		created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6,
		$7, $8, $9, $10,
		$11, $12, $13,
		$14, $15
	)`

	_, err := r.db.ExecContext(ctx, query,
		doc.ID, doc.ProjectID, doc.UploaderID, doc.FileName, doc.ContentType, doc.FileSize,
		doc.S3Bucket, doc.S3Key, doc.RecognitionStatus, doc.RecognitionError,
		doc.RecognizedData, doc.RecognizeAttempts, doc.RecognizedAt,
		doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("documentRepo.Create: %w", err)
	}
	return nil
}

func (r *documentRepo) GetByID(ctx context.Context, docID uuid.UUID) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.GetContext(ctx, &doc,
		"SELECT * FROM documents WHERE id = $1", docID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetByID: %w", err)
	}
	return &doc, nil
}

func (r *documentRepo) ListByProject(ctx context.Context, projectID uuid.UUID, offset, limit int) ([]domain.Document, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM documents WHERE project_id = $1", projectID)
	if err != nil {
		return nil, 0, fmt.Errorf("documentRepo.ListByProject count: %w", err)
	}

	var docs []domain.Document
	err = r.db.SelectContext(ctx, &docs,
		`SELECT * FROM documents WHERE project_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		projectID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("documentRepo.ListByProject: %w", err)
	}
	return docs, total, nil
}

// ClaimPending atomically claims up to limit pending documents. Ordering by
// updated_at puts requeued documents behind fresh uploads.
func (r *documentRepo) ClaimPending(ctx context.Context, limit int) ([]domain.Document, error) {
	var docs []domain.Document
	err := r.db.SelectContext(ctx, &docs,
		`UPDATE documents SET recognition_status = $1, updated_at = NOW()
		 WHERE id IN (
			SELECT id FROM documents
			WHERE recognition_status = $2
			ORDER BY updated_at
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		 )
		 RETURNING *`,
		domain.RecognitionStatusProcessing, domain.RecognitionStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("documentRepo.ClaimPending: %w", err)
	}
	return docs, nil
}

func (r *documentRepo) UpdateRecognition(ctx context.Context, doc *domain.Document) error {
	doc.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE documents SET
			recognition_status = $1, recognition_error = $2,
			recognized_data = $3, recognize_attempts = $4,
			recognized_at = $5, updated_at = $6
		 WHERE id = $7`,
		doc.RecognitionStatus, doc.RecognitionError,
		doc.RecognizedData, doc.RecognizeAttempts,
		doc.RecognizedAt, doc.UpdatedAt,
		doc.ID)
	if err != nil {
		return fmt.Errorf("documentRepo.UpdateRecognition: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (r *documentRepo) UpdateRecognizedData(ctx context.Context, docID uuid.UUID, data domain.RecognizedData) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE documents SET recognized_data = $1, updated_at = NOW() WHERE id = $2`,
		data, docID)
	if err != nil {
		return fmt.Errorf("documentRepo.UpdateRecognizedData: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}
