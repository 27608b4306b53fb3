package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KoTeHok22/Locus-sub001/internal/domain"
	"github.com/KoTeHok22/Locus-sub001/internal/port"
)

// SubmitScanInput is the DTO for uploading a delivery note scan and queueing
// its recognition job.
type SubmitScanInput struct {
	ProjectID   uuid.UUID
	UploaderID  uuid.UUID
	FileName    string
	ContentType string
	FileSize    int64
	Body        io.Reader
}

// DocumentService defines the document recognition contract.
type DocumentService interface {
	// SubmitScan stores the scan and creates a pending recognition job. The
	// queue worker picks the job up asynchronously; callers poll GetStatus.
	SubmitScan(ctx context.Context, input *SubmitScanInput) (*domain.Document, error)
	GetByID(ctx context.Context, docID uuid.UUID) (*domain.Document, error)
	GetStatus(ctx context.Context, docID uuid.UUID) (*domain.RecognitionResult, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, offset, limit int) ([]domain.Document, int, error)
	UpdateRecognizedData(ctx context.Context, docID uuid.UUID, data domain.RecognizedData) (*domain.Document, error)
	GetScanURL(ctx context.Context, docID uuid.UUID) (string, error)

	// RecognizeDocument runs the recognition job for one claimed document.
	// It is called by the queue worker; the document must already be in the
	// processing status with RecognizeAttempts incremented.
	RecognizeDocument(ctx context.Context, doc *domain.Document, maxAttempts int)
}

type documentService struct {
	docRepo       port.DocumentRepository
	projectRepo   port.ProjectRepository
	recognizer    port.DocumentRecognizer
	storage       port.ObjectStorage
	bucket        string
	maxFileSize   int64
	presignExpiry int64
}

// NewDocumentService creates a new DocumentService implementation.
func NewDocumentService(
	docRepo port.DocumentRepository,
	projectRepo port.ProjectRepository,
	docRecognizer port.DocumentRecognizer,
	storage port.ObjectStorage,
	bucket string,
	maxFileSizeMB int64,
	presignExpiry int64,
) DocumentService {
	return &documentService{
		docRepo:       docRepo,
		projectRepo:   projectRepo,
		recognizer:    docRecognizer,
		storage:       storage,
		bucket:        bucket,
		maxFileSize:   maxFileSizeMB * 1024 * 1024,
		presignExpiry: presignExpiry,
	}
}

func (s *documentService) SubmitScan(ctx context.Context, input *SubmitScanInput) (*domain.Document, error) {
	if input.ProjectID == uuid.Nil {
		return nil, domain.ErrProjectRequired
	}
	if input.Body == nil || input.FileName == "" {
		return nil, domain.ErrFileRequired
	}
	if err := validateScanType(input.FileName, input.ContentType); err != nil {
		return nil, err
	}
	if s.maxFileSize > 0 && input.FileSize > s.maxFileSize {
		return nil, domain.ErrFileTooLarge
	}

	if _, err := s.projectRepo.GetByID(ctx, input.ProjectID); err != nil {
		return nil, err
	}

	docID := uuid.New()
	key := fmt.Sprintf("scans/%s/%s/%s", input.ProjectID, docID, sanitizeFileName(input.FileName))

	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.bucket,
		Key:         key,
		Body:        input.Body,
		ContentType: input.ContentType,
		Size:        input.FileSize,
	}); err != nil {
		log.Printf("documentService.SubmitScan: upload for %s failed: %v", docID, err)
		return nil, domain.ErrUploadFailed
	}

	doc := &domain.Document{
		ID:                docID,
		ProjectID:         input.ProjectID,
		UploaderID:        input.UploaderID,
		FileName:          input.FileName,
		ContentType:       input.ContentType,
		FileSize:          input.FileSize,
		S3Bucket:          s.bucket,
		S3Key:             key,
		RecognitionStatus: domain.RecognitionStatusPending,
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		// The scan object is orphaned without its document row; best effort
		// cleanup so the bucket does not accumulate them.
		if delErr := s.storage.Delete(ctx, s.bucket, key); delErr != nil {
			log.Printf("documentService.SubmitScan: orphan cleanup for %s failed: %v", key, delErr)
		}
		return nil, fmt.Errorf("creating document: %w", err)
	}

	log.Printf("documentService.SubmitScan: document %s queued for recognition (project %s)",
		doc.ID, input.ProjectID)
	return doc, nil
}

func (s *documentService) GetByID(ctx context.Context, docID uuid.UUID) (*domain.Document, error) {
	return s.docRepo.GetByID(ctx, docID)
}

func (s *documentService) GetStatus(ctx context.Context, docID uuid.UUID) (*domain.RecognitionResult, error) {
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	return &domain.RecognitionResult{
		DocumentID:     doc.ID,
		Status:         doc.RecognitionStatus,
		RecognizedData: doc.RecognizedData,
	}, nil
}

func (s *documentService) ListByProject(ctx context.Context, projectID uuid.UUID, offset, limit int) ([]domain.Document, int, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, 0, err
	}
	return s.docRepo.ListByProject(ctx, projectID, offset, limit)
}

func (s *documentService) UpdateRecognizedData(ctx context.Context, docID uuid.UUID, data domain.RecognizedData) (*domain.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if doc.RecognitionStatus != domain.RecognitionStatusCompleted {
		return nil, domain.ErrDocumentNotCompleted
	}

	if err := s.docRepo.UpdateRecognizedData(ctx, docID, data); err != nil {
		return nil, fmt.Errorf("updating recognized data: %w", err)
	}
	doc.RecognizedData = data
	return doc, nil
}

func (s *documentService) GetScanURL(ctx context.Context, docID uuid.UUID) (string, error) {
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return "", err
	}
	return s.storage.GetPresignedURL(ctx, doc.S3Bucket, doc.S3Key, s.presignExpiry)
}

// RecognizeDocument downloads the scan, runs the vision model, and records
// the outcome. A transient failure puts the document back in the pending
// queue until maxAttempts is exhausted; after that it is marked failed.
func (s *documentService) RecognizeDocument(ctx context.Context, doc *domain.Document, maxAttempts int) {
	fileBytes, err := s.storage.Download(ctx, doc.S3Bucket, doc.S3Key)
	if err != nil {
		s.handleRecognitionError(ctx, doc, fmt.Errorf("downloading scan: %w", err), maxAttempts)
		return
	}

	data, err := s.recognizer.Recognize(ctx, port.RecognizeInput{
		FileBytes:   fileBytes,
		ContentType: doc.ContentType,
	})
	if err != nil {
		s.handleRecognitionError(ctx, doc, err, maxAttempts)
		return
	}

	now := time.Now().UTC()
	doc.RecognitionStatus = domain.RecognitionStatusCompleted
	doc.RecognitionError = ""
	doc.RecognizedData = data
	doc.RecognizedAt = &now

	if err := s.docRepo.UpdateRecognition(ctx, doc); err != nil {
		log.Printf("documentService.RecognizeDocument: failed to save results for %s: %v", doc.ID, err)
		return
	}
	log.Printf("documentService.RecognizeDocument: document %s recognized (%d documents, attempt %d)",
		doc.ID, len(data), doc.RecognizeAttempts)
}

func (s *documentService) handleRecognitionError(ctx context.Context, doc *domain.Document, cause error, maxAttempts int) {
	if doc.RecognizeAttempts < maxAttempts {
		log.Printf("documentService: document %s attempt %d/%d failed, requeueing: %v",
			doc.ID, doc.RecognizeAttempts, maxAttempts, cause)
		doc.RecognitionStatus = domain.RecognitionStatusPending
		doc.RecognitionError = cause.Error()
		if err := s.docRepo.UpdateRecognition(ctx, doc); err != nil {
			log.Printf("documentService: failed to requeue document %s: %v", doc.ID, err)
		}
		return
	}

	log.Printf("documentService: document %s failed permanently after %d attempts: %v",
		doc.ID, doc.RecognizeAttempts, cause)
	doc.RecognitionStatus = domain.RecognitionStatusFailed
	doc.RecognitionError = cause.Error()
	if err := s.docRepo.UpdateRecognition(ctx, doc); err != nil {
		log.Printf("documentService: failed to mark document %s failed: %v", doc.ID, err)
	}
}

func validateScanType(fileName, contentType string) error {
	if _, ok := domain.AllowedContentTypes[contentType]; !ok {
		return domain.ErrUnsupportedFileType
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	if _, ok := domain.AllowedExtensions[ext]; !ok {
		return domain.ErrUnsupportedFileType
	}
	return nil
}

func sanitizeFileName(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
