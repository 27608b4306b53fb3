package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/KoTeHok22/Locus-sub001/internal/port"
)

// RecognitionQueueConfig holds settings for the recognition queue worker.
type RecognitionQueueConfig struct {
	PollInterval time.Duration
	MaxRetries   int
	Concurrency  int
}

// RecognitionQueueWorker polls for pending scans and dispatches them to the
// recognizer. Claiming is atomic at the repository level, so several worker
// instances can run against the same database.
type RecognitionQueueWorker struct {
	docRepo    port.DocumentRepository
	docService DocumentService
	cfg        RecognitionQueueConfig
	wg         sync.WaitGroup
}

// NewRecognitionQueueWorker creates a new RecognitionQueueWorker.
func NewRecognitionQueueWorker(docRepo port.DocumentRepository, docService DocumentService, cfg RecognitionQueueConfig) *RecognitionQueueWorker {
	return &RecognitionQueueWorker{
		docRepo:    docRepo,
		docService: docService,
		cfg:        cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight recognitions have finished.
func (w *RecognitionQueueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("recognitionQueueWorker: started (poll=%s, concurrency=%d, maxRetries=%d)",
		w.cfg.PollInterval, w.cfg.Concurrency, w.cfg.MaxRetries)

	for {
		select {
		case <-ctx.Done():
			log.Printf("recognitionQueueWorker: shutting down, waiting for in-flight jobs...")
			w.wg.Wait()
			log.Printf("recognitionQueueWorker: shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}

			docs, err := w.docRepo.ClaimPending(ctx, available)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				log.Printf("recognitionQueueWorker: ClaimPending error: %v", err)
				continue
			}

			for i := range docs {
				doc := docs[i] // copy for goroutine
				doc.RecognizeAttempts++

				sem <- struct{}{} // acquire
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }() // release

					// Use a fresh context independent of the poll context
					// so in-flight jobs complete even during shutdown.
					jobCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
					defer cancel()

					log.Printf("recognitionQueueWorker: dispatching document %s (attempt %d)", doc.ID, doc.RecognizeAttempts)
					w.docService.RecognizeDocument(jobCtx, &doc, w.cfg.MaxRetries)
				}()
			}
		}
	}
}
