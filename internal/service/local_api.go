package service

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/KoTeHok22/Locus-sub001/internal/domain"
	"github.com/KoTeHok22/Locus-sub001/internal/port"
)

// localAPI adapts the service layer to port.RecognitionAPI so the delivery
// workflow can run in-process, without the HTTP client, on behalf of one
// acting user.
type localAPI struct {
	docs       DocumentService
	deliveries DeliveryService
	actorID    uuid.UUID
}

// NewLocalAPI creates an in-process RecognitionAPI acting as the given user.
func NewLocalAPI(docs DocumentService, deliveries DeliveryService, actorID uuid.UUID) port.RecognitionAPI {
	return &localAPI{
		docs:       docs,
		deliveries: deliveries,
		actorID:    actorID,
	}
}

func (a *localAPI) RecognizeDocument(ctx context.Context, input port.SubmitScanInput) (uuid.UUID, error) {
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return uuid.Nil, fmt.Errorf("reading scan: %w", err)
	}

	doc, err := a.docs.SubmitScan(ctx, &SubmitScanInput{
		ProjectID:   input.ProjectID,
		UploaderID:  a.actorID,
		FileName:    input.FileName,
		ContentType: input.ContentType,
		FileSize:    int64(len(data)),
		Body:        bytes.NewReader(data),
	})
	if err != nil {
		return uuid.Nil, err
	}
	return doc.ID, nil
}

func (a *localAPI) GetRecognitionStatus(ctx context.Context, documentID uuid.UUID) (*domain.RecognitionResult, error) {
	return a.docs.GetStatus(ctx, documentID)
}

func (a *localAPI) CreateDelivery(ctx context.Context, input port.CreateDeliveryInput) (*domain.MaterialDelivery, error) {
	return a.deliveries.Create(ctx, &ConfirmDeliveryInput{
		ProjectID:    input.ProjectID,
		DocumentID:   input.DocumentID,
		ForemanID:    a.actorID,
		Items:        input.Items,
		DeliveryDate: input.DeliveryDate,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
	})
}

func (a *localAPI) UpdateDocument(ctx context.Context, documentID uuid.UUID, data domain.RecognizedData) error {
	_, err := a.docs.UpdateRecognizedData(ctx, documentID, data)
	return err
}
