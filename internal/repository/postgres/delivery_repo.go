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

type deliveryRepo struct {
	db *sqlx.DB
}

// NewDeliveryRepo creates a new PostgreSQL-backed DeliveryRepository.
func NewDeliveryRepo(db *sqlx.DB) port.DeliveryRepository {
	return &deliveryRepo{db: db}
}

// Create inserts the delivery and its items in one transaction so a partial
// write can never leave a delivery without lines.
func (r *deliveryRepo) Create(ctx context.Context, delivery *domain.MaterialDelivery) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("deliveryRepo.Create begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	delivery.CreatedAt = time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO material_deliveries
			(id, project_id, document_id, foreman_id, delivery_date, latitude, longitude, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		delivery.ID, delivery.ProjectID, delivery.DocumentID, delivery.ForemanID,
		delivery.DeliveryDate, delivery.Latitude, delivery.Longitude, delivery.CreatedAt)
	if err != nil {
		return fmt.Errorf("deliveryRepo.Create delivery: %w", err)
	}

	for i := range delivery.Items {
		item := &delivery.Items[i]
		item.DeliveryID = delivery.ID
		_, err = tx.ExecContext(ctx,
			`INSERT INTO material_delivery_items
				(id, delivery_id, material_id, material_name, unit, quantity, line_no)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			item.ID, item.DeliveryID, item.MaterialID, item.MaterialName, item.Unit, item.Quantity, item.LineNo)
		if err != nil {
			return fmt.Errorf("deliveryRepo.Create item %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("deliveryRepo.Create commit: %w", err)
	}
	return nil
}

func (r *deliveryRepo) GetByDocumentID(ctx context.Context, docID uuid.UUID) (*domain.MaterialDelivery, error) {
	var delivery domain.MaterialDelivery
	err := r.db.GetContext(ctx, &delivery,
		"SELECT * FROM material_deliveries WHERE document_id = $1", docID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("deliveryRepo.GetByDocumentID: %w", err)
	}
	if err := r.loadItems(ctx, &delivery); err != nil {
		return nil, err
	}
	return &delivery, nil
}

func (r *deliveryRepo) ListByProject(ctx context.Context, projectID uuid.UUID, offset, limit int) ([]domain.MaterialDelivery, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM material_deliveries WHERE project_id = $1", projectID)
	if err != nil {
		return nil, 0, fmt.Errorf("deliveryRepo.ListByProject count: %w", err)
	}

	var deliveries []domain.MaterialDelivery
	err = r.db.SelectContext(ctx, &deliveries,
		`SELECT * FROM material_deliveries WHERE project_id = $1
		 ORDER BY delivery_date DESC, created_at DESC LIMIT $2 OFFSET $3`,
		projectID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("deliveryRepo.ListByProject: %w", err)
	}
	for i := range deliveries {
		if err := r.loadItems(ctx, &deliveries[i]); err != nil {
			return nil, 0, err
		}
	}
	return deliveries, total, nil
}

// loadItems reads the delivery lines back in waybill order.
func (r *deliveryRepo) loadItems(ctx context.Context, delivery *domain.MaterialDelivery) error {
	err := r.db.SelectContext(ctx, &delivery.Items,
		"SELECT * FROM material_delivery_items WHERE delivery_id = $1 ORDER BY line_no",
		delivery.ID)
	if err != nil {
		return fmt.Errorf("deliveryRepo.loadItems: %w", err)
	}
	return nil
}
