package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/KoTeHok22/Locus-sub001/internal/domain"
	"github.com/KoTeHok22/Locus-sub001/internal/port"
)

type materialRepo struct {
	db *sqlx.DB
}

// NewMaterialRepo creates a new PostgreSQL-backed MaterialRepository.
func NewMaterialRepo(db *sqlx.DB) port.MaterialRepository {
	return &materialRepo{db: db}
}

func (r *materialRepo) GetByName(ctx context.Context, name string) (*domain.Material, error) {
	var material domain.Material
	err := r.db.GetContext(ctx, &material,
		"SELECT * FROM materials WHERE lower(name) = lower($1)", name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("materialRepo.GetByName: %w", err)
	}
	return &material, nil
}

func (r *materialRepo) Create(ctx context.Context, material *domain.Material) error {
	material.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO materials (id, name, unit, created_at) VALUES ($1, $2, $3, $4)",
		material.ID, material.Name, material.Unit, material.CreatedAt)
	if err != nil {
		return fmt.Errorf("materialRepo.Create: %w", err)
	}
	return nil
}
