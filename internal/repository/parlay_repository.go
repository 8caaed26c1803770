// Package repository persists built parlays for later review.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/sgp-builder/internal/database"
	"github.com/yourusername/sgp-builder/internal/models"
)

// ParlayRepository stores and retrieves parlay history.
type ParlayRepository interface {
	Record(ctx context.Context, record *models.ParlayRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ParlayRecord, error)
	RecentByEvent(ctx context.Context, eventRef string, limit int) ([]*models.ParlayRecord, error)
}

// PostgresParlayRepository implements ParlayRepository for PostgreSQL
type PostgresParlayRepository struct {
	db *database.DB
}

// NewPostgresParlayRepository creates a new parlay history repository
func NewPostgresParlayRepository(db *database.DB) ParlayRepository {
	return &PostgresParlayRepository{db: db}
}

// Record inserts a built parlay. Legs are stored as a JSONB document
// since they are read back whole, never queried per-field.
func (r *PostgresParlayRepository) Record(ctx context.Context, record *models.ParlayRecord) error {
	legs, err := json.Marshal(record.Legs)
	if err != nil {
		return fmt.Errorf("failed to encode legs: %w", err)
	}

	query := `
		INSERT INTO parlays (id, event_ref, legs, combined_odds, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = r.db.GetPool().Exec(ctx, query,
		record.ID, record.EventRef, legs, record.CombinedOdds, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record parlay: %w", err)
	}

	return nil
}

// GetByID retrieves one parlay record.
func (r *PostgresParlayRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ParlayRecord, error) {
	query := `
		SELECT id, event_ref, legs, combined_odds, created_at
		FROM parlays WHERE id = $1
	`

	record := &models.ParlayRecord{}
	var legs []byte
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&record.ID, &record.EventRef, &legs, &record.CombinedOdds, &record.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get parlay: %w", err)
	}

	if err := json.Unmarshal(legs, &record.Legs); err != nil {
		return nil, fmt.Errorf("failed to decode legs: %w", err)
	}
	return record, nil
}

// RecentByEvent lists the latest parlays built for an event reference.
func (r *PostgresParlayRepository) RecentByEvent(ctx context.Context, eventRef string, limit int) ([]*models.ParlayRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, event_ref, legs, combined_odds, created_at
		FROM parlays
		WHERE event_ref = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.GetPool().Query(ctx, query, eventRef, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list parlays: %w", err)
	}
	defer rows.Close()

	var records []*models.ParlayRecord
	for rows.Next() {
		record := &models.ParlayRecord{}
		var legs []byte
		if err := rows.Scan(&record.ID, &record.EventRef, &legs, &record.CombinedOdds, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan parlay: %w", err)
		}
		if err := json.Unmarshal(legs, &record.Legs); err != nil {
			return nil, fmt.Errorf("failed to decode legs: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
