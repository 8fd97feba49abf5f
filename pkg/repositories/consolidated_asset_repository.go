package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/vitalpark/fleet-engine/pkg/database"
	"github.com/vitalpark/fleet-engine/pkg/models"
)

// ConsolidatedAssetRepository provides data access for the consolidated
// equipment table.
type ConsolidatedAssetRepository interface {
	// ReplaceAll swaps the stored table for the given run's assets in one
	// transaction, so readers never observe a partially loaded run.
	ReplaceAll(ctx context.Context, runID uuid.UUID, assets []models.ConsolidatedAsset) error

	// ListRanked returns assets in priority-rank order, highest priority
	// first. A limit of 0 returns every asset.
	ListRanked(ctx context.Context, limit int) ([]models.ConsolidatedAsset, error)

	// Count returns the number of stored assets.
	Count(ctx context.Context) (int, error)
}

// querier is the slice of pool behavior the repository uses. Tests
// substitute it to exercise the transaction flow without a server.
type querier interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type consolidatedAssetRepository struct {
	db querier
}

// NewConsolidatedAssetRepository creates a new ConsolidatedAssetRepository.
func NewConsolidatedAssetRepository(db *database.DB) ConsolidatedAssetRepository {
	return &consolidatedAssetRepository{db: db}
}

var _ ConsolidatedAssetRepository = (*consolidatedAssetRepository)(nil)

func (r *consolidatedAssetRepository) ReplaceAll(ctx context.Context, runID uuid.UUID, assets []models.ConsolidatedAsset) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE engine_consolidated_assets`); err != nil {
		return fmt.Errorf("failed to clear consolidated assets: %w", err)
	}

	query := `
		INSERT INTO engine_consolidated_assets (
			identifier, equipment_type, model, brand, location,
			acquired_at, value, criticality_weight,
			order_count, open_order_count, total_external_cost,
			last_service_at, priority_score, priority_rank, run_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	batch := &pgx.Batch{}
	for _, a := range assets {
		var value *string
		if a.Value.Valid {
			v := a.Value.Decimal.String()
			value = &v
		}
		batch.Queue(query,
			a.Identifier,
			a.EquipmentType,
			a.Model,
			a.Brand,
			a.Location,
			a.AcquiredAt,
			value,
			a.CriticalityWeight,
			a.OrderCount,
			a.OpenOrderCount,
			a.TotalExternalCost.String(),
			a.LastServiceAt,
			a.PriorityScore,
			a.PriorityRank,
			runID,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert consolidated assets: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit consolidated assets: %w", err)
	}
	return nil
}

func (r *consolidatedAssetRepository) ListRanked(ctx context.Context, limit int) ([]models.ConsolidatedAsset, error) {
	query := `
		SELECT identifier, equipment_type, model, brand, location,
		       acquired_at, value::text, criticality_weight,
		       order_count, open_order_count, total_external_cost::text,
		       last_service_at, priority_score, priority_rank
		FROM engine_consolidated_assets
		ORDER BY priority_rank ASC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query consolidated assets: %w", err)
	}
	defer rows.Close()

	var assets []models.ConsolidatedAsset
	for rows.Next() {
		var a models.ConsolidatedAsset
		var value *string
		var totalCost string
		if err := rows.Scan(
			&a.Identifier,
			&a.EquipmentType,
			&a.Model,
			&a.Brand,
			&a.Location,
			&a.AcquiredAt,
			&value,
			&a.CriticalityWeight,
			&a.OrderCount,
			&a.OpenOrderCount,
			&totalCost,
			&a.LastServiceAt,
			&a.PriorityScore,
			&a.PriorityRank,
		); err != nil {
			return nil, fmt.Errorf("failed to scan consolidated asset: %w", err)
		}
		if a.TotalExternalCost, err = decimal.NewFromString(totalCost); err != nil {
			return nil, fmt.Errorf("failed to parse total_external_cost: %w", err)
		}
		if value != nil {
			v, err := decimal.NewFromString(*value)
			if err != nil {
				return nil, fmt.Errorf("failed to parse value: %w", err)
			}
			a.Value = decimal.NullDecimal{Decimal: v, Valid: true}
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate consolidated assets: %w", err)
	}
	return assets, nil
}

func (r *consolidatedAssetRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM engine_consolidated_assets`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count consolidated assets: %w", err)
	}
	return count, nil
}
