package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"home-energy-audit/internal/models"
)

// SchemaSQL creates the reference tables.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS rebates (
	id               TEXT PRIMARY KEY,
	name             TEXT NOT NULL,
	measure_category TEXT NOT NULL,
	amount           DOUBLE PRECISION NOT NULL DEFAULT 0,
	percent          DOUBLE PRECISION NOT NULL DEFAULT 0,
	max_amount       DOUBLE PRECISION NOT NULL DEFAULT 0,
	regions          TEXT NOT NULL DEFAULT '',
	income_brackets  TEXT NOT NULL DEFAULT '',
	source           TEXT,
	is_active        BOOLEAN NOT NULL DEFAULT true,
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_rebates_category ON rebates (measure_category) WHERE is_active;

CREATE TABLE IF NOT EXISTS eui_benchmarks (
	region     TEXT PRIMARY KEY,
	target_eui DOUBLE PRECISION NOT NULL CHECK (target_eui > 0)
);
`

// Migrate creates the reference schema if it does not exist.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, SchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SeedReference upserts rebates and benchmarks in a single transaction.
func (db *DB) SeedReference(ctx context.Context, rebates []models.RebateEntry, benchmarks map[models.Region]float64) error {
	return db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for _, r := range rebates {
			regions, err := jsonList(r.Regions)
			if err != nil {
				return err
			}
			brackets, err := jsonList(r.IncomeBrackets)
			if err != nil {
				return err
			}

			_, err = tx.Exec(ctx, `
				INSERT INTO rebates (id, name, measure_category, amount, percent, max_amount, regions, income_brackets, source)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				ON CONFLICT (id) DO UPDATE SET
					name = EXCLUDED.name,
					measure_category = EXCLUDED.measure_category,
					amount = EXCLUDED.amount,
					percent = EXCLUDED.percent,
					max_amount = EXCLUDED.max_amount,
					regions = EXCLUDED.regions,
					income_brackets = EXCLUDED.income_brackets,
					source = EXCLUDED.source,
					is_active = true,
					updated_at = now()`,
				r.ID, r.Name, string(r.MeasureCategory), r.Amount, r.Percent, r.MaxAmount, regions, brackets, r.Source,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert rebate %s: %w", r.ID, err)
			}
		}

		for region, eui := range benchmarks {
			_, err := tx.Exec(ctx, `
				INSERT INTO eui_benchmarks (region, target_eui) VALUES ($1, $2)
				ON CONFLICT (region) DO UPDATE SET target_eui = EXCLUDED.target_eui`,
				string(region), eui,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert benchmark %s: %w", region, err)
			}
		}
		return nil
	})
}

// jsonList encodes a list column; empty lists are stored as an empty string.
func jsonList[T ~string](values []T) (string, error) {
	if len(values) == 0 {
		return "", nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to marshal list: %w", err)
	}
	return string(data), nil
}
