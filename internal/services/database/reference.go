package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"home-energy-audit/internal/models"
	"home-energy-audit/internal/services/reference"
	"home-energy-audit/internal/utils"
)

// ReferenceRepository reads rebate and benchmark tables.
type ReferenceRepository struct {
	db *sql.DB
}

// NewReferenceRepository creates a new reference repository.
func NewReferenceRepository(db *sql.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

// LoadRebates returns every active rebate ordered by id.
func (r *ReferenceRepository) LoadRebates(ctx context.Context) ([]models.RebateEntry, error) {
	query := `
		SELECT id, name, measure_category, amount, percent, max_amount,
			regions, income_brackets, source
		FROM rebates
		WHERE is_active = true
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rebates: %w", err)
	}
	defer rows.Close()

	rebates := make([]models.RebateEntry, 0)
	for rows.Next() {
		var (
			entry       models.RebateEntry
			category    string
			regionsJSON string
			incomeJSON  string
			source      sql.NullString
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.Name,
			&category,
			&entry.Amount,
			&entry.Percent,
			&entry.MaxAmount,
			&regionsJSON,
			&incomeJSON,
			&source,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rebate: %w", err)
		}

		entry.MeasureCategory = models.MeasureCategory(category)
		entry.Source = source.String

		if regionsJSON != "" {
			if err := json.Unmarshal([]byte(regionsJSON), &entry.Regions); err != nil {
				return nil, fmt.Errorf("failed to unmarshal regions for rebate %s: %w", entry.ID, err)
			}
		}
		if incomeJSON != "" {
			if err := json.Unmarshal([]byte(incomeJSON), &entry.IncomeBrackets); err != nil {
				return nil, fmt.Errorf("failed to unmarshal income brackets for rebate %s: %w", entry.ID, err)
			}
		}

		rebates = append(rebates, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rebates: %w", err)
	}

	return rebates, nil
}

// LoadBenchmarks returns the target EUI per region.
func (r *ReferenceRepository) LoadBenchmarks(ctx context.Context) (map[models.Region]float64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT region, target_eui FROM eui_benchmarks`)
	if err != nil {
		return nil, fmt.Errorf("failed to query benchmarks: %w", err)
	}
	defer rows.Close()

	benchmarks := make(map[models.Region]float64)
	for rows.Next() {
		var region string
		var eui float64
		if err := rows.Scan(&region, &eui); err != nil {
			return nil, fmt.Errorf("failed to scan benchmark: %w", err)
		}
		benchmarks[models.Region(region)] = eui
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate benchmarks: %w", err)
	}

	return benchmarks, nil
}

// LoadTables reads both tables. An empty benchmark table falls back to the built-in values.
func (r *ReferenceRepository) LoadTables(ctx context.Context) (*reference.Tables, error) {
	rebates, err := r.LoadRebates(ctx)
	if err != nil {
		return nil, err
	}
	benchmarks, err := r.LoadBenchmarks(ctx)
	if err != nil {
		return nil, err
	}
	if len(benchmarks) == 0 {
		utils.GetLogger().Warn("No EUI benchmarks in database, using built-in values")
		benchmarks = reference.BuiltinBenchmarks()
	}

	utils.GetLogger().Info("Loaded reference tables from database",
		zap.Int("rebates", len(rebates)),
		zap.Int("benchmarks", len(benchmarks)),
	)

	return &reference.Tables{
		Rebates:    rebates,
		Benchmarks: benchmarks,
		Source:     "database",
	}, nil
}
