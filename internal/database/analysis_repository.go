package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/enerlytic/solarplan-go/internal/models"
)

// DatabasePool defines the interface for database pool operations.
// This interface allows for both real pool and mock pool implementations.
type DatabasePool interface {
	// QueryRow executes a query that is expected to return at most one row.
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	// Exec executes a query without returning any rows.
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	// Query executes a query that returns rows.
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// AnalysisRepository persists completed feasibility analyses.
type AnalysisRepository struct {
	pool DatabasePool
}

// NewAnalysisRepository creates a new analysis repository.
func NewAnalysisRepository(pool DatabasePool) *AnalysisRepository {
	return &AnalysisRepository{
		pool: pool,
	}
}

// Save stores a feasibility result under a fresh id and returns the persisted
// record. locationName is the request's display name, which may be empty for
// coordinate-only requests.
func (r *AnalysisRepository) Save(ctx context.Context, locationName string, result *models.FeasibilityResult) (*models.AnalysisRecord, error) {
	record := models.AnalysisRecord{
		ID:                 uuid.New().String(),
		Location:           locationName,
		Latitude:           result.Location.Latitude,
		Longitude:          result.Location.Longitude,
		RoofAreaM2:         result.System.RoofAreaM2,
		Orientation:        result.System.Orientation,
		AnnualKWh:          result.Production.AnnualKWh,
		CapacityKW:         result.System.CapacityKW,
		AnnualSavingsEUR:   result.Financial.AnnualSavingsEUR,
		PaybackPeriodYears: result.Financial.PaybackPeriodYears,
		TotalInvestmentEUR: result.Financial.TotalInvestmentEUR,
		CreatedAt:          time.Now().UTC(),
	}

	query := `
		INSERT INTO solar_analyses (
			id, location, latitude, longitude, roof_area_m2, orientation,
			annual_kwh, capacity_kw, annual_savings_eur, payback_period_years,
			total_investment_eur, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		record.ID,
		record.Location,
		record.Latitude,
		record.Longitude,
		record.RoofAreaM2,
		record.Orientation,
		record.AnnualKWh,
		record.CapacityKW,
		record.AnnualSavingsEUR,
		record.PaybackPeriodYears,
		record.TotalInvestmentEUR,
		record.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}

	return &record, nil
}

// Recent returns the most recent analyses, newest first.
func (r *AnalysisRepository) Recent(ctx context.Context, limit int) ([]models.AnalysisRecord, error) {
	query := `
		SELECT id, location, latitude, longitude, roof_area_m2, orientation,
			annual_kwh, capacity_kw, annual_savings_eur, payback_period_years,
			total_investment_eur, created_at
		FROM solar_analyses
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var records []models.AnalysisRecord
	for rows.Next() {
		var record models.AnalysisRecord
		err := rows.Scan(
			&record.ID,
			&record.Location,
			&record.Latitude,
			&record.Longitude,
			&record.RoofAreaM2,
			&record.Orientation,
			&record.AnnualKWh,
			&record.CapacityKW,
			&record.AnnualSavingsEUR,
			&record.PaybackPeriodYears,
			&record.TotalInvestmentEUR,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analysis records: %w", err)
	}

	return records, nil
}

// DeleteOlderThan removes analyses created before the cutoff and returns the
// number of rows removed.
func (r *AnalysisRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM solar_analyses WHERE created_at < $1`

	result, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old analyses: %w", err)
	}

	return result.RowsAffected(), nil
}
