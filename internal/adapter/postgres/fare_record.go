package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Temutjin2k/fair-fares/internal/domain/models"
	"github.com/Temutjin2k/fair-fares/internal/domain/types"
	wrap "github.com/Temutjin2k/fair-fares/pkg/logger/wrapper"
	"github.com/jackc/pgx/v5"
)

type FareRecordRepo struct {
	db Querier
}

func NewFareRecordRepo(db Querier) *FareRecordRepo {
	return &FareRecordRepo{db: db}
}

func (r *FareRecordRepo) Create(ctx context.Context, rec *models.FareRecord) error {
	const op = "FareRecordRepo.Create"
	const q = `
		INSERT INTO fare_records (srcode, district, start_location, destination, include_trike,
		                          total_fare, trike_fare, fare_details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at;`

	err := TxorDB(ctx, r.db).QueryRow(ctx, q,
		rec.SRCode,
		rec.District,
		rec.StartLocation,
		rec.Destination,
		rec.IncludeTrike,
		rec.TotalFare,
		rec.TrikeFare,
		rec.FareDetails,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return nil
}

// ListBySRCode returns the user's records, most recent first.
func (r *FareRecordRepo) ListBySRCode(ctx context.Context, srcode string) ([]models.FareRecord, error) {
	const op = "FareRecordRepo.ListBySRCode"
	const q = `
		SELECT id, srcode, district, start_location, destination, include_trike,
		       total_fare::float8, trike_fare::float8, fare_details, created_at
		FROM fare_records
		WHERE srcode = $1
		ORDER BY created_at DESC, id DESC;`

	rows, err := TxorDB(ctx, r.db).Query(ctx, q, srcode)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	records, err := pgx.CollectRows(rows, scanFareRecord)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: scan: %w", op, err))
	}
	if records == nil {
		records = []models.FareRecord{}
	}
	return records, nil
}

// GetForUpdate loads a record and locks its row until the surrounding transaction ends.
func (r *FareRecordRepo) GetForUpdate(ctx context.Context, id int64) (*models.FareRecord, error) {
	const op = "FareRecordRepo.GetForUpdate"
	const q = `
		SELECT id, srcode, district, start_location, destination, include_trike,
		       total_fare::float8, trike_fare::float8, fare_details, created_at
		FROM fare_records
		WHERE id = $1
		FOR UPDATE;`

	rows, err := TxorDB(ctx, r.db).Query(ctx, q, id)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	rec, err := pgx.CollectExactlyOneRow(rows, scanFareRecord)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrRecordNotFound
		}
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return &rec, nil
}

func (r *FareRecordRepo) Delete(ctx context.Context, id int64) error {
	const op = "FareRecordRepo.Delete"

	tag, err := TxorDB(ctx, r.db).Exec(ctx, `DELETE FROM fare_records WHERE id = $1;`, id)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	if tag.RowsAffected() == 0 {
		return types.ErrRecordNotFound
	}
	return nil
}

// AverageTotal returns the mean total fare of records created in [from, to], or 0 when there are none.
func (r *FareRecordRepo) AverageTotal(ctx context.Context, srcode string, from, to time.Time) (float64, error) {
	const op = "FareRecordRepo.AverageTotal"
	const q = `
		SELECT COALESCE(AVG(total_fare), 0)::float8
		FROM fare_records
		WHERE srcode = $1 AND created_at >= $2 AND created_at <= $3;`

	var avg float64
	if err := TxorDB(ctx, r.db).QueryRow(ctx, q, srcode, from, to).Scan(&avg); err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return 0, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return avg, nil
}

func scanFareRecord(row pgx.CollectableRow) (models.FareRecord, error) {
	var rec models.FareRecord
	err := row.Scan(
		&rec.ID,
		&rec.SRCode,
		&rec.District,
		&rec.StartLocation,
		&rec.Destination,
		&rec.IncludeTrike,
		&rec.TotalFare,
		&rec.TrikeFare,
		&rec.FareDetails,
		&rec.CreatedAt,
	)
	return rec, err
}
