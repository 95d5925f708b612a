package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/fare-predictor/internal/domain/models"
	"github.com/Temutjin2k/fare-predictor/internal/domain/types"
	"github.com/Temutjin2k/fare-predictor/pkg/metrics"
)

const metricsService = "fare-recorder"

// PredictionSortSafelist lists the sort values accepted by List.
var PredictionSortSafelist = []string{
	"predicted_at", "-predicted_at",
	"fare", "-fare",
	"trip_distance_mile", "-trip_distance_mile",
}

const predictionColumns = `id, pickup_latitude, pickup_longitude, dropoff_latitude, dropoff_longitude,
	pickup_datetime, dropoff_datetime, passenger_count, trip_distance_mile, pickup_hour, is_night,
	trip_duration_seconds, fare, model_version, pickup_geohash, dropoff_geohash, cached,
	predicted_at, recorded_at`

type PredictionRepo struct {
	db *pgxpool.Pool
}

func NewPredictionRepo(db *pgxpool.Pool) *PredictionRepo {
	return &PredictionRepo{db: db}
}

// Create stores the record. It returns false without error when a record
// with the same id already exists, so redelivered events are not counted twice.
func (r *PredictionRepo) Create(ctx context.Context, rec *models.PredictionRecord) (bool, error) {
	const op = "PredictionRepo.Create"
	start := time.Now()
	q := TxorDB(ctx, r.db)

	query := `
		INSERT INTO fare_predictions (
			id, pickup_latitude, pickup_longitude, dropoff_latitude, dropoff_longitude,
			pickup_datetime, dropoff_datetime, passenger_count, trip_distance_mile, pickup_hour, is_night,
			trip_duration_seconds, fare, model_version, pickup_geohash, dropoff_geohash, cached, predicted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (id) DO NOTHING
		RETURNING recorded_at`

	err := q.QueryRow(ctx, query,
		rec.ID,
		rec.Trip.PickupLatitude,
		rec.Trip.PickupLongitude,
		rec.Trip.DropoffLatitude,
		rec.Trip.DropoffLongitude,
		rec.Trip.PickupDatetime,
		rec.Trip.DropoffDatetime,
		rec.Features.PassengerCount,
		rec.Features.TripDistanceMile,
		rec.Features.PickupHour,
		rec.Features.IsNight,
		rec.TripDurationSeconds,
		rec.Fare,
		rec.ModelVersion,
		rec.PickupGeohash,
		rec.DropoffGeohash,
		rec.Cached,
		rec.PredictedAt,
	).Scan(&rec.RecordedAt)
	metrics.RecordDatabaseQuery(metricsService, "insert_prediction", ignoreNoRows(err), time.Since(start))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// AddToDailyStats folds the record into its UTC day aggregate.
func (r *PredictionRepo) AddToDailyStats(ctx context.Context, rec *models.PredictionRecord) error {
	const op = "PredictionRepo.AddToDailyStats"
	start := time.Now()
	q := TxorDB(ctx, r.db)

	night := 0
	if rec.Features.IsNight {
		night = 1
	}

	query := `
		INSERT INTO fare_prediction_daily_stats (day, predictions, night_trips, total_fare, total_distance_mile)
		VALUES ($1, 1, $2, $3, $4)
		ON CONFLICT (day) DO UPDATE SET
			predictions         = fare_prediction_daily_stats.predictions + 1,
			night_trips         = fare_prediction_daily_stats.night_trips + EXCLUDED.night_trips,
			total_fare          = fare_prediction_daily_stats.total_fare + EXCLUDED.total_fare,
			total_distance_mile = fare_prediction_daily_stats.total_distance_mile + EXCLUDED.total_distance_mile,
			updated_at          = NOW()`

	day := rec.PredictedAt.UTC().Truncate(24 * time.Hour)
	_, err := q.Exec(ctx, query, day, night, rec.Fare, rec.Features.TripDistanceMile)
	metrics.RecordDatabaseQuery(metricsService, "upsert_daily_stats", err, time.Since(start))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *PredictionRepo) Get(ctx context.Context, id uuid.UUID) (*models.PredictionRecord, error) {
	const op = "PredictionRepo.Get"
	start := time.Now()
	q := TxorDB(ctx, r.db)

	query := `SELECT ` + predictionColumns + ` FROM fare_predictions WHERE id = $1`

	rec, err := scanPrediction(q.QueryRow(ctx, query, id))
	metrics.RecordDatabaseQuery(metricsService, "get_prediction", ignoreNoRows(err), time.Since(start))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrPredictionNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rec, nil
}

// List returns one page of predictions ordered by the filter's safelisted sort.
func (r *PredictionRepo) List(ctx context.Context, f models.Filters) ([]*models.PredictionRecord, models.Metadata, error) {
	const op = "PredictionRepo.List"
	start := time.Now()
	q := TxorDB(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT COUNT(*) OVER(), %s
		FROM fare_predictions
		ORDER BY %s %s, id ASC
		LIMIT $1 OFFSET $2`, predictionColumns, f.SortColumn(), f.SortDirection())

	rows, err := q.Query(ctx, query, f.Limit(), f.Offset())
	if err != nil {
		metrics.RecordDatabaseQuery(metricsService, "list_predictions", err, time.Since(start))
		return nil, models.Metadata{}, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	total := 0
	records := []*models.PredictionRecord{}
	for rows.Next() {
		var rec models.PredictionRecord
		if err := rows.Scan(append([]any{&total}, predictionDest(&rec)...)...); err != nil {
			return nil, models.Metadata{}, fmt.Errorf("%s: scan: %w", op, err)
		}
		rec.Trip.PassengerCount = rec.Features.PassengerCount
		records = append(records, &rec)
	}
	err = rows.Err()
	metrics.RecordDatabaseQuery(metricsService, "list_predictions", err, time.Since(start))
	if err != nil {
		return nil, models.Metadata{}, fmt.Errorf("%s: %w", op, err)
	}

	return records, models.CalculateMetadata(total, f.Page, f.PageSize), nil
}

// DailyStats returns aggregates for the last days UTC days, newest first.
func (r *PredictionRepo) DailyStats(ctx context.Context, days int) ([]models.DailyStats, error) {
	const op = "PredictionRepo.DailyStats"
	start := time.Now()
	q := TxorDB(ctx, r.db)

	query := `
		SELECT day, predictions, night_trips, total_fare, total_distance_mile
		FROM fare_prediction_daily_stats
		WHERE day > CURRENT_DATE - $1::int
		ORDER BY day DESC`

	rows, err := q.Query(ctx, query, days)
	if err != nil {
		metrics.RecordDatabaseQuery(metricsService, "daily_stats", err, time.Since(start))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	stats := []models.DailyStats{}
	for rows.Next() {
		var s models.DailyStats
		if err := rows.Scan(&s.Day, &s.Predictions, &s.NightTrips, &s.TotalFare, &s.TotalDistance); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		if s.Predictions > 0 {
			s.AverageFare = s.TotalFare / float64(s.Predictions)
			s.AverageDistance = s.TotalDistance / float64(s.Predictions)
		}
		stats = append(stats, s)
	}
	err = rows.Err()
	metrics.RecordDatabaseQuery(metricsService, "daily_stats", err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return stats, nil
}

func predictionDest(rec *models.PredictionRecord) []any {
	return []any{
		&rec.ID,
		&rec.Trip.PickupLatitude,
		&rec.Trip.PickupLongitude,
		&rec.Trip.DropoffLatitude,
		&rec.Trip.DropoffLongitude,
		&rec.Trip.PickupDatetime,
		&rec.Trip.DropoffDatetime,
		&rec.Features.PassengerCount,
		&rec.Features.TripDistanceMile,
		&rec.Features.PickupHour,
		&rec.Features.IsNight,
		&rec.TripDurationSeconds,
		&rec.Fare,
		&rec.ModelVersion,
		&rec.PickupGeohash,
		&rec.DropoffGeohash,
		&rec.Cached,
		&rec.PredictedAt,
		&rec.RecordedAt,
	}
}

func scanPrediction(row pgx.Row) (*models.PredictionRecord, error) {
	var rec models.PredictionRecord
	if err := row.Scan(predictionDest(&rec)...); err != nil {
		return nil, err
	}
	rec.Trip.PassengerCount = rec.Features.PassengerCount
	return &rec, nil
}

func ignoreNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	return err
}
