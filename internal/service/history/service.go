package history

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/Temutjin2k/fare-predictor/internal/domain/models"
	"github.com/Temutjin2k/fare-predictor/internal/domain/types"
	"github.com/Temutjin2k/fare-predictor/internal/service/features"
	"github.com/Temutjin2k/fare-predictor/pkg/logger"
	wrap "github.com/Temutjin2k/fare-predictor/pkg/logger/wrapper"
	"github.com/Temutjin2k/fare-predictor/pkg/trm"
)

const (
	MinStatsDays = 1
	MaxStatsDays = 366
)

// Service records fare events and serves the prediction history.
type Service struct {
	repo      PredictionRepo
	txManager trm.TxManager
	log       logger.Logger
}

func New(repo PredictionRepo, txManager trm.TxManager, log logger.Logger) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		log:       log,
	}
}

// Record stores the event and updates the daily aggregate in one
// transaction. A repeated event is acknowledged without changing anything.
func (s *Service) Record(ctx context.Context, event models.FarePredictedEvent) error {
	ctx = wrap.WithAction(ctx, "record_fare_prediction")

	if err := validateEvent(event); err != nil {
		return wrap.Error(ctx, err)
	}

	rec := models.RecordFromEvent(event)
	inserted := false

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		inserted, err = s.repo.Create(ctx, rec)
		if err != nil {
			return fmt.Errorf("%w: %w", types.ErrDatabaseFailed, err)
		}
		if !inserted {
			return nil
		}
		if err := s.repo.AddToDailyStats(ctx, rec); err != nil {
			return fmt.Errorf("%w: %w", types.ErrDatabaseFailed, err)
		}
		return nil
	})
	if err != nil {
		return wrap.Error(wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed), err)
	}

	if !inserted {
		s.log.Debug(ctx, "duplicate fare event skipped", "prediction_id", rec.ID)
		return nil
	}

	s.log.Info(ctx, "fare prediction recorded", "fare", rec.Fare, "model_version", rec.ModelVersion)
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.PredictionRecord, error) {
	ctx = wrap.WithPredictionID(wrap.WithAction(ctx, "get_prediction"), id.String())

	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return rec, nil
}

func (s *Service) List(ctx context.Context, f models.Filters) ([]*models.PredictionRecord, models.Metadata, error) {
	ctx = wrap.WithAction(ctx, "list_predictions")

	records, meta, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, models.Metadata{}, wrap.Error(ctx, err)
	}
	return records, meta, nil
}

// Stats returns daily aggregates for the last days days, clamped to [1, 366].
func (s *Service) Stats(ctx context.Context, days int) ([]models.DailyStats, error) {
	ctx = wrap.WithAction(ctx, "prediction_stats")

	days = max(MinStatsDays, min(days, MaxStatsDays))
	stats, err := s.repo.DailyStats(ctx, days)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return stats, nil
}

func validateEvent(e models.FarePredictedEvent) error {
	switch {
	case e.PredictionID == uuid.Nil:
		return fmt.Errorf("%w: missing prediction id", types.ErrInvalidEvent)
	case math.IsNaN(e.Fare) || math.IsInf(e.Fare, 0):
		return fmt.Errorf("%w: fare is not finite", types.ErrInvalidEvent)
	case e.Features.PassengerCount < features.MinPassengers || e.Features.PassengerCount > features.MaxPassengers:
		return fmt.Errorf("%w: passenger count %d", types.ErrInvalidEvent, e.Features.PassengerCount)
	case e.Timestamp.IsZero():
		return fmt.Errorf("%w: missing timestamp", types.ErrInvalidEvent)
	}
	return nil
}
