package history

import (
	"context"

	"github.com/google/uuid"

	"github.com/Temutjin2k/fare-predictor/internal/domain/models"
)

type PredictionRepo interface {
	Create(ctx context.Context, rec *models.PredictionRecord) (bool, error)
	AddToDailyStats(ctx context.Context, rec *models.PredictionRecord) error
	Get(ctx context.Context, id uuid.UUID) (*models.PredictionRecord, error)
	List(ctx context.Context, f models.Filters) ([]*models.PredictionRecord, models.Metadata, error)
	DailyStats(ctx context.Context, days int) ([]models.DailyStats, error)
}
