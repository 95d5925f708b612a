package fare

import (
	"context"

	"github.com/Temutjin2k/fare-predictor/internal/domain/models"
)

type (
	Predictor interface {
		Predict(ctx context.Context, f models.FeatureVector) (float64, error)
		Info() models.ModelInfo
	}

	// Cache stores fares by feature key. A miss is (0, false, nil).
	Cache interface {
		Get(ctx context.Context, key string) (float64, bool, error)
		Set(ctx context.Context, key string, fare float64) error
	}

	Publisher interface {
		PublishFarePredicted(ctx context.Context, event models.FarePredictedEvent) error
	}

	Geocoder interface {
		GetAddress(ctx context.Context, longitude, latitude float64) (string, error)
	}
)
