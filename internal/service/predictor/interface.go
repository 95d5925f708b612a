package predictor

import (
	"context"

	"github.com/Temutjin2k/fare-predictor/internal/domain/models"
)

type (
	// Model scores one feature row. Implementations must be safe for
	// concurrent use once loaded.
	Model interface {
		Predict(ctx context.Context, row models.FeatureRow) (float64, error)
	}

	// Describer is implemented by models that know their name and version.
	Describer interface {
		Info() models.ModelInfo
	}

	// LoadFunc produces a ready model or an error explaining why none is available.
	LoadFunc func(ctx context.Context) (Model, error)
)
