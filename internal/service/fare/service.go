package fare

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mmcloughlin/geohash"

	"github.com/Temutjin2k/fare-predictor/internal/domain/models"
	"github.com/Temutjin2k/fare-predictor/internal/domain/types"
	"github.com/Temutjin2k/fare-predictor/internal/service/features"
	"github.com/Temutjin2k/fare-predictor/pkg/hasher"
	"github.com/Temutjin2k/fare-predictor/pkg/logger"
	wrap "github.com/Temutjin2k/fare-predictor/pkg/logger/wrapper"
	"github.com/Temutjin2k/fare-predictor/pkg/metrics"
)

const geohashPrecision = 7

// Service turns trip requests into fare quotes. Cache, publisher and geocoder
// are optional; a nil collaborator is skipped.
type Service struct {
	predictor Predictor
	cache     Cache
	publisher Publisher
	geocoder  Geocoder

	now func() time.Time
	log logger.Logger
}

func New(predictor Predictor, cache Cache, publisher Publisher, geocoder Geocoder, log logger.Logger) *Service {
	return &Service{
		predictor: predictor,
		cache:     cache,
		publisher: publisher,
		geocoder:  geocoder,
		now:       func() time.Time { return time.Now().UTC() },
		log:       log,
	}
}

// Quote derives features, scores them and returns the quote. Derivation and
// scoring errors are terminal; cache, geocoding and publishing failures are
// logged and do not fail the quote.
func (s *Service) Quote(ctx context.Context, req models.TripRequest) (*models.FareQuote, error) {
	id := uuid.New()
	ctx = wrap.WithPredictionID(wrap.WithAction(ctx, "quote_fare"), id.String())

	derived, err := features.Derive(req)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	fare, cached, err := s.score(ctx, derived.Features)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	quote := &models.FareQuote{
		ID:                  id,
		Fare:                fare,
		Features:            derived.Features,
		TripDurationSeconds: derived.TripDurationSeconds,
		PickupGeohash:       geohash.EncodeWithPrecision(req.PickupLatitude, req.PickupLongitude, geohashPrecision),
		DropoffGeohash:      geohash.EncodeWithPrecision(req.DropoffLatitude, req.DropoffLongitude, geohashPrecision),
		ModelVersion:        s.predictor.Info().Version,
		Cached:              cached,
		CreatedAt:           s.now(),
	}

	s.resolveAddresses(ctx, req, quote)
	s.publish(ctx, req, quote)

	s.log.Info(wrap.WithAction(ctx, types.ActionFarePredicted), "fare predicted",
		"fare", quote.Fare,
		"distance_mile", quote.Features.TripDistanceMile,
		"pickup_hour", quote.Features.PickupHour,
		"cached", quote.Cached,
	)

	return quote, nil
}

// Schema describes the model inputs and the loaded model.
func (s *Service) Schema() models.ModelInfo {
	return s.predictor.Info()
}

func (s *Service) score(ctx context.Context, f models.FeatureVector) (float64, bool, error) {
	version := s.predictor.Info().Version
	if s.cache != nil && version != "" {
		fare, ok, err := s.cache.Get(ctx, cacheKey(version, f))
		switch {
		case err != nil:
			metrics.RecordCacheLookup("error")
			s.log.Warn(wrap.WithAction(ctx, types.ActionCacheFailed), "fare cache lookup failed", "error", err.Error())
		case ok:
			metrics.RecordCacheLookup("hit")
			return fare, true, nil
		default:
			metrics.RecordCacheLookup("miss")
		}
	}

	fare, err := s.predictor.Predict(ctx, f)
	if err != nil {
		return 0, false, err
	}

	if s.cache != nil {
		// the model may have been loaded by this call
		key := cacheKey(s.predictor.Info().Version, f)
		if err := s.cache.Set(ctx, key, fare); err != nil {
			s.log.Warn(wrap.WithAction(ctx, types.ActionCacheFailed), "fare cache store failed", "error", err.Error())
		}
	}

	return fare, false, nil
}

func (s *Service) resolveAddresses(ctx context.Context, req models.TripRequest, q *models.FareQuote) {
	if s.geocoder == nil {
		return
	}

	var err error
	if q.PickupAddress, err = s.geocoder.GetAddress(ctx, req.PickupLongitude, req.PickupLatitude); err != nil {
		s.log.Warn(wrap.ErrorCtx(ctx, err), "failed to resolve pickup address", "error", err.Error())
	}
	if q.DropoffAddress, err = s.geocoder.GetAddress(ctx, req.DropoffLongitude, req.DropoffLatitude); err != nil {
		s.log.Warn(wrap.ErrorCtx(ctx, err), "failed to resolve dropoff address", "error", err.Error())
	}
}

func (s *Service) publish(ctx context.Context, req models.TripRequest, q *models.FareQuote) {
	if s.publisher == nil {
		return
	}

	event := models.NewFarePredictedEvent(req, q, wrap.FromContext(ctx).RequestID)
	if err := s.publisher.PublishFarePredicted(ctx, event); err != nil {
		s.log.Warn(wrap.ErrorCtx(ctx, err), "failed to publish fare event", "error", err.Error())
	}
}

// cacheKey identifies a fare by model version and the exact feature row.
func cacheKey(version string, f models.FeatureVector) string {
	row := f.Row()
	parts := append([]string{version}, row.Names...)
	parts = append(parts, hasher.Floats(row.Values)...)
	return "fare:" + hasher.Key(parts...)
}
