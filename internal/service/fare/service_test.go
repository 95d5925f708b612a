package fare

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Temutjin2k/fare-predictor/internal/domain/models"
	"github.com/Temutjin2k/fare-predictor/internal/domain/types"
	"github.com/Temutjin2k/fare-predictor/pkg/logger"
	wrap "github.com/Temutjin2k/fare-predictor/pkg/logger/wrapper"
)

type fakePredictor struct {
	fare    float64
	err     error
	version string
	calls   int
}

func (p *fakePredictor) Predict(ctx context.Context, f models.FeatureVector) (float64, error) {
	p.calls++
	return p.fare, p.err
}

func (p *fakePredictor) Info() models.ModelInfo {
	return models.ModelInfo{Name: "fake", Version: p.version, FeatureNames: models.FeatureNames()}
}

type memCache struct {
	items map[string]float64
	err   error
}

func (c *memCache) Get(ctx context.Context, key string) (float64, bool, error) {
	if c.err != nil {
		return 0, false, c.err
	}
	v, ok := c.items[key]
	return v, ok, nil
}

func (c *memCache) Set(ctx context.Context, key string, fare float64) error {
	if c.err != nil {
		return c.err
	}
	c.items[key] = fare
	return nil
}

type recordingPublisher struct {
	events []models.FarePredictedEvent
	err    error
}

func (p *recordingPublisher) PublishFarePredicted(ctx context.Context, e models.FarePredictedEvent) error {
	p.events = append(p.events, e)
	return p.err
}

type staticGeocoder struct {
	err error
}

func (g staticGeocoder) GetAddress(ctx context.Context, lon, lat float64) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	if lat > 40.75 {
		return "Upper West Side, New York", nil
	}
	return "City Hall, New York", nil
}

func trip() models.TripRequest {
	return models.TripRequest{
		PickupLatitude:   40.7128,
		PickupLongitude:  -74.0060,
		DropoffLatitude:  40.7831,
		DropoffLongitude: -73.9712,
		PassengerCount:   1,
		PickupDatetime:   "2023-10-27 15:30:00",
		DropoffDatetime:  "2023-10-27 15:50:00",
	}
}

func TestQuote(t *testing.T) {
	pred := &fakePredictor{fare: 15.65, version: "v1"}
	pub := &recordingPublisher{}
	s := New(pred, nil, pub, staticGeocoder{}, logger.Discard())
	s.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	ctx := wrap.WithRequestID(context.Background(), "req-42")
	q, err := s.Quote(ctx, trip())
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}

	if q.Fare != 15.65 || q.Cached {
		t.Errorf("fare = %v cached = %v", q.Fare, q.Cached)
	}
	if q.Features.PickupHour != 15 || q.TripDurationSeconds != 1200 {
		t.Errorf("quote = %+v", q)
	}
	if q.PickupGeohash != "dr5regw" || q.DropoffGeohash != "dr72h8r" {
		t.Errorf("geohashes = %s, %s", q.PickupGeohash, q.DropoffGeohash)
	}
	if q.PickupAddress != "City Hall, New York" || q.DropoffAddress != "Upper West Side, New York" {
		t.Errorf("addresses = %q, %q", q.PickupAddress, q.DropoffAddress)
	}
	if q.ModelVersion != "v1" {
		t.Errorf("model version = %q", q.ModelVersion)
	}

	if len(pub.events) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.events))
	}
	e := pub.events[0]
	if e.PredictionID != q.ID || e.CorrelationID != "req-42" || e.Fare != 15.65 {
		t.Errorf("event = %+v", e)
	}
	if !e.Timestamp.Equal(q.CreatedAt) {
		t.Errorf("event timestamp = %v, want %v", e.Timestamp, q.CreatedAt)
	}
}

func TestQuote_ParseErrorSkipsScoring(t *testing.T) {
	pred := &fakePredictor{fare: 10, version: "v1"}
	pub := &recordingPublisher{}
	s := New(pred, nil, pub, nil, logger.Discard())

	req := trip()
	req.PickupDatetime = "not-a-date"

	q, err := s.Quote(context.Background(), req)
	if !errors.Is(err, types.ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}
	if q != nil {
		t.Fatalf("quote = %+v, want nil", q)
	}
	if pred.calls != 0 {
		t.Fatalf("predictor called %d times, want 0", pred.calls)
	}
	if len(pub.events) != 0 {
		t.Fatal("nothing should be published for a failed quote")
	}
}

func TestQuote_ModelUnavailable(t *testing.T) {
	pred := &fakePredictor{err: types.ErrModelUnavailable}
	s := New(pred, nil, nil, nil, logger.Discard())

	if _, err := s.Quote(context.Background(), trip()); !errors.Is(err, types.ErrModelUnavailable) {
		t.Fatalf("err = %v, want ErrModelUnavailable", err)
	}
}

func TestQuote_CacheHit(t *testing.T) {
	pred := &fakePredictor{fare: 20, version: "v1"}
	cache := &memCache{items: map[string]float64{}}
	s := New(pred, cache, nil, nil, logger.Discard())

	first, err := s.Quote(context.Background(), trip())
	if err != nil {
		t.Fatalf("first Quote: %v", err)
	}
	second, err := s.Quote(context.Background(), trip())
	if err != nil {
		t.Fatalf("second Quote: %v", err)
	}

	if first.Cached || !second.Cached {
		t.Fatalf("cached flags = %v, %v", first.Cached, second.Cached)
	}
	if second.Fare != 20 {
		t.Fatalf("cached fare = %v", second.Fare)
	}
	if pred.calls != 1 {
		t.Fatalf("predictor calls = %d, want 1", pred.calls)
	}
	if first.ID == second.ID {
		t.Fatal("every quote must get its own id")
	}
}

func TestQuote_CacheKeyIncludesVersion(t *testing.T) {
	f := models.FeatureVector{TripDistanceMile: 1, PickupHour: 2, PassengerCount: 3}
	if cacheKey("v1", f) == cacheKey("v2", f) {
		t.Fatal("different model versions share a cache key")
	}
	g := f
	g.IsNight = true
	if cacheKey("v1", f) == cacheKey("v1", g) {
		t.Fatal("different features share a cache key")
	}
}

func TestQuote_CollaboratorFailuresAreNotFatal(t *testing.T) {
	pred := &fakePredictor{fare: 11, version: "v1"}
	cache := &memCache{err: errors.New("redis down")}
	pub := &recordingPublisher{err: errors.New("broker down")}
	s := New(pred, cache, pub, staticGeocoder{err: errors.New("quota")}, logger.Discard())

	q, err := s.Quote(context.Background(), trip())
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if q.Fare != 11 || q.PickupAddress != "" {
		t.Fatalf("quote = %+v", q)
	}
}

func TestQuote_NegativeDurationKept(t *testing.T) {
	s := New(&fakePredictor{fare: 9, version: "v1"}, nil, nil, nil, logger.Discard())

	req := trip()
	req.DropoffDatetime = "2023-10-27 15:00:00"
	q, err := s.Quote(context.Background(), req)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if q.TripDurationSeconds != -1800 {
		t.Fatalf("duration = %v, want -1800", q.TripDurationSeconds)
	}
}
