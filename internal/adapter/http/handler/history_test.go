package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/Temutjin2k/fare-predictor/internal/domain/models"
	"github.com/Temutjin2k/fare-predictor/internal/domain/types"
	"github.com/Temutjin2k/fare-predictor/pkg/logger"
)

var sortSafelist = []string{"predicted_at", "-predicted_at", "fare", "-fare"}

type fakeHistory struct {
	known   uuid.UUID
	filters models.Filters
	days    int
	err     error
}

func (f *fakeHistory) Get(ctx context.Context, id uuid.UUID) (*models.PredictionRecord, error) {
	if id != f.known {
		return nil, types.ErrPredictionNotFound
	}
	return &models.PredictionRecord{ID: id, Fare: 15.65}, nil
}

func (f *fakeHistory) List(ctx context.Context, filters models.Filters) ([]*models.PredictionRecord, models.Metadata, error) {
	f.filters = filters
	if f.err != nil {
		return nil, models.Metadata{}, f.err
	}
	return []*models.PredictionRecord{{ID: f.known}}, models.CalculateMetadata(1, filters.Page, filters.PageSize), nil
}

func (f *fakeHistory) Stats(ctx context.Context, days int) ([]models.DailyStats, error) {
	f.days = days
	return []models.DailyStats{}, nil
}

func TestHistory_List(t *testing.T) {
	svc := &fakeHistory{known: uuid.New()}
	h := NewHistory(svc, sortSafelist, logger.Discard())

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/predictions?page=2&page_size=5&sort=-fare", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if svc.filters.Page != 2 || svc.filters.PageSize != 5 || svc.filters.Sort != "-fare" {
		t.Fatalf("filters = %+v", svc.filters)
	}
	meta := decode(t, rr)["metadata"].(map[string]any)
	if meta["current_page"] != float64(2) {
		t.Fatalf("metadata = %v", meta)
	}
}

func TestHistory_List_Defaults(t *testing.T) {
	svc := &fakeHistory{}
	rr := httptest.NewRecorder()
	NewHistory(svc, sortSafelist, logger.Discard()).List(rr, httptest.NewRequest(http.MethodGet, "/predictions", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if svc.filters.Page != 1 || svc.filters.PageSize != defaultPageSize || svc.filters.Sort != "-predicted_at" {
		t.Fatalf("filters = %+v", svc.filters)
	}
}

func TestHistory_List_InvalidQuery(t *testing.T) {
	for _, q := range []string{"page=0", "page_size=1000", "sort=passenger_count", "page=abc"} {
		t.Run(q, func(t *testing.T) {
			rr := httptest.NewRecorder()
			NewHistory(&fakeHistory{}, sortSafelist, logger.Discard()).
				List(rr, httptest.NewRequest(http.MethodGet, "/predictions?"+q, nil))
			if rr.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422", rr.Code)
			}
		})
	}
}

func TestHistory_List_DatabaseErrorIsHidden(t *testing.T) {
	svc := &fakeHistory{err: errors.New("pq: relation does not exist")}
	rr := httptest.NewRecorder()
	NewHistory(svc, sortSafelist, logger.Discard()).List(rr, httptest.NewRequest(http.MethodGet, "/predictions", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	if msg := decode(t, rr)["error"]; msg == svc.err.Error() {
		t.Fatal("internal error leaked to client")
	}
}

func TestHistory_Get(t *testing.T) {
	svc := &fakeHistory{known: uuid.New()}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /predictions/{id}", NewHistory(svc, sortSafelist, logger.Discard()).Get)

	tests := []struct {
		path string
		want int
	}{
		{"/predictions/" + svc.known.String(), http.StatusOK},
		{"/predictions/" + uuid.NewString(), http.StatusNotFound},
		{"/predictions/not-a-uuid", http.StatusBadRequest},
	}
	for _, tt := range tests {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rr.Code != tt.want {
			t.Errorf("GET %s = %d, want %d", tt.path, rr.Code, tt.want)
		}
	}
}

func TestHistory_Stats(t *testing.T) {
	svc := &fakeHistory{}
	h := NewHistory(svc, sortSafelist, logger.Discard())

	rr := httptest.NewRecorder()
	h.Stats(rr, httptest.NewRequest(http.MethodGet, "/predictions/stats", nil))
	if rr.Code != http.StatusOK || svc.days != defaultStatsDays {
		t.Fatalf("status = %d days = %d", rr.Code, svc.days)
	}

	rr = httptest.NewRecorder()
	h.Stats(rr, httptest.NewRequest(http.MethodGet, "/predictions/stats?days=0", nil))
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("days=0 status = %d, want 422", rr.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	healthy := NewHealth("fare-api", logger.Discard(), Probe{Name: "model", Check: func(context.Context) error { return nil }})
	rr := httptest.NewRecorder()
	healthy.HealthCheck(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK || decode(t, rr)["status"] != "available" {
		t.Fatalf("healthy: status = %d body = %s", rr.Code, rr.Body.String())
	}

	degraded := NewHealth("fare-api", logger.Discard(), Probe{Name: "model", Check: func(context.Context) error { return types.ErrModelUnavailable }})
	rr = httptest.NewRecorder()
	degraded.HealthCheck(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("degraded: status = %d", rr.Code)
	}
	checks := decode(t, rr)["checks"].(map[string]any)
	if checks["model"] != types.ErrModelUnavailable.Error() {
		t.Fatalf("checks = %v", checks)
	}
}
