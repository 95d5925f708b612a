package model

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Temutjin2k/fare-predictor/config"
	"github.com/Temutjin2k/fare-predictor/internal/domain/models"
	"github.com/Temutjin2k/fare-predictor/internal/domain/types"
	"github.com/Temutjin2k/fare-predictor/internal/service/predictor"
	"github.com/Temutjin2k/fare-predictor/pkg/logger"
)

func TestLoader_File(t *testing.T) {
	load, err := Loader(config.ModelConfig{Source: types.ModelSourceFile, Path: "gbm/testdata/model.json"})
	if err != nil {
		t.Fatalf("Loader: %v", err)
	}

	m, err := load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	fare, err := m.Predict(context.Background(), models.FeatureVector{
		TripDistanceMile: 5.1875931407704705,
		PickupHour:       15,
		PassengerCount:   1,
	}.Row())
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if fare <= 0 {
		t.Fatalf("fare = %v", fare)
	}
}

func TestLoader_UnknownSource(t *testing.T) {
	if _, err := Loader(config.ModelConfig{Source: "s3"}); err == nil {
		t.Fatal("expected error for unknown source")
	}
}

func TestLoader_RemoteScoringFailureIsPredictionError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"status":        "ok",
			"version":       "3",
			"feature_names": models.FeatureNames(),
		})
	})
	mux.HandleFunc("POST /predict", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"predictions": []float64{21.5}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	load, err := Loader(config.ModelConfig{Source: types.ModelSourceRemote, RemoteURL: srv.URL, Timeout: time.Second})
	if err != nil {
		t.Fatalf("Loader: %v", err)
	}
	p := predictor.New(load, string(types.ModelSourceRemote), "test", logger.Discard())
	defer p.Close()

	f := models.FeatureVector{TripDistanceMile: 2, PickupHour: 9, PassengerCount: 1}
	if fare, err := p.Predict(context.Background(), f); err != nil || fare != 21.5 {
		t.Fatalf("Predict = %v, %v; want 21.5", fare, err)
	}

	srv.Close()

	_, err = p.Predict(context.Background(), f)
	if !errors.Is(err, types.ErrPrediction) {
		t.Fatalf("err = %v, want ErrPrediction", err)
	}
	if errors.Is(err, types.ErrModelUnavailable) {
		t.Fatalf("err = %v, must not be ErrModelUnavailable", err)
	}
}
