package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Temutjin2k/fare-predictor/config"
	"github.com/Temutjin2k/fare-predictor/internal/domain/models"
	"github.com/Temutjin2k/fare-predictor/internal/domain/types"
	"github.com/Temutjin2k/fare-predictor/internal/service/auth"
	"github.com/Temutjin2k/fare-predictor/pkg/logger"
	ws "github.com/Temutjin2k/fare-predictor/pkg/wsHub"
)

type fakeFare struct{}

func (fakeFare) Quote(ctx context.Context, req models.TripRequest) (*models.FareQuote, error) {
	if req.PassengerCount == 0 {
		return nil, types.ErrInvalidPassengerCount
	}
	return &models.FareQuote{ID: uuid.New(), Fare: 15.65, ModelVersion: "v1"}, nil
}

func (fakeFare) Schema() models.ModelInfo {
	return models.ModelInfo{Version: "v1", FeatureNames: models.FeatureNames()}
}

type tokens struct{}

func (tokens) Validate(ctx context.Context, token string) (*auth.Claims, error) {
	if token != "secret" {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "test"}}, nil
}

func newFareAPI(t *testing.T, withAuth bool) (*API, *ws.ConnectionHub) {
	t.Helper()
	cfg := config.Config{Mode: types.FareAPI}
	cfg.CORS.AllowedOrigins = []string{"http://localhost:8501"}

	hub := ws.NewConnHub(types.FareAPI.String(), logger.Discard())
	deps := Deps{Fare: fakeFare{}, Hub: hub}
	if withAuth {
		deps.Tokens = tokens{}
	}

	api, err := New(cfg, deps, logger.Discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return api, hub
}

const trip = `{"pickup_latitude":40.7128,"pickup_longitude":-74.006,"dropoff_latitude":40.7831,"dropoff_longitude":-73.9712,"passenger_count":1,"pickup_datetime":"2023-10-27 15:30:00","dropoff_datetime":"2023-10-27 15:50:00"}`

func TestFareAPI_Routes(t *testing.T) {
	api, _ := newFareAPI(t, true)
	h := api.Handler()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		token  string
		want   int
	}{
		{"health", http.MethodGet, "/health", "", "", http.StatusOK},
		{"schema is public", http.MethodGet, "/fares/schema", "", "", http.StatusOK},
		{"predict needs token", http.MethodPost, "/fares/predict", trip, "", http.StatusUnauthorized},
		{"predict", http.MethodPost, "/fares/predict", trip, "secret", http.StatusOK},
		{"wrong method", http.MethodGet, "/fares/predict", "", "secret", http.StatusMethodNotAllowed},
		{"recorder route absent", http.MethodGet, "/predictions", "", "secret", http.StatusNotFound},
		{"metrics", http.MethodGet, "/metrics", "", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.token != "" {
				r.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, r)

			if rr.Code != tt.want {
				t.Fatalf("%s %s = %d, want %d (%s)", tt.method, tt.path, rr.Code, tt.want, rr.Body.String())
			}
			if rr.Header().Get("X-Request-ID") == "" {
				t.Fatal("X-Request-ID missing")
			}
		})
	}
}

func TestFareAPI_CORSPreflight(t *testing.T) {
	api, _ := newFareAPI(t, true)

	r := httptest.NewRequest(http.MethodOptions, "/fares/predict", nil)
	r.Header.Set("Origin", "http://localhost:8501")
	r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	r.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	rr := httptest.NewRecorder()
	api.Handler().ServeHTTP(rr, r)

	if rr.Code != http.StatusOK {
		t.Fatalf("preflight status = %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:8501" {
		t.Fatalf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestFareAPI_WebSocketSession(t *testing.T) {
	api, hub := newFareAPI(t, false)
	srv := httptest.NewServer(api.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/fares"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	msg := strings.Replace(trip, "{", `{"request_id":"r-1",`, 1)
	if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		t.Fatalf("write: %v", err)
	}
	var reply map[string]any
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read: %v", err)
	}
	if reply["type"] != "fare_quote" || reply["request_id"] != "r-1" {
		t.Fatalf("reply = %v", reply)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"passenger_count":0}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	reply = nil
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read: %v", err)
	}
	if reply["type"] != "error" || reply["code"] != float64(http.StatusUnprocessableEntity) {
		t.Fatalf("reply = %v", reply)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`not json`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	reply = nil
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("session should survive bad input: %v", err)
	}
	if reply["code"] != float64(http.StatusBadRequest) {
		t.Fatalf("reply = %v", reply)
	}

	hub.Close()
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("expected session to be closed by hub")
	}
}

func TestRecorder_RequiresHistory(t *testing.T) {
	cfg := config.Config{Mode: types.FareRecorder}
	if _, err := New(cfg, Deps{}, logger.Discard()); err == nil {
		t.Fatal("expected error without history service")
	}
}

func TestHealthBody(t *testing.T) {
	api, _ := newFareAPI(t, false)
	rr := httptest.NewRecorder()
	api.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "available" {
		t.Fatalf("body = %v", body)
	}
}
