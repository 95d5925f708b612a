package locationIQ

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/reverse" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("key") != "secret" || q.Get("lat") != "40.7128" || q.Get("lon") != "-74.006" {
			t.Errorf("query = %v", q)
		}
		w.Write([]byte(`{"display_name":"City Hall, New York"}`))
	}))
	defer srv.Close()

	c := New("secret", srv.URL, time.Second)
	addr, err := c.GetAddress(context.Background(), -74.0060, 40.7128)
	if err != nil {
		t.Fatalf("GetAddress: %v", err)
	}
	if addr != "City Hall, New York" {
		t.Fatalf("addr = %q", addr)
	}
}

func TestGetAddress_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"not found", http.StatusNotFound, `{"error":"Unable to geocode"}`, ErrLocationNotFound},
		{"empty name", http.StatusOK, `{}`, ErrLocationNotFound},
		{"server error", http.StatusInternalServerError, ``, nil},
		{"bad json", http.StatusOK, `{`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New("k", srv.URL, time.Second).GetAddress(context.Background(), 0, 0)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetAddress_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New("k", srv.URL, time.Second).GetAddress(ctx, 0, 0); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
