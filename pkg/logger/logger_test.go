package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	wrap "github.com/Temutjin2k/fare-predictor/pkg/logger/wrapper"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	return entry
}

func TestLogger_InjectsLogCtx(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "fare-api", LevelDebug)

	ctx := wrap.WithLogCtx(context.Background(), wrap.LogCtx{
		Action:       "predict_fare",
		RequestID:    "req-1",
		PredictionID: "pred-1",
	})
	l.Info(ctx, "fare predicted")

	entry := decodeLine(t, &buf)
	want := map[string]string{
		"message":       "fare predicted",
		"service":       "fare-api",
		"action":        "predict_fare",
		"request_id":    "req-1",
		"prediction_id": "pred-1",
		"level":         "INFO",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s = %v, want %q", k, entry[k], v)
		}
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Errorf("timestamp missing from %v", entry)
	}
}

func TestLogger_ErrorCarriesWrappedContext(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "fare-api", LevelDebug)

	inner := wrap.WithAction(context.Background(), "load_model")
	err := wrap.Error(inner, errors.New("artifact missing"))

	outer := wrap.WithRequestID(context.Background(), "req-9")
	l.Error(wrap.ErrorCtx(outer, err), "prediction failed", err)

	entry := decodeLine(t, &buf)
	if entry["action"] != "load_model" {
		t.Errorf("action = %v, want load_model", entry["action"])
	}
	if entry["request_id"] != "req-9" {
		t.Errorf("request_id = %v, want req-9", entry["request_id"])
	}
	errGroup, ok := entry["error"].(map[string]any)
	if !ok || errGroup["msg"] != "artifact missing" {
		t.Errorf("error group = %v", entry["error"])
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "fare-api", LevelWarn)

	l.Info(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at WARN level, got %q", buf.String())
	}
}

func TestValidateLogLevel(t *testing.T) {
	for _, lvl := range []string{LevelDebug, LevelInfo, LevelWarn, LevelError} {
		if !ValidateLogLevel(lvl) {
			t.Errorf("%s should be valid", lvl)
		}
	}
	if ValidateLogLevel("TRACE") {
		t.Error("TRACE should be invalid")
	}
}
