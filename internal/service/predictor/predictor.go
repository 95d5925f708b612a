package predictor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/Temutjin2k/fare-predictor/internal/domain/models"
	"github.com/Temutjin2k/fare-predictor/internal/domain/types"
	"github.com/Temutjin2k/fare-predictor/pkg/logger"
	wrap "github.com/Temutjin2k/fare-predictor/pkg/logger/wrapper"
	"github.com/Temutjin2k/fare-predictor/pkg/metrics"
)

var errNoLoader = errors.New("no model loader configured")

// Predictor holds the process-wide model handle. A successful load is kept
// until Close; a failed load is not remembered, so the next call tries again.
type Predictor struct {
	load    LoadFunc
	source  string
	service string

	mu    sync.RWMutex
	model Model

	log logger.Logger
}

func New(load LoadFunc, source, service string, log logger.Logger) *Predictor {
	return &Predictor{
		load:    load,
		source:  source,
		service: service,
		log:     log,
	}
}

// NewWithModel returns a Predictor around an already loaded model.
func NewWithModel(m Model, log logger.Logger) *Predictor {
	return &Predictor{
		model:   m,
		source:  "static",
		service: "test",
		log:     log,
	}
}

// Load makes sure a model is available. Concurrent callers share one attempt.
func (p *Predictor) Load(ctx context.Context) error {
	_, err := p.ensureModel(ctx)
	return err
}

func (p *Predictor) ensureModel(ctx context.Context) (Model, error) {
	p.mu.RLock()
	m := p.model
	p.mu.RUnlock()
	if m != nil {
		return m, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.model != nil {
		return p.model, nil
	}

	ctx = wrap.WithAction(ctx, types.ActionModelLoadFailed)

	if p.load == nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: %w", types.ErrModelUnavailable, errNoLoader))
	}

	m, err := p.load(ctx)
	if err == nil && m == nil {
		err = errors.New("loader returned no model")
	}
	metrics.RecordModelLoad(p.source, err)
	if err != nil {
		if !errors.Is(err, types.ErrModelUnavailable) {
			err = fmt.Errorf("%w: %w", types.ErrModelUnavailable, err)
		}
		err = wrap.Error(ctx, err)
		p.log.Error(wrap.ErrorCtx(ctx, err), "failed to load fare model", err, "source", p.source)
		return nil, err
	}

	p.model = m
	info := describe(m)
	p.log.Info(wrap.WithAction(ctx, types.ActionModelLoaded), "fare model loaded",
		"source", p.source,
		"name", info.Name,
		"version", info.Version,
	)

	return m, nil
}

// Predict scores the feature vector. It returns ErrModelUnavailable when no
// model can be loaded and ErrPrediction when scoring fails or yields a
// non-finite value.
func (p *Predictor) Predict(ctx context.Context, f models.FeatureVector) (float64, error) {
	m, err := p.ensureModel(ctx)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	fare, err := m.Predict(ctx, f.Row())
	if err == nil && (math.IsNaN(fare) || math.IsInf(fare, 0)) {
		err = fmt.Errorf("model returned non-finite score %v", fare)
	}
	if err != nil && !errors.Is(err, types.ErrModelUnavailable) && !errors.Is(err, types.ErrPrediction) {
		err = fmt.Errorf("%w: %w", types.ErrPrediction, err)
	}
	metrics.RecordPrediction(p.service, fare, err, time.Since(start))
	if err != nil {
		return 0, wrap.Error(ctx, err)
	}

	return fare, nil
}

// Info describes the loaded model. It is empty until a model has been loaded.
func (p *Predictor) Info() models.ModelInfo {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.model == nil {
		return models.ModelInfo{FeatureNames: models.FeatureNames()}
	}
	return describe(p.model)
}

// Ready reports whether a model is currently held.
func (p *Predictor) Ready() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.model != nil
}

// Close drops the model handle and releases it if it holds resources.
func (p *Predictor) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	m := p.model
	p.model = nil
	if c, ok := m.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func describe(m Model) models.ModelInfo {
	info := models.ModelInfo{FeatureNames: models.FeatureNames()}
	if d, ok := m.(Describer); ok {
		info = d.Info()
		if len(info.FeatureNames) == 0 {
			info.FeatureNames = models.FeatureNames()
		}
	}
	return info
}
