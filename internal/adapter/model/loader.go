package model

import (
	"context"
	"fmt"

	"github.com/Temutjin2k/fare-predictor/config"
	"github.com/Temutjin2k/fare-predictor/internal/adapter/model/gbm"
	"github.com/Temutjin2k/fare-predictor/internal/adapter/model/remote"
	"github.com/Temutjin2k/fare-predictor/internal/domain/types"
	"github.com/Temutjin2k/fare-predictor/internal/service/predictor"
)

// Loader returns the load function for the configured model source.
func Loader(cfg config.ModelConfig) (predictor.LoadFunc, error) {
	switch cfg.Source {
	case types.ModelSourceFile:
		return func(ctx context.Context) (predictor.Model, error) {
			return gbm.Open(ctx, cfg.Path)
		}, nil
	case types.ModelSourceRemote:
		return func(ctx context.Context) (predictor.Model, error) {
			return remote.Open(ctx, cfg.RemoteURL, cfg.Timeout)
		}, nil
	default:
		return nil, fmt.Errorf("unknown model source %q", cfg.Source)
	}
}
