package microservices

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/Temutjin2k/fare-predictor/config"
	"github.com/Temutjin2k/fare-predictor/internal/adapter/http/handler"
	"github.com/Temutjin2k/fare-predictor/internal/adapter/http/middleware"
	"github.com/Temutjin2k/fare-predictor/internal/adapter/http/server"
	repo "github.com/Temutjin2k/fare-predictor/internal/adapter/postgres"
	broker "github.com/Temutjin2k/fare-predictor/internal/adapter/rabbit"
	"github.com/Temutjin2k/fare-predictor/internal/service/auth"
	"github.com/Temutjin2k/fare-predictor/internal/service/history"
	"github.com/Temutjin2k/fare-predictor/pkg/logger"
	"github.com/Temutjin2k/fare-predictor/pkg/nrapp"
	"github.com/Temutjin2k/fare-predictor/pkg/postgres"
	"github.com/Temutjin2k/fare-predictor/pkg/rabbit"
	"github.com/Temutjin2k/fare-predictor/pkg/trm"
)

// RecorderService consumes fare events into PostgreSQL and serves the history API.
type RecorderService struct {
	postgresDB *postgres.PostgreDB
	rabbit     *rabbit.RabbitMQ
	broker     *broker.FareBroker
	history    *history.Service
	nrApp      *newrelic.Application
	httpServer *server.API

	wg  sync.WaitGroup
	cfg config.Config
	log logger.Logger
}

func NewRecorder(ctx context.Context, cfg config.Config, log logger.Logger) (*RecorderService, error) {
	s := &RecorderService{cfg: cfg, log: log}

	nrApp, err := nrapp.New(cfg.NewRelic)
	if err != nil {
		log.Warn(ctx, "new relic disabled", "error", err.Error())
	}
	s.nrApp = nrApp

	if err := postgres.Migrate(repo.Migrations, repo.MigrationsDir, cfg.Database); err != nil {
		log.Error(ctx, "Failed to apply migrations", err)
		return nil, err
	}

	s.postgresDB, err = postgres.New(ctx, cfg.Database)
	if err != nil {
		log.Error(ctx, "Failed to setup database", err)
		return nil, err
	}

	s.rabbit, err = rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), log)
	if err != nil {
		log.Error(ctx, "Failed to connect to rabbitmq", err)
		s.close(ctx)
		return nil, err
	}
	s.broker = broker.NewFareBroker(s.rabbit, cfg.Mode.String(), log)

	predictionRepo := repo.NewPredictionRepo(s.postgresDB.Pool)
	s.history = history.New(predictionRepo, trm.New(s.postgresDB.Pool), log)

	var tokens middleware.TokenValidator
	if cfg.Auth.Enabled {
		ts, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
		if err != nil {
			s.close(ctx)
			return nil, err
		}
		tokens = ts
	}

	s.httpServer, err = server.New(cfg, server.Deps{
		History:      s.history,
		SortSafelist: repo.PredictionSortSafelist,
		Tokens:       tokens,
		Probes: []handler.Probe{
			{Name: "postgres", Check: func(ctx context.Context) error { return s.postgresDB.Pool.Ping(ctx) }},
		},
		NewRelic: nrApp,
	}, log)
	if err != nil {
		log.Error(ctx, "Failed to setup http server", err)
		s.close(ctx)
		return nil, err
	}

	return s, nil
}

func (s *RecorderService) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	consumeCtx, stopConsuming := context.WithCancel(ctx)
	s.wg.Go(func() {
		if err := s.broker.ConsumeFarePredicted(consumeCtx, s.history.Record); err != nil {
			select {
			case errCh <- err:
			default:
			}
		}
	})

	s.httpServer.Run(ctx, errCh)
	defer func() {
		stopConsuming()
		s.wg.Wait()
		s.close(ctx)
		s.log.Info(ctx, "fare recorder service closed")
	}()

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	s.log.Info(ctx, "fare recorder service started")

	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		s.log.Info(ctx, "shuting down application", "signal", sig.String())
		return nil
	}
}

func (s *RecorderService) close(ctx context.Context) {
	if s.httpServer != nil {
		if err := s.httpServer.Stop(ctx); err != nil {
			s.log.Warn(ctx, "Failed to gracefully close http server", "error", err.Error())
		}
	}

	if s.rabbit != nil {
		if err := s.rabbit.Close(ctx); err != nil {
			s.log.Warn(ctx, "Failed to close rabbitmq", "error", err.Error())
		}
	}

	if s.postgresDB != nil && s.postgresDB.Pool != nil {
		s.postgresDB.Pool.Close()
	}

	if s.nrApp != nil {
		s.nrApp.Shutdown(5 * time.Second)
	}
}
