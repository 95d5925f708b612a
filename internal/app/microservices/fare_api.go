package microservices

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Temutjin2k/fare-predictor/config"
	"github.com/Temutjin2k/fare-predictor/internal/adapter/http/handler"
	"github.com/Temutjin2k/fare-predictor/internal/adapter/http/middleware"
	"github.com/Temutjin2k/fare-predictor/internal/adapter/http/server"
	"github.com/Temutjin2k/fare-predictor/internal/adapter/locationIQ"
	"github.com/Temutjin2k/fare-predictor/internal/adapter/model"
	broker "github.com/Temutjin2k/fare-predictor/internal/adapter/rabbit"
	cache "github.com/Temutjin2k/fare-predictor/internal/adapter/redis"
	"github.com/Temutjin2k/fare-predictor/internal/service/auth"
	"github.com/Temutjin2k/fare-predictor/internal/service/fare"
	"github.com/Temutjin2k/fare-predictor/internal/service/predictor"
	"github.com/Temutjin2k/fare-predictor/pkg/logger"
	"github.com/Temutjin2k/fare-predictor/pkg/nrapp"
	"github.com/Temutjin2k/fare-predictor/pkg/rabbit"
	redisclient "github.com/Temutjin2k/fare-predictor/pkg/redis"
	ws "github.com/Temutjin2k/fare-predictor/pkg/wsHub"
)

// FareAPIService serves fare quotes. Redis, RabbitMQ and LocationIQ are
// optional: when one is unreachable at start the service runs without it.
type FareAPIService struct {
	predictor  *predictor.Predictor
	rabbit     *rabbit.RabbitMQ
	redis      *goredis.Client
	nrApp      *newrelic.Application
	hub        *ws.ConnectionHub
	httpServer *server.API

	cfg config.Config
	log logger.Logger
}

func NewFareAPI(ctx context.Context, cfg config.Config, log logger.Logger) (*FareAPIService, error) {
	s := &FareAPIService{cfg: cfg, log: log}

	nrApp, err := nrapp.New(cfg.NewRelic)
	if err != nil {
		log.Warn(ctx, "new relic disabled", "error", err.Error())
	}
	s.nrApp = nrApp

	load, err := model.Loader(cfg.Model)
	if err != nil {
		return nil, err
	}
	s.predictor = predictor.New(load, string(cfg.Model.Source), cfg.Mode.String(), log)
	if cfg.Model.LoadOnStart {
		// a missing model is not fatal: quotes return 503 and loading is retried per request
		if err := s.predictor.Load(ctx); err != nil {
			log.Warn(ctx, "fare model not loaded at startup", "error", err.Error())
		}
	}

	var fareCache fare.Cache
	if cfg.Redis.Enabled {
		client, err := redisclient.New(ctx, cfg.Redis, nrApp)
		if err != nil {
			log.Warn(ctx, "redis unavailable, fare cache disabled", "error", err.Error())
		} else {
			s.redis = client
			fareCache = cache.NewFareCache(client, cfg.Redis.TTL)
		}
	}

	var publisher fare.Publisher
	if cfg.RabbitMQ.Enabled {
		mq, err := rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), log)
		if err != nil {
			log.Warn(ctx, "rabbitmq unavailable, fare events disabled", "error", err.Error())
		} else {
			s.rabbit = mq
			fareBroker := broker.NewFareBroker(mq, cfg.Mode.String(), log)
			if err := fareBroker.Setup(ctx); err != nil {
				log.Warn(ctx, "failed to declare fare exchange", "error", err.Error())
			}
			publisher = fareBroker
		}
	}

	var geocoder fare.Geocoder
	if cfg.ExternalAPI.LocationIQapiKey != "" {
		geocoder = locationIQ.New(cfg.ExternalAPI.LocationIQapiKey, cfg.ExternalAPI.LocationIQBaseURL, cfg.ExternalAPI.LocationIQTimeout)
	}

	var tokens middleware.TokenValidator
	if cfg.Auth.Enabled {
		ts, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
		if err != nil {
			return nil, err
		}
		tokens = ts
	}

	fareService := fare.New(s.predictor, fareCache, publisher, geocoder, log)
	s.hub = ws.NewConnHub(cfg.Mode.String(), log)

	s.httpServer, err = server.New(cfg, server.Deps{
		Fare:     fareService,
		Tokens:   tokens,
		Hub:      s.hub,
		Probes:   s.probes(),
		NewRelic: nrApp,
	}, log)
	if err != nil {
		log.Error(ctx, "Failed to setup http server", err)
		s.close(ctx)
		return nil, err
	}

	return s, nil
}

func (s *FareAPIService) probes() []handler.Probe {
	probes := []handler.Probe{{
		Name:  "model",
		Check: s.predictor.Load,
	}}
	if s.rabbit != nil {
		probes = append(probes, handler.Probe{Name: "rabbitmq", Check: func(context.Context) error {
			if s.rabbit.IsConnectionClosed() {
				return errors.New("connection closed")
			}
			return nil
		}})
	}
	if s.redis != nil {
		probes = append(probes, handler.Probe{Name: "redis", Check: func(ctx context.Context) error {
			return s.redis.Ping(ctx).Err()
		}})
	}
	return probes
}

func (s *FareAPIService) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	s.httpServer.Run(ctx, errCh)
	defer func() {
		s.close(ctx)
		s.log.Info(ctx, "fare api service closed")
	}()

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	s.log.Info(ctx, "fare api service started", "model_source", s.cfg.Model.Source)

	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		s.log.Info(ctx, "shuting down application", "signal", sig.String())
		return nil
	}
}

func (s *FareAPIService) close(ctx context.Context) {
	if s.httpServer != nil {
		if err := s.httpServer.Stop(ctx); err != nil {
			s.log.Warn(ctx, "Failed to gracefully close http server", "error", err.Error())
		}
	}

	if s.hub != nil {
		s.hub.Close()
	}

	if s.predictor != nil {
		if err := s.predictor.Close(); err != nil {
			s.log.Warn(ctx, "Failed to release fare model", "error", err.Error())
		}
	}

	if s.rabbit != nil {
		if err := s.rabbit.Close(ctx); err != nil {
			s.log.Warn(ctx, "Failed to close rabbitmq", "error", err.Error())
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.log.Warn(ctx, "Failed to close redis", "error", err.Error())
		}
	}

	if s.nrApp != nil {
		s.nrApp.Shutdown(5 * time.Second)
	}
}
