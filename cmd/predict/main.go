// Command predict prints a single fare estimate for the trip given on the
// command line. Defaults reproduce the sample trip of the fare form.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Temutjin2k/fare-predictor/config"
	"github.com/Temutjin2k/fare-predictor/internal/adapter/model"
	"github.com/Temutjin2k/fare-predictor/internal/domain/models"
	"github.com/Temutjin2k/fare-predictor/internal/domain/types"
	"github.com/Temutjin2k/fare-predictor/internal/service/fare"
	"github.com/Temutjin2k/fare-predictor/internal/service/predictor"
	"github.com/Temutjin2k/fare-predictor/pkg/logger"
)

var (
	modelSource = flag.String("model-source", "file", "model source (file | remote)")
	modelPath   = flag.String("model-path", "models/final_model.json", "path to the model artifact")
	modelURL    = flag.String("model-url", "http://localhost:8500", "base URL of the remote scorer")
	timeout     = flag.Duration("timeout", 5*time.Second, "model load and scoring timeout")
	logLevel    = flag.String("log-level", logger.LevelError, "log level")

	pickupLat   = flag.Float64("pickup-lat", 40.7128, "pickup latitude")
	pickupLon   = flag.Float64("pickup-lon", -74.0060, "pickup longitude")
	dropoffLat  = flag.Float64("dropoff-lat", 40.7831, "dropoff latitude")
	dropoffLon  = flag.Float64("dropoff-lon", -73.9712, "dropoff longitude")
	passengers  = flag.Int("passengers", 1, "passenger count (1-6)")
	pickupTime  = flag.String("pickup", "2023-10-27 15:30:00", "pickup date and time (YYYY-MM-DD HH:MM:SS)")
	dropoffTime = flag.String("dropoff", "2023-10-27 15:50:00", "dropoff date and time (YYYY-MM-DD HH:MM:SS)")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", describe(err))
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	log := logger.InitLogger("predict", *logLevel)

	cfg := config.ModelConfig{
		Source:    types.ModelSource(*modelSource),
		Path:      *modelPath,
		RemoteURL: *modelURL,
		Timeout:   *timeout,
	}
	load, err := model.Loader(cfg)
	if err != nil {
		return err
	}

	p := predictor.New(load, *modelSource, "predict-cli", log)
	defer p.Close()

	quote, err := fare.New(p, nil, nil, nil, log).Quote(ctx, models.TripRequest{
		PickupLatitude:   *pickupLat,
		PickupLongitude:  *pickupLon,
		DropoffLatitude:  *dropoffLat,
		DropoffLongitude: *dropoffLon,
		PassengerCount:   *passengers,
		PickupDatetime:   *pickupTime,
		DropoffDatetime:  *dropoffTime,
	})
	if err != nil {
		return err
	}

	fmt.Print(quote.Summary())
	return nil
}

func describe(err error) string {
	switch {
	case errors.Is(err, types.ErrParse):
		return fmt.Sprintf("%v. Please check the date and time format (YYYY-MM-DD HH:MM:SS).", err)
	case errors.Is(err, types.ErrModelUnavailable):
		return fmt.Sprintf("could not load the model: %v", err)
	default:
		return err.Error()
	}
}
