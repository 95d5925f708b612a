package handler

import (
	"context"
	"net/http"

	"github.com/Temutjin2k/fare-predictor/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/fare-predictor/internal/domain/models"
	"github.com/Temutjin2k/fare-predictor/pkg/logger"
	wrap "github.com/Temutjin2k/fare-predictor/pkg/logger/wrapper"
	"github.com/Temutjin2k/fare-predictor/pkg/validator"
)

type FareService interface {
	Quote(ctx context.Context, req models.TripRequest) (*models.FareQuote, error)
	Schema() models.ModelInfo
}

type Fare struct {
	service FareService
	l       logger.Logger
}

func NewFare(service FareService, l logger.Logger) *Fare {
	return &Fare{
		service: service,
		l:       l,
	}
}

// Predict godoc
// @Summary      Predict a fare
// @Description  Derives trip features from the request and scores them with the loaded model
// @Tags         Fares
// @Accept       json
// @Produce      json
// @Param        request  body      dto.PredictFareRequest  true  "Trip"
// @Success      200      {object}  dto.PredictFareResponse
// @Failure      400      {object}  map[string]string
// @Failure      422      {object}  map[string]any
// @Failure      503      {object}  map[string]string
// @Security     BearerAuth
// @Router       /fares/predict [post]
func (h *Fare) Predict(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "predict_fare")

	var req dto.PredictFareRequest
	if err := readJSON(w, r, &req); err != nil {
		h.l.Warn(ctx, "failed to read request JSON data", "error", err.Error())
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		h.l.Warn(ctx, "invalid request data")
		failedValidationResponse(w, v.Errors)
		return
	}

	quote, err := h.service.Quote(ctx, req.ToModel())
	if err != nil {
		code := GetCode(err)
		if code >= http.StatusInternalServerError {
			h.l.Error(wrap.ErrorCtx(ctx, err), "failed to predict fare", err)
		} else {
			h.l.Warn(wrap.ErrorCtx(ctx, err), "fare request rejected", "error", err.Error())
		}
		errorResponse(w, code, ClientMessage(err))
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"quote": quote}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, "failed to encode response")
	}
}

// Schema godoc
// @Summary      Model schema
// @Description  Returns the model input feature names in order and the loaded model version
// @Tags         Fares
// @Produce      json
// @Success      200  {object}  dto.SchemaResponse
// @Router       /fares/schema [get]
func (h *Fare) Schema(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "fare_schema")

	if err := writeJSON(w, http.StatusOK, envelope{"model": h.service.Schema()}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, "failed to encode response")
	}
}
