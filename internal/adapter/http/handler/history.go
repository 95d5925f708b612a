package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/Temutjin2k/fare-predictor/internal/domain/models"
	"github.com/Temutjin2k/fare-predictor/pkg/logger"
	wrap "github.com/Temutjin2k/fare-predictor/pkg/logger/wrapper"
	"github.com/Temutjin2k/fare-predictor/pkg/validator"
)

const (
	defaultPageSize  = 20
	defaultStatsDays = 7
)

type HistoryService interface {
	Get(ctx context.Context, id uuid.UUID) (*models.PredictionRecord, error)
	List(ctx context.Context, f models.Filters) ([]*models.PredictionRecord, models.Metadata, error)
	Stats(ctx context.Context, days int) ([]models.DailyStats, error)
}

type History struct {
	service      HistoryService
	sortSafelist []string
	l            logger.Logger
}

func NewHistory(service HistoryService, sortSafelist []string, l logger.Logger) *History {
	return &History{
		service:      service,
		sortSafelist: sortSafelist,
		l:            l,
	}
}

// List godoc
// @Summary      List predictions
// @Description  Returns one page of recorded fare predictions
// @Tags         Predictions
// @Produce      json
// @Param        page       query     int     false  "Page number"         default(1)
// @Param        page_size  query     int     false  "Page size (max 100)" default(20)
// @Param        sort       query     string  false  "Sort column, prefix with - for descending" default(-predicted_at)
// @Success      200        {object}  dto.ListPredictionsResponse
// @Failure      422        {object}  map[string]any
// @Security     BearerAuth
// @Router       /predictions [get]
func (h *History) List(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_predictions")

	qs := r.URL.Query()
	v := validator.New()

	filters := models.Filters{
		Page:         readInt(qs, "page", 1, v),
		PageSize:     readInt(qs, "page_size", defaultPageSize, v),
		Sort:         readString(qs, "sort", "-predicted_at"),
		SortSafelist: h.sortSafelist,
	}
	if filters.Validate(v); !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	records, meta, err := h.service.List(ctx, filters)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list predictions", err)
		errorResponse(w, GetCode(err), ClientMessage(err))
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"predictions": records, "metadata": meta}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, "failed to encode response")
	}
}

// Get godoc
// @Summary      Get prediction
// @Tags         Predictions
// @Produce      json
// @Param        id   path      string  true  "Prediction ID"
// @Success      200  {object}  models.PredictionRecord
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /predictions/{id} [get]
func (h *History) Get(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_prediction")

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		badRequestResponse(w, "invalid prediction id")
		return
	}

	rec, err := h.service.Get(ctx, id)
	if err != nil {
		code := GetCode(err)
		if code >= http.StatusInternalServerError {
			h.l.Error(wrap.ErrorCtx(ctx, err), "failed to get prediction", err)
		}
		errorResponse(w, code, ClientMessage(err))
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"prediction": rec}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, "failed to encode response")
	}
}

// Stats godoc
// @Summary      Daily prediction stats
// @Tags         Predictions
// @Produce      json
// @Param        days  query     int  false  "Number of days (1-366)"  default(7)
// @Success      200   {object}  dto.StatsResponse
// @Failure      422   {object}  map[string]any
// @Security     BearerAuth
// @Router       /predictions/stats [get]
func (h *History) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "prediction_stats")

	v := validator.New()
	days := readInt(r.URL.Query(), "days", defaultStatsDays, v)
	v.Check(days >= 1 && days <= 366, "days", "must be between 1 and 366")
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	stats, err := h.service.Stats(ctx, days)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to load prediction stats", err)
		errorResponse(w, GetCode(err), ClientMessage(err))
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"days": days, "stats": stats}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, "failed to encode response")
	}
}
