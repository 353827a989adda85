package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Temutjin2k/fair-fares/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/fair-fares/internal/domain/models"
	"github.com/Temutjin2k/fair-fares/internal/domain/types"
	"github.com/Temutjin2k/fair-fares/pkg/logger"
	wrap "github.com/Temutjin2k/fair-fares/pkg/logger/wrapper"
	"github.com/Temutjin2k/fair-fares/pkg/metrics"
	"github.com/Temutjin2k/fair-fares/pkg/validator"
)

type FareCalculator interface {
	Calculate(ctx context.Context, req models.CalculateRequest) (*models.FareResult, error)
}

type RecordService interface {
	Save(ctx context.Context, srcode string, req models.SaveRequest) (*models.SaveResponse, error)
	History(ctx context.Context, srcode string) ([]models.FareRecord, error)
	Delete(ctx context.Context, srcode string, id int64) error
	WeeklyAverage(ctx context.Context, srcode string) (*models.WeeklyAverage, error)
}

type Fare struct {
	calc    FareCalculator
	records RecordService
	l       logger.Logger
}

func NewFare(calc FareCalculator, records RecordService, l logger.Logger) *Fare {
	return &Fare{
		calc:    calc,
		records: records,
		l:       l,
	}
}

// Calculate godoc
// @Summary      Price a route
// @Description  Unknown start or destination answers 400 with the offending field and the available locations.
// @Tags         Fare
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        srcode query string true "SRCODE"
// @Param        request body models.CalculateRequest true "Route"
// @Success      200  {object}  models.FareResult
// @Failure      400  {object}  map[string]string
// @Router       /fare/calculate [post]
func (h *Fare) Calculate(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionCalculateFare)

	req := &models.CalculateRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	result, err := h.calc.Calculate(ctx, *req)
	metrics.RecordFareCalculation(int(req.District), err)
	if err != nil {
		if GetCode(err) >= http.StatusInternalServerError {
			h.l.Error(wrap.ErrorCtx(ctx, err), "failed to calculate fare", err)
		}
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Save godoc
// @Summary      Save a calculated fare
// @Tags         Fare
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        srcode query string true "SRCODE"
// @Param        request body models.SaveRequest true "Fare record"
// @Success      200  {object}  models.SaveResponse
// @Failure      422  {object}  map[string]any
// @Router       /fare/save [post]
func (h *Fare) Save(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionSaveFare)

	req := &models.SaveRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateSave(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	resp, err := h.records.Save(ctx, srcodeOf(r), *req)
	if err != nil {
		if GetCode(err) >= http.StatusInternalServerError {
			h.l.Error(wrap.ErrorCtx(ctx, err), "failed to save fare record", err)
		}
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, resp, nil); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// History godoc
// @Summary      Saved fares, most recent first
// @Tags         Fare
// @Produce      json
// @Security     BearerAuth
// @Param        srcode query string true "SRCODE"
// @Success      200  {array}   models.FareRecord
// @Router       /fare/user-history [get]
func (h *Fare) History(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionFareHistory)

	records, err := h.records.History(ctx, srcodeOf(r))
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to load fare history", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, records, nil); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Delete godoc
// @Summary      Delete one of the caller's fare records
// @Tags         Fare
// @Produce      json
// @Security     BearerAuth
// @Param        id     path  int    true "Record id"
// @Param        srcode query string true "SRCODE"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /fare/delete/{id} [delete]
func (h *Fare) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionDeleteFare)

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequestResponse(w, "invalid record id")
		return
	}
	ctx = wrap.WithRecordID(ctx, strconv.FormatInt(id, 10))

	if err := h.records.Delete(ctx, srcodeOf(r), id); err != nil {
		if GetCode(err) >= http.StatusInternalServerError {
			h.l.Error(wrap.ErrorCtx(ctx, err), "failed to delete fare record", err)
		}
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"message": "Record deleted successfully"}, nil); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// WeeklyAverage godoc
// @Summary      Average total fare over the trailing seven days
// @Tags         Fare
// @Produce      json
// @Security     BearerAuth
// @Param        srcode query string true "SRCODE"
// @Success      200  {object}  models.WeeklyAverage
// @Router       /fare/weekly-average [get]
func (h *Fare) WeeklyAverage(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionWeeklyAverage)

	avg, err := h.records.WeeklyAverage(ctx, srcodeOf(r))
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to compute weekly average", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, avg, nil); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}
