package handlers

import (
	"errors"
	"net/http"

	"github.com/RoyceCho1/DCDR/internal/api/models"
	"github.com/RoyceCho1/DCDR/internal/config"
	"github.com/RoyceCho1/DCDR/internal/data"
	"github.com/RoyceCho1/DCDR/internal/model"
	"github.com/RoyceCho1/DCDR/internal/pipeline"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AnalyzeHandler runs the full feasibility chain.
type AnalyzeHandler struct {
	log *zap.SugaredLogger
}

func NewAnalyzeHandler(log *zap.SugaredLogger) *AnalyzeHandler {
	return &AnalyzeHandler{log: log}
}

// RunAnalyze handles POST /api/v1/analyze
func (h *AnalyzeHandler) RunAnalyze(c *gin.Context) {
	var req models.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	cfg := config.Default()
	if req.ConfigPath != "" {
		loaded, err := config.Load(req.ConfigPath)
		if err != nil {
			writeError(c, http.StatusBadRequest, "INVALID_CONFIG", err)
			return
		}
		cfg = loaded
	}

	load, err := data.LoadLoadCSV(req.LoadPath)
	if err != nil {
		writePipelineError(c, err)
		return
	}
	prices, err := data.LoadPriceCSV(req.PricePath)
	if err != nil {
		writePipelineError(c, err)
		return
	}
	baseline := model.FlatBaseline(req.BaselineKW)
	if req.BaselinePath != "" {
		baseline, err = data.LoadBaselineCSV(req.BaselinePath)
		if err != nil {
			writePipelineError(c, err)
			return
		}
	}

	out, err := pipeline.Run(cfg, pipeline.Inputs{Load: load, Prices: prices, Baseline: baseline})
	if err != nil {
		h.log.Warnw("analysis failed", "error", err)
		writePipelineError(c, err)
		return
	}

	resp := models.AnalyzeResponse{
		Status: "completed",
		Summary: models.AnalyzeSummary{
			RatedLoadKW:   out.Rated.OverallKW,
			EventCount:    len(out.Events),
			AnnualRevenue: out.Annual.TotalRevenue,
			ShortfallProb: out.Shortfall,
			NPV:           out.Projection.NPV,
			IRR:           out.Projection.IRR,
			PaybackYear:   out.Projection.PaybackYear,
		},
		Revenue:     out.Revenue,
		Reliability: out.Reliability,
		Sensitivity: out.Sensitivity,
	}
	if len(out.Events) > 0 {
		resp.Summary.Window = models.TimeWindow{
			Start: out.Events[0].Start,
			End:   out.Events[len(out.Events)-1].End(),
		}
	}
	if out.ScaleUp != nil {
		resp.Summary.ScaleUpNPV = out.ScaleUp.NPV
	}
	if req.Options.IncludeEvents {
		resp.Events = out.Events
	}
	if req.Options.IncludeProjection {
		resp.Projection = out.Projection
		resp.ScaleUp = out.ScaleUp
	}

	h.log.Infow("analysis completed",
		"events", len(out.Events),
		"rated_kw", out.Rated.OverallKW,
		"npv", out.Projection.NPV,
	)
	c.JSON(http.StatusOK, resp)
}

func writeError(c *gin.Context, status int, code string, err error) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: err.Error(),
		},
	})
}

// writePipelineError maps the typed pipeline errors onto stable API codes.
func writePipelineError(c *gin.Context, err error) {
	var (
		insufficient *model.InsufficientDataError
		malformed    *model.MalformedSeriesError
		divZero      *model.DivisionByZeroError
		assumption   *model.InvalidAssumptionError
	)
	switch {
	case errors.As(err, &insufficient):
		writeStageError(c, "INSUFFICIENT_DATA", insufficient.Stage, insufficient.Ref, err)
	case errors.As(err, &malformed):
		writeStageError(c, "MALFORMED_SERIES", malformed.Stage, malformed.Ref, err)
	case errors.As(err, &divZero):
		writeStageError(c, "DIVISION_BY_ZERO", divZero.Stage, divZero.Ref, err)
	case errors.As(err, &assumption):
		writeStageError(c, "INVALID_ASSUMPTION", assumption.Stage, assumption.Ref, err)
	default:
		writeError(c, http.StatusBadRequest, "ANALYSIS_ERROR", err)
	}
}

func writeStageError(c *gin.Context, code, stage, ref string, err error) {
	c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: err.Error(),
			Details: map[string]interface{}{
				"stage": stage,
				"ref":   ref,
			},
		},
	})
}
