package handlers

import (
	"net/http"

	"github.com/RoyceCho1/DCDR/internal/api/models"
	"github.com/RoyceCho1/DCDR/internal/config"
	"github.com/RoyceCho1/DCDR/internal/strategy"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DCFHandler exposes the long-term engine standalone, for callers that
// already have annualized revenue figures.
type DCFHandler struct {
	log *zap.SugaredLogger
}

func NewDCFHandler(log *zap.SugaredLogger) *DCFHandler {
	return &DCFHandler{log: log}
}

// RunDCF handles POST /api/v1/dcf
func (h *DCFHandler) RunDCF(c *gin.Context) {
	var req models.DCFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	proj, err := strategy.New().Project(toAssumptions(req.Assumptions), req.ShortfallProbability)
	if err != nil {
		writePipelineError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.DCFResponse{
		Status:      "completed",
		NPV:         proj.NPV,
		IRR:         proj.IRR,
		PaybackYear: proj.PaybackYear,
		Projection:  proj,
	})
}

// RunSensitivity handles POST /api/v1/sensitivity
func (h *DCFHandler) RunSensitivity(c *gin.Context) {
	var req models.SensitivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	params := make([]config.ParamBound, 0, len(req.Params))
	for _, p := range req.Params {
		params = append(params, config.ParamBound{Name: p.Name, Low: p.Low, High: p.High})
	}

	eng := strategy.New()
	asm := toAssumptions(req.Assumptions)
	entries, err := eng.Tornado(asm, req.ShortfallProbability, params)
	if err != nil {
		writePipelineError(c, err)
		return
	}

	base := 0.0
	if len(entries) > 0 {
		base = entries[0].BaseNPV
	}
	c.JSON(http.StatusOK, models.SensitivityResponse{
		Status:  "completed",
		BaseNPV: base,
		Entries: entries,
	})
}

func toAssumptions(a models.DCFAssumptions) strategy.Assumptions {
	years := a.ProjectionYears
	if years == 0 {
		years = 30
	}
	return strategy.Assumptions{
		DiscountRate:      a.DiscountRate,
		Years:             years,
		CapacityRevenueY1: a.CapacityRevenueY1,
		EnergyRevenueY1:   a.EnergyRevenueY1,
		CapacityGrowth:    a.CapacityGrowth,
		EnergyGrowth:      a.EnergyGrowth,
		AggregatorFee:     a.AggregatorFee,
		CapexInitial:      a.CapexInitial,
		CapexReinvestRate: a.CapexReinvestRate,
		ReinvestYears:     []int{10, 20},
		ESSRefurbCost:     a.ESSRefurbCost,
		RefurbYear:        15,
		OpexRate:          a.OpexRate,
		Haircut: strategy.HaircutPolicy{
			Policy: a.HaircutPolicy,
			Factor: a.HaircutFactor,
		},
	}
}
