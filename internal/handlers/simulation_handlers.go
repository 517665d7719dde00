package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/epeers/divsim/internal/cache"
	"github.com/epeers/divsim/internal/export"
	"github.com/epeers/divsim/internal/models"
	"github.com/epeers/divsim/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	log "github.com/sirupsen/logrus"
)

// Multipart form field names of a simulation upload
const (
	HoldingsField = "holdings"
	ParamsField   = "params"
)

// SimulationHandler handles projection endpoints
type SimulationHandler struct {
	simulationSvc *services.SimulationService
	resultCache   *cache.MemoryCache
}

// NewSimulationHandler creates a new SimulationHandler.
// resultCache may be nil, in which case every request is projected afresh.
func NewSimulationHandler(simulationSvc *services.SimulationService, resultCache *cache.MemoryCache) *SimulationHandler {
	return &SimulationHandler{
		simulationSvc: simulationSvc,
		resultCache:   resultCache,
	}
}

// Simulate handles POST /simulations
// @Summary Project a dividend portfolio
// @Description Upload a holdings CSV and optional assumptions; returns the per-holding detail table, the portfolio summary and the income chart series
// @Tags simulations
// @Accept multipart/form-data
// @Produce json
// @Param holdings formData file true "CSV with Symbol, Starting Shares, Share Price, Dividend, Payout Frequency"
// @Param params formData string false "SimulationParameters JSON; omitted fields use the defaults"
// @Success 200 {object} models.SimulationResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /simulations [post]
func (h *SimulationHandler) Simulate(c *gin.Context) {
	result, ok := h.run(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, result)
}

// DownloadSummary handles POST /simulations/summary.csv
// @Summary Download the portfolio summary
// @Description Same input as POST /simulations; responds with the year-by-year summary as Portfolio_Summary.csv
// @Tags simulations
// @Accept multipart/form-data
// @Produce text/csv
// @Param holdings formData file true "Holdings CSV"
// @Param params formData string false "SimulationParameters JSON"
// @Success 200 {file} file
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /simulations/summary.csv [post]
func (h *SimulationHandler) DownloadSummary(c *gin.Context) {
	result, ok := h.run(c)
	if !ok {
		return
	}
	data, err := export.SummaryCSV(result.Summary)
	if err != nil {
		internalError(c, err)
		return
	}
	attachment(c, export.SummaryFilename, data)
}

// DownloadDetails handles POST /simulations/details.csv
// @Summary Download the per-holding detail table
// @Tags simulations
// @Accept multipart/form-data
// @Produce text/csv
// @Param holdings formData file true "Holdings CSV"
// @Param params formData string false "SimulationParameters JSON"
// @Success 200 {file} file
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /simulations/details.csv [post]
func (h *SimulationHandler) DownloadDetails(c *gin.Context) {
	result, ok := h.run(c)
	if !ok {
		return
	}
	data, err := export.DetailsCSV(result.Details)
	if err != nil {
		internalError(c, err)
		return
	}
	attachment(c, export.DetailsFilename, data)
}

// SimulateHoldings handles POST /simulations/json
// @Summary Project already typed holdings
// @Description JSON alternative to the CSV upload. Holdings are numbered from 1 in error responses; params fields that are omitted use the defaults
// @Tags simulations
// @Accept json
// @Produce json
// @Param request body models.SimulationRequest true "Holdings and assumptions"
// @Success 200 {object} models.SimulationResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /simulations/json [post]
func (h *SimulationHandler) SimulateHoldings(c *gin.Context) {
	req := models.SimulationRequest{Params: models.DefaultSimulationParameters()}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: "invalid request JSON: " + err.Error(),
		})
		return
	}

	result, err := h.simulationSvc.Simulate(c.Request.Context(), req.Holdings, req.Params)
	if err != nil {
		simulationError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// run reads the upload, runs the projection and writes any error response.
// It returns false when a response has already been written.
func (h *SimulationHandler) run(c *gin.Context) (*models.SimulationResult, bool) {
	params := models.DefaultSimulationParameters()
	if raw := c.PostForm(ParamsField); raw != "" {
		if err := binding.JSON.BindBody([]byte(raw), &params); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "bad_request",
				Message: "invalid params JSON: " + err.Error(),
			})
			return nil, false
		}
	}

	fileHeader, err := c.FormFile(HoldingsField)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: fmt.Sprintf("a CSV file is required in form field %q", HoldingsField),
		})
		return nil, false
	}
	file, err := fileHeader.Open()
	if err != nil {
		internalError(c, err)
		return nil, false
	}
	defer file.Close()

	rows, err := ParseHoldingsCSV(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return nil, false
	}

	var key string
	if h.resultCache != nil {
		key = cache.ResultKey(rows, params)
		if result, ok := h.resultCache.Get(key); ok {
			log.Debugf("Serving cached projection %s", key[:12])
			return result, true
		}
	}

	result, err := h.simulationSvc.Run(c.Request.Context(), rows, params)
	if err != nil {
		simulationError(c, err)
		return nil, false
	}

	if h.resultCache != nil {
		h.resultCache.Set(key, result)
	}
	return result, true
}

// simulationError maps a service error onto the API error codes
func simulationError(c *gin.Context, err error) {
	var inputErr *services.InvalidInputError
	var rangeErr *services.ParameterRangeError
	var overflowErr *services.NumericOverflowError
	switch {
	case errors.As(err, &inputErr):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_input",
			Message: inputErr.Error(),
			Row:     inputErr.Row,
			Symbol:  inputErr.Symbol,
			Field:   inputErr.Field,
		})
	case errors.As(err, &rangeErr):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "parameter_out_of_range",
			Message: rangeErr.Error(),
			Field:   rangeErr.Field,
		})
	case errors.As(err, &overflowErr):
		log.Warnf("Projection overflowed: %v", overflowErr)
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "numeric_overflow",
			Message: overflowErr.Error(),
			Symbol:  overflowErr.Symbol,
		})
	case errors.Is(err, services.ErrNoHoldings):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "no_holdings",
			Message: "the holdings table has no usable rows",
		})
	default:
		internalError(c, err)
	}
}

func attachment(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, export.MediaType+"; charset=utf-8", data)
}

func internalError(c *gin.Context, err error) {
	log.Errorf("Simulation request failed: %v", err)
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	})
}
