package http

import (
	"net/http"

	"smart-invest-api/internal/analyzer/dto"
	"smart-invest-api/internal/analyzer/repository"
	"smart-invest-api/internal/analyzer/service"
	"smart-invest-api/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnalysisHandler handles HTTP requests for ticker analysis and market
// index quotes.
type AnalysisHandler struct {
	analyzerService service.AnalyzerService
	marketIndexRepo repository.MarketIndexRepository
	logger          *logger.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(analyzerService service.AnalyzerService, marketIndexRepo repository.MarketIndexRepository, logger *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analyzerService: analyzerService,
		marketIndexRepo: marketIndexRepo,
		logger:          logger,
	}
}

// RegisterRoutes registers the analysis routes to the Echo group.
func (h *AnalysisHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/analyze", h.Analyze)
	g.GET("/indices", h.GetIndices)
}

// Analyze runs the scoring pipeline for the requested ticker. Pipeline
// failures are reported as a structured error body, never as a panic or an
// empty response.
func (h *AnalysisHandler) Analyze(c echo.Context) error {
	var req dto.AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.analyzerService.Analyze(c.Request().Context(), &req)
	if err != nil {
		h.logger.Error("Analysis failed", logger.ErrorField(err), logger.StringField("ticker", req.Ticker))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, resp)
}

// GetIndices returns cached quotes for the configured market indices.
func (h *AnalysisHandler) GetIndices(c echo.Context) error {
	quotes, err := h.marketIndexRepo.GetQuotes(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to get index quotes", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get index quotes"})
	}
	return c.JSON(http.StatusOK, quotes)
}
