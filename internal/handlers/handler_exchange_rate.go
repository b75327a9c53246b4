package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/openbooks/ledger_engine/internal/core/ports/services"
	"github.com/openbooks/ledger_engine/internal/dto"
)

// exchangeRateHandler handles HTTP requests for exchange rates.
type exchangeRateHandler struct {
	fxService portssvc.FxSvcFacade
}

func registerExchangeRateRoutes(rg *gin.RouterGroup, svc portssvc.FxSvcFacade) {
	h := &exchangeRateHandler{fxService: svc}
	rates := rg.Group("/rates")
	{
		rates.POST("", h.createRate)
		rates.GET("", h.listRates)
	}
}

func (h *exchangeRateHandler) createRate(c *gin.Context) {
	var req dto.CreateExchangeRateRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rate, err := h.fxService.CreateExchangeRate(c.Request.Context(), c.Param("ledgerID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create exchange rate")
		return
	}
	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(rate))
}

func (h *exchangeRateHandler) listRates(c *gin.Context) {
	rates, err := h.fxService.ListRates(c.Request.Context(), c.Param("ledgerID"))
	if err != nil {
		respondError(c, err, "Failed to list exchange rates")
		return
	}
	responses := make([]dto.ExchangeRateResponse, len(rates))
	for i := range rates {
		responses[i] = dto.ToExchangeRateResponse(&rates[i])
	}
	c.JSON(http.StatusOK, responses)
}
