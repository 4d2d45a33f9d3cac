package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/NabirasulA/Galaxy/internal/client/alphavantage"
	"github.com/NabirasulA/Galaxy/internal/client/ipoalerts"
	"github.com/NabirasulA/Galaxy/internal/service"
)

// MarketHandler proxies the market-movers and IPO feeds.
type MarketHandler struct {
	Market *service.MarketService
	IPO    *service.IPOService
}

func (h *MarketHandler) Register(r *gin.Engine) {
	g := r.Group("/portfolio/stock")
	g.GET("/gainers", h.section(alphavantage.SectionTopGainers))
	g.GET("/losers", h.section(alphavantage.SectionTopLosers))
	g.GET("/active", h.section(alphavantage.SectionMostActive))
	g.GET("/ipos", h.listIPOs)
	g.GET("/ipos/:id", h.getIPO)
}

// @Summary Market movers
// @Description top_gainers, top_losers or most_active from the cached movers document.
// @Tags market
// @Produce json
// @Success 200 {array} object
// @Failure 502 {object} gatewayFailure
// @Failure 503 {object} gatewayFailure
// @Router /portfolio/stock/gainers [get]
// @Router /portfolio/stock/losers [get]
// @Router /portfolio/stock/active [get]
func (h *MarketHandler) section(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := h.Market.Section(c.Request.Context(), name)
		if err != nil {
			writeGatewayError(c, err)
			return
		}
		rawJSON(c, body)
	}
}

// @Summary IPO listings
// @Tags ipo
// @Produce json
// @Param status query string false "upcoming|open|closed|listed"
// @Param type query string false "EQ|SME"
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(1)
// @Success 200 {object} object
// @Failure 502 {object} gatewayFailure
// @Failure 503 {object} gatewayFailure
// @Router /portfolio/stock/ipos [get]
func (h *MarketHandler) listIPOs(c *gin.Context) {
	body, err := h.IPO.List(c.Request.Context(), ipoalerts.ListParams{
		Status: c.Query("status"),
		Type:   c.Query("type"),
		Page:   intQuery(c, "page", 0),
		Limit:  intQuery(c, "limit", 0),
	})
	if err != nil {
		writeGatewayError(c, err)
		return
	}
	rawJSON(c, body)
}

// @Summary IPO detail
// @Tags ipo
// @Produce json
// @Param id path string true "IPO id or slug"
// @Success 200 {object} object
// @Failure 502 {object} gatewayFailure
// @Router /portfolio/stock/ipos/{id} [get]
func (h *MarketHandler) getIPO(c *gin.Context) {
	body, err := h.IPO.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeGatewayError(c, err)
		return
	}
	rawJSON(c, body)
}
