package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/NabirasulA/Galaxy/internal/ledger"
	"github.com/NabirasulA/Galaxy/internal/repository"
	"github.com/NabirasulA/Galaxy/internal/service"
)

type PortfolioHandler struct {
	Portfolio *service.PortfolioService
	Summary   *service.DailySummaryService
}

func (h *PortfolioHandler) Register(r *gin.Engine) {
	g := r.Group("/portfolio")
	g.GET("", h.list)
	g.POST("/stock", h.add)
	g.PUT("/stock/:id", h.updateQuantity)
	g.DELETE("/stock/:id", h.remove)
	g.PUT("/stock/:id/sell", h.sell)
	g.GET("/stock/search", h.search)
	g.GET("/daily-summary", h.dailySummary)
	g.GET("/snapshots", h.snapshots)
	g.GET("/positions", h.page)
}

type addStockRequest struct {
	Symbol      string          `json:"symbol"`
	CompanyName string          `json:"companyName"`
	Quantity    int64           `json:"quantity"`
	BuyPrice    decimal.Decimal `json:"buyPrice"`
}

// @Summary List holdings
// @Tags portfolio
// @Produce json
// @Success 200 {array} models.Position
// @Router /portfolio [get]
func (h *PortfolioHandler) list(c *gin.Context) {
	items, err := h.Portfolio.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary Buy shares
// @Description Merges the purchase into the existing position, averaging the cost basis.
// @Tags portfolio
// @Accept json
// @Produce json
// @Param body body addStockRequest true "purchase"
// @Success 201 {object} models.Position
// @Failure 400 {object} apiResponse
// @Router /portfolio/stock [post]
func (h *PortfolioHandler) add(c *gin.Context) {
	var req addStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	pos, err := h.Portfolio.AddOrUpdate(c.Request.Context(), ledger.Lot{
		Symbol:      req.Symbol,
		CompanyName: req.CompanyName,
		Quantity:    req.Quantity,
		UnitPrice:   req.BuyPrice,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pos)
}

// @Summary Set quantity
// @Description Overwrites the share count; 0 removes the position.
// @Tags portfolio
// @Produce json
// @Param id path int true "position id"
// @Param quantity query int true "new quantity"
// @Success 200 {object} models.Position
// @Success 204
// @Failure 400 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Router /portfolio/stock/{id} [put]
func (h *PortfolioHandler) updateQuantity(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		writeError(c, err)
		return
	}
	qty, err := requiredInt64Query(c, "quantity")
	if err != nil {
		writeError(c, err)
		return
	}
	pos, removed, err := h.Portfolio.UpdateQuantity(c.Request.Context(), id, qty)
	if err != nil {
		writeError(c, err)
		return
	}
	if removed {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, pos)
}

// @Summary Remove a position
// @Tags portfolio
// @Param id path int true "position id"
// @Success 204
// @Failure 404 {object} apiResponse
// @Router /portfolio/stock/{id} [delete]
func (h *PortfolioHandler) remove(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.Portfolio.Remove(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Sell shares
// @Tags portfolio
// @Param id path int true "position id"
// @Param quantity query int true "shares to sell"
// @Success 204
// @Failure 400 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Failure 409 {object} apiResponse
// @Router /portfolio/stock/{id}/sell [put]
func (h *PortfolioHandler) sell(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		writeError(c, err)
		return
	}
	qty, err := requiredInt64Query(c, "quantity")
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.Portfolio.Sell(c.Request.Context(), id, qty); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Find a position by symbol
// @Tags portfolio
// @Produce json
// @Param symbol query string true "ticker"
// @Success 200 {object} models.Position
// @Failure 400 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Router /portfolio/stock/search [get]
func (h *PortfolioHandler) search(c *gin.Context) {
	pos, err := h.Portfolio.Search(c.Request.Context(), c.Query("symbol"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pos)
}

// @Summary Generate today's summary
// @Description Values the portfolio, stores today's snapshot and compares it with the previous one.
// @Tags portfolio
// @Produce json
// @Success 200 {object} ledger.Summary
// @Router /portfolio/daily-summary [get]
func (h *PortfolioHandler) dailySummary(c *gin.Context) {
	summary, err := h.Summary.Generate(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// @Summary Snapshot history
// @Tags portfolio
// @Produce json
// @Param limit query int false "page size" default(30)
// @Param offset query int false "offset"
// @Param since query string false "YYYY-MM-DD"
// @Param until query string false "YYYY-MM-DD"
// @Success 200 {object} apiResponse
// @Router /portfolio/snapshots [get]
func (h *PortfolioHandler) snapshots(c *gin.Context) {
	since, err := dateQueryPtr(c, "since")
	if err != nil {
		writeError(c, err)
		return
	}
	until, err := dateQueryPtr(c, "until")
	if err != nil {
		writeError(c, err)
		return
	}
	limit := pageLimit(c, 30)
	offset := intQuery(c, "offset", 0)
	items, total, err := h.Summary.ListSnapshots(c.Request.Context(), repository.ListPortfolioSnapshotsParams{
		Limit:  limit,
		Offset: offset,
		Since:  since,
		Until:  until,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

// positionOrder maps public sort names onto columns.
var positionOrder = map[string]string{
	"id":         "id",
	"symbol":     "symbol",
	"quantity":   "quantity",
	"buyprice":   "buy_price",
	"buy_price":  "buy_price",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// @Summary Page through holdings
// @Tags portfolio
// @Produce json
// @Param limit query int false "page size" default(100)
// @Param offset query int false "offset"
// @Param order_by query string false "id|symbol|quantity|buy_price|created_at|updated_at"
// @Param asc query bool false "ascending"
// @Success 200 {object} apiResponse
// @Router /portfolio/positions [get]
func (h *PortfolioHandler) page(c *gin.Context) {
	limit := pageLimit(c, 100)
	offset := intQuery(c, "offset", 0)
	params := repository.ListPositionsParams{
		Limit:   limit,
		Offset:  offset,
		OrderBy: parseOrder(c.Query("order_by"), positionOrder),
		Asc:     boolPtr(strings.EqualFold(c.Query("asc"), "true")),
	}
	items, total, err := h.Portfolio.Page(c.Request.Context(), params)
	if err != nil {
		writeError(c, err)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}
