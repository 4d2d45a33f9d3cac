package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/NabirasulA/Galaxy/internal/client/alphavantage"
	"github.com/NabirasulA/Galaxy/internal/ledger"
	"github.com/NabirasulA/Galaxy/internal/models"
)

const (
	ValuationCostBasis = "cost_basis"
	ValuationMarket    = "market"
)

// Valuer prices a set of holdings.
type Valuer interface {
	Value(ctx context.Context, holdings []models.Position) (decimal.Decimal, error)
}

// CostBasisValuer prices each holding at its own average purchase price, so
// the day-over-day change only reflects buys and sells.
type CostBasisValuer struct{}

func (CostBasisValuer) Value(_ context.Context, holdings []models.Position) (decimal.Decimal, error) {
	return ledger.CostBasisValue(holdings), nil
}

type QuoteSource interface {
	Quote(ctx context.Context, symbol string) (alphavantage.Quote, bool, error)
}

// MarketValuer prices holdings at the latest quote and falls back to cost
// basis for any symbol that cannot be quoted.
type MarketValuer struct {
	Quotes QuoteSource
	Logger *zap.Logger
}

func (v MarketValuer) Value(ctx context.Context, holdings []models.Position) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, h := range holdings {
		price := h.CostBasis
		if v.Quotes != nil {
			q, ok, err := v.Quotes.Quote(ctx, h.Symbol)
			switch {
			case err != nil:
				if ctx.Err() != nil {
					return decimal.Zero, ctx.Err()
				}
				if v.Logger != nil {
					v.Logger.Warn("quote failed, using cost basis", zap.String("symbol", h.Symbol), zap.Error(err))
				}
			case ok:
				price = q.Price
			}
		}
		total = total.Add(price.Mul(decimal.NewFromInt(h.Quantity)))
	}
	return total, nil
}

func NewValuer(mode string, quotes QuoteSource, logger *zap.Logger) Valuer {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ValuationMarket:
		return MarketValuer{Quotes: quotes, Logger: logger}
	default:
		return CostBasisValuer{}
	}
}
