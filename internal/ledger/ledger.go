// Package ledger holds the position arithmetic of the portfolio: merging a
// purchased lot into a position, reducing it on a sale and overwriting its
// quantity. Functions take values and return new values; persistence is the
// caller's job.
package ledger

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/NabirasulA/Galaxy/internal/models"
)

// PriceScale is the number of decimals kept on a cost basis.
const PriceScale = 2

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrInsufficientQuantity = errors.New("insufficient quantity")
	ErrNotFound             = errors.New("not found")
)

// Lot is a single purchase to be merged into a position.
type Lot struct {
	Symbol      string
	CompanyName string
	Quantity    int64
	UnitPrice   decimal.Decimal
}

// NormalizeSymbol trims and upper-cases a ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// MergeLot folds lot into existing, or opens a new position when existing is nil.
// The merged cost basis is the quantity-weighted average rounded half-up to
// PriceScale decimals. existing is never modified.
func MergeLot(existing *models.Position, lot Lot) (models.Position, error) {
	symbol := NormalizeSymbol(lot.Symbol)
	if symbol == "" {
		return models.Position{}, fmt.Errorf("%w: symbol is required", ErrInvalidInput)
	}
	if lot.Quantity <= 0 {
		return models.Position{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}
	if lot.UnitPrice.IsNegative() {
		return models.Position{}, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	if existing == nil {
		return models.Position{
			Symbol:      symbol,
			CompanyName: strings.TrimSpace(lot.CompanyName),
			Quantity:    lot.Quantity,
			CostBasis:   lot.UnitPrice.Round(PriceScale),
		}, nil
	}
	if NormalizeSymbol(existing.Symbol) != symbol {
		return models.Position{}, fmt.Errorf("%w: lot %s does not match position %s", ErrInvalidInput, symbol, existing.Symbol)
	}

	if lot.Quantity > math.MaxInt64-existing.Quantity {
		return models.Position{}, fmt.Errorf("%w: quantity overflows position", ErrInvalidInput)
	}

	merged := *existing
	totalQty := existing.Quantity + lot.Quantity
	totalCost := existing.CostBasis.Mul(decimal.NewFromInt(existing.Quantity)).
		Add(lot.UnitPrice.Mul(decimal.NewFromInt(lot.Quantity)))
	merged.Quantity = totalQty
	merged.CostBasis = totalCost.DivRound(decimal.NewFromInt(totalQty), PriceScale)
	if merged.CompanyName == "" {
		merged.CompanyName = strings.TrimSpace(lot.CompanyName)
	}
	return merged, nil
}

// Reduce removes sellQuantity shares from existing. When nothing is left the
// returned removed flag is set and the position must be deleted rather than saved.
func Reduce(existing models.Position, sellQuantity int64) (models.Position, bool, error) {
	if sellQuantity <= 0 {
		return models.Position{}, false, fmt.Errorf("%w: sell quantity must be positive", ErrInvalidInput)
	}
	if sellQuantity > existing.Quantity {
		return models.Position{}, false, fmt.Errorf("%w: holding %d of %s, selling %d",
			ErrInsufficientQuantity, existing.Quantity, existing.Symbol, sellQuantity)
	}
	next := existing
	next.Quantity -= sellQuantity
	if next.Quantity == 0 {
		return next, true, nil
	}
	return next, false, nil
}

// SetQuantity overwrites the quantity of existing without touching its cost basis.
// A zero quantity reports removed, the same way Reduce does.
func SetQuantity(existing *models.Position, quantity int64) (models.Position, bool, error) {
	if existing == nil {
		return models.Position{}, false, ErrNotFound
	}
	if quantity < 0 {
		return models.Position{}, false, fmt.Errorf("%w: quantity must not be negative", ErrInvalidInput)
	}
	next := *existing
	next.Quantity = quantity
	return next, quantity == 0, nil
}
