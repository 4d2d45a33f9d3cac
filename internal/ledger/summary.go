package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/NabirasulA/Galaxy/internal/models"
)

const (
	DateLayout  = "2006-01-02"
	GainMessage = "Your portfolio gained today 📈"
	LossMessage = "Your portfolio incurred a loss today 📉"
)

type Summary struct {
	Date         string          `json:"date"`
	TotalValue   decimal.Decimal `json:"totalValue"`
	ProfitOrLoss decimal.Decimal `json:"profitOrLoss"`
	Message      string          `json:"message"`
}

// Day truncates t to its calendar date in t's own location, returned as UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CostBasisValue sums cost basis times quantity over holdings.
func CostBasisValue(holdings []models.Position) decimal.Decimal {
	total := decimal.Zero
	for _, h := range holdings {
		total = total.Add(h.MarketValue())
	}
	return total
}

// Generate values holdings at cost basis and summarizes against prior.
func Generate(today time.Time, holdings []models.Position, prior *models.PortfolioSnapshot) (Summary, models.PortfolioSnapshot) {
	return Summarize(today, CostBasisValue(holdings), prior)
}

// Summarize builds the day's summary and the snapshot row to persist for it.
// With no prior snapshot the whole value counts as the day's change.
func Summarize(today time.Time, totalValue decimal.Decimal, prior *models.PortfolioSnapshot) (Summary, models.PortfolioSnapshot) {
	day := Day(today)
	totalValue = totalValue.Round(PriceScale)
	previous := decimal.Zero
	if prior != nil {
		previous = prior.TotalValue
	}
	pnl := totalValue.Sub(previous)

	msg := GainMessage
	if pnl.IsNegative() {
		msg = LossMessage
	}
	snap := models.PortfolioSnapshot{
		Date:         day,
		TotalValue:   totalValue,
		ProfitOrLoss: pnl,
	}
	return Summary{
		Date:         day.Format(DateLayout),
		TotalValue:   totalValue,
		ProfitOrLoss: pnl,
		Message:      msg,
	}, snap
}
