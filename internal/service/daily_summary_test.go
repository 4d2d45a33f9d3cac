package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NabirasulA/Galaxy/internal/client/alphavantage"
	"github.com/NabirasulA/Galaxy/internal/events"
	"github.com/NabirasulA/Galaxy/internal/ledger"
	"github.com/NabirasulA/Galaxy/internal/models"
	"github.com/NabirasulA/Galaxy/internal/repository"
	"github.com/NabirasulA/Galaxy/internal/repository/memory"
)

func seed(t *testing.T, repo *memory.Store, symbol string, qty int64, price string) {
	t.Helper()
	p := &models.Position{Symbol: symbol, Quantity: qty, CostBasis: decimal.RequireFromString(price)}
	require.NoError(t, repo.SavePosition(context.Background(), p))
}

func TestDailySummaryFirstDayAndNext(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	seed(t, repo, "AAPL", 15, "166.67")
	seed(t, repo, "MSFT", 1, "599.99")

	now := time.Date(2024, time.March, 1, 23, 55, 0, 0, time.UTC)
	pub := &recordingPublisher{}
	svc := &DailySummaryService{Repo: repo, Events: pub, Now: func() time.Time { return now }}

	first, err := svc.Generate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", first.Date)
	assert.Equal(t, "3100.04", first.TotalValue.StringFixed(2))
	assert.True(t, first.ProfitOrLoss.Equal(first.TotalValue))
	assert.Equal(t, ledger.GainMessage, first.Message)

	again, err := svc.Generate(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Date, again.Date)
	assert.True(t, first.TotalValue.Equal(again.TotalValue))
	assert.True(t, first.ProfitOrLoss.Equal(again.ProfitOrLoss))

	p, err := repo.GetPositionBySymbol(ctx, "MSFT")
	require.NoError(t, err)
	_, err = repo.DeletePosition(ctx, p.ID)
	require.NoError(t, err)

	now = now.Add(24 * time.Hour)
	next, err := svc.Generate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-02", next.Date)
	assert.Equal(t, "-599.99", next.ProfitOrLoss.StringFixed(2))
	assert.Equal(t, ledger.LossMessage, next.Message)

	items, total, err := svc.ListSnapshots(ctx, repository.ListPortfolioSnapshotsParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	assert.Equal(t, "2024-03-02", items[0].Date.Format(ledger.DateLayout))
	assert.Equal(t, []string{events.SnapshotGenerated, events.SnapshotGenerated, events.SnapshotGenerated}, pub.types())
}

func TestDailySummaryUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	now := time.Date(2024, time.March, 1, 20, 0, 0, 0, time.UTC)
	svc := &DailySummaryService{Repo: memory.New(), Location: loc, Now: func() time.Time { return now }}

	s, err := svc.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-03-02", s.Date)
}

func TestDailySummaryCronSwitch(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	flags := &SystemSettingsService{Repo: repo}
	require.NoError(t, flags.SetEnabled(ctx, FeatureDailySummaryCron, false))

	svc := &DailySummaryService{Repo: repo, Flags: flags}
	require.NoError(t, svc.RunScheduled(ctx))
	n, err := repo.CountPortfolioSnapshots(ctx, repository.ListPortfolioSnapshotsParams{})
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, flags.SetEnabled(ctx, FeatureDailySummaryCron, true))
	require.NoError(t, svc.RunScheduled(ctx))
	n, err = repo.CountPortfolioSnapshots(ctx, repository.ListPortfolioSnapshotsParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

type stubQuotes map[string]string

func (q stubQuotes) Quote(_ context.Context, symbol string) (alphavantage.Quote, bool, error) {
	raw, ok := q[symbol]
	if !ok {
		return alphavantage.Quote{}, false, nil
	}
	if raw == "error" {
		return alphavantage.Quote{}, false, errors.New("throttled")
	}
	return alphavantage.Quote{Symbol: symbol, Price: decimal.RequireFromString(raw)}, true, nil
}

func TestMarketValuerFallsBackToCostBasis(t *testing.T) {
	holdings := []models.Position{
		{Symbol: "AAPL", Quantity: 10, CostBasis: decimal.RequireFromString("100")},
		{Symbol: "MSFT", Quantity: 2, CostBasis: decimal.RequireFromString("300")},
		{Symbol: "XYZ", Quantity: 1, CostBasis: decimal.RequireFromString("5")},
	}
	v := NewValuer(ValuationMarket, stubQuotes{"AAPL": "110.50", "MSFT": "error"}, nil)
	total, err := v.Value(context.Background(), holdings)
	require.NoError(t, err)
	// 10*110.50 + 2*300 + 1*5
	assert.Equal(t, "1710.00", total.StringFixed(2))

	cb, err := NewValuer("", nil, nil).Value(context.Background(), holdings)
	require.NoError(t, err)
	assert.Equal(t, "1605.00", cb.StringFixed(2))
}
