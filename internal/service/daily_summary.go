package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/NabirasulA/Galaxy/internal/events"
	"github.com/NabirasulA/Galaxy/internal/ledger"
	"github.com/NabirasulA/Galaxy/internal/metrics"
	"github.com/NabirasulA/Galaxy/internal/models"
	"github.com/NabirasulA/Galaxy/internal/repository"
)

type DailySummaryService struct {
	Repo    repository.Repository
	Valuer  Valuer
	Logger  *zap.Logger
	Events  events.Publisher
	Metrics *metrics.Metrics
	Flags   *SystemSettingsService

	// Location decides which calendar date "today" is. Defaults to UTC.
	Location *time.Location
	Now      func() time.Time
}

// Generate values the current holdings, compares them with the latest
// snapshot dated before today and stores today's snapshot, replacing any
// earlier one for the same date.
func (s *DailySummaryService) Generate(ctx context.Context) (ledger.Summary, error) {
	today := s.today()
	day := ledger.Day(today)

	holdings, err := s.Repo.ListAllPositions(ctx)
	if err != nil {
		return ledger.Summary{}, err
	}
	valuer := s.Valuer
	if valuer == nil {
		valuer = CostBasisValuer{}
	}
	total, err := valuer.Value(ctx, holdings)
	if err != nil {
		return ledger.Summary{}, err
	}
	prior, err := s.Repo.GetLatestPortfolioSnapshotBefore(ctx, day)
	if err != nil {
		return ledger.Summary{}, err
	}

	summary, snap := ledger.Summarize(today, total, prior)
	if err := s.Repo.UpsertPortfolioSnapshot(ctx, &snap); err != nil {
		return ledger.Summary{}, err
	}

	s.Metrics.SetPortfolio(summary.TotalValue.InexactFloat64(), len(holdings))
	if s.Logger != nil {
		s.Logger.Info("daily summary generated",
			zap.String("date", summary.Date),
			zap.String("total_value", summary.TotalValue.StringFixed(ledger.PriceScale)),
			zap.String("profit_or_loss", summary.ProfitOrLoss.StringFixed(ledger.PriceScale)),
			zap.Bool("has_prior", prior != nil),
		)
	}
	if s.Events != nil {
		err := s.Events.Publish(ctx, events.New(events.SnapshotGenerated, summary.Date, summary))
		s.Metrics.ObserveEvent(events.SnapshotGenerated, err)
		if err != nil && s.Logger != nil {
			s.Logger.Warn("publish snapshot event failed", zap.Error(err))
		}
	}
	return summary, nil
}

// RunScheduled is the cron entry point; it honours the daily summary switch.
func (s *DailySummaryService) RunScheduled(ctx context.Context) error {
	if s.Flags != nil && !s.Flags.IsEnabled(ctx, FeatureDailySummaryCron, true) {
		if s.Logger != nil {
			s.Logger.Info("daily summary cron disabled by switch")
		}
		return nil
	}
	_, err := s.Generate(ctx)
	return err
}

func (s *DailySummaryService) ListSnapshots(ctx context.Context, params repository.ListPortfolioSnapshotsParams) ([]models.PortfolioSnapshot, int64, error) {
	items, err := s.Repo.ListPortfolioSnapshots(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Repo.CountPortfolioSnapshots(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	if items == nil {
		items = []models.PortfolioSnapshot{}
	}
	return items, total, nil
}

func (s *DailySummaryService) today() time.Time {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	return now().In(loc)
}
