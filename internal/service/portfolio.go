package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/NabirasulA/Galaxy/internal/events"
	"github.com/NabirasulA/Galaxy/internal/ledger"
	"github.com/NabirasulA/Galaxy/internal/metrics"
	"github.com/NabirasulA/Galaxy/internal/models"
	"github.com/NabirasulA/Galaxy/internal/repository"
)

// PortfolioService applies ledger operations to stored positions. Every
// read-compute-write on a symbol runs under that symbol's lock.
type PortfolioService struct {
	Repo    repository.PositionRepository
	Logger  *zap.Logger
	Events  events.Publisher
	Metrics *metrics.Metrics

	locks symbolLocks
}

func (s *PortfolioService) List(ctx context.Context) ([]models.Position, error) {
	items, err := s.Repo.ListAllPositions(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Position{}
	}
	return items, nil
}

func (s *PortfolioService) Page(ctx context.Context, params repository.ListPositionsParams) ([]models.Position, int64, error) {
	items, err := s.Repo.ListPositions(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Repo.CountPositions(ctx)
	if err != nil {
		return nil, 0, err
	}
	if items == nil {
		items = []models.Position{}
	}
	return items, total, nil
}

// AddOrUpdate merges a purchase into the position for lot.Symbol, creating it
// on the first buy.
func (s *PortfolioService) AddOrUpdate(ctx context.Context, lot ledger.Lot) (models.Position, error) {
	symbol := ledger.NormalizeSymbol(lot.Symbol)
	if symbol == "" {
		return models.Position{}, fmt.Errorf("%w: symbol is required", ledger.ErrInvalidInput)
	}
	lot.Symbol = symbol

	merged, err := s.mergeLocked(ctx, lot)
	if err != nil {
		return models.Position{}, err
	}
	s.log().Info("position merged",
		zap.String("symbol", merged.Symbol),
		zap.Int64("lot_quantity", lot.Quantity),
		zap.String("lot_price", lot.UnitPrice.StringFixed(ledger.PriceScale)),
		zap.Int64("quantity", merged.Quantity),
		zap.String("cost_basis", merged.CostBasis.StringFixed(ledger.PriceScale)),
	)
	s.publish(ctx, events.New(events.PositionMerged, merged.Symbol, merged))
	return merged, nil
}

// mergeLocked runs the read-merge-write for lot.Symbol under its lock. The
// lock is released before the caller logs or publishes.
func (s *PortfolioService) mergeLocked(ctx context.Context, lot ledger.Lot) (models.Position, error) {
	unlock := s.locks.lock(lot.Symbol)
	defer unlock()

	merged, err := s.mergeAndSave(ctx, lot)
	if errors.Is(err, repository.ErrDuplicate) {
		// Another writer created the row between our read and insert.
		merged, err = s.mergeAndSave(ctx, lot)
	}
	return merged, err
}

func (s *PortfolioService) mergeAndSave(ctx context.Context, lot ledger.Lot) (models.Position, error) {
	existing, err := s.Repo.GetPositionBySymbol(ctx, lot.Symbol)
	if err != nil {
		return models.Position{}, err
	}
	merged, err := ledger.MergeLot(existing, lot)
	if err != nil {
		return models.Position{}, err
	}
	if err := s.Repo.SavePosition(ctx, &merged); err != nil {
		return models.Position{}, err
	}
	return merged, nil
}

// UpdateQuantity overwrites a position's quantity. Zero removes the position
// and reports removed.
func (s *PortfolioService) UpdateQuantity(ctx context.Context, id uint64, quantity int64) (models.Position, bool, error) {
	if quantity < 0 {
		return models.Position{}, false, fmt.Errorf("%w: quantity must not be negative", ledger.ErrInvalidInput)
	}
	var (
		next    models.Position
		removed bool
	)
	err := s.withPosition(ctx, id, func(current *models.Position) error {
		var err error
		next, removed, err = ledger.SetQuantity(current, quantity)
		if err != nil {
			return err
		}
		if removed {
			return s.delete(ctx, next.ID)
		}
		return s.Repo.SavePosition(ctx, &next)
	})
	if err != nil {
		return models.Position{}, false, err
	}
	if removed {
		s.log().Info("position removed by quantity update", zap.String("symbol", next.Symbol), zap.Uint64("id", id))
		s.publish(ctx, events.New(events.PositionRemoved, next.Symbol, next))
	} else {
		s.log().Info("position quantity set", zap.String("symbol", next.Symbol), zap.Int64("quantity", next.Quantity))
		s.publish(ctx, events.New(events.PositionQuantitySet, next.Symbol, next))
	}
	return next, removed, nil
}

// Sell reduces a position, deleting it when nothing is left.
func (s *PortfolioService) Sell(ctx context.Context, id uint64, quantity int64) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: sell quantity must be positive", ledger.ErrInvalidInput)
	}
	var (
		next    models.Position
		removed bool
	)
	err := s.withPosition(ctx, id, func(current *models.Position) error {
		var err error
		next, removed, err = ledger.Reduce(*current, quantity)
		if err != nil {
			return err
		}
		if removed {
			return s.delete(ctx, next.ID)
		}
		return s.Repo.SavePosition(ctx, &next)
	})
	if err != nil {
		return err
	}
	s.log().Info("position reduced",
		zap.String("symbol", next.Symbol),
		zap.Int64("sold", quantity),
		zap.Int64("remaining", next.Quantity),
		zap.Bool("removed", removed),
	)
	typ := events.PositionReduced
	if removed {
		typ = events.PositionRemoved
	}
	s.publish(ctx, events.New(typ, next.Symbol, next))
	return nil
}

func (s *PortfolioService) Remove(ctx context.Context, id uint64) error {
	var removed models.Position
	err := s.withPosition(ctx, id, func(current *models.Position) error {
		removed = *current
		return s.delete(ctx, current.ID)
	})
	if err != nil {
		return err
	}
	s.log().Info("position removed", zap.String("symbol", removed.Symbol), zap.Uint64("id", id))
	s.publish(ctx, events.New(events.PositionRemoved, removed.Symbol, removed))
	return nil
}

func (s *PortfolioService) Search(ctx context.Context, symbol string) (*models.Position, error) {
	symbol = ledger.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", ledger.ErrInvalidInput)
	}
	item, err := s.Repo.GetPositionBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: no position for symbol %s", ledger.ErrNotFound, symbol)
	}
	return item, nil
}

// withPosition resolves id to its symbol, takes the symbol lock and re-reads
// the row so fn sees the latest committed state.
func (s *PortfolioService) withPosition(ctx context.Context, id uint64, fn func(current *models.Position) error) error {
	first, err := s.Repo.GetPositionByID(ctx, id)
	if err != nil {
		return err
	}
	if first == nil {
		return notFound(id)
	}
	unlock := s.locks.lock(first.Symbol)
	defer unlock()

	current, err := s.Repo.GetPositionByID(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return notFound(id)
	}
	return fn(current)
}

func (s *PortfolioService) delete(ctx context.Context, id uint64) error {
	ok, err := s.Repo.DeletePosition(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFound(id)
	}
	return nil
}

func (s *PortfolioService) publish(ctx context.Context, evt events.Event) {
	if s.Events == nil {
		return
	}
	err := s.Events.Publish(ctx, evt)
	s.Metrics.ObserveEvent(evt.Type, err)
	if err != nil {
		s.log().Warn("publish event failed", zap.String("type", evt.Type), zap.String("key", evt.Key), zap.Error(err))
	}
}

func (s *PortfolioService) log() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func notFound(id uint64) error {
	return fmt.Errorf("%w: stock not found with id: %s", ledger.ErrNotFound, strconv.FormatUint(id, 10))
}
