// Package memory is a process-local Repository. It backs tests and the
// db.driver=memory mode; nothing survives a restart.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/NabirasulA/Galaxy/internal/models"
	"github.com/NabirasulA/Galaxy/internal/repository"
)

type Store struct {
	mu sync.RWMutex

	positions map[uint64]models.Position
	snapshots map[string]models.PortfolioSnapshot
	settings  map[string]models.SystemSetting

	nextPositionID uint64
	nextSnapshotID uint64
	nextSettingID  uint64

	now func() time.Time
}

func New() *Store {
	return &Store{
		positions: make(map[uint64]models.Position),
		snapshots: make(map[string]models.PortfolioSnapshot),
		settings:  make(map[string]models.SystemSetting),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Ping(context.Context) error { return nil }

// --- positions ---------------------------------------------------------------

func (s *Store) ListPositions(_ context.Context, params repository.ListPositionsParams) ([]models.Position, error) {
	s.mu.RLock()
	items := make([]models.Position, 0, len(s.positions))
	for _, p := range s.positions {
		items = append(items, p)
	}
	s.mu.RUnlock()

	asc := params.Asc != nil && *params.Asc
	sort.SliceStable(items, func(i, j int) bool {
		less := positionLess(items[i], items[j], params.OrderBy)
		if asc {
			return less
		}
		return positionLess(items[j], items[i], params.OrderBy)
	})
	return page(items, params.Limit, params.Offset, 500), nil
}

func positionLess(a, b models.Position, orderBy string) bool {
	switch strings.TrimSpace(orderBy) {
	case "symbol":
		if a.Symbol != b.Symbol {
			return a.Symbol < b.Symbol
		}
	case "quantity":
		if a.Quantity != b.Quantity {
			return a.Quantity < b.Quantity
		}
	case "buy_price":
		if !a.CostBasis.Equal(b.CostBasis) {
			return a.CostBasis.LessThan(b.CostBasis)
		}
	case "created_at":
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
	case "updated_at":
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.Before(b.UpdatedAt)
		}
	}
	return a.ID < b.ID
}

func (s *Store) CountPositions(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.positions)), nil
}

func (s *Store) ListAllPositions(context.Context) ([]models.Position, error) {
	s.mu.RLock()
	items := make([]models.Position, 0, len(s.positions))
	for _, p := range s.positions {
		items = append(items, p)
	}
	s.mu.RUnlock()
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *Store) GetPositionByID(_ context.Context, id uint64) (*models.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.positions[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *Store) GetPositionBySymbol(_ context.Context, symbol string) (*models.Position, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.positions {
		if p.Symbol == symbol {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

func (s *Store) SavePosition(_ context.Context, item *models.Position) error {
	if item == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if item.ID == 0 {
		for _, p := range s.positions {
			if p.Symbol == item.Symbol {
				return repository.ErrDuplicate
			}
		}
		s.nextPositionID++
		item.ID = s.nextPositionID
		item.CreatedAt = now
	} else if prev, ok := s.positions[item.ID]; ok {
		item.CreatedAt = prev.CreatedAt
	} else {
		return nil
	}
	item.UpdatedAt = now
	s.positions[item.ID] = *item
	return nil
}

func (s *Store) DeletePosition(_ context.Context, id uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.positions[id]; !ok {
		return false, nil
	}
	delete(s.positions, id)
	return true, nil
}

// --- snapshots ---------------------------------------------------------------

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func (s *Store) UpsertPortfolioSnapshot(_ context.Context, item *models.PortfolioSnapshot) error {
	if item == nil || item.Date.IsZero() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	key := dateKey(item.Date)
	if prev, ok := s.snapshots[key]; ok {
		item.ID = prev.ID
		item.CreatedAt = prev.CreatedAt
	} else {
		s.nextSnapshotID++
		item.ID = s.nextSnapshotID
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	s.snapshots[key] = *item
	return nil
}

func (s *Store) GetPortfolioSnapshotByDate(_ context.Context, date time.Time) (*models.PortfolioSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[dateKey(date)]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (s *Store) GetLatestPortfolioSnapshotBefore(_ context.Context, date time.Time) (*models.PortfolioSnapshot, error) {
	cutoff := dateKey(date)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *models.PortfolioSnapshot
	for key, snap := range s.snapshots {
		if key >= cutoff {
			continue
		}
		if latest == nil || key > dateKey(latest.Date) {
			found := snap
			latest = &found
		}
	}
	return latest, nil
}

func (s *Store) ListPortfolioSnapshots(_ context.Context, params repository.ListPortfolioSnapshotsParams) ([]models.PortfolioSnapshot, error) {
	items := s.snapshotRange(params)
	return page(items, params.Limit, params.Offset, 90), nil
}

func (s *Store) CountPortfolioSnapshots(_ context.Context, params repository.ListPortfolioSnapshotsParams) (int64, error) {
	return int64(len(s.snapshotRange(params))), nil
}

func (s *Store) snapshotRange(params repository.ListPortfolioSnapshotsParams) []models.PortfolioSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]models.PortfolioSnapshot, 0, len(s.snapshots))
	for key, snap := range s.snapshots {
		if params.Since != nil && !params.Since.IsZero() && key < dateKey(*params.Since) {
			continue
		}
		if params.Until != nil && !params.Until.IsZero() && key > dateKey(*params.Until) {
			continue
		}
		items = append(items, snap)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Date.After(items[j].Date) })
	return items
}

// --- settings ----------------------------------------------------------------

func (s *Store) UpsertSystemSetting(_ context.Context, item *models.SystemSetting) error {
	if item == nil {
		return nil
	}
	item.Key = strings.TrimSpace(item.Key)
	if item.Key == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if prev, ok := s.settings[item.Key]; ok {
		item.ID = prev.ID
		item.CreatedAt = prev.CreatedAt
	} else {
		s.nextSettingID++
		item.ID = s.nextSettingID
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	s.settings[item.Key] = *item
	return nil
}

func (s *Store) GetSystemSettingByKey(_ context.Context, key string) (*models.SystemSetting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.settings[strings.TrimSpace(key)]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (s *Store) ListSystemSettings(_ context.Context, params repository.ListSystemSettingsParams) ([]models.SystemSetting, error) {
	items := s.settingsWithPrefix(params.Prefix)
	asc := params.Asc != nil && *params.Asc
	byKey := strings.TrimSpace(params.OrderBy) == "key"
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !asc {
			a, b = b, a
		}
		if byKey {
			return a.Key < b.Key
		}
		return a.ID < b.ID
	})
	return page(items, params.Limit, params.Offset, 500), nil
}

func (s *Store) CountSystemSettings(_ context.Context, params repository.ListSystemSettingsParams) (int64, error) {
	return int64(len(s.settingsWithPrefix(params.Prefix))), nil
}

func (s *Store) settingsWithPrefix(prefix *string) []models.SystemSetting {
	p := ""
	if prefix != nil {
		p = strings.TrimSpace(*prefix)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]models.SystemSetting, 0, len(s.settings))
	for key, item := range s.settings {
		if p != "" && !strings.HasPrefix(key, p) {
			continue
		}
		items = append(items, item)
	}
	return items
}

func page[T any](items []T, limit, offset, fallback int) []T {
	if limit <= 0 {
		limit = fallback
	}
	if limit > 500 {
		limit = 500
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

var _ repository.Repository = (*Store)(nil)
