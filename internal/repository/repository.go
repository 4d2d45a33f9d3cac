package repository

import (
	"context"
	"errors"
	"time"

	"github.com/NabirasulA/Galaxy/internal/models"
)

// ErrDuplicate is returned when an insert collides with a unique key.
var ErrDuplicate = errors.New("duplicate key")

// PositionRepository is the holding store. Lookups return (nil, nil) when the
// row does not exist.
type PositionRepository interface {
	ListPositions(ctx context.Context, params ListPositionsParams) ([]models.Position, error)
	CountPositions(ctx context.Context) (int64, error)
	ListAllPositions(ctx context.Context) ([]models.Position, error)
	GetPositionByID(ctx context.Context, id uint64) (*models.Position, error)
	GetPositionBySymbol(ctx context.Context, symbol string) (*models.Position, error)
	// SavePosition inserts when item.ID is zero and updates otherwise.
	SavePosition(ctx context.Context, item *models.Position) error
	// DeletePosition reports whether a row was removed.
	DeletePosition(ctx context.Context, id uint64) (bool, error)
}

// SnapshotRepository keeps one portfolio snapshot per calendar date.
type SnapshotRepository interface {
	UpsertPortfolioSnapshot(ctx context.Context, item *models.PortfolioSnapshot) error
	GetPortfolioSnapshotByDate(ctx context.Context, date time.Time) (*models.PortfolioSnapshot, error)
	GetLatestPortfolioSnapshotBefore(ctx context.Context, date time.Time) (*models.PortfolioSnapshot, error)
	ListPortfolioSnapshots(ctx context.Context, params ListPortfolioSnapshotsParams) ([]models.PortfolioSnapshot, error)
	CountPortfolioSnapshots(ctx context.Context, params ListPortfolioSnapshotsParams) (int64, error)
}

type SettingsRepository interface {
	UpsertSystemSetting(ctx context.Context, item *models.SystemSetting) error
	GetSystemSettingByKey(ctx context.Context, key string) (*models.SystemSetting, error)
	ListSystemSettings(ctx context.Context, params ListSystemSettingsParams) ([]models.SystemSetting, error)
	CountSystemSettings(ctx context.Context, params ListSystemSettingsParams) (int64, error)
}

// Repository is the unified store used by services and handlers.
type Repository interface {
	PositionRepository
	SnapshotRepository
	SettingsRepository

	Ping(ctx context.Context) error
}

type ListPositionsParams struct {
	Limit   int
	Offset  int
	OrderBy string
	Asc     *bool
}

type ListPortfolioSnapshotsParams struct {
	Limit  int
	Offset int
	Since  *time.Time
	Until  *time.Time
}

type ListSystemSettingsParams struct {
	Limit   int
	Offset  int
	Prefix  *string
	OrderBy string
	Asc     *bool
}
