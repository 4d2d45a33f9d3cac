package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PortfolioSnapshot struct {
	ID           uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Date         time.Time       `gorm:"column:snapshot_date;type:date;not null;uniqueIndex" json:"date"`
	TotalValue   decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"totalValue"`
	ProfitOrLoss decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"profitOrLoss"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (PortfolioSnapshot) TableName() string {
	return "portfolio_snapshot"
}
