package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is one held ticker. CostBasis is the quantity-weighted average
// purchase price, serialized as buyPrice for existing clients.
type Position struct {
	ID          uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Symbol      string          `gorm:"type:varchar(20);not null;uniqueIndex" json:"symbol"`
	CompanyName string          `gorm:"type:varchar(255)" json:"companyName,omitempty"`
	Quantity    int64           `gorm:"not null" json:"quantity"`
	CostBasis   decimal.Decimal `gorm:"column:buy_price;type:numeric(20,2);not null;default:0" json:"buyPrice"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Position) TableName() string {
	return "stocks"
}

// MarketValue values the position at its own cost basis.
func (p Position) MarketValue() decimal.Decimal {
	return p.CostBasis.Mul(decimal.NewFromInt(p.Quantity))
}
