package ledger

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/NabirasulA/Galaxy/internal/models"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestMergeLot_WeightedAverage(t *testing.T) {
	existing := &models.Position{ID: 7, Symbol: "AAPL", CompanyName: "Apple Inc", Quantity: 10, CostBasis: d("100.00")}
	got, err := MergeLot(existing, Lot{Symbol: "aapl", Quantity: 5, UnitPrice: d("200.00")})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if got.Quantity != 15 {
		t.Fatalf("quantity=%d want 15", got.Quantity)
	}
	if !got.CostBasis.Equal(d("133.33")) {
		t.Fatalf("cost=%s want 133.33", got.CostBasis)
	}
	if got.ID != 7 || got.CompanyName != "Apple Inc" {
		t.Fatalf("identity not kept: %+v", got)
	}
	if existing.Quantity != 10 || !existing.CostBasis.Equal(d("100.00")) {
		t.Fatalf("existing mutated: %+v", existing)
	}
}

func TestMergeLot_Cases(t *testing.T) {
	cases := []struct {
		name     string
		q1       int64
		c1       string
		q2       int64
		c2       string
		wantQty  int64
		wantCost string
	}{
		{"spec example", 10, "150.00", 5, "200.00", 15, "166.67"},
		{"half up", 1, "0.01", 1, "0.00", 2, "0.01"},
		{"rounds down", 3, "1.00", 1, "1.01", 4, "1.00"},
		{"same price", 4, "25.50", 6, "25.50", 10, "25.50"},
		{"free lot", 1, "10.00", 1, "0", 2, "5.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			existing := &models.Position{Symbol: "X", Quantity: tc.q1, CostBasis: d(tc.c1)}
			got, err := MergeLot(existing, Lot{Symbol: "X", Quantity: tc.q2, UnitPrice: d(tc.c2)})
			if err != nil {
				t.Fatalf("err=%v", err)
			}
			if got.Quantity != tc.wantQty {
				t.Fatalf("quantity=%d want %d", got.Quantity, tc.wantQty)
			}
			if !got.CostBasis.Equal(d(tc.wantCost)) {
				t.Fatalf("cost=%s want %s", got.CostBasis, tc.wantCost)
			}
		})
	}
}

func TestMergeLot_NewPosition(t *testing.T) {
	got, err := MergeLot(nil, Lot{Symbol: " tsla ", CompanyName: "Tesla", Quantity: 5, UnitPrice: d("300.00")})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if got.Symbol != "TSLA" || got.Quantity != 5 || !got.CostBasis.Equal(d("300")) || got.CompanyName != "Tesla" {
		t.Fatalf("got=%+v", got)
	}
}

func TestMergeLot_InvalidInput(t *testing.T) {
	existing := &models.Position{Symbol: "AAPL", Quantity: 1, CostBasis: d("1")}
	lots := []Lot{
		{Symbol: "AAPL", Quantity: 0, UnitPrice: d("1")},
		{Symbol: "AAPL", Quantity: -3, UnitPrice: d("1")},
		{Symbol: "AAPL", Quantity: 1, UnitPrice: d("-0.01")},
		{Symbol: "  ", Quantity: 1, UnitPrice: d("1")},
		{Symbol: "MSFT", Quantity: 1, UnitPrice: d("1")},
		{Symbol: "AAPL", Quantity: math.MaxInt64, UnitPrice: d("1")},
	}
	for _, lot := range lots {
		if _, err := MergeLot(existing, lot); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("lot=%+v err=%v want ErrInvalidInput", lot, err)
		}
	}
}

func TestReduce(t *testing.T) {
	pos := models.Position{ID: 1, Symbol: "AAPL", Quantity: 10, CostBasis: d("100")}

	next, removed, err := Reduce(pos, 4)
	if err != nil || removed {
		t.Fatalf("err=%v removed=%v", err, removed)
	}
	if next.Quantity != 6 || !next.CostBasis.Equal(d("100")) {
		t.Fatalf("next=%+v", next)
	}

	_, removed, err = Reduce(pos, 10)
	if err != nil || !removed {
		t.Fatalf("sell all: err=%v removed=%v", err, removed)
	}

	if _, _, err := Reduce(pos, 11); !errors.Is(err, ErrInsufficientQuantity) {
		t.Fatalf("err=%v want ErrInsufficientQuantity", err)
	}
	for _, q := range []int64{0, -1} {
		if _, _, err := Reduce(pos, q); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("q=%d err=%v want ErrInvalidInput", q, err)
		}
	}
}

func TestSetQuantity(t *testing.T) {
	if _, _, err := SetQuantity(nil, 3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v want ErrNotFound", err)
	}
	pos := &models.Position{Symbol: "AAPL", Quantity: 10, CostBasis: d("99.99")}
	next, removed, err := SetQuantity(pos, 42)
	if err != nil || removed {
		t.Fatalf("err=%v removed=%v", err, removed)
	}
	if next.Quantity != 42 || !next.CostBasis.Equal(d("99.99")) {
		t.Fatalf("next=%+v", next)
	}
	if _, removed, _ := SetQuantity(pos, 0); !removed {
		t.Fatalf("zero quantity should remove")
	}
	if _, _, err := SetQuantity(pos, -1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err=%v want ErrInvalidInput", err)
	}
}
