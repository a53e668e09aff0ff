package catalog

import (
	"context"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"

	"github.com/nashikconnect/vyapaar/internal/domain"
)

// LowStockLevel products at or below this stock are flagged on the dashboard
const LowStockLevel = 5

type Dashboard struct {
	StoreID     string            `json:"store_id"`
	StoreName   string            `json:"store_name"`
	Products    int               `json:"products"`
	Active      int               `json:"active"`
	TotalStock  int               `json:"total_stock"`
	TotalSold   int               `json:"total_sold"`
	Revenue     decimal.Decimal   `json:"revenue"`
	MeanPrice   float64           `json:"mean_price"`
	MedianPrice float64           `json:"median_price"`
	LowStock    []*domain.Product `json:"low_stock"`
	Recent      []*domain.Product `json:"recent"`
}

// Dashboard summarises the merchant's catalog. Revenue is Σ price × sold.
func (s *Service) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	store, err := s.Store(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, _, err := s.products.ListByUser(ctx, userID, 0, 0)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		StoreID:   store.ID,
		StoreName: store.StoreName,
		Products:  len(items),
		Revenue:   decimal.Zero,
		LowStock:  []*domain.Product{},
	}
	prices := make(stats.Float64Data, 0, len(items))
	for _, p := range items {
		if p.IsActive {
			d.Active++
		}
		d.TotalStock += p.Stock
		d.TotalSold += p.Sold
		d.Revenue = d.Revenue.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Sold))))
		prices = append(prices, p.Price.InexactFloat64())
		if p.IsActive && p.Stock <= LowStockLevel {
			d.LowStock = append(d.LowStock, p)
		}
	}
	if len(prices) > 0 {
		mean, _ := stats.Mean(prices)
		median, _ := stats.Median(prices)
		d.MeanPrice, _ = stats.Round(mean, 2)
		d.MedianPrice, _ = stats.Round(median, 2)
	}
	d.Recent = items
	if len(d.Recent) > 5 {
		d.Recent = d.Recent[:5]
	}
	return d, nil
}
