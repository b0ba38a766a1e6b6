// Copyright (c) 2025 BVK Chaitanya

package coingecko

import (
	"time"

	"github.com/bvk/coindash/coingecko/internal"
	"github.com/bvk/coindash/gobs"
	"github.com/shopspring/decimal"
)

func orZero(v decimal.NullDecimal) decimal.Decimal {
	if !v.Valid {
		return decimal.Zero
	}
	return v.Decimal
}

func toCoin(v *internal.MarketsItem) *gobs.Coin {
	return &gobs.Coin{
		ID:                       v.ID,
		Name:                     v.Name,
		Symbol:                   v.Symbol,
		Image:                    v.Image,
		CurrentPrice:             orZero(v.CurrentPrice),
		MarketCap:                orZero(v.MarketCap),
		PriceChangePercentage24h: v.PriceChangePercentage24h,
	}
}

func toCoinDetail(v *internal.CoinResponse) *gobs.CoinDetail {
	d := &gobs.CoinDetail{
		ID:          v.ID,
		Name:        v.Name,
		Symbol:      v.Symbol,
		Image:       v.Image.Large,
		Description: v.Description.EN,
	}
	if v.MarketCapRank != nil {
		d.MarketCapRank = *v.MarketCapRank
	}
	if md := v.MarketData; md != nil {
		d.CurrentPrice = orZero(md.CurrentPrice.USD)
		d.High24h = orZero(md.High24h.USD)
		d.Low24h = orZero(md.Low24h.USD)
		d.TotalSupply = md.TotalSupply
		d.CirculatingSupply = md.CirculatingSupply
		d.MarketCap = md.MarketCap.USD
		d.PriceChangePercentage24h = md.PriceChangePercentage24h
	}
	return d
}

func toPricePoints(v *internal.MarketChartResponse) []*gobs.PricePoint {
	points := make([]*gobs.PricePoint, 0, len(v.Prices))
	for _, p := range v.Prices {
		points = append(points, &gobs.PricePoint{
			Timestamp: time.UnixMilli(p[0].IntPart()).UTC(),
			Price:     p[1],
		})
	}
	return points
}
