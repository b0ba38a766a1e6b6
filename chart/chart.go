// Copyright (c) 2025 BVK Chaitanya

package chart

import (
	"time"

	"github.com/bvk/coindash/gobs"
	"github.com/shopspring/decimal"
)

// DateLayout is the format for the series labels. Labels always use UTC so
// that the same points produce the same labels on every host.
const DateLayout = "2006-01-02"

const PriceLabel = "Price (USD)"

type Series struct {
	Label string

	Labels []string
	Values []decimal.Decimal
}

// Empty returns true when the series has no points. Callers should render a
// no-data message instead of an empty chart.
func (s *Series) Empty() bool {
	return s == nil || len(s.Values) == 0
}

// ToSeries converts the price points into labels and values in the same
// order.
func ToSeries(points []*gobs.PricePoint) *Series {
	s := &Series{
		Label:  PriceLabel,
		Labels: make([]string, 0, len(points)),
		Values: make([]decimal.Decimal, 0, len(points)),
	}
	for _, p := range points {
		s.Labels = append(s.Labels, p.Timestamp.In(time.UTC).Format(DateLayout))
		s.Values = append(s.Values, p.Price)
	}
	return s
}
