package market

import (
	"time"
)

// Downsample collapses points into consecutive buckets of the given width.
// Each bucket keeps the time of its first valid point and the price of its last one.
func Downsample(points []PricePoint, interval time.Duration) []PricePoint {
	if interval <= 0 {
		res := make([]PricePoint, 0, len(points))
		for _, p := range points {
			if p.Valid() {
				res = append(res, p)
			}
		}
		return res
	}

	var res []PricePoint
	var cur *PricePoint
	var end time.Time
	for _, p := range points {
		if !p.Valid() {
			continue
		}

		if cur != nil && !p.Time.Before(end) {
			res = append(res, *cur)
			cur = nil
		}

		if cur == nil {
			end = p.Time.Truncate(interval).Add(interval)
			cur = &PricePoint{Time: p.Time}
		}

		cur.Price = p.Price
	}

	if cur != nil {
		res = append(res, *cur)
	}

	return res
}
