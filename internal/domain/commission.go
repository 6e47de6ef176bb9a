package domain

import "sort"

// CommissionTier applies Rate once a user has at least MinOrders orders
type CommissionTier struct {
	MinOrders int
	Rate      float64
}

// CommissionTiers is a set of order-volume brackets
type CommissionTiers []CommissionTier

// Rate returns the rate of the highest bracket reached by orderCount.
// Counts below every bracket get 0.
func (t CommissionTiers) Rate(orderCount int) float64 {
	sorted := make(CommissionTiers, len(t))
	copy(sorted, t)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinOrders < sorted[j].MinOrders })

	rate := 0.0
	for _, tier := range sorted {
		if orderCount >= tier.MinOrders {
			rate = tier.Rate
		}
	}
	return rate
}
