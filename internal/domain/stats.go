package domain

import "github.com/shopspring/decimal"

// DashboardStats is the overview shown on the trips dashboard.
type DashboardStats struct {
	TotalTrips int
	// UpcomingTrips counts itineraries that are not completed yet.
	UpcomingTrips int
	// TotalSpent is the sum of every itinerary's ActualCost.
	TotalSpent decimal.Decimal
}

// NewDashboardStats aggregates stats over the given itineraries.
// Only the header fields are read, so Days may be empty.
func NewDashboardStats(its []Itinerary) DashboardStats {
	s := DashboardStats{TotalSpent: decimal.Zero}
	for _, it := range its {
		s.TotalTrips++
		if it.Status != StatusCompleted {
			s.UpcomingTrips++
		}
		s.TotalSpent = s.TotalSpent.Add(it.ActualCost)
	}
	return s
}
