package domain

import "github.com/shopspring/decimal"

// ExportRow is a single row of an itinerary export.
// It is a flat, denormalized view: one row per activity, with itinerary and
// day fields repeated. Days with no activities yield one row with zero values
// for all activity fields.
type ExportRow struct {
	// Itinerary fields, repeated for every row.
	ItineraryID    string
	ItineraryTitle string
	Destination    string

	// Day fields.
	DayNumber int
	Date      string // "2006-01-02"
	DayTotal  decimal.Decimal

	// Activity fields: zero values when the day has no activities.
	ActivityID string
	Time       string
	Title      string
	Location   string
	Category   Category
	Cost       decimal.Decimal
	BookingURL string
}

// ExportRows flattens an itinerary into ExportRows in day and activity order.
func ExportRows(it Itinerary) []ExportRow {
	var rows []ExportRow
	for _, d := range it.Days {
		base := ExportRow{
			ItineraryID:    it.ID.String(),
			ItineraryTitle: it.Title,
			Destination:    it.Destination,
			DayNumber:      it.DayNumber(d.Date),
			Date:           d.Date.Format("2006-01-02"),
			DayTotal:       d.TotalCost,
		}
		if len(d.Activities) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, a := range d.Activities {
			r := base
			r.ActivityID = a.ID.String()
			r.Time = a.Time
			r.Title = a.Title
			r.Location = a.Location
			r.Category = a.Category
			r.Cost = a.Cost
			r.BookingURL = a.BookingURL
			rows = append(rows, r)
		}
	}
	return rows
}
