package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category classifies an activity.
type Category string

const (
	CategoryAttraction    Category = "attraction"
	CategoryRestaurant    Category = "restaurant"
	CategoryTransport     Category = "transport"
	CategoryAccommodation Category = "accommodation"
	CategoryActivity      Category = "activity"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryAttraction, CategoryRestaurant, CategoryTransport, CategoryAccommodation, CategoryActivity:
		return true
	}
	return false
}

// Activity is one bookable unit within a day.
// Rating is 0 when unrated. BookingURL and Notes are empty when not set.
type Activity struct {
	ID          uuid.UUID
	Title       string
	Description string
	Time        string // time of day, "15:04"
	Duration    string // free text, e.g. "2 hours"
	Location    string
	Cost        decimal.Decimal
	Category    Category
	ImageURL    string
	Rating      float64
	BookingURL  string
	Notes       string
}

// TripDay is one calendar day of an itinerary.
// TotalCost is derived from Activities and refreshed by Recompute.
type TripDay struct {
	Date       time.Time
	Activities []Activity
	TotalCost  decimal.Decimal
}

// MoveResolver turns a drag-and-drop event (the dragged item and the item it
// was dropped onto) into a source and target index. ok is false for events
// that must be ignored.
type MoveResolver interface {
	Resolve(activeID, overID uuid.UUID) (from, to int, ok bool)
}

var _ MoveResolver = (*TripDay)(nil)

// Resolve implements MoveResolver over the day's activity sequence.
func (d *TripDay) Resolve(activeID, overID uuid.UUID) (from, to int, ok bool) {
	if activeID == overID {
		return 0, 0, false
	}
	from, to = d.IndexOf(activeID), d.IndexOf(overID)
	if from < 0 || to < 0 {
		return 0, 0, false
	}
	return from, to, true
}

// Move relocates the activity at from to index to, shifting the items in
// between by one place. Relative order of all other items is preserved.
// Out-of-range indices leave the sequence untouched.
func (d *TripDay) Move(from, to int) bool {
	n := len(d.Activities)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return false
	}
	moved := d.Activities[from]
	if from < to {
		copy(d.Activities[from:to], d.Activities[from+1:to+1])
	} else {
		copy(d.Activities[to+1:from+1], d.Activities[to:from])
	}
	d.Activities[to] = moved
	return true
}

// Remove deletes the activity with the given ID. The caller recomputes totals.
func (d *TripDay) Remove(id uuid.UUID) bool {
	i := d.IndexOf(id)
	if i < 0 {
		return false
	}
	d.Activities = slices.Delete(d.Activities, i, i+1)
	return true
}

// IndexOf returns the position of the activity with the given ID, or -1.
func (d *TripDay) IndexOf(id uuid.UUID) int {
	return slices.IndexFunc(d.Activities, func(a Activity) bool { return a.ID == id })
}

// Recompute sets TotalCost to the exact sum of the activity costs.
func (d *TripDay) Recompute() {
	total := decimal.Zero
	for _, a := range d.Activities {
		total = total.Add(a.Cost)
	}
	d.TotalCost = total
}
