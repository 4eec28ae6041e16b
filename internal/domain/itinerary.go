// Package domain contains the core data types for the TravelMind planner.
// It holds the itinerary model with its reorder engine and the route value
// types. Nothing here performs I/O; repo, service, and handler import it.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of an itinerary.
// Transitions are driven by the caller; the model only stores the value.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusConfirmed, StatusCompleted:
		return true
	}
	return false
}

// Itinerary is the aggregate root of a trip plan.
// Days are ordered by date ascending. ActualCost is derived: it always equals
// the sum of every day's TotalCost after Recompute.
type Itinerary struct {
	ID          uuid.UUID
	Title       string
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	Travelers   int
	TotalBudget decimal.Decimal
	ActualCost  decimal.Decimal
	Status      Status
	Days        []TripDay
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Recompute refreshes every day total and the itinerary's ActualCost.
func (it *Itinerary) Recompute() {
	total := decimal.Zero
	for i := range it.Days {
		it.Days[i].Recompute()
		total = total.Add(it.Days[i].TotalCost)
	}
	it.ActualCost = total
}

// RemainingBudget returns TotalBudget minus ActualCost. Negative means over budget.
func (it *Itinerary) RemainingBudget() decimal.Decimal {
	return it.TotalBudget.Sub(it.ActualCost)
}

// SelectDay returns the day at index. There is no wraparound: an index
// outside [0, len(Days)) reports false.
func (it *Itinerary) SelectDay(index int) (TripDay, bool) {
	d := it.day(index)
	if d == nil {
		return TripDay{}, false
	}
	return *d, true
}

// ReorderActivities moves the activity activeID to the position currently held
// by overID within the given day. It reports whether the sequence changed.
//
// A stale or duplicate drag event (same IDs, unknown IDs, bad day index) is a
// no-op. Membership never changes, so the day total is untouched.
func (it *Itinerary) ReorderActivities(dayIndex int, activeID, overID uuid.UUID) bool {
	d := it.day(dayIndex)
	if d == nil {
		return false
	}
	from, to, ok := d.Resolve(activeID, overID)
	if !ok {
		return false
	}
	return d.Move(from, to)
}

// DeleteActivity removes activityID from the given day and recomputes totals.
// It reports false, leaving everything untouched, when the ID is absent.
func (it *Itinerary) DeleteActivity(dayIndex int, activityID uuid.UUID) bool {
	d := it.day(dayIndex)
	if d == nil {
		return false
	}
	if !d.Remove(activityID) {
		return false
	}
	it.Recompute()
	return true
}

// AddActivity appends a to the given day and recomputes totals.
// An activity whose ID already exists anywhere in the itinerary is rejected
// so identifiers stay unique within the itinerary.
func (it *Itinerary) AddActivity(dayIndex int, a Activity) bool {
	d := it.day(dayIndex)
	if d == nil || it.HasActivity(a.ID) {
		return false
	}
	d.Activities = append(d.Activities, a)
	it.Recompute()
	return true
}

// HasActivity reports whether any day holds an activity with the given ID.
func (it *Itinerary) HasActivity(id uuid.UUID) bool {
	for i := range it.Days {
		if it.Days[i].IndexOf(id) >= 0 {
			return true
		}
	}
	return false
}

// DayNumber returns the 1-based day of the trip on which date falls.
func (it *Itinerary) DayNumber(date time.Time) int {
	return DayNumber(date, it.StartDate)
}

func (it *Itinerary) day(index int) *TripDay {
	if index < 0 || index >= len(it.Days) {
		return nil
	}
	return &it.Days[index]
}

// DayNumber returns the 1-based offset of date from tripStart.
// Both values are truncated to their calendar dates first, so a DST shift
// inside the range (a 23 or 25 hour day) cannot move the result by one.
func DayNumber(date, tripStart time.Time) int {
	days := civilDate(date).Sub(civilDate(tripStart)) / (24 * time.Hour)
	return int(days) + 1
}

// civilDate maps t onto midnight UTC of its own calendar date.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DatesBetween returns every calendar date from start to end inclusive.
// It returns nil when end is before start.
func DatesBetween(start, end time.Time) []time.Time {
	s, e := civilDate(start), civilDate(end)
	var out []time.Time
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}
