// Package service contains the business logic for the TravelMind planner.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pkordes/travelmind/backend/internal/domain"
	"github.com/pkordes/travelmind/backend/internal/metrics"
	"github.com/pkordes/travelmind/backend/internal/repo"
)

// maxTripDays bounds the date range of a new itinerary.
const maxTripDays = 366

// Mutation operation labels recorded in metrics.
const (
	opReorder        = "reorder"
	opDeleteActivity = "delete_activity"
	opAddActivity    = "add_activity"
	opSetStatus      = "set_status"
)

// ItineraryService implements business logic for itinerary operations.
// Every state change runs inside repo.Mutate, so the domain engine only ever
// sees a row-locked copy and writes happen only when something changed.
type ItineraryService struct {
	repo    repo.ItineraryRepo
	metrics *metrics.Metrics
}

// NewItineraryService constructs an ItineraryService backed by the provided repo.
// m may be nil.
func NewItineraryService(r repo.ItineraryRepo, m *metrics.Metrics) *ItineraryService {
	return &ItineraryService{repo: r, metrics: m}
}

// Create validates and persists a new itinerary. One empty day is generated
// for every date from StartDate to EndDate; any Days on the input are ignored.
// Status defaults to draft. ActualCost starts at zero.
// Returns domain.ErrValidation if input violates business rules.
func (s *ItineraryService) Create(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error) {
	if it.Status == "" {
		it.Status = domain.StatusDraft
	}
	if err := validateItinerary(it); err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.Create: %w", err)
	}

	dates := domain.DatesBetween(it.StartDate, it.EndDate)
	it.Days = make([]domain.TripDay, len(dates))
	for i, d := range dates {
		it.Days[i] = domain.TripDay{Date: d}
	}
	it.Recompute()

	created, err := s.repo.Create(ctx, it)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a full itinerary.
func (s *ItineraryService) GetByID(ctx context.Context, id uuid.UUID) (domain.Itinerary, error) {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.GetByID: %w", err)
	}
	return it, nil
}

// ListPaged returns one page of itinerary headers and the total count.
func (s *ItineraryService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Itinerary, int64, error) {
	its, total, err := s.repo.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.ItineraryService.ListPaged: %w", err)
	}
	return its, total, nil
}

// Delete removes an itinerary and everything under it.
func (s *ItineraryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.ItineraryService.Delete: %w", err)
	}
	return nil
}

// SetStatus stores a new lifecycle status. Any known status is accepted from
// any other; there is no transition graph.
// Returns domain.ErrValidation for an unknown status.
func (s *ItineraryService) SetStatus(ctx context.Context, id uuid.UUID, status domain.Status) (domain.Itinerary, error) {
	if !status.Valid() {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.SetStatus: %w: unknown status %q", domain.ErrValidation, status)
	}
	it, changed, err := s.repo.Mutate(ctx, id, func(it *domain.Itinerary) bool {
		if it.Status == status {
			return false
		}
		it.Status = status
		return true
	})
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.SetStatus: %w", err)
	}
	s.metrics.ObserveMutation(opSetStatus, changed)
	return it, nil
}

// SelectDay returns the day at dayIndex and its 1-based trip day number.
// Returns domain.ErrNotFound when the index is outside the itinerary.
func (s *ItineraryService) SelectDay(ctx context.Context, id uuid.UUID, dayIndex int) (domain.TripDay, int, error) {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.TripDay{}, 0, fmt.Errorf("service.ItineraryService.SelectDay: %w", err)
	}
	day, ok := it.SelectDay(dayIndex)
	if !ok {
		return domain.TripDay{}, 0, fmt.Errorf("service.ItineraryService.SelectDay: day %d: %w", dayIndex, domain.ErrNotFound)
	}
	return day, it.DayNumber(day.Date), nil
}

// ReorderActivities applies a drag-and-drop move within one day. A stale
// event (unknown IDs, same IDs, bad day index) is not an error: the current
// itinerary is returned unchanged and nothing is written.
func (s *ItineraryService) ReorderActivities(ctx context.Context, id uuid.UUID, dayIndex int, activeID, overID uuid.UUID) (domain.Itinerary, error) {
	it, changed, err := s.repo.Mutate(ctx, id, func(it *domain.Itinerary) bool {
		return it.ReorderActivities(dayIndex, activeID, overID)
	})
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.ReorderActivities: %w", err)
	}
	s.metrics.ObserveMutation(opReorder, changed)
	return it, nil
}

// DeleteActivity removes one activity and recomputes totals. Deleting an
// activity that is already gone returns the itinerary unchanged.
func (s *ItineraryService) DeleteActivity(ctx context.Context, id uuid.UUID, dayIndex int, activityID uuid.UUID) (domain.Itinerary, error) {
	it, changed, err := s.repo.Mutate(ctx, id, func(it *domain.Itinerary) bool {
		return it.DeleteActivity(dayIndex, activityID)
	})
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.DeleteActivity: %w", err)
	}
	s.metrics.ObserveMutation(opDeleteActivity, changed)
	return it, nil
}

// AddActivity appends a new activity to a day and recomputes totals.
// The activity gets a fresh server-side ID; any ID on the input is ignored.
// Returns domain.ErrValidation for invalid input and domain.ErrNotFound when
// the itinerary or the day does not exist.
func (s *ItineraryService) AddActivity(ctx context.Context, id uuid.UUID, dayIndex int, a domain.Activity) (domain.Itinerary, domain.Activity, error) {
	if err := validateActivity(a); err != nil {
		return domain.Itinerary{}, domain.Activity{}, fmt.Errorf("service.ItineraryService.AddActivity: %w", err)
	}
	a.ID = uuid.New()

	dayFound := false
	it, changed, err := s.repo.Mutate(ctx, id, func(it *domain.Itinerary) bool {
		_, dayFound = it.SelectDay(dayIndex)
		return it.AddActivity(dayIndex, a)
	})
	if err != nil {
		return domain.Itinerary{}, domain.Activity{}, fmt.Errorf("service.ItineraryService.AddActivity: %w", err)
	}
	s.metrics.ObserveMutation(opAddActivity, changed)
	if !dayFound {
		return domain.Itinerary{}, domain.Activity{}, fmt.Errorf("service.ItineraryService.AddActivity: day %d: %w", dayIndex, domain.ErrNotFound)
	}
	return it, a, nil
}

// Export flattens one itinerary into rows, one per activity.
func (s *ItineraryService) Export(ctx context.Context, id uuid.UUID) (domain.Itinerary, []domain.ExportRow, error) {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Itinerary{}, nil, fmt.Errorf("service.ItineraryService.Export: %w", err)
	}
	return it, domain.ExportRows(it), nil
}

// DashboardStats aggregates the trips overview across every itinerary.
func (s *ItineraryService) DashboardStats(ctx context.Context) (domain.DashboardStats, error) {
	its, err := s.repo.ListAll(ctx)
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("service.ItineraryService.DashboardStats: %w", err)
	}
	return domain.NewDashboardStats(its), nil
}

func validateItinerary(it domain.Itinerary) error {
	switch {
	case strings.TrimSpace(it.Title) == "":
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	case strings.TrimSpace(it.Destination) == "":
		return fmt.Errorf("%w: destination is required", domain.ErrValidation)
	case it.StartDate.IsZero() || it.EndDate.IsZero():
		return fmt.Errorf("%w: start_date and end_date are required", domain.ErrValidation)
	case it.EndDate.Before(it.StartDate):
		return fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	case domain.DayNumber(it.EndDate, it.StartDate) > maxTripDays:
		return fmt.Errorf("%w: trips are limited to %d days", domain.ErrValidation, maxTripDays)
	case it.Travelers < 1:
		return fmt.Errorf("%w: travelers must be at least 1", domain.ErrValidation)
	case it.TotalBudget.IsNegative():
		return fmt.Errorf("%w: total_budget must not be negative", domain.ErrValidation)
	case !wholeCents(it.TotalBudget):
		return fmt.Errorf("%w: total_budget must have at most 2 decimal places", domain.ErrValidation)
	case !it.Status.Valid():
		return fmt.Errorf("%w: unknown status %q", domain.ErrValidation, it.Status)
	}
	return nil
}

func validateActivity(a domain.Activity) error {
	switch {
	case strings.TrimSpace(a.Title) == "":
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	case !a.Category.Valid():
		return fmt.Errorf("%w: unknown category %q", domain.ErrValidation, a.Category)
	case a.Cost.IsNegative():
		return fmt.Errorf("%w: cost must not be negative", domain.ErrValidation)
	case !wholeCents(a.Cost):
		return fmt.Errorf("%w: cost must have at most 2 decimal places", domain.ErrValidation)
	case a.Rating < 0 || a.Rating > 5:
		return fmt.Errorf("%w: rating must be between 0 and 5", domain.ErrValidation)
	}
	return nil
}

// wholeCents reports whether d fits the NUMERIC(12,2) money columns without
// rounding.
func wholeCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}
