package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travelmind/backend/internal/domain"
	"github.com/pkordes/travelmind/backend/internal/handler"
)

// mockItineraryServicer is a test double for handler.ItineraryServicer.
// Set only the method fields your test needs.
type mockItineraryServicer struct {
	create            func(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error)
	getByID           func(ctx context.Context, id uuid.UUID) (domain.Itinerary, error)
	listPaged         func(ctx context.Context, p domain.PaginationParams) ([]domain.Itinerary, int64, error)
	delete            func(ctx context.Context, id uuid.UUID) error
	setStatus         func(ctx context.Context, id uuid.UUID, status domain.Status) (domain.Itinerary, error)
	selectDay         func(ctx context.Context, id uuid.UUID, dayIndex int) (domain.TripDay, int, error)
	reorderActivities func(ctx context.Context, id uuid.UUID, dayIndex int, activeID, overID uuid.UUID) (domain.Itinerary, error)
	deleteActivity    func(ctx context.Context, id uuid.UUID, dayIndex int, activityID uuid.UUID) (domain.Itinerary, error)
	addActivity       func(ctx context.Context, id uuid.UUID, dayIndex int, a domain.Activity) (domain.Itinerary, domain.Activity, error)
	export            func(ctx context.Context, id uuid.UUID) (domain.Itinerary, []domain.ExportRow, error)
	dashboardStats    func(ctx context.Context) (domain.DashboardStats, error)
}

func (m *mockItineraryServicer) Create(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error) {
	return m.create(ctx, it)
}
func (m *mockItineraryServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Itinerary, error) {
	return m.getByID(ctx, id)
}
func (m *mockItineraryServicer) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Itinerary, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockItineraryServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockItineraryServicer) SetStatus(ctx context.Context, id uuid.UUID, status domain.Status) (domain.Itinerary, error) {
	return m.setStatus(ctx, id, status)
}
func (m *mockItineraryServicer) SelectDay(ctx context.Context, id uuid.UUID, dayIndex int) (domain.TripDay, int, error) {
	return m.selectDay(ctx, id, dayIndex)
}
func (m *mockItineraryServicer) ReorderActivities(ctx context.Context, id uuid.UUID, dayIndex int, activeID, overID uuid.UUID) (domain.Itinerary, error) {
	return m.reorderActivities(ctx, id, dayIndex, activeID, overID)
}
func (m *mockItineraryServicer) DeleteActivity(ctx context.Context, id uuid.UUID, dayIndex int, activityID uuid.UUID) (domain.Itinerary, error) {
	return m.deleteActivity(ctx, id, dayIndex, activityID)
}
func (m *mockItineraryServicer) AddActivity(ctx context.Context, id uuid.UUID, dayIndex int, a domain.Activity) (domain.Itinerary, domain.Activity, error) {
	return m.addActivity(ctx, id, dayIndex, a)
}
func (m *mockItineraryServicer) Export(ctx context.Context, id uuid.UUID) (domain.Itinerary, []domain.ExportRow, error) {
	return m.export(ctx, id)
}
func (m *mockItineraryServicer) DashboardStats(ctx context.Context) (domain.DashboardStats, error) {
	return m.dashboardStats(ctx)
}

// compile-time check: mockItineraryServicer must satisfy handler.ItineraryServicer.
var _ handler.ItineraryServicer = (*mockItineraryServicer)(nil)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server with the given mocks into a chi router.
// This mirrors how main.go wires it in production.
func newHTTPHandler(its handler.ItineraryServicer, routes handler.RouteServicer) http.Handler {
	r := chi.NewRouter()
	handler.NewServer(its, routes, slog.New(slog.DiscardHandler)).RegisterRoutes(r)
	return r
}

func itineraryFixture() domain.Itinerary {
	start := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
	it := domain.Itinerary{
		ID:          uuid.New(),
		Title:       "Tokyo Adventure",
		Destination: "Tokyo, Japan",
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, 5),
		Travelers:   2,
		TotalBudget: decimal.NewFromInt(3500),
		Status:      domain.StatusConfirmed,
		Days: []domain.TripDay{
			{Date: start, Activities: []domain.Activity{
				{ID: uuid.New(), Title: "Narita", Cost: decimal.NewFromInt(25), Category: domain.CategoryTransport, BookingURL: "https://example.com/narita-express"},
				{ID: uuid.New(), Title: "Hotel", Cost: decimal.NewFromInt(180), Category: domain.CategoryAccommodation, Rating: 4.5},
			}},
			{Date: start.AddDate(0, 0, 1)},
		},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	it.Recompute()
	return it
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func serve(h http.Handler, method, target string, body *bytes.Buffer) *httptest.ResponseRecorder {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorResponse {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

// ---- POST /itineraries -----------------------------------------------------

func TestCreateItinerary_201(t *testing.T) {
	fixture := itineraryFixture()
	var got domain.Itinerary
	svc := &mockItineraryServicer{
		create: func(_ context.Context, it domain.Itinerary) (domain.Itinerary, error) {
			got = it
			return fixture, nil
		},
	}

	rec := serve(newHTTPHandler(svc, nil), http.MethodPost, "/itineraries", jsonBody(t, map[string]any{
		"title":        "Tokyo Adventure",
		"destination":  "Tokyo, Japan",
		"start_date":   "2024-04-15",
		"end_date":     "2024-04-20",
		"travelers":    2,
		"total_budget": 3500,
		"notes":        "JR Pass",
	}))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Tokyo Adventure", got.Title)
	assert.True(t, got.StartDate.Equal(fixture.StartDate))
	assert.True(t, got.TotalBudget.Equal(decimal.NewFromInt(3500)))
	assert.Equal(t, "JR Pass", got.Notes)

	var resp handler.Itinerary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, fixture.ID, resp.Id)
	require.Len(t, resp.Days, 2)
	assert.Equal(t, 1, resp.Days[0].DayNumber)
	assert.Equal(t, 2, resp.Days[1].DayNumber)
	assert.True(t, resp.ActualCost.Equal(decimal.NewFromInt(205)))
	assert.True(t, resp.RemainingBudget.Equal(decimal.NewFromInt(3295)))
}

func TestCreateItinerary_422_ValidationError(t *testing.T) {
	svc := &mockItineraryServicer{
		create: func(context.Context, domain.Itinerary) (domain.Itinerary, error) {
			return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.Create: %w: title is required", domain.ErrValidation)
		},
	}

	rec := serve(newHTTPHandler(svc, nil), http.MethodPost, "/itineraries", jsonBody(t, map[string]any{
		"title": "", "start_date": "2024-04-15", "end_date": "2024-04-20",
	}))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "validation_error", resp.Error.Code)
	assert.Equal(t, "title is required", resp.Error.Message)
}

func TestCreateItinerary_422_MalformedBody(t *testing.T) {
	rec := serve(newHTTPHandler(&mockItineraryServicer{}, nil), http.MethodPost, "/itineraries", bytes.NewBufferString("{not json"))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation_error", decodeError(t, rec).Error.Code)
}

func TestCreateItinerary_500_HidesCause(t *testing.T) {
	svc := &mockItineraryServicer{
		create: func(context.Context, domain.Itinerary) (domain.Itinerary, error) {
			return domain.Itinerary{}, errors.New("pq: connection refused")
		},
	}

	rec := serve(newHTTPHandler(svc, nil), http.MethodPost, "/itineraries", jsonBody(t, map[string]any{"title": "x"}))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

// ---- GET /itineraries ------------------------------------------------------

func TestListItineraries_Pagination(t *testing.T) {
	var gotParams domain.PaginationParams
	header := itineraryFixture()
	header.Days = nil
	svc := &mockItineraryServicer{
		listPaged: func(_ context.Context, p domain.PaginationParams) ([]domain.Itinerary, int64, error) {
			gotParams = p
			return []domain.Itinerary{header}, 45, nil
		},
	}

	rec := serve(newHTTPHandler(svc, nil), http.MethodGet, "/itineraries?page=2&limit=20", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.PaginationParams{Page: 2, Limit: 20}, gotParams)

	var resp handler.ItineraryList
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Data, 1)
	assert.Nil(t, resp.Data[0].Days, "list responses carry headers only")
	assert.Equal(t, handler.Pagination{Page: 2, Limit: 20, Total: 45, HasNext: true}, resp.Pagination)
}

func TestListItineraries_Defaults(t *testing.T) {
	var gotParams domain.PaginationParams
	svc := &mockItineraryServicer{
		listPaged: func(_ context.Context, p domain.PaginationParams) ([]domain.Itinerary, int64, error) {
			gotParams = p
			return nil, 0, nil
		},
	}

	rec := serve(newHTTPHandler(svc, nil), http.MethodGet, "/itineraries", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.PaginationParams{Page: 1, Limit: 20}, gotParams)
	assert.Contains(t, rec.Body.String(), `"data":[]`)
}

func TestListItineraries_400_BadPage(t *testing.T) {
	rec := serve(newHTTPHandler(&mockItineraryServicer{}, nil), http.MethodGet, "/itineraries?page=abc", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_parameter", decodeError(t, rec).Error.Code)
}

// ---- GET / DELETE /itineraries/{id} ----------------------------------------

func TestGetItinerary_200(t *testing.T) {
	fixture := itineraryFixture()
	svc := &mockItineraryServicer{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Itinerary, error) {
			require.Equal(t, fixture.ID, id)
			return fixture, nil
		},
	}

	rec := serve(newHTTPHandler(svc, nil), http.MethodGet, "/itineraries/"+fixture.ID.String(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp handler.Itinerary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, "2024-04-15", resp.StartDate.String())
	require.Len(t, resp.Days[0].Activities, 2)
	require.NotNil(t, resp.Days[0].Activities[0].BookingUrl)
	assert.Nil(t, resp.Days[0].Activities[1].BookingUrl)
}

func TestGetItinerary_404(t *testing.T) {
	svc := &mockItineraryServicer{
		getByID: func(context.Context, uuid.UUID) (domain.Itinerary, error) {
			return domain.Itinerary{}, fmt.Errorf("repo: %w", domain.ErrNotFound)
		},
	}

	rec := serve(newHTTPHandler(svc, nil), http.MethodGet, "/itineraries/"+uuid.NewString(), nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "not_found", resp.Error.Code)
	assert.Equal(t, "itinerary not found", resp.Error.Message)
}

func TestGetItinerary_400_BadUUID(t *testing.T) {
	rec := serve(newHTTPHandler(&mockItineraryServicer{}, nil), http.MethodGet, "/itineraries/not-a-uuid", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteItinerary_204(t *testing.T) {
	svc := &mockItineraryServicer{
		delete: func(context.Context, uuid.UUID) error { return nil },
	}

	rec := serve(newHTTPHandler(svc, nil), http.MethodDelete, "/itineraries/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

// ---- PUT /itineraries/{id}/status ------------------------------------------

func TestSetItineraryStatus(t *testing.T) {
	fixture := itineraryFixture()
	svc := &mockItineraryServicer{
		setStatus: func(_ context.Context, _ uuid.UUID, s domain.Status) (domain.Itinerary, error) {
			if !s.Valid() {
				return domain.Itinerary{}, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, s)
			}
			fixture.Status = s
			return fixture, nil
		},
	}
	h := newHTTPHandler(svc, nil)
	target := "/itineraries/" + fixture.ID.String() + "/status"

	rec := serve(h, http.MethodPut, target, jsonBody(t, map[string]string{"status": "completed"}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"completed"`)

	rec = serve(h, http.MethodPut, target, jsonBody(t, map[string]string{"status": "archived"}))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, `unknown status "archived"`, decodeError(t, rec).Error.Message)
}

// ---- GET /itineraries/{id}/days/{dayIndex} ---------------------------------

func TestGetDay(t *testing.T) {
	fixture := itineraryFixture()
	svc := &mockItineraryServicer{
		selectDay: func(_ context.Context, _ uuid.UUID, dayIndex int) (domain.TripDay, int, error) {
			if dayIndex < 0 || dayIndex >= len(fixture.Days) {
				return domain.TripDay{}, 0, domain.ErrNotFound
			}
			return fixture.Days[dayIndex], dayIndex + 1, nil
		},
	}
	h := newHTTPHandler(svc, nil)
	base := "/itineraries/" + fixture.ID.String() + "/days/"

	rec := serve(h, http.MethodGet, base+"0", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var day handler.TripDay
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&day))
	assert.Equal(t, 1, day.DayNumber)
	assert.True(t, day.TotalCost.Equal(decimal.NewFromInt(205)))

	rec = serve(h, http.MethodGet, base+"2", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "day not found", decodeError(t, rec).Error.Message)

	rec = serve(h, http.MethodGet, base+"first", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---- POST .../reorder ------------------------------------------------------

func TestReorderActivities_PassesIDs(t *testing.T) {
	fixture := itineraryFixture()
	active, over := fixture.Days[0].Activities[0].ID, fixture.Days[0].Activities[1].ID
	svc := &mockItineraryServicer{
		reorderActivities: func(_ context.Context, id uuid.UUID, dayIndex int, a, o uuid.UUID) (domain.Itinerary, error) {
			assert.Equal(t, fixture.ID, id)
			assert.Equal(t, 0, dayIndex)
			assert.Equal(t, active, a)
			assert.Equal(t, over, o)
			fixture.ReorderActivities(dayIndex, a, o)
			return fixture, nil
		},
	}

	rec := serve(newHTTPHandler(svc, nil), http.MethodPost,
		"/itineraries/"+fixture.ID.String()+"/days/0/reorder",
		jsonBody(t, map[string]string{"active_id": active.String(), "over_id": over.String()}))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp handler.Itinerary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Hotel", resp.Days[0].Activities[0].Title)
	assert.Equal(t, "Narita", resp.Days[0].Activities[1].Title)
}

func TestReorderActivities_StaleEvent_200Unchanged(t *testing.T) {
	fixture := itineraryFixture()
	svc := &mockItineraryServicer{
		reorderActivities: func(context.Context, uuid.UUID, int, uuid.UUID, uuid.UUID) (domain.Itinerary, error) {
			return fixture, nil
		},
	}

	rec := serve(newHTTPHandler(svc, nil), http.MethodPost,
		"/itineraries/"+fixture.ID.String()+"/days/7/reorder",
		jsonBody(t, map[string]string{"active_id": uuid.NewString(), "over_id": uuid.NewString()}))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp handler.Itinerary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Narita", resp.Days[0].Activities[0].Title)
}

// ---- activities ------------------------------------------------------------

func TestAddActivity_201(t *testing.T) {
	fixture := itineraryFixture()
	var got domain.Activity
	svc := &mockItineraryServicer{
		addActivity: func(_ context.Context, _ uuid.UUID, dayIndex int, a domain.Activity) (domain.Itinerary, domain.Activity, error) {
			got = a
			a.ID = uuid.New()
			fixture.AddActivity(dayIndex, a)
			return fixture, a, nil
		},
	}

	rec := serve(newHTTPHandler(svc, nil), http.MethodPost,
		"/itineraries/"+fixture.ID.String()+"/days/1/activities",
		jsonBody(t, map[string]any{
			"title":       "Sushi Making Class",
			"time":        "18:00",
			"cost":        "120.50",
			"category":    "activity",
			"rating":      4.9,
			"booking_url": "https://example.com/sushi-class",
		}))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, domain.CategoryActivity, got.Category)
	assert.True(t, got.Cost.Equal(decimal.RequireFromString("120.5")))
	assert.Equal(t, "https://example.com/sushi-class", got.BookingURL)

	var resp handler.AddActivityResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEqual(t, uuid.Nil, resp.Activity.Id)
	assert.True(t, resp.Itinerary.ActualCost.Equal(decimal.RequireFromString("325.5")))
}

func TestAddActivity_404_Day(t *testing.T) {
	svc := &mockItineraryServicer{
		addActivity: func(context.Context, uuid.UUID, int, domain.Activity) (domain.Itinerary, domain.Activity, error) {
			return domain.Itinerary{}, domain.Activity{}, fmt.Errorf("day 9: %w", domain.ErrNotFound)
		},
	}

	rec := serve(newHTTPHandler(svc, nil), http.MethodPost,
		"/itineraries/"+uuid.NewString()+"/days/9/activities",
		jsonBody(t, map[string]any{"title": "x", "category": "activity"}))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteActivity_200(t *testing.T) {
	fixture := itineraryFixture()
	hotel := fixture.Days[0].Activities[1].ID
	svc := &mockItineraryServicer{
		deleteActivity: func(_ context.Context, _ uuid.UUID, dayIndex int, activityID uuid.UUID) (domain.Itinerary, error) {
			fixture.DeleteActivity(dayIndex, activityID)
			return fixture, nil
		},
	}

	rec := serve(newHTTPHandler(svc, nil), http.MethodDelete,
		"/itineraries/"+fixture.ID.String()+"/days/0/activities/"+hotel.String(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp handler.Itinerary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Days[0].Activities, 1)
	assert.True(t, resp.Days[0].TotalCost.Equal(decimal.NewFromInt(25)))
	assert.True(t, resp.ActualCost.Equal(decimal.NewFromInt(25)))
}

// ---- GET /dashboard/stats --------------------------------------------------

func TestGetDashboardStats(t *testing.T) {
	svc := &mockItineraryServicer{
		dashboardStats: func(context.Context) (domain.DashboardStats, error) {
			return domain.DashboardStats{TotalTrips: 3, UpcomingTrips: 2, TotalSpent: decimal.RequireFromString("1625.50")}, nil
		},
	}

	rec := serve(newHTTPHandler(svc, nil), http.MethodGet, "/dashboard/stats", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `"total_trips":3`), body)
	assert.True(t, strings.Contains(body, `"upcoming_trips":2`), body)
	assert.True(t, strings.Contains(body, `"total_spent":"1625.5"`), body)
}
