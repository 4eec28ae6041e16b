package handler

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"

	"github.com/pkordes/travelmind/backend/internal/domain"
)

// Wire types for the JSON API. Money is carried as decimal strings
// ("25.00") on output; input accepts JSON numbers or strings.

type Activity struct {
	Id          openapi_types.UUID `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Time        string             `json:"time"`
	Duration    string             `json:"duration"`
	Location    string             `json:"location"`
	Cost        decimal.Decimal    `json:"cost"`
	Category    string             `json:"category"`
	ImageUrl    string             `json:"image_url"`
	Rating      float64            `json:"rating"`
	BookingUrl  *string            `json:"booking_url,omitempty"`
	Notes       *string            `json:"notes,omitempty"`
}

type TripDay struct {
	Index      int                `json:"index"`
	DayNumber  int                `json:"day_number"`
	Date       openapi_types.Date `json:"date"`
	TotalCost  decimal.Decimal    `json:"total_cost"`
	Activities []Activity         `json:"activities"`
}

type Itinerary struct {
	Id              openapi_types.UUID `json:"id"`
	Title           string             `json:"title"`
	Destination     string             `json:"destination"`
	StartDate       openapi_types.Date `json:"start_date"`
	EndDate         openapi_types.Date `json:"end_date"`
	Travelers       int                `json:"travelers"`
	TotalBudget     decimal.Decimal    `json:"total_budget"`
	ActualCost      decimal.Decimal    `json:"actual_cost"`
	RemainingBudget decimal.Decimal    `json:"remaining_budget"`
	Status          string             `json:"status"`
	Notes           string             `json:"notes"`
	// Days is omitted from list responses.
	Days      []TripDay `json:"days,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Pagination struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasNext bool `json:"has_next"`
}

type ItineraryList struct {
	Data       []Itinerary `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

type CreateItineraryRequest struct {
	Title       string             `json:"title"`
	Destination string             `json:"destination"`
	StartDate   openapi_types.Date `json:"start_date"`
	EndDate     openapi_types.Date `json:"end_date"`
	Travelers   int                `json:"travelers"`
	TotalBudget decimal.Decimal    `json:"total_budget"`
	Status      *string            `json:"status,omitempty"`
	Notes       *string            `json:"notes,omitempty"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type ReorderRequest struct {
	ActiveId openapi_types.UUID `json:"active_id"`
	OverId   openapi_types.UUID `json:"over_id"`
}

type ActivityRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Time        string          `json:"time"`
	Duration    string          `json:"duration"`
	Location    string          `json:"location"`
	Cost        decimal.Decimal `json:"cost"`
	Category    string          `json:"category"`
	ImageUrl    string          `json:"image_url"`
	Rating      float64         `json:"rating"`
	BookingUrl  *string         `json:"booking_url,omitempty"`
	Notes       *string         `json:"notes,omitempty"`
}

type AddActivityResponse struct {
	Activity  Activity  `json:"activity"`
	Itinerary Itinerary `json:"itinerary"`
}

type DashboardStats struct {
	TotalTrips    int             `json:"total_trips"`
	UpcomingTrips int             `json:"upcoming_trips"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
}

type RouteRequest struct {
	OriginPlaceId      string `json:"origin_place_id"`
	DestinationPlaceId string `json:"destination_place_id"`
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Bounds struct {
	SouthWest LatLng `json:"south_west"`
	NorthEast LatLng `json:"north_east"`
}

type Route struct {
	Path           []LatLng `json:"path"`
	Bounds         Bounds   `json:"bounds"`
	Start          LatLng   `json:"start"`
	End            LatLng   `json:"end"`
	DistanceMeters int      `json:"distance_meters"`
	Miles          float64  `json:"miles"`
	Hours          int      `json:"hours"`
	Minutes        int      `json:"minutes"`
	Summary        string   `json:"summary"`
}

// --- mapping helpers --------------------------------------------------------

func itineraryToResponse(it domain.Itinerary) Itinerary {
	out := Itinerary{
		Id:              it.ID,
		Title:           it.Title,
		Destination:     it.Destination,
		StartDate:       openapi_types.Date{Time: it.StartDate},
		EndDate:         openapi_types.Date{Time: it.EndDate},
		Travelers:       it.Travelers,
		TotalBudget:     it.TotalBudget,
		ActualCost:      it.ActualCost,
		RemainingBudget: it.RemainingBudget(),
		Status:          string(it.Status),
		Notes:           it.Notes,
		CreatedAt:       it.CreatedAt,
		UpdatedAt:       it.UpdatedAt,
	}
	if it.Days != nil {
		out.Days = make([]TripDay, len(it.Days))
		for i, d := range it.Days {
			out.Days[i] = dayToResponse(i, it.DayNumber(d.Date), d)
		}
	}
	return out
}

func dayToResponse(index, number int, d domain.TripDay) TripDay {
	acts := make([]Activity, len(d.Activities))
	for i, a := range d.Activities {
		acts[i] = activityToResponse(a)
	}
	return TripDay{
		Index:      index,
		DayNumber:  number,
		Date:       openapi_types.Date{Time: d.Date},
		TotalCost:  d.TotalCost,
		Activities: acts,
	}
}

func activityToResponse(a domain.Activity) Activity {
	return Activity{
		Id:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Time:        a.Time,
		Duration:    a.Duration,
		Location:    a.Location,
		Cost:        a.Cost,
		Category:    string(a.Category),
		ImageUrl:    a.ImageURL,
		Rating:      a.Rating,
		BookingUrl:  optional(a.BookingURL),
		Notes:       optional(a.Notes),
	}
}

// requestToItinerary converts a create body into a domain.Itinerary.
func requestToItinerary(body CreateItineraryRequest) domain.Itinerary {
	it := domain.Itinerary{
		Title:       body.Title,
		Destination: body.Destination,
		StartDate:   body.StartDate.Time,
		EndDate:     body.EndDate.Time,
		Travelers:   body.Travelers,
		TotalBudget: body.TotalBudget,
	}
	if body.Status != nil {
		it.Status = domain.Status(*body.Status)
	}
	if body.Notes != nil {
		it.Notes = *body.Notes
	}
	return it
}

func requestToActivity(body ActivityRequest) domain.Activity {
	a := domain.Activity{
		Title:       body.Title,
		Description: body.Description,
		Time:        body.Time,
		Duration:    body.Duration,
		Location:    body.Location,
		Cost:        body.Cost,
		Category:    domain.Category(body.Category),
		ImageURL:    body.ImageUrl,
		Rating:      body.Rating,
	}
	if body.BookingUrl != nil {
		a.BookingURL = *body.BookingUrl
	}
	if body.Notes != nil {
		a.Notes = *body.Notes
	}
	return a
}

func routeToResponse(r domain.Route) Route {
	path := make([]LatLng, len(r.Path))
	for i, p := range r.Path {
		path[i] = latLng(p)
	}
	return Route{
		Path:           path,
		Bounds:         Bounds{SouthWest: latLng(r.Bounds.SouthWest), NorthEast: latLng(r.Bounds.NorthEast)},
		Start:          latLng(r.Start),
		End:            latLng(r.End),
		DistanceMeters: r.Summary.DistanceMeters,
		Miles:          r.Summary.Miles,
		Hours:          r.Summary.Hours,
		Minutes:        r.Summary.Minutes,
		Summary:        r.Summary.String(),
	}
}

func latLng(p domain.LatLng) LatLng {
	return LatLng{Lat: p.Lat, Lng: p.Lng}
}

// optional maps "" to nil so empty fields are omitted from JSON.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
