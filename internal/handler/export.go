package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/pkordes/travelmind/backend/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"itinerary_id", "itinerary_title", "destination",
	"day_number", "date", "day_total",
	"activity_id", "time", "title", "location", "category", "cost", "booking_url",
}

// ExportRow is one flat row of an itinerary export.
type ExportRow struct {
	ItineraryId    string           `json:"itinerary_id"`
	ItineraryTitle string           `json:"itinerary_title"`
	Destination    string           `json:"destination"`
	DayNumber      int              `json:"day_number"`
	Date           string           `json:"date"`
	DayTotal       decimal.Decimal  `json:"day_total"`
	ActivityId     *string          `json:"activity_id,omitempty"`
	Time           *string          `json:"time,omitempty"`
	Title          *string          `json:"title,omitempty"`
	Location       *string          `json:"location,omitempty"`
	Category       *string          `json:"category,omitempty"`
	Cost           *decimal.Decimal `json:"cost,omitempty"`
	BookingUrl     *string          `json:"booking_url,omitempty"`
}

// ExportItinerary handles GET /itineraries/{id}/export.
// It returns one row per activity, with itinerary and day fields repeated.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) ExportItinerary(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var format *string
	if !queryParam(w, r, "format", &format) {
		return
	}
	wantCSV := false
	if format != nil {
		switch *format {
		case "csv":
			wantCSV = true
		case "json":
		default:
			writeJSON(w, http.StatusBadRequest, paramBody("format"))
			return
		}
	}

	it, rows, err := s.itineraries.Export(r.Context(), id)
	if err != nil {
		s.writeItineraryError(w, r, err)
		return
	}

	if wantCSV {
		writeCSV(w, fmt.Sprintf("itinerary-%s.csv", it.ID), rows)
		return
	}
	writeJSON(w, http.StatusOK, buildJSONRows(rows))
}

// buildJSONRows converts domain rows to the wire type.
func buildJSONRows(rows []domain.ExportRow) []ExportRow {
	out := make([]ExportRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, domainRowToWire(r))
	}
	return out
}

// writeCSV encodes rows as an attachment.
func writeCSV(w http.ResponseWriter, filename string, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		cw.Write(domainRowToCSVRecord(r))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// domainRowToWire maps a domain.ExportRow to the JSON row.
// Activity fields of an empty day become nil pointers (omitted in JSON).
func domainRowToWire(r domain.ExportRow) ExportRow {
	row := ExportRow{
		ItineraryId:    r.ItineraryID,
		ItineraryTitle: r.ItineraryTitle,
		Destination:    r.Destination,
		DayNumber:      r.DayNumber,
		Date:           r.Date,
		DayTotal:       r.DayTotal,
	}
	if r.ActivityID == "" {
		return row
	}
	cost := r.Cost
	category := string(r.Category)
	row.ActivityId = &r.ActivityID
	row.Time = &r.Time
	row.Title = &r.Title
	row.Location = &r.Location
	row.Category = &category
	row.Cost = &cost
	row.BookingUrl = optional(r.BookingURL)
	return row
}

// domainRowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// Money is written with two decimals; activity columns of an empty day are blank.
func domainRowToCSVRecord(r domain.ExportRow) []string {
	cost := ""
	if r.ActivityID != "" {
		cost = r.Cost.StringFixed(2)
	}
	return []string{
		r.ItineraryID,
		r.ItineraryTitle,
		r.Destination,
		strconv.Itoa(r.DayNumber),
		r.Date,
		r.DayTotal.StringFixed(2),
		r.ActivityID,
		r.Time,
		r.Title,
		r.Location,
		string(r.Category),
		cost,
		r.BookingURL,
	}
}
