// Package repo contains all database access logic for the TravelMind planner.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/pkordes/travelmind/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test. Begin on a
// pgx.Tx opens a savepoint, so Mutate nests cleanly inside a test transaction.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// MutateFunc changes an itinerary in memory and reports whether it changed.
type MutateFunc func(it *domain.Itinerary) bool

// ItineraryRepo defines the persistence operations for itineraries.
// The service layer depends on this interface, not the Postgres implementation.
type ItineraryRepo interface {
	// Create inserts an itinerary with its days and activities and returns the
	// persisted record with created_at and updated_at populated.
	Create(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error)

	// GetByID loads a full itinerary: header, days by date, activities in order.
	// Returns domain.ErrNotFound if no itinerary with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Itinerary, error)

	// ListPaged returns one page of itinerary headers (Days is nil) ordered by
	// start_date descending, plus the total number of itineraries.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Itinerary, int64, error)

	// ListAll returns every itinerary header (Days is nil).
	ListAll(ctx context.Context) ([]domain.Itinerary, error)

	// Mutate loads the itinerary under a row lock, applies fn, and writes the
	// result back in the same transaction when fn reports a change. Concurrent
	// Mutate calls on one itinerary are serialized by the lock.
	// Returns domain.ErrNotFound if no itinerary with that ID exists.
	Mutate(ctx context.Context, id uuid.UUID, fn MutateFunc) (domain.Itinerary, bool, error)

	// Delete removes an itinerary and, by cascade, its days and activities.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgItineraryRepo is the Postgres implementation of ItineraryRepo.
type pgItineraryRepo struct {
	db db
}

// NewItineraryRepo constructs an ItineraryRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewItineraryRepo(db db) ItineraryRepo {
	return &pgItineraryRepo{db: db}
}

const itineraryColumns = `id, title, destination, start_date, end_date, travelers,
		total_budget, actual_cost, status, notes, created_at, updated_at`

// Create inserts the header, then every day and activity in one batch.
func (r *pgItineraryRepo) Create(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error) {
	const q = `
		INSERT INTO itineraries (id, title, destination, start_date, end_date, travelers,
		                         total_budget, actual_cost, status, notes)
		VALUES (@id, @title, @destination, @start_date, @end_date, @travelers,
		        @total_budget, @actual_cost, @status, @notes)
		RETURNING ` + itineraryColumns

	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	it.Recompute()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.Create: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after Commit

	header, err := scanItinerary(tx.QueryRow(ctx, q, headerArgs(it)))
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.Create: %w", err)
	}

	b := &pgx.Batch{}
	for _, d := range it.Days {
		b.Queue(`
			INSERT INTO trip_days (itinerary_id, day_date, total_cost)
			VALUES (@itinerary_id, @day_date, @total_cost)`,
			pgx.NamedArgs{
				"itinerary_id": it.ID,
				"day_date":     d.Date,
				"total_cost":   d.TotalCost.String(),
			})
	}
	queueActivityInserts(b, it)
	if err := runBatch(ctx, tx, b); err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.Create: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.Create: commit: %w", err)
	}

	header.Days = it.Days
	return header, nil
}

// GetByID loads a full itinerary without locking.
func (r *pgItineraryRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Itinerary, error) {
	it, err := loadItinerary(ctx, r.db, id, false)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.GetByID: %w", err)
	}
	return it, nil
}

// ListPaged returns one page of headers, most recent start date first.
func (r *pgItineraryRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Itinerary, int64, error) {
	const q = `
		SELECT ` + itineraryColumns + `
		FROM itineraries
		ORDER BY start_date DESC, id
		LIMIT @limit OFFSET @offset`

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM itineraries`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.ItineraryRepo.ListPaged: count: %w", err)
	}

	its, err := queryHeaders(ctx, r.db, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ItineraryRepo.ListPaged: %w", err)
	}
	return its, total, nil
}

// ListAll returns every header, most recent start date first.
func (r *pgItineraryRepo) ListAll(ctx context.Context) ([]domain.Itinerary, error) {
	const q = `
		SELECT ` + itineraryColumns + `
		FROM itineraries
		ORDER BY start_date DESC, id`

	its, err := queryHeaders(ctx, r.db, q)
	if err != nil {
		return nil, fmt.Errorf("repo.ItineraryRepo.ListAll: %w", err)
	}
	return its, nil
}

// Mutate runs fn against a row-locked copy of the itinerary.
func (r *pgItineraryRepo) Mutate(ctx context.Context, id uuid.UUID, fn MutateFunc) (domain.Itinerary, bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Itinerary{}, false, fmt.Errorf("repo.ItineraryRepo.Mutate: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after Commit

	it, err := loadItinerary(ctx, tx, id, true)
	if err != nil {
		return domain.Itinerary{}, false, fmt.Errorf("repo.ItineraryRepo.Mutate: %w", err)
	}

	if !fn(&it) {
		// Nothing to write; the rollback just releases the lock.
		return it, false, nil
	}
	it.Recompute()

	if err := saveItinerary(ctx, tx, &it); err != nil {
		return domain.Itinerary{}, false, fmt.Errorf("repo.ItineraryRepo.Mutate: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Itinerary{}, false, fmt.Errorf("repo.ItineraryRepo.Mutate: commit: %w", err)
	}
	return it, true, nil
}

// Delete removes an itinerary by primary key.
func (r *pgItineraryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM itineraries WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.ItineraryRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ItineraryRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// --- load / save helpers ----------------------------------------------------

// loadItinerary reads the header (optionally FOR UPDATE), then days and activities.
func loadItinerary(ctx context.Context, q db, id uuid.UUID, forUpdate bool) (domain.Itinerary, error) {
	headerQ := `SELECT ` + itineraryColumns + ` FROM itineraries WHERE id = @id`
	if forUpdate {
		headerQ += ` FOR UPDATE`
	}

	it, err := scanItinerary(q.QueryRow(ctx, headerQ, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Itinerary{}, err
	}

	days, err := loadDays(ctx, q, id)
	if err != nil {
		return domain.Itinerary{}, err
	}
	it.Days = days
	// Stored totals are a cache of the activity costs; the activities win.
	it.Recompute()
	return it, nil
}

// loadDays returns the days of an itinerary ordered by date, each holding its
// activities ordered by position.
func loadDays(ctx context.Context, q db, itineraryID uuid.UUID) ([]domain.TripDay, error) {
	const daysQ = `
		SELECT id, day_date, total_cost
		FROM trip_days
		WHERE itinerary_id = @itinerary_id
		ORDER BY day_date`

	const activitiesQ = `
		SELECT a.day_id, a.id, a.title, a.description, a.scheduled_time, a.duration,
		       a.location, a.cost, a.category, a.image_url, a.rating, a.booking_url, a.notes
		FROM activities a
		JOIN trip_days d ON d.id = a.day_id
		WHERE d.itinerary_id = @itinerary_id
		ORDER BY d.day_date, a.position`

	args := pgx.NamedArgs{"itinerary_id": itineraryID}

	rows, err := q.Query(ctx, daysQ, args)
	if err != nil {
		return nil, fmt.Errorf("days: %w", err)
	}
	var (
		days  []domain.TripDay
		index = map[uuid.UUID]int{}
	)
	for rows.Next() {
		var (
			dayID pgtype.UUID
			date  pgtype.Date
			total pgtype.Numeric
		)
		if err := rows.Scan(&dayID, &date, &total); err != nil {
			rows.Close()
			return nil, fmt.Errorf("days: scan: %w", err)
		}
		index[uuid.UUID(dayID.Bytes)] = len(days)
		days = append(days, domain.TripDay{Date: date.Time, TotalCost: numericToDecimal(total)})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("days: rows: %w", err)
	}

	rows, err = q.Query(ctx, activitiesQ, args)
	if err != nil {
		return nil, fmt.Errorf("activities: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		dayID, a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("activities: scan: %w", err)
		}
		i, ok := index[dayID]
		if !ok {
			continue
		}
		days[i].Activities = append(days[i].Activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("activities: rows: %w", err)
	}
	return days, nil
}

// saveItinerary writes the mutable header fields, day totals and the full
// activity list. Activities are replaced wholesale so positions always match
// the in-memory order.
func saveItinerary(ctx context.Context, tx pgx.Tx, it *domain.Itinerary) error {
	const headerQ = `
		UPDATE itineraries
		SET status      = @status,
		    actual_cost = @actual_cost,
		    updated_at  = now()
		WHERE id = @id
		RETURNING updated_at`

	err := tx.QueryRow(ctx, headerQ, pgx.NamedArgs{
		"id":          it.ID,
		"status":      string(it.Status),
		"actual_cost": it.ActualCost.String(),
	}).Scan(&it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update header: %w", err)
	}

	b := &pgx.Batch{}
	b.Queue(`
		DELETE FROM activities
		WHERE day_id IN (SELECT id FROM trip_days WHERE itinerary_id = @itinerary_id)`,
		pgx.NamedArgs{"itinerary_id": it.ID})
	for _, d := range it.Days {
		b.Queue(`
			UPDATE trip_days SET total_cost = @total_cost
			WHERE itinerary_id = @itinerary_id AND day_date = @day_date`,
			pgx.NamedArgs{
				"itinerary_id": it.ID,
				"day_date":     d.Date,
				"total_cost":   d.TotalCost.String(),
			})
	}
	queueActivityInserts(b, *it)
	return runBatch(ctx, tx, b)
}

// queueActivityInserts adds one INSERT per activity, resolving day_id from
// the (itinerary_id, day_date) natural key.
func queueActivityInserts(b *pgx.Batch, it domain.Itinerary) {
	const q = `
		INSERT INTO activities (id, day_id, position, title, description, scheduled_time,
		                        duration, location, cost, category, image_url, rating,
		                        booking_url, notes)
		VALUES (@id,
		        (SELECT id FROM trip_days WHERE itinerary_id = @itinerary_id AND day_date = @day_date),
		        @position, @title, @description, @scheduled_time, @duration, @location,
		        @cost, @category, @image_url, @rating, @booking_url, @notes)`

	for _, d := range it.Days {
		for pos, a := range d.Activities {
			b.Queue(q, pgx.NamedArgs{
				"id":             a.ID,
				"itinerary_id":   it.ID,
				"day_date":       d.Date,
				"position":       pos,
				"title":          a.Title,
				"description":    a.Description,
				"scheduled_time": a.Time,
				"duration":       a.Duration,
				"location":       a.Location,
				"cost":           a.Cost.String(),
				"category":       string(a.Category),
				"image_url":      a.ImageURL,
				"rating":         a.Rating,
				"booking_url":    nullIfEmpty(a.BookingURL),
				"notes":          nullIfEmpty(a.Notes),
			})
		}
	}
}

// runBatch sends b on tx and checks every statement's result.
func runBatch(ctx context.Context, tx pgx.Tx, b *pgx.Batch) error {
	if b.Len() == 0 {
		return nil
	}
	br := tx.SendBatch(ctx, b)
	for i := 0; i < b.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("batch statement %d: %w", i, err)
		}
	}
	return br.Close()
}

func queryHeaders(ctx context.Context, q db, sql string, args ...any) ([]domain.Itinerary, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var its []domain.Itinerary
	for rows.Next() {
		it, err := scanItinerary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		its = append(its, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return its, nil
}

// --- scanning ---------------------------------------------------------------

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanItinerary maps one itineraries row (itineraryColumns order) into a header.
func scanItinerary(s scanner) (domain.Itinerary, error) {
	var (
		it             domain.Itinerary
		id             pgtype.UUID
		start, end     pgtype.Date
		budget, actual pgtype.Numeric
		status         string
	)

	err := s.Scan(&id, &it.Title, &it.Destination, &start, &end, &it.Travelers,
		&budget, &actual, &status, &it.Notes, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Itinerary{}, domain.ErrNotFound
		}
		return domain.Itinerary{}, err
	}

	it.ID = uuid.UUID(id.Bytes)
	it.StartDate = start.Time
	it.EndDate = end.Time
	it.TotalBudget = numericToDecimal(budget)
	it.ActualCost = numericToDecimal(actual)
	it.Status = domain.Status(status)
	return it, nil
}

// scanActivity maps one row of the activities query, returning its day ID.
func scanActivity(s scanner) (uuid.UUID, domain.Activity, error) {
	var (
		a             domain.Activity
		dayID, id     pgtype.UUID
		cost          pgtype.Numeric
		category      string
		booking, note pgtype.Text
	)
	err := s.Scan(&dayID, &id, &a.Title, &a.Description, &a.Time, &a.Duration,
		&a.Location, &cost, &category, &a.ImageURL, &a.Rating, &booking, &note)
	if err != nil {
		return uuid.Nil, domain.Activity{}, err
	}
	a.ID = uuid.UUID(id.Bytes)
	a.Cost = numericToDecimal(cost)
	a.Category = domain.Category(category)
	a.BookingURL = booking.String
	a.Notes = note.String
	return uuid.UUID(dayID.Bytes), a, nil
}

// numericToDecimal converts a Postgres NUMERIC into a decimal.Decimal.
// NULL and NaN map to zero; money columns never hold either.
func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.NaN || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func headerArgs(it domain.Itinerary) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":           it.ID,
		"title":        it.Title,
		"destination":  it.Destination,
		"start_date":   it.StartDate,
		"end_date":     it.EndDate,
		"travelers":    it.Travelers,
		"total_budget": it.TotalBudget.String(),
		"actual_cost":  it.ActualCost.String(),
		"status":       string(it.Status),
		"notes":        it.Notes,
	}
}

// nullIfEmpty maps "" to SQL NULL.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
