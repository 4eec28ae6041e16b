// Package migrations embeds the itinerary schema and its sample seed and
// applies them with goose, from tests and at server startup.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

// FS holds the schema and sample-data migrations, embedded at compile time.
//
//go:embed *.sql
var FS embed.FS

// NewProvider returns a goose provider for FS against a Postgres db.
func NewProvider(db *sql.DB) (*goose.Provider, error) {
	p, err := goose.NewProvider(goose.DialectPostgres, db, FS)
	if err != nil {
		return nil, fmt.Errorf("migrations.NewProvider: %w", err)
	}
	return p, nil
}

// Up applies every pending migration and returns what ran.
func Up(ctx context.Context, db *sql.DB) ([]*goose.MigrationResult, error) {
	p, err := NewProvider(db)
	if err != nil {
		return nil, err
	}
	results, err := p.Up(ctx)
	if err != nil {
		return results, fmt.Errorf("migrations.Up: %w", err)
	}
	return results, nil
}
