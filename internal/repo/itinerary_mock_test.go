package repo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travelmind/backend/internal/domain"
	"github.com/pkordes/travelmind/backend/internal/repo"
)

// These tests run without a database. They pin down the error mapping of
// paths that are awkward to reach against a real Postgres.

func newMockRepo(t *testing.T) (repo.ItineraryRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return repo.NewItineraryRepo(mock), mock
}

func TestItineraryRepoMock_Delete_NotFound(t *testing.T) {
	r, mock := newMockRepo(t)
	mock.ExpectExec("DELETE FROM itineraries").
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := r.Delete(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItineraryRepoMock_Delete_DBError(t *testing.T) {
	r, mock := newMockRepo(t)
	boom := errors.New("connection reset")
	mock.ExpectExec("DELETE FROM itineraries").
		WithArgs(pgxmock.AnyArg()).
		WillReturnError(boom)

	err := r.Delete(context.Background(), uuid.New())

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestItineraryRepoMock_Mutate_LocksAndRollsBackWhenMissing(t *testing.T) {
	r, mock := newMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectQuery("FROM itineraries WHERE id = .* FOR UPDATE").
		WithArgs(pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	called := false
	_, changed, err := r.Mutate(context.Background(), uuid.New(), func(*domain.Itinerary) bool {
		called = true
		return true
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, changed)
	assert.False(t, called, "mutation must not run without a row")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItineraryRepoMock_Mutate_BeginError(t *testing.T) {
	r, mock := newMockRepo(t)
	mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

	_, _, err := r.Mutate(context.Background(), uuid.New(), func(*domain.Itinerary) bool { return true })

	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin")
}
