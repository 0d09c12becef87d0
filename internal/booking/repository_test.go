// AngelaMos | 2026
// repository_test.go

package booking

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/booking-backend/internal/core"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestRepositoryCancelRequiresCancellableStatus(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectExec(`UPDATE bookings\s+SET status = \$3.*status IN \(\$4, \$5\)`).
		WithArgs("b-1", "u-1", "cancelled", "pending", "confirmed").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE bookings`).
		WithArgs("b-1", "u-1", "cancelled", "pending", "confirmed").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Cancel(ctx, "b-1", "u-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Cancel(ctx, "b-1", "u-1")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetForUserScopesByOwner(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`FROM bookings\s+WHERE id = \$1 AND user_id = \$2`).
		WithArgs("b-1", "u-2").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetForUser(context.Background(), "b-1", "u-2")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryDeleteMissingIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM bookings WHERE id = \$1 AND user_id = \$2`).
		WithArgs("b-1", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "b-1", "u-1")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryStatistics(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`COUNT\(\*\) FILTER`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"total_bookings", "pending", "confirmed", "completed", "cancelled", "total_spent",
		}).AddRow(4, 1, 1, 1, 1, 320.5))

	stats, err := repo.Statistics(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalBookings)
	assert.Equal(t, int64(1), stats.Cancelled)
	assert.InDelta(t, 320.5, stats.TotalSpent, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}
