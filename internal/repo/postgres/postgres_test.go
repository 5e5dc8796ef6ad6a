package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/bootcamp"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/user"
)

const bootcampID = "5d725a1b7b292f5f8ceff788"

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock
}

func cascade(ctx context.Context, db DBTX, id string) error {
	courses := NewCoursesRepo(db, nil)
	reviews := NewReviewsRepo(db, nil)
	bootcamps := NewBootcampsRepo(db, nil)

	return NewTxRunner(db).WithinTx(ctx, func(ctx context.Context) error {
		if _, err := courses.DeleteByBootcamp(ctx, id); err != nil {
			return err
		}
		if _, err := reviews.DeleteByBootcamp(ctx, id); err != nil {
			return err
		}
		return bootcamps.Delete(ctx, id, "")
	})
}

func TestCascadeDelete_CommitsInOneTransaction(t *testing.T) {
	mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM courses WHERE bootcamp_id`).
		WithArgs(bootcampID).
		WillReturnResult(pgxmock.NewResult("DELETE", 4))
	mock.ExpectExec(`DELETE FROM reviews WHERE bootcamp_id`).
		WithArgs(bootcampID).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec(`DELETE FROM bootcamps WHERE id`).
		WithArgs(bootcampID, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	require.NoError(t, cascade(context.Background(), mock, bootcampID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCascadeDelete_RollsBackWhenParentDeleteFails(t *testing.T) {
	mock := newMock(t)
	boom := errors.New("connection reset")

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM courses WHERE bootcamp_id`).
		WithArgs(bootcampID).
		WillReturnResult(pgxmock.NewResult("DELETE", 4))
	mock.ExpectExec(`DELETE FROM reviews WHERE bootcamp_id`).
		WithArgs(bootcampID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM bootcamps WHERE id`).
		WithArgs(bootcampID, pgxmock.AnyArg()).
		WillReturnError(boom)
	mock.ExpectRollback()

	err := cascade(context.Background(), mock, bootcampID)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCascadeDelete_RollsBackWhenChildDeleteFails(t *testing.T) {
	mock := newMock(t)
	boom := errors.New("lock timeout")

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM courses WHERE bootcamp_id`).
		WithArgs(bootcampID).
		WillReturnError(boom)
	mock.ExpectRollback()

	err := cascade(context.Background(), mock, bootcampID)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBootcampsDelete_GuardMismatchIsNotFound(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec(`DELETE FROM bootcamps WHERE id`).
		WithArgs(bootcampID, "5c8a1d5b0190b214360dc031").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := NewBootcampsRepo(mock, nil).Delete(context.Background(), bootcampID, "5c8a1d5b0190b214360dc031")
	assert.ErrorIs(t, err, bootcamp.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersGetByEmail(t *testing.T) {
	mock := newMock(t)
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, name, email, role, created_at FROM users WHERE email`).
		WithArgs("john@gmail.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "role", "created_at"}).
			AddRow("u1", "John Doe", "john@gmail.com", "publisher", created))

	u, err := NewUsersRepo(mock, nil).GetByEmail(context.Background(), "john@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, "publisher", u.Role)
	assert.Empty(t, u.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersGetByEmail_NotFound(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT id, name, email, role, created_at FROM users WHERE email`).
		WithArgs("nobody@gmail.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := NewUsersRepo(mock, nil).GetByEmail(context.Background(), "nobody@gmail.com")
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestUsersSetResetToken(t *testing.T) {
	mock := newMock(t)
	hash := "abc123"
	exp := time.Date(2026, 3, 1, 10, 10, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE users SET reset_password_token`).
		WithArgs("u1", &hash, &exp).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE users SET reset_password_token`).
		WithArgs("missing", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewUsersRepo(mock, nil)
	require.NoError(t, repo.SetResetToken(context.Background(), "u1", &hash, &exp))
	assert.ErrorIs(t, repo.SetResetToken(context.Background(), "missing", nil, nil), user.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersClearExpiredResetTokens(t *testing.T) {
	mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectExec(`UPDATE users SET reset_password_token = NULL`).
		WithArgs(now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	n, err := NewUsersRepo(mock, nil).ClearExpiredResetTokens(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestWhereBuilder(t *testing.T) {
	var w whereBuilder
	w.add("city = ?", "Boston")
	w.add("housing = ?", true)

	assert.Equal(t, " WHERE city = $1 AND housing = $2", w.sql())
	assert.Equal(t, " LIMIT $3 OFFSET $4", w.page(25, 0))
	assert.Equal(t, []any{"Boston", true, 25, 0}, w.args)
}

func TestOrderBy(t *testing.T) {
	got := orderBy([]string{"-averageCost", "name"}, bootcampSort, nil)
	assert.Equal(t, " ORDER BY average_cost DESC, name ASC, id ASC", got)
}
