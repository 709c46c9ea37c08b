package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitemebuddy/admin-api/internal/models"
)

func conditionsSQL(t *testing.T, c models.FilterCriteria) (string, []interface{}) {
	t.Helper()
	sql, args, err := filterConditions(c).ToSql()
	require.NoError(t, err)
	return sql, args
}

func TestFilterConditions_NoFilters(t *testing.T) {
	sql, args := conditionsSQL(t, models.DefaultCriteria())

	assert.NotContains(t, sql, "ILIKE")
	assert.NotContains(t, sql, "status")
	assert.NotContains(t, sql, "created_at")
	assert.Empty(t, args)
}

func TestFilterConditions_SearchBindsAllFourColumns(t *testing.T) {
	c := models.DefaultCriteria()
	c.Search = "acme"

	sql, args := conditionsSQL(t, c)

	assert.Contains(t, sql, "full_name ILIKE ?")
	assert.Contains(t, sql, "phone ILIKE ?")
	assert.Contains(t, sql, "email ILIKE ?")
	assert.Contains(t, sql, "location ILIKE ?")
	assert.Contains(t, sql, " OR ")
	assert.Equal(t, []interface{}{"%acme%", "%acme%", "%acme%", "%acme%"}, args)
}

func TestFilterConditions_SearchValueIsBoundNotInlined(t *testing.T) {
	c := models.DefaultCriteria()
	c.Search = "'; DROP TABLE users; --"

	sql, args := conditionsSQL(t, c)

	assert.NotContains(t, sql, "DROP TABLE")
	assert.Equal(t, "%'; DROP TABLE users; --%", args[0])
}

func TestFilterConditions_LocationShape(t *testing.T) {
	c := models.DefaultCriteria()
	c.LocationFilter = models.LocationAuto
	sql, args := conditionsSQL(t, c)
	assert.Contains(t, sql, `location LIKE '% | % | % | %'`)
	assert.Empty(t, args)

	c.LocationFilter = models.LocationManual
	sql, args = conditionsSQL(t, c)
	assert.Contains(t, sql, `location NOT LIKE '% | % | % | %'`)
	assert.Empty(t, args)
}

func TestFilterConditions_StatusBound(t *testing.T) {
	c := models.DefaultCriteria()
	c.StatusFilter = models.StatusBlocked

	sql, args := conditionsSQL(t, c)

	assert.Contains(t, sql, "status = ?")
	assert.Equal(t, []interface{}{"blocked"}, args)
}

func TestFilterConditions_DateWindows(t *testing.T) {
	tests := []struct {
		filter models.DateFilter
		want   string
	}{
		{models.DateToday, "created_at::date = CURRENT_DATE"},
		{models.DateWeek, "created_at >= CURRENT_DATE - INTERVAL '7 days'"},
		{models.DateMonth, "created_at >= CURRENT_DATE - INTERVAL '30 days'"},
	}

	for _, tt := range tests {
		c := models.DefaultCriteria()
		c.DateFilter = tt.filter

		sql, args := conditionsSQL(t, c)
		assert.Contains(t, sql, tt.want)
		assert.Empty(t, args)
	}
}

func TestFilterConditions_CombinedFiltersAreANDed(t *testing.T) {
	c := models.FilterCriteria{
		Search:         "jo",
		LocationFilter: models.LocationAuto,
		StatusFilter:   models.StatusActive,
		DateFilter:     models.DateWeek,
		Page:           1,
		PerPage:        10,
	}

	sql, args := conditionsSQL(t, c)

	assert.Contains(t, sql, " AND ")
	assert.Contains(t, sql, "ILIKE")
	assert.Contains(t, sql, `location LIKE '% | % | % | %'`)
	assert.Contains(t, sql, "status = ?")
	assert.Contains(t, sql, "created_at >= CURRENT_DATE - INTERVAL '7 days'")
	assert.Equal(t, []interface{}{"%jo%", "%jo%", "%jo%", "%jo%", "active"}, args)
}

// Count and List must share the same effective predicate so total_pages stays
// consistent with the returned rows.
func TestCountAndListSharePredicate(t *testing.T) {
	c := models.FilterCriteria{
		Search:       "acme",
		StatusFilter: models.StatusBlocked,
		Page:         2,
		PerPage:      5,
	}

	countSQL, countArgs := conditionsSQL(t, c)
	listSQL, listArgs := conditionsSQL(t, c)

	assert.Equal(t, countSQL, listSQL)
	assert.Equal(t, countArgs, listArgs)
}

func userRowColumns() []string {
	return []string{"id", "full_name", "phone", "email", "location", "profile_pic", "status", "created_at", "updated_at"}
}

func TestUserRepository_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newUserRepository(mock)

	createdAt := time.Date(2026, time.March, 5, 21, 41, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE \(status = \$1\)`).
		WithArgs("blocked").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(12))

	mock.ExpectQuery(`SELECT id, full_name, phone, email, location, profile_pic, status, created_at, updated_at FROM users WHERE \(status = \$1\) ORDER BY created_at DESC, id ASC LIMIT 10 OFFSET 10`).
		WithArgs("blocked").
		WillReturnRows(pgxmock.NewRows(userRowColumns()).
			AddRow(int64(11), "Ana Blocked", "+100011", "ana@example.com", "Somewhere", nil, "blocked", createdAt, nil).
			AddRow(int64(12), "Bo Blocked", "+100012", "bo@example.com", "Elsewhere", nil, "blocked", createdAt, nil))

	c := models.DefaultCriteria()
	c.StatusFilter = models.StatusBlocked
	c.Page = 2

	users, total, err := repo.List(context.Background(), c)
	require.NoError(t, err)

	assert.Equal(t, 12, total)
	require.Len(t, users, 2)
	assert.Equal(t, int64(11), users[0].ID)
	assert.Equal(t, "blocked", users[0].Status)
	assert.Nil(t, users[0].UpdatedAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_List_PageBeyondRange(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newUserRepository(mock)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(12))

	mock.ExpectQuery(`FROM users .* LIMIT 10 OFFSET 40`).
		WillReturnRows(pgxmock.NewRows(userRowColumns()))

	c := models.DefaultCriteria()
	c.Page = 5

	users, total, err := repo.List(context.Background(), c)
	require.NoError(t, err)

	assert.Equal(t, 12, total)
	assert.Empty(t, users)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_List_CountFailurePropagates(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newUserRepository(mock)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WillReturnError(errors.New("connection reset"))

	_, _, err = repo.List(context.Background(), models.DefaultCriteria())
	assert.ErrorContains(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newUserRepository(mock)

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(int64(999)).
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUserRepository_Update_SetsOnlyProvidedFields(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newUserRepository(mock)

	createdAt := time.Date(2026, time.January, 10, 8, 0, 0, 0, time.UTC)
	updatedAt := time.Date(2026, time.March, 5, 21, 41, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM users WHERE email = \$1 AND id != \$2\)`).
		WithArgs("new@example.com", int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`UPDATE users SET full_name = \$1, email = \$2, updated_at = CURRENT_TIMESTAMP WHERE id = \$3 RETURNING`).
		WithArgs("New Name", "new@example.com", int64(7)).
		WillReturnRows(pgxmock.NewRows(userRowColumns()).
			AddRow(int64(7), "New Name", "+100007", "new@example.com", "", nil, "active", createdAt, &updatedAt))
	mock.ExpectCommit()

	name := "New Name"
	email := "new@example.com"
	user, err := repo.Update(context.Background(), 7, models.UserUpdate{FullName: &name, Email: &email})
	require.NoError(t, err)

	assert.Equal(t, "New Name", user.FullName)
	assert.Equal(t, "new@example.com", user.Email)
	require.NotNil(t, user.UpdatedAt)
	assert.Equal(t, updatedAt, *user.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update_EmailTakenByOtherUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newUserRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM users WHERE email = \$1 AND id != \$2\)`).
		WithArgs("taken@example.com", int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	email := "taken@example.com"
	_, err = repo.Update(context.Background(), 7, models.UserUpdate{Email: &email})
	assert.ErrorIs(t, err, models.ErrEmailTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateStatus_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newUserRepository(mock)

	mock.ExpectQuery(`UPDATE users SET status = \$1, updated_at = CURRENT_TIMESTAMP`).
		WithArgs("blocked", int64(404)).
		WillReturnError(pgx.ErrNoRows)

	err = repo.UpdateStatus(context.Background(), 404, models.StatusBlocked)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUserRepository_Delete_ReturnsName(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newUserRepository(mock)

	mock.ExpectQuery(`DELETE FROM users WHERE id = \$1 RETURNING full_name`).
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"full_name"}).AddRow("Gone User"))

	name, err := repo.Delete(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Gone User", name)
}

func TestUserRepository_Stats(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newUserRepository(mock)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users$`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(20))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE location LIKE`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(8))
	mock.ExpectQuery(`created_at::date = CURRENT_DATE`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`created_at::date >= CURRENT_DATE - INTERVAL '7 days'`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectQuery(`COUNT\(\*\) FILTER \(WHERE status = 'active'\)`).
		WillReturnRows(pgxmock.NewRows([]string{"active", "blocked"}).AddRow(17, 3))

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 20, stats.TotalUsers)
	assert.Equal(t, 8, stats.AutoUsers)
	assert.Equal(t, 2, stats.TodayUsers)
	assert.Equal(t, 5, stats.WeekUsers)
	assert.Equal(t, 17, stats.ActiveUsers)
	assert.Equal(t, 3, stats.BlockedUsers)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// squirrel renders ILIKE with ? placeholders before dollar conversion; make
// sure the final statement the pool sees uses $n numbering.
func TestListQueryUsesDollarPlaceholders(t *testing.T) {
	c := models.DefaultCriteria()
	c.Search = "acme"
	c.StatusFilter = models.StatusActive

	sql, args, err := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select(userColumns).
		From("users").
		Where(filterConditions(c)).
		OrderBy("created_at DESC", "id ASC").
		Limit(uint64(c.PerPage)).
		Offset(uint64(c.Offset())).
		ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "$1")
	assert.Contains(t, sql, "$5")
	assert.NotContains(t, sql, "?")
	assert.Len(t, args, 5)
}
