package repositories

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bitemebuddy/admin-api/internal/database"
	"github.com/bitemebuddy/admin-api/internal/models"
)

// userColumns is the read set for every user query. The password column is
// write-only from the repository's perspective and is never selected.
const userColumns = "id, full_name, phone, email, location, profile_pic, status, created_at, updated_at"

// locationShape is the SQL pattern classifying a location string as
// auto-detected: four pipe-delimited segments. It deliberately does not check
// that the coordinate segments are numeric, unlike location.Parse; see the
// package comment of internal/location.
const (
	locationShapeAuto   = `location LIKE '% | % | % | %'`
	locationShapeManual = `location NOT LIKE '% | % | % | %'`
)

// pgPool is the slice of the pgxpool API the repository needs. Both a real
// *pgxpool.Pool and a pgxmock pool satisfy it.
type pgPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type UserRepository struct {
	db      pgPool
	builder squirrel.StatementBuilderType
}

// NewUserRepository wires a Postgres-backed user repository.
func NewUserRepository(db *database.DB) *UserRepository {
	return newUserRepository(db.Pool)
}

func newUserRepository(db pgPool) *UserRepository {
	return &UserRepository{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// rowScanner covers both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanUserRow handles nullable fields and populates a User model from a database row
func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User
	var profilePic *string
	var updatedAt *time.Time

	err := scanner.Scan(
		&user.ID, &user.FullName, &user.Phone, &user.Email,
		&user.Location, &profilePic, &user.Status,
		&user.CreatedAt, &updatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	user.ProfilePic = profilePic
	user.UpdatedAt = updatedAt

	return &user, nil
}

// scanUserRows iterates through rows and scans each into User models
func scanUserRows(rows pgx.Rows) ([]*models.User, error) {
	defer rows.Close()

	users := make([]*models.User, 0)

	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

// filterConditions composes the WHERE clause for a listing: every active
// filter contributes one ANDed predicate, inactive filters contribute
// nothing. User-supplied values are always bound; the structural fragments
// (location shape, date windows) are static SQL carrying no user input.
// An empty criteria set renders as (1=1).
func filterConditions(c models.FilterCriteria) squirrel.And {
	cond := squirrel.And{}

	if c.Search != "" {
		pattern := "%" + c.Search + "%"
		cond = append(cond, squirrel.Or{
			squirrel.ILike{"full_name": pattern},
			squirrel.ILike{"phone": pattern},
			squirrel.ILike{"email": pattern},
			squirrel.ILike{"location": pattern},
		})
	}

	switch c.LocationFilter {
	case models.LocationAuto:
		cond = append(cond, squirrel.Expr(locationShapeAuto))
	case models.LocationManual:
		cond = append(cond, squirrel.Expr(locationShapeManual))
	}

	if c.StatusFilter != "" && c.StatusFilter != "all" {
		cond = append(cond, squirrel.Eq{"status": c.StatusFilter})
	}

	switch c.DateFilter {
	case models.DateToday:
		cond = append(cond, squirrel.Expr("created_at::date = CURRENT_DATE"))
	case models.DateWeek:
		cond = append(cond, squirrel.Expr("created_at >= CURRENT_DATE - INTERVAL '7 days'"))
	case models.DateMonth:
		cond = append(cond, squirrel.Expr("created_at >= CURRENT_DATE - INTERVAL '30 days'"))
	}

	return cond
}

// Count returns the number of users matching the criteria, ignoring
// pagination.
func (r *UserRepository) Count(ctx context.Context, c models.FilterCriteria) (int, error) {
	q := r.builder.Select("COUNT(*)").From("users")
	if cond := filterConditions(c); len(cond) > 0 {
		q = q.Where(cond)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, database.MapPostgresError(err)
	}
	return total, nil
}

// List returns one page of users plus the total match count. Both queries
// are composed from the same predicate so the pagination metadata always
// agrees with the rows. Ordering is newest first with the id as a stable
// tie-break, so repeated calls over identical data return identical pages.
func (r *UserRepository) List(ctx context.Context, c models.FilterCriteria) ([]*models.User, int, error) {
	total, err := r.Count(ctx, c)
	if err != nil {
		return nil, 0, err
	}

	q := r.builder.Select(userColumns).From("users")
	if cond := filterConditions(c); len(cond) > 0 {
		q = q.Where(cond)
	}

	sql, args, err := q.
		OrderBy("created_at DESC", "id ASC").
		Limit(uint64(c.PerPage)).
		Offset(uint64(c.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query users: %w", database.MapPostgresError(err))
	}

	users, err := scanUserRows(rows)
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// ListAll returns every user, newest first. Used by the CSV export.
func (r *UserRepository) ListAll(ctx context.Context) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users ORDER BY created_at DESC, id ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", database.MapPostgresError(err))
	}

	return scanUserRows(rows)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users WHERE id = $1
	`

	return scanUserRow(r.db.QueryRow(ctx, query, id))
}

// Create inserts a new user row. The Password field must already be hashed.
func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.Status == "" {
		user.Status = models.StatusActive
	}

	query := `
		INSERT INTO users (full_name, phone, email, password, location, profile_pic, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns

	return scanUserRow(r.db.QueryRow(ctx, query,
		user.FullName, user.Phone, user.Email, user.Password,
		user.Location, user.ProfilePic, user.Status,
	))
}

// Update applies a field-level update. The uniqueness pre-checks against
// other rows and the mutation itself run inside one transaction so the check
// cannot race a concurrent write. upd.Password, when set, must already be
// hashed by the caller.
func (r *UserRepository) Update(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error) {
	var user *models.User

	err := database.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		if upd.Email != nil {
			taken, err := columnTakenByOther(ctx, tx, "email", *upd.Email, id)
			if err != nil {
				return err
			}
			if taken {
				return models.ErrEmailTaken
			}
		}

		if upd.Phone != nil {
			taken, err := columnTakenByOther(ctx, tx, "phone", *upd.Phone, id)
			if err != nil {
				return err
			}
			if taken {
				return models.ErrPhoneTaken
			}
		}

		q := r.builder.Update("users")
		if upd.FullName != nil {
			q = q.Set("full_name", *upd.FullName)
		}
		if upd.Email != nil {
			q = q.Set("email", *upd.Email)
		}
		if upd.Phone != nil {
			q = q.Set("phone", *upd.Phone)
		}
		if upd.Location != nil {
			q = q.Set("location", *upd.Location)
		}
		if upd.Status != nil {
			q = q.Set("status", *upd.Status)
		}
		if upd.Password != nil {
			q = q.Set("password", *upd.Password)
		}

		// The update timestamp moves on every mutation.
		q = q.Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
			Where(squirrel.Eq{"id": id}).
			Suffix("RETURNING " + userColumns)

		sql, args, err := q.ToSql()
		if err != nil {
			return fmt.Errorf("build update query: %w", err)
		}

		user, err = scanUserRow(tx.QueryRow(ctx, sql, args...))
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// columnTakenByOther reports whether value is already used on column by a row
// other than excludeID. column is one of the fixed identifiers "email" or
// "phone", never user input.
func columnTakenByOther(ctx context.Context, tx pgx.Tx, column, value string, excludeID int64) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM users WHERE %s = $1 AND id != $2)`, column)

	var taken bool
	if err := tx.QueryRow(ctx, query, value, excludeID).Scan(&taken); err != nil {
		return false, database.MapPostgresError(err)
	}
	return taken, nil
}

// UpdateStatus flips a user between active and blocked.
func (r *UserRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `
		UPDATE users SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
		RETURNING id
	`

	var returned int64
	if err := r.db.QueryRow(ctx, query, status, id).Scan(&returned); err != nil {
		return database.MapPostgresError(err)
	}
	return nil
}

// Delete removes a user and returns the deleted row's full name for the
// caller's confirmation message.
func (r *UserRepository) Delete(ctx context.Context, id int64) (string, error) {
	query := `DELETE FROM users WHERE id = $1 RETURNING full_name`

	var fullName string
	if err := r.db.QueryRow(ctx, query, id).Scan(&fullName); err != nil {
		return "", database.MapPostgresError(err)
	}
	return fullName, nil
}

// Stats computes the dashboard counters. The auto-detected count uses the
// same shape-only pattern as the listing filter.
func (r *UserRepository) Stats(ctx context.Context) (*models.UserStats, error) {
	var stats models.UserStats

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM users`, &stats.TotalUsers},
		{`SELECT COUNT(*) FROM users WHERE ` + locationShapeAuto, &stats.AutoUsers},
		{`SELECT COUNT(*) FROM users WHERE created_at::date = CURRENT_DATE`, &stats.TodayUsers},
		{`SELECT COUNT(*) FROM users WHERE created_at::date >= CURRENT_DATE - INTERVAL '7 days'`, &stats.WeekUsers},
	}

	for _, c := range counts {
		if err := r.db.QueryRow(ctx, c.query).Scan(c.dest); err != nil {
			return nil, database.MapPostgresError(err)
		}
	}

	statusQuery := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'active'),
			COUNT(*) FILTER (WHERE status = 'blocked')
		FROM users
	`
	if err := r.db.QueryRow(ctx, statusQuery).Scan(&stats.ActiveUsers, &stats.BlockedUsers); err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &stats, nil
}
