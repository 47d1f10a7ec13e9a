package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/charbel-francis/saleaf/core"
	"github.com/charbel-francis/saleaf/core/user"
)

type dbUser struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Email        string         `db:"email"`
	IsActive     bool           `db:"is_active"`
	Roles        pq.StringArray `db:"roles"`
	PasswordHash []byte         `db:"password_hash"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	LastLogin    null.Time      `db:"last_login"`
}

func (u dbUser) toCore() user.User {
	roles := make([]string, 0, len(u.Roles))
	roles = append(roles, u.Roles...)
	return user.User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		IsActive:     u.IsActive,
		Roles:        roles,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
		LastLogin:    u.LastLogin.Time,
	}
}

func rolesArray(roles []string) pq.StringArray {
	arr := make(pq.StringArray, 0, len(roles))
	arr = append(arr, roles...)
	return arr
}

var userSortable = map[string]bool{
	"name":       true,
	"email":      true,
	"is_active":  true,
	"created_at": true,
	"updated_at": true,
	"last_login": true,
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to user.ErrNotFound
func (repo userRepository) trapNoRowsErr(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return user.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo userRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...user.User) error {
	query := `SELECT EXISTS (SELECT 1 FROM "user" WHERE email = $1 AND NOT (id = ANY ($2)))`
	excluded := make(pq.StringArray, 0, len(excludedUsers))
	for _, usr := range excludedUsers {
		excluded = append(excluded, usr.ID)
	}

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, query, email, excluded); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return user.ErrEmailExists
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = uuid.New().String()

	query := `
		INSERT INTO "user" (id, name, email, is_active, roles, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := repo.db.ExecContext(ctx, query,
		usr.ID, usr.Name, usr.Email, usr.IsActive, rolesArray(usr.Roles),
		usr.PasswordHash, usr.CreatedAt.UTC(), usr.UpdatedAt.UTC(),
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo userRepository) QueryUsers(ctx context.Context, filter *user.QueryFilter, ordering []core.DBOrdering) ([]user.User, error) {
	query := `SELECT * FROM "user"`
	var conds []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + itoa(len(args))
	}

	if filter != nil {
		if filter.Search != "" {
			p := arg("%" + filter.Search + "%")
			conds = append(conds, "(name ILIKE "+p+" OR email ILIKE "+p+")")
		}
		// users with any role that starts with any of the provided roles
		if len(filter.Roles) > 0 {
			var roleConds []string
			for _, role := range filter.Roles {
				roleConds = append(roleConds,
					"EXISTS (SELECT 1 FROM UNNEST(roles) user_role WHERE user_role ILIKE "+arg(role+"%")+")")
			}
			conds = append(conds, "("+strings.Join(roleConds, " OR ")+")")
		}
		if filter.IsActive != nil {
			conds = append(conds, "is_active = "+arg(*filter.IsActive))
		}
		if !filter.CreatedFrom.IsZero() {
			conds = append(conds, "created_at >= "+arg(filter.CreatedFrom.UTC()))
		}
		if !filter.CreatedTo.IsZero() {
			conds = append(conds, "created_at <= "+arg(filter.CreatedTo.UTC()))
		}
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += orderClause(ordering, userSortable)

	var rows []dbUser
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}

	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toCore())
	}
	return users, nil
}

func (repo userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	var row dbUser

	if filter.ID != "" {
		if _, err := uuid.Parse(filter.ID); err != nil {
			return user.User{}, user.ErrNotFound
		}
		err := repo.db.GetContext(ctx, &row, `SELECT * FROM "user" WHERE id = $1`, filter.ID)
		if err != nil {
			return user.User{}, repo.trapNoRowsErr(err, "finding user by ID")
		}
		return row.toCore(), nil
	}

	err := repo.db.GetContext(ctx, &row, `SELECT * FROM "user" WHERE email = $1`, filter.Email)
	if err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "finding user by email")
	}
	return row.toCore(), nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User, isActive *bool) (user.User, error) {
	// only overwrite set fields
	query := `
		UPDATE "user" SET
			name          = COALESCE(NULLIF($2, ''), name),
			email         = COALESCE(NULLIF($3, ''), email),
			roles         = COALESCE($4, roles),
			password_hash = COALESCE($5, password_hash),
			is_active     = COALESCE($6, is_active),
			last_login    = COALESCE($7, last_login),
			updated_at    = COALESCE($8, updated_at)
		WHERE id = $1
		RETURNING *`

	var roles interface{}
	if usr.Roles != nil {
		roles = rolesArray(usr.Roles)
	}
	var pwdHash interface{}
	if usr.PasswordHash != nil {
		pwdHash = usr.PasswordHash
	}

	var row dbUser
	err := repo.db.GetContext(ctx, &row, query,
		usr.ID, usr.Name, usr.Email, roles, pwdHash, isActive,
		null.NewTime(usr.LastLogin.UTC(), !usr.LastLogin.IsZero()),
		null.NewTime(usr.UpdatedAt.UTC(), !usr.UpdatedAt.IsZero()),
	)
	if err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "updating user")
	}
	return row.toCore(), nil
}

func (repo userRepository) DeleteUsersByID(ctx context.Context, ids ...string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM "user" WHERE id = ANY ($1)`, pq.StringArray(ids))
	return errors.Wrap(err, "deleting users")
}
