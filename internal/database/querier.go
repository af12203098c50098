package database

import (
	"context"
	"errors"
	"fmt"

	"user-api/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

const uniqueViolation = "23505"

// InsertUser relies on the users_email_key constraint; a duplicate email is
// reported as models.ErrConstraintViolation.
func (q *Queries) InsertUser(ctx context.Context, name, email, password string) (*models.User, error) {
	query := `
		INSERT INTO users (name, email, password)
		VALUES ($1, $2, $3)
		RETURNING id, name, email, password, created_at
	`
	var user models.User
	err := q.db.QueryRow(ctx, query, name, email, password).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("email %q already exists: %w", email, models.ErrConstraintViolation)
		}
		return nil, err
	}

	return &user, nil
}

func (q *Queries) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT id, name, email, password, created_at
		FROM users
		WHERE id = $1
	`
	var user models.User
	err := q.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Name, &user.Email, &user.Password, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, name, email, password, created_at
		FROM users
		WHERE email = $1
	`
	var user models.User
	err := q.db.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.Password, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// ListUsers returns users in id order. A non-positive limit returns every
// row starting at offset.
func (q *Queries) ListUsers(ctx context.Context, limit int, offset int) ([]models.User, error) {
	var rows pgx.Rows
	var err error

	if limit > 0 {
		query := `SELECT id, name, email, password, created_at
				  FROM users
				  ORDER BY id
				  LIMIT $1 OFFSET $2`
		rows, err = q.db.Query(ctx, query, limit, offset)
	} else {
		query := `SELECT id, name, email, password, created_at
				  FROM users
				  ORDER BY id
				  OFFSET $1`
		rows, err = q.db.Query(ctx, query, offset)
	}
	if err != nil {
		return nil, err
	}

	return collectUsers(rows)
}

func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var total int64
	err := q.db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&total)
	return total, err
}

// UpdateUserName returns nil when no row has the given id.
func (q *Queries) UpdateUserName(ctx context.Context, id int64, name string) (*models.User, error) {
	query := `
		UPDATE users
		SET name = $1
		WHERE id = $2
		RETURNING id, name, email, password, created_at
	`
	var user models.User
	err := q.db.QueryRow(ctx, query, name, id).Scan(
		&user.ID, &user.Name, &user.Email, &user.Password, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (q *Queries) DeleteUser(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

// SearchUsersByName matches fragment as a case-insensitive substring of the
// name. strpos keeps % and _ in the fragment literal.
func (q *Queries) SearchUsersByName(ctx context.Context, fragment string) ([]models.User, error) {
	query := `
		SELECT id, name, email, password, created_at
		FROM users
		WHERE strpos(lower(name), lower($1)) > 0
		ORDER BY id
	`
	rows, err := q.db.Query(ctx, query, fragment)
	if err != nil {
		return nil, err
	}

	return collectUsers(rows)
}

// StreamUsers walks the users table one row at a time and hands each row to
// fn. The cursor is closed when the table is exhausted, when fn fails or
// when ctx is cancelled.
func (q *Queries) StreamUsers(ctx context.Context, fn func(models.User) error) error {
	rows, err := q.db.Query(ctx, `SELECT id, name, email FROM users ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email); err != nil {
			return err
		}
		if err := fn(user); err != nil {
			return err
		}
	}

	return rows.Err()
}

func collectUsers(rows pgx.Rows) ([]models.User, error) {
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.Password,
			&user.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if users == nil {
		return []models.User{}, nil
	}

	return users, nil
}
