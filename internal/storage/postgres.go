package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const pqUniqueViolation = "23505"

// PostgresUsers implements Users on a sqlx Postgres handle.
type PostgresUsers struct {
	db *sqlx.DB
}

// NewPostgresUsers wraps the database handle.
func NewPostgresUsers(db *sqlx.DB) *PostgresUsers {
	return &PostgresUsers{db: db}
}

// FindByTelegramID returns the record or ErrUserNotFound.
func (r *PostgresUsers) FindByTelegramID(ctx context.Context, telegramID int64) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u,
		`SELECT id, telegram_id, name,
		        category1, category2, category3,
		        expenses1, expenses2, expenses3,
		        created_at, updated_at
		   FROM users
		  WHERE telegram_id = $1`,
		telegramID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by telegram id: %w", err)
	}
	return &u, nil
}

// Create inserts a new record, mapping the unique-violation error class to
// ErrAlreadyExists so callers never race a separate existence check.
func (r *PostgresUsers) Create(ctx context.Context, telegramID int64, name string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u,
		`INSERT INTO users (telegram_id, name)
		 VALUES ($1, $2)
		 RETURNING id, telegram_id, name,
		           category1, category2, category3,
		           expenses1, expenses2, expenses3,
		           created_at, updated_at`,
		telegramID, name,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

// UpdateExpenses writes all six expense fields in one statement.
func (r *PostgresUsers) UpdateExpenses(ctx context.Context, telegramID int64, exp Expenses) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users
		    SET category1 = $1, expenses1 = $2,
		        category2 = $3, expenses2 = $4,
		        category3 = $5, expenses3 = $6,
		        updated_at = now()
		  WHERE telegram_id = $7`,
		exp.Category1, exp.Amount1,
		exp.Category2, exp.Amount2,
		exp.Category3, exp.Amount3,
		telegramID,
	)
	if err != nil {
		return fmt.Errorf("update expenses: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update expenses rows affected: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}
