package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// Repository persists accounts in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const userColumns = `id, email, name, photo_url, role, batch, student_id, account_type, department, phone, created_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PhotoURL, &u.Role, &u.Batch,
		&u.StudentID, &u.AccountType, &u.Department, &u.Phone, &u.CreatedAt)
	return u, err
}

// FindByEmail returns an account, or nil when absent.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE email = $1
	`, email)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns all accounts, newest first.
func (r *Repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

// Insert writes a new account.
func (r *Repository) Insert(ctx context.Context, u User) (User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (id, email, name, photo_url, role, batch, student_id, account_type, department, phone)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at
	`, u.ID, u.Email, u.Name, u.PhotoURL, u.Role, u.Batch, u.StudentID, u.AccountType, u.Department, u.Phone)
	if err := row.Scan(&u.CreatedAt); err != nil {
		return User{}, err
	}
	return u, nil
}

// Upsert creates or replaces the mutable fields of the account with the
// given email.
func (r *Repository) Upsert(ctx context.Context, email string, u User) (User, error) {
	id := uuid.NewString()
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (id, email, name, photo_url, role, batch, student_id, account_type, department, phone)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (email) DO UPDATE SET
			name = EXCLUDED.name,
			photo_url = EXCLUDED.photo_url,
			role = EXCLUDED.role,
			batch = EXCLUDED.batch,
			student_id = EXCLUDED.student_id,
			account_type = EXCLUDED.account_type,
			department = EXCLUDED.department,
			phone = EXCLUDED.phone
		RETURNING `+userColumns+`
	`, id, email, u.Name, u.PhotoURL, u.Role, u.Batch, u.StudentID, u.AccountType, u.Department, u.Phone)
	return scanUser(row)
}

// Delete removes an account by row id and reports whether one matched.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
