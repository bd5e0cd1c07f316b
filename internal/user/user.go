package user

import (
	"context"
	"errors"
	"time"
)

// User is a website account. Email is the unique key; id identifies the row
// for deletion.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	PhotoURL    string    `json:"photoURL"`
	Role        string    `json:"role"`
	Batch       string    `json:"batch"`
	StudentID   string    `json:"studentID"`
	AccountType string    `json:"accountType"`
	Department  string    `json:"department"`
	Phone       string    `json:"phone"`
	CreatedAt   time.Time `json:"created_at"`
}

// ErrNotFound is returned when no account matches a lookup.
var ErrNotFound = errors.New("user not found")

// Store persists accounts keyed by email.
type Store interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Insert(ctx context.Context, u User) (User, error)
	Upsert(ctx context.Context, email string, u User) (User, error)
	Delete(ctx context.Context, id string) (bool, error)
}
