package registration

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Repository persists participants in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const participantColumns = `participant_id, phone, name_english, ssc_year, tshirt_size,
	family_members, children, driver, religion, status, payment_id, paid_amount, total_fee, created_at`

func scanParticipant(row interface{ Scan(...any) error }) (Participant, error) {
	var p Participant
	err := row.Scan(&p.ID, &p.Phone, &p.NameEnglish, &p.SSCYear, &p.TshirtSize,
		&p.FamilyMembers, &p.Children, &p.Driver, &p.Religion, &p.Status,
		&p.PaymentID, &p.PaidAmount, &p.TotalFee, &p.CreatedAt)
	if err != nil {
		return Participant{}, err
	}
	p.ID = strings.TrimSpace(p.ID) // CHAR(6) pads short values with spaces
	return p, nil
}

func (r *Repository) findOne(ctx context.Context, where string, arg any) (*Participant, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+participantColumns+`
		FROM participants WHERE `+where, arg)
	p, err := scanParticipant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByID returns a participant by its short id, or nil when absent.
func (r *Repository) FindByID(ctx context.Context, id string) (*Participant, error) {
	return r.findOne(ctx, "participant_id = $1", id)
}

// FindByPhone returns a participant by normalized phone, or nil when absent.
func (r *Repository) FindByPhone(ctx context.Context, phone string) (*Participant, error) {
	return r.findOne(ctx, "phone = $1", phone)
}

// FindByPaymentID returns the participant holding a provider payment id.
func (r *Repository) FindByPaymentID(ctx context.Context, paymentID string) (*Participant, error) {
	if paymentID == "" {
		return nil, nil
	}
	return r.findOne(ctx, "payment_id = $1", paymentID)
}

// Insert writes a new participant. Unique violations are mapped to ErrIDTaken
// or DuplicatePhoneError so callers can tell a racing id collision from a
// duplicate registration.
func (r *Repository) Insert(ctx context.Context, p Participant) (Participant, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO participants (participant_id, phone, name_english, ssc_year, tshirt_size,
			family_members, children, driver, religion, status, payment_id, paid_amount, total_fee)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING created_at
	`, p.ID, p.Phone, p.NameEnglish, p.SSCYear, p.TshirtSize,
		p.FamilyMembers, p.Children, p.Driver, p.Religion, p.Status,
		p.PaymentID, p.PaidAmount, p.TotalFee)
	if err := row.Scan(&p.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "phone") {
				existing, ferr := r.FindByPhone(ctx, p.Phone)
				if ferr == nil && existing != nil {
					return Participant{}, &DuplicatePhoneError{Existing: *existing}
				}
			}
			return Participant{}, ErrIDTaken
		}
		return Participant{}, err
	}
	return p, nil
}

// Update applies the non-nil fields and reports whether a row matched.
func (r *Repository) Update(ctx context.Context, id string, upd Update) (bool, error) {
	sets := []string{}
	args := []any{id}
	set := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}
	if upd.NameEnglish != nil {
		set("name_english", *upd.NameEnglish)
	}
	if upd.SSCYear != nil {
		set("ssc_year", *upd.SSCYear)
	}
	if upd.TshirtSize != nil {
		set("tshirt_size", *upd.TshirtSize)
	}
	if upd.FamilyMembers != nil {
		set("family_members", *upd.FamilyMembers)
	}
	if upd.Children != nil {
		set("children", *upd.Children)
	}
	if upd.Driver != nil {
		set("driver", *upd.Driver)
	}
	if upd.Religion != nil {
		set("religion", *upd.Religion)
	}
	if len(sets) == 0 {
		return true, nil
	}

	res, err := r.db.ExecContext(ctx,
		"UPDATE participants SET "+strings.Join(sets, ", ")+" WHERE participant_id = $1", args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Delete removes a participant and reports whether a row matched.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM participants WHERE participant_id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func filterClauses(f Filter) (string, []any) {
	clauses := []string{}
	args := []any{}
	add := func(clause string, val any) {
		args = append(args, val)
		clauses = append(clauses, strings.ReplaceAll(clause, "?", "$"+strconv.Itoa(len(args))))
	}
	if f.Search != "" {
		add("name_english ILIKE '%' || ? || '%'", f.Search)
	}
	if f.Batch != "" {
		add("ssc_year = ?", f.Batch)
	}
	if f.Status != "" {
		add("status = ?", f.Status)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// List returns matching participants, newest insertion first.
func (r *Repository) List(ctx context.Context, f Filter) ([]Participant, error) {
	where, args := filterClauses(f)
	query := "SELECT " + participantColumns + " FROM participants" + where + " ORDER BY seq DESC"
	if f.Paginate {
		query += " LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)
		args = append(args, f.Size, f.Page*f.Size)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

// Count returns how many participants match the filter.
func (r *Repository) Count(ctx context.Context, f Filter) (int, error) {
	where, args := filterClauses(f)
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM participants"+where, args...).Scan(&n)
	return n, err
}

// YearCounts groups registrations by ssc_year, optionally restricted to one
// payment status. Years are returned newest first.
func (r *Repository) YearCounts(ctx context.Context, status string) ([]YearCount, error) {
	query := `SELECT ssc_year, COUNT(*) FROM participants`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` GROUP BY ssc_year ORDER BY ssc_year DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []YearCount
	for rows.Next() {
		var yc YearCount
		if err := rows.Scan(&yc.SSCYear, &yc.Count); err != nil {
			return nil, err
		}
		res = append(res, yc)
	}
	return res, rows.Err()
}

// SetPayment stores the provider invoice on a participant. Status stays
// Unpaid until the success callback lands.
func (r *Repository) SetPayment(ctx context.Context, id, paymentID string, amount, totalFee int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE participants
		SET payment_id = $2, paid_amount = $3, total_fee = $4
		WHERE participant_id = $1
	`, id, paymentID, amount, totalFee)
	return err
}

// RecordPaymentAudit appends a reconciliation row once a payment completes.
// Written by the worker, never read on the request path.
func (r *Repository) RecordPaymentAudit(ctx context.Context, participantID, paymentID string, amount int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payment_audit (participant_id, payment_id, amount)
		VALUES ($1, $2, $3)
	`, participantID, paymentID, amount)
	return err
}

// MarkPaid flips status to Paid for the row holding paymentID. The status
// guard makes the transition idempotent: a replayed callback matches zero
// rows.
func (r *Repository) MarkPaid(ctx context.Context, paymentID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE participants SET status = $2
		WHERE payment_id = $1 AND status = $3
	`, paymentID, StatusPaid, StatusUnpaid)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
