package expense

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repository handles expense, payment and share persistence.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new expense repository.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Create persists an expense together with its payments and shares in a
// single transaction: either the whole breakdown commits, or nothing does.
func (r *Repository) Create(ctx context.Context, e *Expense, payments []*Payment, shares []*Share) (*ExpenseWithBreakdown, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO expenses (group_id, creator_id, title, description, amount, currency, category, split_policy, expense_date, receipt_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`
	err = tx.QueryRowContext(ctx, query,
		e.GroupID, e.CreatorID, e.Title, e.Description,
		e.Amount, e.Currency, e.Category, e.SplitPolicy,
		e.ExpenseDate, e.ReceiptURL,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	for _, p := range payments {
		p.ExpenseID = e.ID
		err = tx.QueryRowContext(ctx,
			`INSERT INTO expense_payments (expense_id, payer_id, amount) VALUES ($1, $2, $3) RETURNING id`,
			p.ExpenseID, p.PayerID, p.Amount,
		).Scan(&p.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to create payment: %w", err)
		}
	}

	for _, s := range shares {
		s.ExpenseID = e.ID
		err = tx.QueryRowContext(ctx,
			`INSERT INTO expense_shares (expense_id, beneficiary_id, amount) VALUES ($1, $2, $3) RETURNING id`,
			s.ExpenseID, s.BeneficiaryID, s.Amount,
		).Scan(&s.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to create share: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit expense: %w", err)
	}

	return &ExpenseWithBreakdown{Expense: e, Payments: payments, Shares: shares}, nil
}

// GetByID retrieves an expense by its ID, or nil if it does not exist.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Expense, error) {
	query := `
		SELECT e.id, e.group_id, e.creator_id, e.title, e.description, e.amount, e.currency,
		       e.category, e.split_policy, e.expense_date, e.receipt_url, e.created_at,
		       u.username AS creator_username
		FROM expenses e
		JOIN users u ON e.creator_id = u.id
		WHERE e.id = $1
	`

	expense := &Expense{}
	if err := r.db.GetContext(ctx, expense, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return expense, nil
}

// GetPayments retrieves all payments for an expense in insertion order.
func (r *Repository) GetPayments(ctx context.Context, expenseID int64) ([]*Payment, error) {
	query := `
		SELECT p.id, p.expense_id, p.payer_id, p.amount, u.username AS payer_username
		FROM expense_payments p
		JOIN users u ON p.payer_id = u.id
		WHERE p.expense_id = $1
		ORDER BY p.id
	`

	var payments []*Payment
	if err := r.db.SelectContext(ctx, &payments, query, expenseID); err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}
	return payments, nil
}

// GetShares retrieves all shares for an expense in insertion order.
func (r *Repository) GetShares(ctx context.Context, expenseID int64) ([]*Share, error) {
	query := `
		SELECT s.id, s.expense_id, s.beneficiary_id, s.amount, u.username AS beneficiary_username
		FROM expense_shares s
		JOIN users u ON s.beneficiary_id = u.id
		WHERE s.expense_id = $1
		ORDER BY s.id
	`

	var shares []*Share
	if err := r.db.SelectContext(ctx, &shares, query, expenseID); err != nil {
		return nil, fmt.Errorf("failed to get shares: %w", err)
	}
	return shares, nil
}

// ListByGroupID retrieves one page of a group's expenses, newest first.
func (r *Repository) ListByGroupID(ctx context.Context, groupID int64, limit, offset int) ([]*Expense, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM expenses WHERE group_id = $1`, groupID); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := `
		SELECT e.id, e.group_id, e.creator_id, e.title, e.description, e.amount, e.currency,
		       e.category, e.split_policy, e.expense_date, e.receipt_url, e.created_at,
		       u.username AS creator_username
		FROM expenses e
		JOIN users u ON e.creator_id = u.id
		WHERE e.group_id = $1
		ORDER BY e.created_at DESC
		LIMIT $2 OFFSET $3
	`

	var expenses []*Expense
	if err := r.db.SelectContext(ctx, &expenses, query, groupID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, total, nil
}

// ListHistoryByGroupID retrieves a group's full expense history with
// payments and shares attached. The ledger recomputes balances from this
// set on every read, so there is no pagination here.
func (r *Repository) ListHistoryByGroupID(ctx context.Context, groupID int64) ([]*ExpenseWithBreakdown, error) {
	var expenses []*Expense
	query := `
		SELECT id, group_id, creator_id, title, description, amount, currency,
		       category, split_policy, expense_date, receipt_url, created_at
		FROM expenses
		WHERE group_id = $1
		ORDER BY id
	`
	if err := r.db.SelectContext(ctx, &expenses, query, groupID); err != nil {
		return nil, fmt.Errorf("failed to list expense history: %w", err)
	}

	history := make([]*ExpenseWithBreakdown, 0, len(expenses))
	for _, e := range expenses {
		var payments []*Payment
		if err := r.db.SelectContext(ctx, &payments,
			`SELECT id, expense_id, payer_id, amount FROM expense_payments WHERE expense_id = $1 ORDER BY id`, e.ID); err != nil {
			return nil, fmt.Errorf("failed to load payments: %w", err)
		}
		var shares []*Share
		if err := r.db.SelectContext(ctx, &shares,
			`SELECT id, expense_id, beneficiary_id, amount FROM expense_shares WHERE expense_id = $1 ORDER BY id`, e.ID); err != nil {
			return nil, fmt.Errorf("failed to load shares: %w", err)
		}
		history = append(history, &ExpenseWithBreakdown{Expense: e, Payments: payments, Shares: shares})
	}
	return history, nil
}

// Delete removes an expense; its payments and shares go with it via the
// ON DELETE CASCADE on the owning foreign keys.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrExpenseNotFound
	}
	return nil
}
