package expense

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/splitify/splitify/internal/currency"
	"github.com/splitify/splitify/internal/expense/split"
)

// ShareInput is one beneficiary's raw per-member value. Its meaning depends
// on the split policy: absolute amount (UNEQUAL), percentage (PERCENTAGE) or
// weight (SHARES).
type ShareInput struct {
	UserID int64           `json:"user_id" validate:"required"`
	Value  decimal.Decimal `json:"value" validate:"required"`
}

// CreateExpenseRequest represents the request to create an expense.
type CreateExpenseRequest struct {
	GroupID        int64           `json:"group_id" validate:"required"`
	Title          string          `json:"title" validate:"required,min=1,max=255"`
	Description    *string         `json:"description,omitempty"`
	Amount         decimal.Decimal `json:"amount" validate:"required"`
	Currency       string          `json:"currency" validate:"required,len=3"`
	Category       string          `json:"category" validate:"required"`
	SplitPolicy    string          `json:"split_policy" validate:"required,oneof=EQUAL UNEQUAL PERCENTAGE SHARES"`
	ExpenseDate    time.Time       `json:"expense_date" validate:"required"`
	ReceiptURL     *string         `json:"receipt_url,omitempty"`
	PayerIDs       []int64         `json:"payer_ids" validate:"required,min=1"`
	BeneficiaryIDs []int64         `json:"beneficiary_ids" validate:"required,min=1"`
	ShareInputs    []ShareInput    `json:"share_inputs,omitempty"`
}

// ToDraft converts the request into the immutable draft value that flows
// through compute, validate and persist.
func (req *CreateExpenseRequest) ToDraft(creatorID int64) *Draft {
	inputs := make(map[int64]decimal.Decimal, len(req.ShareInputs))
	for _, in := range req.ShareInputs {
		inputs[in.UserID] = in.Value
	}

	return &Draft{
		GroupID:        req.GroupID,
		CreatorID:      creatorID,
		Title:          req.Title,
		Description:    req.Description,
		Amount:         req.Amount,
		Currency:       req.Currency,
		Category:       Category(req.Category),
		SplitPolicy:    split.Policy(req.SplitPolicy),
		ExpenseDate:    req.ExpenseDate,
		ReceiptURL:     req.ReceiptURL,
		PayerIDs:       req.PayerIDs,
		BeneficiaryIDs: req.BeneficiaryIDs,
		Inputs:         inputs,
	}
}

// ExpenseResponse represents the response for an expense. Amounts are
// rendered as decimal strings in the expense's currency.
type ExpenseResponse struct {
	ID              int64              `json:"id"`
	GroupID         int64              `json:"group_id"`
	CreatorID       int64              `json:"creator_id"`
	CreatorUsername string             `json:"creator_username,omitempty"`
	Title           string             `json:"title"`
	Description     *string            `json:"description,omitempty"`
	Amount          string             `json:"amount"`
	Currency        string             `json:"currency"`
	Category        Category           `json:"category"`
	SplitPolicy     split.Policy       `json:"split_policy"`
	ExpenseDate     string             `json:"expense_date"`
	ReceiptURL      *string            `json:"receipt_url,omitempty"`
	CreatedAt       string             `json:"created_at"`
	Payments        []*PaymentResponse `json:"payments,omitempty"`
	Shares          []*ShareResponse   `json:"shares,omitempty"`
}

// PaymentResponse represents one payer's contribution.
type PaymentResponse struct {
	ID            int64  `json:"id"`
	PayerID       int64  `json:"payer_id"`
	PayerUsername string `json:"payer_username,omitempty"`
	Amount        string `json:"amount"`
}

// ShareResponse represents one beneficiary's share.
type ShareResponse struct {
	ID                  int64  `json:"id"`
	BeneficiaryID       int64  `json:"beneficiary_id"`
	BeneficiaryUsername string `json:"beneficiary_username,omitempty"`
	Amount              string `json:"amount"`
}

func formatMinor(minor int64, code string) string {
	amount, err := currency.FromMinorUnits(minor, code)
	if err != nil {
		return decimal.NewFromInt(minor).String()
	}
	return amount.String()
}

// ToResponse converts an Expense model to its response DTO.
func (e *Expense) ToResponse() *ExpenseResponse {
	return &ExpenseResponse{
		ID:              e.ID,
		GroupID:         e.GroupID,
		CreatorID:       e.CreatorID,
		CreatorUsername: e.CreatorUsername,
		Title:           e.Title,
		Description:     e.Description,
		Amount:          formatMinor(e.Amount, e.Currency),
		Currency:        e.Currency,
		Category:        e.Category,
		SplitPolicy:     e.SplitPolicy,
		ExpenseDate:     e.ExpenseDate.Format("2006-01-02"),
		ReceiptURL:      e.ReceiptURL,
		CreatedAt:       e.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a breakdown into a full expense response with
// payments and shares attached.
func (b *ExpenseWithBreakdown) ToResponse() *ExpenseResponse {
	resp := b.Expense.ToResponse()
	resp.Payments = make([]*PaymentResponse, len(b.Payments))
	for i, p := range b.Payments {
		resp.Payments[i] = &PaymentResponse{
			ID:            p.ID,
			PayerID:       p.PayerID,
			PayerUsername: p.PayerUsername,
			Amount:        formatMinor(p.Amount, b.Expense.Currency),
		}
	}
	resp.Shares = make([]*ShareResponse, len(b.Shares))
	for i, s := range b.Shares {
		resp.Shares[i] = &ShareResponse{
			ID:                  s.ID,
			BeneficiaryID:       s.BeneficiaryID,
			BeneficiaryUsername: s.BeneficiaryUsername,
			Amount:              formatMinor(s.Amount, b.Expense.Currency),
		}
	}
	return resp
}
