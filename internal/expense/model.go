package expense

import (
	"time"

	"github.com/splitify/splitify/internal/expense/split"
)

// Category is the spending category of an expense.
type Category string

const (
	CategoryFood           Category = "FOOD"
	CategoryTransportation Category = "TRANSPORTATION"
	CategoryShopping       Category = "SHOPPING"
	CategoryEntertainment  Category = "ENTERTAINMENT"
	CategoryUtilities      Category = "UTILITIES"
	CategoryRent           Category = "RENT"
	CategoryGroceries      Category = "GROCERIES"
	CategoryTravel         Category = "TRAVEL"
	CategoryHealthcare     Category = "HEALTHCARE"
	CategoryOther          Category = "OTHER"
)

// Valid reports whether the category is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryFood, CategoryTransportation, CategoryShopping,
		CategoryEntertainment, CategoryUtilities, CategoryRent,
		CategoryGroceries, CategoryTravel, CategoryHealthcare, CategoryOther:
		return true
	}
	return false
}

// Expense represents one spending event in a group. Amounts are stored in
// integer minor units of the expense's currency. Expenses are immutable once
// created; there is no edit flow.
type Expense struct {
	ID          int64        `db:"id" json:"id"`
	GroupID     int64        `db:"group_id" json:"group_id"`
	CreatorID   int64        `db:"creator_id" json:"creator_id"`
	Title       string       `db:"title" json:"title"`
	Description *string      `db:"description" json:"description,omitempty"`
	Amount      int64        `db:"amount" json:"amount"`
	Currency    string       `db:"currency" json:"currency"`
	Category    Category     `db:"category" json:"category"`
	SplitPolicy split.Policy `db:"split_policy" json:"split_policy"`
	ExpenseDate time.Time    `db:"expense_date" json:"expense_date"`
	ReceiptURL  *string      `db:"receipt_url" json:"receipt_url,omitempty"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`

	// Populated via JOIN
	CreatorUsername string `db:"creator_username" json:"creator_username,omitempty"`
}

// Payment is one payer's contribution to an expense, in minor units.
// Payments are exclusively owned by their expense.
type Payment struct {
	ID        int64 `db:"id" json:"id"`
	ExpenseID int64 `db:"expense_id" json:"expense_id"`
	PayerID   int64 `db:"payer_id" json:"payer_id"`
	Amount    int64 `db:"amount" json:"amount"`

	// Populated via JOIN
	PayerUsername string `db:"payer_username" json:"payer_username,omitempty"`
}

// Share is the portion of an expense one beneficiary owes, in minor units.
// Shares are exclusively owned by their expense.
type Share struct {
	ID            int64 `db:"id" json:"id"`
	ExpenseID     int64 `db:"expense_id" json:"expense_id"`
	BeneficiaryID int64 `db:"beneficiary_id" json:"beneficiary_id"`
	Amount        int64 `db:"amount" json:"amount"`

	// Populated via JOIN
	BeneficiaryUsername string `db:"beneficiary_username" json:"beneficiary_username,omitempty"`
}

// ExpenseWithBreakdown combines an expense with its payments and shares.
type ExpenseWithBreakdown struct {
	Expense  *Expense
	Payments []*Payment
	Shares   []*Share
}
