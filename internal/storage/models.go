// Package storage persists users, tags, statements and transactions in
// a SQLite database through gorm.
package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a transaction by money direction.
type TransactionType string

const (
	TypeCredit TransactionType = "Credit"
	TypeDebit  TransactionType = "Debit"
)

// User is an account holder. The password column stores the bcrypt
// hash, never the plaintext.
type User struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Tag is a user-defined transaction category.
type Tag struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;index:idx_tag_user_name" json:"name"`
	Color     string    `gorm:"not null" json:"color"`
	UserID    string    `gorm:"not null;index:idx_tag_user_name" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// BankStatement records one uploaded statement file. Rows are written
// once and never mutated; transactions reference them for provenance.
type BankStatement struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	UserID    string    `gorm:"not null;index" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Transaction is a single financial movement. Value is always the
// absolute amount; direction lives in Type. FitID carries the bank's
// transaction id for imported rows and is deliberately not unique:
// re-ingesting a statement inserts duplicates.
type Transaction struct {
	ID              string          `gorm:"primaryKey" json:"id"`
	Description     string          `gorm:"not null" json:"description"`
	Value           decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"value"`
	Type            TransactionType `gorm:"not null" json:"type"`
	TransactionDate time.Time       `gorm:"not null;index" json:"transactionDate"`
	FitID           string          `gorm:"column:fit_id" json:"fitId"`
	TagID           *string         `json:"tagId"`
	Tag             *Tag            `json:"tag,omitempty"`
	UserID          string          `gorm:"not null;index" json:"userId"`
	BankStatementID *string         `json:"bankStatementId"`
	CreatedAt       time.Time       `json:"createdAt"`
}
