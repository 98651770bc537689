package domain

import "time"

const TransactionStatusCompleted = "COMPLETED"

// Transaction is one immutable ledger entry for a completed membership
// payment. TransactionID comes from the payment processor; the unique index
// rejects a replayed processor id instead of writing a second row.
type Transaction struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"column:user_id;not null;index" json:"userId"`
	TransactionID string    `gorm:"column:transaction_id;unique;not null" json:"transactionId"`
	Amount        float64   `gorm:"column:amount;not null" json:"amount"`
	Currency      string    `gorm:"column:currency;not null" json:"currency"`
	Status        string    `gorm:"column:status;not null" json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (Transaction) TableName() string {
	return "transactions"
}
