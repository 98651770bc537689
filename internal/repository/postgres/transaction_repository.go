package postgres

import (
	"context"
	"fmt"
	"upline/domain"

	"gorm.io/gorm"
)

type TransactionRepository struct {
	DB *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{
		DB: db,
	}
}

// CreateWithPromotion records the ledger entry and promotes the user to
// PAID_USER as one all-or-nothing unit. A failure at any point leaves neither
// the ledger row nor the role change behind.
func (r *TransactionRepository) CreateWithPromotion(ctx context.Context, txn *domain.Transaction) (domain.User, error) {
	var user domain.User

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var duplicates int64
		if err := tx.Model(&domain.Transaction{}).
			Where("transaction_id = ?", txn.TransactionID).
			Count(&duplicates).Error; err != nil {
			return err
		}
		if duplicates > 0 {
			return fmt.Errorf("transaction %s already recorded: %w", txn.TransactionID, domain.ErrBadRequest)
		}

		if err := tx.Create(txn).Error; err != nil {
			return err
		}

		result := tx.Model(&domain.User{}).
			Where("id = ?", txn.UserID).
			Update("role", domain.RolePaidUser)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("user %d: %w", txn.UserID, domain.ErrNotFound)
		}

		return tx.First(&user, txn.UserID).Error
	})
	if err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (r *TransactionRepository) FindByUser(ctx context.Context, userID uint) ([]domain.Transaction, error) {
	var transactions []domain.Transaction

	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	return transactions, nil
}
