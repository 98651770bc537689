package membership

import (
	"context"
	"fmt"
	"strconv"
	"upline/domain"
	"upline/internal/repository/paypal"
	"upline/pkg/logger"
	"upline/pkg/utils"
)

// TransactionRepository contract interface. CreateWithPromotion must be
// atomic: either the ledger entry and the promotion both land, or neither.
type TransactionRepository interface {
	CreateWithPromotion(ctx context.Context, txn *domain.Transaction) (domain.User, error)
	FindByUser(ctx context.Context, userID uint) ([]domain.Transaction, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type MembershipService struct {
	txnRepo    TransactionRepository
	userRepo   UserRepository
	paypalRepo *paypal.PayPalRepository
}

func NewMembershipService(txnRepo TransactionRepository, userRepo UserRepository, paypalRepo *paypal.PayPalRepository) *MembershipService {
	return &MembershipService{
		txnRepo:    txnRepo,
		userRepo:   userRepo,
		paypalRepo: paypalRepo,
	}
}

// ApprovePayment records the membership payment and promotes the account to
// PAID_USER in one storage transaction, then issues a fresh credential
// carrying the new role.
func (s *MembershipService) ApprovePayment(ctx context.Context, userID uint, transactionID string, amount float64, currency string) (string, domain.User, error) {
	if transactionID == "" || currency == "" {
		return "", domain.User{}, fmt.Errorf("missing transaction details: %w", domain.ErrBadRequest)
	}
	if amount <= 0 {
		return "", domain.User{}, fmt.Errorf("invalid amount: %w", domain.ErrBadRequest)
	}

	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return "", domain.User{}, err
	}

	// Processor check runs only when credentials are configured; without them
	// the approval trusts the client-side capture, as the payment page does.
	if s.paypalRepo != nil {
		if err := s.verifyOrder(ctx, transactionID, amount, currency); err != nil {
			return "", domain.User{}, err
		}
	}

	updatedUser, err := s.txnRepo.CreateWithPromotion(ctx, &domain.Transaction{
		UserID:        userID,
		TransactionID: transactionID,
		Amount:        amount,
		Currency:      currency,
		Status:        domain.TransactionStatusCompleted,
	})
	if err != nil {
		logger.Error("Failed to record payment", err)
		return "", domain.User{}, err
	}

	token, err := utils.GenerateJWT(updatedUser.ID, updatedUser.Email, updatedUser.Role, utils.DefaultTokenTTL)
	if err != nil {
		logger.Error("Failed to generate token", err)
		return "", domain.User{}, domain.ErrInternal
	}

	updatedUser.Password = ""
	return token, updatedUser, nil
}

func (s *MembershipService) verifyOrder(ctx context.Context, orderID string, amount float64, currency string) error {
	order, err := s.paypalRepo.GetOrder(ctx, orderID)
	if err != nil {
		logger.Error("Failed to look up paypal order", err)
		return fmt.Errorf("could not verify payment: %w", domain.ErrBadRequest)
	}

	if order.Status != domain.PayPalOrderCompleted {
		return fmt.Errorf("paypal order not completed: %w", domain.ErrBadRequest)
	}

	if len(order.PurchaseUnits) == 0 {
		return fmt.Errorf("paypal order has no purchase units: %w", domain.ErrBadRequest)
	}

	unit := order.PurchaseUnits[0]
	paid, err := strconv.ParseFloat(unit.Amount.Value, 64)
	if err != nil || paid != amount || unit.Amount.CurrencyCode != currency {
		return fmt.Errorf("paypal order amount mismatch: %w", domain.ErrBadRequest)
	}

	return nil
}

func (s *MembershipService) ListTransactions(ctx context.Context, userID uint) ([]domain.Transaction, error) {
	transactions, err := s.txnRepo.FindByUser(ctx, userID)
	if err != nil {
		logger.Error("Failed to list transactions", err)
		return nil, err
	}

	return transactions, nil
}
