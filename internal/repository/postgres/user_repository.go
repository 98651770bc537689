package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"
	"upline/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		DB: db,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.DB.WithContext(ctx).Create(&user).Error; err != nil {
		return err
	}

	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	var user domain.User

	err := r.DB.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
		}
		return domain.User{}, err
	}

	return user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	var user domain.User

	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
		}
		return domain.User{}, err
	}

	return user, nil
}

func (r *UserRepository) FindByReferralCode(ctx context.Context, code string) (domain.User, error) {
	var user domain.User

	err := r.DB.WithContext(ctx).Where("referral_code = ?", code).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, fmt.Errorf("referral code %s: %w", code, domain.ErrNotFound)
		}
		return domain.User{}, err
	}

	return user, nil
}

// FindByReferrer lists the direct members of the given user.
func (r *UserRepository) FindByReferrer(ctx context.Context, referrerID uint) ([]domain.User, error) {
	var users []domain.User

	err := r.DB.WithContext(ctx).
		Where("referred_by_id = ?", referrerID).
		Order("created_at ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	return users, nil
}

// FindByReferrers lists users whose inviter is any of the given ids. Used for
// the second downline level; depth stays fixed so referral loops cannot spin.
func (r *UserRepository) FindByReferrers(ctx context.Context, referrerIDs []uint) ([]domain.User, error) {
	if len(referrerIDs) == 0 {
		return nil, nil
	}

	var users []domain.User

	err := r.DB.WithContext(ctx).
		Where("referred_by_id IN ?", referrerIDs).
		Order("created_at ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	return users, nil
}

// UpdateProfile stores the account-setup fields and the role transition in one
// update.
func (r *UserRepository) UpdateProfile(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now()

	result := r.DB.WithContext(ctx).Model(&domain.User{}).Where("id = ?", user.ID).
		Select("date_of_birth", "gender", "address", "city", "state", "zip_code",
			"emirates_id", "phone_number", "occupation", "referral_source",
			"join_reason", "role", "updated_at").
		Updates(user)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("user %d: %w", user.ID, domain.ErrNotFound)
	}

	return nil
}

func (r *UserRepository) UpdateEmailVerification(ctx context.Context, id uint, isVerified bool) error {
	result := r.DB.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("is_verified", isVerified)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}

	return nil
}
