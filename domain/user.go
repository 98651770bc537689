package domain

import (
	"time"

	"gorm.io/gorm"
)

// Account lifecycle roles. The role is the sole gating signal of the page
// filter and only ever moves forward in the happy path.
const (
	RoleSetupPending   = "SETUP_PENDING"
	RolePaymentPending = "PAYMENT_PENDING"
	RolePaidUser       = "PAID_USER"
	RoleAdmin          = "ADMIN"
)

type User struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	FirstName  string `gorm:"column:first_name;not null" json:"firstName"`
	LastName   string `gorm:"column:last_name;not null" json:"lastName"`
	Email      string `gorm:"column:email;unique;not null" json:"email"`
	Password   string `gorm:"column:password;not null" json:"-"`
	IsVerified bool   `gorm:"column:is_verified;default:false" json:"isVerified"`
	Role       string `gorm:"column:role;default:SETUP_PENDING" json:"role"`

	// Referral linkage. ReferralCode is the user's own invite code;
	// ReferredByID is a weak reference to the inviter.
	// TODO: reject referral chains that loop back onto the new user once the
	// write path learns the inviter's ancestry.
	ReferralCode string `gorm:"column:referral_code;unique;not null" json:"referralCode"`
	ReferredByID *uint  `gorm:"column:referred_by_id" json:"referredById,omitempty"`
	ReferredBy   *User  `gorm:"foreignKey:ReferredByID" json:"-"`

	// Profile, filled by the account setup step.
	DateOfBirth    string `gorm:"column:date_of_birth" json:"dateOfBirth,omitempty"`
	Gender         string `gorm:"column:gender" json:"gender,omitempty"`
	Address        string `gorm:"column:address" json:"address,omitempty"`
	City           string `gorm:"column:city" json:"city,omitempty"`
	State          string `gorm:"column:state" json:"state,omitempty"`
	ZipCode        string `gorm:"column:zip_code" json:"zipCode,omitempty"`
	EmiratesID     string `gorm:"column:emirates_id" json:"emiratesId,omitempty"`
	PhoneNumber    string `gorm:"column:phone_number" json:"phoneNumber,omitempty"`
	Occupation     string `gorm:"column:occupation" json:"occupation,omitempty"`
	ReferralSource string `gorm:"column:referral_source" json:"referralSource,omitempty"`
	JoinReason     string `gorm:"column:join_reason" json:"joinReason,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}
