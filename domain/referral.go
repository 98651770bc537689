package domain

import "time"

// DownlineMember is the read model for downline listings; level 1 is a direct
// member, level 2 a member recruited by a direct member.
type DownlineMember struct {
	ID        uint      `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Level     int       `json:"level"`
	JoinedAt  time.Time `json:"joinedAt"`
}

type ReferralStats struct {
	DirectCount   int64 `json:"directCount"`
	DownlineCount int64 `json:"downlineCount"`
	PaidCount     int64 `json:"paidCount"`
}
