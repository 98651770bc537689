package referral

import (
	"context"
	"fmt"
	"time"
	"upline/domain"
	"upline/pkg/logger"
)

type UserRepository interface {
	FindByReferrer(ctx context.Context, referrerID uint) ([]domain.User, error)
	FindByReferrers(ctx context.Context, referrerIDs []uint) ([]domain.User, error)
}

type StatsCache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

const statsCacheTTL = 5 * time.Minute

type ReferralService struct {
	userRepo UserRepository
	cache    StatsCache
}

func NewReferralService(userRepo UserRepository, cache StatsCache) *ReferralService {
	return &ReferralService{
		userRepo: userRepo,
		cache:    cache,
	}
}

// DirectMembers lists the users the given user recruited directly.
func (s *ReferralService) DirectMembers(ctx context.Context, userID uint) ([]domain.DownlineMember, error) {
	direct, err := s.userRepo.FindByReferrer(ctx, userID)
	if err != nil {
		logger.Error("Failed to list direct members", err)
		return nil, err
	}

	return toMembers(direct, 1), nil
}

// Downline lists the direct members and their direct members. The read is two
// fixed queries deep, so a referral chain that loops back cannot spin it.
func (s *ReferralService) Downline(ctx context.Context, userID uint) ([]domain.DownlineMember, error) {
	direct, err := s.userRepo.FindByReferrer(ctx, userID)
	if err != nil {
		logger.Error("Failed to list downline", err)
		return nil, err
	}

	directIDs := make([]uint, 0, len(direct))
	for _, u := range direct {
		directIDs = append(directIDs, u.ID)
	}

	second, err := s.userRepo.FindByReferrers(ctx, directIDs)
	if err != nil {
		logger.Error("Failed to list downline", err)
		return nil, err
	}

	members := toMembers(direct, 1)
	members = append(members, toMembers(second, 2)...)

	return members, nil
}

// Stats aggregates the downline counts, cached per user for a few minutes.
func (s *ReferralService) Stats(ctx context.Context, userID uint) (domain.ReferralStats, error) {
	key := fmt.Sprintf("referral:stats:%d", userID)

	var stats domain.ReferralStats
	if s.cache != nil {
		found, err := s.cache.Get(ctx, key, &stats)
		if err != nil {
			logger.Warn("Referral stats cache read failed", err)
		} else if found {
			return stats, nil
		}
	}

	members, err := s.Downline(ctx, userID)
	if err != nil {
		return domain.ReferralStats{}, err
	}

	for _, m := range members {
		if m.Level == 1 {
			stats.DirectCount++
		}
		stats.DownlineCount++
		if m.Role == domain.RolePaidUser {
			stats.PaidCount++
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, stats, statsCacheTTL); err != nil {
			logger.Warn("Referral stats cache write failed", err)
		}
	}

	return stats, nil
}

func toMembers(users []domain.User, level int) []domain.DownlineMember {
	members := make([]domain.DownlineMember, 0, len(users))
	for _, u := range users {
		members = append(members, domain.DownlineMember{
			ID:        u.ID,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
			Role:      u.Role,
			Level:     level,
			JoinedAt:  u.CreatedAt,
		})
	}

	return members
}
