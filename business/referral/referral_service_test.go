package referral

import (
	"context"
	"testing"
	"time"
	"upline/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	direct map[uint][]domain.User
	calls  int
}

func (f *fakeUserRepo) FindByReferrer(_ context.Context, referrerID uint) ([]domain.User, error) {
	f.calls++
	return f.direct[referrerID], nil
}

func (f *fakeUserRepo) FindByReferrers(_ context.Context, referrerIDs []uint) ([]domain.User, error) {
	f.calls++
	var users []domain.User
	for _, id := range referrerIDs {
		users = append(users, f.direct[id]...)
	}
	return users, nil
}

type fakeCache struct {
	store map[string]domain.ReferralStats
	hits  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: map[string]domain.ReferralStats{}}
}

func (f *fakeCache) Get(_ context.Context, key string, result any) (bool, error) {
	stats, ok := f.store[key]
	if !ok {
		return false, nil
	}
	f.hits++
	*result.(*domain.ReferralStats) = stats
	return true, nil
}

func (f *fakeCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.store[key] = value.(domain.ReferralStats)
	return nil
}

func sampleNetwork() *fakeUserRepo {
	return &fakeUserRepo{direct: map[uint][]domain.User{
		1: {
			{ID: 2, FirstName: "Omar", Role: domain.RolePaidUser},
			{ID: 3, FirstName: "Lina", Role: domain.RolePaymentPending},
		},
		2: {
			{ID: 4, FirstName: "Sami", Role: domain.RolePaidUser},
		},
	}}
}

func TestDirectMembers(t *testing.T) {
	svc := NewReferralService(sampleNetwork(), nil)

	members, err := svc.DirectMembers(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, 1, members[0].Level)
	assert.Equal(t, 1, members[1].Level)
}

func TestDownline_TwoLevels(t *testing.T) {
	svc := NewReferralService(sampleNetwork(), nil)

	members, err := svc.Downline(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, members, 3)

	levels := map[uint]int{}
	for _, m := range members {
		levels[m.ID] = m.Level
	}
	assert.Equal(t, 1, levels[2])
	assert.Equal(t, 1, levels[3])
	assert.Equal(t, 2, levels[4])
}

func TestStats(t *testing.T) {
	svc := NewReferralService(sampleNetwork(), nil)

	stats, err := svc.Stats(context.Background(), 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.DirectCount)
	assert.EqualValues(t, 3, stats.DownlineCount)
	assert.EqualValues(t, 2, stats.PaidCount)
}

func TestStats_CacheHit(t *testing.T) {
	repo := sampleNetwork()
	cache := newFakeCache()
	svc := NewReferralService(repo, cache)
	ctx := context.Background()

	first, err := svc.Stats(ctx, 1)
	require.NoError(t, err)
	callsAfterFirst := repo.calls

	second, err := svc.Stats(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, callsAfterFirst, repo.calls, "cache hit must not touch the repository")
}
