package service

import (
	"context"
	"time"

	"sih-portal/pkg/logger"
	"sih-portal/pkg/redis"

	"github.com/google/uuid"
)

// ReleaseFunc releases a guard taken by MembershipGuard
type ReleaseFunc func()

// MembershipGuard serializes writes that must happen at most once per key
type MembershipGuard interface {
	// AcquireJoin guards adding email to teamID. ok is false when another
	// request holds the guard.
	AcquireJoin(ctx context.Context, teamID, email string) (release ReleaseFunc, ok bool)

	// AcquireCreate guards creating a team led by leaderEmail
	AcquireCreate(ctx context.Context, leaderEmail string) (release ReleaseFunc, ok bool)
}

// RedisGuard implements MembershipGuard with SET NX locks. Redis errors
// fail open: the store's unique constraints still reject duplicates.
type RedisGuard struct {
	redis     *redis.Client
	joinTTL   time.Duration
	createTTL time.Duration
	logger    *logger.Logger
}

// NewRedisGuard creates a guard on redisClient. A zero joinTTL uses redis.TTLJoinLock.
func NewRedisGuard(redisClient *redis.Client, joinTTL time.Duration, log *logger.Logger) *RedisGuard {
	if joinTTL <= 0 {
		joinTTL = redis.TTLJoinLock
	}
	return &RedisGuard{
		redis:     redisClient,
		joinTTL:   joinTTL,
		createTTL: redis.TTLTeamCreation,
		logger:    log.Named("membership_guard"),
	}
}

// AcquireJoin implements MembershipGuard
func (g *RedisGuard) AcquireJoin(ctx context.Context, teamID, email string) (ReleaseFunc, bool) {
	return g.acquire(ctx, g.redis.KeyBuilder.KeyJoinLock(teamID, email), g.joinTTL)
}

// AcquireCreate implements MembershipGuard
func (g *RedisGuard) AcquireCreate(ctx context.Context, leaderEmail string) (ReleaseFunc, bool) {
	return g.acquire(ctx, g.redis.KeyBuilder.KeyTeamCreation(leaderEmail), g.createTTL)
}

func (g *RedisGuard) acquire(ctx context.Context, key string, ttl time.Duration) (ReleaseFunc, bool) {
	token := uuid.NewString()

	ok, err := g.redis.SetNX(ctx, key, token, ttl)
	if err != nil {
		g.logger.WithError(err).Warn("Membership guard unavailable, continuing without it")
		return func() {}, true
	}
	if !ok {
		return func() {}, false
	}

	return func() {
		// Release on a fresh context so a cancelled request still frees the key
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if _, err := g.redis.ReleaseIfValue(releaseCtx, key, token); err != nil {
			g.logger.WithError(err).Warn("Failed to release membership guard")
		}
	}, true
}

// NoopGuard always grants the guard. Used when Redis is not configured.
type NoopGuard struct{}

// AcquireJoin implements MembershipGuard
func (NoopGuard) AcquireJoin(context.Context, string, string) (ReleaseFunc, bool) {
	return func() {}, true
}

// AcquireCreate implements MembershipGuard
func (NoopGuard) AcquireCreate(context.Context, string) (ReleaseFunc, bool) {
	return func() {}, true
}
