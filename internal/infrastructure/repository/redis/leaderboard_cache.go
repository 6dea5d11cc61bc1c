package redis

import (
	"context"
	"math/rand/v2"
	"strconv"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"

	"github.com/riskibarqy/castaway-league/internal/domain/scoring"
)

// setIfGeneration writes KEYS[1] only while KEYS[2] still holds ARGV[1].
// A missing generation key counts as 0.
var setIfGeneration = redis.NewScript(`
local gen = redis.call('GET', KEYS[2]) or '0'
if gen ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

// LeaderboardCache stores ranked standings as one JSON value per
// league-season, next to a generation counter:
//
//	leaderboard:{leagueSeasonID}      [...standings]
//	leaderboard:{leagueSeasonID}:gen  n
//
// Both keys share a hash tag so the conditional write runs on one slot.
type LeaderboardCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewLeaderboardCache(client redis.Cmdable, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{client: client, ttl: ttl}
}

func (c *LeaderboardCache) Get(ctx context.Context, leagueSeasonID string) (scoring.LeaderboardRead, error) {
	valueKey, genKey := leaderboardKeys(leagueSeasonID)
	values, err := c.client.MGet(ctx, valueKey, genKey).Result()
	if err != nil {
		return scoring.LeaderboardRead{}, errors.Wrap(err, "get cached leaderboard")
	}

	generation, err := parseGeneration(values[1])
	if err != nil {
		return scoring.LeaderboardRead{}, err
	}
	read := scoring.LeaderboardRead{Generation: generation}

	raw, ok := values[0].(string)
	if !ok {
		return read, nil
	}
	var standings []scoring.Standing
	if err := sonic.UnmarshalString(raw, &standings); err != nil {
		// A value we cannot decode is treated as a miss and dropped.
		_ = c.client.Del(ctx, valueKey).Err()
		return read, nil
	}
	read.Standings = standings
	read.Hit = true
	return read, nil
}

func (c *LeaderboardCache) Set(ctx context.Context, leagueSeasonID string, generation int64, standings []scoring.Standing) (bool, error) {
	raw, err := sonic.Marshal(standings)
	if err != nil {
		return false, errors.Wrap(err, "encode leaderboard")
	}

	valueKey, genKey := leaderboardKeys(leagueSeasonID)
	written, err := setIfGeneration.Run(ctx, c.client,
		[]string{valueKey, genKey},
		strconv.FormatInt(generation, 10), raw, c.ttlWithJitter().Milliseconds(),
	).Int64()
	if err != nil {
		return false, errors.Wrap(err, "set cached leaderboard")
	}
	return written == 1, nil
}

// Invalidate drops the cached value and advances the generation in one
// transaction.
func (c *LeaderboardCache) Invalidate(ctx context.Context, leagueSeasonID string) error {
	valueKey, genKey := leaderboardKeys(leagueSeasonID)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Del(ctx, valueKey)
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "invalidate cached leaderboard")
	}
	return nil
}

func leaderboardKeys(leagueSeasonID string) (string, string) {
	base := "leaderboard:{" + leagueSeasonID + "}"
	return base, base + ":gen"
}

func parseGeneration(v any) (int64, error) {
	raw, ok := v.(string)
	if !ok {
		return 0, nil
	}
	generation, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parse leaderboard generation %q", raw)
	}
	return generation, nil
}

func (c *LeaderboardCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(rand.Int64N(jitterMax+1))
}
