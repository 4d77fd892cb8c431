package util

import (
	"context"
	"fmt"

	"github.com/healinghands/smart-health-api/config"
)

func actorSessionsKey(role string, actorID uint) string {
	return fmt.Sprintf("actor_sessions:%s:%d", role, actorID)
}

// removeSessionScript removes one token from the per-actor set and deletes
// the set when the removal leaves it empty, in a single round trip.
const removeSessionScript = `
	local removed = redis.call('SREM', KEYS[1], ARGV[1])
	if removed > 0 then
		local count = redis.call('SCARD', KEYS[1])
		if count == 0 then
			redis.call('DEL', KEYS[1])
		end
	end
	return removed
`

// AddSessionToActorSet adds the session token to the per-actor Redis set.
// The set has no TTL and persists until explicitly cleaned up via
// RemoveSessionTokenFromActorSet or InvalidateActorSessions.
func AddSessionToActorSet(role string, actorID uint, token string) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	ctx := context.Background()
	setKey := actorSessionsKey(role, actorID)
	if err := rdb.SAdd(ctx, setKey, token).Err(); err != nil {
		return err
	}
	// Use PERSIST to ensure the set has no TTL and relies on explicit cleanup
	return rdb.Persist(ctx, setKey).Err()
}

// RemoveSessionTokenFromActorSet removes a single session token from the
// per-actor set. If the set becomes empty after removal, it is deleted.
func RemoveSessionTokenFromActorSet(role string, actorID uint, token string) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	ctx := context.Background()
	setKey := actorSessionsKey(role, actorID)
	return rdb.Eval(ctx, removeSessionScript, []string{setKey}, token).Err()
}

// InvalidateActorSessions deletes all session:<token> keys for the given
// actor and removes the per-actor set. Best-effort: it will return an error
// if Redis calls fail, but callers may choose to ignore it.
func InvalidateActorSessions(role string, actorID uint) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	ctx := context.Background()
	setKey := actorSessionsKey(role, actorID)

	tokens, err := rdb.SMembers(ctx, setKey).Result()
	if err != nil {
		return err
	}
	for _, token := range tokens {
		if err := rdb.Del(ctx, fmt.Sprintf("session:%s", token)).Err(); err != nil {
			return err
		}
	}
	return rdb.Del(ctx, setKey).Err()
}
