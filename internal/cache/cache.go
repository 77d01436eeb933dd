// Package cache publishes match action history to Redis for the historian.
// Everything here is best-effort: a missing or failing Redis never blocks
// match play.
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Rdb is the shared Redis client. Nil when Redis is not configured.
var Rdb *redis.Client

// InitRedis connects the shared client and verifies the connection.
func InitRedis(ctx context.Context, addr, password string) error {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", addr, err)
	}
	Rdb = client
	logrus.WithField("addr", addr).Info("redis connected")
	return nil
}

// MatchActionRecord is one applied action (or engine-driven transition) in a
// match's history stream.
type MatchActionRecord struct {
	MatchID     uuid.UUID              `json:"matchId"`
	ActionIndex int                    `json:"actionIndex"`
	ActorSeat   int                    `json:"actorSeat"` // 0 for engine/timer-driven entries
	ActionType  string                 `json:"actionType"`
	Payload     map[string]interface{} `json:"payload,omitempty"`
	Timestamp   int64                  `json:"timestamp"`
}

func actionListKey(matchID uuid.UUID) string {
	return "match:actions:" + matchID.String()
}

// PublishMatchAction appends a record to the match's action list.
func PublishMatchAction(ctx context.Context, rec MatchActionRecord) error {
	if Rdb == nil {
		return fmt.Errorf("redis client not initialized")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal action record: %w", err)
	}
	if err := Rdb.RPush(ctx, actionListKey(rec.MatchID), data).Err(); err != nil {
		return fmt.Errorf("rpush action record: %w", err)
	}
	return nil
}

// MatchActionHistory returns the full recorded action list for a match.
func MatchActionHistory(ctx context.Context, matchID uuid.UUID) ([]MatchActionRecord, error) {
	if Rdb == nil {
		return nil, fmt.Errorf("redis client not initialized")
	}
	raw, err := Rdb.LRange(ctx, actionListKey(matchID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange action history: %w", err)
	}
	out := make([]MatchActionRecord, 0, len(raw))
	for _, item := range raw {
		var rec MatchActionRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			logrus.WithError(err).Warn("skipping malformed action record")
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
