package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2beens/overload/internal/progression"
	"github.com/2beens/overload/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
)

const goalsKeyPrefix = "overload-goals||"

type RedisRepo struct {
	redisClient *redis.Client
}

func NewRedisRepo(redisClient *redis.Client) *RedisRepo {
	return &RedisRepo{
		redisClient: redisClient,
	}
}

func goalsKey(clientID, weekID string) string {
	return goalsKeyPrefix + clientID + "||" + weekID
}

func (r *RedisRepo) Get(ctx context.Context, clientID, weekID string) (_ *progression.WeekGoals, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "redis.goals.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("client_id", clientID))
	span.SetAttributes(attribute.String("week_id", weekID))

	goalsBytes, err := r.redisClient.Get(ctx, goalsKey(clientID, weekID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrGoalsNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var goals progression.WeekGoals
	if err := json.Unmarshal(goalsBytes, &goals); err != nil {
		return nil, fmt.Errorf("unmarshal goals: %w", err)
	}

	return &goals, nil
}

func (r *RedisRepo) Put(ctx context.Context, goals *progression.WeekGoals) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "redis.goals.put")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := validateGoals(goals); err != nil {
		return err
	}
	span.SetAttributes(attribute.String("client_id", goals.ClientID))
	span.SetAttributes(attribute.String("week_id", goals.WeekID))

	goalsBytes, err := json.Marshal(goals)
	if err != nil {
		return fmt.Errorf("marshal goals: %w", err)
	}

	if err := r.redisClient.Set(ctx, goalsKey(goals.ClientID, goals.WeekID), goalsBytes, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}
