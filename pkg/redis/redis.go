package redis

import (
	"context"
	"fmt"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"os"
	"strconv"
	"time"
)

const processedEventPrefix = "homefinder:event:"

type IRedis interface {
	// MarkEventProcessed records eventID and reports whether it was seen for
	// the first time within ttl.
	MarkEventProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
	ForgetEvent(ctx context.Context, eventID string) error
}

type redisClient struct {
	client *redis.Client
}

func New() IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client}
}

func (r *redisClient) MarkEventProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	key := processedEventPrefix + eventID
	logrus.Debug(fmt.Sprintf("Marking event %s as processed for %v", eventID, ttl))

	first, err := r.client.SetNX(ctx, key, time.Now().Unix(), ttl).Result()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error marking event %s: %v", eventID, err))
		return false, err
	}

	if !first {
		logrus.Debug(fmt.Sprintf("Event %s already processed", eventID))
	}
	return first, nil
}

// ForgetEvent lets a failed event be retried by the transport.
func (r *redisClient) ForgetEvent(ctx context.Context, eventID string) error {
	if err := r.client.Del(ctx, processedEventPrefix+eventID).Err(); err != nil {
		logrus.Error(fmt.Sprintf("Error forgetting event %s: %v", eventID, err))
		return err
	}
	return nil
}
