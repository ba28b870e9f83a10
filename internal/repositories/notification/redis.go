package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/KirkDiggler/quizroom/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	notificationKeyPrefix = "notification:"
	userIndexKeyPrefix    = "user_notifications:"
	userSeqKeyPrefix      = "user_notification_seq:"

	// DefaultListLimit is the page size when none is given
	DefaultListLimit = 50

	// MaxListLimit bounds a single page
	MaxListLimit = 200
)

// ErrNotificationNotFound is returned when a notification is not found
var ErrNotificationNotFound = errors.New("notification not found")

// Config holds configuration for the Redis notification repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed notification repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

func notificationKey(id string) string {
	return notificationKeyPrefix + id
}

func userIndexKey(userID string) string {
	return userIndexKeyPrefix + userID
}

func userSeqKey(userID string) string {
	return userSeqKeyPrefix + userID
}

// AddNotification stores the notification and indexes it by sequence
func (r *redisRepository) AddNotification(ctx context.Context, input *AddNotificationInput) (*models.Notification, error) {
	if input == nil || input.Notification == nil {
		return nil, errors.New("input and notification cannot be nil")
	}

	n := *input.Notification
	if n.ID == "" {
		return nil, errors.New("notification ID cannot be empty")
	}
	if n.ToUserID == "" {
		return nil, errors.New("recipient cannot be empty")
	}

	seq, err := r.client.Incr(ctx, userSeqKey(n.ToUserID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate notification sequence: %w", err)
	}
	n.Seq = seq

	notificationJSON, err := json.Marshal(&n)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notification: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, notificationKey(n.ID), notificationJSON, 0)
	pipe.ZAdd(ctx, userIndexKey(n.ToUserID), redis.Z{
		Score:  float64(seq),
		Member: n.ID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to add notification: %w", err)
	}

	return &n, nil
}

// ListNotifications pages through a user's notifications by sequence
func (r *redisRepository) ListNotifications(ctx context.Context, input *ListNotificationsInput) (*ListNotificationsOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.New("input and user ID cannot be empty")
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	ids, err := r.client.ZRangeByScore(ctx, userIndexKey(input.UserID), &redis.ZRangeBy{
		Min:   "(" + strconv.FormatInt(input.AfterSeq, 10),
		Max:   "+inf",
		Count: int64(limit),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get notification IDs: %w", err)
	}

	out := &ListNotificationsOutput{
		Notifications: []*models.Notification{},
		LastSeq:       input.AfterSeq,
	}
	if len(ids) == 0 {
		return out, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, notificationKey(id))
	}

	// redis.Nil on a single GET surfaces as a pipeline error; inspect each command instead
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}

	for i, cmd := range cmds {
		notificationJSON, err := cmd.Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, fmt.Errorf("failed to get notification %s: %w", ids[i], err)
		}

		var n models.Notification
		if err := json.Unmarshal([]byte(notificationJSON), &n); err != nil {
			return nil, fmt.Errorf("failed to unmarshal notification %s: %w", ids[i], err)
		}

		out.Notifications = append(out.Notifications, &n)
		if n.Seq > out.LastSeq {
			out.LastSeq = n.Seq
		}
	}

	return out, nil
}

// MarkRead flags a notification as read
func (r *redisRepository) MarkRead(ctx context.Context, input *MarkReadInput) error {
	if input == nil || input.UserID == "" || input.NotificationID == "" {
		return errors.New("input, user ID and notification ID cannot be empty")
	}

	notificationJSON, err := r.client.Get(ctx, notificationKey(input.NotificationID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to get notification: %w", err)
	}

	var n models.Notification
	if err := json.Unmarshal([]byte(notificationJSON), &n); err != nil {
		return fmt.Errorf("failed to unmarshal notification: %w", err)
	}

	// Another user's notification is indistinguishable from a missing one
	if n.ToUserID != input.UserID {
		return ErrNotificationNotFound
	}
	if n.Read {
		return nil
	}

	n.Read = true
	updated, err := json.Marshal(&n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	if err := r.client.Set(ctx, notificationKey(n.ID), updated, 0).Err(); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	return nil
}
