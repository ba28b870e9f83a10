package membership

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	// Key prefix for Redis
	activeRoomKeyPrefix = "participant_room:"
)

// ErrNoActiveRoom is returned when a participant holds no room
var ErrNoActiveRoom = errors.New("participant has no active room")

// claimScript sets the key when absent and returns the holder plus whether it was set.
var claimScript = redis.NewScript(`
local current = redis.call("GET", KEYS[1])
if current then
	if current == ARGV[1] and tonumber(ARGV[2]) > 0 then
		redis.call("PEXPIRE", KEYS[1], ARGV[2])
	end
	return {current, 0}
end
if tonumber(ARGV[2]) > 0 then
	redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
else
	redis.call("SET", KEYS[1], ARGV[1])
end
return {ARGV[1], 1}
`)

// releaseScript deletes the key only while it still names the given room.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Config holds configuration for the Redis membership repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed membership repository
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

func activeRoomKey(participantID string) string {
	return activeRoomKeyPrefix + participantID
}

// ClaimActiveRoom atomically claims the participant for a room
func (r *redisRepository) ClaimActiveRoom(ctx context.Context, input *ClaimActiveRoomInput) (*ClaimActiveRoomOutput, error) {
	if input == nil || input.ParticipantID == "" || input.RoomID == "" {
		return nil, errors.New("input, participant ID and room ID cannot be empty")
	}

	res, err := claimScript.Run(ctx, r.client,
		[]string{activeRoomKey(input.ParticipantID)},
		input.RoomID, input.TTL.Milliseconds(),
	).Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to claim active room: %w", err)
	}
	if len(res) != 2 {
		return nil, fmt.Errorf("unexpected claim reply length %d", len(res))
	}

	heldBy, _ := res[0].(string)
	set, _ := res[1].(int64)

	return &ClaimActiveRoomOutput{
		Claimed: heldBy == input.RoomID,
		HeldBy:  heldBy,
		Fresh:   set == 1,
	}, nil
}

// ReleaseActiveRoom clears the claim with compare-and-delete
func (r *redisRepository) ReleaseActiveRoom(ctx context.Context, input *ReleaseActiveRoomInput) (*ReleaseActiveRoomOutput, error) {
	if input == nil || input.ParticipantID == "" || input.RoomID == "" {
		return nil, errors.New("input, participant ID and room ID cannot be empty")
	}

	deleted, err := releaseScript.Run(ctx, r.client,
		[]string{activeRoomKey(input.ParticipantID)},
		input.RoomID,
	).Int()
	if err != nil {
		return nil, fmt.Errorf("failed to release active room: %w", err)
	}

	return &ReleaseActiveRoomOutput{
		Released: deleted == 1,
	}, nil
}

// GetActiveRoom retrieves the participant's current room
func (r *redisRepository) GetActiveRoom(ctx context.Context, input *GetActiveRoomInput) (*GetActiveRoomOutput, error) {
	if input == nil || input.ParticipantID == "" {
		return nil, errors.New("input and participant ID cannot be empty")
	}

	roomID, err := r.client.Get(ctx, activeRoomKey(input.ParticipantID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoActiveRoom
		}
		return nil, fmt.Errorf("failed to get active room: %w", err)
	}

	return &GetActiveRoomOutput{
		RoomID: roomID,
	}, nil
}
