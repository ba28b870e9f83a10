package room

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/KirkDiggler/quizroom/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	roomKeyPrefix   = "room:"
	inviteKeyPrefix = "invite:"
	activeRoomsKey  = "active_rooms"
)

// ErrRoomNotFound is returned when a room is not found
var ErrRoomNotFound = errors.New("room not found")

// Config holds configuration for the Redis room repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed room repository
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

func roomKey(roomID string) string {
	return roomKeyPrefix + roomID
}

func inviteKey(code string) string {
	return inviteKeyPrefix + strings.ToUpper(code)
}

// SaveRoom persists a room to Redis
func (r *redisRepository) SaveRoom(ctx context.Context, input *SaveRoomInput) error {
	if input == nil || input.Room == nil {
		return errors.New("input and room cannot be nil")
	}
	if input.Room.ID == "" {
		return errors.New("room ID cannot be empty")
	}

	roomJSON, err := json.Marshal(input.Room)
	if err != nil {
		return fmt.Errorf("failed to marshal room: %w", err)
	}

	pipe := r.client.TxPipeline()

	pipe.Set(ctx, roomKey(input.Room.ID), roomJSON, input.TTL)

	// Keep the invite index alive for as long as the room record
	if input.Room.InviteCode != "" {
		pipe.Set(ctx, inviteKey(input.Room.InviteCode), input.Room.ID, input.TTL)
	}

	if input.Room.Status.IsActive() {
		pipe.SAdd(ctx, activeRoomsKey, input.Room.ID)
	} else {
		pipe.SRem(ctx, activeRoomsKey, input.Room.ID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save room: %w", err)
	}

	return nil
}

// GetRoom retrieves a room by ID from Redis
func (r *redisRepository) GetRoom(ctx context.Context, input *GetRoomInput) (*models.Room, error) {
	if input == nil || input.RoomID == "" {
		return nil, errors.New("input and room ID cannot be empty")
	}

	roomJSON, err := r.client.Get(ctx, roomKey(input.RoomID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	var room models.Room
	if err := json.Unmarshal([]byte(roomJSON), &room); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room: %w", err)
	}

	return &room, nil
}

// GetRoomByInviteCode resolves the invite index and loads the room
func (r *redisRepository) GetRoomByInviteCode(ctx context.Context, input *GetRoomByInviteCodeInput) (*models.Room, error) {
	if input == nil || input.InviteCode == "" {
		return nil, errors.New("input and invite code cannot be empty")
	}

	roomID, err := r.client.Get(ctx, inviteKey(input.InviteCode)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room ID for invite code: %w", err)
	}

	return r.GetRoom(ctx, &GetRoomInput{
		RoomID: roomID,
	})
}

// ClaimInviteCode reserves the code with SETNX so two rooms never share one
func (r *redisRepository) ClaimInviteCode(ctx context.Context, input *ClaimInviteCodeInput) (*ClaimInviteCodeOutput, error) {
	if input == nil || input.InviteCode == "" || input.RoomID == "" {
		return nil, errors.New("input, invite code and room ID cannot be empty")
	}

	claimed, err := r.client.SetNX(ctx, inviteKey(input.InviteCode), input.RoomID, input.TTL).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to claim invite code: %w", err)
	}

	return &ClaimInviteCodeOutput{
		Claimed: claimed,
	}, nil
}

// DeleteRoom removes a room from Redis
func (r *redisRepository) DeleteRoom(ctx context.Context, input *DeleteRoomInput) error {
	if input == nil || input.RoomID == "" {
		return errors.New("input and room ID cannot be empty")
	}

	room, err := r.GetRoom(ctx, &GetRoomInput{
		RoomID: input.RoomID,
	})
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, roomKey(input.RoomID))
	if room.InviteCode != "" {
		pipe.Del(ctx, inviteKey(room.InviteCode))
	}
	pipe.SRem(ctx, activeRoomsKey, input.RoomID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	return nil
}

// GetActiveRooms retrieves all active rooms from Redis
func (r *redisRepository) GetActiveRooms(ctx context.Context, input *GetActiveRoomsInput) (*GetActiveRoomsOutput, error) {
	roomIDs, err := r.client.SMembers(ctx, activeRoomsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get active room IDs: %w", err)
	}

	rooms := make([]*models.Room, 0, len(roomIDs))
	for _, roomID := range roomIDs {
		room, err := r.GetRoom(ctx, &GetRoomInput{
			RoomID: roomID,
		})
		if err != nil {
			// An expired record leaves a dangling set member; prune it
			if errors.Is(err, ErrRoomNotFound) {
				r.client.SRem(ctx, activeRoomsKey, roomID)
				continue
			}
			return nil, err
		}
		rooms = append(rooms, room)
	}

	return &GetActiveRoomsOutput{
		Rooms: rooms,
	}, nil
}
