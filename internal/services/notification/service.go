package notification

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/KirkDiggler/quizroom/internal/common/apperr"
	"github.com/KirkDiggler/quizroom/internal/common/clock"
	"github.com/KirkDiggler/quizroom/internal/common/uuid"
	"github.com/KirkDiggler/quizroom/internal/models"
	notificationRepo "github.com/KirkDiggler/quizroom/internal/repositories/notification"
)

type service struct {
	repo      notificationRepo.Repository
	publisher SessionPublisher
	clock     clock.Clock
	uuid      uuid.UUID
	log       *slog.Logger
}

// New creates a new notification service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Repository == nil {
		return nil, ErrNilRepository
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}
	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &service{
		repo:      cfg.Repository,
		publisher: cfg.Publisher,
		clock:     cfg.Clock,
		uuid:      cfg.UUIDGenerator,
		log:       logger.With("service", "notification"),
	}, nil
}

// Notify stores first; the push is best effort and never fails the call
func (s *service) Notify(ctx context.Context, input *NotifyInput) (*NotifyOutput, error) {
	if input == nil || input.ToUserID == "" {
		return nil, ErrMissingRecipient
	}

	payload, err := encodePayload(input.Payload)
	if err != nil {
		return nil, apperr.Wrap(ErrInvalidPayload, err)
	}

	stored, err := s.repo.AddNotification(ctx, &notificationRepo.AddNotificationInput{
		Notification: &models.Notification{
			ID:         s.uuid.NewUUID(),
			ToUserID:   input.ToUserID,
			FromUserID: input.FromUserID,
			Payload:    payload,
			CreatedAt:  s.clock.Now(),
		},
	})
	if err != nil {
		return nil, apperr.Wrap(ErrNotificationStoreDown, err)
	}

	delivered := 0
	if s.publisher != nil {
		delivered = s.publisher.SendToUser(input.ToUserID, &models.Event{
			Type:    models.EventNewGameNotification,
			Payload: stored,
		})
	}

	s.log.Debug("notification stored",
		"notification_id", stored.ID,
		"to", stored.ToUserID,
		"seq", stored.Seq,
		"delivered", delivered)

	return &NotifyOutput{
		Notification: stored,
		Delivered:    delivered,
	}, nil
}

// ListNotifications pages through a user's notifications
func (s *service) ListNotifications(ctx context.Context, input *ListNotificationsInput) (*ListNotificationsOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, ErrMissingRecipient
	}
	if input.AfterSeq < 0 || input.Limit < 0 {
		return nil, apperr.Validation("invalid_cursor", "cursor and limit must not be negative")
	}

	out, err := s.repo.ListNotifications(ctx, &notificationRepo.ListNotificationsInput{
		UserID:   input.UserID,
		AfterSeq: input.AfterSeq,
		Limit:    input.Limit,
	})
	if err != nil {
		return nil, apperr.Wrap(ErrNotificationStoreDown, err)
	}

	return &ListNotificationsOutput{
		Notifications: out.Notifications,
		LastSeq:       out.LastSeq,
	}, nil
}

// MarkRead acknowledges one of the caller's notifications
func (s *service) MarkRead(ctx context.Context, input *MarkReadInput) error {
	if input == nil || input.UserID == "" || input.NotificationID == "" {
		return apperr.Validation("invalid_input", "user and notification ID are required")
	}

	err := s.repo.MarkRead(ctx, &notificationRepo.MarkReadInput{
		UserID:         input.UserID,
		NotificationID: input.NotificationID,
	})
	if err != nil {
		if errors.Is(err, notificationRepo.ErrNotificationNotFound) {
			return ErrNotificationNotFound
		}
		return apperr.Wrap(ErrNotificationStoreDown, err)
	}

	return nil
}

func encodePayload(payload any) (json.RawMessage, error) {
	switch p := payload.(type) {
	case nil:
		return json.RawMessage("null"), nil
	case json.RawMessage:
		if !json.Valid(p) {
			return nil, errors.New("raw payload is not valid JSON")
		}
		return p, nil
	default:
		return json.Marshal(p)
	}
}
