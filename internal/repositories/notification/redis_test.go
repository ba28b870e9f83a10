package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/KirkDiggler/quizroom/internal/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr       *miniredis.Miniredis
	client   *redis.Client
	repo     Repository
	ctx      context.Context
	testTime time.Time
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
	s.testTime = time.Date(2025, 4, 5, 10, 0, 0, 0, time.UTC)
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) add(id, to string) *models.Notification {
	n, err := s.repo.AddNotification(s.ctx, &AddNotificationInput{
		Notification: &models.Notification{
			ID:         id,
			ToUserID:   to,
			FromUserID: "host",
			Payload:    json.RawMessage(`{"roomId":"room-1"}`),
			CreatedAt:  s.testTime,
		},
	})
	s.Require().NoError(err)
	return n
}

func (s *RedisRepositoryTestSuite) TestAddNotification_AssignsPerUserSequence() {
	first := s.add("n-1", "alice")
	second := s.add("n-2", "alice")
	other := s.add("n-3", "bob")

	s.Equal(int64(1), first.Seq)
	s.Equal(int64(2), second.Seq)
	s.Equal(int64(1), other.Seq)
}

func (s *RedisRepositoryTestSuite) TestAddNotification_RequiresRecipient() {
	_, err := s.repo.AddNotification(s.ctx, &AddNotificationInput{
		Notification: &models.Notification{ID: "n-1"},
	})
	s.Error(err)
}

func (s *RedisRepositoryTestSuite) TestListNotifications_AfterCursor() {
	for i := 1; i <= 5; i++ {
		s.add(fmt.Sprintf("n-%d", i), "alice")
	}

	out, err := s.repo.ListNotifications(s.ctx, &ListNotificationsInput{
		UserID:   "alice",
		AfterSeq: 2,
		Limit:    2,
	})
	s.Require().NoError(err)
	s.Require().Len(out.Notifications, 2)
	s.Equal("n-3", out.Notifications[0].ID)
	s.Equal("n-4", out.Notifications[1].ID)
	s.Equal(int64(4), out.LastSeq)
	s.JSONEq(`{"roomId":"room-1"}`, string(out.Notifications[0].Payload))

	out, err = s.repo.ListNotifications(s.ctx, &ListNotificationsInput{
		UserID:   "alice",
		AfterSeq: out.LastSeq,
	})
	s.Require().NoError(err)
	s.Require().Len(out.Notifications, 1)
	s.Equal("n-5", out.Notifications[0].ID)
}

func (s *RedisRepositoryTestSuite) TestListNotifications_Empty() {
	out, err := s.repo.ListNotifications(s.ctx, &ListNotificationsInput{UserID: "nobody", AfterSeq: 7})
	s.Require().NoError(err)
	s.Empty(out.Notifications)
	s.Equal(int64(7), out.LastSeq)
}

func (s *RedisRepositoryTestSuite) TestMarkRead() {
	s.add("n-1", "alice")

	s.Require().NoError(s.repo.MarkRead(s.ctx, &MarkReadInput{UserID: "alice", NotificationID: "n-1"}))

	out, err := s.repo.ListNotifications(s.ctx, &ListNotificationsInput{UserID: "alice"})
	s.Require().NoError(err)
	s.Require().Len(out.Notifications, 1)
	s.True(out.Notifications[0].Read)
}

func (s *RedisRepositoryTestSuite) TestMarkRead_WrongUser() {
	s.add("n-1", "alice")

	err := s.repo.MarkRead(s.ctx, &MarkReadInput{UserID: "bob", NotificationID: "n-1"})
	s.ErrorIs(err, ErrNotificationNotFound)
}

func (s *RedisRepositoryTestSuite) TestMarkRead_Missing() {
	err := s.repo.MarkRead(s.ctx, &MarkReadInput{UserID: "alice", NotificationID: "nope"})
	s.ErrorIs(err, ErrNotificationNotFound)
}
