package messaging

import (
	"context"
	"testing"

	"github.com/KirkDiggler/quizroom/internal/common/apperr"
	"github.com/KirkDiggler/quizroom/internal/models"
	"github.com/stretchr/testify/suite"
)

type MessagingServiceTestSuite struct {
	suite.Suite
	service Service
	ctx     context.Context
}

func (s *MessagingServiceTestSuite) SetupTest() {
	svc, err := NewService(&ServiceConfig{Seed: 42})
	s.Require().NoError(err)
	s.service = svc
	s.ctx = context.Background()
}

func TestMessagingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MessagingServiceTestSuite))
}

func (s *MessagingServiceTestSuite) TestPresenceMessages_MentionPlayer() {
	for _, change := range []PresenceChange{PresenceJoined, PresenceReturned, PresenceLeft} {
		out, err := s.service.GetPresenceMessage(s.ctx, &GetPresenceMessageInput{
			PlayerName: "Alice",
			Change:     change,
		})
		s.Require().NoError(err)
		s.Contains(out.Message, "Alice", "change %s", change)
		s.Equal(ToneFunny, out.Tone)
	}
}

func (s *MessagingServiceTestSuite) TestPresenceMessage_NeutralIsStable() {
	out, err := s.service.GetPresenceMessage(s.ctx, &GetPresenceMessageInput{
		PlayerName:    "Bob",
		Change:        PresenceLeft,
		PreferredTone: ToneNeutral,
	})
	s.Require().NoError(err)
	s.Equal("Bob left the room.", out.Message)
}

func (s *MessagingServiceTestSuite) TestPresenceMessage_UnknownChange() {
	_, err := s.service.GetPresenceMessage(s.ctx, &GetPresenceMessageInput{
		PlayerName: "Bob",
		Change:     "teleported",
	})
	s.Error(err)
}

func (s *MessagingServiceTestSuite) TestGameStatusMessage_Ended() {
	out, err := s.service.GetGameStatusMessage(s.ctx, &GetGameStatusMessageInput{
		Status:        models.RoomStatusEnded,
		WinnerName:    "Alice",
		QuestionCount: 3,
	})
	s.Require().NoError(err)
	s.Equal("Game over after 3 questions. Alice takes the crown!", out.Message)
}

func (s *MessagingServiceTestSuite) TestGameStatusMessage_Live() {
	out, err := s.service.GetGameStatusMessage(s.ctx, &GetGameStatusMessageInput{
		Status: models.RoomStatusLive,
	})
	s.Require().NoError(err)
	s.NotEmpty(out.Message)
}

func (s *MessagingServiceTestSuite) TestErrorMessage_ReasonWinsOverKind() {
	out, err := s.service.GetErrorMessage(s.ctx, &GetErrorMessageInput{
		Kind:   apperr.KindState,
		Reason: "not_host",
	})
	s.Require().NoError(err)
	s.Equal("Only the host can do that.", out.Message)

	out, err = s.service.GetErrorMessage(s.ctx, &GetErrorMessageInput{
		Kind: apperr.KindNotFound,
	})
	s.Require().NoError(err)
	s.Equal("We couldn't find that.", out.Message)
}

func (s *MessagingServiceTestSuite) TestErrorMessage_UnknownReasonFallsBackToKind() {
	out, err := s.service.GetErrorMessage(s.ctx, &GetErrorMessageInput{
		Kind:   apperr.KindState,
		Reason: "too_quick",
	})
	s.Require().NoError(err)
	s.Equal("You can't do that right now.", out.Message)
}
