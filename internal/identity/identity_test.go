package identity

import (
	"context"
	"testing"
	"time"

	"github.com/KirkDiggler/quizroom/internal/common/apperr"
	"github.com/KirkDiggler/quizroom/internal/common/clock/mocks"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type JWTTestSuite struct {
	suite.Suite
	mockCtrl  *gomock.Controller
	mockClock *mocks.MockClock
	resolver  *JWT
	testTime  time.Time
	ctx       context.Context
}

func (s *JWTTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockClock = mocks.NewMockClock(s.mockCtrl)
	s.testTime = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	s.ctx = context.Background()

	var err error
	s.resolver, err = NewJWT(&Config{
		Secret: []byte("test-secret-test-secret"),
		Issuer: "quizroom",
		Clock:  s.mockClock,
	})
	s.Require().NoError(err)
}

func (s *JWTTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestJWTTestSuite(t *testing.T) {
	suite.Run(t, new(JWTTestSuite))
}

func (s *JWTTestSuite) TestIssueAndResolve() {
	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()

	token, err := s.resolver.Issue(&Identity{ParticipantID: "alice", DisplayName: "Alice"}, time.Hour)
	s.Require().NoError(err)

	id, err := s.resolver.Resolve(s.ctx, "Bearer "+token)
	s.Require().NoError(err)
	s.Equal("alice", id.ParticipantID)
	s.Equal("Alice", id.DisplayName)
}

func (s *JWTTestSuite) TestResolve_DisplayNameFallsBackToID() {
	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()

	token, err := s.resolver.Issue(&Identity{ParticipantID: "bob"}, time.Hour)
	s.Require().NoError(err)

	id, err := s.resolver.Resolve(s.ctx, token)
	s.Require().NoError(err)
	s.Equal("bob", id.DisplayName)
}

func (s *JWTTestSuite) TestResolve_Expired() {
	gomock.InOrder(
		s.mockClock.EXPECT().Now().Return(s.testTime),
		s.mockClock.EXPECT().Now().Return(s.testTime.Add(2*time.Hour)).AnyTimes(),
	)

	token, err := s.resolver.Issue(&Identity{ParticipantID: "alice"}, time.Hour)
	s.Require().NoError(err)

	_, err = s.resolver.Resolve(s.ctx, token)
	s.ErrorIs(err, ErrInvalidToken)
	s.Equal(apperr.KindValidation, apperr.KindOf(err))
}

func (s *JWTTestSuite) TestResolve_WrongSecret() {
	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()

	other, err := NewJWT(&Config{
		Secret: []byte("another-secret-entirely"),
		Issuer: "quizroom",
		Clock:  s.mockClock,
	})
	s.Require().NoError(err)

	token, err := other.Issue(&Identity{ParticipantID: "mallory"}, time.Hour)
	s.Require().NoError(err)

	_, err = s.resolver.Resolve(s.ctx, token)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *JWTTestSuite) TestResolve_Empty() {
	_, err := s.resolver.Resolve(s.ctx, "")
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *JWTTestSuite) TestNewJWT_RequiresSecret() {
	_, err := NewJWT(&Config{})
	s.Error(err)
}
