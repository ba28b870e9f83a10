package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoomStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from RoomStatus
		to   RoomStatus
		want bool
	}{
		{name: "lobby to live", from: RoomStatusLobby, to: RoomStatusLive, want: true},
		{name: "live to ended", from: RoomStatusLive, to: RoomStatusEnded, want: true},
		{name: "lobby to ended", from: RoomStatusLobby, to: RoomStatusEnded, want: true},
		{name: "same status", from: RoomStatusLive, to: RoomStatusLive, want: true},
		{name: "live back to lobby", from: RoomStatusLive, to: RoomStatusLobby, want: false},
		{name: "ended back to live", from: RoomStatusEnded, to: RoomStatusLive, want: false},
		{name: "unknown", from: RoomStatus("closed"), to: RoomStatusLive, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestQuestionProgress_MarkAnsweredIsIdempotent(t *testing.T) {
	progress := &QuestionProgress{QuestionID: "q1"}

	require.True(t, progress.MarkAnswered("p1"))
	require.False(t, progress.MarkAnswered("p1"))
	require.True(t, progress.HasAnswered("p1"))
	require.Len(t, progress.AnsweredBy, 1)
}

func TestQuestion_PublicWithholdsAnswer(t *testing.T) {
	q := &Question{
		PublicQuestion: PublicQuestion{
			ID:      "q1",
			Text:    "Capital of France?",
			Options: []Option{{ID: "a", Text: "Berlin"}, {ID: "b", Text: "Paris"}},
		},
		CorrectOptionID: "b",
	}

	pub := q.Public()
	pub.Options[0].Text = "changed"

	require.Equal(t, "Berlin", q.Options[0].Text)
	require.True(t, q.IsCorrect(" B "))
	require.False(t, q.IsCorrect("a"))
}
