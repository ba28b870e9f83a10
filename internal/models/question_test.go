package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPublicQuestion_MarshalsTimeLimitInMilliseconds(t *testing.T) {
	q := &Question{
		PublicQuestion: PublicQuestion{
			ID:        "q1",
			GameID:    "game-1",
			Text:      "Capital of France?",
			Options:   []Option{{ID: "a", Text: "Paris"}},
			TimeLimit: 20 * time.Second,
		},
		CorrectOptionID: "a",
	}

	data, err := json.Marshal(q.Public())
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, float64(20000), got["timeLimitMs"])
	require.Equal(t, "q1", got["id"])
	require.NotContains(t, got, "timeLimit")
	require.NotContains(t, got, "correctOptionId")

	// The full question must not leak its answer key either
	data, err = json.Marshal(q)
	require.NoError(t, err)
	require.NotContains(t, string(data), "correctOption")
}

func TestPlayer_ConnectionIDStaysPrivate(t *testing.T) {
	data, err := json.Marshal(&Player{ID: "alice", ConnectionID: "conn-1", Online: true})
	require.NoError(t, err)
	require.NotContains(t, string(data), "conn-1")
	require.Contains(t, string(data), `"online":true`)
}
