package room

import (
	"context"
	"testing"

	"github.com/KirkDiggler/quizroom/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startActor(t *testing.T) *roomActor {
	a := newRoomActor(&models.Room{ID: "room-1", CurrentQuestionIndex: -1})
	go a.run()
	t.Cleanup(a.stop)
	return a
}

func TestRoomActorDo_CancelledBeforeRunSkipsCommand(t *testing.T) {
	a := startActor(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	err := a.do(ctx, func(st *roomState) error {
		ran = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)

	// A follow-up command observes the state after the skipped one
	require.NoError(t, a.do(context.Background(), func(st *roomState) error { return nil }))
	assert.False(t, ran)
}

func TestRoomActorDo_CancelledWhileRunningReportsOutcome(t *testing.T) {
	a := startActor(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ran := false
	err := a.do(ctx, func(st *roomState) error {
		cancel()
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestRoomActorDo_StoppedActor(t *testing.T) {
	a := startActor(t)
	a.stop()

	err := a.do(context.Background(), func(st *roomState) error { return nil })
	assert.ErrorIs(t, err, ErrRoomClosed)
}
