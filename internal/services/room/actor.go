package room

import (
	"context"
	"sync"

	"github.com/KirkDiggler/quizroom/internal/common/clock"
	"github.com/KirkDiggler/quizroom/internal/models"
)

const commandBuffer = 64

// command is applied to the room state on the actor goroutine
type command func(st *roomState)

// roomActor serializes every mutation of one room
type roomActor struct {
	id       string
	commands chan command
	done     chan struct{}
	stopOnce sync.Once
	state    *roomState
}

// roomState is only touched from the actor goroutine
type roomState struct {
	room *models.Room

	players map[string]*models.Player
	order   []string
	scores  map[string]*models.ScoreEntry

	byClientID map[string]*models.Message
	chatSeq    int64
	noticeSeq  int64

	phase    models.GamePhase
	question *models.Question
	progress *models.QuestionProgress
	answers  []*models.AnswerRecord
	closed   map[string]struct{}
	played   int

	graceTimers    map[string]clock.Timer
	deadlineTimer  clock.Timer
	expiryTimer    clock.Timer
	retentionTimer clock.Timer
}

func newRoomState(room *models.Room) *roomState {
	phase := models.GamePhaseNotStarted
	switch {
	case room.Status == models.RoomStatusEnded:
		phase = models.GamePhaseFinished
	case room.CurrentQuestionIndex >= 0:
		// Reloaded mid-game; the next advance continues after the stored index
		phase = models.GamePhaseQuestionClosed
	}

	return &roomState{
		room:        room,
		players:     make(map[string]*models.Player),
		scores:      make(map[string]*models.ScoreEntry),
		byClientID:  make(map[string]*models.Message),
		phase:       phase,
		closed:      make(map[string]struct{}),
		graceTimers: make(map[string]clock.Timer),
	}
}

func newRoomActor(room *models.Room) *roomActor {
	return &roomActor{
		id:       room.ID,
		commands: make(chan command, commandBuffer),
		done:     make(chan struct{}),
		state:    newRoomState(room),
	}
}

func (a *roomActor) run() {
	for {
		select {
		case cmd := <-a.commands:
			cmd(a.state)
		case <-a.done:
			a.state.stopTimers()
			return
		}
	}
}

func (a *roomActor) stop() {
	a.stopOnce.Do(func() {
		close(a.done)
	})
}

// do runs fn on the actor and waits for its result. Once the command is
// queued the caller always learns whether fn ran: a context cancelled before
// the actor reaches the command skips fn, and one cancelled while fn runs
// does not hide its outcome.
func (a *roomActor) do(ctx context.Context, fn func(st *roomState) error) error {
	result := make(chan error, 1)
	cmd := func(st *roomState) {
		if err := ctx.Err(); err != nil {
			result <- err
			return
		}
		result <- fn(st)
	}

	select {
	case a.commands <- cmd:
	case <-a.done:
		return ErrRoomClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-result:
		return err
	case <-a.done:
		// The actor may have finished the command before stopping
		select {
		case err := <-result:
			return err
		default:
			return ErrRoomClosed
		}
	}
}

// enqueue schedules fn without waiting; used by timer callbacks
func (a *roomActor) enqueue(fn command) {
	select {
	case a.commands <- fn:
	case <-a.done:
	}
}

func (st *roomState) stopTimers() {
	for id, t := range st.graceTimers {
		t.Stop()
		delete(st.graceTimers, id)
	}
	if st.deadlineTimer != nil {
		st.deadlineTimer.Stop()
		st.deadlineTimer = nil
	}
	if st.expiryTimer != nil {
		st.expiryTimer.Stop()
		st.expiryTimer = nil
	}
}

// seated returns the players that hold a seat, in join order
func (st *roomState) seated() []*models.Player {
	players := make([]*models.Player, 0, len(st.order))
	for _, id := range st.order {
		if p, ok := st.players[id]; ok && !p.Departed {
			players = append(players, p)
		}
	}
	return players
}

func (st *roomState) seatedPlayer(participantID string) (*models.Player, bool) {
	p, ok := st.players[participantID]
	if !ok || p.Departed {
		return nil, false
	}
	return p, true
}

func (st *roomState) removeFromOrder(participantID string) {
	for i, id := range st.order {
		if id == participantID {
			st.order = append(st.order[:i], st.order[i+1:]...)
			return
		}
	}
}

func (st *roomState) currentQuestion() *models.PublicQuestion {
	if st.phase != models.GamePhaseQuestionLive || st.question == nil {
		return nil
	}
	pub := st.question.Public()
	return &pub
}

func copyRoom(r *models.Room) *models.Room {
	c := *r
	return &c
}

func copyPlayers(players []*models.Player) []*models.Player {
	out := make([]*models.Player, len(players))
	for i, p := range players {
		c := *p
		out[i] = &c
	}
	return out
}
