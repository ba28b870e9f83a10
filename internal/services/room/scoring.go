package room

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/KirkDiggler/quizroom/internal/common/apperr"
	"github.com/KirkDiggler/quizroom/internal/models"
	questionRepo "github.com/KirkDiggler/quizroom/internal/repositories/question"
	"github.com/KirkDiggler/quizroom/internal/services/messaging"
	"github.com/samber/lo"
)

// AdvanceQuestion moves the room to its next question, finishing the game after the last one.
// The question is fetched outside the actor and committed only if the index did not move meanwhile.
func (s *service) AdvanceQuestion(ctx context.Context, input *AdvanceQuestionInput) (*AdvanceQuestionOutput, error) {
	if input == nil || input.ParticipantID == "" {
		return nil, ErrInvalidInput
	}

	actor, err := s.loadActor(ctx, input.RoomID)
	if err != nil {
		return nil, err
	}

	var (
		index  int
		gameID string
	)
	err = actor.do(ctx, func(st *roomState) error {
		if st.room.HostID != input.ParticipantID {
			return ErrNotHost
		}
		if st.room.Status == models.RoomStatusEnded {
			return ErrRoomEnded
		}
		index = st.room.CurrentQuestionIndex
		gameID = st.room.GameID
		return nil
	})
	if err != nil {
		return nil, err
	}

	next, err := s.questionRepo.GetQuestion(ctx, &questionRepo.GetQuestionInput{
		GameID: gameID,
		Index:  index + 1,
	})
	if err != nil {
		if !errors.Is(err, questionRepo.ErrQuestionNotFound) {
			return nil, apperr.Wrap(ErrStoreUnavailable, err)
		}
		next = nil
	}

	var out *AdvanceQuestionOutput
	err = actor.do(ctx, func(st *roomState) error {
		if st.room.Status == models.RoomStatusEnded {
			return ErrRoomEnded
		}
		if st.room.CurrentQuestionIndex != index {
			return ErrQuestionChanged
		}

		if next == nil {
			s.finishLocked(actor, st)
			out = &AdvanceQuestionOutput{
				Finished: true,
				Room:     copyRoom(st.room),
			}
			return nil
		}

		s.startQuestionLocked(actor, st, next)
		out = &AdvanceQuestionOutput{
			Question: st.currentQuestion(),
			Room:     copyRoom(st.room),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (s *service) startQuestionLocked(actor *roomActor, st *roomState, q *models.Question) {
	if st.phase == models.GamePhaseQuestionLive {
		s.closeQuestionLocked(st)
	}

	if q.TimeLimit <= 0 {
		q.TimeLimit = s.questionLimit
	}
	if q.BasePoints <= 0 {
		q.BasePoints = s.basePoints
	}

	now := s.clock.Now()
	wentLive := st.room.Status == models.RoomStatusLobby
	if wentLive {
		st.room.Status = models.RoomStatusLive
	}

	st.room.CurrentQuestionIndex = q.Index
	st.question = q
	st.phase = models.GamePhaseQuestionLive
	st.answers = nil
	st.progress = &models.QuestionProgress{
		QuestionID: q.ID,
		RoomID:     st.room.ID,
		Index:      q.Index,
		AnsweredBy: make(map[string]struct{}),
		StartedAt:  now,
		Deadline:   now.Add(q.TimeLimit),
	}

	questionID, index := q.ID, q.Index
	st.deadlineTimer = s.clock.AfterFunc(q.TimeLimit, func() {
		actor.enqueue(func(st *roomState) {
			if st.phase != models.GamePhaseQuestionLive || st.progress == nil {
				return
			}
			if st.progress.QuestionID != questionID || st.progress.Index != index {
				return
			}
			st.deadlineTimer = nil
			s.closeQuestionLocked(st)
		})
	})

	if wentLive {
		s.publish(st, models.EventGameStatus, s.statusPayload(st))
		msg, err := s.messaging.GetGameStatusMessage(context.Background(), &messaging.GetGameStatusMessageInput{
			Status: models.RoomStatusLive,
		})
		if err == nil {
			s.announceLocked(st, msg.Message)
		}
	}

	s.publish(st, models.EventQuestionLive, st.currentQuestion())
	s.persistLocked(st, s.activeTTL(st))

	s.log.Debug("question live",
		"room_id", st.room.ID,
		"question_id", q.ID,
		"index", q.Index,
		"deadline", st.progress.Deadline)
}

// CloseQuestion closes the live question on behalf of the host
func (s *service) CloseQuestion(ctx context.Context, input *CloseQuestionInput) (*CloseQuestionOutput, error) {
	if input == nil || input.ParticipantID == "" {
		return nil, ErrInvalidInput
	}

	actor, err := s.loadActor(ctx, input.RoomID)
	if err != nil {
		return nil, err
	}

	var out *CloseQuestionOutput
	err = actor.do(ctx, func(st *roomState) error {
		if st.room.HostID != input.ParticipantID {
			return ErrNotHost
		}
		if st.phase != models.GamePhaseQuestionLive {
			return ErrQuestionNotLive
		}

		out = &CloseQuestionOutput{
			Results: s.closeQuestionLocked(st),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// closeQuestionLocked reveals the answer and publishes per-question results and standings
func (s *service) closeQuestionLocked(st *roomState) *models.QuestionResults {
	if st.deadlineTimer != nil {
		st.deadlineTimer.Stop()
		st.deadlineTimer = nil
	}

	q := st.question
	st.phase = models.GamePhaseQuestionClosed
	st.closed[q.ID] = struct{}{}
	st.played++

	answeredBy := lo.Keys(st.progress.AnsweredBy)
	sort.Strings(answeredBy)

	answers := lo.Map(st.answers, func(a *models.AnswerRecord, _ int) *models.AnswerRecord {
		c := *a
		return &c
	})

	results := &models.QuestionResults{
		Question:        q.Public(),
		CorrectOptionID: q.CorrectOptionID,
		Answers:         answers,
		AnsweredBy:      answeredBy,
	}

	s.publish(st, models.EventQuestionClosed, results)
	s.publish(st, models.EventResultResponse, st.leaderboard())

	return results
}

// SubmitAnswer scores an answer at most once per participant and question
func (s *service) SubmitAnswer(ctx context.Context, input *SubmitAnswerInput) (*SubmitAnswerOutput, error) {
	if input == nil || input.ParticipantID == "" || input.QuestionID == "" {
		return nil, ErrInvalidInput
	}

	actor, err := s.loadActor(ctx, input.RoomID)
	if err != nil {
		return nil, err
	}

	var out *SubmitAnswerOutput
	err = actor.do(ctx, func(st *roomState) error {
		player, ok := st.seatedPlayer(input.ParticipantID)
		if !ok {
			return ErrPlayerNotInRoom
		}

		if st.phase != models.GamePhaseQuestionLive || st.progress == nil || st.progress.QuestionID != input.QuestionID {
			if _, closed := st.closed[input.QuestionID]; closed {
				return ErrTooLate
			}
			return ErrQuestionNotLive
		}

		now := s.clock.Now()
		if now.After(st.progress.Deadline) {
			s.closeQuestionLocked(st)
			return ErrTooLate
		}

		if st.progress.HasAnswered(player.ID) {
			out = &SubmitAnswerOutput{
				Ack: &models.AnswerAck{
					QuestionID:    input.QuestionID,
					ParticipantID: player.ID,
					Status:        models.AckAlreadyCounted,
				},
			}
			return nil
		}

		if input.TimeTaken < 0 {
			return ErrNegativeTimeTaken
		}
		if input.TimeTaken > st.question.TimeLimit {
			return ErrTooLate
		}

		correct := st.question.IsCorrect(input.Answer)
		points := 0
		if correct {
			points = computePoints(st.question.BasePoints, input.TimeTaken, st.question.TimeLimit)
		}

		st.progress.MarkAnswered(player.ID)
		st.answers = append(st.answers, &models.AnswerRecord{
			PlayerID:   player.ID,
			QuestionID: input.QuestionID,
			Answer:     input.Answer,
			Correct:    correct,
			Points:     points,
			TimeTaken:  input.TimeTaken,
			AnsweredAt: now,
		})

		entry := st.scoreEntry(player)
		entry.TotalAnswered++
		if correct {
			entry.RightAnswered++
			entry.Points += points
			entry.LastCorrectAt = now
		}

		s.publish(st, models.EventAnswerAck, &models.AnswerAck{
			QuestionID:    input.QuestionID,
			ParticipantID: player.ID,
		})

		out = &SubmitAnswerOutput{
			Ack: &models.AnswerAck{
				QuestionID:    input.QuestionID,
				ParticipantID: player.ID,
				Status:        models.AckAccepted,
				Correct:       lo.ToPtr(correct),
				Points:        lo.ToPtr(points),
			},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// computePoints decays linearly from base at zero to 5/11 of base at the time limit
func computePoints(base int, taken, limit time.Duration) int {
	if limit <= 0 {
		return base
	}
	if taken < 0 {
		taken = 0
	}
	if taken > limit {
		taken = limit
	}

	l := limit.Milliseconds()
	t := taken.Milliseconds()
	if l == 0 {
		return base
	}

	return int(int64(base) * (11*l - 6*t) / (11 * l))
}
