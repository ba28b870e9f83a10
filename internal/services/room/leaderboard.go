package room

import (
	"context"
	"slices"
	"strings"

	"github.com/KirkDiggler/quizroom/internal/models"
	"github.com/samber/lo"
)

// GetLeaderboard returns the room's standings
func (s *service) GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*GetLeaderboardOutput, error) {
	if input == nil || input.RoomID == "" {
		return nil, ErrInvalidInput
	}

	actor, err := s.lookupActor(input.RoomID)
	if err != nil {
		return nil, err
	}

	var out *GetLeaderboardOutput
	err = actor.do(ctx, func(st *roomState) error {
		out = &GetLeaderboardOutput{
			Entries: st.leaderboard(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// leaderboard ranks by points, then by who reached their score first, then by ID
func (st *roomState) leaderboard() []*models.ScoreEntry {
	entries := lo.MapToSlice(st.scores, func(_ string, e *models.ScoreEntry) *models.ScoreEntry {
		c := *e
		return &c
	})

	slices.SortFunc(entries, compareScores)
	return entries
}

func compareScores(a, b *models.ScoreEntry) int {
	if a.Points != b.Points {
		return b.Points - a.Points
	}
	if !a.LastCorrectAt.Equal(b.LastCorrectAt) {
		switch {
		case a.LastCorrectAt.IsZero():
			return 1
		case b.LastCorrectAt.IsZero():
			return -1
		case a.LastCorrectAt.Before(b.LastCorrectAt):
			return -1
		default:
			return 1
		}
	}
	return strings.Compare(a.PlayerID, b.PlayerID)
}

// scoreEntry returns the player's entry, creating it if needed
func (st *roomState) scoreEntry(p *models.Player) *models.ScoreEntry {
	entry, ok := st.scores[p.ID]
	if !ok {
		entry = &models.ScoreEntry{
			PlayerID:    p.ID,
			RoomID:      st.room.ID,
			DisplayName: p.DisplayName,
		}
		st.scores[p.ID] = entry
	}
	return entry
}
