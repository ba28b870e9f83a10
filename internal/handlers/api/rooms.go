package api

import (
	"encoding/json"
	"net/http"

	"github.com/KirkDiggler/quizroom/internal/common/apperr"
	"github.com/KirkDiggler/quizroom/internal/models"
	"github.com/KirkDiggler/quizroom/internal/services/room"
	"github.com/go-chi/chi/v5"
)

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 64 * 1024

var ErrInvalidBody = apperr.Validation("invalid_body", "request body is not valid")

// CreateRoomRequest is the body of POST /rooms
type CreateRoomRequest struct {
	GameID   string   `json:"gameId" validate:"required,max=128"`
	Invitees []string `json:"invitees" validate:"max=50,dive,required,max=128"`
}

// RoomResponse describes a room
type RoomResponse struct {
	Room            *models.Room           `json:"room"`
	Phase           models.GamePhase       `json:"phase,omitempty"`
	CurrentQuestion *models.PublicQuestion `json:"currentQuestion,omitempty"`
	PlayerCount     int                    `json:"playerCount"`
	QuestionCount   int                    `json:"questionCount,omitempty"`
}

// CreateRoom creates a room hosted by the caller
func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := h.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	id := caller(r.Context())
	out, err := h.rooms.CreateRoom(r.Context(), &room.CreateRoomInput{
		HostID:   id.ParticipantID,
		HostName: id.DisplayName,
		GameID:   req.GameID,
		Invitees: req.Invitees,
	})
	if err != nil {
		h.logFailure(r, "create room", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, &RoomResponse{
		Room:          out.Room,
		Phase:         models.GamePhaseNotStarted,
		QuestionCount: out.QuestionCount,
	}, "room created")
}

// GetRoom returns the room status
func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	out, err := h.rooms.GetRoom(r.Context(), &room.GetRoomInput{
		RoomID: chi.URLParam(r, "roomId"),
	})
	if err != nil {
		h.logFailure(r, "get room", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, roomResponse(out), "ok")
}

// GetRoomByInviteCode resolves an invite code
func (h *Handler) GetRoomByInviteCode(w http.ResponseWriter, r *http.Request) {
	out, err := h.rooms.GetRoomByInviteCode(r.Context(), &room.GetRoomByInviteCodeInput{
		InviteCode: chi.URLParam(r, "code"),
	})
	if err != nil {
		h.logFailure(r, "get room by invite code", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, roomResponse(out), "ok")
}

// GetActiveRoom returns the room the caller is currently in
func (h *Handler) GetActiveRoom(w http.ResponseWriter, r *http.Request) {
	out, err := h.rooms.GetActiveRoom(r.Context(), &room.GetActiveRoomInput{
		ParticipantID: caller(r.Context()).ParticipantID,
	})
	if err != nil {
		h.logFailure(r, "get active room", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, roomResponse(out), "ok")
}

// GetPlayers returns the presence snapshot
func (h *Handler) GetPlayers(w http.ResponseWriter, r *http.Request) {
	out, err := h.rooms.GetPresence(r.Context(), &room.GetPresenceInput{
		RoomID: chi.URLParam(r, "roomId"),
	})
	if err != nil {
		h.logFailure(r, "get players", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, out.Players, "ok")
}

// GetLeaderboard returns the ranked scores
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	out, err := h.rooms.GetLeaderboard(r.Context(), &room.GetLeaderboardInput{
		RoomID: chi.URLParam(r, "roomId"),
	})
	if err != nil {
		h.logFailure(r, "get leaderboard", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, out.Entries, "ok")
}

func roomResponse(out *room.GetRoomOutput) *RoomResponse {
	return &RoomResponse{
		Room:            out.Room,
		Phase:           out.Phase,
		CurrentQuestion: out.CurrentQuestion,
		PlayerCount:     out.PlayerCount,
	}
}

// decode reads a bounded JSON body and validates it
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.Wrap(ErrInvalidBody, err)
	}
	if err := h.validate.Struct(dst); err != nil {
		return apperr.Wrap(ErrInvalidBody, err)
	}
	return nil
}

func (h *Handler) logFailure(r *http.Request, op string, err error) {
	kind := apperr.KindOf(err)
	if kind != apperr.KindInternal && kind != apperr.KindTransport {
		return
	}
	h.log.Error("request failed",
		"op", op,
		"path", r.URL.Path,
		"kind", kind,
		"error", err)
}
