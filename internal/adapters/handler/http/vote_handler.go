package http

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sufragio/api/internal/core/ports"
)

type VoteHandler struct {
	service ports.VoteService
}

func NewVoteHandler(service ports.VoteService) *VoteHandler {
	return &VoteHandler{
		service: service,
	}
}

type voteRequest struct {
	OptionID *uuid.UUID `json:"option_id,omitempty"`
	Word     string     `json:"word,omitempty"`
	VoterID  string     `json:"voter_id"`
}

// VoteOnPoll godoc
// @Summary      Records one vote on an active poll
// @Description  Option polls take option_id, wordcloud polls take word. The voter_id is a device fingerprint.
// @Tags         votes
// @Accept       json
// @Success      201
// @Failure      409
// @Router       /polls/{id}/votes [post]
func (h *VoteHandler) VoteOnPoll(w http.ResponseWriter, r *http.Request) {
	pollIDStr := chi.URLParam(r, "id")
	pollID, err := uuid.Parse(pollIDStr)
	if err != nil {
		http.Error(w, "invalid poll id", http.StatusBadRequest)
		return
	}

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}

	input := ports.VoteInput{
		PollID:   pollID,
		OptionID: req.OptionID,
		Word:     req.Word,
		VoterID:  req.VoterID,
		VoterIP:  ip,
	}

	if err := h.service.RecordVote(r.Context(), input); err != nil {
		writePollError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}
