package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sufragio/api/internal/core/domain"
	"github.com/sufragio/api/internal/core/ports"
)

type PollHandler struct {
	service ports.PollService
}

func NewPollHandler(service ports.PollService) *PollHandler {
	return &PollHandler{
		service: service,
	}
}

type createPollRequest struct {
	Title     string   `json:"title"`
	Type      string   `json:"type"`
	Options   []string `json:"options"`
	MaxVoters int      `json:"max_voters"`
	Settings  struct {
		HideResults bool `json:"hide_results"`
		AllowEdit   bool `json:"allow_edit"`
	} `json:"settings"`
}

// CreatePoll godoc
// @Summary      Creates a poll in draft
// @Tags         polls
// @Accept       json
// @Success      201
// @Failure      400
// @Router       /polls [post]
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req createPollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	input := ports.CreatePollInput{
		Title:     req.Title,
		Type:      domain.PollType(req.Type),
		Options:   req.Options,
		MaxVoters: req.MaxVoters,
		Settings: domain.PollSettings{
			HideResults: req.Settings.HideResults,
			AllowEdit:   req.Settings.AllowEdit,
		},
	}

	poll, err := h.service.Create(r.Context(), input)
	if err != nil {
		writePollError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(poll); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "missing poll id", http.StatusBadRequest)
		return
	}

	poll, err := h.service.GetPoll(r.Context(), id)
	if err != nil {
		writePollError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(poll); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	input := ports.ListPollsInput{
		Page:     page,
		Query:    r.URL.Query().Get("q"),
		OpenOnly: r.URL.Query().Get("open") == "true",
	}

	polls, err := h.service.ListPolls(r.Context(), input)
	if err != nil {
		writePollError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(polls); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

type activatePollRequest struct {
	DurationMinutes int `json:"duration_minutes"`
}

// ActivatePoll godoc
// @Summary      Opens a poll for voting for a timed window
// @Tags         polls
// @Success      200
// @Failure      409
// @Router       /polls/{id}/activate [post]
func (h *PollHandler) ActivatePoll(w http.ResponseWriter, r *http.Request) {
	var req activatePollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	poll, err := h.service.Activate(r.Context(), chi.URLParam(r, "id"), req.DurationMinutes)
	if err != nil {
		writePollError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(poll); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

type extendPollRequest struct {
	AdditionalMinutes int `json:"additional_minutes"`
}

func (h *PollHandler) ExtendPoll(w http.ResponseWriter, r *http.Request) {
	var req extendPollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	poll, err := h.service.Extend(r.Context(), chi.URLParam(r, "id"), req.AdditionalMinutes)
	if err != nil {
		writePollError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(poll); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func (h *PollHandler) ClosePoll(w http.ResponseWriter, r *http.Request) {
	poll, err := h.service.Close(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writePollError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(poll); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writePollError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type updateSettingsRequest struct {
	HideResults *bool `json:"hide_results"`
}

func (h *PollHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.HideResults == nil {
		http.Error(w, "hide_results is required", http.StatusBadRequest)
		return
	}

	if err := h.service.SetHideResults(r.Context(), chi.URLParam(r, "id"), *req.HideResults); err != nil {
		writePollError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writePollError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidPollID):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrPollNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrPollClosed), errors.Is(err, domain.ErrAlreadyVoted):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrInvalidOption):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
