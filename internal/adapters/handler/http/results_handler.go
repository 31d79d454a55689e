package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sufragio/api/internal/core/domain"
	"github.com/sufragio/api/internal/core/ports"
)

type ResultsHandler struct {
	pollService    ports.PollService
	resultsService ports.ResultsService
}

func NewResultsHandler(pollService ports.PollService, resultsService ports.ResultsService) *ResultsHandler {
	return &ResultsHandler{
		pollService:    pollService,
		resultsService: resultsService,
	}
}

// GetResults returns the derived summary for a poll. Clients re-fetch it on a
// 2-4 second interval; everything here is recomputed from current tallies.
// While a poll is open with hide_results on, tallies are withheld from
// unauthenticated callers.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	poll, err := h.pollService.GetPoll(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writePollError(w, err)
		return
	}

	if poll.Settings.HideResults && poll.AcceptsVotes(time.Now()) && !isAdmin(r) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(&domain.PollResults{
			PollID:    poll.ID,
			Type:      poll.Type,
			MaxVoters: poll.MaxVoters,
		})
		return
	}

	results := h.resultsService.Summarize(poll)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(results); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func isAdmin(r *http.Request) bool {
	_, err := adminIDFromRequest(r)
	return err == nil
}
