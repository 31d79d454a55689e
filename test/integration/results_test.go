package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufragio/api/internal/core/domain"
)

func decodeResults(t *testing.T, resp *http.Response) domain.PollResults {
	t.Helper()
	defer resp.Body.Close()

	var results domain.PollResults
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&results))
	return results
}

// TestBooleanResultsSummary runs a full assembly-style vote: 10 voters, 7 in
// favor and 3 against, and checks the leader, percentages and the two-thirds
// quorum all come out of the summary endpoint.
func TestBooleanResultsSummary(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)
	token := app.createAdminAndToken(t)

	poll := app.createActivePoll(t, token, "BOOLEAN", nil)
	require.Len(t, poll.Options, 3)

	var inFavor, against domain.Option
	for _, opt := range poll.Options {
		switch opt.Text {
		case "A favor":
			inFavor = opt
		case "En contra":
			against = opt
		}
	}

	votesPath := fmt.Sprintf("/api/polls/%s/votes", poll.ID)
	for i := 0; i < 7; i++ {
		resp := app.doJSON(t, http.MethodPost, votesPath, "", map[string]interface{}{
			"option_id": inFavor.ID,
			"voter_id":  fmt.Sprintf("favor-%d", i),
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}
	for i := 0; i < 3; i++ {
		resp := app.doJSON(t, http.MethodPost, votesPath, "", map[string]interface{}{
			"option_id": against.ID,
			"voter_id":  fmt.Sprintf("contra-%d", i),
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := app.doJSON(t, http.MethodGet, fmt.Sprintf("/api/polls/%s/results", poll.ID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	results := decodeResults(t, resp)

	assert.EqualValues(t, 10, results.TotalVotes)
	assert.Equal(t, 10, results.MaxVoters)

	require.NotNil(t, results.Leader)
	require.NotNil(t, results.Leader.Option)
	assert.False(t, results.Leader.Tie)
	assert.Equal(t, "A favor", results.Leader.Option.Text)

	// ceil(2/3 of 10) = 7, and 10 votes were cast
	require.NotNil(t, results.Quorum)
	assert.EqualValues(t, 7, results.Quorum.Required)
	assert.True(t, results.Quorum.Reached)

	byText := make(map[string]domain.OptionStats, len(results.Options))
	for _, stats := range results.Options {
		byText[stats.Text] = stats
	}
	assert.Equal(t, 70, byText["A favor"].Percentage)
	assert.Equal(t, 30, byText["En contra"].Percentage)
	assert.Equal(t, 0, byText["Abstención"].Percentage)
}

func TestWordcloudResultsRanking(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)
	token := app.createAdminAndToken(t)

	poll := app.createActivePoll(t, token, "WORDCLOUD", nil)
	votesPath := fmt.Sprintf("/api/polls/%s/votes", poll.ID)

	submissions := []string{"salud", "vivienda", "salud", "educación"}
	for i, word := range submissions {
		resp := app.doJSON(t, http.MethodPost, votesPath, "", map[string]interface{}{
			"word":     word,
			"voter_id": fmt.Sprintf("device-%d", i),
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := app.doJSON(t, http.MethodGet, fmt.Sprintf("/api/polls/%s/results", poll.ID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	results := decodeResults(t, resp)

	require.Len(t, results.RankedWords, 3)
	assert.Equal(t, "salud", results.RankedWords[0].Text)
	assert.EqualValues(t, 2, results.RankedWords[0].Count)
	// vivienda was seen before educación, so it ranks first of the ties
	assert.Equal(t, "vivienda", results.RankedWords[1].Text)
	assert.Equal(t, "educación", results.RankedWords[2].Text)
	assert.Nil(t, results.Quorum)
	assert.Nil(t, results.Leader)
}

// TestHiddenResultsGating checks that while an open poll hides its results,
// anonymous callers see only the shell and admins see the live tallies. Once
// the poll closes the tallies become public.
func TestHiddenResultsGating(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)
	token := app.createAdminAndToken(t)

	resp := app.doJSON(t, http.MethodPost, "/api/polls", token, map[string]interface{}{
		"title":      "Votación secreta",
		"type":       "BOOLEAN",
		"max_voters": 10,
		"settings":   map[string]interface{}{"hide_results": true},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	poll := decodePoll(t, resp)

	resp = app.doJSON(t, http.MethodPost, fmt.Sprintf("/api/polls/%s/activate", poll.ID), token, map[string]interface{}{
		"duration_minutes": 5,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	poll = decodePoll(t, resp)

	resp = app.doJSON(t, http.MethodPost, fmt.Sprintf("/api/polls/%s/votes", poll.ID), "", map[string]interface{}{
		"option_id": poll.Options[0].ID,
		"voter_id":  "device-1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resultsPath := fmt.Sprintf("/api/polls/%s/results", poll.ID)

	resp = app.doJSON(t, http.MethodGet, resultsPath, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	hidden := decodeResults(t, resp)
	assert.EqualValues(t, 0, hidden.TotalVotes)
	assert.Empty(t, hidden.Options)
	assert.Equal(t, poll.ID, hidden.PollID)

	resp = app.doJSON(t, http.MethodGet, resultsPath, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	visible := decodeResults(t, resp)
	assert.EqualValues(t, 1, visible.TotalVotes)

	resp = app.doJSON(t, http.MethodPost, fmt.Sprintf("/api/polls/%s/close", poll.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = app.doJSON(t, http.MethodGet, resultsPath, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	published := decodeResults(t, resp)
	assert.EqualValues(t, 1, published.TotalVotes)
}
