package integration

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufragio/api/internal/core/domain"
)

func (app *TestApp) createActivePoll(t *testing.T, token string, pollType string, options []string) domain.Poll {
	t.Helper()

	payload := map[string]interface{}{
		"title":      "Votación de prueba",
		"type":       pollType,
		"max_voters": 10,
	}
	if options != nil {
		payload["options"] = options
	}

	resp := app.doJSON(t, http.MethodPost, "/api/polls", token, payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	poll := decodePoll(t, resp)

	resp = app.doJSON(t, http.MethodPost, fmt.Sprintf("/api/polls/%s/activate", poll.ID), token, map[string]interface{}{
		"duration_minutes": 5,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decodePoll(t, resp)
}

func TestVoteFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)
	token := app.createAdminAndToken(t)

	poll := app.createActivePoll(t, token, "BOOLEAN", nil)
	votesPath := fmt.Sprintf("/api/polls/%s/votes", poll.ID)

	resp := app.doJSON(t, http.MethodPost, votesPath, "", map[string]interface{}{
		"option_id": poll.Options[0].ID,
		"voter_id":  "device-1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// same device again: rejected
	resp = app.doJSON(t, http.MethodPost, votesPath, "", map[string]interface{}{
		"option_id": poll.Options[0].ID,
		"voter_id":  "device-1",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// option from another poll: rejected
	resp = app.doJSON(t, http.MethodPost, votesPath, "", map[string]interface{}{
		"option_id": uuid.New(),
		"voter_id":  "device-2",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = app.doJSON(t, http.MethodGet, fmt.Sprintf("/api/polls/%s", poll.ID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fetched := decodePoll(t, resp)
	assert.EqualValues(t, 1, fetched.TotalVotes)
	assert.EqualValues(t, 1, fetched.Options[0].Votes)
}

func TestVoteOnClosedPollRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)
	token := app.createAdminAndToken(t)

	poll := app.createActivePoll(t, token, "BOOLEAN", nil)

	resp := app.doJSON(t, http.MethodPost, fmt.Sprintf("/api/polls/%s/close", poll.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = app.doJSON(t, http.MethodPost, fmt.Sprintf("/api/polls/%s/votes", poll.ID), "", map[string]interface{}{
		"option_id": poll.Options[0].ID,
		"voter_id":  "device-1",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

// TestConcurrentVotesAllCounted asserts the no-lost-update property: N
// concurrent votes on the same option must read back as exactly N.
func TestConcurrentVotesAllCounted(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)
	token := app.createAdminAndToken(t)

	poll := app.createActivePoll(t, token, "BOOLEAN", nil)
	votesPath := fmt.Sprintf("/api/polls/%s/votes", poll.ID)

	const voters = 20
	var wg sync.WaitGroup
	errs := make(chan error, voters)

	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			resp := app.doJSON(t, http.MethodPost, votesPath, "", map[string]interface{}{
				"option_id": poll.Options[0].ID,
				"voter_id":  fmt.Sprintf("device-%d", n),
			})
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusCreated {
				errs <- fmt.Errorf("vote %d got status %d", n, resp.StatusCode)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	resp := app.doJSON(t, http.MethodGet, fmt.Sprintf("/api/polls/%s", poll.ID), "", nil)
	fetched := decodePoll(t, resp)
	assert.EqualValues(t, voters, fetched.Options[0].Votes)
	assert.EqualValues(t, voters, fetched.TotalVotes)
}

func TestWordVoteNormalization(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)
	token := app.createAdminAndToken(t)

	poll := app.createActivePoll(t, token, "WORDCLOUD", nil)
	votesPath := fmt.Sprintf("/api/polls/%s/votes", poll.ID)

	for i, word := range []string{"Salud", "salud", " salud "} {
		resp := app.doJSON(t, http.MethodPost, votesPath, "", map[string]interface{}{
			"word":     word,
			"voter_id": fmt.Sprintf("device-%d", i),
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := app.doJSON(t, http.MethodGet, fmt.Sprintf("/api/polls/%s", poll.ID), "", nil)
	fetched := decodePoll(t, resp)
	require.Len(t, fetched.WordVotes, 1)
	assert.Equal(t, "salud", fetched.WordVotes[0].Text)
	assert.EqualValues(t, 3, fetched.WordVotes[0].Count)
	assert.EqualValues(t, 3, fetched.TotalVotes)
}

// TestRecountRepairsDriftedCounters corrupts a counter directly and checks
// the recount job restores it from the ballots ledger.
func TestRecountRepairsDriftedCounters(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)
	token := app.createAdminAndToken(t)

	poll := app.createActivePoll(t, token, "BOOLEAN", nil)
	votesPath := fmt.Sprintf("/api/polls/%s/votes", poll.ID)

	for i := 0; i < 4; i++ {
		resp := app.doJSON(t, http.MethodPost, votesPath, "", map[string]interface{}{
			"option_id": poll.Options[0].ID,
			"voter_id":  fmt.Sprintf("device-%d", i),
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	_, err := app.DB.Exec("UPDATE poll_options SET votes = 99 WHERE id = $1", poll.Options[0].ID)
	require.NoError(t, err)
	_, err = app.DB.Exec("UPDATE polls SET total_votes = 99 WHERE id = $1", poll.ID)
	require.NoError(t, err)

	require.NoError(t, app.RecountSvc.RecountAllPolls(context.Background()))

	resp := app.doJSON(t, http.MethodGet, fmt.Sprintf("/api/polls/%s", poll.ID), "", nil)
	fetched := decodePoll(t, resp)
	assert.EqualValues(t, 4, fetched.Options[0].Votes)
	assert.EqualValues(t, 4, fetched.TotalVotes)
}
