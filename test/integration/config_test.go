package integration

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomeacao/api/internal/core/domain"
)

func TestConfigLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	churchID := uuid.New()
	admin := app.createMember(t, churchID, "Admin", "admin")
	voter := app.createMember(t, churchID, "Voter", "voter")
	adminToken := tokenFor(t, admin)

	// Create.
	resp := app.request(t, "POST", "/api/elections/config", adminToken, map[string]any{
		"churchId":   churchID,
		"churchName": "Central",
		"title":      "Lifecycle Test",
		"positions":  []string{"Elder", "Deacon"},
		"voters":     []uuid.UUID{voter},
		"criteria": map[string]any{
			"require_recurring_tithe": true,
			"min_attendance":          50,
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var config domain.Configuration
	decodeBody(t, resp, &config)
	assert.Equal(t, domain.ConfigStatusDraft, config.Status)
	assert.Equal(t, 1, config.MaxNominations)
	assert.True(t, config.Criteria.RequireRecurringTithe)

	// Get.
	resp = app.request(t, "GET", "/api/elections/config/"+config.ID.String(), adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched domain.Configuration
	decodeBody(t, resp, &fetched)
	assert.Equal(t, config.ID, fetched.ID)
	assert.Equal(t, []string{"Elder", "Deacon"}, fetched.Positions)

	// Partial update.
	resp = app.request(t, "PUT", "/api/elections/config/"+config.ID.String(), adminToken, map[string]any{
		"title": "Renamed",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &fetched)
	assert.Equal(t, "Renamed", fetched.Title)
	assert.Equal(t, []string{"Elder", "Deacon"}, fetched.Positions)

	// Max nominations.
	resp = app.request(t, "POST", "/api/elections/max-nominations", adminToken, map[string]any{
		"configId":       config.ID,
		"maxNominations": 3,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = app.request(t, "GET", "/api/elections/config/"+config.ID.String(), adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &fetched)
	assert.Equal(t, 3, fetched.MaxNominations)

	// Toggle activates the draft.
	resp = app.request(t, "POST", "/api/elections/config/"+config.ID.String()+"/toggle", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &fetched)
	assert.Equal(t, domain.ConfigStatusActive, fetched.Status)

	// Toggle again pauses.
	resp = app.request(t, "POST", "/api/elections/config/"+config.ID.String()+"/toggle", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &fetched)
	assert.Equal(t, domain.ConfigStatusPaused, fetched.Status)

	// Delete cascades to the election.
	resp = app.request(t, "DELETE", "/api/elections/config/"+config.ID.String(), adminToken, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = app.request(t, "GET", "/api/elections/config/"+config.ID.String(), adminToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	var elections int
	err := app.DB.QueryRow("SELECT COUNT(*) FROM elections WHERE config_id = $1", config.ID).Scan(&elections)
	require.NoError(t, err)
	assert.Zero(t, elections)
}

func TestRemoveAndRestoreCandidate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	churchID := uuid.New()
	admin := app.createMember(t, churchID, "Admin", "admin")
	ana := app.createMember(t, churchID, "Ana", "voter")
	voter := app.createMember(t, churchID, "Voter", "voter")
	adminToken := tokenFor(t, admin)
	voterToken := tokenFor(t, voter)

	resp := app.request(t, "POST", "/api/elections/config", adminToken, map[string]any{
		"churchId":  churchID,
		"title":     "Removal Test",
		"positions": []string{"Elder"},
		"voters":    []uuid.UUID{voter},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var config domain.Configuration
	decodeBody(t, resp, &config)

	resp = app.request(t, "POST", "/api/elections/start", adminToken, map[string]any{"configId": config.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Removed candidates cannot be nominated.
	resp = app.request(t, "POST", "/api/elections/config/"+config.ID.String()+"/remove-candidate", adminToken, map[string]any{
		"memberId": ana,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = app.request(t, "POST", "/api/elections/vote", voterToken, map[string]any{
		"configId": config.ID, "candidateId": ana, "phase": "nomination",
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Restoring brings the candidate back.
	resp = app.request(t, "POST", "/api/elections/config/"+config.ID.String()+"/restore-candidate", adminToken, map[string]any{
		"memberId": ana,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = app.request(t, "POST", "/api/elections/vote", voterToken, map[string]any{
		"configId": config.ID, "candidateId": ana, "phase": "nomination",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}
