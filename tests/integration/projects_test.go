//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/avelius/taskboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjects_CRUD(t *testing.T) {
	client := newTestClient(t)
	userID, email, password := registerTestUser(t, client)
	client.LoginAs(t, email, password)

	resp, err := client.POST("/api/v1/projects", map[string]interface{}{
		"name":        testutil.RandomName("project"),
		"description": "integration test project",
		"priority":    "high",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		Data struct {
			ID          string   `json:"id"`
			CreatedByID string   `json:"created_by_id"`
			Status      string   `json:"status"`
			Priority    string   `json:"priority"`
			MemberIDs   []string `json:"member_ids"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &created)
	assert.Equal(t, userID, created.Data.CreatedByID)
	assert.Equal(t, "planning", created.Data.Status)
	assert.Equal(t, "high", created.Data.Priority)
	assert.Empty(t, created.Data.MemberIDs)

	resp, err = client.PUT("/api/v1/projects/"+created.Data.ID, map[string]interface{}{
		"name":     "Renamed project",
		"status":   "active",
		"priority": "critical",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var updated struct {
		Data struct {
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &updated)
	assert.Equal(t, "Renamed project", updated.Data.Name)
	assert.Equal(t, "active", updated.Data.Status)

	resp, err = client.DELETE("/api/v1/projects/" + created.Data.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp, err = client.GET("/api/v1/projects/" + created.Data.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestProjects_Update_OnlyCreatorOrAdmin(t *testing.T) {
	creator := newTestClient(t)
	_, email, password := registerTestUser(t, creator)
	creator.LoginAs(t, email, password)
	projectID := createTestProject(t, creator, testutil.RandomName("owned"))

	intruder := newTestClient(t)
	_, otherEmail, otherPassword := registerTestUser(t, intruder)
	intruder.LoginAs(t, otherEmail, otherPassword)

	resp, err := intruder.PUT("/api/v1/projects/"+projectID, map[string]interface{}{
		"name":     "Hijacked",
		"status":   "active",
		"priority": "low",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	admin := newTestClient(t)
	loginAsAdmin(t, admin)
	resp, err = admin.PUT("/api/v1/projects/"+projectID, map[string]interface{}{
		"name":     "Admin touched",
		"status":   "on_hold",
		"priority": "low",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestProjects_InvalidDateRange(t *testing.T) {
	client := newTestClient(t)
	_, email, password := registerTestUser(t, client)
	client.LoginAs(t, email, password)

	resp, err := client.POST("/api/v1/projects", map[string]interface{}{
		"name":       "Backwards",
		"start_date": "2026-09-01T00:00:00Z",
		"end_date":   "2026-08-01T00:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestProjects_Members(t *testing.T) {
	client := newTestClient(t)
	memberID, _, _ := registerTestUser(t, client)
	_, email, password := registerTestUser(t, client)
	client.LoginAs(t, email, password)
	projectID := createTestProject(t, client, testutil.RandomName("team"))

	resp, err := client.POST("/api/v1/projects/"+projectID+"/members/"+memberID, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data struct {
			MemberIDs []string `json:"member_ids"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	assert.Contains(t, result.Data.MemberIDs, memberID)

	// Adding again conflicts.
	resp, err = client.POST("/api/v1/projects/"+projectID+"/members/"+memberID, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Unknown users cannot join.
	resp, err = client.POST("/api/v1/projects/"+projectID+"/members/00000000-0000-0000-0000-000000000000", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp, err = client.DELETE("/api/v1/projects/" + projectID + "/members/" + memberID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	testutil.DecodeJSON(t, resp, &result)
	assert.NotContains(t, result.Data.MemberIDs, memberID)
}

func TestProjects_List_Filters(t *testing.T) {
	client := newTestClient(t)
	userID, email, password := registerTestUser(t, client)
	client.LoginAs(t, email, password)

	projectID := createTestProject(t, client, testutil.RandomName("filtered"))

	resp, err := client.GET("/api/v1/projects?created_by=" + userID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data struct {
			Items []struct {
				ID          string `json:"id"`
				CreatedByID string `json:"created_by_id"`
			} `json:"items"`
			Total int `json:"total"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	assert.Equal(t, 1, result.Data.Total)
	require.Len(t, result.Data.Items, 1)
	assert.Equal(t, projectID, result.Data.Items[0].ID)

	// Invalid status filter is rejected.
	bare := newTestClientWithoutValidation()
	bare.Token = client.Token
	resp, err = bare.GET("/api/v1/projects?status=bogus")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
