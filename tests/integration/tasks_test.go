//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/avelius/taskboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTasks_CRUD(t *testing.T) {
	client := newTestClient(t)
	_, email, password := registerTestUser(t, client)
	client.LoginAs(t, email, password)

	resp, err := client.POST("/api/v1/tasks", map[string]interface{}{
		"title":       "Write integration tests",
		"description": "cover the whole task lifecycle",
		"priority":    "high",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		Data struct {
			ID       string `json:"id"`
			Status   string `json:"status"`
			Priority string `json:"priority"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &created)
	assert.Equal(t, "todo", created.Data.Status)
	assert.Equal(t, "high", created.Data.Priority)

	resp, err = client.PATCH("/api/v1/tasks/"+created.Data.ID+"/status", map[string]string{
		"status": "in_progress",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var moved struct {
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &moved)
	assert.Equal(t, "in_progress", moved.Data.Status)

	resp, err = client.DELETE("/api/v1/tasks/" + created.Data.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp, err = client.GET("/api/v1/tasks/" + created.Data.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestTasks_ReferenceValidation(t *testing.T) {
	client := newTestClient(t)
	_, email, password := registerTestUser(t, client)
	client.LoginAs(t, email, password)

	resp, err := client.POST("/api/v1/tasks", map[string]interface{}{
		"title":      "Orphan",
		"project_id": "00000000-0000-0000-0000-000000000000",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp, err = client.POST("/api/v1/tasks", map[string]interface{}{
		"title":          "Unassignable",
		"assigned_to_id": "00000000-0000-0000-0000-000000000000",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestTasks_ProjectDeletion_ClearsLink(t *testing.T) {
	client := newTestClient(t)
	_, email, password := registerTestUser(t, client)
	client.LoginAs(t, email, password)

	projectID := createTestProject(t, client, testutil.RandomName("doomed"))
	taskID := createTestTask(t, client, "Survivor", map[string]interface{}{
		"project_id": projectID,
	})

	resp, err := client.DELETE("/api/v1/projects/" + projectID)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	// The task survives with the project link cleared.
	resp, err = client.GET("/api/v1/tasks/" + taskID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data struct {
			ProjectID *string `json:"project_id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	assert.Nil(t, result.Data.ProjectID)
}

func TestTasks_List_Filters(t *testing.T) {
	client := newTestClient(t)
	userID, email, password := registerTestUser(t, client)
	client.LoginAs(t, email, password)

	projectID := createTestProject(t, client, testutil.RandomName("tasks"))
	createTestTask(t, client, "Mine in project", map[string]interface{}{
		"project_id":     projectID,
		"assigned_to_id": userID,
		"status":         "in_progress",
	})
	createTestTask(t, client, "Unrelated", nil)

	resp, err := client.GET("/api/v1/tasks?project_id=" + projectID + "&assigned_to=" + userID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data struct {
			Items []struct {
				Title string `json:"title"`
			} `json:"items"`
			Total int `json:"total"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	assert.Equal(t, 1, result.Data.Total)
	require.Len(t, result.Data.Items, 1)
	assert.Equal(t, "Mine in project", result.Data.Items[0].Title)

	resp, err = client.GET("/api/v1/tasks?status=in_progress&project_id=" + projectID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	testutil.DecodeJSON(t, resp, &result)
	assert.Equal(t, 1, result.Data.Total)
}
