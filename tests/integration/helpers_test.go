//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/avelius/taskboard/internal/testutil"
	"github.com/stretchr/testify/require"
)

// authResponse is the payload returned by register and login.
type authResponse struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	Token     string `json:"token"`
}

// registerTestUser registers a fresh account and returns its credentials.
func registerTestUser(t *testing.T, client *testutil.Client) (id, email, password string) {
	t.Helper()

	email = testutil.RandomEmail()
	password = "password-" + email[:8]

	resp, err := client.POST("/api/v1/auth/register", map[string]string{
		"email":      email,
		"password":   password,
		"first_name": "Test",
		"last_name":  "User",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode, testutil.ReadBody(t, resp))

	var result struct {
		Data authResponse `json:"data"`
	}
	resp, err = client.POST("/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	testutil.DecodeJSON(t, resp, &result)

	return result.Data.UserID, email, password
}

// loginAsAdmin authenticates the client with the seeded admin account.
func loginAsAdmin(t *testing.T, client *testutil.Client) {
	t.Helper()
	client.LoginAs(t, adminEmail, adminPassword)
}

// createTestProject creates a project and returns its ID.
func createTestProject(t *testing.T, client *testutil.Client, name string) string {
	t.Helper()

	resp, err := client.POST("/api/v1/projects", map[string]interface{}{
		"name":     name,
		"status":   "active",
		"priority": "medium",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	require.NotEmpty(t, result.Data.ID)

	return result.Data.ID
}

// createTestTask creates a task and returns its ID.
func createTestTask(t *testing.T, client *testutil.Client, title string, extra map[string]interface{}) string {
	t.Helper()

	payload := map[string]interface{}{"title": title}
	for k, v := range extra {
		payload[k] = v
	}

	resp, err := client.POST("/api/v1/tasks", payload)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	require.NotEmpty(t, result.Data.ID)

	return result.Data.ID
}
