//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/avelius/taskboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsers_List_Pagination(t *testing.T) {
	client := newTestClient(t)
	for i := 0; i < 3; i++ {
		registerTestUser(t, client)
	}

	loginAsAdmin(t, client)
	resp, err := client.GET("/api/v1/users?page=1&page_size=2")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data struct {
			Items    []map[string]interface{} `json:"items"`
			Total    int                      `json:"total"`
			Page     int                      `json:"page"`
			PageSize int                      `json:"page_size"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	assert.Len(t, result.Data.Items, 2)
	assert.GreaterOrEqual(t, result.Data.Total, 4) // 3 fresh users plus the admin
	assert.Equal(t, 1, result.Data.Page)
	assert.Equal(t, 2, result.Data.PageSize)

	// Password hashes must never appear in responses.
	for _, item := range result.Data.Items {
		_, ok := item["password_hash"]
		assert.False(t, ok)
	}
}

func TestUsers_Get_SelfOrAdmin(t *testing.T) {
	client := newTestClient(t)
	userID, email, password := registerTestUser(t, client)
	otherID, _, _ := registerTestUser(t, client)

	client.LoginAs(t, email, password)

	// Own profile is visible.
	resp, err := client.GET("/api/v1/users/" + userID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Another user's profile is not.
	resp, err = client.GET("/api/v1/users/" + otherID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Admins see everyone.
	loginAsAdmin(t, client)
	resp, err = client.GET("/api/v1/users/" + otherID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestUsers_UpdateProfile(t *testing.T) {
	client := newTestClient(t)
	userID, email, password := registerTestUser(t, client)
	client.LoginAs(t, email, password)

	resp, err := client.PUT("/api/v1/users/"+userID, map[string]string{
		"first_name": "Updated",
		"last_name":  "Name",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data struct {
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	assert.Equal(t, "Updated", result.Data.FirstName)
	assert.Equal(t, "Name", result.Data.LastName)
}

func TestUsers_ChangePassword(t *testing.T) {
	client := newTestClient(t)
	userID, email, password := registerTestUser(t, client)
	client.LoginAs(t, email, password)

	resp, err := client.PUT("/api/v1/users/"+userID+"/password", map[string]string{
		"current_password": password,
		"new_password":     "brand-new-password",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	// The old password no longer works, the new one does.
	bare := newTestClientWithoutValidation()
	resp, err = bare.POST("/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	client.LoginAs(t, email, "brand-new-password")
}

func TestUsers_ChangePassword_WrongCurrent(t *testing.T) {
	client := newTestClient(t)
	userID, email, password := registerTestUser(t, client)
	client.LoginAs(t, email, password)

	resp, err := client.PUT("/api/v1/users/"+userID+"/password", map[string]string{
		"current_password": "not-the-password",
		"new_password":     "brand-new-password",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestUsers_ChangePassword_OnlySelf(t *testing.T) {
	client := newTestClient(t)
	userID, _, _ := registerTestUser(t, client)

	// Even an admin cannot change someone else's password directly.
	loginAsAdmin(t, client)
	resp, err := client.PUT("/api/v1/users/"+userID+"/password", map[string]string{
		"current_password": "whatever",
		"new_password":     "brand-new-password",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestUsers_ChangeRole(t *testing.T) {
	client := newTestClient(t)
	userID, email, password := registerTestUser(t, client)

	loginAsAdmin(t, client)
	resp, err := client.PUT("/api/v1/users/"+userID+"/role", map[string]string{
		"role": "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data struct {
			Role string `json:"role"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	assert.Equal(t, "admin", result.Data.Role)

	// A fresh token carries the new role.
	promoted := newTestClient(t)
	promoted.LoginAs(t, email, password)
	resp, err = promoted.GET("/api/v1/users")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestUsers_AdminCannotActOnSelf(t *testing.T) {
	client := newTestClient(t)
	loginAsAdmin(t, client)

	resp, err := client.GET("/api/v1/auth/me")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &me)

	resp, err = client.DELETE("/api/v1/users/" + me.Data.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp, err = client.PUT("/api/v1/users/"+me.Data.ID+"/status", map[string]interface{}{
		"is_active": false,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestUsers_Delete(t *testing.T) {
	client := newTestClient(t)
	userID, _, _ := registerTestUser(t, client)

	loginAsAdmin(t, client)
	resp, err := client.DELETE("/api/v1/users/" + userID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp, err = client.GET("/api/v1/users/" + userID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
