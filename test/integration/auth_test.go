package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufragio/api/internal/core/domain"
)

// doLogin posts credentials and returns the response along with any cookies
// it set. The test client carries no jar, so callers re-attach cookies
// themselves.
func (app *TestApp) doLogin(t *testing.T, rut, password string) (*http.Response, []*http.Cookie) {
	t.Helper()

	raw, err := json.Marshal(map[string]string{"rut": rut, "password": password})
	require.NoError(t, err)

	resp, err := app.Client.Post(app.Server.URL+"/api/auth/login", "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp, resp.Cookies()
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLoginAndMe(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)
	app.createAdminAndToken(t)

	resp, cookies := app.doLogin(t, testAdminRut, "secreto123")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	access := cookieByName(cookies, "access_token")
	refresh := cookieByName(cookies, "refresh_token")
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	assert.True(t, access.HttpOnly)
	assert.True(t, refresh.HttpOnly)

	req, err := http.NewRequest(http.MethodGet, app.Server.URL+"/api/me", nil)
	require.NoError(t, err)
	req.AddCookie(access)

	meResp, err := app.Client.Do(req)
	require.NoError(t, err)
	defer meResp.Body.Close()
	require.Equal(t, http.StatusOK, meResp.StatusCode)

	var admin domain.Admin
	require.NoError(t, json.NewDecoder(meResp.Body).Decode(&admin))
	assert.Equal(t, domain.NormalizeRut(testAdminRut), admin.Rut)
	assert.Empty(t, admin.PasswordHash)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)
	app.createAdminAndToken(t)

	resp, _ := app.doLogin(t, testAdminRut, "incorrecta")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// check digit of the RUT is wrong
	resp, _ = app.doLogin(t, "12345678-9", "secreto123")
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRefreshAndLogout(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)
	app.createAdminAndToken(t)

	resp, cookies := app.doLogin(t, testAdminRut, "secreto123")
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	refresh := cookieByName(cookies, "refresh_token")
	require.NotNil(t, refresh)

	req, err := http.NewRequest(http.MethodPost, app.Server.URL+"/api/auth/refresh", nil)
	require.NoError(t, err)
	req.AddCookie(refresh)

	refreshResp, err := app.Client.Do(req)
	require.NoError(t, err)
	refreshResp.Body.Close()
	require.Equal(t, http.StatusOK, refreshResp.StatusCode)
	require.NotNil(t, cookieByName(refreshResp.Cookies(), "access_token"))

	req, err = http.NewRequest(http.MethodPost, app.Server.URL+"/api/auth/logout", nil)
	require.NoError(t, err)
	req.AddCookie(refresh)

	logoutResp, err := app.Client.Do(req)
	require.NoError(t, err)
	logoutResp.Body.Close()
	require.Equal(t, http.StatusOK, logoutResp.StatusCode)

	// revoked refresh token no longer works
	req, err = http.NewRequest(http.MethodPost, app.Server.URL+"/api/auth/refresh", nil)
	require.NoError(t, err)
	req.AddCookie(refresh)

	deniedResp, err := app.Client.Do(req)
	require.NoError(t, err)
	deniedResp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, deniedResp.StatusCode)
}
