package integration

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRequestsWithoutTokenAreRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	for _, path := range []string{
		"/api/elections/",
		"/api/members/me",
	} {
		resp := app.request(t, "GET", path, "", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		resp.Body.Close()
	}

	resp := app.request(t, "POST", "/api/elections/start", "", map[string]any{"configId": uuid.New()})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestTokenWithWrongSignatureIsRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	claims := jwt.MapClaims{
		"sub": uuid.New().String(),
		"exp": time.Now().Add(15 * time.Minute).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	forged, err := token.SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	resp := app.request(t, "GET", "/api/members/me", forged, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestBearerHeaderIsAccepted(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	churchID := uuid.New()
	member := app.createMember(t, churchID, "Bearer Member", "voter")

	req, err := http.NewRequest("GET", app.Server.URL+"/api/members/me", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, member))

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestAdminEndpointsRequireAdminRole(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	churchID := uuid.New()
	voter := app.createMember(t, churchID, "Plain Voter", "voter")
	readonly := app.createMember(t, churchID, "Observer", "readonly")

	for _, token := range []string{tokenFor(t, voter), tokenFor(t, readonly)} {
		resp := app.request(t, "POST", "/api/elections/start", token, map[string]any{"configId": uuid.New()})
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
		resp.Body.Close()

		resp = app.request(t, "POST", "/api/elections/config", token, map[string]any{
			"churchId":  churchID,
			"title":     "Should Fail",
			"positions": []string{"Elder"},
		})
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
		resp.Body.Close()
	}
}
