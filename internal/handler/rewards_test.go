package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/00WhengWheng/T4G-backend/internal/api"
	"github.com/00WhengWheng/T4G-backend/internal/auth"
	"github.com/00WhengWheng/T4G-backend/internal/handler"
	"github.com/00WhengWheng/T4G-backend/internal/middleware"
	"github.com/00WhengWheng/T4G-backend/internal/rewards"
	"github.com/00WhengWheng/T4G-backend/internal/store"
	"github.com/00WhengWheng/T4G-backend/internal/tenants"
	"github.com/00WhengWheng/T4G-backend/internal/users"
)

func setupAPI(t *testing.T) (http.Handler, *users.Service) {
	t.Helper()
	st := store.NewMemory()
	userService := users.NewService(st)
	tenantService := tenants.NewService(st)
	orchestrator := rewards.New(st, userService, rewards.Options{})

	middleware.Verifier = auth.NewTokenVerifier("test-secret")
	handler.Init(orchestrator, userService, tenantService, auth.NewAuth0Service(auth.Auth0Config{}))

	return api.SetupRouter(), userService
}

func createUser(t *testing.T, svc *users.Service, email string) string {
	t.Helper()
	user, err := svc.Create(context.Background(), users.CreateUserInput{Email: email, Auth0ID: "auth0|" + email})
	require.NoError(t, err)
	return user.ID
}

func postAction(router http.Handler, userID, actionType string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]interface{}{"userId": userID, "type": actionType})
	req := httptest.NewRequest(http.MethodPost, "/rewards/actions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestLogActionEndpoint(t *testing.T) {
	router, userService := setupAPI(t)
	userID := createUser(t, userService, "marco@t4g.fun")

	rec := postAction(router, userID, "SCAN")
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, true, resp["success"])
	require.Equal(t, float64(1), resp["coinsAwarded"])
}

func TestLogActionEndpointValidation(t *testing.T) {
	router, userService := setupAPI(t)
	userID := createUser(t, userService, "marco@t4g.fun")

	rec := postAction(router, "", "SCAN")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postAction(router, userID, "JUMP")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postAction(router, "unknown-user", "SCAN")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLeaderboardEndpointValidation(t *testing.T) {
	router, _ := setupAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/rewards/leaderboard?limit=101", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/rewards/leaderboard?offset=-1", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/rewards/leaderboard/users/u1/context?range=21", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/rewards/leaderboard/actions/JUMP", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLeaderboardEndpoint(t *testing.T) {
	router, userService := setupAPI(t)

	for i := 0; i < 3; i++ {
		userID := createUser(t, userService, fmt.Sprintf("user%d@t4g.fun", i))
		for j := 0; j <= i; j++ {
			rec := postAction(router, userID, "SCAN")
			require.Equal(t, http.StatusCreated, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/rewards/leaderboard?limit=2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    []struct {
			UserID     string `json:"userId"`
			TotalScore int    `json:"totalScore"`
			Position   int    `json:"position"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Len(t, resp.Data, 2)
	require.Equal(t, 3, resp.Data[0].TotalScore)
	require.Equal(t, 1, resp.Data[0].Position)
}

func TestGiftEligibilityEndToEnd(t *testing.T) {
	router, userService := setupAPI(t)
	userID := createUser(t, userService, "marco@t4g.fun")

	for i := 0; i < 8; i++ {
		require.Equal(t, http.StatusCreated, postAction(router, userID, "SCAN").Code)
	}
	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusCreated, postAction(router, userID, "SHARE").Code)
	}
	for i := 0; i < 8; i++ {
		require.Equal(t, http.StatusCreated, postAction(router, userID, "GAME").Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/rewards/users/"+userID+"/eligibility", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			GiftEligible    bool `json:"giftEligible"`
			MonthlyProgress struct {
				Scans  int `json:"scans"`
				Shares int `json:"shares"`
				Games  int `json:"games"`
			} `json:"monthlyProgress"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Data.GiftEligible)
	require.Equal(t, 8, resp.Data.MonthlyProgress.Scans)
	require.Equal(t, 3, resp.Data.MonthlyProgress.Shares)
	require.Equal(t, 8, resp.Data.MonthlyProgress.Games)

	req = httptest.NewRequest(http.MethodGet, "/rewards/eligibility/gifts", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var eligible struct {
		Data struct {
			EligibleUsers []string `json:"eligibleUsers"`
			Count         int      `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &eligible))
	require.Equal(t, 1, eligible.Data.Count)
	require.Contains(t, eligible.Data.EligibleUsers, userID)
}

func TestSummaryEndpointUnknownUser(t *testing.T) {
	router, _ := setupAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/rewards/users/ghost/summary", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResetEndpoints(t *testing.T) {
	router, _ := setupAPI(t)

	for _, path := range []string{"/rewards/admin/reset/weekly", "/rewards/admin/reset/monthly"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := setupAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/rewards/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "healthy", resp["status"])
	require.NotEmpty(t, resp["timestamp"])
}
