package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"user-api/internal/models"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestExternalData(t *testing.T) {
	resetUsers(t)
	u := createUserAPI(t, "Alice", "alice@example.com", "pw")

	rr := doRequest(t, http.MethodGet, fmt.Sprintf("/external-data?user_id=%d", u.ID), nil, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.JSONEq(t, fmt.Sprintf(`{
		"id": %d, "username": "Alice", "email": "alice@example.com",
		"github": {"name": "Disha", "repo": 12, "followers": 3, "following": 5}
	}`, u.ID), rr.Body.String())

	rr = doRequest(t, http.MethodGet, fmt.Sprintf("/external-data?user_id=%d&username=octocat", u.ID), nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestExternalData_Failures(t *testing.T) {
	resetUsers(t)
	u := createUserAPI(t, "Alice", "alice@example.com", "pw")

	tests := []struct {
		name   string
		query  string
		status int
		body   string
	}{
		{"missing user id", "", http.StatusBadRequest, "user_id is required"},
		{"bad user id", "user_id=abc", http.StatusBadRequest, "user_id must be a positive integer"},
		{"unknown local user", "user_id=9999", http.StatusNotFound, "Local user not found"},
		{"unknown github user", fmt.Sprintf("user_id=%d&username=nobody", u.ID), http.StatusNotFound, "Github user not found"},
		{"provider timeout", fmt.Sprintf("user_id=%d&username=slowpoke", u.ID), http.StatusBadGateway, "Github is unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, http.MethodGet, "/external-data?"+tt.query, nil, nil)
			require.Equal(t, tt.status, rr.Code, rr.Body.String())
			require.Equal(t, tt.body, decode[ErrorResponse](t, rr).Error)
		})
	}
}

func TestCachedUsers(t *testing.T) {
	resetUsers(t)
	createUserAPI(t, "Alice", "alice@example.com", "pw")

	rr := doRequest(t, http.MethodGet, "/cached-users", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	first := decode[[]models.CachedUser](t, rr)
	require.Len(t, first, 1)
	require.NotEmpty(t, first[0].Password, "cached listing carries the stored hash")

	createUserAPI(t, "Bob", "bob@example.com", "pw")
	second := decode[[]models.CachedUser](t, doRequest(t, http.MethodGet, "/cached-users", nil, nil))
	require.Len(t, second, 2, "creating a user must invalidate the cached listing")

	metrics := doRequest(t, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, metrics.Code)
	require.Contains(t, metrics.Body.String(), `user_cache_lookups_total{result="miss"}`)
}

func TestStreamData(t *testing.T) {
	resetUsers(t)
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		_, err := testStore.InsertUser(ctx, fmt.Sprintf("s%d", i), fmt.Sprintf("s%d@example.com", i), "hash")
		require.NoError(t, err)
	}

	rr := doRequest(t, http.MethodGet, "/stream-data", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "application/x-ndjson", rr.Header().Get("Content-Type"))
	require.True(t, rr.Flushed)

	scanner := bufio.NewScanner(strings.NewReader(rr.Body.String()))
	var ids []int64
	for scanner.Scan() {
		var row map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &row))
		require.ElementsMatch(t, []string{"id", "name", "email"}, keys(row))
		ids = append(ids, int64(row["id"].(float64)))
	}
	require.Equal(t, []int64{1, 2, 3, 4, 5}, ids)
}

func TestStreamData_Empty(t *testing.T) {
	resetUsers(t)
	rr := doRequest(t, http.MethodGet, "/stream-data", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Empty(t, rr.Body.String())
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestHealthCheck(t *testing.T) {
	rr := doRequest(t, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, HealthResponse{Status: "ok", Database: "ok"}, decode[HealthResponse](t, rr))
}

type downDB struct{}

func (downDB) Ping(context.Context) error {
	return errors.New("dial tcp 10.0.0.5:5432: connect: connection refused")
}

func TestHealthCheck_DatabaseDown(t *testing.T) {
	srv := NewServer(testServer.config, testServer.users, testTokens, downDB{}, testServer.wsHub, NewMetrics())

	rr := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	require.Equal(t, HealthResponse{Status: "unavailable", Database: "unavailable"}, decode[HealthResponse](t, rr))
	require.NotContains(t, rr.Body.String(), "10.0.0.5")
}

func TestRequestID(t *testing.T) {
	rr := doRequest(t, http.MethodGet, "/health", nil, map[string]string{"X-Request-ID": "abc-123"})
	require.Equal(t, "abc-123", rr.Header().Get("X-Request-ID"))

	rr = doRequest(t, http.MethodGet, "/health", nil, nil)
	require.Len(t, rr.Header().Get("X-Request-ID"), 36)
}

func TestLiveFeed(t *testing.T) {
	resetUsers(t)
	srv := httptest.NewServer(testRouter)
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, err := testTokens.Issue("watcher@example.com")
	require.NoError(t, err)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+token, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return testServer.wsHub.ClientCount() >= 1 }, 2*time.Second, 10*time.Millisecond)

	created := createUserAPI(t, "Live", "live@example.com", "pw")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var event models.UserEvent
	require.NoError(t, json.Unmarshal(raw, &event))
	require.Equal(t, models.UserCreated, event.Type)
	require.Equal(t, created.ID, event.UserID)
}
