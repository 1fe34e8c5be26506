package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"racego.com/raceapi/internal/config"
	"racego.com/raceapi/internal/testutil"
	"racego.com/raceapi/pkg/apperror"
	"racego.com/raceapi/pkg/response"
)

type client struct {
	t       *testing.T
	handler http.Handler
	token   string
	raceID  uint
}

func (c *client) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.raceID != 0 {
		req.Header.Set("X-Race-ID", fmt.Sprint(c.raceID))
	}

	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func newClient(t *testing.T) *client {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	testutil.CreateLogin(t, db, "alice")
	testutil.CreateLogin(t, db, "bob")

	cfg := &config.Config{
		AllowedOrigins: "http://localhost:3000",
		JWTSecret:      "test-secret",
		JWTTTL:         time.Hour,
		RaceHeader:     "X-Race-ID",
		RateLimitLogin: time.Second,
	}
	return &client{t: t, handler: NewServer(cfg, db, nil, nil).Handler()}
}

func (c *client) login(username string) {
	c.t.Helper()
	c.token = ""
	w := c.do(http.MethodPost, "/v1/login", gin.H{"username": username, "password": testutil.Password})
	require.Equal(c.t, http.StatusOK, w.Code, w.Body.String())
	c.token = decode[struct {
		AccessToken string `json:"access_token"`
	}](c.t, w).AccessToken
}

func TestRaceTimingFlow(t *testing.T) {
	c := newClient(t)
	c.login("alice")

	w := c.do(http.MethodPost, "/v1/race", gin.H{"name": "Spring Cup"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	c.raceID = decode[struct {
		RaceID uint `json:"race_id"`
	}](t, w).RaceID

	w = c.do(http.MethodPost, "/v1/user", gin.H{"first_name": "Jane", "last_name": "Doe", "class": []string{"A"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	userID := decode[struct {
		ID uint `json:"id"`
	}](t, w).ID

	w = c.do(http.MethodPost, "/v1/ontrack", gin.H{"id": userID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = c.do(http.MethodPost, "/v1/ontrack", gin.H{"id": userID})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperror.CodeAlreadyExists, decode[response.ErrorBody](t, w).Code)

	w = c.do(http.MethodGet, "/v1/track", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]gin.H](t, w), 1)

	w = c.do(http.MethodPut, "/v1/ontrack", gin.H{"id": userID, "time": "1:30"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = c.do(http.MethodPut, "/v1/ontrack", gin.H{"id": userID, "time": "00:01:30.000"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = c.do(http.MethodGet, "/v1/track", nil)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = c.do(http.MethodGet, "/v1/categories", nil)
	assert.JSONEq(t, `["A"]`, w.Body.String())

	w = c.do(http.MethodGet, "/v1/ranking/all", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, fmt.Sprintf(
		`[{"id":%d,"first_name":"Jane","last_name":"Doe","best_time":"00:01:30.000","rank":1}]`, userID),
		w.Body.String())

	w = c.do(http.MethodGet, fmt.Sprintf("/v1/user/%d", userID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, fmt.Sprintf(
		`{"id":%d,"first_name":"Jane","last_name":"Doe","class":["A"],"laps":["00:01:30.000"]}`, userID),
		w.Body.String())

	w = c.do(http.MethodDelete, "/v1/user", gin.H{"id": userID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"affected_rows":1}`, w.Body.String())
}

func TestRaceScopeIsEnforced(t *testing.T) {
	c := newClient(t)
	c.login("alice")

	w := c.do(http.MethodPost, "/v1/race", gin.H{"name": "Private"})
	require.Equal(t, http.StatusCreated, w.Code)
	raceID := decode[struct {
		RaceID uint `json:"race_id"`
	}](t, w).RaceID

	c.login("bob")
	c.raceID = raceID

	w = c.do(http.MethodGet, "/v1/user", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = c.do(http.MethodGet, fmt.Sprintf("/v1/race/%d", raceID), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c.token = ""
	w = c.do(http.MethodGet, "/v1/races", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestManagerRoutes(t *testing.T) {
	c := newClient(t)
	c.login("alice")

	w := c.do(http.MethodPost, "/v1/race", gin.H{"name": "Shared"})
	require.Equal(t, http.StatusCreated, w.Code)
	raceID := decode[struct {
		RaceID uint `json:"race_id"`
	}](t, w).RaceID

	w = c.do(http.MethodPost, "/v1/race/manager", gin.H{"username": "bob", "race_id": raceID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = c.do(http.MethodPost, "/v1/race/manager", gin.H{"username": "bob", "race_id": raceID})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = c.do(http.MethodGet, fmt.Sprintf("/v1/managers/%d", raceID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]gin.H](t, w), 2)

	c.login("bob")
	c.raceID = raceID
	w = c.do(http.MethodGet, "/v1/user", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestSearchDisabledWithoutMeilisearch(t *testing.T) {
	c := newClient(t)
	c.login("alice")

	w := c.do(http.MethodPost, "/v1/race", gin.H{"name": "Cup"})
	require.Equal(t, http.StatusCreated, w.Code)
	c.raceID = decode[struct {
		RaceID uint `json:"race_id"`
	}](t, w).RaceID

	w = c.do(http.MethodGet, "/v1/user/search?q=doe", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRaceStats(t *testing.T) {
	c := newClient(t)
	c.login("alice")

	w := c.do(http.MethodPost, "/v1/race", gin.H{"name": "Cup"})
	require.Equal(t, http.StatusCreated, w.Code)
	c.raceID = decode[struct {
		RaceID uint `json:"race_id"`
	}](t, w).RaceID

	w = c.do(http.MethodPost, "/v1/user", gin.H{"first_name": "Jane", "last_name": "Doe", "laps": []string{"00:01:00.000"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = c.do(http.MethodGet, "/v1/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"competitors":1,"laps":1,"on_track":0,"categories":0}`, w.Body.String())
}
