package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"racego.com/raceapi/pkg/apperror"
	"racego.com/raceapi/pkg/response"
)

type stubTokens map[string]uint

func (s stubTokens) ParseToken(token string) (uint, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return 0, apperror.ErrUnauthorized
}

// stubRaces grants login 1 access to race 7 and fails hard for race 500.
type stubRaces struct{}

func (stubRaces) CheckAccess(_ context.Context, loginID, raceID uint, _ bool) error {
	switch {
	case raceID == 500:
		return errors.New("db down")
	case loginID == 1 && raceID == 7:
		return nil
	default:
		return apperror.ErrUnauthorized
	}
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	m := NewAuthMiddleware(stubTokens{"good": 1, "other": 2}, stubRaces{}, "X-Race-ID")

	r := gin.New()
	r.Use(RequestID())
	r.GET("/me", m.RequireAuth(), func(c *gin.Context) {
		id, _ := response.GetLoginID(c)
		c.JSON(http.StatusOK, gin.H{"login_id": id})
	})
	r.GET("/race", m.RequireAuth(), m.RequireRaceAccess(), func(c *gin.Context) {
		id, _ := response.GetRaceID(c)
		c.JSON(http.StatusOK, gin.H{"race_id": id})
	})
	return r
}

func do(r http.Handler, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	r := newRouter()

	w := do(r, "/me", map[string]string{"Authorization": "Bearer good"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"login_id":1}`, w.Body.String())

	w = do(r, "/me?token=good", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	for _, h := range []map[string]string{nil, {"Authorization": "Bearer bad"}, {"Authorization": "good"}} {
		w = do(r, "/me", h)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var body response.ErrorBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, apperror.CodeAuthRequired, body.Code)
	}
}

func TestRequireRaceAccess(t *testing.T) {
	r := newRouter()

	w := do(r, "/race", map[string]string{"Authorization": "Bearer good", "X-Race-ID": "7"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"race_id":7}`, w.Body.String())

	w = do(r, "/race?race_id=7&token=good", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	tests := []struct {
		name    string
		headers map[string]string
		status  int
	}{
		{"missing header", map[string]string{"Authorization": "Bearer good"}, http.StatusUnauthorized},
		{"garbage header", map[string]string{"Authorization": "Bearer good", "X-Race-ID": "abc"}, http.StatusUnauthorized},
		{"zero race", map[string]string{"Authorization": "Bearer good", "X-Race-ID": "0"}, http.StatusUnauthorized},
		{"not a manager", map[string]string{"Authorization": "Bearer other", "X-Race-ID": "7"}, http.StatusUnauthorized},
		{"lookup failure", map[string]string{"Authorization": "Bearer good", "X-Race-ID": "500"}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, "/race", tt.headers)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRequestID(t *testing.T) {
	r := newRouter()

	w := do(r, "/me", nil)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	const id = "0b6f8f8e-4a8e-4a4c-9d6d-3b1f2c7e9a10"
	w = do(r, "/me", map[string]string{RequestIDHeader: id})
	assert.Equal(t, id, w.Header().Get(RequestIDHeader))
}
