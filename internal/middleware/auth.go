package middleware

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"racego.com/raceapi/pkg/apperror"
	"racego.com/raceapi/pkg/response"
)

// TokenParser resolves a bearer token to a login id.
type TokenParser interface {
	ParseToken(tokenString string) (uint, error)
}

// AccessChecker decides whether a login may act on a race.
type AccessChecker interface {
	CheckAccess(ctx context.Context, loginID, raceID uint, adminOnly bool) error
}

type AuthMiddleware struct {
	tokens     TokenParser
	races      AccessChecker
	raceHeader string
}

func NewAuthMiddleware(tokens TokenParser, races AccessChecker, raceHeader string) *AuthMiddleware {
	if raceHeader == "" {
		raceHeader = "X-Race-ID"
	}

	return &AuthMiddleware{
		tokens:     tokens,
		races:      races,
		raceHeader: raceHeader,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")

		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		// Fallback to query parameter "token" (useful for WebSockets)
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			response.AbortUnauthorized(c, "authorization required")
			return
		}

		loginID, err := m.tokens.ParseToken(tokenString)
		if err != nil {
			response.AbortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(response.KeyLoginID, loginID)
		c.Next()
	}
}

// RequireRaceAccess reads the race id from the race header, or the race_id
// query parameter for clients that cannot set headers, and lets the request
// through only if the authenticated login manages that race.
func (m *AuthMiddleware) RequireRaceAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		loginID, err := response.GetLoginID(c)
		if err != nil {
			response.AbortUnauthorized(c, "authorization required")
			return
		}

		raw := c.GetHeader(m.raceHeader)
		if raw == "" {
			raw = c.Query("race_id")
		}

		raceID, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
		if err != nil || raceID == 0 {
			response.AbortUnauthorized(c, "a valid race id is required")
			return
		}

		if err := m.races.CheckAccess(c.Request.Context(), loginID, uint(raceID), false); err != nil {
			if errors.Is(err, apperror.ErrUnauthorized) {
				response.AbortUnauthorized(c, "no access to this race")
				return
			}
			response.ResponseError(c, err)
			return
		}

		c.Set(response.KeyRaceID, uint(raceID))
		c.Next()
	}
}
