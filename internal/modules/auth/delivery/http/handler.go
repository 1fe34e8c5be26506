package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"racego.com/raceapi/internal/modules/auth/dto"
	authService "racego.com/raceapi/internal/modules/auth/service"
	"racego.com/raceapi/pkg/ratelimiter"
	"racego.com/raceapi/pkg/response"
	"racego.com/raceapi/pkg/validator"
)

type AuthHandler struct {
	service authService.AuthService
}

func NewAuthHandler(service authService.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ResponseError(c, validator.BindError(err))
		return
	}

	res, err := h.service.Login(c.Request.Context(), input)
	if err != nil {
		var rateLimitErr *ratelimiter.RateLimitError
		if errors.As(err, &rateLimitErr) {
			c.Header("Retry-After", fmt.Sprintf("%.0f", rateLimitErr.RetryAfter.Seconds()))
		}
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) Me(c *gin.Context) {
	loginID, err := response.GetLoginID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	login, err := h.service.Me(c.Request.Context(), loginID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, login)
}
