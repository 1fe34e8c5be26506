package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"racego.com/raceapi/internal/modules/competitor/dto"
	competitorService "racego.com/raceapi/internal/modules/competitor/service"
	"racego.com/raceapi/pkg/response"
	"racego.com/raceapi/pkg/validator"
)

// CompetitorHandler serves the /v1/user routes. Every route runs behind the
// race scope middleware.
type CompetitorHandler struct {
	service competitorService.CompetitorService
}

func NewCompetitorHandler(service competitorService.CompetitorService) *CompetitorHandler {
	return &CompetitorHandler{service: service}
}

func (h *CompetitorHandler) GetUsers(c *gin.Context) {
	raceID, err := response.GetRaceID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	users, err := h.service.GetUsers(c.Request.Context(), raceID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *CompetitorHandler) GetUserDetails(c *gin.Context) {
	var uri dto.CompetitorURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.ResponseError(c, validator.BindError(err))
		return
	}

	raceID, err := response.GetRaceID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	details, err := h.service.GetUserDetails(c.Request.Context(), raceID, uri.ID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

func (h *CompetitorHandler) AddUser(c *gin.Context) {
	var req dto.CompetitorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, validator.BindError(err))
		return
	}

	raceID, err := response.GetRaceID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.AddUser(c.Request.Context(), raceID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *CompetitorHandler) SetUserDetails(c *gin.Context) {
	var uri dto.CompetitorURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.ResponseError(c, validator.BindError(err))
		return
	}

	var req dto.CompetitorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, validator.BindError(err))
		return
	}

	raceID, err := response.GetRaceID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	details, err := h.service.SetUserDetails(c.Request.Context(), raceID, uri.ID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

func (h *CompetitorHandler) DeleteUser(c *gin.Context) {
	var req dto.DeleteCompetitorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, validator.BindError(err))
		return
	}

	raceID, err := response.GetRaceID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.DeleteUser(c.Request.Context(), raceID, req.ID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *CompetitorHandler) SearchUsers(c *gin.Context) {
	var query dto.SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ResponseError(c, validator.BindError(err))
		return
	}

	raceID, err := response.GetRaceID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	users, err := h.service.SearchUsers(c.Request.Context(), raceID, query)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}
