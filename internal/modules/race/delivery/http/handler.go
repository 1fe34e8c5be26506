package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"racego.com/raceapi/internal/modules/race/dto"
	raceService "racego.com/raceapi/internal/modules/race/service"
	"racego.com/raceapi/pkg/response"
	"racego.com/raceapi/pkg/validator"
)

type RaceHandler struct {
	service raceService.RaceService
}

func NewRaceHandler(service raceService.RaceService) *RaceHandler {
	return &RaceHandler{service: service}
}

func (h *RaceHandler) GetRaces(c *gin.Context) {
	loginID, err := response.GetLoginID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	races, err := h.service.ListRaces(c.Request.Context(), loginID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, races)
}

func (h *RaceHandler) CreateRace(c *gin.Context) {
	var req dto.CreateRaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, validator.BindError(err))
		return
	}

	loginID, err := response.GetLoginID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.CreateRace(c.Request.Context(), loginID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *RaceHandler) UpdateRace(c *gin.Context) {
	var req dto.UpdateRaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, validator.BindError(err))
		return
	}

	loginID, err := response.GetLoginID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.UpdateRace(c.Request.Context(), loginID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *RaceHandler) DeleteRace(c *gin.Context) {
	var req dto.DeleteRaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, validator.BindError(err))
		return
	}

	loginID, err := response.GetLoginID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.DeleteRace(c.Request.Context(), loginID, req.ID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *RaceHandler) GetRaceDetails(c *gin.Context) {
	var uri dto.RaceURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.ResponseError(c, validator.BindError(err))
		return
	}

	loginID, err := response.GetLoginID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	details, err := h.service.GetRaceDetails(c.Request.Context(), loginID, uri.ID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

func (h *RaceHandler) UpdateRaceDetails(c *gin.Context) {
	var uri dto.RaceURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.ResponseError(c, validator.BindError(err))
		return
	}

	var req dto.UpdateRaceDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, validator.BindError(err))
		return
	}

	loginID, err := response.GetLoginID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	details, err := h.service.UpdateRaceDetails(c.Request.Context(), loginID, uri.ID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

func (h *RaceHandler) GetManagers(c *gin.Context) {
	var uri dto.RaceURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.ResponseError(c, validator.BindError(err))
		return
	}

	loginID, err := response.GetLoginID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	managers, err := h.service.GetManagers(c.Request.Context(), loginID, uri.ID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, managers)
}

func (h *RaceHandler) AddManager(c *gin.Context) {
	var req dto.ManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, validator.BindError(err))
		return
	}

	loginID, err := response.GetLoginID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.AddManager(c.Request.Context(), loginID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *RaceHandler) DeleteManager(c *gin.Context) {
	var req dto.ManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, validator.BindError(err))
		return
	}

	loginID, err := response.GetLoginID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.DeleteManager(c.Request.Context(), loginID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
