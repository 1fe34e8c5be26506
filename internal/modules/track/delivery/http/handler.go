package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"racego.com/raceapi/internal/modules/track/dto"
	trackService "racego.com/raceapi/internal/modules/track/service"
	"racego.com/raceapi/pkg/response"
	"racego.com/raceapi/pkg/validator"
)

type TrackHandler struct {
	service trackService.TrackService
}

func NewTrackHandler(service trackService.TrackService) *TrackHandler {
	return &TrackHandler{service: service}
}

func (h *TrackHandler) GetTrack(c *gin.Context) {
	raceID, err := response.GetRaceID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	onTrack, err := h.service.GetTrack(c.Request.Context(), raceID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, onTrack)
}

func (h *TrackHandler) AddOntrack(c *gin.Context) {
	var req dto.TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, validator.BindError(err))
		return
	}

	raceID, err := response.GetRaceID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.AddOntrack(c.Request.Context(), raceID, req.ID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *TrackHandler) SubmitLap(c *gin.Context) {
	var req dto.SubmitLapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, validator.BindError(err))
		return
	}

	raceID, err := response.GetRaceID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.SubmitLap(c.Request.Context(), raceID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *TrackHandler) CancelLap(c *gin.Context) {
	var req dto.TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, validator.BindError(err))
		return
	}

	raceID, err := response.GetRaceID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.CancelLap(c.Request.Context(), raceID, req.ID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
