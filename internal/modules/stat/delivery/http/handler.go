package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	statService "racego.com/raceapi/internal/modules/stat/service"
	"racego.com/raceapi/pkg/response"
)

type StatHandler struct {
	statService statService.StatService
}

func NewStatHandler(statService statService.StatService) *StatHandler {
	return &StatHandler{
		statService: statService,
	}
}

func (h *StatHandler) GetRaceStats(c *gin.Context) {
	raceID, err := response.GetRaceID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	stats, err := h.statService.GetRaceStats(c.Request.Context(), raceID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
