package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"racego.com/raceapi/internal/modules/ranking/dto"
	rankingService "racego.com/raceapi/internal/modules/ranking/service"
	"racego.com/raceapi/pkg/response"
	"racego.com/raceapi/pkg/validator"
)

type RankingHandler struct {
	service rankingService.RankingService
}

func NewRankingHandler(service rankingService.RankingService) *RankingHandler {
	return &RankingHandler{service: service}
}

func (h *RankingHandler) GetCategories(c *gin.Context) {
	raceID, err := response.GetRaceID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	categories, err := h.service.GetCategories(c.Request.Context(), raceID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

// GetRanking serves /v1/ranking/:class where class is a label or "all".
func (h *RankingHandler) GetRanking(c *gin.Context) {
	var uri dto.RankingURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.ResponseError(c, validator.BindError(err))
		return
	}

	raceID, err := response.GetRaceID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	ranking, err := h.service.GetRanking(c.Request.Context(), raceID, uri.Class)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, ranking)
}
