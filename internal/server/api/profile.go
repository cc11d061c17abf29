package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handler) getProfile(c *gin.Context) {
	p, err := h.Profiles.Get(c.Request.Context(), userID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newProfileResponse(p))
}

func (h *handler) saveNutrition(c *gin.Context) {
	var req nutritionProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.Profiles.SaveNutrition(c.Request.Context(), userID(c), req.model())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newProfileResponse(p))
}

func (h *handler) saveWellness(c *gin.Context) {
	var req wellnessProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.Profiles.SaveWellness(c.Request.Context(), userID(c), req.model())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newProfileResponse(p))
}
