package api

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/mindcare/internal/common"
	"github.com/dmitrijs2005/mindcare/internal/server/services"
	"github.com/gin-gonic/gin"
)

const (
	defaultListLimit = 20
	maxListLimit     = 500
)

// intQuery reads a non-negative integer query parameter, falling back to
// def when it is absent and clamping to upper.
func intQuery(c *gin.Context, name string, def, upper int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: name + " must be a non-negative integer"})
		return 0, false
	}
	if n > upper {
		n = upper
	}
	return n, true
}

func (h *handler) sendChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	reply, err := h.Chat.Send(c.Request.Context(), userID(c), req.Message)
	if err != nil {
		if reply == "" {
			h.fail(c, err)
			return
		}
		h.Logger.Warn(c.Request.Context(), "chat reply not recorded", "user_id", userID(c), "error", err)
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

func (h *handler) chatHistory(c *gin.Context) {
	msgs, err := h.Chat.History(c.Request.Context(), userID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

func (h *handler) clearChat(c *gin.Context) {
	if err := h.Chat.Clear(c.Request.Context(), userID(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) tips(c *gin.Context) {
	tips, err := h.Wellness.Tips(c.Request.Context(), userID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tips": tips})
}

func (h *handler) affirmation(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"affirmation": h.Wellness.Affirmation()})
}

func (h *handler) breathing(c *gin.Context) {
	c.JSON(http.StatusOK, h.Wellness.Breathing())
}

func (h *handler) createJournal(c *gin.Context) {
	var req journalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	e, err := h.Journals.Create(c.Request.Context(), userID(c), req.input())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *handler) listJournal(c *gin.Context) {
	limit, ok := intQuery(c, "limit", defaultListLimit, maxListLimit)
	if !ok {
		return
	}

	entries, err := h.Journals.List(c.Request.Context(), userID(c), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *handler) reflect(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.fail(c, common.ErrorNotFound)
		return
	}

	reflection, err := h.Journals.Reflect(c.Request.Context(), userID(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reflection": reflection})
}

func (h *handler) createMood(c *gin.Context) {
	var req moodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	e, err := h.Moods.Create(c.Request.Context(), userID(c), req.input())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *handler) listMoods(c *gin.Context) {
	limit, ok := intQuery(c, "limit", defaultListLimit, maxListLimit)
	if !ok {
		return
	}

	entries, err := h.Moods.List(c.Request.Context(), userID(c), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *handler) moodTrend(c *gin.Context) {
	n, ok := intQuery(c, "n", services.DefaultTrendPoints, maxListLimit)
	if !ok {
		return
	}

	points, err := h.Moods.Trend(c.Request.Context(), userID(c), n)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"points": points})
}

func (h *handler) moodInsights(c *gin.Context) {
	text, summary, err := h.Moods.Insights(c.Request.Context(), userID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"insights": text, "summary": summary})
}

func (h *handler) export(c *gin.Context) {
	res, err := h.Export.Export(c.Request.Context(), userID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
