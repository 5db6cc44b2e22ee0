package handlers

import (
	"net/http"

	"kindtrail/internal/services"
	"kindtrail/internal/utils"

	"github.com/gin-gonic/gin"
)

// ContestHandler 月度评选、往期获奖与排行榜
type ContestHandler struct {
	stories *services.StoryService
	prize   *services.PrizeService
	winners *services.WinnerService
}

func NewContestHandler(stories *services.StoryService, prize *services.PrizeService, winners *services.WinnerService) *ContestHandler {
	return &ContestHandler{stories: stories, prize: prize, winners: winners}
}

func (h *ContestHandler) Archive(c *gin.Context) {
	Render(c, http.StatusOK, "archive.html", gin.H{
		"Archived": h.stories.ListArchived(c.Request.Context()),
	})
}

// Winner runs the monthly selection on demand.
func (h *ContestHandler) Winner(c *gin.Context) {
	report, err := h.winners.PickWinner(c.Request.Context())
	winnerRunsTotal.Inc()
	if err != nil {
		RenderError(c, statusFor(err), ErrorMessage(err))
		return
	}
	Render(c, http.StatusOK, "winner.html", gin.H{
		"Report": report,
		"Lines":  winnerLines(report),
	})
}

func (h *ContestHandler) Leaderboard(c *gin.Context) {
	limit := utils.StringToInt(c.Query("limit"))
	Render(c, http.StatusOK, "leaderboard.html", gin.H{
		"Leaders": h.prize.Leaderboard(c.Request.Context(), limit),
	})
}
