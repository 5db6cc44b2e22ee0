package handlers

import (
	"net/http"

	"kindtrail/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Profile 用户主页：已发布故事数、累计 cheer、获奖次数
func (h *UserHandler) Profile(c *gin.Context) {
	stats, err := h.users.Stats(c.Request.Context(), c.Param("username"))
	if err != nil {
		RenderError(c, statusFor(err), ErrorMessage(err))
		return
	}
	Render(c, http.StatusOK, "profile.html", gin.H{"Stats": stats})
}
