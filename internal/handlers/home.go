package handlers

import (
	"net/http"

	"kindtrail/internal/middleware"
	"kindtrail/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const captchaSessionKey = "captcha_answer"

// HomeHandler 首页：奖池、随机引言，未登录时附带注册验证码
type HomeHandler struct {
	stories *services.StoryService
	prize   *services.PrizeService
	captcha *services.CaptchaService
}

func NewHomeHandler(stories *services.StoryService, prize *services.PrizeService, captcha *services.CaptchaService) *HomeHandler {
	return &HomeHandler{stories: stories, prize: prize, captcha: captcha}
}

func (h *HomeHandler) Home(c *gin.Context) {
	h.render(c, http.StatusOK, "")
}

// render builds the home page. A fresh captcha is issued for anonymous
// visitors on every render.
func (h *HomeHandler) render(c *gin.Context, code int, errMsg string) {
	ctx := c.Request.Context()
	pool := h.prize.PrizePool(ctx)

	data := gin.H{
		"PrizePool":    pool,
		"WinnersShare": services.WinnersShare(pool),
		"Quote":        h.stories.RandomSnippet(ctx),
	}
	if errMsg != "" {
		data["Error"] = errMsg
	}

	if middleware.CurrentUser(c) == nil {
		question, answer := h.captcha.GenerateMathProblem()
		session := sessions.Default(c)
		session.Set(captchaSessionKey, answer)
		if err := session.Save(); err != nil {
			logrus.WithError(err).Warn("Save captcha answer failed")
		}
		data["Captcha"] = question
	}

	Render(c, code, "home.html", data)
}
