package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"kindtrail/internal/middleware"
	"kindtrail/internal/services"
	"kindtrail/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	users   *services.UserService
	captcha *services.CaptchaService
	home    *HomeHandler
}

func NewAuthHandler(users *services.UserService, captcha *services.CaptchaService, home *HomeHandler) *AuthHandler {
	return &AuthHandler{users: users, captcha: captcha, home: home}
}

// Login signs in an existing username. Unknown usernames are registered on
// the spot once the home page captcha is answered.
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	username := strings.TrimSpace(c.PostForm("username"))
	logCtx := logrus.WithField("username", username)

	if username == "" {
		h.home.render(c, http.StatusBadRequest, emptyUsernameMessage())
		return
	}
	if !utils.ValidateUsername(username) {
		logCtx.Warn("Login rejected: invalid username format")
		h.home.render(c, http.StatusBadRequest, ErrorMessage(&services.ValidationError{Field: services.FieldUsername}))
		return
	}

	exists, err := h.users.Exists(ctx, username)
	if err != nil {
		h.home.render(c, http.StatusInternalServerError, ErrorMessage(err))
		return
	}

	session := sessions.Default(c)
	if !exists {
		expected, ok := session.Get(captchaSessionKey).(int)
		if !ok {
			h.home.render(c, http.StatusBadRequest, ErrorMessage(services.ErrInvalidCaptcha))
			return
		}
		if err := h.captcha.Check(expected, c.PostForm("captcha")); err != nil {
			logCtx.Warn("Login rejected: wrong captcha for new user")
			h.home.render(c, http.StatusBadRequest, ErrorMessage(err))
			return
		}
	}

	user, created, err := h.users.FindOrCreate(ctx, username)
	if err != nil {
		logCtx.WithError(err).Error("Login failed")
		h.home.render(c, statusFor(err), ErrorMessage(err))
		return
	}

	session.Delete(captchaSessionKey)
	session.Set(middleware.SessionUserKey, user.Username)
	if created {
		session.Set(flashKey, welcomeMessage(user.Username))
	}
	if err := session.Save(); err != nil {
		logCtx.WithError(err).Error("Save login session failed")
		RenderError(c, http.StatusInternalServerError, ErrorMessage(services.ErrPersistence))
		return
	}

	loginsTotal.WithLabelValues(strconv.FormatBool(created)).Inc()
	logCtx.WithField("created", created).Info("User logged in")
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete(middleware.SessionUserKey)
	_ = session.Save()
	c.Redirect(http.StatusFound, "/")
}

// statusFor maps a service error kind to an HTTP status.
func statusFor(err error) int {
	switch services.KindOf(err) {
	case services.KindOK:
		return http.StatusOK
	case services.KindUserNotFound, services.KindStoryNotFound:
		return http.StatusNotFound
	case services.KindSubscriptionRequired, services.KindPaymentNotConfirmed:
		return http.StatusForbidden
	case services.KindInvalidInput, services.KindInvalidCaptcha:
		return http.StatusBadRequest
	case services.KindRateLimitExceeded:
		return http.StatusTooManyRequests
	case services.KindUsernameTaken:
		return http.StatusConflict
	case services.KindPaymentProvider:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
