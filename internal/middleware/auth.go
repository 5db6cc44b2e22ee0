package middleware

import (
	"errors"
	"net/http"

	"kindtrail/internal/models"
	"kindtrail/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const CheckUserKey = "user"

// SessionUserKey is the session field holding the logged-in username.
const SessionUserKey = "username"

// AuthRequired sends anonymous visitors back to the home page.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoadUser retrieves user from session and sets to context
func LoadUser(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		username, _ := session.Get(SessionUserKey).(string)

		if username != "" {
			user, err := users.Find(c.Request.Context(), username)
			switch {
			case err == nil:
				c.Set(CheckUserKey, user)
			case errors.Is(err, services.ErrUserNotFound):
				// 用户已不存在，清理会话
				session.Delete(SessionUserKey)
				_ = session.Save()
			default:
				logrus.WithError(err).WithField("username", username).Warn("Load session user failed")
			}
		}
		c.Next()
	}
}

// CurrentUser returns the user loaded by LoadUser, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(CheckUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
