package handlers

import (
	"net/http"

	"kindtrail/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const flashKey = "flash"

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if user := middleware.CurrentUser(c); user != nil {
		obj["CurrentUser"] = user
	}
	if _, ok := obj["Flash"]; !ok {
		if flash := popFlash(c); flash != "" {
			obj["Flash"] = flash
		}
	}
	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// RenderError renders the shared error page.
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Error": message})
}

// setFlash stores a one-shot message shown on the next rendered page.
func setFlash(c *gin.Context, message string) {
	session := sessions.Default(c)
	session.Set(flashKey, message)
	if err := session.Save(); err != nil {
		logrus.WithError(err).Warn("Save flash message failed")
	}
}

func popFlash(c *gin.Context) string {
	session := sessions.Default(c)
	flash, _ := session.Get(flashKey).(string)
	if flash != "" {
		session.Delete(flashKey)
		_ = session.Save()
	}
	return flash
}

// redirectWithFlash 设置提示信息后跳转（POST-redirect-GET）
func redirectWithFlash(c *gin.Context, path, message string) {
	setFlash(c, message)
	c.Redirect(http.StatusFound, path)
}
