package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// 会话中的登录标记
const (
	SessionKeyLoggedIn = "admin_logged_in"
	SessionKeyUsername = "admin_username"
)

// isLoggedIn 判断当前会话是否已登录管理员
func isLoggedIn(c *gin.Context) bool {
	session := sessions.Default(c)
	loggedIn, ok := session.Get(SessionKeyLoggedIn).(bool)
	return ok && loggedIn
}

// RequireAdminPage 页面型管理路由的会话检查，未登录重定向到登录页
func RequireAdminPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isLoggedIn(c) {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}

		// 将用户名存入上下文
		session := sessions.Default(c)
		if username, ok := session.Get(SessionKeyUsername).(string); ok {
			c.Set("username", username)
		}
		c.Next()
	}
}

// RequireAdminJSON 接口型管理路由的会话检查，未登录返回 JSON 失败
func RequireAdminJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isLoggedIn(c) {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "未登录"})
			c.Abort()
			return
		}
		c.Next()
	}
}
