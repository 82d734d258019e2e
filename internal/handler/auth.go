package handler

import (
	"errors"
	"net/http"

	"shortlink-admin/internal/middleware"
	"shortlink-admin/internal/store"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler 包含登录登出相关的处理器
type AuthHandler struct {
	store *store.Store
}

// NewAuthHandler 创建一个新的 AuthHandler
func NewAuthHandler(s *store.Store) *AuthHandler {
	return &AuthHandler{store: s}
}

// Flash 一次性提示消息，渲染后即从会话中清除
type Flash struct {
	Category string
	Message  string
}

// dummyHash 用于用户名不存在时做一次同等开销的密码比较，
// 避免从响应时间上区分"用户不存在"和"密码错误"
var dummyHash = func() []byte {
	hash, _ := bcrypt.GenerateFromPassword([]byte("dummy-password"), bcrypt.DefaultCost)
	return hash
}()

// addFlash 写入一条带分类的提示消息
func addFlash(c *gin.Context, category, message string) {
	session := sessions.Default(c)
	session.AddFlash(message, category)
	if err := session.Save(); err != nil {
		zap.S().Errorf("保存会话失败: %v", err)
	}
}

// collectFlashes 读出并清除所有提示消息
func collectFlashes(c *gin.Context) []Flash {
	session := sessions.Default(c)
	var flashes []Flash
	for _, category := range []string{"success", "error", "info"} {
		for _, v := range session.Flashes(category) {
			if msg, ok := v.(string); ok {
				flashes = append(flashes, Flash{Category: category, Message: msg})
			}
		}
	}
	if len(flashes) > 0 {
		if err := session.Save(); err != nil {
			zap.S().Errorf("保存会话失败: %v", err)
		}
	}
	return flashes
}

// LoginPage 渲染管理员登录页面
func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Flashes": collectFlashes(c),
	})
}

// Login 处理登录表单。无论用户不存在还是密码错误都返回同一条
// 笼统的提示，不暴露具体哪一项出错。
func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	admin, err := h.store.FindAdmin(username)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			zap.S().Errorf("查询管理员失败: %v", err)
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		h.renderLoginError(c)
		return
	}

	if !admin.CheckPassword(password) {
		h.renderLoginError(c)
		return
	}

	session := sessions.Default(c)
	session.Set(middleware.SessionKeyLoggedIn, true)
	session.Set(middleware.SessionKeyUsername, username)
	session.AddFlash("登录成功！", "success")
	if err := session.Save(); err != nil {
		zap.S().Errorf("保存会话失败: %v", err)
		c.String(http.StatusInternalServerError, "服务器内部错误")
		return
	}

	c.Redirect(http.StatusFound, "/admin")
}

// Logout 管理员登出，未登录时也直接跳回登录页
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete(middleware.SessionKeyLoggedIn)
	session.Delete(middleware.SessionKeyUsername)
	session.AddFlash("已退出登录", "info")
	if err := session.Save(); err != nil {
		zap.S().Errorf("保存会话失败: %v", err)
	}

	c.Redirect(http.StatusFound, "/admin/login")
}

func (h *AuthHandler) renderLoginError(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Flashes": []Flash{{Category: "error", Message: "用户名或密码错误！"}},
	})
}
