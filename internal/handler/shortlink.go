package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"shortlink-admin/internal/shortkey"
	"shortlink-admin/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ShortlinkHandler 处理短链的增删查与重定向
type ShortlinkHandler struct {
	store        *store.Store
	keyGenerator *shortkey.Generator
	databasePath string
}

// NewShortlinkHandler 创建处理器实例
func NewShortlinkHandler(s *store.Store, g *shortkey.Generator, databasePath string) *ShortlinkHandler {
	return &ShortlinkHandler{
		store:        s,
		keyGenerator: g,
		databasePath: databasePath,
	}
}

// IndexPage 首页重定向到登录页面
func (h *ShortlinkHandler) IndexPage(c *gin.Context) {
	c.Redirect(http.StatusFound, "/admin/login")
}

// HealthCheck 健康检查端点
func (h *ShortlinkHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "database": h.databasePath})
}

// Dashboard 管理员仪表板，短链按创建时间倒序展示
func (h *ShortlinkHandler) Dashboard(c *gin.Context) {
	links, err := h.store.ListShortlinks()
	if err != nil {
		zap.S().Errorf("获取短链列表失败: %v", err)
		c.String(http.StatusInternalServerError, "服务器内部错误")
		return
	}

	totalLinks, totalVisits, err := h.store.Stats()
	if err != nil {
		zap.S().Errorf("获取统计数据失败: %v", err)
		c.String(http.StatusInternalServerError, "服务器内部错误")
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Shortlinks":  links,
		"Flashes":     collectFlashes(c),
		"Username":    c.GetString("username"),
		"HostURL":     hostURL(c),
		"TotalLinks":  totalLinks,
		"TotalVisits": totalVisits,
	})
}

// AddShortlink 添加新短链。key 留空时自动生成；自动生成的 key 在极小
// 概率下撞上并发插入的唯一约束时换一个重新生成，最多重试
// shortkey.MaxAttempts 次；手动指定的 key 冲突直接报错，不重试。
func (h *ShortlinkHandler) AddShortlink(c *gin.Context) {
	key := strings.TrimSpace(c.PostForm("key"))
	url := strings.TrimSpace(c.PostForm("url"))

	if url == "" {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "URL不能为空"})
		return
	}

	// 确保URL带协议前缀，其余部分不做校验
	url = normalizeURL(url)

	autoGenerated := key == ""
	if !autoGenerated {
		link, err := h.store.InsertShortlink(key, url)
		if err != nil {
			if errors.Is(err, store.ErrKeyConflict) {
				c.JSON(http.StatusOK, gin.H{"success": false, "message": "该短链key已存在"})
				return
			}
			zap.S().Errorf("插入短链失败: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "服务器内部错误"})
			return
		}
		addFlash(c, "success", fmt.Sprintf("短链 %s 添加成功！", link.Key))
		c.JSON(http.StatusOK, gin.H{
			"success": true, "message": "添加成功",
			"key": link.Key, "auto_generated": false,
		})
		return
	}

	for attempt := 0; attempt < shortkey.MaxAttempts; attempt++ {
		generated, err := h.keyGenerator.Generate()
		if err != nil {
			if errors.Is(err, shortkey.ErrExhausted) {
				c.JSON(http.StatusOK, gin.H{"success": false, "message": "生成短链key失败，请重试"})
				return
			}
			zap.S().Errorf("生成短链key失败: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "服务器内部错误"})
			return
		}

		link, err := h.store.InsertShortlink(generated, url)
		if errors.Is(err, store.ErrKeyConflict) {
			// 生成到插入之间被并发请求抢先，换一个 key 再试
			continue
		}
		if err != nil {
			zap.S().Errorf("插入短链失败: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "服务器内部错误"})
			return
		}

		addFlash(c, "success", fmt.Sprintf("短链添加成功！自动生成key: %s", link.Key))
		c.JSON(http.StatusOK, gin.H{
			"success": true, "message": "添加成功",
			"key": link.Key, "auto_generated": true,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": false, "message": "生成短链key失败，请重试"})
}

// DeleteShortlink 按 id 删除短链，id 不存在同样返回成功
func (h *ShortlinkHandler) DeleteShortlink(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "无效的短链ID"})
		return
	}

	if err := h.store.DeleteShortlink(uint(id)); err != nil {
		zap.S().Errorf("删除短链失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "服务器内部错误"})
		return
	}

	addFlash(c, "success", "短链删除成功！")
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "删除成功"})
}

// Redirect 短链重定向，成功时访问计数加一
func (h *ShortlinkHandler) Redirect(c *gin.Context) {
	key := c.Param("key")

	link, err := h.store.FindByKey(key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.String(http.StatusNotFound, "短链不存在")
			return
		}
		zap.S().Errorf("查询短链失败: %v", err)
		c.String(http.StatusInternalServerError, "服务器内部错误")
		return
	}

	if err := h.store.IncrementVisits(key); err != nil {
		// 计数失败不阻塞跳转
		zap.S().Errorf("更新访问次数失败: %v", err)
	}

	c.Redirect(http.StatusFound, link.URL)
}

// normalizeURL 缺少协议前缀时补上 https://
func normalizeURL(url string) string {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "https://" + url
	}
	return url
}

// hostURL 当前请求的站点根地址，供页面拼出完整短链
func hostURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host + "/"
}
