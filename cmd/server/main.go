package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"shortlink-admin/internal/config"
	"shortlink-admin/internal/handler"
	"shortlink-admin/internal/middleware"
	"shortlink-admin/internal/shortkey"
	"shortlink-admin/internal/store"
	"shortlink-admin/pkg/database"
	"shortlink-admin/pkg/logger"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	logger.InitLogger(cfg.IsDevelopment(), cfg.Log.Path)
	defer func() {
		if err := logger.Logger.Sync(); err != nil {
			fmt.Println("日志同步失败:", err)
		}
	}()
	sugaredLogger := logger.Sugar

	db, err := database.InitSQLite(cfg.Database.Path)
	if err != nil {
		sugaredLogger.Fatalf("数据库初始化失败: %v", err)
	}
	sugaredLogger.Info("✅ 数据库连接成功")

	dataStore := store.New(db)

	if err := dataStore.EnsureAdmin(cfg.Admin.Username, cfg.Admin.Password); err != nil {
		sugaredLogger.Fatalf("创建管理员账户失败: %v", err)
	}
	sugaredLogger.Infof("✅ 管理员账户已就绪: %s", cfg.Admin.Username)

	keyGenerator := shortkey.NewGenerator(dataStore)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.GinZapRecovery(logger.Logger, true))
	router.Use(middleware.GinZapLogger(logger.Logger))

	// 会话 cookie 使用 SECRET_KEY 签名
	sessionStore := cookie.NewStore([]byte(cfg.Session.Secret))
	sessionStore.Options(sessions.Options{Path: "/", HttpOnly: true, MaxAge: 0})
	router.Use(sessions.Sessions("shortlink_session", sessionStore))

	router.LoadHTMLGlob("web/templates/*")
	router.Static("/static", "./web/static")

	linkHandler := handler.NewShortlinkHandler(dataStore, keyGenerator, cfg.Database.Path)
	authHandler := handler.NewAuthHandler(dataStore)

	registerRoutes(router, linkHandler, authHandler)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	sugaredLogger.Infof("🚀 短链服务启动成功, 监听 %s:%d", cfg.Server.Host, cfg.Server.Port)
	sugaredLogger.Infof("📦 数据库路径: %s", cfg.Database.Path)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugaredLogger.Fatalf("服务启动失败: %v", err)
	}
}

func registerRoutes(
	router *gin.Engine,
	linkHandler *handler.ShortlinkHandler,
	authHandler *handler.AuthHandler,
) {
	router.GET("/", linkHandler.IndexPage)
	router.GET("/health", linkHandler.HealthCheck)
	router.GET("/:key", linkHandler.Redirect)

	admin := router.Group("/admin")
	{
		admin.GET("/login", authHandler.LoginPage)
		admin.POST("/login", authHandler.Login)
		admin.GET("/logout", authHandler.Logout)

		admin.GET("", middleware.RequireAdminPage(), linkHandler.Dashboard)
		admin.POST("/add", middleware.RequireAdminJSON(), linkHandler.AddShortlink)
		admin.POST("/delete/:id", middleware.RequireAdminJSON(), linkHandler.DeleteShortlink)
	}
}
