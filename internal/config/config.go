package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config 进程配置，启动时从环境变量读取一次，之后不可变
type Config struct {
	App      App
	Server   Server
	Database DB
	Admin    Admin
	Session  Session
	Log      Log
}

// 应用配置
type App struct {
	Mode string // development 或 production
}

// 服务器配置
type Server struct {
	Host string
	Port int
}

// 数据库配置
type DB struct {
	Path string // SQLite 文件路径
}

// 管理员账户配置
type Admin struct {
	Username string
	Password string
}

// 会话配置
type Session struct {
	Secret string
}

// 日志配置
type Log struct {
	Path string
}

// Load 从环境变量加载配置，.env 文件存在时一并读取
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		App: App{
			Mode: getEnv("APP_MODE", "production"),
		},
		Server: Server{
			Host: getEnv("HOST", "0.0.0.0"),
			Port: getEnvInt("PORT", 5000),
		},
		Database: DB{
			Path: getEnv("DATABASE_PATH", "/app/data/shortlinks.db"),
		},
		Admin: Admin{
			Username: getEnv("ADMIN_USERNAME", "admin"),
			Password: getEnv("ADMIN_PASSWORD", "admin123"),
		},
		Session: Session{
			Secret: getEnv("SECRET_KEY", "your-secret-key-change-this"),
		},
		Log: Log{
			Path: getEnv("LOG_PATH", "./logs/app.log"),
		},
	}
}

// IsDevelopment 是否为开发模式
func (c *Config) IsDevelopment() bool {
	return c.App.Mode == "development"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
