package database

import (
	"fmt"
	"os"
	"path/filepath"

	"shortlink-admin/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitSQLite 打开 DATABASE_PATH 指向的 SQLite 文件并完成建表。
// 父目录不存在时先创建；任何一步失败都向上传播，由调用方决定退出。
func InitSQLite(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("创建数据库目录失败: %v", err)
		}
	}

	// TranslateError 把驱动的唯一约束错误翻译成 gorm.ErrDuplicatedKey，
	// store 层靠它识别 key 冲突
	connection, err := gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %v", err)
	}

	// 自动迁移表
	err = connection.AutoMigrate(
		&model.Admin{},
		&model.Shortlink{},
	)
	if err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %v", err)
	}

	return connection, nil
}
