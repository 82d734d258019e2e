package model

import (
	"golang.org/x/crypto/bcrypt"
)

// Admin 管理员模型，只在启动时从配置创建或更新
type Admin struct {
	ID           uint   `gorm:"primarykey"`
	Username     string `gorm:"type:varchar(50);uniqueIndex;not null"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
}

// TableName 指定表名
func (Admin) TableName() string {
	return "admin"
}

// SetPassword 加密并设置密码
func (a *Admin) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// CheckPassword 校验密码，bcrypt 自带恒定时间比较
func (a *Admin) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password))
	return err == nil
}
