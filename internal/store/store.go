package store

import (
	"errors"

	"shortlink-admin/internal/model"

	"gorm.io/gorm"
)

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("记录不存在")
	// ErrKeyConflict 短链 key 已存在
	ErrKeyConflict = errors.New("短链 key 已存在")
)

// Store 封装所有数据库操作，处理器不直接接触 SQL
type Store struct {
	db *gorm.DB
}

// New 创建 Store 实例
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// EnsureAdmin 创建或更新管理员账户：不存在则插入，存在则覆盖密码哈希。
// 重复执行是幂等的，登录永远以最新的哈希为准。
func (s *Store) EnsureAdmin(username, password string) error {
	var admin model.Admin
	err := s.db.Where("username = ?", username).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		admin = model.Admin{Username: username}
		if err := admin.SetPassword(password); err != nil {
			return err
		}
		return s.db.Create(&admin).Error
	}
	if err != nil {
		return err
	}

	if err := admin.SetPassword(password); err != nil {
		return err
	}
	return s.db.Model(&admin).Update("password_hash", admin.PasswordHash).Error
}

// FindAdmin 按用户名查找管理员
func (s *Store) FindAdmin(username string) (*model.Admin, error) {
	var admin model.Admin
	if err := s.db.Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// ListShortlinks 返回全部短链，创建时间倒序（同秒创建以 id 倒序兜底）
func (s *Store) ListShortlinks() ([]model.Shortlink, error) {
	var links []model.Shortlink
	if err := s.db.Order("created_at DESC, id DESC").Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// InsertShortlink 插入一条短链。key 冲突完全依赖数据库唯一约束在插入时
// 原子检测，不做先查后插，冲突返回 ErrKeyConflict。
func (s *Store) InsertShortlink(key, url string) (*model.Shortlink, error) {
	link := model.Shortlink{Key: key, URL: url}
	if err := s.db.Create(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrKeyConflict
		}
		return nil, err
	}
	return &link, nil
}

// DeleteShortlink 按 id 删除短链，id 不存在视为成功（幂等删除）
func (s *Store) DeleteShortlink(id uint) error {
	return s.db.Delete(&model.Shortlink{}, id).Error
}

// FindByKey 按 key 查找短链
func (s *Store) FindByKey(key string) (*model.Shortlink, error) {
	var link model.Shortlink
	if err := s.db.Where("key = ?", key).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

// IncrementVisits 访问计数加一。单条 UPDATE 由数据库保证原子性，
// 并发重定向不会丢失计数；key 已被删除时为空操作。
func (s *Store) IncrementVisits(key string) error {
	return s.db.Model(&model.Shortlink{}).
		Where("key = ?", key).
		Update("visits", gorm.Expr("visits + 1")).Error
}

// CountByKey 返回指定 key 的行数，供生成器做存在性探测
func (s *Store) CountByKey(key string) (int64, error) {
	var count int64
	err := s.db.Model(&model.Shortlink{}).Where("key = ?", key).Count(&count).Error
	return count, err
}

// Stats 仪表板汇总：短链总数与访问总数
func (s *Store) Stats() (totalLinks, totalVisits int64, err error) {
	if err = s.db.Model(&model.Shortlink{}).Count(&totalLinks).Error; err != nil {
		return 0, 0, err
	}
	if err = s.db.Model(&model.Shortlink{}).
		Select("COALESCE(SUM(visits), 0)").Scan(&totalVisits).Error; err != nil {
		return 0, 0, err
	}
	return totalLinks, totalVisits, nil
}
