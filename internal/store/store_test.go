package store

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"shortlink-admin/internal/model"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupStore 初始化一个干净的内存数据库
func setupStore(t *testing.T) (*Store, func()) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("无法连接到内存数据库: %v", err)
	}

	// 内存库必须限制为单连接，否则连接池里的每个连接各有一份数据
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取底层连接失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.Admin{}, &model.Shortlink{}); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}

	cleanup := func() {
		sqlDB.Close()
	}
	return New(db), cleanup
}

func TestEnsureAdmin_Upsert(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()

	assert.NoError(t, s.EnsureAdmin("admin", "first-password"))
	assert.NoError(t, s.EnsureAdmin("admin", "second-password"))

	admin, err := s.FindAdmin("admin")
	assert.NoError(t, err)
	assert.True(t, admin.CheckPassword("second-password"), "重复执行后应以最新密码为准")
	assert.False(t, admin.CheckPassword("first-password"), "旧密码应已失效")

	var count int64
	assert.NoError(t, s.db.Model(&model.Admin{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "同一用户名只应有一行")
}

func TestFindAdmin_NotFound(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()

	_, err := s.FindAdmin("nobody")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestInsertShortlink_KeyConflict(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()

	first, err := s.InsertShortlink("docs", "https://example.com/docs")
	assert.NoError(t, err)
	assert.NotZero(t, first.ID)

	_, err = s.InsertShortlink("docs", "https://evil.example.com")
	assert.True(t, errors.Is(err, ErrKeyConflict))

	// 冲突的插入不应改动已有行
	link, err := s.FindByKey("docs")
	assert.NoError(t, err)
	assert.Equal(t, "https://example.com/docs", link.URL)
}

func TestDeleteShortlink_Idempotent(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()

	link, err := s.InsertShortlink("gone", "https://example.com")
	assert.NoError(t, err)

	assert.NoError(t, s.DeleteShortlink(link.ID))
	assert.NoError(t, s.DeleteShortlink(link.ID), "重复删除同样成功")
	assert.NoError(t, s.DeleteShortlink(99999), "删除不存在的 id 也成功")

	_, err = s.FindByKey("gone")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestIncrementVisits(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()

	_, err := s.InsertShortlink("hit", "https://example.com")
	assert.NoError(t, err)

	for i := 0; i < 100; i++ {
		assert.NoError(t, s.IncrementVisits("hit"))
	}

	link, err := s.FindByKey("hit")
	assert.NoError(t, err)
	assert.Equal(t, int64(100), link.Visits)

	// key 不存在时为空操作
	assert.NoError(t, s.IncrementVisits("missing"))
}

// TestIncrementVisits_Concurrent 并发重定向不丢计数。内存库单连接下
// 体现不出并发写，这里换成临时目录里的文件库，100 个 goroutine
// 同时加一，最终计数必须恰好是 100。
func TestIncrementVisits_Concurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shortlinks.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("无法打开文件数据库: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取底层连接失败: %v", err)
	}
	defer sqlDB.Close()

	if err := db.AutoMigrate(&model.Shortlink{}); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	s := New(db)

	_, err = s.InsertShortlink("race", "https://example.com")
	assert.NoError(t, err)

	const visitors = 100
	errs := make(chan error, visitors)
	var wg sync.WaitGroup
	for i := 0; i < visitors; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.IncrementVisits("race")
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	link, err := s.FindByKey("race")
	assert.NoError(t, err)
	assert.Equal(t, int64(visitors), link.Visits, "并发计数不应丢失更新")
}

func TestListShortlinks_NewestFirst(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()

	for _, key := range []string{"aaa1", "bbb2", "ccc3"} {
		_, err := s.InsertShortlink(key, "https://example.com/"+key)
		assert.NoError(t, err)
	}

	links, err := s.ListShortlinks()
	assert.NoError(t, err)
	assert.Len(t, links, 3)
	assert.Equal(t, "ccc3", links[0].Key)
	assert.Equal(t, "bbb2", links[1].Key)
	assert.Equal(t, "aaa1", links[2].Key)
}

func TestStats(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()

	totalLinks, totalVisits, err := s.Stats()
	assert.NoError(t, err)
	assert.Equal(t, int64(0), totalLinks)
	assert.Equal(t, int64(0), totalVisits)

	_, err = s.InsertShortlink("one1", "https://example.com/1")
	assert.NoError(t, err)
	_, err = s.InsertShortlink("two2", "https://example.com/2")
	assert.NoError(t, err)
	assert.NoError(t, s.IncrementVisits("one1"))
	assert.NoError(t, s.IncrementVisits("one1"))
	assert.NoError(t, s.IncrementVisits("two2"))

	totalLinks, totalVisits, err = s.Stats()
	assert.NoError(t, err)
	assert.Equal(t, int64(2), totalLinks)
	assert.Equal(t, int64(3), totalVisits)
}
