package shortkey

import (
	"crypto/rand"
	"errors"
	"math/big"

	"shortlink-admin/internal/store"
)

const (
	// Charset 自动生成 key 的字符集：26 个小写字母 + 10 个数字
	Charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	// KeyLength 自动生成 key 的固定长度，36^4 约 168 万个组合
	KeyLength = 4
	// MaxAttempts 生成重试上限，超过即放弃而不是无限循环
	MaxAttempts = 10
)

// ErrExhausted 连续多次生成都与已有 key 冲突
var ErrExhausted = errors.New("短链 key 生成重试次数已用尽")

// Generator 负责生成数据库中不存在的随机短链 key
type Generator struct {
	store *store.Store
}

// NewGenerator 创建生成器实例
func NewGenerator(s *store.Store) *Generator {
	return &Generator{store: s}
}

// Generate 生成一个当前不存在的 key。每次随机抽取后查库确认，
// 冲突则换一个重试，最多 MaxAttempts 次后返回 ErrExhausted。
// 注意真正的唯一性仍由插入时的唯一约束兜底，这里只是把冲突概率降到可忽略。
func (g *Generator) Generate() (string, error) {
	for i := 0; i < MaxAttempts; i++ {
		key, err := randomString(KeyLength)
		if err != nil {
			return "", err
		}
		count, err := g.store.CountByKey(key)
		if err != nil {
			return "", err
		}
		if count == 0 {
			return key, nil
		}
	}
	return "", ErrExhausted
}

// randomString 使用加密安全的随机数生成指定长度的字符串
func randomString(length int) (string, error) {
	b := make([]byte, length)
	for i := range b {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(Charset))))
		if err != nil {
			return "", err
		}
		b[i] = Charset[num.Int64()]
	}
	return string(b), nil
}
