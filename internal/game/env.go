package game

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

const (
	LockTTL     = 15 * time.Second
	ActivityTTL = 5 * time.Second
	MaxActivity = 4
)

// Env 提供變更函式所需的外部輸入：時間、ID 與洗牌
type Env struct {
	Now     time.Time
	NewID   func(prefix string) string
	Shuffle func(n int, swap func(i, j int))
}

// NewEnv 以真實時間與亂數建立 Env
func NewEnv(now time.Time) Env {
	return Env{
		Now:     now,
		NewID:   RandomID,
		Shuffle: rand.Shuffle,
	}
}

// RandomID 產生帶前綴的唯一 ID，例如 a_<uuid>
func RandomID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// NowMs 回傳毫秒時間戳
func (e Env) NowMs() int64 {
	return e.Now.UnixMilli()
}
