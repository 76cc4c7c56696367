package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"party_quiz/internal/game"
	"party_quiz/internal/models"
	"party_quiz/internal/repository"
)

// DefaultTxAttempts 是版本衝突時的重試上限
const DefaultTxAttempts = 6

// Notifier 廣播房間已變更的提示，送達與否不影響交易結果
type Notifier interface {
	Publish(ctx context.Context, code string) error
}

// Mutator 在獨立的快照上驗證並修改房間。
// 回傳錯誤會中止交易；changed 為 false 時不寫入
type Mutator func(env game.Env, room *models.Room) (changed bool, err error)

// Result 是交易結果，Skipped 表示 mutator 沒有修改任何東西
type Result struct {
	Room    *models.Room
	Version int64
	Skipped bool
}

// TransactionRunner 以讀取、修改、條件寫入的迴圈實作樂觀鎖
type TransactionRunner struct {
	repo        repository.RoomStateRepository
	notifier    Notifier
	maxAttempts int
	newEnv      func() game.Env
}

func NewTransactionRunner(repo repository.RoomStateRepository, notifier Notifier, maxAttempts int) *TransactionRunner {
	if maxAttempts <= 0 {
		maxAttempts = DefaultTxAttempts
	}
	return &TransactionRunner{
		repo:        repo,
		notifier:    notifier,
		maxAttempts: maxAttempts,
		newEnv:      func() game.Env { return game.NewEnv(time.Now()) },
	}
}

// Run 對房間執行一次交易，版本衝突時以最新狀態重跑 mutator
func (r *TransactionRunner) Run(ctx context.Context, code string, mutate Mutator) (*Result, error) {
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := r.repo.Fetch(ctx, code)
		if err != nil {
			return nil, translateRepoError(err)
		}
		room, err := decodeRoom(row.State)
		if err != nil {
			return nil, err
		}

		changed, err := mutate(r.newEnv(), room)
		if err != nil {
			return nil, err
		}
		if !changed {
			// mutator 可能已經動過 room，回傳未修改的讀取結果
			snapshot, err := decodeRoom(row.State)
			if err != nil {
				return nil, err
			}
			return &Result{Room: snapshot, Version: row.Version, Skipped: true}, nil
		}

		game.RefreshHostFlags(room)
		state, err := json.Marshal(room)
		if err != nil {
			return nil, fmt.Errorf("failed to encode room %s: %w", code, err)
		}

		version, err := r.repo.CompareAndSwap(ctx, code, row.Version, state)
		if errors.Is(err, repository.ErrVersionMismatch) {
			log.Debug().Str("room", code).Int("attempt", attempt).Msg("version conflict, retrying")
			continue
		}
		if err != nil {
			return nil, translateRepoError(err)
		}

		r.notify(ctx, code)
		return &Result{Room: room, Version: version}, nil
	}

	log.Warn().Str("room", code).Int("attempts", r.maxAttempts).Msg("transaction gave up after repeated conflicts")
	return nil, game.ErrConflict
}

func (r *TransactionRunner) notify(ctx context.Context, code string) {
	if r.notifier == nil {
		return
	}
	if err := r.notifier.Publish(ctx, code); err != nil {
		log.Warn().Err(err).Str("room", code).Msg("failed to publish room change")
	}
}

func decodeRoom(state []byte) (*models.Room, error) {
	var room models.Room
	if err := json.Unmarshal(state, &room); err != nil {
		return nil, fmt.Errorf("failed to decode room state: %w", err)
	}
	return &room, nil
}

// translateRepoError 將 repository 的錯誤轉為對外的錯誤碼
func translateRepoError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return game.ErrRoomNotFound
	}
	return err
}
