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

// DefaultRejoinTimeout 是重新加入時等待房間狀態的上限
const DefaultRejoinTimeout = 2500 * time.Millisecond

// ErrSessionExpired 表示重新加入失敗，客戶端應清除保存的身分
var ErrSessionExpired = errors.New("session expired")

// SessionService 處理房間建立、加入、離開與訂閱
type SessionService struct {
	repo          repository.RoomStateRepository
	runner        *TransactionRunner
	hub           *WebSocketService
	rejoinTimeout time.Duration
	generateCode  func() string
	newEnv        func() game.Env
}

func NewSessionService(repo repository.RoomStateRepository, runner *TransactionRunner, hub *WebSocketService, rejoinTimeout time.Duration) *SessionService {
	if rejoinTimeout <= 0 {
		rejoinTimeout = DefaultRejoinTimeout
	}
	return &SessionService{
		repo:          repo,
		runner:        runner,
		hub:           hub,
		rejoinTimeout: rejoinTimeout,
		generateCode:  game.GenerateRoomCode,
		newEnv:        func() game.Env { return game.NewEnv(time.Now()) },
	}
}

// Create 建立新房間，建立者成為唯一玩家與主持人，playerID 為空時產生新的 ID。
// 代碼碰撞時重新產生，最多嘗試 game.MaxCodeAttempts 次
func (s *SessionService) Create(ctx context.Context, playerID, name string) (*models.Room, error) {
	if playerID == "" {
		playerID = game.RandomID("p")
	}
	env := s.newEnv()

	for attempt := 1; attempt <= game.MaxCodeAttempts; attempt++ {
		code := s.generateCode()
		room := &models.Room{
			Code:     code,
			HostID:   playerID,
			Phase:    models.PhaseHub,
			Activity: []models.ActivityEntry{},
			Players:  []models.Player{},
		}
		game.UpsertPlayer(env, room, playerID, name)
		game.RefreshHostFlags(room)

		state, err := json.Marshal(room)
		if err != nil {
			return nil, fmt.Errorf("failed to encode room: %w", err)
		}

		_, err = s.repo.Create(ctx, code, state)
		if errors.Is(err, repository.ErrCodeTaken) {
			log.Debug().Str("room", code).Int("attempt", attempt).Msg("room code collision")
			continue
		}
		if err != nil {
			return nil, err
		}

		log.Info().Str("room", code).Str("player", playerID).Msg("room created")
		return room, nil
	}
	return nil, game.ErrCodeExhausted
}

// Join 加入房間；已存在的玩家只更新名稱與連線狀態
func (s *SessionService) Join(ctx context.Context, code, playerID, name string) (*Result, error) {
	code = game.NormalizeCode(code)
	if code == "" {
		return nil, game.ErrNoCode
	}
	if playerID == "" {
		return nil, game.ErrBadPlayer
	}

	return s.runner.Run(ctx, code, func(env game.Env, room *models.Room) (bool, error) {
		game.NormalizePlayers(env, room)
		game.UpsertPlayer(env, room, playerID, name)
		game.EnsureHost(room)
		return true, nil
	})
}

// Leave 將玩家標記為離線並重新選出主持人，玩家資料保留
func (s *SessionService) Leave(ctx context.Context, code, playerID string) (*Result, error) {
	code = game.NormalizeCode(code)
	if code == "" {
		return nil, game.ErrNoCode
	}

	return s.runner.Run(ctx, code, func(env game.Env, room *models.Room) (bool, error) {
		game.NormalizePlayers(env, room)
		if !game.DisconnectPlayer(room, playerID) {
			return false, nil
		}
		game.EnsureHost(room)
		return true, nil
	})
}

// Rejoin 以保存的身分重新加入，房間在時限內沒有出現時回傳 ErrSessionExpired
func (s *SessionService) Rejoin(ctx context.Context, code, playerID, name string) (*Result, error) {
	if playerID == "" {
		return nil, ErrSessionExpired
	}
	ctx, cancel := context.WithTimeout(ctx, s.rejoinTimeout)
	defer cancel()

	res, err := s.Join(ctx, code, playerID, name)
	switch {
	case err == nil:
		return res, nil
	case errors.Is(err, game.ErrRoomNotFound), errors.Is(err, game.ErrNoCode), errors.Is(err, context.DeadlineExceeded):
		log.Debug().Err(err).Str("room", code).Str("player", playerID).Msg("rejoin failed, clearing session")
		return nil, ErrSessionExpired
	default:
		return nil, err
	}
}

// Get 讀取房間目前狀態，舊版文件會在回傳前升級（不寫回）
func (s *SessionService) Get(ctx context.Context, code string) (*Result, error) {
	code = game.NormalizeCode(code)
	if code == "" {
		return nil, game.ErrNoCode
	}

	row, err := s.repo.Fetch(ctx, code)
	if err != nil {
		return nil, translateRepoError(err)
	}
	room, err := decodeRoom(row.State)
	if err != nil {
		return nil, err
	}
	game.NormalizePlayers(s.newEnv(), room)
	game.EnsureHost(room)
	game.RefreshHostFlags(room)
	return &Result{Room: room, Version: row.Version}, nil
}

// Subscribe 取得房間通知的訂閱，呼叫者負責 Close
func (s *SessionService) Subscribe(code, playerID string) *Subscription {
	return s.hub.Subscribe(game.NormalizeCode(code), playerID)
}
