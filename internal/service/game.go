package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"party_quiz/internal/game"
	"party_quiz/internal/models"
)

// GameService 在房間交易中執行玩家指令
type GameService struct {
	runner *TransactionRunner
	rounds *RoundService
}

func NewGameService(runner *TransactionRunner, rounds *RoundService) *GameService {
	return &GameService{
		runner: runner,
		rounds: rounds,
	}
}

// Execute 執行一個已驗證的指令。回合內容在交易開始前讀取，交易本身不做任何 I/O
func (s *GameService) Execute(ctx context.Context, code, playerID string, cmd Command) (*Result, error) {
	code = game.NormalizeCode(code)
	if code == "" {
		return nil, game.ErrNoCode
	}

	if start, ok := cmd.(*StartRoundCommand); ok {
		round, err := s.rounds.Get(ctx, start.RoundID)
		if err != nil {
			return nil, err
		}
		start.round = round
	}

	res, err := s.runner.Run(ctx, code, func(env game.Env, room *models.Room) (bool, error) {
		return cmd.apply(env, room, playerID)
	})

	if err != nil {
		var domainErr *game.Error
		if errors.As(err, &domainErr) {
			log.Debug().Str("room", code).Str("player", playerID).Str("command", cmd.Type()).Str("error", domainErr.Code).Msg("command rejected")
		} else {
			log.Error().Err(err).Str("room", code).Str("player", playerID).Str("command", cmd.Type()).Msg("command failed")
		}
	}

	return res, err
}
