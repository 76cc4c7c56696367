package service

import (
	"time"

	"party_quiz/internal/repository"
)

type Services struct {
	Session   *SessionService
	Game      *GameService
	Round     *RoundService
	WebSocket *WebSocketService
}

// Options 是服務層的可調整參數
type Options struct {
	TxAttempts    int
	RejoinTimeout time.Duration
	// Notifier 為 nil 時直接通知本地的 WebSocketService
	Notifier Notifier
}

func NewServices(repos *repository.Repositories, opts Options) *Services {
	hub := NewWebSocketService()

	notifier := opts.Notifier
	if notifier == nil {
		notifier = hub
	}
	runner := NewTransactionRunner(repos.RoomState, notifier, opts.TxAttempts)

	roundService := NewRoundService(repos.Round)
	return &Services{
		Session:   NewSessionService(repos.RoomState, runner, hub, opts.RejoinTimeout),
		Game:      NewGameService(runner, roundService),
		Round:     roundService,
		WebSocket: hub,
	}
}
