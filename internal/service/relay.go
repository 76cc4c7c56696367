package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-retry"
)

const (
	relayMinBackoff = 500 * time.Millisecond
	relayMaxBackoff = 30 * time.Second
)

// ChangeListener 是跨實例房間變更的來源，連線中斷時 Listen 回傳錯誤
type ChangeListener interface {
	Listen(ctx context.Context, ready func(), handle func(code string)) error
}

// ChangeRelay 將其他實例的房間變更轉給本地訂閱者，連線中斷時自動重連
type ChangeRelay struct {
	listener   ChangeListener
	hub        *WebSocketService
	newBackoff func() retry.Backoff
}

func NewChangeRelay(listener ChangeListener, hub *WebSocketService) *ChangeRelay {
	return &ChangeRelay{
		listener: listener,
		hub:      hub,
		newBackoff: func() retry.Backoff {
			return retry.WithCappedDuration(relayMaxBackoff, retry.NewExponential(relayMinBackoff))
		},
	}
}

// Run 持續監聽直到 ctx 結束
func (r *ChangeRelay) Run(ctx context.Context) {
	backoff := r.newBackoff()
	connected := false

	for {
		err := r.listener.Listen(ctx, func() {
			backoff = r.newBackoff()
			if connected {
				// 斷線期間的通知已經遺失，讓所有本地訂閱者重新抓取
				r.resync(ctx)
			}
			connected = true
		}, func(code string) {
			r.hub.Publish(ctx, code)
		})
		if ctx.Err() != nil {
			return
		}

		delay, _ := backoff.Next()
		log.Warn().Err(err).Dur("retry_in", delay).Msg("room change listener disconnected")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (r *ChangeRelay) resync(ctx context.Context) {
	rooms := r.hub.Rooms()
	for _, code := range rooms {
		r.hub.Publish(ctx, code)
	}
	log.Info().Int("rooms", len(rooms)).Msg("room change listener reconnected")
}
