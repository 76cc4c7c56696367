package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NotifyChannel 是房間狀態變更的 LISTEN/NOTIFY 頻道
const NotifyChannel = "room_state_changed"

// PostgresPubSub 透過 LISTEN/NOTIFY 在多個服務實例之間廣播房間變更
type PostgresPubSub struct {
	pool *pgxpool.Pool
}

func NewPostgresPubSub(ctx context.Context, dsn string) (*PostgresPubSub, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	return &PostgresPubSub{pool: pool}, nil
}

// Publish 發出房間代碼作為通知內容
func (p *PostgresPubSub) Publish(ctx context.Context, code string) error {
	_, err := p.pool.Exec(ctx, "SELECT pg_notify($1, $2)", NotifyChannel, code)
	return err
}

// Listen 佔用一條連線等待通知，直到 ctx 結束或連線中斷。
// LISTEN 生效後呼叫 ready，每次呼叫都重新取得連線
func (p *PostgresPubSub) Listen(ctx context.Context, ready func(), handle func(code string)) error {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire listen connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+NotifyChannel); err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	if ready != nil {
		ready()
	}

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if errors.Is(ctx.Err(), context.Canceled) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil
			}
			return err
		}
		handle(n.Payload)
	}
}

func (p *PostgresPubSub) Close() {
	p.pool.Close()
}
