package game

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"party_quiz/internal/models"
)

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// testEnv 使用固定時間、遞增 ID 與不洗牌
func testEnv(now time.Time) Env {
	n := 0
	return Env{
		Now: now,
		NewID: func(prefix string) string {
			n++
			return fmt.Sprintf("%s_%d", prefix, n)
		},
		Shuffle: func(int, func(i, j int)) {},
	}
}

// reverseShuffle 以反轉代替洗牌，方便檢查洗牌確實被呼叫
func reverseShuffle(n int, swap func(i, j int)) {
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		swap(i, j)
	}
}

func newRoom(players ...string) *models.Room {
	room := &models.Room{Code: "ABCDE", Phase: models.PhaseHub, Activity: []models.ActivityEntry{}}
	for i, id := range players {
		room.Players = append(room.Players, models.Player{
			ID:        id,
			Name:      id,
			Connected: true,
			JoinedAt:  baseTime.UnixMilli() + int64(i),
		})
	}
	if len(players) > 0 {
		room.HostID = players[0]
	}
	return room
}

func mustRaw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func startRound(t *testing.T, env Env, room *models.Room, category models.Category, data any) {
	t.Helper()
	round := &models.Round{ID: "r1", Category: category, Name: "Runde", Data: mustRaw(t, data)}
	require.NoError(t, StartRound(env, room, room.HostID, "", round))
}

func countHosts(room *models.Room) int {
	n := 0
	for _, p := range room.Players {
		if p.IsHost {
			n++
		}
	}
	return n
}
