package game

import (
	"sort"
	"strings"

	"party_quiz/internal/models"
)

const (
	DefaultPlayerName = "Spieler"
	maxPlayerName     = 24
)

// SanitizeName 去除空白並截斷名稱，空名稱使用預設值
func SanitizeName(name string) string {
	s := strings.TrimSpace(name)
	if s == "" {
		return DefaultPlayerName
	}
	return truncate(s, maxPlayerName)
}

// NormalizeCode 將房間代碼轉為大寫
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NormalizePlayers 升級舊版文件：合併 hostPlayerId、清理名稱、依 ID 去重（保留最後一筆）
func NormalizePlayers(env Env, room *models.Room) {
	if room.HostID == "" {
		room.HostID = room.LegacyHostID
	}
	room.LegacyHostID = ""

	index := make(map[string]int, len(room.Players))
	out := make([]models.Player, 0, len(room.Players))
	for _, p := range room.Players {
		if p.ID == "" {
			continue
		}
		p.Name = SanitizeName(p.Name)
		if p.JoinedAt == 0 {
			p.JoinedAt = env.NowMs()
		}
		if i, ok := index[p.ID]; ok {
			out[i] = p
			continue
		}
		index[p.ID] = len(out)
		out = append(out, p)
	}
	room.Players = out
}

// UpsertPlayer 加入或更新玩家，已存在的玩家只更新名稱與連線狀態
func UpsertPlayer(env Env, room *models.Room, playerID, name string) {
	name = SanitizeName(name)
	if p := room.FindPlayer(playerID); p != nil {
		p.Name = name
		p.Connected = true
		return
	}
	room.Players = append(room.Players, models.Player{
		ID:        playerID,
		Name:      name,
		Connected: true,
		JoinedAt:  env.NowMs(),
	})
}

// DisconnectPlayer 將玩家標記為離線，回傳玩家是否存在
func DisconnectPlayer(room *models.Room, playerID string) bool {
	p := room.FindPlayer(playerID)
	if p == nil {
		return false
	}
	p.Connected = false
	return true
}

// EnsureHost 保留仍在線的主持人，否則選出最早加入的在線玩家；
// 沒有人在線時保留原主持人 ID
func EnsureHost(room *models.Room) {
	if host := room.FindPlayer(room.HostID); host != nil && host.Connected {
		return
	}

	connected := make([]models.Player, 0, len(room.Players))
	for _, p := range room.Players {
		if p.Connected {
			connected = append(connected, p)
		}
	}
	if len(connected) == 0 {
		return
	}
	sort.SliceStable(connected, func(i, j int) bool {
		return connected[i].JoinedAt < connected[j].JoinedAt
	})
	room.HostID = connected[0].ID
}

// RefreshHostFlags 重新計算衍生的 IsHost 欄位
func RefreshHostFlags(room *models.Room) {
	for i := range room.Players {
		p := &room.Players[i]
		p.IsHost = p.ID == room.HostID && p.Connected
	}
}

// IsHost 判斷玩家是否為主持人
func IsHost(room *models.Room, playerID string) bool {
	return playerID != "" && room.HostID == playerID
}

// requireHost 重新選出主持人後檢查權限
func requireHost(room *models.Room, playerID string) error {
	EnsureHost(room)
	if !IsHost(room, playerID) {
		return ErrNotHost
	}
	return nil
}

// DisplayName 回傳玩家名稱，找不到時使用預設名稱
func DisplayName(room *models.Room, playerID string) string {
	if p := room.FindPlayer(playerID); p != nil && p.Name != "" {
		return p.Name
	}
	return DefaultPlayerName
}
