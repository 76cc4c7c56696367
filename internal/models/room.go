package models

import (
	"encoding/json"
	"strings"
)

// Room 表示一個房間的完整狀態文件，是唯一的持久化與併發控制單位
type Room struct {
	Code        string          `json:"code"`
	HostID      string          `json:"hostId"`
	Phase       RoomPhase       `json:"phase"`
	Locked      bool            `json:"locked"`
	ActiveRound *ActiveRound    `json:"activeRound"`
	Game        *GameState      `json:"game"`
	Activity    []ActivityEntry `json:"activity"`
	Players     []Player        `json:"players"`

	// 舊版文件使用 hostPlayerId，讀取時合併到 HostID
	LegacyHostID string `json:"hostPlayerId,omitempty"`
}

// RoomPhase 定義房間階段的類型
type RoomPhase string

const (
	PhaseHub     RoomPhase = "HUB"
	PhaseInRound RoomPhase = "IN_ROUND"
	PhaseReveal  RoomPhase = "REVEAL"
)

// ActiveRound 記錄目前進行中的回合
type ActiveRound struct {
	Category  Category `json:"category"`
	RoundID   string   `json:"roundId"`
	RoundName string   `json:"roundName"`
}

// Player 表示房間中的玩家，玩家離開後仍保留在列表中
type Player struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Connected bool   `json:"connected"`
	JoinedAt  int64  `json:"joinedAt"`
	IsHost    bool   `json:"isHost"`
}

// UnmarshalJSON 兼容舊版玩家格式 {playerId, name, role}
func (p *Player) UnmarshalJSON(data []byte) error {
	var aux struct {
		ID        string `json:"id"`
		PlayerID  string `json:"playerId"`
		Name      string `json:"name"`
		Connected *bool  `json:"connected"`
		JoinedAt  *int64 `json:"joinedAt"`
		IsHost    bool   `json:"isHost"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	p.ID = strings.TrimSpace(aux.ID)
	if p.ID == "" {
		p.ID = strings.TrimSpace(aux.PlayerID)
	}
	p.Name = aux.Name
	p.Connected = aux.Connected == nil || *aux.Connected
	if aux.JoinedAt != nil {
		p.JoinedAt = *aux.JoinedAt
	}
	p.IsHost = aux.IsHost
	return nil
}

// ActivityEntry 是一條短暫顯示的活動紀錄
type ActivityEntry struct {
	ID    string `json:"id"`
	TS    int64  `json:"ts"`
	TTLMs int64  `json:"ttlMs"`
	Text  string `json:"text"`
}

// Lock 是玩家對單一物件的短期保留
type Lock struct {
	By        string `json:"by"`
	ExpiresAt int64  `json:"expiresAt"`
}

// FindPlayer 依 ID 查找玩家
func (r *Room) FindPlayer(id string) *Player {
	for i := range r.Players {
		if r.Players[i].ID == id {
			return &r.Players[i]
		}
	}
	return nil
}
