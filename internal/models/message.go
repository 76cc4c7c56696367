package models

import (
	"time"
)

// MessageTypeStateUpdated 通知客戶端重新讀取房間狀態
const MessageTypeStateUpdated = "state_updated"

// Message 是透過 WebSocket 推送給客戶端的通知，只是提示不帶狀態
type Message struct {
	Type      string    `json:"type"`
	RoomCode  string    `json:"code"`
	Timestamp time.Time `json:"timestamp"`
}

// NewStateUpdatedMessage 創建一個狀態更新通知
func NewStateUpdatedMessage(roomCode string) Message {
	return Message{
		Type:      MessageTypeStateUpdated,
		RoomCode:  roomCode,
		Timestamp: time.Now(),
	}
}
