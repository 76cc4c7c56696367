package service

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"party_quiz/internal/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	sendBuffer = 16
)

// Subscription 是客戶端對單一房間通知的訂閱，用完必須 Close
type Subscription struct {
	RoomCode string
	PlayerID string

	send      chan *models.Message
	hub       *WebSocketService
	closeOnce sync.Once
}

// C 回傳通知通道，訂閱關閉後通道會被關閉
func (s *Subscription) C() <-chan *models.Message {
	return s.send
}

// Close 取消訂閱，可以重複呼叫
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.hub.remove(s)
	})
}

// WebSocketService 管理本實例上所有房間的訂閱
type WebSocketService struct {
	subs    map[string]map[*Subscription]bool // roomCode -> subscription
	subsMux sync.RWMutex
}

func NewWebSocketService() *WebSocketService {
	return &WebSocketService{
		subs: make(map[string]map[*Subscription]bool),
	}
}

// Subscribe 建立房間訂閱
func (s *WebSocketService) Subscribe(code, playerID string) *Subscription {
	sub := &Subscription{
		RoomCode: code,
		PlayerID: playerID,
		send:     make(chan *models.Message, sendBuffer),
		hub:      s,
	}

	s.subsMux.Lock()
	defer s.subsMux.Unlock()
	if s.subs[code] == nil {
		s.subs[code] = make(map[*Subscription]bool)
	}
	s.subs[code][sub] = true
	return sub
}

func (s *WebSocketService) remove(sub *Subscription) {
	s.subsMux.Lock()
	defer s.subsMux.Unlock()

	if subs, ok := s.subs[sub.RoomCode]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(s.subs, sub.RoomCode)
		}
	}
	close(sub.send)
}

// Publish 通知房間內所有本地訂閱者。佇列已滿時略過，佇列中已經有待處理的提示
func (s *WebSocketService) Publish(_ context.Context, code string) error {
	s.subsMux.RLock()
	defer s.subsMux.RUnlock()

	msg := models.NewStateUpdatedMessage(code)
	for sub := range s.subs[code] {
		select {
		case sub.send <- &msg:
		default:
		}
	}
	return nil
}

// RoomSubscribers 回傳房間在本實例上的訂閱數
func (s *WebSocketService) RoomSubscribers(code string) int {
	s.subsMux.RLock()
	defer s.subsMux.RUnlock()
	return len(s.subs[code])
}

// Rooms 回傳本實例上有訂閱者的房間代碼
func (s *WebSocketService) Rooms() []string {
	s.subsMux.RLock()
	defer s.subsMux.RUnlock()

	codes := make([]string, 0, len(s.subs))
	for code := range s.subs {
		codes = append(codes, code)
	}
	return codes
}

// HandleConnection 將訂閱的通知寫入 WebSocket，直到連線關閉
func (s *WebSocketService) HandleConnection(conn *websocket.Conn, sub *Subscription) {
	defer func() {
		sub.Close()
		conn.Close()
	}()

	go s.writePump(conn, sub)
	s.readPump(conn, sub)
}

// readPump 只處理 pong 與關閉，客戶端的指令走 HTTP
func (s *WebSocketService) readPump(conn *websocket.Conn, sub *Subscription) {
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Str("room", sub.RoomCode).Str("player", sub.PlayerID).Msg("websocket closed unexpectedly")
			}
			return
		}
	}
}

func (s *WebSocketService) writePump(conn *websocket.Conn, sub *Subscription) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-sub.C():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
