package handlers

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"party_quiz/internal/middleware"
	"party_quiz/internal/service"
)

// WebSocketHandler 處理房間變更通知的 WebSocket 連接
type WebSocketHandler struct {
	sessions *service.SessionService
	hub      *service.WebSocketService
	upgrader websocket.Upgrader
}

// NewWebSocketHandler 創建一個新的 WebSocketHandler 實例，allowedOrigins 包含 "*" 時接受所有來源
func NewWebSocketHandler(sessions *service.SessionService, hub *service.WebSocketService, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		sessions: sessions,
		hub:      hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(allowedOrigins, r.Header.Get("Origin"))
			},
		},
	}
}

// HandleWebSocket 處理 WebSocket 連接請求
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	// 升級前確認房間存在，讓客戶端收到正常的錯誤回應
	res, err := h.sessions.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("room", res.Room.Code).Msg("websocket upgrade failed")
		return
	}

	playerID := middleware.PlayerID(c)
	sub := h.sessions.Subscribe(res.Room.Code, playerID)
	log.Debug().Str("room", res.Room.Code).Str("player", playerID).Int("subscribers", h.hub.RoomSubscribers(res.Room.Code)).Msg("websocket connected")

	h.hub.HandleConnection(conn, sub)
}

// originAllowed 與 CORS 設定相同：沒有 Origin 的非瀏覽器客戶端一律接受，空清單不接受任何瀏覽器來源
func originAllowed(allowed []string, origin string) bool {
	if origin == "" || slices.Contains(allowed, "*") {
		return true
	}
	return slices.Contains(allowed, origin)
}
