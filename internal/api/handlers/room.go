package handlers

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"

	"party_quiz/internal/game"
	"party_quiz/internal/middleware"
	"party_quiz/internal/models"
	"party_quiz/internal/service"
	"party_quiz/internal/utils"
)

const qrSize = 320

// RoomHandler 處理房間建立、加入與離開的請求
type RoomHandler struct {
	sessions  *service.SessionService
	tokens    *utils.TokenManager
	publicURL string
}

// NewRoomHandler 創建一個新的 RoomHandler 實例
func NewRoomHandler(sessions *service.SessionService, tokens *utils.TokenManager, publicURL string) *RoomHandler {
	return &RoomHandler{
		sessions:  sessions,
		tokens:    tokens,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

type joinInput struct {
	Name     string `json:"name"`
	PlayerID string `json:"playerId"`
}

// bindJoinInput 讀取可選的 {name, playerId}，空的請求內容視為全部預設
func bindJoinInput(c *gin.Context) (joinInput, bool) {
	var input joinInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, game.ErrBadCommand)
		return input, false
	}
	input.PlayerID = strings.TrimSpace(input.PlayerID)
	return input, true
}

// CreateRoom 處理創建新房間的請求
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	input, ok := bindJoinInput(c)
	if !ok {
		return
	}
	if input.PlayerID == "" {
		input.PlayerID = game.RandomID("p")
	}

	room, err := h.sessions.Create(c.Request.Context(), input.PlayerID, input.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.tokens.GenerateToken(input.PlayerID, room.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"ok":       true,
		"code":     room.Code,
		"playerId": input.PlayerID,
		"token":    token,
		"room":     room,
	})
}

// JoinRoom 處理加入房間的請求，直接採用客戶端保存的 playerId，沒有時產生新的
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	input, ok := bindJoinInput(c)
	if !ok {
		return
	}
	if input.PlayerID == "" {
		input.PlayerID = game.RandomID("p")
	}

	res, err := h.sessions.Join(c.Request.Context(), c.Param("code"), input.PlayerID, input.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondSession(c, input.PlayerID, res.Room)
}

// RejoinRoom 以保存的身分重新加入，失敗時要求客戶端清除 session
func (h *RoomHandler) RejoinRoom(c *gin.Context) {
	input, ok := bindJoinInput(c)
	if !ok {
		return
	}

	res, err := h.sessions.Rejoin(c.Request.Context(), c.Param("code"), input.PlayerID, input.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondSession(c, input.PlayerID, res.Room)
}

func (h *RoomHandler) respondSession(c *gin.Context, playerID string, room *models.Room) {
	token, err := h.tokens.GenerateToken(playerID, room.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"playerId": playerID,
		"token":    token,
		"room":     room,
	})
}

// GetRoom 處理獲取房間狀態的請求
func (h *RoomHandler) GetRoom(c *gin.Context) {
	res, err := h.sessions.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "room": res.Room, "version": res.Version})
}

// LeaveRoom 處理離開房間的請求
func (h *RoomHandler) LeaveRoom(c *gin.Context) {
	res, err := h.sessions.Leave(c.Request.Context(), c.Param("code"), middleware.PlayerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "room": res.Room})
}

// RoomQRCode 回傳加入房間網址的 QR code
func (h *RoomHandler) RoomQRCode(c *gin.Context) {
	code := game.NormalizeCode(c.Param("code"))
	if code == "" {
		respondError(c, game.ErrNoCode)
		return
	}

	joinURL := h.publicURL + "/?code=" + url.QueryEscape(code)
	png, err := qrcode.Encode(joinURL, qrcode.Medium, qrSize)
	if err != nil {
		log.Error().Err(err).Str("room", code).Msg("qr generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
