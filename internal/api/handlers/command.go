package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"party_quiz/internal/game"
	"party_quiz/internal/middleware"
	"party_quiz/internal/service"
)

// maxCommandBody 限制指令請求內容大小
const maxCommandBody = 16 << 10

// CommandHandler 接收玩家指令並在房間交易中執行
type CommandHandler struct {
	games *service.GameService
}

func NewCommandHandler(games *service.GameService) *CommandHandler {
	return &CommandHandler{games: games}
}

// ExecuteCommand 處理 POST /rooms/:code/commands
func (h *CommandHandler) ExecuteCommand(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxCommandBody)
	body, err := c.GetRawData()
	if err != nil {
		respondError(c, game.ErrBadCommand)
		return
	}

	cmd, err := service.DecodeCommand(body)
	if err != nil {
		respondError(c, err)
		return
	}

	res, err := h.games.Execute(c.Request.Context(), c.Param("code"), middleware.PlayerID(c), cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "room": res.Room})
}
