package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"party_quiz/internal/service"
)

// RoundHandler 提供回合內容的唯讀查詢
type RoundHandler struct {
	rounds *service.RoundService
}

func NewRoundHandler(rounds *service.RoundService) *RoundHandler {
	return &RoundHandler{rounds: rounds}
}

// ListRounds 依類別分組列出回合
func (h *RoundHandler) ListRounds(c *gin.Context) {
	index, err := h.rounds.Index(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "rounds": index})
}

// GetRound 回傳完整的回合定義
func (h *RoundHandler) GetRound(c *gin.Context) {
	round, err := h.rounds.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "round": round})
}
